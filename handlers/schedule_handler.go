package handlers

import (
	"errors"
	"net/http"

	"github.com/roel-sundiam/tennis-tournament-management/models"
	"github.com/roel-sundiam/tennis-tournament-management/services"
)

var (
	errInvalidSlotID   = errors.New("slot_id must be a positive integer")
	errInvalidMatchIDs = errors.New("match_a_id and match_b_id must be positive integers")
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// GenerateScheduleHandler regenerates the tournament's time slots from its
// current scheduling parameters.
func (h *ScheduleHandler) GenerateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, err := h.scheduleService.GenerateSchedule(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"schedule": data}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) GetScheduleHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, err := h.scheduleService.GetSchedule(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": data}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListSlotsHandler lists a tournament's time slots, optionally filtered
// with ?status=.
func (h *ScheduleHandler) ListSlotsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.SlotStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.SlotStatus(v)
		status = &s
	}

	slots, err := h.scheduleService.ListSlots(r.Context(), tournamentID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"slots": slots}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignMatchesHandler books available slots for every schedulable match.
func (h *ScheduleHandler) AssignMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, err := h.scheduleService.AssignMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": data}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type rescheduleRequest struct {
	SlotID int `json:"slot_id"`
}

// RescheduleMatchHandler moves a match onto a specific slot.
func (h *ScheduleHandler) RescheduleMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input rescheduleRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.SlotID <= 0 {
		badRequestResponse(w, r, errInvalidSlotID)
		return
	}

	match, err := h.scheduleService.RescheduleMatch(r.Context(), matchID, input.SlotID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type swapSlotsRequest struct {
	MatchAID int `json:"match_a_id"`
	MatchBID int `json:"match_b_id"`
}

// SwapSlotsHandler exchanges the slots of two scheduled matches.
func (h *ScheduleHandler) SwapSlotsHandler(w http.ResponseWriter, r *http.Request) {
	var input swapSlotsRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.MatchAID <= 0 || input.MatchBID <= 0 {
		badRequestResponse(w, r, errInvalidMatchIDs)
		return
	}

	if err := h.scheduleService.SwapMatchSlots(r.Context(), input.MatchAID, input.MatchBID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "slots swapped"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
