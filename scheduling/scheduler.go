package scheduling

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var (
	ErrSlotConflict      = errors.New("slot is booked by a different match")
	ErrMatchNotScheduled = errors.New("match holds no slot")
)

// Binding pairs a match with the slot it was assigned to.
type Binding struct {
	Match *models.Match
	Slot  *models.TimeSlot
}

// AssignMatches pairs schedulable matches with available slots 1:1.
// Candidates are pending matches with both teams resolved, plus scheduled
// matches that lost or never had a slot, ordered by (round, matchNumber).
// Slots are taken in start-time order. Leftover matches stay unscheduled;
// that is the normal state when courts are scarcer than matches.
//
// Both sides of every binding are mutated; persisting match and slot
// together is the caller's job.
func AssignMatches(matches []*models.Match, slots []*models.TimeSlot) []Binding {
	candidates := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.SlotID != nil {
			continue
		}
		switch m.Status {
		case models.MatchStatusPending:
			if m.Resolved() {
				candidates = append(candidates, m)
			}
		case models.MatchStatusScheduled:
			candidates = append(candidates, m)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Round != candidates[j].Round {
			return candidates[i].Round < candidates[j].Round
		}
		return candidates[i].MatchNumber < candidates[j].MatchNumber
	})

	free := make([]*models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Status == models.SlotStatusAvailable {
			free = append(free, s)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].StartTime.Before(free[j].StartTime) })

	n := len(candidates)
	if len(free) < n {
		n = len(free)
	}
	bindings := make([]Binding, 0, n)
	for i := 0; i < n; i++ {
		Bind(candidates[i], free[i])
		bindings = append(bindings, Binding{Match: candidates[i], Slot: free[i]})
	}
	return bindings
}

// Bind books a slot for a match and syncs the match's render cache.
func Bind(m *models.Match, s *models.TimeSlot) {
	s.Status = models.SlotStatusBooked
	s.MatchID = &m.ID

	slotID := s.ID
	start := s.StartTime
	court := s.Court
	m.SlotID = &slotID
	m.ScheduledAt = &start
	m.Court = &court
	if m.Status == models.MatchStatusPending {
		m.Status = models.MatchStatusScheduled
	}
}

// Free releases a slot and clears the match's scheduling cache.
func Free(m *models.Match, s *models.TimeSlot) {
	s.Status = models.SlotStatusAvailable
	s.MatchID = nil
	m.SlotID = nil
	m.ScheduledAt = nil
	m.Court = nil
}

// Reschedule moves a match onto target, releasing its current slot first.
// Valid targets: available slots, booked slots with no match reference
// (orphaned), or the match's own slot (restating the current assignment).
// A slot booked by a different match is rejected untouched.
func Reschedule(match *models.Match, current, target *models.TimeSlot) error {
	if target.Status == models.SlotStatusBooked && target.MatchID != nil && *target.MatchID != match.ID {
		return fmt.Errorf("%w: slot %d held by match %d, wanted by match %d",
			ErrSlotConflict, target.ID, *target.MatchID, match.ID)
	}
	if current != nil && current.ID != target.ID {
		Free(match, current)
	}
	Bind(match, target)
	return nil
}

// SwapSlots exchanges the slot bindings of two scheduled matches. Both
// matches must currently hold a slot; the caller persists all four records
// in one transaction so the exchange is atomic.
func SwapSlots(matchA, matchB *models.Match, slotA, slotB *models.TimeSlot) error {
	if matchA.SlotID == nil || slotA == nil {
		return fmt.Errorf("%w: match %d", ErrMatchNotScheduled, matchA.ID)
	}
	if matchB.SlotID == nil || slotB == nil {
		return fmt.Errorf("%w: match %d", ErrMatchNotScheduled, matchB.ID)
	}
	Bind(matchA, slotB)
	Bind(matchB, slotA)
	return nil
}
