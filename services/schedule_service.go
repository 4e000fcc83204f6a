package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roel-sundiam/tennis-tournament-management/models"
	"github.com/roel-sundiam/tennis-tournament-management/repositories"
	"github.com/roel-sundiam/tennis-tournament-management/scheduling"
)

// ScheduleData is the schedule view: the summary row, the slot set and the
// matches with their current bindings.
type ScheduleData struct {
	Schedule *models.Schedule   `json:"schedule"`
	Slots    []*models.TimeSlot `json:"slots"`
	Matches  []*models.Match    `json:"matches"`
}

type ScheduleService interface {
	GenerateSchedule(ctx context.Context, tournamentID int) (*ScheduleData, error)
	GetSchedule(ctx context.Context, tournamentID int) (*ScheduleData, error)
	ListSlots(ctx context.Context, tournamentID int, status *models.SlotStatus) ([]*models.TimeSlot, error)
	AssignMatches(ctx context.Context, tournamentID int) (*ScheduleData, error)
	RescheduleMatch(ctx context.Context, matchID, slotID int) (*models.Match, error)
	SwapMatchSlots(ctx context.Context, matchAID, matchBID int) error
}

type scheduleService struct {
	tx             TxRunner
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	slotRepo       repositories.TimeSlotRepository
	scheduleRepo   repositories.ScheduleRepository
	slotMaxDays    int
	locks          *LockTable
	logger         *slog.Logger
}

func NewScheduleService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	slotRepo repositories.TimeSlotRepository,
	scheduleRepo repositories.ScheduleRepository,
	slotMaxDays int,
	locks *LockTable,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		slotRepo:       slotRepo,
		scheduleRepo:   scheduleRepo,
		slotMaxDays:    slotMaxDays,
		locks:          locks,
		logger:         logger,
	}
}

// GenerateSchedule rebuilds the tournament's slot set from its current
// parameters. The old set is deleted and every match binding cleared in the
// same transaction, so a failure leaves the previous schedule untouched.
// Matches are assigned afterwards in a separate step.
func (s *scheduleService) GenerateSchedule(ctx context.Context, tournamentID int) (*ScheduleData, error) {
	release := s.locks.Acquire(tournamentID)
	defer release()

	tournament, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	slots, err := scheduling.GenerateSlots(tournament, s.slotMaxDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	schedule := &models.Schedule{
		TournamentID:        tournamentID,
		StartDate:           tournament.StartDate,
		EndDate:             tournament.EndDate,
		DailyStartTime:      tournament.DailyStartTime,
		DailyEndTime:        tournament.DailyEndTime,
		Courts:              tournament.AvailableCourts,
		SlotDurationMinutes: tournament.MatchDurationMinutes,
	}

	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		if delErr := s.slotRepo.DeleteByTournament(ctx, exec, tournamentID); delErr != nil {
			return fmt.Errorf("failed to delete old slots for tournament %d: %w", tournamentID, delErr)
		}
		if clrErr := s.matchRepo.ClearSchedulingByTournament(ctx, exec, tournamentID); clrErr != nil {
			return fmt.Errorf("failed to clear match bindings for tournament %d: %w", tournamentID, clrErr)
		}
		if insErr := s.slotRepo.BulkInsert(ctx, exec, slots); insErr != nil {
			return fmt.Errorf("%w: %w", ErrGenerationFailed, insErr)
		}
		return s.scheduleRepo.Upsert(ctx, exec, schedule)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schedule generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("slots", len(slots)),
		slog.Int("courts", len(tournament.AvailableCourts)))

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return &ScheduleData{Schedule: schedule, Slots: slots, Matches: matches}, nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, tournamentID int) (*ScheduleData, error) {
	schedule, err := s.scheduleRepo.GetByTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return nil, fmt.Errorf("%w: tournament %d", ErrScheduleNotFound, tournamentID)
		}
		return nil, err
	}
	slots, err := s.slotRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for tournament %d: %w", tournamentID, err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return &ScheduleData{Schedule: schedule, Slots: slots, Matches: matches}, nil
}

func (s *scheduleService) ListSlots(ctx context.Context, tournamentID int, status *models.SlotStatus) ([]*models.TimeSlot, error) {
	if status != nil {
		switch *status {
		case models.SlotStatusAvailable, models.SlotStatusBooked:
		default:
			return nil, fmt.Errorf("%w: unknown slot status %q", ErrValidationFailed, *status)
		}
	}
	slots, err := s.slotRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for tournament %d: %w", tournamentID, err)
	}
	return slots, nil
}

// AssignMatches greedily books available slots for every unscheduled match
// with resolved teams. Re-running it is safe: already-bound matches are
// skipped, so each run only fills gaps left by the previous one.
func (s *scheduleService) AssignMatches(ctx context.Context, tournamentID int) (*ScheduleData, error) {
	release := s.locks.Acquire(tournamentID)
	defer release()

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	slots, err := s.slotRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for tournament %d: %w", tournamentID, err)
	}

	bindings := scheduling.AssignMatches(matches, slots)
	total, scheduled := scheduleCounters(matches)

	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, b := range bindings {
			if updErr := s.matchRepo.UpdateScheduling(ctx, exec, b.Match); updErr != nil {
				return fmt.Errorf("failed to bind match %d: %w", b.Match.ID, updErr)
			}
			if updErr := s.slotRepo.UpdateBinding(ctx, exec, b.Slot); updErr != nil {
				return fmt.Errorf("failed to book slot %d: %w", b.Slot.ID, updErr)
			}
		}
		if cntErr := s.scheduleRepo.UpdateCounters(ctx, exec, tournamentID, total, scheduled); cntErr != nil {
			if errors.Is(cntErr, repositories.ErrScheduleNotFound) {
				// No schedule summary yet; bindings still count.
				return nil
			}
			return cntErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("matches assigned",
		slog.Int("tournament_id", tournamentID),
		slog.Int("bound", len(bindings)),
		slog.Int("total_matches", total),
		slog.Int("scheduled_matches", scheduled))

	schedule, err := s.scheduleRepo.GetByTournament(ctx, tournamentID)
	if err != nil && !errors.Is(err, repositories.ErrScheduleNotFound) {
		return nil, err
	}
	return &ScheduleData{Schedule: schedule, Slots: slots, Matches: matches}, nil
}

// RescheduleMatch moves one match onto a specific slot, freeing its current
// slot. The target must be free or already held by this match.
func (s *scheduleService) RescheduleMatch(ctx context.Context, matchID, slotID int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(match.TournamentID)
	defer release()

	match, err = s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: match %d", ErrMatchAlreadyCompleted, matchID)
	}

	target, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if target.TournamentID != match.TournamentID {
		return nil, fmt.Errorf("%w: slot %d belongs to tournament %d", ErrValidationFailed, slotID, target.TournamentID)
	}

	var current *models.TimeSlot
	if match.SlotID != nil && *match.SlotID != slotID {
		current, err = s.loadSlot(ctx, *match.SlotID)
		if err != nil {
			return nil, err
		}
	}

	if err := scheduling.Reschedule(match, current, target); err != nil {
		if errors.Is(err, scheduling.ErrSlotConflict) {
			return nil, fmt.Errorf("%w: %w", ErrSlotConflict, err)
		}
		return nil, err
	}

	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		if current != nil {
			if updErr := s.slotRepo.UpdateBinding(ctx, exec, current); updErr != nil {
				return fmt.Errorf("failed to free slot %d: %w", current.ID, updErr)
			}
		}
		if updErr := s.slotRepo.UpdateBinding(ctx, exec, target); updErr != nil {
			return fmt.Errorf("failed to book slot %d: %w", target.ID, updErr)
		}
		return s.matchRepo.UpdateScheduling(ctx, exec, match)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match rescheduled",
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("match_id", matchID),
		slog.Int("slot_id", slotID))
	return match, nil
}

// SwapMatchSlots exchanges the slots of two scheduled matches atomically.
func (s *scheduleService) SwapMatchSlots(ctx context.Context, matchAID, matchBID int) error {
	if matchAID == matchBID {
		return fmt.Errorf("%w: cannot swap a match with itself", ErrValidationFailed)
	}

	matchA, err := s.loadMatch(ctx, matchAID)
	if err != nil {
		return err
	}

	release := s.locks.Acquire(matchA.TournamentID)
	defer release()

	matchA, err = s.loadMatch(ctx, matchAID)
	if err != nil {
		return err
	}
	matchB, err := s.loadMatch(ctx, matchBID)
	if err != nil {
		return err
	}
	if matchA.TournamentID != matchB.TournamentID {
		return fmt.Errorf("%w: matches %d and %d belong to different tournaments",
			ErrValidationFailed, matchAID, matchBID)
	}
	if matchA.Status == models.MatchStatusCompleted || matchB.Status == models.MatchStatusCompleted {
		return fmt.Errorf("%w: completed matches keep their slot", ErrMatchAlreadyCompleted)
	}

	slotA, err := s.boundSlot(ctx, matchA)
	if err != nil {
		return err
	}
	slotB, err := s.boundSlot(ctx, matchB)
	if err != nil {
		return err
	}

	if err := scheduling.SwapSlots(matchA, matchB, slotA, slotB); err != nil {
		if errors.Is(err, scheduling.ErrMatchNotScheduled) {
			return fmt.Errorf("%w: %w", ErrMatchNotScheduled, err)
		}
		return err
	}

	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, slot := range []*models.TimeSlot{slotA, slotB} {
			if updErr := s.slotRepo.UpdateBinding(ctx, exec, slot); updErr != nil {
				return fmt.Errorf("failed to update slot %d: %w", slot.ID, updErr)
			}
		}
		for _, match := range []*models.Match{matchA, matchB} {
			if updErr := s.matchRepo.UpdateScheduling(ctx, exec, match); updErr != nil {
				return fmt.Errorf("failed to update match %d: %w", match.ID, updErr)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("match slots swapped",
		slog.Int("tournament_id", matchA.TournamentID),
		slog.Int("match_a", matchAID),
		slog.Int("match_b", matchBID))
	return nil
}

func scheduleCounters(matches []*models.Match) (total, scheduled int) {
	total = len(matches)
	for _, m := range matches {
		if m.SlotID != nil {
			scheduled++
		}
	}
	return total, scheduled
}

func (s *scheduleService) loadTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTournamentNotFound, tournamentID)
		}
		return nil, err
	}
	return tournament, nil
}

func (s *scheduleService) loadMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
		}
		return nil, err
	}
	return match, nil
}

func (s *scheduleService) loadSlot(ctx context.Context, slotID int) (*models.TimeSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repositories.ErrSlotNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrSlotNotFound, slotID)
		}
		return nil, err
	}
	return slot, nil
}

// boundSlot loads the slot a match currently holds, or reports the match as
// unscheduled.
func (s *scheduleService) boundSlot(ctx context.Context, match *models.Match) (*models.TimeSlot, error) {
	if match.SlotID == nil {
		return nil, fmt.Errorf("%w: match %d", ErrMatchNotScheduled, match.ID)
	}
	return s.loadSlot(ctx, *match.SlotID)
}
