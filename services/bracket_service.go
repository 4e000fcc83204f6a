package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roel-sundiam/tennis-tournament-management/brackets"
	"github.com/roel-sundiam/tennis-tournament-management/models"
	"github.com/roel-sundiam/tennis-tournament-management/repositories"
)

// BracketData is the full bracket view handed back to the CRUD layer for
// rendering: the denormalized tree plus every match.
type BracketData struct {
	Bracket *models.Bracket `json:"bracket"`
	Matches []*models.Match `json:"matches"`
	Teams   []*models.Team  `json:"teams,omitempty"`
}

type BracketService interface {
	GenerateBracket(ctx context.Context, tournamentID int) (*BracketData, error)
	GetBracket(ctx context.Context, tournamentID int) (*BracketData, error)
	AdvanceWinner(ctx context.Context, matchID int) error
}

type bracketService struct {
	tx              TxRunner
	tournamentRepo  repositories.TournamentRepository
	teamRepo        repositories.TeamRepository
	bracketRepo     repositories.BracketRepository
	matchRepo       repositories.MatchRepository
	slotRepo        repositories.TimeSlotRepository
	scheduleService ScheduleService
	locks           *LockTable
	logger          *slog.Logger
}

func NewBracketService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	bracketRepo repositories.BracketRepository,
	matchRepo repositories.MatchRepository,
	slotRepo repositories.TimeSlotRepository,
	scheduleService ScheduleService,
	locks *LockTable,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		teamRepo:        teamRepo,
		bracketRepo:     bracketRepo,
		matchRepo:       matchRepo,
		slotRepo:        slotRepo,
		scheduleService: scheduleService,
		locks:           locks,
		logger:          logger,
	}
}

// GenerateBracket builds and persists a bracket from the tournament's
// seeded team list. Any previous bracket is archived and its matches
// deleted in the same transaction, so exactly one active bracket exists
// per tournament. When auto-scheduling is enabled, freshly created matches
// are assigned to slots right away.
func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID int) (*BracketData, error) {
	release := s.locks.Acquire(tournamentID)
	defer func() { release() }()

	tournament, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}

	generator, err := brackets.GeneratorFor(tournament.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	generation, err := generator.Generate(ctx, brackets.GenerateParams{
		Tournament: tournament,
		Teams:      teams,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		previous, getErr := s.bracketRepo.GetActiveByTournament(ctx, tournamentID)
		switch {
		case getErr == nil:
			if delErr := s.matchRepo.DeleteByBracket(ctx, exec, previous.ID); delErr != nil {
				return fmt.Errorf("failed to delete matches of bracket %d: %w", previous.ID, delErr)
			}
			if relErr := s.slotRepo.ReleaseByTournament(ctx, exec, tournamentID); relErr != nil {
				return fmt.Errorf("failed to release slots for tournament %d: %w", tournamentID, relErr)
			}
			if archErr := s.bracketRepo.ArchiveByTournament(ctx, exec, tournamentID); archErr != nil {
				return fmt.Errorf("failed to archive bracket %d: %w", previous.ID, archErr)
			}
		case errors.Is(getErr, repositories.ErrBracketNotFound):
			// First generation for this tournament.
		default:
			return getErr
		}

		if createErr := s.bracketRepo.Create(ctx, exec, &generation.Bracket); createErr != nil {
			return fmt.Errorf("failed to create bracket: %w", createErr)
		}
		for _, match := range generation.Matches {
			match.BracketID = generation.Bracket.ID
			if createErr := s.matchRepo.Create(ctx, exec, match); createErr != nil {
				return fmt.Errorf("failed to create match (round %d, match %d): %w",
					match.Round, match.MatchNumber, createErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("format", string(tournament.Format)),
		slog.Int("teams", len(teams)),
		slog.Int("matches", len(generation.Matches)))

	if tournament.AutoScheduleEnabled {
		// AssignMatches takes the same tournament lock; release it first.
		release()
		release = func() {}
		if _, schedErr := s.scheduleService.AssignMatches(ctx, tournamentID); schedErr != nil {
			// Scheduling is re-runnable; a failure here does not undo the bracket.
			s.logger.Error("auto-scheduling after bracket generation failed",
				slog.Int("tournament_id", tournamentID), slog.Any("error", schedErr))
		}
	}

	return &BracketData{Bracket: &generation.Bracket, Matches: generation.Matches, Teams: teams}, nil
}

// GetBracket loads the active bracket, its matches and its teams in
// parallel.
func (s *bracketService) GetBracket(ctx context.Context, tournamentID int) (*BracketData, error) {
	data := &BracketData{}

	bracket, err := s.bracketRepo.GetActiveByTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketNotFound) {
			return nil, fmt.Errorf("%w: tournament %d", ErrBracketNotFound, tournamentID)
		}
		return nil, err
	}
	data.Bracket = bracket

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, listErr := s.matchRepo.ListByBracket(gCtx, bracket.ID)
		if listErr != nil {
			return fmt.Errorf("failed to list matches for bracket %d: %w", bracket.ID, listErr)
		}
		data.Matches = matches
		return nil
	})
	g.Go(func() error {
		teams, listErr := s.teamRepo.ListByTournament(gCtx, tournamentID, false)
		if listErr != nil {
			return fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, listErr)
		}
		data.Teams = teams
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// AdvanceWinner moves a completed match's winner into the next round.
// Safe to invoke redundantly: when the winner is already in place nothing
// is written. Completing the final is a no-op here, not an error.
func (s *bracketService) AdvanceWinner(ctx context.Context, matchID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return fmt.Errorf("%w: match %d", ErrMatchNotFound, matchID)
		}
		return err
	}

	release := s.locks.Acquire(match.TournamentID)
	defer release()

	bracket, err := s.bracketRepo.GetActiveByTournament(ctx, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketNotFound) {
			return fmt.Errorf("%w: tournament %d", ErrBracketNotFound, match.TournamentID)
		}
		return err
	}
	if bracket.Format != models.FormatSingleElimination {
		// Round-robin has no advancement phase.
		return nil
	}
	if match.BracketID != bracket.ID {
		return fmt.Errorf("%w: match %d belongs to archived bracket %d", ErrInconsistentBracket, matchID, match.BracketID)
	}
	if match.WinnerID == nil {
		return fmt.Errorf("%w: match %d is %s with no winner", ErrInconsistentBracket, matchID, match.Status)
	}

	all, err := s.matchRepo.ListByBracket(ctx, bracket.ID)
	if err != nil {
		return fmt.Errorf("failed to list matches for bracket %d: %w", bracket.ID, err)
	}
	// Advance against the freshly loaded copy of the completed match.
	var completed *models.Match
	for _, m := range all {
		if m.ID == matchID {
			completed = m
			break
		}
	}
	if completed == nil {
		return fmt.Errorf("%w: match %d missing from bracket %d", ErrInconsistentBracket, matchID, bracket.ID)
	}

	result, err := brackets.AdvanceWinner(completed, *match.WinnerID, all)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInconsistentBracket, err)
	}
	if result.TournamentComplete {
		s.logger.Info("tournament complete",
			slog.Int("tournament_id", match.TournamentID),
			slog.Int("winner_team_id", *match.WinnerID))
		return nil
	}
	if !result.Changed {
		return nil
	}

	target := result.Target
	brackets.SyncTree(bracket, target)

	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		if updErr := s.matchRepo.UpdateTeams(ctx, exec, target.ID, target.Team1ID, target.Team2ID, target.Status); updErr != nil {
			return fmt.Errorf("failed to update target match %d: %w", target.ID, updErr)
		}
		return s.bracketRepo.UpdateRounds(ctx, exec, bracket.ID, bracket.Rounds)
	})
	if err != nil {
		return err
	}

	s.logger.Info("winner advanced",
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("from_match", matchID),
		slog.Int("to_match", target.ID),
		slog.Int("team_id", *match.WinnerID))
	return nil
}

func (s *bracketService) loadTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTournamentNotFound, tournamentID)
		}
		return nil, err
	}
	return tournament, nil
}
