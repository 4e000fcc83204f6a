package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roel-sundiam/tennis-tournament-management/models"
	"github.com/roel-sundiam/tennis-tournament-management/repositories"
	"github.com/roel-sundiam/tennis-tournament-management/scoring"
)

type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	StartMatch(ctx context.Context, matchID int) (*models.Match, error)
	AwardPoint(ctx context.Context, matchID int, side models.Side) (*models.Match, error)
}

type matchService struct {
	tx             TxRunner
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	bracketService BracketService
	locks          *LockTable
	logger         *slog.Logger
}

func NewMatchService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	bracketService BracketService,
	locks *LockTable,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		bracketService: bracketService,
		locks:          locks,
		logger:         logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	if status != nil {
		switch *status {
		case models.MatchStatusPending, models.MatchStatusScheduled,
			models.MatchStatusInProgress, models.MatchStatusCompleted:
		default:
			return nil, fmt.Errorf("%w: unknown match status %q", ErrValidationFailed, *status)
		}
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

// StartMatch transitions a match into play before the first point. Awarding
// a point does the same implicitly, so this only exists for the explicit
// "match under way" signal.
func (s *matchService) StartMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(match.TournamentID)
	defer release()

	switch match.Status {
	case models.MatchStatusCompleted:
		return nil, fmt.Errorf("%w: match %d", ErrMatchAlreadyCompleted, matchID)
	case models.MatchStatusInProgress:
		return match, nil
	}
	if !match.Resolved() {
		return nil, fmt.Errorf("%w: match %d", ErrMatchTeamsUnresolved, matchID)
	}

	match.Status = models.MatchStatusInProgress
	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.UpdateScore(ctx, exec, matchID, match.Score, match.Status, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start match %d: %w", matchID, err)
	}

	s.logger.Info("match started",
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("match_id", matchID))
	return match, nil
}

// AwardPoint scores one point for side and persists the resulting state.
// The first point moves a pending or scheduled match to in_progress; the
// point that decides the match completes it and pushes the winner into the
// next round.
func (s *matchService) AwardPoint(ctx context.Context, matchID int, side models.Side) (*models.Match, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("%w: unknown side %q", ErrValidationFailed, side)
	}

	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(match.TournamentID)
	defer func() { release() }()

	// Reload under the lock: a concurrent point may have completed the match.
	match, err = s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: match %d", ErrMatchAlreadyCompleted, matchID)
	}
	if !match.Resolved() {
		return nil, fmt.Errorf("%w: match %d", ErrMatchTeamsUnresolved, matchID)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTournamentNotFound, match.TournamentID)
		}
		return nil, err
	}
	matchFormat, err := scoring.MatchFormatFor(tournament.GameFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	next, err := scoring.AwardPoint(match.Score, side, matchFormat, tournament.GameFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	match.Score = next
	if next.Winner != nil {
		match.Status = models.MatchStatusCompleted
		match.WinnerID = match.TeamID(*next.Winner)
	} else {
		match.Status = models.MatchStatusInProgress
	}

	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.UpdateScore(ctx, exec, matchID, match.Score, match.Status, match.WinnerID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist score for match %d: %w", matchID, err)
	}

	if match.Status != models.MatchStatusCompleted {
		return match, nil
	}

	s.logger.Info("match completed",
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("match_id", matchID),
		slog.Int("winner_team_id", *match.WinnerID))

	// Advancement acquires the same tournament lock; release before the call.
	release()
	release = func() {}

	if advErr := s.bracketService.AdvanceWinner(ctx, matchID); advErr != nil {
		// The score is committed; a failed advancement is re-runnable and
		// must not surface as a scoring failure.
		s.logger.Error("advancement after match completion failed",
			slog.Int("match_id", matchID), slog.Any("error", advErr))
	}
	return match, nil
}
