package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match references an unknown team")
	ErrMatchNumberTaken = errors.New("match number already taken in this round")
	ErrMatchSlotInvalid = errors.New("match references an unknown slot")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByBracket(ctx context.Context, bracketID int) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, id int, score models.Score, status models.MatchStatus, winnerID *int) error
	UpdateTeams(ctx context.Context, exec SQLExecutor, id int, team1ID, team2ID *int, status models.MatchStatus) error
	UpdateScheduling(ctx context.Context, exec SQLExecutor, match *models.Match) error
	ClearSchedulingByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	DeleteByBracket(ctx context.Context, exec SQLExecutor, bracketID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, bracket_id, round, match_number, team1_id, team2_id,
	status, score, winner_id, slot_id, scheduled_at, court, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	scoreJSON, err := json.Marshal(match.Score)
	if err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}

	query := `
		INSERT INTO matches
			(tournament_id, bracket_id, round, match_number, team1_id, team2_id, status, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err = exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.BracketID,
		match.Round,
		match.MatchNumber,
		match.Team1ID,
		match.Team2ID,
		match.Status,
		scoreJSON,
	).Scan(&match.ID, &match.CreatedAt)
	return r.handleMatchError(err)
}

func scanMatch(scan func(...interface{}) error) (*models.Match, error) {
	match := &models.Match{}
	var scoreJSON []byte
	err := scan(
		&match.ID,
		&match.TournamentID,
		&match.BracketID,
		&match.Round,
		&match.MatchNumber,
		&match.Team1ID,
		&match.Team2ID,
		&match.Status,
		&scoreJSON,
		&match.WinnerID,
		&match.SlotID,
		&match.ScheduledAt,
		&match.Court,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(scoreJSON, &match.Score); err != nil {
		return nil, fmt.Errorf("failed to decode score for match %d: %w", match.ID, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByBracket(ctx context.Context, bracketID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE bracket_id = $1 ORDER BY round ASC, match_number ASC`
	return r.list(ctx, query, bracketID)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY round ASC, match_number ASC`
	return r.list(ctx, query, args...)
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, id int, score models.Score, status models.MatchStatus, winnerID *int) error {
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET score = $1, status = $2, winner_id = $3 WHERE id = $4`,
		scoreJSON, status, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, exec SQLExecutor, id int, team1ID, team2ID *int, status models.MatchStatus) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET team1_id = $1, team2_id = $2, status = $3 WHERE id = $4`,
		team1ID, team2ID, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdateScheduling persists the match's slot binding render cache.
func (r *postgresMatchRepository) UpdateScheduling(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	var scheduledAt *time.Time
	if match.ScheduledAt != nil {
		utc := match.ScheduledAt.UTC()
		scheduledAt = &utc
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET slot_id = $1, scheduled_at = $2, court = $3, status = $4 WHERE id = $5`,
		match.SlotID, scheduledAt, match.Court, match.Status, match.ID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// ClearSchedulingByTournament drops every match's slot reference, used when
// the slot set is regenerated and all previous bindings become invalid.
// In-progress and completed matches keep their status.
func (r *postgresMatchRepository) ClearSchedulingByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := exec.ExecContext(ctx,
		`UPDATE matches SET slot_id = NULL, scheduled_at = NULL, court = NULL WHERE tournament_id = $1`,
		tournamentID)
	return err
}

func (r *postgresMatchRepository) DeleteByBracket(ctx context.Context, exec SQLExecutor, bracketID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE bracket_id = $1`, bracketID)
	return err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_team1_id_fkey", "matches_team2_id_fkey", "matches_winner_id_fkey":
				return ErrMatchTeamInvalid
			case "matches_slot_id_fkey":
				return ErrMatchSlotInvalid
			}
		case "23505": // unique_violation
			if pqErr.Constraint == "matches_bracket_round_number_key" {
				return ErrMatchNumberTaken
			}
		}
	}
	return err
}
