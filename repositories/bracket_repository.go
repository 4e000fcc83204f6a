package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var (
	ErrBracketNotFound          = errors.New("bracket not found")
	ErrBracketTournamentInvalid = errors.New("bracket references an unknown tournament")
)

type BracketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error
	GetActiveByTournament(ctx context.Context, tournamentID int) (*models.Bracket, error)
	ArchiveByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	UpdateRounds(ctx context.Context, exec SQLExecutor, id int, rounds []models.BracketRound) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error {
	roundsJSON, err := json.Marshal(bracket.Rounds)
	if err != nil {
		return fmt.Errorf("failed to encode bracket rounds: %w", err)
	}
	teamIDs := make(pq.Int64Array, len(bracket.TeamIDs))
	for i, id := range bracket.TeamIDs {
		teamIDs[i] = int64(id)
	}

	query := `
		INSERT INTO brackets (tournament_id, format, team_ids, total_rounds, rounds, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = exec.QueryRowContext(ctx, query,
		bracket.TournamentID,
		bracket.Format,
		teamIDs,
		bracket.TotalRounds,
		roundsJSON,
		bracket.Status,
	).Scan(&bracket.ID, &bracket.CreatedAt)
	return r.handleBracketError(err)
}

func (r *postgresBracketRepository) GetActiveByTournament(ctx context.Context, tournamentID int) (*models.Bracket, error) {
	query := `
		SELECT id, tournament_id, format, team_ids, total_rounds, rounds, status, created_at
		FROM brackets
		WHERE tournament_id = $1 AND status = $2`

	bracket := &models.Bracket{}
	var teamIDs pq.Int64Array
	var roundsJSON []byte
	err := r.db.QueryRowContext(ctx, query, tournamentID, models.BracketStatusActive).Scan(
		&bracket.ID,
		&bracket.TournamentID,
		&bracket.Format,
		&teamIDs,
		&bracket.TotalRounds,
		&roundsJSON,
		&bracket.Status,
		&bracket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}

	bracket.TeamIDs = make([]int, len(teamIDs))
	for i, id := range teamIDs {
		bracket.TeamIDs[i] = int(id)
	}
	if err := json.Unmarshal(roundsJSON, &bracket.Rounds); err != nil {
		return nil, fmt.Errorf("failed to decode rounds for bracket %d: %w", bracket.ID, err)
	}
	return bracket, nil
}

// ArchiveByTournament invalidates every active bracket of the tournament.
// Archiving nothing is not an error; regeneration runs it unconditionally.
func (r *postgresBracketRepository) ArchiveByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `UPDATE brackets SET status = $1 WHERE tournament_id = $2 AND status = $3`
	_, err := exec.ExecContext(ctx, query, models.BracketStatusArchived, tournamentID, models.BracketStatusActive)
	return err
}

func (r *postgresBracketRepository) UpdateRounds(ctx context.Context, exec SQLExecutor, id int, rounds []models.BracketRound) error {
	roundsJSON, err := json.Marshal(rounds)
	if err != nil {
		return fmt.Errorf("failed to encode bracket rounds: %w", err)
	}
	result, err := exec.ExecContext(ctx, `UPDATE brackets SET rounds = $1 WHERE id = $2`, roundsJSON, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) handleBracketError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		if pqErr.Constraint == "brackets_tournament_id_fkey" {
			return ErrBracketTournamentInvalid
		}
	}
	return err
}
