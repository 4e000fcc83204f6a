package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var ErrTeamNotFound = errors.New("team not found")

// TeamRepository reads the seeded team list. Roster management is external;
// teams referenced by matches are soft-deactivated, never deleted, so the
// engine can always resolve a reference.
type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int, activeOnly bool) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, tournament_id, name, player_ids, seed, skill_level, active, created_at`

func scanTeam(scan func(...interface{}) error) (*models.Team, error) {
	team := &models.Team{}
	var playerIDs pq.Int64Array
	err := scan(
		&team.ID,
		&team.TournamentID,
		&team.Name,
		&playerIDs,
		&team.Seed,
		&team.SkillLevel,
		&team.Active,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	team.PlayerIDs = make([]int, len(playerIDs))
	for i, id := range playerIDs {
		team.PlayerIDs[i] = int(id)
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int, activeOnly bool) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY seed ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, scanErr := scanTeam(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
