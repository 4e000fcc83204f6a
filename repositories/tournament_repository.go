package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentRepository reads tournament descriptors. Tournament CRUD itself
// belongs to the administration layer; the engine only consumes them.
type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, format, game_format, match_duration_minutes,
		       daily_start_time, daily_end_time, available_courts,
		       start_date, end_date, auto_schedule_enabled, created_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var courts pq.StringArray
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Format,
		&t.GameFormat,
		&t.MatchDurationMinutes,
		&t.DailyStartTime,
		&t.DailyEndTime,
		&courts,
		&t.StartDate,
		&t.EndDate,
		&t.AutoScheduleEnabled,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	t.AvailableCourts = courts
	return t, nil
}
