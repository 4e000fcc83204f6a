package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var ErrScheduleNotFound = errors.New("schedule not found")

type ScheduleRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, schedule *models.Schedule) error
	GetByTournament(ctx context.Context, tournamentID int) (*models.Schedule, error)
	UpdateCounters(ctx context.Context, exec SQLExecutor, tournamentID, totalMatches, scheduledMatches int) error
}

type postgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) ScheduleRepository {
	return &postgresScheduleRepository{db: db}
}

// Upsert replaces the tournament's schedule summary wholesale; only the
// counters are ever mutated in place (UpdateCounters).
func (r *postgresScheduleRepository) Upsert(ctx context.Context, exec SQLExecutor, schedule *models.Schedule) error {
	query := `
		INSERT INTO schedules
			(tournament_id, start_date, end_date, daily_start_time, daily_end_time,
			 courts, slot_duration_minutes, break_duration_minutes,
			 total_matches, scheduled_matches, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (tournament_id) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			daily_start_time = EXCLUDED.daily_start_time,
			daily_end_time = EXCLUDED.daily_end_time,
			courts = EXCLUDED.courts,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			break_duration_minutes = EXCLUDED.break_duration_minutes,
			total_matches = EXCLUDED.total_matches,
			scheduled_matches = EXCLUDED.scheduled_matches,
			generated_at = NOW()
		RETURNING id, generated_at`

	return exec.QueryRowContext(ctx, query,
		schedule.TournamentID,
		schedule.StartDate,
		schedule.EndDate,
		schedule.DailyStartTime,
		schedule.DailyEndTime,
		pq.StringArray(schedule.Courts),
		schedule.SlotDurationMinutes,
		schedule.BreakDurationMinutes,
		schedule.TotalMatches,
		schedule.ScheduledMatches,
	).Scan(&schedule.ID, &schedule.GeneratedAt)
}

func (r *postgresScheduleRepository) GetByTournament(ctx context.Context, tournamentID int) (*models.Schedule, error) {
	query := `
		SELECT id, tournament_id, start_date, end_date, daily_start_time, daily_end_time,
		       courts, slot_duration_minutes, break_duration_minutes,
		       total_matches, scheduled_matches, generated_at
		FROM schedules
		WHERE tournament_id = $1`

	schedule := &models.Schedule{}
	var courts pq.StringArray
	err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(
		&schedule.ID,
		&schedule.TournamentID,
		&schedule.StartDate,
		&schedule.EndDate,
		&schedule.DailyStartTime,
		&schedule.DailyEndTime,
		&courts,
		&schedule.SlotDurationMinutes,
		&schedule.BreakDurationMinutes,
		&schedule.TotalMatches,
		&schedule.ScheduledMatches,
		&schedule.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	schedule.Courts = courts
	return schedule, nil
}

func (r *postgresScheduleRepository) UpdateCounters(ctx context.Context, exec SQLExecutor, tournamentID, totalMatches, scheduledMatches int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE schedules SET total_matches = $1, scheduled_matches = $2 WHERE tournament_id = $3`,
		totalMatches, scheduledMatches, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScheduleNotFound)
}
