package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var (
	ErrSlotNotFound  = errors.New("time slot not found")
	ErrSlotDuplicate = errors.New("duplicate slot for tournament, court and start time")
)

type TimeSlotRepository interface {
	BulkInsert(ctx context.Context, exec SQLExecutor, slots []*models.TimeSlot) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	GetByID(ctx context.Context, id int) (*models.TimeSlot, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.SlotStatus) ([]*models.TimeSlot, error)
	UpdateBinding(ctx context.Context, exec SQLExecutor, slot *models.TimeSlot) error
	ReleaseByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresTimeSlotRepository struct {
	db *sql.DB
}

func NewPostgresTimeSlotRepository(db *sql.DB) TimeSlotRepository {
	return &postgresTimeSlotRepository{db: db}
}

// BulkInsert writes a validated slot set in one statement. A duplicate
// (tournament, court, start_time) means the caller failed to clear the old
// set first; it maps to ErrSlotDuplicate so the whole generation can be
// rolled back and retried, never patched row by row.
func (r *postgresTimeSlotRepository) BulkInsert(ctx context.Context, exec SQLExecutor, slots []*models.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	tournamentIDs := make(pq.Int64Array, len(slots))
	courts := make(pq.StringArray, len(slots))
	starts := make([]string, len(slots))
	ends := make([]string, len(slots))
	statuses := make(pq.StringArray, len(slots))
	for i, slot := range slots {
		tournamentIDs[i] = int64(slot.TournamentID)
		courts[i] = slot.Court
		starts[i] = slot.StartTime.UTC().Format("2006-01-02T15:04:05Z07:00")
		ends[i] = slot.EndTime.UTC().Format("2006-01-02T15:04:05Z07:00")
		statuses[i] = string(slot.Status)
	}

	query := `
		INSERT INTO time_slots (tournament_id, court, start_time, end_time, status)
		SELECT * FROM unnest($1::int[], $2::text[], $3::timestamptz[], $4::timestamptz[], $5::slot_status[])
		RETURNING id`

	rows, err := exec.QueryContext(ctx, query,
		tournamentIDs, courts, pq.StringArray(starts), pq.StringArray(ends), statuses)
	if err != nil {
		return r.handleSlotError(err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(slots) {
			break
		}
		if scanErr := rows.Scan(&slots[i].ID); scanErr != nil {
			return scanErr
		}
		i++
	}
	return rows.Err()
}

// DeleteByTournament clears the whole slot set. Deleting nothing is fine;
// regeneration calls this unconditionally.
func (r *postgresTimeSlotRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM time_slots WHERE tournament_id = $1`, tournamentID)
	return err
}

const slotColumns = `id, tournament_id, court, start_time, end_time, status, match_id, created_at`

func scanSlot(scan func(...interface{}) error) (*models.TimeSlot, error) {
	slot := &models.TimeSlot{}
	err := scan(
		&slot.ID,
		&slot.TournamentID,
		&slot.Court,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
		&slot.MatchID,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (r *postgresTimeSlotRepository) GetByID(ctx context.Context, id int) (*models.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`
	slot, err := scanSlot(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (r *postgresTimeSlotRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.SlotStatus) ([]*models.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY start_time ASC, court ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*models.TimeSlot, 0)
	for rows.Next() {
		slot, scanErr := scanSlot(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *postgresTimeSlotRepository) UpdateBinding(ctx context.Context, exec SQLExecutor, slot *models.TimeSlot) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE time_slots SET status = $1, match_id = $2 WHERE id = $3`,
		slot.Status, slot.MatchID, slot.ID)
	if err != nil {
		return r.handleSlotError(err)
	}
	return checkAffectedRows(result, ErrSlotNotFound)
}

// ReleaseByTournament frees every booked slot of a tournament, used when
// the bracket (and with it every match) is regenerated.
func (r *postgresTimeSlotRepository) ReleaseByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := exec.ExecContext(ctx,
		`UPDATE time_slots SET status = $1, match_id = NULL WHERE tournament_id = $2`,
		models.SlotStatusAvailable, tournamentID)
	return err
}

func (r *postgresTimeSlotRepository) handleSlotError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if pqErr.Constraint == "time_slots_tournament_court_start_key" {
			return ErrSlotDuplicate
		}
	}
	return err
}
