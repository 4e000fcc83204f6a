package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var (
	ErrInvalidDailyWindow = errors.New("invalid daily time window")
	ErrInvalidDuration    = errors.New("match duration must be positive")
	ErrNoCourts           = errors.New("tournament has no courts")
	ErrInvalidDateRange   = errors.New("end date is before start date")
	ErrSlotOverlap        = errors.New("generated slots overlap")
)

// DefaultMaxDays bounds slot generation cost for long date ranges.
const DefaultMaxDays = 7

// GenerateSlots expands the tournament's court list and daily window over
// the date range into discrete bookable slots. The day range is capped at
// maxDays (DefaultMaxDays when maxDays <= 0). Instants are absolute UTC;
// any local-time display happens at render time, never here.
//
// The full list is built and validated in memory so the caller can commit
// it in one write, after deleting any previous slot set for the tournament.
func GenerateSlots(t *models.Tournament, maxDays int) ([]*models.TimeSlot, error) {
	if t.MatchDurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d minutes", ErrInvalidDuration, t.MatchDurationMinutes)
	}
	if len(t.AvailableCourts) == 0 {
		return nil, ErrNoCourts
	}
	if t.EndDate.Before(t.StartDate) {
		return nil, fmt.Errorf("%w: %s before %s", ErrInvalidDateRange,
			t.EndDate.Format("2006-01-02"), t.StartDate.Format("2006-01-02"))
	}

	dayOpen, err := parseClock(t.DailyStartTime)
	if err != nil {
		return nil, err
	}
	dayClose, err := parseClock(t.DailyEndTime)
	if err != nil {
		return nil, err
	}
	if dayClose <= dayOpen {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidDailyWindow, t.DailyStartTime, t.DailyEndTime)
	}

	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	duration := time.Duration(t.MatchDurationMinutes) * time.Minute

	firstDay := t.StartDate.UTC().Truncate(24 * time.Hour)
	lastDay := t.EndDate.UTC().Truncate(24 * time.Hour)

	slots := make([]*models.TimeSlot, 0)
	for day, i := firstDay, 0; !day.After(lastDay) && i < maxDays; day, i = day.Add(24*time.Hour), i+1 {
		windowStart := day.Add(dayOpen)
		windowEnd := day.Add(dayClose)
		for _, court := range t.AvailableCourts {
			for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(duration) {
				slots = append(slots, &models.TimeSlot{
					TournamentID: t.ID,
					Court:        court,
					StartTime:    start,
					EndTime:      start.Add(duration),
					Status:       models.SlotStatusAvailable,
				})
			}
		}
	}

	if err := validateSlots(slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// parseClock converts "HH:MM" into an offset from midnight.
func parseClock(value string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDailyWindow, value)
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

// validateSlots rejects overlapping or duplicate slots per court before any
// of them reach the store. Slots are generated in ascending start order per
// court, so a linear check per court suffices.
func validateSlots(slots []*models.TimeSlot) error {
	lastEnd := make(map[string]time.Time)
	for _, slot := range slots {
		if end, ok := lastEnd[slot.Court]; ok && slot.StartTime.Before(end) {
			return fmt.Errorf("%w: court %s at %s", ErrSlotOverlap, slot.Court, slot.StartTime.Format(time.RFC3339))
		}
		lastEnd[slot.Court] = slot.EndTime
	}
	return nil
}
