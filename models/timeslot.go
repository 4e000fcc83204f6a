package models

import "time"

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
)

// TimeSlot is a bookable court+time unit. Instants are absolute (UTC);
// local-time display is a presentation concern. Booked slots carry the
// match reference, and the match points back at the slot.
type TimeSlot struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Court        string     `json:"court" db:"court"`
	StartTime    time.Time  `json:"start_time" db:"start_time"`
	EndTime      time.Time  `json:"end_time" db:"end_time"`
	Status       SlotStatus `json:"status" db:"status"`
	MatchID      *int       `json:"match_id,omitempty" db:"match_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
