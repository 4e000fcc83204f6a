package models

import "time"

// Schedule summarizes the slot-generation parameters for a tournament plus
// aggregate counters. One row per tournament, regenerated wholesale when
// parameters change; only the counters are mutated in place.
type Schedule struct {
	ID                   int       `json:"id" db:"id"`
	TournamentID         int       `json:"tournament_id" db:"tournament_id"`
	StartDate            time.Time `json:"start_date" db:"start_date"`
	EndDate              time.Time `json:"end_date" db:"end_date"`
	DailyStartTime       string    `json:"daily_start_time" db:"daily_start_time"`
	DailyEndTime         string    `json:"daily_end_time" db:"daily_end_time"`
	Courts               []string  `json:"courts" db:"courts"`
	SlotDurationMinutes  int       `json:"slot_duration_minutes" db:"slot_duration_minutes"`
	BreakDurationMinutes int       `json:"break_duration_minutes" db:"break_duration_minutes"`
	TotalMatches         int       `json:"total_matches" db:"total_matches"`
	ScheduledMatches     int       `json:"scheduled_matches" db:"scheduled_matches"`
	GeneratedAt          time.Time `json:"generated_at" db:"generated_at"`
}
