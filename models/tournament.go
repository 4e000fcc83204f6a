package models

import "time"

// TournamentFormat matches the ENUM values in the DB.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single-elimination"
	FormatRoundRobin        TournamentFormat = "round-robin"
)

// GameFormat selects the terminal rule for a game: regular tennis scoring
// with deuce/advantage, or a single match tiebreak to 8 or 10 points.
type GameFormat string

const (
	GameFormatRegular    GameFormat = "regular"
	GameFormatTiebreak8  GameFormat = "tiebreak-8"
	GameFormatTiebreak10 GameFormat = "tiebreak-10"
)

func (f GameFormat) Valid() bool {
	switch f {
	case GameFormatRegular, GameFormatTiebreak8, GameFormatTiebreak10:
		return true
	}
	return false
}

// TiebreakTarget returns the points needed to win a match tiebreak,
// or 0 for the regular format.
func (f GameFormat) TiebreakTarget() int {
	switch f {
	case GameFormatTiebreak8:
		return 8
	case GameFormatTiebreak10:
		return 10
	}
	return 0
}

type Tournament struct {
	ID                   int              `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	Format               TournamentFormat `json:"format" db:"format"`
	GameFormat           GameFormat       `json:"game_format" db:"game_format"`
	MatchDurationMinutes int              `json:"match_duration_minutes" db:"match_duration_minutes"`
	DailyStartTime       string           `json:"daily_start_time" db:"daily_start_time"` // "HH:MM"
	DailyEndTime         string           `json:"daily_end_time" db:"daily_end_time"`     // "HH:MM"
	AvailableCourts      []string         `json:"available_courts" db:"available_courts"`
	StartDate            time.Time        `json:"start_date" db:"start_date"`
	EndDate              time.Time        `json:"end_date" db:"end_date"`
	AutoScheduleEnabled  bool             `json:"auto_schedule_enabled" db:"auto_schedule_enabled"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
}
