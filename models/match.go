package models

import "time"

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// Match is a single bracket match. Team references are nil until the feeder
// matches of the previous round complete. SlotID/ScheduledAt/Court are a
// render cache kept in sync by the scheduler; the TimeSlot row stays the
// source of truth for time and court.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	BracketID    int         `json:"bracket_id" db:"bracket_id"`
	Round        int         `json:"round" db:"round"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	Team1ID      *int        `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID      *int        `json:"team2_id,omitempty" db:"team2_id"`
	Status       MatchStatus `json:"status" db:"status"`
	Score        Score       `json:"score" db:"score"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`

	SlotID      *int       `json:"slot_id,omitempty" db:"slot_id"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	Court       *string    `json:"court,omitempty" db:"court"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TeamID resolves a scoring side to the concrete team reference.
func (m *Match) TeamID(side Side) *int {
	if side == SideTeam1 {
		return m.Team1ID
	}
	return m.Team2ID
}

// Resolved reports whether both participants are known.
func (m *Match) Resolved() bool {
	return m.Team1ID != nil && m.Team2ID != nil
}
