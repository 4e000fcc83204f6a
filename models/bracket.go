package models

import "time"

type BracketStatus string

const (
	BracketStatusActive   BracketStatus = "active"
	BracketStatusArchived BracketStatus = "archived"
)

// BracketSlot is one match position inside the denormalized round tree.
// Team references are nil until known (seeded in round 1, or filled in as
// feeder matches complete).
type BracketSlot struct {
	MatchNumber int  `json:"match_number"`
	Team1ID     *int `json:"team1_id,omitempty"`
	Team2ID     *int `json:"team2_id,omitempty"`
}

type BracketRound struct {
	Round   int           `json:"round"`
	Matches []BracketSlot `json:"matches"`
}

// Bracket is the round/match tree for a tournament. Exactly one active
// bracket exists per tournament; regenerating archives the previous one
// together with its matches.
type Bracket struct {
	ID           int              `json:"id" db:"id"`
	TournamentID int              `json:"tournament_id" db:"tournament_id"`
	Format       TournamentFormat `json:"format" db:"format"`
	TeamIDs      []int            `json:"team_ids" db:"team_ids"`
	TotalRounds  int              `json:"total_rounds" db:"total_rounds"`
	Rounds       []BracketRound   `json:"rounds" db:"rounds"`
	Status       BracketStatus    `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}
