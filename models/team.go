package models

import "time"

type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	PlayerIDs    []int     `json:"player_ids" db:"player_ids"`
	Seed         int       `json:"seed" db:"seed"`
	SkillLevel   *string   `json:"skill_level,omitempty" db:"skill_level"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
