package brackets

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var (
	ErrNotEnoughTeams  = errors.New("not enough teams to generate a bracket (minimum 2)")
	ErrInvalidSeed     = errors.New("invalid seed")
	ErrDuplicateSeed   = errors.New("duplicate seed")
	ErrInactiveTeam    = errors.New("inactive team in seed list")
	ErrUnsupportedType = errors.New("unsupported bracket format")
)

type GenerateParams struct {
	Tournament *models.Tournament
	Teams      []*models.Team
}

// Generation is the output of a bracket generator: the bracket with its
// denormalized round tree, plus every match created eagerly (later rounds
// with nil teams). BracketID on the matches is filled in after the bracket
// row is persisted.
type Generation struct {
	Bracket models.Bracket
	Matches []*models.Match
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) (*Generation, error)
	Name() string
}

// GeneratorFor returns the generator for a tournament format.
func GeneratorFor(format models.TournamentFormat) (Generator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, format)
}

// seedOrder validates the team list and returns it ordered by seed.
// Seeds must be positive and unique; referenced teams must be active.
func seedOrder(teams []*models.Team) ([]*models.Team, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teams))
	}
	seen := make(map[int]int, len(teams))
	for _, team := range teams {
		if team.Seed <= 0 {
			return nil, fmt.Errorf("%w: team %d has seed %d", ErrInvalidSeed, team.ID, team.Seed)
		}
		if prev, ok := seen[team.Seed]; ok {
			return nil, fmt.Errorf("%w: seed %d held by teams %d and %d", ErrDuplicateSeed, team.Seed, prev, team.ID)
		}
		if !team.Active {
			return nil, fmt.Errorf("%w: team %d", ErrInactiveTeam, team.ID)
		}
		seen[team.Seed] = team.ID
	}

	ordered := make([]*models.Team, len(teams))
	copy(ordered, teams)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seed < ordered[j].Seed })
	return ordered, nil
}

// buildRounds assembles the denormalized round tree from the created matches.
func buildRounds(matches []*models.Match, totalRounds int) []models.BracketRound {
	rounds := make([]models.BracketRound, totalRounds)
	for i := range rounds {
		rounds[i].Round = i + 1
	}
	for _, m := range matches {
		slot := models.BracketSlot{
			MatchNumber: m.MatchNumber,
			Team1ID:     m.Team1ID,
			Team2ID:     m.Team2ID,
		}
		rounds[m.Round-1].Matches = append(rounds[m.Round-1].Matches, slot)
	}
	for i := range rounds {
		sort.Slice(rounds[i].Matches, func(a, b int) bool {
			return rounds[i].Matches[a].MatchNumber < rounds[i].Matches[b].MatchNumber
		})
	}
	return rounds
}

// SyncTree copies a match's team references into the bracket's round tree so
// the rendered bracket stays consistent after advancement.
func SyncTree(bracket *models.Bracket, match *models.Match) {
	if match.Round < 1 || match.Round > len(bracket.Rounds) {
		return
	}
	round := &bracket.Rounds[match.Round-1]
	for i := range round.Matches {
		if round.Matches[i].MatchNumber == match.MatchNumber {
			round.Matches[i].Team1ID = match.Team1ID
			round.Matches[i].Team2ID = match.Team2ID
			return
		}
	}
}
