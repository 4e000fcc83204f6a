package brackets

import (
	"context"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate creates one match per unordered team pair, numbered in pair
// enumeration order. There is no advancement phase; TotalRounds (n-1) is
// presentation metadata only.
func (g *RoundRobinGenerator) Generate(ctx context.Context, params GenerateParams) (*Generation, error) {
	teams, err := seedOrder(params.Teams)
	if err != nil {
		return nil, err
	}

	n := len(teams)
	tournamentID := 0
	if params.Tournament != nil {
		tournamentID = params.Tournament.ID
	}

	matches := make([]*models.Match, 0, n*(n-1)/2)
	matchNumber := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matchNumber++
			t1, t2 := teams[i].ID, teams[j].ID
			matches = append(matches, &models.Match{
				TournamentID: tournamentID,
				Round:        1,
				MatchNumber:  matchNumber,
				Team1ID:      &t1,
				Team2ID:      &t2,
				Status:       models.MatchStatusPending,
				Score:        models.NewScore(),
			})
		}
	}

	teamIDs := make([]int, n)
	for i, team := range teams {
		teamIDs[i] = team.ID
	}

	return &Generation{
		Bracket: models.Bracket{
			TournamentID: tournamentID,
			Format:       models.FormatRoundRobin,
			TeamIDs:      teamIDs,
			TotalRounds:  n - 1,
			Rounds:       buildRounds(matches, 1),
			Status:       models.BracketStatusActive,
		},
		Matches: matches,
	}, nil
}
