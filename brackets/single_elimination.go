package brackets

import (
	"context"
	"math"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate pairs teams by seed order two at a time: (1,2), (3,4), and so on.
// An unpaired trailing team receives a bye and is carried forward into its
// round-2 slot as an already-resolved team. Every later round is created
// eagerly with nil teams so the full tree exists up front; feeder matches
// fill the slots as they complete.
func (g *SingleEliminationGenerator) Generate(ctx context.Context, params GenerateParams) (*Generation, error) {
	teams, err := seedOrder(params.Teams)
	if err != nil {
		return nil, err
	}

	n := len(teams)
	totalRounds := int(math.Ceil(math.Log2(float64(n))))

	// Pair-slot counts per round. Round 1 has ceil(n/2) slots (the last one
	// a bye when n is odd); each later round halves, rounding up.
	slotCounts := make([]int, totalRounds)
	slotCounts[0] = (n + 1) / 2
	for r := 1; r < totalRounds; r++ {
		slotCounts[r] = (slotCounts[r-1] + 1) / 2
	}

	matches := make([]*models.Match, 0, n)
	tournamentID := 0
	if params.Tournament != nil {
		tournamentID = params.Tournament.ID
	}

	// Round 1: full pairs only. A trailing odd team has no round-1 match.
	for i := 0; i+1 < n; i += 2 {
		t1, t2 := teams[i].ID, teams[i+1].ID
		matches = append(matches, &models.Match{
			TournamentID: tournamentID,
			Round:        1,
			MatchNumber:  i/2 + 1,
			Team1ID:      &t1,
			Team2ID:      &t2,
			Status:       models.MatchStatusPending,
			Score:        models.NewScore(),
		})
	}

	// Later rounds: placeholders for feeder winners.
	for r := 2; r <= totalRounds; r++ {
		for num := 1; num <= slotCounts[r-1]; num++ {
			matches = append(matches, &models.Match{
				TournamentID: tournamentID,
				Round:        r,
				MatchNumber:  num,
				Status:       models.MatchStatusPending,
				Score:        models.NewScore(),
			})
		}
	}

	// Carry the bye team into round 2 under the same odd/even rule that
	// advancement uses: its virtual round-1 slot number decides the side.
	if n%2 == 1 {
		byeTeam := teams[n-1].ID
		byeSlot := slotCounts[0] // the unpaired trailing slot
		targetNumber := (byeSlot + 1) / 2
		for _, m := range matches {
			if m.Round != 2 || m.MatchNumber != targetNumber {
				continue
			}
			if byeSlot%2 == 1 {
				m.Team1ID = &byeTeam
			} else {
				m.Team2ID = &byeTeam
			}
			break
		}
	}

	teamIDs := make([]int, n)
	for i, team := range teams {
		teamIDs[i] = team.ID
	}

	return &Generation{
		Bracket: models.Bracket{
			TournamentID: tournamentID,
			Format:       models.FormatSingleElimination,
			TeamIDs:      teamIDs,
			TotalRounds:  totalRounds,
			Rounds:       buildRounds(matches, totalRounds),
			Status:       models.BracketStatusActive,
		},
		Matches: matches,
	}, nil
}
