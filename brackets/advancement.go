package brackets

import (
	"errors"
	"fmt"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var (
	ErrMatchNotCompleted = errors.New("cannot advance a match that is not completed")
	ErrWinnerNotInMatch  = errors.New("winner is not a participant of the match")
	ErrTargetNotFound    = errors.New("next-round match not found")
	ErrFeederCollision   = errors.New("target slot already holds a different team")
)

// AdvanceResult describes what advancement did. Target is nil when the
// completed match was the final; Changed is false when the winner was
// already in place (redundant invocation).
type AdvanceResult struct {
	Target             *models.Match
	Changed            bool
	TournamentComplete bool
}

// AdvanceWinner moves the winner of a completed match into its next-round
// slot. The rule is uniform across all rounds: the feeder with the odd
// match number fills team1 of the target, the even one fills team2. The
// target is (round+1, ceil(matchNumber/2)).
func AdvanceWinner(completed *models.Match, winnerID int, all []*models.Match) (*AdvanceResult, error) {
	if completed.Status != models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: match %d (round %d, match %d) is %s",
			ErrMatchNotCompleted, completed.ID, completed.Round, completed.MatchNumber, completed.Status)
	}
	if !participates(completed, winnerID) {
		return nil, fmt.Errorf("%w: team %d in match %d", ErrWinnerNotInMatch, winnerID, completed.ID)
	}

	targetRound := completed.Round + 1
	targetNumber := (completed.MatchNumber + 1) / 2

	var target *models.Match
	laterRoundExists := false
	for _, m := range all {
		if m.Round > completed.Round {
			laterRoundExists = true
		}
		if m.Round == targetRound && m.MatchNumber == targetNumber {
			target = m
		}
	}

	if target == nil {
		if !laterRoundExists {
			// The completed match was the final.
			return &AdvanceResult{TournamentComplete: true}, nil
		}
		return nil, fmt.Errorf("%w: expected round %d match %d as target of match %d",
			ErrTargetNotFound, targetRound, targetNumber, completed.ID)
	}

	slot := &target.Team1ID
	if completed.MatchNumber%2 == 0 {
		slot = &target.Team2ID
	}

	changed := false
	switch {
	case *slot == nil:
		id := winnerID
		*slot = &id
		changed = true
	case **slot == winnerID:
		// Redundant invocation, nothing to do.
	default:
		return nil, fmt.Errorf("%w: round %d match %d already has team %d, feeder match %d brings team %d",
			ErrFeederCollision, targetRound, targetNumber, **slot, completed.ID, winnerID)
	}

	if target.Resolved() && target.Status == models.MatchStatusPending {
		target.Status = models.MatchStatusScheduled
		changed = true
	}

	return &AdvanceResult{Target: target, Changed: changed}, nil
}

func participates(m *models.Match, teamID int) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) ||
		(m.Team2ID != nil && *m.Team2ID == teamID)
}
