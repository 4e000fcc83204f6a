package scoring

import (
	"errors"
	"fmt"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

var (
	ErrInvalidSide       = errors.New("invalid side")
	ErrInvalidGameFormat = errors.New("invalid game format")
	ErrMalformedScore    = errors.New("malformed score state")
)

// MatchFormat selects the terminal rule for the match as a whole.
type MatchFormat string

const (
	MatchFormatBestOfThree   MatchFormat = "best-of-3"
	MatchFormatMatchTiebreak MatchFormat = "match-tiebreak"
)

const (
	pointsToWinGame    = 4
	gamesToWinSet      = 6
	setTiebreakTarget  = 7 // 12-point tiebreak at 6-6
	setsToWinBestOf3   = 2
	minimumLeadToClose = 2
)

// MatchFormatFor derives the match format from a tournament's game format:
// regular games play a best-of-3 set match, the tiebreak formats are a
// single match tiebreak.
func MatchFormatFor(gameFormat models.GameFormat) (MatchFormat, error) {
	switch gameFormat {
	case models.GameFormatRegular:
		return MatchFormatBestOfThree, nil
	case models.GameFormatTiebreak8, models.GameFormatTiebreak10:
		return MatchFormatMatchTiebreak, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGameFormat, gameFormat)
}

// AwardPoint applies a single point for side and returns the next score
// state. The input is never mutated; a deep copy is returned. Awarding a
// point on an already-won score is a no-op copy — guarding against it is
// the caller's job, not this function's.
func AwardPoint(score models.Score, side models.Side, matchFormat MatchFormat, gameFormat models.GameFormat) (models.Score, error) {
	if !side.Valid() {
		return models.Score{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	if !gameFormat.Valid() {
		return models.Score{}, fmt.Errorf("%w: %q", ErrInvalidGameFormat, gameFormat)
	}
	if err := validateCounters(score); err != nil {
		return models.Score{}, err
	}

	s := score.Clone()
	if s.Winner != nil {
		return s, nil
	}

	addPoint(&s, side)

	if gameComplete(s, side, gameFormat) {
		closeGame(&s, side, matchFormat, gameFormat)
	}

	updateIndicators(&s, matchFormat, gameFormat)
	return s, nil
}

func validateCounters(s models.Score) error {
	if s.Team1Points < 0 || s.Team2Points < 0 ||
		s.Team1Games < 0 || s.Team2Games < 0 ||
		s.Team1Sets < 0 || s.Team2Sets < 0 {
		return fmt.Errorf("%w: negative counter", ErrMalformedScore)
	}
	if s.CurrentSet < 1 {
		return fmt.Errorf("%w: current set %d", ErrMalformedScore, s.CurrentSet)
	}
	return nil
}

func addPoint(s *models.Score, side models.Side) {
	if side == models.SideTeam1 {
		s.Team1Points++
	} else {
		s.Team2Points++
	}
}

// inTiebreakGame reports whether the current game is scored as a tiebreak
// (either a match tiebreak format, or the 12-point tiebreak at 6-6).
func inTiebreakGame(s models.Score, gameFormat models.GameFormat) bool {
	return gameFormat != models.GameFormatRegular || s.IsTiebreak
}

// tiebreakTarget returns the points needed to take the current tiebreak game.
func tiebreakTarget(s models.Score, gameFormat models.GameFormat) int {
	if t := gameFormat.TiebreakTarget(); t > 0 {
		return t
	}
	return setTiebreakTarget
}

func gameComplete(s models.Score, side models.Side, gameFormat models.GameFormat) bool {
	pts, opp := s.Points(side), s.Points(side.Other())
	if inTiebreakGame(s, gameFormat) {
		target := tiebreakTarget(s, gameFormat)
		return pts >= target && pts-opp >= minimumLeadToClose
	}
	return pts >= pointsToWinGame && pts-opp >= minimumLeadToClose
}

func closeGame(s *models.Score, side models.Side, matchFormat MatchFormat, gameFormat models.GameFormat) {
	if matchFormat == MatchFormatMatchTiebreak {
		// The whole match is a single tiebreak "set"; record the points as
		// the set line (e.g. 10-7) and finish.
		completed := models.Set{
			Number:      s.CurrentSet,
			Team1Games:  s.Team1Points,
			Team2Games:  s.Team2Points,
			IsTiebreak:  true,
			IsCompleted: true,
		}
		s.Sets = append(s.Sets, completed)
		addSet(s, side)
		s.Team1Points, s.Team2Points = 0, 0
		winner := side
		s.Winner = &winner
		return
	}

	wasTiebreak := s.IsTiebreak

	addGame(s, side)
	s.Team1Points, s.Team2Points = 0, 0
	s.IsDeuce = false
	s.Advantage = nil

	games, opp := s.Games(side), s.Games(side.Other())
	setWon := false
	switch {
	case wasTiebreak:
		// Tiebreak game decides the set 7-6.
		setWon = true
	case games >= gamesToWinSet && games-opp >= minimumLeadToClose:
		setWon = true
	case games == gamesToWinSet && opp == gamesToWinSet:
		s.IsTiebreak = true
	}
	if !setWon {
		return
	}

	completed := models.Set{
		Number:      s.CurrentSet,
		Team1Games:  s.Team1Games,
		Team2Games:  s.Team2Games,
		IsTiebreak:  wasTiebreak,
		IsCompleted: true,
	}
	s.Sets = append(s.Sets, completed)
	addSet(s, side)
	s.Team1Games, s.Team2Games = 0, 0
	s.IsTiebreak = false
	s.CurrentSet++

	if s.SetsWon(side) >= setsToWinBestOf3 {
		winner := side
		s.Winner = &winner
	}
}

func addGame(s *models.Score, side models.Side) {
	if side == models.SideTeam1 {
		s.Team1Games++
	} else {
		s.Team2Games++
	}
}

func addSet(s *models.Score, side models.Side) {
	if side == models.SideTeam1 {
		s.Team1Sets++
	} else {
		s.Team2Sets++
	}
}

// updateIndicators recomputes deuce/advantage and the set/match point flags
// so callers can render the state without re-deriving it.
func updateIndicators(s *models.Score, matchFormat MatchFormat, gameFormat models.GameFormat) {
	s.IsDeuce = false
	s.Advantage = nil
	s.IsSetPoint = false
	s.IsMatchPoint = false

	if s.Winner != nil {
		return
	}

	if !inTiebreakGame(*s, gameFormat) {
		p1, p2 := s.Team1Points, s.Team2Points
		if p1 >= pointsToWinGame-1 && p2 >= pointsToWinGame-1 {
			switch {
			case p1 == p2:
				s.IsDeuce = true
			case p1-p2 == 1:
				adv := models.SideTeam1
				s.Advantage = &adv
			case p2-p1 == 1:
				adv := models.SideTeam2
				s.Advantage = &adv
			}
		}
	}

	for _, side := range []models.Side{models.SideTeam1, models.SideTeam2} {
		if !atGamePoint(*s, side, gameFormat) {
			continue
		}
		if matchFormat == MatchFormatMatchTiebreak {
			// The single tiebreak is the match.
			s.IsSetPoint = true
			s.IsMatchPoint = true
			continue
		}
		if !setWonIfGameWon(*s, side) {
			continue
		}
		s.IsSetPoint = true
		if s.SetsWon(side)+1 >= setsToWinBestOf3 {
			s.IsMatchPoint = true
		}
	}
}

// atGamePoint reports whether side wins the current game by taking the next
// point.
func atGamePoint(s models.Score, side models.Side, gameFormat models.GameFormat) bool {
	pts, opp := s.Points(side), s.Points(side.Other())
	if inTiebreakGame(s, gameFormat) {
		target := tiebreakTarget(s, gameFormat)
		return pts+1 >= target && pts+1-opp >= minimumLeadToClose
	}
	return pts+1 >= pointsToWinGame && pts+1-opp >= minimumLeadToClose
}

// setWonIfGameWon reports whether taking the current game would also take
// the set for side.
func setWonIfGameWon(s models.Score, side models.Side) bool {
	if s.IsTiebreak {
		return true
	}
	games, opp := s.Games(side), s.Games(side.Other())
	return games+1 >= gamesToWinSet && games+1-opp >= minimumLeadToClose
}
