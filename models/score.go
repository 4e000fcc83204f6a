package models

// Side identifies one of the two teams in a match.
type Side string

const (
	SideTeam1 Side = "team1"
	SideTeam2 Side = "team2"
)

func (s Side) Valid() bool {
	return s == SideTeam1 || s == SideTeam2
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideTeam1 {
		return SideTeam2
	}
	return SideTeam1
}

// Set is a completed set. Append-only once stored on a Score.
type Set struct {
	Number      int  `json:"number"`
	Team1Games  int  `json:"team1_games"`
	Team2Games  int  `json:"team2_games"`
	IsTiebreak  bool `json:"is_tiebreak"`
	IsCompleted bool `json:"is_completed"`
}

// Score holds the live point/game/set state of a match. It is mutated only
// through the scoring package; everything else treats it as read-only.
type Score struct {
	Team1Points int `json:"team1_points"`
	Team2Points int `json:"team2_points"`
	Team1Games  int `json:"team1_games"`
	Team2Games  int `json:"team2_games"`
	Team1Sets   int `json:"team1_sets"`
	Team2Sets   int `json:"team2_sets"`
	CurrentSet  int `json:"current_set"`

	Sets []Set `json:"sets"`

	IsTiebreak   bool  `json:"is_tiebreak"`
	IsDeuce      bool  `json:"is_deuce"`
	Advantage    *Side `json:"advantage,omitempty"`
	IsMatchPoint bool  `json:"is_match_point"`
	IsSetPoint   bool  `json:"is_set_point"`

	Winner *Side `json:"winner,omitempty"`
}

// NewScore returns the zero state for a match that has not started.
func NewScore() Score {
	return Score{CurrentSet: 1, Sets: []Set{}}
}

// Clone returns a deep copy, so callers can produce a new state without
// touching the stored one.
func (s Score) Clone() Score {
	out := s
	out.Sets = make([]Set, len(s.Sets))
	copy(out.Sets, s.Sets)
	if s.Advantage != nil {
		adv := *s.Advantage
		out.Advantage = &adv
	}
	if s.Winner != nil {
		w := *s.Winner
		out.Winner = &w
	}
	return out
}

// Points returns the point counter for the given side.
func (s Score) Points(side Side) int {
	if side == SideTeam1 {
		return s.Team1Points
	}
	return s.Team2Points
}

// Games returns the game counter for the given side in the current set.
func (s Score) Games(side Side) int {
	if side == SideTeam1 {
		return s.Team1Games
	}
	return s.Team2Games
}

// SetsWon returns the completed-set counter for the given side.
func (s Score) SetsWon(side Side) int {
	if side == SideTeam1 {
		return s.Team1Sets
	}
	return s.Team2Sets
}
