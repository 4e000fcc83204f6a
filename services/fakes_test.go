package services

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/roel-sundiam/tennis-tournament-management/models"
	"github.com/roel-sundiam/tennis-tournament-management/repositories"
)

// memStore backs the in-memory repository fakes. Every fake writes through
// this one struct so a test can seed state and inspect what the services
// persisted.
type memStore struct {
	tournaments map[int]*models.Tournament
	teams       map[int]*models.Team
	brackets    map[int]*models.Bracket
	matches     map[int]*models.Match
	slots       map[int]*models.TimeSlot
	schedules   map[int]*models.Schedule // keyed by tournament ID
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: make(map[int]*models.Tournament),
		teams:       make(map[int]*models.Team),
		brackets:    make(map[int]*models.Bracket),
		matches:     make(map[int]*models.Match),
		slots:       make(map[int]*models.TimeSlot),
		schedules:   make(map[int]*models.Schedule),
		nextID:      1,
	}
}

func (st *memStore) id() int {
	id := st.nextID
	st.nextID++
	return id
}

// memTx runs the unit of work directly; the fakes write to the shared store
// regardless of the executor.
type memTx struct{}

func (memTx) InTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type memTournamentRepo struct{ st *memStore }

func (r *memTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.st.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

type memTeamRepo struct{ st *memStore }

func (r *memTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.st.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memTeamRepo) ListByTournament(_ context.Context, tournamentID int, activeOnly bool) ([]*models.Team, error) {
	teams := make([]*models.Team, 0)
	for _, t := range r.st.teams {
		if t.TournamentID != tournamentID {
			continue
		}
		if activeOnly && !t.Active {
			continue
		}
		copied := *t
		teams = append(teams, &copied)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Seed < teams[j].Seed })
	return teams, nil
}

type memBracketRepo struct{ st *memStore }

func (r *memBracketRepo) Create(_ context.Context, _ repositories.SQLExecutor, bracket *models.Bracket) error {
	bracket.ID = r.st.id()
	copied := *bracket
	r.st.brackets[bracket.ID] = &copied
	return nil
}

func (r *memBracketRepo) GetActiveByTournament(_ context.Context, tournamentID int) (*models.Bracket, error) {
	for _, b := range r.st.brackets {
		if b.TournamentID == tournamentID && b.Status == models.BracketStatusActive {
			copied := *b
			return &copied, nil
		}
	}
	return nil, repositories.ErrBracketNotFound
}

func (r *memBracketRepo) ArchiveByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for _, b := range r.st.brackets {
		if b.TournamentID == tournamentID && b.Status == models.BracketStatusActive {
			b.Status = models.BracketStatusArchived
		}
	}
	return nil
}

func (r *memBracketRepo) UpdateRounds(_ context.Context, _ repositories.SQLExecutor, id int, rounds []models.BracketRound) error {
	b, ok := r.st.brackets[id]
	if !ok {
		return repositories.ErrBracketNotFound
	}
	b.Rounds = rounds
	return nil
}

type memMatchRepo struct{ st *memStore }

func (r *memMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.st.id()
	copied := *match
	r.st.matches[match.ID] = &copied
	return nil
}

func (r *memMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := r.st.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	copied.Score = m.Score.Clone()
	return &copied, nil
}

func (r *memMatchRepo) ListByBracket(_ context.Context, bracketID int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, m := range r.st.matches {
		if m.BracketID != bracketID {
			continue
		}
		copied := *m
		copied.Score = m.Score.Clone()
		matches = append(matches, &copied)
	}
	sortMatches(matches)
	return matches, nil
}

func (r *memMatchRepo) ListByTournament(_ context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, m := range r.st.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		copied := *m
		copied.Score = m.Score.Clone()
		matches = append(matches, &copied)
	}
	sortMatches(matches)
	return matches, nil
}

func sortMatches(matches []*models.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
}

func (r *memMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, id int, score models.Score, status models.MatchStatus, winnerID *int) error {
	m, ok := r.st.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Score = score.Clone()
	m.Status = status
	m.WinnerID = winnerID
	return nil
}

func (r *memMatchRepo) UpdateTeams(_ context.Context, _ repositories.SQLExecutor, id int, team1ID, team2ID *int, status models.MatchStatus) error {
	m, ok := r.st.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Team1ID = team1ID
	m.Team2ID = team2ID
	m.Status = status
	return nil
}

func (r *memMatchRepo) UpdateScheduling(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	m, ok := r.st.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.SlotID = match.SlotID
	m.ScheduledAt = match.ScheduledAt
	m.Court = match.Court
	m.Status = match.Status
	return nil
}

func (r *memMatchRepo) ClearSchedulingByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for _, m := range r.st.matches {
		if m.TournamentID == tournamentID {
			m.SlotID = nil
			m.ScheduledAt = nil
			m.Court = nil
		}
	}
	return nil
}

func (r *memMatchRepo) DeleteByBracket(_ context.Context, _ repositories.SQLExecutor, bracketID int) error {
	for id, m := range r.st.matches {
		if m.BracketID == bracketID {
			delete(r.st.matches, id)
		}
	}
	return nil
}

type memSlotRepo struct{ st *memStore }

func (r *memSlotRepo) BulkInsert(_ context.Context, _ repositories.SQLExecutor, slots []*models.TimeSlot) error {
	for _, s := range slots {
		s.ID = r.st.id()
		copied := *s
		r.st.slots[s.ID] = &copied
	}
	return nil
}

func (r *memSlotRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, s := range r.st.slots {
		if s.TournamentID == tournamentID {
			delete(r.st.slots, id)
		}
	}
	return nil
}

func (r *memSlotRepo) GetByID(_ context.Context, id int) (*models.TimeSlot, error) {
	s, ok := r.st.slots[id]
	if !ok {
		return nil, repositories.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memSlotRepo) ListByTournament(_ context.Context, tournamentID int, status *models.SlotStatus) ([]*models.TimeSlot, error) {
	slots := make([]*models.TimeSlot, 0)
	for _, s := range r.st.slots {
		if s.TournamentID != tournamentID {
			continue
		}
		if status != nil && s.Status != *status {
			continue
		}
		copied := *s
		slots = append(slots, &copied)
	}
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].Court < slots[j].Court
	})
	return slots, nil
}

func (r *memSlotRepo) UpdateBinding(_ context.Context, _ repositories.SQLExecutor, slot *models.TimeSlot) error {
	s, ok := r.st.slots[slot.ID]
	if !ok {
		return repositories.ErrSlotNotFound
	}
	s.Status = slot.Status
	s.MatchID = slot.MatchID
	return nil
}

func (r *memSlotRepo) ReleaseByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for _, s := range r.st.slots {
		if s.TournamentID == tournamentID {
			s.Status = models.SlotStatusAvailable
			s.MatchID = nil
		}
	}
	return nil
}

type memScheduleRepo struct{ st *memStore }

func (r *memScheduleRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, schedule *models.Schedule) error {
	existing, ok := r.st.schedules[schedule.TournamentID]
	if ok {
		schedule.ID = existing.ID
	} else {
		schedule.ID = r.st.id()
	}
	copied := *schedule
	r.st.schedules[schedule.TournamentID] = &copied
	return nil
}

func (r *memScheduleRepo) GetByTournament(_ context.Context, tournamentID int) (*models.Schedule, error) {
	s, ok := r.st.schedules[tournamentID]
	if !ok {
		return nil, repositories.ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memScheduleRepo) UpdateCounters(_ context.Context, _ repositories.SQLExecutor, tournamentID, totalMatches, scheduledMatches int) error {
	s, ok := r.st.schedules[tournamentID]
	if !ok {
		return repositories.ErrScheduleNotFound
	}
	s.TotalMatches = totalMatches
	s.ScheduledMatches = scheduledMatches
	return nil
}

// serviceEnv wires all three services over one shared store.
type serviceEnv struct {
	store    *memStore
	bracket  BracketService
	match    MatchService
	schedule ScheduleService
}

func newServiceEnv() *serviceEnv {
	st := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	locks := NewLockTable()
	tx := memTx{}

	tournamentRepo := &memTournamentRepo{st: st}
	teamRepo := &memTeamRepo{st: st}
	bracketRepo := &memBracketRepo{st: st}
	matchRepo := &memMatchRepo{st: st}
	slotRepo := &memSlotRepo{st: st}
	scheduleRepo := &memScheduleRepo{st: st}

	schedule := NewScheduleService(tx, tournamentRepo, matchRepo, slotRepo, scheduleRepo, 0, locks, logger)
	bracket := NewBracketService(tx, tournamentRepo, teamRepo, bracketRepo, matchRepo, slotRepo, schedule, locks, logger)
	match := NewMatchService(tx, tournamentRepo, matchRepo, bracket, locks, logger)

	return &serviceEnv{store: st, bracket: bracket, match: match, schedule: schedule}
}
