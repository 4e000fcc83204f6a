package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roel-sundiam/tennis-tournament-management/models"
)

func testTournament() *models.Tournament {
	return &models.Tournament{
		ID:                   1,
		MatchDurationMinutes: 60,
		DailyStartTime:       "18:00",
		DailyEndTime:         "20:00",
		AvailableCourts:      []string{"Court 1"},
		StartDate:            time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateSlotsSingleDaySingleCourt(t *testing.T) {
	slots, err := GenerateSlots(testTournament(), 0)
	require.NoError(t, err)
	require.Len(t, slots, 2, "18:00-20:00 fits two 60-minute slots")

	assert.Equal(t, time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC), slots[0].StartTime)
	assert.Equal(t, time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC), slots[0].EndTime)
	assert.Equal(t, time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC), slots[1].StartTime)
	assert.Equal(t, time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC), slots[1].EndTime)
	for _, s := range slots {
		assert.Equal(t, models.SlotStatusAvailable, s.Status)
		assert.Equal(t, "Court 1", s.Court)
		assert.Equal(t, 1, s.TournamentID)
		assert.Nil(t, s.MatchID)
	}
}

func TestGenerateSlotsPartialSlotDropped(t *testing.T) {
	trn := testTournament()
	trn.DailyEndTime = "19:30"
	slots, err := GenerateSlots(trn, 0)
	require.NoError(t, err)
	assert.Len(t, slots, 1, "a slot whose end would pass the window end is not emitted")
}

func TestGenerateSlotsMultipleCourtsAndDays(t *testing.T) {
	trn := testTournament()
	trn.AvailableCourts = []string{"Court 1", "Court 2", "Court 3"}
	trn.EndDate = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	slots, err := GenerateSlots(trn, 0)
	require.NoError(t, err)
	assert.Len(t, slots, 2*3*2, "2 days x 3 courts x 2 slots")
}

func TestGenerateSlotsDayCap(t *testing.T) {
	trn := testTournament()
	trn.EndDate = trn.StartDate.AddDate(0, 1, 0)

	slots, err := GenerateSlots(trn, 0)
	require.NoError(t, err)
	assert.Len(t, slots, DefaultMaxDays*2, "range capped at the default day limit")

	slots, err = GenerateSlots(trn, 3)
	require.NoError(t, err)
	assert.Len(t, slots, 3*2)
}

func TestGenerateSlotsValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Tournament)
		wantErr error
	}{
		{"zero duration", func(tr *models.Tournament) { tr.MatchDurationMinutes = 0 }, ErrInvalidDuration},
		{"no courts", func(tr *models.Tournament) { tr.AvailableCourts = nil }, ErrNoCourts},
		{"reversed dates", func(tr *models.Tournament) { tr.EndDate = tr.StartDate.AddDate(0, 0, -1) }, ErrInvalidDateRange},
		{"bad clock", func(tr *models.Tournament) { tr.DailyStartTime = "25:99" }, ErrInvalidDailyWindow},
		{"window closed before it opens", func(tr *models.Tournament) { tr.DailyEndTime = "09:00" }, ErrInvalidDailyWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trn := testTournament()
			tt.mutate(trn)
			_, err := GenerateSlots(trn, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func ref(id int) *int { return &id }

func slotAt(id int, court string, hour int) *models.TimeSlot {
	return &models.TimeSlot{
		ID:           id,
		TournamentID: 1,
		Court:        court,
		StartTime:    time.Date(2025, 6, 2, hour, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 6, 2, hour+1, 0, 0, 0, time.UTC),
		Status:       models.SlotStatusAvailable,
	}
}

func TestAssignMatchesPairsInOrder(t *testing.T) {
	matches := []*models.Match{
		{ID: 3, Round: 2, MatchNumber: 1, Status: models.MatchStatusPending},                                       // unresolved, skipped
		{ID: 2, Round: 1, MatchNumber: 2, Team1ID: ref(3), Team2ID: ref(4), Status: models.MatchStatusPending},
		{ID: 1, Round: 1, MatchNumber: 1, Team1ID: ref(1), Team2ID: ref(2), Status: models.MatchStatusScheduled},
	}
	slots := []*models.TimeSlot{slotAt(11, "Court 1", 19), slotAt(10, "Court 1", 18)}

	bindings := AssignMatches(matches, slots)
	require.Len(t, bindings, 2)

	// (round, matchNumber) ascending meets start time ascending.
	assert.Equal(t, 1, bindings[0].Match.ID)
	assert.Equal(t, 10, bindings[0].Slot.ID)
	assert.Equal(t, 2, bindings[1].Match.ID)
	assert.Equal(t, 11, bindings[1].Slot.ID)

	for _, b := range bindings {
		assert.Equal(t, models.SlotStatusBooked, b.Slot.Status)
		require.NotNil(t, b.Slot.MatchID)
		assert.Equal(t, b.Match.ID, *b.Slot.MatchID)
		require.NotNil(t, b.Match.SlotID)
		assert.Equal(t, b.Slot.ID, *b.Match.SlotID)
		assert.Equal(t, models.MatchStatusScheduled, b.Match.Status)
		require.NotNil(t, b.Match.ScheduledAt)
		assert.Equal(t, b.Slot.StartTime, *b.Match.ScheduledAt)
		require.NotNil(t, b.Match.Court)
		assert.Equal(t, b.Slot.Court, *b.Match.Court)
	}

	// The unresolved round-2 match stays untouched.
	assert.Nil(t, matches[0].SlotID)
	assert.Equal(t, models.MatchStatusPending, matches[0].Status)
}

func TestAssignMatchesLeftoversAreNotAnError(t *testing.T) {
	matches := []*models.Match{
		{ID: 1, Round: 1, MatchNumber: 1, Team1ID: ref(1), Team2ID: ref(2), Status: models.MatchStatusPending},
		{ID: 2, Round: 1, MatchNumber: 2, Team1ID: ref(3), Team2ID: ref(4), Status: models.MatchStatusPending},
	}
	slots := []*models.TimeSlot{slotAt(10, "Court 1", 18)}

	bindings := AssignMatches(matches, slots)
	require.Len(t, bindings, 1)
	assert.Nil(t, matches[1].SlotID)
}

func TestAssignMatchesSkipsAlreadyBound(t *testing.T) {
	bound := &models.Match{ID: 1, Round: 1, MatchNumber: 1, Team1ID: ref(1), Team2ID: ref(2),
		Status: models.MatchStatusScheduled, SlotID: ref(99)}
	slots := []*models.TimeSlot{slotAt(10, "Court 1", 18)}

	bindings := AssignMatches([]*models.Match{bound}, slots)
	assert.Empty(t, bindings)
	assert.Equal(t, models.SlotStatusAvailable, slots[0].Status)
}

func TestRescheduleRoundTrip(t *testing.T) {
	match := &models.Match{ID: 1, Round: 1, MatchNumber: 1, Team1ID: ref(1), Team2ID: ref(2), Status: models.MatchStatusPending}
	first := slotAt(10, "Court 1", 18)
	second := slotAt(11, "Court 2", 19)

	AssignMatches([]*models.Match{match}, []*models.TimeSlot{first})
	require.NotNil(t, match.SlotID)
	require.Equal(t, 10, *match.SlotID)

	require.NoError(t, Reschedule(match, first, second))

	// Exactly one booked slot references the match, and the match points back.
	assert.Equal(t, models.SlotStatusAvailable, first.Status)
	assert.Nil(t, first.MatchID)
	assert.Equal(t, models.SlotStatusBooked, second.Status)
	require.NotNil(t, second.MatchID)
	assert.Equal(t, 1, *second.MatchID)
	require.NotNil(t, match.SlotID)
	assert.Equal(t, 11, *match.SlotID)
	assert.Equal(t, second.StartTime, *match.ScheduledAt)
	assert.Equal(t, "Court 2", *match.Court)
}

func TestRescheduleOntoOwnSlotIsNoOp(t *testing.T) {
	match := &models.Match{ID: 1, Status: models.MatchStatusPending, Team1ID: ref(1), Team2ID: ref(2)}
	slot := slotAt(10, "Court 1", 18)
	Bind(match, slot)

	require.NoError(t, Reschedule(match, slot, slot))
	assert.Equal(t, models.SlotStatusBooked, slot.Status)
	require.NotNil(t, slot.MatchID)
	assert.Equal(t, 1, *slot.MatchID)
	require.NotNil(t, match.SlotID)
	assert.Equal(t, 10, *match.SlotID)
}

func TestRescheduleOntoOrphanedSlot(t *testing.T) {
	match := &models.Match{ID: 1, Status: models.MatchStatusScheduled, Team1ID: ref(1), Team2ID: ref(2)}
	orphan := slotAt(12, "Court 1", 18)
	orphan.Status = models.SlotStatusBooked // booked but no match reference

	require.NoError(t, Reschedule(match, nil, orphan))
	require.NotNil(t, orphan.MatchID)
	assert.Equal(t, 1, *orphan.MatchID)
}

func TestRescheduleRejectsOccupiedSlot(t *testing.T) {
	match := &models.Match{ID: 1, Status: models.MatchStatusScheduled}
	other := &models.Match{ID: 2, Status: models.MatchStatusScheduled}
	slot := slotAt(10, "Court 1", 18)
	Bind(other, slot)

	err := Reschedule(match, nil, slot)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Nothing moved.
	require.NotNil(t, slot.MatchID)
	assert.Equal(t, 2, *slot.MatchID)
	assert.Nil(t, match.SlotID)
}

func TestSwapSlotsInvolution(t *testing.T) {
	matchA := &models.Match{ID: 1, Status: models.MatchStatusPending, Team1ID: ref(1), Team2ID: ref(2)}
	matchB := &models.Match{ID: 2, Status: models.MatchStatusPending, Team1ID: ref(3), Team2ID: ref(4)}
	slotA := slotAt(10, "Court 1", 18)
	slotB := slotAt(11, "Court 2", 19)
	Bind(matchA, slotA)
	Bind(matchB, slotB)

	require.NoError(t, SwapSlots(matchA, matchB, slotA, slotB))
	assert.Equal(t, 11, *matchA.SlotID)
	assert.Equal(t, 10, *matchB.SlotID)
	assert.Equal(t, 1, *slotB.MatchID)
	assert.Equal(t, 2, *slotA.MatchID)

	// Swapping again restores the original bindings.
	require.NoError(t, SwapSlots(matchA, matchB, slotB, slotA))
	assert.Equal(t, 10, *matchA.SlotID)
	assert.Equal(t, 11, *matchB.SlotID)
	assert.Equal(t, 1, *slotA.MatchID)
	assert.Equal(t, 2, *slotB.MatchID)
	assert.Equal(t, slotA.StartTime, *matchA.ScheduledAt)
	assert.Equal(t, slotB.StartTime, *matchB.ScheduledAt)
}

func TestSwapSlotsRequiresBothScheduled(t *testing.T) {
	matchA := &models.Match{ID: 1, Status: models.MatchStatusPending}
	matchB := &models.Match{ID: 2, Status: models.MatchStatusPending}
	slotB := slotAt(11, "Court 2", 19)
	Bind(matchB, slotB)

	err := SwapSlots(matchA, matchB, nil, slotB)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMatchNotScheduled)
	assert.Equal(t, 11, *matchB.SlotID, "failed swap leaves the scheduled match untouched")
}
