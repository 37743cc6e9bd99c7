package planner

import (
	"testing"
	"time"

	"huddle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidateValid(t *testing.T) {
	raw := `{
		"startTime": "2026-08-30T10:00:00Z",
		"endTime": "2026-08-30T11:00:00Z",
		"roomId": "room-lib-1",
		"reasoning": "Everyone is free and the library is central."
	}`
	cand, err := ParseCandidate(raw)
	require.NoError(t, err)
	assert.Equal(t, "room-lib-1", cand.RoomID)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), cand.Slot.Start)
	assert.Equal(t, time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC), cand.Slot.End)
	assert.NotEmpty(t, cand.Reasoning)
}

func TestParseCandidateTrimsWhitespace(t *testing.T) {
	raw := "\n  {\"startTime\":\"2026-08-30T10:00:00Z\",\"endTime\":\"2026-08-30T11:00:00Z\",\"roomId\":\"r\",\"reasoning\":\"ok\"}  \n"
	_, err := ParseCandidate(raw)
	assert.NoError(t, err)
}

func TestParseCandidateMalformedJSON(t *testing.T) {
	_, err := ParseCandidate("not json at all")
	assert.Error(t, err)
}

func TestParseCandidateMissingRoomIsNoCandidate(t *testing.T) {
	raw := `{"startTime": "2026-08-30T10:00:00Z", "endTime": "2026-08-30T11:00:00Z", "roomId": "", "reasoning": "x"}`
	_, err := ParseCandidate(raw)
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestParseCandidateBadTimes(t *testing.T) {
	raw := `{"startTime": "tomorrow-ish", "endTime": "2026-08-30T11:00:00Z", "roomId": "r", "reasoning": "x"}`
	_, err := ParseCandidate(raw)
	assert.Error(t, err)

	// End before start violates the slot invariant.
	raw = `{"startTime": "2026-08-30T11:00:00Z", "endTime": "2026-08-30T10:00:00Z", "roomId": "r", "reasoning": "x"}`
	_, err = ParseCandidate(raw)
	assert.Error(t, err)
}

func TestBuildPromptIncludesAllInputs(t *testing.T) {
	slot := models.TimeSlot{
		Start: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
	}
	req := Request{
		Participants: []models.User{
			{ID: "user-1", Name: "Alice", Email: "alice@example.com"},
		},
		Calendars: map[string][]models.CalendarEvent{
			"user-1": {{UserID: "user-1", Title: "Physics Lab", Slot: slot, Priority: models.PriorityHigh}},
		},
		Rooms: []models.Room{
			{ID: "room-lib-1", Building: "GT Library", Name: "Study Room 101A", Capacity: 4},
		},
		Bookings: []models.Booking{
			{BookingID: "b-1", RoomID: "room-coda-1", Slot: slot},
		},
		ExcludedSlots: []models.ExcludedSlot{
			{Slot: slot, Reason: "declined"},
		},
		Location: &models.Location{Lat: 33.7756, Lng: -84.3963},
		Duration: 45 * time.Minute,
	}

	prompt, err := BuildPrompt(req, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, prompt, "45-minute slot")
	assert.Contains(t, prompt, `"room-lib-1"`)
	assert.Contains(t, prompt, "Physics Lab")
	assert.Contains(t, prompt, `"room-coda-1"`)
	assert.Contains(t, prompt, "Rejected Time Slots")
	assert.Contains(t, prompt, "tie-break hint")
	// Email addresses are not the planner's business.
	assert.NotContains(t, prompt, "alice@example.com")
}

func TestBuildPromptDefaultsDuration(t *testing.T) {
	prompt, err := BuildPrompt(Request{}, time.Now())
	require.NoError(t, err)
	assert.Contains(t, prompt, "60 minutes")
}
