package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func slotAt(startHour, endHour int) TimeSlot {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	return TimeSlot{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestTimeSlotValidate(t *testing.T) {
	assert.NoError(t, slotAt(10, 11).Validate())
	assert.Error(t, slotAt(11, 10).Validate())
	assert.Error(t, slotAt(10, 10).Validate())
}

func TestTimeSlotOverlaps(t *testing.T) {
	base := slotAt(10, 12)

	assert.True(t, base.Overlaps(slotAt(11, 13)))
	assert.True(t, base.Overlaps(slotAt(9, 11)))
	assert.True(t, base.Overlaps(slotAt(10, 12)))
	assert.True(t, base.Overlaps(slotAt(11, 12)))
	// Half-open ranges: shared endpoints are not overlap.
	assert.False(t, base.Overlaps(slotAt(12, 13)))
	assert.False(t, base.Overlaps(slotAt(9, 10)))
	assert.False(t, base.Overlaps(slotAt(7, 8)))
}

func TestSessionAllReady(t *testing.T) {
	s := &Session{
		Participants: []User{{ID: "a"}, {ID: "b"}},
		ReadyStatus:  map[string]ReadyState{"a": ReadyStatusReady, "b": ReadyStatusPending},
	}
	assert.False(t, s.AllReady())

	s.ReadyStatus["b"] = ReadyStatusReady
	assert.True(t, s.AllReady())

	// No participants can never be "all ready".
	empty := &Session{ReadyStatus: map[string]ReadyState{}}
	assert.False(t, empty.AllReady())
}

func TestProposalAggregation(t *testing.T) {
	users := []User{{ID: "a"}, {ID: "b"}}
	p := &Proposal{Responses: map[string]bool{}}

	assert.False(t, p.AllResponded(users))
	p.Responses["a"] = true
	assert.False(t, p.AllResponded(users))
	p.Responses["b"] = false
	assert.True(t, p.AllResponded(users))
	assert.False(t, p.AllAccepted(users))

	p.Responses["b"] = true
	assert.True(t, p.AllAccepted(users))
}
