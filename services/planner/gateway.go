package planner

import (
	"context"
	"errors"
	"time"

	"huddle/models"
)

// ErrNoCandidate indicates the planner returned no usable slot. The session
// treats this as a planning failure (CANCELED), since there is no new input
// that would make a retry deterministic.
var ErrNoCandidate = errors.New("planner returned no usable candidate")

// Request carries everything the planner may consider when picking a slot.
type Request struct {
	Participants  []models.User                     `json:"participants"`
	Calendars     map[string][]models.CalendarEvent `json:"calendars"`
	Rooms         []models.Room                     `json:"rooms"` // already capacity-filtered
	Bookings      []models.Booking                  `json:"bookings"`
	ExcludedSlots []models.ExcludedSlot             `json:"excludedSlots"`
	Location      *models.Location                  `json:"location,omitempty"` // tie-break hint only
	Duration      time.Duration                     `json:"-"`
}

// Candidate is the planner's answer: one room and time with its reasoning.
// The room id is not validated here; the state machine checks it against
// the catalog and re-checks availability at commit time.
type Candidate struct {
	RoomID    string          `json:"roomId"`
	Slot      models.TimeSlot `json:"slot"`
	Reasoning string          `json:"reasoning"`
}

// Gateway is the single external call boundary of the coordination engine.
type Gateway interface {
	Propose(ctx context.Context, req Request) (*Candidate, error)
}
