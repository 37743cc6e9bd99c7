package models

import (
	"fmt"
	"time"
)

// TimeSlot is a half-open time range [Start, End).
type TimeSlot struct {
	Start time.Time `bson:"start" json:"startTime"`
	End   time.Time `bson:"end" json:"endTime"`
}

// Validate checks the Start < End invariant.
func (s TimeSlot) Validate() error {
	if !s.Start.Before(s.End) {
		return fmt.Errorf("invalid time slot: start %s is not before end %s", s.Start, s.End)
	}
	return nil
}

// Overlaps reports whether two slots share any instant,
// using the half-open test: s.Start < other.End && s.End > other.Start.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}

// Equal reports whether both endpoints coincide.
func (s TimeSlot) Equal(other TimeSlot) bool {
	return s.Start.Equal(other.Start) && s.End.Equal(other.End)
}

// ExcludedSlot is a slot that was proposed and rejected (or lost a booking
// race) for a session. The planner must never propose it again for that
// session.
type ExcludedSlot struct {
	Slot   TimeSlot `bson:"slot" json:"slot"`
	Reason string   `bson:"reason" json:"reason"` // "declined" or "conflict"
}
