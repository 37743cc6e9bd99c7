package models

import "time"

// SessionState is the lifecycle state of a coordination session.
type SessionState string

const (
	StatePending   SessionState = "PENDING"
	StatePlanning  SessionState = "PLANNING"
	StateProposed  SessionState = "PROPOSED"
	StateConfirmed SessionState = "CONFIRMED"
	StateCanceled  SessionState = "CANCELED"
)

// Terminal reports whether no further transitions are defined for the state.
func (s SessionState) Terminal() bool {
	return s == StateConfirmed || s == StateCanceled
}

// ReadyState is one participant's position in the readiness handshake.
type ReadyState string

const (
	ReadyStatusReady   ReadyState = "READY"
	ReadyStatusPending ReadyState = "PENDING"
)

// Session binds a set of participants working toward one confirmed meeting.
// It is the aggregate root of the coordination engine; all mutation goes
// through the registry, which serializes updates per session.
type Session struct {
	ID            string                `bson:"id" json:"id"`
	Name          string                `bson:"name" json:"name"`
	Participants  []User                `bson:"participants" json:"participants"`
	ReadyStatus   map[string]ReadyState `bson:"readyStatus" json:"readyStatus"`
	State         SessionState          `bson:"state" json:"state"`
	Proposal      *Proposal             `bson:"proposal,omitempty" json:"proposal,omitempty"`
	ExcludedSlots []ExcludedSlot        `bson:"excludedSlots" json:"excludedSlots"`

	// BookingID is set once the session is CONFIRMED.
	BookingID string `bson:"bookingId,omitempty" json:"bookingId,omitempty"`

	// PasscodeHash guards join for private sessions (bcrypt; empty = open).
	PasscodeHash string `bson:"passcodeHash,omitempty" json:"-"`

	// CreatorLocation is forwarded to the planner as a tie-break hint.
	CreatorLocation *Location `bson:"creatorLocation,omitempty" json:"creatorLocation,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// IsParticipant reports whether the user id is a member of the session.
func (s *Session) IsParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// AllReady reports whether every current participant has signalled READY.
// Evaluated over the participant set at the moment of the call, so a
// participant joining mid-flight resets the condition.
func (s *Session) AllReady() bool {
	if len(s.Participants) == 0 {
		return false
	}
	for _, p := range s.Participants {
		if s.ReadyStatus[p.ID] != ReadyStatusReady {
			return false
		}
	}
	return true
}
