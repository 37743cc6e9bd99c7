package models

// EventPriority mirrors the calendar collaborator's busy-interval weighting.
type EventPriority string

const (
	PriorityHigh   EventPriority = "HIGH"
	PriorityMedium EventPriority = "MEDIUM"
	PriorityLow    EventPriority = "LOW"
)

// CalendarEvent is one busy interval from a participant's calendar.
// The service never interprets the title; it only forwards intervals to
// the planner.
type CalendarEvent struct {
	UserID   string        `bson:"user_id" json:"userId"`
	Title    string        `bson:"title" json:"title"`
	Slot     TimeSlot      `bson:"slot" json:"slot"`
	Priority EventPriority `bson:"priority,omitempty" json:"priority,omitempty"`
}
