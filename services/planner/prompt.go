package planner

import (
	"encoding/json"
	"fmt"
	"time"
)

// BuildPrompt renders the scheduling request as the planner prompt. The
// excluded-slot and existing-booking lists are the two inputs that make a
// retry different from the attempt before it.
func BuildPrompt(req Request, now time.Time) (string, error) {
	type participantView struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	participants := make([]participantView, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, participantView{ID: p.ID, Name: p.Name})
	}

	participantsJSON, err := json.MarshalIndent(participants, "", "  ")
	if err != nil {
		return "", err
	}
	calendarsJSON, err := json.MarshalIndent(req.Calendars, "", "  ")
	if err != nil {
		return "", err
	}
	roomsJSON, err := json.MarshalIndent(req.Rooms, "", "  ")
	if err != nil {
		return "", err
	}
	bookingsJSON, err := json.MarshalIndent(req.Bookings, "", "  ")
	if err != nil {
		return "", err
	}
	excludedJSON, err := json.MarshalIndent(req.ExcludedSlots, "", "  ")
	if err != nil {
		return "", err
	}

	duration := req.Duration
	if duration <= 0 {
		duration = time.Hour
	}
	minutes := int(duration.Minutes())

	locationHint := ""
	if req.Location != nil {
		locationHint = fmt.Sprintf("\n    - Requester Location (tie-break hint only): {\"lat\": %f, \"lng\": %f}", req.Location.Lat, req.Location.Lng)
	}

	prompt := fmt.Sprintf(`
    You are a smart scheduling assistant for students at Georgia Tech. Your task is to find the best possible time and location for a study session.

    Here is the required information:
    - Today's Date: %s
    - Meeting Duration: %d minutes
    - Participants: %s
    - Participant Schedules (events they are busy): %s
    - Available Study Rooms: %s
    - Existing Room Bookings (these rooms are taken at these times): %s
    - Rejected Time Slots (the group already declined these, never propose them again): %s%s

    Your goal is to find a %d-minute slot today that works for all participants and book a suitable room.

    Constraints and Preferences:
    1.  The meeting must not conflict with any participant's HIGH priority calendar events.
    2.  The chosen room must have enough capacity for all participants.
    3.  The chosen room must not already be booked for an overlapping time.
    4.  Never propose a time slot that appears in the rejected list.
    5.  Consider a reasonable time, ideally between 9:00 AM and 8:00 PM today, in the local timezone.
    6.  Try to find a time as soon as possible.
    7.  The reasoning should be concise and helpful.

    Please provide your answer in JSON format that adheres to the specified schema.
    `,
		now.Format(time.RFC3339), minutes,
		participantsJSON, calendarsJSON, roomsJSON, bookingsJSON, excludedJSON,
		locationHint, minutes)

	return prompt, nil
}
