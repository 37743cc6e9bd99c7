package models

import "time"

// Booking is the authoritative, immutable record of room occupancy.
// Created only by a successful Booking Store commit.
type Booking struct {
	BookingID    string    `bson:"booking_id" json:"bookingId"`
	RoomID       string    `bson:"room_id" json:"roomId"`
	Slot         TimeSlot  `bson:"slot" json:"slot"`
	Participants []User    `bson:"participants" json:"participants"`
	SessionID    string    `bson:"session_id" json:"sessionId"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
