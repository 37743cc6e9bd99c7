package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"huddle/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrConflict is returned by Commit when the room is already booked for an
// overlapping time range. Losing a booking race is not fatal: the session
// re-arms with the slot excluded and plans again.
var ErrConflict = errors.New("room already booked for an overlapping time range")

// Repository is the durable write-through target for committed bookings.
// Persistence is a log of already-committed facts; it is never part of the
// conflict check.
type Repository interface {
	Insert(ctx context.Context, booking models.Booking) error
	GetAll(ctx context.Context) ([]models.Booking, error)
}

// Store is the authoritative record of room occupancy and the sole gate for
// conflict-free commits. Check-and-commit runs under a single lock, so for
// any room and time range at most one booking can occupy it, no matter how
// many sessions race.
type Store struct {
	mu       sync.Mutex
	bookings []models.Booking
	repo     Repository
	logger   *zap.Logger
}

// NewStore creates a Store. repo may be nil (no durable write-through).
func NewStore(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger}
}

// IsAvailable reports whether no existing booking for roomID overlaps slot.
func (s *Store) IsAvailable(roomID string, slot models.TimeSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableLocked(roomID, slot)
}

func (s *Store) availableLocked(roomID string, slot models.TimeSlot) bool {
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Slot.Overlaps(slot) {
			return false
		}
	}
	return true
}

// Commit atomically re-checks availability and stores a new booking.
// On conflict it returns ErrConflict and mutates nothing.
func (s *Store) Commit(ctx context.Context, room models.Room, slot models.TimeSlot, participants []models.User, sessionID string) (*models.Booking, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if !s.availableLocked(room.ID, slot) {
		s.mu.Unlock()
		s.logger.Info("booking conflict",
			zap.String("roomId", room.ID),
			zap.String("sessionId", sessionID),
			zap.Time("start", slot.Start),
			zap.Time("end", slot.End))
		return nil, ErrConflict
	}

	booking := models.Booking{
		BookingID:    uuid.New().String(),
		RoomID:       room.ID,
		Slot:         slot,
		Participants: append([]models.User(nil), participants...),
		SessionID:    sessionID,
		CreatedAt:    time.Now().UTC(),
	}
	s.bookings = append(s.bookings, booking)
	s.mu.Unlock()

	// Durable write-through happens outside the lock; the in-memory commit
	// already won the race.
	if s.repo != nil {
		if err := s.repo.Insert(ctx, booking); err != nil {
			s.logger.Error("failed to persist booking", zap.String("bookingId", booking.BookingID), zap.Error(err))
		}
	}

	s.logger.Info("booking committed",
		zap.String("bookingId", booking.BookingID),
		zap.String("roomId", room.ID),
		zap.String("sessionId", sessionID))
	return &booking, nil
}

// All returns a copy of every committed booking.
func (s *Store) All() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// Restore replaces the in-memory set with previously committed bookings,
// used when loading a snapshot or booting from the durable log.
func (s *Store) Restore(bookings []models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append([]models.Booking(nil), bookings...)
}

// Merge adds committed bookings the store does not hold yet, keyed by
// booking id. Used at boot to union the snapshot with the durable log: a
// booking whose write-through failed lives only in the snapshot, one
// committed just before a crash may live only in the log, and neither
// source may overwrite the other.
func (s *Store) Merge(bookings []models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.bookings))
	for _, b := range s.bookings {
		known[b.BookingID] = struct{}{}
	}
	for _, b := range bookings {
		if _, ok := known[b.BookingID]; ok {
			continue
		}
		s.bookings = append(s.bookings, b)
		known[b.BookingID] = struct{}{}
	}
}
