package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"huddle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoom = models.Room{ID: "room-lib-1", Building: "GT Library", Name: "Study Room 101A", Capacity: 4}

func ts(startHour, endHour int) models.TimeSlot {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	return models.TimeSlot{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestIsAvailableEmptyStore(t *testing.T) {
	s := NewStore(nil, nil)
	assert.True(t, s.IsAvailable("room-lib-1", ts(10, 11)))
}

func TestCommitThenOverlapUnavailable(t *testing.T) {
	s := NewStore(nil, nil)
	_, err := s.Commit(context.Background(), testRoom, ts(10, 12), nil, "s1")
	require.NoError(t, err)

	// Half-open overlap test: anything sharing an instant conflicts...
	assert.False(t, s.IsAvailable("room-lib-1", ts(11, 13)))
	assert.False(t, s.IsAvailable("room-lib-1", ts(9, 11)))
	assert.False(t, s.IsAvailable("room-lib-1", ts(10, 12)))
	// ...but touching endpoints do not.
	assert.True(t, s.IsAvailable("room-lib-1", ts(12, 13)))
	assert.True(t, s.IsAvailable("room-lib-1", ts(9, 10)))
	// Other rooms are unaffected.
	assert.True(t, s.IsAvailable("room-coda-1", ts(10, 12)))
}

func TestCommitConflictMutatesNothing(t *testing.T) {
	s := NewStore(nil, nil)
	_, err := s.Commit(context.Background(), testRoom, ts(10, 12), nil, "s1")
	require.NoError(t, err)

	_, err = s.Commit(context.Background(), testRoom, ts(11, 13), nil, "s2")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, s.All(), 1)
}

func TestCommitRejectsInvalidSlot(t *testing.T) {
	s := NewStore(nil, nil)
	bad := models.TimeSlot{Start: ts(12, 13).Start, End: ts(10, 11).Start}
	_, err := s.Commit(context.Background(), testRoom, bad, nil, "s1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Empty(t, s.All())
}

func TestCommitRecordsParticipantsAndSession(t *testing.T) {
	s := NewStore(nil, nil)
	users := []models.User{{ID: "user-1", Name: "Alice"}, {ID: "user-2", Name: "Bob"}}
	b, err := s.Commit(context.Background(), testRoom, ts(10, 11), users, "session-9")
	require.NoError(t, err)

	assert.NotEmpty(t, b.BookingID)
	assert.Equal(t, "session-9", b.SessionID)
	assert.Equal(t, users, b.Participants)
	assert.False(t, b.CreatedAt.IsZero())
}

// Two sessions racing for overlapping slots in the same room: exactly one
// commit succeeds, the other gets ErrConflict.
func TestConcurrentCommitsExactlyOneWins(t *testing.T) {
	for run := 0; run < 50; run++ {
		s := NewStore(nil, nil)
		var wg sync.WaitGroup
		errs := make([]error, 2)
		slots := []models.TimeSlot{ts(10, 11), {Start: ts(10, 11).Start.Add(30 * time.Minute), End: ts(10, 11).End.Add(30 * time.Minute)}}

		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = s.Commit(context.Background(), testRoom, slots[i], nil, "racer")
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				require.True(t, errors.Is(err, ErrConflict))
			}
		}
		assert.Equal(t, 1, winners)
		assert.Len(t, s.All(), 1)
	}
}

func TestRestoreReplacesBookings(t *testing.T) {
	s := NewStore(nil, nil)
	_, err := s.Commit(context.Background(), testRoom, ts(10, 11), nil, "s1")
	require.NoError(t, err)

	restored := []models.Booking{{
		BookingID: "b-1",
		RoomID:    "room-coda-1",
		Slot:      ts(14, 15),
		SessionID: "s2",
	}}
	s.Restore(restored)

	assert.Equal(t, restored, s.All())
	assert.True(t, s.IsAvailable("room-lib-1", ts(10, 11)))
	assert.False(t, s.IsAvailable("room-coda-1", ts(14, 15)))
}

// Boot unions the snapshot's bookings with the durable log. A booking whose
// write-through failed exists only in the snapshot; one committed right
// before a crash may exist only in the log. Neither may be lost, and shared
// ids must not duplicate.
func TestMergeUnionsSnapshotAndLog(t *testing.T) {
	s := NewStore(nil, nil)
	snapshotOnly := models.Booking{BookingID: "b-1", RoomID: "room-lib-1", Slot: ts(10, 11), SessionID: "s1"}
	shared := models.Booking{BookingID: "b-2", RoomID: "room-coda-1", Slot: ts(12, 13), SessionID: "s2"}
	s.Restore([]models.Booking{snapshotOnly, shared})

	logOnly := models.Booking{BookingID: "b-3", RoomID: "room-ic-1", Slot: ts(14, 15), SessionID: "s3"}
	s.Merge([]models.Booking{shared, logOnly})

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, snapshotOnly, all[0])
	assert.Equal(t, shared, all[1])
	assert.Equal(t, logOnly, all[2])

	// The snapshot-only booking still blocks its slot after the merge.
	assert.False(t, s.IsAvailable("room-lib-1", ts(10, 11)))
}

func TestMergeIntoEmptyStore(t *testing.T) {
	s := NewStore(nil, nil)
	b := models.Booking{BookingID: "b-1", RoomID: "room-lib-1", Slot: ts(10, 11), SessionID: "s1"}
	s.Merge([]models.Booking{b})
	assert.Equal(t, []models.Booking{b}, s.All())
}
