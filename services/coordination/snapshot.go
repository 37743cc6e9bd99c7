package coordination

import (
	"time"

	"huddle/models"
)

// Snapshot is the opaque, restorable image of the registry and its booking
// store. It round-trips every field a restart must not lose: participants,
// readiness, state, proposal, exclusions and committed bookings.
type Snapshot struct {
	SavedAt  time.Time        `json:"savedAt"`
	Sessions []models.Session `json:"sessions"`
	Bookings []models.Booking `json:"bookings"`
}

// Snapshot captures the current registry and booking state.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	snap := Snapshot{SavedAt: time.Now().UTC()}
	for _, e := range entries {
		e.mu.Lock()
		snap.Sessions = append(snap.Sessions, *cloneSession(e.s))
		e.mu.Unlock()
	}
	snap.Bookings = r.store.All()
	return snap
}

// Restore replaces all registry and booking state with the snapshot's.
// Sessions restored mid-PLANNING have no in-flight gateway call anymore;
// the next sweep restarts their planning attempt.
func (r *Registry) Restore(snap Snapshot) {
	r.store.Restore(snap.Bookings)

	entries := make(map[string]*entry, len(snap.Sessions))
	for i := range snap.Sessions {
		s := cloneSession(&snap.Sessions[i])
		if s.ReadyStatus == nil {
			s.ReadyStatus = make(map[string]models.ReadyState)
		}
		entries[s.ID] = &entry{s: s}
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
}
