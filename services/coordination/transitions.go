package coordination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"huddle/models"
	"huddle/services/booking"
	"huddle/services/planner"

	"go.uber.org/zap"
)

// Exclusion reasons recorded alongside a rejected slot.
const (
	ExclusionDeclined = "declined"
	ExclusionConflict = "conflict"
)

// SetReady records a participant's readiness. When the last participant
// flips READY the session enters PLANNING and a planner run is dispatched.
// Toggling is only meaningful while the session is still PENDING.
func (r *Registry) SetReady(sessionID, userID string, ready bool) (*models.Session, error) {
	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	if e.s.State.Terminal() {
		e.mu.Unlock()
		return nil, ErrTerminalState
	}
	if !e.s.IsParticipant(userID) {
		e.mu.Unlock()
		return nil, ErrNotParticipant
	}
	if e.s.State != models.StatePending {
		e.mu.Unlock()
		return nil, ErrInvalidState
	}

	if ready {
		e.s.ReadyStatus[userID] = models.ReadyStatusReady
	} else {
		e.s.ReadyStatus[userID] = models.ReadyStatusPending
	}

	var dispatchID string
	if e.s.AllReady() {
		e.s.State = models.StatePlanning
		e.s.Proposal = nil
		e.planningSince = time.Now()
		e.planRound++
		dispatchID = e.s.ID
		r.logger.Info("all participants ready, planning",
			zap.String("sessionId", e.s.ID),
			zap.Int("participants", len(e.s.Participants)))
	}
	out := cloneSession(e.s)
	e.mu.Unlock()

	if dispatchID != "" {
		r.dispatch(dispatchID)
	}
	return out, nil
}

// Vote records a participant's response to the current proposal.
//
// A single decline immediately invalidates the proposal (fast-reject): the
// slot is excluded and the session goes straight back to PLANNING without a
// fresh readiness handshake. Unanimous acceptance triggers exactly one
// booking attempt; because the state leaves PROPOSED under the same lock,
// replaying the completion event cannot commit twice.
func (r *Registry) Vote(ctx context.Context, sessionID, userID string, accept bool) (*models.Session, error) {
	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	if e.s.State.Terminal() {
		e.mu.Unlock()
		return nil, ErrTerminalState
	}
	if !e.s.IsParticipant(userID) {
		e.mu.Unlock()
		return nil, ErrNotParticipant
	}
	if e.s.State != models.StateProposed || e.s.Proposal == nil {
		e.mu.Unlock()
		return nil, ErrInvalidState
	}

	e.s.Proposal.Responses[userID] = accept

	var dispatchID string
	if !accept {
		r.rearmLocked(e, models.ExcludedSlot{Slot: e.s.Proposal.Slot, Reason: ExclusionDeclined})
		dispatchID = e.s.ID
		r.logger.Info("proposal declined, re-planning",
			zap.String("sessionId", e.s.ID),
			zap.String("declinedBy", userID))
	} else if e.s.Proposal.AllResponded(e.s.Participants) && e.s.Proposal.AllAccepted(e.s.Participants) {
		prop := e.s.Proposal
		b, err := r.store.Commit(ctx, prop.Room, prop.Slot, e.s.Participants, e.s.ID)
		switch {
		case err == nil:
			e.s.State = models.StateConfirmed
			e.s.BookingID = b.BookingID
			e.s.Proposal = nil
			r.logger.Info("session confirmed",
				zap.String("sessionId", e.s.ID),
				zap.String("bookingId", b.BookingID),
				zap.String("roomId", prop.Room.ID))
		case errors.Is(err, booking.ErrConflict):
			r.rearmLocked(e, models.ExcludedSlot{Slot: prop.Slot, Reason: ExclusionConflict})
			dispatchID = e.s.ID
			r.logger.Info("booking race lost, re-planning",
				zap.String("sessionId", e.s.ID),
				zap.String("roomId", prop.Room.ID))
		default:
			e.s.State = models.StateCanceled
			e.s.Proposal = nil
			e.planningSince = time.Time{}
			r.logger.Error("booking attempt failed, session canceled",
				zap.String("sessionId", e.s.ID), zap.Error(err))
		}
	}

	out := cloneSession(e.s)
	e.mu.Unlock()

	if dispatchID != "" {
		r.dispatch(dispatchID)
	}
	return out, nil
}

// rearmLocked returns the session to PLANNING with the rejected slot
// excluded. Readiness is left intact: the group already agreed to plan, so
// the retry goes straight to the planner without a new handshake.
func (r *Registry) rearmLocked(e *entry, ex models.ExcludedSlot) {
	e.s.ExcludedSlots = append(e.s.ExcludedSlots, ex)
	e.s.Proposal = nil
	e.s.State = models.StatePlanning
	e.planningSince = time.Now()
	e.planRound++
}

// RunPlanning executes one planner attempt for the session. It is safe to
// call redundantly: a session no longer in PLANNING ignores the run, and a
// stale result (the session moved on while the gateway call was in flight)
// is dropped.
//
// A definitive planner failure (no candidate, unknown room) cancels the
// session. A transient error is returned to the caller so the task queue
// can retry; the sweep's planning deadline is the backstop.
func (r *Registry) RunPlanning(ctx context.Context, sessionID string) error {
	e, ok := r.lookup(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	if e.s.State != models.StatePlanning {
		e.mu.Unlock()
		return nil
	}
	round := e.planRound
	participants := append([]models.User(nil), e.s.Participants...)
	excluded := append([]models.ExcludedSlot(nil), e.s.ExcludedSlots...)
	var loc *models.Location
	if e.s.CreatorLocation != nil {
		l := *e.s.CreatorLocation
		loc = &l
	}
	e.mu.Unlock()

	ids := make([]string, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}
	calendars, err := r.calendars.EventsFor(ids)
	if err != nil {
		return fmt.Errorf("failed to load participant calendars: %w", err)
	}

	req := planner.Request{
		Participants:  participants,
		Calendars:     calendars,
		Rooms:         r.catalog.WithCapacity(len(participants)),
		Bookings:      r.store.All(),
		ExcludedSlots: excluded,
		Location:      loc,
		Duration:      r.meetingDuration,
	}

	cand, err := r.gateway.Propose(ctx, req)
	if err != nil {
		if errors.Is(err, planner.ErrNoCandidate) {
			r.cancelPlanning(e, round, "planner returned no candidate")
			return nil
		}
		return fmt.Errorf("planner gateway call failed: %w", err)
	}

	proposedRoom, ok := r.catalog.Get(cand.RoomID)
	if !ok {
		r.cancelPlanning(e, round, "planner proposed unknown room "+cand.RoomID)
		return nil
	}

	e.mu.Lock()
	if e.s.State != models.StatePlanning || e.planRound != round {
		// The session moved on (deadline sweep, or a newer planning round)
		// while the call was in flight; the result is stale.
		e.mu.Unlock()
		return nil
	}
	e.s.State = models.StateProposed
	e.s.Proposal = &models.Proposal{
		Room:      proposedRoom,
		Slot:      cand.Slot,
		Reasoning: cand.Reasoning,
		Responses: map[string]bool{},
	}
	e.planningSince = time.Time{}
	e.mu.Unlock()

	r.logger.Info("proposal ready",
		zap.String("sessionId", sessionID),
		zap.String("roomId", proposedRoom.ID),
		zap.Time("start", cand.Slot.Start),
		zap.Time("end", cand.Slot.End))
	return nil
}

// cancelPlanning finalizes a planning failure. There is no automatic retry
// on this path: unlike a declined proposal, a failed planning round carries
// no new input that would change the next answer.
func (r *Registry) cancelPlanning(e *entry, round int, reason string) {
	e.mu.Lock()
	if e.s.State != models.StatePlanning || e.planRound != round {
		e.mu.Unlock()
		return
	}
	e.s.State = models.StateCanceled
	e.s.Proposal = nil
	e.planningSince = time.Time{}
	id := e.s.ID
	e.mu.Unlock()

	r.logger.Warn("planning failed, session canceled",
		zap.String("sessionId", id),
		zap.String("reason", reason))
}

// Sweep restores the registry's invariants across every session: PENDING
// sessions whose participants are all ready advance to PLANNING, and
// PLANNING sessions past the planning deadline are canceled. Running the
// sweep redundantly is safe.
func (r *Registry) Sweep(now time.Time) {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	var dispatchIDs []string
	for _, e := range entries {
		e.mu.Lock()
		switch e.s.State {
		case models.StatePending:
			if e.s.AllReady() {
				e.s.State = models.StatePlanning
				e.s.Proposal = nil
				e.planningSince = now
				e.planRound++
				dispatchIDs = append(dispatchIDs, e.s.ID)
			}
		case models.StatePlanning:
			if e.planningSince.IsZero() {
				// Restored mid-planning; restart the attempt.
				e.planningSince = now
				e.planRound++
				dispatchIDs = append(dispatchIDs, e.s.ID)
			} else if now.Sub(e.planningSince) > r.planningDeadline {
				e.s.State = models.StateCanceled
				e.s.Proposal = nil
				e.planningSince = time.Time{}
				r.logger.Warn("planning deadline exceeded, session canceled",
					zap.String("sessionId", e.s.ID))
			}
		}
		e.mu.Unlock()
	}

	for _, id := range dispatchIDs {
		r.dispatch(id)
	}
}

func (r *Registry) dispatch(sessionID string) {
	if r.dispatcher == nil {
		r.logger.Warn("no planner dispatcher configured", zap.String("sessionId", sessionID))
		return
	}
	if err := r.dispatcher.EnqueuePlanning(sessionID); err != nil {
		// Left in PLANNING; the sweep either re-dispatches or cancels it
		// once the deadline passes.
		r.logger.Error("failed to enqueue planning job",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
}
