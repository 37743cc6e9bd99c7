package coordination

import (
	"sort"
	"sync"
	"time"

	"huddle/models"
	"huddle/services/booking"
	"huddle/services/planner"
	"huddle/services/room"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CalendarSource supplies each participant's busy intervals for the planner
// request. Calendar retrieval itself (OAuth, sync) lives outside the engine.
type CalendarSource interface {
	EventsFor(userIDs []string) (map[string][]models.CalendarEvent, error)
}

// Dispatcher hands a planning job to whatever executes planner calls. The
// production dispatcher enqueues an asynq task; tests run the job inline.
type Dispatcher interface {
	EnqueuePlanning(sessionID string) error
}

// entry pairs a session with its single-writer lock. No two transitions for
// the same session ever apply concurrently.
type entry struct {
	mu sync.Mutex
	s  *models.Session

	// planningSince is non-zero while the session sits in PLANNING; the
	// sweep uses it to detect a stuck session past the planning deadline.
	planningSince time.Time

	// planRound increments every time the session enters PLANNING. A
	// planner result captured under an older round is stale and must not
	// apply, even if the session has since re-entered PLANNING.
	planRound int
}

// Registry owns the collection of sessions and serializes every mutation
// per session. It is the only writer of session state.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry

	store      *booking.Store
	catalog    *room.Catalog
	gateway    planner.Gateway
	calendars  CalendarSource
	dispatcher Dispatcher

	meetingDuration  time.Duration
	planningDeadline time.Duration
	logger           *zap.Logger
}

// Options configures a Registry.
type Options struct {
	Store            *booking.Store
	Catalog          *room.Catalog
	Gateway          planner.Gateway
	Calendars        CalendarSource
	Dispatcher       Dispatcher
	MeetingDuration  time.Duration
	PlanningDeadline time.Duration
	Logger           *zap.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.MeetingDuration <= 0 {
		opts.MeetingDuration = time.Hour
	}
	if opts.PlanningDeadline <= 0 {
		opts.PlanningDeadline = 90 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Registry{
		entries:          make(map[string]*entry),
		store:            opts.Store,
		catalog:          opts.Catalog,
		gateway:          opts.Gateway,
		calendars:        opts.Calendars,
		dispatcher:       opts.Dispatcher,
		meetingDuration:  opts.MeetingDuration,
		planningDeadline: opts.PlanningDeadline,
		logger:           opts.Logger,
	}
}

// CreateInput carries the caller-supplied fields for a new session.
type CreateInput struct {
	Name     string
	Passcode string
	Location *models.Location
}

// Create allocates a new session seeded with the creator as its only,
// not-yet-ready participant.
func (r *Registry) Create(creator models.User, in CreateInput) (*models.Session, error) {
	s := &models.Session{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Participants:    []models.User{creator},
		ReadyStatus:     map[string]models.ReadyState{creator.ID: models.ReadyStatusPending},
		State:           models.StatePending,
		ExcludedSlots:   []models.ExcludedSlot{},
		CreatorLocation: in.Location,
		CreatedAt:       time.Now().UTC(),
	}
	if in.Passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		s.PasscodeHash = string(hash)
	}

	r.mu.Lock()
	r.entries[s.ID] = &entry{s: s}
	r.mu.Unlock()

	r.logger.Info("session created",
		zap.String("sessionId", s.ID),
		zap.String("name", in.Name),
		zap.String("creator", creator.ID))
	return cloneSession(s), nil
}

// Join appends a user to a session. Joining is a no-op for existing members
// and rejected for finalized sessions. A joiner always enters PENDING, which
// resets the all-ready condition.
func (r *Registry) Join(sessionID string, user models.User, passcode string) (*models.Session, error) {
	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.State.Terminal() {
		return nil, ErrTerminalState
	}
	if e.s.IsParticipant(user.ID) {
		return cloneSession(e.s), nil
	}
	if e.s.PasscodeHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(e.s.PasscodeHash), []byte(passcode)); err != nil {
			return nil, ErrBadPasscode
		}
	}

	e.s.Participants = append(e.s.Participants, user)
	e.s.ReadyStatus[user.ID] = models.ReadyStatusPending

	r.logger.Info("participant joined",
		zap.String("sessionId", sessionID),
		zap.String("userId", user.ID),
		zap.Int("participants", len(e.s.Participants)))
	return cloneSession(e.s), nil
}

// Get returns a copy of the session.
func (r *Registry) Get(sessionID string) (*models.Session, error) {
	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneSession(e.s), nil
}

// ListForUser returns every session the user participates in, oldest first.
func (r *Registry) ListForUser(userID string) []*models.Session {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	var out []*models.Session
	for _, e := range entries {
		e.mu.Lock()
		if e.s.IsParticipant(userID) {
			out = append(out, cloneSession(e.s))
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Bookings exposes the confirmed occupancy view.
func (r *Registry) Bookings() []models.Booking {
	return r.store.All()
}

func (r *Registry) lookup(sessionID string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[sessionID]
	return e, ok
}

// cloneSession deep-copies a session so callers can never mutate registry
// state through a returned pointer.
func cloneSession(s *models.Session) *models.Session {
	out := *s
	out.Participants = append([]models.User(nil), s.Participants...)
	out.ExcludedSlots = append([]models.ExcludedSlot(nil), s.ExcludedSlots...)
	out.ReadyStatus = make(map[string]models.ReadyState, len(s.ReadyStatus))
	for k, v := range s.ReadyStatus {
		out.ReadyStatus[k] = v
	}
	if s.Proposal != nil {
		p := *s.Proposal
		p.Responses = make(map[string]bool, len(s.Proposal.Responses))
		for k, v := range s.Proposal.Responses {
			p.Responses[k] = v
		}
		out.Proposal = &p
	}
	if s.CreatorLocation != nil {
		loc := *s.CreatorLocation
		out.CreatorLocation = &loc
	}
	return &out
}
