package handlers

import (
	"errors"
	"net/http"

	"huddle/middleware"
	"huddle/models"
	"huddle/services/coordination"
	"huddle/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes the coordination engine over HTTP.
type SessionHandler struct {
	Registry *coordination.Registry
	Logger   *zap.Logger
}

func NewSessionHandler(registry *coordination.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{Registry: registry, Logger: logger}
}

// CreateSession starts a new session with the caller as its only participant.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not signed in", "")
		return
	}

	var input struct {
		Name     string           `json:"name" binding:"required"`
		Passcode string           `json:"passcode"`
		Location *models.Location `json:"location"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Registry.Create(user, coordination.CreateInput{
		Name:     input.Name,
		Passcode: input.Passcode,
		Location: input.Location,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create session", err.Error())
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessions returns the caller's sessions, oldest first.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not signed in", "")
		return
	}
	sessions := h.Registry.ListForUser(user.ID)
	if sessions == nil {
		sessions = []*models.Session{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSession returns one session the caller participates in.
func (h *SessionHandler) GetSession(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not signed in", "")
		return
	}
	session, err := h.Registry.Get(c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !session.IsParticipant(user.ID) {
		utils.JSONError(c, http.StatusForbidden, "not a participant of this session", "")
		return
	}
	c.JSON(http.StatusOK, session)
}

// JoinSession adds the caller to a session.
func (h *SessionHandler) JoinSession(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not signed in", "")
		return
	}
	var input struct {
		Passcode string `json:"passcode"`
	}
	_ = c.ShouldBindJSON(&input) // body is optional for open sessions

	session, err := h.Registry.Join(c.Param("sessionID"), user, input.Passcode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SetReady updates the caller's readiness handshake entry.
func (h *SessionHandler) SetReady(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not signed in", "")
		return
	}
	var input struct {
		Ready *bool `json:"ready" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Registry.SetReady(c.Param("sessionID"), user.ID, *input.Ready)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Vote records the caller's accept/decline on the current proposal.
func (h *SessionHandler) Vote(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not signed in", "")
		return
	}
	var input struct {
		Accept *bool `json:"accept" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.Registry.Vote(c.Request.Context(), c.Param("sessionID"), user.ID, *input.Accept)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// respondError maps engine errors onto HTTP statuses: lookups are 404,
// validation failures 4xx, everything else 500.
func (h *SessionHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, coordination.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "session not found", "")
	case errors.Is(err, coordination.ErrNotParticipant):
		utils.JSONError(c, http.StatusForbidden, "not a participant of this session", "")
	case errors.Is(err, coordination.ErrBadPasscode):
		utils.JSONError(c, http.StatusForbidden, "incorrect passcode", "")
	case errors.Is(err, coordination.ErrTerminalState):
		utils.JSONError(c, http.StatusConflict, "session is already finalized", "")
	case errors.Is(err, coordination.ErrInvalidState):
		utils.JSONError(c, http.StatusConflict, "operation not valid in the session's current state", "")
	default:
		h.Logger.Error("session operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
