package handlers

import (
	"net/http"
	"time"

	"huddle/middleware"
	"huddle/models"
	"huddle/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CalendarSink stores a user's synced busy intervals.
type CalendarSink interface {
	ReplaceForUser(userID string, events []models.CalendarEvent) error
}

// CalendarHandler receives busy-interval syncs from the calendar
// collaborator. The engine never interprets event titles.
type CalendarHandler struct {
	Sink   CalendarSink
	Logger *zap.Logger
}

func NewCalendarHandler(sink CalendarSink, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{Sink: sink, Logger: logger}
}

type calendarEventInput struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Priority  string    `json:"priority"`
}

// SyncEvents replaces the caller's stored busy intervals.
func (h *CalendarHandler) SyncEvents(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not signed in", "")
		return
	}

	var input []calendarEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	events := make([]models.CalendarEvent, 0, len(input))
	for _, ev := range input {
		slot := models.TimeSlot{Start: ev.StartTime, End: ev.EndTime}
		if err := slot.Validate(); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid event time range", err.Error())
			return
		}
		events = append(events, models.CalendarEvent{
			UserID:   user.ID,
			Title:    ev.Title,
			Slot:     slot,
			Priority: models.EventPriority(ev.Priority),
		})
	}

	if err := h.Sink.ReplaceForUser(user.ID, events); err != nil {
		h.Logger.Error("failed to store calendar events", zap.String("userId", user.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to store calendar events", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stored": len(events)})
}
