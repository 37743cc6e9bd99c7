package handlers

import (
	"net/http"

	"huddle/services/booking"
	"huddle/services/coordination"
	"huddle/services/room"

	"github.com/gin-gonic/gin"
)

// RoomHandler serves the static room catalog and the occupancy view.
type RoomHandler struct {
	Catalog  *room.Catalog
	Registry *coordination.Registry
	Cache    booking.ViewCache
}

func NewRoomHandler(catalog *room.Catalog, registry *coordination.Registry, cache booking.ViewCache) *RoomHandler {
	return &RoomHandler{Catalog: catalog, Registry: registry, Cache: cache}
}

// ListRooms returns every bookable room.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Catalog.All()})
}

// ListBookings returns every confirmed booking, served from the view cache
// when it holds a fresh copy.
func (h *RoomHandler) ListBookings(c *gin.Context) {
	if h.Cache != nil {
		if bookings, ok := h.Cache.Get(c.Request.Context()); ok {
			c.JSON(http.StatusOK, gin.H{"bookings": bookings})
			return
		}
	}
	bookings := h.Registry.Bookings()
	if h.Cache != nil {
		h.Cache.Set(c.Request.Context(), bookings)
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
