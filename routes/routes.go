package routes

import (
	"net/http"
	"time"

	"huddle/handlers"
	"huddle/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates the handlers the router needs.
type HandlerBundle struct {
	Auth     *handlers.AuthHandler
	Session  *handlers.SessionHandler
	Room     *handlers.RoomHandler
	Calendar *handlers.CalendarHandler
}

// RegisterRoutes wires every endpoint onto the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	auth := r.Group("/api/auth")
	{
		auth.POST("/google", hb.Auth.GoogleSignIn)
	}

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("/rooms", hb.Room.ListRooms)
		api.GET("/bookings", hb.Room.ListBookings)
		api.PUT("/calendar/events", hb.Calendar.SyncEvents)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", hb.Session.CreateSession)
			sessions.GET("", hb.Session.ListSessions)
			sessions.GET("/:sessionID", hb.Session.GetSession)
			sessions.POST("/:sessionID/join", hb.Session.JoinSession)
			sessions.POST("/:sessionID/ready", hb.Session.SetReady)
			sessions.POST("/:sessionID/vote", hb.Session.Vote)
		}
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Huddle"})
	})
}
