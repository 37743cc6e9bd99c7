package middleware

import (
	"net/http"
	"strings"

	"huddle/models"
	"huddle/utils"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// JWTAuthMiddleware resolves the bearer token to the acting user and stores
// it on the request context. All /api routes except sign-in require it.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		id, name, email, err := utils.IdentityFromToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userContextKey, models.User{ID: id, Name: name, Email: email})
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
