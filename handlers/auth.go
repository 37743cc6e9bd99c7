package handlers

import (
	"net/http"

	"huddle/services/identity"
	"huddle/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exchanges an external sign-in credential for a service token.
type AuthHandler struct {
	Identity identity.Service
	Logger   *zap.Logger
}

func NewAuthHandler(svc identity.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Identity: svc, Logger: logger}
}

// GoogleSignIn validates a Google ID token and issues a bearer token.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var input struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	user, token, err := h.Identity.SignIn(c.Request.Context(), input.IDToken)
	if err != nil {
		h.Logger.Warn("sign-in rejected", zap.Error(err))
		utils.JSONError(c, http.StatusUnauthorized, "sign-in failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
