package identity

import (
	"context"
	"fmt"
	"time"

	"huddle/models"
	"huddle/utils"

	"google.golang.org/api/idtoken"
)

// Service exchanges an external sign-in credential for a User and a bearer
// token for this service. The rest of the system only ever sees the User.
type Service interface {
	SignIn(ctx context.Context, credential string) (*models.User, string, error)
}

// GoogleIdentityService validates Google ID tokens.
type GoogleIdentityService struct {
	Audience string // OAuth client ID
	TokenTTL time.Duration
}

func NewGoogleIdentityService(audience string) *GoogleIdentityService {
	return &GoogleIdentityService{Audience: audience, TokenTTL: 24 * time.Hour}
}

func (s *GoogleIdentityService) SignIn(ctx context.Context, credential string) (*models.User, string, error) {
	payload, err := idtoken.Validate(ctx, credential, s.Audience)
	if err != nil {
		return nil, "", fmt.Errorf("invalid Google ID token: %w", err)
	}

	user := &models.User{
		ID:    payload.Subject,
		Name:  claimString(payload.Claims, "name"),
		Email: claimString(payload.Claims, "email"),
	}
	if user.ID == "" {
		return nil, "", fmt.Errorf("ID token has no subject")
	}

	token, err := utils.GenerateToken(user.ID, user.Name, user.Email, s.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

func claimString(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}
