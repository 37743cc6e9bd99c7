package utils

import (
	"errors"
	"time"

	"huddle/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "huddle-dev-secret"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT carrying the acting user's identity.
// The token expires after the specified duration.
func GenerateToken(userID, name, email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"name":  name,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// IdentityFromToken extracts the user id, name and email claims from a valid token.
func IdentityFromToken(tokenString string) (id, name, email string, err error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", "", errors.New("invalid token")
	}
	id, _ = claims["sub"].(string)
	name, _ = claims["name"].(string)
	email, _ = claims["email"].(string)
	if id == "" {
		return "", "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	return id, name, email, nil
}
