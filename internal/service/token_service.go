package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints the short-lived auth tokens the annotation store
// expects in its x-annotator-auth-token header. Tokens are signed per
// assignment with that assignment's API key and secret, so every store
// call derives a fresh token from the credentials of the assignment it
// operates on.
type TokenService struct {
	ttl time.Duration
	now func() time.Time
}

// NewTokenService constructs a TokenService.
func NewTokenService(ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{ttl: ttl, now: time.Now}
}

// Mint signs a store token for the given user using an assignment's
// API key and secret.
func (s *TokenService) Mint(userID, apiKey, secret string) (string, error) {
	issuedAt := s.now().UTC()
	claims := jwt.MapClaims{
		"consumerKey": apiKey,
		"userId":      userID,
		"issuedAt":    issuedAt.Format(time.RFC3339),
		"ttl":         int64(s.ttl.Seconds()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
