package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintSignsStoreClaims(t *testing.T) {
	svc := NewTokenService(30 * time.Minute)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }

	signed, err := svc.Mint("student-1", "api-key", "api-secret")
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("api-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "api-key", claims["consumerKey"])
	assert.Equal(t, "student-1", claims["userId"])
	assert.Equal(t, "2026-03-14T09:26:53Z", claims["issuedAt"])
	assert.EqualValues(t, 1800, claims["ttl"])
}

func TestMintRejectsWrongSecret(t *testing.T) {
	svc := NewTokenService(time.Hour)

	signed, err := svc.Mint("student-1", "api-key", "api-secret")
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("another-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}

func TestMintDefaultsTTL(t *testing.T) {
	svc := NewTokenService(0)
	assert.Equal(t, time.Hour, svc.ttl)
}
