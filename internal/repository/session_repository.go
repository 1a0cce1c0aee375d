package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
)

const sessionKeyPrefix = "lti:session:"

// SessionRepository persists LTI launch sessions in Redis for the lifetime
// of a launch. This API only reads sessions (through the launch-session
// middleware); Save and Delete are the write half of the contract, called
// by the LTI launch front end that performs the OAuth handshake against
// the same Redis deployment and hands the returned token to the browser
// client.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

// Save stores the launch session and returns its opaque bearer token.
// Called by the launch front end, not by any route in this API.
func (r *SessionRepository) Save(ctx context.Context, session *models.LaunchSession) (string, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal launch session: %w", err)
	}

	token := uuid.NewString()
	if err := r.client.Set(ctx, sessionKeyPrefix+token, payload, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session: %w", err)
	}
	return token, nil
}

// Find loads the launch session for a bearer token, refreshing its TTL.
func (r *SessionRepository) Find(ctx context.Context, token string) (*models.LaunchSession, error) {
	key := sessionKeyPrefix + token
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrLaunchRequired
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session models.LaunchSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal launch session: %w", err)
	}

	if r.ttl > 0 {
		_ = r.client.Expire(ctx, key, r.ttl).Err()
	}
	return &session, nil
}

// Delete removes a launch session, ending it server-side. Like Save it
// belongs to the launch front end's half of the session contract.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
