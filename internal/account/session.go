// Package account implements sign-in and saved readings against the hosted
// backend, plus the local persistence of the signed-in session.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mark3labs/astroguide/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// User is the signed-in identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated backend session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is no longer usable at now.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Claims are the access-token claims the client cares about.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// ParseAccessToken reads identity and expiry out of an access token.
// The signature is not checked here; the backend verifies it on every request.
func ParseAccessToken(token string) (User, time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return User{}, time.Time{}, fmt.Errorf("parsing access token: %w", err)
	}
	if claims.Subject == "" {
		return User{}, time.Time{}, errors.New("access token has no subject")
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return User{ID: claims.Subject, Email: claims.Email}, exp, nil
}

// SessionStore persists the signed-in session between runs.
type SessionStore interface {
	Load(ctx context.Context) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// KVSessionStore keeps the session in a JetStream key-value bucket.
type KVSessionStore struct {
	kv jetstream.KeyValue
}

// NewKVSessionStore sets up the auth bucket and returns a store over it.
func NewKVSessionStore(ctx context.Context, js jetstream.JetStream) (*KVSessionStore, error) {
	kv, err := nats.SetupAuthBucket(ctx, js)
	if err != nil {
		return nil, err
	}
	return &KVSessionStore{kv: kv}, nil
}

// Load returns the stored session, if any.
func (s *KVSessionStore) Load(ctx context.Context) (Session, bool, error) {
	data, err := nats.Get(ctx, s.kv, nats.CurrentSessionKey)
	if errors.Is(err, nats.ErrNoValue) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("decoding stored session: %w", err)
	}
	return sess, true, nil
}

// Save replaces the stored session.
func (s *KVSessionStore) Save(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return nats.Put(ctx, s.kv, nats.CurrentSessionKey, data)
}

// Clear forgets the stored session.
func (s *KVSessionStore) Clear(ctx context.Context) error {
	return nats.Delete(ctx, s.kv, nats.CurrentSessionKey)
}
