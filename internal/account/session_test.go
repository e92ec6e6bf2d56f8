package account

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mark3labs/astroguide/internal/nats"
	"github.com/stretchr/testify/require"
)

// signedToken builds an HS256 access token like the auth service issues.
func signedToken(t *testing.T, sub, email string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: email,
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestParseAccessToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	user, gotExp, err := ParseAccessToken(signedToken(t, "0b9f3c1e-7d0a-4c55-9f43-5d2f7a1c9e01", "ada@example.com", exp))
	require.NoError(t, err)
	require.Equal(t, User{ID: "0b9f3c1e-7d0a-4c55-9f43-5d2f7a1c9e01", Email: "ada@example.com"}, user)
	require.True(t, exp.Equal(gotExp))

	_, _, err = ParseAccessToken("not-a-jwt")
	require.Error(t, err)

	_, _, err = ParseAccessToken(signedToken(t, "", "x@example.com", exp))
	require.Error(t, err)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.False(t, Session{}.Expired(now))
	require.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	require.True(t, Session{ExpiresAt: now}.Expired(now))
}

func TestKVSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	local, err := nats.Open(t.TempDir())
	require.NoError(t, err)
	defer local.Close()

	store, err := NewKVSessionStore(ctx, local.JS)
	require.NoError(t, err)

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	want := Session{
		AccessToken: "tok",
		ExpiresAt:   time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
		User:        User{ID: "u1", Email: "ada@example.com"},
	}
	require.NoError(t, store.Save(ctx, want))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want.User, got.User)
	require.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
