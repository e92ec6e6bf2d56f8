package nats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAndClose(t *testing.T) {
	local, err := Open(t.TempDir())
	require.NoError(t, err)
	require.True(t, local.Conn.IsConnected())
	require.NoError(t, local.Close())
}

func TestAuthBucketRoundTrip(t *testing.T) {
	ctx := context.Background()
	local, err := Open(t.TempDir())
	require.NoError(t, err)
	defer local.Close()

	kv, err := SetupAuthBucket(ctx, local.JS)
	require.NoError(t, err)

	_, err = Get(ctx, kv, CurrentSessionKey)
	require.ErrorIs(t, err, ErrNoValue)

	require.NoError(t, Put(ctx, kv, CurrentSessionKey, []byte(`{"a":1}`)))
	got, err := Get(ctx, kv, CurrentSessionKey)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, Delete(ctx, kv, CurrentSessionKey))
	_, err = Get(ctx, kv, CurrentSessionKey)
	require.ErrorIs(t, err, ErrNoValue)

	// Deleting twice is fine.
	require.NoError(t, Delete(ctx, kv, CurrentSessionKey))
}

func TestAuthBucketSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := Open(dir)
	require.NoError(t, err)
	kv, err := SetupAuthBucket(ctx, first.JS)
	require.NoError(t, err)
	require.NoError(t, Put(ctx, kv, CurrentSessionKey, []byte("token")))
	require.NoError(t, first.Close())

	second, err := Open(dir)
	require.NoError(t, err)
	defer second.Close()
	kv, err = SetupAuthBucket(ctx, second.JS)
	require.NoError(t, err)

	got, err := Get(ctx, kv, CurrentSessionKey)
	require.NoError(t, err)
	require.Equal(t, "token", string(got))
}
