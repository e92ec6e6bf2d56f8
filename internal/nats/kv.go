// Package nats runs the embedded NATS JetStream server that holds local
// state between CLI runs, such as the signed-in account session.
package nats

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// AuthBucket holds the signed-in session.
	AuthBucket = "astroguide_auth"
	// CurrentSessionKey is the single key used inside AuthBucket.
	CurrentSessionKey = "current"
)

// ErrNoValue is returned by Get when the key is absent.
var ErrNoValue = errors.New("no value stored")

// SetupAuthBucket creates or opens the key-value bucket for the auth session.
// Only the latest value is kept.
func SetupAuthBucket(ctx context.Context, js jetstream.JetStream) (jetstream.KeyValue, error) {
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      AuthBucket,
		Description: "astroguide signed-in session",
		History:     1,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up %s bucket: %w", AuthBucket, err)
	}
	return kv, nil
}

// Get reads key from kv, mapping a missing or deleted key to ErrNoValue.
func Get(ctx context.Context, kv jetstream.KeyValue, key string) ([]byte, error) {
	entry, err := kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, ErrNoValue
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return entry.Value(), nil
}

// Put writes value under key.
func Put(ctx context.Context, kv jetstream.KeyValue, key string, value []byte) error {
	if _, err := kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func Delete(ctx context.Context, kv jetstream.KeyValue, key string) error {
	err := kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}
