package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("resolve: %w", New(KindNoMatch, "resolve", "no cities"))

	require.True(t, stderrors.Is(err, NoMatch))
	require.False(t, stderrors.Is(err, ServerRejected))
	require.Equal(t, KindNoMatch, KindOf(err))
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := Wrap(KindNetworkUnavailable, "submit", "Could not reach the server", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "submit: Could not reach the server: dial tcp: refused", err.Error())
}

func TestWithFieldDoesNotMutateOriginal(t *testing.T) {
	base := New(KindLocationNotFound, "geocode", "Location not found")
	attributed := base.WithField("birth_location")

	require.Equal(t, "", base.Field)
	require.Equal(t, "birth_location", FieldOf(attributed))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"classified", New(KindServerRejected, "submit", "birth_dt invalid"), "birth_dt invalid"},
		{"plain", stderrors.New("boom"), "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	require.Equal(t, "MissingPrerequisite", KindMissingPrerequisite.String())
	require.Equal(t, "Unknown", Kind(99).String())
}
