package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestLookup_ReturnsFirstFeatureCenter(t *testing.T) {
	var gotPath, gotToken, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotToken = r.URL.Query().Get("access_token")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[{"place_name":"Lisbon, Portugal","center":[-9.1393,38.7223]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second)
	coords, err := c.Lookup(context.Background(), "Lisbon, Portugal")
	require.NoError(t, err)
	require.InDelta(t, 38.7223, coords.Latitude, 1e-9)
	require.InDelta(t, -9.1393, coords.Longitude, 1e-9)

	require.Equal(t, "/Lisbon%2C%20Portugal.json", gotPath)
	require.Equal(t, "tok", gotToken)
	require.Equal(t, "1", gotLimit)
}

func TestLookup_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   ierr.Kind
	}{
		{"zero features", http.StatusOK, `{"features":[]}`, ierr.KindLocationNotFound},
		{"non-success status", http.StatusUnauthorized, `{"message":"Not Authorized"}`, ierr.KindLocationNotFound},
		{"garbled body", http.StatusOK, `not json`, ierr.KindLocationNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "tok", time.Second).Lookup(context.Background(), "Atlantis")
			require.Error(t, err)
			require.Equal(t, tt.kind, ierr.KindOf(err))
		})
	}
}

func TestLookup_MissingTokenMakesNoRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Lookup(context.Background(), "Paris")
	require.ErrorIs(t, err, ierr.Configuration)
	require.False(t, called)
}

func TestLookup_NetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "tok", time.Second).Lookup(context.Background(), "Paris")
	require.ErrorIs(t, err, ierr.NetworkUnavailable)
}
