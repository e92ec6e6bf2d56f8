package astro

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestSubmit_PostsRequestAndReturnsHandle(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/astrocartography", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"result_id":"abc123"}`))
	}))
	defer srv.Close()

	in := Request{
		BirthDT:      "1990-06-01T12:00:00",
		BirthLat:     38.72,
		BirthLon:     -9.14,
		Planets:      DefaultPlanets,
		OrbTolerance: DefaultOrbTolerance,
	}
	id, err := NewClient(srv.URL, time.Second).Submit(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "abc123", id)
	require.Equal(t, in, got)
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Invalid birth_dt"}`, "Invalid birth_dt"},
		{"validation detail", http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","birth_lat"],"msg":"field required"}]}`, "field required"},
		{"no detail", http.StatusInternalServerError, `oops`, genericRejection},
		{"empty id", http.StatusOK, `{"result_id":""}`, "The calculation service did not return a result id."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Submit(context.Background(), Request{})
			require.ErrorIs(t, err, ierr.ServerRejected)
			require.Equal(t, tt.wantMsg, ierr.UserMessage(err))
		})
	}
}

func TestSubmit_NetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewClient(base, time.Second).Submit(context.Background(), Request{})
	require.ErrorIs(t, err, ierr.NetworkUnavailable)
}

func TestResults_DecodesPlanetMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/results/abc123", r.URL.Path)
		_, _ = w.Write([]byte(`{"Venus":[{"city":"Lisbon","country":"Portugal","latitude":38.7,"longitude":-9.1,"population":544851.0,"distance_km":12.5,"orb":0.4321}]}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second).Results(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, res["Venus"], 1)
	require.Equal(t, "Lisbon", res["Venus"][0].City)
	require.InDelta(t, 544851, res["Venus"][0].Population, 0.1)
}

func TestResults_AcceptsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":{"Mars":[{"city":"Austin","country":"USA"}]}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second).Results(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, "Austin", res["Mars"][0].City)
}

func TestResults_NotFoundIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Result not found"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Results(context.Background(), "gone")
	require.ErrorIs(t, err, ierr.ServerRejected)
	require.Equal(t, "Result not found", ierr.UserMessage(err))
}

func TestDetail(t *testing.T) {
	require.Equal(t, "", Detail([]byte(`{}`)))
	require.Equal(t, "", Detail([]byte(`{"detail":42}`)))
	require.Equal(t, "a; b", Detail([]byte(`{"detail":[{"msg":"a"},{"msg":"b"}]}`)))
}
