package account

import (
	"context"
	"net/http"
	"net/url"
	"time"

	ierr "github.com/mark3labs/astroguide/internal/errors"
)

const readingsPath = "/rest/v1/readings"

var _ ReadingStore = (*RESTStore)(nil)

// RESTStore keeps readings in the backend's REST table.
type RESTStore struct {
	backend
}

// NewRESTStore creates a store talking to baseURL.
func NewRESTStore(baseURL, apiKey string, timeout time.Duration) *RESTStore {
	return &RESTStore{backend: newBackend(baseURL, apiKey, timeout)}
}

func (s *RESTStore) List(ctx context.Context, sess Session) ([]Reading, error) {
	var out []Reading
	err := s.do(ctx, call{
		op:     "list readings",
		method: http.MethodGet,
		path:   readingsPath,
		query: url.Values{
			"select":  {"*"},
			"user_id": {"eq." + sess.User.ID},
			"order":   {"created_at.desc"},
		},
		token: sess.AccessToken,
		out:   &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RESTStore) Insert(ctx context.Context, sess Session, r Reading) (Reading, error) {
	r.UserID = sess.User.ID
	var out []Reading
	err := s.do(ctx, call{
		op:      "save reading",
		method:  http.MethodPost,
		path:    readingsPath,
		token:   sess.AccessToken,
		headers: map[string]string{"Prefer": "return=representation"},
		body:    r,
		out:     &out,
	})
	if err != nil {
		return Reading{}, err
	}
	if len(out) == 0 {
		return r, nil
	}
	return out[0], nil
}

func (s *RESTStore) Delete(ctx context.Context, sess Session, id string) error {
	var out []Reading
	err := s.do(ctx, call{
		op:     "delete reading",
		method: http.MethodDelete,
		path:   readingsPath,
		query: url.Values{
			"id":      {"eq." + id},
			"user_id": {"eq." + sess.User.ID},
		},
		token:   sess.AccessToken,
		headers: map[string]string{"Prefer": "return=representation"},
		out:     &out,
	})
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return ierr.New(ierr.KindNotFound, "delete reading", "That reading no longer exists.")
	}
	return nil
}
