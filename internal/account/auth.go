package account

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	ierr "github.com/mark3labs/astroguide/internal/errors"
)

// AuthClient signs users in and out against the backend's auth endpoints.
type AuthClient struct {
	backend
	now func() time.Time
}

// NewAuthClient creates an auth client.
func NewAuthClient(baseURL, apiKey string, timeout time.Duration) *AuthClient {
	return &AuthClient{backend: newBackend(baseURL, apiKey, timeout), now: time.Now}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges an email and password for a session.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (Session, error) {
	const op = "sign in"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ierr.New(ierr.KindValidation, op, "Email and password are required")
	}

	var tr tokenResponse
	err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
		out:    &tr,
	})
	if err != nil {
		// The auth service answers bad credentials with 400.
		if ierr.KindOf(err) == ierr.KindServerRejected {
			return Session{}, ierr.Wrap(ierr.KindUnauthorized, op, ierr.UserMessage(err), err)
		}
		return Session{}, err
	}
	if tr.AccessToken == "" {
		return Session{}, ierr.New(ierr.KindServerRejected, op, "The account service did not return a session.")
	}

	return c.sessionFrom(tr)
}

func (c *AuthClient) sessionFrom(tr tokenResponse) (Session, error) {
	sess := Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		User:         User{ID: tr.User.ID, Email: tr.User.Email},
	}

	// Claims win over the response envelope for identity and expiry.
	if user, exp, err := ParseAccessToken(tr.AccessToken); err == nil {
		sess.User.ID = user.ID
		if user.Email != "" {
			sess.User.Email = user.Email
		}
		sess.ExpiresAt = exp
	}

	if sess.ExpiresAt.IsZero() {
		switch {
		case tr.ExpiresAt > 0:
			sess.ExpiresAt = time.Unix(tr.ExpiresAt, 0)
		case tr.ExpiresIn > 0:
			sess.ExpiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
		}
	}

	if sess.User.ID == "" {
		return Session{}, ierr.New(ierr.KindServerRejected, "sign in", "The account service did not identify the user.")
	}
	return sess, nil
}

// SignOut revokes the session on the backend.
func (c *AuthClient) SignOut(ctx context.Context, s Session) error {
	return c.do(ctx, call{
		op:     "sign out",
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  s.AccessToken,
	})
}
