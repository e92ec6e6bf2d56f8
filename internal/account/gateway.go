package account

import (
	"context"
	"time"

	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/astroguide/internal/wizard"
)

// Authenticator signs users in and out.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, s Session) error
}

// Submitter turns birth details into a result handle.
type Submitter interface {
	Submit(ctx context.Context, f intake.Form) (string, error)
}

// Gateway is the entry point for account features: the signed-in identity
// and the readings that belong to it.
type Gateway struct {
	auth     Authenticator
	sessions SessionStore
	readings ReadingStore
	intake   Submitter
	now      func() time.Time
}

// NewGateway wires a gateway. All collaborators are required.
func NewGateway(auth Authenticator, sessions SessionStore, readings ReadingStore, submitter Submitter) *Gateway {
	return &Gateway{
		auth:     auth,
		sessions: sessions,
		readings: readings,
		intake:   submitter,
		now:      time.Now,
	}
}

// Current returns the signed-in user, if any. An expired session is
// discarded and reported as signed out.
func (g *Gateway) Current(ctx context.Context) (User, bool, error) {
	sess, ok, err := g.session(ctx)
	if err != nil || !ok {
		return User{}, false, err
	}
	return sess.User, true, nil
}

func (g *Gateway) session(ctx context.Context) (Session, bool, error) {
	sess, ok, err := g.sessions.Load(ctx)
	if err != nil {
		return Session{}, false, err
	}
	if !ok {
		return Session{}, false, nil
	}
	if sess.Expired(g.now()) {
		logger.Info("account: session for %s expired at %s", sess.User.Email, sess.ExpiresAt.Format(time.RFC3339))
		if err := g.sessions.Clear(ctx); err != nil {
			return Session{}, false, err
		}
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (g *Gateway) requireSession(ctx context.Context, op string) (Session, error) {
	sess, ok, err := g.session(ctx)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ierr.New(ierr.KindUnauthorized, op, "Please sign in to use saved readings.")
	}
	return sess, nil
}

// SignIn authenticates and stores the session locally.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (User, error) {
	sess, err := g.auth.SignIn(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	if err := g.sessions.Save(ctx, sess); err != nil {
		return User{}, err
	}
	logger.Info("account: signed in as %s", sess.User.Email)
	return sess.User, nil
}

// SignOut revokes the session on the backend and forgets it locally.
// The local copy is removed even when the backend call fails.
func (g *Gateway) SignOut(ctx context.Context) error {
	sess, ok, err := g.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	remoteErr := g.auth.SignOut(ctx, sess)
	if remoteErr != nil {
		logger.Warn("account: remote sign out failed: %v", remoteErr)
	}
	if err := g.sessions.Clear(ctx); err != nil {
		return err
	}
	if ierr.KindOf(remoteErr) == ierr.KindUnauthorized {
		return nil
	}
	return remoteErr
}

// ListReadings returns the signed-in user's readings, newest first.
func (g *Gateway) ListReadings(ctx context.Context) ([]Reading, error) {
	sess, err := g.requireSession(ctx, "list readings")
	if err != nil {
		return nil, err
	}
	return g.readings.List(ctx, sess)
}

// SaveReading stores the birth details and choices of a completed walk.
func (g *Gateway) SaveReading(ctx context.Context, form intake.Form, avatar string, focus wizard.Focus) (Reading, error) {
	const op = "save reading"

	sess, err := g.requireSession(ctx, op)
	if err != nil {
		return Reading{}, err
	}
	if err := intake.Validate(form).Err(); err != nil {
		return Reading{}, err
	}
	if !focus.Valid() {
		return Reading{}, ierr.New(ierr.KindValidation, op, "Choose a focus before saving.")
	}

	r := NewReading(sess.User.ID, form, avatar, focus, g.now())
	saved, err := g.readings.Insert(ctx, sess, r)
	if err != nil {
		return Reading{}, err
	}
	logger.Info("account: saved reading %s", saved.ID)
	return saved, nil
}

// DeleteReading removes a reading. Callers drop it from any displayed
// list only after this returns nil.
func (g *Gateway) DeleteReading(ctx context.Context, id string) error {
	sess, err := g.requireSession(ctx, "delete reading")
	if err != nil {
		return err
	}
	if err := g.readings.Delete(ctx, sess, id); err != nil {
		return err
	}
	logger.Info("account: deleted reading %s", id)
	return nil
}

// Reconstruct turns a saved reading into a record the results step can
// resolve. Saved readings hold raw birth details, so the calculation is
// submitted again to obtain a fresh handle.
func (g *Gateway) Reconstruct(ctx context.Context, r Reading) (wizard.Record, error) {
	focus, err := wizard.ParseFocus(r.Influence)
	if err != nil {
		return wizard.Record{}, ierr.Wrap(ierr.KindValidation, "load reading", "This reading has an unknown focus.", err)
	}

	handle, err := g.intake.Submit(ctx, r.Form())
	if err != nil {
		return wizard.Record{}, err
	}

	return wizard.Record{
		ResultHandle:   handle,
		AvatarID:       r.Avatar,
		Focus:          focus,
		SelectedPlanet: focus.Planet(),
	}, nil
}
