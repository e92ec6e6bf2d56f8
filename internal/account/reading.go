package account

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/wizard"
)

// Reading is a saved set of birth details with the choices made in the
// wizard. Readings are created and deleted, never edited.
type Reading struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	BirthDate       string    `json:"birth_date"`
	BirthTime       string    `json:"birth_time"`
	BirthLocation   string    `json:"birth_location"`
	CurrentLocation string    `json:"current_location"`
	Avatar          string    `json:"avatar"`
	Influence       string    `json:"influence"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewReading builds a reading owned by userID with a fresh id.
func NewReading(userID string, form intake.Form, avatar string, focus wizard.Focus, now time.Time) Reading {
	return Reading{
		ID:              uuid.NewString(),
		UserID:          userID,
		BirthDate:       strings.TrimSpace(form.BirthDate),
		BirthTime:       strings.TrimSpace(form.BirthTime),
		BirthLocation:   strings.TrimSpace(form.BirthLocation),
		CurrentLocation: strings.TrimSpace(form.CurrentLocation),
		Avatar:          avatar,
		Influence:       string(focus),
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
}

// Form returns the birth details as the intake form they came from.
func (r Reading) Form() intake.Form {
	return intake.Form{
		BirthDate:       r.BirthDate,
		BirthTime:       r.BirthTime,
		BirthLocation:   r.BirthLocation,
		CurrentLocation: r.CurrentLocation,
	}
}

// ReadingStore persists readings for the signed-in user.
type ReadingStore interface {
	// List returns the user's readings, newest first.
	List(ctx context.Context, s Session) ([]Reading, error)
	// Insert stores r and returns the stored row.
	Insert(ctx context.Context, s Session, r Reading) (Reading, error)
	// Delete removes the reading with id. A missing row is NotFound.
	Delete(ctx context.Context, s Session, id string) error
}
