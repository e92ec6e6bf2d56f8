package wizard

import (
	"context"
	"time"

	"github.com/mark3labs/astroguide/internal/account"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/resolver"
	machine "github.com/mark3labs/astroguide/internal/wizard"
)

// Submitter turns birth details into a result handle.
type Submitter interface {
	Submit(ctx context.Context, f intake.Form) (string, error)
}

// Resolver fetches the cities for a complete record.
type Resolver interface {
	Resolve(ctx context.Context, rec machine.Record) (resolver.Outcome, error)
}

// Accounts is the part of the session gateway the wizard uses.
type Accounts interface {
	Current(ctx context.Context) (account.User, bool, error)
	ListReadings(ctx context.Context) ([]account.Reading, error)
	SaveReading(ctx context.Context, form intake.Form, avatar string, focus machine.Focus) (account.Reading, error)
	DeleteReading(ctx context.Context, id string) error
	Reconstruct(ctx context.Context, r account.Reading) (machine.Record, error)
}

// Deps are the collaborators injected into the wizard.
type Deps struct {
	Submitter Submitter
	Resolver  Resolver
	// Accounts is nil when no backend is configured; saved readings are
	// then hidden.
	Accounts  Accounts
	ExportDir string
	Now       func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
