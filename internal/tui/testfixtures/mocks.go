// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
// This file contains mocks for the collaborators injected into the wizard:
//   - MockSubmitter: records submitted forms and returns a fixed handle or error
//   - MockResolver: returns a fixed outcome, optionally blocking until released
//   - MockAccounts: in-memory signed-in user and saved readings
//
// All mocks are thread-safe and record their calls for assertions.
//
// Example usage:
//
//	func TestMyStep(t *testing.T) {
//	    sub := testfixtures.NewMockSubmitter("abc123")
//	    res := testfixtures.NewMockResolver(testfixtures.SampleOutcome())
//
//	    // Use mocks in your test...
//	    require.Equal(t, 1, sub.Calls())
//	}
package testfixtures

import (
	"context"
	"sync"

	"github.com/mark3labs/astroguide/internal/account"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/resolver"
	"github.com/mark3labs/astroguide/internal/wizard"
)

// MockSubmitter stands in for the intake collector.
type MockSubmitter struct {
	mu sync.Mutex

	Handle string
	Err    error

	forms []intake.Form
}

// NewMockSubmitter returns a submitter that succeeds with handle.
func NewMockSubmitter(handle string) *MockSubmitter {
	return &MockSubmitter{Handle: handle}
}

// Submit records the form and returns the configured handle or error.
func (m *MockSubmitter) Submit(_ context.Context, f intake.Form) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms = append(m.forms, f)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Handle, nil
}

// Calls returns the number of submissions.
func (m *MockSubmitter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.forms)
}

// LastForm returns the most recently submitted form.
func (m *MockSubmitter) LastForm() intake.Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.forms) == 0 {
		return intake.Form{}
	}
	return m.forms[len(m.forms)-1]
}

// MockResolver stands in for the result resolver.
type MockResolver struct {
	mu sync.Mutex

	Outcome resolver.Outcome
	Err     error
	// Block, when set, makes Resolve wait until it is closed or the
	// context is cancelled.
	Block chan struct{}

	records []wizard.Record
}

// NewMockResolver returns a resolver that succeeds with out.
func NewMockResolver(out resolver.Outcome) *MockResolver {
	return &MockResolver{Outcome: out}
}

// Resolve records the request and returns the configured outcome.
func (m *MockResolver) Resolve(ctx context.Context, rec wizard.Record) (resolver.Outcome, error) {
	m.mu.Lock()
	m.records = append(m.records, rec)
	block, out, err := m.Block, m.Outcome, m.Err
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return resolver.Outcome{}, ctx.Err()
		}
	}
	if err != nil {
		return resolver.Outcome{}, err
	}
	out.Handle = rec.ResultHandle
	return out, nil
}

// Records returns every record Resolve was called with.
func (m *MockResolver) Records() []wizard.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wizard.Record(nil), m.records...)
}

// MockAccounts is an in-memory session gateway.
type MockAccounts struct {
	mu sync.Mutex

	User     account.User
	SignedIn bool
	Readings []account.Reading
	// Record is returned by Reconstruct.
	Record wizard.Record

	ListErr        error
	SaveErr        error
	DeleteErr      error
	ReconstructErr error

	Deleted       []string
	Saved         []account.Reading
	Reconstructed []account.Reading
}

// NewMockAccounts returns a signed-in account holding readings.
func NewMockAccounts(readings ...account.Reading) *MockAccounts {
	return &MockAccounts{
		User:     account.User{ID: FixedUserID, Email: FixedEmail},
		SignedIn: true,
		Readings: readings,
	}
}

// Current reports the configured user.
func (m *MockAccounts) Current(context.Context) (account.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.SignedIn {
		return account.User{}, false, nil
	}
	return m.User, true, nil
}

// ListReadings returns a copy of the stored readings.
func (m *MockAccounts) ListReadings(context.Context) ([]account.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]account.Reading(nil), m.Readings...), nil
}

// SaveReading stores a new reading at the head of the list.
func (m *MockAccounts) SaveReading(_ context.Context, form intake.Form, avatar string, focus wizard.Focus) (account.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return account.Reading{}, m.SaveErr
	}
	r := account.NewReading(m.User.ID, form, avatar, focus, FixedTime)
	m.Saved = append(m.Saved, r)
	m.Readings = append([]account.Reading{r}, m.Readings...)
	return r, nil
}

// DeleteReading removes the reading with id.
func (m *MockAccounts) DeleteReading(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i, r := range m.Readings {
		if r.ID == id {
			m.Readings = append(m.Readings[:i:i], m.Readings[i+1:]...)
			m.Deleted = append(m.Deleted, id)
			return nil
		}
	}
	return ierr.New(ierr.KindNotFound, "delete reading", "That reading no longer exists.")
}

// Reconstruct returns the configured record.
func (m *MockAccounts) Reconstruct(_ context.Context, r account.Reading) (wizard.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reconstructed = append(m.Reconstructed, r)
	if m.ReconstructErr != nil {
		return wizard.Record{}, m.ReconstructErr
	}
	return m.Record, nil
}
