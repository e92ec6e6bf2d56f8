package wizard

import (
	"github.com/mark3labs/astroguide/internal/account"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/resolver"
	machine "github.com/mark3labs/astroguide/internal/wizard"
)

// AdvanceMsg is emitted by a step when it is complete. The payload is
// merged into the record by the step machine.
type AdvanceMsg struct {
	Payload machine.Payload
}

// BackMsg asks the wizard to return to the previous step.
type BackMsg struct{}

// StartOverMsg clears the record and returns to landing.
type StartOverMsg struct{}

// OpenReadingsMsg switches to the saved readings list.
type OpenReadingsMsg struct{}

// LoadReadingMsg replaces the record with one rebuilt from a saved reading.
type LoadReadingMsg struct {
	Reading account.Reading
	Record  machine.Record
}

// submitDoneMsg carries the outcome of the birth details submission.
type submitDoneMsg struct {
	handle string
	err    error
}

// resultsMsg carries a resolver outcome tagged with the activation that
// requested it.
type resultsMsg struct {
	activation uint64
	outcome    resolver.Outcome
	err        error
}

type readingsLoadedMsg struct {
	activation uint64
	user       account.User
	signedIn   bool
	readings   []account.Reading
	err        error
}

type readingDeletedMsg struct {
	activation uint64
	id         string
	err        error
}

type readingReconstructedMsg struct {
	activation uint64
	reading    account.Reading
	record     machine.Record
	err        error
}

type readingSavedMsg struct {
	reading account.Reading
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}

type editorClosedMsg struct {
	err error
}

// formSnapshot is what the results step needs to save a reading. Birth
// details never enter the record, so the wizard keeps them alongside it.
type formSnapshot struct {
	form   intake.Form
	avatar string
}
