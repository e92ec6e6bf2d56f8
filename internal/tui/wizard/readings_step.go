package wizard

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/astroguide/internal/account"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/astroguide/internal/resolver"
	"github.com/mark3labs/astroguide/internal/tui/theme"
	machine "github.com/mark3labs/astroguide/internal/wizard"
)

// ReadingsStep lists the signed-in user's saved readings. A reading can be
// loaded back into the wizard or deleted after confirmation; it leaves the
// list only once the backend confirms the delete.
//
// All backend calls run under the current activation; leaving the step
// cancels them and their late responses are dropped.
type ReadingsStep struct {
	ctx      context.Context
	accounts Accounts

	acts       resolver.Activations
	activation uint64
	actx       context.Context

	loading    bool
	busy       bool // delete or reconstruct in flight
	signedIn   bool
	user       account.User
	readings   []account.Reading
	cursor     int
	confirming bool
	errMsg     string

	spinner spinner.Model
	width   int
}

// NewReadingsStep creates the saved readings step.
func NewReadingsStep(ctx context.Context, accounts Accounts) *ReadingsStep {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	return &ReadingsStep{
		ctx:      ctx,
		accounts: accounts,
		actx:     ctx,
		spinner:  sp,
		width:    60,
	}
}

// SetSize updates the available width.
func (r *ReadingsStep) SetSize(width, _ int) {
	r.width = width
}

// Readings returns the currently listed readings.
func (r *ReadingsStep) Readings() []account.Reading {
	return r.readings
}

// Activate starts a new activation and (re)loads the list.
func (r *ReadingsStep) Activate() tea.Cmd {
	r.activation, r.actx = r.acts.Begin(r.ctx)
	r.loading = true
	r.busy = false
	r.confirming = false
	r.errMsg = ""

	id, ctx, accounts := r.activation, r.actx, r.accounts
	return tea.Batch(
		r.spinner.Tick,
		func() tea.Msg {
			user, ok, err := accounts.Current(ctx)
			if err != nil || !ok {
				return readingsLoadedMsg{activation: id, err: err}
			}
			list, err := accounts.ListReadings(ctx)
			return readingsLoadedMsg{activation: id, user: user, signedIn: true, readings: list, err: err}
		},
	)
}

// Deactivate cancels in-flight calls. Responses that arrive afterwards are
// ignored.
func (r *ReadingsStep) Deactivate() {
	r.acts.End()
	r.loading = false
	r.busy = false
	r.confirming = false
}

func (r *ReadingsStep) stale(id uint64) bool {
	if id != r.activation || !r.acts.Current(id) {
		logger.Debug("readings: dropping response for activation#%d (now %s)", id, &r.acts)
		return true
	}
	return false
}

// Update handles list results and key presses.
func (r *ReadingsStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case readingsLoadedMsg:
		if r.stale(msg.activation) {
			return nil
		}
		r.loading = false
		r.signedIn = msg.signedIn
		r.user = msg.user
		if msg.err != nil {
			r.errMsg = ierr.UserMessage(msg.err)
			return nil
		}
		r.readings = msg.readings
		r.cursor = min(r.cursor, max(0, len(r.readings)-1))
		return nil

	case readingDeletedMsg:
		if r.stale(msg.activation) {
			return nil
		}
		r.busy = false
		if msg.err != nil {
			logger.Warn("readings: delete %s failed: %v", msg.id, msg.err)
			r.errMsg = ierr.UserMessage(msg.err)
			return nil
		}
		r.remove(msg.id)
		return nil

	case readingReconstructedMsg:
		if r.stale(msg.activation) {
			return nil
		}
		r.busy = false
		if msg.err != nil {
			r.errMsg = ierr.UserMessage(msg.err)
			return nil
		}
		m := LoadReadingMsg{Reading: msg.reading, Record: msg.record}
		return func() tea.Msg { return m }

	case spinner.TickMsg:
		if !r.loading && !r.busy {
			return nil
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return nil
}

func (r *ReadingsStep) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if r.confirming {
		switch msg.String() {
		case "y":
			r.confirming = false
			return r.delete()
		case "n", "esc":
			r.confirming = false
		}
		return nil
	}

	if msg.String() == "esc" {
		return func() tea.Msg { return BackMsg{} }
	}
	if r.loading || r.busy {
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if r.cursor > 0 {
			r.cursor--
		}
	case "down", "j":
		if r.cursor < len(r.readings)-1 {
			r.cursor++
		}
	case "d":
		if len(r.readings) > 0 {
			r.errMsg = ""
			r.confirming = true
		}
	case "enter":
		return r.load()
	case "r":
		return r.Activate()
	}
	return nil
}

func (r *ReadingsStep) delete() tea.Cmd {
	if len(r.readings) == 0 {
		return nil
	}
	r.busy = true
	id := r.readings[r.cursor].ID
	act, ctx, accounts := r.activation, r.actx, r.accounts
	return tea.Batch(
		r.spinner.Tick,
		func() tea.Msg {
			return readingDeletedMsg{activation: act, id: id, err: accounts.DeleteReading(ctx, id)}
		},
	)
}

func (r *ReadingsStep) load() tea.Cmd {
	if len(r.readings) == 0 {
		return nil
	}
	r.busy = true
	r.errMsg = ""
	reading := r.readings[r.cursor]
	act, ctx, accounts := r.activation, r.actx, r.accounts
	return tea.Batch(
		r.spinner.Tick,
		func() tea.Msg {
			rec, err := accounts.Reconstruct(ctx, reading)
			return readingReconstructedMsg{activation: act, reading: reading, record: rec, err: err}
		},
	)
}

func (r *ReadingsStep) remove(id string) {
	for i, rd := range r.readings {
		if rd.ID == id {
			r.readings = append(r.readings[:i:i], r.readings[i+1:]...)
			break
		}
	}
	if r.cursor >= len(r.readings) {
		r.cursor = max(0, len(r.readings)-1)
	}
}

func describeReading(rd account.Reading) string {
	focus := rd.Influence
	if f, err := machine.ParseFocus(rd.Influence); err == nil {
		if opt, ok := machine.FocusOptionFor(f); ok {
			focus = opt.Title
		}
	}
	return fmt.Sprintf("%s  %s %s · %s", rd.CreatedAt.Format("2006-01-02"), rd.BirthDate, rd.BirthLocation, focus)
}

// View renders the list.
func (r *ReadingsStep) View() string {
	s := theme.Current().S()

	var b strings.Builder
	if r.loading {
		b.WriteString(r.spinner.View() + " " + s.Subtle.Render("Loading saved readings..."))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("esc", "back"))
		return b.String()
	}

	if !r.signedIn {
		if r.errMsg != "" {
			b.WriteString(renderFieldError(r.errMsg))
			b.WriteString("\n\n")
		}
		b.WriteString(s.Subtle.Render("You are not signed in. Run `astroguide login` to see saved readings."))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("esc", "back"))
		return b.String()
	}

	b.WriteString(s.Subtle.Render("Signed in as " + r.user.Email))
	b.WriteString("\n\n")

	if len(r.readings) == 0 {
		b.WriteString(s.Muted.Render("No saved readings yet."))
		b.WriteString("\n")
	}
	for i, rd := range r.readings {
		line := describeReading(rd)
		if i == r.cursor {
			b.WriteString(s.ItemSelected.Render("▸ " + line))
		} else {
			b.WriteString(s.ItemNormal.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if r.errMsg != "" {
		b.WriteString(renderFieldError(r.errMsg))
		b.WriteString("\n\n")
	}
	if r.busy {
		b.WriteString(r.spinner.View() + " " + s.Subtle.Render("Working..."))
		b.WriteString("\n\n")
	}

	if r.confirming {
		b.WriteString(s.Warning.Render("Delete this reading? (y/n)"))
		return b.String()
	}
	b.WriteString(renderHintBar("↑↓", "navigate", "enter", "open", "d", "delete", "r", "refresh", "esc", "back"))
	return b.String()
}
