package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/astroguide/internal/report"
	"github.com/mark3labs/astroguide/internal/resolver"
	"github.com/mark3labs/astroguide/internal/tui/theme"
	machine "github.com/mark3labs/astroguide/internal/wizard"
)

// ResultsStep fetches and shows the top cities for the chosen focus.
// Every activation fetches afresh; a response from an earlier activation
// is dropped.
type ResultsStep struct {
	deps   Deps
	parent context.Context
	acts   resolver.Activations

	record     machine.Record
	activation uint64
	loading    bool
	outcome    *resolver.Outcome
	err        error

	snapshot   *formSnapshot
	saving     bool
	saved      bool
	exportPath string
	notice     string
	noticeErr  bool

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
}

// NewResultsStep creates the results step.
func NewResultsStep(ctx context.Context, deps Deps) *ResultsStep {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	return &ResultsStep{
		deps:     deps,
		parent:   ctx,
		spinner:  sp,
		viewport: viewport.New(viewport.WithWidth(60), viewport.WithHeight(12)),
		width:    60,
		height:   20,
	}
}

// SetSize updates the available area.
func (r *ResultsStep) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.viewport.SetWidth(width)
	r.viewport.SetHeight(max(5, height-8))
	r.refreshContent()
}

// Activate starts a fresh fetch for rec. snap carries the birth details
// needed to save the reading; it may be nil.
func (r *ResultsStep) Activate(rec machine.Record, snap *formSnapshot) tea.Cmd {
	r.record = rec
	r.snapshot = snap
	r.saved = false
	r.saving = false
	r.exportPath = ""
	r.setNotice("", false)
	return r.fetch()
}

// Deactivate cancels the in-flight fetch, if any.
func (r *ResultsStep) Deactivate() {
	r.acts.End()
	r.loading = false
}

// Loading reports whether a fetch is in flight.
func (r *ResultsStep) Loading() bool {
	return r.loading
}

func (r *ResultsStep) fetch() tea.Cmd {
	id, ctx := r.acts.Begin(r.parent)
	r.activation = id
	r.loading = true
	r.outcome = nil
	r.err = nil

	rec, res := r.record, r.deps.Resolver
	logger.Debug("results: fetching %s for %s", rec.ResultHandle, &r.acts)
	return tea.Batch(
		r.spinner.Tick,
		func() tea.Msg {
			out, err := res.Resolve(ctx, rec)
			return resultsMsg{activation: id, outcome: out, err: err}
		},
	)
}

// Update handles fetch results and key presses.
func (r *ResultsStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resultsMsg:
		if msg.activation != r.activation || !r.acts.Current(msg.activation) {
			logger.Debug("results: dropping stale response for activation %d", msg.activation)
			return nil
		}
		r.loading = false
		r.acts.End()
		if msg.err != nil {
			r.err = msg.err
			logger.Warn("results: %v", msg.err)
		} else {
			out := msg.outcome
			r.outcome = &out
		}
		r.refreshContent()
		return nil

	case readingSavedMsg:
		r.saving = false
		if msg.err != nil {
			r.setNotice(ierr.UserMessage(msg.err), true)
			return nil
		}
		r.saved = true
		r.setNotice("Reading saved to your account.", false)
		return nil

	case exportDoneMsg:
		if msg.err != nil {
			r.setNotice(fmt.Sprintf("Export failed: %v", msg.err), true)
			return nil
		}
		r.exportPath = msg.path
		r.setNotice("Exported to "+msg.path, false)
		return nil

	case editorClosedMsg:
		if msg.err != nil {
			r.setNotice(fmt.Sprintf("Editor failed: %v", msg.err), true)
		}
		return nil

	case spinner.TickMsg:
		if !r.loading && !r.saving {
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

func (r *ResultsStep) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return func() tea.Msg { return BackMsg{} }
	case "n":
		return func() tea.Msg { return StartOverMsg{} }
	}

	if r.loading {
		return nil
	}

	switch msg.String() {
	case "r":
		if r.err != nil {
			r.setNotice("", false)
			return r.fetch()
		}
	case "f":
		if errors.Is(r.err, ierr.NoMatch) {
			return func() tea.Msg { return BackMsg{} }
		}
	case "s":
		return r.save()
	case "e":
		return r.export()
	case "o":
		return r.openEditor()
	default:
		if r.outcome != nil {
			var cmd tea.Cmd
			r.viewport, cmd = r.viewport.Update(msg)
			return cmd
		}
	}
	return nil
}

func (r *ResultsStep) canSave() bool {
	return r.deps.Accounts != nil && r.snapshot != nil && r.outcome != nil && !r.saved && !r.saving
}

func (r *ResultsStep) save() tea.Cmd {
	if !r.canSave() {
		return nil
	}
	r.saving = true
	r.setNotice("Saving reading...", false)

	accounts, ctx := r.deps.Accounts, r.parent
	snap, focus := *r.snapshot, r.record.Focus
	return tea.Batch(
		r.spinner.Tick,
		func() tea.Msg {
			saved, err := accounts.SaveReading(ctx, snap.form, snap.avatar, focus)
			return readingSavedMsg{reading: saved, err: err}
		},
	)
}

func (r *ResultsStep) reading() report.Reading {
	return report.Reading{
		Outcome:   *r.outcome,
		AvatarID:  r.record.AvatarID,
		CreatedAt: r.deps.now(),
	}
}

func (r *ResultsStep) export() tea.Cmd {
	if r.outcome == nil {
		return nil
	}
	dir, reading := r.deps.ExportDir, r.reading()
	return func() tea.Msg {
		path, err := report.Save(dir, reading)
		return exportDoneMsg{path: path, err: err}
	}
}

func (r *ResultsStep) openEditor() tea.Cmd {
	if r.exportPath == "" {
		r.setNotice("Export the reading first (e).", true)
		return nil
	}
	cmd, err := report.EditorCommand(r.exportPath)
	if err != nil {
		r.setNotice(err.Error(), true)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorClosedMsg{err: err}
	})
}

func (r *ResultsStep) setNotice(text string, isErr bool) {
	r.notice = text
	r.noticeErr = isErr
}

func (r *ResultsStep) refreshContent() {
	if r.outcome == nil {
		r.viewport.SetContent("")
		return
	}
	r.viewport.SetContent(report.Render(report.Markdown(r.reading()), r.width))
	r.viewport.GotoTop()
}

// View renders the current state.
func (r *ResultsStep) View() string {
	s := theme.Current().S()

	var b strings.Builder
	switch {
	case r.loading:
		b.WriteString(r.spinner.View() + " " + s.Subtle.Render("Reading the stars for your cities..."))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("esc", "back", "n", "start over"))
		return b.String()

	case errors.Is(r.err, ierr.NoMatch):
		b.WriteString(s.Warning.Render(ierr.UserMessage(r.err)))
		b.WriteString("\n")
		b.WriteString(s.Subtle.Render("Try another focus to see where other planets shine."))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("f", "another focus", "r", "retry", "n", "start over"))
		return b.String()

	case r.err != nil:
		b.WriteString(renderFieldError(ierr.UserMessage(r.err)))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("r", "retry", "esc", "back", "n", "start over"))
		return b.String()
	}

	b.WriteString(r.viewport.View())
	b.WriteString("\n")

	if r.notice != "" {
		if r.noticeErr {
			b.WriteString(s.Error.Render(r.notice))
		} else {
			b.WriteString(s.Success.Render(r.notice))
		}
		b.WriteString("\n")
	}
	if r.saving {
		b.WriteString(r.spinner.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	pairs := []string{"↑↓", "scroll"}
	if r.canSave() {
		pairs = append(pairs, "s", "save")
	}
	pairs = append(pairs, "e", "export")
	if r.exportPath != "" {
		pairs = append(pairs, "o", "open")
	}
	pairs = append(pairs, "n", "start over", "esc", "back")
	b.WriteString(renderHintBar(pairs...))
	return b.String()
}
