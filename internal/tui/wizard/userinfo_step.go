package wizard

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/astroguide/internal/tui/theme"
	machine "github.com/mark3labs/astroguide/internal/wizard"
)

type formField struct {
	key         string
	label       string
	placeholder string
}

var formFields = []formField{
	{intake.FieldBirthDate, "Birth date", "YYYY-MM-DD"},
	{intake.FieldBirthTime, "Birth time", "HH:MM"},
	{intake.FieldBirthLocation, "Birth location", "City, Country"},
	{intake.FieldCurrentLocation, "Current location", "City, Country"},
}

// UserInfoStep collects birth details and submits them for calculation.
// While a submission is in flight the form is locked and a spinner shows.
type UserInfoStep struct {
	ctx       context.Context
	submitter Submitter

	inputs     []textinput.Model
	focusIndex int
	errors     map[string]string // field key → message
	formError  string            // errors not tied to a field
	busy       bool
	spinner    spinner.Model
	width      int
}

// NewUserInfoStep creates the form, pre-filled from prev when the user
// comes back to it.
func NewUserInfoStep(ctx context.Context, submitter Submitter, prev *intake.Form) *UserInfoStep {
	t := theme.Current()
	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}

	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.Prompt = "› "
		in.SetStyles(styles)
		in.SetWidth(40)
		inputs[i] = in
	}
	if prev != nil {
		inputs[0].SetValue(prev.BirthDate)
		inputs[1].SetValue(prev.BirthTime)
		inputs[2].SetValue(prev.BirthLocation)
		inputs[3].SetValue(prev.CurrentLocation)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary))

	return &UserInfoStep{
		ctx:       ctx,
		submitter: submitter,
		inputs:    inputs,
		errors:    map[string]string{},
		spinner:   sp,
		width:     60,
	}
}

// Init focuses the first field.
func (u *UserInfoStep) Init() tea.Cmd {
	return u.focus(0)
}

// SetSize updates the available width.
func (u *UserInfoStep) SetSize(width, _ int) {
	u.width = width
	for i := range u.inputs {
		u.inputs[i].SetWidth(min(50, max(20, width-4)))
	}
}

// Form returns the current field values.
func (u *UserInfoStep) Form() intake.Form {
	return intake.Form{
		BirthDate:       u.inputs[0].Value(),
		BirthTime:       u.inputs[1].Value(),
		BirthLocation:   u.inputs[2].Value(),
		CurrentLocation: u.inputs[3].Value(),
	}
}

// Busy reports whether a submission is in flight.
func (u *UserInfoStep) Busy() bool {
	return u.busy
}

func (u *UserInfoStep) focus(i int) tea.Cmd {
	u.focusIndex = i
	for j := range u.inputs {
		if j != i {
			u.inputs[j].Blur()
		}
	}
	return u.inputs[i].Focus()
}

// Update handles input and the submission result.
func (u *UserInfoStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case submitDoneMsg:
		return u.finish(msg)

	case spinner.TickMsg:
		if !u.busy {
			return nil
		}
		var cmd tea.Cmd
		u.spinner, cmd = u.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		if u.busy {
			// The form is locked until the submission settles.
			return nil
		}
		switch msg.String() {
		case "esc":
			return func() tea.Msg { return BackMsg{} }
		case "tab", "down":
			return u.focus((u.focusIndex + 1) % len(u.inputs))
		case "shift+tab", "up":
			return u.focus((u.focusIndex + len(u.inputs) - 1) % len(u.inputs))
		case "enter":
			if u.focusIndex < len(u.inputs)-1 {
				return u.focus(u.focusIndex + 1)
			}
			return u.submit()
		case "ctrl+s":
			return u.submit()
		}
	}

	var cmd tea.Cmd
	u.inputs[u.focusIndex], cmd = u.inputs[u.focusIndex].Update(msg)
	return cmd
}

// submit validates locally and, when the form is complete, starts the
// network submission.
func (u *UserInfoStep) submit() tea.Cmd {
	if u.busy {
		return nil
	}
	u.errors = map[string]string{}
	u.formError = ""

	form := u.Form()
	if v := intake.Validate(form); !v.OK() {
		for _, p := range v.Problems {
			u.errors[p.Field] = p.Message
		}
		return u.focus(u.firstErrorIndex())
	}

	u.busy = true
	ctx, submitter := u.ctx, u.submitter
	logger.Debug("userinfo: submitting birth details")
	return tea.Batch(
		u.spinner.Tick,
		func() tea.Msg {
			handle, err := submitter.Submit(ctx, form)
			return submitDoneMsg{handle: handle, err: err}
		},
	)
}

func (u *UserInfoStep) finish(msg submitDoneMsg) tea.Cmd {
	u.busy = false
	if msg.err != nil {
		logger.Warn("userinfo: submission failed: %v", msg.err)
		if field := ierr.FieldOf(msg.err); field != "" {
			u.errors[field] = ierr.UserMessage(msg.err)
			return u.focus(u.firstErrorIndex())
		}
		u.formError = ierr.UserMessage(msg.err)
		return nil
	}
	handle := msg.handle
	return func() tea.Msg { return AdvanceMsg{Payload: machine.Handle{ResultHandle: handle}} }
}

func (u *UserInfoStep) firstErrorIndex() int {
	for i, f := range formFields {
		if _, ok := u.errors[f.key]; ok {
			return i
		}
	}
	return u.focusIndex
}

// View renders the form.
func (u *UserInfoStep) View() string {
	s := theme.Current().S()

	var b strings.Builder
	b.WriteString(s.Subtle.Render("Your birth details let us calculate your planetary lines."))
	b.WriteString("\n\n")

	for i, f := range formFields {
		label := s.Label.Render(f.label)
		if i == u.focusIndex {
			label = s.ItemSelected.Render("▸ " + f.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(u.inputs[i].View())
		b.WriteString("\n")
		if msg := renderFieldError(u.errors[f.key]); msg != "" {
			b.WriteString(msg)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if u.formError != "" {
		b.WriteString(renderFieldError(u.formError))
		b.WriteString("\n\n")
	}

	if u.busy {
		b.WriteString(u.spinner.View() + " " + s.Subtle.Render("Calculating your chart..."))
		b.WriteString("\n\n")
	}

	bar := NewButtonBar(CreateBackNextButtons(!u.busy, !u.busy, "Calculate →"))
	bar.SetWidth(u.width)
	b.WriteString(bar.Render())
	b.WriteString("\n\n")
	b.WriteString(renderHintBar("tab", "next field", "enter", "continue", "ctrl+s", "submit", "esc", "back"))
	return b.String()
}
