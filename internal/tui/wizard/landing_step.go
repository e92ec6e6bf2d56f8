package wizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/astroguide/internal/tui/theme"
	machine "github.com/mark3labs/astroguide/internal/wizard"
)

// LandingStep is the welcome screen.
type LandingStep struct {
	readingsEnabled bool
	width           int
}

// NewLandingStep creates the landing step. When readingsEnabled is false
// the saved readings entry point is hidden.
func NewLandingStep(readingsEnabled bool) *LandingStep {
	return &LandingStep{readingsEnabled: readingsEnabled, width: 60}
}

// SetSize updates the available width.
func (l *LandingStep) SetSize(width, _ int) {
	l.width = width
}

// Update handles key presses.
func (l *LandingStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "enter", "space":
		return func() tea.Msg { return AdvanceMsg{Payload: machine.Start{}} }
	case "r":
		if l.readingsEnabled {
			return func() tea.Msg { return OpenReadingsMsg{} }
		}
	}
	return nil
}

// View renders the step.
func (l *LandingStep) View() string {
	t := theme.Current()
	s := t.S()

	var b strings.Builder
	b.WriteString(theme.Gradient("✦ Discover where you belong ✦", t.Primary, t.Tertiary))
	b.WriteString("\n\n")
	b.WriteString(s.Text.Render("Astrocartography maps your birth chart onto the globe."))
	b.WriteString("\n")
	b.WriteString(s.Subtle.Render("Tell us when and where you were born, pick a guide and a focus,"))
	b.WriteString("\n")
	b.WriteString(s.Subtle.Render("and we will find the cities where your planets shine brightest."))
	b.WriteString("\n\n")

	bar := NewButtonBar([]Button{{Label: "Begin your journey →", State: ButtonFocused}})
	bar.SetWidth(l.width)
	b.WriteString(bar.Render())
	b.WriteString("\n\n")

	if l.readingsEnabled {
		b.WriteString(renderHintBar("enter", "begin", "r", "saved readings", "ctrl+c", "quit"))
	} else {
		b.WriteString(renderHintBar("enter", "begin", "ctrl+c", "quit"))
	}
	return b.String()
}
