package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/astroguide/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonDisabled
	ButtonFocused
)

// Button is a single entry of a ButtonBar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar renders a centred row of buttons.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{buttons: buttons, width: 60}
}

// SetWidth updates the width the bar is centred in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render renders the button bar.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}
	s := theme.Current().S()

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons creates the standard Back/Continue pair. The next
// button is focused when enabled so it reads as the default action.
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	back := Button{Label: "← Back", State: ButtonNormal}
	if !backEnabled {
		back.State = ButtonDisabled
	}
	next := Button{Label: nextLabel, State: ButtonFocused}
	if !nextEnabled {
		next.State = ButtonDisabled
	}
	return []Button{back, next}
}
