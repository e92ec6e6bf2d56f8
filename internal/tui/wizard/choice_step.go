package wizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/astroguide/internal/tui/theme"
	machine "github.com/mark3labs/astroguide/internal/wizard"
)

// choice is one selectable option.
type choice struct {
	id          string
	title       string
	description string
}

// ChoiceStep is a pure selection step: pick one option, then continue.
// It is used for both the avatar and the focus screens.
type ChoiceStep struct {
	intro    string
	choices  []choice
	cursor   int
	selected int // -1 until a selection is made
	payload  func(id string) machine.Payload
	hint     string // shown when continue is attempted without a selection
	width    int
}

// NewAvatarStep creates the avatar selection step. current pre-selects a
// previous choice.
func NewAvatarStep(current string) *ChoiceStep {
	choices := make([]choice, len(machine.Avatars))
	for i, a := range machine.Avatars {
		choices[i] = choice{
			id:          a.ID,
			title:       fmt.Sprintf("%s  %s", a.Symbol, a.Name),
			description: a.Description,
		}
	}
	return newChoiceStep(
		"Choose a guide to accompany you on your journey.",
		choices,
		current,
		func(id string) machine.Payload { return machine.AvatarChoice{ID: id} },
	)
}

// NewFocusStep creates the life focus selection step.
func NewFocusStep(current machine.Focus) *ChoiceStep {
	choices := make([]choice, len(machine.Focuses))
	for i, f := range machine.Focuses {
		choices[i] = choice{
			id:          string(f.Focus),
			title:       fmt.Sprintf("%s (%s)", f.Title, f.Focus.Planet()),
			description: f.Description,
		}
	}
	return newChoiceStep(
		"Which area of life do you want to explore?",
		choices,
		string(current),
		func(id string) machine.Payload {
			f, _ := machine.ParseFocus(id)
			return machine.FocusChoice{Focus: f}
		},
	)
}

func newChoiceStep(intro string, choices []choice, current string, payload func(string) machine.Payload) *ChoiceStep {
	c := &ChoiceStep{
		intro:    intro,
		choices:  choices,
		selected: -1,
		payload:  payload,
		width:    60,
	}
	for i, ch := range choices {
		if ch.id == current {
			c.selected = i
			c.cursor = i
		}
	}
	return c
}

// SetSize updates the available width.
func (c *ChoiceStep) SetSize(width, _ int) {
	c.width = width
}

// Selected returns the selected option id, or "".
func (c *ChoiceStep) Selected() string {
	if c.selected < 0 {
		return ""
	}
	return c.choices[c.selected].id
}

// Update handles navigation and selection.
func (c *ChoiceStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.choices)-1 {
			c.cursor++
		}
	case "space":
		c.selected = c.cursor
		c.hint = ""
	case "enter":
		if c.selected < 0 {
			c.hint = "Select an option first (space)"
			return nil
		}
		p := c.payload(c.choices[c.selected].id)
		return func() tea.Msg { return AdvanceMsg{Payload: p} }
	case "esc":
		return func() tea.Msg { return BackMsg{} }
	}
	return nil
}

// View renders the options.
func (c *ChoiceStep) View() string {
	s := theme.Current().S()

	var b strings.Builder
	b.WriteString(s.Subtle.Render(c.intro))
	b.WriteString("\n\n")

	for i, ch := range c.choices {
		mark := "○"
		if i == c.selected {
			mark = "●"
		}
		line := fmt.Sprintf("%s %s", mark, ch.title)
		if i == c.cursor {
			b.WriteString(s.ItemSelected.Render("▸ " + line))
		} else {
			b.WriteString(s.ItemNormal.Render(line))
		}
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("    " + ch.description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if c.hint != "" {
		b.WriteString(s.Warning.Render(c.hint))
		b.WriteString("\n\n")
	}

	bar := NewButtonBar(CreateBackNextButtons(true, c.selected >= 0, "Continue →"))
	bar.SetWidth(c.width)
	b.WriteString(bar.Render())
	b.WriteString("\n\n")
	b.WriteString(renderHintBar("↑↓", "navigate", "space", "select", "enter", "continue", "esc", "back"))
	return b.String()
}
