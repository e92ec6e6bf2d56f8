// Package theme holds the colour palette and pre-built styles shared by the
// terminal UI.
package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Accents
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string

	Success string
	Warning string
	Error   string

	styles     *Styles
	stylesOnce sync.Once
}

var (
	current     *Theme
	currentOnce sync.Once
)

// Current returns the active theme.
func Current() *Theme {
	currentOnce.Do(func() {
		current = NewCatppuccinMocha()
	})
	return current
}

// S returns the pre-built styles for this theme, building them on first use.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	return &Styles{
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Secondary)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		Progress: lipgloss.NewStyle().Foreground(c(t.FgMuted)),

		Text:    lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Subtle:  lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		Muted:   lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		Label:   lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(c(t.Error)),
		Warning: lipgloss.NewStyle().Foreground(c(t.Warning)),
		Success: lipgloss.NewStyle().Foreground(c(t.Success)),

		ItemNormal:   lipgloss.NewStyle().Foreground(c(t.FgBase)).PaddingLeft(2),
		ItemSelected: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface1)),

		ButtonNormal: lipgloss.NewStyle().
			Foreground(c(t.FgBase)).
			Background(c(t.BgSurface0)).
			Padding(0, 2).
			Margin(0, 1),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)).
			Background(c(t.BgMantle)).
			Padding(0, 2).
			Margin(0, 1),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Secondary)).
			Bold(true).
			Padding(0, 2).
			Margin(0, 1),
	}
}
