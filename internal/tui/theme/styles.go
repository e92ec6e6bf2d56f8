package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles for the TUI.
type Styles struct {
	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style
	Progress       lipgloss.Style

	Text    lipgloss.Style
	Subtle  lipgloss.Style
	Muted   lipgloss.Style
	Label   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style

	ItemNormal   lipgloss.Style
	ItemSelected lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style
}
