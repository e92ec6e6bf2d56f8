package wizard

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/astroguide/internal/tui/testfixtures"
	machine "github.com/mark3labs/astroguide/internal/wizard"
	"github.com/stretchr/testify/require"
)

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	spaceKey = tea.KeyPressMsg{Code: tea.KeySpace}
	downKey  = tea.KeyPressMsg{Code: tea.KeyDown}
	upKey    = tea.KeyPressMsg{Code: tea.KeyUp}
	escKey   = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func TestChoiceStep_ContinueDisabledUntilSelected(t *testing.T) {
	c := NewAvatarStep("")

	require.Nil(t, c.Update(enterKey))
	require.Contains(t, c.View(), "Select an option first")
	require.Empty(t, c.Selected())
}

func TestAvatarStep_SelectAndContinue(t *testing.T) {
	c := NewAvatarStep("")

	c.Update(downKey)
	c.Update(downKey)
	c.Update(spaceKey)
	require.Equal(t, "venus", c.Selected())

	// Reselecting is idempotent.
	c.Update(spaceKey)
	require.Equal(t, "venus", c.Selected())

	adv, ok := testfixtures.Find[AdvanceMsg](testfixtures.Exec(c.Update(enterKey)))
	require.True(t, ok)
	require.Equal(t, machine.AvatarChoice{ID: "venus"}, adv.Payload)
}

func TestChoiceStep_CursorBounds(t *testing.T) {
	c := NewFocusStep(machine.FocusUnset)

	c.Update(upKey)
	require.Equal(t, 0, c.cursor)
	for range 10 {
		c.Update(downKey)
	}
	require.Equal(t, len(machine.Focuses)-1, c.cursor)
	c.Update(testfixtures.Key("k"))
	require.Equal(t, len(machine.Focuses)-2, c.cursor)
}

func TestFocusStep_PayloadCarriesFocus(t *testing.T) {
	c := NewFocusStep(machine.FocusUnset)
	c.Update(downKey)
	c.Update(spaceKey)

	adv, ok := testfixtures.Find[AdvanceMsg](testfixtures.Exec(c.Update(enterKey)))
	require.True(t, ok)
	require.Equal(t, machine.FocusChoice{Focus: machine.FocusCareer}, adv.Payload)
	require.Contains(t, c.View(), "Career & Growth (Mars)")
}

func TestChoiceStep_PreselectsCurrent(t *testing.T) {
	c := NewFocusStep(machine.FocusWealth)
	require.Equal(t, "wealth", c.Selected())
	require.Equal(t, 2, c.cursor)
}

func TestChoiceStep_EscGoesBack(t *testing.T) {
	c := NewAvatarStep("")
	_, ok := testfixtures.Find[BackMsg](testfixtures.Exec(c.Update(escKey)))
	require.True(t, ok)
}
