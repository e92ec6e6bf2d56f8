package wizard

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/astroguide/internal/tui/testfixtures"
	machine "github.com/mark3labs/astroguide/internal/wizard"
	"github.com/stretchr/testify/require"
)

func newTestWizard(t *testing.T, acc Accounts) (*WizardModel, *testfixtures.MockSubmitter, *testfixtures.MockResolver) {
	t.Helper()
	sub := testfixtures.NewMockSubmitter(testfixtures.FixedHandle)
	res := testfixtures.NewMockResolver(testfixtures.SampleOutcome())
	m := NewWizardModel(context.Background(), Deps{
		Submitter: sub,
		Resolver:  res,
		Accounts:  acc,
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return testfixtures.FixedTime },
	})
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return m, sub, res
}

func render(m *WizardModel) string {
	return m.renderModal(m.stepView())
}

// send delivers msg and feeds back every message the resulting command
// produces, except for steps whose commands would block.
func send(m *WizardModel, msg tea.Msg) {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if m.Current() == machine.StepUserInfo {
		// Focus returns a cursor blink command that sleeps.
		if _, ok := msg.(submitDoneMsg); !ok {
			return
		}
	}
	for _, out := range testfixtures.Exec(cmd) {
		switch out.(type) {
		case AdvanceMsg, BackMsg, StartOverMsg, OpenReadingsMsg, LoadReadingMsg,
			resultsMsg, readingsLoadedMsg, readingReconstructedMsg:
			send(m, out)
		}
	}
}

func TestWizard_FullWalk(t *testing.T) {
	m, sub, res := newTestWizard(t, nil)
	require.Equal(t, machine.StepLanding, m.Current())
	require.Contains(t, render(m), "Astrocartography maps your birth chart")

	send(m, enterKey)
	require.Equal(t, machine.StepUserInfo, m.Current())
	require.Contains(t, render(m), "Step 1 of 3")

	fillForm(m.userInfo, testfixtures.SampleForm())
	_, cmd := m.Update(ctrlS)
	done, ok := testfixtures.Find[submitDoneMsg](testfixtures.Exec(cmd))
	require.True(t, ok)
	send(m, done)
	require.Equal(t, machine.StepAvatar, m.Current())
	require.Equal(t, 1, sub.Calls())

	send(m, spaceKey)
	send(m, enterKey)
	require.Equal(t, machine.StepInfluence, m.Current())

	send(m, spaceKey)
	send(m, enterKey)
	require.Equal(t, machine.StepResults, m.Current())

	want := machine.Record{
		ResultHandle:   testfixtures.FixedHandle,
		AvatarID:       "apollo",
		Focus:          machine.FocusLove,
		SelectedPlanet: machine.PlanetVenus,
	}
	if diff := cmp.Diff(want, m.Record()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []machine.Record{want}, res.Records())
	require.Contains(t, render(m), "Paris")
}

func TestWizard_BackRefetchesOnReturn(t *testing.T) {
	m, _, res := newTestWizard(t, nil)
	send(m, AdvanceMsg{Payload: machine.Start{}})
	send(m, AdvanceMsg{Payload: machine.Handle{ResultHandle: "h"}})
	send(m, AdvanceMsg{Payload: machine.AvatarChoice{ID: "diana"}})
	send(m, AdvanceMsg{Payload: machine.FocusChoice{Focus: machine.FocusWealth}})
	require.Equal(t, machine.StepResults, m.Current())

	send(m, escKey)
	require.Equal(t, machine.StepInfluence, m.Current())
	require.Equal(t, "wealth", m.focus.Selected(), "previous choice is pre-selected")

	send(m, upKey)
	send(m, spaceKey)
	send(m, enterKey)
	require.Equal(t, machine.StepResults, m.Current())

	recs := res.Records()
	require.Len(t, recs, 2, "each activation fetches afresh")
	require.Equal(t, machine.PlanetJupiter, recs[0].SelectedPlanet)
	require.Equal(t, machine.PlanetMars, recs[1].SelectedPlanet)
	require.Equal(t, "diana", recs[1].AvatarID)
}

func TestWizard_StartOverClearsRecord(t *testing.T) {
	m, _, _ := newTestWizard(t, nil)
	send(m, AdvanceMsg{Payload: machine.Start{}})
	send(m, AdvanceMsg{Payload: machine.Handle{ResultHandle: "h"}})
	send(m, AdvanceMsg{Payload: machine.AvatarChoice{ID: "diana"}})
	send(m, AdvanceMsg{Payload: machine.FocusChoice{Focus: machine.FocusLove}})

	send(m, testfixtures.Key("n"))
	require.Equal(t, machine.StepLanding, m.Current())
	require.True(t, m.Record().IsZero())
}

func TestWizard_RejectsForeignPayload(t *testing.T) {
	m, _, _ := newTestWizard(t, nil)
	send(m, AdvanceMsg{Payload: machine.AvatarChoice{ID: "diana"}})
	require.Equal(t, machine.StepLanding, m.Current())
	require.True(t, m.Record().IsZero())
}

func TestWizard_ReadingsHiddenWithoutAccounts(t *testing.T) {
	m, _, _ := newTestWizard(t, nil)
	send(m, testfixtures.Key("r"))
	require.Equal(t, machine.StepLanding, m.Current())
	require.NotContains(t, render(m), "saved readings")
}

func TestWizard_LoadSavedReading(t *testing.T) {
	acc := testfixtures.NewMockAccounts(testfixtures.SampleReadings()...)
	acc.Record = machine.Record{
		ResultHandle:   "fresh",
		AvatarID:       "athena",
		Focus:          machine.FocusCareer,
		SelectedPlanet: machine.PlanetMars,
	}
	m, _, res := newTestWizard(t, acc)

	send(m, testfixtures.Key("r"))
	require.Equal(t, machine.StepSavedReadings, m.Current())
	require.Len(t, m.readings.Readings(), 2)

	send(m, downKey)
	send(m, enterKey)
	require.Equal(t, machine.StepResults, m.Current())
	require.Equal(t, acc.Record, m.Record())
	require.Equal(t, testfixtures.SampleReadings()[1].ID, acc.Reconstructed[0].ID)
	require.Equal(t, []machine.Record{acc.Record}, res.Records())

	// A loaded reading is already saved.
	require.False(t, m.results.canSave())

	send(m, escKey)
	require.Equal(t, machine.StepInfluence, m.Current())
}

func TestWizard_LateSavedReadingAfterLeaving(t *testing.T) {
	acc := testfixtures.NewMockAccounts(testfixtures.SampleReadings()...)
	acc.Record = testfixtures.CompleteRecord()
	m, _, res := newTestWizard(t, acc)

	send(m, testfixtures.Key("r"))
	require.Equal(t, machine.StepSavedReadings, m.Current())

	// Open a reading but hold its response back.
	_, cmd := m.Update(enterKey)
	late, ok := testfixtures.Find[readingReconstructedMsg](testfixtures.Exec(cmd))
	require.True(t, ok)

	send(m, escKey)
	require.Equal(t, machine.StepLanding, m.Current())
	send(m, enterKey)
	require.Equal(t, machine.StepUserInfo, m.Current())

	_, cmd = m.Update(late)
	require.Nil(t, cmd)
	require.Equal(t, machine.StepUserInfo, m.Current())
	require.True(t, m.Record().IsZero())
	require.Empty(t, res.Records())
}

func TestWizard_IgnoresLoadOutsideSavedReadings(t *testing.T) {
	m, _, res := newTestWizard(t, testfixtures.NewMockAccounts())
	send(m, AdvanceMsg{Payload: machine.Start{}})
	require.Equal(t, machine.StepUserInfo, m.Current())

	_, cmd := m.Update(LoadReadingMsg{
		Reading: testfixtures.SampleReadings()[0],
		Record:  testfixtures.CompleteRecord(),
	})
	require.Nil(t, cmd)
	require.Equal(t, machine.StepUserInfo, m.Current())
	require.True(t, m.Record().IsZero())
	require.Empty(t, res.Records())
}

func TestWizard_ReadingsBackToLanding(t *testing.T) {
	m, _, _ := newTestWizard(t, testfixtures.NewMockAccounts())
	send(m, testfixtures.Key("r"))
	send(m, escKey)
	require.Equal(t, machine.StepLanding, m.Current())
}

func TestWizard_CtrlCQuits(t *testing.T) {
	m, _, _ := newTestWizard(t, nil)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
