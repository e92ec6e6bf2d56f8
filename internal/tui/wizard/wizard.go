// Package wizard is the terminal front end of the astrocartography wizard.
// WizardModel owns the step machine; each step component gets the current
// record and reports back with AdvanceMsg or BackMsg.
package wizard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/astroguide/internal/tui/theme"
	machine "github.com/mark3labs/astroguide/internal/wizard"
)

type sizer interface {
	SetSize(width, height int)
}

// WizardModel is the main BubbleTea model.
type WizardModel struct {
	ctx     context.Context
	deps    Deps
	machine *machine.Machine
	width   int
	height  int

	// Birth details of the last submission. They stay out of the record
	// and are only used to pre-fill the form and to save a reading.
	lastForm  *intake.Form
	fromSaved bool

	landing  *LandingStep
	userInfo *UserInfoStep
	avatar   *ChoiceStep
	focus    *ChoiceStep
	results  *ResultsStep
	readings *ReadingsStep
}

// NewWizardModel creates the model at the landing step.
func NewWizardModel(ctx context.Context, deps Deps) *WizardModel {
	m := &WizardModel{
		ctx:     ctx,
		deps:    deps,
		machine: machine.NewMachine(),
		landing: NewLandingStep(deps.Accounts != nil),
		results: NewResultsStep(ctx, deps),
		width:   80,
		height:  24,
	}
	if deps.Accounts != nil {
		m.readings = NewReadingsStep(ctx, deps.Accounts)
	}
	return m
}

// Run starts a full-screen program and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	m := NewWizardModel(ctx, deps)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	_, err := p.Run()
	m.leave()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}

// Current returns the active step.
func (m *WizardModel) Current() machine.Step {
	return m.machine.Current()
}

// Record returns the accumulated record.
func (m *WizardModel) Record() machine.Record {
	return m.machine.Record()
}

// Init implements tea.Model.
func (m *WizardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.leave()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case AdvanceMsg:
		return m, m.advance(msg.Payload)

	case BackMsg:
		return m, m.back()

	case StartOverMsg:
		m.leave()
		m.machine.Reset()
		m.lastForm = nil
		m.fromSaved = false
		return m, m.enter()

	case OpenReadingsMsg:
		if m.readings == nil {
			return m, nil
		}
		m.leave()
		if err := m.machine.OpenSavedReadings(); err != nil {
			logger.Warn("wizard: %v", err)
			return m, nil
		}
		return m, m.enter()

	case LoadReadingMsg:
		if m.machine.Current() != machine.StepSavedReadings {
			logger.Debug("wizard: ignoring saved reading %s outside saved readings", msg.Reading.ID)
			return m, nil
		}
		m.leave()
		m.machine.LoadExisting(msg.Record)
		form := msg.Reading.Form()
		m.lastForm = &form
		m.fromSaved = true
		return m, m.enter()

	// Async results always go to the step that issued them, even if the
	// user has moved on; the step decides whether they still matter.
	case submitDoneMsg:
		if m.userInfo != nil {
			return m, m.userInfo.Update(msg)
		}
		return m, nil

	case resultsMsg, readingSavedMsg, exportDoneMsg, editorClosedMsg:
		return m, m.results.Update(msg)

	case readingsLoadedMsg, readingDeletedMsg, readingReconstructedMsg:
		if m.readings != nil {
			return m, m.readings.Update(msg)
		}
		return m, nil
	}

	return m, m.forward(msg)
}

// forward hands msg to the active step.
func (m *WizardModel) forward(msg tea.Msg) tea.Cmd {
	switch m.machine.Current() {
	case machine.StepLanding:
		return m.landing.Update(msg)
	case machine.StepUserInfo:
		if m.userInfo != nil {
			return m.userInfo.Update(msg)
		}
	case machine.StepAvatar:
		if m.avatar != nil {
			return m.avatar.Update(msg)
		}
	case machine.StepInfluence:
		if m.focus != nil {
			return m.focus.Update(msg)
		}
	case machine.StepResults:
		return m.results.Update(msg)
	case machine.StepSavedReadings:
		if m.readings != nil {
			return m.readings.Update(msg)
		}
	}
	return nil
}

func (m *WizardModel) advance(p machine.Payload) tea.Cmd {
	if m.machine.Current() == machine.StepUserInfo && m.userInfo != nil {
		form := m.userInfo.Form()
		m.lastForm = &form
		m.fromSaved = false
	}
	if err := m.machine.Advance(p); err != nil {
		logger.Warn("wizard: advance rejected: %v", err)
		return nil
	}
	return m.enter()
}

func (m *WizardModel) back() tea.Cmd {
	m.leave()
	if err := m.machine.Back(); err != nil {
		logger.Warn("wizard: back rejected: %v", err)
		return nil
	}
	return m.enter()
}

// leave cancels the async work of the step being left.
func (m *WizardModel) leave() {
	switch m.machine.Current() {
	case machine.StepResults:
		m.results.Deactivate()
	case machine.StepSavedReadings:
		if m.readings != nil {
			m.readings.Deactivate()
		}
	}
}

// enter prepares the component for the step the machine is now on.
func (m *WizardModel) enter() tea.Cmd {
	rec := m.machine.Record()

	var cmd tea.Cmd
	switch m.machine.Current() {
	case machine.StepUserInfo:
		m.userInfo = NewUserInfoStep(m.ctx, m.deps.Submitter, m.lastForm)
		cmd = m.userInfo.Init()
	case machine.StepAvatar:
		m.avatar = NewAvatarStep(rec.AvatarID)
	case machine.StepInfluence:
		m.focus = NewFocusStep(rec.Focus)
	case machine.StepResults:
		var snap *formSnapshot
		if m.lastForm != nil && !m.fromSaved {
			snap = &formSnapshot{form: *m.lastForm, avatar: rec.AvatarID}
		}
		cmd = m.results.Activate(rec, snap)
	case machine.StepSavedReadings:
		if m.readings != nil {
			cmd = m.readings.Activate()
		}
	}
	m.resize()
	return cmd
}

func (m *WizardModel) contentSize() (int, int) {
	w := min(max(m.width-10, 40), 96)
	h := max(m.height-8, 10)
	return w, h
}

func (m *WizardModel) resize() {
	w, h := m.contentSize()
	for _, s := range m.steps() {
		s.SetSize(w, h)
	}
}

func (m *WizardModel) steps() []sizer {
	out := []sizer{m.landing, m.results}
	if m.userInfo != nil {
		out = append(out, m.userInfo)
	}
	if m.avatar != nil {
		out = append(out, m.avatar)
	}
	if m.focus != nil {
		out = append(out, m.focus)
	}
	if m.readings != nil {
		out = append(out, m.readings)
	}
	return out
}

// View implements tea.Model.
func (m *WizardModel) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := m.renderModal(m.stepView())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

func (m *WizardModel) stepView() string {
	switch m.machine.Current() {
	case machine.StepLanding:
		return m.landing.View()
	case machine.StepUserInfo:
		if m.userInfo != nil {
			return m.userInfo.View()
		}
	case machine.StepAvatar:
		if m.avatar != nil {
			return m.avatar.View()
		}
	case machine.StepInfluence:
		if m.focus != nil {
			return m.focus.View()
		}
	case machine.StepResults:
		return m.results.View()
	case machine.StepSavedReadings:
		if m.readings != nil {
			return m.readings.View()
		}
	}
	return ""
}

// title renders the modal heading with a progress indicator on the input steps.
func (m *WizardModel) title() string {
	step := m.machine.Current()
	s := theme.Current().S()

	title := s.ModalTitle.Render("✦ astroguide · " + step.Label())
	if cur, total := step.Progress(); cur > 0 {
		title += "  " + s.Progress.Render(fmt.Sprintf("Step %d of %d", cur, total))
	}
	return title
}

func (m *WizardModel) renderModal(stepContent string) string {
	sections := []string{m.title(), "", stepContent}
	content := strings.Join(sections, "\n")

	w, _ := m.contentSize()
	modal := theme.Current().S().ModalContainer.Width(w + 6).Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
