package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/mark3labs/astroguide/internal/logger"
)

// FSM event names.
const (
	eventAdvance      = "advance"
	eventBack         = "back"
	eventReset        = "reset"
	eventLoad         = "load"
	eventOpenReadings = "open_readings"
)

var (
	// ErrTerminalStep is returned by Advance at the results step.
	ErrTerminalStep = errors.New("results is the last step")
	// ErrUnexpectedPayload is returned when a payload is offered by a step
	// other than the current one.
	ErrUnexpectedPayload = errors.New("payload does not belong to the current step")
)

// Machine tracks the current step and the accumulated record.
// It performs no content validation: whatever a step hands over is merged.
// A Machine is not safe for concurrent use.
type Machine struct {
	fsm    *fsm.FSM
	record Record
}

// NewMachine returns a machine at the landing step with an empty record.
func NewMachine() *Machine {
	all := []string{
		string(StepLanding), string(StepUserInfo), string(StepAvatar),
		string(StepInfluence), string(StepResults), string(StepSavedReadings),
	}
	events := fsm.Events{
		{Name: eventAdvance, Src: []string{string(StepLanding)}, Dst: string(StepUserInfo)},
		{Name: eventAdvance, Src: []string{string(StepUserInfo)}, Dst: string(StepAvatar)},
		{Name: eventAdvance, Src: []string{string(StepAvatar)}, Dst: string(StepInfluence)},
		{Name: eventAdvance, Src: []string{string(StepInfluence)}, Dst: string(StepResults)},

		{Name: eventBack, Src: []string{string(StepUserInfo)}, Dst: string(StepLanding)},
		{Name: eventBack, Src: []string{string(StepAvatar)}, Dst: string(StepUserInfo)},
		{Name: eventBack, Src: []string{string(StepInfluence)}, Dst: string(StepAvatar)},
		{Name: eventBack, Src: []string{string(StepResults)}, Dst: string(StepInfluence)},
		{Name: eventBack, Src: []string{string(StepSavedReadings)}, Dst: string(StepLanding)},

		{Name: eventReset, Src: all, Dst: string(StepLanding)},
		{Name: eventLoad, Src: all, Dst: string(StepResults)},
		{Name: eventOpenReadings, Src: all[:5], Dst: string(StepSavedReadings)},
	}
	callbacks := fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			logger.Debug("wizard: %s -> %s (%s)", e.Src, e.Dst, e.Event)
		},
	}
	return &Machine{
		fsm: fsm.NewFSM(string(StepLanding), events, callbacks),
	}
}

// Current returns the active step.
func (m *Machine) Current() Step {
	return Step(m.fsm.Current())
}

// Record returns a copy of the accumulated record.
func (m *Machine) Record() Record {
	return m.record
}

// Advance merges p into the record and moves one step forward.
// The payload must come from the current step.
func (m *Machine) Advance(p Payload) error {
	cur := m.Current()
	if cur == StepResults {
		return ErrTerminalStep
	}
	if p == nil || p.Step() != cur {
		return fmt.Errorf("%w: at %s", ErrUnexpectedPayload, cur)
	}
	if err := m.fire(eventAdvance); err != nil {
		return err
	}
	m.record = p.merge(m.record)
	return nil
}

// Back returns to the previous step. At landing it does nothing.
// The record is left as is; fields set by later steps are overwritten when
// those steps are completed again.
func (m *Machine) Back() error {
	if m.Current() == StepLanding {
		return nil
	}
	return m.fire(eventBack)
}

// Reset clears the record and returns to landing from any step.
func (m *Machine) Reset() {
	m.force(eventReset, StepLanding)
	m.record = Record{}
}

// LoadExisting replaces the record wholesale and jumps to results.
func (m *Machine) LoadExisting(r Record) {
	m.force(eventLoad, StepResults)
	m.record = r
}

// force fires an event that must always land on dst. A failed transition is
// logged and the state set directly.
func (m *Machine) force(event string, dst Step) {
	if err := m.fire(event); err != nil {
		logger.Warn("%v; moving to %s", err, dst)
		m.fsm.SetState(string(dst))
	}
}

// OpenSavedReadings switches to the saved readings list without touching the record.
func (m *Machine) OpenSavedReadings() error {
	if m.Current() == StepSavedReadings {
		return nil
	}
	return m.fire(eventOpenReadings)
}

// fire triggers an event, treating "already there" as success.
func (m *Machine) fire(event string) error {
	err := m.fsm.Event(context.Background(), event)
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		return fmt.Errorf("wizard %s from %s: %w", event, m.Current(), err)
	}
	return nil
}
