// Package wizard holds the astrocartography wizard's step machine and the
// record it accumulates between steps. It has no UI dependencies; the
// terminal front end in internal/tui/wizard drives it.
package wizard

// Step identifies one screen of the wizard.
type Step string

const (
	StepLanding       Step = "landing"
	StepUserInfo      Step = "userInfo"
	StepAvatar        Step = "avatar"
	StepInfluence     Step = "influence"
	StepResults       Step = "results"
	StepSavedReadings Step = "savedReadings"
)

// forwardSteps is the fixed order of the main chain.
var forwardSteps = []Step{StepLanding, StepUserInfo, StepAvatar, StepInfluence, StepResults}

// Label returns a short human-readable title for the step.
func (s Step) Label() string {
	switch s {
	case StepLanding:
		return "Welcome"
	case StepUserInfo:
		return "Birth Details"
	case StepAvatar:
		return "Choose Avatar"
	case StepInfluence:
		return "Choose Focus"
	case StepResults:
		return "Your Cities"
	case StepSavedReadings:
		return "Saved Readings"
	default:
		return string(s)
	}
}

// Progress returns the 1-based position of s among the steps that collect
// input (userInfo, avatar, influence) and the total number of such steps.
// Steps outside that range report position 0.
func (s Step) Progress() (current, total int) {
	switch s {
	case StepUserInfo:
		return 1, 3
	case StepAvatar:
		return 2, 3
	case StepInfluence:
		return 3, 3
	default:
		return 0, 3
	}
}

// Next returns the step that follows s in the forward chain and whether one exists.
func (s Step) Next() (Step, bool) {
	for i, step := range forwardSteps {
		if step == s && i+1 < len(forwardSteps) {
			return forwardSteps[i+1], true
		}
	}
	return "", false
}

// Previous returns the step Back() lands on from s.
// savedReadings always returns to landing; landing has no predecessor.
func (s Step) Previous() (Step, bool) {
	if s == StepSavedReadings {
		return StepLanding, true
	}
	for i, step := range forwardSteps {
		if step == s && i > 0 {
			return forwardSteps[i-1], true
		}
	}
	return "", false
}
