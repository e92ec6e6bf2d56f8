package wizard

import (
	"fmt"
	"strings"
)

// Focus is the life domain a user wants guidance on.
type Focus string

const (
	FocusUnset  Focus = ""
	FocusLove   Focus = "love"
	FocusCareer Focus = "career"
	FocusWealth Focus = "wealth"
)

// Planet names a planetary ruler as the calculation service spells it.
type Planet string

const (
	PlanetUnset   Planet = ""
	PlanetVenus   Planet = "Venus"
	PlanetMars    Planet = "Mars"
	PlanetJupiter Planet = "Jupiter"
)

// ParseFocus accepts exactly "love", "career" or "wealth" (case-insensitive).
func ParseFocus(s string) (Focus, error) {
	switch f := Focus(strings.ToLower(strings.TrimSpace(s))); f {
	case FocusLove, FocusCareer, FocusWealth:
		return f, nil
	default:
		return FocusUnset, fmt.Errorf("unknown focus %q: must be love, career or wealth", s)
	}
}

// Planet returns the ruling planet for the focus.
func (f Focus) Planet() Planet {
	switch f {
	case FocusLove:
		return PlanetVenus
	case FocusCareer:
		return PlanetMars
	case FocusWealth:
		return PlanetJupiter
	default:
		return PlanetUnset
	}
}

// Valid reports whether f is one of the three known focuses.
func (f Focus) Valid() bool {
	return f.Planet() != PlanetUnset
}

// Record is the data accumulated while walking the wizard. It is a value:
// every transition produces a new Record rather than editing one in place.
type Record struct {
	ResultHandle   string
	AvatarID       string
	Focus          Focus
	SelectedPlanet Planet
}

// IsZero reports whether r equals the empty record the wizard starts with.
func (r Record) IsZero() bool {
	return r == Record{}
}

// Payload is what a step hands to Advance. Each payload belongs to exactly
// one step and only merges its own fields into the record.
type Payload interface {
	// Step is the step that emits this payload.
	Step() Step
	merge(Record) Record
}

// Start leaves the landing screen.
type Start struct{}

func (Start) Step() Step            { return StepLanding }
func (Start) merge(r Record) Record { return r }

// Handle carries the result handle issued by the calculation service.
type Handle struct {
	ResultHandle string
}

func (Handle) Step() Step { return StepUserInfo }
func (p Handle) merge(r Record) Record {
	r.ResultHandle = p.ResultHandle
	return r
}

// AvatarChoice carries the chosen avatar id.
type AvatarChoice struct {
	ID string
}

func (AvatarChoice) Step() Step { return StepAvatar }
func (p AvatarChoice) merge(r Record) Record {
	r.AvatarID = p.ID
	return r
}

// FocusChoice carries the chosen focus; merging it also derives the planet.
type FocusChoice struct {
	Focus Focus
}

func (FocusChoice) Step() Step { return StepInfluence }
func (p FocusChoice) merge(r Record) Record {
	r.Focus = p.Focus
	r.SelectedPlanet = p.Focus.Planet()
	return r
}
