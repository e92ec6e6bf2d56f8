// Package intake validates the birth details form and turns it into a
// result handle: geocode the birth place, then submit the calculation.
package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/astroguide/internal/astro"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/geocode"
	"github.com/mark3labs/astroguide/internal/logger"
)

// Form field keys. They double as error attribution keys.
const (
	FieldBirthDate       = "birth_date"
	FieldBirthTime       = "birth_time"
	FieldBirthLocation   = "birth_location"
	FieldCurrentLocation = "current_location"
)

// Form is the raw user input. Dates and times are kept as typed
// ("1990-06-01", "12:30"); no format checking is done.
type Form struct {
	BirthDate       string
	BirthTime       string
	BirthLocation   string
	CurrentLocation string
}

// Problem is one validation failure tied to a field.
type Problem struct {
	Field   string
	Message string
}

// Validation is the outcome of Validate.
type Validation struct {
	Problems []Problem
}

// OK reports whether the form passed validation.
func (v Validation) OK() bool {
	return len(v.Problems) == 0
}

// For returns the message for field, or "".
func (v Validation) For(field string) string {
	for _, p := range v.Problems {
		if p.Field == field {
			return p.Message
		}
	}
	return ""
}

// Err returns nil when the form is valid, otherwise a ValidationError
// listing every problem.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	msgs := make([]string, len(v.Problems))
	for i, p := range v.Problems {
		msgs[i] = p.Message
	}
	e := ierr.New(ierr.KindValidation, "validate", strings.Join(msgs, "; "))
	if len(v.Problems) == 1 {
		return e.WithField(v.Problems[0].Field)
	}
	return e
}

// Validate checks that every field is present. Whitespace-only counts as missing.
func Validate(f Form) Validation {
	var v Validation
	check := func(field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			v.Problems = append(v.Problems, Problem{Field: field, Message: msg})
		}
	}
	check(FieldBirthDate, f.BirthDate, "Birth date is required")
	check(FieldBirthTime, f.BirthTime, "Birth time is required")
	check(FieldBirthLocation, f.BirthLocation, "Birth location is required")
	check(FieldCurrentLocation, f.CurrentLocation, "Current location is required")
	return v
}

// BirthTimestamp joins date and time as "YYYY-MM-DDTHH:MM:SS".
// A time without seconds gets ":00" appended.
func BirthTimestamp(date, clock string) string {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if strings.Count(clock, ":") == 1 {
		clock += ":00"
	}
	return date + "T" + clock
}

// Geocoder resolves a place name.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (geocode.Coordinates, error)
}

// Calculator submits a calculation and returns its handle.
type Calculator interface {
	Submit(ctx context.Context, in astro.Request) (string, error)
}

// Collector runs the two-call submission.
type Collector struct {
	geo  Geocoder
	calc Calculator
}

// NewCollector wires a collector to its services.
func NewCollector(geo Geocoder, calc Calculator) *Collector {
	return &Collector{geo: geo, calc: calc}
}

// Submit validates the form, geocodes the birth location and submits the
// calculation. On success it returns the result handle. Nothing is sent
// when validation fails, and the calculation is never submitted when the
// geocode fails. The current location is not part of the request.
func (c *Collector) Submit(ctx context.Context, f Form) (string, error) {
	if err := Validate(f).Err(); err != nil {
		return "", err
	}

	coords, err := c.geo.Lookup(ctx, strings.TrimSpace(f.BirthLocation))
	if err != nil {
		return "", attribute(err, FieldBirthLocation)
	}

	handle, err := c.calc.Submit(ctx, astro.Request{
		BirthDT:      BirthTimestamp(f.BirthDate, f.BirthTime),
		BirthLat:     coords.Latitude,
		BirthLon:     coords.Longitude,
		Planets:      append([]string(nil), astro.DefaultPlanets...),
		OrbTolerance: astro.DefaultOrbTolerance,
	})
	if err != nil {
		return "", err
	}

	logger.Debug("intake: handle %s for %s", handle, f.BirthLocation)
	return handle, nil
}

// attribute ties a classified error to a form field. Unclassified errors
// become NetworkUnavailable so the step always has something to show.
func attribute(err error, field string) error {
	var e *ierr.Error
	if errors.As(err, &e) {
		return e.WithField(field)
	}
	return ierr.Wrap(ierr.KindNetworkUnavailable, "geocode", "Could not look up that location. Please try again.", err).WithField(field)
}
