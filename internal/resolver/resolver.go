// Package resolver fetches a stored calculation and picks the cities to show
// for the record's planet.
package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mark3labs/astroguide/internal/astro"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/astroguide/internal/wizard"
)

// TopN is how many cities are shown per focus.
const TopN = 3

// Fetcher retrieves a stored result set.
type Fetcher interface {
	Results(ctx context.Context, handle string) (astro.Results, error)
}

// Outcome is a successful resolution.
type Outcome struct {
	Handle string
	Focus  wizard.Focus
	Planet wizard.Planet
	Cities []astro.City
}

// Resolver turns a completed record into cities.
type Resolver struct {
	fetcher Fetcher
}

// New creates a resolver.
func New(f Fetcher) *Resolver {
	return &Resolver{fetcher: f}
}

// Resolve fetches the result set for r.ResultHandle and returns the first
// TopN cities listed for r.SelectedPlanet, in server order.
func (r *Resolver) Resolve(ctx context.Context, rec wizard.Record) (Outcome, error) {
	const op = "resolve"

	if rec.ResultHandle == "" || rec.SelectedPlanet == wizard.PlanetUnset {
		return Outcome{}, ierr.New(ierr.KindMissingPrerequisite, op,
			"Some of your details are missing. Please go back and complete the previous steps.")
	}

	results, err := r.fetcher.Results(ctx, rec.ResultHandle)
	if err != nil {
		return Outcome{}, err
	}

	cities := results[string(rec.SelectedPlanet)]
	if len(cities) == 0 {
		logger.Info("resolver: no %s cities for %s", rec.SelectedPlanet, rec.ResultHandle)
		return Outcome{}, ierr.New(ierr.KindNoMatch, op,
			"No matching cities were found for this focus. Try choosing a different focus.")
	}
	if len(cities) > TopN {
		cities = cities[:TopN]
	}

	return Outcome{
		Handle: rec.ResultHandle,
		Focus:  rec.Focus,
		Planet: rec.SelectedPlanet,
		Cities: append([]astro.City(nil), cities...),
	}, nil
}

// FormatOrb renders an orb with two decimals.
func FormatOrb(orb float64) string {
	return strconv.FormatFloat(orb, 'f', 2, 64)
}

// FormatDistance renders a distance in whole kilometres.
func FormatDistance(km float64) string {
	return groupThousands(int64(km+0.5)) + " km"
}

// FormatPopulation renders a population with thousands separators.
func FormatPopulation(p float64) string {
	return groupThousands(int64(p + 0.5))
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Activations hands out one cancellable context per activation of an
// async step. Only the most recent activation is current; responses
// tagged with an older id are stale and must be dropped.
type Activations struct {
	mu     sync.Mutex
	id     uint64
	cancel context.CancelFunc
}

// Begin cancels any previous activation and starts a new one.
func (a *Activations) Begin(parent context.Context) (uint64, context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	a.id++
	a.cancel = cancel
	return a.id, ctx
}

// End cancels the current activation. Any response that arrives later is stale.
func (a *Activations) End() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.id++
}

// Current reports whether id is the live activation.
func (a *Activations) Current(id uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil && id == a.id
}

// String is used in log lines.
func (a *Activations) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("activation#%d", a.id)
}
