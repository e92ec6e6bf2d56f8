package testfixtures

import (
	"time"

	"github.com/mark3labs/astroguide/internal/account"
	"github.com/mark3labs/astroguide/internal/astro"
	"github.com/mark3labs/astroguide/internal/intake"
	"github.com/mark3labs/astroguide/internal/resolver"
	"github.com/mark3labs/astroguide/internal/wizard"
)

// Fixed test values
const (
	FixedHandle = "res-42"
	FixedUserID = "5b1f8a64-3c2e-4b1a-9f55-0c6a2d8e7f10"
	FixedEmail  = "stargazer@example.com"
)

var (
	FixedTime = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
)

// SampleForm returns a complete birth details form.
func SampleForm() intake.Form {
	return intake.Form{
		BirthDate:       "1990-06-01",
		BirthTime:       "12:30",
		BirthLocation:   "Lisbon, Portugal",
		CurrentLocation: "Berlin, Germany",
	}
}

// SampleOutcome returns three Venus cities.
func SampleOutcome() resolver.Outcome {
	return resolver.Outcome{
		Handle: FixedHandle,
		Focus:  wizard.FocusLove,
		Planet: wizard.PlanetVenus,
		Cities: []astro.City{
			{City: "Paris", Country: "France", Population: 2148000, DistanceKm: 12.5, Orb: 0.42},
			{City: "Lyon", Country: "France", Population: 513275, DistanceKm: 88, Orb: 1.05},
			{City: "Geneva", Country: "Switzerland", Population: 203856, DistanceKm: 140.2, Orb: 1.9},
		},
	}
}

// CompleteRecord returns a record ready for the results step.
func CompleteRecord() wizard.Record {
	return wizard.Record{
		ResultHandle:   FixedHandle,
		AvatarID:       "venus",
		Focus:          wizard.FocusLove,
		SelectedPlanet: wizard.PlanetVenus,
	}
}

// SampleReadings returns two saved readings, newest first.
func SampleReadings() []account.Reading {
	return []account.Reading{
		{
			ID:              "0c7d1f9e-1111-4e2a-8d2b-6f1a2b3c4d5e",
			UserID:          FixedUserID,
			BirthDate:       "1990-06-01",
			BirthTime:       "12:30",
			BirthLocation:   "Lisbon, Portugal",
			CurrentLocation: "Berlin, Germany",
			Avatar:          "venus",
			Influence:       "love",
			CreatedAt:       FixedTime,
			UpdatedAt:       FixedTime,
		},
		{
			ID:              "0c7d1f9e-2222-4e2a-8d2b-6f1a2b3c4d5e",
			UserID:          FixedUserID,
			BirthDate:       "1985-01-20",
			BirthTime:       "06:15",
			BirthLocation:   "Austin, USA",
			CurrentLocation: "Austin, USA",
			Avatar:          "athena",
			Influence:       "career",
			CreatedAt:       FixedTime.Add(-48 * time.Hour),
			UpdatedAt:       FixedTime.Add(-48 * time.Hour),
		},
	}
}
