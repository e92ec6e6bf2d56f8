package wizard

import (
	"context"
	"testing"

	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/tui/testfixtures"
	"github.com/stretchr/testify/require"
)

func loadedReadings(t *testing.T, acc *testfixtures.MockAccounts) *ReadingsStep {
	t.Helper()
	r := NewReadingsStep(context.Background(), acc)
	loaded, ok := testfixtures.Find[readingsLoadedMsg](testfixtures.Exec(r.Activate()))
	require.True(t, ok)
	r.Update(loaded)
	return r
}

func TestReadingsStep_ListsNewestFirst(t *testing.T) {
	r := loadedReadings(t, testfixtures.NewMockAccounts(testfixtures.SampleReadings()...))

	require.Len(t, r.Readings(), 2)
	view := r.View()
	require.Contains(t, view, "Signed in as stargazer@example.com")
	require.Contains(t, view, "Lisbon, Portugal · Love & Relationships")
	require.Contains(t, view, "Austin, USA · Career & Growth")
}

func TestReadingsStep_SignedOut(t *testing.T) {
	acc := testfixtures.NewMockAccounts()
	acc.SignedIn = false
	r := loadedReadings(t, acc)

	require.Contains(t, r.View(), "astroguide login")
	require.Empty(t, r.Readings())
}

func TestReadingsStep_DeleteRequiresConfirmation(t *testing.T) {
	acc := testfixtures.NewMockAccounts(testfixtures.SampleReadings()...)
	r := loadedReadings(t, acc)

	require.Nil(t, r.Update(testfixtures.Key("d")))
	require.Contains(t, r.View(), "Delete this reading? (y/n)")

	r.Update(testfixtures.Key("n"))
	require.Empty(t, acc.Deleted)
	require.Len(t, r.Readings(), 2)

	r.Update(testfixtures.Key("d"))
	deleted, ok := testfixtures.Find[readingDeletedMsg](testfixtures.Exec(r.Update(testfixtures.Key("y"))))
	require.True(t, ok)

	// Still listed until the backend answers.
	require.Len(t, r.Readings(), 2)
	r.Update(deleted)
	require.Len(t, r.Readings(), 1)
	require.Equal(t, []string{testfixtures.SampleReadings()[0].ID}, acc.Deleted)
}

func TestReadingsStep_FailedDeleteKeepsItem(t *testing.T) {
	acc := testfixtures.NewMockAccounts(testfixtures.SampleReadings()...)
	acc.DeleteErr = ierr.New(ierr.KindNetworkUnavailable, "delete reading", "Network error. Please check your connection.")
	r := loadedReadings(t, acc)

	r.Update(downKey)
	r.Update(testfixtures.Key("d"))
	deleted, ok := testfixtures.Find[readingDeletedMsg](testfixtures.Exec(r.Update(testfixtures.Key("y"))))
	require.True(t, ok)
	require.Equal(t, testfixtures.SampleReadings()[1].ID, deleted.id)

	r.Update(deleted)
	require.Len(t, r.Readings(), 2)
	require.Contains(t, r.View(), "Network error")
}

func TestReadingsStep_OpenReconstructs(t *testing.T) {
	acc := testfixtures.NewMockAccounts(testfixtures.SampleReadings()...)
	acc.Record = testfixtures.CompleteRecord()
	r := loadedReadings(t, acc)

	rebuilt, ok := testfixtures.Find[readingReconstructedMsg](testfixtures.Exec(r.Update(enterKey)))
	require.True(t, ok)

	load, ok := testfixtures.Find[LoadReadingMsg](testfixtures.Exec(r.Update(rebuilt)))
	require.True(t, ok)
	require.Equal(t, testfixtures.CompleteRecord(), load.Record)
	require.Equal(t, testfixtures.SampleReadings()[0].ID, load.Reading.ID)
}

func TestReadingsStep_ReconstructFailureStays(t *testing.T) {
	acc := testfixtures.NewMockAccounts(testfixtures.SampleReadings()...)
	acc.ReconstructErr = ierr.New(ierr.KindLocationNotFound, "geocode", "Location not found. Please try a different location.")
	r := loadedReadings(t, acc)

	rebuilt, _ := testfixtures.Find[readingReconstructedMsg](testfixtures.Exec(r.Update(enterKey)))
	require.Nil(t, r.Update(rebuilt))
	require.Contains(t, r.View(), "Location not found")
}

func TestReadingsStep_DeactivateDropsLateResponses(t *testing.T) {
	acc := testfixtures.NewMockAccounts(testfixtures.SampleReadings()...)
	acc.Record = testfixtures.CompleteRecord()
	r := loadedReadings(t, acc)

	rebuilt, ok := testfixtures.Find[readingReconstructedMsg](testfixtures.Exec(r.Update(enterKey)))
	require.True(t, ok)
	ctx := r.actx

	r.Deactivate()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
	require.Nil(t, r.Update(rebuilt), "late reconstruct must not load the reading")
	require.False(t, r.busy)
}

func TestReadingsStep_RefreshIgnoresEarlierList(t *testing.T) {
	acc := testfixtures.NewMockAccounts(testfixtures.SampleReadings()...)
	r := NewReadingsStep(context.Background(), acc)

	first, ok := testfixtures.Find[readingsLoadedMsg](testfixtures.Exec(r.Activate()))
	require.True(t, ok)
	second, ok := testfixtures.Find[readingsLoadedMsg](testfixtures.Exec(r.Activate()))
	require.True(t, ok)

	r.Update(first)
	require.True(t, r.loading)
	require.Empty(t, r.Readings())

	r.Update(second)
	require.False(t, r.loading)
	require.Len(t, r.Readings(), 2)
}
