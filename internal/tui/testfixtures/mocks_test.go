package testfixtures

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/wizard"
	"github.com/stretchr/testify/require"
)

// --- MockSubmitter Tests ---

func TestMockSubmitter_RecordsForms(t *testing.T) {
	t.Parallel()

	sub := NewMockSubmitter("h1")
	handle, err := sub.Submit(context.Background(), SampleForm())
	require.NoError(t, err)
	require.Equal(t, "h1", handle)
	require.Equal(t, 1, sub.Calls())
	require.Equal(t, SampleForm(), sub.LastForm())
}

func TestMockSubmitter_Error(t *testing.T) {
	t.Parallel()

	sub := NewMockSubmitter("h1")
	sub.Err = errors.New("boom")
	_, err := sub.Submit(context.Background(), SampleForm())
	require.EqualError(t, err, "boom")
}

// --- MockResolver Tests ---

func TestMockResolver_EchoesHandle(t *testing.T) {
	t.Parallel()

	res := NewMockResolver(SampleOutcome())
	rec := CompleteRecord()
	rec.ResultHandle = "other"

	out, err := res.Resolve(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, "other", out.Handle)
	require.Len(t, out.Cities, 3)
	require.Equal(t, []wizard.Record{rec}, res.Records())
}

func TestMockResolver_BlockHonoursCancel(t *testing.T) {
	t.Parallel()

	res := NewMockResolver(SampleOutcome())
	res.Block = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := res.Resolve(ctx, CompleteRecord())
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Resolve did not return after cancel")
	}
}

// --- MockAccounts Tests ---

func TestMockAccounts_SaveListDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	acc := NewMockAccounts(SampleReadings()...)

	saved, err := acc.SaveReading(ctx, SampleForm(), "apollo", wizard.FocusWealth)
	require.NoError(t, err)
	require.Equal(t, "wealth", saved.Influence)

	list, err := acc.ListReadings(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, saved.ID, list[0].ID)

	require.NoError(t, acc.DeleteReading(ctx, saved.ID))
	err = acc.DeleteReading(ctx, saved.ID)
	require.ErrorIs(t, err, ierr.NotFound)
	require.Equal(t, []string{saved.ID}, acc.Deleted)
}

func TestMockAccounts_SignedOut(t *testing.T) {
	t.Parallel()

	acc := NewMockAccounts()
	acc.SignedIn = false
	_, ok, err := acc.Current(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

// --- Helper Tests ---

func TestExecFlattensBatches(t *testing.T) {
	t.Parallel()

	type ping struct{ n int }
	cmd := tea.Batch(
		func() tea.Msg { return ping{1} },
		tea.Batch(
			func() tea.Msg { return ping{2} },
			func() tea.Msg { return nil },
		),
	)

	msgs := Exec(cmd)
	require.Len(t, msgs, 2)

	first, ok := Find[ping](msgs)
	require.True(t, ok)
	require.Equal(t, 1, first.n)

	_, ok = Find[string](msgs)
	require.False(t, ok)
}

func TestKey(t *testing.T) {
	t.Parallel()
	require.Equal(t, "y", Key("y").String())
}
