package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashbin/stashbin/store"
)

var sweepNow = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

func newSweeper(s store.Store) *Sweeper {
	return &Sweeper{
		Store: s,
		Now:   func() time.Time { return sweepNow },
	}
}

// Three objects aged 10h, 25h, and 48h: the sweep must delete exactly
// the two past the 24h window
func TestSweepDeletesOldObjects(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "fresh.png", LastModified: sweepNow.Add(-10 * time.Hour)},
		store.Object{Key: "old.png", LastModified: sweepNow.Add(-25 * time.Hour)},
		store.Object{Key: "ancient.png", LastModified: sweepNow.Add(-48 * time.Hour)},
	)

	result, err := newSweeper(fake).Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, 3, result.Listed)
	assert.Equal(t, 2, result.Eligible)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 0, result.Failed)

	require.Len(t, fake.DeleteCalls, 1)
	assert.ElementsMatch(t, []string{"old.png", "ancient.png"}, fake.DeleteCalls[0])

	remaining, err := fake.List(context.Background(), "")
	require.Nil(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh.png", remaining[0].Key)
}

func TestSweepBoundary(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "at-boundary.png", LastModified: sweepNow.Add(-24 * time.Hour)},
		store.Object{Key: "past-boundary.png", LastModified: sweepNow.Add(-24*time.Hour - time.Second)},
	)

	result, err := newSweeper(fake).Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, 1, result.Deleted)
	require.Len(t, fake.DeleteCalls, 1)
	assert.Equal(t, []string{"past-boundary.png"}, fake.DeleteCalls[0])
}

func TestSweepEmptyStore(t *testing.T) {

	fake := store.NewFake()

	result, err := newSweeper(fake).Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, 0, result.Listed)
	assert.Len(t, fake.DeleteCalls, 0)
}

func TestSweepNothingEligible(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "a.png", LastModified: sweepNow.Add(-time.Hour)},
		store.Object{Key: "b.png", LastModified: sweepNow.Add(-23 * time.Hour)},
	)

	result, err := newSweeper(fake).Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, 2, result.Listed)
	assert.Equal(t, 0, result.Eligible)
	assert.Len(t, fake.DeleteCalls, 0)
}

// Running the sweep twice back to back must succeed both times; the
// second run simply finds nothing left to delete
func TestSweepIdempotence(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "old.png", LastModified: sweepNow.Add(-48 * time.Hour)},
	)
	sweeper := newSweeper(fake)

	first, err := sweeper.Run(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 1, first.Deleted)

	second, err := sweeper.Run(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 0, second.Eligible)
	assert.Equal(t, 0, second.Deleted)
}

func TestSweepListFailure(t *testing.T) {

	fake := store.NewFake()
	fake.ListErr = errors.New("store unavailable")

	_, err := newSweeper(fake).Run(context.Background())
	require.NotNil(t, err)
	assert.Len(t, fake.DeleteCalls, 0)
}

func TestSweepDeleteFailure(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "old.png", LastModified: sweepNow.Add(-48 * time.Hour)},
	)
	fake.DeleteErr = errors.New("store unavailable")

	_, err := newSweeper(fake).Run(context.Background())
	require.NotNil(t, err)
}

// A per-key failure is reported in the result but does not fail the run
func TestSweepPartialDeletionFailure(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "old.png", LastModified: sweepNow.Add(-48 * time.Hour)},
		store.Object{Key: "locked.png", LastModified: sweepNow.Add(-48 * time.Hour)},
	)
	fake.FailKeys = map[string]string{"locked.png": "Access Denied"}

	result, err := newSweeper(fake).Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, 2, result.Eligible)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Failed)
}

func TestSweepDryRun(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "old.png", LastModified: sweepNow.Add(-48 * time.Hour)},
	)
	sweeper := newSweeper(fake)
	sweeper.DryRun = true

	result, err := sweeper.Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, 1, result.Eligible)
	assert.Equal(t, 0, result.Deleted)
	assert.Len(t, fake.DeleteCalls, 0)
}

func TestSweepRespectsPrefix(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "uploads/old.png", LastModified: sweepNow.Add(-48 * time.Hour)},
		store.Object{Key: "permanent/old.png", LastModified: sweepNow.Add(-48 * time.Hour)},
	)
	sweeper := newSweeper(fake)
	sweeper.Prefix = "uploads/"

	result, err := sweeper.Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, 1, result.Deleted)
	require.Len(t, fake.DeleteCalls, 1)
	assert.Equal(t, []string{"uploads/old.png"}, fake.DeleteCalls[0])
}

func TestSweepCustomMaxAge(t *testing.T) {

	fake := store.NewFake(
		store.Object{Key: "a.png", LastModified: sweepNow.Add(-2 * time.Hour)},
		store.Object{Key: "b.png", LastModified: sweepNow.Add(-30 * time.Minute)},
	)
	sweeper := newSweeper(fake)
	sweeper.Policy = Policy{MaxAge: time.Hour}

	result, err := sweeper.Run(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 1, result.Deleted)
}
