package collection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdeck/internal/collection"
)

type entry struct {
	ID   int
	Name string
}

func entryID(e entry) int { return e.ID }

func threeEntries() []entry {
	return []entry{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
		{ID: 3, Name: "C"},
	}
}

func TestDeleteRemovesItemOnRemoteSuccess(t *testing.T) {
	list := collection.NewList(threeEntries(), entryID)

	err := list.Delete(context.Background(), 2, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []entry{{ID: 1, Name: "A"}, {ID: 3, Name: "C"}}, list.Items())
}

func TestDeleteRestoresSnapshotOnRemoteFailure(t *testing.T) {
	list := collection.NewList(threeEntries(), entryID)
	remoteErr := errors.New("backend rejected delete")

	var seenDuringCall []entry
	err := list.Delete(context.Background(), 2, func(ctx context.Context) error {
		// The optimistic removal is visible while the call is in flight.
		seenDuringCall = list.Items()
		return remoteErr
	})
	assert.ErrorIs(t, err, remoteErr)

	assert.Len(t, seenDuringCall, 2)
	assert.Equal(t, threeEntries(), list.Items(), "failed delete restores the exact prior view")
}

func TestDeleteOfUnknownIDStillRunsRemote(t *testing.T) {
	list := collection.NewList(threeEntries(), entryID)

	called := false
	err := list.Delete(context.Background(), 99, func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 3, list.Len())
}

func TestAddConfirmsWithServerRecord(t *testing.T) {
	list := collection.NewList(threeEntries(), entryID)

	optimistic := entry{ID: 0, Name: "D (pending)"}
	err := list.Add(context.Background(), optimistic, func(ctx context.Context) (entry, error) {
		return entry{ID: 4, Name: "D"}, nil
	})
	require.NoError(t, err)

	items := list.Items()
	require.Len(t, items, 4)
	assert.Equal(t, entry{ID: 4, Name: "D"}, items[3], "optimistic entry replaced by the confirmed one")
}

func TestAddConfirmsRightEntryAfterConcurrentDelete(t *testing.T) {
	list := collection.NewList(threeEntries(), entryID)

	// While the create is in flight an earlier element is deleted, shifting
	// positions; the confirmation must still land on the pending entry.
	err := list.Add(context.Background(), entry{ID: 0, Name: "D (pending)"}, func(ctx context.Context) (entry, error) {
		delErr := list.Delete(ctx, 1, func(context.Context) error { return nil })
		require.NoError(t, delErr)
		return entry{ID: 4, Name: "D"}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []entry{
		{ID: 2, Name: "B"},
		{ID: 3, Name: "C"},
		{ID: 4, Name: "D"},
	}, list.Items())
}

func TestAddRollsBackOnRemoteFailure(t *testing.T) {
	list := collection.NewList(threeEntries(), entryID)
	remoteErr := errors.New("create failed")

	err := list.Add(context.Background(), entry{Name: "D"}, func(ctx context.Context) (entry, error) {
		return entry{}, remoteErr
	})
	assert.ErrorIs(t, err, remoteErr)
	assert.Equal(t, threeEntries(), list.Items())
}

func TestNewListDoesNotAliasInput(t *testing.T) {
	initial := threeEntries()
	list := collection.NewList(initial, entryID)

	initial[0].Name = "mutated"
	assert.Equal(t, "A", list.Items()[0].Name)
}

func TestReplaceSwapsView(t *testing.T) {
	list := collection.NewList(threeEntries(), entryID)

	list.Replace([]entry{{ID: 9, Name: "Z"}})
	assert.Equal(t, []entry{{ID: 9, Name: "Z"}}, list.Items())
	assert.Equal(t, 1, list.Len())
}
