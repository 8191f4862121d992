package main

import (
	"path/filepath"
	"testing"

	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFindProfile(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	store, err := profile.Open(filepath.Join(t.TempDir(), "profiles.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	anna, err := store.Save(ctx, profile.SaveRequest{Name: "anna", APIKey: "sk-1"})
	require.NoError(t, err)

	// By id and by name
	found, err := findProfile(ctx, store, anna.ID)
	require.NoError(t, err)
	assert.Equal(t, anna.ID, found.ID)

	found, err = findProfile(ctx, store, "anna")
	require.NoError(t, err)
	assert.Equal(t, anna.ID, found.ID)

	_, err = findProfile(ctx, store, "ben")
	require.ErrorIs(t, err, profile.ErrNotFound)

	_, err = findProfile(ctx, store, "")
	require.ErrorIs(t, err, ErrNoProfile)
}

func TestEntryNumber(t *testing.T) {
	t.Parallel()

	number, err := entryNumber("2")
	require.NoError(t, err)
	assert.Equal(t, 2, number)

	_, err = entryNumber("zwei")
	require.Error(t, err)
}
