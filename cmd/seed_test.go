package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keviiweb/VBS-sub000/internal/infra/storage/memstore"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeed_ExampleFile(t *testing.T) {
	seed, err := loadSeed(filepath.Join("..", "seed.example.toml"))
	require.NoError(t, err)

	assert.Len(t, seed.Venues, 4)
	assert.Len(t, seed.CCAs, 2)
	assert.Equal(t, "hall", seed.Venues[1].ParentID)
	assert.True(t, seed.Venues[3].Hidden)
}

func TestLoadSeed_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"broken toml", "[[venues]\nid = "},
		{"missing name", "[[venues]]\nid = \"a\"\nopen_time = \"08:00\"\nclose_time = \"10:00\"\n"},
		{"bad time", "[[venues]]\nid = \"a\"\nname = \"A\"\nopen_time = \"8am\"\nclose_time = \"10:00\"\n"},
		{"cca without id", "[[ccas]]\nname = \"Band\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSeed(writeSeed(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestApplySeed(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	seed, err := loadSeed(filepath.Join("..", "seed.example.toml"))
	require.NoError(t, err)

	require.NoError(t, applySeed(ctx, store.Venues(), store.CCAs(), seed))

	hall, err := store.Venues().GetByID(ctx, "hall-east")
	require.NoError(t, err)
	require.NotNil(t, hall.ParentID)
	assert.Equal(t, "hall", *hall.ParentID)
	assert.True(t, hall.IsChildVenue)

	layout, err := hall.SlotLayout()
	require.NoError(t, err)
	assert.Equal(t, 30, layout.Count)

	visible, err := store.Venues().List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	band, err := store.CCAs().GetByID(ctx, "band")
	require.NoError(t, err)
	assert.Equal(t, "Hall Band", band.Name)
}

func TestApplySeed_RejectsInvertedHours(t *testing.T) {
	store := memstore.New()
	seed := &seedFile{Venues: []seedVenue{{ID: "x", Name: "X", OpenTime: "18:00", CloseTime: "09:00"}}}

	err := applySeed(context.Background(), store.Venues(), store.CCAs(), seed)
	assert.Error(t, err)
}
