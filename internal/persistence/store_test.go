package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resona/internal/game"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "resona.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testState() game.SaveState {
	return game.SaveState{
		Seed:         0xDEADBEEF,
		Pos:          game.Vec5{1, -2, 3.5, 0, 99.25},
		Drive:        game.Vec5{440, 441, 442, 443, 444},
		BaseTarget:   game.Vec5{440, 440, 440, 440, 440},
		Width:        12.5,
		MaxVel:       16.18,
		Crystals:     13,
		CrystalBonus: 2,
		ViewRot:      0.75,
		SimTime:      321.5,
		Rifts: []game.SavedRift{
			{ID: uuid.New(), Pos: game.Vec5{5, 5, 5, 5, 5}, Remaining: 12.5, Kind: game.RiftCrystal},
			{ID: uuid.New(), Pos: game.Vec5{-50, 0, 0, 80.9, 0}, Remaining: 3.25, Kind: game.RiftHazard},
		},
	}
}

func TestLoadFreshDatabase(t *testing.T) {
	s := openTemp(t)
	st, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	assert.Equal(t, game.SaveState{}, st)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	want := testState()
	require.NoError(t, s.Save(context.Background(), want))

	got, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveOverwritesSingleRow(t *testing.T) {
	s := openTemp(t)
	first := testState()
	require.NoError(t, s.Save(context.Background(), first))

	second := first
	second.Crystals = 99
	second.Pos = game.Vec5{7, 7, 7, 7, 7}
	second.Rifts = second.Rifts[:1]
	require.NoError(t, s.Save(context.Background(), second))

	got, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 99, got.Crystals)
	assert.Equal(t, game.Vec5{7, 7, 7, 7, 7}, got.Pos)
	require.Len(t, got.Rifts, 1, "stale rift rows are replaced, not accumulated")
	assert.Equal(t, first.Rifts[0].ID, got.Rifts[0].ID)
}

func TestSaveEmptyRiftList(t *testing.T) {
	s := openTemp(t)
	st := testState()
	require.NoError(t, s.Save(context.Background(), st))

	st.Rifts = nil
	require.NoError(t, s.Save(context.Background(), st))

	got, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, got.Rifts)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resona.db")

	s, err := Open(path)
	require.NoError(t, err)
	want := testState()
	require.NoError(t, s.Save(context.Background(), want))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, ok, err := s2.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Seed, got.Seed)
	assert.Equal(t, want.Crystals, got.Crystals)
	require.Len(t, got.Rifts, 2)
}
