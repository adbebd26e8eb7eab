package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bronidom/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data", "db.json"), nil)
}

func sampleDatabase() models.Database {
	db := models.NewDatabase()
	db.Users["1"] = models.User{ID: "1", Name: "John Doe", Email: "john.doe@example.com", ApartmentNumber: "101"}
	db.Amenities["1"] = models.Amenity{
		ID:               "1",
		Name:             "Swimming Pool",
		Location:         "Ground Floor",
		MaxDurationHours: 2,
		TimeSlots: []models.TimeSlot{
			{
				ID:        "slot_2025-01-13_9h",
				StartTime: time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2025, 1, 13, 11, 0, 0, 0, time.UTC),
			},
		},
	}
	return db
}

func TestLoad_AbsentFileDegradesToEmpty(t *testing.T) {
	st := newTestStore(t)

	db := st.Load()
	assert.Empty(t, db.Users)
	assert.Empty(t, db.Amenities)
	assert.Empty(t, db.Bookings)
	// Collections are allocated, not nil, so callers can index freely.
	assert.NotNil(t, db.Users)
	assert.NotNil(t, db.Amenities)
	assert.NotNil(t, db.Bookings)
}

func TestLoad_CorruptFileDegradesToEmpty(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(st.Path()), 0o755))
	require.NoError(t, os.WriteFile(st.Path(), []byte("{not json"), 0o644))

	db := st.Load()
	assert.Empty(t, db.Users)
	assert.NotNil(t, db.Amenities)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	want := sampleDatabase()

	require.NoError(t, st.Save(want))
	assert.Equal(t, want, st.Load())
}

func TestSave_OfLoadIsNoOp(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Save(sampleDatabase()))

	first, err := os.ReadFile(st.Path())
	require.NoError(t, err)

	require.NoError(t, st.Save(st.Load()))
	second, err := os.ReadFile(st.Path())
	require.NoError(t, err)

	// Byte-for-byte equivalent structure, modulo key order.
	var a, b any
	require.NoError(t, json.Unmarshal(first, &a))
	require.NoError(t, json.Unmarshal(second, &b))
	assert.Equal(t, a, b)
}

func TestSave_TopLevelShape(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Save(models.NewDatabase()))

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 3)
	for _, key := range []string{"users", "amenities", "bookings"} {
		require.Contains(t, raw, key)
		assert.Equal(t, "{}", string(raw[key]), "empty collections serialize as {}, never null")
	}
}

func TestUpdate_ErrorWritesNothing(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Save(sampleDatabase()))
	before := st.Load()

	boom := errors.New("boom")
	err := st.Update(func(db *models.Database) error {
		delete(db.Amenities, "1")
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, st.Load())
}

func TestSave_SurfacesWriteError(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "db.json")
	// A directory at the data path makes the rename-into-place fail.
	require.NoError(t, os.Mkdir(target, 0o755))
	st := New(target, nil)

	require.Error(t, st.Save(models.NewDatabase()))

	// Update propagates the same failure even when fn itself succeeds.
	require.Error(t, st.Update(func(db *models.Database) error { return nil }))

	// The failed write cleaned up after itself: no temp file remains.
	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAmenities_LeavesOtherCollectionsIntact(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Save(sampleDatabase()))

	updated := st.ReadAmenities()
	amenity := updated["1"]
	amenity.TimeSlots[0].BookedBy = "1"
	updated["1"] = amenity
	require.NoError(t, st.WriteAmenities(updated))

	db := st.Load()
	assert.Equal(t, "1", db.Amenities["1"].TimeSlots[0].BookedBy)
	assert.Len(t, db.Users, 1, "users must survive an amenities write")
}

func TestPing(t *testing.T) {
	st := newTestStore(t)
	assert.NoError(t, st.Ping())
}
