package seed

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"bronidom/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedBase = time.Date(2025, 1, 13, 8, 30, 0, 0, time.UTC) // a Monday

func TestGenerateTimeSlots_Ladder(t *testing.T) {
	slots := GenerateTimeSlots(seedBase, 2)

	// 3 days x 3 starting hours.
	require.Len(t, slots, 9)

	seen := make(map[string]bool)
	for _, slot := range slots {
		assert.False(t, seen[slot.ID], "slot id %q must be unique", slot.ID)
		seen[slot.ID] = true

		assert.True(t, slot.StartTime.Before(slot.EndTime), "start < end for %q", slot.ID)
		assert.Equal(t, 2*time.Hour, slot.Duration())
		assert.Empty(t, slot.BookedBy)
	}

	// First slot: seed day at 9 AM.
	assert.Equal(t, time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC), slots[0].StartTime)
	assert.Equal(t, "slot_2025-01-13_9h", slots[0].ID)

	// Last slot: two days later at 5 PM.
	assert.Equal(t, time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC), slots[8].StartTime)
	assert.Equal(t, "slot_2025-01-15_17h", slots[8].ID)
}

func TestGenerateTimeSlots_NoCollisionAcrossWeeks(t *testing.T) {
	thisWeek := GenerateTimeSlots(seedBase, 1)
	nextWeek := GenerateTimeSlots(seedBase.AddDate(0, 0, 7), 1)

	ids := make(map[string]bool)
	for _, s := range thisWeek {
		ids[s.ID] = true
	}
	for _, s := range nextWeek {
		// Same weekday and hour, different week: ids must still differ.
		assert.False(t, ids[s.ID], "id %q collides across weeks", s.ID)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	assert.Equal(t, Build(seedBase), Build(seedBase))
}

func TestBuild_Dataset(t *testing.T) {
	db := Build(seedBase)

	require.Len(t, db.Users, 4)
	require.Len(t, db.Amenities, 4)
	require.Len(t, db.Bookings, 2)

	assert.Equal(t, "John Doe", db.Users["1"].Name)
	assert.Equal(t, "404", db.Users["4"].ApartmentNumber)

	for id, amenity := range db.Amenities {
		assert.Equal(t, id, amenity.ID)
		assert.Len(t, amenity.TimeSlots, 9)
		for _, slot := range amenity.TimeSlots {
			assert.Equal(t, time.Duration(amenity.MaxDurationHours)*time.Hour, slot.Duration())
		}
	}

	// Pre-applied bookings: pool slot 1 held by user 1, gym slot 2 by user 2.
	pool := db.Amenities["1"]
	assert.Equal(t, "1", pool.TimeSlots[1].BookedBy)
	gym := db.Amenities["2"]
	assert.Equal(t, "2", gym.TimeSlots[2].BookedBy)

	// Booking records mirror the pre-applied slot holders.
	assert.Equal(t, pool.TimeSlots[1].ID, db.Bookings["1"].TimeSlotID)
	assert.Equal(t, "Swimming party with family", db.Bookings["1"].AdditionalInfo)
	assert.Equal(t, gym.TimeSlots[2].ID, db.Bookings["2"].TimeSlotID)
	assert.Equal(t, "Personal training session", db.Bookings["2"].AdditionalInfo)

	// Every slot holder refers to an existing user.
	for _, amenity := range db.Amenities {
		for _, slot := range amenity.TimeSlots {
			if slot.BookedBy != "" {
				_, ok := db.Users[slot.BookedBy]
				assert.True(t, ok, "holder %q of %s must exist", slot.BookedBy, slot.ID)
			}
		}
	}
}

func TestSeedAndClear(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "db.json"), nil)

	require.NoError(t, Seed(st, nil))
	assert.Len(t, st.ReadAmenities(), 4)
	assert.Len(t, st.ReadUsers(), 4)

	require.NoError(t, Clear(st, nil))
	db := st.Load()
	assert.Empty(t, db.Users)
	assert.Empty(t, db.Amenities)
	assert.Empty(t, db.Bookings)
}

func TestSeed_Reseed(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "db.json"), nil)
	require.NoError(t, Seed(st, nil))
	require.NoError(t, Seed(st, nil))

	// Re-seeding replaces, never accumulates.
	assert.Len(t, st.ReadBookings(), 2)
	for _, amenity := range st.ReadAmenities() {
		assert.Len(t, amenity.TimeSlots, 9, fmt.Sprintf("amenity %s", amenity.ID))
	}
}
