// Package seed deterministically populates the store with demonstration
// users, amenities and bookings, and can reset it to empty.
package seed

import (
	"fmt"
	"time"

	"bronidom/internal/metrics"
	"bronidom/internal/models"
	"bronidom/internal/store"

	"github.com/rs/zerolog"
)

// Schedule settings for generated slot ladders.
const (
	daysToSchedule = 3 // today + 2 more days
)

// startingHours are the daily slot start hours (9 AM, 1 PM, 5 PM).
var startingHours = []int{9, 13, 17}

// GenerateTimeSlots builds the slot ladder for one amenity: for each of
// the next daysToSchedule days starting at base's midnight, one slot per
// starting hour, each slotDurationHours long. Slot ids embed the full
// date so ladders generated in different weeks never collide.
func GenerateTimeSlots(base time.Time, slotDurationHours int) []models.TimeSlot {
	if slotDurationHours <= 0 {
		slotDurationHours = 1
	}

	midnight := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())

	var slots []models.TimeSlot
	for dayOffset := 0; dayOffset < daysToSchedule; dayOffset++ {
		day := midnight.AddDate(0, 0, dayOffset)
		for _, hour := range startingHours {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			end := start.Add(time.Duration(slotDurationHours) * time.Hour)

			slots = append(slots, models.TimeSlot{
				ID:        fmt.Sprintf("slot_%s_%dh", start.Format("2006-01-02"), hour),
				StartTime: start,
				EndTime:   end,
			})
		}
	}
	return slots
}

// Build constructs the full seed dataset relative to now. The result is
// deterministic for a given now.
func Build(now time.Time) models.Database {
	db := models.NewDatabase()

	db.Users = map[string]models.User{
		"1": {ID: "1", Name: "John Doe", Email: "john.doe@example.com", ApartmentNumber: "101"},
		"2": {ID: "2", Name: "Jane Smith", Email: "jane.smith@example.com", ApartmentNumber: "202"},
		"3": {ID: "3", Name: "Robert Johnson", Email: "robert.johnson@example.com", ApartmentNumber: "303"},
		"4": {ID: "4", Name: "Lisa Chen", Email: "lisa.chen@example.com", ApartmentNumber: "404"},
	}

	db.Amenities = map[string]models.Amenity{
		"1": {
			ID:               "1",
			Name:             "Swimming Pool",
			Description:      "Olympic-sized swimming pool with lounge area",
			Location:         "Ground Floor",
			MaxDurationHours: 2,
			TimeSlots:        GenerateTimeSlots(now, 2),
		},
		"2": {
			ID:               "2",
			Name:             "Fitness Center",
			Description:      "Fully equipped gym with cardio and weight training equipment",
			Location:         "Second Floor",
			MaxDurationHours: 1,
			TimeSlots:        GenerateTimeSlots(now, 1),
		},
		"3": {
			ID:               "3",
			Name:             "Conference Room",
			Description:      "Meeting room with presentation equipment",
			Location:         "Third Floor",
			MaxDurationHours: 3,
			TimeSlots:        GenerateTimeSlots(now, 3),
		},
		"4": {
			ID:               "4",
			Name:             "Rooftop Lounge",
			Description:      "Outdoor lounge area with BBQ equipment",
			Location:         "Rooftop",
			MaxDurationHours: 4,
			TimeSlots:        GenerateTimeSlots(now, 4),
		},
	}

	// Pre-apply a couple of bookings so listings show both states.
	pool := db.Amenities["1"]
	pool.TimeSlots[1].BookedBy = "1"
	db.Amenities["1"] = pool
	db.Bookings["1"] = models.Booking{
		ID:             "1",
		UserID:         "1",
		AmenityID:      "1",
		TimeSlotID:     pool.TimeSlots[1].ID,
		CreatedAt:      now,
		AdditionalInfo: "Swimming party with family",
	}

	gym := db.Amenities["2"]
	gym.TimeSlots[2].BookedBy = "2"
	db.Amenities["2"] = gym
	db.Bookings["2"] = models.Booking{
		ID:             "2",
		UserID:         "2",
		AmenityID:      "2",
		TimeSlotID:     gym.TimeSlots[2].ID,
		CreatedAt:      now,
		AdditionalInfo: "Personal training session",
	}

	return db
}

// Seed (re)populates the store with the seed dataset.
func Seed(st *store.Store, logger *zerolog.Logger) error {
	if err := st.Save(Build(time.Now())); err != nil {
		return fmt.Errorf("persist seed data: %w", err)
	}
	metrics.IncSeedRun()
	if logger != nil {
		logger.Info().Str("path", st.Path()).Msg("database seeded with initial data")
	}
	return nil
}

// Clear persists the fully empty dataset.
func Clear(st *store.Store, logger *zerolog.Logger) error {
	if err := st.Save(models.NewDatabase()); err != nil {
		return fmt.Errorf("persist empty dataset: %w", err)
	}
	if logger != nil {
		logger.Info().Str("path", st.Path()).Msg("database cleared")
	}
	return nil
}
