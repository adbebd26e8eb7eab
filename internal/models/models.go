// Package models defines the persisted data model for the amenity
// booking service.
package models

import "time"

// User is a resident who can claim amenity time slots. Users are created
// by seeding only and are read-only afterwards.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ApartmentNumber string `json:"apartmentNumber"`
}

// TimeSlot is a fixed availability interval owned by exactly one amenity.
// BookedBy is the single piece of mutable booking state in the whole
// system: empty means unbooked, otherwise it holds the claiming user's id.
// It never transitions back to empty.
type TimeSlot struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	BookedBy  string    `json:"bookedBy,omitempty"`
}

// IsBooked reports whether the slot already has a holder.
func (s *TimeSlot) IsBooked() bool {
	return s.BookedBy != ""
}

// Duration returns the slot length.
func (s *TimeSlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Amenity is a bookable shared resource with its own schedule of time
// slots. An amenity exclusively owns its slots; slot ids are unique
// within the amenity, not globally.
type Amenity struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	MaxDurationHours int        `json:"maxDurationHours"`
	TimeSlots        []TimeSlot `json:"timeSlots"`
}

// FindTimeSlot returns the index of the slot with the given id, or -1.
// Slot counts per amenity are small, so a linear scan is enough.
func (a *Amenity) FindTimeSlot(id string) int {
	for i := range a.TimeSlots {
		if a.TimeSlots[i].ID == id {
			return i
		}
	}
	return -1
}

// Booking records the fact that a claim occurred.
type Booking struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	AmenityID      string    `json:"amenityId"`
	TimeSlotID     string    `json:"timeSlotId"`
	CreatedAt      time.Time `json:"createdAt"`
	AdditionalInfo string    `json:"additionalInfo,omitempty"`
}

// Database is the whole persisted dataset: three collections keyed by id.
type Database struct {
	Users     map[string]User    `json:"users"`
	Amenities map[string]Amenity `json:"amenities"`
	Bookings  map[string]Booking `json:"bookings"`
}

// NewDatabase returns an empty dataset with all collections allocated.
func NewDatabase() Database {
	return Database{
		Users:     make(map[string]User),
		Amenities: make(map[string]Amenity),
		Bookings:  make(map[string]Booking),
	}
}

// Normalize allocates any nil collection so callers never have to
// distinguish "absent" from "empty" after a decode.
func (db *Database) Normalize() {
	if db.Users == nil {
		db.Users = make(map[string]User)
	}
	if db.Amenities == nil {
		db.Amenities = make(map[string]Amenity)
	}
	if db.Bookings == nil {
		db.Bookings = make(map[string]Booking)
	}
}
