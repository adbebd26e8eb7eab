// Package booking decides whether a claim may be applied and computes the
// resulting state. Validation is deterministic and cheapest-check-first so
// the same bad input always produces the same rejection.
package booking

import (
	"errors"
	"time"

	"bronidom/internal/events"
	"bronidom/internal/metrics"
	"bronidom/internal/models"
	"bronidom/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidInput means a required request field is missing.
	ErrInvalidInput = errors.New("missing required fields")
	// ErrUserNotFound means the requesting user id is unknown.
	ErrUserNotFound = errors.New("user not found")
	// ErrAmenityNotFound means the amenity id is unknown.
	ErrAmenityNotFound = errors.New("amenity not found")
	// ErrTimeSlotNotFound means the slot id does not exist under the amenity.
	ErrTimeSlotNotFound = errors.New("time slot not found")
	// ErrAlreadyBookedBySelf means the requesting user already holds the slot.
	ErrAlreadyBookedBySelf = errors.New("time slot is already booked")
	// ErrAlreadyBookedByOther means a different user holds the slot.
	ErrAlreadyBookedByOther = errors.New("another member has already booked this slot")
)

// Request carries one claim attempt.
type Request struct {
	AmenityID      string
	UserID         string
	TimeSlotID     string
	AdditionalInfo string
}

// Decide validates a claim against a snapshot of users and amenities and,
// on success, marks the slot as held by the requesting user in that
// snapshot. It performs no I/O; the caller persists the mutated amenities.
func Decide(req Request, users map[string]models.User, amenities map[string]models.Amenity) (models.TimeSlot, error) {
	if req.AmenityID == "" || req.UserID == "" || req.TimeSlotID == "" {
		return models.TimeSlot{}, ErrInvalidInput
	}
	if _, ok := users[req.UserID]; !ok {
		return models.TimeSlot{}, ErrUserNotFound
	}
	amenity, ok := amenities[req.AmenityID]
	if !ok {
		return models.TimeSlot{}, ErrAmenityNotFound
	}
	idx := amenity.FindTimeSlot(req.TimeSlotID)
	if idx < 0 {
		return models.TimeSlot{}, ErrTimeSlotNotFound
	}

	slot := &amenity.TimeSlots[idx]
	if slot.IsBooked() {
		if slot.BookedBy == req.UserID {
			return models.TimeSlot{}, ErrAlreadyBookedBySelf
		}
		return models.TimeSlot{}, ErrAlreadyBookedByOther
	}

	slot.BookedBy = req.UserID
	amenities[req.AmenityID] = amenity
	return *slot, nil
}

// datastore is the slice of the store the engine needs.
type datastore interface {
	Update(fn func(db *models.Database) error) error
}

// Engine applies claims against the store. The whole read-decide-write
// cycle runs under the store mutex, so two claims for the same slot
// serialize: the first wins, the second is rejected.
type Engine struct {
	store  datastore
	bus    *events.Bus
	logger *zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewEngine creates a claim engine over the given store. The bus may be
// nil when no subscriber cares about claim events.
func NewEngine(st *store.Store, bus *events.Bus, logger *zerolog.Logger) *Engine {
	return &Engine{
		store:  st,
		bus:    bus,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Claim validates and applies one claim. On success the slot mutation and
// a matching Booking record are persisted in a single save; a rejected
// claim writes nothing.
func (e *Engine) Claim(req Request) (models.TimeSlot, error) {
	var claimed models.TimeSlot
	var record models.Booking

	err := e.store.Update(func(db *models.Database) error {
		slot, err := Decide(req, db.Users, db.Amenities)
		if err != nil {
			return err
		}
		claimed = slot

		record = models.Booking{
			ID:             e.newID(),
			UserID:         req.UserID,
			AmenityID:      req.AmenityID,
			TimeSlotID:     req.TimeSlotID,
			CreatedAt:      e.now(),
			AdditionalInfo: req.AdditionalInfo,
		}
		db.Bookings[record.ID] = record
		return nil
	})

	metrics.IncClaim(outcomeLabel(err))
	if err != nil {
		return models.TimeSlot{}, err
	}

	if e.bus != nil {
		e.bus.Publish(events.Event{
			Type:    events.TypeSlotClaimed,
			Payload: events.SlotClaimed{Booking: record, Slot: claimed},
		})
	}

	if e.logger != nil {
		e.logger.Info().
			Str("amenity_id", req.AmenityID).
			Str("user_id", req.UserID).
			Str("time_slot_id", req.TimeSlotID).
			Msg("time slot claimed")
	}
	return claimed, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrAmenityNotFound):
		return "amenity_not_found"
	case errors.Is(err, ErrTimeSlotNotFound):
		return "slot_not_found"
	case errors.Is(err, ErrAlreadyBookedBySelf):
		return "already_booked_self"
	case errors.Is(err, ErrAlreadyBookedByOther):
		return "already_booked_other"
	default:
		return "error"
	}
}
