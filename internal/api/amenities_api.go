package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"bronidom/internal/booking"
	"bronidom/internal/metrics"
	"bronidom/internal/models"
	"bronidom/internal/seed"

	"github.com/julienschmidt/httprouter"
)

// ClaimRequest is the request body for POST /amenities/:id.
type ClaimRequest struct {
	UserID         string `json:"userId"`
	TimeSlotID     string `json:"timeSlotId"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

// handleListAmenities returns all amenities with their nested time slots,
// booked ones included. Filtering booked slots out is deliberately left to
// clients.
// GET /amenities
func (s *Server) handleListAmenities(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("list_amenities")

	amenities := s.store.ReadAmenities()

	list := make([]models.Amenity, 0, len(amenities))
	for _, a := range amenities {
		list = append(list, a)
	}
	// Map iteration order is random; keep listings stable across calls.
	sort.Slice(list, func(i, j int) bool { return amenityIDLess(list[i].ID, list[j].ID) })

	writeJSON(w, http.StatusOK, list)
}

// handleGetAmenity returns a single amenity by id.
// GET /amenities/:id
func (s *Server) handleGetAmenity(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("get_amenity")

	id := ps.ByName("id")
	if _, err := strconv.Atoi(id); err != nil {
		writeError(w, http.StatusBadRequest, "Amenity ID should be a valid number")
		return
	}

	amenity, ok := s.store.ReadAmenities()[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Amenity not found")
		return
	}

	writeJSON(w, http.StatusOK, amenity)
}

// handleClaimTimeSlot books a time slot for a user.
// POST /amenities/:id body {userId, timeSlotId, additionalInfo?}
func (s *Server) handleClaimTimeSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("claim_time_slot")

	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	slot, err := s.engine.Claim(booking.Request{
		AmenityID:      ps.ByName("id"),
		UserID:         req.UserID,
		TimeSlotID:     req.TimeSlotID,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		status, msg := claimStatus(err)
		if status == http.StatusInternalServerError {
			s.log.Error().Err(err).Str("amenity_id", ps.ByName("id")).Msg("claim failed")
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, slot)
}

// handleSeed repopulates the store with demonstration data.
// GET /seed (kept as GET for compatibility with the historical surface)
func (s *Server) handleSeed(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("seed")

	if err := seed.Seed(s.store, s.log); err != nil {
		s.log.Error().Err(err).Msg("seed failed")
		writeError(w, http.StatusInternalServerError, "Failed to seed database")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{})
}

// claimStatus maps an engine rejection to exactly one HTTP response. The
// already-booked-by-self case deliberately answers 404, matching the
// historical surface.
func claimStatus(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, booking.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, booking.ErrAmenityNotFound):
		return http.StatusNotFound, "Amenity not found"
	case errors.Is(err, booking.ErrTimeSlotNotFound):
		return http.StatusNotFound, "Time slot not found"
	case errors.Is(err, booking.ErrAlreadyBookedBySelf):
		return http.StatusNotFound, "Time slot is already booked"
	case errors.Is(err, booking.ErrAlreadyBookedByOther):
		return http.StatusConflict, "Another member has already booked this slot"
	default:
		return http.StatusInternalServerError, "Failed to save booking"
	}
}

// amenityIDLess orders numeric-looking ids numerically and falls back to
// a plain string compare, so "10" sorts after "2" without ever treating
// ids as array indices.
func amenityIDLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
