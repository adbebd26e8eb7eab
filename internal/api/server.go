// Package api exposes the HTTP surface of the amenity booking service.
package api

import (
	"encoding/json"
	"net/http"

	"bronidom/internal/booking"
	"bronidom/internal/models"
	"bronidom/internal/ratelim"
	"bronidom/internal/store"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// claimer applies one claim attempt. *booking.Engine is the production
// implementation.
type claimer interface {
	Claim(req booking.Request) (models.TimeSlot, error)
}

// Server holds the handler dependencies.
type Server struct {
	store  *store.Store
	engine claimer
	log    *zerolog.Logger
}

// NewServer creates the HTTP server over the given store.
func NewServer(st *store.Store, engine *booking.Engine, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{store: st, engine: engine, log: logger}
}

// Router builds the route table. The rate limiter may be nil.
func (s *Server) Router(rl *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", s.handleHealth)
	router.GET("/seed", rl.Limit(s.handleSeed))
	router.GET("/amenities", rl.Limit(s.handleListAmenities))
	router.GET("/amenities/:id", rl.Limit(s.handleGetAmenity))
	router.POST("/amenities/:id", rl.Limit(s.handleClaimTimeSlot))

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// writeJSON sends one JSON response. Every handler goes through writeJSON
// or writeError exactly once per request.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
