// Package store owns the persisted dataset. The whole database lives in a
// single JSON file that is read and rewritten wholesale; there is no
// partial or delta mode.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bronidom/internal/models"

	"github.com/rs/zerolog"
)

// Store provides whole-dataset load/save over one JSON file. A single
// in-process mutex serializes every load-mutate-save cycle, so concurrent
// claims against the same slot are decided one after another instead of
// silently losing the first write.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *zerolog.Logger
}

// New creates a store backed by the given file path.
func New(path string, logger *zerolog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the backing location is writable. Used by readiness checks.
func (s *Store) Ping() error {
	s.ensureDir()
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ping-*")
	if err != nil {
		return fmt.Errorf("data directory not writable: %w", err)
	}
	name := tmp.Name()
	tmp.Close()
	return os.Remove(name)
}

// Load returns the last-persisted dataset. An absent or unparseable file
// degrades to the empty dataset; Load never fails.
func (s *Store) Load() models.Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save overwrites the entire persisted dataset.
func (s *Store) Save(db models.Database) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(db)
}

// Update runs fn against the current dataset and persists the result,
// all under the store mutex. If fn returns an error nothing is written.
func (s *Store) Update(fn func(db *models.Database) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.load()
	if err := fn(&db); err != nil {
		return err
	}
	return s.save(db)
}

// ReadAmenities returns the amenities collection.
func (s *Store) ReadAmenities() map[string]models.Amenity {
	return s.Load().Amenities
}

// ReadUsers returns the users collection.
func (s *Store) ReadUsers() map[string]models.User {
	return s.Load().Users
}

// ReadBookings returns the bookings collection.
func (s *Store) ReadBookings() map[string]models.Booking {
	return s.Load().Bookings
}

// WriteAmenities replaces the amenities collection, leaving the other
// collections untouched.
func (s *Store) WriteAmenities(amenities map[string]models.Amenity) error {
	return s.Update(func(db *models.Database) error {
		db.Amenities = amenities
		return nil
	})
}

// WriteBookings replaces the bookings collection.
func (s *Store) WriteBookings(bookings map[string]models.Booking) error {
	return s.Update(func(db *models.Database) error {
		db.Bookings = bookings
		return nil
	})
}

func (s *Store) load() models.Database {
	s.ensureDir()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) && s.logger != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to read data file; starting empty")
		}
		return models.NewDatabase()
	}

	var db models.Database
	if err := json.Unmarshal(data, &db); err != nil {
		if s.logger != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("corrupt data file; starting empty")
		}
		return models.NewDatabase()
	}
	db.Normalize()
	return db
}

func (s *Store) save(db models.Database) error {
	s.ensureDir()
	db.Normalize()

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}

	// Write to a temp file in the same directory and rename into place so
	// a crash mid-write never leaves a torn file behind.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".db-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (s *Store) ensureDir() {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil && s.logger != nil {
		s.logger.Error().Err(err).Str("dir", dir).Msg("failed to create data directory")
	}
}
