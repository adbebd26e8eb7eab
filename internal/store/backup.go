package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupConfig controls periodic snapshots of the data file.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	IntervalHours int    `yaml:"interval_hours"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// BackupService periodically copies the data file aside and prunes old
// copies.
type BackupService struct {
	store  *Store
	config BackupConfig
	logger *zerolog.Logger
}

// NewBackupService creates a backup service for the given store.
func NewBackupService(st *Store, cfg BackupConfig, logger *zerolog.Logger) *BackupService {
	if cfg.IntervalHours <= 0 {
		cfg.IntervalHours = 24
	}
	if cfg.Path == "" {
		cfg.Path = "backups"
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BackupService{store: st, config: cfg, logger: logger}
}

// Start runs the backup loop until ctx is canceled.
func (s *BackupService) Start(ctx context.Context) {
	if !s.config.Enabled {
		return
	}

	interval := time.Duration(s.config.IntervalHours) * time.Hour
	s.logger.Info().Dur("interval", interval).Str("path", s.config.Path).Msg("backup service started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.Run(); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Run(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.cleanup()
		}
	}
}

// Run takes one snapshot of the data file. The copy happens under the
// store mutex so a claim mid-write can never produce a torn snapshot.
func (s *BackupService) Run() error {
	if err := os.MkdirAll(s.config.Path, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(s.config.Path, fmt.Sprintf("db_%s.json", timestamp))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	source, err := os.Open(s.store.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing persisted yet; nothing to snapshot.
			return nil
		}
		return err
	}
	defer source.Close()

	destination, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	s.logger.Info().Str("path", dest).Msg("backup completed")
	return nil
}

func (s *BackupService) cleanup() {
	if s.config.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.config.Path)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read backup directory for cleanup")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("deleting old backup")
			_ = os.Remove(filepath.Join(s.config.Path, file.Name()))
		}
	}
}
