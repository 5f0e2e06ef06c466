// Package scheduler reloads the dosage reference tables on a fixed schedule
// and monitors their freshness.
package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/giygas/thyroid-dosage-api/interfaces"
	"github.com/giygas/thyroid-dosage-api/logging"
	"github.com/go-co-op/gocron"
)

// ReferenceScheduler reloads the reference tables at 06:00 and 18:00 daily so
// edits to an operator-supplied reference file are picked up without a
// restart. With the built-in tables the reload is a no-op revalidation.
type ReferenceScheduler struct {
	store     interfaces.ReferenceStore
	loader    interfaces.ReferenceLoader
	scheduler *gocron.Scheduler
}

// Compile-time check to ensure ReferenceScheduler implements Scheduler
var _ interfaces.Scheduler = (*ReferenceScheduler)(nil)

// NewReferenceScheduler creates a scheduler with injected dependencies
func NewReferenceScheduler(store interfaces.ReferenceStore, loader interfaces.ReferenceLoader) *ReferenceScheduler {
	return &ReferenceScheduler{
		store:     store,
		loader:    loader,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial load and schedules the periodic reloads. A
// failing initial load is fatal: serving dosages from tables that were
// rejected at startup is not acceptable.
func (s *ReferenceScheduler) Start() error {
	if err := s.reload(); err != nil {
		logging.Error("Failed to perform initial reference load", "error", err)
		return fmt.Errorf("initial reference load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.reload(); err != nil {
			// Keep serving the previous snapshot, it was valid when loaded
			logging.Error("Reference reload failed, keeping current snapshot", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule reference reloads", "error", err)
		return fmt.Errorf("failed to schedule reference reloads: %w", err)
	}

	s.scheduler.StartAsync()

	s.startFreshnessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *ReferenceScheduler) Stop() {
	s.scheduler.Stop()
}

// reload loads a fresh snapshot and swaps it in atomically.
func (s *ReferenceScheduler) reload() error {
	if !s.store.BeginUpdate() {
		logging.Info("Reference reload already in progress, skipping...")
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()

	refs, source, err := s.loader.Load()
	if err != nil {
		return fmt.Errorf("loading reference tables: %w", err)
	}

	s.store.UpdateReferenceData(refs, source)

	logging.Info("Reference tables reloaded",
		"duration", time.Since(start).String(),
		"source", source,
		"safe_doses", len(refs.SafeDoses),
		"tablet_sizes", len(refs.TabletSizes),
	)

	return nil
}

// startFreshnessMonitoring warns when a file-backed snapshot stops being
// refreshed. The built-in tables are exempt, they cannot go stale.
func (s *ReferenceScheduler) startFreshnessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if !strings.HasPrefix(s.store.GetSource(), "file:") {
				continue
			}
			if time.Since(s.store.GetLastUpdated()) > 25*time.Hour {
				logging.Warn("Reference file hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
