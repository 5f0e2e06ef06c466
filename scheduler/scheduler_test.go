package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// mockReferenceStore for testing the scheduler
type mockReferenceStore struct {
	refs        *entities.ReferenceData
	source      string
	lastUpdated time.Time
	updating    bool
	updateCount int
}

func (m *mockReferenceStore) GetReferenceData() *entities.ReferenceData { return m.refs }
func (m *mockReferenceStore) GetSource() string                        { return m.source }
func (m *mockReferenceStore) GetLastUpdated() time.Time                { return m.lastUpdated }
func (m *mockReferenceStore) GetServerStartTime() time.Time            { return time.Time{} }
func (m *mockReferenceStore) IsUpdating() bool                         { return m.updating }

func (m *mockReferenceStore) UpdateReferenceData(refs *entities.ReferenceData, source string) {
	m.refs = refs
	m.source = source
	m.lastUpdated = time.Now()
	m.updateCount++
}

func (m *mockReferenceStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *mockReferenceStore) EndUpdate() {
	m.updating = false
}

// mockLoader for testing the scheduler
type mockLoader struct {
	loadCount  int
	shouldFail bool
}

func (m *mockLoader) Load() (*entities.ReferenceData, string, error) {
	m.loadCount++
	if m.shouldFail {
		return nil, "", errors.New("load failed")
	}
	return entities.DefaultReferenceData(), "builtin", nil
}

func TestSchedulerInitialLoad(t *testing.T) {
	store := &mockReferenceStore{}
	loader := &mockLoader{}

	s := NewReferenceScheduler(store, loader)
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}

	if loader.loadCount != 1 {
		t.Errorf("Expected 1 initial load, got %d", loader.loadCount)
	}
	if store.updateCount != 1 {
		t.Errorf("Expected 1 store update, got %d", store.updateCount)
	}
	if store.refs == nil {
		t.Error("Expected reference data to be stored")
	}
	if store.updating {
		t.Error("Update flag should be cleared after the reload")
	}
}

func TestSchedulerFailedInitialLoadIsFatal(t *testing.T) {
	store := &mockReferenceStore{}
	loader := &mockLoader{shouldFail: true}

	s := NewReferenceScheduler(store, loader)
	defer s.Stop()

	if err := s.Start(); err == nil {
		t.Fatal("Expected error for failed initial load, got nil")
	}

	if store.updateCount != 0 {
		t.Errorf("Failed load must not update the store, got %d updates", store.updateCount)
	}
	if store.updating {
		t.Error("Update flag should be cleared after a failed reload")
	}
}

func TestSchedulerSkipsConcurrentReload(t *testing.T) {
	store := &mockReferenceStore{updating: true}
	loader := &mockLoader{}

	s := NewReferenceScheduler(store, loader)

	// reload must bail out without touching the loader when an update is
	// already running
	if err := s.reload(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loader.loadCount != 0 {
		t.Errorf("Expected no loads during a concurrent update, got %d", loader.loadCount)
	}
}

func TestSchedulerStop(t *testing.T) {
	store := &mockReferenceStore{}
	loader := &mockLoader{}

	s := NewReferenceScheduler(store, loader)
	if err := s.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}

	// Stop must not panic and must be safe to call after Start
	s.Stop()
}
