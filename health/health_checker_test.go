package health

import (
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// mockReferenceStore for testing
type mockReferenceStore struct {
	refs        *entities.ReferenceData
	source      string
	lastUpdated time.Time
	isUpdating  bool
}

func (m *mockReferenceStore) GetReferenceData() *entities.ReferenceData { return m.refs }
func (m *mockReferenceStore) GetSource() string                        { return m.source }
func (m *mockReferenceStore) GetLastUpdated() time.Time                { return m.lastUpdated }
func (m *mockReferenceStore) GetServerStartTime() time.Time            { return time.Time{} }
func (m *mockReferenceStore) IsUpdating() bool                         { return m.isUpdating }
func (m *mockReferenceStore) UpdateReferenceData(refs *entities.ReferenceData, source string) {
}
func (m *mockReferenceStore) BeginUpdate() bool { return true }
func (m *mockReferenceStore) EndUpdate()       {}

func TestHealthCheckHealthyBuiltin(t *testing.T) {
	store := &mockReferenceStore{
		refs:        entities.DefaultReferenceData(),
		source:      "builtin",
		lastUpdated: time.Time{}, // never reloaded, builtin seed only
	}

	checker := NewHealthChecker(store)
	status, details, httpStatus := checker.HealthCheck()

	// Built-in tables never go stale, even with a zero last update
	if status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("Expected HTTP 200, got %d", httpStatus)
	}
	if details["source"] != "builtin" {
		t.Errorf("Expected source builtin, got %v", details["source"])
	}
	if _, ok := details["data_age_hours"]; ok {
		t.Error("Built-in source should not report data_age_hours")
	}
	if details["safe_doses"].(int) == 0 {
		t.Error("Expected a populated safe dose ladder")
	}
}

func TestHealthCheckUnhealthyEmptyTables(t *testing.T) {
	refs := entities.DefaultReferenceData()
	refs.SafeDoses = nil

	store := &mockReferenceStore{
		refs:        refs,
		source:      "builtin",
		lastUpdated: time.Now(),
	}

	checker := NewHealthChecker(store)
	status, _, httpStatus := checker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got '%s'", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP 503, got %d", httpStatus)
	}
}

func TestHealthCheckDegradedStaleFile(t *testing.T) {
	store := &mockReferenceStore{
		refs:        entities.DefaultReferenceData(),
		source:      "file:/etc/thyroid/reference.json",
		lastUpdated: time.Now().Add(-49 * time.Hour),
	}

	checker := NewHealthChecker(store)
	status, details, httpStatus := checker.HealthCheck()

	if status != "degraded" {
		t.Errorf("Expected status 'degraded', got '%s'", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP 503, got %d", httpStatus)
	}

	dataAge := details["data_age_hours"].(float64)
	if dataAge < 48 {
		t.Errorf("Expected data age > 48 hours, got %f", dataAge)
	}
}

func TestHealthCheckFreshFileHealthy(t *testing.T) {
	store := &mockReferenceStore{
		refs:        entities.DefaultReferenceData(),
		source:      "file:/etc/thyroid/reference.json",
		lastUpdated: time.Now().Add(-1 * time.Hour),
		isUpdating:  true,
	}

	checker := NewHealthChecker(store)
	status, details, _ := checker.HealthCheck()

	if status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", status)
	}
	if details["is_updating"] != true {
		t.Errorf("Expected is_updating true, got %v", details["is_updating"])
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	checker := NewHealthChecker(&mockReferenceStore{})

	nextUpdate := checker.CalculateNextUpdate()

	now := time.Now()
	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	sixPM := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())
	tomorrowSixAM := sixAM.AddDate(0, 0, 1)

	validTimes := []time.Time{sixAM, sixPM, tomorrowSixAM}
	if !slices.ContainsFunc(validTimes, nextUpdate.Equal) {
		t.Errorf("Next update time %v is not valid (expected 6AM today, 6PM today, or 6AM tomorrow)", nextUpdate)
	}

	if !nextUpdate.After(now) {
		t.Errorf("Next update %v should be in the future", nextUpdate)
	}
}
