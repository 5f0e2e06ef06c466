// Package health provides health checking functionality for the thyroid
// dosage API.
package health

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/thyroid-dosage-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store interfaces.ReferenceStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.ReferenceStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store: store,
	}
}

// HealthCheck returns HTTP-specific health data. The built-in tables are
// compiled in and can never go stale; staleness thresholds only apply when an
// operator-supplied reference file is the source of truth.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	refs := h.store.GetReferenceData()
	source := h.store.GetSource()
	lastUpdate := h.store.GetLastUpdated()
	isUpdating := h.store.IsUpdating()

	fileBacked := strings.HasPrefix(source, "file:")
	dataAge := time.Since(lastUpdate)

	switch {
	case refs == nil || len(refs.SafeDoses) == 0 || len(refs.TabletSizes) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case fileBacked && dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case fileBacked && isUpdating && dataAge > 6*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"source":       source,
		"last_update":  lastUpdate.Format(time.RFC3339),
		"safe_doses":   0,
		"tablet_sizes": 0,
		"is_updating":  isUpdating,
	}
	if refs != nil {
		data["safe_doses"] = len(refs.SafeDoses)
		data["tablet_sizes"] = len(refs.TabletSizes)
	}
	if fileBacked {
		data["data_age_hours"] = math.Round(dataAge.Hours()*10) / 10
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled reference reload time
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	now := time.Now()

	// Reloads run at 6:00 AM and 6:00 PM local time
	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	sixPM := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())

	if now.Before(sixAM) {
		return sixAM
	}

	if now.Before(sixPM) {
		return sixPM
	}

	return sixAM.AddDate(0, 0, 1)
}
