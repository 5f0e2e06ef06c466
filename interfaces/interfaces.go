// Package interfaces defines the core abstractions of the thyroid dosage API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// ReferenceStore defines the contract for reference-table storage. It
// provides thread-safe access to the current reference snapshot with atomic
// swaps for zero-downtime reloads; every calculation reads exactly one
// snapshot.
type ReferenceStore interface {
	// Snapshot access
	GetReferenceData() *entities.ReferenceData
	GetLastUpdated() time.Time
	GetSource() string
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Snapshot replacement
	UpdateReferenceData(refs *entities.ReferenceData, source string)
	BeginUpdate() bool
	EndUpdate()
}

// ReferenceLoader defines the contract for producing a reference snapshot,
// either from the built-in tables or from an operator-supplied file.
type ReferenceLoader interface {
	Load() (refs *entities.ReferenceData, source string, err error)
}

// Scheduler defines the contract for reference reloads and staleness
// monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// ProfileValidator defines the contract for plausibility checks on incoming
// patient profiles and for parsing user-supplied dose parameters. It guards
// the engine against nonsense input; it does not duplicate the engine's own
// clinical safety checks.
type ProfileValidator interface {
	ValidateProfile(p *entities.PatientProfile) error
	ParseDose(input string) (float64, error)
}

// HTTPHandler defines the contract for the API endpoints.
type HTTPHandler interface {
	CalculateLevothyroxine(w http.ResponseWriter, r *http.Request)
	CalculateMethimazole(w http.ResponseWriter, r *http.Request)
	NearestSafeDose(w http.ResponseWriter, r *http.Request)
	NearestTablet(w http.ResponseWriter, r *http.Request)
	SummarizeConditions(w http.ResponseWriter, r *http.Request)
	ServeReference(w http.ResponseWriter, r *http.Request)

	// This will stay in all versions
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health monitoring and reporting.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reference reload time
	CalculateNextUpdate() time.Time
}
