package entities

// Severity classifies how far the hormone panel sits outside its reference
// range.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// DosageResult is the complete output of one calculation call. It is built
// in a single pass and never mutated afterwards.
//
// Alerts is an append-only trail: every rule that fired contributes its own
// message, in firing order, and nothing is deduplicated.
type DosageResult struct {
	Dose          float64  `json:"dose"`
	Unit          string   `json:"unit"`
	NearestTablet *float64 `json:"nearestTablet,omitempty"`
	Severity      Severity `json:"severity,omitempty"`
	FollowUpWeeks int      `json:"followUpWeeks,omitempty"`
	Alerts        []string `json:"alerts"`

	MedicalConditionsSummary string `json:"medicalConditionsSummary,omitempty"`

	// Soft "needs more data" signal for the hyperthyroid path. The caller
	// can prompt for the listed fields and retry; this is deliberately not
	// an error.
	RequiresHormoneData  bool     `json:"requiresHormoneData,omitempty"`
	MissingHormoneFields []string `json:"missingHormoneFields,omitempty"`
}
