// Package dosage implements the clinical dosage calculation engine: the
// levothyroxine and methimazole rule chains, the two dose-rounding policies,
// the hormone adjustment evaluator and the condition summarizer.
//
// The engine is pure: every calculation reads one immutable reference-table
// snapshot and one patient profile, and builds its result in a single pass.
// No state is kept between calls, so concurrent calls need no coordination.
package dosage

import (
	"errors"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// Missing-input failures: the caller must supply complete data and retry.
var (
	ErrWeightRequired = errors.New("weight is required for levothyroxine dosing")
	ErrTSHRequired    = errors.New("current TSH is required")
)

// Unsafe-combination failures: computing any dose would be unsafe, so the
// call fails loudly instead of returning a partial or default dose.
var (
	ErrPossibleHyperthyroid = errors.New("TSH is suppressed without a hypothyroid diagnosis: possible hyperthyroidism, levothyroxine must not be dosed")
	ErrOverdoseSymptoms     = errors.New("TSH is suppressed with overdose symptoms present: urgent clinical evaluation required before any dosing")
)

// ErrInvalidDose is returned by the rounding helpers for non-finite input.
var ErrInvalidDose = errors.New("dose must be a finite number")

// Calculator evaluates dosing rules against one reference-table snapshot.
// It is stateless and safe for concurrent use.
type Calculator struct {
	refs *entities.ReferenceData
}

// NewCalculator creates a calculator over the given reference snapshot.
// A nil snapshot falls back to the built-in tables.
func NewCalculator(refs *entities.ReferenceData) *Calculator {
	if refs == nil {
		refs = entities.DefaultReferenceData()
	}
	return &Calculator{refs: refs}
}

// IsMissingInputError reports whether err is a missing-required-input
// failure, as opposed to an unsafe-combination failure.
func IsMissingInputError(err error) bool {
	return errors.Is(err, ErrWeightRequired) || errors.Is(err, ErrTSHRequired)
}

// IsUnsafeCombinationError reports whether err is a hard safety stop.
func IsUnsafeCombinationError(err error) bool {
	return errors.Is(err, ErrPossibleHyperthyroid) || errors.Is(err, ErrOverdoseSymptoms)
}
