package data

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
	"github.com/giygas/thyroid-dosage-api/interfaces"
)

// Compile-time check to ensure FileLoader implements ReferenceLoader
var _ interfaces.ReferenceLoader = (*FileLoader)(nil)

// LimitOverrides carries the env-configured safety-limit overrides. A zero
// value means "keep the loaded value".
type LimitOverrides struct {
	MinDoseMcg        float64
	MaxDoseMcg        float64
	ElderlyMaxDoseMcg float64
	CardiacMaxDoseMcg float64
}

// FileLoader produces reference snapshots. With an empty path it returns the
// built-in tables; otherwise it overlays a JSON reference file on top of
// them, so partial files only override what they mention.
type FileLoader struct {
	Path      string
	Overrides LimitOverrides
}

// NewFileLoader creates a loader for the given reference file path.
func NewFileLoader(path string, overrides LimitOverrides) *FileLoader {
	return &FileLoader{Path: path, Overrides: overrides}
}

// Load builds a validated reference snapshot.
func (l *FileLoader) Load() (*entities.ReferenceData, string, error) {
	refs := entities.DefaultReferenceData()
	source := "builtin"

	if l.Path != "" {
		raw, err := os.ReadFile(l.Path)
		if err != nil {
			return nil, "", fmt.Errorf("reading reference file %s: %w", l.Path, err)
		}
		if err := json.Unmarshal(raw, refs); err != nil {
			return nil, "", fmt.Errorf("parsing reference file %s: %w", l.Path, err)
		}
		source = "file:" + l.Path
	}

	l.applyOverrides(refs)

	if err := validateReferenceData(refs); err != nil {
		return nil, "", fmt.Errorf("invalid reference data from %s: %w", source, err)
	}

	return refs, source, nil
}

func (l *FileLoader) applyOverrides(refs *entities.ReferenceData) {
	if l.Overrides.MinDoseMcg > 0 {
		refs.Limits.MinDoseMcg = l.Overrides.MinDoseMcg
	}
	if l.Overrides.MaxDoseMcg > 0 {
		refs.Limits.MaxDoseMcg = l.Overrides.MaxDoseMcg
	}
	if l.Overrides.ElderlyMaxDoseMcg > 0 {
		refs.Limits.ElderlyMaxDoseMcg = l.Overrides.ElderlyMaxDoseMcg
	}
	if l.Overrides.CardiacMaxDoseMcg > 0 {
		refs.Limits.CardiacMaxDoseMcg = l.Overrides.CardiacMaxDoseMcg
	}
}

// validateReferenceData rejects snapshots the engine cannot dose from.
func validateReferenceData(refs *entities.ReferenceData) error {
	bands := map[string]entities.Range{
		"tsh":     refs.Ranges.TSH,
		"freeT4":  refs.Ranges.FreeT4,
		"freeT3":  refs.Ranges.FreeT3,
		"totalT4": refs.Ranges.TotalT4,
		"totalT3": refs.Ranges.TotalT3,
	}
	for name, band := range bands {
		if band.Low <= 0 || band.High <= band.Low {
			return fmt.Errorf("reference range %s must satisfy 0 < low < high, got [%v, %v]", name, band.Low, band.High)
		}
	}

	sev := refs.Severity
	if !(sev.MildTSH < sev.ModerateTSH && sev.ModerateTSH < sev.SevereTSH) {
		return fmt.Errorf("severity thresholds must be ascending, got %v/%v/%v", sev.MildTSH, sev.ModerateTSH, sev.SevereTSH)
	}
	if sev.MildMcgPerKg <= 0 || sev.ModerateMcgPerKg <= 0 || sev.SevereMcgPerKg <= 0 {
		return fmt.Errorf("severity multipliers must be positive")
	}

	limits := refs.Limits
	if limits.MinDoseMcg <= 0 || limits.MaxDoseMcg <= limits.MinDoseMcg {
		return fmt.Errorf("dose limits must satisfy 0 < min < max, got [%v, %v]", limits.MinDoseMcg, limits.MaxDoseMcg)
	}
	if limits.ElderlyMaxDoseMcg < limits.MinDoseMcg || limits.CardiacMaxDoseMcg < limits.MinDoseMcg {
		return fmt.Errorf("elderly and cardiac caps must not undercut the minimum dose")
	}

	if len(refs.SafeDoses) < 2 {
		return fmt.Errorf("safe dose ladder needs at least two values")
	}
	if !sort.Float64sAreSorted(refs.SafeDoses) {
		return fmt.Errorf("safe dose ladder must be ascending")
	}
	if len(refs.TabletSizes) == 0 {
		return fmt.Errorf("tablet size list cannot be empty")
	}
	if !sort.Float64sAreSorted(refs.TabletSizes) {
		return fmt.Errorf("tablet size list must be ascending")
	}

	m := refs.Methimazole
	if m.MinDoseMg <= 0 || m.MaxDoseMg <= m.MinDoseMg || m.RoundToMg <= 0 {
		return fmt.Errorf("methimazole dose bounds are invalid")
	}

	return nil
}
