// Package validation provides plausibility checks for incoming patient
// profiles and request parameters. It rejects nonsense before the engine
// runs; clinical safety rules live in the dosage package itself.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
	"github.com/giygas/thyroid-dosage-api/interfaces"
)

// Compile-time check to ensure ProfileValidatorImpl implements ProfileValidator
var _ interfaces.ProfileValidator = (*ProfileValidatorImpl)(nil)

// Dangerous patterns as strings (faster than regex for simple substring
// matching). Free-text fields are short, but they end up in logs and
// responses, so they get the same sweep as any user input.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "eval(", "expression(", "url(", "@import",
	"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
	"--", "/*", "*/", "exec(", "execute(",
	"; ", "| ", "& ", "`", "$(", "${",
	"../", "..\\", "%2e%2e", "file://",
}

// Plausibility bounds. These are wide on purpose: anything outside them is a
// data-entry error, not a clinical edge case.
const (
	maxAgeYears     = 120
	maxWeightKg     = 500
	maxTSHValue     = 200
	maxHormoneValue = 1000
	maxDoseValue    = 1000
	maxGenderLength = 30
)

// ProfileValidatorImpl implements the interfaces.ProfileValidator interface
type ProfileValidatorImpl struct{}

// NewProfileValidator creates a new profile validator
func NewProfileValidator() interfaces.ProfileValidator {
	return &ProfileValidatorImpl{}
}

// ValidateProfile checks that a patient profile is plausible enough to dose
// from. Missing optional fields are fine; present fields must make sense.
func (v *ProfileValidatorImpl) ValidateProfile(p *entities.PatientProfile) error {
	if p == nil {
		return fmt.Errorf("patient profile is required")
	}

	if p.Age != nil && (*p.Age < 0 || *p.Age > maxAgeYears) {
		return fmt.Errorf("age must be between 0 and %d years, got %d", maxAgeYears, *p.Age)
	}

	if p.WeightKg != nil {
		if err := checkFinite("weightKg", *p.WeightKg); err != nil {
			return err
		}
		if *p.WeightKg <= 0 || *p.WeightKg > maxWeightKg {
			return fmt.Errorf("weightKg must be between 0 and %d, got %v", maxWeightKg, *p.WeightKg)
		}
	}

	if p.CurrentTSH != nil {
		if err := checkFinite("currentTSH", *p.CurrentTSH); err != nil {
			return err
		}
		if *p.CurrentTSH < 0 || *p.CurrentTSH >= maxTSHValue {
			return fmt.Errorf("currentTSH must be between 0 and %d mIU/L, got %v", maxTSHValue, *p.CurrentTSH)
		}
	}

	hormones := map[string]*float64{
		"freeT4":  p.FreeT4,
		"freeT3":  p.FreeT3,
		"totalT4": p.TotalT4,
		"totalT3": p.TotalT3,
	}
	for name, value := range hormones {
		if value == nil {
			continue
		}
		if err := checkFinite(name, *value); err != nil {
			return err
		}
		if *value < 0 || *value > maxHormoneValue {
			return fmt.Errorf("%s must be between 0 and %d, got %v", name, maxHormoneValue, *value)
		}
	}

	if p.CurrentDoseMcg != nil {
		if err := checkFinite("currentDoseMcg", *p.CurrentDoseMcg); err != nil {
			return err
		}
		if *p.CurrentDoseMcg < 0 || *p.CurrentDoseMcg > maxDoseValue {
			return fmt.Errorf("currentDoseMcg must be between 0 and %d, got %v", maxDoseValue, *p.CurrentDoseMcg)
		}
	}

	if p.PregnancyTrimester != nil && (*p.PregnancyTrimester < 1 || *p.PregnancyTrimester > 3) {
		return fmt.Errorf("pregnancyTrimester must be 1, 2 or 3, got %d", *p.PregnancyTrimester)
	}
	if p.PregnancyTrimester != nil && !p.IsPregnant {
		return fmt.Errorf("pregnancyTrimester requires isPregnant to be true")
	}

	if err := validateHeartRisk(p.HeartDiseaseRisk); err != nil {
		return err
	}
	if err := validateLiverDisease(p); err != nil {
		return err
	}
	if err := validateKidneyDisease(p); err != nil {
		return err
	}

	return validateFreeText("gender", p.Gender)
}

func validateHeartRisk(risk entities.HeartDiseaseRisk) error {
	switch risk {
	case entities.HeartRiskNone, entities.HeartRiskLow, entities.HeartRiskHigh:
		return nil
	}
	return fmt.Errorf("heartDiseaseRisk must be one of: low, high, got %q", risk)
}

func validateLiverDisease(p *entities.PatientProfile) error {
	switch p.LiverDiseaseType {
	case entities.LiverUnspecified, entities.LiverCirrhosis, entities.LiverCholestatic,
		entities.LiverNAFLD, entities.LiverHepatitis, entities.LiverPostTransplant,
		entities.LiverOther:
	default:
		return fmt.Errorf("unknown liverDiseaseType %q", p.LiverDiseaseType)
	}

	if p.LiverDiseaseType != entities.LiverUnspecified && !p.HasLiverDisease {
		return fmt.Errorf("liverDiseaseType requires hasLiverDisease to be true")
	}
	return nil
}

func validateKidneyDisease(p *entities.PatientProfile) error {
	switch p.KidneyDiseaseStage {
	case entities.KidneyUnspecified, entities.KidneyStage1, entities.KidneyStage2, entities.KidneyStage3,
		entities.KidneyStage4, entities.KidneyStage5, entities.KidneyESRD,
		entities.KidneyPostTransplant, entities.KidneyOther:
	default:
		return fmt.Errorf("unknown kidneyDiseaseStage %q", p.KidneyDiseaseStage)
	}

	if p.KidneyDiseaseStage != entities.KidneyUnspecified && !p.HasKidneyDisease {
		return fmt.Errorf("kidneyDiseaseStage requires hasKidneyDisease to be true")
	}
	return nil
}

// validateFreeText sweeps a short free-text field for injection patterns.
func validateFreeText(field, input string) error {
	if input == "" {
		return nil
	}

	if len(input) > maxGenderLength {
		return fmt.Errorf("%s too long: maximum %d characters", field, maxGenderLength)
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("%s contains potentially dangerous content", field)
		}
	}

	return nil
}

// ParseDose parses a dose URL parameter into a positive, finite mcg value.
func (v *ProfileValidatorImpl) ParseDose(input string) (float64, error) {
	trimmedInput := strings.TrimSpace(input)
	if trimmedInput == "" {
		return -1, fmt.Errorf("dose cannot be empty")
	}

	// Reject if original input contained whitespace (spaces, tabs, etc.)
	if len(input) != len(trimmedInput) {
		return -1, fmt.Errorf("dose contains invalid characters. Only numeric characters are allowed")
	}

	dose, err := strconv.ParseFloat(trimmedInput, 64)
	if err != nil {
		return -1, fmt.Errorf("dose must be a number, got %q", input)
	}

	if math.IsNaN(dose) || math.IsInf(dose, 0) {
		return -1, fmt.Errorf("dose must be a finite number")
	}

	if dose <= 0 || dose > maxDoseValue {
		return -1, fmt.Errorf("dose must be between 0 and %d mcg, got %v", maxDoseValue, dose)
	}

	return dose, nil
}

func checkFinite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be a finite number", field)
	}
	return nil
}
