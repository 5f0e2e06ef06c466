package dosage

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// baseProfile builds a diagnosed hypothyroid patient with no comorbidities.
func baseProfile(tsh, weight float64) *entities.PatientProfile {
	return &entities.PatientProfile{
		CurrentTSH:           floatPtr(tsh),
		WeightKg:             floatPtr(weight),
		DiagnosedHypothyroid: true,
	}
}

func TestCalculateLevothyroxine_MissingInputs(t *testing.T) {
	calc := NewCalculator(nil)

	if _, err := calc.CalculateLevothyroxine(&entities.PatientProfile{CurrentTSH: floatPtr(10)}); !errors.Is(err, ErrWeightRequired) {
		t.Errorf("Expected ErrWeightRequired, got %v", err)
	}
	if _, err := calc.CalculateLevothyroxine(&entities.PatientProfile{WeightKg: floatPtr(70)}); !errors.Is(err, ErrTSHRequired) {
		t.Errorf("Expected ErrTSHRequired, got %v", err)
	}
	if _, err := calc.CalculateLevothyroxine(nil); !errors.Is(err, ErrWeightRequired) {
		t.Errorf("Expected ErrWeightRequired for nil profile, got %v", err)
	}
}

func TestCalculateLevothyroxine_EuthyroidShortCircuit(t *testing.T) {
	calc := NewCalculator(nil)

	result, err := calc.CalculateLevothyroxine(baseProfile(2.0, 70))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose != 0 {
		t.Errorf("Expected dose 0 for euthyroid patient, got %v", result.Dose)
	}
	if len(result.Alerts) != 1 || !strings.Contains(result.Alerts[0], "monitor") {
		t.Errorf("Expected a single monitoring alert, got %v", result.Alerts)
	}
	if result.MedicalConditionsSummary != "None" {
		t.Errorf("Expected conditions summary \"None\", got %q", result.MedicalConditionsSummary)
	}
}

func TestCalculateLevothyroxine_SevereBaseDose(t *testing.T) {
	calc := NewCalculator(nil)

	// 60 kg at the severe multiplier 1.6 = 96 mcg raw; the ladder bracket is
	// [87.5, 100] and 96 is closer to 100.
	result, err := calc.CalculateLevothyroxine(baseProfile(25, 60))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose != 100 {
		t.Errorf("Expected dose 100, got %v", result.Dose)
	}
	if result.Severity != entities.SeveritySevere {
		t.Errorf("Expected severe severity, got %q", result.Severity)
	}
	if result.NearestTablet == nil || *result.NearestTablet != 100 {
		t.Errorf("Expected nearest tablet 100, got %v", result.NearestTablet)
	}
}

func TestCalculateLevothyroxine_SeverityBrackets(t *testing.T) {
	calc := NewCalculator(nil)

	testCases := []struct {
		name         string
		tsh          float64
		weight       float64
		expectedDose float64
		severity     entities.Severity
	}{
		// 80 kg at 1.0 = 80 raw, lower-bias in [75, 87.5] keeps 75
		{"Mild bracket", 5, 80, 75, entities.SeverityMild},
		// 60 kg at 1.3 = 78 raw, lower-bias keeps 75
		{"Moderate bracket", 12, 60, 75, entities.SeverityModerate},
		// 60 kg at 1.6 = 96 raw, rounds up to 100
		{"Severe bracket", 25, 60, 100, entities.SeveritySevere},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := calc.CalculateLevothyroxine(baseProfile(tc.tsh, tc.weight))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Dose != tc.expectedDose {
				t.Errorf("Expected dose %v, got %v", tc.expectedDose, result.Dose)
			}
			if result.Severity != tc.severity {
				t.Errorf("Expected severity %q, got %q", tc.severity, result.Severity)
			}
		})
	}
}

func TestCalculateLevothyroxine_DiagnosisConsistencyNote(t *testing.T) {
	calc := NewCalculator(nil)

	profile := baseProfile(25, 60)
	profile.DiagnosedHypothyroid = false

	result, err := calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Alerts[0], "confirm the diagnosis") {
		t.Errorf("Expected a strong diagnosis alert for TSH > 10, got %v", result.Alerts[0])
	}
	// The note never changes the dose
	if result.Dose != 100 {
		t.Errorf("Expected dose 100 regardless of the diagnosis note, got %v", result.Dose)
	}

	profile = baseProfile(6, 60)
	profile.DiagnosedHypothyroid = false
	result, err = calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Alerts[0], "subclinical") {
		t.Errorf("Expected a subclinical note for TSH <= 10, got %v", result.Alerts[0])
	}
}

func TestCalculateLevothyroxine_LowHormonesCompound(t *testing.T) {
	calc := NewCalculator(nil)

	profile := baseProfile(25, 60)
	profile.FreeT4 = floatPtr(0.5)
	profile.FreeT3 = floatPtr(2.0)

	// 96 * 1.15 * 1.10 = 121.44 raw; [112.5, 125] bracket rounds up to 125.
	result, err := calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose != 125 {
		t.Errorf("Expected dose 125, got %v", result.Dose)
	}
	if result.NearestTablet == nil || *result.NearestTablet != 125 {
		t.Errorf("Expected nearest tablet 125, got %v", result.NearestTablet)
	}
}

func TestCalculateLevothyroxine_Pregnancy(t *testing.T) {
	calc := NewCalculator(nil)

	profile := baseProfile(12, 60)
	profile.IsPregnant = true
	profile.PregnancyTrimester = intPtr(1)

	// 78 * 1.5 = 117 raw; lower-bias in [112.5, 125] keeps 112.5.
	result, err := calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose != 112.5 {
		t.Errorf("Expected dose 112.5, got %v", result.Dose)
	}
	if result.NearestTablet == nil || *result.NearestTablet != 112 {
		t.Errorf("Expected nearest tablet 112, got %v", result.NearestTablet)
	}

	foundFactor := false
	foundTarget := false
	for _, alert := range result.Alerts {
		if strings.Contains(alert, "first trimester") {
			foundFactor = true
		}
		if strings.Contains(alert, "pregnancy target of 2.5") {
			foundTarget = true
		}
	}
	if !foundFactor {
		t.Error("Expected a first-trimester adjustment alert")
	}
	if !foundTarget {
		t.Error("Expected a target-TSH monitoring alert")
	}
}

func TestCalculateLevothyroxine_CardiacCapAndTitration(t *testing.T) {
	calc := NewCalculator(nil)

	profile := baseProfile(25, 100)
	profile.HeartDiseaseRisk = entities.HeartRiskHigh
	profile.CurrentDoseMcg = floatPtr(50)

	// 160 * 0.75 = 120, capped at the cardiac maximum 100, then the
	// conservative titration step limits the change to 50 + 12.5 = 62.5.
	result, err := calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose != 62.5 {
		t.Errorf("Expected dose 62.5, got %v", result.Dose)
	}

	foundCap := false
	foundTitration := false
	for _, alert := range result.Alerts {
		if strings.Contains(alert, "cardiac maximum") {
			foundCap = true
		}
		if strings.Contains(alert, "Titration limited") {
			foundTitration = true
		}
	}
	if !foundCap {
		t.Error("Expected a cardiac cap alert")
	}
	if !foundTitration {
		t.Error("Expected a titration limiting alert")
	}
}

func TestCalculateLevothyroxine_AdrenalInsufficiencyStop(t *testing.T) {
	calc := NewCalculator(nil)

	profile := baseProfile(50, 120)
	profile.HasAdrenalInsufficiency = true

	result, err := calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose != 0 {
		t.Errorf("Adrenal insufficiency must always yield dose 0, got %v", result.Dose)
	}
	if result.NearestTablet != nil {
		t.Errorf("Expected no tablet for a withheld dose, got %v", *result.NearestTablet)
	}
	found := false
	for _, alert := range result.Alerts {
		if strings.Contains(alert, "Adrenal insufficiency") {
			found = true
		}
	}
	if !found {
		t.Error("Expected an adrenal insufficiency alert")
	}
}

func TestCalculateLevothyroxine_ElderlyCap(t *testing.T) {
	calc := NewCalculator(nil)

	profile := baseProfile(30, 100)
	profile.Age = intPtr(70)

	result, err := calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose > 50 {
		t.Errorf("Elderly dose must never exceed 50 mcg, got %v", result.Dose)
	}
	if result.Dose != 50 {
		t.Errorf("Expected the elderly cap of 50, got %v", result.Dose)
	}
}

func TestCalculateLevothyroxine_ComorbidityChain(t *testing.T) {
	calc := NewCalculator(nil)

	testCases := []struct {
		name         string
		mutate       func(*entities.PatientProfile)
		expectedDose float64
	}{
		// 96 * 1.15 * 1.2 = 132.48, rounds up to 137.5
		{"GI issues and estrogen compound", func(p *entities.PatientProfile) {
			p.HasGIAbsorptionIssues = true
			p.OnEstrogenTherapy = true
		}, 137.5},
		// 96 * 0.9 = 86.4, closer to 87.5
		{"Cirrhosis reduces", func(p *entities.PatientProfile) {
			p.HasLiverDisease = true
			p.LiverDiseaseType = entities.LiverCirrhosis
		}, 87.5},
		// 96 * 0.85 = 81.6, just outside the lower-bias band, closer to 87.5
		{"ESRD reduces", func(p *entities.PatientProfile) {
			p.HasKidneyDisease = true
			p.KidneyDiseaseStage = entities.KidneyESRD
		}, 87.5},
		// Hepatitis logs but leaves 96 -> 100 unchanged
		{"Hepatitis logs only", func(p *entities.PatientProfile) {
			p.HasLiverDisease = true
			p.LiverDiseaseType = entities.LiverHepatitis
		}, 100},
		// Unspecified liver type gets the conservative 0.9
		{"Unspecified liver type", func(p *entities.PatientProfile) {
			p.HasLiverDisease = true
		}, 87.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			profile := baseProfile(25, 60)
			tc.mutate(profile)

			result, err := calc.CalculateLevothyroxine(profile)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Dose != tc.expectedDose {
				t.Errorf("Expected dose %v, got %v", tc.expectedDose, result.Dose)
			}
		})
	}
}

func TestCalculateLevothyroxine_LowBodyWeight(t *testing.T) {
	calc := NewCalculator(nil)

	// 40 kg at 1.6 = 64, then * 0.9 = 57.6, closer to 62.5
	result, err := calc.CalculateLevothyroxine(baseProfile(25, 40))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose != 62.5 {
		t.Errorf("Expected dose 62.5, got %v", result.Dose)
	}
}

func TestCalculateLevothyroxine_SymptomReduction(t *testing.T) {
	calc := NewCalculator(nil)

	testCases := []struct {
		name         string
		headache     bool
		anxiety      bool
		expectedDose float64
	}{
		// 78 - 12.5 = 65.5, lower-bias keeps 62.5
		{"One symptom", true, false, 62.5},
		// 78 - 25 = 53, lower-bias keeps 50
		{"Both symptoms", true, true, 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			profile := baseProfile(15, 60)
			profile.HasHeadache = tc.headache
			profile.HasAnxiety = tc.anxiety

			result, err := calc.CalculateLevothyroxine(profile)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Dose != tc.expectedDose {
				t.Errorf("Expected dose %v, got %v", tc.expectedDose, result.Dose)
			}
		})
	}
}

func TestCalculateLevothyroxine_SuppressedTSHSafety(t *testing.T) {
	calc := NewCalculator(nil)

	t.Run("No diagnosis fails hard", func(t *testing.T) {
		profile := baseProfile(0.05, 70)
		profile.DiagnosedHypothyroid = false

		if _, err := calc.CalculateLevothyroxine(profile); !errors.Is(err, ErrPossibleHyperthyroid) {
			t.Errorf("Expected ErrPossibleHyperthyroid, got %v", err)
		}
	})

	t.Run("Symptoms fail hard regardless of diagnosis", func(t *testing.T) {
		profile := baseProfile(0.05, 70)
		profile.HasHeadache = true

		if _, err := calc.CalculateLevothyroxine(profile); !errors.Is(err, ErrOverdoseSymptoms) {
			t.Errorf("Expected ErrOverdoseSymptoms, got %v", err)
		}
	})

	t.Run("Diagnosed without symptoms gets an over-treatment warning", func(t *testing.T) {
		result, err := calc.CalculateLevothyroxine(baseProfile(0.05, 70))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Dose != 0 {
			t.Errorf("Expected dose 0, got %v", result.Dose)
		}
		if len(result.Alerts) != 1 || !strings.Contains(result.Alerts[0], "over-treating") {
			t.Errorf("Expected an over-treatment warning, got %v", result.Alerts)
		}
	})
}

func TestCalculateLevothyroxine_MaxDoseClamp(t *testing.T) {
	calc := NewCalculator(nil)

	// 200 kg at 1.6 = 320, clamped to 300; above the ladder the clamped
	// dose is kept as-is and only the tablet is approximated.
	result, err := calc.CalculateLevothyroxine(baseProfile(30, 200))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Dose != 300 {
		t.Errorf("Expected dose clamped to 300, got %v", result.Dose)
	}
	if result.NearestTablet == nil || *result.NearestTablet != 200 {
		t.Errorf("Expected nearest tablet 200, got %v", result.NearestTablet)
	}
}

func TestCalculateLevothyroxine_Idempotent(t *testing.T) {
	calc := NewCalculator(nil)

	profile := baseProfile(25, 60)
	profile.FreeT4 = floatPtr(0.5)
	profile.IsPregnant = true
	profile.PregnancyTrimester = intPtr(2)

	first, err := calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := calc.CalculateLevothyroxine(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Identical profiles must yield identical results:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func BenchmarkCalculateLevothyroxine(b *testing.B) {
	calc := NewCalculator(nil)
	profile := baseProfile(25, 60)
	profile.FreeT4 = floatPtr(0.5)
	profile.HasGIAbsorptionIssues = true

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := calc.CalculateLevothyroxine(profile); err != nil {
			b.Fatal(err)
		}
	}
}
