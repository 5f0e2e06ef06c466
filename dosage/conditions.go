package dosage

import (
	"fmt"
	"strings"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// SummarizeConditions maps the comorbidity flags on a profile to a single
// comma-joined descriptive string, or "None" when no condition is present.
func (c *Calculator) SummarizeConditions(p *entities.PatientProfile) string {
	var labels []string

	if p.IsPregnant {
		if p.PregnancyTrimester != nil {
			labels = append(labels, fmt.Sprintf("Pregnancy (trimester %d)", *p.PregnancyTrimester))
		} else {
			labels = append(labels, "Pregnancy")
		}
	}

	switch p.HeartDiseaseRisk {
	case entities.HeartRiskHigh:
		labels = append(labels, "High-risk heart disease")
	case entities.HeartRiskLow:
		labels = append(labels, "Low-risk heart disease")
	}

	if p.HasLiverDisease {
		if p.LiverDiseaseType != entities.LiverUnspecified {
			labels = append(labels, fmt.Sprintf("Liver disease (%s)", p.LiverDiseaseType))
		} else {
			labels = append(labels, "Liver disease (unspecified)")
		}
	}

	if p.HasKidneyDisease {
		if p.KidneyDiseaseStage != entities.KidneyUnspecified {
			labels = append(labels, fmt.Sprintf("Kidney disease (%s)", p.KidneyDiseaseStage))
		} else {
			labels = append(labels, "Kidney disease (unspecified)")
		}
	}

	if p.HasOsteoporosis {
		labels = append(labels, "Osteoporosis")
	}
	if p.HasAdrenalInsufficiency {
		labels = append(labels, "Adrenal insufficiency")
	}
	if p.HasGIAbsorptionIssues {
		labels = append(labels, "GI absorption issues")
	}
	if p.OnEstrogenTherapy {
		labels = append(labels, "Estrogen therapy")
	}
	if p.Age != nil && *p.Age >= c.refs.Limits.ElderlyAge {
		labels = append(labels, fmt.Sprintf("Elderly (age %d)", *p.Age))
	}
	if p.WeightKg != nil && *p.WeightKg < c.refs.Limits.LowWeightKg {
		labels = append(labels, fmt.Sprintf("Low body weight (%.1f kg)", *p.WeightKg))
	}

	if len(labels) == 0 {
		return "None"
	}
	return strings.Join(labels, ", ")
}
