package dosage

import (
	"fmt"
	"math"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// Titration guidance is appended to every methimazole result regardless of
// the path taken, because TSH stays suppressed for months after free
// hormones normalize.
const methimazoleTitrationNote = "Recheck free T4 and free T3 in 4-6 weeks to guide titration; do not titrate on TSH alone, it can remain suppressed for months after the hormones normalize"

// CalculateMethimazole runs the hyperthyroid dosing chain. It requires a
// TSH measurement; an incomplete hormone pair is a soft "needs more data"
// result, not an error, because the caller can prompt for the missing
// fields and retry.
func (c *Calculator) CalculateMethimazole(p *entities.PatientProfile) (*entities.DosageResult, error) {
	if p == nil || p.CurrentTSH == nil {
		return nil, ErrTSHRequired
	}

	tsh := *p.CurrentTSH
	table := c.refs.Methimazole
	result := &entities.DosageResult{Unit: "mg", Alerts: []string{}}

	// Treatment is only indicated for a suppressed TSH
	if tsh > c.refs.Limits.LowTSHThreshold {
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"TSH %.2f mIU/L is not suppressed: antithyroid therapy is not indicated, reevaluate if symptoms persist", tsh))
		return c.finishMethimazole(result), nil
	}

	// Hormone basis: prefer the free pair, fall back to the total pair
	var t4Value, t3Value float64
	var t4Band, t3Band entities.Range
	switch {
	case p.FreeT4 != nil && p.FreeT3 != nil:
		t4Value, t4Band = *p.FreeT4, c.refs.Ranges.FreeT4
		t3Value, t3Band = *p.FreeT3, c.refs.Ranges.FreeT3
	case p.TotalT4 != nil && p.TotalT3 != nil:
		t4Value, t4Band = *p.TotalT4, c.refs.Ranges.TotalT4
		t3Value, t3Band = *p.TotalT3, c.refs.Ranges.TotalT3
	default:
		result.RequiresHormoneData = true
		result.MissingHormoneFields = missingHormoneFields(p)
		result.Alerts = append(result.Alerts,
			"TSH is suppressed but the hormone panel is incomplete: a full free or total T3/T4 pair is required before dosing")
		return c.finishMethimazole(result), nil
	}

	t4High := t4Value > t4Band.High
	t3High := t3Value > t3Band.High
	elderlyOrCardiac := (p.Age != nil && *p.Age >= table.ElderlyAge) ||
		p.HeartDiseaseRisk != entities.HeartRiskNone

	// Subclinical path: suppressed TSH with normal hormones
	if !t4High && !t3High {
		if elderlyOrCardiac || p.HasOsteoporosis {
			result.Dose = table.SubclinicalDoseMg
			result.Severity = entities.SeverityMild
			result.FollowUpWeeks = table.SubclinicalFollowUpWeeks
			result.Alerts = append(result.Alerts,
				"Subclinical hyperthyroidism with elevated cardiovascular or skeletal risk: starting low-dose methimazole")
		} else {
			result.FollowUpWeeks = table.UntreatedFollowUpWeeks
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"Subclinical hyperthyroidism without risk factors: no treatment, repeat the panel in %d weeks", table.UntreatedFollowUpWeeks))
		}
		return c.finishMethimazole(result), nil
	}

	// Overt path: severity from the T4 distance above its upper limit
	t4Ratio := t4Value / t4Band.High
	t3Ratio := t3Value / t3Band.High

	var severity entities.Severity
	switch {
	case t4Ratio > 3.0:
		severity = entities.SeveritySevere
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"T4 %.2f %s is more than three times its upper limit: refer to endocrinology for specialist management",
			t4Value, t4Band.Unit))
	case t4Ratio >= 2.0:
		severity = entities.SeveritySevere
	case t4Ratio > 1.9 && t3Ratio > table.T3SevereUpgradeRatio:
		severity = entities.SeveritySevere
		result.Alerts = append(result.Alerts,
			"Borderline-severe T4 with a very high T3: upgrading severity to severe")
	case t4Ratio >= 1.5:
		severity = entities.SeverityModerate
	case t4Ratio >= 1.0:
		severity = entities.SeverityMild
	default:
		// T4 within range but T3 elevated: T3-toxicosis pattern
		severity = entities.SeverityMild
		result.Alerts = append(result.Alerts,
			"Isolated T3 elevation with a normal T4 (T3-toxicosis pattern): dosing as mild disease")
	}
	result.Severity = severity

	// Dose selection
	pediatric := p.Age != nil && *p.Age >= 1 && *p.Age <= 17 && p.WeightKg != nil

	var dose float64
	if pediatric {
		weight := *p.WeightKg
		if severity == entities.SeveritySevere {
			dose = math.Min(weight*table.PediatricSevereMgPerKg, table.PediatricSevereMaxMg)
		} else {
			dose = math.Min(weight*table.PediatricMgPerKg, table.PediatricMaxMg)
		}
		// Only the weight-based dose needs rounding to the dispensable 5 mg
		// increment; the adult tiers are dispensable values already
		dose = math.Round(dose/table.RoundToMg) * table.RoundToMg
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"Pediatric weight-based dosing: %.1f kg at %s severity", weight, severity))
	} else {
		switch severity {
		case entities.SeverityMild:
			if elderlyOrCardiac {
				dose = table.AdultMildConservativeMg
			} else if t3High {
				dose = table.AdultMildT3ElevatedMg
			} else {
				dose = table.AdultMildMg
			}
		case entities.SeverityModerate:
			if t3Ratio > table.T3DisproportionateRatio {
				dose = table.AdultModerateHighT3Mg
			} else {
				dose = table.AdultModerateMg
			}
		case entities.SeveritySevere:
			if elderlyOrCardiac {
				dose = table.AdultSevereConservativeMg
				result.Alerts = append(result.Alerts,
					"Severe hyperthyroidism with age or cardiac risk: conservative dosing, add beta-blockade and titrate cautiously")
			} else {
				dose = table.AdultSevereMg
				result.Alerts = append(result.Alerts,
					"Severe hyperthyroidism: high-dose methimazole under specialist supervision")
			}
		}
	}

	// Follow-up interval
	switch {
	case severity == entities.SeveritySevere && !elderlyOrCardiac:
		result.FollowUpWeeks = 2
	case severity == entities.SeveritySevere:
		result.FollowUpWeeks = 6
	default:
		result.FollowUpWeeks = 4
	}

	result.Dose = clamp(dose, table.MinDoseMg, table.MaxDoseMg)

	return c.finishMethimazole(result), nil
}

// finishMethimazole appends the unconditional titration guidance.
func (c *Calculator) finishMethimazole(result *entities.DosageResult) *entities.DosageResult {
	result.Alerts = append(result.Alerts, methimazoleTitrationNote)
	return result
}

// missingHormoneFields enumerates the absent measurements that block
// hyperthyroid dosing, in a stable order.
func missingHormoneFields(p *entities.PatientProfile) []string {
	var missing []string
	if p.FreeT3 == nil {
		missing = append(missing, "freeT3")
	}
	if p.FreeT4 == nil {
		missing = append(missing, "freeT4")
	}
	if p.TotalT3 == nil {
		missing = append(missing, "totalT3")
	}
	if p.TotalT4 == nil {
		missing = append(missing, "totalT4")
	}
	return missing
}
