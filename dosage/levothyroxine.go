package dosage

import (
	"fmt"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// doseAdjustment is one multiplicative rule in the comorbidity chain. The
// rules are evaluated in a fixed clinical order and fold into the running
// dose, so a later percentage always applies to the value the earlier rules
// left behind.
type doseAdjustment struct {
	applies bool
	factor  float64
	note    string
}

// CalculateLevothyroxine runs the hypothyroid dosing chain.
//
// Hard failures: missing weight or TSH, a suppressed TSH without a
// hypothyroid diagnosis, or a suppressed TSH combined with overdose
// symptoms. These guards run before the euthyroid short-circuit, which
// would otherwise swallow every suppressed-TSH profile.
func (c *Calculator) CalculateLevothyroxine(p *entities.PatientProfile) (*entities.DosageResult, error) {
	if p == nil || p.WeightKg == nil {
		return nil, ErrWeightRequired
	}
	if p.CurrentTSH == nil {
		return nil, ErrTSHRequired
	}

	weight := *p.WeightKg
	tsh := *p.CurrentTSH
	limits := c.refs.Limits

	if tsh < limits.LowTSHThreshold {
		if p.HasHeadache || p.HasAnxiety {
			return nil, fmt.Errorf("TSH %.2f mIU/L: %w", tsh, ErrOverdoseSymptoms)
		}
		if !p.DiagnosedHypothyroid {
			return nil, fmt.Errorf("TSH %.2f mIU/L: %w", tsh, ErrPossibleHyperthyroid)
		}
	}

	result := &entities.DosageResult{Unit: "mcg", Alerts: []string{}}

	// Diagnosed patient with a suppressed TSH and no symptoms: the current
	// regimen is over-treating. No new dose is computed.
	if tsh < limits.LowTSHThreshold {
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"TSH %.2f mIU/L is suppressed: the current regimen is likely over-treating, reduce the dose and recheck in 6 weeks", tsh))
		result.MedicalConditionsSummary = c.SummarizeConditions(p)
		return result, nil
	}

	// Euthyroid short-circuit
	if tsh < c.refs.Severity.MildTSH {
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"TSH %.2f mIU/L is within the reference range: no levothyroxine indicated, monitor and recheck in 6-12 months", tsh))
		result.MedicalConditionsSummary = c.SummarizeConditions(p)
		return result, nil
	}

	// Diagnosis-consistency note, informational only
	if !p.DiagnosedHypothyroid {
		if tsh > c.refs.Severity.ModerateTSH {
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"TSH %.2f mIU/L strongly suggests overt hypothyroidism but no diagnosis is on file: confirm the diagnosis before starting therapy", tsh))
		} else {
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"No confirmed hypothyroid diagnosis on file: TSH %.2f mIU/L is consistent with subclinical hypothyroidism", tsh))
		}
	}

	// Severity-based base dose
	var mcgPerKg float64
	switch {
	case tsh >= c.refs.Severity.SevereTSH:
		result.Severity = entities.SeveritySevere
		mcgPerKg = c.refs.Severity.SevereMcgPerKg
	case tsh >= c.refs.Severity.ModerateTSH:
		result.Severity = entities.SeverityModerate
		mcgPerKg = c.refs.Severity.ModerateMcgPerKg
	case tsh >= c.refs.Severity.MildTSH:
		result.Severity = entities.SeverityMild
		mcgPerKg = c.refs.Severity.MildMcgPerKg
	default:
		result.MedicalConditionsSummary = c.SummarizeConditions(p)
		return result, nil
	}

	dose := weight * mcgPerKg
	result.Alerts = append(result.Alerts, fmt.Sprintf(
		"Base dose %.1f mcg: %.1f kg at %.2f mcg/kg for %s hypothyroidism (TSH %.2f mIU/L)",
		dose, weight, mcgPerKg, result.Severity, tsh))

	// Hormone adjustment: each low hormone compounds its own factor
	factor, hormoneAlerts := c.EvaluateHormoneAdjustments(p)
	dose *= factor
	result.Alerts = append(result.Alerts, hormoneAlerts...)

	// Pregnancy
	if p.IsPregnant {
		pregnancyFactor := c.refs.Pregnancy.DefaultFactor
		trimesterLabel := "unspecified trimester"
		targetTSH := c.refs.Pregnancy.LaterTrimesterTargetTSH

		if p.PregnancyTrimester != nil {
			switch *p.PregnancyTrimester {
			case 1:
				pregnancyFactor = c.refs.Pregnancy.FirstTrimesterFactor
				trimesterLabel = "first trimester"
				targetTSH = c.refs.Pregnancy.FirstTrimesterTargetTSH
			case 2:
				pregnancyFactor = c.refs.Pregnancy.SecondTrimesterFactor
				trimesterLabel = "second trimester"
			case 3:
				pregnancyFactor = c.refs.Pregnancy.ThirdTrimesterFactor
				trimesterLabel = "third trimester"
			}
		}

		dose *= pregnancyFactor
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"Pregnancy (%s): increasing dose by %.0f%%", trimesterLabel, (pregnancyFactor-1)*100))

		if tsh > targetTSH {
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"TSH %.2f mIU/L is above the pregnancy target of %.1f: recheck every 4 weeks until the target is reached", tsh, targetTSH))
		}
	}

	// Cardiac adjustment
	switch p.HeartDiseaseRisk {
	case entities.HeartRiskHigh:
		dose *= 0.75
		result.Alerts = append(result.Alerts,
			"High-risk heart disease: reducing dose by 25% and starting low to avoid precipitating ischemia")
		if dose > limits.CardiacMaxDoseMcg {
			dose = limits.CardiacMaxDoseMcg
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"Dose capped at the cardiac maximum of %.0f mcg", limits.CardiacMaxDoseMcg))
		}
		if p.HasAnxiety {
			result.Alerts = append(result.Alerts,
				"High-risk heart disease with anxiety/restlessness: urgent clinical evaluation recommended before dose changes")
		}
	case entities.HeartRiskLow:
		dose *= 0.9
		result.Alerts = append(result.Alerts,
			"Low-risk heart disease: reducing dose by 10%")
	}

	// Adrenal insufficiency: critical stop, must be treated first
	if p.HasAdrenalInsufficiency {
		result.Dose = 0
		result.Alerts = append(result.Alerts,
			"Adrenal insufficiency must be treated before starting levothyroxine: withholding dose to avoid precipitating adrenal crisis")
		result.MedicalConditionsSummary = c.SummarizeConditions(p)
		return result, nil
	}

	// Remaining comorbidity chain, folded in clinical order
	adjustments := []doseAdjustment{
		{p.HasOsteoporosis, 0.9,
			"Osteoporosis: reducing dose by 10% and targeting a mid-range TSH to limit bone loss"},
		{p.OnEstrogenTherapy, 1.15,
			"Estrogen therapy raises binding globulin: increasing dose by 15%"},
		{p.HasGIAbsorptionIssues, 1.2,
			"GI absorption issues: increasing dose by 20% to compensate for reduced uptake"},
	}
	if p.HasLiverDisease {
		adjustments = append(adjustments, liverAdjustment(p.LiverDiseaseType))
	}
	if p.HasKidneyDisease {
		adjustments = append(adjustments, kidneyAdjustment(p.KidneyDiseaseStage))
	}
	adjustments = append(adjustments, doseAdjustment{
		applies: weight < limits.LowWeightKg,
		factor:  0.9,
		note: fmt.Sprintf(
			"Body weight %.1f kg is below %.0f kg: reducing dose by 10%%", weight, limits.LowWeightKg),
	})

	for _, adj := range adjustments {
		if !adj.applies {
			continue
		}
		dose *= adj.factor
		result.Alerts = append(result.Alerts, adj.note)
	}

	// Elderly cap: a hard ceiling, not a multiplier
	if p.Age != nil && *p.Age >= limits.ElderlyAge && dose > limits.ElderlyMaxDoseMcg {
		dose = limits.ElderlyMaxDoseMcg
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"Age %d: dose capped at the elderly maximum of %.0f mcg", *p.Age, limits.ElderlyMaxDoseMcg))
	}

	// Titration limiting: bound the change from the known current dose
	if p.CurrentDoseMcg != nil {
		step := limits.MaxStepMcg
		if p.HeartDiseaseRisk == entities.HeartRiskHigh || p.HasOsteoporosis {
			step = limits.ConservativeStepMcg
		}
		current := *p.CurrentDoseMcg
		switch {
		case dose > current+step:
			dose = current + step
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"Titration limited: increasing by at most %.1f mcg from the current %.1f mcg dose", step, current))
		case dose < current-step:
			dose = current - step
			result.Alerts = append(result.Alerts, fmt.Sprintf(
				"Titration limited: decreasing by at most %.1f mcg from the current %.1f mcg dose", step, current))
		}
	}

	// Symptom-based reduction
	symptomCount := 0
	if p.HasHeadache {
		symptomCount++
	}
	if p.HasAnxiety {
		symptomCount++
	}
	if symptomCount > 0 {
		reduction := 12.5 * float64(symptomCount)
		dose -= reduction
		if dose < limits.MinDoseMcg {
			dose = limits.MinDoseMcg
		}
		result.Alerts = append(result.Alerts, fmt.Sprintf(
			"Possible over-replacement symptoms present (%d): reducing dose by %.1f mcg", symptomCount, reduction))
	}

	// Final clamp and rounding
	dose = clamp(dose, limits.MinDoseMcg, limits.MaxDoseMcg)

	final := dose
	if ladderMax := c.refs.SafeDoses[len(c.refs.SafeDoses)-1]; dose <= ladderMax {
		rounded, err := c.NearestSafeDose(dose)
		if err != nil {
			return nil, fmt.Errorf("rounding dose: %w", err)
		}
		final = rounded
	}

	tablet, err := c.NearestTablet(dose)
	if err != nil {
		return nil, fmt.Errorf("finding nearest tablet: %w", err)
	}

	result.Dose = final
	result.NearestTablet = &tablet
	result.MedicalConditionsSummary = c.SummarizeConditions(p)

	return result, nil
}

// liverAdjustment maps the liver disease subtype to its dose rule. The
// subtypes are mutually exclusive; an unspecified subtype gets the
// conservative default.
func liverAdjustment(t entities.LiverDiseaseType) doseAdjustment {
	switch t {
	case entities.LiverCirrhosis:
		return doseAdjustment{true, 0.9, "Cirrhosis: reducing dose by 10% due to altered hormone metabolism"}
	case entities.LiverCholestatic:
		return doseAdjustment{true, 1.15, "Cholestatic liver disease: increasing dose by 15% due to impaired absorption"}
	case entities.LiverNAFLD:
		return doseAdjustment{true, 1.1, "NAFLD: increasing dose by 10%"}
	case entities.LiverHepatitis:
		return doseAdjustment{true, 1.0, "Hepatitis: no dose change, monitor liver function alongside thyroid panel"}
	case entities.LiverPostTransplant:
		return doseAdjustment{true, 1.0, "Post liver transplant: no dose change, watch for immunosuppressant interactions"}
	default:
		return doseAdjustment{true, 0.9, "Liver disease of unspecified type: reducing dose by 10% as a conservative default"}
	}
}

// kidneyAdjustment maps the kidney disease stage to its dose rule. The
// stages are mutually exclusive; an unspecified stage gets the conservative
// default.
func kidneyAdjustment(s entities.KidneyDiseaseStage) doseAdjustment {
	switch s {
	case entities.KidneyStage4, entities.KidneyStage5, entities.KidneyESRD:
		return doseAdjustment{true, 0.85, "Advanced kidney disease (stage 4-5/ESRD): reducing dose by 15%"}
	case entities.KidneyStage3:
		return doseAdjustment{true, 0.9, "Kidney disease stage 3: reducing dose by 10%"}
	case entities.KidneyStage1, entities.KidneyStage2:
		return doseAdjustment{true, 1.0, "Early kidney disease (stage 1-2): no dose change, monitor renal function"}
	case entities.KidneyPostTransplant:
		return doseAdjustment{true, 1.0, "Post kidney transplant: no dose change, watch for immunosuppressant interactions"}
	default:
		return doseAdjustment{true, 0.9, "Kidney disease of unspecified stage: reducing dose by 10% as a conservative default"}
	}
}
