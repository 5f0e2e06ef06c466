package dosage

import (
	"fmt"

	"github.com/giygas/thyroid-dosage-api/dosage/entities"
)

// EvaluateHormoneAdjustments inspects the four hormone measurements and
// returns a multiplicative correction factor plus one alert per hormone
// found below its reference band. The four checks are independent and
// compound: two low hormones multiply both factors into the result.
//
// Evaluation order is fixed: free T4, free T3, total T4, total T3.
func (c *Calculator) EvaluateHormoneAdjustments(p *entities.PatientProfile) (float64, []string) {
	checks := []struct {
		name    string
		value   *float64
		band    entities.Range
		percent float64
	}{
		{"Free T4", p.FreeT4, c.refs.Ranges.FreeT4, c.refs.Adjustments.FreeT4Percent},
		{"Free T3", p.FreeT3, c.refs.Ranges.FreeT3, c.refs.Adjustments.FreeT3Percent},
		{"Total T4", p.TotalT4, c.refs.Ranges.TotalT4, c.refs.Adjustments.TotalT4Percent},
		{"Total T3", p.TotalT3, c.refs.Ranges.TotalT3, c.refs.Adjustments.TotalT3Percent},
	}

	factor := 1.0
	var alerts []string

	for _, check := range checks {
		if check.value == nil || *check.value >= check.band.Low {
			continue
		}
		factor *= 1 + check.percent
		alerts = append(alerts, fmt.Sprintf(
			"%s %.2f %s is below the reference range %.2f-%.2f: increasing dose by %.0f%%",
			check.name, *check.value, check.band.Unit, check.band.Low, check.band.High, check.percent*100))
	}

	return factor, alerts
}
