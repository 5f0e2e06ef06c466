package dosage

import "math"

// Tie-break constants for the safe-dose ladder. Within lowerBiasMcg of the
// lower bracket value the lower dose wins (conservative bias), unless the
// upper value is within upperSnapMcg, e.g. 99 -> 100.
const (
	safeDoseLowerBiasMcg = 6.25
	safeDoseUpperSnapMcg = 1.0
)

// NearestSafeDose maps a raw dose to the closest value on the fine-grained
// dispensable ladder (12.5 mcg steps between 25 and 200). Input is clamped
// to the ladder bounds first.
func (c *Calculator) NearestSafeDose(dose float64) (float64, error) {
	if math.IsNaN(dose) || math.IsInf(dose, 0) {
		return 0, ErrInvalidDose
	}

	ladder := c.refs.SafeDoses
	if dose <= ladder[0] {
		return ladder[0], nil
	}
	if dose >= ladder[len(ladder)-1] {
		return ladder[len(ladder)-1], nil
	}

	for i := 0; i < len(ladder)-1; i++ {
		lower, upper := ladder[i], ladder[i+1]
		if dose < lower || dose > upper {
			continue
		}
		if upper-dose <= safeDoseUpperSnapMcg {
			return upper, nil
		}
		if dose-lower <= safeDoseLowerBiasMcg {
			return lower, nil
		}
		if upper-dose < dose-lower {
			return upper, nil
		}
		return lower, nil
	}

	return ladder[len(ladder)-1], nil
}

// NearestTablet finds the closest commercially available tablet size by
// linear scan. On an exact tie the lower size wins because the list is
// ascending and the first minimum is kept. Input is clamped to the tablet
// bounds first.
func (c *Calculator) NearestTablet(dose float64) (float64, error) {
	if math.IsNaN(dose) || math.IsInf(dose, 0) {
		return 0, ErrInvalidDose
	}

	tablets := c.refs.TabletSizes
	if dose < tablets[0] {
		dose = tablets[0]
	}
	if dose > tablets[len(tablets)-1] {
		dose = tablets[len(tablets)-1]
	}

	best := tablets[0]
	bestDiff := math.Abs(tablets[0] - dose)
	for _, t := range tablets[1:] {
		if diff := math.Abs(t - dose); diff < bestDiff {
			best = t
			bestDiff = diff
		}
	}

	return best, nil
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
