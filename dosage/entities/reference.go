package entities

// Range is a hormone reference band in the unit of the measurement.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
	Unit string  `json:"unit"`
}

// HormoneRanges holds the reference bands for the full thyroid panel.
type HormoneRanges struct {
	TSH     Range `json:"tsh"`
	FreeT4  Range `json:"freeT4"`
	FreeT3  Range `json:"freeT3"`
	TotalT4 Range `json:"totalT4"`
	TotalT3 Range `json:"totalT3"`
}

// SeverityTable maps TSH brackets to weight-based dose multipliers (mcg/kg).
// MildTSH doubles as the euthyroid cutoff: below it no treatment is given.
type SeverityTable struct {
	MildTSH     float64 `json:"mildTSH"`     // 4.5
	ModerateTSH float64 `json:"moderateTSH"` // 10
	SevereTSH   float64 `json:"severeTSH"`   // 20

	MildMcgPerKg     float64 `json:"mildMcgPerKg"`
	ModerateMcgPerKg float64 `json:"moderateMcgPerKg"`
	SevereMcgPerKg   float64 `json:"severeMcgPerKg"`
}

// HormoneAdjustments holds the per-hormone percentage increases applied when
// a measurement sits below its reference band. Factors compound.
type HormoneAdjustments struct {
	FreeT4Percent  float64 `json:"freeT4Percent"`
	FreeT3Percent  float64 `json:"freeT3Percent"`
	TotalT4Percent float64 `json:"totalT4Percent"`
	TotalT3Percent float64 `json:"totalT3Percent"`
}

// PregnancyTable holds trimester factors and monitoring targets.
type PregnancyTable struct {
	FirstTrimesterFactor  float64 `json:"firstTrimesterFactor"`
	SecondTrimesterFactor float64 `json:"secondTrimesterFactor"`
	ThirdTrimesterFactor  float64 `json:"thirdTrimesterFactor"`
	DefaultFactor         float64 `json:"defaultFactor"` // conservative, trimester unknown

	FirstTrimesterTargetTSH float64 `json:"firstTrimesterTargetTSH"`
	LaterTrimesterTargetTSH float64 `json:"laterTrimesterTargetTSH"`
}

// SafetyLimits bounds every levothyroxine dose the engine can return.
type SafetyLimits struct {
	MinDoseMcg        float64 `json:"minDoseMcg"`
	MaxDoseMcg        float64 `json:"maxDoseMcg"`
	ElderlyMaxDoseMcg float64 `json:"elderlyMaxDoseMcg"`
	CardiacMaxDoseMcg float64 `json:"cardiacMaxDoseMcg"`

	MaxStepMcg          float64 `json:"maxStepMcg"`          // titration limit per calculation
	ConservativeStepMcg float64 `json:"conservativeStepMcg"` // high-risk cardiac or osteoporosis

	LowTSHThreshold float64 `json:"lowTSHThreshold"` // below this, dosing is unsafe
	ElderlyAge      int     `json:"elderlyAge"`
	LowWeightKg     float64 `json:"lowWeightKg"`
}

// MethimazoleTable holds the hyperthyroid dosing tiers.
type MethimazoleTable struct {
	SubclinicalDoseMg        float64 `json:"subclinicalDoseMg"`
	SubclinicalFollowUpWeeks int     `json:"subclinicalFollowUpWeeks"`
	UntreatedFollowUpWeeks   int     `json:"untreatedFollowUpWeeks"`

	AdultMildT3ElevatedMg   float64 `json:"adultMildT3ElevatedMg"`
	AdultMildMg             float64 `json:"adultMildMg"`
	AdultMildConservativeMg float64 `json:"adultMildConservativeMg"`

	AdultModerateMg       float64 `json:"adultModerateMg"`
	AdultModerateHighT3Mg float64 `json:"adultModerateHighT3Mg"`

	AdultSevereMg             float64 `json:"adultSevereMg"`
	AdultSevereConservativeMg float64 `json:"adultSevereConservativeMg"`

	PediatricMgPerKg          float64 `json:"pediatricMgPerKg"`
	PediatricMaxMg            float64 `json:"pediatricMaxMg"`
	PediatricSevereMgPerKg    float64 `json:"pediatricSevereMgPerKg"`
	PediatricSevereMaxMg      float64 `json:"pediatricSevereMaxMg"`

	MinDoseMg  float64 `json:"minDoseMg"`
	MaxDoseMg  float64 `json:"maxDoseMg"`
	RoundToMg  float64 `json:"roundToMg"`
	ElderlyAge int     `json:"elderlyAge"`

	// FT3/ULN ratios steering severity and dose selection
	T3SevereUpgradeRatio    float64 `json:"t3SevereUpgradeRatio"`    // moderate -> severe
	T3DisproportionateRatio float64 `json:"t3DisproportionateRatio"` // moderate 15 -> 20 mg
}

// ReferenceData is the full static lookup set the calculators are driven by.
// One immutable snapshot is handed to the engine per calculation; nothing in
// the engine mutates it.
type ReferenceData struct {
	Ranges      HormoneRanges      `json:"ranges"`
	Severity    SeverityTable      `json:"severity"`
	Adjustments HormoneAdjustments `json:"adjustments"`
	Pregnancy   PregnancyTable     `json:"pregnancy"`
	Limits      SafetyLimits       `json:"limits"`
	Methimazole MethimazoleTable   `json:"methimazole"`

	// SafeDoses is the fine-grained dispensable ladder, ascending.
	SafeDoses []float64 `json:"safeDoses"`
	// TabletSizes are commercially available levothyroxine tablets, ascending.
	TabletSizes []float64 `json:"tabletSizes"`
}

// DefaultReferenceData returns the built-in tables. Deployments can override
// them with a JSON reference file; the structure round-trips unchanged.
func DefaultReferenceData() *ReferenceData {
	return &ReferenceData{
		Ranges: HormoneRanges{
			TSH:     Range{Low: 0.4, High: 4.5, Unit: "mIU/L"},
			FreeT4:  Range{Low: 0.8, High: 1.8, Unit: "ng/dL"},
			FreeT3:  Range{Low: 2.3, High: 4.2, Unit: "pg/mL"},
			TotalT4: Range{Low: 5.0, High: 12.0, Unit: "ug/dL"},
			TotalT3: Range{Low: 80, High: 200, Unit: "ng/dL"},
		},
		Severity: SeverityTable{
			MildTSH:          4.5,
			ModerateTSH:      10,
			SevereTSH:        20,
			MildMcgPerKg:     1.0,
			ModerateMcgPerKg: 1.3,
			SevereMcgPerKg:   1.6,
		},
		Adjustments: HormoneAdjustments{
			FreeT4Percent:  0.15,
			FreeT3Percent:  0.10,
			TotalT4Percent: 0.10,
			TotalT3Percent: 0.05,
		},
		Pregnancy: PregnancyTable{
			FirstTrimesterFactor:    1.5,
			SecondTrimesterFactor:   1.4,
			ThirdTrimesterFactor:    1.3,
			DefaultFactor:           1.4,
			FirstTrimesterTargetTSH: 2.5,
			LaterTrimesterTargetTSH: 3.0,
		},
		Limits: SafetyLimits{
			MinDoseMcg:          25,
			MaxDoseMcg:          300,
			ElderlyMaxDoseMcg:   50,
			CardiacMaxDoseMcg:   100,
			MaxStepMcg:          25,
			ConservativeStepMcg: 12.5,
			LowTSHThreshold:     0.1,
			ElderlyAge:          60,
			LowWeightKg:         45,
		},
		Methimazole: MethimazoleTable{
			SubclinicalDoseMg:         5,
			SubclinicalFollowUpWeeks:  6,
			UntreatedFollowUpWeeks:    12,
			AdultMildT3ElevatedMg:     10,
			AdultMildMg:               7.5,
			AdultMildConservativeMg:   5,
			AdultModerateMg:           15,
			AdultModerateHighT3Mg:     20,
			AdultSevereMg:             35,
			AdultSevereConservativeMg: 20,
			PediatricMgPerKg:          0.35,
			PediatricMaxMg:            30,
			PediatricSevereMgPerKg:    0.7,
			PediatricSevereMaxMg:      40,
			MinDoseMg:                 5,
			MaxDoseMg:                 40,
			RoundToMg:                 5,
			ElderlyAge:                65,
			T3SevereUpgradeRatio:      1.8,
			T3DisproportionateRatio:   1.5,
		},
		SafeDoses: []float64{
			25, 37.5, 50, 62.5, 75, 87.5, 100, 112.5, 125, 137.5, 150, 162.5, 175, 187.5, 200,
		},
		TabletSizes: []float64{25, 50, 75, 88, 100, 112, 125, 137, 150, 175, 200},
	}
}
