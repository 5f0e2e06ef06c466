// Package entities defines the data model shared by the dosage engine and
// the HTTP layer: patient profiles, dosage results and the static reference
// tables the calculators are driven by.
package entities

// HeartDiseaseRisk classifies cardiac comorbidity for dose adjustment.
type HeartDiseaseRisk string

const (
	HeartRiskNone HeartDiseaseRisk = ""
	HeartRiskLow  HeartDiseaseRisk = "low"
	HeartRiskHigh HeartDiseaseRisk = "high"
)

// LiverDiseaseType identifies the liver comorbidity subtype. An empty value
// on a patient with liver disease means the subtype is unspecified and the
// conservative default adjustment applies.
type LiverDiseaseType string

const (
	LiverUnspecified    LiverDiseaseType = ""
	LiverCirrhosis      LiverDiseaseType = "cirrhosis"
	LiverCholestatic    LiverDiseaseType = "cholestatic"
	LiverNAFLD          LiverDiseaseType = "nafld"
	LiverHepatitis      LiverDiseaseType = "hepatitis"
	LiverPostTransplant LiverDiseaseType = "post-transplant"
	LiverOther          LiverDiseaseType = "other"
)

// KidneyDiseaseStage identifies the kidney comorbidity stage. An empty value
// on a patient with kidney disease means the stage is unspecified and the
// conservative default adjustment applies.
type KidneyDiseaseStage string

const (
	KidneyUnspecified    KidneyDiseaseStage = ""
	KidneyStage1         KidneyDiseaseStage = "stage-1"
	KidneyStage2         KidneyDiseaseStage = "stage-2"
	KidneyStage3         KidneyDiseaseStage = "stage-3"
	KidneyStage4         KidneyDiseaseStage = "stage-4"
	KidneyStage5         KidneyDiseaseStage = "stage-5"
	KidneyESRD           KidneyDiseaseStage = "esrd"
	KidneyPostTransplant KidneyDiseaseStage = "post-transplant"
	KidneyOther          KidneyDiseaseStage = "other"
)

// PatientProfile is the immutable input snapshot for one calculation call.
// Optional measurements are pointers so "absent" and "zero" stay distinct.
type PatientProfile struct {
	// Demographics
	Age      *int     `json:"age,omitempty"`
	WeightKg *float64 `json:"weightKg,omitempty"`
	Gender   string   `json:"gender,omitempty"` // informational only

	// Hormone panel. TSH in mIU/L, free T4 in ng/dL, free T3 in pg/mL,
	// total T4 in ug/dL, total T3 in ng/dL.
	CurrentTSH *float64 `json:"currentTSH,omitempty"`
	FreeT4     *float64 `json:"freeT4,omitempty"`
	FreeT3     *float64 `json:"freeT3,omitempty"`
	TotalT4    *float64 `json:"totalT4,omitempty"`
	TotalT3    *float64 `json:"totalT3,omitempty"`

	// Current therapy state
	CurrentDoseMcg       *float64 `json:"currentDoseMcg,omitempty"`
	DiagnosedHypothyroid bool     `json:"diagnosedHypothyroid"`

	// Comorbidities
	IsPregnant              bool               `json:"isPregnant"`
	PregnancyTrimester      *int               `json:"pregnancyTrimester,omitempty"` // 1, 2 or 3
	HeartDiseaseRisk        HeartDiseaseRisk   `json:"heartDiseaseRisk,omitempty"`
	HasOsteoporosis         bool               `json:"hasOsteoporosis"`
	HasAdrenalInsufficiency bool               `json:"hasAdrenalInsufficiency"`
	HasGIAbsorptionIssues   bool               `json:"hasGIAbsorptionIssues"`
	OnEstrogenTherapy       bool               `json:"onEstrogenTherapy"`
	HasLiverDisease         bool               `json:"hasLiverDisease"`
	LiverDiseaseType        LiverDiseaseType   `json:"liverDiseaseType,omitempty"`
	HasKidneyDisease        bool               `json:"hasKidneyDisease"`
	KidneyDiseaseStage      KidneyDiseaseStage `json:"kidneyDiseaseStage,omitempty"`

	// Symptom flags (possible over-replacement indicators)
	HasHeadache bool `json:"hasHeadache"`
	HasAnxiety  bool `json:"hasAnxiety"`
}
