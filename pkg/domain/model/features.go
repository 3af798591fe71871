package model

// Reference dataset column names, in feature order
const (
	ColumnAge                 = "Age"
	ColumnFamilyHistory       = "Family History of OCD"
	ColumnDurationMonths      = "Duration of Symptoms (months)"
	ColumnDepressionDiagnosis = "Depression Diagnosis"
	ColumnAnxietyDiagnosis    = "Anxiety Diagnosis"
)

// FeatureCount is the arity of ScreeningFeatures
const FeatureCount = 5

// Feature positions within ScreeningFeatures
const (
	FeatureAge = iota
	FeatureFamilyHistory
	FeatureDurationMonths
	FeatureDepressionDiagnosis
	FeatureAnxietyDiagnosis
)

// FeatureColumns lists the dataset columns in the order the encoder emits
// them. Training and inference must both use this order.
var FeatureColumns = [FeatureCount]string{
	ColumnAge,
	ColumnFamilyHistory,
	ColumnDurationMonths,
	ColumnDepressionDiagnosis,
	ColumnAnxietyDiagnosis,
}

// ScreeningFeatures is the encoded feature vector of one subject
type ScreeningFeatures [FeatureCount]float64

// Age returns the age feature
func (f ScreeningFeatures) Age() float64 { return f[FeatureAge] }

// DurationMonths returns the symptom duration feature
func (f ScreeningFeatures) DurationMonths() float64 { return f[FeatureDurationMonths] }

// DemographicInput is the raw demographic form as submitted
type DemographicInput struct {
	Age                 string   `json:"age"`
	FamilyHistory       string   `json:"history"`
	DurationMonths      string   `json:"duration"`
	DepressionDiagnosis string   `json:"depression"`
	AnxietyDiagnosis    string   `json:"anxiety"`
	Subtypes            []string `json:"subtypes,omitempty"`
}
