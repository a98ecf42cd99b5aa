package risk

import (
	"cardiorisk/internal/validation"
)

// Input minimums enforced before scoring
const (
	MinCholesterol   = 100.0
	MinBloodPressure = 50.0
	MinHeightCM      = 50.0
	MinWeightKG      = 10.0
)

const (
	msgCholesterolMin   = "Cholesterol must be at least 100 mg/dL"
	msgBloodPressureMin = "Blood pressure must be at least 50 mmHg"
	msgHeightMin        = "Height must be at least 50 cm"
	msgWeightMin        = "Weight must be at least 10 kg"
	msgRequired         = "Please fill in all required fields"
)

// Assessment is a submitted risk form. Zero numeric values are treated
// as not provided. BMI may be given directly or derived from Height and
// Weight; when both are present the derived value wins.
type Assessment struct {
	FullName           string  `json:"full_name"`
	Age                float64 `json:"age"`
	Gender             string  `json:"gender"`
	Cholesterol        float64 `json:"cholesterol"`
	Systolic           float64 `json:"systolic"`
	Diastolic          float64 `json:"diastolic"`
	SmokingStatus      string  `json:"smoking_status"`
	AlcoholConsumption string  `json:"alcohol_consumption"`
	FamilyHistory      string  `json:"family_history"`
	Diabetes           string  `json:"diabetes"`
	ChestPainType      string  `json:"chest_pain_type"`
	Routine            string  `json:"routine"`
	Height             float64 `json:"height"`
	Weight             float64 `json:"weight"`
	BMI                float64 `json:"bmi"`
}

// ValidateAssessment runs the input gate and returns validation.Errors
// describing every failing field, or nil.
func ValidateAssessment(a Assessment) error {
	v := validation.New()

	minimum(v, "cholesterol", a.Cholesterol, MinCholesterol, msgCholesterolMin)
	minimum(v, "systolic", a.Systolic, MinBloodPressure, msgBloodPressureMin)
	minimum(v, "diastolic", a.Diastolic, MinBloodPressure, msgBloodPressureMin)

	v.Check(a.Age != 0, "age", msgRequired)

	if a.Height != 0 || a.Weight != 0 {
		ValidateBody(v, a.Height, a.Weight)
	} else {
		v.Check(a.BMI != 0, "bmi", msgRequired)
		v.Check(a.BMI >= 0, "bmi", "BMI must be positive")
	}

	v.OneOf("chest_pain_type", a.ChestPainType, ChestPainTypes()...)
	v.MaxLength("full_name", a.FullName, validation.MaxNameLength)

	return v.Err()
}

// ValidateBody checks the height and weight used to derive BMI.
func ValidateBody(v *validation.Validator, heightCM, weightKG float64) {
	minimum(v, "height", heightCM, MinHeightCM, msgHeightMin)
	minimum(v, "weight", weightKG, MinWeightKG, msgWeightMin)
}

// minimum reports a missing value as required and a present value below
// min with message.
func minimum(v *validation.Validator, field string, value, min float64, message string) {
	if value == 0 {
		v.AddError(field, msgRequired)
		return
	}
	v.Min(field, value, min, message)
}

// ResolveBMI returns the BMI to score with.
func (a Assessment) ResolveBMI() (float64, error) {
	if a.Height != 0 || a.Weight != 0 {
		return ComputeBMI(a.Height, a.Weight)
	}
	if a.BMI > 0 {
		return a.BMI, nil
	}
	return 0, ErrMissingBMI
}

// Factors converts a validated assessment into scorer input.
func (a Assessment) Factors() (RiskFactors, error) {
	bmi, err := a.ResolveBMI()
	if err != nil {
		return RiskFactors{}, err
	}
	return RiskFactors{
		Age:                a.Age,
		Gender:             a.Gender,
		Cholesterol:        a.Cholesterol,
		Systolic:           a.Systolic,
		Diastolic:          a.Diastolic,
		SmokingStatus:      a.SmokingStatus,
		AlcoholConsumption: a.AlcoholConsumption,
		FamilyHistory:      a.FamilyHistory,
		Diabetes:           a.Diabetes,
		BMI:                bmi,
	}, nil
}
