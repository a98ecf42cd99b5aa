package risk

// Smoking statuses
const (
	SmokingNever   = "never"
	SmokingFormer  = "former"
	SmokingCurrent = "current"
)

// Alcohol consumption levels
const (
	AlcoholNone       = "none"
	AlcoholOccasional = "occasional"
	AlcoholModerate   = "moderate"
	AlcoholHeavy      = "heavy"
)

// Genders
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Yes/no answers for family history and diabetes
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// Factor names used in contributions
const (
	FactorAge           = "age"
	FactorCholesterol   = "cholesterol"
	FactorBloodPressure = "blood_pressure"
	FactorSmoking       = "smoking"
	FactorAlcohol       = "alcohol"
	FactorFamilyHistory = "family_history"
	FactorDiabetes      = "diabetes"
	FactorBMI           = "bmi"
)

// RiskFactors is the already-validated input to Compute.
type RiskFactors struct {
	Age                float64
	Gender             string
	Cholesterol        float64
	Systolic           float64
	Diastolic          float64
	SmokingStatus      string
	AlcoholConsumption string
	FamilyHistory      string
	Diabetes           string
	BMI                float64
}

// Contribution is the amount a single factor added to the raw score.
type Contribution struct {
	Factor string  `json:"factor"`
	Amount float64 `json:"amount"`
}
