package risk

import "math"

// Weights and thresholds
const (
	ageWeight = 20.0

	cholesterolThreshold = 200.0
	cholesterolPoints    = 15.0

	systolicThreshold     = 140.0
	diastolicThreshold    = 90.0
	bloodPressurePoints   = 15.0
	currentSmokerPoints   = 20.0
	formerSmokerPoints    = 10.0
	heavyAlcoholPoints    = 15.0
	moderateAlcoholPoints = 8.0
	familyHistoryPoints   = 15.0
	diabetesPoints        = 15.0

	obeseBMIThreshold      = 30.0
	overweightBMIThreshold = 25.0
	obeseBMIPoints         = 10.0
	overweightBMIPoints    = 5.0

	MinScore = 0.0
	MaxScore = 100.0
)

// Compute returns the clamped risk score for f.
func Compute(f RiskFactors) float64 {
	var score float64
	for _, c := range Breakdown(f) {
		score += c.Amount
	}
	return clamp(score, MinScore, MaxScore)
}

// Breakdown returns every factor's contribution to the raw, unclamped
// score, in a fixed order. Factors that add nothing are included with a
// zero amount.
func Breakdown(f RiskFactors) []Contribution {
	return []Contribution{
		{Factor: FactorAge, Amount: (f.Age / 100) * ageWeight},
		{Factor: FactorCholesterol, Amount: cholesterolContribution(f.Cholesterol)},
		{Factor: FactorBloodPressure, Amount: bloodPressureContribution(f.Systolic, f.Diastolic)},
		{Factor: FactorSmoking, Amount: smokingContribution(f.SmokingStatus)},
		{Factor: FactorAlcohol, Amount: alcoholContribution(f.AlcoholConsumption)},
		{Factor: FactorFamilyHistory, Amount: yesContribution(f.FamilyHistory, familyHistoryPoints)},
		{Factor: FactorDiabetes, Amount: yesContribution(f.Diabetes, diabetesPoints)},
		{Factor: FactorBMI, Amount: bmiContribution(f.BMI)},
	}
}

// Contributors returns the names of the factors that added to the score.
func Contributors(f RiskFactors) []string {
	names := make([]string, 0, 8)
	for _, c := range Breakdown(f) {
		if c.Amount > 0 {
			names = append(names, c.Factor)
		}
	}
	return names
}

func cholesterolContribution(cholesterol float64) float64 {
	if cholesterol > cholesterolThreshold {
		return cholesterolPoints
	}
	return 0
}

func bloodPressureContribution(systolic, diastolic float64) float64 {
	if systolic > systolicThreshold || diastolic > diastolicThreshold {
		return bloodPressurePoints
	}
	return 0
}

func smokingContribution(status string) float64 {
	switch status {
	case SmokingCurrent:
		return currentSmokerPoints
	case SmokingFormer:
		return formerSmokerPoints
	default:
		return 0
	}
}

func alcoholContribution(level string) float64 {
	switch level {
	case AlcoholHeavy:
		return heavyAlcoholPoints
	case AlcoholModerate:
		return moderateAlcoholPoints
	default:
		return 0
	}
}

func yesContribution(answer string, points float64) float64 {
	if answer == AnswerYes {
		return points
	}
	return 0
}

func bmiContribution(bmi float64) float64 {
	switch {
	case bmi > obeseBMIThreshold:
		return obeseBMIPoints
	case bmi > overweightBMIThreshold:
		return overweightBMIPoints
	default:
		return 0
	}
}

// clamp also maps NaN to min so the result stays inside the bounds.
func clamp(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return min
	}
	return math.Min(math.Max(v, min), max)
}
