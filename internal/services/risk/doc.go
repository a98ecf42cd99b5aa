/*
Package risk implements the heart attack risk heuristic.

The score is a fixed weighted sum over a small set of self-reported
factors, clamped to [0, 100]:

	age             (age / 100) * 20
	cholesterol     +15 when > 200
	blood pressure  +15 when systolic > 140 or diastolic > 90
	smoking         +20 current, +10 former
	alcohol         +15 heavy, +8 moderate
	family history  +15 when "yes"
	diabetes        +15 when "yes"
	bmi             +10 when > 30, +5 when > 25

All comparisons are strict. Unrecognised categorical values contribute
nothing. Compute never fails and never rejects its input; callers gate it
with ValidateAssessment first.

Usage:

	in := risk.Assessment{Age: 50, Cholesterol: 250, ...}
	if err := risk.ValidateAssessment(in); err != nil {
	    // report err.(validation.Errors) per field
	}
	factors, _ := in.Factors()
	score := risk.Compute(factors)
	tier := risk.Classify(score)

The weights are not derived from any dataset and carry no clinical
meaning; they are kept exactly as published.
*/
package risk
