package diet

import (
	"math"
	"strings"
)

// Calculator defaults. The activity multiplier is fixed at "moderately active".
const (
	DefaultWeightKg       = 70.0
	DefaultHeightCm       = 170.0
	DefaultAge            = 30
	DefaultGoal           = "weight loss"
	ActivityMultiplier    = 1.55
	FallbackDailyCalories = 2000

	MaleCalorieFloor   = 1500
	FemaleCalorieFloor = 1200

	weightLossDeficit = 500
	muscleGainSurplus = 300
)

// BMR returns the Mifflin-St Jeor basal metabolic rate.
func BMR(weightKg, heightCm float64, age int, gender Gender) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == GenderMale {
		return base + 5
	}
	return base - 161
}

// CalculateDailyCalories returns the daily calorie budget for a profile and
// goal. Missing profile fields fall back to defaults and a non-finite
// result yields FallbackDailyCalories; it never fails.
func CalculateDailyCalories(p Profile, goal string) int {
	p = p.WithDefaults()

	g := strings.ToLower(strings.TrimSpace(goal))
	if g == "" {
		g = DefaultGoal
	}

	tdee := BMR(p.WeightKg, p.HeightCm, p.Age, p.Gender) * ActivityMultiplier
	if math.IsNaN(tdee) || math.IsInf(tdee, 0) {
		return FallbackDailyCalories
	}

	target := adjustForGoal(tdee, g)

	floor := MaleCalorieFloor
	if p.Gender == GenderFemale {
		floor = FemaleCalorieFloor
	}
	if target < floor {
		target = floor
	}
	return target
}

// WithDefaults fills missing or malformed fields with the calculator
// defaults. Any gender other than female is treated as male.
func (p Profile) WithDefaults() Profile {
	p.WeightKg = positiveOr(p.WeightKg, DefaultWeightKg)
	p.HeightCm = positiveOr(p.HeightCm, DefaultHeightCm)
	if p.Age <= 0 {
		p.Age = DefaultAge
	}
	if p.Gender != GenderFemale {
		p.Gender = GenderMale
	}
	return p
}

func adjustForGoal(tdee float64, goal string) int {
	switch {
	case strings.Contains(goal, "weight loss"), strings.Contains(goal, "lose weight"):
		return int(tdee - weightLossDeficit)
	case strings.Contains(goal, "muscle gain"), strings.Contains(goal, "gain muscle"), strings.Contains(goal, "bulking"):
		return int(tdee + muscleGainSurplus)
	default:
		// "maintain", "maintenance" and anything unrecognized
		return int(tdee)
	}
}

func positiveOr(v, def float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
