package diet

import (
	"math"
	"time"
)

// DietSummary is the rollup of the user's Active plan.
type DietSummary struct {
	Plan                        *DietPlan
	CurrentDayOfPlan            int
	DaysLogged                  int
	TotalCaloriesConsumed       float64
	AverageDailyCaloriesActual  float64
	AverageDailyCaloriesPlanned int
	TotalPlannedCalories        int
	CompletionPercentage        float64
	LastLoggedMeal              *LoggedMeal
}

// Summarize computes the rollup for plan from its progress rows. Rows dated
// after today are ignored. A nil plan yields a zeroed summary.
func Summarize(plan *DietPlan, progress []Progress, last *LoggedMeal, today time.Time) DietSummary {
	s := DietSummary{LastLoggedMeal: last}
	if plan == nil {
		return s
	}

	s.Plan = plan
	s.AverageDailyCaloriesPlanned = plan.DailyCalories
	s.CurrentDayOfPlan = plan.CurrentDay(today)

	cutoff := CivilDate(today)
	dates := make(map[time.Time]struct{})
	for _, p := range progress {
		d := CivilDate(p.Date)
		if d.After(cutoff) {
			continue
		}
		s.TotalCaloriesConsumed += p.CaloriesConsumed
		dates[d] = struct{}{}
	}
	s.DaysLogged = len(dates)
	if s.DaysLogged > 0 {
		s.AverageDailyCaloriesActual = round2(s.TotalCaloriesConsumed / float64(s.DaysLogged))
	}

	if plan.DurationDays > 0 {
		elapsed := s.CurrentDayOfPlan
		if elapsed > plan.DurationDays {
			elapsed = plan.DurationDays
		}
		s.CompletionPercentage = round2(float64(elapsed) / float64(plan.DurationDays) * 100)
		s.TotalPlannedCalories = elapsed * plan.DailyCalories
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
