package outbound

import "github.com/fitlife/dietplanner/internal/domain/diet"

// Metrics records business metrics of the planning and tracking use cases
type Metrics interface {
	PlanGenerated(durationDays, meals int, usedFallback bool)
	PlanGenerationFailed(reason string)
	RecipesRejected(verdicts []diet.Verdict)
	MealLogged(mealType diet.MealType, calories float64)
	ProgressRecomputed(operation string)
	CacheAccess(cache string, hit bool)
}
