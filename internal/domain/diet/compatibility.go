package diet

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultCalorieBand is the allowed distance between a recipe's calories and
// the per-meal target.
const DefaultCalorieBand = 400.0

// Goal macro limits.
const (
	weightLossMaxCalories  = 600
	muscleGainMinProtein   = 20
	maintenanceMaxCalories = 800
)

var (
	vegetarianRestricted = []string{"chicken breast", "beef", "turkey breast", "salmon", "cod", "shrimp"}

	restrictedIngredients = map[DietType]map[string]struct{}{
		DietVegetarian:  setOf(vegetarianRestricted...),
		DietVegan:       setOf(append(append([]string{}, vegetarianRestricted...), "milk", "cheese", "egg", "greek yogurt", "mayonnaise", "butter", "yogurt")...),
		DietPescatarian: setOf("chicken breast", "beef", "turkey breast"),
		DietHalal:       setOf("pork", "bacon", "ham", "lard", "gelatin (non-halal)"),
		DietKosher:      setOf("pork", "shellfish", "shrimp", "bacon", "ham", "lobster"),
	}
)

func setOf(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// RestrictedIngredients returns the sorted restricted names for a diet type.
func RestrictedIngredients(d DietType) []string {
	set := restrictedIngredients[d]
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RejectionReason classifies why a recipe failed the filter.
type RejectionReason string

const (
	RejectCalorieBand RejectionReason = "calorie_band"
	RejectAllergen    RejectionReason = "allergen"
	RejectDietType    RejectionReason = "diet_type"
	RejectDislike     RejectionReason = "disliked_ingredient"
	RejectGoalMacros  RejectionReason = "goal_macros"
)

// Rejection is one failed rule with a human readable detail.
type Rejection struct {
	Reason RejectionReason
	Detail string
}

// Verdict is the outcome of checking one recipe.
type Verdict struct {
	RecipeID   string
	Title      string
	Accepted   bool
	Rejections []Rejection
}

func (v *Verdict) reject(reason RejectionReason, format string, args ...interface{}) {
	v.Accepted = false
	v.Rejections = append(v.Rejections, Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)})
}

// Reasons returns the rejection details, for logging.
func (v Verdict) Reasons() []string {
	out := make([]string, len(v.Rejections))
	for i, r := range v.Rejections {
		out[i] = r.Detail
	}
	return out
}

// CompatibilityFilter decides whether a recipe fits a user's preferences.
type CompatibilityFilter struct {
	allergens   AllergenIndex
	calorieBand float64
}

// NewCompatibilityFilter creates a filter. A non-positive band uses
// DefaultCalorieBand.
func NewCompatibilityFilter(allergens AllergenIndex, calorieBand float64) *CompatibilityFilter {
	if calorieBand <= 0 {
		calorieBand = DefaultCalorieBand
	}
	if allergens == nil {
		allergens = AllergenIndex{}
	}
	return &CompatibilityFilter{allergens: allergens, calorieBand: calorieBand}
}

// Check evaluates every rule and reports all failures. A recipe is accepted
// only when all rules pass.
func (f *CompatibilityFilter) Check(r Recipe, caloriesPerMeal int, pref Preference) Verdict {
	v := Verdict{RecipeID: r.ID, Title: r.Title, Accepted: true}
	cal := r.Calories()

	if math.Abs(cal-float64(caloriesPerMeal)) > f.calorieBand {
		v.reject(RejectCalorieBand, "calories off target: %.0f vs %d", cal, caloriesPerMeal)
	}

	allergies := pref.AllergySet()
	if len(allergies) > 0 {
		var hits []string
		for _, ing := range r.Ingredients {
			if tag, ok := f.allergens.Lookup(ing); ok {
				if _, allergic := allergies[normalizeName(tag)]; allergic {
					hits = append(hits, fmt.Sprintf("%s (%s)", strings.TrimSpace(ing), tag))
				}
			}
		}
		if len(hits) > 0 {
			v.reject(RejectAllergen, "contains allergens: %s", strings.Join(hits, ", "))
		}
	}

	if restricted, ok := restrictedIngredients[pref.DietType]; ok {
		var hits []string
		for _, ing := range r.Ingredients {
			if _, bad := restricted[normalizeName(ing)]; bad {
				hits = append(hits, strings.TrimSpace(ing))
			}
		}
		if len(hits) > 0 {
			v.reject(RejectDietType, "not %s: %s", pref.DietType, strings.Join(hits, ", "))
		}
	}

	if dislikes := pref.Dislikes(); len(dislikes) > 0 {
		var hits []string
		for _, ing := range r.Ingredients {
			if _, disliked := dislikes[normalizeName(ing)]; disliked {
				hits = append(hits, strings.TrimSpace(ing))
			}
		}
		if len(hits) > 0 {
			v.reject(RejectDislike, "contains disliked ingredients: %s", strings.Join(hits, ", "))
		}
	}

	if r.NutritionInfo.Known() {
		switch pref.NormalizedGoal() {
		case "weight loss":
			if cal > weightLossMaxCalories {
				v.reject(RejectGoalMacros, "too many calories for weight loss: %.0f", cal)
			}
		case "muscle gain":
			if r.NutritionInfo.Protein < muscleGainMinProtein {
				v.reject(RejectGoalMacros, "too little protein for muscle gain: %.0fg", r.NutritionInfo.Protein)
			}
		case "maintenance":
			if cal > maintenanceMaxCalories {
				v.reject(RejectGoalMacros, "too many calories for maintenance: %.0f", cal)
			}
		}
	}

	return v
}
