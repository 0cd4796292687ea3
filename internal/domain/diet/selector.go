package diet

import "strings"

// MealType is a meal slot within a plan day, or the kind of a logged meal.
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

// PlanMealTypes are the slots filled for every plan day, in display order.
var PlanMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

// ParseMealType accepts any casing of the known meal types.
func ParseMealType(s string) (MealType, error) {
	switch normalizeName(s) {
	case "breakfast":
		return MealBreakfast, nil
	case "lunch":
		return MealLunch, nil
	case "dinner":
		return MealDinner, nil
	case "snack":
		return MealSnack, nil
	default:
		return "", ErrInvalidMealType
	}
}

// Order gives the position of a meal type within a day.
func (m MealType) Order() int {
	switch m {
	case MealBreakfast:
		return 0
	case MealLunch:
		return 1
	case MealDinner:
		return 2
	default:
		return 3
	}
}

// MealsPerDay is the divisor for the per-meal calorie target.
const MealsPerDay = 3

var (
	breakfastKeywords = []string{
		"breakfast", "omelette", "pancake", "cereal", "yogurt", "parfait",
		"toast", "scramble", "oatmeal", "oats", "banana", "muffin", "smoothie",
		"burrito", "walnut", "honey", "wrap", "egg salad",
	}
	lunchKeywords = []string{
		"salad", "soup", "sandwich", "wrap", "bowl", "quinoa", "stir fry", "lentil",
	}
	dinnerKeywords = []string{
		"stew", "pasta", "rice", "curry", "grilled", "roasted", "dinner",
		"alfredo", "risotto", "stuffed", "baked", "parmesan",
	}
)

// ClassifyByTitle buckets a recipe by title keywords. Breakfast keywords are
// checked first, then lunch, then dinner.
func ClassifyByTitle(title string) (MealType, bool) {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, breakfastKeywords):
		return MealBreakfast, true
	case containsAny(t, lunchKeywords):
		return MealLunch, true
	case containsAny(t, dinnerKeywords):
		return MealDinner, true
	default:
		return "", false
	}
}

// ClassifyByCalories is the fallback bucketing rule:
// <300 breakfast, 300-500 lunch, >=500 dinner.
func ClassifyByCalories(calories float64) MealType {
	switch {
	case calories < 300:
		return MealBreakfast
	case calories < 500:
		return MealLunch
	default:
		return MealDinner
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// CandidatePools holds the compatible recipes per meal slot.
type CandidatePools struct {
	Breakfast []Recipe
	Lunch     []Recipe
	Dinner    []Recipe
}

// For returns the pool of a meal type.
func (p CandidatePools) For(m MealType) []Recipe {
	switch m {
	case MealBreakfast:
		return p.Breakfast
	case MealLunch:
		return p.Lunch
	case MealDinner:
		return p.Dinner
	default:
		return nil
	}
}

func (p *CandidatePools) add(m MealType, r Recipe) {
	switch m {
	case MealBreakfast:
		p.Breakfast = append(p.Breakfast, r)
	case MealLunch:
		p.Lunch = append(p.Lunch, r)
	case MealDinner:
		p.Dinner = append(p.Dinner, r)
	}
}

// Empty reports whether no slot has a candidate.
func (p CandidatePools) Empty() bool {
	return len(p.Breakfast) == 0 && len(p.Lunch) == 0 && len(p.Dinner) == 0
}

// BucketRecipes sorts a filtered pool into meal slots by title, falling back
// to calories. A slot left empty is backfilled from the whole pool using the
// calorie rule alone.
func BucketRecipes(pool []Recipe) CandidatePools {
	var pools CandidatePools
	for _, r := range pool {
		m, ok := ClassifyByTitle(r.Title)
		if !ok {
			m = ClassifyByCalories(r.Calories())
		}
		pools.add(m, r)
	}

	for _, m := range PlanMealTypes {
		if len(pools.For(m)) > 0 {
			continue
		}
		for _, r := range pool {
			if ClassifyByCalories(r.Calories()) == m {
				pools.add(m, r)
			}
		}
	}
	return pools
}

// Selection is the result of running the selector over the library.
type Selection struct {
	CaloriesPerMeal int
	Pools           CandidatePools
	Accepted        []Recipe
	Rejected        []Verdict
	UsedFallback    bool
}

// SelectorOptions tunes the RecipeSelector.
type SelectorOptions struct {
	CalorieBand      float64
	FallbackRecipeID string
}

// DefaultFallbackRecipeID is used when every recipe is filtered out.
const DefaultFallbackRecipeID = "RCP001"

// RecipeSelector filters the library and buckets the survivors.
type RecipeSelector struct {
	opts SelectorOptions
}

// NewRecipeSelector creates a selector with defaults applied.
func NewRecipeSelector(opts SelectorOptions) *RecipeSelector {
	if opts.CalorieBand <= 0 {
		opts.CalorieBand = DefaultCalorieBand
	}
	if opts.FallbackRecipeID == "" {
		opts.FallbackRecipeID = DefaultFallbackRecipeID
	}
	return &RecipeSelector{opts: opts}
}

// Select filters lib against pref using dailyCalories/3 as the per-meal
// target. The filter does not depend on the meal slot, so one pass serves all
// three slots. If nothing passes, the fallback recipe is used when present;
// otherwise ErrInsufficientRecipes is returned.
func (s *RecipeSelector) Select(lib *Library, dailyCalories int, pref Preference) (*Selection, error) {
	perMeal := dailyCalories / MealsPerDay
	filter := NewCompatibilityFilter(lib.Allergens, s.opts.CalorieBand)

	sel := &Selection{CaloriesPerMeal: perMeal}
	for _, r := range lib.Recipes {
		v := filter.Check(r, perMeal, pref)
		if v.Accepted {
			sel.Accepted = append(sel.Accepted, r)
		} else {
			sel.Rejected = append(sel.Rejected, v)
		}
	}

	if len(sel.Accepted) == 0 {
		fallback, ok := lib.FindRecipe(s.opts.FallbackRecipeID)
		if !ok {
			return sel, ErrInsufficientRecipes
		}
		sel.Accepted = []Recipe{fallback}
		sel.UsedFallback = true
	}

	sel.Pools = BucketRecipes(sel.Accepted)
	return sel, nil
}
