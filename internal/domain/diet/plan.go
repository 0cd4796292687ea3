package diet

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlanStatus of a diet plan.
type PlanStatus string

const (
	PlanActive   PlanStatus = "Active"
	PlanArchived PlanStatus = "Archived"
)

// Macro split and fixed fiber target.
const (
	proteinShare       = 0.25
	carbsShare         = 0.45
	fatShare           = 0.30
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
	FiberGrams         = 25

	DefaultDurationDays = 7
	defaultDietLabel    = "General"
	defaultGoalLabel    = "Healthy Lifestyle"
)

// NutritionTargets are the daily macro targets in grams.
type NutritionTargets struct {
	ProteinGrams int `json:"protein_grams"`
	CarbsGrams   int `json:"carbs_grams"`
	FatGrams     int `json:"fat_grams"`
	FiberGrams   int `json:"fiber_grams"`
}

// MacroTargets splits calories 25/45/30 between protein, carbs and fat.
func MacroTargets(dailyCalories int) NutritionTargets {
	c := float64(dailyCalories)
	return NutritionTargets{
		ProteinGrams: int(c * proteinShare / kcalPerGramProtein),
		CarbsGrams:   int(c * carbsShare / kcalPerGramCarbs),
		FatGrams:     int(c * fatShare / kcalPerGramFat),
		FiberGrams:   FiberGrams,
	}
}

// DietPlan is a dated multi-day schedule with calorie and macro targets.
type DietPlan struct {
	ID            string
	UserID        string
	Name          string
	Description   string
	StartDate     time.Time
	EndDate       time.Time
	DailyCalories int
	Targets       NutritionTargets
	DurationDays  int
	Status        PlanStatus
	CreatedAt     time.Time
}

// NewDietPlan builds an Active plan starting today. An empty name is derived
// from the preference.
func NewDietPlan(userID string, pref Preference, dailyCalories, durationDays int, name string, now time.Time) (*DietPlan, error) {
	if durationDays <= 0 {
		return nil, ErrInvalidDuration
	}
	start := CivilDate(now)
	if strings.TrimSpace(name) == "" {
		name = DefaultPlanName(pref)
	}
	return &DietPlan{
		UserID:        userID,
		Name:          name,
		Description:   DefaultPlanDescription(pref, durationDays),
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, durationDays),
		DailyCalories: dailyCalories,
		Targets:       MacroTargets(dailyCalories),
		DurationDays:  durationDays,
		Status:        PlanActive,
		CreatedAt:     now,
	}, nil
}

// Archive retires the plan as of today.
func (p *DietPlan) Archive(today time.Time) {
	p.Status = PlanArchived
	p.EndDate = CivilDate(today)
}

// IsActive reports whether the plan is the user's current plan.
func (p *DietPlan) IsActive() bool {
	return p.Status == PlanActive
}

// CurrentDay is the 1-based day index of the plan on today, or 0 before start.
func (p *DietPlan) CurrentDay(today time.Time) int {
	days := DaysBetween(p.StartDate, today)
	if days < 0 {
		return 0
	}
	return days + 1
}

func dietLabel(pref Preference) string {
	if pref.DietType == "" || pref.DietType == DietNone {
		return defaultDietLabel
	}
	return string(pref.DietType)
}

func goalLabel(pref Preference) string {
	if strings.TrimSpace(pref.Goal) == "" {
		return defaultGoalLabel
	}
	return strings.TrimSpace(pref.Goal)
}

// DefaultPlanName renders "{Diet} - {Goal} Plan" in title case.
func DefaultPlanName(pref Preference) string {
	caser := cases.Title(language.English)
	return fmt.Sprintf("%s - %s Plan", caser.String(dietLabel(pref)), caser.String(goalLabel(pref)))
}

// DefaultPlanDescription renders the standard plan description.
func DefaultPlanDescription(pref Preference, durationDays int) string {
	return fmt.Sprintf("A personalized %d-day diet plan for a %s diet with goal: %s.",
		durationDays, strings.ToLower(dietLabel(pref)), strings.ToLower(goalLabel(pref)))
}

// MealPlanEntry is one scheduled meal of a plan.
type MealPlanEntry struct {
	ID          string
	DietPlanID  string
	DayNumber   int
	MealType    MealType
	RecipeID    string
	ServingSize float64
	Calories    int

	// Recipe is populated on reads that join the library.
	Recipe *Recipe
}

// EntriesFromAllocations converts allocator output into plan rows.
func EntriesFromAllocations(planID string, allocs []Allocation) []MealPlanEntry {
	entries := make([]MealPlanEntry, len(allocs))
	for i, a := range allocs {
		r := a.Recipe
		entries[i] = MealPlanEntry{
			DietPlanID:  planID,
			DayNumber:   a.Day,
			MealType:    a.MealType,
			RecipeID:    r.ID,
			ServingSize: 1.0,
			Calories:    a.Calories,
			Recipe:      &r,
		}
	}
	return entries
}

// PlanDay groups the entries of one day.
type PlanDay struct {
	Day   int
	Label string
	Meals []MealPlanEntry
}

// GroupByDay orders entries by day then meal slot and groups them as "Day N".
func GroupByDay(entries []MealPlanEntry) []PlanDay {
	sorted := make([]MealPlanEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DayNumber != sorted[j].DayNumber {
			return sorted[i].DayNumber < sorted[j].DayNumber
		}
		return sorted[i].MealType.Order() < sorted[j].MealType.Order()
	})

	var days []PlanDay
	for _, e := range sorted {
		if n := len(days); n == 0 || days[n-1].Day != e.DayNumber {
			days = append(days, PlanDay{Day: e.DayNumber, Label: fmt.Sprintf("Day %d", e.DayNumber)})
		}
		last := &days[len(days)-1]
		last.Meals = append(last.Meals, e)
	}
	return days
}
