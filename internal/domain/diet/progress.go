package diet

import (
	"sort"
	"time"
)

// DateLayout is the storage and wire format of calendar dates.
const DateLayout = "2006-01-02"

// CivilDate truncates t to midnight UTC of its calendar date.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(CivilDate(b).Sub(CivilDate(a)).Hours() / 24)
}

// Progress is the per-user, per-date aggregate of logged meals.
type Progress struct {
	ID               string
	UserID           string
	DietPlanID       string
	Date             time.Time
	CaloriesConsumed float64
	MealsCompleted   int
	Weight           *float64
	Notes            string
	CreatedAt        time.Time
}

// NewProgress opens an empty progress row for a date.
func NewProgress(userID, planID string, date, now time.Time) *Progress {
	return &Progress{
		UserID:     userID,
		DietPlanID: planID,
		Date:       CivilDate(date),
		CreatedAt:  now,
	}
}

// ApplyMeal adds one logged meal to the running totals.
func (p *Progress) ApplyMeal(calories float64) {
	p.CaloriesConsumed += calories
	p.MealsCompleted++
}

// RecomputeTotals replaces the totals with the aggregate of meals.
func (p *Progress) RecomputeTotals(meals []LoggedMeal) {
	var total float64
	for _, m := range meals {
		total += m.Calories
	}
	p.CaloriesConsumed = total
	p.MealsCompleted = len(meals)
}

// LoggedMeal is a single meal-eaten event.
type LoggedMeal struct {
	ID         string
	UserID     string
	DietPlanID string
	ProgressID string
	MealType   MealType
	MealName   string
	Calories   float64
	Notes      string
	CreatedAt  time.Time
}

// LogDate is the calendar date the meal aggregates into.
func (m LoggedMeal) LogDate() time.Time {
	return CivilDate(m.CreatedAt)
}

// Validate checks the user supplied fields of a meal.
func (m LoggedMeal) Validate() error {
	if m.MealName == "" {
		return ErrEmptyMealName
	}
	if m.Calories < 0 {
		return ErrInvalidCalories
	}
	if _, err := ParseMealType(string(m.MealType)); err != nil {
		return err
	}
	return nil
}

// LoggedMealPatch carries the fields of a partial logged meal update.
type LoggedMealPatch struct {
	MealType *string
	MealName *string
	Calories *float64
	Notes    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p LoggedMealPatch) IsEmpty() bool {
	return p.MealType == nil && p.MealName == nil && p.Calories == nil && p.Notes == nil
}

// Apply validates and applies the patch to m.
func (p LoggedMealPatch) Apply(m *LoggedMeal) error {
	if p.IsEmpty() {
		return ErrNoFieldsToUpdate
	}
	if p.MealType != nil {
		mt, err := ParseMealType(*p.MealType)
		if err != nil {
			return err
		}
		m.MealType = mt
	}
	if p.MealName != nil {
		if *p.MealName == "" {
			return ErrEmptyMealName
		}
		m.MealName = *p.MealName
	}
	if p.Calories != nil {
		if *p.Calories < 0 {
			return ErrInvalidCalories
		}
		m.Calories = *p.Calories
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	return nil
}

// MealDay groups logged meals of one date.
type MealDay struct {
	Date  time.Time
	Meals []LoggedMeal
}

// GroupMealsByDate groups meals by log date, newest date first. Meals keep
// their input order within a date.
func GroupMealsByDate(meals []LoggedMeal) []MealDay {
	index := make(map[time.Time]int)
	var days []MealDay
	for _, m := range meals {
		d := m.LogDate()
		i, ok := index[d]
		if !ok {
			i = len(days)
			index[d] = i
			days = append(days, MealDay{Date: d})
		}
		days[i].Meals = append(days[i].Meals, m)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}
