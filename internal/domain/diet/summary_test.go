package diet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	date := func(day int) time.Time { return time.Date(2026, 10, day, 0, 0, 0, 0, time.UTC) }
	plan := &DietPlan{ID: "DPL001", StartDate: date(10), EndDate: date(17), DailyCalories: 2000, DurationDays: 7, Status: PlanActive}
	rows := []Progress{
		{Date: date(10), CaloriesConsumed: 1800},
		{Date: date(11), CaloriesConsumed: 2100},
		{Date: date(13), CaloriesConsumed: 500},
	}

	t.Run("MidPlan_ShouldAggregateUpToToday", func(t *testing.T) {
		// Act
		s := Summarize(plan, rows, nil, date(12).Add(9*time.Hour))

		// Assert
		assert.Equal(t, 3, s.CurrentDayOfPlan)
		assert.Equal(t, 2, s.DaysLogged)
		assert.Equal(t, 3900.0, s.TotalCaloriesConsumed)
		assert.Equal(t, 1950.0, s.AverageDailyCaloriesActual)
		assert.Equal(t, 2000, s.AverageDailyCaloriesPlanned)
		assert.Equal(t, 42.86, s.CompletionPercentage)
		assert.Equal(t, 6000, s.TotalPlannedCalories)
	})

	t.Run("AfterEnd_ShouldCapCompletion", func(t *testing.T) {
		s := Summarize(plan, rows, nil, date(25))

		assert.Equal(t, 16, s.CurrentDayOfPlan)
		assert.Equal(t, 100.0, s.CompletionPercentage)
		assert.Equal(t, 14000, s.TotalPlannedCalories)
		assert.Equal(t, 3, s.DaysLogged)
		assert.Equal(t, 1466.67, s.AverageDailyCaloriesActual)
	})

	t.Run("BeforeStart_ShouldReportDayZero", func(t *testing.T) {
		s := Summarize(plan, nil, nil, date(9))

		assert.Equal(t, 0, s.CurrentDayOfPlan)
		assert.Zero(t, s.CompletionPercentage)
		assert.Zero(t, s.AverageDailyCaloriesActual)
	})

	t.Run("NoPlan_ShouldReturnZeroedSummary", func(t *testing.T) {
		last := &LoggedMeal{ID: "LM009"}

		s := Summarize(nil, rows, last, date(12))

		assert.Nil(t, s.Plan)
		assert.Zero(t, s.TotalCaloriesConsumed)
		assert.Zero(t, s.CurrentDayOfPlan)
		assert.Same(t, last, s.LastLoggedMeal)
	})
}
