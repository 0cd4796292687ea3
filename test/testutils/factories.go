// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
)

// Factory builds request commands with realistic random values
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory with a seeded faker
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// UserID returns a user identifier in the U### form
func (f *Factory) UserID() string {
	return fmt.Sprintf("U%03d", f.faker.Number(100, 999))
}

// Profile returns a plausible adult profile
func (f *Factory) Profile(userID string) inbound.UpsertProfileCommand {
	return inbound.UpsertProfileCommand{
		UserID:   userID,
		Age:      f.faker.Number(18, 80),
		Gender:   f.faker.RandomString([]string{"male", "female"}),
		WeightKg: float64(f.faker.Number(50, 120)),
		HeightCm: float64(f.faker.Number(150, 200)),
	}
}

// Preferences returns a preference update for dietType and goal
func (f *Factory) Preferences(userID, dietType, goal string, allergies ...string) inbound.UpdatePreferencesCommand {
	if allergies == nil {
		allergies = []string{}
	}
	return inbound.UpdatePreferencesCommand{
		UserID:      userID,
		DietType:    &dietType,
		DietaryGoal: &goal,
		Allergies:   &allergies,
	}
}

// Meal returns a meal log command for userID
func (f *Factory) Meal(userID, mealType string) inbound.LogMealCommand {
	return inbound.LogMealCommand{
		UserID:   userID,
		MealType: mealType,
		MealName: f.faker.Dessert(),
		Calories: float64(f.faker.Number(150, 900)),
		Notes:    f.faker.Sentence(4),
	}
}
