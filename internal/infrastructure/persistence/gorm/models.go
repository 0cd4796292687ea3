// Package gorm provides GORM model definitions and repositories for the diet planner
package gorm

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
)

// ProfileModel represents the GORM model for user profiles
type ProfileModel struct {
	UserID    string  `gorm:"type:varchar(36);primaryKey"`
	Age       int     `gorm:"default:0"`
	Gender    string  `gorm:"type:varchar(20)"`
	WeightKg  float64 `gorm:"column:weight;default:0"`
	HeightCm  float64 `gorm:"column:height;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PreferenceModel represents the GORM model for dietary preferences
type PreferenceModel struct {
	ID          string    `gorm:"column:diet_pref_id;type:varchar(36);primaryKey"`
	UserID      string    `gorm:"type:varchar(36);not null;index"`
	DietType    string    `gorm:"column:diet_type;type:varchar(50);default:'none'"`
	DietaryGoal string    `gorm:"column:dietary_goal;type:text"`
	Allergies   CommaList `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	Ingredients []IngredientPreferenceModel `gorm:"foreignKey:PreferenceID;references:ID"`
}

// IngredientPreferenceModel links a preference set to a liked or disliked ingredient
type IngredientPreferenceModel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	PreferenceID string `gorm:"column:diet_pref_id;type:varchar(36);not null;index"`
	IngredientID string `gorm:"type:varchar(36);not null"`
	Preference   string `gorm:"type:varchar(10);not null"`

	Ingredient IngredientModel `gorm:"foreignKey:IngredientID;references:ID"`
}

// IngredientModel represents the GORM model for catalog ingredients
type IngredientModel struct {
	ID               string        `gorm:"column:ingredient_id;type:varchar(36);primaryKey"`
	Name             string        `gorm:"type:varchar(255);uniqueIndex;not null"`
	Category         string        `gorm:"type:varchar(100)"`
	NutritionalValue NutritionBlob `gorm:"column:nutritional_value;type:text"`
	AllergenInfo     string        `gorm:"column:allergen_info;type:varchar(100);default:'None'"`
}

// RecipeModel represents the GORM model for library recipes
type RecipeModel struct {
	ID            string        `gorm:"column:recipe_id;type:varchar(36);primaryKey"`
	Title         string        `gorm:"type:varchar(255);not null;index"`
	Description   string        `gorm:"type:text"`
	Ingredients   CommaList     `gorm:"type:text"`
	Instructions  string        `gorm:"type:text"`
	NutritionInfo NutritionBlob `gorm:"column:nutrition_info;type:text"`
	ImageURL      string        `gorm:"column:image_url;type:text"`
}

// DietPlanModel represents the GORM model for generated diet plans
type DietPlanModel struct {
	ID            string    `gorm:"column:diet_plan_id;type:varchar(36);primaryKey"`
	UserID        string    `gorm:"type:varchar(36);not null;index:idx_diet_plans_user_status"`
	PlanName      string    `gorm:"type:varchar(255)"`
	Description   string    `gorm:"type:text"`
	StartDate     string    `gorm:"type:varchar(10);not null;index"`
	EndDate       string    `gorm:"type:varchar(10);not null"`
	DailyCalories int       `gorm:"not null"`
	ProteinGrams  int       `gorm:"default:0"`
	CarbsGrams    int       `gorm:"default:0"`
	FatGrams      int       `gorm:"default:0"`
	FiberGrams    int       `gorm:"default:0"`
	DurationDays  int       `gorm:"not null;check:duration_days > 0"`
	Status        string    `gorm:"type:varchar(20);default:'Active';index:idx_diet_plans_user_status"`
	CreatedAt     time.Time `gorm:"index"`
}

// MealPlanModel represents a single meal slot of a diet plan
type MealPlanModel struct {
	ID          string  `gorm:"column:meal_plan_id;type:varchar(36);primaryKey"`
	DietPlanID  string  `gorm:"type:varchar(36);not null;index"`
	DayNumber   int     `gorm:"not null;check:day_number > 0"`
	MealType    string  `gorm:"type:varchar(20);not null"`
	RecipeID    string  `gorm:"type:varchar(36);not null"`
	ServingSize float64 `gorm:"default:1"`
	Calories    int     `gorm:"default:0"`

	Recipe *RecipeModel `gorm:"foreignKey:RecipeID;references:ID"`
}

// ProgressModel represents the GORM model for daily plan progress
type ProgressModel struct {
	ID               string    `gorm:"column:progress_id;type:varchar(36);primaryKey"`
	UserID           string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_user_date"`
	DietPlanID       string    `gorm:"type:varchar(36);not null;index"`
	Date             string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_progress_user_date"`
	CaloriesConsumed float64   `gorm:"default:0"`
	MealsCompleted   int       `gorm:"default:0"`
	Weight           *float64  `gorm:"default:null"`
	Notes            string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"index"`
}

// LoggedMealModel represents the GORM model for meals logged by a user
type LoggedMealModel struct {
	ID         string    `gorm:"column:meal_id;type:varchar(36);primaryKey"`
	UserID     string    `gorm:"type:varchar(36);not null;index:idx_logged_meals_user_date"`
	DietPlanID string    `gorm:"type:varchar(36)"`
	ProgressID string    `gorm:"type:varchar(36);index"`
	MealType   string    `gorm:"type:varchar(20);not null"`
	MealName   string    `gorm:"type:varchar(255);not null"`
	Calories   float64   `gorm:"default:0"`
	Notes      string    `gorm:"type:text"`
	LogDate    string    `gorm:"type:varchar(10);not null;index:idx_logged_meals_user_date"`
	CreatedAt  time.Time `gorm:"index"`
}

// IDSequenceModel stores the last issued number of each ID prefix
type IDSequenceModel struct {
	Prefix string `gorm:"type:varchar(10);primaryKey"`
	Value  int    `gorm:"not null;default:0"`
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&ProfileModel{},
		&IngredientModel{},
		&RecipeModel{},
		&PreferenceModel{},
		&IngredientPreferenceModel{},
		&DietPlanModel{},
		&MealPlanModel{},
		&ProgressModel{},
		&LoggedMealModel{},
		&IDSequenceModel{},
	}
}

// CommaList stores a list of names as comma separated text
type CommaList []string

// Scan implements the sql.Scanner interface
func (c *CommaList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = CommaList{}
	case []byte:
		*c = diet.ParseIngredientList(string(v))
	case string:
		*c = diet.ParseIngredientList(v)
	default:
		return fmt.Errorf("cannot scan %T into CommaList", value)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (c CommaList) Value() (driver.Value, error) {
	return diet.JoinIngredientList(c), nil
}

// NutritionBlob stores nutrient facts as a JSON object. Legacy free-text
// values are read leniently.
type NutritionBlob diet.NutrientFacts

// Scan implements the sql.Scanner interface
func (n *NutritionBlob) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*n = NutritionBlob{}
	case []byte:
		*n = NutritionBlob(diet.ParseNutrientFacts(string(v)))
	case string:
		*n = NutritionBlob(diet.ParseNutrientFacts(v))
	default:
		return fmt.Errorf("cannot scan %T into NutritionBlob", value)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (n NutritionBlob) Value() (driver.Value, error) {
	facts := diet.NutrientFacts(n)
	if !facts.Known() && facts.Calories == 0 {
		return "", nil
	}
	return facts.JSON(), nil
}

func (ProfileModel) TableName() string {
	return "user_profiles"
}

func (PreferenceModel) TableName() string {
	return "dietary_preferences"
}

func (IngredientPreferenceModel) TableName() string {
	return "user_ingredient_preferences"
}

func (IngredientModel) TableName() string {
	return "ingredients"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (DietPlanModel) TableName() string {
	return "diet_plans"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (ProgressModel) TableName() string {
	return "user_diet_plan_progress"
}

func (LoggedMealModel) TableName() string {
	return "logged_meals"
}

func (IDSequenceModel) TableName() string {
	return "id_sequences"
}
