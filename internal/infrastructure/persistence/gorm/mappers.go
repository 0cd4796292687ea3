package gorm

import (
	"github.com/fitlife/dietplanner/internal/domain/diet"
)

// ProfileToModel converts a domain profile to a GORM model
func ProfileToModel(p *diet.Profile) *ProfileModel {
	return &ProfileModel{
		UserID:   p.UserID,
		Age:      p.Age,
		Gender:   string(p.Gender),
		WeightKg: p.WeightKg,
		HeightCm: p.HeightCm,
	}
}

// ModelToProfile converts a GORM model to a domain profile
func ModelToProfile(m *ProfileModel) *diet.Profile {
	return &diet.Profile{
		UserID:   m.UserID,
		Age:      m.Age,
		Gender:   diet.ParseGender(m.Gender),
		WeightKg: m.WeightKg,
		HeightCm: m.HeightCm,
	}
}

// PreferenceToModel converts a domain preference set to a GORM model.
// Ingredient preferences are stored separately.
func PreferenceToModel(p *diet.Preference) *PreferenceModel {
	return &PreferenceModel{
		ID:          p.ID,
		UserID:      p.UserID,
		DietType:    string(p.DietType),
		DietaryGoal: p.Goal,
		Allergies:   CommaList(diet.CleanAllergies(p.Allergies)),
		CreatedAt:   p.CreatedAt,
	}
}

// ModelToPreference converts a GORM model with its preloaded ingredients
func ModelToPreference(m *PreferenceModel) *diet.Preference {
	dietType, err := diet.ParseDietType(m.DietType)
	if err != nil {
		dietType = diet.DietNone
	}

	pref := &diet.Preference{
		ID:          m.ID,
		UserID:      m.UserID,
		DietType:    dietType,
		Goal:        m.DietaryGoal,
		Allergies:   diet.CleanAllergies(m.Allergies),
		Ingredients: make([]diet.IngredientPreference, 0, len(m.Ingredients)),
		CreatedAt:   m.CreatedAt,
	}
	for _, ip := range m.Ingredients {
		kind, err := diet.ParsePreferenceKind(ip.Preference)
		if err != nil {
			continue
		}
		pref.Ingredients = append(pref.Ingredients, diet.IngredientPreference{
			IngredientID:   ip.IngredientID,
			IngredientName: ip.Ingredient.Name,
			Kind:           kind,
		})
	}
	return pref
}

// IngredientToModel converts a catalog ingredient to a GORM model
func IngredientToModel(i diet.Ingredient) IngredientModel {
	return IngredientModel{
		ID:               i.ID,
		Name:             i.Name,
		Category:         i.Category,
		NutritionalValue: NutritionBlob(i.NutritionalValue),
		AllergenInfo:     i.AllergenInfo,
	}
}

// ModelToIngredient converts a GORM model to a catalog ingredient
func ModelToIngredient(m *IngredientModel) diet.Ingredient {
	allergen := m.AllergenInfo
	if allergen == "" {
		allergen = "None"
	}
	return diet.Ingredient{
		ID:               m.ID,
		Name:             m.Name,
		Category:         m.Category,
		NutritionalValue: diet.NutrientFacts(m.NutritionalValue),
		AllergenInfo:     allergen,
	}
}

// RecipeToModel converts a library recipe to a GORM model
func RecipeToModel(r diet.Recipe) RecipeModel {
	return RecipeModel{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Ingredients:   CommaList(r.Ingredients),
		Instructions:  r.Instructions,
		NutritionInfo: NutritionBlob(r.NutritionInfo),
		ImageURL:      r.ImageURL,
	}
}

// ModelToRecipe converts a GORM model to a library recipe
func ModelToRecipe(m *RecipeModel) diet.Recipe {
	return diet.Recipe{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Ingredients:   []string(m.Ingredients),
		Instructions:  m.Instructions,
		NutritionInfo: diet.NutrientFacts(m.NutritionInfo),
		ImageURL:      m.ImageURL,
	}
}

// DietPlanToModel converts a domain diet plan to a GORM model
func DietPlanToModel(p *diet.DietPlan) *DietPlanModel {
	return &DietPlanModel{
		ID:            p.ID,
		UserID:        p.UserID,
		PlanName:      p.Name,
		Description:   p.Description,
		StartDate:     diet.FormatDate(p.StartDate),
		EndDate:       diet.FormatDate(p.EndDate),
		DailyCalories: p.DailyCalories,
		ProteinGrams:  p.Targets.ProteinGrams,
		CarbsGrams:    p.Targets.CarbsGrams,
		FatGrams:      p.Targets.FatGrams,
		FiberGrams:    p.Targets.FiberGrams,
		DurationDays:  p.DurationDays,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
	}
}

// ModelToDietPlan converts a GORM model to a domain diet plan
func ModelToDietPlan(m *DietPlanModel) (*diet.DietPlan, error) {
	start, err := diet.ParseDate(m.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := diet.ParseDate(m.EndDate)
	if err != nil {
		return nil, err
	}

	return &diet.DietPlan{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.PlanName,
		Description:   m.Description,
		StartDate:     start,
		EndDate:       end,
		DailyCalories: m.DailyCalories,
		Targets: diet.NutritionTargets{
			ProteinGrams: m.ProteinGrams,
			CarbsGrams:   m.CarbsGrams,
			FatGrams:     m.FatGrams,
			FiberGrams:   m.FiberGrams,
		},
		DurationDays: m.DurationDays,
		Status:       diet.PlanStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}, nil
}

// MealPlanEntryToModel converts a plan meal slot to a GORM model
func MealPlanEntryToModel(e diet.MealPlanEntry) MealPlanModel {
	return MealPlanModel{
		ID:          e.ID,
		DietPlanID:  e.DietPlanID,
		DayNumber:   e.DayNumber,
		MealType:    string(e.MealType),
		RecipeID:    e.RecipeID,
		ServingSize: e.ServingSize,
		Calories:    e.Calories,
	}
}

// ModelToMealPlanEntry converts a GORM model with its optional preloaded recipe
func ModelToMealPlanEntry(m *MealPlanModel) diet.MealPlanEntry {
	entry := diet.MealPlanEntry{
		ID:          m.ID,
		DietPlanID:  m.DietPlanID,
		DayNumber:   m.DayNumber,
		MealType:    diet.MealType(m.MealType),
		RecipeID:    m.RecipeID,
		ServingSize: m.ServingSize,
		Calories:    m.Calories,
	}
	if m.Recipe != nil && m.Recipe.ID != "" {
		r := ModelToRecipe(m.Recipe)
		entry.Recipe = &r
	}
	return entry
}

// ProgressToModel converts a domain progress row to a GORM model
func ProgressToModel(p *diet.Progress) *ProgressModel {
	return &ProgressModel{
		ID:               p.ID,
		UserID:           p.UserID,
		DietPlanID:       p.DietPlanID,
		Date:             diet.FormatDate(p.Date),
		CaloriesConsumed: p.CaloriesConsumed,
		MealsCompleted:   p.MealsCompleted,
		Weight:           p.Weight,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
	}
}

// ModelToProgress converts a GORM model to a domain progress row
func ModelToProgress(m *ProgressModel) (*diet.Progress, error) {
	date, err := diet.ParseDate(m.Date)
	if err != nil {
		return nil, err
	}
	return &diet.Progress{
		ID:               m.ID,
		UserID:           m.UserID,
		DietPlanID:       m.DietPlanID,
		Date:             date,
		CaloriesConsumed: m.CaloriesConsumed,
		MealsCompleted:   m.MealsCompleted,
		Weight:           m.Weight,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
	}, nil
}

// LoggedMealToModel converts a domain logged meal to a GORM model.
// LogDate is derived from the creation time.
func LoggedMealToModel(m *diet.LoggedMeal) *LoggedMealModel {
	return &LoggedMealModel{
		ID:         m.ID,
		UserID:     m.UserID,
		DietPlanID: m.DietPlanID,
		ProgressID: m.ProgressID,
		MealType:   string(m.MealType),
		MealName:   m.MealName,
		Calories:   m.Calories,
		Notes:      m.Notes,
		LogDate:    diet.FormatDate(m.LogDate()),
		CreatedAt:  m.CreatedAt,
	}
}

// ModelToLoggedMeal converts a GORM model to a domain logged meal
func ModelToLoggedMeal(m *LoggedMealModel) diet.LoggedMeal {
	return diet.LoggedMeal{
		ID:         m.ID,
		UserID:     m.UserID,
		DietPlanID: m.DietPlanID,
		ProgressID: m.ProgressID,
		MealType:   diet.MealType(m.MealType),
		MealName:   m.MealName,
		Calories:   m.Calories,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	}
}
