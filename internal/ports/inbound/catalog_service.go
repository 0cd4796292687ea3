package inbound

import "context"

// CatalogService exposes read-only lookups over the ingredient and recipe catalog
type CatalogService interface {
	ListIngredientNames(ctx context.Context) ([]string, error)
	SuggestMealNames(ctx context.Context, query string) ([]string, error)
	GetRecipeCalories(ctx context.Context, title string) (*RecipeCaloriesDTO, error)
}

// RecipeCaloriesDTO is the calorie lookup result for a recipe title
type RecipeCaloriesDTO struct {
	RecipeID string  `json:"recipe_id"`
	Title    string  `json:"title"`
	Calories float64 `json:"calories"`
}
