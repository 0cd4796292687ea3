package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"gorm.io/gorm"
)

// CatalogRepository implements read access to ingredients and recipes using GORM
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) outbound.CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListIngredients returns every catalog ingredient ordered by name
func (r *CatalogRepository) ListIngredients(ctx context.Context) ([]diet.Ingredient, error) {
	var models []IngredientModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	out := make([]diet.Ingredient, len(models))
	for i := range models {
		out[i] = ModelToIngredient(&models[i])
	}
	return out, nil
}

// ListRecipes returns the recipe library ordered by ID
func (r *CatalogRepository) ListRecipes(ctx context.Context) ([]diet.Recipe, error) {
	var models []RecipeModel
	if err := r.db.WithContext(ctx).Order("recipe_id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return modelsToRecipes(models), nil
}

// ListIngredientNames returns all ingredient names in alphabetical order
func (r *CatalogRepository) ListIngredientNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&IngredientModel{}).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list ingredient names: %w", err)
	}
	return names, nil
}

// FindIngredientByName looks an ingredient up ignoring case and surrounding spaces
func (r *CatalogRepository) FindIngredientByName(ctx context.Context, name string) (*diet.Ingredient, error) {
	var model IngredientModel
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", diet.NormalizeName(name)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diet.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	ing := ModelToIngredient(&model)
	return &ing, nil
}

// FindRecipeByTitle looks a recipe up ignoring case
func (r *CatalogRepository) FindRecipeByTitle(ctx context.Context, title string) (*diet.Recipe, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).
		Where("LOWER(title) = ?", diet.NormalizeName(title)).
		Order("recipe_id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diet.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	recipe := ModelToRecipe(&model)
	return &recipe, nil
}

// FindRecipesByIDs returns the recipes with the given IDs; unknown IDs are skipped
func (r *CatalogRepository) FindRecipesByIDs(ctx context.Context, ids []string) ([]diet.Recipe, error) {
	if len(ids) == 0 {
		return []diet.Recipe{}, nil
	}
	var models []RecipeModel
	if err := r.db.WithContext(ctx).Where("recipe_id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find recipes: %w", err)
	}
	return modelsToRecipes(models), nil
}

// SearchRecipeTitles returns up to limit titles containing query
func (r *CatalogRepository) SearchRecipeTitles(ctx context.Context, query string, limit int) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Where("LOWER(title) LIKE ?", "%"+diet.NormalizeName(query)+"%").
		Order("title ASC").
		Limit(limit).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, fmt.Errorf("search recipe titles: %w", err)
	}
	return titles, nil
}

func modelsToRecipes(models []RecipeModel) []diet.Recipe {
	out := make([]diet.Recipe, len(models))
	for i := range models {
		out[i] = ModelToRecipe(&models[i])
	}
	return out
}
