// Package catalog provides read access to the ingredient and recipe catalog,
// caching the recipe library used by plan generation
package catalog

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/fitlife/dietplanner/pkg/errors"
	"github.com/fitlife/dietplanner/pkg/healthcheck"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	libraryCacheKey    = "catalog:library:v1"
	suggestionLimit    = 10
	defaultLibraryTTL  = 10 * time.Minute
	libraryCacheMetric = "recipe_library"
)

var tracer = otel.Tracer("github.com/fitlife/dietplanner/internal/application/catalog")

// Options configures the catalog service
type Options struct {
	LibraryTTL time.Duration
}

// Service implements inbound.CatalogService
type Service struct {
	repo    outbound.CatalogRepository
	cache   outbound.CacheRepository
	metrics outbound.Metrics
	ttl     time.Duration
	logger  *zap.Logger
}

var _ inbound.CatalogService = (*Service)(nil)

// NewService creates a catalog service
func NewService(
	repo outbound.CatalogRepository,
	cache outbound.CacheRepository,
	metrics outbound.Metrics,
	opts Options,
	logger *zap.Logger,
) *Service {
	ttl := opts.LibraryTTL
	if ttl <= 0 {
		ttl = defaultLibraryTTL
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		ttl:     ttl,
		logger:  logger.Named("catalog-service"),
	}
}

// cachedLibrary is the cache encoding of a diet.Library
type cachedLibrary struct {
	Recipes     []cachedRecipe    `json:"recipes"`
	Ingredients []diet.Ingredient `json:"ingredients"`
}

type cachedRecipe struct {
	diet.Recipe
	NutritionKnown bool `json:"nutrition_known"`
}

// Library returns the recipe library with its allergen index, reading
// through the cache.
func (s *Service) Library(ctx context.Context) (*diet.Library, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.Library")
	defer span.End()

	if lib, ok := s.cachedLibrary(ctx); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return lib, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	recipes, err := s.repo.ListRecipes(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}
	ingredients, err := s.repo.ListIngredients(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list ingredients", err)
	}

	s.storeLibrary(ctx, recipes, ingredients)

	s.logger.Debug("Recipe library loaded",
		zap.Int("recipes", len(recipes)),
		zap.Int("ingredients", len(ingredients)),
	)
	return diet.NewLibrary(recipes, ingredients), nil
}

func (s *Service) cachedLibrary(ctx context.Context) (*diet.Library, bool) {
	data, err := s.cache.Get(ctx, libraryCacheKey)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Failed to read recipe library from cache", zap.Error(err))
		}
		s.metrics.CacheAccess(libraryCacheMetric, false)
		return nil, false
	}

	var cached cachedLibrary
	if err := json.Unmarshal(data, &cached); err != nil {
		s.logger.Warn("Discarding corrupt recipe library cache entry", zap.Error(err))
		s.metrics.CacheAccess(libraryCacheMetric, false)
		return nil, false
	}

	recipes := make([]diet.Recipe, len(cached.Recipes))
	for i, c := range cached.Recipes {
		r := c.Recipe
		if c.NutritionKnown {
			r.NutritionInfo = r.NutritionInfo.WithKnown()
		}
		recipes[i] = r
	}
	s.metrics.CacheAccess(libraryCacheMetric, true)
	return diet.NewLibrary(recipes, cached.Ingredients), true
}

func (s *Service) storeLibrary(ctx context.Context, recipes []diet.Recipe, ingredients []diet.Ingredient) {
	cached := cachedLibrary{
		Recipes:     make([]cachedRecipe, len(recipes)),
		Ingredients: ingredients,
	}
	for i, r := range recipes {
		cached.Recipes[i] = cachedRecipe{Recipe: r, NutritionKnown: r.NutritionInfo.Known()}
	}

	data, err := json.Marshal(cached)
	if err != nil {
		s.logger.Warn("Failed to encode recipe library", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, libraryCacheKey, data, s.ttl); err != nil {
		s.logger.Warn("Failed to cache recipe library", zap.Error(err))
	}
}

// ListIngredientNames returns all ingredient names in alphabetical order
func (s *Service) ListIngredientNames(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListIngredientNames(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list ingredient names", err)
	}
	return names, nil
}

// SuggestMealNames returns up to ten recipe titles containing query
func (s *Service) SuggestMealNames(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}
	titles, err := s.repo.SearchRecipeTitles(ctx, query, suggestionLimit)
	if err != nil {
		return nil, errors.NewDatabaseError("search recipe titles", err)
	}
	return titles, nil
}

// GetRecipeCalories looks a recipe up by title, ignoring case
func (s *Service) GetRecipeCalories(ctx context.Context, title string) (*inbound.RecipeCaloriesDTO, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title is required")
	}

	r, err := s.repo.FindRecipeByTitle(ctx, title)
	if err != nil {
		if stderrors.Is(err, diet.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(title)
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	return &inbound.RecipeCaloriesDTO{
		RecipeID: r.ID,
		Title:    r.Title,
		Calories: r.Calories(),
	}, nil
}

// HealthChecker reports degraded when the recipe library is empty or lacks
// the fallback recipe plan generation relies on
func (s *Service) HealthChecker(fallbackRecipeID string) healthcheck.Checker {
	return healthcheck.CheckFunc(func(ctx context.Context) healthcheck.Check {
		start := time.Now()
		c := healthcheck.Check{Status: healthcheck.StatusHealthy, LastChecked: start}

		lib, err := s.Library(ctx)
		switch {
		case err != nil:
			c.Status = healthcheck.StatusUnhealthy
			c.Message = "recipe library unavailable: " + err.Error()
		case len(lib.Recipes) == 0:
			c.Status = healthcheck.StatusDegraded
			c.Message = "recipe library is empty"
		default:
			c.Metadata = map[string]interface{}{"recipes": len(lib.Recipes)}
			if _, ok := lib.FindRecipe(fallbackRecipeID); fallbackRecipeID != "" && !ok {
				c.Status = healthcheck.StatusDegraded
				c.Message = "fallback recipe " + fallbackRecipeID + " missing"
			}
		}
		c.Duration = time.Since(start)
		return c
	})
}
