// Package dietplan implements profile, preference and diet plan use cases
package dietplan

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/domain/shared"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/fitlife/dietplanner/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/fitlife/dietplanner/internal/application/dietplan")

// LibraryProvider supplies the recipe library used for selection
type LibraryProvider interface {
	Library(ctx context.Context) (*diet.Library, error)
}

// Options tunes plan generation
type Options struct {
	DefaultDurationDays int
	MaxDurationDays     int
	CalorieBand         float64
	FallbackRecipeID    string
	LockTTL             time.Duration
	// RandomSeed makes meal allocation reproducible when non-zero
	RandomSeed int64
}

func (o Options) withDefaults() Options {
	if o.DefaultDurationDays <= 0 {
		o.DefaultDurationDays = diet.DefaultDurationDays
	}
	if o.MaxDurationDays <= 0 {
		o.MaxDurationDays = 90
	}
	if o.LockTTL <= 0 {
		o.LockTTL = 30 * time.Second
	}
	return o
}

// Service implements inbound.DietPlanService
type Service struct {
	uow       outbound.UnitOfWork
	library   LibraryProvider
	locker    outbound.Locker
	events    outbound.EventPublisher
	metrics   outbound.Metrics
	clock     outbound.Clock
	selector  *diet.RecipeSelector
	allocator *diet.MealPlanAllocator
	opts      Options
	logger    *zap.Logger
}

var _ inbound.DietPlanService = (*Service)(nil)

// NewService creates a diet plan service
func NewService(
	uow outbound.UnitOfWork,
	library LibraryProvider,
	locker outbound.Locker,
	events outbound.EventPublisher,
	metrics outbound.Metrics,
	clock outbound.Clock,
	opts Options,
	logger *zap.Logger,
) *Service {
	opts = opts.withDefaults()

	var src rand.Source
	if opts.RandomSeed != 0 {
		src = rand.NewSource(opts.RandomSeed)
	}

	return &Service{
		uow:     uow,
		library: library,
		locker:  locker,
		events:  events,
		metrics: metrics,
		clock:   clock,
		selector: diet.NewRecipeSelector(diet.SelectorOptions{
			CalorieBand:      opts.CalorieBand,
			FallbackRecipeID: opts.FallbackRecipeID,
		}),
		allocator: diet.NewMealPlanAllocator(src),
		opts:      opts,
		logger:    logger.Named("diet-plan-service"),
	}
}

// CalculateDailyCalories returns the daily calorie budget for a profile and goal
func (s *Service) CalculateDailyCalories(profile diet.Profile, goal string) int {
	return diet.CalculateDailyCalories(profile, goal)
}

// EstimateDailyCalories computes the budget from the stored profile and goal
func (s *Service) EstimateDailyCalories(ctx context.Context, userID string) (*inbound.CalorieEstimateDTO, error) {
	userID = diet.NormalizeUserID(userID)
	repos := s.uow.Repositories()

	profile, complete, err := s.loadProfile(ctx, repos, userID)
	if err != nil {
		return nil, err
	}

	goal := ""
	pref, err := repos.Preferences.FindLatestByUserID(ctx, userID)
	switch {
	case err == nil:
		goal = pref.Goal
	case !stderrors.Is(err, diet.ErrPreferencesNotFound):
		return nil, errors.NewDatabaseError("find preferences", err)
	}

	daily := diet.CalculateDailyCalories(profile, goal)
	eff := profile.WithDefaults()
	if goal == "" {
		goal = diet.DefaultGoal
	}

	return &inbound.CalorieEstimateDTO{
		UserID:          userID,
		Goal:            goal,
		BMR:             round2(diet.BMR(eff.WeightKg, eff.HeightCm, eff.Age, eff.Gender)),
		DailyCalories:   daily,
		CaloriesPerMeal: daily / diet.MealsPerDay,
		ProfileComplete: complete,
	}, nil
}

func (s *Service) loadProfile(ctx context.Context, repos outbound.Repositories, userID string) (diet.Profile, bool, error) {
	profile, err := repos.Profiles.FindByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, diet.ErrProfileNotFound) {
			return diet.Profile{UserID: userID}, false, nil
		}
		return diet.Profile{}, false, errors.NewDatabaseError("find profile", err)
	}
	complete := profile.Age > 0 && profile.WeightKg > 0 && profile.HeightCm > 0 && profile.Gender != ""
	return *profile, complete, nil
}

// GenerateDietPlan builds and stores a new Active plan, archiving the previous one
func (s *Service) GenerateDietPlan(ctx context.Context, cmd inbound.GenerateDietPlanCommand) (*inbound.DietPlanDTO, error) {
	userID := diet.NormalizeUserID(cmd.UserID)
	duration := cmd.DurationDays
	if duration == 0 {
		duration = s.opts.DefaultDurationDays
	}
	if duration < 0 || duration > s.opts.MaxDurationDays {
		return nil, errors.NewValidationError(fmt.Sprintf("duration_days must be between 1 and %d", s.opts.MaxDurationDays))
	}

	ctx, span := tracer.Start(ctx, "DietPlanService.GenerateDietPlan")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("plan.duration_days", duration))

	s.logger.Info("Generating diet plan",
		zap.String("user_id", userID),
		zap.Int("duration_days", duration),
	)

	lock, err := s.locker.Acquire(ctx, "diet-plan:generate:"+userID, s.opts.LockTTL)
	if err != nil {
		if stderrors.Is(err, outbound.ErrLockNotAcquired) {
			s.metrics.PlanGenerationFailed("locked")
			return nil, errors.NewResourceLockedError("diet plan generation")
		}
		return nil, errors.NewInternalError("failed to acquire plan generation lock").WithCause(err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to release plan generation lock", zap.String("user_id", userID), zap.Error(err))
		}
	}()

	dto, err := s.generate(ctx, userID, duration, cmd.PlanName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.PlanGenerationFailed(string(errors.GetCode(err)))
		s.logger.Error("Diet plan generation failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return dto, nil
}

func (s *Service) generate(ctx context.Context, userID string, duration int, planName string) (*inbound.DietPlanDTO, error) {
	repos := s.uow.Repositories()

	pref, err := repos.Preferences.FindLatestByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, diet.ErrPreferencesNotFound) {
			return nil, errors.NewPreferencesNotFoundError(userID)
		}
		return nil, errors.NewDatabaseError("find preferences", err)
	}

	profile, _, err := s.loadProfile(ctx, repos, userID)
	if err != nil {
		return nil, err
	}

	daily := diet.CalculateDailyCalories(profile, pref.Goal)

	lib, err := s.library.Library(ctx)
	if err != nil {
		return nil, err
	}

	sel, err := s.selector.Select(lib, daily, *pref)
	if sel != nil {
		s.metrics.RecipesRejected(sel.Rejected)
		for _, v := range sel.Rejected {
			s.logger.Debug("Recipe rejected",
				zap.String("recipe_id", v.RecipeID),
				zap.String("title", v.Title),
				zap.Strings("reasons", v.Reasons()),
			)
		}
	}
	if err != nil {
		if stderrors.Is(err, diet.ErrInsufficientRecipes) {
			return nil, errors.NewInsufficientRecipesError()
		}
		return nil, errors.Wrap(err, "failed to select recipes")
	}
	if sel.UsedFallback {
		s.logger.Warn("No compatible recipes, using fallback recipe",
			zap.String("user_id", userID),
			zap.String("recipe_id", sel.Accepted[0].ID),
		)
	}

	allocs, err := s.allocator.Allocate(sel.Pools, duration)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if len(allocs) == 0 {
		return nil, errors.NewInsufficientRecipesError()
	}

	now := s.clock.Now()
	plan, err := diet.NewDietPlan(userID, *pref, daily, duration, planName, now)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	var (
		entries  []diet.MealPlanEntry
		archived int64
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx outbound.Repositories) error {
		var err error
		if archived, err = tx.DietPlans.ArchiveActive(ctx, userID, now); err != nil {
			return fmt.Errorf("archive active plans: %w", err)
		}
		if plan.ID, err = tx.IDs.Next(ctx, diet.PrefixDietPlan); err != nil {
			return err
		}
		entries = diet.EntriesFromAllocations(plan.ID, allocs)
		for i := range entries {
			if entries[i].ID, err = tx.IDs.Next(ctx, diet.PrefixMealPlan); err != nil {
				return err
			}
		}
		return tx.DietPlans.Create(ctx, plan, entries)
	})
	if err != nil {
		return nil, errors.NewDatabaseError("store diet plan", err)
	}

	s.metrics.PlanGenerated(duration, len(entries), sel.UsedFallback)
	s.publish(ctx, diet.DietPlanGeneratedEvent{
		DietPlanID:    plan.ID,
		UserID:        userID,
		ArchivedPlans: archived,
		DailyCalories: daily,
		Meals:         len(entries),
		UsedFallback:  sel.UsedFallback,
		GeneratedAt:   now,
	})

	s.logger.Info("Diet plan generated",
		zap.String("user_id", userID),
		zap.String("diet_plan_id", plan.ID),
		zap.Int("daily_calories", daily),
		zap.Int("meals", len(entries)),
		zap.Int64("archived_plans", archived),
	)

	dto := inbound.NewDietPlanDTO(plan, entries)
	dto.UsedFallback = sel.UsedFallback
	return dto, nil
}

// GetUserDietPlans lists the user's plans, newest start date first
func (s *Service) GetUserDietPlans(ctx context.Context, userID string) ([]inbound.PlanHeaderDTO, error) {
	userID = diet.NormalizeUserID(userID)
	plans, err := s.uow.Repositories().DietPlans.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list diet plans", err)
	}

	out := make([]inbound.PlanHeaderDTO, len(plans))
	for i := range plans {
		out[i] = inbound.NewPlanHeaderDTO(&plans[i])
	}
	return out, nil
}

// GetDietPlanDetail returns a plan with its meals grouped by day
func (s *Service) GetDietPlanDetail(ctx context.Context, planID string) (*inbound.DietPlanDTO, error) {
	ctx, span := tracer.Start(ctx, "DietPlanService.GetDietPlanDetail")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", planID))

	repos := s.uow.Repositories()
	plan, err := repos.DietPlans.FindByID(ctx, planID)
	if err != nil {
		if stderrors.Is(err, diet.ErrDietPlanNotFound) {
			return nil, errors.NewDietPlanNotFoundError(planID)
		}
		return nil, errors.NewDatabaseError("find diet plan", err)
	}

	entries, err := repos.DietPlans.FindEntries(ctx, planID)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	return inbound.NewDietPlanDTO(plan, entries), nil
}

func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event", event.EventName()),
			zap.Error(err),
		)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
