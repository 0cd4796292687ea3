// Package progress implements meal logging, daily progress tracking and the
// diet summary
package progress

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/domain/shared"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/fitlife/dietplanner/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const planHistoryLimit = 30

var tracer = otel.Tracer("github.com/fitlife/dietplanner/internal/application/progress")

// Service implements inbound.ProgressService
type Service struct {
	uow     outbound.UnitOfWork
	events  outbound.EventPublisher
	metrics outbound.Metrics
	clock   outbound.Clock
	logger  *zap.Logger
}

var _ inbound.ProgressService = (*Service)(nil)

// NewService creates a progress service
func NewService(
	uow outbound.UnitOfWork,
	events outbound.EventPublisher,
	metrics outbound.Metrics,
	clock outbound.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		uow:     uow,
		events:  events,
		metrics: metrics,
		clock:   clock,
		logger:  logger.Named("progress-service"),
	}
}

// LogMeal records a meal eaten now and adds it to today's progress row
func (s *Service) LogMeal(ctx context.Context, cmd inbound.LogMealCommand) (*inbound.LogMealResult, error) {
	userID := diet.NormalizeUserID(cmd.UserID)
	mealType, err := diet.ParseMealType(cmd.MealType)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	ctx, span := tracer.Start(ctx, "ProgressService.LogMeal")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("meal.type", string(mealType)))

	now := s.clock.Now()
	meal := &diet.LoggedMeal{
		UserID:    userID,
		MealType:  mealType,
		MealName:  cmd.MealName,
		Calories:  cmd.Calories,
		Notes:     cmd.Notes,
		CreatedAt: now,
	}
	if err := meal.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	var progress *diet.Progress
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx outbound.Repositories) error {
		planID, err := resolvePlanID(ctx, tx, userID, cmd.DietPlanID)
		if err != nil {
			return err
		}
		meal.DietPlanID = planID

		progress, err = tx.Progress.FindByUserAndDate(ctx, userID, now)
		switch {
		case stderrors.Is(err, diet.ErrProgressNotFound):
			progress = diet.NewProgress(userID, planID, now, now)
			progress.ApplyMeal(meal.Calories)
			if progress.ID, err = tx.IDs.Next(ctx, diet.PrefixProgress); err != nil {
				return err
			}
			if err := tx.Progress.Create(ctx, progress); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			progress.ApplyMeal(meal.Calories)
			if err := tx.Progress.Update(ctx, progress); err != nil {
				return err
			}
		}

		meal.ProgressID = progress.ID
		if meal.ID, err = tx.IDs.Next(ctx, diet.PrefixLoggedMeal); err != nil {
			return err
		}
		return tx.LoggedMeals.Create(ctx, meal)
	})
	if err != nil {
		span.RecordError(err)
		return nil, translate(err, "log meal")
	}

	s.metrics.MealLogged(mealType, meal.Calories)
	s.publish(ctx, diet.MealLoggedEvent{
		MealID:     meal.ID,
		UserID:     userID,
		DietPlanID: meal.DietPlanID,
		ProgressID: meal.ProgressID,
		Calories:   meal.Calories,
		LoggedAt:   now,
	})

	s.logger.Info("Meal logged",
		zap.String("user_id", userID),
		zap.String("meal_id", meal.ID),
		zap.String("progress_id", progress.ID),
		zap.Float64("calories", meal.Calories),
	)

	return &inbound.LogMealResult{
		MealID:     meal.ID,
		ProgressID: progress.ID,
		DietPlanID: meal.DietPlanID,
		Progress:   inbound.NewProgressDTO(progress),
	}, nil
}

// resolvePlanID checks a supplied plan id, or falls back to the user's most
// recently created plan.
func resolvePlanID(ctx context.Context, tx outbound.Repositories, userID, planID string) (string, error) {
	if planID != "" {
		if _, err := tx.DietPlans.FindByID(ctx, planID); err != nil {
			if stderrors.Is(err, diet.ErrDietPlanNotFound) {
				return "", errors.NewDietPlanNotFoundError(planID)
			}
			return "", err
		}
		return planID, nil
	}

	plan, err := tx.DietPlans.FindLatestByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, diet.ErrNoActiveDietPlan) {
			return "", errors.NewNoActiveDietPlanError(userID)
		}
		return "", err
	}
	return plan.ID, nil
}

// UpdateLoggedMeal patches a meal and rebuilds its day's progress
func (s *Service) UpdateLoggedMeal(ctx context.Context, mealID string, cmd inbound.UpdateLoggedMealCommand) error {
	patch := diet.LoggedMealPatch{
		MealType: cmd.MealType,
		MealName: cmd.MealName,
		Calories: cmd.Calories,
		Notes:    cmd.Notes,
	}
	if patch.IsEmpty() {
		return errors.NewValidationError(diet.ErrNoFieldsToUpdate.Error())
	}

	return s.mutateMeal(ctx, "update", mealID, func(ctx context.Context, tx outbound.Repositories, meal *diet.LoggedMeal) error {
		if err := patch.Apply(meal); err != nil {
			return errors.NewValidationError(err.Error())
		}
		return tx.LoggedMeals.Update(ctx, meal)
	})
}

// DeleteLoggedMeal removes a meal and rebuilds its day's progress
func (s *Service) DeleteLoggedMeal(ctx context.Context, mealID string) error {
	return s.mutateMeal(ctx, "delete", mealID, func(ctx context.Context, tx outbound.Repositories, meal *diet.LoggedMeal) error {
		return tx.LoggedMeals.Delete(ctx, meal.ID)
	})
}

// mutateMeal loads a meal, applies fn and recomputes the meal's date from the
// remaining rows, all in one transaction.
func (s *Service) mutateMeal(
	ctx context.Context,
	operation, mealID string,
	fn func(ctx context.Context, tx outbound.Repositories, meal *diet.LoggedMeal) error,
) error {
	ctx, span := tracer.Start(ctx, "ProgressService."+operation+"LoggedMeal")
	defer span.End()
	span.SetAttributes(attribute.String("meal.id", mealID))

	var progress *diet.Progress
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx outbound.Repositories) error {
		meal, err := tx.LoggedMeals.FindByID(ctx, mealID)
		if err != nil {
			if stderrors.Is(err, diet.ErrLoggedMealNotFound) {
				return errors.NewMealNotFoundError(mealID)
			}
			return err
		}
		if err := fn(ctx, tx, meal); err != nil {
			return err
		}
		progress, err = s.recompute(ctx, tx, meal.UserID, meal.LogDate())
		return err
	})
	if err != nil {
		span.RecordError(err)
		return translate(err, operation+" logged meal")
	}

	s.metrics.ProgressRecomputed(operation)
	s.publish(ctx, diet.ProgressRecomputedEvent{
		ProgressID:       progress.ID,
		UserID:           progress.UserID,
		Date:             diet.FormatDate(progress.Date),
		CaloriesConsumed: progress.CaloriesConsumed,
		MealsCompleted:   progress.MealsCompleted,
		RecomputedAt:     s.clock.Now(),
	})

	s.logger.Info("Logged meal changed, progress recomputed",
		zap.String("operation", operation),
		zap.String("meal_id", mealID),
		zap.String("progress_id", progress.ID),
		zap.Float64("calories_consumed", progress.CaloriesConsumed),
		zap.Int("meals_completed", progress.MealsCompleted),
	)
	return nil
}

// recompute rebuilds the user's progress row for date from its logged meals,
// creating the row against the latest plan when it does not exist.
func (s *Service) recompute(ctx context.Context, tx outbound.Repositories, userID string, date time.Time) (*diet.Progress, error) {
	meals, err := tx.LoggedMeals.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	progress, err := tx.Progress.FindByUserAndDate(ctx, userID, date)
	switch {
	case stderrors.Is(err, diet.ErrProgressNotFound):
		plan, err := tx.DietPlans.FindLatestByUserID(ctx, userID)
		if err != nil {
			if stderrors.Is(err, diet.ErrNoActiveDietPlan) {
				return nil, errors.NewNoActiveDietPlanError(userID)
			}
			return nil, err
		}
		progress = diet.NewProgress(userID, plan.ID, date, s.clock.Now())
		progress.RecomputeTotals(meals)
		if progress.ID, err = tx.IDs.Next(ctx, diet.PrefixProgress); err != nil {
			return nil, err
		}
		return progress, tx.Progress.Create(ctx, progress)
	case err != nil:
		return nil, err
	}

	progress.RecomputeTotals(meals)
	return progress, tx.Progress.Update(ctx, progress)
}

// GetLoggedMealsByDate returns the user's meals grouped by date, newest first
func (s *Service) GetLoggedMealsByDate(ctx context.Context, userID string) ([]inbound.LoggedMealDayDTO, error) {
	userID = diet.NormalizeUserID(userID)
	meals, err := s.uow.Repositories().LoggedMeals.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list logged meals", err)
	}

	days := diet.GroupMealsByDate(meals)
	out := make([]inbound.LoggedMealDayDTO, len(days))
	for i, d := range days {
		out[i] = inbound.LoggedMealDayDTO{Date: diet.FormatDate(d.Date), Meals: make([]inbound.LoggedMealDTO, len(d.Meals))}
		for j, m := range d.Meals {
			out[i].Meals[j] = inbound.NewLoggedMealDTO(m)
		}
	}
	return out, nil
}

// GetProgressForDate returns the stored row for the date, or a zero snapshot
func (s *Service) GetProgressForDate(ctx context.Context, userID string, date time.Time) (*inbound.ProgressDTO, error) {
	userID = diet.NormalizeUserID(userID)
	progress, err := s.uow.Repositories().Progress.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		if stderrors.Is(err, diet.ErrProgressNotFound) {
			dto := inbound.EmptyProgressDTO(userID, date)
			return &dto, nil
		}
		return nil, errors.NewDatabaseError("find progress", err)
	}
	dto := inbound.NewProgressDTO(progress)
	return &dto, nil
}

// LogDailyProgress records weight and notes on the user's row for today.
// Meal totals are always derived from logged meals.
func (s *Service) LogDailyProgress(ctx context.Context, cmd inbound.ManualProgressCommand) (*inbound.ProgressDTO, error) {
	userID := diet.NormalizeUserID(cmd.UserID)
	now := s.clock.Now()

	var progress *diet.Progress
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx outbound.Repositories) error {
		planID, err := resolvePlanID(ctx, tx, userID, cmd.DietPlanID)
		if err != nil {
			return err
		}

		progress, err = tx.Progress.FindByUserAndDate(ctx, userID, now)
		create := stderrors.Is(err, diet.ErrProgressNotFound)
		if err != nil && !create {
			return err
		}
		if create {
			meals, err := tx.LoggedMeals.FindByUserAndDate(ctx, userID, now)
			if err != nil {
				return err
			}
			progress = diet.NewProgress(userID, planID, now, now)
			progress.RecomputeTotals(meals)
			if progress.ID, err = tx.IDs.Next(ctx, diet.PrefixProgress); err != nil {
				return err
			}
		}

		if cmd.Weight != nil {
			w := *cmd.Weight
			progress.Weight = &w
		}
		if cmd.Notes != nil {
			progress.Notes = *cmd.Notes
		}

		if create {
			return tx.Progress.Create(ctx, progress)
		}
		return tx.Progress.Update(ctx, progress)
	})
	if err != nil {
		return nil, translate(err, "log daily progress")
	}

	s.logger.Info("Daily progress recorded",
		zap.String("user_id", userID),
		zap.String("progress_id", progress.ID),
	)
	dto := inbound.NewProgressDTO(progress)
	return &dto, nil
}

// GetPlanProgressHistory returns the 30 most recent progress rows of a plan
func (s *Service) GetPlanProgressHistory(ctx context.Context, planID string) ([]inbound.ProgressDTO, error) {
	repos := s.uow.Repositories()
	if _, err := repos.DietPlans.FindByID(ctx, planID); err != nil {
		if stderrors.Is(err, diet.ErrDietPlanNotFound) {
			return nil, errors.NewDietPlanNotFoundError(planID)
		}
		return nil, errors.NewDatabaseError("find diet plan", err)
	}

	rows, err := repos.Progress.FindByPlan(ctx, planID, planHistoryLimit)
	if err != nil {
		return nil, errors.NewDatabaseError("list plan progress", err)
	}

	out := make([]inbound.ProgressDTO, len(rows))
	for i := range rows {
		out[i] = inbound.NewProgressDTO(&rows[i])
	}
	return out, nil
}

// GetDietSummary rolls up the user's Active plan
func (s *Service) GetDietSummary(ctx context.Context, userID string) (*inbound.DietSummaryDTO, error) {
	userID = diet.NormalizeUserID(userID)
	ctx, span := tracer.Start(ctx, "ProgressService.GetDietSummary")
	defer span.End()

	repos := s.uow.Repositories()

	var (
		plan *diet.DietPlan
		rows []diet.Progress
	)
	plan, err := repos.DietPlans.FindActiveByUserID(ctx, userID)
	switch {
	case stderrors.Is(err, diet.ErrNoActiveDietPlan):
		plan = nil
	case err != nil:
		return nil, errors.NewDatabaseError("find active plan", err)
	default:
		if rows, err = repos.Progress.FindByPlan(ctx, plan.ID, 0); err != nil {
			return nil, errors.NewDatabaseError("list plan progress", err)
		}
	}

	last, err := repos.LoggedMeals.FindLatestByUserID(ctx, userID)
	switch {
	case stderrors.Is(err, diet.ErrLoggedMealNotFound):
		last = nil
	case err != nil:
		return nil, errors.NewDatabaseError("find last logged meal", err)
	}

	return inbound.NewDietSummaryDTO(diet.Summarize(plan, rows, last, s.clock.Now())), nil
}

func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event", event.EventName()),
			zap.Error(err),
		)
	}
}

// translate keeps application errors raised inside a transaction and maps
// anything else to a database error.
func translate(err error, operation string) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.NewDatabaseError(operation, err)
}
