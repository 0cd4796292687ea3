package testutils

import (
	"context"
	"errors"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
)

// ErrInjected is returned by the failing repositories below
var ErrInjected = errors.New("injected failure")

// InterceptingUnitOfWork runs transactions on the wrapped unit of work and
// lets a test swap repositories inside them
type InterceptingUnitOfWork struct {
	outbound.UnitOfWork
	Intercept func(repos outbound.Repositories) outbound.Repositories
}

// WithinTx delegates to the wrapped unit of work after applying Intercept
func (u *InterceptingUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos outbound.Repositories) error) error {
	return u.UnitOfWork.WithinTx(ctx, func(ctx context.Context, repos outbound.Repositories) error {
		if u.Intercept != nil {
			repos = u.Intercept(repos)
		}
		return fn(ctx, repos)
	})
}

// FailingDietPlanCreate fails Create after the other methods have run
type FailingDietPlanCreate struct {
	outbound.DietPlanRepository
	Archived int64
}

func (r *FailingDietPlanCreate) ArchiveActive(ctx context.Context, userID string, today time.Time) (int64, error) {
	n, err := r.DietPlanRepository.ArchiveActive(ctx, userID, today)
	r.Archived += n
	return n, err
}

func (r *FailingDietPlanCreate) Create(ctx context.Context, plan *diet.DietPlan, entries []diet.MealPlanEntry) error {
	return ErrInjected
}

// FailingLoggedMealCreate fails Create so the surrounding transaction rolls back
type FailingLoggedMealCreate struct {
	outbound.LoggedMealRepository
}

func (r *FailingLoggedMealCreate) Create(ctx context.Context, meal *diet.LoggedMeal) error {
	return ErrInjected
}

var (
	_ outbound.UnitOfWork           = (*InterceptingUnitOfWork)(nil)
	_ outbound.DietPlanRepository   = (*FailingDietPlanCreate)(nil)
	_ outbound.LoggedMealRepository = (*FailingLoggedMealCreate)(nil)
)
