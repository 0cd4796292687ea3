//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	gormRepo "github.com/fitlife/dietplanner/internal/infrastructure/persistence/gorm"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/fitlife/dietplanner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PostgresIntegrationTestSuite struct {
	suite.Suite
	ctx   context.Context
	uow   outbound.UnitOfWork
	repos outbound.Repositories
	now   time.Time
}

func (s *PostgresIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.uow = gormRepo.NewUnitOfWork(testutils.NewPostgresDB(s.T()))
	s.repos = s.uow.Repositories()
	s.now = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
}

func (s *PostgresIntegrationTestSuite) newPlan(userID string) (*diet.DietPlan, []diet.MealPlanEntry) {
	id, err := s.repos.IDs.Next(s.ctx, diet.PrefixDietPlan)
	require.NoError(s.T(), err)
	plan, err := diet.NewDietPlan(userID, diet.Preference{}, 2000, 7, "", s.now)
	require.NoError(s.T(), err)
	plan.ID = id

	entryID, err := s.repos.IDs.Next(s.ctx, diet.PrefixMealPlan)
	require.NoError(s.T(), err)
	return plan, []diet.MealPlanEntry{{ID: entryID, DietPlanID: id, DayNumber: 1, MealType: diet.MealBreakfast, RecipeID: "RCP001", ServingSize: 1, Calories: 436}}
}

func (s *PostgresIntegrationTestSuite) TestMigrations_ShouldSeedCatalog() {
	// Act
	recipes, err := s.repos.Catalog.ListRecipes(s.ctx)
	require.NoError(s.T(), err)
	ingredients, err := s.repos.Catalog.ListIngredients(s.ctx)
	require.NoError(s.T(), err)

	// Assert
	assert.Len(s.T(), ingredients, 40)
	assert.Len(s.T(), recipes, 47)
}

func (s *PostgresIntegrationTestSuite) TestActivePlanIndex_ShouldRejectSecondActivePlan() {
	// Arrange
	first, firstEntries := s.newPlan("U501")
	require.NoError(s.T(), s.repos.DietPlans.Create(s.ctx, first, firstEntries))
	second, secondEntries := s.newPlan("U501")

	// Act
	err := s.repos.DietPlans.Create(s.ctx, second, secondEntries)

	// Assert
	assert.Error(s.T(), err)
}

func (s *PostgresIntegrationTestSuite) TestRegenerate_ShouldArchiveInsideTransaction() {
	// Arrange
	first, firstEntries := s.newPlan("U502")
	require.NoError(s.T(), s.repos.DietPlans.Create(s.ctx, first, firstEntries))

	// Act
	err := s.uow.WithinTx(s.ctx, func(ctx context.Context, tx outbound.Repositories) error {
		if _, err := tx.DietPlans.ArchiveActive(ctx, "U502", s.now); err != nil {
			return err
		}
		id, err := tx.IDs.Next(ctx, diet.PrefixDietPlan)
		if err != nil {
			return err
		}
		plan, err := diet.NewDietPlan("U502", diet.Preference{}, 1800, 7, "", s.now)
		if err != nil {
			return err
		}
		plan.ID = id
		return tx.DietPlans.Create(ctx, plan, nil)
	})

	// Assert
	require.NoError(s.T(), err)
	plans, err := s.repos.DietPlans.FindByUserID(s.ctx, "U502")
	require.NoError(s.T(), err)
	require.Len(s.T(), plans, 2)
	active, err := s.repos.DietPlans.FindActiveByUserID(s.ctx, "U502")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1800, active.DailyCalories)
}

func TestPostgresIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationTestSuite))
}
