package dietplan_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fitlife/dietplanner/internal/application/catalog"
	"github.com/fitlife/dietplanner/internal/application/dietplan"
	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/infrastructure/monitoring"
	gormRepo "github.com/fitlife/dietplanner/internal/infrastructure/persistence/gorm"
	"github.com/fitlife/dietplanner/internal/infrastructure/persistence/memory"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/fitlife/dietplanner/pkg/errors"
	"github.com/fitlife/dietplanner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DietPlanServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	locker  *memory.Locker
	events  *testutils.RecordingPublisher
	clock   *testutils.FixedClock
	factory *testutils.Factory
	service *dietplan.Service
}

func (s *DietPlanServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutils.NewSQLiteDB(s.T())
	s.locker = memory.NewLocker()
	s.events = &testutils.RecordingPublisher{}
	s.clock = testutils.NewFixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	s.factory = testutils.NewFactory(42)
	s.service = s.newService(s.db)
}

func (s *DietPlanServiceTestSuite) newService(db *gorm.DB) *dietplan.Service {
	logger := zap.NewNop()
	library := catalog.NewService(gormRepo.NewCatalogRepository(db), memory.NewCacheRepository(), monitoring.NopMetrics{}, catalog.Options{}, logger)
	return dietplan.NewService(
		gormRepo.NewUnitOfWork(db),
		library,
		s.locker,
		s.events,
		monitoring.NopMetrics{},
		s.clock,
		dietplan.Options{RandomSeed: 7},
		logger,
	)
}

// givenUser stores the reference profile (70kg, 170cm, 30, male) and preferences
func (s *DietPlanServiceTestSuite) givenUser(userID, dietType, goal string, allergies ...string) {
	_, err := s.service.UpsertProfile(s.ctx, inbound.UpsertProfileCommand{
		UserID: userID, Age: 30, Gender: "male", WeightKg: 70, HeightCm: 170,
	})
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.service.UpdateDietaryPreferences(s.ctx, s.factory.Preferences(userID, dietType, goal, allergies...)))
}

func (s *DietPlanServiceTestSuite) TestCalculateDailyCalories() {
	s.Run("ReferenceProfile_ShouldReturn2094ForWeightLoss", func() {
		// Arrange
		profile := diet.Profile{Age: 30, Gender: diet.GenderMale, WeightKg: 70, HeightCm: 170}

		// Act
		calories := s.service.CalculateDailyCalories(profile, "weight loss")

		// Assert
		assert.Equal(s.T(), 2094, calories)
	})

	s.Run("EstimateWithoutProfile_ShouldUseDefaults", func() {
		// Act
		estimate, err := s.service.EstimateDailyCalories(s.ctx, "U900")

		// Assert
		require.NoError(s.T(), err)
		assert.False(s.T(), estimate.ProfileComplete)
		assert.Equal(s.T(), diet.DefaultGoal, estimate.Goal)
		assert.Equal(s.T(), 2094, estimate.DailyCalories)
		assert.Equal(s.T(), 698, estimate.CaloriesPerMeal)
		assert.InDelta(s.T(), 1673.75, estimate.BMR, 0.001)
	})
}

func (s *DietPlanServiceTestSuite) TestGenerateDietPlan() {
	s.Run("WithoutPreferences_ShouldFail", func() {
		// Act
		plan, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U100"})

		// Assert
		assert.Nil(s.T(), plan)
		assert.True(s.T(), errors.Is(err, errors.CodePreferencesNotFound))
	})

	s.Run("DefaultDuration_ShouldProduceSevenDays", func() {
		// Arrange
		s.givenUser("U101", "none", "weight loss")

		// Act
		plan, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U101"})

		// Assert
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "General - Weight Loss Plan", plan.PlanName)
		assert.Equal(s.T(), string(diet.PlanActive), plan.Status)
		assert.Equal(s.T(), 2094, plan.DailyCalories)
		assert.Equal(s.T(), "2024-03-10", plan.StartDate)
		assert.Equal(s.T(), "2024-03-17", plan.EndDate)
		assert.False(s.T(), plan.UsedFallback)

		require.Len(s.T(), plan.MealPlan, 7)
		for i, day := range plan.MealPlan {
			assert.Equal(s.T(), i+1, day.Day)
			assert.NotEmpty(s.T(), day.Meals, "day %d should have meals", day.Day)
			for _, meal := range day.Meals {
				require.NotNil(s.T(), meal.Recipe)
				assert.LessOrEqual(s.T(), meal.Recipe.NutritionInfo.Calories, 600.0)
			}
		}
		assert.Contains(s.T(), s.events.Names(), "diet.plan_generated")
	})

	s.Run("Regenerate_ShouldArchivePreviousPlan", func() {
		// Arrange
		s.givenUser("U102", "vegetarian", "maintenance")
		first, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U102"})
		require.NoError(s.T(), err)

		// Act
		second, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U102", DurationDays: 3})

		// Assert
		require.NoError(s.T(), err)
		assert.NotEqual(s.T(), first.DietPlanID, second.DietPlanID)
		assert.Len(s.T(), second.MealPlan, 3)

		plans, err := s.service.GetUserDietPlans(s.ctx, "U102")
		require.NoError(s.T(), err)
		require.Len(s.T(), plans, 2)

		statuses := map[string]string{}
		for _, p := range plans {
			statuses[p.DietPlanID] = p.Status
		}
		assert.Equal(s.T(), string(diet.PlanArchived), statuses[first.DietPlanID])
		assert.Equal(s.T(), string(diet.PlanActive), statuses[second.DietPlanID])
	})

	s.Run("StoreFailsAfterArchive_ShouldKeepPreviousPlanActive", func() {
		// Arrange
		s.givenUser("U106", "none", "maintenance")
		first, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U106"})
		require.NoError(s.T(), err)

		failing := &testutils.FailingDietPlanCreate{}
		uow := &testutils.InterceptingUnitOfWork{
			UnitOfWork: gormRepo.NewUnitOfWork(s.db),
			Intercept: func(repos outbound.Repositories) outbound.Repositories {
				failing.DietPlanRepository = repos.DietPlans
				repos.DietPlans = failing
				return repos
			},
		}
		logger := zap.NewNop()
		library := catalog.NewService(gormRepo.NewCatalogRepository(s.db), memory.NewCacheRepository(), monitoring.NopMetrics{}, catalog.Options{}, logger)
		service := dietplan.NewService(uow, library, s.locker, s.events, monitoring.NopMetrics{}, s.clock, dietplan.Options{RandomSeed: 7}, logger)

		// Act
		_, err = service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U106"})

		// Assert
		assert.True(s.T(), errors.Is(err, errors.CodeDatabaseError))
		assert.Equal(s.T(), int64(1), failing.Archived, "archive should have run inside the failed transaction")

		plans, err := s.service.GetUserDietPlans(s.ctx, "U106")
		require.NoError(s.T(), err)
		require.Len(s.T(), plans, 1)
		assert.Equal(s.T(), first.DietPlanID, plans[0].DietPlanID)
		assert.Equal(s.T(), string(diet.PlanActive), plans[0].Status)
	})

	s.Run("VeganPreference_ShouldExcludeAnimalProducts", func() {
		// Arrange
		s.givenUser("U103", "vegan", "weight loss")
		restricted := map[string]bool{}
		for _, name := range diet.RestrictedIngredients(diet.DietVegan) {
			restricted[name] = true
		}

		// Act
		plan, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U103"})

		// Assert
		require.NoError(s.T(), err)
		assert.False(s.T(), plan.UsedFallback)
		for _, day := range plan.MealPlan {
			for _, meal := range day.Meals {
				for _, ing := range meal.Recipe.Ingredients {
					assert.False(s.T(), restricted[diet.NormalizeName(ing)], "%s contains %s", meal.Recipe.Title, ing)
				}
			}
		}
	})

	s.Run("NothingCompatible_ShouldUseFallbackRecipe", func() {
		// Arrange
		_, err := s.service.UpsertProfile(s.ctx, inbound.UpsertProfileCommand{
			UserID: "U104", Age: 20, Gender: "male", WeightKg: 200, HeightCm: 250,
		})
		require.NoError(s.T(), err)
		require.NoError(s.T(), s.service.UpdateDietaryPreferences(s.ctx, s.factory.Preferences("U104", "none", "muscle gain")))

		// Act
		plan, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U104", DurationDays: 2})

		// Assert
		require.NoError(s.T(), err)
		assert.True(s.T(), plan.UsedFallback)
		require.Len(s.T(), plan.MealPlan, 2)
		for _, day := range plan.MealPlan {
			for _, meal := range day.Meals {
				assert.Equal(s.T(), diet.DefaultFallbackRecipeID, meal.Recipe.RecipeID)
			}
		}
	})

	s.Run("DurationOutOfRange_ShouldFailValidation", func() {
		// Arrange
		s.givenUser("U105", "none", "")

		// Act
		_, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U105", DurationDays: 365})

		// Assert
		assert.True(s.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	s.Run("GenerationInProgress_ShouldReportLocked", func() {
		// Arrange
		s.givenUser("U106", "none", "")
		lock, err := s.locker.Acquire(s.ctx, "diet-plan:generate:U106", time.Minute)
		require.NoError(s.T(), err)
		defer lock.Release(s.ctx)

		// Act
		_, err = s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U106"})

		// Assert
		assert.True(s.T(), errors.Is(err, errors.CodeResourceLocked))
	})

	s.Run("NumericUserID_ShouldBeNormalized", func() {
		// Arrange
		s.givenUser("U007", "none", "")

		// Act
		plan, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "7", DurationDays: 1})

		// Assert
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "U007", plan.UserID)
	})
}

func (s *DietPlanServiceTestSuite) TestGenerateDietPlan_EmptyLibrary() {
	// Arrange
	db := testutils.NewEmptySQLiteDB(s.T())
	svc := s.newService(db)
	_, err := svc.UpsertProfile(s.ctx, inbound.UpsertProfileCommand{UserID: "U200", Age: 40, Gender: "female", WeightKg: 60, HeightCm: 165})
	require.NoError(s.T(), err)
	require.NoError(s.T(), svc.UpdateDietaryPreferences(s.ctx, s.factory.Preferences("U200", "none", "")))

	// Act
	_, err = svc.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U200"})

	// Assert
	assert.True(s.T(), errors.Is(err, errors.CodeInsufficientRecipes))
}

func (s *DietPlanServiceTestSuite) TestGetDietPlanDetail() {
	s.Run("UnknownPlan_ShouldReturnNotFound", func() {
		// Act
		_, err := s.service.GetDietPlanDetail(s.ctx, "DPL999")

		// Assert
		assert.True(s.T(), errors.Is(err, errors.CodeDietPlanNotFound))
	})

	s.Run("StoredPlan_ShouldRoundTripMeals", func() {
		// Arrange
		s.givenUser("U110", "pescatarian", "maintenance")
		generated, err := s.service.GenerateDietPlan(s.ctx, inbound.GenerateDietPlanCommand{UserID: "U110", DurationDays: 2})
		require.NoError(s.T(), err)

		// Act
		stored, err := s.service.GetDietPlanDetail(s.ctx, generated.DietPlanID)

		// Assert
		require.NoError(s.T(), err)
		assert.Equal(s.T(), generated.PlanName, stored.PlanName)
		require.Len(s.T(), stored.MealPlan, len(generated.MealPlan))
		for i := range stored.MealPlan {
			assert.Equal(s.T(), fmt.Sprintf("Day %d", i+1), stored.MealPlan[i].Label)
			require.Len(s.T(), stored.MealPlan[i].Meals, len(generated.MealPlan[i].Meals))
			for j, meal := range stored.MealPlan[i].Meals {
				assert.Equal(s.T(), generated.MealPlan[i].Meals[j].MealPlanID, meal.MealPlanID)
				require.NotNil(s.T(), meal.Recipe)
				assert.Equal(s.T(), generated.MealPlan[i].Meals[j].Recipe.RecipeID, meal.Recipe.RecipeID)
			}
		}
	})
}

func (s *DietPlanServiceTestSuite) TestDietaryPreferences() {
	s.Run("FirstUpdate_ShouldCreatePreferenceSet", func() {
		// Arrange
		likes := []inbound.IngredientPreferenceInput{
			{IngredientName: "salmon", PreferenceType: "like"},
			{IngredientName: "Broccoli", PreferenceType: "dislike"},
		}
		cmd := s.factory.Preferences("U120", "Pescatarian", "Weight Loss", "Nuts", " nuts ", "")
		cmd.IngredientPreferences = &likes

		// Act
		err := s.service.UpdateDietaryPreferences(s.ctx, cmd)

		// Assert
		require.NoError(s.T(), err)
		pref, err := s.service.GetDietaryPreferences(s.ctx, "U120")
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "pescatarian", pref.DietType)
		assert.Equal(s.T(), "Weight Loss", pref.DietaryGoal)
		assert.Len(s.T(), pref.Allergies, 1)
		require.Len(s.T(), pref.IngredientPreferences, 2)
	})

	s.Run("PartialUpdate_ShouldKeepOtherFields", func() {
		// Arrange
		s.givenUser("U121", "vegan", "maintenance", "Soy")
		goal := "muscle gain"

		// Act
		err := s.service.UpdateDietaryPreferences(s.ctx, inbound.UpdatePreferencesCommand{UserID: "U121", DietaryGoal: &goal})

		// Assert
		require.NoError(s.T(), err)
		pref, err := s.service.GetDietaryPreferences(s.ctx, "U121")
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "vegan", pref.DietType)
		assert.Equal(s.T(), "muscle gain", pref.DietaryGoal)
		assert.Equal(s.T(), []string{"Soy"}, pref.Allergies)
	})

	s.Run("UnknownIngredient_ShouldFail", func() {
		// Arrange
		items := []inbound.IngredientPreferenceInput{{IngredientName: "Unobtainium", PreferenceType: "like"}}

		// Act
		err := s.service.UpdateDietaryPreferences(s.ctx, inbound.UpdatePreferencesCommand{UserID: "U122", IngredientPreferences: &items})

		// Assert
		assert.True(s.T(), errors.Is(err, errors.CodeIngredientNotFound))
		_, err = s.service.GetDietaryPreferences(s.ctx, "U122")
		assert.True(s.T(), errors.Is(err, errors.CodePreferencesNotFound), "failed update should not leave a preference set behind")
	})

	s.Run("InvalidDietType_ShouldFailValidation", func() {
		// Arrange
		dietType := "carnivore"

		// Act
		err := s.service.UpdateDietaryPreferences(s.ctx, inbound.UpdatePreferencesCommand{UserID: "U123", DietType: &dietType})

		// Assert
		assert.True(s.T(), errors.Is(err, errors.CodeValidationFailed))
	})
}

func (s *DietPlanServiceTestSuite) TestUpsertProfile() {
	s.Run("ValidProfile_ShouldComputeBMI", func() {
		// Act
		profile, err := s.service.UpsertProfile(s.ctx, inbound.UpsertProfileCommand{
			UserID: "U130", Age: 30, Gender: "Male", WeightKg: 70, HeightCm: 175,
		})

		// Assert
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "male", profile.Gender)
		assert.InDelta(s.T(), 22.86, profile.BMI, 0.001)
	})

	s.Run("UnknownGender_ShouldFailValidation", func() {
		// Act
		_, err := s.service.UpsertProfile(s.ctx, inbound.UpsertProfileCommand{
			UserID: "U131", Age: 30, Gender: "other", WeightKg: 70, HeightCm: 175,
		})

		// Assert
		assert.True(s.T(), errors.Is(err, errors.CodeValidationFailed))
	})

	s.Run("RandomProfiles_ShouldStayAboveCalorieFloor", func() {
		for i := 0; i < 10; i++ {
			// Arrange
			cmd := s.factory.Profile(s.factory.UserID())
			_, err := s.service.UpsertProfile(s.ctx, cmd)
			require.NoError(s.T(), err)

			// Act
			estimate, err := s.service.EstimateDailyCalories(s.ctx, cmd.UserID)

			// Assert
			require.NoError(s.T(), err)
			assert.True(s.T(), estimate.ProfileComplete)
			assert.GreaterOrEqual(s.T(), estimate.DailyCalories, diet.FemaleCalorieFloor)
		}
	})
}

func TestDietPlanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DietPlanServiceTestSuite))
}
