package apiserver_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitlife/dietplanner/internal/infrastructure/config"
	"github.com/fitlife/dietplanner/internal/infrastructure/http/apiserver"
	"github.com/fitlife/dietplanner/internal/infrastructure/http/handlers"
	"github.com/fitlife/dietplanner/internal/infrastructure/monitoring"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/pkg/errors"
	"github.com/fitlife/dietplanner/pkg/healthcheck"
	"github.com/fitlife/dietplanner/test/testutils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type ServerTestSuite struct {
	suite.Suite
	dietPlans *testutils.MockDietPlanService
	progress  *testutils.MockProgressService
	catalog   *testutils.MockCatalogService
	handler   http.Handler
}

func (s *ServerTestSuite) SetupTest() {
	cfg, err := config.Load("")
	require.NoError(s.T(), err)
	cfg.RateLimit.Enable = false

	s.dietPlans = &testutils.MockDietPlanService{}
	s.progress = &testutils.MockProgressService{}
	s.catalog = &testutils.MockCatalogService{}

	log := zaptest.NewLogger(s.T())
	h := handlers.NewAPIHandlers(s.dietPlans, s.progress, s.catalog, log)
	metrics := monitoring.NewMetricsCollectorWithRegistry(prometheus.NewRegistry(), log)
	health := healthcheck.New("test", log)

	s.handler = apiserver.NewServer(cfg, log, h, metrics, health).Handler()
}

func (s *ServerTestSuite) TearDownTest() {
	s.dietPlans.AssertExpectations(s.T())
	s.progress.AssertExpectations(s.T())
	s.catalog.AssertExpectations(s.T())
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) TestGenerateDietPlan() {
	s.Run("ValidRequest_ShouldReturnCreated", func() {
		// Arrange
		plan := &inbound.DietPlanDTO{
			PlanHeaderDTO: inbound.PlanHeaderDTO{DietPlanID: "DPL001", UserID: "U001", PlanName: "General - Weight Loss Plan", Status: "Active"},
			MealPlan:      []inbound.PlanDayDTO{{Day: 1, Label: "Day 1"}},
		}
		s.dietPlans.On("GenerateDietPlan", mock.Anything, inbound.GenerateDietPlanCommand{UserID: "U001", DurationDays: 7}).
			Return(plan, nil).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/v1/diet-plans", `{"user_id":"U001","duration_days":7}`)

		// Assert
		var got inbound.DietPlanDTO
		env := testutils.AssertSuccess(s.T(), rec, http.StatusCreated, &got)
		assert.Equal(s.T(), "DPL001", got.DietPlanID)
		assert.Equal(s.T(), "Day 1", got.MealPlan[0].Label)
		assert.Equal(s.T(), "Diet plan generated successfully", env.Message)
	})

	s.Run("MissingUserID_ShouldFailValidation", func() {
		// Act
		rec := s.do(http.MethodPost, "/api/v1/diet-plans", `{"duration_days":7}`)

		// Assert
		env := testutils.AssertError(s.T(), rec, http.StatusBadRequest, string(errors.CodeValidationFailed))
		assert.Contains(s.T(), env.Error.Details, "user_id")
	})

	s.Run("MalformedJSON_ShouldReturnBadRequest", func() {
		// Act
		rec := s.do(http.MethodPost, "/api/v1/diet-plans", `{"user_id":`)

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusBadRequest, string(errors.CodeBadRequest))
	})

	s.Run("NonJSONContentType_ShouldReturnBadRequest", func() {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, "/api/v1/diet-plans", strings.NewReader("user_id=U001"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		// Act
		s.handler.ServeHTTP(rec, req)

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusBadRequest, string(errors.CodeBadRequest))
	})

	s.Run("NoPreferences_ShouldReturnNotFound", func() {
		// Arrange
		s.dietPlans.On("GenerateDietPlan", mock.Anything, inbound.GenerateDietPlanCommand{UserID: "U404"}).
			Return(nil, errors.NewPreferencesNotFoundError("U404")).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/v1/diet-plans", `{"user_id":"U404"}`)

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusNotFound, string(errors.CodePreferencesNotFound))
	})

	s.Run("GenerationInProgress_ShouldReturnConflict", func() {
		// Arrange
		s.dietPlans.On("GenerateDietPlan", mock.Anything, inbound.GenerateDietPlanCommand{UserID: "U002"}).
			Return(nil, errors.NewResourceLockedError("diet plan for U002")).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/v1/diet-plans", `{"user_id":"U002"}`)

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusConflict, string(errors.CodeResourceLocked))
	})
}

func (s *ServerTestSuite) TestDietPlanLookups() {
	s.Run("UnknownPlan_ShouldReturnNotFound", func() {
		// Arrange
		s.dietPlans.On("GetDietPlanDetail", mock.Anything, "DPL999").
			Return(nil, errors.NewDietPlanNotFoundError("DPL999")).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/v1/diet-plans/DPL999", "")

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusNotFound, string(errors.CodeDietPlanNotFound))
	})

	s.Run("UserPlans_ShouldListHeaders", func() {
		// Arrange
		s.dietPlans.On("GetUserDietPlans", mock.Anything, "U001").
			Return([]inbound.PlanHeaderDTO{{DietPlanID: "DPL002"}, {DietPlanID: "DPL001"}}, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/v1/users/U001/diet-plans", "")

		// Assert
		var got []inbound.PlanHeaderDTO
		testutils.AssertSuccess(s.T(), rec, http.StatusOK, &got)
		require.Len(s.T(), got, 2)
		assert.Equal(s.T(), "DPL002", got[0].DietPlanID)
	})

	s.Run("UnexpectedError_ShouldBeHiddenBehind500", func() {
		// Arrange
		s.dietPlans.On("GetUserDietPlans", mock.Anything, "U500").
			Return(nil, assert.AnError).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/v1/users/U500/diet-plans", "")

		// Assert
		env := testutils.AssertError(s.T(), rec, http.StatusInternalServerError, string(errors.CodeInternal))
		assert.NotContains(s.T(), env.Error.Message, assert.AnError.Error())
	})
}

func (s *ServerTestSuite) TestPreferencesAndProfile() {
	s.Run("UpdatePreferences_ShouldTakeUserFromPath", func() {
		// Arrange
		s.dietPlans.On("UpdateDietaryPreferences", mock.Anything, mock.MatchedBy(func(cmd inbound.UpdatePreferencesCommand) bool {
			return cmd.UserID == "U003" && cmd.DietType != nil && *cmd.DietType == "vegan" && cmd.DietaryGoal == nil
		})).Return(nil).Once()

		// Act
		rec := s.do(http.MethodPut, "/api/v1/users/U003/preferences", `{"diet_type":"vegan"}`)

		// Assert
		testutils.AssertSuccess(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("UnknownDietType_ShouldFailValidation", func() {
		// Act
		rec := s.do(http.MethodPut, "/api/v1/users/U003/preferences", `{"diet_type":"carnivore"}`)

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusBadRequest, string(errors.CodeValidationFailed))
	})

	s.Run("UpsertProfile_OutOfRangeAge_ShouldFailValidation", func() {
		// Act
		rec := s.do(http.MethodPut, "/api/v1/users/U003/profile", `{"age":0,"gender":"male","weight":70,"height":170}`)

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusBadRequest, string(errors.CodeValidationFailed))
	})
}

func (s *ServerTestSuite) TestMealsAndProgress() {
	s.Run("LogMeal_ShouldReturnCreated", func() {
		// Arrange
		s.progress.On("LogMeal", mock.Anything, mock.MatchedBy(func(cmd inbound.LogMealCommand) bool {
			return cmd.UserID == "U001" && cmd.MealType == "Lunch" && cmd.Calories == 436
		})).Return(&inbound.LogMealResult{MealID: "LM001", ProgressID: "PRG001", DietPlanID: "DPL001"}, nil).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/v1/meals", `{"user_id":"U001","meal_type":"Lunch","meal_name":"Grilled Chicken Bowl","calories":436}`)

		// Assert
		var got inbound.LogMealResult
		testutils.AssertSuccess(s.T(), rec, http.StatusCreated, &got)
		assert.Equal(s.T(), "LM001", got.MealID)
		assert.Equal(s.T(), "PRG001", got.ProgressID)
	})

	s.Run("LogMeal_NoActivePlan_ShouldReturnNotFound", func() {
		// Arrange
		s.progress.On("LogMeal", mock.Anything, mock.MatchedBy(func(cmd inbound.LogMealCommand) bool {
			return cmd.UserID == "U404"
		})).Return(nil, errors.NewNoActiveDietPlanError("U404")).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/v1/meals", `{"user_id":"U404","meal_type":"Snack","meal_name":"Apple","calories":95}`)

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusNotFound, string(errors.CodeNoActiveDietPlan))
	})

	s.Run("LogMeal_NegativeCalories_ShouldFailValidation", func() {
		// Act
		rec := s.do(http.MethodPost, "/api/v1/meals", `{"user_id":"U001","meal_type":"Snack","meal_name":"Apple","calories":-1}`)

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusBadRequest, string(errors.CodeValidationFailed))
	})

	s.Run("DeleteMeal_ShouldPassPathParam", func() {
		// Arrange
		s.progress.On("DeleteLoggedMeal", mock.Anything, "LM007").Return(nil).Once()

		// Act
		rec := s.do(http.MethodDelete, "/api/v1/meals/LM007", "")

		// Assert
		testutils.AssertSuccess(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("ProgressForDate_BadDate_ShouldReturnBadRequest", func() {
		// Act
		rec := s.do(http.MethodGet, "/api/v1/users/U001/progress/10-03-2024", "")

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusBadRequest, string(errors.CodeBadRequest))
	})

	s.Run("ProgressForDate_ShouldParseDate", func() {
		// Arrange
		want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		s.progress.On("GetProgressForDate", mock.Anything, "U001", mock.MatchedBy(func(d time.Time) bool {
			return d.Equal(want)
		})).Return(&inbound.ProgressDTO{UserID: "U001"}, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/v1/users/U001/progress/2024-03-10", "")

		// Assert
		testutils.AssertSuccess(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *ServerTestSuite) TestCatalog() {
	s.Run("RecipeCalories_MissingTitle_ShouldReturnBadRequest", func() {
		// Act
		rec := s.do(http.MethodGet, "/api/v1/recipes/calories", "")

		// Assert
		testutils.AssertError(s.T(), rec, http.StatusBadRequest, string(errors.CodeBadRequest))
	})

	s.Run("Suggestions_ShouldForwardQuery", func() {
		// Arrange
		s.catalog.On("SuggestMealNames", mock.Anything, "bowl").Return([]string{"Grilled Chicken Bowl"}, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/v1/meals/suggestions?q=bowl", "")

		// Assert
		var got []string
		testutils.AssertSuccess(s.T(), rec, http.StatusOK, &got)
		assert.Equal(s.T(), []string{"Grilled Chicken Bowl"}, got)
	})
}

func (s *ServerTestSuite) TestOperationalEndpoints() {
	s.Run("Live_ShouldReturnOK", func() {
		// Act
		rec := s.do(http.MethodGet, "/live", "")

		// Assert
		assert.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Contains(s.T(), rec.Body.String(), "alive")
	})

	s.Run("Health_WithoutCheckers_ShouldReturnOK", func() {
		// Act
		rec := s.do(http.MethodGet, "/health", "")

		// Assert
		assert.Equal(s.T(), http.StatusOK, rec.Code)
	})

	s.Run("OpenAPI_ShouldServeYAML", func() {
		// Act
		rec := s.do(http.MethodGet, "/api/v1/openapi.yaml", "")

		// Assert
		assert.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "application/x-yaml", rec.Header().Get("Content-Type"))
		assert.True(s.T(), strings.HasPrefix(rec.Body.String(), "openapi: 3.0.3"))
	})

	s.Run("OpenAPI_MatchingETag_ShouldReturnNotModified", func() {
		// Arrange
		first := s.do(http.MethodGet, "/api/v1/openapi.yaml", "")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil)
		req.Header.Set("If-None-Match", first.Header().Get("ETag"))
		rec := httptest.NewRecorder()

		// Act
		s.handler.ServeHTTP(rec, req)

		// Assert
		assert.NotEmpty(s.T(), first.Header().Get("ETag"))
		assert.Equal(s.T(), http.StatusNotModified, rec.Code)
		assert.Zero(s.T(), rec.Body.Len())
	})

	s.Run("Metrics_ShouldExposeRequestCounter", func() {
		// Arrange
		s.do(http.MethodGet, "/live", "")

		// Act
		rec := s.do(http.MethodGet, "/metrics", "")

		// Assert
		assert.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Contains(s.T(), rec.Body.String(), "http_requests_total")
	})
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
