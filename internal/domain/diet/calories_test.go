package diet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CalorieCalculatorTestSuite struct {
	suite.Suite
}

func (s *CalorieCalculatorTestSuite) TestCalculateDailyCalories() {
	s.Run("ReferenceMaleWeightLoss_ShouldReturn2094", func() {
		// Arrange
		p := Profile{Age: 30, Gender: GenderMale, WeightKg: 70, HeightCm: 170}

		// Act
		got := CalculateDailyCalories(p, "weight loss")

		// Assert
		assert.InDelta(s.T(), 1673.75, BMR(70, 170, 30, GenderMale), 1e-9)
		assert.Equal(s.T(), 2094, got)
	})

	s.Run("GoalVariants_ShouldAdjustTDEE", func() {
		p := Profile{Age: 30, Gender: GenderMale, WeightKg: 70, HeightCm: 170}

		assert.Equal(s.T(), 2094, CalculateDailyCalories(p, "I want to lose weight"))
		assert.Equal(s.T(), 2894, CalculateDailyCalories(p, "Muscle Gain"))
		assert.Equal(s.T(), 2894, CalculateDailyCalories(p, "bulking"))
		assert.Equal(s.T(), 2594, CalculateDailyCalories(p, "maintenance"))
		assert.Equal(s.T(), 2594, CalculateDailyCalories(p, "run a marathon"))
	})

	s.Run("FemaleProfile_ShouldUseFemaleFormula", func() {
		p := Profile{Age: 30, Gender: GenderFemale, WeightKg: 70, HeightCm: 170}

		assert.Equal(s.T(), 1837, CalculateDailyCalories(p, "weight loss"))
	})

	s.Run("MissingFields_ShouldUseDefaults", func() {
		// Arrange
		p := Profile{}

		// Act
		got := CalculateDailyCalories(p, "")

		// Assert
		assert.Equal(s.T(), 2094, got)
	})

	s.Run("UnknownGender_ShouldBeTreatedAsMale", func() {
		p := Profile{Age: 30, Gender: Gender("other"), WeightKg: 70, HeightCm: 170}

		assert.Equal(s.T(), 2094, CalculateDailyCalories(p, "weight loss"))
	})

	s.Run("NonFiniteProfile_ShouldReturnFallback", func() {
		// Arrange
		p := Profile{Age: 30, Gender: GenderMale, WeightKg: 70, HeightCm: math.MaxFloat64}

		// Act
		got := CalculateDailyCalories(p, "weight loss")

		// Assert
		assert.Equal(s.T(), FallbackDailyCalories, got)
		assert.Equal(s.T(), 2094, CalculateDailyCalories(Profile{WeightKg: math.Inf(1), HeightCm: math.NaN()}, "weight loss"))
	})

	s.Run("LowEnergyProfiles_ShouldRespectFloors", func() {
		male := Profile{Age: 80, Gender: GenderMale, WeightKg: 40, HeightCm: 150}
		female := Profile{Age: 80, Gender: GenderFemale, WeightKg: 40, HeightCm: 150}

		assert.Equal(s.T(), MaleCalorieFloor, CalculateDailyCalories(male, "weight loss"))
		assert.Equal(s.T(), FemaleCalorieFloor, CalculateDailyCalories(female, "weight loss"))
	})
}

func (s *CalorieCalculatorTestSuite) TestFloorsAndMonotonicity() {
	s.Run("AllProfiles_ShouldStayAboveFloorAndGrowWithWeight", func() {
		goals := []string{"weight loss", "muscle gain", "maintenance"}
		for _, gender := range []Gender{GenderMale, GenderFemale} {
			floor := MaleCalorieFloor
			if gender == GenderFemale {
				floor = FemaleCalorieFloor
			}
			for _, goal := range goals {
				for age := 18; age <= 90; age += 12 {
					prev := 0
					for w := 35.0; w <= 180; w += 5 {
						got := CalculateDailyCalories(Profile{Age: age, Gender: gender, WeightKg: w, HeightCm: 165}, goal)
						assert.GreaterOrEqual(s.T(), got, floor)
						assert.GreaterOrEqual(s.T(), got, prev, "weight %.0f gender %s goal %s", w, gender, goal)
						prev = got
					}
				}
			}
		}
	})
}

func TestCalorieCalculatorTestSuite(t *testing.T) {
	suite.Run(t, new(CalorieCalculatorTestSuite))
}
