package diet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNutrientFacts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		cal     float64
		protein float64
		known   bool
	}{
		{"JSONObject", `{"calories": 436, "protein": 40, "carbs": 45, "fat": 10}`, 436, 40, true},
		{"JSONStringNumbers", `{"Calories": "300", "protein": "12.5"}`, 300, 12.5, true},
		{"FreeText", "Calories: 320, Protein 18g", 320, 18, true},
		{"Garbage", "delicious", 0, 0, false},
		{"Empty", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseNutrientFacts(tt.raw)

			assert.Equal(t, tt.cal, f.Calories)
			assert.Equal(t, tt.protein, f.Protein)
			assert.Equal(t, tt.known, f.Known())
		})
	}
}

func TestNutrientFacts_JSON(t *testing.T) {
	f := NutrientFacts{Calories: 250, Protein: 16}

	assert.JSONEq(t, `{"calories": 250, "protein": 16}`, f.JSON())
	assert.True(t, ParseNutrientFacts(f.JSON()).Known())
}
