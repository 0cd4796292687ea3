package diet

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	caloriesPattern = regexp.MustCompile(`calories?:?\s*(\d+)`)
	proteinPattern  = regexp.MustCompile(`protein:?\s*(\d+)`)
)

// NutrientFacts is the macro breakdown of a recipe or ingredient.
// Missing values are zero; Known reports whether any value was present.
type NutrientFacts struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
	Fiber    float64 `json:"fiber,omitempty"`

	known bool
}

// ParseNutrientFacts reads a nutrition blob. JSON objects are preferred;
// free text such as "Calories: 300, protein 12g" is scanned as a fallback.
// Unparseable input yields zero facts, never an error.
func ParseNutrientFacts(raw string) NutrientFacts {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NutrientFacts{}
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err == nil {
		return factsFromMap(fields)
	}

	return factsFromText(raw)
}

// NutrientFactsFromMap builds facts from an already decoded JSON object.
func NutrientFactsFromMap(fields map[string]interface{}) NutrientFacts {
	return factsFromMap(fields)
}

func factsFromMap(fields map[string]interface{}) NutrientFacts {
	facts := NutrientFacts{known: len(fields) > 0}
	for key, value := range fields {
		n, ok := toNumber(value)
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "calories", "calorie", "kcal":
			facts.Calories = n
		case "protein":
			facts.Protein = n
		case "carbs", "carbohydrates":
			facts.Carbs = n
		case "fat":
			facts.Fat = n
		case "fiber", "fibre":
			facts.Fiber = n
		}
	}
	return facts
}

func factsFromText(raw string) NutrientFacts {
	lower := strings.ToLower(raw)
	var facts NutrientFacts

	if m := caloriesPattern.FindStringSubmatch(lower); m != nil {
		facts.Calories, _ = strconv.ParseFloat(m[1], 64)
		facts.known = true
	}
	if m := proteinPattern.FindStringSubmatch(lower); m != nil {
		facts.Protein, _ = strconv.ParseFloat(m[1], 64)
		facts.known = true
	}
	return facts
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Known reports whether the source blob carried any macro data.
func (n NutrientFacts) Known() bool {
	return n.known
}

// WithKnown marks facts built in code as carrying macro data.
func (n NutrientFacts) WithKnown() NutrientFacts {
	n.known = true
	return n
}

// JSON renders the facts in the stored blob format.
func (n NutrientFacts) JSON() string {
	out := map[string]float64{"calories": n.Calories}
	if n.Protein != 0 {
		out["protein"] = n.Protein
	}
	if n.Carbs != 0 {
		out["carbs"] = n.Carbs
	}
	if n.Fat != 0 {
		out["fat"] = n.Fat
	}
	if n.Fiber != 0 {
		out["fiber"] = n.Fiber
	}
	b, _ := json.Marshal(out)
	return string(b)
}
