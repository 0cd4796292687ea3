package diet

import (
	"sort"
	"strings"
	"time"
)

// DietType is the user's dietary regime.
type DietType string

const (
	DietNone        DietType = "none"
	DietVegetarian  DietType = "vegetarian"
	DietVegan       DietType = "vegan"
	DietPescatarian DietType = "pescatarian"
	DietHalal       DietType = "halal"
	DietKosher      DietType = "kosher"
)

// ParseDietType normalizes input; empty input maps to DietNone.
func ParseDietType(s string) (DietType, error) {
	d := DietType(normalizeName(s))
	switch d {
	case "":
		return DietNone, nil
	case DietNone, DietVegetarian, DietVegan, DietPescatarian, DietHalal, DietKosher:
		return d, nil
	default:
		return "", ErrInvalidDietType
	}
}

// PreferenceKind is a per-ingredient like or dislike.
type PreferenceKind string

const (
	PreferenceLike    PreferenceKind = "like"
	PreferenceDislike PreferenceKind = "dislike"
)

// ParsePreferenceKind accepts "like" / "dislike" in any case.
func ParsePreferenceKind(s string) (PreferenceKind, error) {
	switch k := PreferenceKind(normalizeName(s)); k {
	case PreferenceLike, PreferenceDislike:
		return k, nil
	default:
		return "", ErrInvalidPreferenceKind
	}
}

// IngredientPreference links a preference set to a catalog ingredient.
type IngredientPreference struct {
	IngredientID   string
	IngredientName string
	Kind           PreferenceKind
}

// Preference is the user's active dietary preference set.
type Preference struct {
	ID          string
	UserID      string
	DietType    DietType
	Goal        string
	Allergies   []string
	Ingredients []IngredientPreference
	CreatedAt   time.Time
}

// Dislikes returns the normalized names of disliked ingredients.
func (p Preference) Dislikes() map[string]struct{} {
	out := make(map[string]struct{})
	for _, ip := range p.Ingredients {
		if ip.Kind == PreferenceDislike {
			out[normalizeName(ip.IngredientName)] = struct{}{}
		}
	}
	return out
}

// AllergySet returns the normalized allergen tags.
func (p Preference) AllergySet() map[string]struct{} {
	out := make(map[string]struct{}, len(p.Allergies))
	for _, a := range p.Allergies {
		if n := normalizeName(a); n != "" {
			out[n] = struct{}{}
		}
	}
	return out
}

// NormalizedGoal returns the goal lowercased and trimmed.
func (p Preference) NormalizedGoal() string {
	return normalizeName(p.Goal)
}

// ParseAllergies splits a comma separated allergy list, dropping blanks,
// "none" and duplicates. The result is sorted for stable storage.
func ParseAllergies(raw string) []string {
	return cleanAllergies(strings.Split(raw, ","))
}

func cleanAllergies(in []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" || key == "none" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// CleanAllergies applies the same normalization as ParseAllergies to a list.
func CleanAllergies(in []string) []string {
	return cleanAllergies(in)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeName is the comparison form used for ingredient names.
func NormalizeName(s string) string {
	return normalizeName(s)
}
