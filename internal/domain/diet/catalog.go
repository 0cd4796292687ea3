package diet

import "strings"

// Ingredient is a catalog entry. AllergenInfo holds a single tag or "None".
type Ingredient struct {
	ID               string
	Name             string
	Category         string
	NutritionalValue NutrientFacts
	AllergenInfo     string
}

// Recipe is a library recipe. Ingredients are names, not catalog IDs.
type Recipe struct {
	ID            string
	Title         string
	Description   string
	Ingredients   []string
	Instructions  string
	NutritionInfo NutrientFacts
	ImageURL      string
}

// Calories is the authoritative calorie value used for selection.
func (r Recipe) Calories() float64 {
	return r.NutritionInfo.Calories
}

// ParseIngredientList splits the stored comma separated ingredient list.
func ParseIngredientList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinIngredientList is the inverse of ParseIngredientList.
func JoinIngredientList(names []string) string {
	return strings.Join(names, ", ")
}

// AllergenIndex maps normalized ingredient names to their allergen tag.
type AllergenIndex map[string]string

// NewAllergenIndex indexes the catalog, skipping ingredients without a tag.
func NewAllergenIndex(ingredients []Ingredient) AllergenIndex {
	idx := make(AllergenIndex, len(ingredients))
	for _, ing := range ingredients {
		tag := strings.TrimSpace(ing.AllergenInfo)
		if tag == "" || strings.EqualFold(tag, "none") {
			continue
		}
		idx[normalizeName(ing.Name)] = tag
	}
	return idx
}

// Lookup returns the allergen tag of an ingredient name, if any.
func (a AllergenIndex) Lookup(name string) (string, bool) {
	tag, ok := a[normalizeName(name)]
	return tag, ok
}

// Library is the recipe catalog together with its allergen index.
type Library struct {
	Recipes   []Recipe
	Allergens AllergenIndex
}

// NewLibrary builds a Library from catalog rows.
func NewLibrary(recipes []Recipe, ingredients []Ingredient) *Library {
	return &Library{
		Recipes:   recipes,
		Allergens: NewAllergenIndex(ingredients),
	}
}

// FindRecipe returns the recipe with the given ID.
func (l *Library) FindRecipe(id string) (Recipe, bool) {
	for _, r := range l.Recipes {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}
