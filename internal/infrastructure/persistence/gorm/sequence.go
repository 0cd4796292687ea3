package gorm

import (
	"context"
	"fmt"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sequenceTables maps each ID prefix to the table and key column it numbers
var sequenceTables = map[string][2]string{
	diet.PrefixDietPlan:   {"diet_plans", "diet_plan_id"},
	diet.PrefixMealPlan:   {"meal_plans", "meal_plan_id"},
	diet.PrefixPreference: {"dietary_preferences", "diet_pref_id"},
	diet.PrefixProgress:   {"user_diet_plan_progress", "progress_id"},
	diet.PrefixLoggedMeal: {"logged_meals", "meal_id"},
	diet.PrefixIngredient: {"ingredients", "ingredient_id"},
	diet.PrefixRecipe:     {"recipes", "recipe_id"},
}

// SequenceGenerator issues IDs such as DPL001 from a counter row per prefix.
// The increment runs in the caller's transaction, so the row lock taken by
// the UPDATE serializes concurrent writers.
type SequenceGenerator struct {
	db *gorm.DB
}

// NewSequenceGenerator creates a new ID generator
func NewSequenceGenerator(db *gorm.DB) outbound.IDGenerator {
	return &SequenceGenerator{db: db}
}

// Next increments the counter of prefix and returns the formatted ID
func (g *SequenceGenerator) Next(ctx context.Context, prefix string) (string, error) {
	db := g.db.WithContext(ctx)

	updated, err := g.increment(db, prefix)
	if err != nil {
		return "", err
	}
	if !updated {
		start, err := g.highestExisting(db, prefix)
		if err != nil {
			return "", err
		}
		err = db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&IDSequenceModel{Prefix: prefix, Value: start}).Error
		if err != nil {
			return "", fmt.Errorf("seed id sequence %s: %w", prefix, err)
		}
		if _, err := g.increment(db, prefix); err != nil {
			return "", err
		}
	}

	var seq IDSequenceModel
	if err := db.First(&seq, "prefix = ?", prefix).Error; err != nil {
		return "", fmt.Errorf("read id sequence %s: %w", prefix, err)
	}
	return diet.FormatID(prefix, seq.Value), nil
}

func (g *SequenceGenerator) increment(db *gorm.DB, prefix string) (bool, error) {
	result := db.Model(&IDSequenceModel{}).
		Where("prefix = ?", prefix).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("increment id sequence %s: %w", prefix, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// highestExisting scans the numbered table so a fresh counter continues
// after rows inserted by seeding or imports.
func (g *SequenceGenerator) highestExisting(db *gorm.DB, prefix string) (int, error) {
	target, ok := sequenceTables[prefix]
	if !ok {
		return 0, nil
	}

	var ids []string
	err := db.Table(target[0]).
		Where(target[1]+" LIKE ?", prefix+"%").
		Pluck(target[1], &ids).Error
	if err != nil {
		return 0, fmt.Errorf("scan %s ids: %w", target[0], err)
	}

	highest := 0
	for _, id := range ids {
		if n, ok := diet.ParseIDSequence(prefix, id); ok && n > highest {
			highest = n
		}
	}
	return highest, nil
}
