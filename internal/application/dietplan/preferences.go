package dietplan

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/fitlife/dietplanner/pkg/errors"
	"go.uber.org/zap"
)

// UpdateDietaryPreferences patches the textual fields of the user's
// preference set, creating it when absent, and replaces the ingredient
// likes/dislikes when a list is supplied.
func (s *Service) UpdateDietaryPreferences(ctx context.Context, cmd inbound.UpdatePreferencesCommand) error {
	userID := diet.NormalizeUserID(cmd.UserID)

	var dietType *diet.DietType
	if cmd.DietType != nil {
		d, err := diet.ParseDietType(*cmd.DietType)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		dietType = &d
	}

	var items []diet.IngredientPreference
	if cmd.IngredientPreferences != nil {
		items = make([]diet.IngredientPreference, 0, len(*cmd.IngredientPreferences))
		for _, in := range *cmd.IngredientPreferences {
			kind, err := diet.ParsePreferenceKind(in.PreferenceType)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			items = append(items, diet.IngredientPreference{IngredientName: strings.TrimSpace(in.IngredientName), Kind: kind})
		}
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx outbound.Repositories) error {
		pref, err := tx.Preferences.FindLatestByUserID(ctx, userID)
		switch {
		case stderrors.Is(err, diet.ErrPreferencesNotFound):
			pref = &diet.Preference{UserID: userID, DietType: diet.DietNone, CreatedAt: s.clock.Now()}
			applyPreferencePatch(pref, dietType, cmd.DietaryGoal, cmd.Allergies)
			if pref.ID, err = tx.IDs.Next(ctx, diet.PrefixPreference); err != nil {
				return err
			}
			if err := tx.Preferences.Create(ctx, pref); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			applyPreferencePatch(pref, dietType, cmd.DietaryGoal, cmd.Allergies)
			if err := tx.Preferences.Update(ctx, pref); err != nil {
				return err
			}
		}

		if items == nil {
			return nil
		}
		resolved, err := resolveIngredients(ctx, tx.Catalog, items)
		if err != nil {
			return err
		}
		return tx.Preferences.ReplaceIngredients(ctx, pref.ID, resolved)
	})
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return appErr
		}
		return errors.NewDatabaseError("update dietary preferences", err)
	}

	s.logger.Info("Dietary preferences updated",
		zap.String("user_id", userID),
		zap.Bool("ingredients_replaced", items != nil),
	)
	return nil
}

func applyPreferencePatch(pref *diet.Preference, dietType *diet.DietType, goal *string, allergies *[]string) {
	if dietType != nil {
		pref.DietType = *dietType
	}
	if goal != nil {
		pref.Goal = strings.TrimSpace(*goal)
	}
	if allergies != nil {
		pref.Allergies = diet.CleanAllergies(*allergies)
	}
}

// resolveIngredients maps names to catalog ingredients. A repeated
// ingredient keeps its last preference.
func resolveIngredients(ctx context.Context, catalog outbound.CatalogRepository, items []diet.IngredientPreference) ([]diet.IngredientPreference, error) {
	index := make(map[string]int, len(items))
	out := make([]diet.IngredientPreference, 0, len(items))
	for _, item := range items {
		ing, err := catalog.FindIngredientByName(ctx, item.IngredientName)
		if err != nil {
			if stderrors.Is(err, diet.ErrIngredientNotFound) {
				return nil, errors.NewIngredientNotFoundError(item.IngredientName)
			}
			return nil, err
		}
		resolved := diet.IngredientPreference{IngredientID: ing.ID, IngredientName: ing.Name, Kind: item.Kind}
		if i, dup := index[ing.ID]; dup {
			out[i] = resolved
			continue
		}
		index[ing.ID] = len(out)
		out = append(out, resolved)
	}
	return out, nil
}

// GetDietaryPreferences returns the user's latest preference set
func (s *Service) GetDietaryPreferences(ctx context.Context, userID string) (*inbound.PreferenceDTO, error) {
	userID = diet.NormalizeUserID(userID)
	pref, err := s.uow.Repositories().Preferences.FindLatestByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, diet.ErrPreferencesNotFound) {
			return nil, errors.NewPreferencesNotFoundError(userID)
		}
		return nil, errors.NewDatabaseError("find preferences", err)
	}

	dto := &inbound.PreferenceDTO{
		PreferenceID:          pref.ID,
		UserID:                pref.UserID,
		DietType:              string(pref.DietType),
		DietaryGoal:           pref.Goal,
		Allergies:             pref.Allergies,
		IngredientPreferences: make([]inbound.IngredientPreferenceDTO, len(pref.Ingredients)),
		CreatedAt:             pref.CreatedAt,
	}
	if dto.Allergies == nil {
		dto.Allergies = []string{}
	}
	for i, ip := range pref.Ingredients {
		dto.IngredientPreferences[i] = inbound.IngredientPreferenceDTO{
			IngredientID:   ip.IngredientID,
			IngredientName: ip.IngredientName,
			PreferenceType: string(ip.Kind),
		}
	}
	return dto, nil
}

// UpsertProfile creates or replaces the user's physiological profile
func (s *Service) UpsertProfile(ctx context.Context, cmd inbound.UpsertProfileCommand) (*inbound.ProfileDTO, error) {
	profile := &diet.Profile{
		UserID:   diet.NormalizeUserID(cmd.UserID),
		Age:      cmd.Age,
		Gender:   diet.ParseGender(cmd.Gender),
		WeightKg: cmd.WeightKg,
		HeightCm: cmd.HeightCm,
	}
	if profile.Gender != diet.GenderMale && profile.Gender != diet.GenderFemale {
		return nil, errors.NewValidationError("gender must be male or female")
	}

	if err := s.uow.Repositories().Profiles.Save(ctx, profile); err != nil {
		return nil, errors.NewDatabaseError("save profile", err)
	}

	s.logger.Info("Profile saved", zap.String("user_id", profile.UserID))

	return &inbound.ProfileDTO{
		UserID:   profile.UserID,
		Age:      profile.Age,
		Gender:   string(profile.Gender),
		WeightKg: profile.WeightKg,
		HeightCm: profile.HeightCm,
		BMI:      round2(profile.BMI()),
	}, nil
}
