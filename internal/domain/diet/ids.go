package diet

import (
	"fmt"
	"strconv"
	"strings"
)

// ID prefixes of the human readable sequential identifiers.
const (
	PrefixDietPlan   = "DPL"
	PrefixMealPlan   = "MP"
	PrefixPreference = "DP"
	PrefixProgress   = "PRG"
	PrefixLoggedMeal = "LM"
	PrefixIngredient = "ING"
	PrefixRecipe     = "RCP"
	PrefixUser       = "U"
)

// FormatID renders a sequence number as e.g. DPL001.
func FormatID(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// ParseIDSequence extracts the number of an ID with the given prefix.
// IDs with a longer alphabetic prefix (DPL001 for prefix DP) do not match.
func ParseIDSequence(prefix, id string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NormalizeUserID maps bare numeric user ids such as "7" to "U007".
func NormalizeUserID(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return FormatID(PrefixUser, n)
	}
	return id
}
