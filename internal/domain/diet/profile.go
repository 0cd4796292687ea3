package diet

import "strings"

// Gender as recorded on the user profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender normalizes free-form input. Unknown values are kept lowercased
// so the calculator can still apply its male/female rules.
func ParseGender(s string) Gender {
	return Gender(strings.ToLower(strings.TrimSpace(s)))
}

// Profile holds the physiological inputs of the calorie calculator.
// Zero values mean "not provided".
type Profile struct {
	UserID   string
	Age      int
	Gender   Gender
	WeightKg float64
	HeightCm float64
}

// BMI returns the body mass index, or 0 when height or weight is missing.
func (p Profile) BMI() float64 {
	if p.HeightCm <= 0 || p.WeightKg <= 0 {
		return 0
	}
	h := p.HeightCm / 100
	return p.WeightKg / (h * h)
}
