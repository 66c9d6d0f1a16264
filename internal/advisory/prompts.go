package advisory

import (
	_ "embed"
	"strconv"
	"strings"
)

var (
	//go:embed prompts/breeding.txt
	breedingPrompt string
	//go:embed prompts/nutrition.txt
	nutritionPrompt string
	//go:embed prompts/reproductive.txt
	reproductivePrompt string
)

// Measurements are the classifier figures embedded in every prompt.
type Measurements struct {
	Breed    string
	HeightCM float64
	WidthCM  float64
	WeightKG float64
}

func renderPrompt(template string, m Measurements) string {
	return strings.NewReplacer(
		"{{breed}}", strings.TrimSpace(m.Breed),
		"{{height_cm}}", formatNumber(m.HeightCM),
		"{{width_cm}}", formatNumber(m.WidthCM),
		"{{weight_kg}}", formatNumber(m.WeightKG),
	).Replace(template)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
