package predictions

import "aquabov-backend/internal/advisory"

// Placeholder texts shown when an advisory facet is unavailable.
const (
	NutritionUnavailableMessage    = "AI nutrition advice is currently unavailable. Please consult a local veterinarian or livestock nutritionist."
	ReproductiveUnavailableMessage = "AI reproductive insights are currently unavailable. Please consult a local veterinarian or breeding specialist."
)

func placeholderBreeding() advisory.BreedingRecommendations {
	return advisory.BreedingRecommendations{BestBreedingMatches: []advisory.BreedingMatch{}}
}

func placeholderNutrition() advisory.NutritionRecommendation {
	return advisory.NutritionRecommendation{
		NutritionRecommendation: advisory.Nutrition{
			ProteinSource: []string{},
			FeedingPlan:   NutritionUnavailableMessage,
		},
	}
}

func placeholderReproductive() advisory.ReproductiveBenefits {
	return advisory.ReproductiveBenefits{ReproductiveBenefits: ReproductiveUnavailableMessage}
}
