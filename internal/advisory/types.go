package advisory

// BreedingMatch is one recommended crossbreeding partner.
type BreedingMatch struct {
	Breed            string `json:"breed"`
	ExpectedBenefits string `json:"expected_benefits"`
}

// BreedingRecommendations lists partner breeds, best match first.
type BreedingRecommendations struct {
	BestBreedingMatches []BreedingMatch `json:"best_breeding_matches"`
}

// Nutrition is the feeding advice for one animal.
type Nutrition struct {
	ProteinSource []string `json:"protein_source"`
	FeedingPlan   string   `json:"feeding_plan"`
}

// NutritionRecommendation wraps Nutrition under its response key.
type NutritionRecommendation struct {
	NutritionRecommendation Nutrition `json:"nutrition_recommendation"`
}

// ReproductiveBenefits is a short description of crossbreeding benefits.
type ReproductiveBenefits struct {
	ReproductiveBenefits string `json:"reproductive_benefits"`
}
