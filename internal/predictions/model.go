package predictions

import (
	"math"
	"time"

	"aquabov-backend/internal/advisory"
)

// weightRatio converts height x width (cm) into an estimated weight in kg.
const weightRatio = 80

// PredictionResult is the merged classification and advisory result for one image.
// Advisory keys are always present, empty when the facet fell back.
type PredictionResult struct {
	Breed      string  `json:"breed"`
	Confidence float64 `json:"confidence"`
	HeightCM   float64 `json:"height_cm"`
	WidthCM    float64 `json:"width_cm"`
	WeightKG   float64 `json:"weight_kg"`
	Message    string  `json:"message,omitempty"`

	advisory.BreedingRecommendations
	advisory.NutritionRecommendation
	advisory.ReproductiveBenefits
}

// Prediction is a stored PredictionResult with its upload metadata.
type Prediction struct {
	ID             string
	UserID         string
	FileName       string
	MimeType       string
	SizeBytes      int64
	ImageKey       string
	Result         PredictionResult
	DegradedFacets []string
	CreatedAt      time.Time
}

// AdvisoryDegraded reports whether any advisory facet holds placeholder content.
func (p Prediction) AdvisoryDegraded() bool {
	return len(p.DegradedFacets) > 0
}

// DeriveWeight estimates weight in kg from height and width in cm.
func DeriveWeight(heightCM, widthCM float64) float64 {
	return math.Round(heightCM * widthCM / weightRatio)
}
