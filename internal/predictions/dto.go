package predictions

import "time"

// PredictionResponse is the outward-facing representation of a prediction.
type PredictionResponse struct {
	ID string `json:"id"`
	PredictionResult
	DegradedFacets []string  `json:"degradedFacets"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PredictionSummary is one history entry.
type PredictionSummary struct {
	ID               string    `json:"id"`
	Breed            string    `json:"breed"`
	Confidence       float64   `json:"confidence"`
	WeightKG         float64   `json:"weight_kg"`
	FileName         string    `json:"fileName"`
	AdvisoryDegraded bool      `json:"advisoryDegraded"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toResponse(p Prediction) PredictionResponse {
	degraded := p.DegradedFacets
	if degraded == nil {
		degraded = []string{}
	}
	return PredictionResponse{
		ID:               p.ID,
		PredictionResult: p.Result,
		DegradedFacets:   degraded,
		CreatedAt:        p.CreatedAt,
	}
}

func toSummary(p Prediction) PredictionSummary {
	return PredictionSummary{
		ID:               p.ID,
		Breed:            p.Result.Breed,
		Confidence:       p.Result.Confidence,
		WeightKG:         p.Result.WeightKG,
		FileName:         p.FileName,
		AdvisoryDegraded: p.AdvisoryDegraded(),
		CreatedAt:        p.CreatedAt,
	}
}
