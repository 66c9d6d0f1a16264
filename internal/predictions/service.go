package predictions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"aquabov-backend/internal/advisory"
	"aquabov-backend/internal/classify"
	"aquabov-backend/internal/shared/metrics"
	"aquabov-backend/internal/shared/storage/object"
	"aquabov-backend/internal/shared/telemetry"
)

// Classifier identifies breed and body measurements from an image.
type Classifier interface {
	Classify(ctx context.Context, image []byte, mimeType string) (classify.Result, error)
}

// Advisor produces the three advisory facets.
type Advisor interface {
	Available() bool
	BreedingRecommendations(ctx context.Context, breed string, heightCM, widthCM float64) (advisory.BreedingRecommendations, error)
	NutritionPlan(ctx context.Context, breed string, heightCM, widthCM, weightKG float64) (advisory.NutritionRecommendation, error)
	ReproductiveBenefits(ctx context.Context, breed string, heightCM, widthCM float64) (advisory.ReproductiveBenefits, error)
}

// Service aggregates classification and advisory results and records them.
type Service struct {
	Classifier Classifier
	Advisor    Advisor
	Repo       Repo
	// Store archives uploaded images. Nil disables archiving.
	Store object.ObjectStore
	Now   func() time.Time
}

// AnalyzeImage classifies the image and merges in advisory facets.
// Classification errors are returned unchanged; advisory errors only degrade their facet.
func (s *Service) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (PredictionResult, error) {
	res, _, err := s.analyze(ctx, image, mimeType)
	return res, err
}

func (s *Service) analyze(ctx context.Context, image []byte, mimeType string) (PredictionResult, []string, error) {
	cls, err := s.Classifier.Classify(ctx, image, mimeType)
	if err != nil {
		return PredictionResult{}, nil, err
	}

	res := PredictionResult{
		Breed:      cls.Breed,
		Confidence: cls.Confidence,
		HeightCM:   cls.HeightCM,
		WidthCM:    cls.WidthCM,
		Message:    cls.Message,
	}
	if cls.WeightKG != nil {
		res.WeightKG = *cls.WeightKG
	} else {
		res.WeightKG = DeriveWeight(cls.HeightCM, cls.WidthCM)
	}

	if s.Advisor == nil || !s.Advisor.Available() {
		res.BreedingRecommendations = placeholderBreeding()
		res.NutritionRecommendation = placeholderNutrition()
		res.ReproductiveBenefits = placeholderReproductive()
		return res, []string{advisory.FacetBreeding, advisory.FacetNutrition, advisory.FacetReproductive}, nil
	}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		degraded []string
	)
	fallback := func(facet string, err error) {
		telemetry.Warn("advisory.fallback", map[string]any{
			"facet": facet,
			"breed": res.Breed,
			"error": err,
		})
		metrics.IncAdvisoryFallback(facet)
		mu.Lock()
		degraded = append(degraded, facet)
		mu.Unlock()
	}

	var (
		breeding     advisory.BreedingRecommendations
		nutrition    advisory.NutritionRecommendation
		reproductive advisory.ReproductiveBenefits
	)
	g.Go(func() error {
		out, err := s.Advisor.BreedingRecommendations(ctx, res.Breed, res.HeightCM, res.WidthCM)
		if err != nil {
			fallback(advisory.FacetBreeding, err)
			out = placeholderBreeding()
		}
		breeding = out
		return nil
	})
	g.Go(func() error {
		out, err := s.Advisor.NutritionPlan(ctx, res.Breed, res.HeightCM, res.WidthCM, res.WeightKG)
		if err != nil {
			fallback(advisory.FacetNutrition, err)
			out = placeholderNutrition()
		}
		nutrition = out
		return nil
	})
	g.Go(func() error {
		out, err := s.Advisor.ReproductiveBenefits(ctx, res.Breed, res.HeightCM, res.WidthCM)
		if err != nil {
			fallback(advisory.FacetReproductive, err)
			out = placeholderReproductive()
		}
		reproductive = out
		return nil
	})
	_ = g.Wait()

	res.BreedingRecommendations = breeding
	res.NutritionRecommendation = nutrition
	res.ReproductiveBenefits = reproductive
	normalizeResult(&res)
	return res, sortFacets(degraded), nil
}

// Predict analyzes an uploaded image for userID, archives the image and records the result.
// Archive and record failures are logged; the prediction is still returned.
func (s *Service) Predict(ctx context.Context, userID, fileName, mimeType string, image []byte) (Prediction, error) {
	if len(image) == 0 {
		return Prediction{}, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	start := time.Now()
	metrics.IncPredictionStarted()

	res, degraded, err := s.analyze(ctx, image, mimeType)
	if err != nil {
		metrics.IncPredictionFailed()
		telemetry.Warn("prediction.failed", map[string]any{
			"user_id": userID,
			"error":   err,
		})
		return Prediction{}, err
	}

	p := Prediction{
		ID:             uuid.NewString(),
		UserID:         userID,
		FileName:       fileName,
		MimeType:       mimeType,
		SizeBytes:      int64(len(image)),
		Result:         res,
		DegradedFacets: degraded,
		CreatedAt:      s.now(),
	}

	if s.Store != nil {
		key, _, err := s.Store.Save(ctx, userID, fileName, mimeType, bytes.NewReader(image))
		if err != nil {
			telemetry.Error("prediction.archive.failed", map[string]any{
				"prediction_id": p.ID,
				"error":         err,
			})
		} else {
			p.ImageKey = key
		}
	}
	if s.Repo != nil {
		if err := s.Repo.Create(ctx, p); err != nil {
			telemetry.Error("prediction.record.failed", map[string]any{
				"prediction_id": p.ID,
				"error":         err,
			})
		}
	}

	elapsed := time.Since(start)
	metrics.IncPredictionCompleted()
	metrics.ObservePredictionDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	telemetry.Info("prediction.complete", map[string]any{
		"prediction_id":   p.ID,
		"user_id":         userID,
		"breed":           res.Breed,
		"weight_kg":       res.WeightKG,
		"degraded_facets": strings.Join(degraded, ","),
		"duration_ms":     elapsed.Milliseconds(),
	})
	return p, nil
}

// Get returns one stored prediction.
func (s *Service) Get(ctx context.Context, userID, id string) (Prediction, error) {
	if strings.TrimSpace(id) == "" {
		return Prediction{}, fmt.Errorf("%w: id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// List returns the user's predictions, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Prediction, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// OpenImage opens the archived image of a stored prediction.
func (s *Service) OpenImage(ctx context.Context, userID, id string) (Prediction, io.ReadCloser, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return Prediction{}, nil, err
	}
	if s.Store == nil || p.ImageKey == "" {
		return Prediction{}, nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, p.ImageKey)
	if err != nil {
		return Prediction{}, nil, err
	}
	return p, rc, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// normalizeResult replaces nil advisory slices with empty ones so they encode as [].
func normalizeResult(res *PredictionResult) {
	if res.BestBreedingMatches == nil {
		res.BestBreedingMatches = []advisory.BreedingMatch{}
	}
	if res.NutritionRecommendation.NutritionRecommendation.ProteinSource == nil {
		res.NutritionRecommendation.NutritionRecommendation.ProteinSource = []string{}
	}
}

// sortFacets orders facet names breeding, nutrition, reproductive.
func sortFacets(facets []string) []string {
	out := make([]string, 0, len(facets))
	for _, name := range []string{advisory.FacetBreeding, advisory.FacetNutrition, advisory.FacetReproductive} {
		for _, f := range facets {
			if f == name {
				out = append(out, f)
			}
		}
	}
	return out
}
