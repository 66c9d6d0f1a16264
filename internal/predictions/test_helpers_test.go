package predictions

import (
	"context"
	"sync"
	"sync/atomic"

	"aquabov-backend/internal/advisory"
	"aquabov-backend/internal/classify"
)

type fakeClassifier struct {
	result classify.Result
	err    error
	calls  atomic.Int32
}

func (f *fakeClassifier) Classify(ctx context.Context, image []byte, mimeType string) (classify.Result, error) {
	f.calls.Add(1)
	return f.result, f.err
}

type fakeAdvisor struct {
	available bool

	breeding     advisory.BreedingRecommendations
	nutrition    advisory.NutritionRecommendation
	reproductive advisory.ReproductiveBenefits

	breedingErr     error
	nutritionErr    error
	reproductiveErr error

	mu        sync.Mutex
	calls     []string
	gotWeight float64
}

func (f *fakeAdvisor) Available() bool { return f.available }

func (f *fakeAdvisor) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAdvisor) BreedingRecommendations(ctx context.Context, breed string, heightCM, widthCM float64) (advisory.BreedingRecommendations, error) {
	f.record(advisory.FacetBreeding)
	return f.breeding, f.breedingErr
}

func (f *fakeAdvisor) NutritionPlan(ctx context.Context, breed string, heightCM, widthCM, weightKG float64) (advisory.NutritionRecommendation, error) {
	f.record(advisory.FacetNutrition)
	f.mu.Lock()
	f.gotWeight = weightKG
	f.mu.Unlock()
	return f.nutrition, f.nutritionErr
}

func (f *fakeAdvisor) ReproductiveBenefits(ctx context.Context, breed string, heightCM, widthCM float64) (advisory.ReproductiveBenefits, error) {
	f.record(advisory.FacetReproductive)
	return f.reproductive, f.reproductiveErr
}

func (f *fakeAdvisor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func jerseyResult() classify.Result {
	return classify.Result{Breed: "Jersey", Confidence: 0.92, HeightCM: 219, WidthCM: 226}
}

func fullAdvisor() *fakeAdvisor {
	return &fakeAdvisor{
		available: true,
		breeding: advisory.BreedingRecommendations{BestBreedingMatches: []advisory.BreedingMatch{
			{Breed: "Holstein", ExpectedBenefits: "High milk production."},
			{Breed: "Brown Swiss", ExpectedBenefits: "Rich milk fat."},
			{Breed: "Gir", ExpectedBenefits: "Heat tolerance."},
			{Breed: "Sahiwal", ExpectedBenefits: "Disease resistance."},
			{Breed: "Montbeliarde", ExpectedBenefits: "Balanced growth."},
		}},
		nutrition: advisory.NutritionRecommendation{NutritionRecommendation: advisory.Nutrition{
			ProteinSource: []string{"Alfalfa", "Soybean Meal"},
			FeedingPlan:   "2 kg soybean meal daily.",
		}},
		reproductive: advisory.ReproductiveBenefits{ReproductiveBenefits: "Strong calves."},
	}
}
