package advisory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquabov-backend/internal/llm"
)

type scriptedGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

const fiveMatches = `Here you go:
{"best_breeding_matches":[
 {"breed":"Holstein","expected_benefits":"High milk production."},
 {"breed":"Brown Swiss","expected_benefits":"Rich milk fat."},
 {"breed":"Gir","expected_benefits":"Heat tolerance."},
 {"breed":"Sahiwal","expected_benefits":"Disease resistance."},
 {"breed":"Montbeliarde","expected_benefits":"Balanced growth."},
 {"breed":"Red Sindhi","expected_benefits":"Extra."}
]}
Hope this helps.`

func TestBreedingRecommendationsTruncatesToFive(t *testing.T) {
	gen := &scriptedGenerator{reply: fiveMatches}
	client := NewClient(gen, true)

	got, err := client.BreedingRecommendations(context.Background(), "Jersey", 219, 226)
	require.NoError(t, err)
	require.Len(t, got.BestBreedingMatches, BreedingMatchCount)
	assert.Equal(t, "Holstein", got.BestBreedingMatches[0].Breed)
	assert.Equal(t, "Montbeliarde", got.BestBreedingMatches[4].Breed)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Jersey")
	assert.Contains(t, gen.prompts[0], "height: 219 cm")
	assert.Contains(t, gen.prompts[0], "width: 226 cm")
	assert.NotContains(t, gen.prompts[0], "{{")
}

func TestBreedingRecommendationsTooFewIsMalformed(t *testing.T) {
	gen := &scriptedGenerator{reply: `{"best_breeding_matches":[{"breed":"Gir","expected_benefits":"x"}]}`}
	_, err := NewClient(gen, true).BreedingRecommendations(context.Background(), "Jersey", 1, 1)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestNutritionPlanDedupesProteinSources(t *testing.T) {
	gen := &scriptedGenerator{reply: "```json\n" + `{"nutrition_recommendation":{"protein_source":["Alfalfa","Soybean Meal","alfalfa"," "],"feeding_plan":"2 kg soybean meal daily."}}` + "\n```"}

	got, err := NewClient(gen, true).NutritionPlan(context.Background(), "Jersey", 219, 226, 619)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alfalfa", "Soybean Meal"}, got.NutritionRecommendation.ProteinSource)
	assert.Equal(t, "2 kg soybean meal daily.", got.NutritionRecommendation.FeedingPlan)
	assert.Contains(t, gen.prompts[0], "estimated weight: 619 kg")
}

func TestReproductiveBenefits(t *testing.T) {
	gen := &scriptedGenerator{reply: `{"reproductive_benefits":"Strong calves."}`}
	got, err := NewClient(gen, true).ReproductiveBenefits(context.Background(), "Gir", 120, 150)
	require.NoError(t, err)
	assert.Equal(t, "Strong calves.", got.ReproductiveBenefits)
}

func TestMalformedReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "no object", reply: "I cannot help with that."},
		{name: "broken json", reply: `{"reproductive_benefits": }`},
		{name: "missing key", reply: `{"something_else":"x"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{reply: tt.reply}
			_, err := NewClient(gen, true).ReproductiveBenefits(context.Background(), "Gir", 1, 1)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestUnavailableSkipsNetwork(t *testing.T) {
	gen := &scriptedGenerator{reply: `{"reproductive_benefits":"x"}`}
	client := NewClient(gen, false)

	_, err := client.ReproductiveBenefits(context.Background(), "Gir", 1, 1)
	assert.ErrorIs(t, err, llm.ErrUnavailable)
	_, err = client.NutritionPlan(context.Background(), "Gir", 1, 1, 1)
	assert.ErrorIs(t, err, llm.ErrUnavailable)
	assert.Empty(t, gen.prompts)
}

func TestRequestFailurePropagates(t *testing.T) {
	gen := &scriptedGenerator{err: &llm.RequestError{Status: 403, Message: "API key not valid"}}
	_, err := NewClient(gen, true).BreedingRecommendations(context.Background(), "Gir", 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrRequestFailed))
	assert.True(t, strings.Contains(err.Error(), "API key not valid"))
}

func TestExtractJSONObject(t *testing.T) {
	got, ok := ExtractJSONObject("prefix {\"a\":{\"b\":1}} suffix")
	require.True(t, ok)
	assert.Equal(t, `{"a":{"b":1}}`, got)

	_, ok = ExtractJSONObject("} no object {")
	assert.False(t, ok)

	got, ok = ExtractJSONObject(`{"note":"use {braces} and \"quotes\""} then {"second":true}`)
	require.True(t, ok)
	assert.Equal(t, `{"note":"use {braces} and \"quotes\""}`, got)

	_, ok = ExtractJSONObject(`{"unterminated":{"a":1}`)
	assert.False(t, ok)
}

func TestReplyWithTrailingBracesStillParses(t *testing.T) {
	gen := &scriptedGenerator{reply: "{\"reproductive_benefits\":\"Strong calves.\"}\nNote: values are estimates {approx}."}
	got, err := NewClient(gen, true).ReproductiveBenefits(context.Background(), "Gir", 120, 45)
	require.NoError(t, err)
	assert.Equal(t, "Strong calves.", got.ReproductiveBenefits)
}
