package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"aquabov-backend/internal/llm"
)

// ErrMalformedResponse reports model output without a usable JSON object of the expected shape.
var ErrMalformedResponse = errors.New("malformed advisory response")

// BreedingMatchCount is the number of partner breeds a breeding reply carries.
const BreedingMatchCount = 5

// Facet names, used in logs and metrics.
const (
	FacetBreeding     = "breeding"
	FacetNutrition    = "nutrition"
	FacetReproductive = "reproductive"
)

// facet describes one advisory section: its prompt and how to validate the decoded reply.
type facet[T any] struct {
	name     string
	template string
	validate func(*T) error
}

var (
	breedingFacet = facet[BreedingRecommendations]{
		name:     FacetBreeding,
		template: breedingPrompt,
		validate: validateBreeding,
	}
	nutritionFacet = facet[NutritionRecommendation]{
		name:     FacetNutrition,
		template: nutritionPrompt,
		validate: validateNutrition,
	}
	reproductiveFacet = facet[ReproductiveBenefits]{
		name:     FacetReproductive,
		template: reproductivePrompt,
		validate: validateReproductive,
	}
)

// Client asks the generative-language service for advisory facets.
type Client struct {
	gen       llm.Generator
	available bool
}

// NewClient constructs an advisory client. When available is false no request is ever sent.
func NewClient(gen llm.Generator, available bool) *Client {
	if gen == nil {
		gen = llm.Unavailable{}
		available = false
	}
	return &Client{gen: gen, available: available}
}

// Available reports whether the generative-language service may be called.
func (c *Client) Available() bool {
	return c != nil && c.available
}

// BreedingRecommendations returns the five best crossbreeding partners.
func (c *Client) BreedingRecommendations(ctx context.Context, breed string, heightCM, widthCM float64) (BreedingRecommendations, error) {
	return run(ctx, c, breedingFacet, Measurements{Breed: breed, HeightCM: heightCM, WidthCM: widthCM})
}

// NutritionPlan returns protein sources and a feeding plan.
func (c *Client) NutritionPlan(ctx context.Context, breed string, heightCM, widthCM, weightKG float64) (NutritionRecommendation, error) {
	return run(ctx, c, nutritionFacet, Measurements{Breed: breed, HeightCM: heightCM, WidthCM: widthCM, WeightKG: weightKG})
}

// ReproductiveBenefits returns a short crossbreeding benefits description.
func (c *Client) ReproductiveBenefits(ctx context.Context, breed string, heightCM, widthCM float64) (ReproductiveBenefits, error) {
	return run(ctx, c, reproductiveFacet, Measurements{Breed: breed, HeightCM: heightCM, WidthCM: widthCM})
}

func run[T any](ctx context.Context, c *Client, f facet[T], m Measurements) (T, error) {
	var out T
	if !c.Available() {
		return out, llm.ErrUnavailable
	}
	text, err := c.gen.Generate(ctx, renderPrompt(f.template, m))
	if err != nil {
		return out, fmt.Errorf("%s: %w", f.name, err)
	}
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return out, fmt.Errorf("%w: %s: no JSON object in reply", ErrMalformedResponse, f.name)
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, f.name, err)
	}
	if err := f.validate(&out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, f.name, err)
	}
	return out, nil
}

// ExtractJSONObject returns the first brace-delimited object in text.
// Braces inside JSON string literals do not count toward nesting.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func validateBreeding(r *BreedingRecommendations) error {
	matches := make([]BreedingMatch, 0, BreedingMatchCount)
	for _, m := range r.BestBreedingMatches {
		m.Breed = strings.TrimSpace(m.Breed)
		m.ExpectedBenefits = strings.TrimSpace(m.ExpectedBenefits)
		if m.Breed == "" {
			return errors.New("breeding match without breed")
		}
		matches = append(matches, m)
		if len(matches) == BreedingMatchCount {
			break
		}
	}
	if len(matches) < BreedingMatchCount {
		return fmt.Errorf("expected %d breeding matches, got %d", BreedingMatchCount, len(matches))
	}
	r.BestBreedingMatches = matches
	return nil
}

func validateNutrition(r *NutritionRecommendation) error {
	n := &r.NutritionRecommendation
	n.FeedingPlan = strings.TrimSpace(n.FeedingPlan)
	if n.FeedingPlan == "" {
		return errors.New("missing feeding_plan")
	}
	n.ProteinSource = dedupe(n.ProteinSource)
	return nil
}

func validateReproductive(r *ReproductiveBenefits) error {
	r.ReproductiveBenefits = strings.TrimSpace(r.ReproductiveBenefits)
	if r.ReproductiveBenefits == "" {
		return errors.New("missing reproductive_benefits")
	}
	return nil
}

// dedupe drops blank and repeated entries, comparing case-insensitively and keeping first occurrences.
func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
