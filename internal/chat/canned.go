package chat

import "strings"

// Canned replies used when the generative-language service is not configured.
const (
	FeedingReply  = "For Jersey cows, a balanced diet should include high-quality alfalfa hay, corn silage, and a protein supplement like soybean meal. Adult cows typically need 2-3% of their body weight in dry matter daily."
	BreedingReply = "Jersey cows are excellent for crossbreeding with Holstein, Brown Swiss, or Gir breeds to improve milk production, fat content, or heat tolerance. The first breeding should occur when the heifer reaches about 15 months of age or 800 pounds."
	HealthReply   = "Common diseases in Jersey cows include mastitis, milk fever, and ketosis. Regular vaccinations, proper nutrition, and good management practices are essential for prevention. Ensure clean housing and proper milking procedures."
	GenericReply  = "I can help with questions about cattle breeding, nutrition, health, and management. What specific information are you looking for about your cattle?"
)

// cannedRules are checked in order; the first rule with a matching keyword wins.
var cannedRules = []struct {
	keywords []string
	reply    string
}{
	{keywords: []string{"feed", "nutrition"}, reply: FeedingReply},
	{keywords: []string{"breed", "breeding"}, reply: BreedingReply},
	{keywords: []string{"disease", "health"}, reply: HealthReply},
}

// CannedReply picks an offline reply by keyword over the lower-cased text.
func CannedReply(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range cannedRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}
	return GenericReply
}
