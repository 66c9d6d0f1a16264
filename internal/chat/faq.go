package chat

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed faq.yaml
var faqYAML []byte

// FAQEntry is one question and answer.
type FAQEntry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// FAQ is the static help content shown next to the chat.
type FAQ struct {
	Greeting           string     `yaml:"greeting" json:"greeting"`
	SuggestedQuestions []string   `yaml:"suggested_questions" json:"suggestedQuestions"`
	Entries            []FAQEntry `yaml:"faqs" json:"faqs"`
}

var (
	faqOnce sync.Once
	faq     FAQ
	faqErr  error
)

// LoadFAQ parses the embedded FAQ content once.
func LoadFAQ() (FAQ, error) {
	faqOnce.Do(func() {
		faq, faqErr = parseFAQ(faqYAML)
	})
	return faq, faqErr
}

func parseFAQ(raw []byte) (FAQ, error) {
	var out FAQ
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return FAQ{}, fmt.Errorf("parse faq: %w", err)
	}
	for i, e := range out.Entries {
		if e.Question == "" || e.Answer == "" {
			return FAQ{}, fmt.Errorf("parse faq: entry %d is incomplete", i)
		}
	}
	return out, nil
}
