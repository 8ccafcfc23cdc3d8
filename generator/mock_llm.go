package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM is a placeholder for local development; it never calls a model.
// It answers with a fixed outline built from the prompt's fact lines.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	facts := promptFacts(prompt.User)
	plan := OutlinePlan{
		Summary: "Starter outline for " + facts["Business name"] + " (" + facts["Industry"] + ", " + facts["State"] + ").",
		Sections: []Section{
			{
				Title:       "Policy statement",
				Description: "Who the kit applies to and who owns it.",
				Items:       []string{"Scope and purpose", "Roles and responsibilities"},
			},
			{
				Title: "Procedures",
				Items: []string{"Reporting steps", "Training and acknowledgement", "Review schedule"},
			},
		},
		Implementation: "Assign an owner, adapt each section, and review annually.",
		Notes:          "Generated locally by the mock provider.",
		Disclaimer:     StandardDisclaimer,
	}
	out, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// promptFacts reads the "Key: value" lines at the top of an outline prompt.
func promptFacts(user string) map[string]string {
	facts := make(map[string]string)
	for _, line := range strings.Split(user, "\n") {
		k, v, ok := strings.Cut(line, ": ")
		if !ok || strings.HasPrefix(k, "\"") {
			continue
		}
		facts[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return facts
}
