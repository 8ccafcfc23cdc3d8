package generator

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencePattern matches a reply that is entirely one markdown code block.
var fencePattern = regexp.MustCompile("(?s)^```(?:json|JSON)?[ \t]*\\n?(.*?)\\s*```$")

// ParsePlan decodes the model's reply as an OutlinePlan. It reports false when
// the reply is not a JSON object of that shape; callers then use FallbackPlan.
func ParsePlan(raw string) (OutlinePlan, bool) {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); len(m) == 2 {
		text = strings.TrimSpace(m[1])
	}
	if !strings.HasPrefix(text, "{") {
		return OutlinePlan{}, false
	}
	var plan OutlinePlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return OutlinePlan{}, false
	}
	return plan, true
}

// FallbackPlan wraps unparseable model output in a fixed outline so the
// response always has the OutlinePlan shape.
func FallbackPlan(raw string) OutlinePlan {
	return OutlinePlan{
		Summary: "Generated outline",
		Sections: []Section{
			{
				Title:       "Raw content",
				Description: "Model returned unstructured content. Paste into a document.",
				Items:       []string{raw},
			},
		},
		Implementation: "Review all content and customize for your workplace.",
		Notes:          "Always confirm with a qualified professional before relying on these materials.",
		Disclaimer:     StandardDisclaimer,
	}
}
