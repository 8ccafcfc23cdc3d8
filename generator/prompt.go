package generator

import (
	"fmt"
	"strings"
)

const (
	// SystemInstruction is sent with every generation.
	SystemInstruction = "You generate structured compliance documentation for small U.S. businesses. Always include disclaimers."
	// StandardDisclaimer is the sentence every outline must carry.
	StandardDisclaimer = "Not legal advice. Not guaranteed compliance."
	// DefaultTemperature favours reproducible outlines.
	DefaultTemperature = 0.35
)

// Prompt is the message pair sent to the LLM.
type Prompt struct {
	System      string
	User        string
	Temperature float64
}

// BuildOutlinePrompt embeds the request fields verbatim and asks for a JSON
// object in the OutlinePlan shape.
func BuildOutlinePrompt(req KitRequest) Prompt {
	var sb strings.Builder
	sb.WriteString("Generate a compliance kit outline for:\n\n")
	sb.WriteString(fmt.Sprintf("Business name: %s\n", req.BusinessName))
	sb.WriteString(fmt.Sprintf("Industry: %s\n", req.Industry))
	sb.WriteString(fmt.Sprintf("State: %s\n", req.State))
	sb.WriteString(fmt.Sprintf("Workers: %s\n", orUnspecified(req.Employees)))
	sb.WriteString(fmt.Sprintf("Special risks: %s\n", orUnspecified(req.Risks)))
	sb.WriteString(fmt.Sprintf("Kit: %s\n", req.ProductName))
	sb.WriteString("\nReturn ONLY the JSON object in this format:\n\n")
	sb.WriteString("{\n")
	sb.WriteString("\"summary\": \"...\",\n")
	sb.WriteString("\"sections\": [\n")
	sb.WriteString("{ \"title\": \"...\", \"description\": \"...\", \"items\": [\"...\", \"...\"] }\n")
	sb.WriteString("],\n")
	sb.WriteString("\"implementation\": \"...\",\n")
	sb.WriteString("\"notes\": \"...\",\n")
	sb.WriteString(fmt.Sprintf("\"disclaimer\": %q\n", StandardDisclaimer))
	sb.WriteString("}")

	return Prompt{
		System:      SystemInstruction,
		User:        sb.String(),
		Temperature: DefaultTemperature,
	}
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}
