package generator

import (
	"context"
	"errors"
	"log/slog"
)

// Agent turns a KitRequest into an OutlinePlan through the LLM.
type Agent struct {
	llm    LLMClient
	logger *slog.Logger
}

// Outline is the result of one generation.
type Outline struct {
	Plan OutlinePlan
	// Fallback is set when the model reply could not be parsed and Plan is FallbackPlan.
	Fallback bool
}

func NewAgent(llm LLMClient, logger *slog.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{llm: llm, logger: logger}, nil
}

// Generate validates req, prompts the model and parses its reply.
// Malformed replies are not errors: they come back as a fallback Outline.
func (a *Agent) Generate(ctx context.Context, req KitRequest) (Outline, error) {
	if err := req.Validate(); err != nil {
		return Outline{}, err
	}

	raw, err := a.llm.Complete(ctx, BuildOutlinePrompt(req))
	if err != nil {
		return Outline{}, err
	}

	plan, ok := ParsePlan(raw)
	if !ok {
		a.logger.Warn("model returned unparseable outline, using fallback plan",
			slog.String("product", req.ProductSlug),
			slog.Int("raw_len", len(raw)),
			slog.String("raw", raw))
		return Outline{Plan: FallbackPlan(raw), Fallback: true}, nil
	}
	return Outline{Plan: plan}, nil
}
