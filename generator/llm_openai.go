package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when the configuration leaves the model blank.
const DefaultModel = "gpt-4o-mini"

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
//
// A missing API key does not fail construction: every Complete call reports
// ErrMissingAPIKey instead, so a misconfigured server still answers requests.
type OpenAILLM struct {
	Model  string
	hasKey bool
	client openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	// Upstream failures surface once; the SDK would otherwise retry twice.
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithMiddleware(captureUpstreamError),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &OpenAILLM{
		Model:  model,
		hasKey: cfg.APIKey != "",
		client: openai.NewClient(opts...),
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if !o.hasKey {
		return "", ErrMissingAPIKey
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}
	if prompt.Temperature > 0 {
		params.Temperature = openai.Float(prompt.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return "", upstream
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			body := apiErr.RawJSON()
			if body == "" {
				body = apiErr.Error()
			}
			return "", &UpstreamError{StatusCode: apiErr.StatusCode, Body: body, err: err}
		}
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// maxErrorBody bounds how much of a failed upstream response is kept.
const maxErrorBody = 64 << 10

// captureUpstreamError turns a non-2xx response into an *UpstreamError
// carrying the raw body, whether or not the body is JSON.
func captureUpstreamError(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	resp, err := next(req)
	if err != nil || resp.StatusCode < 300 {
		return resp, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	body := strings.TrimSpace(string(data))
	if body == "" {
		body = resp.Status
	}
	return nil, &UpstreamError{
		StatusCode: resp.StatusCode,
		Body:       body,
		err:        fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status),
	}
}
