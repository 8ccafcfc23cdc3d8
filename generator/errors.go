package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFields is returned before any model call when a required
	// KitRequest field is blank.
	ErrMissingFields = errors.New("missing required fields")
	// ErrUnknownProduct is returned when the slug is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrMissingAPIKey is returned on every Complete while no credential is configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set in environment variables")
)

// UpstreamError is a non-success response from the text-generation provider.
type UpstreamError struct {
	StatusCode int
	Body       string
	err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("OpenAI error: %s", e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}
