package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/deeppurple/emotion-engine/internal/models"
)

var (
	// ErrMissingCredential is returned at construction when a provider's
	// API key is absent from the configuration.
	ErrMissingCredential = errors.New("provider credential missing")

	// ErrMalformedOutput is returned when the JSON embedded in a
	// provider's reply does not parse or is not the expected shape.
	ErrMalformedOutput = errors.New("malformed provider output")
)

// ProviderError marks a failed call to one specific backend: network
// error, timeout, non-2xx status, or an envelope missing the fields the
// adapter unwraps.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provider is one language-model backend. Classify sends the prompt and
// returns the raw text the backend produced, with the provider-specific
// response envelope already unwrapped.
type Provider interface {
	Name() string
	// ModelVersion is the fixed identifier stamped onto results selected
	// from this provider. It is a constant per adapter, never the
	// backend's self-reported version string.
	ModelVersion() string
	Classify(ctx context.Context, prompt string) (string, error)
}

// StripFence removes a leading/trailing markdown code fence from a model
// reply. Models regularly wrap JSON in ```json fences even when told not
// to.
func StripFence(s string) string {
	cleaned := strings.TrimSpace(s)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimPrefix(cleaned, "\n")
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}

// ParseAnalysis decodes the analysis JSON embedded in a provider reply.
func ParseAnalysis(raw string) (models.AnalysisResult, error) {
	var result models.AnalysisResult

	cleaned := StripFence(raw)
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if result.PrimaryEmotion.Emotion == "" {
		return result, fmt.Errorf("%w: missing primaryEmotion", ErrMalformedOutput)
	}

	return result, nil
}
