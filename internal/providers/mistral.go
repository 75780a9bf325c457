package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/deeppurple/emotion-engine/config"
	"github.com/deeppurple/emotion-engine/internal/models"
)

const (
	mistralName       = "mistral"
	mistralIdentifier = "mistral-small-latest"
)

// Mistral calls the Mistral chat completions API, which speaks the same
// choices/message envelope as OpenAI but authenticates with its own key.
type Mistral struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

func NewMistral(cfg config.ProviderConfig) (*Mistral, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", mistralName, ErrMissingCredential)
	}

	model := cfg.Model
	if model == "" {
		model = mistralIdentifier
	}

	slog.Info("[Mistral] adapter initialized",
		slog.String("model", model),
		slog.Duration("timeout", cfg.Timeout))

	return &Mistral{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      model,
	}, nil
}

func (m *Mistral) Name() string         { return mistralName }
func (m *Mistral) ModelVersion() string { return mistralIdentifier }

func (m *Mistral) Classify(ctx context.Context, prompt string) (string, error) {
	reqBody := models.MistralRequest{
		Model: m.model,
		Messages: []models.MistralMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ProviderError{Provider: mistralName, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: mistralName, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: mistralName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ProviderError{
			Provider: mistralName,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet),
		}
	}

	var envelope models.MistralResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", &ProviderError{Provider: mistralName, Err: fmt.Errorf("decoding envelope: %w", err)}
	}
	if len(envelope.Choices) == 0 {
		return "", &ProviderError{Provider: mistralName, Err: fmt.Errorf("no choices in response")}
	}

	return envelope.Choices[0].Message.Content, nil
}
