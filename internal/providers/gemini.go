package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/deeppurple/emotion-engine/config"
	"github.com/deeppurple/emotion-engine/internal/models"
)

const (
	geminiName       = "gemini"
	geminiIdentifier = "gemini-1.5-flash"
)

// Gemini calls the Google generative-language generateContent API with a
// plain HTTP client. The key travels as a query parameter, which is how
// this API authenticates.
type Gemini struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

func NewGemini(cfg config.ProviderConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", geminiName, ErrMissingCredential)
	}

	model := cfg.Model
	if model == "" {
		model = geminiIdentifier
	}

	slog.Info("[Gemini] adapter initialized",
		slog.String("model", model),
		slog.Duration("timeout", cfg.Timeout))

	return &Gemini{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      model,
	}, nil
}

func (g *Gemini) Name() string         { return geminiName }
func (g *Gemini) ModelVersion() string { return geminiIdentifier }

func (g *Gemini) Classify(ctx context.Context, prompt string) (string, error) {
	reqBody := models.GeminiRequest{
		Contents: []models.GeminiContent{
			{Parts: []models.GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: models.GeminiGenerationConfig{
			Temperature:     1,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 8192,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ProviderError{Provider: geminiName, Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, g.model, url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: geminiName, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: geminiName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ProviderError{
			Provider: geminiName,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet),
		}
	}

	var envelope models.GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", &ProviderError{Provider: geminiName, Err: fmt.Errorf("decoding envelope: %w", err)}
	}
	if len(envelope.Candidates) == 0 {
		return "", &ProviderError{Provider: geminiName, Err: fmt.Errorf("no candidates in response")}
	}
	parts := envelope.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", &ProviderError{Provider: geminiName, Err: fmt.Errorf("no parts in first candidate")}
	}

	return parts[0].Text, nil
}
