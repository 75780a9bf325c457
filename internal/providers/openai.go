package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/deeppurple/emotion-engine/config"
)

const (
	openAIName       = "openai"
	openAIIdentifier = "gpt-4o-mini"
	openAIMaxTokens  = 10000
)

// OpenAI calls the OpenAI chat completions API. It is also the backend
// the missing-vocabulary classifier is fixed to.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(cfg config.ProviderConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", openAIName, ErrMissingCredential)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	model := cfg.Model
	if model == "" {
		model = openAIIdentifier
	}

	slog.Info("[OpenAI] adapter initialized",
		slog.String("model", model),
		slog.Duration("timeout", cfg.Timeout))

	return &OpenAI{client: openai.NewClientWithConfig(clientCfg), model: model}, nil
}

func (o *OpenAI) Name() string         { return openAIName }
func (o *OpenAI) ModelVersion() string { return openAIIdentifier }

func (o *OpenAI) Classify(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: openAIMaxTokens,
	})
	if err != nil {
		return "", &ProviderError{Provider: openAIName, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: openAIName, Err: errors.New("no choices in response")}
	}

	return resp.Choices[0].Message.Content, nil
}
