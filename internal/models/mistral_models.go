package models

// Request/response envelopes for the Mistral chat completions endpoint.

type MistralRequest struct {
	Model    string           `json:"model"`
	Messages []MistralMessage `json:"messages"`
}

type MistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MistralResponse struct {
	Choices []MistralChoice `json:"choices"`
}

type MistralChoice struct {
	Message MistralMessage `json:"message"`
}
