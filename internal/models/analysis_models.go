package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// EmotionDetails is an emotion label with its share of the content.
type EmotionDetails struct {
	Emotion    string  `json:"emotion"`
	Percentage float64 `json:"percentage"`
}

// Confidence is a provider-reported confidence rating in [0,100].
// Providers are not reliable about the JSON type here: some return a
// number, some a quoted number, some omit the field. Anything that is not
// numeric decodes to 0.
type Confidence float64

func (c *Confidence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*c = Confidence(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*c = Confidence(f)
			return nil
		}
	}

	*c = 0
	return nil
}

// AnalysisResult is the structured emotion profile for one piece of
// content. ModelVersion always holds the fixed identifier of the provider
// whose answer was selected, never provider-reported free text.
type AnalysisResult struct {
	PrimaryEmotion    EmotionDetails   `json:"primaryEmotion"`
	SecondaryEmotions []EmotionDetails `json:"secondaryEmotions"`
	ConfidenceRating  Confidence       `json:"confidenceRating"`
	Summary           string           `json:"summary"`
	ModelVersion      string           `json:"modelVersion"`
}

// Communication is an analyzed piece of content as persisted for history.
type Communication struct {
	ID                string           `json:"id" dynamodbav:"id"`
	Content           string           `json:"content" dynamodbav:"content"`
	ModelName         string           `json:"modelName" dynamodbav:"model_name"`
	PrimaryEmotion    EmotionDetails   `json:"primaryEmotion" dynamodbav:"primary_emotion"`
	SecondaryEmotions []EmotionDetails `json:"secondaryEmotions" dynamodbav:"secondary_emotions"`
	ConfidenceRating  float64          `json:"confidenceRating" dynamodbav:"confidence_rating"`
	Summary           string           `json:"summary" dynamodbav:"summary"`
	ModelVersion      string           `json:"modelVersion" dynamodbav:"model_version"`
	LocalScore        float64          `json:"localScore" dynamodbav:"local_score"`
	LocalLabel        string           `json:"localLabel" dynamodbav:"local_label"`
	CreatedAt         time.Time        `json:"createdAt" dynamodbav:"created_at"`
}
