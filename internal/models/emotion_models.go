package models

// Model is a named emotion taxonomy. Model names are unique; predefined
// models are seeded at startup and their structure cannot be changed
// through the API.
type Model struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Predefined        bool              `json:"predefined"`
	EmotionCategories []EmotionCategory `json:"emotionCategories,omitempty"`
}

// EmotionCategory is one emotion label inside a model. The label is
// unique within its model.
type EmotionCategory struct {
	ID         int64  `json:"id"`
	ModelID    int64  `json:"modelId"`
	Emotion    string `json:"emotion"`
	Predefined bool   `json:"predefined"`
}

// WordEmotionAssociation ties a word or emoji grapheme to an emotion
// category. (word, category) pairs are unique. Emotion carries the owning
// category's label so the matcher does not have to re-resolve it.
type WordEmotionAssociation struct {
	ID                int64  `json:"id"`
	EmotionCategoryID int64  `json:"emotionCategoryId"`
	Word              string `json:"word"`
	Emotion           string `json:"emotion"`
	Predefined        bool   `json:"predefined"`
}

// WordEmotion is one entry of the missing-vocabulary classifier's JSON
// array response.
type WordEmotion struct {
	Word    string `json:"word"`
	Emotion string `json:"emotion"`
}
