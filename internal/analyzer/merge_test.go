package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeppurple/emotion-engine/internal/models"
	"github.com/deeppurple/emotion-engine/internal/providers"
)

func result(provider, version string, confidence float64) ProviderResult {
	return ProviderResult{
		Provider:     provider,
		ModelVersion: version,
		Result: models.AnalysisResult{
			PrimaryEmotion:   models.EmotionDetails{Emotion: "Joy", Percentage: 50},
			ConfidenceRating: models.Confidence(confidence),
			ModelVersion:     "raw-" + provider,
		},
	}
}

func TestMergeSelectsHighestConfidence(t *testing.T) {
	results := []ProviderResult{
		result("openai", "gpt-4o-mini", 80),
		result("gemini", "gemini-1.5-flash", 95),
		result("mistral", "mistral-small-latest", 70),
	}

	merged, err := RequireAll{}.Merge(results)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", merged.ModelVersion)
	assert.EqualValues(t, 95, merged.ConfidenceRating)
}

func TestMergeAllEqualPicksFirst(t *testing.T) {
	results := []ProviderResult{
		result("openai", "gpt-4o-mini", 50),
		result("gemini", "gemini-1.5-flash", 50),
		result("mistral", "mistral-small-latest", 50),
	}

	merged, err := RequireAll{}.Merge(results)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", merged.ModelVersion)
}

func TestMergeThirdConfidenceCannotFlipFirstMax(t *testing.T) {
	for _, third := range []float64{0, 50, 90} {
		results := []ProviderResult{
			result("openai", "gpt-4o-mini", 90),
			result("gemini", "gemini-1.5-flash", 40),
			result("mistral", "mistral-small-latest", third),
		}

		merged, err := RequireAll{}.Merge(results)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", merged.ModelVersion)
	}
}

func TestMergeStampsFixedIdentifier(t *testing.T) {
	results := []ProviderResult{
		result("openai", "gpt-4o-mini", 10),
		result("gemini", "gemini-1.5-flash", 20),
		result("mistral", "mistral-small-latest", 5),
	}

	merged, err := RequireAll{}.Merge(results)
	require.NoError(t, err)
	// Never the provider's self-reported version string.
	assert.Equal(t, "gemini-1.5-flash", merged.ModelVersion)
	assert.NotEqual(t, "raw-gemini", merged.ModelVersion)
}

func TestRequireAllFailsOnAnyError(t *testing.T) {
	boom := &providers.ProviderError{Provider: "gemini", Err: errors.New("boom")}
	results := []ProviderResult{
		result("openai", "gpt-4o-mini", 90),
		{Provider: "gemini", ModelVersion: "gemini-1.5-flash", Err: boom},
		result("mistral", "mistral-small-latest", 80),
	}

	_, err := RequireAll{}.Merge(results)
	var got *providers.ProviderError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "gemini", got.Provider)
}

func TestRequireAllPrefersCauseOverCancellation(t *testing.T) {
	cancelled := &providers.ProviderError{Provider: "openai", Err: context.Canceled}
	boom := &providers.ProviderError{Provider: "mistral", Err: errors.New("boom")}
	results := []ProviderResult{
		{Provider: "openai", Err: cancelled},
		result("gemini", "gemini-1.5-flash", 90),
		{Provider: "mistral", Err: boom},
	}

	_, err := RequireAll{}.Merge(results)
	var got *providers.ProviderError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "mistral", got.Provider)
}

func TestRequireAllTotalOutageReportsFirstProvider(t *testing.T) {
	// When every provider fails, whichever goroutine fails first cancels
	// the others, so the precedence-first provider's error is often just
	// collateral cancellation. The merge must still attribute the outage
	// to the first provider, not to the goroutine that won the race.
	down := errors.New("connection refused")
	results := []ProviderResult{
		{Provider: "openai", Err: &providers.ProviderError{Provider: "openai", Err: context.Canceled}},
		{Provider: "gemini", Err: &providers.ProviderError{Provider: "gemini", Err: context.Canceled}},
		{Provider: "mistral", Err: &providers.ProviderError{Provider: "mistral", Err: down}},
	}

	_, err := RequireAll{}.Merge(results)
	var got *providers.ProviderError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "openai", got.Provider)
}

func TestRequireAllTotalOutageAllRealErrors(t *testing.T) {
	results := []ProviderResult{
		{Provider: "openai", Err: &providers.ProviderError{Provider: "openai", Err: errors.New("openai down")}},
		{Provider: "gemini", Err: &providers.ProviderError{Provider: "gemini", Err: errors.New("gemini down")}},
		{Provider: "mistral", Err: &providers.ProviderError{Provider: "mistral", Err: errors.New("mistral down")}},
	}

	_, err := RequireAll{}.Merge(results)
	var got *providers.ProviderError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "openai", got.Provider)
}

func TestQuorumMergesAcrossSuccesses(t *testing.T) {
	boom := &providers.ProviderError{Provider: "openai", Err: errors.New("down")}
	results := []ProviderResult{
		{Provider: "openai", ModelVersion: "gpt-4o-mini", Err: boom},
		result("gemini", "gemini-1.5-flash", 60),
		result("mistral", "mistral-small-latest", 70),
	}

	merged, err := Quorum{Min: 2}.Merge(results)
	require.NoError(t, err)
	assert.Equal(t, "mistral-small-latest", merged.ModelVersion)
}

func TestQuorumNotMet(t *testing.T) {
	boom := &providers.ProviderError{Provider: "openai", Err: errors.New("down")}
	results := []ProviderResult{
		{Provider: "openai", Err: boom},
		{Provider: "gemini", Err: boom},
		result("mistral", "mistral-small-latest", 70),
	}

	_, err := Quorum{Min: 2}.Merge(results)
	assert.Error(t, err)
}

func TestQuorumZeroMinNeverAdmitsEmptySuccessSet(t *testing.T) {
	boom := &providers.ProviderError{Provider: "openai", Err: errors.New("down")}
	results := []ProviderResult{
		{Provider: "openai", Err: boom},
		{Provider: "gemini", Err: boom},
		{Provider: "mistral", Err: boom},
	}

	_, err := Quorum{Min: 0}.Merge(results)
	assert.Error(t, err)
}
