package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/deeppurple/emotion-engine/internal/models"
)

// ProviderResult is one provider's outcome in the fan-out, in precedence
// order.
type ProviderResult struct {
	Provider     string
	ModelVersion string
	Result       models.AnalysisResult
	Err          error
}

// MergePolicy reconciles the fan-out outcomes into a single result.
type MergePolicy interface {
	// FailFast reports whether the first provider failure should cancel
	// the remaining in-flight calls.
	FailFast() bool
	Merge(results []ProviderResult) (models.AnalysisResult, error)
}

// RequireAll is the default policy: the analysis succeeds only if every
// provider succeeded. There is no 2-of-3 fallback.
type RequireAll struct{}

func (RequireAll) FailFast() bool { return true }

func (RequireAll) Merge(results []ProviderResult) (models.AnalysisResult, error) {
	if len(results) == 0 {
		return models.AnalysisResult{}, errors.New("no provider results to merge")
	}

	failed := 0
	var firstErr, cause error
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		failed++
		if firstErr == nil {
			firstErr = r.Err
		}
		// Sibling calls cancelled after another provider already failed
		// are collateral, not the cause worth reporting.
		if cause == nil && !errors.Is(r.Err, context.Canceled) {
			cause = r.Err
		}
	}

	switch {
	case failed == 0:
		return selectByConfidence(results), nil
	case failed == len(results):
		// A total outage is attributed to the first provider in
		// precedence order, not to whichever goroutine happened to lose
		// the cancellation race.
		return models.AnalysisResult{}, results[0].Err
	case cause != nil:
		return models.AnalysisResult{}, cause
	default:
		return models.AnalysisResult{}, firstErr
	}
}

// Quorum succeeds when at least Min providers answered, merging across
// the successes. It is an explicit opt-in mode; the default contract
// stays all-or-nothing.
type Quorum struct {
	Min int
}

func (Quorum) FailFast() bool { return false }

func (q Quorum) Merge(results []ProviderResult) (models.AnalysisResult, error) {
	// A quorum below one would admit an empty success set.
	need := q.Min
	if need < 1 {
		need = 1
	}

	var succeeded []ProviderResult
	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		succeeded = append(succeeded, r)
	}

	if len(succeeded) < need {
		if firstErr != nil {
			return models.AnalysisResult{}, fmt.Errorf("quorum of %d not met (%d succeeded): %w",
				need, len(succeeded), firstErr)
		}
		return models.AnalysisResult{}, fmt.Errorf("quorum of %d not met (%d succeeded)",
			need, len(succeeded))
	}

	return selectByConfidence(succeeded), nil
}

// selectByConfidence picks the highest-confidence result; on ties the
// earliest provider in precedence order wins. The winner's modelVersion
// is overwritten with that provider's fixed identifier so downstream
// consumers see a closed set of values.
func selectByConfidence(results []ProviderResult) models.AnalysisResult {
	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].Result.ConfidenceRating > results[best].Result.ConfidenceRating {
			best = i
		}
	}

	selected := results[best].Result
	selected.ModelVersion = results[best].ModelVersion
	return selected
}
