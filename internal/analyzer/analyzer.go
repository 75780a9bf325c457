package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deeppurple/emotion-engine/internal/lexicon"
	"github.com/deeppurple/emotion-engine/internal/models"
	"github.com/deeppurple/emotion-engine/internal/providers"
)

// Analyzer turns free-form content into an emotion profile for a named
// model. Each Analyze call is an independent unit of work; the lexicon
// store is the only shared state it touches.
type Analyzer struct {
	store     lexicon.Store
	expander  *lexicon.Expander
	providers []providers.Provider
	policy    MergePolicy
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMergePolicy overrides the default all-or-nothing policy.
func WithMergePolicy(policy MergePolicy) Option {
	return func(a *Analyzer) { a.policy = policy }
}

// New builds an Analyzer over the given providers. The slice order is the
// merge precedence order: the first provider wins all-equal confidence
// ties.
func New(store lexicon.Store, expander *lexicon.Expander, provs []providers.Provider, opts ...Option) *Analyzer {
	a := &Analyzer{
		store:     store,
		expander:  expander,
		providers: provs,
		policy:    RequireAll{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the two-phase pipeline: first the vocabulary expansion
// must complete (success or no-op), then the prompt is built from the
// freshly updated lexicon state and fanned out to every provider
// concurrently. The phases are strictly ordered; the prompt would miss
// just-discovered associations otherwise.
func (a *Analyzer) Analyze(ctx context.Context, content, modelName string) (models.AnalysisResult, error) {
	start := time.Now()

	if err := a.expander.EnsureVocabulary(ctx, content, modelName); err != nil {
		return models.AnalysisResult{}, err
	}

	model, err := a.store.FindModelByName(ctx, modelName)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	if model == nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %s", lexicon.ErrModelNotFound, modelName)
	}
	if len(model.EmotionCategories) == 0 {
		return models.AnalysisResult{}, fmt.Errorf("%w: %s", lexicon.ErrEmptyTaxonomy, modelName)
	}

	associations, err := a.store.FindAssociationsByCategories(ctx, model.EmotionCategories)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	prompt := lexicon.BuildAnalysisPrompt(content, model.EmotionCategories, associations)

	results := a.fanOut(ctx, prompt)
	merged, err := a.policy.Merge(results)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	slog.Info("[Analyzer] analysis complete",
		slog.String("model", modelName),
		slog.String("selected", merged.ModelVersion),
		slog.Duration("elapsed", time.Since(start)))

	return merged, nil
}

// fanOut sends the same prompt to every provider concurrently and waits
// for all of them to settle. Under a fail-fast policy the first failure
// cancels the sibling calls through the group context, so nobody blocks
// on doomed work.
func (a *Analyzer) fanOut(ctx context.Context, prompt string) []ProviderResult {
	g, gctx := errgroup.WithContext(ctx)

	results := make([]ProviderResult, len(a.providers))
	for i, p := range a.providers {
		i, p := i, p
		g.Go(func() error {
			result, err := a.callProvider(gctx, p, prompt)
			results[i] = ProviderResult{
				Provider:     p.Name(),
				ModelVersion: p.ModelVersion(),
				Result:       result,
				Err:          err,
			}
			if err != nil {
				slog.Warn("[Analyzer] provider call failed",
					slog.String("provider", p.Name()),
					slog.String("error", err.Error()))
				if a.policy.FailFast() {
					return err
				}
			}
			return nil
		})
	}
	g.Wait()

	return results
}

func (a *Analyzer) callProvider(ctx context.Context, p providers.Provider, prompt string) (models.AnalysisResult, error) {
	raw, err := p.Classify(ctx, prompt)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	result, err := providers.ParseAnalysis(raw)
	if err != nil {
		return models.AnalysisResult{}, &providers.ProviderError{Provider: p.Name(), Err: err}
	}

	return result, nil
}
