package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/linkeval/internal/cache"
)

// Prediction is the outcome of asking the model for the titles in one sentence.
// Exactly one of Entities (possibly empty) or Failure is meaningful.
type Prediction struct {
	Entities []string
	Raw      string
	Cached   bool
	Failure  *PredictionFailure
}

// Failed reports whether the prediction could not be obtained
func (p Prediction) Failed() bool {
	return p.Failure != nil
}

// PredictionFailure explains why no prediction was obtained for a sentence
type PredictionFailure struct {
	Sentence string
	Reason   error
}

func (f *PredictionFailure) Error() string {
	return fmt.Sprintf("prediction failed: %v", f.Reason)
}

func (f *PredictionFailure) Unwrap() error {
	return f.Reason
}

// Succeeded wraps a list of titles as a successful prediction
func Succeeded(entities []string) Prediction {
	if entities == nil {
		entities = []string{}
	}
	return Prediction{Entities: entities}
}

// NewFailure wraps an error as a failed prediction
func NewFailure(sentence string, reason error) Prediction {
	return Prediction{Failure: &PredictionFailure{Sentence: sentence, Reason: reason}}
}

// PredictFunc adapts a plain function to the predictor contract
type PredictFunc func(ctx context.Context, sentence string) ([]string, error)

// Predict calls f and converts its error into a PredictionFailure
func (f PredictFunc) Predict(ctx context.Context, sentence string) Prediction {
	entities, err := f(ctx, sentence)
	if err != nil {
		return NewFailure(sentence, err)
	}
	return Succeeded(entities)
}

// PredictorOptions configures a Predictor
type PredictorOptions struct {
	Model        string
	Endpoint     string // rate limiting key
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
	Cache        cache.Cache // nil disables caching; entries use the cache's TTL
	Limiter      *Limiter    // nil disables pacing
	Logger       *zap.Logger
}

// Predictor asks an LLM provider for the Wikipedia titles in a sentence
type Predictor struct {
	provider Provider
	opts     PredictorOptions
	logger   *zap.Logger
}

// NewPredictor creates a predictor on top of provider
func NewPredictor(provider Provider, opts PredictorOptions) *Predictor {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.UserPrompt == "" {
		opts.UserPrompt = DefaultUserPrompt
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Predictor{
		provider: provider,
		opts:     opts,
		logger:   logger.With(zap.String("provider", provider.Name())),
	}
}

// Check fails when the provider cannot be reached with the current settings
func (p *Predictor) Check(ctx context.Context) error {
	if !p.provider.IsAvailable(ctx) {
		return fmt.Errorf("%s provider is not reachable with the configured credentials", p.provider.Name())
	}
	return nil
}

// Predict returns the titles the model links in sentence.
// Errors never escape: they come back as a failed Prediction and are not retried.
func (p *Predictor) Predict(ctx context.Context, sentence string) Prediction {
	key := cache.Key(p.provider.Name(), p.opts.Model, p.opts.SystemPrompt, p.opts.UserPrompt, sentence)

	if p.opts.Cache != nil {
		if data, ok := p.opts.Cache.Get(key); ok {
			var entities []string
			if err := json.Unmarshal(data, &entities); err == nil {
				p.logger.Debug("prediction cache hit", zap.String("sentence", sentence))
				pred := Succeeded(entities)
				pred.Cached = true
				return pred
			}
		}
	}

	if p.opts.Limiter != nil {
		if err := p.opts.Limiter.Wait(ctx, p.opts.Endpoint); err != nil {
			return NewFailure(sentence, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	resp, err := p.provider.Complete(ctx, CompletionRequest{
		System:      p.opts.SystemPrompt,
		Prompt:      BuildPrompt(p.opts.UserPrompt, sentence),
		Model:       p.opts.Model,
		MaxTokens:   p.opts.MaxTokens,
		Temperature: p.opts.Temperature,
	})
	if err != nil {
		return NewFailure(sentence, err)
	}

	pred := Succeeded(ParseTitles(resp.Text))
	pred.Raw = resp.Text

	p.logger.Debug("prediction received",
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed),
		zap.Strings("entities", pred.Entities))

	if p.opts.Cache != nil {
		data, err := json.Marshal(pred.Entities)
		if err == nil {
			if err := p.opts.Cache.Set(key, data, 0); err != nil {
				p.logger.Warn("prediction cache write failed", zap.Error(err))
			}
		}
	}

	return pred
}
