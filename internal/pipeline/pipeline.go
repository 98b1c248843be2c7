package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/linkeval/internal/cache"
	"github.com/ppiankov/linkeval/internal/llm"
	"github.com/ppiankov/linkeval/internal/model"
	"github.com/ppiankov/linkeval/internal/score"
)

// Predictor links the named entities in one sentence to Wikipedia titles
type Predictor interface {
	Predict(ctx context.Context, sentence string) llm.Prediction
}

// Pipeline orchestrates an evaluation run
type Pipeline struct {
	predictor Predictor
	renderer  *Renderer
	config    *model.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewPipeline creates a pipeline that scores predictions from predictor
func NewPipeline(predictor Predictor, cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		predictor: predictor,
		renderer:  NewRenderer(),
		config:    cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewPredictor builds the configured LLM predictor with its cache and rate limiter
func NewPredictor(cfg *model.Config, logger *zap.Logger) (*llm.Predictor, error) {
	llmConfig := llm.ConfigFromModel(cfg.LLM)
	provider, err := llm.NewProvider(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	endpoint := cfg.LLM.BaseURL
	if endpoint == "" {
		endpoint = provider.Name()
	}

	return llm.NewPredictor(provider, llm.PredictorOptions{
		Model:        cfg.LLM.Model,
		Endpoint:     endpoint,
		SystemPrompt: cfg.LLM.SystemPrompt,
		UserPrompt:   cfg.LLM.UserPrompt,
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
		Cache:        c,
		Limiter:      llm.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		Logger:       logger,
	}), nil
}

// Evaluate predicts and scores every sentence of the sample in order.
// Predictor failures are recorded on the result and scored as empty
// predictions. If ctx is cancelled the partial report is returned with ctx's error.
func (p *Pipeline) Evaluate(ctx context.Context, sample []model.Sentence) (*model.Report, error) {
	records := sample
	if limit := p.config.Sampling.MaxSamples; limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	run := &model.RunInfo{
		ID:         uuid.NewString(),
		Provider:   p.config.LLM.Provider,
		Model:      p.config.LLM.Model,
		Corpus:     p.config.Corpus.Path,
		Seed:       p.config.Sampling.Seed,
		SampleSize: len(sample),
		StartedAt:  p.now(),
	}
	logger := p.logger.With(zap.String("run_id", run.ID))
	logger.Info("evaluation started", zap.Int("sentences", len(records)))

	report := &model.Report{
		Results: make([]model.Result, 0, len(records)),
		Run:     run,
	}
	var totals score.Totals

	var runErr error
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		logger.Debug("evaluating sentence", zap.Int("index", i+1), zap.Int("total", len(records)))

		result := p.evaluateOne(ctx, record, logger)
		if result.Error != "" {
			// A call cut short by cancellation was never answered; keep it out of the report
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
			run.Failures++
		}

		totals.Add(result.Metrics)
		report.Results = append(report.Results, result)
		report.ErrorAnalysis.FalsePositives = append(report.ErrorAnalysis.FalsePositives,
			score.FalsePositives(result.Predicted, result.Gold)...)
		report.ErrorAnalysis.FalseNegatives = append(report.ErrorAnalysis.FalseNegatives,
			score.FalseNegatives(result.Predicted, result.Gold)...)
	}

	report.Overall = totals.Overall()
	run.Evaluated = len(report.Results)
	run.FinishedAt = p.now()

	logger.Info("evaluation finished",
		zap.Int("evaluated", run.Evaluated),
		zap.Int("failures", run.Failures),
		zap.Float64("precision", report.Overall.Precision),
		zap.Float64("recall", report.Overall.Recall),
		zap.Float64("f1", report.Overall.F1))

	if runErr != nil {
		return report, fmt.Errorf("evaluation interrupted after %d sentences: %w", run.Evaluated, runErr)
	}
	return report, nil
}

func (p *Pipeline) evaluateOne(ctx context.Context, record model.Sentence, logger *zap.Logger) model.Result {
	pred := p.predictor.Predict(ctx, record.Text)

	result := model.Result{
		Sentence:  record.Text,
		Gold:      record.Entities,
		Predicted: pred.Entities,
	}
	if pred.Failed() {
		logger.Warn("prediction failed, scoring as empty",
			zap.String("sentence", record.Text),
			zap.Error(pred.Failure.Reason))
		result.Error = pred.Failure.Reason.Error()
		result.Predicted = []string{}
	}
	if result.Predicted == nil {
		result.Predicted = []string{}
	}

	result.Metrics = score.Calculate(result.Predicted, result.Gold)
	return result
}

// RenderReport writes the report to every configured output and prints the summary
func (p *Pipeline) RenderReport(report *model.Report) error {
	out := p.config.Output

	if out.JSONPath != "" {
		if err := p.renderer.RenderJSON(report, out.JSONPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Info("wrote JSON report", zap.String("path", out.JSONPath))
	}

	if out.CSVPath != "" {
		if err := p.renderer.RenderCSV(report, out.CSVPath); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		p.logger.Info("wrote CSV report", zap.String("path", out.CSVPath))
	}

	if out.MarkdownPath != "" {
		if err := p.renderer.RenderMarkdown(report, out.MarkdownPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.logger.Info("wrote Markdown report", zap.String("path", out.MarkdownPath))
	}

	return nil
}
