package model

import (
	"fmt"
	"strings"
	"time"
)

// BoundaryPolicy decides how the sentence cap is compared against the
// number of sentences already emitted by the corpus loader.
type BoundaryPolicy string

const (
	// BoundaryExclusive emits while count < max, yielding at most max sentences.
	BoundaryExclusive BoundaryPolicy = "exclusive"
	// BoundaryInclusive emits while count <= max, yielding at most max+1 sentences.
	// This matches the older preview script and is kept for reproducing its output.
	BoundaryInclusive BoundaryPolicy = "inclusive"
)

// Allows reports whether another sentence may be emitted after count emissions.
// A non-positive max disables the cap.
func (p BoundaryPolicy) Allows(count, max int) bool {
	if max <= 0 {
		return true
	}
	if p == BoundaryInclusive {
		return count <= max
	}
	return count < max
}

// Config is the complete linkeval configuration
type Config struct {
	Corpus       CorpusConfig    `yaml:"corpus" mapstructure:"corpus"`
	Sampling     SamplingConfig  `yaml:"sampling" mapstructure:"sampling"`
	LLM          LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig    `yaml:"output" mapstructure:"output"`
}

// CorpusConfig controls how the tagged corpus is read
type CorpusConfig struct {
	Path            string         `yaml:"path" mapstructure:"path"`
	MaxSentences    int            `yaml:"max_sentences" mapstructure:"max_sentences"`
	BoundaryPolicy  BoundaryPolicy `yaml:"boundary_policy" mapstructure:"boundary_policy"`
	ExcludedClasses []string       `yaml:"excluded_classes" mapstructure:"excluded_classes"`
}

// SamplingConfig controls which sentences get evaluated
type SamplingConfig struct {
	Size       int    `yaml:"size" mapstructure:"size"`
	Seed       uint64 `yaml:"seed" mapstructure:"seed"`
	MaxSamples int    `yaml:"max_samples" mapstructure:"max_samples"` // 0 = whole sample
}

// LLMConfig configures the entity-linking predictor
type LLMConfig struct {
	Provider     string        `yaml:"provider" mapstructure:"provider"` // azure, openai, anthropic, ollama
	Model        string        `yaml:"model" mapstructure:"model"`       // model or Azure deployment name
	APIKey       string        `yaml:"-" mapstructure:"api_key"`
	BaseURL      string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIVersion   string        `yaml:"api_version,omitempty" mapstructure:"api_version"`
	Timeout      int           `yaml:"timeout" mapstructure:"timeout"` // seconds per request
	MaxTokens    int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature  float32       `yaml:"temperature" mapstructure:"temperature"`
	SystemPrompt string        `yaml:"system_prompt,omitempty" mapstructure:"system_prompt"`
	UserPrompt   string        `yaml:"user_prompt,omitempty" mapstructure:"user_prompt"`
	RunTimeout   time.Duration `yaml:"run_timeout" mapstructure:"run_timeout"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig controls the prediction cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig paces predictor requests per endpoint host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls where reports are written
type OutputConfig struct {
	JSONPath     string `yaml:"json" mapstructure:"json"`
	CSVPath      string `yaml:"csv" mapstructure:"csv"`
	MarkdownPath string `yaml:"markdown" mapstructure:"markdown"`
	Verbose      bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultExcludedClasses are the concept and year tags ignored by the loader.
var DefaultExcludedClasses = []string{"ANIM", "FOOD", "DIS", "PLANT", "TIME"}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Path:            "dev_nl.tsv",
			MaxSentences:    100,
			BoundaryPolicy:  BoundaryExclusive,
			ExcludedClasses: append([]string(nil), DefaultExcludedClasses...),
		},
		Sampling: SamplingConfig{
			Size: 100,
			Seed: 42,
		},
		LLM: LLMConfig{
			Provider:    "azure",
			APIVersion:  "2024-06-01",
			Timeout:     30,
			MaxTokens:   200,
			Temperature: 0.1,
			RunTimeout:  30 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".linkeval-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         1,
		},
		Output: OutputConfig{
			JSONPath: "evaluation_results.json",
		},
	}
}

// Validate checks settings that would otherwise fail halfway through a run
func (c *Config) Validate() error {
	switch c.Corpus.BoundaryPolicy {
	case BoundaryExclusive, BoundaryInclusive:
	case "":
		c.Corpus.BoundaryPolicy = BoundaryExclusive
	default:
		return fmt.Errorf("unknown boundary policy: %s (supported: exclusive, inclusive)", c.Corpus.BoundaryPolicy)
	}

	if strings.TrimSpace(c.Corpus.Path) == "" {
		return fmt.Errorf("corpus path is required")
	}
	if c.Sampling.Size < 0 {
		return fmt.Errorf("sample size must not be negative, got %d", c.Sampling.Size)
	}
	if c.RateLimiting.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative")
	}

	return nil
}
