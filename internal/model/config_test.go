package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundaryPolicy_Allows(t *testing.T) {
	tests := []struct {
		policy BoundaryPolicy
		count  int
		max    int
		want   bool
	}{
		{BoundaryExclusive, 2, 3, true},
		{BoundaryExclusive, 3, 3, false},
		{BoundaryInclusive, 3, 3, true},
		{BoundaryInclusive, 4, 3, false},
		{"", 3, 3, false},
		{BoundaryExclusive, 1000, 0, true},
		{BoundaryInclusive, 1000, -1, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.policy.Allows(tt.count, tt.max),
			"%q.Allows(%d, %d)", tt.policy, tt.count, tt.max)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.Corpus.MaxSentences)
	assert.Equal(t, BoundaryExclusive, cfg.Corpus.BoundaryPolicy)
	assert.Equal(t, DefaultExcludedClasses, cfg.Corpus.ExcludedClasses)
	assert.Equal(t, uint64(42), cfg.Sampling.Seed)
	assert.Equal(t, float32(0.1), cfg.LLM.Temperature)
	assert.Equal(t, 200, cfg.LLM.MaxTokens)
	require.NoError(t, cfg.Validate())

	// The exclusion list is a copy
	cfg.Corpus.ExcludedClasses[0] = "PER"
	assert.Equal(t, "ANIM", DefaultExcludedClasses[0])
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Corpus.BoundaryPolicy = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BoundaryExclusive, cfg.Corpus.BoundaryPolicy)

	cfg = DefaultConfig()
	cfg.Corpus.BoundaryPolicy = "sometimes"
	assert.ErrorContains(t, cfg.Validate(), "unknown boundary policy")

	cfg = DefaultConfig()
	cfg.Corpus.Path = "  "
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Sampling.Size = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RateLimiting.RequestsPerSecond = -2
	assert.Error(t, cfg.Validate())
}

func TestResult_IsPerfect(t *testing.T) {
	assert.True(t, Result{Metrics: Metrics{TP: 2, F1: 1}}.IsPerfect())
	assert.False(t, Result{Metrics: Metrics{TP: 1, FN: 1, F1: 0.667}}.IsPerfect())
	assert.False(t, Result{}.IsPerfect())
}
