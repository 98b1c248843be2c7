package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitBriefly reports whether a request to endpoint is admitted within a few milliseconds
func waitBriefly(l *Limiter, endpoint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, endpoint) == nil
}

func TestLimiter_PerHost(t *testing.T) {
	l := NewLimiter(0.001, 1)

	assert.True(t, waitBriefly(l, "https://a.openai.azure.com/openai"))
	assert.False(t, waitBriefly(l, "https://a.openai.azure.com/other"))

	// A different host has its own bucket
	assert.True(t, waitBriefly(l, "https://api.anthropic.com"))
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background(), "x"))
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	require.NoError(t, l.Wait(context.Background(), "host"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "host"))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "example.com:8080", hostOf("http://example.com:8080/path"))
	assert.Equal(t, "azure", hostOf("azure"))
	assert.Equal(t, "", hostOf(""))
}
