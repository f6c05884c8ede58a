package ratelimit

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimitedReadCloserReadsAll(t *testing.T) {
	var (
		limiter = rate.NewLimiter(rate.Limit(1<<20), 1<<16)
		reader  = NewRateLimitedReadCloser(context.Background(), io.NopCloser(strings.NewReader("hello")), limiter)
	)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
	require.NoError(t, reader.Close())
}

func TestRateLimitedReadCloserRespectsLimit(t *testing.T) {
	var (
		// 32 tokens every 50ms, pre-filled burst of 16 so that reading 48
		// bytes must block for at least one refill interval.
		limiter = rate.NewLimiter(rate.Every(50*time.Millisecond/32), 16)
		body    = io.NopCloser(strings.NewReader(strings.Repeat("x", 48)))
		reader  = NewRateLimitedReadCloser(context.Background(), body, limiter)
	)

	start := time.Now()

	_, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestRateLimitedReadCloserContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var (
		limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
		body    = io.NopCloser(strings.NewReader(strings.Repeat("x", 8)))
		reader  = NewRateLimitedReadCloser(ctx, body, limiter)
	)

	_, err := io.ReadAll(reader)
	require.ErrorIs(t, err, context.Canceled)
}
