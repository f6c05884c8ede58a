// Package ratelimit exposes rate limited io implementations, used to bound
// the bandwidth consumed by blob downloads.
package ratelimit

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"
)

// RateLimitedReadCloser will use its limiter as a rate limit on the number of
// bytes read.
type RateLimitedReadCloser struct {
	ctx     context.Context
	r       io.ReadCloser
	limiter *rate.Limiter
}

// NewRateLimitedReadCloser creates a new RateLimitedReadCloser which respects
// "limiter" in terms of the number of bytes read.
func NewRateLimitedReadCloser(ctx context.Context, r io.ReadCloser, limiter *rate.Limiter) *RateLimitedReadCloser {
	return &RateLimitedReadCloser{ctx: ctx, r: r, limiter: limiter}
}

// Read will read into p whilst respecting the rate limit.
func (r *RateLimitedReadCloser) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n <= 0 {
		return n, err
	}

	if waitErr := waitChunked(r.ctx, r.limiter, n); waitErr != nil {
		return n, waitErr
	}

	return n, err
}

// Close will close the underlying reader.
func (r *RateLimitedReadCloser) Close() error {
	return r.r.Close()
}

// waitChunked waits for "n" tokens from the limiter, in chunks no larger than
// the limiter's burst so that a single large read cannot exceed it.
func waitChunked(ctx context.Context, limiter *rate.Limiter, n int) error {
	b := limiter.Burst()

	for n > 0 {
		chunk := min(n, b)

		if err := limiter.WaitN(ctx, chunk); err != nil {
			return fmt.Errorf("failed to wait for limiter: %w", err)
		}

		n -= chunk
	}

	return nil
}
