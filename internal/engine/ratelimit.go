package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// newBWLimiter builds a token bucket for a whole-run byte budget. The
// burst is at least one copy buffer so a single read can never exceed it.
func newBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := int(bytesPerSec)
	if burst < 1<<20 {
		burst = 1 << 20
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// rateLimitedReader debits the shared limiter after each read, which
// throttles every worker against the same budget. Forcing reads through
// userspace is the point: kernel-side copy paths cannot be throttled.
type rateLimitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func newRateLimitedReader(ctx context.Context, r io.Reader, l *rate.Limiter) *rateLimitedReader {
	return &rateLimitedReader{ctx: ctx, r: r, limiter: l}
}

func (r *rateLimitedReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.limiter.WaitN(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
