package pagelingo

import (
	"context"
	"sync"
	"time"
)

// dispatcher issues batches in waves of bounded concurrency, owning the
// rate limiter interaction and the per-string fallback path.
type dispatcher struct {
	provider Provider
	limiter  *RateLimiter
	cfg      PipelineConfig
}

// run processes batches wave by wave, at most cfg.MaxConcurrent in
// flight at once, pausing cfg.RequestDelay between waves. The returned
// slice is parallel to batches, each entry holding exactly one result
// per batch text. The only returned error is context cancellation;
// every other failure degrades per string inside the batch.
func (d *dispatcher) run(ctx context.Context, batches []Batch, targetLang, sourceLang string) ([][]string, error) {
	outs := make([][]string, len(batches))
	errs := make([]error, len(batches))

	for start := 0; start < len(batches); start += d.cfg.MaxConcurrent {
		end := min(start+d.cfg.MaxConcurrent, len(batches))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outs[i], errs[i] = d.runBatch(ctx, batches[i], targetLang, sourceLang)
			}(i)
		}
		wg.Wait()

		for i := start; i < end; i++ {
			if errs[i] != nil {
				return nil, errs[i]
			}
		}

		if end < len(batches) {
			if err := sleepCtx(ctx, d.cfg.RequestDelay); err != nil {
				return nil, err
			}
		}
	}

	return outs, nil
}

// runBatch tries the combined request, retrying a bounded number of
// times with backoff on 429. Anything still unresolved after that —
// rate-limit retries exhausted, segment mismatch, transport failure —
// goes to the per-string fallback.
func (d *dispatcher) runBatch(ctx context.Context, b Batch, targetLang, sourceLang string) ([]string, error) {
	out, err := WithRetry(ctx, d.retryConfig(), func() ([]string, error) {
		return d.attempt(ctx, b.Texts, targetLang, sourceLang)
	})
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if IsTransient(err) && !IsRateLimited(err) {
		if serr := sleepCtx(ctx, d.cfg.TransportCooldown); serr != nil {
			return nil, serr
		}
	}

	return d.fallback(ctx, b, targetLang, sourceLang)
}

// attempt performs one admitted provider call. Admission is awaited and
// recorded before the network call so the rate window counts requests
// as they are issued, not as they complete.
func (d *dispatcher) attempt(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	d.limiter.Record()

	out, err := d.provider.Translate(ctx, TranslateRequest{
		Texts:      texts,
		TargetLang: targetLang,
		SourceLang: sourceLang,
	})
	if err != nil {
		return nil, err
	}
	if len(out) != len(texts) {
		return nil, &SegmentMismatchError{Expected: len(texts), Got: len(out)}
	}

	return out, nil
}

func (d *dispatcher) retryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: d.cfg.MaxRateLimitRetries,
		BaseDelay:  d.cfg.RateLimitDelay,
		MaxDelay:   30 * time.Second,
	}
}

// sleepCtx sleeps for dur unless the context is done first.
func sleepCtx(ctx context.Context, dur time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dur):
		return nil
	}
}
