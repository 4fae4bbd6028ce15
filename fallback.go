package pagelingo

import "context"

// fallback translates each text of an unreliable batch individually.
// Every position gets exactly one result: the translation when a call
// succeeds, the original source string otherwise. Calls are paced when
// the batch is large to avoid hammering the endpoint.
func (d *dispatcher) fallback(ctx context.Context, b Batch, targetLang, sourceLang string) ([]string, error) {
	out := make([]string, len(b.Texts))
	pace := len(b.Texts) > d.cfg.FallbackPacingThreshold

	for i, text := range b.Texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pace && i > 0 {
			if err := sleepCtx(ctx, d.cfg.FallbackPacing); err != nil {
				return nil, err
			}
		}

		single, err := WithRetry(ctx, d.retryConfig(), func() ([]string, error) {
			return d.attempt(ctx, []string{text}, targetLang, sourceLang)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Unrecoverable for this string: keep the original text
			// so the pipeline never returns fewer results than asked.
			out[i] = text
			continue
		}

		out[i] = single[0]
	}

	return out, nil
}
