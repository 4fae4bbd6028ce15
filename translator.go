package pagelingo

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelingo/pagelingo/cache"
)

// Session is the pipeline's process-wide state for one page session: it
// owns the response cache and the rate window, both constructed empty
// and living until the session is dropped.
type Session struct {
	provider   Provider
	cache      TranslationCache
	limiter    *RateLimiter
	cfg        PipelineConfig
	sourceLang string
	processors map[string]ContentProcessor

	mu         sync.Mutex
	cancelPage context.CancelFunc
}

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*Session)

// WithSourceLang sets the source language (default: "en").
func WithSourceLang(lang string) SessionOption {
	return func(s *Session) {
		s.sourceLang = lang
	}
}

// WithCache replaces the default in-memory session cache.
func WithCache(c TranslationCache) SessionOption {
	return func(s *Session) {
		s.cache = c
	}
}

// WithRateLimiter replaces the default 60-per-minute limiter.
func WithRateLimiter(r *RateLimiter) SessionOption {
	return func(s *Session) {
		s.limiter = r
	}
}

// WithPipelineConfig overrides batch size, concurrency, and delays.
// Zero fields keep their defaults.
func WithPipelineConfig(cfg PipelineConfig) SessionOption {
	return func(s *Session) {
		s.cfg = cfg.withDefaults()
	}
}

// WithProcessor registers a content processor for TranslatePage.
func WithProcessor(p ContentProcessor) SessionOption {
	return func(s *Session) {
		s.processors[p.ContentType()] = p
	}
}

// NewSession creates a Session with an empty cache and rate window.
func NewSession(provider Provider, opts ...SessionOption) *Session {
	s := &Session{
		provider:   provider,
		sourceLang: "en",
		cfg:        DefaultPipelineConfig(),
		processors: make(map[string]ContentProcessor),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		s.cache = cache.NewMemoryCache(0)
	}
	if s.limiter == nil {
		s.limiter = NewRateLimiter(RateLimitConfig{})
	}

	return s
}

// TranslateBatch translates texts into targetLang, returning one result
// per input in the same order. Repeated strings are translated once;
// strings seen earlier in the session are served from the cache. The
// only error is context cancellation — a string whose translation fails
// in every attempt comes back unchanged.
func (s *Session) TranslateBatch(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	out, _, _, err := s.translate(ctx, texts, targetLang)
	return out, err
}

// translate runs the full pipeline and reports cache-hit/remote counts
// over the unique strings.
func (s *Session) translate(ctx context.Context, texts []string, targetLang string) (out []string, cached, translated int, err error) {
	if len(texts) == 0 {
		return []string{}, 0, 0, nil
	}
	if s.isSourceLang(targetLang) {
		out = make([]string, len(texts))
		copy(out, texts)
		return out, 0, 0, nil
	}

	unique, indexMap := Dedup(texts)

	// Split the unique set on the cache.
	resolved := make([]string, len(unique))
	var missTexts []string
	var missIdx []int
	for i, text := range unique {
		if v, ok := s.cache.Get(CacheKey(HashText(text), targetLang)); ok {
			resolved[i] = v
			cached++
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) > 0 {
		batches := MakeBatches(missTexts, missIdx, s.cfg.MaxBatchSize)

		d := &dispatcher{provider: s.provider, limiter: s.limiter, cfg: s.cfg}
		outs, err := d.run(ctx, batches, targetLang, s.sourceLang)
		if err != nil {
			return nil, 0, 0, err
		}

		for bi, b := range batches {
			merge(resolved, b, outs[bi])
			for i, text := range b.Texts {
				_ = s.cache.Set(CacheKey(HashText(text), targetLang), outs[bi][i]) // Ignore cache set errors
			}
			translated += len(b.Texts)
		}
	}

	return Expand(resolved, indexMap), cached, translated, nil
}

// TranslatePage extracts the translatable strings from content, runs
// them through the pipeline, and writes the results back. Each call
// replaces the previous call's cancellation scope: a still-running
// earlier invocation has its in-flight requests aborted.
func (s *Session) TranslatePage(content, targetLang string) (*PageResult, error) {
	return s.TranslatePageAs(content, targetLang, "html")
}

// TranslatePageAs is TranslatePage for an explicitly chosen content type.
func (s *Session) TranslatePageAs(content, targetLang, contentType string) (*PageResult, error) {
	processor, ok := s.processors[contentType]
	if !ok {
		return nil, &ProcessorError{
			Message:     "no processor registered for content type",
			ContentType: contentType,
		}
	}

	ctx := s.replacePageContext()

	parsed, nodes, err := processor.Extract(content)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return &PageResult{Content: content}, nil
	}

	out, cached, translated, err := s.translate(ctx, nodes, targetLang)
	if err != nil {
		return nil, err
	}

	result, err := processor.Apply(parsed, nodes, out)
	if err != nil {
		return nil, err
	}
	if contentType == "html" {
		result = setHTMLAttributes(result, targetLang)
	}

	return &PageResult{
		Content:         result,
		TranslatedCount: translated,
		CachedCount:     cached,
		TotalNodes:      len(nodes),
	}, nil
}

// Cancel aborts the in-flight work of the most recent TranslatePage
// call, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelPage != nil {
		s.cancelPage()
		s.cancelPage = nil
	}
}

// replacePageContext cancels the previous page invocation and installs
// a fresh cancellation scope for the new one.
func (s *Session) replacePageContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelPage != nil {
		s.cancelPage()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelPage = cancel
	return ctx
}

// SourceLang returns the source language.
func (s *Session) SourceLang() string {
	return s.sourceLang
}

// Cache returns the session cache.
func (s *Session) Cache() TranslationCache {
	return s.cache
}

// Limiter returns the session rate limiter for inspection.
func (s *Session) Limiter() *RateLimiter {
	return s.limiter
}

// isSourceLang checks if target matches source (no translation needed).
func (s *Session) isSourceLang(targetLang string) bool {
	return baseLang(targetLang) == baseLang(s.sourceLang)
}

// setHTMLAttributes sets lang and dir attributes on the <html> tag.
func setHTMLAttributes(html, targetLang string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() > 0 {
		htmlTag.SetAttr("lang", ToHTMLLang(targetLang))
		htmlTag.SetAttr("dir", GetDirection(targetLang))
	}

	result, err := doc.Html()
	if err != nil {
		return html
	}

	return result
}
