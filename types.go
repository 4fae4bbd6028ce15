package pagelingo

import (
	"context"
	"time"
)

// Delimiter joins batch texts into a single request body and splits the
// combined response back into per-string results. The remote service is
// expected to leave it intact; when it does not, the batch falls back to
// per-string requests.
const Delimiter = "\n___\n"

// Provider is the interface for translation backends.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslateRequest contains the parameters for a translation request.
type TranslateRequest struct {
	Texts      []string
	TargetLang string
	SourceLang string
}

// TranslationCache is the interface for session response caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor extracts translatable strings from a document and
// writes translations back. Extract returns the parsed document and the
// strings in document order (repeats allowed); Apply receives the same
// strings alongside a parallel slice of translations.
type ContentProcessor interface {
	Extract(content string) (parsed interface{}, texts []string, err error)
	Apply(parsed interface{}, texts []string, translations []string) (string, error)
	ContentType() string
}

// PipelineConfig tunes batch construction and dispatch timing. The zero
// value means "use the default" for every field.
type PipelineConfig struct {
	MaxBatchSize            int           // texts per combined request (default: 80)
	MaxConcurrent           int           // batches in flight per wave (default: 2)
	RequestDelay            time.Duration // pause between waves (default: 100ms)
	RateLimitDelay          time.Duration // initial backoff after a 429 (default: 2s)
	MaxRateLimitRetries     int           // 429 retries before falling back (default: 5)
	TransportCooldown       time.Duration // pause before fallback on a network error (default: 1s)
	FallbackPacing          time.Duration // gap between fallback calls (default: 50ms)
	FallbackPacingThreshold int           // batch size above which pacing applies (default: 10)
}

// DefaultPipelineConfig returns the default pipeline tuning.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxBatchSize:            80,
		MaxConcurrent:           2,
		RequestDelay:            100 * time.Millisecond,
		RateLimitDelay:          2 * time.Second,
		MaxRateLimitRetries:     5,
		TransportCooldown:       time.Second,
		FallbackPacing:          50 * time.Millisecond,
		FallbackPacingThreshold: 10,
	}
}

// withDefaults fills zero fields from DefaultPipelineConfig.
func (c PipelineConfig) withDefaults() PipelineConfig {
	d := DefaultPipelineConfig()
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = d.MaxBatchSize
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = d.MaxConcurrent
	}
	if c.RequestDelay <= 0 {
		c.RequestDelay = d.RequestDelay
	}
	if c.RateLimitDelay <= 0 {
		c.RateLimitDelay = d.RateLimitDelay
	}
	if c.MaxRateLimitRetries <= 0 {
		c.MaxRateLimitRetries = d.MaxRateLimitRetries
	}
	if c.TransportCooldown <= 0 {
		c.TransportCooldown = d.TransportCooldown
	}
	if c.FallbackPacing <= 0 {
		c.FallbackPacing = d.FallbackPacing
	}
	if c.FallbackPacingThreshold <= 0 {
		c.FallbackPacingThreshold = d.FallbackPacingThreshold
	}
	return c
}

// PageResult is the outcome of a TranslatePage call.
type PageResult struct {
	Content         string // Translated document
	TranslatedCount int    // Strings resolved via the remote endpoint
	CachedCount     int    // Strings resolved from the session cache
	TotalNodes      int    // Translatable strings found in the document
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}
