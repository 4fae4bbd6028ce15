package pagelingo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"
)

func newTestSession(p Provider, opts ...SessionOption) *Session {
	base := []SessionOption{
		WithPipelineConfig(fastConfig()),
		WithRateLimiter(fastLimiter()),
	}
	return NewSession(p, append(base, opts...)...)
}

func TestSession_TranslateBatch_OrderAndLength(t *testing.T) {
	p := &scriptProvider{}
	s := newTestSession(p)

	out, err := s.TranslateBatch(context.Background(), []string{"a", "b", "a"}, "es")
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}

	want := []string{"t:a", "t:b", "t:a"}
	if len(out) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}

	// Repeats collapse into a single remote request.
	if p.callCount() != 1 {
		t.Errorf("expected 1 remote call, got %d", p.callCount())
	}
	if got := p.calls[0]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected one call with unique texts [a b], got %v", got)
	}
}

func TestSession_TranslateBatch_Empty(t *testing.T) {
	p := &scriptProvider{}
	s := newTestSession(p)

	out, err := s.TranslateBatch(context.Background(), nil, "es")
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
	if p.callCount() != 0 {
		t.Errorf("expected no remote calls, got %d", p.callCount())
	}
}

func TestSession_TranslateBatch_SourceLangShortCircuit(t *testing.T) {
	p := &scriptProvider{}
	s := newTestSession(p)

	in := []string{"Hello", "World"}
	out, err := s.TranslateBatch(context.Background(), in, "en_US")
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}

	for i := range in {
		if out[i] != in[i] {
			t.Errorf("expected input passthrough, got %v", out)
		}
	}
	if p.callCount() != 0 {
		t.Errorf("expected no remote calls, got %d", p.callCount())
	}
}

func TestSession_TranslateBatch_CacheIdempotence(t *testing.T) {
	p := &scriptProvider{}
	s := newTestSession(p)

	ctx := context.Background()
	if _, err := s.TranslateBatch(ctx, []string{"Hello", "World"}, "es"); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	out, err := s.TranslateBatch(ctx, []string{"Hello", "World", "New"}, "es")
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	want := []string{"t:Hello", "t:World", "t:New"}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}

	// The second call only requests the unseen string.
	if p.callCount() != 2 {
		t.Fatalf("expected 2 remote calls total, got %d", p.callCount())
	}
	if got := p.calls[1]; len(got) != 1 || got[0] != "New" {
		t.Errorf("expected second call with [New], got %v", got)
	}
}

func TestSession_TranslateBatch_DifferentLangsNotShared(t *testing.T) {
	p := &scriptProvider{}
	s := newTestSession(p)

	ctx := context.Background()
	if _, err := s.TranslateBatch(ctx, []string{"Hello"}, "es"); err != nil {
		t.Fatalf("es call failed: %v", err)
	}
	if _, err := s.TranslateBatch(ctx, []string{"Hello"}, "fr"); err != nil {
		t.Fatalf("fr call failed: %v", err)
	}

	if p.callCount() != 2 {
		t.Errorf("expected cache keyed by language (2 calls), got %d", p.callCount())
	}
}

func TestSession_TranslateBatch_BatchingWithMidBatchFallback(t *testing.T) {
	p := &scriptProvider{}
	p.fn = func(req TranslateRequest) ([]string, error) {
		// The middle batch's combined response is unsplittable; its
		// per-string retries succeed.
		if len(req.Texts) > 1 && req.Texts[0] == "s080" {
			return nil, &SegmentMismatchError{Expected: len(req.Texts), Got: 1}
		}
		out := make([]string, len(req.Texts))
		for i, text := range req.Texts {
			out[i] = "t:" + text
		}
		return out, nil
	}
	s := newTestSession(p)

	texts, _ := makeTexts(200)
	out, err := s.TranslateBatch(context.Background(), texts, "es")
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}

	if len(out) != 200 {
		t.Fatalf("expected 200 results, got %d", len(out))
	}
	for i, text := range texts {
		if out[i] != "t:"+text {
			t.Errorf("out[%d] = %q, want %q", i, out[i], "t:"+text)
		}
	}

	var combined []int
	singles := 0
	for _, size := range p.callSizes() {
		if size > 1 {
			combined = append(combined, size)
		} else {
			singles++
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(combined)))

	if len(combined) != 3 || combined[0] != 80 || combined[1] != 80 || combined[2] != 40 {
		t.Errorf("expected combined calls of 80/80/40, got %v", combined)
	}
	if singles != 80 {
		t.Errorf("expected 80 fallback calls, got %d", singles)
	}
}

func TestSession_TranslateBatch_GracefulDegradation(t *testing.T) {
	p := &scriptProvider{}
	p.fn = func(req TranslateRequest) ([]string, error) {
		return nil, errors.New("endpoint unavailable")
	}
	s := newTestSession(p)

	in := []string{"first", "second"}
	out, err := s.TranslateBatch(context.Background(), in, "es")
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}

	for i := range in {
		if out[i] != in[i] {
			t.Errorf("expected original text at %d, got %q", i, out[i])
		}
	}
}

func TestSession_TranslateBatch_RateCeilingDelaysNotDrops(t *testing.T) {
	p := &scriptProvider{}
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            120 * time.Millisecond,
		PollInterval:      5 * time.Millisecond,
	})
	cfg := fastConfig()
	cfg.MaxBatchSize = 1
	s := NewSession(p, WithPipelineConfig(cfg), WithRateLimiter(limiter))

	texts := []string{"a", "b", "c", "d"}
	start := time.Now()
	out, err := s.TranslateBatch(context.Background(), texts, "es")
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	elapsed := time.Since(start)

	if len(out) != 4 {
		t.Fatalf("expected 4 results, got %d", len(out))
	}
	for i, text := range texts {
		if out[i] != "t:"+text {
			t.Errorf("out[%d] = %q, want %q", i, out[i], "t:"+text)
		}
	}
	// Requests 3 and 4 must wait for the window to free up.
	if elapsed < 100*time.Millisecond {
		t.Errorf("expected rate-limited calls to be delayed, finished in %v", elapsed)
	}
	if p.callCount() != 4 {
		t.Errorf("expected all 4 dispatches (delayed, not dropped), got %d", p.callCount())
	}
}

// lineProcessor treats each non-blank line as a translatable string.
type lineProcessor struct{}

func (lineProcessor) Extract(content string) (interface{}, []string, error) {
	lines := strings.Split(content, "\n")
	var texts []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			texts = append(texts, strings.TrimSpace(l))
		}
	}
	return lines, texts, nil
}

func (lineProcessor) Apply(parsed interface{}, texts, translations []string) (string, error) {
	lines := parsed.([]string)
	out := make([]string, 0, len(lines))
	i := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, translations[i])
			i++
		} else {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (lineProcessor) ContentType() string { return "text" }

func TestSession_TranslatePage_NoProcessor(t *testing.T) {
	s := newTestSession(&scriptProvider{})

	_, err := s.TranslatePage("<p>Hi</p>", "es")
	var procErr *ProcessorError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessorError, got %v", err)
	}
}

func TestSession_TranslatePage_CancelReplace(t *testing.T) {
	p := &scriptProvider{}
	p.fn = func(req TranslateRequest) ([]string, error) {
		if req.TargetLang == "fr" {
			// Simulate a stalled remote call; only cancellation frees it.
			time.Sleep(time.Second)
			return nil, errors.New("should have been cancelled")
		}
		out := make([]string, len(req.Texts))
		for i, text := range req.Texts {
			out[i] = "t:" + text
		}
		return out, nil
	}
	s := newTestSession(p, WithProcessor(lineProcessor{}))

	firstErr := make(chan error, 1)
	go func() {
		_, err := s.TranslatePageAs("Hello", "fr", "text")
		firstErr <- err
	}()

	// Let the first invocation reach its provider call, then replace it.
	time.Sleep(20 * time.Millisecond)

	result, err := s.TranslatePageAs("Hello", "es", "text")
	if err != nil {
		t.Fatalf("second invocation failed: %v", err)
	}
	if result.Content != "t:Hello" {
		t.Errorf("expected second invocation's result, got %q", result.Content)
	}

	select {
	case err := <-firstErr:
		if err == nil {
			t.Error("expected first invocation to fail after being replaced")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("first invocation did not return")
	}
}

func TestSession_TranslatePage_Counts(t *testing.T) {
	p := &scriptProvider{}
	s := newTestSession(p, WithProcessor(lineProcessor{}))

	content := "Hello\nWorld\nHello"
	result, err := s.TranslatePageAs(content, "es", "text")
	if err != nil {
		t.Fatalf("TranslatePageAs failed: %v", err)
	}

	if result.TotalNodes != 3 {
		t.Errorf("expected 3 nodes, got %d", result.TotalNodes)
	}
	if result.TranslatedCount != 2 || result.CachedCount != 0 {
		t.Errorf("expected 2 translated, 0 cached; got %d, %d",
			result.TranslatedCount, result.CachedCount)
	}

	again, err := s.TranslatePageAs(content, "es", "text")
	if err != nil {
		t.Fatalf("second TranslatePageAs failed: %v", err)
	}
	if again.TranslatedCount != 0 || again.CachedCount != 2 {
		t.Errorf("expected 0 translated, 2 cached; got %d, %d",
			again.TranslatedCount, again.CachedCount)
	}
}

func TestSession_Cancel(t *testing.T) {
	p := &scriptProvider{}
	p.fn = func(req TranslateRequest) ([]string, error) {
		time.Sleep(time.Second)
		return nil, errors.New("should have been cancelled")
	}
	s := newTestSession(p, WithProcessor(lineProcessor{}))

	done := make(chan error, 1)
	go func() {
		_, err := s.TranslatePageAs("Hello", "es", "text")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	s.Cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected cancellation error")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("invocation did not return after Cancel")
	}
}

func TestSession_Defaults(t *testing.T) {
	s := NewSession(&scriptProvider{})

	if s.Cache() == nil {
		t.Error("expected a default session cache")
	}
	if s.Limiter() == nil {
		t.Error("expected a default rate limiter")
	}
	if s.SourceLang() != "en" {
		t.Errorf("expected default source lang en, got %q", s.SourceLang())
	}
}

func TestSession_TranslateBatch_LargeMixed(t *testing.T) {
	p := &scriptProvider{}
	s := newTestSession(p)

	var texts []string
	for i := 0; i < 150; i++ {
		texts = append(texts, fmt.Sprintf("s%02d", i%30))
	}

	out, err := s.TranslateBatch(context.Background(), texts, "es")
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}

	for i, text := range texts {
		if out[i] != "t:"+text {
			t.Errorf("out[%d] = %q, want %q", i, out[i], "t:"+text)
		}
	}
	// 30 unique strings fit one batch.
	if p.callCount() != 1 {
		t.Errorf("expected 1 remote call for 30 unique strings, got %d", p.callCount())
	}
}
