package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pagelingo/pagelingo"
)

// defaultGoogleBaseURL is the free web endpoint. It takes the source
// text as a query parameter and returns a JSON array whose first
// element lists translated segments.
const defaultGoogleBaseURL = "https://translate.googleapis.com/translate_a/single"

// The endpoint serves browsers; a browser user agent avoids bot rejections.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// GoogleProvider translates via the free Google web endpoint. Batch
// requests join the texts with the pipeline delimiter and split the
// combined response the same way; a split that does not yield one
// segment per text is reported as a segment mismatch so the caller can
// fall back to per-string requests.
type GoogleProvider struct {
	client      *http.Client
	baseURL     string
	clientParam string
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	BaseURL     string        // Endpoint override, mainly for tests
	ClientParam string        // "client" query parameter (default: "gtx")
	Timeout     time.Duration // Per-request timeout (default: 15s)
	HTTPClient  *http.Client  // Custom client; overrides Timeout
}

// NewGoogleProvider creates a new Google provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}

	clientParam := cfg.ClientParam
	if clientParam == "" {
		clientParam = "gtx"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &GoogleProvider{
		client:      httpClient,
		baseURL:     baseURL,
		clientParam: clientParam,
	}
}

// Translate translates req.Texts in one GET request.
func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "auto"
	}

	joined := strings.Join(req.Texts, pagelingo.Delimiter)

	q := url.Values{}
	q.Set("client", p.clientParam)
	q.Set("sl", sourceLang)
	q.Set("tl", req.TargetLang)
	q.Set("dt", "t")
	q.Set("q", joined)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &pagelingo.ProviderError{Message: "building request", Cause: err}
	}
	httpReq.Header.Set("User-Agent", browserUserAgent)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &pagelingo.ProviderError{
			Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(snippet)),
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pagelingo.ProviderError{Message: "reading response", Cause: err}
	}

	combined, err := parseGoogleResponse(body)
	if err != nil {
		return nil, err
	}

	if len(req.Texts) == 1 {
		return []string{combined}, nil
	}

	parts := strings.Split(combined, pagelingo.Delimiter)
	if len(parts) != len(req.Texts) {
		// The service re-wrapped or dropped the delimiter; per-string
		// fallback recovers these.
		return nil, &pagelingo.SegmentMismatchError{
			Expected: len(req.Texts),
			Got:      len(parts),
		}
	}

	return parts, nil
}

// parseGoogleResponse reconstructs the translated text from the raw
// payload: the first element is a list of segments, and concatenating
// each segment's first field in order yields the full output.
func parseGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &pagelingo.ProviderError{Message: "parsing response", Cause: err}
	}
	if len(payload) == 0 {
		return "", &pagelingo.ProviderError{Message: "empty response payload"}
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", &pagelingo.ProviderError{Message: "parsing segments", Cause: err}
	}

	var sb strings.Builder
	for _, seg := range segments {
		var fields []json.RawMessage
		if err := json.Unmarshal(seg, &fields); err != nil || len(fields) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(fields[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}

	return sb.String(), nil
}

// Verify GoogleProvider implements Provider
var _ Provider = (*GoogleProvider)(nil)
