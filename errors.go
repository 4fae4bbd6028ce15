package pagelingo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ProviderError indicates a translation backend failure (HTTP error,
// rate limit, malformed payload).
type ProviderError struct {
	Message    string
	Cause      error
	StatusCode int  // HTTP status when the remote responded, else 0
	Retryable  bool // Whether retrying the same request can help
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// SegmentMismatchError indicates a combined response could not be split
// back into one segment per requested text.
type SegmentMismatchError struct {
	Expected int
	Got      int
}

func (e *SegmentMismatchError) Error() string {
	return fmt.Sprintf("segment mismatch: expected %d, got %d", e.Expected, e.Got)
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// IsRateLimited reports whether err is a remote 429 response.
func IsRateLimited(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr) && providerErr.StatusCode == 429
}

// IsSegmentMismatch reports whether err is a combined-response split
// failure.
func IsSegmentMismatch(err error) bool {
	var mismatch *SegmentMismatchError
	return errors.As(err, &mismatch)
}

// IsTransient reports whether err looks like a passing network-level
// condition worth a short cooldown before falling back.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.StatusCode >= 500
	}

	return false
}

// IsRetryable reports whether retrying the same request can succeed.
// Used by WithRetry; only rate-limit responses qualify, everything else
// is handled by the fallback path.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	return false
}
