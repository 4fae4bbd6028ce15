package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/pagelingo/pagelingo"
)

// OpenAIProvider is an alternative backend using OpenAI's API. A count
// mismatch in the model's reply is reported as a segment mismatch so
// the pipeline's per-string fallback applies uniformly.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates a batch of texts in one chat completion.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	userMessage, _ := json.Marshal(req.Texts)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.systemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, wrapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &pagelingo.ProviderError{Message: "no response choices"}
	}

	return parseOpenAIResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) systemPrompt(req TranslateRequest) string {
	sourceName := pagelingo.GetLanguageName(req.SourceLang)
	if req.SourceLang == "" {
		sourceName = "the source language"
	}
	targetName := pagelingo.GetLanguageName(req.TargetLang)

	return fmt.Sprintf(`You are a professional translator. Translate each string in the JSON array from %s to %s.
Keep HTML tags, URLs, placeholders ({{name}}, %%s, $1), and content in backticks untouched.
Preserve leading and trailing whitespace of every string.
Return a JSON object {"translations": [...]} with exactly one translated string per input, in input order.
Do not wrap the output in Markdown code blocks.`, sourceName, targetName)
}

// parseOpenAIResponse extracts the translations array and enforces the
// one-result-per-input contract.
func parseOpenAIResponse(content string, expected int) ([]string, error) {
	var reply struct {
		Translations []string `json:"translations"`
	}
	if err := json.Unmarshal([]byte(content), &reply); err != nil || reply.Translations == nil {
		// Some models answer with a bare array despite instructions.
		var arr []string
		if err := json.Unmarshal([]byte(content), &arr); err != nil {
			return nil, &pagelingo.ProviderError{Message: "unparseable model reply"}
		}
		reply.Translations = arr
	}

	if len(reply.Translations) != expected {
		return nil, &pagelingo.SegmentMismatchError{
			Expected: expected,
			Got:      len(reply.Translations),
		}
	}

	return reply.Translations, nil
}

// wrapOpenAIError maps API errors onto the pipeline's taxonomy,
// preserving the HTTP status so rate limiting is recognized.
func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &pagelingo.ProviderError{
			Message:    "OpenAI API call failed",
			Cause:      err,
			StatusCode: apiErr.HTTPStatusCode,
			Retryable:  apiErr.HTTPStatusCode == http.StatusTooManyRequests,
		}
	}

	retryable := false
	for _, pattern := range []string{"rate limit", "timeout", "429"} {
		if strings.Contains(strings.ToLower(err.Error()), pattern) {
			retryable = true
			break
		}
	}

	return &pagelingo.ProviderError{
		Message:   "OpenAI API call failed",
		Cause:     err,
		Retryable: retryable,
	}
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
