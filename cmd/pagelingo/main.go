// Command pagelingo translates HTML pages via a remote translation
// endpoint, batching, caching, and rate-limiting the requests.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagelingo/pagelingo"
	"github.com/pagelingo/pagelingo/cache"
	"github.com/pagelingo/pagelingo/processor"
	"github.com/pagelingo/pagelingo/provider"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pagelingo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	targetLang := fs.String("lang", "", "Target language code (e.g., es, pt_BR)")
	sourceLang := fs.String("source", "en", "Source language code")
	output := fs.String("output", "", "Output file (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	backend := fs.String("provider", "google", "Translation backend: google or openai")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	exclude := fs.String("ignore-tags", "", "Comma-separated extra HTML tags to skip")
	cacheFile := fs.String("cache-file", "", "Warm-start cache from this JSON export, save back on success")
	rpm := fs.Int("rpm", 60, "Max requests per minute to the endpoint")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", pagelingo.Name, pagelingo.FullVersion())
		return nil
	}

	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	if *targetLang == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}

	// Get input
	var input string
	var inputName string

	if fs.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
		inputName = "stdin"
	} else {
		inputPath := fs.Arg(0)
		data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		input = string(data)
		inputName = filepath.Base(inputPath)
	}

	p, err := buildProvider(*backend, *apiKey, *model)
	if err != nil {
		return err
	}

	sessionCache := cache.NewMemoryCache(0)
	if *cacheFile != "" {
		if _, err := os.Stat(*cacheFile); err == nil {
			result, err := cache.ImportFromFile(*cacheFile, sessionCache)
			if err != nil {
				return fmt.Errorf("loading cache: %w", err)
			}
			if !*quiet {
				fmt.Fprintf(stderr, "Loaded %d cached translations\n", result.Imported)
			}
		}
	}

	var proc *processor.HTMLProcessor
	if *exclude != "" {
		tags := make([]string, 0)
		for tag := range pagelingo.IgnoredTags {
			tags = append(tags, tag)
		}
		for _, tag := range strings.Split(*exclude, ",") {
			tags = append(tags, strings.TrimSpace(tag))
		}
		proc = processor.NewHTMLProcessorWithIgnoredTags(tags)
	} else {
		proc = processor.NewHTMLProcessor()
	}

	session := pagelingo.NewSession(p,
		pagelingo.WithSourceLang(*sourceLang),
		pagelingo.WithCache(sessionCache),
		pagelingo.WithProcessor(proc),
		pagelingo.WithRateLimiter(pagelingo.NewRateLimiter(pagelingo.RateLimitConfig{
			RequestsPerWindow: *rpm,
		})),
	)

	if !*quiet {
		fmt.Fprintf(stderr, "Translating %s to %s...\n", inputName, *targetLang)
	}

	start := time.Now()
	result, err := session.TranslatePage(input, *targetLang)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	if *cacheFile != "" {
		if err := cache.ExportToFile(*cacheFile, sessionCache, map[string]string{
			"target_lang": *targetLang,
		}); err != nil && !*quiet {
			fmt.Fprintf(stderr, "warning: saving cache: %v\n", err)
		}
	}

	var out io.Writer = stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if *jsonOutput {
		return outputJSON(out, result, elapsed)
	}

	fmt.Fprint(out, result.Content)

	if !*quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Strings found: %d\n", result.TotalNodes)
		fmt.Fprintf(stderr, "  Translated:    %d\n", result.TranslatedCount)
		fmt.Fprintf(stderr, "  From cache:    %d\n", result.CachedCount)
	}

	return nil
}

// buildProvider selects the translation backend.
func buildProvider(backend, apiKey, model string) (pagelingo.Provider, error) {
	switch backend {
	case "google":
		return provider.NewGoogleProvider(provider.GoogleConfig{}), nil
	case "openai":
		key := apiKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
		}
		return provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey: key,
			Model:  model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want google or openai)", backend)
	}
}

// jsonResult is the JSON output format.
type jsonResult struct {
	Content         string `json:"content"`
	TotalNodes      int    `json:"total_nodes"`
	TranslatedCount int    `json:"translated_count"`
	CachedCount     int    `json:"cached_count"`
	ElapsedMs       int64  `json:"elapsed_ms"`
}

// outputJSON writes the result as JSON.
func outputJSON(w io.Writer, result *pagelingo.PageResult, elapsed time.Duration) error {
	out := jsonResult{
		Content:         result.Content,
		TotalNodes:      result.TotalNodes,
		TranslatedCount: result.TranslatedCount,
		CachedCount:     result.CachedCount,
		ElapsedMs:       elapsed.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
