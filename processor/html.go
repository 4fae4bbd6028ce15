package processor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pagelingo/pagelingo"
)

// HTMLProcessor extracts translatable text from HTML and applies
// translations back in place. Extracted strings are in document order
// and may repeat; the pipeline owns deduplication.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: pagelingo.IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// parsedPage holds the parsed document and the text nodes backing each
// extracted string, parallel to the texts slice.
type parsedPage struct {
	doc   *goquery.Document
	nodes []*html.Node
}

// Extract parses HTML and returns the translatable strings in document
// order, trimmed, skipping ignored tags and data-no-translate subtrees.
func (p *HTMLProcessor) Extract(content string) (interface{}, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &pagelingo.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var texts []string
	var nodes []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if p.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				texts = append(texts, trimmed)
				nodes = append(nodes, n)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})

	return &parsedPage{doc: doc, nodes: nodes}, texts, nil
}

// Apply writes translations back into the document's text nodes,
// keeping each node's original surrounding whitespace, and serializes
// the result. translations must be parallel to the texts returned by
// Extract.
func (p *HTMLProcessor) Apply(parsed interface{}, texts []string, translations []string) (string, error) {
	page, ok := parsed.(*parsedPage)
	if !ok {
		return "", &pagelingo.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: "html",
		}
	}
	if len(translations) != len(page.nodes) {
		return "", &pagelingo.ProcessorError{
			Message:     "translation count does not match extracted nodes",
			ContentType: "html",
		}
	}

	for i, n := range page.nodes {
		n.Data = replaceTrimmed(n.Data, translations[i])
	}

	out, err := page.doc.Html()
	if err != nil {
		return "", &pagelingo.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	return out, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

// replaceTrimmed swaps the trimmed core of original for translated,
// preserving leading and trailing whitespace.
func replaceTrimmed(original, translated string) string {
	trimmed := strings.TrimSpace(original)
	if trimmed == "" {
		return original
	}
	start := strings.Index(original, trimmed)
	return original[:start] + translated + original[start+len(trimmed):]
}

// Verify HTMLProcessor implements ContentProcessor
var _ ContentProcessor = (*HTMLProcessor)(nil)
