// Package processor provides content processing implementations: the
// document-plumbing side of the pipeline that extracts translatable
// strings and writes results back.
package processor

import "github.com/pagelingo/pagelingo"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = pagelingo.ContentProcessor
