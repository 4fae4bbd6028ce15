// Package provider defines the translation backend interface and
// implementations.
package provider

import "github.com/pagelingo/pagelingo"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = pagelingo.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = pagelingo.TranslateRequest
