// Package pagelingo translates visible page content on demand.
//
// Pagelingo batches source strings to a remote machine translation
// endpoint, deduplicating repeated strings, caching responses for the
// lifetime of the session, and keeping request volume under an external
// rate limit. When a combined batch response cannot be split back into
// per-string results, the pipeline falls back to individual requests so
// the output always has one result per input.
//
// Basic usage:
//
//	s := pagelingo.NewSession(provider.NewGoogleProvider(provider.GoogleConfig{}))
//
//	out, err := s.TranslateBatch(ctx, []string{"Hello", "World", "Hello"}, "es")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out) // [Hola Mundo Hola]
//
// For whole-page translation, register an HTML processor and call
// Session.TranslatePage; a new TranslatePage call cancels any still
// running previous one.
package pagelingo
