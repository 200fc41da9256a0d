// Package feed implements the halt-feed fetcher.
//
// The fetcher:
//   - Performs one bounded HTTP GET of the RSS halt feed per call
//   - Parses items into RawRecords, passing unknown fields through untouched
//   - Skips malformed items with a ParseWarning instead of failing the fetch
//   - Reports transport and document-level failures as *FetchError
//
// Retry policy belongs to the poll loop, not the fetcher.
package feed
