// Package fields scans extracted document text for structured entities
// using fixed pattern rules.
package fields

import "regexp"

// Kind identifies a category of structured field the analyzer recognizes.
type Kind string

const (
	KindApplicationNumbers Kind = "application_numbers"
	KindIPAddresses        Kind = "ip_addresses"
	KindDates              Kind = "dates"
	KindTimes              Kind = "times"
)

// Kinds lists all recognized field kinds in a stable order.
var Kinds = []Kind{
	KindApplicationNumbers,
	KindIPAddresses,
	KindDates,
	KindTimes,
}

var patterns = map[Kind]*regexp.Regexp{
	KindApplicationNumbers: regexp.MustCompile(`\b\d{10,}\b`),
	// Intentionally loose: octets are not range-checked against 0-255.
	// Downstream consumers depend on the permissive matching.
	KindIPAddresses: regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	KindDates:       regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{2}-\d{2}-\d{4}\b`),
	KindTimes:       regexp.MustCompile(`\b\d{2}:\d{2}(?::\d{2})?\b`),
}

// Extracted maps a field kind to the raw matches found in one text blob,
// in left-to-right scan order. Duplicates within the blob are preserved.
type Extracted map[Kind][]string

// Analyze scans text and returns every pattern match per field kind.
// Matching is left-to-right and non-overlapping (first match wins at a
// given position). The function is pure and deterministic.
func Analyze(text string) Extracted {
	out := make(Extracted, len(Kinds))
	for _, kind := range Kinds {
		out[kind] = patterns[kind].FindAllString(text, -1)
	}
	return out
}

// Union merges per-page extractions into a deduplicated document-level
// summary. Each distinct match appears exactly once per kind, in first-seen
// order across the inputs.
func Union(pages []Extracted) Extracted {
	out := make(Extracted, len(Kinds))
	seen := make(map[Kind]map[string]bool, len(Kinds))
	for _, kind := range Kinds {
		out[kind] = []string{}
		seen[kind] = make(map[string]bool)
	}
	for _, page := range pages {
		for _, kind := range Kinds {
			for _, match := range page[kind] {
				if seen[kind][match] {
					continue
				}
				seen[kind][match] = true
				out[kind] = append(out[kind], match)
			}
		}
	}
	return out
}
