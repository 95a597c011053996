// Package keyword implements the placeholder keyword heuristic stored with
// every embedded document.
package keyword

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// MaxKeywords caps the number of keywords per document.
	MaxKeywords = 5
	// MinLength is the exclusive lower bound on keyword length in characters.
	MinLength = 5
)

// stopWords is a closed Italian list.
var stopWords = map[string]struct{}{
	"per": {}, "con": {}, "del": {}, "della": {}, "dei": {}, "delle": {},
	"che": {}, "questo": {}, "questa": {}, "sono": {}, "essere": {},
}

// IsStopWord reports whether w (any case) is in the stop-word set.
func IsStopWord(w string) bool {
	_, ok := stopWords[strings.ToLower(w)]
	return ok
}

// Extract returns at most MaxKeywords distinct lower-cased tokens of text
// longer than MinLength characters, excluding stop words.
// The result is sorted so the output is stable across runs.
func Extract(text string) []string {
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(w) <= MinLength {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		seen[w] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	if len(out) > MaxKeywords {
		out = out[:MaxKeywords]
	}
	return out
}
