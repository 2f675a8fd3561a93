// Package locale holds the locale set value object used for per-locale field
// expansion.
package locale

import "fmt"

// analyzers maps locale codes to search-engine language analyzers.
// Codes without an entry fall back to the standard analyzer.
var analyzers = map[string]string{
	"en": "english",
	"lv": "latvian",
	"lt": "lithuanian",
	"et": "estonian",
	"ru": "russian",
	"de": "german",
	"fr": "french",
	"es": "spanish",
	"it": "italian",
	"pt": "portuguese",
	"pl": "polish",
	"fi": "finnish",
	"sv": "swedish",
	"no": "norwegian",
	"da": "danish",
	"nl": "dutch",
}

// StandardAnalyzer is used for locales without a language analyzer.
const StandardAnalyzer = "standard"

// Set is an ordered, immutable list of locale codes with a designated
// fallback locale. It is fixed for the lifetime of one projection or mapping
// run.
type Set struct {
	codes    []string
	fallback string
}

// New validates and creates a locale Set. Codes must be non-empty and unique;
// the fallback must be one of the codes (empty fallback defaults to the first
// code).
func New(codes []string, fallback string) (Set, error) {
	if len(codes) == 0 {
		return Set{}, fmt.Errorf("at least one locale code is required")
	}
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if code == "" {
			return Set{}, fmt.Errorf("locale code must not be empty")
		}
		if seen[code] {
			return Set{}, fmt.Errorf("duplicate locale code: %s", code)
		}
		seen[code] = true
	}
	if fallback == "" {
		fallback = codes[0]
	}
	if !seen[fallback] {
		return Set{}, fmt.Errorf("fallback locale %q is not in the locale list", fallback)
	}

	owned := make([]string, len(codes))
	copy(owned, codes)
	return Set{codes: owned, fallback: fallback}, nil
}

// Codes returns the locale codes in configuration order.
func (s Set) Codes() []string { return s.codes }

// Fallback returns the designated fallback locale.
func (s Set) Fallback() string { return s.fallback }

// Contains reports whether code is part of the set.
func (s Set) Contains(code string) bool {
	for _, c := range s.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Analyzer returns the language analyzer name for a locale code.
func (s Set) Analyzer(code string) string {
	if a, ok := analyzers[code]; ok {
		return a
	}
	return StandardAnalyzer
}
