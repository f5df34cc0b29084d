// Package terms normalises text into comparable lowercase terms.
// It backs the offline providers, which compare documents and questions
// by vocabulary rather than by a learned model.
package terms

import (
	"strings"
	"unicode"
)

// stopwords are dropped because they carry no topical signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"can": {}, "did": {}, "do": {}, "does": {}, "for": {}, "from": {}, "has": {},
	"have": {}, "how": {}, "i": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {},
	"will": {}, "with": {}, "you": {},
}

// Split returns the lowercase terms of text in order, without stopwords.
// Terms are maximal runs of letters and digits.
func Split(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, stem(f))
	}
	return out
}

// Set returns the distinct terms of text.
func Set(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Split(text) {
		set[t] = struct{}{}
	}
	return set
}

// IsStopword reports whether word is ignored by Split.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// stem folds simple English plurals so "capitals" matches "capital".
func stem(t string) string {
	switch {
	case len(t) > 4 && strings.HasSuffix(t, "ies"):
		return t[:len(t)-3] + "y"
	case len(t) > 3 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss") && !strings.HasSuffix(t, "us"):
		return t[:len(t)-1]
	default:
		return t
	}
}
