// Package textclean classifies runes by script and normalizes the noisy text
// scraped from dictionary pages. Every function here is total: it accepts any
// string and never fails.
package textclean

import (
	"strings"
)

// Ideographs from CJK Extension A through the end of the Unified Ideographs
// block. Korean pages use them for Hanja annotations on headwords.
const (
	ideographLow  = 0x3400
	ideographHigh = 0xA000 // exclusive
)

// ContainsLatinLetter reports whether s has at least one basic Latin letter.
// Dictionary code uses it as a proxy for "this text is English".
func ContainsLatinLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// IsIdeographOrDigit reports whether r is a CJK ideograph or an ASCII digit.
// Digits show up as superscript homograph indices (e.g. "cat<sup>2</sup>").
func IsIdeographOrDigit(r rune) bool {
	if r >= ideographLow && r < ideographHigh {
		return true
	}
	return r >= '0' && r <= '9'
}

// StripIdeographAndDigits removes every rune matched by IsIdeographOrDigit
// and trims surrounding whitespace.
func StripIdeographAndDigits(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if IsIdeographOrDigit(r) {
			return -1
		}
		return r
	}, s))
}

// StripIdeographs removes CJK ideographs but keeps digits, for text where
// digits belong to the word itself ("3D", "Catch-22").
func StripIdeographs(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r >= ideographLow && r < ideographHigh {
			return -1
		}
		return r
	}, s))
}

// controlReplacer maps the control characters that leak out of markup to
// plain spaces.
var controlReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

// CleanWhitespace turns newlines, carriage returns and tabs into spaces,
// collapses whitespace runs to a single space and trims the ends.
//
// CleanWhitespace(CleanWhitespace(s)) == CleanWhitespace(s) for all s.
func CleanWhitespace(s string) string {
	s = controlReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// TrimLabels removes the given labels from the end of s, last label first,
// each at most once, and returns the cleaned remainder. Callers pass the
// captions of the UI nodes that trail the text in document order, so a word
// that merely reads like a caption is kept.
func TrimLabels(s string, labels ...string) string {
	s = CleanWhitespace(s)
	for i := len(labels) - 1; i >= 0; i-- {
		label := CleanWhitespace(labels[i])
		if label == "" {
			continue
		}
		s = strings.TrimSpace(strings.TrimSuffix(s, label))
	}
	return s
}
