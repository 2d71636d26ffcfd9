// Package query canonicalizes user queries and builds the remote URLs they
// are looked up at.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformed is returned by Validate for input that cannot be composed,
// i.e. byte sequences that are not valid UTF-8.
var ErrMalformed = errors.New("malformed query")

// Normalize applies Unicode canonical composition (NFC). Launchers on macOS
// hand over Hangul as decomposed Jamo, which breaks every string match and
// script test further down the pipeline.
func Normalize(raw string) string {
	return norm.NFC.String(raw)
}

// Validate reports whether raw can be normalized and encoded faithfully.
func Validate(raw string) error {
	if !utf8.ValidString(raw) {
		return fmt.Errorf("query: %w: %q is not valid UTF-8", ErrMalformed, raw)
	}
	return nil
}

// Encode normalizes raw and percent-encodes its UTF-8 bytes for use as a
// query parameter value. Spaces become %20.
//
// Input that already is a valid percent-encoding is decoded first, so
// Encode(Encode(s)) == Encode(s). A literal query such as "100%" is not a
// valid encoding and is encoded as-is.
func Encode(raw string) string {
	if strings.Contains(raw, "%") {
		if decoded, err := url.PathUnescape(raw); err == nil {
			raw = decoded
		}
	}
	escaped := url.QueryEscape(Normalize(raw))
	return strings.ReplaceAll(escaped, "+", "%20")
}
