// Package dictionary extracts dictionary entries from a definitions page and
// autocomplete suggestions from a suggestion feed.
package dictionary

import (
	"errors"
	"fmt"
)

// Entry is one headword result on the definitions page.
type Entry struct {
	Title       string
	Definitions []string
	Examples    []Example
	// IsWebCollection marks a promotional cross-reference block that the
	// site renders like a definition.
	IsWebCollection bool
	// ContainsForeignScript is set when the cleaned headword has Latin
	// letters.
	ContainsForeignScript bool
}

// Example pairs a source-language sentence with its translation.
type Example struct {
	Source string
	Target string
}

func (e Example) String() string {
	return e.Source + " = " + e.Target
}

// Suggestion is one autocomplete candidate from the suggestion feed.
type Suggestion struct {
	RankGroup        int
	CandidateQuery   string
	BriefDefinition  string
	NavigationTarget string
}

// Node is the part of a parsed markup tree the extractors depend on.
type Node interface {
	// Find returns the descendants matching a CSS selector, in document order.
	Find(selector string) []Node
	// Text returns the concatenated text of the node and its descendants.
	Text() string
	// Markup returns the node's outer markup.
	Markup() string
}

// Sentinel errors.
var (
	ErrStructureMismatch = errors.New("structure mismatch")
	ErrMalformedFeed     = errors.New("malformed suggestion feed")
)

// StructureError reports a container whose markup does not have the shape
// the extractor expects. Extraction skips the container and continues.
type StructureError struct {
	Container int // zero-based index among the entry containers
	Reason    string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("structure mismatch in entry %d: %s", e.Container, e.Reason)
}

func (e *StructureError) Unwrap() error { return ErrStructureMismatch }
