// Package format turns extracted dictionary entries and suggestions into the
// ordered display records that emitters render.
package format

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/japaniel/nvlookup/pkg/dictionary"
	"github.com/japaniel/nvlookup/pkg/textclean"
)

// Kind tells emitters what a record stands for.
type Kind string

const (
	KindEntry      Kind = "entry"
	KindSuggestion Kind = "suggestion"
	KindInfo       Kind = "info"
	KindDiagnostic Kind = "diagnostic"
)

// Record is one display row.
type Record struct {
	Kind             Kind   `json:"kind"`
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle,omitempty"`
	NavigationTarget string `json:"navigation_target,omitempty"`
	AutocompleteKey  string `json:"autocomplete_key,omitempty"`
	SortKey          int    `json:"sort_key"`
}

const (
	// OneLinerMaxRunes is the largest summed definition length that still
	// collapses into a single row.
	OneLinerMaxRunes = 40

	DefinitionSeparator = " || "
	BlockIndent         = "    "

	WebCollectionTag = "#webCollect: "
	ForeignScriptTag = "#foreign: "
	FaultTag         = "#structure: "

	NoResultsTitle = "no results found"
	FailureTitle   = "lookup failed"
)

// Formatter assigns sort keys in emission order. Use one Formatter per query.
type Formatter struct {
	// DefaultTarget is the navigation target of rows that have none of
	// their own, normally the definitions page of the query.
	DefaultTarget string
	// SuppressForeign renders entries whose headword is in Latin script as
	// informational rows instead of definitions.
	SuppressForeign bool

	next int
}

// New returns a Formatter for the given normalized query. Latin headwords
// are suppressed only when the query itself has no Latin letter.
func New(query, defaultTarget string) *Formatter {
	return &Formatter{
		DefaultTarget:   defaultTarget,
		SuppressForeign: !textclean.ContainsLatinLetter(query),
	}
}

// Build renders a whole lookup: definitions in document order, one
// diagnostic per skipped container, then suggestions in feed order. When
// there is neither an entry nor a suggestion a single no-results row is
// appended.
func (f *Formatter) Build(defs dictionary.Definitions, suggestions []dictionary.Suggestion) []Record {
	var out []Record
	for _, e := range defs.Entries {
		out = append(out, f.Entry(e)...)
	}
	for _, fault := range defs.Faults {
		out = append(out, f.Fault(fault))
	}
	for _, s := range suggestions {
		out = append(out, f.Suggestion(s))
	}
	if len(defs.Entries)+len(suggestions) == 0 {
		out = append(out, f.NoResults())
	}
	return out
}

// Entry renders one dictionary entry as a one-liner or as a block.
func (f *Formatter) Entry(e dictionary.Entry) []Record {
	switch {
	case e.IsWebCollection:
		return []Record{f.emit(Record{Kind: KindInfo, Title: WebCollectionTag + e.Title, AutocompleteKey: e.Title})}
	case e.ContainsForeignScript && f.SuppressForeign:
		return []Record{f.emit(Record{Kind: KindInfo, Title: ForeignScriptTag + e.Title, AutocompleteKey: e.Title})}
	}

	if IsOneLiner(e) {
		r := Record{
			Kind:            KindEntry,
			Title:           e.Title + " = " + strings.Join(e.Definitions, DefinitionSeparator),
			AutocompleteKey: e.Title,
		}
		if len(e.Examples) == 1 {
			r.Subtitle = e.Examples[0].String()
		}
		return []Record{f.emit(r)}
	}

	out := make([]Record, 0, 1+len(e.Definitions)+len(e.Examples))
	out = append(out, f.emit(Record{Kind: KindEntry, Title: "== " + e.Title + " ==", AutocompleteKey: e.Title}))
	for _, d := range e.Definitions {
		out = append(out, f.emit(Record{Kind: KindEntry, Title: BlockIndent + d, AutocompleteKey: e.Title}))
	}
	for _, ex := range e.Examples {
		out = append(out, f.emit(Record{Kind: KindEntry, Title: BlockIndent + ex.String(), AutocompleteKey: e.Title}))
	}
	return out
}

// IsOneLiner reports whether e collapses into a single row: at most one
// example and definitions summing to no more than OneLinerMaxRunes.
func IsOneLiner(e dictionary.Entry) bool {
	if len(e.Examples) > 1 {
		return false
	}
	total := 0
	for _, d := range e.Definitions {
		total += utf8.RuneCountInString(d)
	}
	return total <= OneLinerMaxRunes
}

// Suggestion renders one autocomplete candidate.
func (f *Formatter) Suggestion(s dictionary.Suggestion) Record {
	return f.emit(Record{
		Kind:             KindSuggestion,
		Title:            fmt.Sprintf("sugg[%d]: %s", s.RankGroup, s.CandidateQuery),
		Subtitle:         s.BriefDefinition,
		NavigationTarget: s.NavigationTarget,
		AutocompleteKey:  s.CandidateQuery,
	})
}

// Fault renders a container the extractor had to skip.
func (f *Formatter) Fault(err *dictionary.StructureError) Record {
	return f.emit(Record{
		Kind:     KindDiagnostic,
		Title:    fmt.Sprintf("%sentry %d skipped", FaultTag, err.Container),
		Subtitle: err.Reason,
	})
}

// NoResults renders the row shown when nothing was found.
func (f *Formatter) NoResults() Record {
	return f.emit(Record{Kind: KindInfo, Title: NoResultsTitle})
}

// Failure renders a fatal lookup error. It is the only row of its lookup.
func (f *Formatter) Failure(err error) Record {
	subtitle := "unknown error"
	if err != nil {
		subtitle = err.Error()
	}
	return f.emit(Record{Kind: KindDiagnostic, Title: FailureTitle, Subtitle: subtitle})
}

func (f *Formatter) emit(r Record) Record {
	if r.NavigationTarget == "" {
		r.NavigationTarget = f.DefaultTarget
	}
	r.SortKey = f.next
	f.next++
	return r
}

// IsActionable reports whether selecting r should navigate somewhere.
func (r Record) IsActionable() bool {
	return r.NavigationTarget != "" && r.Kind != KindDiagnostic
}

var errNoRecords = errors.New("format: no records")

// Validate checks the ordering contract: sort keys strictly increase in
// slice order and the slice is not empty.
func Validate(records []Record) error {
	if len(records) == 0 {
		return errNoRecords
	}
	for i := 1; i < len(records); i++ {
		if records[i].SortKey <= records[i-1].SortKey {
			return fmt.Errorf("format: sort key %d at %d does not follow %d", records[i].SortKey, i, records[i-1].SortKey)
		}
	}
	return nil
}
