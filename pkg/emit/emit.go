// Package emit writes display records for a terminal or a launcher.
package emit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/nvlookup/pkg/format"
)

// Output modes.
const (
	ModeText   = "text"
	ModeAlfred = "alfred"
)

// Emitter renders records in their given order.
type Emitter interface {
	Emit(w io.Writer, records []format.Record) error
}

// ForMode returns the emitter for an output mode.
func ForMode(mode string) (Emitter, error) {
	switch mode {
	case ModeText, "":
		return Text{}, nil
	case ModeAlfred:
		return Alfred{}, nil
	default:
		return nil, fmt.Errorf("emit: unknown output mode %q", mode)
	}
}

// Text prints one line per record: the title padded to 15 columns, then
// the subtitle.
type Text struct{}

func (Text) Emit(w io.Writer, records []format.Record) error {
	if err := format.Validate(records); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, r := range records {
		line := fmt.Sprintf(" %-15s      %s", r.Title, r.Subtitle)
		if _, err := fmt.Fprintln(bw, strings.TrimRight(line, " ")); err != nil {
			return fmt.Errorf("emit: text: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("emit: text: %w", err)
	}
	return nil
}

// Alfred writes Script Filter JSON. Items carry no uid, so Alfred keeps
// them in the emitted order instead of ranking them by past use.
type Alfred struct{}

type alfredFeedback struct {
	Items []alfredItem `json:"items"`
}

type alfredItem struct {
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	Arg          string     `json:"arg,omitempty"`
	Autocomplete string     `json:"autocomplete"`
	Valid        bool       `json:"valid"`
	Text         alfredText `json:"text"`
}

type alfredText struct {
	Copy      string `json:"copy"`
	LargeType string `json:"largetype"`
}

func (Alfred) Emit(w io.Writer, records []format.Record) error {
	if err := format.Validate(records); err != nil {
		return err
	}
	fb := alfredFeedback{Items: make([]alfredItem, 0, len(records))}
	for _, r := range records {
		autocomplete := r.AutocompleteKey
		if autocomplete == "" {
			autocomplete = r.Title
		}
		fb.Items = append(fb.Items, alfredItem{
			Title:        r.Title,
			Subtitle:     r.Subtitle,
			Arg:          r.NavigationTarget,
			Autocomplete: autocomplete,
			Valid:        r.IsActionable(),
			Text:         alfredText{Copy: r.Title, LargeType: strings.TrimSpace(r.Title + "\n" + r.Subtitle)},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fb); err != nil {
		return fmt.Errorf("emit: alfred: %w", err)
	}
	return nil
}
