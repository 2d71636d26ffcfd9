package dictionary

import (
	"fmt"
	"strings"

	"github.com/japaniel/nvlookup/pkg/textclean"
)

// Layout names the selectors that locate the parts of an entry. The zero
// value is not usable; start from DefaultLayout.
type Layout struct {
	Container        string
	Title            string
	ShortDescription string
	ListItem         string
	ItemDescription  string
	Example          string
	ExampleMeaning   string
	ExampleSentence  string
	SentenceFragment string
	// HomographIndex is the superscript that numbers homographs inside the
	// title.
	HomographIndex string
	// SentenceControl matches the UI nodes (the audio button) that share
	// the sentence node and trail its text when the fragments are missing.
	SentenceControl string
}

// DefaultLayout matches the current mobile definitions page.
var DefaultLayout = Layout{
	Container:        "div#content div.entry_wrap div.section_card div.entry_search_word",
	Title:            "a.h_word",
	HomographIndex:   "sup",
	ShortDescription: "p.desc_lst",
	ListItem:         "ul.desc_lst li",
	ItemDescription:  "p.desc",
	Example:          "div.example_wrap",
	ExampleMeaning:   "p.example_mean",
	ExampleSentence:  "p.example_stc",
	SentenceFragment: "p.example_stc span.autolink",
	SentenceControl:  "button",
}

// DefaultWebCollectionMarker is the token the site puts on the markup of
// web collection titles.
const DefaultWebCollectionMarker = "webCollect"

// WebCollectionFunc decides whether a title node belongs to a web collection.
type WebCollectionFunc func(title Node) bool

// MarkupContains returns a WebCollectionFunc that looks for marker in the
// title's outer markup (class names, link targets).
func MarkupContains(marker string) WebCollectionFunc {
	return func(title Node) bool {
		return marker != "" && strings.Contains(title.Markup(), marker)
	}
}

// Definitions is the outcome of extracting one definitions page.
type Definitions struct {
	Entries []Entry
	// Faults holds one error per container that was skipped.
	Faults []*StructureError
	// Containers is the number of entry containers found on the page.
	Containers int
}

// Extractor walks a definitions page.
type Extractor struct {
	Layout          Layout
	IsWebCollection WebCollectionFunc
}

// NewExtractor returns an Extractor using DefaultLayout and the default
// web collection marker.
func NewExtractor() *Extractor {
	return &Extractor{
		Layout:          DefaultLayout,
		IsWebCollection: MarkupContains(DefaultWebCollectionMarker),
	}
}

// Extract returns the entries of the page in document order. A page without
// entry containers yields an empty result, not a fault.
func (x *Extractor) Extract(root Node) Definitions {
	containers := root.Find(x.Layout.Container)
	out := Definitions{Containers: len(containers)}

	for i, c := range containers {
		entry, err := x.entry(c)
		if err != nil {
			out.Faults = append(out.Faults, &StructureError{Container: i, Reason: err.Error()})
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}

func (x *Extractor) entry(container Node) (Entry, error) {
	titles := container.Find(x.Layout.Title)
	if len(titles) != 1 {
		return Entry{}, fmt.Errorf("want 1 title %q, found %d", x.Layout.Title, len(titles))
	}
	title := titles[0]

	headword := x.headword(title)
	entry := Entry{
		Title:                 headword,
		ContainsForeignScript: textclean.ContainsLatinLetter(headword),
	}

	if x.IsWebCollection != nil && x.IsWebCollection(title) {
		entry.IsWebCollection = true
		return entry, nil
	}

	defs, err := x.definitions(container)
	if err != nil {
		return Entry{}, err
	}
	entry.Definitions = defs

	examples, err := x.examples(container)
	if err != nil {
		return Entry{}, err
	}
	entry.Examples = examples

	return entry, nil
}

// headword drops the homograph index and the Hanja annotation from the
// title. Digits only go wholesale when the title has no Latin letter; "3D"
// and "Catch-22" keep theirs.
func (x *Extractor) headword(title Node) string {
	text := title.Text()
	if x.Layout.HomographIndex != "" {
		indices := title.Find(x.Layout.HomographIndex)
		for i := len(indices) - 1; i >= 0; i-- {
			index := indices[i].Text()
			if at := strings.LastIndex(text, index); index != "" && at >= 0 {
				text = text[:at] + " " + text[at+len(index):]
			}
		}
	}
	text = textclean.CleanWhitespace(text)
	if textclean.ContainsLatinLetter(text) {
		return textclean.StripIdeographs(text)
	}
	return textclean.StripIdeographAndDigits(text)
}

func (x *Extractor) definitions(container Node) ([]string, error) {
	var defs []string

	short := container.Find(x.Layout.ShortDescription)
	switch len(short) {
	case 0:
	case 1:
		defs = appendClean(defs, short[0].Text())
	default:
		return nil, fmt.Errorf("want at most 1 short description %q, found %d", x.Layout.ShortDescription, len(short))
	}

	for _, item := range container.Find(x.Layout.ListItem) {
		descs := item.Find(x.Layout.ItemDescription)
		switch len(descs) {
		case 0:
			// A bare item is a sub-entry in its own right.
			defs = appendClean(defs, item.Text())
		case 1:
			defs = appendClean(defs, descs[0].Text())
		default:
			return nil, fmt.Errorf("want at most 1 description %q per item, found %d", x.Layout.ItemDescription, len(descs))
		}
	}
	return defs, nil
}

func (x *Extractor) examples(container Node) ([]Example, error) {
	var out []Example
	for _, block := range container.Find(x.Layout.Example) {
		meanings := block.Find(x.Layout.ExampleMeaning)
		if len(meanings) != 1 {
			return nil, fmt.Errorf("want 1 example meaning %q, found %d", x.Layout.ExampleMeaning, len(meanings))
		}

		target, err := x.sentence(block)
		if err != nil {
			return nil, err
		}
		out = append(out, Example{
			Source: textclean.CleanWhitespace(meanings[0].Text()),
			Target: target,
		})
	}
	return out, nil
}

// sentence joins the fragments of the example sentence. The fragments leave
// out the audio button caption that shares the sentence node.
func (x *Extractor) sentence(block Node) (string, error) {
	fragments := block.Find(x.Layout.SentenceFragment)
	if len(fragments) > 0 {
		parts := make([]string, 0, len(fragments))
		for _, f := range fragments {
			parts = append(parts, f.Text())
		}
		return textclean.CleanWhitespace(strings.Join(parts, " ")), nil
	}

	sentences := block.Find(x.Layout.ExampleSentence)
	if len(sentences) != 1 {
		return "", fmt.Errorf("want 1 example sentence %q, found %d", x.Layout.ExampleSentence, len(sentences))
	}
	var labels []string
	if x.Layout.SentenceControl != "" {
		for _, control := range sentences[0].Find(x.Layout.SentenceControl) {
			labels = append(labels, control.Text())
		}
	}
	return textclean.TrimLabels(sentences[0].Text(), labels...), nil
}

func appendClean(defs []string, text string) []string {
	if cleaned := textclean.CleanWhitespace(text); cleaned != "" {
		return append(defs, cleaned)
	}
	return defs
}
