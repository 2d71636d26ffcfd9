package dictionary

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/japaniel/nvlookup/pkg/query"
	"github.com/japaniel/nvlookup/pkg/textclean"
)

// ParseSuggestions walks the suggestion feed:
//
//	{"items": [ [ [["cat"], ["고양이"]], ... ], ... ]}
//
// The top level groups candidates by rank; every pair holds the candidate
// query and its brief definition, each as the first element of a list.
// Pairs without a candidate are skipped. An empty body yields no suggestions.
func ParseSuggestions(body []byte, endpoints query.Endpoints) ([]Suggestion, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("dictionary: parse suggestions: %w", ErrMalformedFeed)
	}

	var out []Suggestion
	groups := gjson.GetBytes(body, "items")
	for groupIdx, group := range groups.Array() {
		for _, pair := range group.Array() {
			fields := pair.Array()
			if len(fields) == 0 {
				continue
			}
			candidate := textclean.CleanWhitespace(html.UnescapeString(first(fields[0])))
			if candidate == "" {
				continue
			}
			var brief string
			if len(fields) > 1 {
				brief = textclean.CleanWhitespace(html.UnescapeString(first(fields[1])))
			}
			out = append(out, Suggestion{
				RankGroup:        groupIdx,
				CandidateQuery:   candidate,
				BriefDefinition:  brief,
				NavigationTarget: endpoints.CandidateURL(candidate),
			})
		}
	}
	return out, nil
}

// first returns the first element of a singleton list, or the value itself
// when the feed sends a bare string.
func first(r gjson.Result) string {
	if r.IsArray() {
		items := r.Array()
		if len(items) == 0 {
			return ""
		}
		return items[0].String()
	}
	return r.String()
}
