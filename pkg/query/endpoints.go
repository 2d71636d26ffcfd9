package query

import (
	"fmt"
	"strings"
)

// Placeholder marks where the encoded query goes in an endpoint template.
const Placeholder = "{query}"

// Default endpoint templates of the mobile Naver English dictionary.
const (
	DefaultDefinitionTemplate = "http://m.endic.naver.com/search.nhn?searchOption=all&query={query}"
	DefaultSuggestionTemplate = "http://ac.endic.naver.com/ac?q={query}&q_enc=utf-8&st=1100&r_format=json&r_enc=utf-8&r_lt=1000&r_unicode=0&r_escape=1"
)

// Endpoints holds the two URL templates a lookup fetches.
type Endpoints struct {
	Definition string
	Suggestion string
}

// DefaultEndpoints returns the production templates.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Definition: DefaultDefinitionTemplate,
		Suggestion: DefaultSuggestionTemplate,
	}
}

// Validate checks that both templates carry the placeholder.
func (e Endpoints) Validate() error {
	if !strings.Contains(e.Definition, Placeholder) {
		return fmt.Errorf("definition template %q lacks %s", e.Definition, Placeholder)
	}
	if !strings.Contains(e.Suggestion, Placeholder) {
		return fmt.Errorf("suggestion template %q lacks %s", e.Suggestion, Placeholder)
	}
	return nil
}

// DefinitionURL substitutes an already encoded query into the definitions template.
func (e Endpoints) DefinitionURL(encoded string) string {
	return strings.ReplaceAll(e.Definition, Placeholder, encoded)
}

// SuggestionURL substitutes an already encoded query into the suggestion template.
func (e Endpoints) SuggestionURL(encoded string) string {
	return strings.ReplaceAll(e.Suggestion, Placeholder, encoded)
}

// CandidateURL encodes a raw suggestion candidate and returns the definitions
// page it links to.
func (e Endpoints) CandidateURL(candidate string) string {
	return e.DefinitionURL(Encode(candidate))
}
