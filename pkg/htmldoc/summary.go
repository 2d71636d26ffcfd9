package htmldoc

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/go-shiori/go-readability"

	"github.com/japaniel/nvlookup/pkg/textclean"
)

const excerptRunes = 120

// Summary is a readable digest of a page, used when a page did not have the
// expected structure and someone has to find out what it contained instead.
type Summary struct {
	Title    string
	SiteName string
	Excerpt  string
	Length   int // runes of readable text
}

// Summarize runs readability extraction over body.
func Summarize(body []byte, pageURL string) (Summary, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Summary{}, fmt.Errorf("htmldoc: summarize: %w", err)
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return Summary{}, fmt.Errorf("htmldoc: summarize: %w", err)
	}

	text := []rune(textclean.CleanWhitespace(article.TextContent))
	excerpt := text
	if len(excerpt) > excerptRunes {
		excerpt = excerpt[:excerptRunes]
	}
	return Summary{
		Title:    textclean.CleanWhitespace(article.Title),
		SiteName: article.SiteName,
		Excerpt:  string(excerpt),
		Length:   len(text),
	}, nil
}
