package format_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/nvlookup/pkg/dictionary"
	"github.com/japaniel/nvlookup/pkg/format"
	"github.com/japaniel/nvlookup/pkg/htmldoc"
	"github.com/japaniel/nvlookup/pkg/query"
)

const defaultTarget = "http://dict.test/search?query=x"

func extract(t *testing.T, name string) dictionary.Definitions {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "dictionary", "testdata", name))
	require.NoError(t, err)
	doc, err := htmldoc.ParseBytes(body)
	require.NoError(t, err)
	return dictionary.NewExtractor().Extract(doc.Root())
}

func titles(records []format.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestOneLinerBoundary(t *testing.T) {
	tests := []struct {
		name      string
		defs      []string
		examples  int
		wantLines int
	}{
		{"exactly 40", []string{strings.Repeat("a", 40)}, 0, 1},
		{"41 is a block", []string{strings.Repeat("a", 41)}, 0, 2},
		{"40 split across two", []string{strings.Repeat("a", 20), strings.Repeat("b", 20)}, 0, 1},
		{"41 split across two", []string{strings.Repeat("a", 20), strings.Repeat("b", 21)}, 0, 3},
		{"runes not bytes", []string{strings.Repeat("강", 40)}, 0, 1},
		{"one example", []string{"river"}, 1, 1},
		{"two examples", []string{"river"}, 2, 4},
		{"no definitions", nil, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := dictionary.Entry{Title: "w", Definitions: tt.defs}
			for i := 0; i < tt.examples; i++ {
				e.Examples = append(e.Examples, dictionary.Example{Source: "s", Target: "t"})
			}
			got := format.New("w", defaultTarget).Entry(e)
			assert.Len(t, got, tt.wantLines)
			assert.Equal(t, tt.wantLines == 1, format.IsOneLiner(e))
		})
	}
}

func TestOneLinerTitle(t *testing.T) {
	e := dictionary.Entry{
		Title:       "강",
		Definitions: []string{"river", "stream"},
		Examples:    []dictionary.Example{{Source: "강을 건너다", Target: "cross the river"}},
	}
	got := format.New("강", defaultTarget).Entry(e)
	require.Len(t, got, 1)
	assert.Equal(t, "강 = river || stream", got[0].Title)
	assert.Equal(t, "강을 건너다 = cross the river", got[0].Subtitle)
	assert.Equal(t, format.KindEntry, got[0].Kind)
	assert.Equal(t, "강", got[0].AutocompleteKey)
	assert.Equal(t, defaultTarget, got[0].NavigationTarget)
}

func TestBlock(t *testing.T) {
	e := dictionary.Entry{
		Title:       "강",
		Definitions: []string{"river", "stream, brook"},
		Examples: []dictionary.Example{
			{Source: "강을 건너다", Target: "cross the river"},
			{Source: "강이 범람했다", Target: "The river overflowed."},
		},
	}
	got := format.New("강", defaultTarget).Entry(e)
	assert.Equal(t, []string{
		"== 강 ==",
		"    river",
		"    stream, brook",
		"    강을 건너다 = cross the river",
		"    강이 범람했다 = The river overflowed.",
	}, titles(got))
	for i, r := range got {
		assert.Empty(t, r.Subtitle)
		assert.Equal(t, i, r.SortKey)
	}
}

func TestForeignScriptPolicy(t *testing.T) {
	e := dictionary.Entry{Title: "Kang", Definitions: []string{"a Korean family name"}, ContainsForeignScript: true}

	korean := format.New("강", defaultTarget).Entry(e)
	require.Len(t, korean, 1)
	assert.Equal(t, "#foreign: Kang", korean[0].Title)
	assert.Equal(t, format.KindInfo, korean[0].Kind)

	english := format.New("kang", defaultTarget).Entry(e)
	require.Len(t, english, 1)
	assert.Equal(t, "Kang = a Korean family name", english[0].Title)
}

func TestEndToEndCat(t *testing.T) {
	got := format.New("cat", defaultTarget).Build(extract(t, "cat.html"), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "cat = a small domesticated carnivorous mammal", got[0].Title)
	assert.Empty(t, got[0].Subtitle)
}

func TestEndToEndWebCollection(t *testing.T) {
	defs := extract(t, "gang.html")
	got := format.New("강", defaultTarget).Build(defs, nil)

	var web []format.Record
	for _, r := range got {
		if strings.HasPrefix(r.Title, format.WebCollectionTag) {
			web = append(web, r)
		}
		assert.NotContains(t, r.Title, "Gangnam Style", "web collection definitions are never rendered")
	}
	require.Len(t, web, 1)
	assert.Equal(t, "#webCollect: 강남스타일", web[0].Title)
	assert.Equal(t, format.KindInfo, web[0].Kind)
}

func TestBuildOrder(t *testing.T) {
	ep := query.DefaultEndpoints()
	defs := extract(t, "gang.html")
	suggestions := []dictionary.Suggestion{
		{RankGroup: 0, CandidateQuery: "강", BriefDefinition: "river", NavigationTarget: ep.CandidateURL("강")},
		{RankGroup: 1, CandidateQuery: "강물", BriefDefinition: "river water", NavigationTarget: ep.CandidateURL("강물")},
	}
	got := format.New("강", defaultTarget).Build(defs, suggestions)

	assert.Equal(t, []string{
		"== 강 ==",
		"    river",
		"    stream, brook",
		"    the River Han",
		"    강을 건너다 = cross the river",
		"    강이 범람했다 = The river overflowed.",
		"#webCollect: 강남스타일",
		"#foreign: Kang",
		"강물 = river water",
		"#structure: entry 3 skipped",
		"#structure: entry 4 skipped",
		"#structure: entry 6 skipped",
		"sugg[0]: 강",
		"sugg[1]: 강물",
	}, titles(got))
	require.NoError(t, format.Validate(got))

	last := got[len(got)-1]
	assert.Equal(t, format.KindSuggestion, last.Kind)
	assert.Equal(t, "river water", last.Subtitle)
	assert.Equal(t, "강물", last.AutocompleteKey)
	assert.Equal(t, ep.CandidateURL("강물"), last.NavigationTarget)

	fault := got[9]
	assert.Equal(t, format.KindDiagnostic, fault.Kind)
	assert.False(t, fault.IsActionable())
	assert.Contains(t, fault.Subtitle, "found 2")
}

func TestNoResults(t *testing.T) {
	got := format.New("ㅂㅈㄷ", defaultTarget).Build(extract(t, "empty.html"), nil)
	require.Len(t, got, 1)
	assert.Equal(t, format.NoResultsTitle, got[0].Title)
	assert.Equal(t, format.KindInfo, got[0].Kind)
	assert.Equal(t, defaultTarget, got[0].NavigationTarget)
}

func TestNoResultsKeepsFaults(t *testing.T) {
	defs := dictionary.Definitions{
		Containers: 1,
		Faults:     []*dictionary.StructureError{{Container: 0, Reason: "want 1 title"}},
	}
	got := format.New("x", defaultTarget).Build(defs, nil)
	assert.Equal(t, []string{"#structure: entry 0 skipped", format.NoResultsTitle}, titles(got))
}

func TestSuggestionsOnly(t *testing.T) {
	got := format.New("ca", defaultTarget).Build(dictionary.Definitions{}, []dictionary.Suggestion{
		{RankGroup: 0, CandidateQuery: "cat", BriefDefinition: "고양이"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "sugg[0]: cat", got[0].Title)
	assert.Equal(t, defaultTarget, got[0].NavigationTarget, "falls back to the query's page")
}

func TestFailure(t *testing.T) {
	f := format.New("cat", defaultTarget)
	r := f.Failure(errors.New("fetch: status 503"))
	assert.Equal(t, format.FailureTitle, r.Title)
	assert.Equal(t, "fetch: status 503", r.Subtitle)
	assert.Equal(t, format.KindDiagnostic, r.Kind)
	assert.Equal(t, 0, r.SortKey)

	assert.Equal(t, "unknown error", f.Failure(nil).Subtitle)
}

func TestValidate(t *testing.T) {
	assert.Error(t, format.Validate(nil))
	assert.NoError(t, format.Validate([]format.Record{{SortKey: 0}, {SortKey: 3}}))
	assert.Error(t, format.Validate([]format.Record{{SortKey: 1}, {SortKey: 1}}))
}
