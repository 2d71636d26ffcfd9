package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/japaniel/nvlookup/pkg/dictionary"
	"github.com/japaniel/nvlookup/pkg/fetch"
	"github.com/japaniel/nvlookup/pkg/format"
	"github.com/japaniel/nvlookup/pkg/query"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "dictionary", "testdata", name))
	require.NoError(t, err)
	return body
}

// dictServer serves the definitions fixtures under /search and the
// suggestion feeds under /ac, keyed by the decoded query.
func dictServer(t *testing.T, hits *int32) (*httptest.Server, query.Endpoints) {
	t.Helper()
	pages := map[string][]byte{
		"cat": fixture(t, "cat.html"),
		"강":   fixture(t, "gang.html"),
	}
	feeds := map[string][]byte{
		"cat": fixture(t, "suggestions.json"),
	}
	empty := fixture(t, "empty.html")

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		body, ok := pages[r.URL.Query().Get("query")]
		if !ok {
			body = empty
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	})
	mux.HandleFunc("/ac", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		switch q := r.URL.Query().Get("q"); q {
		case "boom":
			http.Error(w, "upstream down", http.StatusBadGateway)
		case "broken":
			w.Write([]byte(`{"items": [[`))
		default:
			body, ok := feeds[q]
			if !ok {
				body = []byte(`{"query":[],"items":[]}`)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, query.Endpoints{
		Definition: srv.URL + "/search?query={query}",
		Suggestion: srv.URL + "/ac?q={query}",
	}
}

func newService(t *testing.T, hits *int32, opts ...Option) (*Service, query.Endpoints) {
	_, ep := dictServer(t, hits)
	return New(fetch.New(fetch.Options{Timeout: 5 * time.Second}, nil), ep, opts...), ep
}

func titles(records []format.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestLookupCat(t *testing.T) {
	svc, ep := newService(t, nil)

	records, err := svc.Lookup(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cat = a small domesticated carnivorous mammal",
		"sugg[0]: cat",
		"sugg[1]: catalog",
	}, titles(records))
	assert.Equal(t, ep.DefinitionURL("cat"), records[0].NavigationTarget)
	assert.Equal(t, ep.CandidateURL("catalog"), records[2].NavigationTarget)
	require.NoError(t, format.Validate(records))
}

func TestLookupDecomposedHangul(t *testing.T) {
	svc, _ := newService(t, nil)

	composed, err := svc.Lookup(context.Background(), "강")
	require.NoError(t, err)
	decomposed, err := svc.Lookup(context.Background(), "\u1100\u1161\u11bc")
	require.NoError(t, err)

	assert.Equal(t, composed, decomposed)
	assert.Equal(t, "== 강 ==", composed[0].Title)
}

func TestLookupNoResults(t *testing.T) {
	svc, _ := newService(t, nil)

	records, err := svc.Lookup(context.Background(), "ㅂㅈㄷ")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, format.NoResultsTitle, records[0].Title)
}

func TestLookupBlankQuery(t *testing.T) {
	var hits int32
	svc, _ := newService(t, &hits)

	records, err := svc.Lookup(context.Background(), "  \t")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, format.NoResultsTitle, records[0].Title)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestLookupTransportFault(t *testing.T) {
	svc, _ := newService(t, nil)

	records, err := svc.Lookup(context.Background(), "boom")
	require.Error(t, err)
	assert.ErrorIs(t, err, fetch.ErrTransport)

	var se *fetch.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)

	require.Len(t, records, 1, "never partially rendered")
	assert.Equal(t, format.KindDiagnostic, records[0].Kind)
	assert.Equal(t, format.FailureTitle, records[0].Title)
	assert.Contains(t, records[0].Subtitle, "502")
}

func TestLookupMalformedFeed(t *testing.T) {
	svc, _ := newService(t, nil)

	records, err := svc.Lookup(context.Background(), "broken")
	assert.ErrorIs(t, err, dictionary.ErrMalformedFeed)
	require.Len(t, records, 1)
	assert.Equal(t, format.KindDiagnostic, records[0].Kind)
}

func TestLookupEncodingFault(t *testing.T) {
	var hits int32
	svc, _ := newService(t, &hits)

	records, err := svc.Lookup(context.Background(), "\xff\xfe")
	assert.ErrorIs(t, err, query.ErrMalformed)
	require.Len(t, records, 1)
	assert.Equal(t, format.FailureTitle, records[0].Title)
	assert.Zero(t, atomic.LoadInt32(&hits), "nothing is fetched")
}

type fetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

func TestLookupFetchesConcurrently(t *testing.T) {
	ep := query.Endpoints{Definition: "def:{query}", Suggestion: "sug:{query}"}
	feedServed := make(chan struct{})
	page := fixture(t, "cat.html")

	// The definitions fetch only completes once the feed fetch has, which
	// deadlocks unless both are in flight together.
	f := fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		if strings.HasPrefix(url, "sug:") {
			close(feedServed)
			return []byte(`{"items":[[[["cat"],["고양이"]]]]}`), nil
		}
		select {
		case <-feedServed:
			return page, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	records, err := New(f, ep).Lookup(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cat = a small domesticated carnivorous mammal",
		"sugg[0]: cat",
	}, titles(records))
}

func TestLookupLogsFaultsAndEmptyPages(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc, _ := newService(t, nil, WithLogger(zap.New(core)))

	_, err := svc.Lookup(context.Background(), "강")
	require.NoError(t, err)
	assert.Equal(t, 3, logs.FilterMessage("entry skipped").Len())

	_, err = svc.Lookup(context.Background(), "ㅂㅈㄷ")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("definitions page has no entries").Len())
}

func TestLookupCustomExtractor(t *testing.T) {
	x := dictionary.NewExtractor()
	x.IsWebCollection = dictionary.MarkupContains("no-such-marker")
	svc, _ := newService(t, nil, WithExtractor(x))

	records, err := svc.Lookup(context.Background(), "강")
	require.NoError(t, err)
	assert.Contains(t, titles(records), "강남스타일 = Gangnam Style, a 2012 song")
}
