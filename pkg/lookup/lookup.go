// Package lookup runs the dictionary lookup pipeline: normalize the query,
// fetch the definitions page and the suggestion feed concurrently, extract
// and format.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/japaniel/nvlookup/pkg/dictionary"
	"github.com/japaniel/nvlookup/pkg/format"
	"github.com/japaniel/nvlookup/pkg/htmldoc"
	"github.com/japaniel/nvlookup/pkg/query"
)

// Fetcher retrieves a remote document. *fetch.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Indices into the fetched pages.
const (
	definitionPage = iota
	suggestionFeed
)

// Service looks up queries against one pair of endpoints.
type Service struct {
	fetcher   Fetcher
	endpoints query.Endpoints
	extractor *dictionary.Extractor
	workers   int
	log       *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithExtractor replaces the default definitions extractor.
func WithExtractor(x *dictionary.Extractor) Option {
	return func(s *Service) { s.extractor = x }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithWorkers bounds the number of concurrent lookups in Batch.
func WithWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// New returns a Service.
func New(f Fetcher, endpoints query.Endpoints, opts ...Option) *Service {
	s := &Service{
		fetcher:   f,
		endpoints: endpoints,
		extractor: dictionary.NewExtractor(),
		workers:   4,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the display records for raw. A fatal fault (the query
// cannot be encoded, a fetch fails, the feed cannot be decoded) yields a
// single diagnostic record together with the error.
func (s *Service) Lookup(ctx context.Context, raw string) ([]format.Record, error) {
	if err := query.Validate(raw); err != nil {
		return []format.Record{format.New("", "").Failure(err)}, err
	}

	q := strings.TrimSpace(query.Normalize(raw))
	encoded := query.Encode(q)
	defURL := s.endpoints.DefinitionURL(encoded)
	f := format.New(q, defURL)
	log := s.log.With(zap.String("query", q))

	if q == "" {
		return []format.Record{f.NoResults()}, nil
	}

	pages, err := s.fetchPages(ctx, defURL, s.endpoints.SuggestionURL(encoded))
	if err != nil {
		err = fmt.Errorf("lookup %q: %w", q, err)
		log.Error("fetch failed", zap.Error(err))
		return []format.Record{f.Failure(err)}, err
	}

	doc, err := htmldoc.ParseBytes(pages[definitionPage])
	if err != nil {
		err = fmt.Errorf("lookup %q: %w", q, err)
		return []format.Record{f.Failure(err)}, err
	}
	defs := s.extractor.Extract(doc.Root())
	for _, fault := range defs.Faults {
		log.Warn("entry skipped", zap.Int("container", fault.Container), zap.String("reason", fault.Reason))
	}
	if defs.Containers == 0 {
		s.logPageSummary(log, pages[definitionPage], defURL)
	}

	suggestions, err := dictionary.ParseSuggestions(pages[suggestionFeed], s.endpoints)
	if err != nil {
		err = fmt.Errorf("lookup %q: %w", q, err)
		log.Error("suggestion feed rejected", zap.Error(err))
		return []format.Record{f.Failure(err)}, err
	}

	records := f.Build(defs, suggestions)
	log.Debug("lookup done",
		zap.Int("containers", defs.Containers),
		zap.Int("entries", len(defs.Entries)),
		zap.Int("suggestions", len(suggestions)),
		zap.Int("records", len(records)))
	return records, nil
}

// fetchPages fetches all urls concurrently. pages[i] is the body of urls[i]
// whatever order the fetches complete in.
func (s *Service) fetchPages(ctx context.Context, urls ...string) ([][]byte, error) {
	pages := make([][]byte, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			body, err := s.fetcher.Fetch(gctx, u)
			if err != nil {
				return err
			}
			pages[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// logPageSummary records what a page without entry containers was about, so
// a markup change on the site can be told apart from a genuine miss.
func (s *Service) logPageSummary(log *zap.Logger, body []byte, pageURL string) {
	if !log.Core().Enabled(zap.DebugLevel) {
		return
	}
	sum, err := htmldoc.Summarize(body, pageURL)
	if err != nil {
		log.Debug("definitions page has no entries", zap.Error(err))
		return
	}
	log.Debug("definitions page has no entries",
		zap.String("page_title", sum.Title),
		zap.String("site", sum.SiteName),
		zap.String("excerpt", sum.Excerpt),
		zap.Int("text_runes", sum.Length))
}
