package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/japaniel/nvlookup/pkg/config"
	"github.com/japaniel/nvlookup/pkg/dictionary"
	"github.com/japaniel/nvlookup/pkg/emit"
	"github.com/japaniel/nvlookup/pkg/fetch"
	"github.com/japaniel/nvlookup/pkg/logging"
	"github.com/japaniel/nvlookup/pkg/lookup"
	"github.com/japaniel/nvlookup/pkg/mcptool"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// selfTestQueries cover Hangul words, conjugated forms, a sentence and
// English input.
var selfTestQueries = []string{"강", "조언", "뭘 해야 할까요", "그리기에", "집중할", "cat", "I am a potato"}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nvlookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outputFlag := fs.String("output", "", "Output mode: text or alfred (default from config)")
	plaintextFlag := fs.Bool("plaintext", false, "Shorthand for -output text")
	testFlag := fs.Bool("test", false, "Look up a fixed list of queries and print the results")
	mcpFlag := fs.Bool("mcp", false, "Serve the dictionary_lookup tool over MCP on stdio")
	versionFlag := fs.Bool("version", false, "Print the version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: nvlookup [flags] <query>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "nvlookup %s\n", version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "nvlookup: %v\n", err)
		return 1
	}
	switch {
	case *plaintextFlag:
		cfg.Output.Mode = emit.ModeText
	case *outputFlag != "":
		cfg.Output.Mode = *outputFlag
	}
	emitter, err := emit.ForMode(cfg.Output.Mode)
	if err != nil {
		fmt.Fprintf(stderr, "nvlookup: %v\n", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "nvlookup: config: %v\n", err)
		return 2
	}
	if *mcpFlag && cfg.LogsToStdout() {
		fmt.Fprintf(stderr, "nvlookup: log.path %q would corrupt the MCP stream on stdout\n", cfg.Log.Path)
		return 2
	}

	log, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		fmt.Fprintf(stderr, "nvlookup: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logging.WithContext(ctx, log)

	extractor := dictionary.NewExtractor()
	extractor.IsWebCollection = dictionary.MarkupContains(cfg.Dictionary.WebCollectionMarker)
	svc := lookup.New(
		fetch.New(cfg.FetchOptions(), log),
		cfg.QueryEndpoints(),
		lookup.WithExtractor(extractor),
		lookup.WithLogger(log),
		lookup.WithWorkers(cfg.Batch.Workers),
	)

	switch {
	case *mcpFlag:
		log.Info("serving MCP over stdio", zap.String("version", version))
		if err := mcptool.Serve(ctx, mcptool.NewServer(svc, version, log)); err != nil {
			log.Error("mcp server stopped", zap.Error(err))
			return 1
		}
		return 0
	case *testFlag:
		return selfTest(ctx, svc, stdout)
	}

	q := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(q) == "" {
		fs.Usage()
		return 2
	}

	records, lookupErr := svc.Lookup(ctx, q)
	if err := emitter.Emit(stdout, records); err != nil {
		log.Error("emit failed", zap.Error(err))
		return 1
	}
	// The launcher reads the diagnostic row from stdout; a failing exit
	// status would only hide it.
	if lookupErr != nil && cfg.Output.Mode == emit.ModeText {
		return 1
	}
	return 0
}

// selfTest runs selfTestQueries concurrently and prints every result in
// list order.
func selfTest(ctx context.Context, svc *lookup.Service, stdout io.Writer) int {
	log := logging.FromContext(ctx)
	failed := 0
	err := svc.Batch(ctx, selfTestQueries, func(r lookup.Result) error {
		fmt.Fprintf(stdout, "=== %s ===\n", r.Query)
		if r.Err != nil {
			failed++
			log.Warn("self-test lookup failed", zap.String("query", r.Query), zap.Error(r.Err))
		}
		return emit.Text{}.Emit(stdout, r.Records)
	})
	if err != nil {
		log.Error("self-test aborted", zap.Error(err))
		return 1
	}
	log.Info("self-test done", zap.Int("queries", len(selfTestQueries)), zap.Int("failed", failed))
	if failed > 0 {
		return 1
	}
	return 0
}
