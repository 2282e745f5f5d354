// cmd/serper-search/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"serper-client/internal/common/logger"
	"serper-client/internal/common/observability"
	"serper-client/pkg/config"
	"serper-client/pkg/search"
)

const ProgramName = "serper-search"

type args struct {
	Queries     []string `arg:"positional,required" placeholder:"QUERY" help:"one or more search queries"`
	Location    string   `arg:"--location,-l" help:"location to search from, e.g. \"Paris, France\""`
	Country     string   `arg:"--country,-c" help:"country code (gl)"`
	Language    string   `arg:"--language" help:"language code (hl)"`
	Page        uint32   `arg:"--page,-p" help:"result page, starting at 1"`
	Num         uint32   `arg:"--num,-n" help:"results per page (1-100)"`
	Concurrent  int      `arg:"--concurrent,-k" help:"run queries concurrently with at most K in flight"`
	Timeout     int      `arg:"--timeout" help:"request timeout in seconds"`
	JSON        bool     `arg:"--json" help:"print responses as JSON"`
	Verbose     bool     `arg:"--verbose,-v" help:"enable debug logging"`
	MetricsAddr string   `arg:"--metrics-addr" help:"serve Prometheus metrics on this address and wait for Ctrl+C"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", ProgramName, config.Version)
}

func (args) Description() string {
	return "Search the web through the Serper API. Reads SERPER_API_KEY from the environment or a .env file."
}

func main() {
	var a args
	p, err := arg.NewParser(arg.Config{Program: ProgramName}, &a)
	if err != nil {
		log.Fatalf("there was an error in the definition of the Go struct: %v", err)
	}
	p.MustParse(os.Args[1:])

	os.Exit(run(a, os.Stdout))
}

// run executes the searches and returns the process exit code. Deferred
// cleanup runs before the caller exits.
func run(a args, stdout io.Writer) int {
	level := "info"
	if a.Verbose {
		level = "debug"
	}
	zapLog, err := logger.New(level, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		return 1
	}
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Error("config load failed", zap.Error(err))
		return 1
	}
	if a.Timeout > 0 {
		cfg = cfg.WithTimeout(time.Duration(a.Timeout) * time.Second)
	}

	queries, err := buildQueries(a)
	if err != nil {
		zapLog.Error("invalid query", zap.Error(err))
		return 1
	}

	obs := observability.New(ProgramName)
	defer obs.Shutdown()

	svc, err := search.NewServiceFromConfig(cfg,
		search.WithLogger(logger.NewZapAdapter(zapLog)),
		search.WithObservability(obs),
	)
	if err != nil {
		zapLog.Error("service init failed", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.MetricsAddr != "" {
		go serveMetrics(a.MetricsAddr, zapLog)
	}

	var results []*search.SearchResponse
	switch {
	case len(queries) == 1:
		var resp *search.SearchResponse
		resp, err = svc.Search(ctx, queries[0])
		results = []*search.SearchResponse{resp}
	case a.Concurrent > 0:
		results, err = svc.SearchConcurrent(ctx, queries, a.Concurrent)
	default:
		results, err = svc.SearchMultiple(ctx, queries)
	}
	if err != nil {
		zapLog.Error("search failed", zap.Error(err))
		return 1
	}

	if err := render(stdout, queries, results, a.JSON); err != nil {
		zapLog.Error("write output failed", zap.Error(err))
		return 1
	}

	if a.MetricsAddr != "" {
		zapLog.Info("Searches finished, metrics still served; press Ctrl+C to exit",
			zap.String("addr", a.MetricsAddr))
		<-ctx.Done()
	}
	return 0
}

// buildQueries applies the shared flags to every positional query.
func buildQueries(a args) ([]search.SearchQuery, error) {
	queries := make([]search.SearchQuery, 0, len(a.Queries))
	for _, text := range a.Queries {
		b := search.NewQueryBuilder().Query(strings.TrimSpace(text))
		if a.Location != "" {
			b = b.Location(a.Location)
		}
		if a.Country != "" {
			b = b.Country(a.Country)
		}
		if a.Language != "" {
			b = b.Language(a.Language)
		}
		if a.Page > 0 {
			b = b.Page(a.Page)
		}
		if a.Num > 0 {
			b = b.NumResults(a.Num)
		}
		q, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", text, err)
		}
		queries = append(queries, q)
	}
	return queries, nil
}

func serveMetrics(addr string, zapLog *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	zapLog.Info("Metrics server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		zapLog.Error("Metrics server failed", zap.Error(err))
	}
}
