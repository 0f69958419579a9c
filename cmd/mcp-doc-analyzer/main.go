package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/a3tai/mcp-doc-analyzer/internal/batch"
	"github.com/a3tai/mcp-doc-analyzer/internal/config"
	"github.com/a3tai/mcp-doc-analyzer/internal/history"
	"github.com/a3tai/mcp-doc-analyzer/internal/httpapi"
	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
	"github.com/a3tai/mcp-doc-analyzer/internal/mcp"
	"github.com/a3tai/mcp-doc-analyzer/internal/nlp"
	"github.com/a3tai/mcp-doc-analyzer/internal/pdf"
	"github.com/a3tai/mcp-doc-analyzer/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// errCapabilityUnavailable marks a failure to construct the NLP engine
var errCapabilityUnavailable = errors.New("language capability unavailable")

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// stdout carries the MCP protocol; logs go to stderr only when debugging
		log.SetOutput(io.Discard)
		if cfg.IsDebug() {
			log.SetOutput(os.Stderr)
		}
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// buildAnalyzer constructs the NLP engine and analyzer from configuration
func buildAnalyzer(cfg *config.Config, logger *log.Logger) (*intelligence.Analyzer, error) {
	engine, err := nlp.NewRuleEngine(nlp.WithLexiconFile(cfg.Lexicon))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCapabilityUnavailable, err)
	}

	opts := []intelligence.Option{intelligence.WithMaxTextLength(cfg.MaxTextLength)}
	if cfg.KnowledgeBase != "" {
		kb, err := intelligence.LoadKnowledgeBase(cfg.KnowledgeBase)
		if err != nil {
			return nil, err
		}
		opts = append(opts, intelligence.WithKnowledgeBase(kb))
	}
	if cfg.IsDebug() {
		opts = append(opts, intelligence.WithLogger(logger))
	}

	return intelligence.NewAnalyzer(engine, opts...)
}

// openHistory opens the configured store; nil when history is disabled
func openHistory(ctx context.Context, cfg *config.Config) (*history.Store, error) {
	if !cfg.HistoryEnabled() {
		return nil, nil
	}
	return history.Open(ctx, cfg.History)
}

// writeFault prints err as a fault analysis record
func writeFault(w io.Writer, err error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(intelligence.FaultResult(err))
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runAnalyzeMode analyses cfg.Inputs (stdin when empty) and renders the
// results to out
func runAnalyzeMode(ctx context.Context, cfg *config.Config, analyzer *intelligence.Analyzer,
	documents *pdf.Service, store *history.Store, in io.Reader, out io.Writer,
) error {
	renderer, err := report.NewRenderer(cfg.Format, cfg.NoColor || !isTerminal(out))
	if err != nil {
		return err
	}

	opts := []batch.Option{
		batch.WithWorkers(cfg.Workers),
		batch.WithStdin(in),
		batch.WithLogger(log.Default()),
	}
	if store != nil {
		opts = append(opts, batch.WithSaver(store))
	}

	runner, err := batch.NewRunner(analyzer, documents, opts...)
	if err != nil {
		return err
	}

	inputs := cfg.Inputs
	if len(inputs) == 0 {
		inputs = []string{batch.Stdin}
	}

	return renderer.Render(out, runner.Run(ctx, inputs))
}

// runServerMode serves the HTTP API until ctx is cancelled
func runServerMode(ctx context.Context, cfg *config.Config, analyzer *intelligence.Analyzer,
	documents *pdf.Service, store *history.Store,
) error {
	var repo history.Repository
	if store != nil {
		repo = store
	}

	log.Printf("Starting %s %s in server mode", cfg.ServerName, cfg.Version)
	handler := httpapi.NewRouter(analyzer, documents, repo, log.Default())
	return httpapi.Serve(ctx, cfg.Address(), handler, log.Default())
}

// runStdioMode serves MCP on stdin/stdout; the parent process controls
// the lifecycle
func runStdioMode(ctx context.Context, cfg *config.Config, analyzer *intelligence.Analyzer,
	documents *pdf.Service, store *history.Store,
) error {
	var repo history.Repository
	if store != nil {
		repo = store
	}

	server, err := mcp.NewServer(cfg, analyzer, documents, repo)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadFromFlags()
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		printVersion(os.Stdout)
		return 0
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 2
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && !cfg.IsStdioMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	analyzer, err := buildAnalyzer(cfg, log.Default())
	if errors.Is(err, errCapabilityUnavailable) {
		writeFault(os.Stdout, err)
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create analyzer: %v\n", err)
		return 1
	}

	documents, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create document service: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openHistory(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		return 1
	}
	if store != nil {
		defer store.Close()
	}

	switch {
	case cfg.IsAnalyzeMode():
		err = runAnalyzeMode(ctx, cfg, analyzer, documents, store, os.Stdin, os.Stdout)
	case cfg.IsServerMode():
		err = runServerMode(ctx, cfg, analyzer, documents, store)
	default:
		err = runStdioMode(ctx, cfg, analyzer, documents, store)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.IsServerMode() {
		log.Println("Server stopped successfully")
	}
	return 0
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Document Analyzer\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
