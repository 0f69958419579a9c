// Package batch analyses many documents concurrently on a bounded worker
// pool and returns the results in input order.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sourcegraph/conc/pool"

	"github.com/a3tai/mcp-doc-analyzer/internal/history"
	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
	"github.com/a3tai/mcp-doc-analyzer/internal/pdf"
	"github.com/a3tai/mcp-doc-analyzer/internal/report"
)

// Stdin is the source name that reads the document from standard input
const Stdin = "-"

// DefaultWorkers is used when a non-positive worker count is configured
const DefaultWorkers = 4

// Loader turns a source into document text
type Loader interface {
	ReadDocument(path string) (*pdf.Document, error)
	ReadFrom(r io.Reader) (*pdf.Document, error)
}

// Saver persists analysis results
type Saver interface {
	Save(ctx context.Context, source string, result *intelligence.AnalysisResult) (*history.Record, error)
}

// Runner analyses batches of documents
type Runner struct {
	analyzer *intelligence.Analyzer
	loader   Loader
	saver    Saver
	stdin    io.Reader
	workers  int
	logger   *log.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithWorkers bounds the number of documents analysed at once
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSaver records every result in the given store
func WithSaver(s Saver) Option {
	return func(r *Runner) {
		r.saver = s
	}
}

// WithStdin replaces os.Stdin as the source for "-"
func WithStdin(in io.Reader) Option {
	return func(r *Runner) {
		r.stdin = in
	}
}

// WithLogger sets the logger used for load and save failures
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner
func NewRunner(analyzer *intelligence.Analyzer, loader Loader, opts ...Option) (*Runner, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer cannot be nil")
	}
	if loader == nil {
		return nil, fmt.Errorf("loader cannot be nil")
	}

	r := &Runner{
		analyzer: analyzer,
		loader:   loader,
		stdin:    os.Stdin,
		workers:  DefaultWorkers,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run analyses every source and returns one entry per source, in the same
// order. A source that cannot be loaded yields a fault result rather than
// aborting the batch.
func (r *Runner) Run(ctx context.Context, sources []string) []report.Entry {
	entries := make([]report.Entry, len(sources))

	// stdin can only be consumed once
	var stdinDoc *pdf.Document
	var stdinErr error
	for _, src := range sources {
		if src == Stdin {
			stdinDoc, stdinErr = r.loader.ReadFrom(r.stdin)
			break
		}
	}

	p := pool.New().WithMaxGoroutines(r.workers)
	for i, src := range sources {
		p.Go(func() {
			var doc *pdf.Document
			var err error
			switch {
			case ctx.Err() != nil:
				err = ctx.Err()
			case src == Stdin:
				doc, err = stdinDoc, stdinErr
			default:
				doc, err = r.loader.ReadDocument(src)
			}

			entries[i] = r.analyze(ctx, src, doc, err)
		})
	}
	p.Wait()

	return entries
}

func (r *Runner) analyze(ctx context.Context, src string, doc *pdf.Document, loadErr error) report.Entry {
	entry := report.Entry{Source: src}

	if loadErr != nil {
		r.logger.Printf("failed to load %s: %v", src, loadErr)
		entry.Result = intelligence.FaultResult(fmt.Errorf("failed to load document: %w", loadErr))
	} else {
		entry.Result = r.analyzer.Analyze(doc.Text)
	}

	if r.saver != nil && ctx.Err() == nil {
		rec, err := r.saver.Save(ctx, src, entry.Result)
		if err != nil {
			r.logger.Printf("failed to record %s: %v", src, err)
		} else {
			entry.ID = rec.ID
		}
	}

	return entry
}
