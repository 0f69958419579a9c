package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-doc-analyzer/internal/config"
	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
	"github.com/a3tai/mcp-doc-analyzer/internal/pdf"
	"github.com/a3tai/mcp-doc-analyzer/internal/report"
)

const ndaText = "This Non-Disclosure Agreement protects confidential information and trade secrets."

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.Mode = config.ModeAnalyze
	cfg.NoColor = true
	return cfg
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	t.Cleanup(func() { version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit })

	version = "1.2.3"
	buildTime = "2024-02-05_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)
	out := buf.String()

	for _, want := range []string{"MCP Document Analyzer", "Version: 1.2.3", "Build Time: 2024-02-05_10:30:00", "Git Commit: abc123", "Built with: go"} {
		assert.Contains(t, out, want)
	}
}

func TestSetupLogging(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	t.Cleanup(func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	})

	setupLogging(&config.Config{Mode: config.ModeStdio, LogLevel: "info"})
	assert.NotEqual(t, os.Stderr, log.Writer())

	setupLogging(&config.Config{Mode: config.ModeStdio, LogLevel: "debug"})
	assert.Equal(t, os.Stderr, log.Writer())

	setupLogging(&config.Config{Mode: config.ModeServer, LogLevel: "info"})
	assert.Equal(t, os.Stderr, log.Writer())
	assert.Equal(t, log.LstdFlags|log.Lshortfile, log.Flags())
}

func TestBuildAnalyzer(t *testing.T) {
	cfg := testConfig(t)

	analyzer, err := buildAnalyzer(cfg, log.Default())
	require.NoError(t, err)
	assert.Len(t, analyzer.KnowledgeBase().Types(), 5)
}

func TestBuildAnalyzer_CapabilityUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Lexicon = filepath.Join(cfg.Directory, "missing-lexicon.yaml")

	_, err := buildAnalyzer(cfg, log.Default())
	assert.True(t, errors.Is(err, errCapabilityUnavailable))
}

func TestBuildAnalyzer_KnowledgeBase(t *testing.T) {
	cfg := testConfig(t)

	cfg.KnowledgeBase = filepath.Join(cfg.Directory, "kb.yaml")
	require.NoError(t, os.WriteFile(cfg.KnowledgeBase, []byte(`types:
  - type: Lease Deed
    keywords: [lessor, lessee, monthly rent]
    red_flags:
      - name: no lock-in
        pattern: 'no\s+lock-in'
`), 0o644))

	analyzer, err := buildAnalyzer(cfg, log.Default())
	require.NoError(t, err)
	assert.Equal(t, []intelligence.DocumentType{"Lease Deed"}, analyzer.KnowledgeBase().Types())

	require.NoError(t, os.WriteFile(cfg.KnowledgeBase, []byte("types: []\n"), 0o644))
	_, err = buildAnalyzer(cfg, log.Default())
	require.Error(t, err)
	assert.False(t, errors.Is(err, errCapabilityUnavailable))
}

func TestWriteFault(t *testing.T) {
	var buf bytes.Buffer
	writeFault(&buf, errors.New("nlp engine unavailable: lexicon missing"))

	var result intelligence.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, intelligence.DocumentTypeError, result.Type)
	assert.Equal(t, 0, result.Score)
	require.Len(t, result.Risks, 1)
	assert.Equal(t, intelligence.StatusCritical, result.Risks[0].Status)
	assert.Equal(t, intelligence.SummaryFailed, result.Summary)
}

func TestOpenHistory(t *testing.T) {
	cfg := testConfig(t)

	store, err := openHistory(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, store)

	cfg.History = ":memory:"
	store, err = openHistory(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
}

func TestRunAnalyzeMode(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Directory, "nda.txt"), []byte(ndaText), 0o644))
	cfg.Inputs = []string{"nda.txt", "-", "missing.txt"}

	analyzer, err := buildAnalyzer(cfg, log.Default())
	require.NoError(t, err)
	documents, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory)
	require.NoError(t, err)

	var out bytes.Buffer
	err = runAnalyzeMode(context.Background(), cfg, analyzer, documents, nil, strings.NewReader(""), &out)
	require.NoError(t, err)

	var entries []report.Entry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 3)

	assert.Equal(t, "nda.txt", entries[0].Source)
	assert.Equal(t, intelligence.DocumentTypeNDA, entries[0].Result.Type)
	assert.Equal(t, "-", entries[1].Source)
	assert.Equal(t, intelligence.DocumentTypeUnknown, entries[1].Result.Type)
	assert.Equal(t, intelligence.DocumentTypeError, entries[2].Result.Type)
}

func TestRunAnalyzeMode_StdinTextWithHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Format = report.FormatText
	cfg.History = ":memory:"

	analyzer, err := buildAnalyzer(cfg, log.Default())
	require.NoError(t, err)
	documents, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory)
	require.NoError(t, err)
	store, err := openHistory(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var out bytes.Buffer
	err = runAnalyzeMode(context.Background(), cfg, analyzer, documents, store, strings.NewReader(ndaText), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "== - ==")
	assert.Contains(t, text, "Type:     Non-Disclosure Agreement")
	assert.Contains(t, text, "ID:       ")
	assert.NotContains(t, text, "\x1b[")

	records, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunAnalyzeMode_BadFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Format = "xml"

	analyzer, err := buildAnalyzer(cfg, log.Default())
	require.NoError(t, err)
	documents, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory)
	require.NoError(t, err)

	err = runAnalyzeMode(context.Background(), cfg, analyzer, documents, nil, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}
