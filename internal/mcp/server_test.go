package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-doc-analyzer/internal/config"
	"github.com/a3tai/mcp-doc-analyzer/internal/history"
	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
	"github.com/a3tai/mcp-doc-analyzer/internal/nlp"
	"github.com/a3tai/mcp-doc-analyzer/internal/pdf"
)

const boardResolution = "BOARD RESOLUTION. Meeting held 5th February 2024. Quorum: Not achieved. Approved by Rs. 50,000 authority."

type fixture struct {
	server *Server
	dir    string
	store  *history.Store
}

func newFixture(t *testing.T, withHistory bool) *fixture {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Directory = dir
	cfg.ServerName = "test-server"

	engine, err := nlp.NewRuleEngine()
	require.NoError(t, err)
	analyzer, err := intelligence.NewAnalyzer(engine)
	require.NoError(t, err)
	documents, err := pdf.NewService(cfg.MaxFileSize, dir)
	require.NoError(t, err)

	f := &fixture{dir: dir}
	var repo history.Repository
	if withHistory {
		f.store, err = history.Open(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = f.store.Close() })
		repo = f.store
	}

	f.server, err = NewServer(cfg, analyzer, documents, repo)
	require.NoError(t, err)
	return f
}

func callTool(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// extractTextFromResult returns the text of the first text content
func extractTextFromResult(result *mcp.CallToolResult) string {
	texts := extractTexts(result)
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}

func extractTexts(result *mcp.CallToolResult) []string {
	if result == nil {
		return nil
	}
	var texts []string
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			texts = append(texts, textContent.Text)
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			texts = append(texts, textContentPtr.Text)
		}
	}
	return texts
}

func TestNewServer(t *testing.T) {
	f := newFixture(t, false)
	assert.NotNil(t, f.server.mcpServer)
	assert.Len(t, f.server.tools, 8)

	names := make([]string, len(f.server.tools))
	for i, tool := range f.server.tools {
		names[i] = tool.Name
	}
	assert.Equal(t, []string{
		"analyze_document", "classify_document", "extract_fields", "list_document_types",
		"get_analysis", "list_analyses", "list_documents", "server_info",
	}, names)

	_, err := NewServer(nil, f.server.analyzer, f.server.documents, nil)
	assert.Error(t, err)
	_, err = NewServer(f.server.config, nil, f.server.documents, nil)
	assert.Error(t, err)
	_, err = NewServer(f.server.config, f.server.analyzer, nil, nil)
	assert.Error(t, err)
}

func TestHandleAnalyzeDocument_Text(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.server.handleAnalyzeDocument(context.Background(), callTool(map[string]interface{}{
		"text": boardResolution,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var analysis intelligence.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &analysis))
	assert.Equal(t, intelligence.DocumentTypeBoardResolution, analysis.Type)
	assert.Equal(t, 75, analysis.Score)
	assert.Len(t, extractTexts(result), 1)
}

func TestHandleAnalyzeDocument_EmptyText(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.server.handleAnalyzeDocument(context.Background(), callTool(map[string]interface{}{
		"text": "",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var analysis intelligence.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &analysis))
	assert.Equal(t, intelligence.DocumentTypeUnknown, analysis.Type)
	assert.Equal(t, 0, analysis.Score)
	assert.Equal(t, intelligence.SummaryNone, analysis.Summary)
}

func TestHandleAnalyzeDocument_Path(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "minutes.txt"), []byte(boardResolution), 0o644))

	result, err := f.server.handleAnalyzeDocument(context.Background(), callTool(map[string]interface{}{
		"path": "minutes.txt",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	texts := extractTexts(result)
	require.Len(t, texts, 2)
	require.True(t, strings.HasPrefix(texts[1], "analysis_id: "))
	id := strings.TrimPrefix(texts[1], "analysis_id: ")

	rec, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "minutes.txt"), rec.Source)
	assert.Equal(t, 75, rec.Result.Score)

	got, err := f.server.handleGetAnalysis(context.Background(), callTool(map[string]interface{}{"id": id}))
	require.NoError(t, err)
	assert.False(t, got.IsError)
	assert.Contains(t, extractTextFromResult(got), id)

	list, err := f.server.handleListAnalyses(context.Background(), callTool(map[string]interface{}{"limit": float64(5)}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(list), "Found 1 analyses")
	assert.Contains(t, extractTextFromResult(list), "Score: 75")
}

func TestHandleAnalyzeDocument_Errors(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{name: "no input", args: map[string]interface{}{}, want: "either 'text' or 'path' is required"},
		{name: "missing file", args: map[string]interface{}{"path": "nope.txt"}, want: "does not exist"},
		{name: "outside directory", args: map[string]interface{}{"path": "../../etc/passwd"}, want: "security validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.server.handleAnalyzeDocument(context.Background(), callTool(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, extractTextFromResult(result), tt.want)
		})
	}
}

func TestHandleClassifyDocument(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.server.handleClassifyDocument(context.Background(), callTool(map[string]interface{}{
		"text": "This Non-Disclosure Agreement covers confidential information and trade secrets.",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var decoded struct {
		Type   intelligence.DocumentType `json:"type"`
		Scores []intelligence.TypeScore  `json:"scores"`
	}
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &decoded))
	assert.Equal(t, intelligence.DocumentTypeNDA, decoded.Type)
	require.Len(t, decoded.Scores, 5)
	assert.Equal(t, intelligence.TypeScore{Type: intelligence.DocumentTypeNDA, Score: 2}, decoded.Scores[4])
}

func TestHandleExtractFields(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.server.handleExtractFields(context.Background(), callTool(map[string]interface{}{
		"text": boardResolution,
	}))
	require.NoError(t, err)

	var fields intelligence.ExtractedFields
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &fields))
	assert.Contains(t, fields[intelligence.FieldDates], "5th February 2024")
	assert.Contains(t, fields[intelligence.FieldMoney], "Rs. 50,000")
}

func TestHandleListDocumentTypes(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.server.handleListDocumentTypes(context.Background(), callTool(nil))
	require.NoError(t, err)

	var entries []intelligence.KnowledgeEntry
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &entries))
	require.Len(t, entries, 5)
	assert.Equal(t, intelligence.DocumentTypeBoardResolution, entries[0].Type)
	assert.NotEmpty(t, entries[0].RedFlags)
}

func TestHistoryToolsDisabled(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.server.handleGetAnalysis(context.Background(), callTool(map[string]interface{}{"id": "x"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "history is disabled")

	result, err = f.server.handleListAnalyses(context.Background(), callTool(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetAnalysis_NotFound(t *testing.T) {
	f := newFixture(t, true)

	result, err := f.server.handleGetAnalysis(context.Background(), callTool(map[string]interface{}{
		"id": "3f1c1f5e-8a44-4d4e-9a55-1d2b1b0c9e77",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "no analysis with id")

	result, err = f.server.handleGetAnalysis(context.Background(), callTool(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = f.server.handleListAnalyses(context.Background(), callTool(nil))
	require.NoError(t, err)
	assert.Equal(t, "No analyses recorded yet.", extractTextFromResult(result))
}

func TestHandleListDocuments(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.server.handleListDocuments(context.Background(), callTool(nil))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "No documents found")

	for _, name := range []string{"board-resolution.txt", "nda.md", "photo.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte("content"), 0o644))
	}

	result, err = f.server.handleListDocuments(context.Background(), callTool(nil))
	require.NoError(t, err)
	text := extractTextFromResult(result)
	assert.Contains(t, text, "Found 2 document(s)")
	assert.Contains(t, text, "board-resolution.txt (text)")
	assert.NotContains(t, text, "photo.jpg")

	result, err = f.server.handleListDocuments(context.Background(), callTool(map[string]interface{}{"query": "board"}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "Found 1 document(s)")
}

func TestHandleServerInfo(t *testing.T) {
	f := newFixture(t, true)

	result, err := f.server.handleServerInfo(context.Background(), callTool(nil))
	require.NoError(t, err)

	text := extractTextFromResult(result)
	for _, want := range []string{
		"test-server v1.0.0",
		"History: enabled",
		"Board Resolution",
		"Non-Disclosure Agreement",
		"analyze_document",
		"list_documents",
	} {
		assert.Contains(t, text, want)
	}
}
