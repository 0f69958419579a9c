package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-doc-analyzer/internal/config"
	"github.com/a3tai/mcp-doc-analyzer/internal/descriptions"
	"github.com/a3tai/mcp-doc-analyzer/internal/history"
	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
	"github.com/a3tai/mcp-doc-analyzer/internal/pdf"
)

const errHistoryDisabled = "analysis history is disabled (start the server with --history)"

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	analyzer  *intelligence.Analyzer
	documents *pdf.Service
	history   history.Repository
	mcpServer *server.MCPServer
	tools     []mcp.Tool
	logger    *log.Logger
}

// NewServer creates a new MCP server instance. store may be nil, in which
// case the history tools report that history is disabled.
func NewServer(cfg *config.Config, analyzer *intelligence.Analyzer, documents *pdf.Service, store history.Repository) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer cannot be nil")
	}
	if documents == nil {
		return nil, fmt.Errorf("document service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	logger := log.New(io.Discard, "", 0)
	if cfg.IsDebug() {
		logger = log.New(os.Stderr, "[mcp] ", log.LstdFlags)
	}

	s := &Server{
		config:    cfg,
		analyzer:  analyzer,
		documents: documents,
		history:   store,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

func documentArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("text",
			mcp.Description("Raw document text. Either text or path is required"),
		),
		mcp.WithString("path",
			mcp.Description("Path to a .pdf, .txt or .md file, absolute or relative to the document directory"),
		),
	}
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool("analyze_document",
		append([]mcp.ToolOption{
			mcp.WithDescription(descriptions.GetToolDescription("analyze_document")),
		}, documentArgs()...)...,
	)
	s.addTool(analyzeTool, s.handleAnalyzeDocument)

	classifyTool := mcp.NewTool("classify_document",
		append([]mcp.ToolOption{
			mcp.WithDescription(descriptions.GetToolDescription("classify_document")),
		}, documentArgs()...)...,
	)
	s.addTool(classifyTool, s.handleClassifyDocument)

	extractTool := mcp.NewTool("extract_fields",
		append([]mcp.ToolOption{
			mcp.WithDescription(descriptions.GetToolDescription("extract_fields")),
		}, documentArgs()...)...,
	)
	s.addTool(extractTool, s.handleExtractFields)

	typesTool := mcp.NewTool("list_document_types",
		mcp.WithDescription(descriptions.GetToolDescription("list_document_types")),
	)
	s.addTool(typesTool, s.handleListDocumentTypes)

	getTool := mcp.NewTool("get_analysis",
		mcp.WithDescription(descriptions.GetToolDescription("get_analysis")),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Analysis id returned by analyze_document"),
		),
	)
	s.addTool(getTool, s.handleGetAnalysis)

	listTool := mcp.NewTool("list_analyses",
		mcp.WithDescription(descriptions.GetToolDescription("list_analyses")),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Max records (default: %d)", history.DefaultListLimit)),
		),
	)
	s.addTool(listTool, s.handleListAnalyses)

	documentsTool := mcp.NewTool("list_documents",
		mcp.WithDescription(descriptions.GetToolDescription("list_documents")),
		mcp.WithString("query",
			mcp.Description("Optional words that must all appear in the file name"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max files (default: all)"),
		),
	)
	s.addTool(documentsTool, s.handleListDocuments)

	infoTool := mcp.NewTool("server_info",
		mcp.WithDescription(descriptions.GetToolDescription("server_info")),
	)
	s.addTool(infoTool, s.handleServerInfo)
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.tools = append(s.tools, tool)
	s.mcpServer.AddTool(tool, handler)
}

// loadDocument resolves the text/path arguments into document text and a
// source label
func (s *Server) loadDocument(request mcp.CallToolRequest) (string, string, error) {
	args := request.GetArguments()

	text, hasText := args["text"].(string)
	path, _ := args["path"].(string)

	// an explicit empty text is a valid (empty) document
	if hasText && (text != "" || path == "") {
		return text, "inline", nil
	}

	if strings.TrimSpace(path) == "" {
		return "", "", errors.New("either 'text' or 'path' is required")
	}

	doc, err := s.documents.ReadDocument(path)
	if err != nil {
		return "", "", err
	}
	return doc.Text, doc.Path, nil
}

func intArg(request mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := request.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Handler functions
func (s *Server) handleAnalyzeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, source, err := s.loadDocument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.analyzer.Analyze(text)
	s.logger.Printf("analysed %s: %s, score %d", source, result.Type, result.Score)

	toolResult, err := jsonResult(result)
	if err != nil || s.history == nil {
		return toolResult, err
	}

	rec, err := s.history.Save(ctx, source, result)
	if err != nil {
		s.logger.Printf("failed to record analysis of %s: %v", source, err)
		return toolResult, nil
	}
	toolResult.Content = append(toolResult.Content, mcp.NewTextContent("analysis_id: "+rec.ID))
	return toolResult, nil
}

func (s *Server) handleClassifyDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, _, err := s.loadDocument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	docType, scores := s.analyzer.Classify(text)
	return jsonResult(struct {
		Type   intelligence.DocumentType `json:"type"`
		Scores []intelligence.TypeScore  `json:"scores"`
	}{docType, scores})
}

func (s *Server) handleExtractFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, _, err := s.loadDocument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(s.analyzer.ExtractFields(text))
}

func (s *Server) handleListDocumentTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.analyzer.KnowledgeBase().Entries())
}

func (s *Server) handleGetAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError(errHistoryDisabled), nil
	}

	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.history.Get(ctx, id)
	if errors.Is(err, history.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no analysis with id %s", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec)
}

func (s *Server) handleListAnalyses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError(errHistoryDisabled), nil
	}

	records, err := s.history.List(ctx, intArg(request, "limit", history.DefaultListLimit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("No analyses recorded yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d analyses:\n\n", len(records))
	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec.ID)
		fmt.Fprintf(&b, "   Source: %s\n", rec.Source)
		fmt.Fprintf(&b, "   Type: %s, Score: %d\n", rec.Result.Type, rec.Result.Score)
		fmt.Fprintf(&b, "   Recorded: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, _ := request.GetArguments()["query"].(string)

	files, err := s.documents.FindDocuments(query, intArg(request, "limit", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		text := fmt.Sprintf("No documents found in directory: %s", s.documents.Directory())
		if query != "" {
			text += fmt.Sprintf(" (searched for: %s)", query)
		}
		return mcp.NewToolResultText(text), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d document(s) in directory: %s\n\n", len(files), s.documents.Directory())
	for i, file := range files {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, file.Name, file.Format)
		fmt.Fprintf(&b, "   Path: %s\n", file.Path)
		fmt.Fprintf(&b, "   Size: %d bytes\n", file.Size)
		fmt.Fprintf(&b, "   Modified: %s\n", file.ModifiedTime)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Document Directory: %s\n", s.documents.Directory())
	fmt.Fprintf(&b, "Max File Size: %d MB\n", s.documents.GetMaxFileSize()/(1024*1024))
	if s.history != nil {
		b.WriteString("History: enabled\n")
	} else {
		b.WriteString("History: disabled\n")
	}

	b.WriteString("\nDocument Types:\n")
	for _, dt := range s.analyzer.KnowledgeBase().Types() {
		fmt.Fprintf(&b, "  - %s\n", dt)
	}

	b.WriteString("\nAvailable Tools:\n")
	for _, tool := range s.tools {
		fmt.Fprintf(&b, "  - %s: %s\n", tool.Name, descriptions.GetToolSummary(tool.Name))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the input closes
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over the given streams
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Printf("starting %s in stdio mode, directory %s", s.config.ServerName, s.documents.Directory())

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(s.logger)

	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
