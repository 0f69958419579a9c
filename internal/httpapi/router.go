// Package httpapi exposes the analyzer over a small JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/a3tai/mcp-doc-analyzer/internal/history"
	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
	"github.com/a3tai/mcp-doc-analyzer/internal/pdf"
)

// RequestTimeout bounds the handling time of every request
const RequestTimeout = 30 * time.Second

// Router serves the HTTP API
type Router struct {
	analyzer  *intelligence.Analyzer
	documents *pdf.Service
	history   history.Repository
	logger    *log.Logger
}

// NewRouter builds the API handler. store may be nil, in which case the
// history routes answer 503.
func NewRouter(analyzer *intelligence.Analyzer, documents *pdf.Service, store history.Repository, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	r := &Router{analyzer: analyzer, documents: documents, history: store, logger: logger}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(RequestTimeout))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Location", "X-Analysis-Id"},
		MaxAge:         300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/types", r.wrap(r.handleTypes))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/analyses", r.wrap(r.handleListAnalyses))
		rt.Get("/analyses/{id}", r.wrap(r.handleGetAnalysis))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{code: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

var errHistoryDisabled = &httpError{code: http.StatusServiceUnavailable, msg: "analysis history is disabled"}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var herr *httpError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &herr):
			writeError(w, herr.code, herr.msg)
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body too large (max: %d bytes)", maxErr.Limit))
		case errors.Is(err, history.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, pdf.ErrUnsupportedFile):
			writeError(w, http.StatusUnsupportedMediaType, err.Error())
		default:
			r.logger.Printf("%s %s: %v", req.Method, req.URL.Path, err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// GET /v1/types
func (r *Router) handleTypes(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, r.analyzer.KnowledgeBase().Entries())
	return nil
}

// POST /v1/analyze
// Body: {"text": "...", "source": "optional label"} or a multipart form with
// a "file" part (.pdf, .txt, .md).
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	// room for multipart framing around the largest accepted file
	req.Body = http.MaxBytesReader(w, req.Body, r.documents.GetMaxFileSize()+1<<20)

	text, source, err := r.readDocument(req)
	if err != nil {
		return err
	}

	result := r.analyzer.Analyze(text)
	r.logger.Printf("analysed %s: %s, score %d", source, result.Type, result.Score)

	if r.history != nil {
		rec, err := r.history.Save(req.Context(), source, result)
		if err != nil {
			r.logger.Printf("failed to record analysis of %s: %v", source, err)
		} else {
			w.Header().Set("X-Analysis-Id", rec.ID)
			w.Header().Set("Location", "/v1/analyses/"+rec.ID)
		}
	}

	writeJSON(w, http.StatusOK, result)
	return nil
}

func (r *Router) readDocument(req *http.Request) (string, string, error) {
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		file, header, err := req.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return "", "", err
			}
			return "", "", badRequest("multipart upload needs a 'file' part: %v", err)
		}
		defer file.Close()

		doc, err := r.documents.ExtractText(file, header.Filename)
		if err != nil {
			if errors.Is(err, pdf.ErrUnsupportedFile) {
				return "", "", err
			}
			return "", "", badRequest("%v", err)
		}
		return doc.Text, header.Filename, nil
	}

	var body struct {
		Text   *string `json:"text"`
		Source string  `json:"source"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", "", err
		}
		return "", "", badRequest("invalid JSON body: %v", err)
	}
	if body.Text == nil {
		return "", "", badRequest("'text' is required")
	}
	if body.Source == "" {
		body.Source = "inline"
	}
	return *body.Text, body.Source, nil
}

// GET /v1/analyses?limit=
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	if r.history == nil {
		return errHistoryDisabled
	}

	limit := history.DefaultListLimit
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest("limit must be a positive integer")
		}
		limit = n
	}

	records, err := r.history.List(req.Context(), limit)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, records)
	return nil
}

// GET /v1/analyses/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	if r.history == nil {
		return errHistoryDisabled
	}

	rec, err := r.history.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, rec)
	return nil
}
