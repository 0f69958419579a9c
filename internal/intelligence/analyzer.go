package intelligence

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/a3tai/mcp-doc-analyzer/internal/nlp"
)

// DefaultMaxTextLength is the number of runes kept after normalization
const DefaultMaxTextLength = 100000

// Analyzer orchestrates classification, field extraction, risk scanning,
// summarization and the clause checklist for one document at a time.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	engine     nlp.Engine
	kb         *KnowledgeBase
	classifier *Classifier
	scanner    *RiskScanner
	maxRunes   int
	logger     *log.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithKnowledgeBase replaces the built-in knowledge base
func WithKnowledgeBase(kb *KnowledgeBase) Option {
	return func(a *Analyzer) {
		if kb != nil {
			a.kb = kb
		}
	}
}

// WithMaxTextLength sets the prefix length, in runes, analysed per document.
// Zero or less disables truncation.
func WithMaxTextLength(n int) Option {
	return func(a *Analyzer) {
		a.maxRunes = n
	}
}

// WithLogger enables debug logging of analysis steps
func WithLogger(logger *log.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer on top of an NLP engine
func NewAnalyzer(engine nlp.Engine, opts ...Option) (*Analyzer, error) {
	if engine == nil {
		return nil, fmt.Errorf("nlp engine is required")
	}

	a := &Analyzer{
		engine:   engine,
		kb:       DefaultKnowledgeBase(),
		maxRunes: DefaultMaxTextLength,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.classifier = NewClassifier(a.kb)
	a.scanner = NewRiskScanner(a.kb)

	return a, nil
}

// KnowledgeBase returns the knowledge base in use
func (a *Analyzer) KnowledgeBase() *KnowledgeBase {
	return a.kb
}

// Normalize collapses whitespace runs to single spaces, trims the ends and
// truncates to the configured number of runes. Invalid UTF-8 is dropped.
func (a *Analyzer) Normalize(raw string) string {
	text := strings.Join(strings.Fields(strings.ToValidUTF8(raw, "")), " ")
	if a.maxRunes <= 0 || len(text) <= a.maxRunes {
		return text
	}

	count := 0
	for i := range text {
		if count == a.maxRunes {
			return strings.TrimRight(text[:i], " ")
		}
		count++
	}
	return text
}

// Classify normalizes raw text and classifies it
func (a *Analyzer) Classify(raw string) (DocumentType, []TypeScore) {
	lower := strings.ToLower(a.Normalize(raw))
	return a.classifier.Classify(lower), a.classifier.Scores(lower)
}

// ExtractFields normalizes raw text and extracts dates and money
func (a *Analyzer) ExtractFields(raw string) ExtractedFields {
	return ExtractFields(a.Normalize(raw))
}

// Analyze runs the full pipeline on raw text. It always returns a
// well-formed result; internal failures become a fault result.
func (a *Analyzer) Analyze(raw string) (result *AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Printf("analysis panicked: %v", r)
			result = FaultResult(fmt.Errorf("analysis failed: %v", r))
		}
	}()

	text := a.Normalize(raw)
	if text == "" {
		return EmptyResult()
	}
	lower := strings.ToLower(text)

	docType := a.classifier.Classify(lower)
	fields := ExtractFields(text)

	doc, err := a.engine.Parse(text)
	if err != nil {
		a.logger.Printf("nlp parse failed: %v", err)
		return FaultResult(fmt.Errorf("failed to parse document: %w", err))
	}

	risks, delta := a.scanner.Scan(docType, text, doc)
	a.logger.Printf("classified as %q, %d findings, score delta %d", docType, len(risks), delta)

	return &AnalysisResult{
		Score:          clampScore(baselineScore + delta),
		Type:           docType,
		Risks:          risks,
		Entities:       entities(doc),
		KeyDetails:     fields,
		Summary:        Summarize(doc),
		MissingClauses: a.kb.MissingClauses(docType, lower),
	}
}

// entities returns the distinct organization and person names, sorted
func entities(doc *nlp.Doc) []string {
	return uniqueSorted(doc.EntitiesWithLabel(nlp.LabelOrg, nlp.LabelPerson))
}
