package nlp

import (
	"fmt"
	"unicode/utf8"
)

// RuleEngine is a deterministic rule-based English engine. It is immutable
// after construction and safe for concurrent use.
type RuleEngine struct {
	lexicon *Lexicon
}

// Option configures a RuleEngine
type Option func(*engineOptions)

type engineOptions struct {
	lexiconPath string
}

// WithLexiconFile replaces the embedded lexicon with a YAML file
func WithLexiconFile(path string) Option {
	return func(o *engineOptions) {
		o.lexiconPath = path
	}
}

// NewRuleEngine loads the lexicon and returns a ready engine. An error here
// means the language capability is unavailable.
func NewRuleEngine(opts ...Option) (*RuleEngine, error) {
	var options engineOptions
	for _, opt := range opts {
		opt(&options)
	}

	var (
		lexicon *Lexicon
		err     error
	)
	if options.lexiconPath != "" {
		lexicon, err = LoadLexicon(options.lexiconPath)
	} else {
		lexicon, err = DefaultLexicon()
	}
	if err != nil {
		return nil, fmt.Errorf("nlp engine unavailable: %w", err)
	}

	return &RuleEngine{lexicon: lexicon}, nil
}

// Parse tokenizes, segments, tags, parses and runs entity recognition
func (e *RuleEngine) Parse(text string) (*Doc, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("text is not valid UTF-8")
	}

	lex := e.lexicon
	doc := &Doc{Text: text}
	doc.Tokens = lex.tokenize(text)
	doc.Sentences = lex.segment(text, doc.Tokens)

	for i := range doc.Sentences {
		sent := &doc.Sentences[i]
		lex.tag(doc.Tokens, *sent)
		lex.parse(doc.Tokens, sent)
		doc.Entities = append(doc.Entities, lex.recognize(text, doc.Tokens, *sent)...)
	}

	doc.indexChildren()
	return doc, nil
}
