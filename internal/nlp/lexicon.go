package nlp

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// lexiconFile mirrors lexicon.yaml
type lexiconFile struct {
	Auxiliaries          []string `yaml:"auxiliaries"`
	Negations            []string `yaml:"negations"`
	Verbs                []string `yaml:"verbs"`
	ParticipleExceptions []string `yaml:"participle_exceptions"`
	Determiners          []string `yaml:"determiners"`
	Prepositions         []string `yaml:"prepositions"`
	Conjunctions         []string `yaml:"conjunctions"`
	ClauseBreakers       []string `yaml:"clause_breakers"`
	Pronouns             []string `yaml:"pronouns"`
	Abbreviations        []string `yaml:"abbreviations"`
	Honorifics           []string `yaml:"honorifics"`
	OrgSuffixes          []string `yaml:"org_suffixes"`
	Roles                []string `yaml:"roles"`
}

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}

func (s wordSet) has(word string) bool {
	_, ok := s[word]
	return ok
}

// Lexicon holds the word lists driving tagging, parsing and NER
type Lexicon struct {
	auxiliaries          wordSet
	negations            wordSet
	verbs                wordSet
	participleExceptions wordSet
	determiners          wordSet
	prepositions         wordSet
	conjunctions         wordSet
	clauseBreakers       wordSet
	pronouns             wordSet
	abbreviations        wordSet
	honorifics           wordSet
	orgSuffixes          wordSet
	roles                wordSet
}

// DefaultLexicon parses the embedded English lexicon
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// LoadLexicon reads a lexicon YAML file from disk
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon builds a Lexicon from YAML. The negation and auxiliary lists
// are mandatory since the parser cannot build a dependency structure without them.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	if len(file.Negations) == 0 {
		return nil, fmt.Errorf("lexicon has no negation particles")
	}
	if len(file.Auxiliaries) == 0 {
		return nil, fmt.Errorf("lexicon has no auxiliaries")
	}

	return &Lexicon{
		auxiliaries:          newWordSet(file.Auxiliaries),
		negations:            newWordSet(file.Negations),
		verbs:                newWordSet(file.Verbs),
		participleExceptions: newWordSet(file.ParticipleExceptions),
		determiners:          newWordSet(file.Determiners),
		prepositions:         newWordSet(file.Prepositions),
		conjunctions:         newWordSet(file.Conjunctions),
		clauseBreakers:       newWordSet(file.ClauseBreakers),
		pronouns:             newWordSet(file.Pronouns),
		abbreviations:        newWordSet(file.Abbreviations),
		honorifics:           newWordSet(file.Honorifics),
		orgSuffixes:          newWordSet(file.OrgSuffixes),
		roles:                newWordSet(file.Roles),
	}, nil
}

// bare lower-cases a token and strips a trailing period
func bare(text string) string {
	return strings.TrimSuffix(strings.ToLower(text), ".")
}
