package intelligence

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// KnowledgeBase is the ordered, read-only set of per-type keywords and red
// flags. It is never modified after construction.
type KnowledgeBase struct {
	entries []KnowledgeEntry
	index   map[DocumentType]int
}

// knowledgeFile mirrors the YAML layout of a custom knowledge base
type knowledgeFile struct {
	Types []KnowledgeEntry `yaml:"types"`
}

// DefaultKnowledgeBase returns the built-in knowledge base
func DefaultKnowledgeBase() *KnowledgeBase {
	kb, err := NewKnowledgeBase(defaultKnowledge())
	if err != nil {
		panic(fmt.Sprintf("built-in knowledge base is invalid: %v", err))
	}
	return kb
}

// LoadKnowledgeBase reads a knowledge base YAML file from disk
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base file: %w", err)
	}
	return ParseKnowledgeBase(data)
}

// ParseKnowledgeBase builds a knowledge base from YAML
func ParseKnowledgeBase(data []byte) (*KnowledgeBase, error) {
	var file knowledgeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	return NewKnowledgeBase(file.Types)
}

// NewKnowledgeBase validates entries and compiles their red-flag patterns.
// Keywords are lower-cased since classification runs on lower-cased text.
func NewKnowledgeBase(entries []KnowledgeEntry) (*KnowledgeBase, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("knowledge base has no document types")
	}

	kb := &KnowledgeBase{
		entries: make([]KnowledgeEntry, 0, len(entries)),
		index:   make(map[DocumentType]int, len(entries)),
	}

	for i, entry := range entries {
		name := DocumentType(strings.TrimSpace(string(entry.Type)))
		if name == "" {
			return nil, fmt.Errorf("entry %d: document type name is empty", i)
		}
		if name.IsSentinel() {
			return nil, fmt.Errorf("entry %d: %q is a reserved type name", i, name)
		}
		if _, dup := kb.index[name]; dup {
			return nil, fmt.Errorf("entry %d: duplicate document type %q", i, name)
		}

		compiled := KnowledgeEntry{
			Type:     name,
			Keywords: make([]string, 0, len(entry.Keywords)),
			RedFlags: make([]RedFlag, 0, len(entry.RedFlags)),
		}
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				compiled.Keywords = append(compiled.Keywords, kw)
			}
		}
		for _, flag := range entry.RedFlags {
			re, err := regexp.Compile("(?i)" + flag.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%s: red flag %q: %w", name, flag.Name, err)
			}
			if flag.Name == "" {
				flag.Name = flag.Pattern
			}
			flag.re = re
			compiled.RedFlags = append(compiled.RedFlags, flag)
		}

		kb.index[name] = len(kb.entries)
		kb.entries = append(kb.entries, compiled)
	}

	return kb, nil
}

// Entries returns the entries in declaration order
func (kb *KnowledgeBase) Entries() []KnowledgeEntry {
	out := make([]KnowledgeEntry, len(kb.entries))
	copy(out, kb.entries)
	return out
}

// Types returns the configured type names in declaration order
func (kb *KnowledgeBase) Types() []DocumentType {
	types := make([]DocumentType, len(kb.entries))
	for i, e := range kb.entries {
		types[i] = e.Type
	}
	return types
}

// Lookup returns the entry for a configured type
func (kb *KnowledgeBase) Lookup(dt DocumentType) (KnowledgeEntry, bool) {
	i, ok := kb.index[dt]
	if !ok {
		return KnowledgeEntry{}, false
	}
	return kb.entries[i], true
}
