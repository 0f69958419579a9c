package intelligence

import (
	"strings"
)

// Classifier assigns a document type by counting keyword hits per type
type Classifier struct {
	kb *KnowledgeBase
}

// NewClassifier creates a classifier over a knowledge base
func NewClassifier(kb *KnowledgeBase) *Classifier {
	return &Classifier{kb: kb}
}

// Scores counts, for each type in declaration order, how many distinct
// keywords occur as substrings of lowerText
func (c *Classifier) Scores(lowerText string) []TypeScore {
	scores := make([]TypeScore, 0, len(c.kb.entries))
	for _, entry := range c.kb.entries {
		hits := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(lowerText, kw) {
				hits++
			}
		}
		scores = append(scores, TypeScore{Type: entry.Type, Score: hits})
	}
	return scores
}

// Classify returns the type with the most keyword hits. Ties go to the type
// declared first; no hits at all yields DocumentTypeUnknown.
func (c *Classifier) Classify(lowerText string) DocumentType {
	best := TypeScore{Type: DocumentTypeUnknown}
	for _, s := range c.Scores(lowerText) {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Type
}
