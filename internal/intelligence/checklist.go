package intelligence

import "strings"

const maxMissingClauses = 5

// MissingClauses lists the keywords of the type that lowerText lacks, in
// declaration order, stopping at the fifth. Types outside the knowledge base
// have no checklist.
func (kb *KnowledgeBase) MissingClauses(dt DocumentType, lowerText string) []string {
	missing := []string{}

	entry, ok := kb.Lookup(dt)
	if !ok {
		return missing
	}
	for _, kw := range entry.Keywords {
		if len(missing) == maxMissingClauses {
			break
		}
		if !strings.Contains(lowerText, kw) {
			missing = append(missing, kw)
		}
	}
	return missing
}
