package intelligence

import (
	"github.com/a3tai/mcp-doc-analyzer/internal/nlp"
)

// IsNegated reports whether the byte span [start, end) of doc.Text is
// governed by a negation particle. The span is widened to whole tokens and
// its root is the token attached outside the span closest to the sentence
// root. The span is negated when the root or the root's head has a direct
// "neg" dependent. Negation particles inside the span belong to the matched
// phrase and are not counted. Spans that cannot be resolved are not negated.
func IsNegated(doc *nlp.Doc, start, end int) bool {
	if doc == nil {
		return false
	}
	first, last, ok := doc.CharSpan(start, end)
	if !ok {
		return false
	}

	root := doc.SpanRoot(first, last)
	if hasNegation(doc, root, first, last) {
		return true
	}
	head := doc.Tokens[root].Head
	return head != root && hasNegation(doc, head, first, last)
}

func hasNegation(doc *nlp.Doc, i, first, last int) bool {
	for _, child := range doc.Children(i) {
		if child >= first && child < last {
			continue
		}
		if doc.Tokens[child].Dep == nlp.DepNeg {
			return true
		}
	}
	return false
}
