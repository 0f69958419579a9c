package intelligence

import (
	"strings"

	"github.com/a3tai/mcp-doc-analyzer/internal/nlp"
)

const maxCueSentences = 3

var summaryCues = []string{
	"purpose", "whereas", "objective", "agrees as follows", "shall be",
	"resolved that", "hereby",
}

// Summarize builds an extractive summary: the first two sentences followed by
// up to three later sentences containing a cue phrase, in document order.
func Summarize(doc *nlp.Doc) string {
	if doc == nil || len(doc.Sentences) == 0 {
		return SummaryNone
	}

	var picked []string
	for i, sent := range doc.Sentences {
		if i < 2 {
			picked = append(picked, sent.Text)
			continue
		}
		if len(picked)-2 >= maxCueSentences {
			break
		}
		if hasCue(strings.ToLower(sent.Text)) {
			picked = append(picked, sent.Text)
		}
	}

	summary := strings.TrimSpace(strings.Join(picked, " "))
	if summary == "" {
		return SummaryFailed
	}
	return summary
}

func hasCue(lower string) bool {
	for _, cue := range summaryCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
