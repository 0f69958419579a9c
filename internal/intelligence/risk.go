package intelligence

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-doc-analyzer/internal/nlp"
)

const (
	baselineScore = 100
	unknownScore  = 60
	flagPenalty   = 25
)

// RiskScanner applies the red flags of the classified type to a document
type RiskScanner struct {
	kb *KnowledgeBase
}

// NewRiskScanner creates a scanner over a knowledge base
func NewRiskScanner(kb *KnowledgeBase) *RiskScanner {
	return &RiskScanner{kb: kb}
}

// Scan returns the findings for text and the change to apply to the
// baseline score of 100.
//
// For a configured type each red flag contributes at most one finding: the
// first match that is not negated in doc. An unknown type sets the score to
// 60 and yields a single warning. text must be the text doc was parsed from
// so match offsets line up with token offsets.
func (rs *RiskScanner) Scan(dt DocumentType, text string, doc *nlp.Doc) ([]RiskFinding, int) {
	findings := []RiskFinding{}

	entry, ok := rs.kb.Lookup(dt)
	if !ok {
		findings = append(findings, RiskFinding{
			Name:        "Unknown Document Type",
			Status:      StatusWarning,
			Explanation: "Could not automatically classify document type; risk scanning coverage is reduced.",
		})
		return findings, unknownScore - baselineScore
	}

	delta := 0
	for _, flag := range entry.RedFlags {
		for _, loc := range flag.re.FindAllStringIndex(text, -1) {
			if IsNegated(doc, loc[0], loc[1]) {
				continue
			}
			findings = append(findings, RiskFinding{
				Name:        fmt.Sprintf("Critical Risk (%s)", dt),
				Status:      StatusWarning,
				Explanation: fmt.Sprintf("Detected high-risk language: '%s'.", strings.ToLower(text[loc[0]:loc[1]])),
			})
			delta -= flagPenalty
			break
		}
	}

	return findings, delta
}

// clampScore keeps a score within [0, 100]
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > baselineScore {
		return baselineScore
	}
	return score
}
