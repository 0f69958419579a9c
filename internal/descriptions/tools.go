package descriptions

import (
	"sort"
	"strings"
)

// Tool descriptions with practical examples and use cases

const (
	// Analysis tools
	AnalyzeDocumentDescription = `Classify a corporate or legal document and score its risk.

**When to use:** Reviewing a board resolution, MoU, annual report, employment contract or NDA and you need a quick risk read.

**Why it's useful:** Returns one record with the document type, a 0-100 risk score (100 = no issues found), each red-flag finding with the exact phrase that triggered it, organisations and people named, dates and amounts, a short summary and the standard clauses that are missing. Negated phrases such as "is not backdated" are not flagged.

**Examples:**
• Screen minutes: "Analyze board-minutes.pdf and tell me whether quorum was achieved"
• Contract review: "Check employment-offer.txt for termination without notice"
• Pasted text: pass the document body as 'text' instead of a path

**Common workflows:**
1. Triage: list_documents → analyze_document → review findings with score below 75
2. Audit trail: analyze_document → note analysis_id → get_analysis later

**Best practices:** Pass either 'text' or 'path'. Relative paths resolve against the configured directory. Scores are relative to the built-in red-flag list, not legal advice.`

	ClassifyDocumentDescription = `Determine the document type and show the keyword score of every known type.

**When to use:** You only need the category, or you want to understand why a document was classified the way it was.

**Why it's useful:** Exposes the keyword hit count per type so close calls are visible. Ties go to the type listed first.

**Examples:**
• "Is contract-draft.pdf an NDA or an employment contract?"
• "Show the type scores for this pasted agreement"

**Best practices:** A document with no keyword hits is reported as "Unknown Document".`

	ExtractFieldsDescription = `Extract dates and monetary amounts from a document.

**When to use:** Need the key figures of a document without the full risk analysis.

**Why it's useful:** Finds dates such as "5th February 2024", "12/03/2024" or "2024-02-05" and amounts such as "Rs. 50,000", "₹ 2,00,000" or "unlimited financial authority". Results are de-duplicated and sorted.

**Examples:**
• "List every date mentioned in lease.pdf"
• "What amounts does the resolution approve?"`

	ListDocumentTypesDescription = `List the document types the analyzer recognises.

**When to use:** Before analysing, to check whether a document category is supported, or to see which phrases count as red flags.

**Why it's useful:** Shows each type's keywords (also used as the clause checklist) and red-flag patterns in classification order.`

	// History tools
	GetAnalysisDescription = `Fetch a previously recorded analysis by id.

**When to use:** Revisit an earlier result without re-running the analysis.

**Best practices:** Only available when the server runs with --history. The id is returned by analyze_document as 'analysis_id'.`

	ListAnalysesDescription = `List recorded analyses, newest first.

**When to use:** Review what has been analysed recently and the score of each document.

**Best practices:** Only available when the server runs with --history. Use 'limit' to bound the list.`

	// Discovery tools
	ListDocumentsDescription = `List analysable documents (.pdf, .txt, .md) in the configured directory.

**When to use:** Discover which files can be passed to analyze_document by path.

**Examples:**
• "Which board resolutions are in the folder?" → query "board resolution"

**Best practices:** All query words must appear in the file name. Subdirectories are included.`

	ServerInfoDescription = `Get server information, configuration and available tools.

**When to use:** Start here to learn the document directory, file size limit, supported document types and whether history is enabled.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"analyze_document":    AnalyzeDocumentDescription,
	"classify_document":   ClassifyDocumentDescription,
	"extract_fields":      ExtractFieldsDescription,
	"list_document_types": ListDocumentTypesDescription,
	"get_analysis":        GetAnalysisDescription,
	"list_analyses":       ListAnalysesDescription,
	"list_documents":      ListDocumentsDescription,
	"server_info":         ServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetToolSummary returns the first line of a tool's description
func GetToolSummary(toolName string) string {
	desc := GetToolDescription(toolName)
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		return desc[:i]
	}
	return desc
}

// GetAllToolNames returns the described tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
