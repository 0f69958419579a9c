package intelligence

import (
	"regexp"
)

// DocumentType names the category a document was classified into
type DocumentType string

const (
	DocumentTypeBoardResolution DocumentType = "Board Resolution"
	DocumentTypeMoU             DocumentType = "Memorandum of Understanding"
	DocumentTypeAnnualReport    DocumentType = "Annual Report"
	DocumentTypeEmployment      DocumentType = "Employment Contract"
	DocumentTypeNDA             DocumentType = "Non-Disclosure Agreement"

	// DocumentTypeUnknown is returned when no keyword of any type matched
	DocumentTypeUnknown DocumentType = "Unknown Document"
	// DocumentTypeError only appears on results produced by a recovered fault
	DocumentTypeError DocumentType = "Error"
)

// IsSentinel reports whether the type is one of the non-configured sentinels
func (dt DocumentType) IsSentinel() bool {
	return dt == DocumentTypeUnknown || dt == DocumentTypeError
}

// Finding statuses
const (
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// Field labels of ExtractedFields that are always present
const (
	FieldDates = "dates"
	FieldMoney = "money"
)

// RedFlag is a named case-insensitive pattern signalling a risky clause
type RedFlag struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`

	re *regexp.Regexp
}

// KnowledgeEntry holds the ordered keywords and red flags of one type
type KnowledgeEntry struct {
	Type     DocumentType `json:"type" yaml:"type"`
	Keywords []string     `json:"keywords" yaml:"keywords"`
	RedFlags []RedFlag    `json:"red_flags" yaml:"red_flags"`
}

// RiskFinding is a single risk reported for a document
type RiskFinding struct {
	Name        string `json:"name" yaml:"name"`
	Status      string `json:"status" yaml:"status"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// ExtractedFields maps a field label to its sorted distinct matches
type ExtractedFields map[string][]string

// TypeScore is the keyword hit count of one configured type
type TypeScore struct {
	Type  DocumentType `json:"type"`
	Score int          `json:"score"`
}

// AnalysisResult is the outcome of analysing one document. Every collection
// is non-nil so the JSON shape is identical on all paths.
type AnalysisResult struct {
	Score          int             `json:"score" yaml:"score"`
	Type           DocumentType    `json:"type" yaml:"type"`
	Risks          []RiskFinding   `json:"risks" yaml:"risks"`
	Entities       []string        `json:"entities" yaml:"entities"`
	KeyDetails     ExtractedFields `json:"key_details" yaml:"key_details"`
	Summary        string          `json:"summary" yaml:"summary"`
	MissingClauses []string        `json:"missing_clauses" yaml:"missing_clauses"`
}

// Placeholder summaries
const (
	SummaryNone   = "No summary available."
	SummaryFailed = "Summary could not be generated."
)

func newFields() ExtractedFields {
	return ExtractedFields{
		FieldDates: []string{},
		FieldMoney: []string{},
	}
}

// EmptyResult is the neutral result for empty input
func EmptyResult() *AnalysisResult {
	return &AnalysisResult{
		Score:          0,
		Type:           DocumentTypeUnknown,
		Risks:          []RiskFinding{},
		Entities:       []string{},
		KeyDetails:     newFields(),
		Summary:        SummaryNone,
		MissingClauses: []string{},
	}
}

// FaultResult converts an internal failure into a well-formed result carrying
// a single critical finding.
func FaultResult(err error) *AnalysisResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &AnalysisResult{
		Score: 0,
		Type:  DocumentTypeError,
		Risks: []RiskFinding{{
			Name:        "System Error",
			Status:      StatusCritical,
			Explanation: msg,
		}},
		Entities:       []string{},
		KeyDetails:     newFields(),
		Summary:        SummaryFailed,
		MissingClauses: []string{},
	}
}
