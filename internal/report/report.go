// Package report renders analysis results for the command line as JSON,
// YAML or colourised text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Formats lists every supported output format
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatText}
}

// IsFormat reports whether name is a supported output format
func IsFormat(name string) bool {
	for _, f := range Formats() {
		if f == name {
			return true
		}
	}
	return false
}

// Entry is one analysed document. ID is empty when history is disabled.
type Entry struct {
	ID     string                       `json:"id,omitempty" yaml:"id,omitempty"`
	Source string                       `json:"source" yaml:"source"`
	Result *intelligence.AnalysisResult `json:"result" yaml:"result"`
}

// Renderer writes entries in one of the supported formats
type Renderer struct {
	format string
	colors map[string]*color.Color
}

// NewRenderer creates a renderer for format. noColor disables ANSI
// escapes in text output.
func NewRenderer(format string, noColor bool) (*Renderer, error) {
	if format == "" {
		format = FormatJSON
	}
	if !IsFormat(format) {
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}

	colors := map[string]*color.Color{
		"green":  color.New(color.FgGreen, color.Bold),
		"yellow": color.New(color.FgYellow, color.Bold),
		"red":    color.New(color.FgRed, color.Bold),
		"cyan":   color.New(color.FgCyan),
		"white":  color.New(color.FgWhite, color.Bold),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}

	return &Renderer{format: format, colors: colors}, nil
}

// Render writes entries to w
func (r *Renderer) Render(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	switch r.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		return r.renderText(w, entries)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

func (r *Renderer) renderText(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No documents analysed.")
		return err
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		r.writeEntry(&b, e)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) writeEntry(b *strings.Builder, e Entry) {
	res := e.Result
	if res == nil {
		res = intelligence.EmptyResult()
	}

	b.WriteString(r.colors["white"].Sprintf("== %s ==", e.Source))
	b.WriteString("\n")
	if e.ID != "" {
		fmt.Fprintf(b, "ID:       %s\n", e.ID)
	}
	fmt.Fprintf(b, "Type:     %s\n", res.Type)
	fmt.Fprintf(b, "Score:    %s\n", r.scoreColor(res.Score).Sprintf("%d/100", res.Score))
	fmt.Fprintf(b, "Summary:  %s\n", res.Summary)

	if len(res.Risks) == 0 {
		b.WriteString("Risks:    none\n")
	} else {
		b.WriteString("Risks:\n")
		for _, risk := range res.Risks {
			status := r.colors["yellow"]
			if risk.Status == intelligence.StatusCritical {
				status = r.colors["red"]
			}
			fmt.Fprintf(b, "  %s %s: %s\n", status.Sprintf("[%s]", risk.Status), risk.Name, risk.Explanation)
		}
	}

	fmt.Fprintf(b, "Entities: %s\n", joinOrNone(res.Entities))

	labels := make([]string, 0, len(res.KeyDetails))
	for label := range res.KeyDetails {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(b, "%s %s\n", r.colors["cyan"].Sprintf("%-9s", strings.ToUpper(label[:1])+label[1:]+":"), joinOrNone(res.KeyDetails[label]))
	}

	if len(res.MissingClauses) > 0 {
		fmt.Fprintf(b, "Missing:  %s\n", strings.Join(res.MissingClauses, "; "))
	}
}

func (r *Renderer) scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return r.colors["green"]
	case score >= 50:
		return r.colors["yellow"]
	default:
		return r.colors["red"]
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
