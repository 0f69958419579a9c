package intelligence

import (
	"testing"

	"github.com/a3tai/mcp-doc-analyzer/internal/nlp"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single sentence",
			text: "This agreement is made today.",
			want: "This agreement is made today.",
		},
		{
			name: "two leading sentences and capped cue sentences",
			text: "This agreement is made today. It is between two firms. The sky is blue. " +
				"The purpose is cooperation. Whereas the buyer pays. Whereas the seller ships. " +
				"Whereas the agent assists.",
			want: "This agreement is made today. It is between two firms. " +
				"The purpose is cooperation. Whereas the buyer pays. Whereas the seller ships.",
		},
		{
			name: "cue words are case insensitive",
			text: "Preamble here. Parties listed. The board HEREBY approves. Nothing else.",
			want: "Preamble here. Parties listed. The board HEREBY approves.",
		},
		{
			name: "no cue sentences",
			text: "First line here. Second line here. Third line here.",
			want: "First line here. Second line here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(parse(t, tt.text)))
		})
	}
}

func TestSummarize_Placeholders(t *testing.T) {
	assert.Equal(t, SummaryNone, Summarize(nil))
	assert.Equal(t, SummaryNone, Summarize(&nlp.Doc{}))

	blank := &nlp.Doc{Sentences: []nlp.Sentence{{Text: ""}}}
	assert.Equal(t, SummaryFailed, Summarize(blank))
}
