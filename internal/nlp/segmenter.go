package nlp

import (
	"unicode"
	"unicode/utf8"
)

var terminators = map[string]bool{".": true, "!": true, "?": true}

var closers = map[string]bool{
	")": true, "]": true, "\"": true, "'": true, "”": true, "’": true,
}

// segment groups tokens into sentences. A sentence ends at a terminal
// punctuation token (plus any closing quotes or brackets after it), or at an
// abbreviation such as "Ltd." when the next token opens a new clause with a
// capitalized determiner or pronoun.
func (l *Lexicon) segment(text string, tokens []Token) []Sentence {
	var sentences []Sentence

	start := 0
	for i := 0; i < len(tokens); i++ {
		end := -1
		switch {
		case terminators[tokens[i].Text]:
			end = i + 1
			for end < len(tokens) && (terminators[tokens[end].Text] || closers[tokens[end].Text]) {
				end++
			}
		case l.abbreviationEndsSentence(tokens, i):
			end = i + 1
		}
		if end < 0 {
			continue
		}

		sentences = append(sentences, newSentence(text, tokens, start, end))
		start = end
		i = end - 1
	}

	if start < len(tokens) {
		sentences = append(sentences, newSentence(text, tokens, start, len(tokens)))
	}

	for idx, sent := range sentences {
		for t := sent.First; t < sent.Last; t++ {
			tokens[t].Sent = idx
		}
	}
	return sentences
}

func (l *Lexicon) abbreviationEndsSentence(tokens []Token, i int) bool {
	tok := tokens[i].Text
	if len(tok) < 2 || tok[len(tok)-1] != '.' || i+1 >= len(tokens) {
		return false
	}
	if !l.orgSuffixes.has(bare(tok)) {
		return false
	}
	next := tokens[i+1].Text
	r, _ := utf8.DecodeRuneInString(next)
	if !unicode.IsUpper(r) {
		return false
	}
	word := bare(next)
	return l.determiners.has(word) || l.pronouns.has(word)
}

func newSentence(text string, tokens []Token, first, last int) Sentence {
	start, end := tokens[first].Start, tokens[last-1].End
	return Sentence{
		Text:  text[start:end],
		Start: start,
		End:   end,
		First: first,
		Last:  last,
		Root:  first,
	}
}
