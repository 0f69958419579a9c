package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenize splits text into word and punctuation tokens, keeping byte
// offsets. Numbers keep their thousands separators and decimals, known
// abbreviations and single-letter initials keep their trailing period, and
// the clitics "n't" and "'s" become tokens of their own.
func (l *Lexicon) tokenize(text string) []Token {
	var tokens []Token

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}

		if !isWordRune(r) {
			tokens = append(tokens, Token{Text: text[i : i+size], Start: i, End: i + size})
			i += size
			continue
		}

		j := scanWord(text, i)
		if j < len(text) && text[j] == '.' && l.takesPeriod(text[i:j]) {
			j++
		}
		tokens = append(tokens, splitClitics(text[i:j], i)...)
		i = j
	}

	for idx := range tokens {
		tokens[idx].Index = idx
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanWord returns the end offset of the word starting at i
func scanWord(text string, i int) int {
	j := i
	var prev rune
	for j < len(text) {
		r, size := utf8.DecodeRuneInString(text[j:])
		if isWordRune(r) {
			prev = r
			j += size
			continue
		}

		if prev == 0 || j+size >= len(text) {
			break
		}
		next, _ := utf8.DecodeRuneInString(text[j+size:])

		joinsWord := (r == '\'' || r == '’' || r == '-') && isWordRune(next)
		joinsNumber := (r == ',' || r == '.') && unicode.IsDigit(prev) && unicode.IsDigit(next)
		if !joinsWord && !joinsNumber {
			break
		}
		prev = r
		j += size
	}
	return j
}

func (l *Lexicon) takesPeriod(word string) bool {
	if l.abbreviations.has(strings.ToLower(word)) {
		return true
	}
	r, size := utf8.DecodeRuneInString(word)
	return size == len(word) && unicode.IsLetter(r)
}

var cliticSuffixes = []string{"n't", "n’t", "'s", "’s"}

func splitClitics(word string, offset int) []Token {
	lower := strings.ToLower(word)
	for _, suffix := range cliticSuffixes {
		if len(lower) > len(suffix) && strings.HasSuffix(lower, suffix) {
			cut := len(word) - len(suffix)
			return []Token{
				{Text: word[:cut], Start: offset, End: offset + cut},
				{Text: word[cut:], Start: offset + cut, End: offset + len(word)},
			}
		}
	}
	return []Token{{Text: word, Start: offset, End: offset + len(word)}}
}
