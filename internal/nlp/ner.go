package nlp

import (
	"unicode"
	"unicode/utf8"
)

const maxEntityTokens = 6

// recognize finds ORG and PERSON entities in one sentence.
//
// Organizations are capitalized runs ending in a corporate suffix ("Acme
// Pvt. Ltd."), trimmed to the part after the last function word. Persons are
// capitalized runs following an honorific ("Mr. Rahul Sharma") or directly
// followed by a role ("Priya Nair, Director").
func (l *Lexicon) recognize(text string, tokens []Token, sent Sentence) []Entity {
	var entities []Entity

	i := sent.First
	for i < sent.Last {
		if !l.capitalized(tokens[i]) {
			i++
			continue
		}

		j := i
		for j < sent.Last && l.capitalized(tokens[j]) {
			j++
		}

		if ent, ok := l.organization(text, tokens, i, j); ok {
			entities = append(entities, ent)
		} else if ent, ok := l.person(text, tokens, sent, i, j); ok {
			entities = append(entities, ent)
		}
		i = j
	}

	return entities
}

// capitalized reports whether a token can be part of a proper-name run
func (l *Lexicon) capitalized(tok Token) bool {
	if tok.Text == "&" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(tok.Text)
	return unicode.IsUpper(r)
}

func (l *Lexicon) isFunctionWord(tok Token) bool {
	switch tok.POS {
	case POSDet, POSAdp, POSConj, POSPron, POSAux, POSNeg, POSPart, POSVerb:
		return true
	}
	return false
}

func (l *Lexicon) organization(text string, tokens []Token, start, end int) (Entity, bool) {
	if !l.orgSuffixes.has(bare(tokens[end-1].Text)) {
		return Entity{}, false
	}

	for k := end - 1; k >= start; k-- {
		if tokens[k].Text != "&" && l.isFunctionWord(tokens[k]) {
			start = k + 1
			break
		}
	}
	if end-start > maxEntityTokens {
		start = end - maxEntityTokens
	}
	// a bare suffix ("Company") is not a name
	if end-start < 2 {
		return Entity{}, false
	}

	return newEntity(text, tokens, start, end, LabelOrg), true
}

func (l *Lexicon) person(text string, tokens []Token, sent Sentence, start, end int) (Entity, bool) {
	if l.honorifics.has(bare(tokens[start].Text)) {
		start++
		if end-start > 3 {
			end = start + 3
		}
		if start >= end || !l.nameTokens(tokens, start, end) {
			return Entity{}, false
		}
		return newEntity(text, tokens, start, end, LabelPerson), true
	}

	if end-start < 2 || end-start > 3 || !l.nameTokens(tokens, start, end) {
		return Entity{}, false
	}

	next := end
	if next < sent.Last && (tokens[next].Text == "," || tokens[next].Text == "(") {
		next++
	}
	if next < sent.Last && l.roles.has(bare(tokens[next].Text)) {
		return newEntity(text, tokens, start, end, LabelPerson), true
	}
	return Entity{}, false
}

// nameTokens rejects runs containing function words, roles or suffixes
func (l *Lexicon) nameTokens(tokens []Token, start, end int) bool {
	for k := start; k < end; k++ {
		word := bare(tokens[k].Text)
		if tokens[k].Text == "&" || l.isFunctionWord(tokens[k]) ||
			l.roles.has(word) || l.orgSuffixes.has(word) {
			return false
		}
	}
	return true
}

func newEntity(text string, tokens []Token, start, end int, label string) Entity {
	from, to := tokens[start].Start, tokens[end-1].End
	return Entity{
		Text:  text[from:to],
		Label: label,
		Start: from,
		End:   to,
	}
}
