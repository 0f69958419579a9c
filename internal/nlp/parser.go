package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tag assigns coarse part-of-speech tags from the lexicon and a few suffix
// rules. Tagging is sentence-local because "-ing" forms only count as verbs
// after an auxiliary or negation.
func (l *Lexicon) tag(tokens []Token, sent Sentence) {
	for i := sent.First; i < sent.Last; i++ {
		tokens[i].POS = l.tagWord(tokens, i, sent.First)
	}

	// "to" directly before a verb form is an infinitive marker
	for i := sent.First; i < sent.Last-1; i++ {
		if bare(tokens[i].Text) != "to" {
			continue
		}
		if next := tokens[i+1].POS; next == POSVerb || next == POSAux {
			tokens[i].POS = POSPart
		}
	}
}

func (l *Lexicon) tagWord(tokens []Token, i, first int) POS {
	text := tokens[i].Text
	r, _ := utf8.DecodeRuneInString(text)
	if !isWordRune(r) {
		return POSPunct
	}
	if isNumber(text) {
		return POSNum
	}

	word := strings.ToLower(text)
	switch {
	case l.negations.has(word):
		return POSNeg
	case l.auxiliaries.has(word):
		return POSAux
	case l.determiners.has(word):
		return POSDet
	case l.prepositions.has(word):
		return POSAdp
	case l.conjunctions.has(word):
		return POSConj
	case l.pronouns.has(word):
		return POSPron
	case l.verbs.has(word):
		return POSVerb
	case len(word) >= 5 && strings.HasSuffix(word, "ed") && !l.participleExceptions.has(word):
		return POSVerb
	case len(word) >= 5 && strings.HasSuffix(word, "ing") && i > first &&
		(tokens[i-1].POS == POSAux || tokens[i-1].POS == POSNeg):
		return POSVerb
	case unicode.IsUpper(r):
		return POSPropn
	default:
		return POSNoun
	}
}

func isNumber(text string) bool {
	hasDigit := false
	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r == ',' || r == '.':
		default:
			return false
		}
	}
	return hasDigit
}

// parse builds the dependency structure of one sentence.
//
// The sentence is cut into clauses at ";", ":" and contrastive conjunctions.
// Each clause is headed by its first main verb (else its last auxiliary, else
// its first nominal). Auxiliaries and infinitive markers attach to the next
// verb, negation particles to the next verb (else the previous verb or
// auxiliary), further verbs chain to the previous verb, nominals before the
// head are subjects and nominals after it attach to the nearest verb on their
// left. Later clause heads attach to the first one.
func (l *Lexicon) parse(tokens []Token, sent *Sentence) {
	sentRoot := -1
	clauseStart := sent.First

	flush := func(end int) {
		if clauseStart >= end {
			return
		}
		root := clauseHead(tokens, clauseStart, end)
		if root < 0 {
			clauseStart = end
			return
		}
		if sentRoot < 0 {
			sentRoot = root
			tokens[root].Head = root
			tokens[root].Dep = DepRoot
		} else {
			tokens[root].Head = sentRoot
			tokens[root].Dep = DepConj
		}
		attachClause(tokens, clauseStart, end, root)
		clauseStart = end
	}

	for i := sent.First; i < sent.Last; i++ {
		if l.breaksClause(tokens[i]) {
			flush(i)
			clauseStart = i + 1
		}
	}
	flush(sent.Last)

	if sentRoot < 0 {
		sentRoot = sent.First
		tokens[sentRoot].Head = sentRoot
		tokens[sentRoot].Dep = DepRoot
	}

	// separators and clauses made only of punctuation hang off the nearest
	// clause head on their left
	for i := sent.First; i < sent.Last; i++ {
		if tokens[i].Dep != "" {
			continue
		}
		tokens[i].Head = nearestHeadLeft(tokens, sent.First, i, sentRoot)
		tokens[i].Dep = DepPunct
	}

	sent.Root = sentRoot
}

func (l *Lexicon) breaksClause(tok Token) bool {
	if tok.Text == ";" || tok.Text == ":" {
		return true
	}
	return tok.POS == POSConj && l.clauseBreakers.has(strings.ToLower(tok.Text))
}

func clauseHead(tokens []Token, start, end int) int {
	for i := start; i < end; i++ {
		if tokens[i].POS == POSVerb {
			return i
		}
	}
	for i := end - 1; i >= start; i-- {
		if tokens[i].POS == POSAux {
			return i
		}
	}
	for i := start; i < end; i++ {
		switch tokens[i].POS {
		case POSNoun, POSPropn, POSPron, POSNum:
			return i
		}
	}
	for i := start; i < end; i++ {
		if tokens[i].POS != POSPunct {
			return i
		}
	}
	return -1
}

func attachClause(tokens []Token, start, end, root int) {
	for i := start; i < end; i++ {
		if i == root {
			continue
		}

		head, dep := root, DepObj
		switch tokens[i].POS {
		case POSAux, POSPart:
			dep = DepAux
			if v := nextVerb(tokens, i, end); v >= 0 {
				head = v
			}
		case POSNeg:
			dep = DepNeg
			if v := nextVerb(tokens, i, end); v >= 0 {
				head = v
			} else if v := prevPredicate(tokens, start, i); v >= 0 {
				head = v
			}
		case POSVerb:
			dep = DepComp
			if v := prevVerb(tokens, start, i); v >= 0 {
				head = v
			}
		case POSPunct:
			dep = DepPunct
		default:
			if i < root {
				dep = DepSubj
			} else if v := prevVerb(tokens, start, i); v >= 0 {
				head = v
			}
		}

		tokens[i].Head = head
		tokens[i].Dep = dep
	}
}

func nextVerb(tokens []Token, i, end int) int {
	for j := i + 1; j < end; j++ {
		if tokens[j].POS == POSVerb {
			return j
		}
	}
	return -1
}

func prevVerb(tokens []Token, start, i int) int {
	for j := i - 1; j >= start; j-- {
		if tokens[j].POS == POSVerb {
			return j
		}
	}
	return -1
}

func prevPredicate(tokens []Token, start, i int) int {
	for j := i - 1; j >= start; j-- {
		if tokens[j].POS == POSVerb || tokens[j].POS == POSAux {
			return j
		}
	}
	return -1
}

func nearestHeadLeft(tokens []Token, first, i, fallback int) int {
	for j := i - 1; j >= first; j-- {
		if tokens[j].Dep == DepRoot || tokens[j].Dep == DepConj {
			return j
		}
	}
	return fallback
}
