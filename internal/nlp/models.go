// Package nlp provides the language capability used by document analysis:
// tokenization, sentence segmentation, a shallow dependency parse with an
// explicit negation relation, and named-entity recognition for organizations
// and persons.
package nlp

// POS is a coarse part-of-speech tag
type POS string

const (
	POSNoun  POS = "NOUN"
	POSPropn POS = "PROPN"
	POSVerb  POS = "VERB"
	POSAux   POS = "AUX"
	POSPart  POS = "PART"
	POSNeg   POS = "NEG"
	POSDet   POS = "DET"
	POSAdp   POS = "ADP"
	POSConj  POS = "CCONJ"
	POSPron  POS = "PRON"
	POSNum   POS = "NUM"
	POSPunct POS = "PUNCT"
)

// Dependency labels assigned by the parser
const (
	DepRoot  = "ROOT"
	DepNeg   = "neg"
	DepAux   = "aux"
	DepSubj  = "nsubj"
	DepObj   = "obj"
	DepComp  = "xcomp"
	DepConj  = "conj"
	DepPunct = "punct"
)

// Entity labels
const (
	LabelOrg    = "ORG"
	LabelPerson = "PERSON"
)

// Engine is the capability boundary used by the analyzer. Any implementation
// offering sentences, a dependency structure with a negation relation, and
// ORG/PERSON entities can be substituted.
type Engine interface {
	Parse(text string) (*Doc, error)
}

// Token is a single token with byte offsets into Doc.Text.
// The sentence root has Head equal to its own index.
type Token struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	POS   POS    `json:"pos"`
	Head  int    `json:"head"`
	Dep   string `json:"dep"`
	Sent  int    `json:"sent"`
}

// Sentence covers tokens [First, Last)
type Sentence struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	First int    `json:"first"`
	Last  int    `json:"last"`
	Root  int    `json:"root"`
}

// Entity is a recognized named entity
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Doc is the parsed representation of a text
type Doc struct {
	Text      string     `json:"text"`
	Tokens    []Token    `json:"tokens"`
	Sentences []Sentence `json:"sentences"`
	Entities  []Entity   `json:"entities"`

	children [][]int
}

// Children returns the indices of the direct dependents of token i
func (d *Doc) Children(i int) []int {
	if i < 0 || i >= len(d.children) {
		return nil
	}
	return d.children[i]
}

// CharSpan resolves the byte span [start, end) to the tokens [first, last)
// overlapping it, expanding to token boundaries. ok is false when no token
// overlaps the span or the tokens belong to different sentences.
func (d *Doc) CharSpan(start, end int) (first, last int, ok bool) {
	if start < 0 || end <= start {
		return 0, 0, false
	}

	first, last = -1, -1
	for i, tok := range d.Tokens {
		if tok.End <= start {
			continue
		}
		if tok.Start >= end {
			break
		}
		if first < 0 {
			first = i
		}
		last = i + 1
	}

	if first < 0 {
		return 0, 0, false
	}
	if d.Tokens[first].Sent != d.Tokens[last-1].Sent {
		return 0, 0, false
	}
	return first, last, true
}

// SpanRoot returns the token of [first, last) whose head lies outside the
// span and which sits closest to the sentence root. Ties go to the leftmost.
func (d *Doc) SpanRoot(first, last int) int {
	root, best := first, -1
	for i := first; i < last; i++ {
		head := d.Tokens[i].Head
		if head != i && head >= first && head < last {
			continue
		}
		depth := d.Depth(i)
		if best < 0 || depth < best {
			root, best = i, depth
		}
	}
	return root
}

// Depth returns the number of arcs between token i and its sentence root
func (d *Doc) Depth(i int) int {
	depth := 0
	for steps := 0; steps < len(d.Tokens); steps++ {
		head := d.Tokens[i].Head
		if head == i {
			return depth
		}
		i = head
		depth++
	}
	return depth
}

// EntitiesWithLabel returns entity texts carrying any of the given labels
func (d *Doc) EntitiesWithLabel(labels ...string) []string {
	var out []string
	for _, ent := range d.Entities {
		for _, label := range labels {
			if ent.Label == label {
				out = append(out, ent.Text)
				break
			}
		}
	}
	return out
}

func (d *Doc) indexChildren() {
	d.children = make([][]int, len(d.Tokens))
	for i, tok := range d.Tokens {
		if tok.Head != i {
			d.children[tok.Head] = append(d.children[tok.Head], i)
		}
	}
}
