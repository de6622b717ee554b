package lexicon

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Term is one slang entry. Surface is matched as a whole word,
// case-insensitively, against agent utterances.
type Term struct {
	Surface              string `toml:"surface"`
	Replacement          string `toml:"replacement"`
	ExemptNearQuestion   bool   `toml:"exempt_near_question"`
	RequiresConfirmation bool   `toml:"requires_confirmation"`
	EndOfCallOnly        bool   `toml:"end_of_call_only"`
}

// Lexicon is an ordered, immutable set of slang terms. Declared order is
// preserved so that scans over the same input always produce the same
// candidate sequence.
type Lexicon struct {
	terms []Term
	index map[string]int
}

type lexiconFile struct {
	Terms []Term `toml:"term"`
}

// New builds a Lexicon from the given terms, keeping their order.
// Surfaces are normalized to lower case; duplicates and empty surfaces
// are rejected.
func New(terms []Term) (*Lexicon, error) {
	lex := &Lexicon{
		terms: make([]Term, 0, len(terms)),
		index: make(map[string]int, len(terms)),
	}

	for i, t := range terms {
		surface := strings.ToLower(strings.TrimSpace(t.Surface))
		if surface == "" {
			return nil, fmt.Errorf("term %d has an empty surface form", i)
		}
		if _, exists := lex.index[surface]; exists {
			return nil, fmt.Errorf("duplicate term %q", surface)
		}
		t.Surface = surface
		lex.index[surface] = len(lex.terms)
		lex.terms = append(lex.terms, t)
	}

	return lex, nil
}

// Load reads a lexicon from a TOML file containing an ordered [[term]] array.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var parsed lexiconFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file: %w", err)
	}
	if len(parsed.Terms) == 0 {
		return nil, fmt.Errorf("lexicon file %s contains no terms", path)
	}

	return New(parsed.Terms)
}

// Default returns the built-in slang term table used when no lexicon file
// is configured. The word list and replacements come from the QA team's
// call-review criteria.
func Default() *Lexicon {
	lex, err := New([]Term{
		{Surface: "nope", Replacement: "no"},
		{Surface: "gonna", Replacement: "going to"},
		{Surface: "gunna", Replacement: "going to"},
		{Surface: "gotcha", Replacement: "I understand"},
		{Surface: "lemme", Replacement: "let me"},
		{Surface: "okey dokey", Replacement: "okay"},
		{Surface: "okay dokey", Replacement: "okay"},
		{Surface: "all righty", Replacement: "alright", RequiresConfirmation: true},
		{Surface: "cool", Replacement: "good/great"},
		{Surface: "ain't", Replacement: "is not/are not"},
		{Surface: "bye-bye", Replacement: "goodbye", RequiresConfirmation: true, EndOfCallOnly: true},
		{Surface: "yup", Replacement: "yes", ExemptNearQuestion: true},
		{Surface: "yep", Replacement: "yes", ExemptNearQuestion: true},
		{Surface: "ya", Replacement: "you/yes", ExemptNearQuestion: true},
		{Surface: "yeah", Replacement: "yes", ExemptNearQuestion: true},
	})
	if err != nil {
		panic(fmt.Sprintf("invalid built-in lexicon: %v", err))
	}
	return lex
}

// Terms returns the terms in declared order. The returned slice is a copy.
func (l *Lexicon) Terms() []Term {
	out := make([]Term, len(l.terms))
	copy(out, l.terms)
	return out
}

// Lookup returns the term for a surface form, if present.
func (l *Lexicon) Lookup(surface string) (Term, bool) {
	i, ok := l.index[strings.ToLower(surface)]
	if !ok {
		return Term{}, false
	}
	return l.terms[i], true
}

// ConfirmationTerms returns, in declared order, the terms that require
// cross-source confirmation before they may count against a call.
func (l *Lexicon) ConfirmationTerms() []Term {
	var out []Term
	for _, t := range l.terms {
		if t.RequiresConfirmation {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of terms.
func (l *Lexicon) Len() int {
	return len(l.terms)
}
