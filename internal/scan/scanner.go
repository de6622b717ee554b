package scan

import (
	"regexp"
	"strings"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/lexicon"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/transcript"
)

// Status is the confirmation state of a detected occurrence.
type Status string

const (
	// StatusPending marks an occurrence of a term that still needs
	// cross-source confirmation.
	StatusPending Status = "pending"
	// StatusConfirmed marks an occurrence confirmed by the second source.
	StatusConfirmed Status = "confirmed"
	// StatusRejected marks an occurrence the second source could not confirm.
	StatusRejected Status = "rejected"
	// StatusNotApplicable marks an occurrence of a term that never needs
	// confirmation; it counts as-is.
	StatusNotApplicable Status = "not_applicable"
)

// Match is one detected slang occurrence in an agent utterance.
type Match struct {
	Term      lexicon.Term
	Timestamp string
	Context   string
	Status    Status
}

// Scanner finds whole-word, case-insensitive lexicon matches in agent
// utterances. A Scanner is immutable after construction and safe to reuse
// across calls.
type Scanner struct {
	terms           []lexicon.Term
	patterns        []*regexp.Regexp
	endOfCallWindow int
	contextRadius   int
}

// NewScanner compiles one pattern per lexicon term, in declared order.
func NewScanner(lex *lexicon.Lexicon, endOfCallWindow, contextRadius int) *Scanner {
	terms := lex.Terms()
	patterns := make([]*regexp.Regexp, len(terms))
	for i, t := range terms {
		patterns[i] = wordPattern(t.Surface)
	}
	return &Scanner{
		terms:           terms,
		patterns:        patterns,
		endOfCallWindow: endOfCallWindow,
		contextRadius:   contextRadius,
	}
}

// wordPattern matches the surface form as a whole word: the match may not
// be adjacent to another word character on either side.
func wordPattern(surface string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(surface)) + `\b`)
}

// Candidates scans the agent utterances and returns every occurrence that
// survives the context policy, in deterministic order: utterances in
// transcript order, terms in lexicon order, occurrences left to right.
//
// Occurrences of exempt-near-question terms adjacent to an interrogative
// utterance are discarded outright; they are never recorded. Occurrences of
// confirmation-required terms come back as StatusPending, everything else
// as StatusNotApplicable.
func (s *Scanner) Candidates(utterances []transcript.Utterance) []Match {
	var matches []Match

	for i, u := range utterances {
		lowered := strings.ToLower(u.Text)

		for ti, term := range s.terms {
			if term.EndOfCallOnly && !s.inEndOfCallWindow(i, len(utterances)) {
				continue
			}
			for _, span := range s.patterns[ti].FindAllStringIndex(lowered, -1) {
				if term.ExemptNearQuestion && nearQuestion(utterances, i) {
					continue
				}
				status := StatusNotApplicable
				if term.RequiresConfirmation {
					status = StatusPending
				}
				matches = append(matches, Match{
					Term:      term,
					Timestamp: u.Timestamp,
					Context:   s.contextWindow(lowered, span[0], span[1]),
					Status:    status,
				})
			}
		}
	}

	return matches
}

// TermPresent reports whether the term occurs at least once in the
// utterances, under the same matching rule Candidates uses. End-of-call-only
// terms are checked only within the trailing window. The cross-source
// verifier uses this to re-scan the alternate transcript.
func (s *Scanner) TermPresent(utterances []transcript.Utterance, term lexicon.Term) bool {
	pattern := wordPattern(term.Surface)
	for i, u := range utterances {
		if term.EndOfCallOnly && !s.inEndOfCallWindow(i, len(utterances)) {
			continue
		}
		if pattern.MatchString(strings.ToLower(u.Text)) {
			return true
		}
	}
	return false
}

// inEndOfCallWindow reports whether utterance i falls in the trailing
// window. Short calls are scanned in full.
func (s *Scanner) inEndOfCallWindow(i, total int) bool {
	if total <= s.endOfCallWindow {
		return true
	}
	return i >= total-s.endOfCallWindow
}

// contextWindow clips a fixed-radius character window around the match span.
func (s *Scanner) contextWindow(text string, start, end int) string {
	from := start - s.contextRadius
	if from < 0 {
		from = 0
	}
	to := end + s.contextRadius
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}

// nearQuestion reports whether the current, previous or next agent
// utterance contains a question mark. An affirmative slang word next to a
// question is an answer, not sloppy phrasing.
func nearQuestion(utterances []transcript.Utterance, i int) bool {
	if strings.Contains(utterances[i].Text, "?") {
		return true
	}
	if i > 0 && strings.Contains(utterances[i-1].Text, "?") {
		return true
	}
	if i < len(utterances)-1 && strings.Contains(utterances[i+1].Text, "?") {
		return true
	}
	return false
}
