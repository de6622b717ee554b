package evaluate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/scan"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/transcript"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/verify"
)

// Criteria is the human-readable name of the evaluation criterion, stored
// with every result.
const Criteria = "No Slang (Using Proper English)"

const (
	passExplanation = "Agent used proper English with no slang words."
	remediation     = "Use proper English in customer interactions. Avoid casual slang and informal language."
)

// Result is the evaluation of one call. It is persisted as-is by the
// storage layer.
type Result struct {
	TranscriptionID       int64
	CallID                int64
	Grade                 string
	Score                 int
	MaxScore              int
	Criteria              string
	Passed                bool
	Explanation           string
	ImprovementSuggestion string
	FoundReferences       []string
	Matches               []scan.Match
	Context               string
	OriginalTranscription string

	// CrossConfirmed and CrossRejected count occurrences that went through
	// cross-source verification, for the batch summary.
	CrossConfirmed int
	CrossRejected  int
}

// Evaluator runs the full detection pipeline for one call: extract agent
// utterances, scan for lexicon terms, resolve pending confirmations, and
// turn the surviving matches into a verdict.
type Evaluator struct {
	scanner  *scan.Scanner
	verifier *verify.Verifier
	marker   string
	maxScore int
	logger   *zap.Logger
}

// New creates an evaluator.
func New(scanner *scan.Scanner, verifier *verify.Verifier, marker string, maxScore int, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		scanner:  scanner,
		verifier: verifier,
		marker:   marker,
		maxScore: maxScore,
		logger:   logger,
	}
}

// Evaluate scores one transcription. It is deterministic for a fixed pair
// of primary and alternate transcripts; the only side effect is the
// verifier's alternate-source fetch.
func (e *Evaluator) Evaluate(callID int64, transcription string) (*Result, error) {
	utterances := transcript.ExtractAgentUtterances(transcription, e.marker)
	candidates := e.scanner.Candidates(utterances)

	var matches []scan.Match
	crossConfirmed, crossRejected := 0, 0

	for _, m := range candidates {
		if m.Status == scan.StatusPending {
			outcome, err := e.verifier.Verify(callID, m.Term)
			if err != nil {
				return nil, err
			}
			if outcome != verify.OutcomeConfirmed {
				crossRejected++
				continue
			}
			m.Status = scan.StatusConfirmed
			crossConfirmed++
		}
		e.logger.Debug("slang term found",
			zap.Int64("call_id", callID),
			zap.String("term", m.Term.Surface),
			zap.String("timestamp", m.Timestamp),
			zap.String("context", m.Context))
		matches = append(matches, m)
	}

	result := &Result{
		CallID:                callID,
		MaxScore:              e.maxScore,
		Criteria:              Criteria,
		Matches:               matches,
		FoundReferences:       references(matches),
		Context:               transcript.JoinContext(utterances),
		OriginalTranscription: transcription,
		CrossConfirmed:        crossConfirmed,
		CrossRejected:         crossRejected,
	}

	if len(matches) == 0 {
		result.Score = e.maxScore
		result.Passed = true
		result.Grade = "Yes"
		result.Explanation = passExplanation
		return result, nil
	}

	result.Score = 0
	result.Passed = false
	result.Grade = "No"
	result.Explanation = explanation(matches)
	result.ImprovementSuggestion = remediation
	return result, nil
}

// references formats one line per match, with its timestamp, suggested
// replacement and captured context.
func references(matches []scan.Match) []string {
	var refs []string
	for _, m := range matches {
		refs = append(refs, fmt.Sprintf("%s - '%s' (proper: '%s') in '%s'",
			m.Timestamp, m.Term.Surface, m.Term.Replacement, m.Context))
	}
	return refs
}

// explanation enumerates each distinct term with its occurrence count,
// followed by the term-to-replacement suggestions.
func explanation(matches []scan.Match) string {
	counts := make(map[string]int)
	var order []scan.Match
	for _, m := range matches {
		if counts[m.Term.Surface] == 0 {
			order = append(order, m)
		}
		counts[m.Term.Surface]++
	}

	var used []string
	var alternatives []string
	for _, m := range order {
		n := counts[m.Term.Surface]
		plural := ""
		if n > 1 {
			plural = "s"
		}
		used = append(used, fmt.Sprintf("'%s' (%d time%s)", m.Term.Surface, n, plural))
		if m.Term.Replacement != "" {
			alternatives = append(alternatives, fmt.Sprintf("'%s' → '%s'", m.Term.Surface, m.Term.Replacement))
		}
	}

	text := "Agent used inappropriate slang: " + strings.Join(used, ", ")
	if len(alternatives) > 0 {
		text += "\n\nProper alternatives: " + strings.Join(alternatives, ", ")
	}
	return text
}
