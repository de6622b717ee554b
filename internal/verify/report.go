package verify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/lexicon"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/scan"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/transcript"
)

// Call is one stored primary transcript, as handed to the checker by the
// driving command.
type Call struct {
	ID            int64
	Transcription string
}

// TermStats aggregates cross-source agreement for one term across a sweep.
// OnlyInPrimary counts candidate false positives: calls where the primary
// transcription heard the term but the alternate one did not.
type TermStats struct {
	Term             string
	InPrimary        int
	InBoth           int
	OnlyInPrimary    int
	MissingAlternate int
}

// Report is the outcome of a cross-verification sweep.
type Report struct {
	TotalChecked int
	Terms        []TermStats
}

// Checker sweeps stored calls and measures how often each
// confirmation-required term is corroborated by the second source. It is
// a diagnostic for transcription disagreement, not part of scoring.
type Checker struct {
	source  AlternateSource
	scanner *scan.Scanner
	marker  string
	logger  *zap.Logger
}

// NewChecker creates a cross-verification checker.
func NewChecker(source AlternateSource, scanner *scan.Scanner, marker string, logger *zap.Logger) *Checker {
	return &Checker{
		source:  source,
		scanner: scanner,
		marker:  marker,
		logger:  logger,
	}
}

// Run checks every call against every given term and tallies agreement.
// Calls whose primary transcript lacks the term are counted only toward
// TotalChecked.
func (c *Checker) Run(calls []Call, terms []lexicon.Term) (*Report, error) {
	report := &Report{Terms: make([]TermStats, len(terms))}
	for i, t := range terms {
		report.Terms[i].Term = t.Surface
	}

	for _, call := range calls {
		report.TotalChecked++
		utterances := transcript.ExtractAgentUtterances(call.Transcription, c.marker)

		for i, term := range terms {
			if !c.scanner.TermPresent(utterances, term) {
				continue
			}
			report.Terms[i].InPrimary++

			inAlternate, ok, err := c.checkAlternate(call.ID, term)
			if err != nil {
				return nil, err
			}
			switch {
			case !ok:
				report.Terms[i].MissingAlternate++
				c.logger.Warn("no alternate transcript for call",
					zap.Int64("call_id", call.ID),
					zap.String("term", term.Surface))
			case inAlternate:
				report.Terms[i].InBoth++
			default:
				report.Terms[i].OnlyInPrimary++
				c.logger.Info("term only in primary transcription",
					zap.Int64("call_id", call.ID),
					zap.String("term", term.Surface))
			}
		}
	}

	return report, nil
}

// CheckCall verifies one term for one call and reports presence in each
// source. Used by the single-call diagnostic mode.
func (c *Checker) CheckCall(call Call, term lexicon.Term) (inPrimary, inAlternate bool, err error) {
	utterances := transcript.ExtractAgentUtterances(call.Transcription, c.marker)
	inPrimary = c.scanner.TermPresent(utterances, term)
	if !inPrimary {
		return false, false, nil
	}

	inAlternate, ok, err := c.checkAlternate(call.ID, term)
	if err != nil {
		return true, false, err
	}
	if !ok {
		return true, false, nil
	}
	return true, inAlternate, nil
}

func (c *Checker) checkAlternate(callID int64, term lexicon.Term) (present, ok bool, err error) {
	text, ok, err := c.source.FetchAlternateTranscript(callID)
	if err != nil {
		return false, false, fmt.Errorf("failed to fetch alternate transcript for call %d: %w", callID, err)
	}
	if !ok {
		return false, false, nil
	}
	utterances := transcript.ExtractAgentUtterances(text, c.marker)
	return c.scanner.TermPresent(utterances, term), true, nil
}
