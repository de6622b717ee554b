package verify

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/lexicon"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/scan"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/transcript"
)

// Outcome is a cross-source confirmation decision for one (call, term) pair.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeRejected  Outcome = "rejected"
)

// AlternateSource fetches the independently produced transcript of a call.
// The bool reports whether a transcript exists for the call at all.
type AlternateSource interface {
	FetchAlternateTranscript(callID int64) (string, bool, error)
}

const (
	decisionTTL     = 5 * time.Minute
	cleanupInterval = 10 * time.Minute
)

// Verifier confirms detected terms against a second transcription of the
// same call. Decisions are call-wide and term-wide: however many times a
// term occurs in the primary transcript, the alternate source is consulted
// once, and the outcome is memoized.
type Verifier struct {
	source    AlternateSource
	scanner   *scan.Scanner
	marker    string
	logger    *zap.Logger
	decisions *gocache.Cache
}

// NewVerifier creates a verifier over the given alternate source. The
// scanner must apply the same matching rules used on the primary transcript.
func NewVerifier(source AlternateSource, scanner *scan.Scanner, marker string, logger *zap.Logger) *Verifier {
	return &Verifier{
		source:    source,
		scanner:   scanner,
		marker:    marker,
		logger:    logger,
		decisions: gocache.New(decisionTTL, cleanupInterval),
	}
}

// Verify reports whether the term can be confirmed for the call. A missing
// alternate transcript rejects the match: without corroboration the
// occurrence must not count, and the gap is surfaced as a warning rather
// than swallowed.
func (v *Verifier) Verify(callID int64, term lexicon.Term) (Outcome, error) {
	key := decisionKey(callID, term.Surface)
	if cached, found := v.decisions.Get(key); found {
		return cached.(Outcome), nil
	}

	text, ok, err := v.source.FetchAlternateTranscript(callID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch alternate transcript for call %d: %w", callID, err)
	}
	if !ok {
		v.logger.Warn("no alternate transcript; rejecting match",
			zap.Int64("call_id", callID),
			zap.String("term", term.Surface))
		v.decisions.Set(key, OutcomeRejected, gocache.DefaultExpiration)
		return OutcomeRejected, nil
	}

	utterances := transcript.ExtractAgentUtterances(text, v.marker)
	outcome := OutcomeRejected
	if v.scanner.TermPresent(utterances, term) {
		outcome = OutcomeConfirmed
	} else {
		v.logger.Info("term absent from alternate transcript; not counting it",
			zap.Int64("call_id", callID),
			zap.String("term", term.Surface))
	}

	v.decisions.Set(key, outcome, gocache.DefaultExpiration)
	return outcome, nil
}

func decisionKey(callID int64, surface string) string {
	return fmt.Sprintf("%d:%s", callID, surface)
}
