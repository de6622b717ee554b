package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/lexicon"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/scan"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/transcript"
)

type fakeSource struct {
	transcripts map[int64]string
	fetches     int
	err         error
}

func (f *fakeSource) FetchAlternateTranscript(callID int64) (string, bool, error) {
	f.fetches++
	if f.err != nil {
		return "", false, f.err
	}
	text, ok := f.transcripts[callID]
	return text, ok, nil
}

func newTestVerifier(source *fakeSource) *Verifier {
	scanner := scan.NewScanner(lexicon.Default(), 5, 10)
	return NewVerifier(source, scanner, transcript.DefaultAgentMarker, zap.NewNop())
}

func mustLookup(t *testing.T, surface string) lexicon.Term {
	t.Helper()
	term, ok := lexicon.Default().Lookup(surface)
	require.True(t, ok)
	return term
}

func TestVerifyConfirmedWhenTermInAlternate(t *testing.T) {
	source := &fakeSource{transcripts: map[int64]string{
		42: "00:01 AGENT: all righty then, one moment",
	}}
	v := newTestVerifier(source)

	outcome, err := v.Verify(42, mustLookup(t, "all righty"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, outcome)
}

func TestVerifyRejectedWhenTermAbsentFromAlternate(t *testing.T) {
	source := &fakeSource{transcripts: map[int64]string{
		42: "00:01 AGENT: alright then, one moment",
	}}
	v := newTestVerifier(source)

	outcome, err := v.Verify(42, mustLookup(t, "all righty"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestVerifyRejectedWhenNoAlternateTranscript(t *testing.T) {
	source := &fakeSource{transcripts: map[int64]string{}}
	v := newTestVerifier(source)

	outcome, err := v.Verify(42, mustLookup(t, "bye-bye"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestVerifyAppliesEndOfCallWindowToAlternate(t *testing.T) {
	// bye-bye appears early in a long alternate transcript, outside the
	// trailing window, so it does not corroborate an end-of-call match.
	source := &fakeSource{transcripts: map[int64]string{
		42: `00:01 AGENT: bye-bye, oh wait, sorry
00:02 AGENT: let me check line one
00:03 AGENT: let me check line two
00:04 AGENT: let me check line three
00:05 AGENT: let me check line four
00:06 AGENT: let me check line five
00:07 AGENT: thank you for holding
00:08 AGENT: goodbye`,
	}}
	v := newTestVerifier(source)

	outcome, err := v.Verify(42, mustLookup(t, "bye-bye"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestVerifyMemoizesDecision(t *testing.T) {
	source := &fakeSource{transcripts: map[int64]string{
		42: "00:01 AGENT: all righty then",
	}}
	v := newTestVerifier(source)
	term := mustLookup(t, "all righty")

	first, err := v.Verify(42, term)
	require.NoError(t, err)
	second, err := v.Verify(42, term)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.fetches)
}

func TestVerifyMemoizesPerCallAndTerm(t *testing.T) {
	source := &fakeSource{transcripts: map[int64]string{
		1: "00:01 AGENT: all righty",
		2: "00:01 AGENT: okay then",
	}}
	v := newTestVerifier(source)
	term := mustLookup(t, "all righty")

	outcome, err := v.Verify(1, term)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, outcome)

	outcome, err = v.Verify(2, term)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
	assert.Equal(t, 2, source.fetches)
}

func TestVerifyPropagatesSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("database locked")}
	v := newTestVerifier(source)

	_, err := v.Verify(42, mustLookup(t, "all righty"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call 42")
}
