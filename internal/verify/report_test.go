package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/lexicon"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/scan"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/transcript"
)

func newTestChecker(source *fakeSource) *Checker {
	scanner := scan.NewScanner(lexicon.Default(), 5, 10)
	return NewChecker(source, scanner, transcript.DefaultAgentMarker, zap.NewNop())
}

func TestCheckerRun(t *testing.T) {
	source := &fakeSource{transcripts: map[int64]string{
		1: "00:01 AGENT: all righty, transferring you",
		2: "00:01 AGENT: alright, transferring you",
		// call 3 has no alternate transcript
	}}
	checker := newTestChecker(source)

	calls := []Call{
		{ID: 1, Transcription: "00:01 AGENT: all righty, transferring you"},
		{ID: 2, Transcription: "00:01 AGENT: all righty, transferring you"},
		{ID: 3, Transcription: "00:01 AGENT: all righty, transferring you"},
		{ID: 4, Transcription: "00:01 AGENT: one moment please"},
	}

	report, err := checker.Run(calls, lexicon.Default().ConfirmationTerms())
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalChecked)
	require.Len(t, report.Terms, 2)

	allRighty := report.Terms[0]
	assert.Equal(t, "all righty", allRighty.Term)
	assert.Equal(t, 3, allRighty.InPrimary)
	assert.Equal(t, 1, allRighty.InBoth)
	assert.Equal(t, 1, allRighty.OnlyInPrimary)
	assert.Equal(t, 1, allRighty.MissingAlternate)

	byeBye := report.Terms[1]
	assert.Equal(t, "bye-bye", byeBye.Term)
	assert.Equal(t, 0, byeBye.InPrimary)
}

func TestCheckCall(t *testing.T) {
	source := &fakeSource{transcripts: map[int64]string{
		1: "00:01 AGENT: all righty, got it",
	}}
	checker := newTestChecker(source)
	term := mustLookup(t, "all righty")

	inPrimary, inAlternate, err := checker.CheckCall(Call{
		ID:            1,
		Transcription: "00:01 AGENT: all righty, got it",
	}, term)
	require.NoError(t, err)
	assert.True(t, inPrimary)
	assert.True(t, inAlternate)

	// Term absent from the primary short-circuits without a fetch.
	fetchesBefore := source.fetches
	inPrimary, inAlternate, err = checker.CheckCall(Call{
		ID:            1,
		Transcription: "00:01 AGENT: one moment",
	}, term)
	require.NoError(t, err)
	assert.False(t, inPrimary)
	assert.False(t, inAlternate)
	assert.Equal(t, fetchesBefore, source.fetches)

	// Missing alternate counts as unconfirmed.
	inPrimary, inAlternate, err = checker.CheckCall(Call{
		ID:            99,
		Transcription: "00:01 AGENT: all righty",
	}, term)
	require.NoError(t, err)
	assert.True(t, inPrimary)
	assert.False(t, inAlternate)
}
