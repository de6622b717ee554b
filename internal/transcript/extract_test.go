package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAgentUtterances(t *testing.T) {
	raw := `00:01 CALLER: hi, I need help with my bill
00:02 AGENT: thank you for calling, how can I help?
00:05 CALLER: my invoice looks wrong
00:07 AGENT: let me pull that up for you
system: recording paused
00:09 AGENT: I see the issue now`

	utterances := ExtractAgentUtterances(raw, DefaultAgentMarker)
	require.Len(t, utterances, 3)

	assert.Equal(t, "00:02", utterances[0].Timestamp)
	assert.Equal(t, "thank you for calling, how can I help?", utterances[0].Text)
	assert.Equal(t, "00:02 AGENT: thank you for calling, how can I help?", utterances[0].Line)

	assert.Equal(t, "00:07", utterances[1].Timestamp)
	assert.Equal(t, "let me pull that up for you", utterances[1].Text)

	assert.Equal(t, "00:09", utterances[2].Timestamp)
	assert.Equal(t, "I see the issue now", utterances[2].Text)
}

func TestExtractNoTimestamp(t *testing.T) {
	utterances := ExtractAgentUtterances("AGENT: hello there", DefaultAgentMarker)
	require.Len(t, utterances, 1)
	assert.Equal(t, "", utterances[0].Timestamp)
	assert.Equal(t, "hello there", utterances[0].Text)
}

func TestExtractEmptyTranscript(t *testing.T) {
	assert.Empty(t, ExtractAgentUtterances("", DefaultAgentMarker))
}

func TestExtractNoAgentLines(t *testing.T) {
	raw := "00:01 CALLER: hello?\n00:03 CALLER: anyone there?"
	assert.Empty(t, ExtractAgentUtterances(raw, DefaultAgentMarker))
}

func TestExtractCustomMarker(t *testing.T) {
	raw := "00:01 REP: good morning\n00:02 CUSTOMER: hi"
	utterances := ExtractAgentUtterances(raw, "REP:")
	require.Len(t, utterances, 1)
	assert.Equal(t, "good morning", utterances[0].Text)
}

func TestJoinContext(t *testing.T) {
	raw := `00:01 CALLER: hi
00:02 AGENT: hello
00:03 AGENT: how can I help?`

	utterances := ExtractAgentUtterances(raw, DefaultAgentMarker)
	joined := JoinContext(utterances)
	assert.Equal(t, "00:02 AGENT: hello\n00:03 AGENT: how can I help?", joined)
}

func TestJoinContextEmpty(t *testing.T) {
	assert.Equal(t, "", JoinContext(nil))
}
