package transcript

import "strings"

// DefaultAgentMarker is the literal that tags a transcript line as spoken
// by the agent. Both transcription sources emit it.
const DefaultAgentMarker = "AGENT:"

// Utterance is a single agent line: an optional timestamp label that
// precedes the marker, the spoken text that follows it, and the full
// trimmed line for context assembly.
type Utterance struct {
	Timestamp string
	Text      string
	Line      string
}

// ExtractAgentUtterances returns the agent-attributed lines of a raw
// transcript, in original order. Lines without the marker belong to the
// caller or to system noise and are dropped; an empty transcript yields
// an empty slice.
func ExtractAgentUtterances(raw, marker string) []Utterance {
	var utterances []Utterance

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, marker) {
			continue
		}
		prefix, text, _ := strings.Cut(line, marker)
		utterances = append(utterances, Utterance{
			Timestamp: strings.TrimSpace(prefix),
			Text:      strings.TrimSpace(text),
			Line:      line,
		})
	}

	return utterances
}

// JoinContext concatenates the full agent lines into the agent-only
// context string stored alongside each evaluation.
func JoinContext(utterances []Utterance) string {
	lines := make([]string, len(utterances))
	for i, u := range utterances {
		lines[i] = u.Line
	}
	return strings.Join(lines, "\n")
}
