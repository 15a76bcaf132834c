package outcomes

import (
	"strings"

	"github.com/Intellimint/SalesCaller/internal/calls"
)

// Classify maps a provider completion status and transcript to a call
// outcome.
//
// Transcript keywords are checked in a fixed order and the first match
// wins. "interested" is checked before "not interested", so a transcript
// containing "not interested" still classifies as interested ("interested"
// is a substring of it). The order is part of the observable behavior;
// reordering it reclassifies historical outcomes.
func Classify(providerStatus, transcript string) calls.Outcome {
	switch providerStatus {
	case "completed":
		if transcript == "" {
			return calls.OutcomeNoAnswer
		}
		t := strings.ToLower(transcript)
		switch {
		case strings.Contains(t, "interested"):
			return calls.OutcomeInterested
		case strings.Contains(t, "not interested"), strings.Contains(t, "no"):
			return calls.OutcomeNotInterested
		case strings.Contains(t, "voicemail"):
			return calls.OutcomeVoicemail
		default:
			return calls.OutcomeNoAnswer
		}
	case "no-answer":
		return calls.OutcomeNoAnswer
	case "voicemail":
		return calls.OutcomeVoicemail
	default:
		return calls.OutcomeNoAnswer
	}
}
