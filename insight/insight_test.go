package insight

import (
	"strings"
	"testing"
)

func TestReply_KeywordRouting(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		contains string
	}{
		{"high risk question", "Why is this return high risk?", "2.5x"},
		{"rate question", "how is the return rate calculated", "quantity-based"},
		{"structuring question", "what does structuring mean here", "Splitting"},
		{"pending question", "what happens to pending returns", "reviewer"},
		{"greeting", "hello there", "Ask me"},
		{"case insensitive", "STRUCTURING???", "Splitting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Reply(tt.message)
			if !strings.Contains(reply, tt.contains) {
				t.Errorf("Reply(%q) = %q, want it to mention %q", tt.message, reply, tt.contains)
			}
		})
	}
}

func TestReply_NeverEmpty(t *testing.T) {
	for _, message := range []string{"", "zzzzz", "42", "¯\\_(ツ)_/¯"} {
		if Reply(message) == "" {
			t.Errorf("Reply(%q) returned an empty reply", message)
		}
	}
}

func TestReply_RegistryEntities(t *testing.T) {
	reply := Reply("what is going on with Kangning Franchise Pharmacies?")
	if !strings.Contains(reply, "Kangning") || !strings.Contains(reply, "D004") {
		t.Errorf("distributor reply = %q", reply)
	}
	if !strings.Contains(reply, "9.5%") {
		t.Errorf("reply should quote the baseline rate, got %q", reply)
	}

	reply = Reply("show me med-003 returns")
	if !strings.Contains(reply, "MED-003") {
		t.Errorf("product reply = %q", reply)
	}

	// Entity matches beat keyword intents.
	reply = Reply("is D002 high risk?")
	if !strings.Contains(reply, "Northern HealthCare Channels") {
		t.Errorf("entity should win over the keyword intent, got %q", reply)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// "structuring" triggers before the generic "rate" keyword even when
	// both appear in one message.
	if got := classify("is this structuring inflating the rate?"); got != intentStructuring {
		t.Errorf("classify = %v, want the structuring intent", got)
	}
}
