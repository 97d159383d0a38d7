package quiz

import "testing"

func TestExtract_TrueFalse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"starts with true", "True. Props flow down the tree.", "T"},
		{"starts with false", "False, state updates are asynchronous.", "F"},
		{"bold prefix", "**False.** The hook runs after render.", "F"},
		{"markdown list prefix", "- True: the effect reruns on change.", "T"},
		{"answer is in first line", "The answer is false.", "F"},
		{"statement is verdict", "The statement is true because keys must be stable.", "T"},
		{"bare word in first line", "It's true that refs skip re-renders.", "T"},
		{"bold in later line", "Let me check.\n**True**: memo caches the result.", "T"},
		{"colon verdict", "Thinking it through.\nVerdict: false\nBecause of batching.", "F"},
		{"verdict deep in response", "First, consider the rules.\nSecond, the docs.\nThird, hooks.\nSo the correct answer is true.", "T"},
		{"single keyword elimination", "Let me think.\nAbout rendering.\nAnd effects.\nIt is definitely true here.", "T"},
		{"both keywords no verdict", "Whether true or false depends on context.", "T"}, // first-line bare word picks the first
		{"no signal", "It depends on the component.", "?"},
		{"empty", "   ", "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.response, TypeTF); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}

func TestExtract_MultipleChoice(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"parenthesized", "(b) because useEffect runs after paint.", "b"},
		{"parenthesized mid-sentence", "I would pick (c) here.", "c"},
		{"answer is letter", "the correct answer is d", "d"},
		{"answer is parenthesized", "The answer is (a).", "a"},
		{"bold letter", "**b** is right.", "b"},
		{"line start with period", "c. This one matches the type signature.", "c"},
		{"first standalone letter", "b", "b"},
		{"no letters", "1234 5678!", "?"},
		{"empty", "", "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.response, TypeMC); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}

func TestExtract_ShortAnswerReturnsTrimmedResponse(t *testing.T) {
	got := Extract("  A reducer centralizes state transitions.  ", TypeSA)
	if got != "A reducer centralizes state transitions." {
		t.Errorf("unexpected SA extraction: %q", got)
	}
}
