package ask

import "strings"

// maximum answer length carried into later prompts
const historyAnswerLimit = 600

type exchange struct {
	question string
	answer   string
}

// History is a rolling window of question/answer exchanges for
// multi-turn conversations. The zero value is unusable; call NewHistory.
type History struct {
	maxTurns  int
	exchanges []exchange
}

func NewHistory(maxTurns int) *History {
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &History{maxTurns: maxTurns}
}

// Add records an exchange, evicting the oldest when full.
func (h *History) Add(question, answer string) {
	h.exchanges = append(h.exchanges, exchange{question: question, answer: answer})
	if len(h.exchanges) > h.maxTurns {
		h.exchanges = h.exchanges[len(h.exchanges)-h.maxTurns:]
	}
}

func (h *History) Clear() { h.exchanges = nil }

func (h *History) Len() int { return len(h.exchanges) }

// PromptBlock formats the window for inclusion in a prompt. Long
// answers are truncated so history does not crowd out the context.
func (h *History) PromptBlock() string {
	if len(h.exchanges) == 0 {
		return ""
	}
	parts := make([]string, len(h.exchanges))
	for i, e := range h.exchanges {
		answer := e.answer
		if len(answer) > historyAnswerLimit {
			answer = answer[:historyAnswerLimit] + "..."
		}
		parts[i] = "User: " + e.question + "\nAssistant: " + answer
	}
	return "Previous conversation:\n" + strings.Join(parts, "\n\n")
}
