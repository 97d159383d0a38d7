package quiz

import "strings"

// Prompt instructions are tighter than general chat so answers stay
// extractable.
const (
	tfInstruction = "Answer this True/False question. Start your response with " +
		"exactly 'True' or 'False', then briefly explain why."
	mcInstruction = "Answer this multiple choice question. Start your response with " +
		"the letter of the correct choice in parentheses, e.g. (a), " +
		"then briefly explain why."
	saInstruction = "Answer this short answer question concisely but completely. " +
		"Focus on technical accuracy."
)

// BuildPrompt assembles the generation prompt for one question.
// ragContext may be empty when retrieval is disabled or found nothing.
func BuildPrompt(q Question, ragContext string) string {
	var parts []string

	if ragContext != "" {
		parts = append(parts, "Documentation context:\n"+ragContext)
	}

	switch q.Type {
	case TypeTF:
		parts = append(parts, tfInstruction)
	case TypeMC:
		parts = append(parts, mcInstruction)
	default:
		parts = append(parts, saInstruction)
	}

	parts = append(parts, q.Text)

	if q.Code != "" {
		parts = append(parts, "```\n"+q.Code+"\n```")
	}
	if len(q.Choices) > 0 {
		parts = append(parts, strings.Join(q.Choices, "\n"))
	}

	return strings.Join(parts, "\n\n")
}
