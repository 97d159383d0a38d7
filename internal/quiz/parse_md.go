package quiz

import (
	"regexp"
	"strings"
)

// Markdown quiz format: questions appear as "**TF-1.** ..." blocks,
// multiple-choice options as "(a) ..." lines, and the answer key as a
// table with | ID | Answer | Explanation | rows.
var (
	questionIDRe = regexp.MustCompile(`(?m)^\*\*((?:TF|SA|MC)-\d+)\.\*\*\s*`)
	choiceRe     = regexp.MustCompile(`(?m)^\(([a-d])\)\s+(.+)$`)
	tableRowRe   = regexp.MustCompile(`(?m)^\|\s*((?:TF|SA|MC)-\d+)\s*\|\s*\*?\*?\(?([TFabcd])\)?\*?\*?\s*\|\s*(.*?)\s*\|$`)
)

// ParseMarkdown extracts questions and the answer key from a quiz
// Markdown document.
func ParseMarkdown(content string) ([]Question, AnswerKey) {
	return parseQuestions(content), parseAnswerKey(content)
}

func parseQuestions(content string) []Question {
	matches := questionIDRe.FindAllStringSubmatchIndex(content, -1)
	questions := make([]Question, 0, len(matches))

	for i, m := range matches {
		id := content[m[2]:m[3]]
		start := m[1]
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(content[start:end])

		q := Question{ID: id, Text: body, Type: typeForID(id)}
		if q.Type == TypeMC {
			for _, cm := range choiceRe.FindAllStringSubmatch(body, -1) {
				q.Choices = append(q.Choices, "("+cm[1]+") "+cm[2])
			}
		}
		questions = append(questions, q)
	}
	return questions
}

func parseAnswerKey(content string) AnswerKey {
	key := make(AnswerKey)
	for _, m := range tableRowRe.FindAllStringSubmatch(content, -1) {
		key[m[1]] = AnswerKeyEntry{
			ID:          m[1],
			Answer:      strings.TrimSpace(m[2]),
			Explanation: strings.TrimSpace(m[3]),
		}
	}
	return key
}

func typeForID(id string) string {
	switch {
	case strings.HasPrefix(id, "TF"):
		return TypeTF
	case strings.HasPrefix(id, "MC"):
		return TypeMC
	default:
		return TypeSA
	}
}
