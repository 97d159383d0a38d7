package quiz

import "strings"

// Grade compares the model's response against the answer key. TF and
// MC questions score +1 for a match and -1 for a miss; short-answer
// questions and questions without a key entry stay ungraded at 0.
func Grade(q Question, answer string, key AnswerKey) GradedQuestion {
	entry, ok := key[q.ID]
	if !ok {
		return GradedQuestion{
			Question:    q,
			Answer:      answer,
			Extracted:   "?",
			Correct:     "?",
			Explanation: "No answer key entry",
			Verdict:     VerdictUnknown,
		}
	}

	extracted := Extract(answer, q.Type)
	g := GradedQuestion{
		Question:    q,
		Answer:      answer,
		Extracted:   extracted,
		Correct:     entry.Answer,
		Explanation: entry.Explanation,
	}

	if q.Type == TypeTF || q.Type == TypeMC {
		if strings.EqualFold(extracted, entry.Answer) {
			g.Verdict = VerdictCorrect
			g.Score = 1
		} else {
			g.Verdict = VerdictIncorrect
			g.Score = -1
		}
	}
	return g
}
