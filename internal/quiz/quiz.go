// Package quiz parses quiz files, answers them through a language
// model and grades the results.
package quiz

// Question types.
const (
	TypeTF = "tf"
	TypeMC = "mc"
	TypeSA = "sa"
)

// Question is one quiz question. Choices are only present for
// multiple-choice questions, Code only when the question references a
// snippet.
type Question struct {
	ID      string
	Type    string
	Text    string
	Choices []string
	Code    string
}

// AnswerKeyEntry holds the expected answer for one question.
type AnswerKeyEntry struct {
	ID          string
	Answer      string
	Explanation string
}

// AnswerKey maps question ID to its expected answer.
type AnswerKey map[string]AnswerKeyEntry

// Verdict is the grading outcome of one question. Short-answer
// questions cannot be auto-graded and stay unknown.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

// Icon returns the single-character marker used in reports and progress
// output.
func (v Verdict) Icon() string {
	switch v {
	case VerdictCorrect:
		return "+"
	case VerdictIncorrect:
		return "x"
	default:
		return "?"
	}
}

// GradedQuestion is one question with the model's response and grade.
type GradedQuestion struct {
	Question    Question
	Answer      string // full model response
	Extracted   string // normalized answer ("T"/"F", "a"-"d", or full text)
	Correct     string // expected answer from the key
	Explanation string
	Verdict     Verdict
	Score       float64
}

// Score summarizes a graded run.
type Score struct {
	Total     int
	Correct   int
	Incorrect int
	Ungraded  int
	Accuracy  float64 // correct / (total - ungraded)
	Sum       float64 // net score across all questions
}

// Summarize tallies verdicts and computes accuracy over gradable
// questions.
func Summarize(graded []GradedQuestion) Score {
	var s Score
	s.Total = len(graded)
	for _, g := range graded {
		switch g.Verdict {
		case VerdictCorrect:
			s.Correct++
		case VerdictIncorrect:
			s.Incorrect++
		default:
			s.Ungraded++
		}
		s.Sum += g.Score
	}
	if gradable := s.Total - s.Ungraded; gradable > 0 {
		s.Accuracy = float64(s.Correct) / float64(gradable)
	}
	return s
}
