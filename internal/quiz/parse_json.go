package quiz

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JSON quiz format: a file holds one or more quizzes, each split into
// typed sections.
type quizFile struct {
	Quizzes []jsonQuiz `json:"quizzes"`
}

type jsonQuiz struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Scope    string        `json:"scope"`
	Sections []jsonSection `json:"sections"`
}

type jsonSection struct {
	Type      string         `json:"type"`
	Questions []jsonQuestion `json:"questions"`
}

type jsonQuestion struct {
	ID          string          `json:"id"`
	Question    string          `json:"question"`
	Code        string          `json:"code"`
	Options     []string        `json:"options"`
	Answer      json.RawMessage `json:"answer"`
	ModelAnswer string          `json:"model_answer"`
	Explanation string          `json:"explanation"`
}

// Meta identifies which quiz was loaded.
type Meta struct {
	QuizID string
	Title  string
	Scope  string
}

// QuizNotFoundError reports a quiz ID that does not exist in the file.
type QuizNotFoundError struct {
	ID        string
	Available []string
}

func (e *QuizNotFoundError) Error() string {
	return fmt.Sprintf("quiz %q not found. Available: %s", e.ID, strings.Join(e.Available, ", "))
}

// AmbiguousQuizError reports a multi-quiz file loaded without a quiz ID.
type AmbiguousQuizError struct {
	Available []string
}

func (e *AmbiguousQuizError) Error() string {
	return fmt.Sprintf("multiple quizzes in file, specify a quiz id. Available: %s", strings.Join(e.Available, ", "))
}

// ParseJSON parses a JSON quiz document. quizID selects one quiz from a
// multi-quiz file; it may be empty when the file holds exactly one.
func ParseJSON(data []byte, quizID string) ([]Question, AnswerKey, Meta, error) {
	var file quizFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, Meta{}, fmt.Errorf("parse quiz json: %w", err)
	}
	if len(file.Quizzes) == 0 {
		return nil, nil, Meta{}, fmt.Errorf("no quizzes found in json file")
	}

	var quiz *jsonQuiz
	switch {
	case quizID != "":
		for i := range file.Quizzes {
			if file.Quizzes[i].ID == quizID {
				quiz = &file.Quizzes[i]
				break
			}
		}
		if quiz == nil {
			return nil, nil, Meta{}, &QuizNotFoundError{ID: quizID, Available: quizIDs(file.Quizzes)}
		}
	case len(file.Quizzes) == 1:
		quiz = &file.Quizzes[0]
	default:
		return nil, nil, Meta{}, &AmbiguousQuizError{Available: quizIDs(file.Quizzes)}
	}

	var questions []Question
	key := make(AnswerKey)

	for _, section := range quiz.Sections {
		for _, q := range section.Questions {
			switch section.Type {
			case "true_false":
				questions = append(questions, Question{ID: q.ID, Type: TypeTF, Text: q.Question})
				answer := "F"
				var b bool
				if json.Unmarshal(q.Answer, &b) == nil && b {
					answer = "T"
				}
				key[q.ID] = AnswerKeyEntry{ID: q.ID, Answer: answer, Explanation: q.Explanation}

			case "multiple_choice":
				choices := make([]string, len(q.Options))
				for i, opt := range q.Options {
					choices[i] = fmt.Sprintf("(%c) %s", 'a'+i, opt)
				}
				questions = append(questions, Question{
					ID: q.ID, Type: TypeMC, Text: q.Question, Choices: choices, Code: q.Code,
				})
				var idx int
				_ = json.Unmarshal(q.Answer, &idx)
				key[q.ID] = AnswerKeyEntry{
					ID:          q.ID,
					Answer:      string(rune('a' + idx)),
					Explanation: q.Explanation,
				}

			case "short_answer":
				questions = append(questions, Question{ID: q.ID, Type: TypeSA, Text: q.Question})
				key[q.ID] = AnswerKeyEntry{ID: q.ID, Answer: q.ModelAnswer}
			}
		}
	}

	meta := Meta{QuizID: quiz.ID, Title: quiz.Title, Scope: quiz.Scope}
	return questions, key, meta, nil
}

// QuizInfo summarizes one quiz in a JSON file.
type QuizInfo struct {
	ID        string
	Title     string
	Questions int
}

// ListQuizzes reports the quizzes available in a JSON file.
func ListQuizzes(path string) ([]QuizInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}
	var file quizFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse quiz json: %w", err)
	}

	infos := make([]QuizInfo, 0, len(file.Quizzes))
	for _, q := range file.Quizzes {
		total := 0
		for _, s := range q.Sections {
			total += len(s.Questions)
		}
		infos = append(infos, QuizInfo{ID: q.ID, Title: q.Title, Questions: total})
	}
	return infos, nil
}

// Load reads a quiz file, dispatching on extension: .json uses the
// structured format, anything else is treated as Markdown.
func Load(path, quizID string) ([]Question, AnswerKey, Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, Meta{}, fmt.Errorf("read quiz file: %w", err)
	}

	var (
		questions []Question
		key       AnswerKey
		meta      Meta
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		questions, key, meta, err = ParseJSON(data, quizID)
		if err != nil {
			return nil, nil, Meta{}, err
		}
	} else {
		questions, key = ParseMarkdown(string(data))
		meta = Meta{Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	}

	if len(questions) == 0 {
		return nil, nil, Meta{}, fmt.Errorf("no questions found in %s", path)
	}
	return questions, key, meta, nil
}

func quizIDs(quizzes []jsonQuiz) []string {
	ids := make([]string, len(quizzes))
	for i, q := range quizzes {
		if q.ID == "" {
			ids[i] = "?"
		} else {
			ids[i] = q.ID
		}
	}
	return ids
}
