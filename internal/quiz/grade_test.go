package quiz

import "testing"

func TestGrade_CaseInsensitiveMatch(t *testing.T) {
	q := Question{ID: "TF-1", Type: TypeTF, Text: "q"}
	key := AnswerKey{"TF-1": {ID: "TF-1", Answer: "T", Explanation: "because"}}

	g := Grade(q, "true, since renders batch.", key)

	if g.Verdict != VerdictCorrect {
		t.Errorf("expected correct verdict, got %v", g.Verdict)
	}
	if g.Score != 1 {
		t.Errorf("expected score 1, got %v", g.Score)
	}
	if g.Extracted != "T" || g.Correct != "T" {
		t.Errorf("unexpected answers: extracted=%q correct=%q", g.Extracted, g.Correct)
	}
	if g.Explanation != "because" {
		t.Errorf("explanation lost: %q", g.Explanation)
	}
}

func TestGrade_WrongAnswerScoresNegative(t *testing.T) {
	q := Question{ID: "MC-1", Type: TypeMC, Text: "q"}
	key := AnswerKey{"MC-1": {ID: "MC-1", Answer: "b"}}

	g := Grade(q, "(c) looks right to me.", key)

	if g.Verdict != VerdictIncorrect {
		t.Errorf("expected incorrect verdict, got %v", g.Verdict)
	}
	if g.Score != -1 {
		t.Errorf("expected score -1, got %v", g.Score)
	}
	if g.Verdict.Icon() != "x" {
		t.Errorf("unexpected icon: %q", g.Verdict.Icon())
	}
}

func TestGrade_ShortAnswerStaysUngraded(t *testing.T) {
	q := Question{ID: "SA-1", Type: TypeSA, Text: "q"}
	key := AnswerKey{"SA-1": {ID: "SA-1", Answer: "A model answer."}}

	g := Grade(q, "Some essay response.", key)

	if g.Verdict != VerdictUnknown {
		t.Errorf("expected unknown verdict, got %v", g.Verdict)
	}
	if g.Score != 0 {
		t.Errorf("expected score 0, got %v", g.Score)
	}
	if g.Extracted != "Some essay response." {
		t.Errorf("SA extraction should keep the response, got %q", g.Extracted)
	}
	if g.Verdict.Icon() != "?" {
		t.Errorf("unexpected icon: %q", g.Verdict.Icon())
	}
}

func TestGrade_MissingKeyEntry(t *testing.T) {
	q := Question{ID: "TF-9", Type: TypeTF, Text: "q"}

	g := Grade(q, "True.", AnswerKey{})

	if g.Verdict != VerdictUnknown || g.Score != 0 {
		t.Errorf("expected ungraded zero score, got %v/%v", g.Verdict, g.Score)
	}
	if g.Correct != "?" {
		t.Errorf("expected placeholder correct answer, got %q", g.Correct)
	}
}

func TestSummarize(t *testing.T) {
	graded := []GradedQuestion{
		{Verdict: VerdictCorrect, Score: 1},
		{Verdict: VerdictCorrect, Score: 1},
		{Verdict: VerdictIncorrect, Score: -1},
		{Verdict: VerdictUnknown, Score: 0},
	}

	s := Summarize(graded)

	if s.Total != 4 || s.Correct != 2 || s.Incorrect != 1 || s.Ungraded != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	// Accuracy over gradable questions only: 2 of 3.
	if s.Accuracy < 0.66 || s.Accuracy > 0.67 {
		t.Errorf("unexpected accuracy: %v", s.Accuracy)
	}
	if s.Sum != 1 {
		t.Errorf("unexpected score sum: %v", s.Sum)
	}
}

func TestSummarize_AllUngraded(t *testing.T) {
	s := Summarize([]GradedQuestion{{Verdict: VerdictUnknown}})
	if s.Accuracy != 0 {
		t.Errorf("expected zero accuracy with no gradable questions, got %v", s.Accuracy)
	}
}
