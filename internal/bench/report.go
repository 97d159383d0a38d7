package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"studyrag/internal/quiz"
)

// WriteReport writes the single-quiz comparison report: a ranked
// summary table, a per-question breakdown and the disagreement list.
func WriteReport(results []Result, outputPath, title string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	ranked := rankResults(results)

	var b strings.Builder
	b.WriteString("# Benchmark Report\n\n")
	fmt.Fprintf(&b, "**Quiz:** %s\n\n", title)

	b.WriteString("## Summary\n\n")
	writeSummaryTable(&b, ranked)
	b.WriteString("\n---\n\n")

	b.WriteString("## Per-Question Breakdown\n\n")
	writeBreakdownTable(&b, ranked, results)
	b.WriteString("\n---\n\n")

	b.WriteString("## Disagreements\n\n")
	b.WriteString("Questions where at least one config got it right and another wrong:\n\n")
	disagreements := Disagreements(results)
	for _, d := range disagreements {
		fmt.Fprintf(&b, "### %s\n\n", d.Question.ID)
		fmt.Fprintf(&b, "**Question:** %s\n\n", clip(d.Question.Text, 200))
		fmt.Fprintf(&b, "**Correct answer:** %s\n\n", d.CorrectAnswer)
		fmt.Fprintf(&b, "**Got it right:** %s\n\n", strings.Join(d.RightLabels, ", "))
		fmt.Fprintf(&b, "**Got it wrong:** %s\n", strings.Join(d.WrongLabels, ", "))
		for _, label := range d.WrongLabels {
			fmt.Fprintf(&b, "  - %s: answered %s\n", label, d.WrongAnswers[label])
		}
		b.WriteString("\n")
	}
	if len(disagreements) == 0 {
		b.WriteString("No disagreements -- all configs agreed on every question.\n\n")
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write benchmark report: %w", err)
	}
	return outputPath, nil
}

// WriteMultiReport writes the combined report for several quizzes: an
// aggregate ranking followed by per-quiz detail sections.
func WriteMultiReport(summaries []QuizSummary, outputPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	aggs := AggregateByConfig(summaries)

	var b strings.Builder
	b.WriteString("# Multi-Quiz Benchmark Report\n\n")
	fmt.Fprintf(&b, "**Quizzes:** %d\n\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(&b, "- %s\n", s.Title)
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Aggregate Summary\n\n")
	b.WriteString("| Rank | Config | Overall |")
	for _, s := range summaries {
		fmt.Fprintf(&b, " %s |", clip(s.Title, 25))
	}
	b.WriteString(" Total Time |\n")
	b.WriteString("|------|--------|---------|")
	for range summaries {
		b.WriteString("------|")
	}
	b.WriteString("------|\n")

	for rank, a := range aggs {
		fmt.Fprintf(&b, "| %d | %s | %.1f%% |", rank+1, a.Label, a.Accuracy*100)
		for _, qa := range a.QuizAccuracies {
			fmt.Fprintf(&b, " %.1f%% |", qa.Accuracy*100)
		}
		fmt.Fprintf(&b, " %.0fs |\n", a.Elapsed.Seconds())
	}
	b.WriteString("\n---\n\n")

	for i, s := range summaries {
		fmt.Fprintf(&b, "## Quiz %d: %s\n\n", i+1, s.Title)
		ranked := rankResults(s.Results)
		writeSummaryTable(&b, ranked)
		b.WriteString("\n")
		writeBreakdownTable(&b, ranked, s.Results)
		b.WriteString("\n---\n\n")
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write benchmark report: %w", err)
	}
	return outputPath, nil
}

func rankResults(results []Result) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Accuracy > ranked[j].Score.Accuracy
	})
	return ranked
}

func writeSummaryTable(b *strings.Builder, ranked []Result) {
	b.WriteString("| Rank | Config | Accuracy | Correct | Time | Per-Q |\n")
	b.WriteString("|------|--------|----------|---------|------|-------|\n")
	for rank, r := range ranked {
		gradable := r.Score.Total - r.Score.Ungraded
		perQ := 0.0
		if r.Score.Total > 0 {
			perQ = r.Elapsed.Seconds() / float64(r.Score.Total)
		}
		fmt.Fprintf(b, "| %d | %s | %.1f%% | %d/%d | %.1fs | %.1fs |\n",
			rank+1, r.Label, r.Score.Accuracy*100, r.Score.Correct, gradable,
			r.Elapsed.Seconds(), perQ)
	}
}

// writeBreakdownTable marks each question per config: "+" correct,
// "x (answer)" wrong, "?" ungraded, "-" missing.
func writeBreakdownTable(b *strings.Builder, ranked, results []Result) {
	if len(results) == 0 || len(results[0].Graded) == 0 {
		return
	}

	b.WriteString("| Question |")
	for _, r := range ranked {
		fmt.Fprintf(b, " %s |", r.Label)
	}
	b.WriteString("\n|----------|")
	for range ranked {
		b.WriteString("------|")
	}
	b.WriteString("\n")

	for _, g0 := range results[0].Graded {
		fmt.Fprintf(b, "| %s |", g0.Question.ID)
		for _, r := range ranked {
			g, ok := findGraded(r.Graded, g0.Question.ID)
			switch {
			case !ok:
				b.WriteString(" - |")
			case g.Verdict == quiz.VerdictUnknown:
				b.WriteString(" ? |")
			case g.Verdict == quiz.VerdictCorrect:
				b.WriteString(" + |")
			default:
				fmt.Fprintf(b, " x (%s) |", g.Extracted)
			}
		}
		b.WriteString("\n")
	}
}

func clip(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
