package quiz

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// truncation limits for report readability
const (
	reportQuestionLimit = 200
	reportResponseLimit = 500
)

// ReportMeta labels a results file.
type ReportMeta struct {
	Title        string
	Mode         string
	UseRetrieval bool
	Grounded     bool
	Sections     string
	Limit        int
}

// WriteResults writes a per-question Markdown results file and returns
// its path.
func WriteResults(graded []GradedQuestion, outputPath string, meta ReportMeta) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}

	score := Summarize(graded)

	var b strings.Builder
	b.WriteString("# Quiz Results\n\n")
	if meta.Title != "" {
		fmt.Fprintf(&b, "- **Quiz:** %s\n", meta.Title)
	}
	fmt.Fprintf(&b, "- **Mode:** %s\n", meta.Mode)
	fmt.Fprintf(&b, "- **RAG:** %s\n", yesNo(meta.UseRetrieval))
	if meta.Grounded {
		b.WriteString("- **Grounded:** yes\n")
	} else {
		b.WriteString("- **Grounded:** no (broad)\n")
	}
	if meta.Sections != "" {
		fmt.Fprintf(&b, "- **Sections:** %s\n", meta.Sections)
	}
	if meta.Limit > 0 {
		fmt.Fprintf(&b, "- **Limit:** %d questions\n", meta.Limit)
	}
	fmt.Fprintf(&b, "- **Total:** %d\n", score.Total)
	fmt.Fprintf(&b, "- **Correct:** %d\n", score.Correct)
	fmt.Fprintf(&b, "- **Incorrect:** %d\n", score.Incorrect)
	fmt.Fprintf(&b, "- **Ungraded (SA):** %d\n", score.Ungraded)
	fmt.Fprintf(&b, "- **Accuracy:** %.0f%%\n", score.Accuracy*100)
	fmt.Fprintf(&b, "- **Score:** %.0f\n\n---\n\n", score.Sum)

	for _, g := range graded {
		fmt.Fprintf(&b, "## [%s] %s\n\n", g.Verdict.Icon(), g.Question.ID)
		fmt.Fprintf(&b, "**Question:** %s\n\n", truncate(g.Question.Text, reportQuestionLimit))
		if g.Question.Code != "" {
			fmt.Fprintf(&b, "```\n%s\n```\n\n", g.Question.Code)
		}
		if len(g.Question.Choices) > 0 {
			b.WriteString("Choices:\n")
			for _, c := range g.Question.Choices {
				fmt.Fprintf(&b, "  %s\n", c)
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "**LLM answer:** %s\n\n", g.Extracted)
		fmt.Fprintf(&b, "**Correct:** %s\n\n", g.Correct)
		if g.Explanation != "" {
			fmt.Fprintf(&b, "**Explanation:** %s\n\n", g.Explanation)
		}
		if g.Question.Type == TypeSA {
			fmt.Fprintf(&b, "**Full LLM response:**\n%s\n\n", head(g.Answer, reportResponseLimit))
		}
		b.WriteString("---\n\n")
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write results file: %w", err)
	}
	return outputPath, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// truncate appends an ellipsis when s exceeds limit.
func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// head cuts s at limit without an ellipsis.
func head(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
