package quiz

import (
	"context"
	"fmt"
	"log/slog"

	"studyrag/internal/config"
	"studyrag/internal/llm"
)

// ContextProvider supplies retrieval context for a question. A nil
// provider means no retrieval.
type ContextProvider interface {
	Context(ctx context.Context, question string, n int) (string, error)
}

// RunConfig controls one quiz run.
type RunConfig struct {
	Mode         string
	UseRetrieval bool
	Grounded     bool
	NResults     int
}

// Runner sends questions to the model one at a time, grading each
// response as it lands.
type Runner struct {
	chat     llm.ChatService
	provider ContextProvider
	cfg      config.Config
	log      *slog.Logger
}

func NewRunner(chat llm.ChatService, provider ContextProvider, cfg config.Config, log *slog.Logger) *Runner {
	return &Runner{chat: chat, provider: provider, cfg: cfg, log: log}
}

// Run answers and grades every question in order. Per-question failures
// never abort the run: a failed retrieval just drops the context for
// that question, and a failed generation is graded as the sentinel
// response "[error: ...]".
func (r *Runner) Run(ctx context.Context, questions []Question, key AnswerKey, run RunConfig) ([]GradedQuestion, error) {
	mode, err := config.ResolveMode(run.Mode)
	if err != nil {
		return nil, err
	}
	n := run.NResults
	if n <= 0 {
		n = r.cfg.NResults
	}

	graded := make([]GradedQuestion, 0, len(questions))
	for i, q := range questions {
		ragContext := ""
		if run.UseRetrieval && r.provider != nil {
			ragContext, err = r.provider.Context(ctx, q.Text, n)
			if err != nil {
				r.log.Warn("retrieval failed, answering without context", "question", q.ID, "error", err)
				ragContext = ""
			}
		}

		prompt := BuildPrompt(q, ragContext)
		opts := r.cfg.QuizOptions(mode, numPredictFor(q.Type))

		answer, err := r.chat.Generate(ctx, mode.Model, prompt, opts)
		if err != nil {
			answer = fmt.Sprintf("[error: %v]", err)
		}

		g := Grade(q, answer, key)
		graded = append(graded, g)
		r.log.Info("graded question",
			"progress", fmt.Sprintf("%d/%d", i+1, len(questions)),
			"question", q.ID,
			"verdict", g.Verdict.Icon())
	}
	return graded, nil
}

func numPredictFor(qtype string) int {
	switch qtype {
	case TypeTF:
		return config.NumPredictTF
	case TypeMC:
		return config.NumPredictMC
	default:
		return config.NumPredictSA
	}
}
