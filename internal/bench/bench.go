// Package bench runs the same quiz across model/configuration
// combinations and reports how they compare.
package bench

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"studyrag/internal/quiz"
)

// Config is one benchmark cell.
type Config struct {
	Mode         string `yaml:"mode"`
	UseRetrieval bool   `yaml:"rag"`
	Grounded     bool   `yaml:"grounded"`
}

// Label renders the config as "mode / rag / grounded" for tables and
// aggregation keys.
func (c Config) Label() string {
	parts := []string{c.Mode}
	if c.UseRetrieval {
		parts = append(parts, "rag")
	} else {
		parts = append(parts, "no-rag")
	}
	if c.Grounded {
		parts = append(parts, "grounded")
	} else {
		parts = append(parts, "broad")
	}
	return strings.Join(parts, " / ")
}

// DefaultConfigs is the matrix used when no config file is given.
// Retrieval-off runs always use broad prompting since there is nothing
// to ground on.
var DefaultConfigs = []Config{
	{Mode: "qwen-7b", UseRetrieval: true, Grounded: true},
	{Mode: "qwen-7b", UseRetrieval: true, Grounded: false},
	{Mode: "qwen-7b", UseRetrieval: false, Grounded: false},
	{Mode: "llama3-8b", UseRetrieval: true, Grounded: true},
	{Mode: "llama3-8b", UseRetrieval: true, Grounded: false},
	{Mode: "llama3-8b", UseRetrieval: false, Grounded: false},
	{Mode: "qwen-14b", UseRetrieval: true, Grounded: true},
	{Mode: "qwen-14b", UseRetrieval: true, Grounded: false},
	{Mode: "qwen-14b", UseRetrieval: false, Grounded: false},
	{Mode: "llama3-3b", UseRetrieval: true, Grounded: true},
	{Mode: "llama3-3b", UseRetrieval: true, Grounded: false},
	{Mode: "llama3-3b", UseRetrieval: false, Grounded: false},
}

// Result is one config's run over one question set.
type Result struct {
	Config  Config
	Label   string
	Score   quiz.Score
	Elapsed time.Duration
	Graded  []quiz.GradedQuestion
}

// QuizSummary groups the results of all configs over one quiz file.
type QuizSummary struct {
	Title   string
	Path    string
	Results []Result
}

// Options narrow the question set before benchmarking. The same
// filtered set is used for every config so comparisons stay fair.
type Options struct {
	QuizID   string
	Types    map[string]bool
	Limit    int
	NResults int
}

// Orchestrator drives benchmark runs.
type Orchestrator struct {
	runner *quiz.Runner
	log    *slog.Logger
}

func New(runner *quiz.Runner, log *slog.Logger) *Orchestrator {
	return &Orchestrator{runner: runner, log: log}
}

// Run benchmarks one loaded question set across all configs.
func (o *Orchestrator) Run(ctx context.Context, questions []quiz.Question, key quiz.AnswerKey, configs []Config, nResults int) ([]Result, error) {
	results := make([]Result, 0, len(configs))
	for i, cfg := range configs {
		o.log.Info("benchmark run", "progress", i+1, "of", len(configs), "config", cfg.Label())

		start := time.Now()
		graded, err := o.runner.Run(ctx, questions, key, quiz.RunConfig{
			Mode:         cfg.Mode,
			UseRetrieval: cfg.UseRetrieval,
			Grounded:     cfg.Grounded,
			NResults:     nResults,
		})
		if err != nil {
			return nil, err
		}

		results = append(results, Result{
			Config:  cfg,
			Label:   cfg.Label(),
			Score:   quiz.Summarize(graded),
			Elapsed: time.Since(start),
			Graded:  graded,
		})
	}
	return results, nil
}

// RunFile loads, filters and benchmarks one quiz file.
func (o *Orchestrator) RunFile(ctx context.Context, path string, configs []Config, opts Options) (QuizSummary, error) {
	questions, key, meta, err := quiz.Load(path, opts.QuizID)
	if err != nil {
		return QuizSummary{}, err
	}
	questions, key = quiz.Filter(questions, key, opts.Types, opts.Limit, false)

	title := meta.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	results, err := o.Run(ctx, questions, key, configs, opts.NResults)
	if err != nil {
		return QuizSummary{}, err
	}
	return QuizSummary{Title: title, Path: path, Results: results}, nil
}

// RunMulti benchmarks several quiz files. Files that fail to load or
// end up empty after filtering are logged and skipped rather than
// aborting the batch.
func (o *Orchestrator) RunMulti(ctx context.Context, paths []string, configs []Config, opts Options) ([]QuizSummary, error) {
	var summaries []QuizSummary
	for _, path := range paths {
		questions, key, meta, err := quiz.Load(path, opts.QuizID)
		if err != nil {
			o.log.Warn("skipping quiz file", "path", path, "error", err)
			continue
		}
		questions, key = quiz.Filter(questions, key, opts.Types, opts.Limit, false)
		if len(questions) == 0 {
			o.log.Warn("skipping quiz file, no questions after filtering", "path", path)
			continue
		}

		title := meta.Title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		o.log.Info("benchmarking quiz", "title", title, "questions", len(questions))

		results, err := o.Run(ctx, questions, key, configs, opts.NResults)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, QuizSummary{Title: title, Path: path, Results: results})
	}
	return summaries, nil
}

// Aggregate combines results across quizzes per config label. Overall
// accuracy comes from summed correct and gradable counts, not from
// averaging per-quiz accuracies, so quizzes with more questions weigh
// more.
type Aggregate struct {
	Label          string
	Total          int
	Correct        int
	Incorrect      int
	Ungraded       int
	Elapsed        time.Duration
	Accuracy       float64
	QuizAccuracies []QuizAccuracy
}

// QuizAccuracy is one quiz's accuracy under one config.
type QuizAccuracy struct {
	Title    string
	Accuracy float64
}

// AggregateByConfig rolls results up per config label, ranked by
// overall accuracy descending.
func AggregateByConfig(summaries []QuizSummary) []Aggregate {
	byLabel := make(map[string]*Aggregate)
	var order []string

	for _, s := range summaries {
		for _, r := range s.Results {
			a, ok := byLabel[r.Label]
			if !ok {
				a = &Aggregate{Label: r.Label}
				byLabel[r.Label] = a
				order = append(order, r.Label)
			}
			a.Total += r.Score.Total
			a.Correct += r.Score.Correct
			a.Incorrect += r.Score.Incorrect
			a.Ungraded += r.Score.Ungraded
			a.Elapsed += r.Elapsed
			a.QuizAccuracies = append(a.QuizAccuracies, QuizAccuracy{Title: s.Title, Accuracy: r.Score.Accuracy})
		}
	}

	aggs := make([]Aggregate, 0, len(order))
	for _, label := range order {
		a := byLabel[label]
		if gradable := a.Total - a.Ungraded; gradable > 0 {
			a.Accuracy = float64(a.Correct) / float64(gradable)
		}
		aggs = append(aggs, *a)
	}
	sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].Accuracy > aggs[j].Accuracy })
	return aggs
}

// Disagreement marks a question where at least one config answered
// correctly and another incorrectly.
type Disagreement struct {
	Question      quiz.Question
	CorrectAnswer string
	RightLabels   []string
	WrongLabels   []string
	WrongAnswers  map[string]string // label -> extracted answer
}

// Disagreements finds questions the configs split on. Ungraded
// questions never disagree.
func Disagreements(results []Result) []Disagreement {
	if len(results) == 0 {
		return nil
	}

	var out []Disagreement
	for _, g0 := range results[0].Graded {
		qid := g0.Question.ID

		var d Disagreement
		d.WrongAnswers = make(map[string]string)
		for _, r := range results {
			g, ok := findGraded(r.Graded, qid)
			if !ok || g.Verdict == quiz.VerdictUnknown {
				continue
			}
			d.Question = g.Question
			d.CorrectAnswer = g.Correct
			if g.Verdict == quiz.VerdictCorrect {
				d.RightLabels = append(d.RightLabels, r.Label)
			} else {
				d.WrongLabels = append(d.WrongLabels, r.Label)
				d.WrongAnswers[r.Label] = g.Extracted
			}
		}

		if len(d.RightLabels) > 0 && len(d.WrongLabels) > 0 {
			out = append(out, d)
		}
	}
	return out
}

func findGraded(graded []quiz.GradedQuestion, qid string) (quiz.GradedQuestion, bool) {
	for _, g := range graded {
		if g.Question.ID == qid {
			return g, true
		}
	}
	return quiz.GradedQuestion{}, false
}
