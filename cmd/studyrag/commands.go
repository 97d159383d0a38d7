package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"studyrag/internal/ask"
	"studyrag/internal/bench"
	"studyrag/internal/config"
	"studyrag/internal/index"
	"studyrag/internal/quiz"
)

func cmdIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	path := fs.String("path", "", "single file to ingest")
	dir := fs.String("dir", "", "directory to ingest")
	force := fs.Bool("force", false, "re-index even if the file is unchanged")
	fs.Parse(args)

	if *path == "" && *dir == "" {
		return fmt.Errorf("must specify -path or -dir")
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if *path != "" {
		n, err := a.indexer.IndexFile(ctx, *path, *force)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Printf("%s: already indexed (use -force to re-index)\n", filepath.Base(*path))
		} else {
			fmt.Printf("%s: %d chunks indexed\n", filepath.Base(*path), n)
		}
		return nil
	}

	chunks, files, err := a.indexer.IndexDir(ctx, *dir, *force)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d chunks from %d files\n", chunks, files)
	return nil
}

func cmdAsk(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	question := fs.String("q", "", "question text")
	mode := fs.String("mode", "", "model mode alias")
	results := fs.Int("n", 0, "number of retrieved chunks")
	broad := fs.Bool("broad", false, "allow answers beyond the indexed documents")
	fs.Parse(args)

	if *question == "" {
		return fmt.Errorf("must provide -q")
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("\nQuestion: %s\n\n", *question)

	_, err = a.asker.Ask(ctx, *question, ask.AskOptions{
		Mode:     *mode,
		NResults: *results,
		Grounded: !*broad,
	}, func(token string) {
		fmt.Print(token)
	})
	fmt.Println()
	return err
}

func cmdInteractive(args []string) error {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	mode := fs.String("mode", "", "model mode alias")
	results := fs.Int("n", 0, "number of retrieved chunks")
	turns := fs.Int("history", 0, "conversation turns to keep")
	fs.Parse(args)

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	currentMode := *mode
	if currentMode == "" {
		currentMode = a.cfg.DefaultMode
	}
	historyTurns := *turns
	if historyTurns <= 0 {
		historyTurns = a.cfg.HistoryTurns
	}
	history := ask.NewHistory(historyTurns)
	modeNames := config.ModeNames()

	fmt.Println("studyrag interactive mode")
	fmt.Println("  ask a question directly")
	fmt.Printf("  'mode <%s>' switches models\n", strings.Join(modeNames, "|"))
	fmt.Println("  'clear' clears conversation history")
	fmt.Println("  'stats' shows knowledge base stats")
	fmt.Println("  'quit' exits")
	fmt.Printf("Keeping the last %d exchanges.\n", historyTurns)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for {
		fmt.Printf("\n[%s] Question: ", currentMode)
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return nil
		case "clear":
			history.Clear()
			fmt.Println("Conversation history cleared.")
			continue
		case "stats":
			if err := a.printStats(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			continue
		}
		if name, ok := strings.CutPrefix(line, "mode "); ok {
			name = strings.TrimSpace(name)
			if contains(modeNames, name) {
				currentMode = name
				fmt.Printf("Switched to %s mode\n", currentMode)
			} else {
				fmt.Printf("Invalid mode. Choose: %s\n", strings.Join(modeNames, ", "))
			}
			continue
		}

		fmt.Println()
		_, err := a.asker.Ask(ctx, line, ask.AskOptions{
			Mode:     currentMode,
			NResults: *results,
			History:  history,
			Grounded: true,
		}, func(token string) {
			fmt.Print(token)
		})
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func cmdQuiz(args []string) error {
	fs := flag.NewFlagSet("quiz", flag.ExitOnError)
	input := fs.String("input", "", "quiz file (.md or .json)")
	output := fs.String("output", "", "results file path")
	quizID := fs.String("quiz-id", "", "quiz id inside a multi-quiz JSON file")
	mode := fs.String("mode", "", "model mode alias")
	noRAG := fs.Bool("no-rag", false, "answer without retrieval context")
	broad := fs.Bool("broad", false, "allow answers beyond the indexed documents")
	sections := fs.String("sections", "", "comma-separated question types (tf,mc,sa)")
	limit := fs.Int("limit", 0, "max questions after filtering")
	shuffle := fs.Bool("shuffle", false, "shuffle before limiting")
	results := fs.Int("n", 0, "number of retrieved chunks")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("must provide -input")
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	runMode := *mode
	if runMode == "" {
		runMode = a.cfg.DefaultMode
	}

	questions, key, meta, err := quiz.Load(*input, *quizID)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %d questions, %d answer key entries\n", len(questions), len(key))

	types, err := parseSections(*sections)
	if err != nil {
		return err
	}
	before := len(questions)
	questions, key = quiz.Filter(questions, key, types, *limit, *shuffle)
	if len(questions) != before {
		fmt.Printf("Filtered: %d -> %d\n", before, len(questions))
	}

	useRAG := !*noRAG
	if useRAG {
		stats, err := index.GetStats(ctx, a.store)
		if err == nil && stats.TotalChunks == 0 {
			fmt.Println("Warning: no documents indexed, running without retrieval context")
			useRAG = false
		}
	}

	graded, err := a.runner.Run(ctx, questions, key, quiz.RunConfig{
		Mode:         runMode,
		UseRetrieval: useRAG,
		Grounded:     !*broad,
		NResults:     *results,
	})
	if err != nil {
		return err
	}

	score := quiz.Summarize(graded)
	fmt.Printf("\nScore: %d/%d (%.0f%%)  |  %d SA ungraded\n",
		score.Correct, score.Total-score.Ungraded, score.Accuracy*100, score.Ungraded)

	outPath := *output
	if outPath == "" {
		stem := strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))
		outPath = filepath.Join(a.cfg.ReportDir, stem+"-results.md")
	}
	reportPath, err := quiz.WriteResults(graded, outPath, quiz.ReportMeta{
		Title:        meta.Title,
		Mode:         runMode,
		UseRetrieval: useRAG,
		Grounded:     !*broad,
		Sections:     *sections,
		Limit:        *limit,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Done. Results at: %s\n", reportPath)
	return nil
}

func cmdBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	input := fs.String("input", "", "quiz file (.md or .json)")
	output := fs.String("output", "", "report file path")
	quizID := fs.String("quiz-id", "", "quiz id inside a multi-quiz JSON file")
	configPath := fs.String("configs", "", "YAML benchmark matrix (default: built-in matrix)")
	sections := fs.String("sections", "", "comma-separated question types (tf,mc,sa)")
	limit := fs.Int("limit", 0, "max questions after filtering")
	results := fs.Int("n", 0, "number of retrieved chunks")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("must provide -input")
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	configs := bench.DefaultConfigs
	if *configPath != "" {
		configs, err = bench.LoadConfigs(*configPath)
		if err != nil {
			return err
		}
	}

	types, err := parseSections(*sections)
	if err != nil {
		return err
	}

	orch := bench.New(a.runner, a.log)
	summary, err := orch.RunFile(ctx, *input, configs, bench.Options{
		QuizID:   *quizID,
		Types:    types,
		Limit:    *limit,
		NResults: *results,
	})
	if err != nil {
		return err
	}

	printBenchTable(summary.Results)

	outPath := *output
	if outPath == "" {
		outPath = filepath.Join(a.cfg.ReportDir,
			"benchmark_"+time.Now().Format("20060102_150405")+".md")
	}
	reportPath, err := bench.WriteReport(summary.Results, outPath, summary.Title)
	if err != nil {
		return err
	}
	fmt.Printf("Report at: %s\n", reportPath)
	return nil
}

func cmdMultiBench(args []string) error {
	fs := flag.NewFlagSet("multibench", flag.ExitOnError)
	output := fs.String("output", "", "report file path")
	configPath := fs.String("configs", "", "YAML benchmark matrix (default: built-in matrix)")
	sections := fs.String("sections", "", "comma-separated question types (tf,mc,sa)")
	limit := fs.Int("limit", 0, "max questions per quiz after filtering")
	results := fs.Int("n", 0, "number of retrieved chunks")
	fs.Parse(args)

	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("usage: studyrag multibench [flags] <quiz files...>")
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	configs := bench.DefaultConfigs
	if *configPath != "" {
		configs, err = bench.LoadConfigs(*configPath)
		if err != nil {
			return err
		}
	}

	types, err := parseSections(*sections)
	if err != nil {
		return err
	}

	orch := bench.New(a.runner, a.log)
	summaries, err := orch.RunMulti(ctx, paths, configs, bench.Options{
		Types:    types,
		Limit:    *limit,
		NResults: *results,
	})
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return fmt.Errorf("no quizzes were successfully benchmarked")
	}

	for _, s := range summaries {
		fmt.Printf("\n%s\n", s.Title)
		printBenchTable(s.Results)
	}
	printAggregateTable(summaries)

	outPath := *output
	if outPath == "" {
		outPath = filepath.Join(a.cfg.ReportDir,
			"multibench_"+time.Now().Format("20060102_150405")+".md")
	}
	reportPath, err := bench.WriteMultiReport(summaries, outPath)
	if err != nil {
		return err
	}
	fmt.Printf("\nReport at: %s\n", reportPath)
	return nil
}

func cmdQuizzes(args []string) error {
	fs := flag.NewFlagSet("quizzes", flag.ExitOnError)
	input := fs.String("input", "", "JSON quiz file")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("must provide -input")
	}

	infos, err := quiz.ListQuizzes(*input)
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Printf("  %-20s %-40s %d questions\n", info.ID, info.Title, info.Questions)
	}
	return nil
}

func cmdStats(args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return a.printStats(ctx)
}

func (a *app) printStats(ctx context.Context) error {
	stats, err := index.GetStats(ctx, a.store)
	if err != nil {
		return err
	}

	fmt.Println("\nKnowledge Base Statistics")
	fmt.Printf("Total chunks: %d\n", stats.TotalChunks)
	fmt.Printf("Total documents: %d\n", stats.TotalDocuments)
	fmt.Println("\nIndexed Documents:")

	sources := make([]string, 0, len(stats.Sources))
	for s := range stats.Sources {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	for _, s := range sources {
		info := stats.Sources[s]
		fmt.Printf("  %s\n    Type: %s, Chunks: %d\n", s, info.Type, info.Chunks)
	}
	return nil
}

func parseSections(s string) (map[string]bool, error) {
	if s == "" {
		return nil, nil
	}
	types := make(map[string]bool)
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		code, ok := quiz.TypeAliases[name]
		if !ok {
			return nil, fmt.Errorf("unknown section type %q (valid: tf, mc, sa)", name)
		}
		types[code] = true
	}
	return types, nil
}

func printBenchTable(results []bench.Result) {
	fmt.Printf("\n  %-35s %6s %8s %8s %7s\n", "Config", "Acc", "Correct", "Time", "Per-Q")
	ranked := make([]bench.Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Accuracy > ranked[j].Score.Accuracy
	})
	for _, r := range ranked {
		gradable := r.Score.Total - r.Score.Ungraded
		perQ := 0.0
		if r.Score.Total > 0 {
			perQ = r.Elapsed.Seconds() / float64(r.Score.Total)
		}
		fmt.Printf("  %-35s %5.1f%% %4d/%-3d %7.1fs %6.1fs\n",
			r.Label, r.Score.Accuracy*100, r.Score.Correct, gradable,
			r.Elapsed.Seconds(), perQ)
	}
}

func printAggregateTable(summaries []bench.QuizSummary) {
	aggs := bench.AggregateByConfig(summaries)
	fmt.Printf("\nAggregate results (%d quizzes)\n", len(summaries))
	fmt.Printf("  %-35s %8s %8s\n", "Config", "Overall", "Time")
	for _, a := range aggs {
		fmt.Printf("  %-35s %6.1f%% %7.0fs\n", a.Label, a.Accuracy*100, a.Elapsed.Seconds())
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
