// Command studyrag is the CLI for the RAG study companion: document
// ingestion, question answering, quizzes and benchmarks.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"studyrag/internal/ask"
	"studyrag/internal/chunker"
	"studyrag/internal/config"
	"studyrag/internal/index"
	"studyrag/internal/llm"
	"studyrag/internal/quiz"
	"studyrag/internal/store"
)

const usage = `Usage: studyrag <command> [flags]

Commands:
  ingest       Ingest a file or directory into the knowledge base
  ask          Ask a single question
  interactive  Interactive Q&A session with conversation history
  quiz         Run a quiz file through the model and grade it
  bench        Benchmark a quiz across model/configuration combos
  multibench   Benchmark several quiz files with an aggregate report
  quizzes      List the quizzes inside a JSON quiz file
  stats        Show knowledge base statistics

Run 'studyrag <command> -h' for command flags.
`

// app bundles the wired services the commands share.
type app struct {
	cfg       config.Config
	log       *slog.Logger
	ollama    *llm.Ollama
	store     store.VectorStore
	indexer   *index.Indexer
	retriever *ask.Retriever
	asker     *ask.Service
	runner    *quiz.Runner
	close     func()
}

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "ingest":
		err = cmdIngest(args)
	case "ask":
		err = cmdAsk(args)
	case "interactive":
		err = cmdInteractive(args)
	case "quiz":
		err = cmdQuiz(args)
	case "bench":
		err = cmdBench(args)
	case "multibench":
		err = cmdMultiBench(args)
	case "quizzes":
		err = cmdQuizzes(args)
	case "stats":
		err = cmdStats(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp wires the shared services. The Ollama connection is verified
// up front so every command fails fast with a remediation hint.
func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ollama, err := llm.NewOllama(cfg.OllamaHost, cfg.EmbedModel)
	if err != nil {
		return nil, err
	}
	if err := ollama.CheckConnection(ctx); err != nil {
		return nil, err
	}

	var st store.VectorStore
	closeStore := func() {}
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL, cfg.EmbedDimension)
		if err != nil {
			return nil, err
		}
		st = pg
		closeStore = pg.Close
	} else {
		st = store.NewMemory()
		fmt.Fprintln(os.Stderr, "Warning: DATABASE_URL not set, using in-memory store (data is not persisted)")
	}

	chunkCfg := chunker.Config{MaxSize: cfg.ChunkSize, Overlap: cfg.ChunkOverlap}
	retriever := ask.NewRetriever(st, ollama)

	return &app{
		cfg:       cfg,
		log:       log,
		ollama:    ollama,
		store:     st,
		indexer:   index.New(st, ollama, log, chunkCfg, cfg.EmbedBatchSize),
		retriever: retriever,
		asker:     ask.NewService(retriever, ollama, cfg, log),
		runner:    quiz.NewRunner(ollama, retriever, cfg, log),
		close:     closeStore,
	}, nil
}
