package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"studyrag/internal/api"
	"studyrag/internal/ask"
	"studyrag/internal/chunker"
	"studyrag/internal/config"
	"studyrag/internal/index"
	"studyrag/internal/llm"
	"studyrag/internal/quiz"
	"studyrag/internal/store"
)

func main() {
	godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ollama, err := llm.NewOllama(cfg.OllamaHost, cfg.EmbedModel)
	if err != nil {
		log.Error("invalid ollama host", "error", err)
		os.Exit(1)
	}
	if err := ollama.CheckConnection(ctx); err != nil {
		log.Error("ollama unreachable", "error", err)
		os.Exit(1)
	}

	var st store.VectorStore
	var closeStore func()
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL, cfg.EmbedDimension)
		if err != nil {
			log.Error("database init failed", "error", err)
			os.Exit(1)
		}
		st = pg
		closeStore = pg.Close
		log.Info("using postgres vector store")
	} else {
		st = store.NewMemory()
		closeStore = func() {}
		log.Warn("DATABASE_URL not set, using in-memory store (data is not persisted)")
	}

	chunkCfg := chunker.Config{MaxSize: cfg.ChunkSize, Overlap: cfg.ChunkOverlap}
	indexer := index.New(st, ollama, log, chunkCfg, cfg.EmbedBatchSize)
	retriever := ask.NewRetriever(st, ollama)
	asker := ask.NewService(retriever, ollama, cfg, log)
	runner := quiz.NewRunner(ollama, retriever, cfg, log)

	srv := api.NewServer(indexer, asker, runner, st, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		closeStore()
	}()

	log.Info("starting studyrag server", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
