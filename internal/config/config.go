package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"studyrag/internal/llm"
)

type Config struct {
	Port string

	// Database; empty means the in-memory store.
	DatabaseURL string

	// Ollama
	OllamaHost     string
	EmbedModel     string
	EmbedDimension int

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Indexing
	EmbedBatchSize int

	// Retrieval
	NResults int

	// Chat
	DefaultMode  string
	HistoryTurns int
	NumThread    int

	// Output locations
	ReportDir string
	UploadDir string

	// Auth; empty disables the check.
	APIKey string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		OllamaHost:     envOr("OLLAMA_HOST", "http://localhost:11434"),
		EmbedModel:     envOr("EMBED_MODEL", "nomic-embed-text"),
		EmbedDimension: envInt("EMBED_DIMENSION", 768),

		ChunkSize:    envInt("CHUNK_SIZE", 1500),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 200),

		EmbedBatchSize: envInt("EMBEDDING_BATCH_SIZE", 50),

		NResults: envInt("N_RESULTS", 5),

		DefaultMode:  envOr("CHAT_MODE", "qwen-7b"),
		HistoryTurns: envInt("HISTORY_TURNS", 6),
		NumThread:    envInt("NUM_THREAD", 0),

		ReportDir: envOr("REPORT_DIR", "results"),
		UploadDir: envOr("UPLOAD_DIR", "uploads"),

		APIKey: os.Getenv("STUDYRAG_API_KEY"),
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = 50
	}
	if cfg.NResults <= 0 {
		cfg.NResults = 5
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 6
	}

	return cfg
}

func (c Config) Validate() error {
	if _, ok := Modes[c.DefaultMode]; !ok {
		return fmt.Errorf("unknown CHAT_MODE %q (available: %v)", c.DefaultMode, ModeNames())
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Mode maps a short alias to an Ollama model with tuned runtime options.
type Mode struct {
	Model    string
	NumCtx   int
	NumBatch int
}

var Modes = map[string]Mode{
	"llama3-3b":  {Model: "llama3.2:3b", NumCtx: 8192, NumBatch: 512},
	"llama3-8b":  {Model: "llama3.1:8b", NumCtx: 8192, NumBatch: 512},
	"mistral-7b": {Model: "mistral:7b", NumCtx: 8192, NumBatch: 512},
	"gemma2-9b":  {Model: "gemma2:9b", NumCtx: 8192, NumBatch: 256},
	"qwen-7b":    {Model: "qwen2.5-coder:7b", NumCtx: 8192, NumBatch: 512},
	"qwen-14b":   {Model: "qwen2.5-coder:14b", NumCtx: 8192, NumBatch: 256},
	"phi4-14b":   {Model: "phi4:14b", NumCtx: 8192, NumBatch: 256},
}

// ModeNames returns the available mode aliases, sorted.
func ModeNames() []string {
	names := make([]string, 0, len(Modes))
	for name := range Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveMode looks up a mode alias, falling back to an error listing
// the valid names.
func ResolveMode(name string) (Mode, error) {
	m, ok := Modes[name]
	if !ok {
		return Mode{}, fmt.Errorf("unknown mode %q (available: %v)", name, ModeNames())
	}
	return m, nil
}

// ChatOptions builds generation options for interactive answering.
func (c Config) ChatOptions(mode Mode) llm.Options {
	return llm.Options{
		NumCtx:      mode.NumCtx,
		NumBatch:    mode.NumBatch,
		NumThread:   c.NumThread,
		Temperature: 0.7,
	}
}

// QuizOptions builds deterministic generation options for quiz answering.
// numPredict caps the response length per question type.
func (c Config) QuizOptions(mode Mode, numPredict int) llm.Options {
	return llm.Options{
		NumCtx:      mode.NumCtx,
		NumBatch:    mode.NumBatch,
		NumThread:   c.NumThread,
		NumPredict:  numPredict,
		Temperature: 0,
	}
}

// Response length caps per question type.
const (
	NumPredictTF = 256
	NumPredictMC = 256
	NumPredictSA = 512
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
