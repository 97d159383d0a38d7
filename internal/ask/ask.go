package ask

import (
	"context"
	"fmt"
	"log/slog"

	"studyrag/internal/config"
	"studyrag/internal/llm"
)

// the grounded-mode reply when retrieval finds nothing
const noDocumentsMessage = "No relevant documents found in the knowledge base."

// Service answers questions with retrieval-augmented generation.
type Service struct {
	retriever *Retriever
	chat      llm.ChatService
	cfg       config.Config
	log       *slog.Logger
}

func NewService(retriever *Retriever, chat llm.ChatService, cfg config.Config, log *slog.Logger) *Service {
	return &Service{retriever: retriever, chat: chat, cfg: cfg, log: log}
}

// AskOptions control one question.
type AskOptions struct {
	// Mode selects the model alias; empty uses the configured default.
	Mode string
	// NResults is the retrieval depth; 0 uses the configured default.
	NResults int
	// History, when non-nil, adds prior turns to the prompt and records
	// this exchange.
	History *History
	// Grounded restricts the answer to retrieved excerpts. When false
	// the model may supplement from its own knowledge.
	Grounded bool
}

// Ask answers a question. Response fragments stream through emit as
// they arrive (emit may be nil); the citation block is emitted last.
// The returned string is the complete answer including citations.
func (s *Service) Ask(ctx context.Context, question string, opts AskOptions, emit func(string)) (string, error) {
	modeName := opts.Mode
	if modeName == "" {
		modeName = s.cfg.DefaultMode
	}
	mode, err := config.ResolveMode(modeName)
	if err != nil {
		return "", err
	}
	n := opts.NResults
	if n <= 0 {
		n = s.cfg.NResults
	}

	hits, err := s.retriever.Query(ctx, question, n, "")
	if err != nil {
		return "", err
	}
	if len(hits) == 0 && opts.Grounded {
		if emit != nil {
			emit(noDocumentsMessage)
		}
		return noDocumentsMessage, nil
	}

	prompt := BuildPrompt(question, hits, opts.History, opts.Grounded)
	s.log.Debug("asking question", "mode", modeName, "results", len(hits), "grounded", opts.Grounded)

	answer, err := s.chat.Stream(ctx, mode.Model, prompt, s.cfg.ChatOptions(mode), emit)
	if err != nil {
		return "", fmt.Errorf("generate answer (is %q installed? try: ollama pull %s): %w",
			mode.Model, mode.Model, err)
	}

	if opts.History != nil {
		opts.History.Add(question, answer)
	}

	sources := ""
	if len(hits) > 0 {
		sources = SourcesBlock(hits)
		if emit != nil {
			emit(sources)
		}
	}
	return answer + sources, nil
}
