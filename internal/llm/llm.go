package llm

import (
	"context"
	"fmt"
)

// EmbeddingService converts texts into embedding vectors.
type EmbeddingService interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Options tune a single generation call.
type Options struct {
	NumCtx      int
	NumBatch    int
	NumThread   int
	NumPredict  int
	Temperature float64
}

// ChatService generates text from a prompt. Generate returns the complete
// response; Stream additionally delivers incremental fragments through emit
// before returning the same complete response.
type ChatService interface {
	Generate(ctx context.Context, model, prompt string, opts Options) (string, error)
	Stream(ctx context.Context, model, prompt string, opts Options, emit func(token string)) (string, error)
}

// ServiceUnavailableError indicates the model backend cannot be reached.
// Operations that need embedding or generation cannot proceed, so callers
// should surface the remediation hint rather than retry per item.
type ServiceUnavailableError struct {
	Host string
	Err  error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("cannot connect to ollama at %s (is it running? try: ollama serve): %v", e.Host, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Err }
