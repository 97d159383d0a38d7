package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// Ollama implements EmbeddingService and ChatService against a local or
// remote Ollama server.
type Ollama struct {
	client     *api.Client
	host       string
	embedModel string
}

// NewOllama creates a client for the given host (e.g. "http://localhost:11434").
func NewOllama(host, embedModel string) (*Ollama, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}
	return &Ollama{
		client:     api.NewClient(u, http.DefaultClient),
		host:       host,
		embedModel: embedModel,
	}, nil
}

// CheckConnection verifies the server is reachable. Returns a
// ServiceUnavailableError when it is not, so callers can print remediation.
func (o *Ollama) CheckConnection(ctx context.Context) error {
	if _, err := o.client.List(ctx); err != nil {
		return &ServiceUnavailableError{Host: o.host, Err: err}
	}
	return nil
}

// Embed generates embeddings for a batch of texts. It tries the batch
// endpoint first and falls back to one-at-a-time requests, so callers may
// pass a single-element slice when a batch fails.
func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.Embed(ctx, &api.EmbedRequest{
		Model: o.embedModel,
		Input: texts,
	})
	if err == nil && len(resp.Embeddings) == len(texts) {
		return resp.Embeddings, nil
	}
	if isTransport(err) {
		return nil, &ServiceUnavailableError{Host: o.host, Err: err}
	}

	// Fall back to the single-prompt endpoint.
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		single, serr := o.client.Embeddings(ctx, &api.EmbeddingRequest{
			Model:  o.embedModel,
			Prompt: text,
		})
		if serr != nil {
			if isTransport(serr) {
				return nil, &ServiceUnavailableError{Host: o.host, Err: serr}
			}
			return nil, fmt.Errorf("embed text: %w", serr)
		}
		vec := make([]float32, len(single.Embedding))
		for i, x := range single.Embedding {
			vec[i] = float32(x)
		}
		out = append(out, vec)
	}
	return out, nil
}

// Generate produces a complete response for the prompt.
func (o *Ollama) Generate(ctx context.Context, model, prompt string, opts Options) (string, error) {
	return o.Stream(ctx, model, prompt, opts, nil)
}

// Stream produces a response, delivering fragments through emit as they
// arrive. emit may be nil.
func (o *Ollama) Stream(ctx context.Context, model, prompt string, opts Options, emit func(string)) (string, error) {
	req := &api.GenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Options: opts.toMap(),
	}

	var full strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		full.WriteString(resp.Response)
		if emit != nil && resp.Response != "" {
			emit(resp.Response)
		}
		return nil
	})
	if err != nil {
		if isTransport(err) {
			return "", &ServiceUnavailableError{Host: o.host, Err: err}
		}
		return "", fmt.Errorf("generate response: %w", err)
	}
	return full.String(), nil
}

// isTransport reports whether err is a connection-level failure rather
// than a response from a reachable server. http.Client wraps those in
// *url.Error, so a match means the backend never answered and callers
// should treat the service as unavailable instead of skipping the item.
func isTransport(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func (o Options) toMap() map[string]any {
	m := map[string]any{
		"temperature": o.Temperature,
	}
	if o.NumCtx > 0 {
		m["num_ctx"] = o.NumCtx
	}
	if o.NumBatch > 0 {
		m["num_batch"] = o.NumBatch
	}
	if o.NumThread > 0 {
		m["num_thread"] = o.NumThread
	}
	if o.NumPredict > 0 {
		m["num_predict"] = o.NumPredict
	}
	return m
}
