// Package ask answers questions over the indexed corpus, with optional
// retrieval context and conversation history.
package ask

import (
	"context"
	"fmt"
	"strings"

	"studyrag/internal/llm"
	"studyrag/internal/store"
)

// Retriever embeds a question and finds the most similar chunks.
type Retriever struct {
	store    store.VectorStore
	embedder llm.EmbeddingService
}

func NewRetriever(st store.VectorStore, embedder llm.EmbeddingService) *Retriever {
	return &Retriever{store: st, embedder: embedder}
}

// Query returns the n most similar chunks. source, when non-empty,
// restricts results to one document.
func (r *Retriever) Query(ctx context.Context, question string, n int, source string) ([]store.Hit, error) {
	vectors, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed question: got %d vectors, want 1", len(vectors))
	}

	var filter map[string]string
	if source != "" {
		filter = map[string]string{"source": source}
	}
	hits, err := r.store.Query(ctx, vectors[0], n, filter)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	return hits, nil
}

// Context retrieves the n most similar chunk texts joined as one plain
// block, for callers that format their own prompts. An empty corpus
// yields an empty string.
func (r *Retriever) Context(ctx context.Context, question string, n int) (string, error) {
	hits, err := r.Query(ctx, question, n, "")
	if err != nil {
		return "", err
	}
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
	}
	return strings.Join(texts, "\n"), nil
}
