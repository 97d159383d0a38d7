package store

import "context"

// Record is one stored chunk with its embedding and metadata.
type Record struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata map[string]string
}

// Hit is a single query result ranked by cosine similarity.
type Hit struct {
	ID       string
	Text     string
	Metadata map[string]string
	Score    float32
}

// VectorStore persists chunk vectors and supports nearest-neighbor search.
// Filters are exact-match over metadata keys (e.g. source, file_hash);
// a nil or empty filter matches everything.
type VectorStore interface {
	Add(ctx context.Context, records []Record) error
	Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]Hit, error)
	Delete(ctx context.Context, filter map[string]string) error
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, filter map[string]string) ([]Record, error)
}
