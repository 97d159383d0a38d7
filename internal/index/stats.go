package index

import (
	"context"
	"fmt"

	"studyrag/internal/store"
)

// SourceStats describes one indexed document.
type SourceStats struct {
	Type   string `json:"type"`
	Chunks int    `json:"chunks"`
}

// Stats summarizes the contents of the vector store.
type Stats struct {
	TotalChunks    int                    `json:"total_chunks"`
	TotalDocuments int                    `json:"total_documents"`
	Sources        map[string]SourceStats `json:"sources"`
}

// GetStats reports chunk and document counts grouped by source file.
func GetStats(ctx context.Context, st store.VectorStore) (Stats, error) {
	records, err := st.Get(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("list chunks: %w", err)
	}

	stats := Stats{Sources: make(map[string]SourceStats)}
	hashes := make(map[string]bool)
	for _, r := range records {
		stats.TotalChunks++
		hashes[r.Metadata["file_hash"]] = true

		source := r.Metadata["source"]
		s := stats.Sources[source]
		s.Chunks++
		if s.Type == "" {
			s.Type = r.Metadata["doc_type"]
		}
		stats.Sources[source] = s
	}
	stats.TotalDocuments = len(hashes)
	return stats, nil
}
