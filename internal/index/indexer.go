// Package index ingests documents into the vector store.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"studyrag/internal/chunker"
	"studyrag/internal/convert"
	"studyrag/internal/llm"
	"studyrag/internal/store"
)

// Indexer chunks documents, embeds the chunks in batches and writes
// them to the vector store. Re-indexing an unchanged file is a no-op
// unless forced.
type Indexer struct {
	store     store.VectorStore
	embedder  llm.EmbeddingService
	log       *slog.Logger
	chunkCfg  chunker.Config
	batchSize int
}

func New(st store.VectorStore, embedder llm.EmbeddingService, log *slog.Logger, chunkCfg chunker.Config, batchSize int) *Indexer {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Indexer{
		store:     st,
		embedder:  embedder,
		log:       log,
		chunkCfg:  chunkCfg,
		batchSize: batchSize,
	}
}

// IndexFile ingests a single file, converting non-Markdown formats
// first. It returns the number of chunks written; 0 with a nil error
// means the file was already indexed and unchanged.
func (ix *Indexer) IndexFile(ctx context.Context, path string, force bool) (int, error) {
	filename := filepath.Base(path)
	if !convert.IsSupported(filename) {
		return 0, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	// The hash covers the raw file bytes, so conversion changes do not
	// invalidate previously indexed documents.
	hash := contentHash(data)

	indexed, err := ix.isIndexed(ctx, hash)
	if err != nil {
		return 0, err
	}
	if indexed && !force {
		ix.log.Info("file already indexed, skipping", "file", filename, "hash", hash[:12])
		return 0, nil
	}
	if indexed && force {
		if err := ix.store.Delete(ctx, map[string]string{"file_hash": hash}); err != nil {
			return 0, fmt.Errorf("delete stale chunks for %s: %w", filename, err)
		}
		ix.log.Info("re-indexing file", "file", filename, "hash", hash[:12])
	}

	conv, err := convert.ForFile(filename)
	if err != nil {
		return 0, err
	}
	markdown, err := conv.ToMarkdown(strings.NewReader(string(data)), filename)
	if err != nil {
		return 0, fmt.Errorf("convert %s: %w", filename, err)
	}

	chunks := chunker.ChunkMarkdown(markdown, filename, hash, ix.chunkCfg)
	if len(chunks) == 0 {
		ix.log.Warn("no content extracted", "file", filename)
		return 0, nil
	}

	// Converted formats keep their real type instead of "markdown".
	if dt := docTypeOverride(filename); dt != "" {
		applyDocType(chunks, dt)
	}

	stored, err := ix.embedAndStore(ctx, hash, chunks)
	if err != nil {
		return stored, err
	}
	ix.log.Info("indexed file", "file", filename, "chunks", stored)
	return stored, nil
}

// IndexDir ingests every supported file directly under dir. It returns
// the total chunk count and the number of files that contributed chunks.
func (ix *Indexer) IndexDir(ctx context.Context, dir string, force bool) (chunks, files int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && convert.IsSupported(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		n, err := ix.IndexFile(ctx, filepath.Join(dir, name), force)
		if err != nil {
			return chunks, files, fmt.Errorf("index %s: %w", name, err)
		}
		if n > 0 {
			chunks += n
			files++
		}
	}
	return chunks, files, nil
}

func (ix *Indexer) isIndexed(ctx context.Context, hash string) (bool, error) {
	existing, err := ix.store.Get(ctx, map[string]string{"file_hash": hash})
	if err != nil {
		return false, fmt.Errorf("check existing chunks: %w", err)
	}
	return len(existing) > 0, nil
}

// embedAndStore embeds chunks in batches. A failed batch is logged and
// skipped so one bad batch does not abort the whole document.
func (ix *Indexer) embedAndStore(ctx context.Context, hash string, chunks []chunker.Chunk) (int, error) {
	stored := 0
	for start := 0; start < len(chunks); start += ix.batchSize {
		end := min(start+ix.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			var unavailable *llm.ServiceUnavailableError
			if errors.As(err, &unavailable) {
				return stored, err
			}
			ix.log.Error("embedding batch failed, skipping", "start", start, "count", len(batch), "error", err)
			continue
		}
		if len(vectors) != len(batch) {
			ix.log.Error("embedding count mismatch, skipping batch", "start", start, "want", len(batch), "got", len(vectors))
			continue
		}

		records := make([]store.Record, len(batch))
		for i, c := range batch {
			records[i] = store.Record{
				ID:       fmt.Sprintf("%s_%d", hash, start+i),
				Text:     c.Text,
				Vector:   vectors[i],
				Metadata: c.Metadata,
			}
		}
		if err := ix.store.Add(ctx, records); err != nil {
			return stored, fmt.Errorf("store chunk batch: %w", err)
		}
		stored += len(records)
	}
	return stored, nil
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var pdfPageRe = regexp.MustCompile(`^Page (\d+)$`)

// applyDocType overrides the doc type for converted formats. PDF
// conversion renders each page as a "Page N" section, so the page
// number is lifted into its own metadata key for citation labels.
func applyDocType(chunks []chunker.Chunk, dt string) {
	for i := range chunks {
		chunks[i].Metadata["doc_type"] = dt
		if dt != chunker.DocTypePDF {
			continue
		}
		if m := pdfPageRe.FindStringSubmatch(chunks[i].Metadata["heading"]); m != nil {
			chunks[i].Metadata["page"] = m[1]
		}
	}
}

func docTypeOverride(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return chunker.DocTypePDF
	case ".docx":
		return chunker.DocTypeDOCX
	case ".html", ".htm":
		return chunker.DocTypeHTML
	}
	return ""
}
