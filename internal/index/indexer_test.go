package index

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studyrag/internal/chunker"
	"studyrag/internal/llm"
	"studyrag/internal/store"
)

type fakeEmbedder struct {
	calls       int
	fail        bool
	unavailable bool
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.unavailable {
		return nil, &llm.ServiceUnavailableError{
			Host: "http://localhost:11434",
			Err:  errors.New("connection refused"),
		}
	}
	if f.fail {
		return nil, errors.New("embedding backend down")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 1, 0}
	}
	return out, nil
}

func testIndexer(st store.VectorStore, emb *fakeEmbedder) *Indexer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, emb, log, chunker.DefaultConfig(), 50)
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

const doc = "# Guide\n\nSome intro text.\n\n## Setup\n\nInstall the thing."

func TestIndexFile_StoresChunksWithMetadata(t *testing.T) {
	mem := store.NewMemory()
	emb := &fakeEmbedder{}
	ix := testIndexer(mem, emb)
	ctx := context.Background()

	path := writeDoc(t, t.TempDir(), "guide.md", doc)

	n, err := ix.IndexFile(ctx, path, false)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 chunks, got %d", n)
	}

	records, err := mem.Get(ctx, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		if r.Metadata["source"] != "guide.md" {
			t.Errorf("unexpected source: %q", r.Metadata["source"])
		}
		hash := r.Metadata["file_hash"]
		if hash == "" || !strings.HasPrefix(r.ID, hash+"_") {
			t.Errorf("record id %q should be prefixed with the file hash %q", r.ID, hash)
		}
	}
}

func TestIndexFile_SecondRunIsNoop(t *testing.T) {
	mem := store.NewMemory()
	emb := &fakeEmbedder{}
	ix := testIndexer(mem, emb)
	ctx := context.Background()

	path := writeDoc(t, t.TempDir(), "guide.md", doc)

	if _, err := ix.IndexFile(ctx, path, false); err != nil {
		t.Fatalf("first index: %v", err)
	}
	embedCalls := emb.calls

	n, err := ix.IndexFile(ctx, path, false)
	if err != nil {
		t.Fatalf("second index: %v", err)
	}
	if n != 0 {
		t.Errorf("unchanged file should be skipped, got %d chunks", n)
	}
	if emb.calls != embedCalls {
		t.Errorf("skip should not embed anything, calls went %d -> %d", embedCalls, emb.calls)
	}
}

func TestIndexFile_ForceReplacesWithoutStaleRecords(t *testing.T) {
	mem := store.NewMemory()
	emb := &fakeEmbedder{}
	ix := testIndexer(mem, emb)
	ctx := context.Background()

	path := writeDoc(t, t.TempDir(), "guide.md", doc)

	if _, err := ix.IndexFile(ctx, path, false); err != nil {
		t.Fatalf("first index: %v", err)
	}
	n, err := ix.IndexFile(ctx, path, true)
	if err != nil {
		t.Fatalf("forced index: %v", err)
	}
	if n != 2 {
		t.Errorf("force should re-index, got %d chunks", n)
	}

	count, err := mem.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("forced re-index left stale records: %d", count)
	}
}

func TestIndexFile_EmbeddingFailureSkipsBatch(t *testing.T) {
	mem := store.NewMemory()
	emb := &fakeEmbedder{fail: true}
	ix := testIndexer(mem, emb)
	ctx := context.Background()

	path := writeDoc(t, t.TempDir(), "guide.md", doc)

	n, err := ix.IndexFile(ctx, path, false)
	if err != nil {
		t.Fatalf("batch failure should not abort the document: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 stored chunks, got %d", n)
	}
}

func TestIndexFile_UnreachableBackendAborts(t *testing.T) {
	mem := store.NewMemory()
	emb := &fakeEmbedder{unavailable: true}
	ix := testIndexer(mem, emb)
	ctx := context.Background()

	path := writeDoc(t, t.TempDir(), "guide.md", doc)

	_, err := ix.IndexFile(ctx, path, false)
	var unavailable *llm.ServiceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("a dead backend must abort the operation with the connectivity error, got %v", err)
	}

	count, cerr := mem.Count(ctx)
	if cerr != nil {
		t.Fatalf("count: %v", cerr)
	}
	if count != 0 {
		t.Errorf("no chunks should be stored after an aborted index, got %d", count)
	}
}

func TestIndexFile_UnsupportedExtension(t *testing.T) {
	ix := testIndexer(store.NewMemory(), &fakeEmbedder{})
	path := writeDoc(t, t.TempDir(), "data.xyz", "whatever")

	if _, err := ix.IndexFile(context.Background(), path, false); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}

func TestIndexDir(t *testing.T) {
	mem := store.NewMemory()
	ix := testIndexer(mem, &fakeEmbedder{})
	ctx := context.Background()

	dir := t.TempDir()
	writeDoc(t, dir, "one.md", "# One\n\nbody one")
	writeDoc(t, dir, "two.md", "# Two\n\nbody two")
	writeDoc(t, dir, "skip.xyz", "unsupported")

	chunks, files, err := ix.IndexDir(ctx, dir, false)
	if err != nil {
		t.Fatalf("index dir: %v", err)
	}
	if files != 2 {
		t.Errorf("expected 2 files, got %d", files)
	}
	if chunks != 2 {
		t.Errorf("expected 2 chunks, got %d", chunks)
	}
}

func TestApplyDocType_PDFPageMetadata(t *testing.T) {
	chunks := []chunker.Chunk{
		{Metadata: map[string]string{"heading": "Page 3", "doc_type": "markdown"}},
		{Metadata: map[string]string{"heading": "Introduction", "doc_type": "markdown"}},
	}
	applyDocType(chunks, chunker.DocTypePDF)

	if chunks[0].Metadata["doc_type"] != chunker.DocTypePDF {
		t.Errorf("doc type not overridden: %q", chunks[0].Metadata["doc_type"])
	}
	if chunks[0].Metadata["page"] != "3" {
		t.Errorf("page heading should yield page metadata, got %q", chunks[0].Metadata["page"])
	}
	if _, ok := chunks[1].Metadata["page"]; ok {
		t.Error("non-page heading should not get page metadata")
	}

	htmlChunks := []chunker.Chunk{
		{Metadata: map[string]string{"heading": "Page 2", "doc_type": "markdown"}},
	}
	applyDocType(htmlChunks, chunker.DocTypeHTML)
	if _, ok := htmlChunks[0].Metadata["page"]; ok {
		t.Error("page metadata is pdf-only")
	}
}

func TestGetStats(t *testing.T) {
	mem := store.NewMemory()
	ix := testIndexer(mem, &fakeEmbedder{})
	ctx := context.Background()

	dir := t.TempDir()
	writeDoc(t, dir, "one.md", "# One\n\nbody one")
	writeDoc(t, dir, "two.md", "# Two\n\nbody two\n\n## More\n\nbody more")
	if _, _, err := ix.IndexDir(ctx, dir, false); err != nil {
		t.Fatalf("index dir: %v", err)
	}

	stats, err := GetStats(ctx, mem)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalChunks != 3 {
		t.Errorf("expected 3 chunks, got %d", stats.TotalChunks)
	}
	if stats.TotalDocuments != 2 {
		t.Errorf("expected 2 documents, got %d", stats.TotalDocuments)
	}
	if s := stats.Sources["two.md"]; s.Chunks != 2 || s.Type != "markdown" {
		t.Errorf("unexpected source stats: %+v", s)
	}
}
