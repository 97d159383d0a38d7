package store

import (
	"context"
	"testing"
)

func seedMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	err := m.Add(context.Background(), []Record{
		{ID: "a_0", Text: "alpha", Vector: []float32{1, 0, 0}, Metadata: map[string]string{"source": "a.md", "file_hash": "a"}},
		{ID: "a_1", Text: "beta", Vector: []float32{0.9, 0.1, 0}, Metadata: map[string]string{"source": "a.md", "file_hash": "a"}},
		{ID: "b_0", Text: "gamma", Vector: []float32{0, 1, 0}, Metadata: map[string]string{"source": "b.md", "file_hash": "b"}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return m
}

func TestMemory_QueryRanksByCosine(t *testing.T) {
	m := seedMemory(t)

	hits, err := m.Query(context.Background(), []float32{1, 0, 0}, 2, nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != "a_0" || hits[1].ID != "a_1" {
		t.Errorf("unexpected ranking: %s, %s", hits[0].ID, hits[1].ID)
	}
	if hits[0].Score <= hits[1].Score {
		t.Errorf("scores not descending: %v, %v", hits[0].Score, hits[1].Score)
	}
}

func TestMemory_QueryFilter(t *testing.T) {
	m := seedMemory(t)

	hits, err := m.Query(context.Background(), []float32{1, 0, 0}, 10, map[string]string{"source": "b.md"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "b_0" {
		t.Errorf("unexpected filtered hits: %v", hits)
	}
}

func TestMemory_DeleteByFilter(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	if err := m.Delete(ctx, map[string]string{"file_hash": "a"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 record after delete, got %d", n)
	}
	records, err := m.Get(ctx, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(records) != 1 || records[0].ID != "b_0" {
		t.Errorf("unexpected survivors: %v", records)
	}
}

func TestMemory_GetByFilter(t *testing.T) {
	m := seedMemory(t)

	records, err := m.Get(context.Background(), map[string]string{"file_hash": "a"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosine(tt.a, tt.b)
			if got < tt.want-0.0001 || got > tt.want+0.0001 {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}
