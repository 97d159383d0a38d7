package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// metadata keys persisted as dedicated columns, in insert order
var metadataColumns = []string{
	"source",
	"file_hash",
	"doc_type",
	"heading",
	"heading_level",
	"breadcrumb",
	"chunk_index_in_section",
	"section_index",
	"page",
}

// Postgres is a pgvector-backed VectorStore.
type Postgres struct {
	pool      *pgxpool.Pool
	dimension int
}

// NewPostgres connects to the database and ensures the schema exists.
// dimension is the embedding vector width and must match the embed model.
func NewPostgres(ctx context.Context, connStr string, dimension int) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := &Postgres{pool: pool, dimension: dimension}
	if err := p.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) initialize(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS doc_chunks (
            id TEXT PRIMARY KEY,
            content TEXT NOT NULL,
            source TEXT NOT NULL DEFAULT '',
            file_hash TEXT NOT NULL DEFAULT '',
            doc_type TEXT NOT NULL DEFAULT '',
            heading TEXT NOT NULL DEFAULT '',
            heading_level TEXT NOT NULL DEFAULT '',
            breadcrumb TEXT NOT NULL DEFAULT '',
            chunk_index_in_section TEXT NOT NULL DEFAULT '',
            section_index TEXT NOT NULL DEFAULT '',
            page TEXT NOT NULL DEFAULT '',
            embedding vector(%d) NOT NULL
        )
    `, p.dimension))
	if err != nil {
		return fmt.Errorf("create doc_chunks table: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
        CREATE INDEX IF NOT EXISTS doc_chunks_embedding_idx ON doc_chunks
        USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
        CREATE INDEX IF NOT EXISTS doc_chunks_file_hash_idx ON doc_chunks (file_hash);
        CREATE INDEX IF NOT EXISTS doc_chunks_source_idx ON doc_chunks (source);
    `)
	if err != nil {
		return fmt.Errorf("create doc_chunks indexes: %w", err)
	}
	return nil
}

func (p *Postgres) Add(ctx context.Context, records []Record) error {
	for _, r := range records {
		args := []any{r.ID, r.Text}
		for _, col := range metadataColumns {
			args = append(args, r.Metadata[col])
		}
		args = append(args, vectorLiteral(r.Vector))

		_, err := p.pool.Exec(ctx, `
            INSERT INTO doc_chunks (
                id, content, source, file_hash, doc_type, heading,
                heading_level, breadcrumb, chunk_index_in_section,
                section_index, page, embedding
            )
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
            ON CONFLICT (id) DO UPDATE SET
                content = EXCLUDED.content,
                embedding = EXCLUDED.embedding
        `, args...)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", r.ID, err)
		}
	}
	return nil
}

func (p *Postgres) Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]Hit, error) {
	if k <= 0 {
		k = 5
	}
	where, args, err := buildFilter(filter, 2)
	if err != nil {
		return nil, err
	}
	args = append([]any{vectorLiteral(vector)}, args...)
	args = append(args, k)

	query := fmt.Sprintf(`
        SELECT id, content, source, file_hash, doc_type, heading,
               heading_level, breadcrumb, chunk_index_in_section,
               section_index, page,
               1 - (embedding <=> $1) AS score
        FROM doc_chunks
        %s
        ORDER BY embedding <=> $1
        LIMIT $%d
    `, where, len(args))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query similar chunks: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		cols := make([]string, len(metadataColumns))
		dest := []any{&h.ID, &h.Text}
		for i := range cols {
			dest = append(dest, &cols[i])
		}
		dest = append(dest, &h.Score)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		h.Metadata = metadataFromColumns(cols)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}
	return hits, nil
}

func (p *Postgres) Delete(ctx context.Context, filter map[string]string) error {
	where, args, err := buildFilter(filter, 1)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, "DELETE FROM doc_chunks "+where, args...)
	if err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM doc_chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func (p *Postgres) Get(ctx context.Context, filter map[string]string) ([]Record, error) {
	where, args, err := buildFilter(filter, 1)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
        SELECT id, content, source, file_hash, doc_type, heading,
               heading_level, breadcrumb, chunk_index_in_section,
               section_index, page
        FROM doc_chunks %s
    `, where)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		cols := make([]string, len(metadataColumns))
		dest := []any{&r.ID, &r.Text}
		for i := range cols {
			dest = append(dest, &cols[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		r.Metadata = metadataFromColumns(cols)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}
	return records, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// buildFilter turns an exact-match metadata filter into a WHERE clause.
// Only known metadata columns are accepted.
func buildFilter(filter map[string]string, firstArg int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	var clauses []string
	var args []any
	for _, col := range metadataColumns {
		v, ok := filter[col]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, firstArg+len(args)))
		args = append(args, v)
	}
	if len(clauses) != len(filter) {
		return "", nil, fmt.Errorf("unsupported filter keys in %v", filter)
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, nil
}

func metadataFromColumns(cols []string) map[string]string {
	m := make(map[string]string, len(cols))
	for i, col := range metadataColumns {
		if cols[i] != "" {
			m[col] = cols[i]
		}
	}
	return m
}

// vectorLiteral renders a vector in pgvector's text input format.
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%g", x)
	}
	b.WriteByte(']')
	return b.String()
}
