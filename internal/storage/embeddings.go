// Package storage persists resolved embeddings in SQLite so the cache can
// survive process restarts.
package storage

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	_ "modernc.org/sqlite"
)

// EmbeddingStore is a sqlite-backed embedding.Store. Rows are keyed by the
// exact input text and scoped to one model, so switching models never
// serves stale vectors.
type EmbeddingStore struct {
	db    *sql.DB
	model string
}

// OpenEmbeddingStore opens or creates the store at path for the given
// model.
func OpenEmbeddingStore(path, model string) (*EmbeddingStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening embedding store: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating embedding schema: %w", err)
	}

	return &EmbeddingStore{db: db, model: model}, nil
}

// Close closes the underlying database.
func (s *EmbeddingStore) Close() error {
	return s.db.Close()
}

// createSchema creates the embeddings table if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS embeddings (
			text TEXT NOT NULL,
			model TEXT NOT NULL,
			dims INTEGER NOT NULL,
			vector BLOB NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (unixepoch()),
			PRIMARY KEY (text, model)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the stored vector for the exact text under this store's
// model.
func (s *EmbeddingStore) Get(text string) ([]float32, bool, error) {
	var dims int
	var blob []byte
	err := s.db.QueryRow(
		`SELECT dims, vector FROM embeddings WHERE text = ? AND model = ?`,
		text, s.model,
	).Scan(&dims, &blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying embedding: %w", err)
	}

	vec, err := decodeVector(blob, dims)
	if err != nil {
		return nil, false, fmt.Errorf("decoding embedding for %q: %w", text, err)
	}
	return vec, true, nil
}

// Put stores a vector under the exact text, replacing any previous row.
func (s *EmbeddingStore) Put(text string, vector []float32) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO embeddings (text, model, dims, vector) VALUES (?, ?, ?, ?)`,
		text, s.model, len(vector), encodeVector(vector),
	)
	if err != nil {
		return fmt.Errorf("storing embedding for %q: %w", text, err)
	}
	return nil
}

// Clear removes all vectors for this store's model.
func (s *EmbeddingStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM embeddings WHERE model = ?`, s.model); err != nil {
		return fmt.Errorf("clearing embeddings: %w", err)
	}
	return nil
}

// Count returns the number of stored vectors for this store's model.
func (s *EmbeddingStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM embeddings WHERE model = ?`, s.model).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// encodeVector packs a vector as little-endian float32 bits.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

// decodeVector unpacks a little-endian float32 blob.
func decodeVector(blob []byte, dims int) ([]float32, error) {
	if len(blob) != 4*dims {
		return nil, fmt.Errorf("blob holds %d bytes, want %d for %d dims", len(blob), 4*dims, dims)
	}
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}
