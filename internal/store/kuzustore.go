//go:build cgo

package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements Store on top of an embedded, in-memory KuzuDB.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
// Blobs are kept base64-encoded in a STRING column.
type KuzuStore struct {
	mu   sync.Mutex // serializes use of conn
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

const blobTableDDL = `CREATE NODE TABLE IF NOT EXISTS Blob(
	id STRING,
	data STRING,
	PRIMARY KEY(id)
)`

// NewKuzuStore creates a KuzuStore backed by a fresh in-memory KuzuDB
// instance with its schema initialized.
func NewKuzuStore() (Store, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}

	s := &KuzuStore{db: db, conn: conn}
	res, err := conn.Query(blobTableDDL)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("kuzu: init schema: %w", err)
	}
	res.Close()
	return s, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return nil
}

// Save upserts the blob node for id.
func (s *KuzuStore) Save(_ context.Context, id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.exec(
		`MERGE (b:Blob {id: $id})
		 ON CREATE SET b.data = $data
		 ON MATCH SET b.data = $data`,
		map[string]any{
			"id":   id,
			"data": base64.StdEncoding.EncodeToString(data),
		},
	)
}

// Find looks up the blob node for id.
func (s *KuzuStore) Find(_ context.Context, id string) ([]byte, bool, error) {
	if err := checkID(id); err != nil {
		return nil, false, err
	}
	rows, err := s.query(
		"MATCH (b:Blob {id: $id}) RETURN b.data",
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	encoded, ok := rows[0][0].(string)
	if !ok {
		return nil, false, fmt.Errorf("kuzu: unexpected data type %T for %q", rows[0][0], id)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("kuzu: decode blob %q: %w", id, err)
	}
	return data, true, nil
}

// Remove deletes the blob node for id, if any.
func (s *KuzuStore) Remove(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.exec(
		"MATCH (b:Blob {id: $id}) DELETE b",
		map[string]any{"id": id},
	)
}

// ---------- Helpers ----------

// exec runs a parameterized Cypher statement that returns no rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("kuzu: store closed")
	}

	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, fmt.Errorf("kuzu: store closed")
	}

	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return nil, fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}
