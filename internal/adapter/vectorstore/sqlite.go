package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// SQLite persists chunks in a local SQLite file and serves queries from an
// in-memory copy loaded at open.
type SQLite struct {
	db  *sql.DB
	mem *Memory
}

// OpenSQLite opens (creating if needed) the index at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("vectorstore: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, mem: NewMemory()}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("vectorstore migrate: %w", err)
	}
	if err := s.loadAll(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("vectorstore load: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS contract_chunks (
			id           TEXT PRIMARY KEY,
			contract_id  TEXT NOT NULL,
			user_id      TEXT NOT NULL,
			chunk_index  INTEGER NOT NULL,
			total_chunks INTEGER NOT NULL,
			text         TEXT NOT NULL,
			embedding    BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_contract_chunks_contract ON contract_chunks (contract_id);
	`)
	return err
}

func (s *SQLite) loadAll(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, contract_id, user_id, chunk_index, total_chunks, text, embedding FROM contract_chunks`)
	if err != nil {
		return err
	}
	defer rows.Close()

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	for rows.Next() {
		var (
			c                 domain.ContractChunk
			contractID, owner string
			blob              []byte
		)
		if err := rows.Scan(&c.ID, &contractID, &owner, &c.ChunkIndex, &c.TotalChunks, &c.Text, &blob); err != nil {
			return err
		}
		if c.ContractID, err = uuid.Parse(contractID); err != nil {
			return fmt.Errorf("chunk %s: contract id: %w", c.ID, err)
		}
		if c.UserID, err = uuid.Parse(owner); err != nil {
			return fmt.Errorf("chunk %s: user id: %w", c.ID, err)
		}
		c.Vector = blobToFloat32(blob)
		s.mem.put(c)
	}
	return rows.Err()
}

// ReplaceContract deletes a contract's chunks and writes the given set in
// one transaction. The in-memory view changes only after commit.
func (s *SQLite) ReplaceContract(ctx context.Context, contractID uuid.UUID, chunks []domain.ContractChunk) error {
	if err := checkOwner(contractID, chunks); err != nil {
		return err
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("vectorstore: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM contract_chunks WHERE contract_id = ?`, contractID.String()); err != nil {
		return fmt.Errorf("vectorstore: clear contract %s: %w", contractID, err)
	}
	for _, c := range chunks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO contract_chunks (id, contract_id, user_id, chunk_index, total_chunks, text, embedding)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				user_id=excluded.user_id, chunk_index=excluded.chunk_index,
				total_chunks=excluded.total_chunks, text=excluded.text, embedding=excluded.embedding
		`, c.ID, c.ContractID.String(), c.UserID.String(), c.ChunkIndex, c.TotalChunks, c.Text,
			float32ToBlob(normalize(c.Vector)))
		if err != nil {
			return fmt.Errorf("vectorstore: upsert %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("vectorstore: commit: %w", err)
	}

	s.mem.deleteContract(contractID)
	for _, c := range chunks {
		s.mem.put(c)
	}
	return nil
}

// Query returns the topK chunks nearest to vec, nearest first.
func (s *SQLite) Query(ctx context.Context, vec []float32, topK int) ([]domain.ChunkMatch, error) {
	return s.mem.Query(ctx, vec, topK)
}

// DeleteByContract removes every chunk of a contract.
func (s *SQLite) DeleteByContract(ctx context.Context, contractID uuid.UUID) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM contract_chunks WHERE contract_id = ?`, contractID.String()); err != nil {
		return fmt.Errorf("vectorstore: delete contract %s: %w", contractID, err)
	}
	s.mem.deleteContract(contractID)
	return nil
}
