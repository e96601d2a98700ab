package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// SQLite is a Store backed by a single SQLite table.
type SQLite struct {
	conn *sql.DB
	opts *Options
}

// NewSQLite opens (or creates) the database at path. Use MemoryDSN for a
// throwaway database.
func NewSQLite(path string, opts *Options) (*SQLite, error) {
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("kv: create database directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kv: open sqlite: %w", err)
	}
	// One connection keeps :memory: databases alive and serializes writers.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		`CREATE TABLE IF NOT EXISTS kv (
			k BLOB PRIMARY KEY,
			v BLOB
		) WITHOUT ROWID`,
	} {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("kv: sqlite init %q: %w", stmt, err)
		}
	}
	return &SQLite{conn: conn, opts: opts}, nil
}

func (s *SQLite) Get(ctx context.Context, key Key) ([]byte, error) {
	var v []byte
	err := s.conn.QueryRowContext(ctx, "SELECT v FROM kv WHERE k = ?", s.opts.encode(key)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = []byte{}
	}
	return v, nil
}

func (s *SQLite) Set(ctx context.Context, key Key, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v",
		s.opts.encode(key), value)
	return err
}

func (s *SQLite) Delete(ctx context.Context, key Key) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM kv WHERE k = ?", s.opts.encode(key))
	return err
}

func (s *SQLite) List(ctx context.Context, prefix Key) iter.Seq2[Entry, error] {
	p := s.opts.prefixBytes(prefix)
	return func(yield func(Entry, error) bool) {
		var (
			rows *sql.Rows
			err  error
		)
		switch end := prefixEnd(p); {
		case len(p) == 0:
			rows, err = s.conn.QueryContext(ctx, "SELECT k, v FROM kv ORDER BY k")
		case end == nil:
			rows, err = s.conn.QueryContext(ctx, "SELECT k, v FROM kv WHERE k >= ? ORDER BY k", p)
		default:
			rows, err = s.conn.QueryContext(ctx, "SELECT k, v FROM kv WHERE k >= ? AND k < ? ORDER BY k", p, end)
		}
		if err != nil {
			yield(Entry{}, err)
			return
		}
		// Drain before yielding so callers may use the store from the loop
		// body without waiting on the single connection.
		var entries []Entry
		for rows.Next() {
			var k, v []byte
			if err := rows.Scan(&k, &v); err != nil {
				rows.Close()
				yield(Entry{}, err)
				return
			}
			entries = append(entries, Entry{Key: s.opts.decode(k), Value: v})
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			yield(Entry{}, err)
			return
		}
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

// prefixEnd returns the smallest key greater than every key starting with
// p, or nil if there is none.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

var _ Store = (*SQLite)(nil)
