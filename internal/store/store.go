package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// DefaultDSN is a named in-memory database. It lives as long as the Store
// that opened it; nothing is written to disk.
const DefaultDSN = "file:aquasafe?mode=memory&cache=shared"

// Store holds the session database and provides access to repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies pragmas and creates the session tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// An in-memory database is private to its connection unless shared,
	// and vanishes when the last connection closes.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection. The session data is gone after.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// AssessmentRepo returns an AssessmentRepo backed by this store.
func (s *Store) AssessmentRepo() AssessmentRepo {
	return &assessmentRepo{db: s.db, seq: s.seq}
}

// builder returns an SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// migrate creates the session tables if they don't exist.
func migrate(ctx context.Context, db *sql.DB) error {
	b := builder()
	tables := []*entsql.TableBuilder{
		b.CreateTable(tableAssessments).IfNotExists().
			Columns(eventColumns(b)...).
			Columns(
				b.Column("uuid").Type("text").Attr("NOT NULL UNIQUE"),
				b.Column("ph").Type("real").Attr("NOT NULL"),
				b.Column("turbidity").Type("real").Attr("NOT NULL"),
				b.Column("conductivity").Type("real").Attr("NOT NULL"),
				b.Column("dissolved_oxygen").Type("real").Attr("NOT NULL"),
				b.Column("tds").Type("real").Attr("NOT NULL"),
				b.Column("threshold").Type("real").Attr("NOT NULL"),
				b.Column("outcome").Type("text").Attr("NOT NULL DEFAULT ''"),
				b.Column("label").Type("text").Attr("NOT NULL DEFAULT ''"),
				b.Column("confidence").Type("real").Attr("NOT NULL DEFAULT 0"),
				b.Column("violation").Type("text").Attr("NOT NULL DEFAULT ''"),
				b.Column("error_message").Type("text").Attr("NOT NULL DEFAULT ''"),
				b.Column("report").Type("text").Attr("NOT NULL DEFAULT ''"),
			),
		b.CreateTable(tableLLMRequests).IfNotExists().
			Columns(eventColumns(b)...).
			Columns(
				b.Column("provider").Type("text").Attr("NOT NULL"),
				b.Column("model").Type("text").Attr("NOT NULL"),
				b.Column("purpose").Type("text").Attr("NOT NULL"),
				b.Column("input_tokens").Type("integer").Attr("NOT NULL DEFAULT 0"),
				b.Column("output_tokens").Type("integer").Attr("NOT NULL DEFAULT 0"),
				b.Column("latency_ms").Type("integer").Attr("NOT NULL DEFAULT 0"),
				b.Column("success").Type("boolean").Attr("NOT NULL"),
				b.Column("error_message").Type("text").Attr("NOT NULL DEFAULT ''"),
				b.Column("request_body").Type("text").Attr("NOT NULL DEFAULT ''"),
				b.Column("response_body").Type("text").Attr("NOT NULL DEFAULT ''"),
			),
	}
	for _, t := range tables {
		query, args := t.Query()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// eventColumns are shared by every event table: a row id, the global
// sequence and the wall-clock time in Unix milliseconds.
func eventColumns(b *entsql.DialectBuilder) []*entsql.ColumnBuilder {
	return []*entsql.ColumnBuilder{
		b.Column("id").Type("integer").Attr("PRIMARY KEY AUTOINCREMENT"),
		b.Column("sequence").Type("integer").Attr("NOT NULL UNIQUE"),
		b.Column("timestamp").Type("integer").Attr("NOT NULL"),
	}
}

// applyPragmas configures SQLite for a single-user session.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
