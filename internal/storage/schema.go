// Package storage persists file reports to SQLite so downstream tooling can
// query symbol metadata without re-scanning sources.
package storage

import (
	"database/sql"
	"fmt"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
)

const createScansTable = `
CREATE TABLE IF NOT EXISTS scans (
	scan_id    TEXT PRIMARY KEY,
	file_path  TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

const createSymbolsTable = `
CREATE TABLE IF NOT EXISTS symbols (
	symbol_id   TEXT PRIMARY KEY,
	scan_id     TEXT NOT NULL REFERENCES scans(scan_id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL,
	parent_name TEXT NOT NULL DEFAULT '',
	interfaces  TEXT NOT NULL DEFAULT '',
	traits      TEXT NOT NULL DEFAULT '',
	modifiers   TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL
)`

const createMembersTable = `
CREATE TABLE IF NOT EXISTS members (
	member_id     TEXT PRIMARY KEY,
	symbol_id     TEXT NOT NULL REFERENCES symbols(symbol_id) ON DELETE CASCADE,
	kind          TEXT NOT NULL,
	name          TEXT NOT NULL,
	value_type    TEXT NOT NULL DEFAULT '',
	value         TEXT NOT NULL DEFAULT '',
	default_value TEXT NOT NULL DEFAULT '',
	has_default   INTEGER NOT NULL DEFAULT 0,
	return_type   TEXT NOT NULL DEFAULT '',
	modifiers     TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	owner         TEXT NOT NULL DEFAULT ''
)`

const createParametersTable = `
CREATE TABLE IF NOT EXISTS parameters (
	parameter_id  TEXT PRIMARY KEY,
	member_id     TEXT NOT NULL REFERENCES members(member_id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	name          TEXT NOT NULL,
	resolved_type TEXT NOT NULL DEFAULT '',
	default_value TEXT NOT NULL DEFAULT '',
	has_default   INTEGER NOT NULL DEFAULT 0,
	is_optional   INTEGER NOT NULL DEFAULT 0,
	description   TEXT NOT NULL DEFAULT ''
)`

var schemaIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_symbols_scan ON symbols(scan_id)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name)`,
	`CREATE INDEX IF NOT EXISTS idx_members_symbol ON members(symbol_id)`,
	`CREATE INDEX IF NOT EXISTS idx_parameters_member ON parameters(member_id)`,
}

// Open opens (creating if necessary) a report database at path and ensures
// the schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema creates all tables and indexes. All schema creation succeeds
// or fails together.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"scans", createScansTable},
		{"symbols", createSymbolsTable},
		{"members", createMembersTable},
		{"parameters", createParametersTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range schemaIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
