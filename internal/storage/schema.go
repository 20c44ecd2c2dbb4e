package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateSchema creates all tables and indexes for the symbol graph store.
// Idempotent: safe to run against an existing database.
// Uses a transaction for atomicity - all schema creation succeeds or fails together.
//
// Schema includes:
//   - repositories, files, symbols, dependencies tables
//   - All foreign key constraints and indexes
//   - Bootstrap metadata
//
// Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Enable foreign keys (must be set for each connection)
	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create all tables in dependency order
	tables := []struct {
		name string
		ddl  string
	}{
		{"repositories", createRepositoriesTable},
		{"files", createFilesTable},
		{"symbols", createSymbolsTable},
		{"dependencies", createDependenciesTable},
		{"store_metadata", createStoreMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	// Create all indexes
	for i, idx := range getAllIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	// Bootstrap metadata
	now := time.Now().UTC().Format(time.RFC3339)
	bootstrapSQL := `
		INSERT OR IGNORE INTO store_metadata (key, value, updated_at) VALUES
			('schema_version', '1.0', ?)
	`
	if _, err := tx.Exec(bootstrapSQL, now); err != nil {
		return fmt.Errorf("failed to bootstrap store_metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

// GetSchemaVersion retrieves the schema version from store_metadata.
// Returns "0" if the table doesn't exist (new database).
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='store_metadata'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check store_metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil // New database
	}

	var version string
	err = db.QueryRow("SELECT value FROM store_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in store_metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

// Table DDL constants

const createRepositoriesTable = `
CREATE TABLE IF NOT EXISTS repositories (
    repo_id TEXT PRIMARY KEY,                    -- UUID
    name TEXT NOT NULL,                          -- Display name (usually basename of root)
    root_path TEXT NOT NULL,                     -- Absolute path the extractors scanned
    created_at TEXT NOT NULL,                    -- ISO 8601
    updated_at TEXT NOT NULL                     -- ISO 8601, bumped on every extraction pass
)
`

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
    file_id TEXT PRIMARY KEY,                    -- UUID
    repo_id TEXT NOT NULL,
    file_path TEXT NOT NULL,                     -- Relative path from repo root
    language TEXT NOT NULL DEFAULT '',           -- typescript, python, csharp, ...
    is_test INTEGER NOT NULL DEFAULT 0,          -- Boolean: extractor's test-file verdict
    FOREIGN KEY (repo_id) REFERENCES repositories(repo_id) ON DELETE CASCADE,
    UNIQUE(repo_id, file_path)
)
`

const createSymbolsTable = `
CREATE TABLE IF NOT EXISTS symbols (
    symbol_id TEXT PRIMARY KEY,                  -- UUID
    file_id TEXT NOT NULL,
    parent_symbol_id TEXT,                       -- Nesting (method inside class), NULL for top level
    name TEXT NOT NULL,
    qualified_name TEXT,                         -- Fully qualified name when the extractor resolves one
    kind TEXT NOT NULL,                          -- function, method, class, constructor, interface, ...
    entity_kind TEXT,                            -- Framework-level role: controller, route, class_method, ...
    signature TEXT,                              -- Raw signature text, NULL when unavailable
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    is_exported INTEGER NOT NULL DEFAULT 0,      -- Boolean
    FOREIGN KEY (file_id) REFERENCES files(file_id) ON DELETE CASCADE,
    FOREIGN KEY (parent_symbol_id) REFERENCES symbols(symbol_id) ON DELETE CASCADE
)
`

const createDependenciesTable = `
CREATE TABLE IF NOT EXISTS dependencies (
    dependency_id TEXT PRIMARY KEY,              -- UUID
    source_symbol_id TEXT NOT NULL,              -- Who depends
    target_symbol_id TEXT,                       -- What is depended on (NULL if unresolved)
    dep_type TEXT NOT NULL,                      -- calls, implements, inherits, extends, ...
    source_line INTEGER,                         -- Call-site line; multiple rows per pair are intentional
    FOREIGN KEY (source_symbol_id) REFERENCES symbols(symbol_id) ON DELETE CASCADE,
    FOREIGN KEY (target_symbol_id) REFERENCES symbols(symbol_id) ON DELETE SET NULL
)
`

const createStoreMetadataTable = `
CREATE TABLE IF NOT EXISTS store_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

// getAllIndexes returns all index creation statements.
func getAllIndexes() []string {
	return []string{
		// repositories table indexes
		"CREATE INDEX IF NOT EXISTS idx_repositories_updated_at ON repositories(updated_at)",

		// files table indexes
		"CREATE INDEX IF NOT EXISTS idx_files_repo_id ON files(repo_id)",
		"CREATE INDEX IF NOT EXISTS idx_files_file_path ON files(file_path)",
		"CREATE INDEX IF NOT EXISTS idx_files_language ON files(language)",

		// symbols table indexes
		"CREATE INDEX IF NOT EXISTS idx_symbols_file_id ON symbols(file_id)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_parent ON symbols(parent_symbol_id)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_is_exported ON symbols(is_exported)",

		// dependencies table indexes
		"CREATE INDEX IF NOT EXISTS idx_dependencies_source ON dependencies(source_symbol_id)",
		"CREATE INDEX IF NOT EXISTS idx_dependencies_target ON dependencies(target_symbol_id)",
		"CREATE INDEX IF NOT EXISTS idx_dependencies_dep_type ON dependencies(dep_type)",
	}
}
