package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Writers are the API the per-language extractors feed. All bulk writers use
// prepared statements inside a caller-provided transaction and generate UUIDs
// for rows that arrive without one.

// InsertRepository writes a repository row and returns its id.
func InsertRepository(db *sql.DB, repo *Repository) (string, error) {
	if repo.ID == "" {
		repo.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if repo.CreatedAt == "" {
		repo.CreatedAt = now
	}
	if repo.UpdatedAt == "" {
		repo.UpdatedAt = now
	}

	_, err := db.Exec(`
		INSERT INTO repositories (repo_id, name, root_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, repo.ID, repo.Name, repo.RootPath, repo.CreatedAt, repo.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("insert repository %s: %w", repo.Name, err)
	}
	return repo.ID, nil
}

// TouchRepository bumps a repository's updated_at to now. Extraction passes
// call this so "most recent repository" lookups stay accurate.
func TouchRepository(db *sql.DB, repoID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec("UPDATE repositories SET updated_at = ? WHERE repo_id = ?", now, repoID)
	if err != nil {
		return fmt.Errorf("touch repository %s: %w", repoID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch repository %s: %w", repoID, err)
	}
	if affected == 0 {
		return fmt.Errorf("touch repository: no repository with id %s", repoID)
	}
	return nil
}

// BulkInsertFiles writes file rows in a single transaction.
// Handles empty input gracefully (no-op).
func BulkInsertFiles(tx *sql.Tx, files []File) error {
	if len(files) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO files (file_id, repo_id, file_path, language, is_test)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range files {
		f := &files[i]
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		if _, err := stmt.Exec(f.ID, f.RepoID, f.FilePath, f.Language, f.IsTest); err != nil {
			return fmt.Errorf("insert file %s: %w", f.FilePath, err)
		}
	}

	return nil
}

// BulkInsertSymbols writes symbol rows in a single transaction.
// Parent symbols must be inserted before their children (FK constraint).
// Handles empty input gracefully (no-op).
func BulkInsertSymbols(tx *sql.Tx, symbols []Symbol) error {
	if len(symbols) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO symbols
		(symbol_id, file_id, parent_symbol_id, name, qualified_name, kind, entity_kind, signature, start_line, end_line, is_exported)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range symbols {
		s := &symbols[i]
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		_, err := stmt.Exec(
			s.ID,
			s.FileID,
			s.ParentID,
			s.Name,
			s.QualifiedName,
			s.Kind,
			s.EntityKind,
			s.Signature,
			s.StartLine,
			s.EndLine,
			s.IsExported,
		)
		if err != nil {
			return fmt.Errorf("insert symbol %s: %w", s.Name, err)
		}
	}

	return nil
}

// BulkInsertDependencies writes dependency edges in a single transaction.
// Multiple edges between the same pair with the same type are allowed when
// they carry different source lines (distinct call sites).
// Handles empty input gracefully (no-op).
func BulkInsertDependencies(tx *sql.Tx, deps []Dependency) error {
	if len(deps) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO dependencies
		(dependency_id, source_symbol_id, target_symbol_id, dep_type, source_line)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range deps {
		d := &deps[i]
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		_, err := stmt.Exec(d.ID, d.SourceSymbolID, d.TargetSymbolID, d.DepType, d.SourceLine)
		if err != nil {
			return fmt.Errorf("insert dependency %s->%v: %w", d.SourceSymbolID, d.TargetSymbolID, err)
		}
	}

	return nil
}

// DeleteFile removes a file and, via FK cascades, all its symbols and their
// edges. Re-extraction of a changed file is delete-then-insert.
func DeleteFile(db *sql.DB, fileID string) error {
	if _, err := db.Exec("DELETE FROM files WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	return nil
}
