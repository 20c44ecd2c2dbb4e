// Package graph implements the read-only query layer over the persistent
// symbol/dependency store. All operations are idempotent reads; the analysis
// pipeline never mutates the store.
package graph

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"deadscope/internal/storage"
)

// NotFoundError reports a missing repository. RepoID is empty when the
// lookup was "most recent" against an empty store.
type NotFoundError struct {
	RepoID string
}

func (e *NotFoundError) Error() string {
	if e.RepoID == "" {
		return "no repositories exist in the store"
	}
	return fmt.Sprintf("repository not found: %s", e.RepoID)
}

// testPathGlobs are the path conventions that mark test artifacts.
// GLOB (not LIKE) keeps the Test./Tests. suffix checks case-sensitive;
// SQLite LIKE folds ASCII case.
var testPathGlobs = []string{
	"*.test.*",
	"*.spec.*",
	"*/tests/*",
	"*/test/*",
	"*/__tests__/*",
	"*_test.*",
	"*Test.*",
	"*Tests.*",
}

// Querier issues the structural queries the analysis pipeline needs.
// It has no state beyond the DB connection, so it is cheap to construct
// and always reads the store's current contents.
type Querier struct {
	db *sql.DB
}

// NewQuerier creates a query engine over the given store connection.
// The connection is owned by the caller.
func NewQuerier(db *sql.DB) (*Querier, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	return &Querier{db: db}, nil
}

// GetRepository looks up a repository by id, or the most-recently-updated
// repository when id is empty. Returns *NotFoundError when none matches.
func (q *Querier) GetRepository(ctx context.Context, id string) (*storage.Repository, error) {
	query := sq.Select("repo_id", "name", "root_path", "created_at", "updated_at").
		From("repositories").
		PlaceholderFormat(sq.Question)

	if id != "" {
		query = query.Where(sq.Eq{"repo_id": id})
	} else {
		query = query.OrderBy("updated_at DESC").Limit(1)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build repository query: %w", err)
	}

	var repo storage.Repository
	err = q.db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&repo.ID, &repo.Name, &repo.RootPath, &repo.CreatedAt, &repo.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{RepoID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query repository: %w", err)
	}
	return &repo, nil
}

// FindZeroCallerCandidates returns every symbol in the repository with zero
// incoming `calls` edges, joined with its owning file path. The optional
// filePattern is a glob (translated to LIKE); when includeTests is false,
// symbols in test-convention paths are excluded.
func (q *Querier) FindZeroCallerCandidates(ctx context.Context, repoID string, includeTests bool, filePattern string) ([]Candidate, error) {
	query := sq.Select(
		"s.symbol_id", "s.file_id", "s.parent_symbol_id",
		"s.name", "s.qualified_name", "s.kind", "s.entity_kind", "s.signature",
		"s.start_line", "s.end_line", "s.is_exported",
		"f.file_path",
	).
		From("symbols s").
		Join("files f ON s.file_id = f.file_id").
		Where(sq.Eq{"f.repo_id": repoID}).
		Where("NOT EXISTS (SELECT 1 FROM dependencies d WHERE d.target_symbol_id = s.symbol_id AND d.dep_type = ?)", storage.DepCalls).
		OrderBy("f.file_path", "s.start_line", "s.symbol_id").
		PlaceholderFormat(sq.Question)

	query = q.applyFileFilters(query, includeTests, filePattern)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return candidates, nil
}

// CountTotalSymbols counts symbols under the same filtering rules as
// FindZeroCallerCandidates. Used only for summary statistics.
func (q *Querier) CountTotalSymbols(ctx context.Context, repoID string, includeTests bool, filePattern string) (int, error) {
	query := sq.Select("COUNT(*)").
		From("symbols s").
		Join("files f ON s.file_id = f.file_id").
		Where(sq.Eq{"f.repo_id": repoID}).
		PlaceholderFormat(sq.Question)

	query = q.applyFileFilters(query, includeTests, filePattern)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := q.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count symbols: %w", err)
	}
	return count, nil
}

// FindOverrideSymbols returns the distinct source-symbol ids of edges typed
// implements/inherits/extends within the repository. These symbols may be
// invoked polymorphically and must never be reported as dead purely on
// direct-caller count.
func (q *Querier) FindOverrideSymbols(ctx context.Context, repoID string) (SymbolSet, error) {
	query := sq.Select("DISTINCT d.source_symbol_id").
		From("dependencies d").
		Join("symbols s ON d.source_symbol_id = s.symbol_id").
		Join("files f ON s.file_id = f.file_id").
		Where(sq.Eq{"f.repo_id": repoID}).
		Where(sq.Eq{"d.dep_type": []string{storage.DepImplements, storage.DepInherits, storage.DepExtends}}).
		PlaceholderFormat(sq.Question)

	return q.querySymbolSet(ctx, query, "override symbols")
}

// FindExportedSymbols returns the ids of all symbols flagged exported.
func (q *Querier) FindExportedSymbols(ctx context.Context, repoID string) (SymbolSet, error) {
	query := sq.Select("s.symbol_id").
		From("symbols s").
		Join("files f ON s.file_id = f.file_id").
		Where(sq.Eq{"f.repo_id": repoID}).
		Where(sq.Eq{"s.is_exported": true}).
		PlaceholderFormat(sq.Question)

	return q.querySymbolSet(ctx, query, "exported symbols")
}

// FindInterfaceImplementations correlates interface methods with the methods
// of implementing classes. Three batch queries plus two map-keyed lookups
// keep the cost at O(interfaces + methods) instead of the cubic
// interfaces x methods x classes enumeration:
//
//  1. join interface-kind symbols to the classes that implement them
//  2. batch-fetch method symbols in all interface files
//  3. batch-fetch method symbols in all implementing-class files
//  4. index both method sets by (fileID, name)
//  5. per pair, match interface methods to same-named class methods
func (q *Querier) FindInterfaceImplementations(ctx context.Context, repoID string) ([]InterfaceImplementationPair, error) {
	type implPair struct {
		interfaceID   string
		interfaceName string
		interfaceFile string
		classID       string
		className     string
		classFile     string
	}

	// Step 1: interface -> implementing class tuples.
	query := sq.Select(
		"i.symbol_id", "i.name", "i.file_id",
		"c.symbol_id", "c.name", "c.file_id",
	).
		From("dependencies d").
		Join("symbols i ON d.target_symbol_id = i.symbol_id").
		Join("symbols c ON d.source_symbol_id = c.symbol_id").
		Join("files f ON i.file_id = f.file_id").
		Where(sq.Eq{"f.repo_id": repoID}).
		Where(sq.Eq{"d.dep_type": storage.DepImplements}).
		Where(sq.Eq{"i.kind": storage.KindInterface}).
		OrderBy("i.symbol_id", "c.symbol_id").
		PlaceholderFormat(sq.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build implementation pair query: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query implementation pairs: %w", err)
	}
	defer rows.Close()

	var pairs []implPair
	interfaceFiles := map[string]bool{}
	classFiles := map[string]bool{}
	for rows.Next() {
		var p implPair
		if err := rows.Scan(&p.interfaceID, &p.interfaceName, &p.interfaceFile, &p.classID, &p.className, &p.classFile); err != nil {
			return nil, fmt.Errorf("scan implementation pair: %w", err)
		}
		pairs = append(pairs, p)
		interfaceFiles[p.interfaceFile] = true
		classFiles[p.classFile] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	if len(pairs) == 0 {
		return []InterfaceImplementationPair{}, nil
	}

	// Steps 2+3: batch-fetch methods for both file sets.
	interfaceMethods, err := q.fetchMethodsByFile(ctx, keys(interfaceFiles))
	if err != nil {
		return nil, err
	}
	classMethods, err := q.fetchMethodsByFile(ctx, keys(classFiles))
	if err != nil {
		return nil, err
	}

	// Step 4: index class methods by (fileID, name) for O(1) lookup.
	classByFileName := make(map[fileNameKey]methodRef, len(classMethods))
	for _, m := range classMethods {
		classByFileName[fileNameKey{m.fileID, m.name}] = m
	}

	// Group interface methods by file so step 5 enumerates only the
	// methods in each pair's interface file.
	ifaceByFile := make(map[string][]methodRef)
	for _, m := range interfaceMethods {
		ifaceByFile[m.fileID] = append(ifaceByFile[m.fileID], m)
	}

	// Step 5: match interface methods to same-named class methods.
	result := []InterfaceImplementationPair{}
	for _, p := range pairs {
		for _, im := range ifaceByFile[p.interfaceFile] {
			cm, ok := classByFileName[fileNameKey{p.classFile, im.name}]
			if !ok {
				continue
			}
			result = append(result, InterfaceImplementationPair{
				InterfaceID:       p.interfaceID,
				InterfaceName:     p.interfaceName,
				InterfaceMethodID: im.symbolID,
				MethodName:        im.name,
				ClassID:           p.classID,
				ClassName:         p.className,
				ImplSymbolID:      cm.symbolID,
			})
		}
	}

	return result, nil
}

type fileNameKey struct {
	fileID string
	name   string
}

type methodRef struct {
	symbolID string
	fileID   string
	name     string
}

// fetchMethodsByFile batch-loads method-kind symbols for a set of files.
func (q *Querier) fetchMethodsByFile(ctx context.Context, fileIDs []string) ([]methodRef, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}

	query := sq.Select("symbol_id", "file_id", "name").
		From("symbols").
		Where(sq.Eq{"file_id": fileIDs}).
		Where(sq.Eq{"kind": storage.KindMethod}).
		OrderBy("file_id", "start_line").
		PlaceholderFormat(sq.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build method batch query: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query methods by file: %w", err)
	}
	defer rows.Close()

	var methods []methodRef
	for rows.Next() {
		var m methodRef
		if err := rows.Scan(&m.symbolID, &m.fileID, &m.name); err != nil {
			return nil, fmt.Errorf("scan method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return methods, nil
}

// applyFileFilters adds the shared path filtering to a symbol scan:
// optional glob file pattern and test-path exclusion.
func (q *Querier) applyFileFilters(query sq.SelectBuilder, includeTests bool, filePattern string) sq.SelectBuilder {
	if filePattern != "" {
		query = query.Where(`f.file_path LIKE ? ESCAPE '\'`, GlobToLike(filePattern))
	}
	if !includeTests {
		for _, g := range testPathGlobs {
			query = query.Where("f.file_path NOT GLOB ?", g)
		}
	}
	return query
}

// querySymbolSet runs a single-column symbol id query into a SymbolSet.
func (q *Querier) querySymbolSet(ctx context.Context, query sq.SelectBuilder, what string) (SymbolSet, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", what, err)
	}

	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	set := SymbolSet{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return set, nil
}

// scanCandidate scans one candidate row, converting NULLable columns.
func scanCandidate(rows *sql.Rows) (*Candidate, error) {
	var c Candidate
	var parentID, qualifiedName, entityKind, signature sql.NullString

	err := rows.Scan(
		&c.ID, &c.FileID, &parentID,
		&c.Name, &qualifiedName, &c.Kind, &entityKind, &signature,
		&c.StartLine, &c.EndLine, &c.IsExported,
		&c.FilePath,
	)
	if err != nil {
		return nil, fmt.Errorf("scan candidate: %w", err)
	}

	c.ParentID = nullStringToPtr(parentID)
	c.QualifiedName = nullStringToPtr(qualifiedName)
	c.EntityKind = nullStringToPtr(entityKind)
	c.Signature = nullStringToPtr(signature)
	c.CallerCount = 0 // by construction: the scan excludes called symbols
	return &c, nil
}

func nullStringToPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
