package graph

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"deadscope/internal/storage"
)

// seedRepo inserts a repository and returns its id.
func seedRepo(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	id, err := storage.InsertRepository(db, &storage.Repository{Name: name, RootPath: "/src/" + name})
	require.NoError(t, err)
	return id
}

// seedFiles inserts files and returns them with ids assigned.
func seedFiles(t *testing.T, db *sql.DB, files []storage.File) []storage.File {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, storage.BulkInsertFiles(tx, files))
	require.NoError(t, tx.Commit())
	return files
}

// seedSymbols inserts symbols and returns them with ids assigned.
func seedSymbols(t *testing.T, db *sql.DB, symbols []storage.Symbol) []storage.Symbol {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, storage.BulkInsertSymbols(tx, symbols))
	require.NoError(t, tx.Commit())
	return symbols
}

// seedDeps inserts dependency edges.
func seedDeps(t *testing.T, db *sql.DB, deps []storage.Dependency) {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, storage.BulkInsertDependencies(tx, deps))
	require.NoError(t, tx.Commit())
}

// calls builds a resolved calls edge.
func calls(sourceID, targetID string) storage.Dependency {
	return storage.Dependency{SourceSymbolID: sourceID, TargetSymbolID: &targetID, DepType: storage.DepCalls}
}

// implements builds an implements edge.
func implements(sourceID, targetID string) storage.Dependency {
	return storage.Dependency{SourceSymbolID: sourceID, TargetSymbolID: &targetID, DepType: storage.DepImplements}
}

// newQuerier is the test constructor.
func newQuerier(t *testing.T, db *sql.DB) *Querier {
	t.Helper()
	q, err := NewQuerier(db)
	require.NoError(t, err)
	return q
}

// candidateNames extracts the symbol names from a candidate list.
func candidateNames(cands []Candidate) []string {
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	return names
}
