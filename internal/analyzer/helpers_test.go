package analyzer

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"deadscope/internal/graph"
	"deadscope/internal/storage"
)

func sp(s string) *string { return &s }

// cand builds a minimal zero-caller candidate for unit tests.
func cand(id, name, kind, path string) graph.Candidate {
	return graph.Candidate{
		Symbol: storage.Symbol{
			ID:        id,
			Name:      name,
			Kind:      kind,
			StartLine: 1,
			EndLine:   2,
		},
		FilePath: path,
	}
}

func withSignature(c graph.Candidate, sig string) graph.Candidate {
	c.Signature = sp(sig)
	return c
}

func withEntityKind(c graph.Candidate, ek string) graph.Candidate {
	c.EntityKind = sp(ek)
	return c
}

// seedWorld writes one repository with the given files, symbols, and edges,
// and returns the repo id. Symbol FileIDs are filled from the files slice by
// index via the fileIdx mapping.
type worldSymbol struct {
	fileIdx int
	sym     storage.Symbol
}

func seedWorld(t *testing.T, db *sql.DB, files []storage.File, symbols []worldSymbol, edges func(ids map[string]string) []storage.Dependency) (string, map[string]string) {
	t.Helper()

	repoID, err := storage.InsertRepository(db, &storage.Repository{Name: "fixture", RootPath: "/src/fixture"})
	require.NoError(t, err)

	tx, err := db.Begin()
	require.NoError(t, err)
	for i := range files {
		files[i].RepoID = repoID
	}
	require.NoError(t, storage.BulkInsertFiles(tx, files))

	syms := make([]storage.Symbol, len(symbols))
	for i, ws := range symbols {
		syms[i] = ws.sym
		syms[i].FileID = files[ws.fileIdx].ID
	}
	require.NoError(t, storage.BulkInsertSymbols(tx, syms))

	ids := make(map[string]string, len(syms))
	for _, s := range syms {
		ids[s.Name] = s.ID
	}

	if edges != nil {
		require.NoError(t, storage.BulkInsertDependencies(tx, edges(ids)))
	}
	require.NoError(t, tx.Commit())

	return repoID, ids
}

func newTestDetector(t *testing.T, db *sql.DB) *Detector {
	t.Helper()
	q, err := graph.NewQuerier(db)
	require.NoError(t, err)
	d, err := NewDetector(q, nil)
	require.NoError(t, err)
	return d
}

// findingNames flattens a result into the set of reported symbol names.
func findingNames(res *Result) []string {
	var names []string
	for _, ff := range res.FindingsByFile {
		for _, g := range ff.ByCategory {
			for _, f := range g.Symbols {
				names = append(names, f.Name)
			}
		}
	}
	return names
}

// findingByName digs one finding out of a result.
func findingByName(res *Result, name string) (Finding, bool) {
	for _, ff := range res.FindingsByFile {
		for _, g := range ff.ByCategory {
			for _, f := range g.Symbols {
				if f.Name == name {
					return f, true
				}
			}
		}
	}
	return Finding{}, false
}
