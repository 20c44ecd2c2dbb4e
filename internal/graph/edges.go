package graph

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"deadscope/internal/storage"
)

// CallEdge is one resolved call relation. Unresolved targets (NULL) are
// never returned.
type CallEdge struct {
	SourceID string
	TargetID string
}

// FindCallEdgesFrom returns resolved calls edges originating from any of the
// given symbols.
func (q *Querier) FindCallEdgesFrom(ctx context.Context, sourceIDs []string) ([]CallEdge, error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}
	query := sq.Select("source_symbol_id", "target_symbol_id").
		From("dependencies").
		Where(sq.Eq{"dep_type": storage.DepCalls}).
		Where(sq.Eq{"source_symbol_id": sourceIDs}).
		Where("target_symbol_id IS NOT NULL").
		PlaceholderFormat(sq.Question)
	return q.queryCallEdges(ctx, query, "call edges from")
}

// FindCallEdgesTo returns resolved calls edges terminating at any of the
// given symbols.
func (q *Querier) FindCallEdgesTo(ctx context.Context, targetIDs []string) ([]CallEdge, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	query := sq.Select("source_symbol_id", "target_symbol_id").
		From("dependencies").
		Where(sq.Eq{"dep_type": storage.DepCalls}).
		Where(sq.Eq{"target_symbol_id": targetIDs}).
		PlaceholderFormat(sq.Question)
	return q.queryCallEdges(ctx, query, "call edges to")
}

// FindSymbolNames resolves display names for a set of symbol ids.
func (q *Querier) FindSymbolNames(ctx context.Context, symbolIDs []string) (map[string]string, error) {
	if len(symbolIDs) == 0 {
		return map[string]string{}, nil
	}
	query := sq.Select("symbol_id", "name").
		From("symbols").
		Where(sq.Eq{"symbol_id": symbolIDs}).
		PlaceholderFormat(sq.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build symbol name query: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query symbol names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(symbolIDs))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan symbol name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return names, nil
}

func (q *Querier) queryCallEdges(ctx context.Context, query sq.SelectBuilder, what string) ([]CallEdge, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", what, err)
	}

	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	var edges []CallEdge
	for rows.Next() {
		var e CallEdge
		if err := rows.Scan(&e.SourceID, &e.TargetID); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return edges, nil
}
