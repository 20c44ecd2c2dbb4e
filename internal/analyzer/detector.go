// Package analyzer turns the store's call graph into dead-code findings:
// candidate scan, false-positive filtering, interface analysis,
// categorization, confidence scoring, and aggregation into a per-file report.
package analyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/gobwas/glob"
	"github.com/sourcegraph/conc/pool"

	"deadscope/internal/graph"
	"deadscope/internal/rules"
)

// Detector is the analysis orchestrator. One Detect call is one logical run;
// the store is never mutated.
type Detector struct {
	querier *graph.Querier
	rules   *rules.Config
}

// NewDetector wires a detector from its two dependencies.
func NewDetector(querier *graph.Querier, cfg *rules.Config) (*Detector, error) {
	if querier == nil {
		return nil, fmt.Errorf("querier cannot be nil")
	}
	if cfg == nil {
		cfg = rules.Default()
	}
	return &Detector{querier: querier, rules: cfg}, nil
}

// Detect runs the full pipeline against one repository. An empty repoID
// selects the most recently updated repository. Failures are fatal; no
// partial result is ever returned.
func (d *Detector) Detect(ctx context.Context, repoID string, params Params) (*Result, error) {
	repo, err := d.querier.GetRepository(ctx, repoID)
	if err != nil {
		return nil, err
	}

	candidates, err := d.querier.FindZeroCallerCandidates(ctx, repo.ID, params.IncludeTests, params.FilePattern)
	if err != nil {
		return nil, err
	}
	candidates, err = dropExcluded(candidates, params.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	// The three context queries are independent reads; issue them
	// concurrently and join before filtering.
	var (
		overrides graph.SymbolSet
		exported  graph.SymbolSet
		pairs     []graph.InterfaceImplementationPair
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		overrides, err = d.querier.FindOverrideSymbols(ctx, repo.ID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		exported, err = d.querier.FindExportedSymbols(ctx, repo.ID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		pairs, err = d.querier.FindInterfaceImplementations(ctx, repo.ID)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	candidateIDs := make(graph.SymbolSet, len(candidates))
	for _, c := range candidates {
		candidateIDs[c.ID] = true
	}

	filter := NewFilter(d.rules, overrides, exported, params.IncludeExports)
	survivors := filter.Apply(candidates)

	interfaces := NewInterfaceAnalyzer(pairs, candidateIDs)
	categorizer := NewCategorizer(interfaces, exported)
	scorer := NewScorer(overrides, exported)

	findings := []Finding{}
	for _, c := range survivors {
		cat := categorizer.Categorize(c)
		conf := scorer.Score(c, cat)
		if params.ConfidenceThreshold != "" && conf.Rank() > params.ConfidenceThreshold.Rank() {
			continue
		}
		findings = append(findings, buildFinding(c, cat, conf, categorizer, interfaces, overrides, exported))
	}

	if params.MaxResults > 0 && len(findings) > params.MaxResults {
		sort.SliceStable(findings, func(i, j int) bool {
			return findings[i].Confidence.Rank() < findings[j].Confidence.Rank()
		})
		findings = findings[:params.MaxResults]
	}

	total, err := d.querier.CountTotalSymbols(ctx, repo.ID, params.IncludeTests, params.FilePattern)
	if err != nil {
		return nil, err
	}

	deadIDs := make([]string, len(findings))
	for i, f := range findings {
		deadIDs[i] = f.SymbolID
	}
	notes, err := DeadClusterNotes(ctx, d.querier, deadIDs)
	if err != nil {
		return nil, err
	}

	result := aggregate(findings)
	result.Repository = repo
	result.Summary.TotalSymbolsAnalyzed = total
	result.Notes = notes
	return result, nil
}

// dropExcluded removes candidates whose file path matches any exclude glob.
// Applied client-side so patterns get full glob semantics (`**`, braces)
// rather than the store's limited wildcard translation.
func dropExcluded(candidates []graph.Candidate, patterns []string) ([]graph.Candidate, error) {
	if len(patterns) == 0 {
		return candidates, nil
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		excluded := false
		for _, g := range globs {
			if g.Match(c.FilePath) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func buildFinding(c graph.Candidate, cat Category, conf Confidence, cz *Categorizer, ia *InterfaceAnalyzer, overrides, exported graph.SymbolSet) Finding {
	interfaceName, implements := ia.InterfaceInfo(c.ID)
	private := isPrivate(c)

	f := Finding{
		SymbolID:   c.ID,
		Name:       c.Name,
		SymbolKind: c.Kind,
		FilePath:   c.FilePath,
		FileID:     c.FileID,
		LineRange:  LineRange{Start: c.StartLine, End: c.EndLine},
		Category:   cat,
		Confidence: conf,
		Reason:     cz.GenerateReason(c, cat),
		Evidence: Evidence{
			CallerCount:         c.CallerCount,
			IsPublic:            !private,
			IsExported:          exported.Contains(c.ID),
			IsPrivate:           private,
			IsOverride:          overrides.Contains(c.ID),
			InterfaceName:       interfaceName,
			ImplementsInterface: implements,
		},
	}
	if c.EntityKind != nil {
		f.EntityKind = *c.EntityKind
	}
	return f
}
