package analyzer

import (
	"fmt"

	"deadscope/internal/storage"
)

// Category classifies one finding. Exactly one category is assigned per
// surviving candidate.
type Category string

const (
	CategoryInterfaceBloat Category = "interface_bloat"
	CategoryUnusedExport   Category = "unused_export"
	CategoryDeadClass      Category = "dead_class"
	// CategoryOrphanedImplementation is reserved for implementations of
	// fully-dead interfaces. Upstream never produces it today; the
	// categorizer keeps the slot so the priority chain is stable when it
	// lands.
	CategoryOrphanedImplementation Category = "orphaned_implementation"
	CategoryDeadPublicMethod       Category = "dead_public_method"
	CategoryDeadPrivateMethod      Category = "dead_private_method"
	CategoryDeadFunction           Category = "dead_function"
)

// Confidence is the calibrated certainty that a finding is truly dead.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidences for truncation: high sorts first.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	case ConfidenceLow:
		return 2
	}
	return 3
}

// ParseConfidence validates a user-supplied confidence string.
func ParseConfidence(s string) (Confidence, error) {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s), nil
	}
	return "", fmt.Errorf("invalid confidence %q (want high, medium, or low)", s)
}

// Params bound one analysis run.
type Params struct {
	// ConfidenceThreshold drops findings below the given level.
	// Empty means no threshold filtering (accept all).
	ConfidenceThreshold Confidence
	// IncludeExports keeps exported symbols as candidates.
	IncludeExports bool
	// IncludeTests scans test-convention paths.
	IncludeTests bool
	// MaxResults caps reported findings, preferring higher confidence.
	// Zero means unlimited.
	MaxResults int
	// FilePattern restricts the scan to matching paths (glob: * and ?).
	FilePattern string
	// ExcludeGlobs drops findings whose file path matches any pattern,
	// applied client-side after the scan.
	ExcludeGlobs []string
}

// Evidence is the per-finding snapshot the scorer and reporters consume.
type Evidence struct {
	CallerCount         int    `json:"callerCount"`
	IsPublic            bool   `json:"isPublic"`
	IsExported          bool   `json:"isExported"`
	IsPrivate           bool   `json:"isPrivate"`
	IsOverride          bool   `json:"isOverride"`
	InterfaceName       string `json:"interfaceName,omitempty"`
	ImplementsInterface bool   `json:"implementsInterface"`
}

// LineRange is a 1-indexed inclusive source span.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Finding is one reported dead-code symbol.
type Finding struct {
	SymbolID   string     `json:"symbolId"`
	Name       string     `json:"name"`
	SymbolKind string     `json:"symbolKind"`
	EntityKind string     `json:"entityKind,omitempty"`
	FilePath   string     `json:"filePath"`
	FileID     string     `json:"-"`
	LineRange  LineRange  `json:"lineRange"`
	Category   Category   `json:"category"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
	Evidence   Evidence   `json:"evidence"`
}

// CategoryGroup collects a file's findings sharing one (category, confidence).
type CategoryGroup struct {
	Category   Category   `json:"category"`
	Confidence Confidence `json:"confidence"`
	Symbols    []Finding  `json:"symbols"`
}

// FileFindings groups a file's findings by category.
type FileFindings struct {
	FilePath         string          `json:"filePath"`
	FileID           string          `json:"fileId"`
	DeadSymbolsCount int             `json:"deadSymbolsCount"`
	ByCategory       []CategoryGroup `json:"byCategory"`
}

// Summary carries run-level counts.
type Summary struct {
	TotalSymbolsAnalyzed int                `json:"totalSymbolsAnalyzed"`
	DeadCodeFound        int                `json:"deadCodeFound"`
	ByCategory           map[Category]int   `json:"byCategory"`
	ByConfidence         map[Confidence]int `json:"byConfidence"`
}

// Result is the full outcome of one analysis run.
type Result struct {
	Repository     *storage.Repository `json:"repository"`
	Summary        Summary             `json:"summary"`
	FindingsByFile []FileFindings      `json:"findingsByFile"`
	Notes          []string            `json:"notes,omitempty"`
}
