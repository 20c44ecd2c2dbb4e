package storage

// Domain models that mirror SQL tables in schema.go.
// These are lightweight data transfer structs, NOT ORM models.

// Repository represents one extracted codebase.
// Maps to the repositories table.
type Repository struct {
	ID        string // repo_id: UUID
	Name      string // name: display name
	RootPath  string // root_path: absolute path the extractors scanned
	CreatedAt string // created_at: ISO 8601
	UpdatedAt string // updated_at: ISO 8601, bumped on every extraction pass
}

// File represents a source file within a repository.
// Maps to the files table.
type File struct {
	ID       string // file_id: UUID
	RepoID   string // repo_id: FK to repositories
	FilePath string // file_path: relative path from repo root
	Language string // language: typescript, python, csharp, ...
	IsTest   bool   // is_test: extractor's test-file verdict
}

// Symbol represents a named code entity extracted from source.
// Maps to the symbols table.
type Symbol struct {
	ID            string  // symbol_id: UUID
	FileID        string  // file_id: FK to files
	ParentID      *string // parent_symbol_id: nesting, nil for top level
	Name          string  // name: symbol name
	QualifiedName *string // qualified_name: fully qualified name when resolved
	Kind          string  // kind: function, method, class, constructor, interface, ...
	EntityKind    *string // entity_kind: framework-level role (controller, route, ...)
	Signature     *string // signature: raw signature text, nil when unavailable
	StartLine     int     // start_line
	EndLine       int     // end_line
	IsExported    bool    // is_exported
}

// Dependency represents a typed directed relation between two symbols.
// Maps to the dependencies table. Multiple rows for the same ordered pair
// with the same type at different lines are distinct call sites, not duplicates.
type Dependency struct {
	ID             string  // dependency_id: UUID
	SourceSymbolID string  // source_symbol_id: who depends
	TargetSymbolID *string // target_symbol_id: nil when the extractor could not resolve the target
	DepType        string  // dep_type: calls, implements, inherits, extends, ...
	SourceLine     *int    // source_line: call-site line number
}

// Symbol kinds the analysis distinguishes. Extractors may write others;
// unknown kinds fall through to the default handling everywhere.
const (
	KindFunction    = "function"
	KindMethod      = "method"
	KindClass       = "class"
	KindConstructor = "constructor"
	KindDestructor  = "destructor"
	KindInterface   = "interface"
	KindTypeAlias   = "type_alias"
	KindStruct      = "struct"
	KindProperty    = "property"
	KindGetter      = "getter"
	KindSetter      = "setter"
)

// Dependency edge types.
const (
	DepCalls      = "calls"
	DepImplements = "implements"
	DepInherits   = "inherits"
	DepExtends    = "extends"
	DepReferences = "references"
)
