package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deadscope/internal/analyzer"
	"deadscope/internal/graph"
	"deadscope/internal/output"
)

var (
	detectRepoFlag           string
	detectConfidenceFlag     string
	detectIncludeExportsFlag bool
	detectIncludeTestsFlag   bool
	detectMaxResultsFlag     int
	detectFilePatternFlag    string
	detectExcludeFlag        []string
	detectFormatFlag         string
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Find dead code in an indexed repository",
	Long: `Detect scans the symbol graph for symbols with zero incoming calls,
removes likely false positives (entry points, framework callbacks, tests,
accessors, event handlers, deprecated API, explicit interface
implementations), and reports the rest grouped by file and category with a
confidence level.

Without --repo, the most recently indexed repository is analyzed.

Examples:
  # Analyze the latest repository
  deadscope detect

  # Only high-confidence findings, machine readable
  deadscope detect --confidence high --format json

  # Include exported symbols, scoped to service files
  deadscope detect --include-exports --file-pattern '*.service.*'

  # Skip generated code
  deadscope detect --exclude '**/generated/**'
`,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringVar(&detectRepoFlag, "repo", "", "Repository id (default: most recently updated)")
	detectCmd.Flags().StringVar(&detectConfidenceFlag, "confidence", "", "Minimum confidence: high, medium, or low")
	detectCmd.Flags().BoolVar(&detectIncludeExportsFlag, "include-exports", false, "Report exported symbols too")
	detectCmd.Flags().BoolVar(&detectIncludeTestsFlag, "include-tests", false, "Scan test files too")
	detectCmd.Flags().IntVar(&detectMaxResultsFlag, "max-results", 0, "Cap the number of findings (0 = unlimited)")
	detectCmd.Flags().StringVar(&detectFilePatternFlag, "file-pattern", "", "Only scan files matching this glob (* and ?)")
	detectCmd.Flags().StringArrayVar(&detectExcludeFlag, "exclude", nil, "Drop findings in files matching this glob (repeatable)")
	detectCmd.Flags().StringVar(&detectFormatFlag, "format", "table", "Output format: table or json")
}

func runDetect(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(detectFormatFlag)
	if err != nil {
		return err
	}

	params := analyzer.Params{
		IncludeExports: detectIncludeExportsFlag,
		IncludeTests:   detectIncludeTestsFlag,
		MaxResults:     detectMaxResultsFlag,
		FilePattern:    detectFilePatternFlag,
		ExcludeGlobs:   detectExcludeFlag,
	}
	if detectConfidenceFlag != "" {
		threshold, err := analyzer.ParseConfidence(detectConfidenceFlag)
		if err != nil {
			return err
		}
		params.ConfidenceThreshold = threshold
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	querier, err := graph.NewQuerier(db)
	if err != nil {
		return err
	}
	ruleCfg, err := loadRules()
	if err != nil {
		return err
	}
	detector, err := analyzer.NewDetector(querier, ruleCfg)
	if err != nil {
		return err
	}

	result, err := detector.Detect(cmd.Context(), detectRepoFlag, params)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}
	if verbose {
		log.Printf("analyzed %d symbols in %s, %d findings",
			result.Summary.TotalSymbolsAnalyzed, result.Repository.Name, result.Summary.DeadCodeFound)
	}

	renderer := output.NewRenderer(format, !color.NoColor)
	return renderer.Render(os.Stdout, result)
}
