// Package output renders analysis results as JSON or a terminal table.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"deadscope/internal/analyzer"
)

// Format selects a result rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("invalid format %q (want table or json)", s)
}

// Renderer writes one Result in the configured format.
type Renderer struct {
	format  Format
	colored bool
}

// NewRenderer creates a renderer. Color applies to table output only.
func NewRenderer(format Format, colored bool) *Renderer {
	return &Renderer{format: format, colored: colored}
}

// Render writes the result to w.
func (r *Renderer) Render(w io.Writer, res *analyzer.Result) error {
	if r.format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return r.renderTable(w, res)
}

func (r *Renderer) renderTable(w io.Writer, res *analyzer.Result) error {
	bold := r.sprintFunc(color.Bold)

	title := fmt.Sprintf("Dead code report: %s", res.Repository.Name)
	fmt.Fprintln(w, bold(title))
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	if res.Summary.DeadCodeFound == 0 {
		fmt.Fprintf(w, "No dead code found (%d symbols analyzed).\n", res.Summary.TotalSymbolsAnalyzed)
		r.renderNotes(w, res.Notes)
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)

	table.Header([]string{"File", "Lines", "Symbol", "Category", "Confidence", "Reason"})
	for _, ff := range res.FindingsByFile {
		for _, group := range ff.ByCategory {
			for _, f := range group.Symbols {
				table.Append([]string{
					ff.FilePath,
					fmt.Sprintf("%d-%d", f.LineRange.Start, f.LineRange.End),
					f.Name,
					string(f.Category),
					r.confidenceCell(f.Confidence),
					f.Reason,
				})
			}
		}
	}
	table.Render()
	fmt.Fprintln(w)

	fmt.Fprintln(w, bold("Summary"))
	fmt.Fprintf(w, "  %d of %d symbols look dead", res.Summary.DeadCodeFound, res.Summary.TotalSymbolsAnalyzed)
	fmt.Fprintf(w, " (high: %d, medium: %d, low: %d)\n",
		res.Summary.ByConfidence[analyzer.ConfidenceHigh],
		res.Summary.ByConfidence[analyzer.ConfidenceMedium],
		res.Summary.ByConfidence[analyzer.ConfidenceLow],
	)
	for _, cat := range categoryDisplayOrder {
		if n := res.Summary.ByCategory[cat]; n > 0 {
			fmt.Fprintf(w, "  %-24s %d\n", cat, n)
		}
	}

	r.renderNotes(w, res.Notes)
	return nil
}

var categoryDisplayOrder = []analyzer.Category{
	analyzer.CategoryInterfaceBloat,
	analyzer.CategoryUnusedExport,
	analyzer.CategoryDeadClass,
	analyzer.CategoryOrphanedImplementation,
	analyzer.CategoryDeadPublicMethod,
	analyzer.CategoryDeadPrivateMethod,
	analyzer.CategoryDeadFunction,
}

func (r *Renderer) renderNotes(w io.Writer, notes []string) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.sprintFunc(color.Bold)("Notes"))
	note := r.sprintFunc(color.FgYellow)
	for _, n := range notes {
		fmt.Fprintf(w, "  %s\n", note(n))
	}
}

func (r *Renderer) confidenceCell(c analyzer.Confidence) string {
	if !r.colored {
		return string(c)
	}
	switch c {
	case analyzer.ConfidenceHigh:
		return color.New(color.FgRed).Sprint(string(c))
	case analyzer.ConfidenceMedium:
		return color.New(color.FgYellow).Sprint(string(c))
	default:
		return color.New(color.FgHiBlack).Sprint(string(c))
	}
}

func (r *Renderer) sprintFunc(attr color.Attribute) func(a ...interface{}) string {
	if !r.colored {
		return fmt.Sprint
	}
	return color.New(attr).SprintFunc()
}
