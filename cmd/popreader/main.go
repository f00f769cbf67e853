package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/iafilius/StatePopulationDashboard/src/analysis"
	"github.com/iafilius/StatePopulationDashboard/src/config"
	"github.com/iafilius/StatePopulationDashboard/src/dataset"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("popreader", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		file      string
		state     string
		asJSON    bool
		tolerance float64
	)
	fs.StringVar(&file, "data", "", "Path to a JSON/JSONC state dataset (default: embedded)")
	fs.StringVar(&state, "state", "", "Print the category breakdown of this state")
	fs.BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	fs.Float64Var(&tolerance, "sum-tolerance", config.DefaultSumTolerancePct, "Report states whose category sum differs from Total by more than this percentage")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var (
		ds  *dataset.Dataset
		err error
	)
	if file == "" {
		ds, err = dataset.Default()
	} else {
		ds, err = dataset.LoadFile(file)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if state != "" {
		row, ok := ds.Row(state)
		if !ok {
			fmt.Fprintf(stderr, "error: %v: %q\n", analysis.ErrUnknownState, state)
			return 1
		}
		if err := printBreakdown(stdout, analysis.Breakdown(row), asJSON); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := printTable(stdout, ds, asJSON); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	for _, m := range ds.Validate(tolerance) {
		fmt.Fprintf(stderr, "warning: %s\n", m)
	}
	return 0
}

func printTable(w io.Writer, ds *dataset.Dataset, asJSON bool) error {
	rows := ds.Table()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	fmt.Fprintf(w, "Total states: %d\n", len(rows))
	header := []string{"State"}
	for _, c := range dataset.Categories() {
		header = append(header, c.String())
	}
	header = append(header, "Total")
	tw := newTable(w, header)
	align := []int{tablewriter.ALIGN_LEFT}
	for range header[1:] {
		align = append(align, tablewriter.ALIGN_RIGHT)
	}
	tw.SetColumnAlignment(align)
	for _, r := range rows {
		line := []string{r.State}
		for _, c := range dataset.Categories() {
			line = append(line, analysis.FormatCount(r.Value(c)))
		}
		rec, _ := ds.Lookup(r.State)
		tw.Append(append(line, analysis.FormatCount(rec.Total)))
	}
	tw.Render()
	return nil
}

func printBreakdown(w io.Writer, b analysis.CategoryBreakdown, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}
	fmt.Fprintln(w, analysis.PieTitle(b.State))
	tw := newTable(w, []string{"Category", "Count", "Share"})
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, s := range b.Slices {
		tw.Append([]string{s.Category.Label(), analysis.FormatCount(s.Value), analysis.FormatPercent(s.Percent)})
	}
	share := ""
	if b.Total > 0 {
		share = analysis.FormatPercent(100)
	}
	tw.Append([]string{"Sum", analysis.FormatCount(b.Total), share})
	tw.Render()
	return nil
}

// newTable returns a borderless table whose header is printed exactly as given.
func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorder(false)
	tw.SetColumnSeparator(" ")
	tw.SetCenterSeparator(" ")
	tw.SetHeaderLine(false)
	tw.SetTablePadding("  ")
	tw.SetNoWhiteSpace(true)
	return tw
}
