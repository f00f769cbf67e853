// Package analysis turns dataset rows into the chart specifications shown by the dashboard:
// the stacked bar view over all states and the per-state donut breakdown produced by a selection.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iafilius/StatePopulationDashboard/src/dataset"
)

// Titles shared by every front-end.
const (
	DashboardTitle   = "Population Distribution in Selected States"
	BarTitle         = "Population by Race and Ethnicity"
	BarYAxisTitle    = "Population Count"
	BarLegendTitle   = "Race/Ethnicity"
	PlaceholderTitle = "Click a state in the bar chart to see the population breakdown."
	DonutHole        = 0.4
)

// ErrUnknownState is returned when a selection names a state that is not in the dataset.
var ErrUnknownState = errors.New("unknown state")

// Slice is one category's share of a state.
type Slice struct {
	Category dataset.Category `json:"-"`
	Label    string           `json:"label"`
	Value    int64            `json:"value"`
	Percent  float64          `json:"percent"`
}

// CategoryBreakdown is a state's counts reshaped for pie rendering.
type CategoryBreakdown struct {
	State  string  `json:"state"`
	Slices []Slice `json:"slices"`
	Total  int64   `json:"total"`
}

// Breakdown computes one slice per category, in category order. Percentages are relative to the
// category sum, so they add up to 100 unless every count is zero.
func Breakdown(row dataset.Row) CategoryBreakdown {
	b := CategoryBreakdown{State: row.State, Total: row.Sum()}
	b.Slices = make([]Slice, 0, len(row.Values))
	for _, c := range dataset.Categories() {
		v := row.Value(c)
		s := Slice{Category: c, Label: c.String(), Value: v}
		if b.Total > 0 {
			s.Percent = float64(v) / float64(b.Total) * 100
		}
		b.Slices = append(b.Slices, s)
	}
	return b
}

// PieSpec is the pie view's chart specification.
type PieSpec struct {
	Title       string    `json:"title"`
	State       string    `json:"state,omitempty"`
	Labels      []string  `json:"labels"`
	Values      []float64 `json:"values"`
	Percents    []float64 `json:"percents"`
	Placeholder bool      `json:"placeholder"`
	Hole        float64   `json:"hole"`
}

// Empty reports whether the spec carries no data series.
func (p PieSpec) Empty() bool { return len(p.Values) == 0 }

// PieTitle is the title used for a selected state.
func PieTitle(state string) string { return state + " Population Breakdown" }

// Placeholder is the pie shown before any bar has been clicked.
func Placeholder() PieSpec {
	return PieSpec{
		Title:       PlaceholderTitle,
		Labels:      []string{},
		Values:      []float64{},
		Percents:    []float64{},
		Placeholder: true,
		Hole:        DonutHole,
	}
}

// PieFromBreakdown builds the donut spec for a computed breakdown.
func PieFromBreakdown(b CategoryBreakdown) PieSpec {
	spec := PieSpec{
		Title:    PieTitle(b.State),
		State:    b.State,
		Labels:   make([]string, len(b.Slices)),
		Values:   make([]float64, len(b.Slices)),
		Percents: make([]float64, len(b.Slices)),
		Hole:     DonutHole,
	}
	for i, s := range b.Slices {
		spec.Labels[i] = s.Label
		spec.Values[i] = float64(s.Value)
		spec.Percents[i] = s.Percent
	}
	return spec
}

// SelectionFromLabel converts a clicked bar label into a selection; blank labels mean "nothing selected".
func SelectionFromLabel(label string) *string {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	return &label
}

// Select is the click handler: it maps the most recently clicked bar label to the pie spec.
// A nil selection yields the placeholder. An unmatched label yields a titled spec without data and
// ErrUnknownState. The dataset is only read.
func Select(ds *dataset.Dataset, selection *string) (PieSpec, error) {
	if selection == nil || strings.TrimSpace(*selection) == "" {
		return Placeholder(), nil
	}
	state := *selection
	row, ok := ds.Row(state)
	if !ok {
		spec := Placeholder()
		spec.Placeholder = false
		spec.Title = PieTitle(state)
		spec.State = state
		return spec, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	return PieFromBreakdown(Breakdown(row)), nil
}

// BarSeries is one category across all states.
type BarSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// BarSpec is the bar view's chart specification.
type BarSpec struct {
	Title       string      `json:"title"`
	XAxisTitle  string      `json:"x_axis_title"`
	YAxisTitle  string      `json:"y_axis_title"`
	LegendTitle string      `json:"legend_title"`
	States      []string    `json:"states"`
	Series      []BarSeries `json:"series"`
}

// StackTotal returns the height of the stacked bar for state index i.
func (b BarSpec) StackTotal(i int) float64 {
	var t float64
	for _, s := range b.Series {
		if i < len(s.Values) {
			t += s.Values[i]
		}
	}
	return t
}

// BuildBar lays out one bar group per row and one series per category.
func BuildBar(rows []dataset.Row) BarSpec {
	spec := BarSpec{
		Title:       BarTitle,
		YAxisTitle:  BarYAxisTitle,
		LegendTitle: BarLegendTitle,
		States:      make([]string, len(rows)),
	}
	for i, r := range rows {
		spec.States[i] = r.State
	}
	for _, c := range dataset.Categories() {
		s := BarSeries{Name: c.String(), Values: make([]float64, len(rows))}
		for i, r := range rows {
			s.Values[i] = float64(r.Value(c))
		}
		spec.Series = append(spec.Series, s)
	}
	return spec
}

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators (5028090 -> "5,028,090").
func FormatCount(n int64) string { return countPrinter.Sprintf("%d", n) }

// FormatPercent renders a share with one decimal.
func FormatPercent(p float64) string { return fmt.Sprintf("%.1f%%", p) }
