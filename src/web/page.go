package web

import (
	"bytes"
	"fmt"
	"html"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/iafilius/StatePopulationDashboard/src/analysis"
	"github.com/iafilius/StatePopulationDashboard/src/render"
)

// Chart element ids; the click script refers to the bar chart's JS instance by id.
const (
	BarChartID = "state_bar_chart"
	PieChartID = "state_pie_chart"
)

// chartTheme is the echarts theme both charts are initialised with.
const chartTheme = "white"

// barClickJS reloads the page with the clicked x-axis label so the server recomputes the pie.
const barClickJS = `goecharts_` + BarChartID + `.on('click', function (params) {
	var u = new URL(window.location.href);
	u.searchParams.set('state', params.name);
	window.location.href = u.toString();
});`

func newBarChart(spec analysis.BarSpec, assetsHost string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  analysis.DashboardTitle,
			Width:      "1100px",
			Height:     "520px",
			ChartID:    BarChartID,
			AssetsHost: assetsHost,
			Theme:      chartTheme,
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "32", Left: "8"}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XAxisTitle, AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YAxisTitle}),
		charts.WithColorsOpts(opts.Colors(render.CSSColors(render.BoldPalette))),
	)
	bar.SetXAxis(spec.States)
	for _, s := range spec.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Name: spec.States[i], Value: v}
		}
		bar.AddSeries(s.Name, data, charts.WithBarChartOpts(opts.BarChart{Stack: "population"}))
	}
	bar.AddJSFuncs(barClickJS)
	return bar
}

func newPieChart(spec analysis.PieSpec, assetsHost string) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:      "1100px",
			Height:     "480px",
			ChartID:    PieChartID,
			AssetsHost: assetsHost,
			Theme:      chartTheme,
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item", Formatter: "{b}: {c} ({d}%)"}),
		charts.WithLegendOpts(opts.Legend{Show: !spec.Empty(), Top: "32", Left: "8", Orient: "vertical"}),
		charts.WithColorsOpts(opts.Colors(render.CSSColors(render.BluesPalette))),
	)
	if spec.Empty() {
		return pie
	}
	data := make([]opts.PieData, len(spec.Values))
	for i, v := range spec.Values {
		data[i] = opts.PieData{Name: spec.Labels[i], Value: v}
	}
	inner := fmt.Sprintf("%.0f%%", spec.Hole*100)
	pie.AddSeries(spec.State, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{inner, "75%"}}),
		charts.WithLabelOpts(opts.Label{Show: true, Formatter: "{b}\n{d}%"}),
	)
	return pie
}

// dashboardPage renders the full HTML page: heading, optional notice, bar view and pie view.
func dashboardPage(bar analysis.BarSpec, pie analysis.PieSpec, notice, assetsHost string) ([]byte, error) {
	page := components.NewPage()
	page.PageTitle = analysis.DashboardTitle
	page.AssetsHost = assetsHost
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(newBarChart(bar, assetsHost), newPieChart(pie, assetsHost))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return withHeader(buf.Bytes(), notice), nil
}

// withHeader inserts the page heading (and a notice line when set) right after <body>.
func withHeader(doc []byte, notice string) []byte {
	var hdr bytes.Buffer
	hdr.WriteString(`<div style="font-family: Arial; background-color: #f9f9f9; padding: 20px;">`)
	fmt.Fprintf(&hdr, `<h1 style="text-align: center; color: #333;">%s</h1>`, html.EscapeString(analysis.DashboardTitle))
	if notice != "" {
		fmt.Fprintf(&hdr, `<p class="notice" style="text-align: center; color: #a33;">%s</p>`, html.EscapeString(notice))
	}
	hdr.WriteString(`</div>`)

	marker := []byte("<body>")
	i := bytes.Index(doc, marker)
	if i < 0 {
		return append(hdr.Bytes(), doc...)
	}
	at := i + len(marker)
	out := make([]byte, 0, len(doc)+hdr.Len())
	out = append(out, doc[:at]...)
	out = append(out, hdr.Bytes()...)
	out = append(out, doc[at:]...)
	return out
}
