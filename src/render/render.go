// Package render draws the bar and pie views as static SVG or PNG images with go-chart.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/StatePopulationDashboard/src/analysis"
)

var (
	ErrUnknownFormat = errors.New("render: unknown format")
	ErrNoBars        = errors.New("render: bar spec has no states")
)

// Format selects the output encoding.
type Format int

const (
	SVG Format = iota
	PNG
)

// ParseFormat accepts "svg" or "png" with or without a leading dot.
func ParseFormat(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")) {
	case "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

func (f Format) String() string {
	if f == PNG {
		return "png"
	}
	return "svg"
}

// ContentType is the HTTP media type for f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// Pie view canvas size.
const (
	PieWidth  = 640
	PieHeight = 480
)

// Bar draws the stacked bar view. Bar geometry comes from NewBarLayout so callers can hit-test clicks.
func Bar(spec analysis.BarSpec, f Format, w io.Writer) error {
	if len(spec.States) == 0 {
		return ErrNoBars
	}
	layout := NewBarLayout(len(spec.States))
	bars := make([]chart.StackedBar, len(spec.States))
	for i, state := range spec.States {
		values := make([]chart.Value, 0, len(spec.Series))
		for si, s := range spec.Series {
			if i >= len(s.Values) {
				continue
			}
			col := PaletteColor(BoldPalette, si)
			values = append(values, chart.Value{
				Label: s.Name,
				Value: s.Values[i],
				Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
			})
		}
		bars[i] = chart.StackedBar{Name: state, Width: layout.BarWidth, Values: values}
	}
	sbc := chart.StackedBarChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontSize: 16},
		Width:      layout.Width(),
		Height:     layout.Height,
		BarSpacing: layout.Spacing,
		Background: chart.Style{Padding: chart.Box{Top: layout.Top, Left: layout.Left, Right: layout.Right, Bottom: 50}},
		XAxis:      chart.Style{FontSize: 10},
		YAxis:      chart.Style{FontSize: 10},
		Bars:       bars,
	}
	if err := sbc.Render(f.provider(), w); err != nil {
		return fmt.Errorf("render bar %s: %w", f, err)
	}
	return nil
}

// Pie draws the donut for a selected state, or a title-only canvas for the placeholder
// and for specs without data (go-chart refuses to draw an empty donut).
func Pie(spec analysis.PieSpec, f Format, w io.Writer) error {
	var total float64
	for _, v := range spec.Values {
		total += v
	}
	if spec.Empty() || total <= 0 {
		return message(spec.Title, f, PieWidth, PieHeight, w)
	}
	values := make([]chart.Value, len(spec.Values))
	for i, v := range spec.Values {
		label := ""
		if i < len(spec.Labels) {
			label = spec.Labels[i]
		}
		if i < len(spec.Percents) && spec.Percents[i] >= 3 {
			// small slices stay unlabeled so labels do not overlap
			label = fmt.Sprintf("%s %s", label, analysis.FormatPercent(spec.Percents[i]))
		} else {
			label = ""
		}
		col := PaletteColor(BluesPalette, i)
		values[i] = chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: col, StrokeColor: drawing.ColorWhite, StrokeWidth: 1, FontColor: labelColor(i)},
		}
	}
	dc := chart.DonutChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontSize: 16},
		Width:      PieWidth,
		Height:     PieHeight,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		Values:     values,
	}
	if err := dc.Render(f.provider(), w); err != nil {
		return fmt.Errorf("render pie %s: %w", f, err)
	}
	return nil
}

// labelColor keeps slice labels readable on both the light and the dark end of the gradient.
func labelColor(i int) drawing.Color {
	if i%len(BluesPalette) < 3 {
		return drawing.ColorBlack
	}
	return drawing.ColorWhite
}

// message renders a blank canvas with a centred title line.
func message(text string, f Format, width, height int, w io.Writer) error {
	r, err := f.provider()(width, height)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("default font: %w", err)
	}
	r.SetFont(font)
	r.SetFontSize(14)
	r.SetFontColor(drawing.ColorFromHex("333333"))
	tb := r.MeasureText(text)
	x := (width - tb.Width()) / 2
	if x < 4 {
		x = 4
	}
	r.Text(text, x, 40)
	if err := r.Save(w); err != nil {
		return fmt.Errorf("save %s: %w", f, err)
	}
	return nil
}

// BarPNG renders the bar view and decodes it for image-based front-ends.
func BarPNG(spec analysis.BarSpec) (image.Image, error) {
	var buf bytes.Buffer
	if err := Bar(spec, PNG, &buf); err != nil {
		return nil, err
	}
	return decodePNG(buf.Bytes())
}

// PiePNG renders the pie view and decodes it.
func PiePNG(spec analysis.PieSpec) (image.Image, error) {
	var buf bytes.Buffer
	if err := Pie(spec, PNG, &buf); err != nil {
		return nil, err
	}
	return decodePNG(buf.Bytes())
}

func decodePNG(b []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}
