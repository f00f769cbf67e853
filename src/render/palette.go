package render

import "github.com/wcharczuk/go-chart/v2/drawing"

// BoldPalette colours the bar series, one per category.
var BoldPalette = []string{"7f3c8d", "11a579", "3969ac", "f2b701", "e73f74", "80ba5a", "e68310", "008695"}

// BluesPalette is the light-to-dark gradient used for donut slices.
var BluesPalette = []string{"c6dbef", "9ecae1", "6baed6", "4292c6", "2171b5", "08519c", "08306b"}

// PaletteColor returns palette[i] wrapped around the palette length.
func PaletteColor(palette []string, i int) drawing.Color {
	if len(palette) == 0 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// CSSColors returns the palette as "#rrggbb" strings for HTML/JS charts.
func CSSColors(palette []string) []string {
	out := make([]string, len(palette))
	for i, h := range palette {
		out[i] = "#" + h
	}
	return out
}
