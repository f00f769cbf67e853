package main

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	hintBox    = color.RGBA{R: 0x2b, G: 0x14, B: 0x33, A: 210}
	hintText   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	hintShadow = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

// drawHint stacks the non-blank lines in a box at the bottom-left of a copy of img, last line lowest.
func drawHint(img image.Image, lines ...string) image.Image {
	var text []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			text = append(text, l)
		}
	}
	if img == nil || len(text) == 0 {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	const pad, margin = 6, 8
	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(hintText), Face: face}
	tw := 0
	for _, l := range text {
		if w := dr.MeasureString(l).Ceil(); w > tw {
			tw = w
		}
	}
	x := b.Min.X + margin
	last := b.Max.Y - margin
	top := last - (len(text)-1)*lineH - ascent
	box := image.Rect(x-pad, top-pad, x+tw+pad, last+pad/2).Intersect(b)
	draw.Draw(rgba, box, image.NewUniform(hintBox), image.Point{}, draw.Over)

	shadow := &font.Drawer{Dst: rgba, Src: image.NewUniform(hintShadow), Face: face}
	for i, l := range text {
		y := last - (len(text)-1-i)*lineH
		shadow.Dot = fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}
		shadow.DrawString(l)
		dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
		dr.DrawString(l)
	}
	return rgba
}

// barHintLines is the hint shown over the bar chart: the current selection, then the usage line.
func barHintLines(selected string) []string {
	if selected == "" {
		return []string{barHint}
	}
	return []string{"Selected: " + selected, barHint}
}

// blank is shown while a chart cannot be rendered.
func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 249, G: 249, B: 249, A: 255}), image.Point{}, draw.Src)
	return img
}
