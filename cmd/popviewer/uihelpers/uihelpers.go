package uihelpers

import (
	"github.com/iafilius/StatePopulationDashboard/src/render"
)

// ComputeChartDimensions applies width/height clamp rules used for the pie image.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	h := int(float32(w) * 0.5)
	if h < 320 {
		h = 320
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// ComputeContainRect returns where an image of imgW x imgH is drawn inside a view of viewW x viewH
// with contain scaling (aspect kept, centred): top-left offset, drawn size and scale factor.
func ComputeContainRect(imgW, imgH, viewW, viewH float32) (drawX, drawY, drawW, drawH, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	drawW = imgW * scale
	drawH = imgH * scale
	drawX = (viewW - drawW) / 2
	drawY = (viewH - drawH) / 2
	return
}

// ViewToImage maps a point in view coordinates back into image pixels. ok is false when the point
// lies in the letterbox area outside the drawn image.
func ViewToImage(imgW, imgH, viewW, viewH, x, y float32) (ix, iy float32, ok bool) {
	drawX, drawY, drawW, drawH, scale := ComputeContainRect(imgW, imgH, viewW, viewH)
	if x < drawX || x > drawX+drawW || y < drawY || y > drawY+drawH || scale <= 0 {
		return 0, 0, false
	}
	return (x - drawX) / scale, (y - drawY) / scale, true
}

// BarIndexAtView resolves a tap on the displayed bar chart to a bar group index.
func BarIndexAtView(layout render.BarLayout, imgW, imgH, viewW, viewH, x, y float32) (int, bool) {
	ix, _, ok := ViewToImage(imgW, imgH, viewW, viewH, x, y)
	if !ok {
		return 0, false
	}
	return layout.IndexAt(float64(ix))
}
