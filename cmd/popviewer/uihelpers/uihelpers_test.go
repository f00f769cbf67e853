package uihelpers

import (
	"math"
	"testing"

	"github.com/iafilius/StatePopulationDashboard/src/render"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 640},
		{639, 640},
		{640, 640},
		{1600, 1600},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 320 || h > 520 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestComputeContainRect(t *testing.T) {
	cases := []struct {
		imgW, imgH, viewW, viewH float32
		wantX, wantY, wantScale  float32
	}{
		// same aspect: fills view
		{800, 400, 1600, 800, 0, 0, 2},
		// wider view: letterbox left/right
		{800, 400, 1000, 400, 100, 0, 1},
		// taller view: letterbox top/bottom
		{800, 400, 800, 600, 0, 100, 1},
	}
	for _, c := range cases {
		x, y, w, h, s := ComputeContainRect(c.imgW, c.imgH, c.viewW, c.viewH)
		if x != c.wantX || y != c.wantY || s != c.wantScale {
			t.Fatalf("%v: got x=%v y=%v s=%v", c, x, y, s)
		}
		if math.Abs(float64(w-c.imgW*s)) > 1e-3 || math.Abs(float64(h-c.imgH*s)) > 1e-3 {
			t.Fatalf("%v: drawn size %vx%v", c, w, h)
		}
	}
	if _, _, w, h, s := ComputeContainRect(0, 0, 300, 200); w != 300 || h != 200 || s != 1 {
		t.Fatalf("degenerate image should fall back to view size")
	}
}

func TestViewToImage(t *testing.T) {
	ix, iy, ok := ViewToImage(800, 400, 1000, 400, 500, 200)
	if !ok || ix != 400 || iy != 200 {
		t.Fatalf("centre => %v,%v ok=%v", ix, iy, ok)
	}
	if _, _, ok := ViewToImage(800, 400, 1000, 400, 50, 200); ok {
		t.Fatalf("letterbox tap must not map into the image")
	}
}

func TestBarIndexAtView(t *testing.T) {
	l := render.NewBarLayout(4)
	imgW, imgH := float32(l.Width()), float32(l.Height)
	// view twice as large: scale 2, no letterbox
	viewW, viewH := imgW*2, imgH*2
	for i := 0; i < 4; i++ {
		x := float32(l.Center(i)) * 2
		got, ok := BarIndexAtView(l, imgW, imgH, viewW, viewH, x, viewH/2)
		if !ok || got != i {
			t.Fatalf("bar %d => %d ok=%v", i, got, ok)
		}
	}
	_, right0 := l.Span(0)
	left1, _ := l.Span(1)
	gapX := float32(right0+left1) / 2 * 2
	if _, ok := BarIndexAtView(l, imgW, imgH, viewW, viewH, gapX, viewH/2); ok {
		t.Fatalf("gap must not select a bar")
	}
	// letterboxed view: offset must be removed before hit-testing
	wide := imgW + 200
	got, ok := BarIndexAtView(l, imgW, imgH, wide, imgH, 100+float32(l.Center(2)), imgH/2)
	if !ok || got != 2 {
		t.Fatalf("letterboxed tap => %d ok=%v", got, ok)
	}
}
