package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/StatePopulationDashboard/cmd/popviewer/uihelpers"
	"github.com/iafilius/StatePopulationDashboard/src/analysis"
)

// barOverlay sits on top of the bar chart image. A tap on a bar group selects that state;
// hovering shows the state name and its stacked total next to the cursor.
type barOverlay struct {
	widget.BaseWidget
	state    *uiState
	mouse    fyne.Position
	hoverIdx int
	hovering bool
}

func newBarOverlay(state *uiState) *barOverlay {
	o := &barOverlay{state: state, hoverIdx: -1}
	o.ExtendBaseWidget(o)
	return o
}

// barAt resolves a position in overlay coordinates to a bar group index.
func (o *barOverlay) barAt(pos fyne.Position) (int, bool) {
	st := o.state
	if st == nil || st.barImgCanvas == nil || st.barImgCanvas.Image == nil || len(st.bar.States) == 0 {
		return 0, false
	}
	b := st.barImgCanvas.Image.Bounds()
	size := o.Size()
	idx, ok := uihelpers.BarIndexAtView(st.barLayout, float32(b.Dx()), float32(b.Dy()), size.Width, size.Height, pos.X, pos.Y)
	if !ok || idx >= len(st.bar.States) {
		return 0, false
	}
	return idx, true
}

func (o *barOverlay) Tapped(ev *fyne.PointEvent) {
	idx, ok := o.barAt(ev.Position)
	if !ok {
		return
	}
	selectState(o.state, o.state.bar.States[idx])
}

func (o *barOverlay) Cursor() desktop.Cursor {
	if o.hovering && o.hoverIdx >= 0 {
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

func (o *barOverlay) MouseIn(ev *desktop.MouseEvent) { o.MouseMoved(ev) }

func (o *barOverlay) MouseMoved(ev *desktop.MouseEvent) {
	o.mouse = ev.Position
	o.hovering = true
	if idx, ok := o.barAt(ev.Position); ok {
		o.hoverIdx = idx
	} else {
		o.hoverIdx = -1
	}
	o.Refresh()
}

func (o *barOverlay) MouseOut() {
	o.hovering = false
	o.hoverIdx = -1
	o.Refresh()
}

func (o *barOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background so the whole chart area receives events
	bg := canvas.NewRectangle(color.RGBA{})
	labelBG := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 170})
	label := canvas.NewText("", color.White)
	label.TextSize = 12
	return &barOverlayRenderer{o: o, bg: bg, labelBG: labelBG, label: label, objs: []fyne.CanvasObject{bg, labelBG, label}}
}

type barOverlayRenderer struct {
	o       *barOverlay
	bg      *canvas.Rectangle
	labelBG *canvas.Rectangle
	label   *canvas.Text
	objs    []fyne.CanvasObject
}

func (r *barOverlayRenderer) Destroy() {}

func (r *barOverlayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	st := r.o.state
	if !r.o.hovering || r.o.hoverIdx < 0 || st == nil || r.o.hoverIdx >= len(st.bar.States) {
		r.label.Text = ""
		r.labelBG.Resize(fyne.NewSize(0, 0))
		r.labelBG.Move(fyne.NewPos(-1000, -1000))
		r.label.Move(fyne.NewPos(-1000, -1000))
		return
	}
	i := r.o.hoverIdx
	r.label.Text = st.bar.States[i] + ": " + analysis.FormatCount(int64(st.bar.StackTotal(i)))
	ts := r.label.MinSize()
	x := r.o.mouse.X + 12
	y := r.o.mouse.Y - ts.Height - 8
	if x+ts.Width+8 > size.Width {
		x = r.o.mouse.X - ts.Width - 16
	}
	if y < 0 {
		y = r.o.mouse.Y + 12
	}
	r.labelBG.Resize(fyne.NewSize(ts.Width+8, ts.Height+4))
	r.labelBG.Move(fyne.NewPos(x-4, y-2))
	r.label.Move(fyne.NewPos(x, y))
}

func (r *barOverlayRenderer) MinSize() fyne.Size { return fyne.NewSize(0, 0) }

func (r *barOverlayRenderer) Objects() []fyne.CanvasObject { return r.objs }

func (r *barOverlayRenderer) Refresh() {
	r.Layout(r.o.Size())
	canvas.Refresh(r.o)
}
