// Population Viewer: desktop front-end for the state population dashboard.
//
// Shows the stacked bar chart of population by race/ethnicity per state and, below it, the donut
// breakdown of the selected state. A state is selected by tapping its bar group or via the selector.
//
// Flags:
//
//	-data FILE         JSON/JSONC dataset replacing the embedded one
//	-state NAME        initially selected state
//	-screenshots DIR   render bar.png and pie_<state>.png headlessly and exit
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/StatePopulationDashboard/cmd/popviewer/uihelpers"
	"github.com/iafilius/StatePopulationDashboard/src/analysis"
	"github.com/iafilius/StatePopulationDashboard/src/config"
	"github.com/iafilius/StatePopulationDashboard/src/dataset"
	"github.com/iafilius/StatePopulationDashboard/src/logging"
	"github.com/iafilius/StatePopulationDashboard/src/render"
)

const barHint = "Tap a bar to show that state's breakdown"

var viewerLog = logging.Scoped("viewer")

type uiState struct {
	app    fyne.App
	window fyne.Window

	dataPath string
	ds       *dataset.Dataset

	bar       analysis.BarSpec
	barLayout render.BarLayout
	pie       analysis.PieSpec
	selected  string
	showHints bool

	stateSelect  *widget.Select
	statusLabel  *widget.Label
	barRaw       image.Image
	barImgCanvas *canvas.Image
	pieImgCanvas *canvas.Image
	barOverlay   *barOverlay
}

func main() {
	var dataFlag, stateFlag, screenshotsDir string
	flag.StringVar(&dataFlag, "data", "", "Path to a JSON/JSONC state dataset (default: embedded)")
	flag.StringVar(&stateFlag, "state", "", "Initially selected state")
	flag.StringVar(&screenshotsDir, "screenshots", "", "Render charts as PNG into this directory and exit")
	flag.Parse()

	ds, err := loadDataset(dataFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if screenshotsDir != "" {
		var states []string
		if stateFlag != "" {
			states = []string{stateFlag}
		} else {
			states = ds.Names()
		}
		files, err := RunScreenshotsMode(ds, screenshotsDir, states)
		if err != nil {
			fmt.Fprintf(os.Stderr, "screenshots: %v\n", err)
			os.Exit(1)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	a := app.NewWithID("com.popdash.viewer")
	w := a.NewWindow("Population Viewer")
	w.Resize(fyne.NewSize(1000, 900))

	state := &uiState{app: a, window: w, dataPath: dataFlag, ds: ds}
	state.showHints = a.Preferences().BoolWithFallback("showHints", true)
	initial := stateFlag
	if initial == "" {
		initial = a.Preferences().StringWithFallback("lastState", "")
	}

	state.statusLabel = widget.NewLabel("")
	state.stateSelect = widget.NewSelect(ds.Names(), nil)
	state.stateSelect.PlaceHolder = "(select a state)"
	clearBtn := widget.NewButton("Clear", func() { state.stateSelect.ClearSelected() })

	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	exportBarBtn := widget.NewButton("Export Bar…", func() { exportChartPNG(state, state.barImgCanvas, "bar_chart.png") })
	exportPieBtn := widget.NewButton("Export Pie…", func() { exportChartPNG(state, state.pieImgCanvas, pieFileName(state.pie)) })

	state.barImgCanvas = canvas.NewImageFromImage(blank(800, 480))
	state.barImgCanvas.FillMode = canvas.ImageFillContain
	state.barImgCanvas.SetMinSize(fyne.NewSize(640, 380))
	state.barOverlay = newBarOverlay(state)

	pw, ph := uihelpers.ComputeChartDimensions(render.PieWidth)
	state.pieImgCanvas = canvas.NewImageFromImage(blank(pw, ph))
	state.pieImgCanvas.FillMode = canvas.ImageFillContain
	state.pieImgCanvas.SetMinSize(fyne.NewSize(float32(pw), float32(ph)))

	// wire callbacks once canvases exist
	state.stateSelect.OnChanged = func(v string) { selectState(state, v) }
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		applyBarHint(state)
	}

	top := container.NewHBox(
		widget.NewLabel("State:"), state.stateSelect, clearBtn,
		hintsChk, exportBarBtn, exportPieBtn,
	)
	title := widget.NewLabelWithStyle(analysis.DashboardTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	charts := container.NewVBox(
		container.NewStack(state.barImgCanvas, state.barOverlay),
		state.pieImgCanvas,
	)
	content := container.NewBorder(container.NewVBox(title, top), state.statusLabel, nil, nil, container.NewVScroll(charts))
	w.SetContent(content)
	buildMenus(state)

	redrawBar(state)
	if initial != "" {
		if _, ok := ds.Lookup(initial); ok {
			state.stateSelect.SetSelected(initial)
		} else {
			selectState(state, initial)
		}
	} else {
		selectState(state, "")
	}

	w.ShowAndRun()
}

func loadDataset(path string) (*dataset.Dataset, error) {
	var (
		ds  *dataset.Dataset
		err error
	)
	if path == "" {
		ds, err = dataset.Default()
	} else {
		ds, err = dataset.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	for _, m := range ds.Validate(config.DefaultSumTolerancePct) {
		viewerLog.Warnf("%s", m)
	}
	return ds, nil
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil {
		return
	}
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Dataset…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { reloadDataset(state, state.dataPath) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Bar Chart…", func() { exportChartPNG(state, state.barImgCanvas, "bar_chart.png") }),
		fyne.NewMenuItem("Export Pie Chart…", func() { exportChartPNG(state, state.pieImgCanvas, pieFileName(state.pie)) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))

	if canv := state.window.Canvas(); canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openFileDialog(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { reloadDataset(state, state.dataPath) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}

func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		reloadDataset(state, path)
	}, state.window)
	d.Show()
}

// reloadDataset swaps the dataset and redraws both charts, keeping the selection when the state still exists.
func reloadDataset(state *uiState, path string) {
	ds, err := loadDataset(path)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.ds = ds
	state.dataPath = path
	prev := state.selected
	state.stateSelect.Options = ds.Names()
	state.stateSelect.Refresh()
	redrawBar(state)
	if _, ok := ds.Lookup(prev); ok {
		selectState(state, prev)
	} else {
		state.stateSelect.ClearSelected()
		selectState(state, "")
	}
}

// selectState is the single path by which the pie changes. Taps on the bar chart route through the
// selector so both stay in sync.
func selectState(state *uiState, name string) {
	if state == nil || state.ds == nil {
		return
	}
	if state.stateSelect != nil && name != "" && state.stateSelect.Selected != name {
		if _, ok := state.ds.Lookup(name); ok {
			// OnChanged re-enters with the same name
			state.stateSelect.SetSelected(name)
			return
		}
	}
	spec, err := analysis.Select(state.ds, analysis.SelectionFromLabel(name))
	state.pie = spec
	state.selected = name
	if err != nil {
		state.statusLabel.SetText(fmt.Sprintf("Unknown state %q", name))
		viewerLog.Warnf("%v", err)
	} else if spec.Empty() {
		state.statusLabel.SetText("No state selected")
	} else {
		state.statusLabel.SetText(fmt.Sprintf("%s: %s people across %d categories", spec.State, analysis.FormatCount(sumValues(spec.Values)), len(spec.Values)))
	}
	savePrefs(state)
	redrawPie(state)
	applyBarHint(state)
}

func sumValues(vs []float64) int64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return int64(s)
}

// redrawBar re-renders the bar chart from the dataset; hint changes only need applyBarHint.
func redrawBar(state *uiState) {
	state.bar = analysis.BuildBar(state.ds.Table())
	state.barLayout = render.NewBarLayout(len(state.bar.States))
	img, err := render.BarPNG(state.bar)
	if err != nil {
		viewerLog.Errorf("render bar: %v", err)
		img = blank(800, 480)
	}
	state.barRaw = img
	applyBarHint(state)
}

func applyBarHint(state *uiState) {
	if state.barRaw == nil {
		return
	}
	img := state.barRaw
	if state.showHints {
		selected := state.pie.State
		if state.pie.Empty() {
			// unknown states carry a title but no data
			selected = ""
		}
		img = drawHint(img, barHintLines(selected)...)
	}
	state.barImgCanvas.Image = img
	state.barImgCanvas.Refresh()
	state.barOverlay.Refresh()
}

func redrawPie(state *uiState) {
	img, err := render.PiePNG(state.pie)
	if err != nil {
		viewerLog.Errorf("render pie: %v", err)
		img = blank(render.PieWidth, render.PieHeight)
	}
	state.pieImgCanvas.Image = img
	state.pieImgCanvas.Refresh()
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil {
		return
	}
	if img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img.Image); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func pieFileName(spec analysis.PieSpec) string {
	if spec.State == "" {
		return "pie_chart.png"
	}
	return "pie_" + fileSafe(spec.State) + ".png"
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastState", strings.TrimSpace(state.selected))
	prefs.SetBool("showHints", state.showHints)
}
