package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/iafilius/StatePopulationDashboard/src/analysis"
	"github.com/iafilius/StatePopulationDashboard/src/dataset"
	"github.com/iafilius/StatePopulationDashboard/src/render"
)

// RunScreenshotsMode renders the bar view and one pie per requested state as PNGs under outDir.
// It runs headlessly without creating a UI window. With no states, the placeholder pie is written as pie.png.
func RunScreenshotsMode(ds *dataset.Dataset, outDir string, states []string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	var written []string
	write := func(name string, render func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		outPath := filepath.Join(outDir, name)
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		written = append(written, outPath)
		return nil
	}

	bar := analysis.BuildBar(ds.Table())
	if err := write("bar.png", func(b *bytes.Buffer) error {
		img, err := render.BarPNG(bar)
		if err != nil {
			return err
		}
		return png.Encode(b, drawHint(img, barHint))
	}); err != nil {
		return written, err
	}

	if len(states) == 0 {
		states = []string{""}
	}
	for _, st := range states {
		spec, err := analysis.Select(ds, analysis.SelectionFromLabel(st))
		if err != nil {
			return written, err
		}
		name := "pie.png"
		if spec.State != "" {
			name = "pie_" + fileSafe(spec.State) + ".png"
		}
		if err := write(name, func(b *bytes.Buffer) error { return render.Pie(spec, render.PNG, b) }); err != nil {
			return written, err
		}
	}
	return written, nil
}

// fileSafe lowercases s and replaces anything outside [a-z0-9_-] with '-'.
func fileSafe(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
