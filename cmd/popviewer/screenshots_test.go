package main

import (
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"testing"

	"github.com/iafilius/StatePopulationDashboard/src/dataset"
	"github.com/iafilius/StatePopulationDashboard/src/render"
)

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestScreenshots_AllStates(t *testing.T) {
	ds, err := dataset.Default()
	if err != nil {
		t.Fatalf("default dataset: %v", err)
	}
	outDir := t.TempDir()
	files, err := RunScreenshotsMode(ds, outDir, ds.Names())
	if err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	if len(files) != 1+ds.Len() {
		t.Fatalf("expected %d files, got %d: %v", 1+ds.Len(), len(files), files)
	}
	for _, name := range []string{"bar.png", "pie_alabama.png", "pie_alaska.png", "pie_arizona.png", "pie_arkansas.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	bar := decodeFile(t, filepath.Join(outDir, "bar.png"))
	l := render.NewBarLayout(ds.Len())
	if bar.Bounds().Dx() != l.Width() || bar.Bounds().Dy() != l.Height {
		t.Fatalf("bar size %v, want %dx%d", bar.Bounds(), l.Width(), l.Height)
	}
	pie := decodeFile(t, filepath.Join(outDir, "pie_alaska.png"))
	if pie.Bounds().Dx() != render.PieWidth || pie.Bounds().Dy() != render.PieHeight {
		t.Fatalf("pie size %v", pie.Bounds())
	}
}

func TestScreenshots_PlaceholderAndUnknown(t *testing.T) {
	ds, err := dataset.Default()
	if err != nil {
		t.Fatalf("default dataset: %v", err)
	}
	outDir := t.TempDir()
	if _, err := RunScreenshotsMode(ds, outDir, nil); err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "pie.png")); err != nil {
		t.Fatalf("placeholder pie missing: %v", err)
	}
	if _, err := RunScreenshotsMode(ds, t.TempDir(), []string{"Atlantis"}); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestFileSafe(t *testing.T) {
	cases := map[string]string{
		"Alabama":        "alabama",
		"New York":       "new-york",
		"District/Col.":  "district-col-",
		"two_or-more123": "two_or-more123",
	}
	for in, want := range cases {
		if got := fileSafe(in); got != want {
			t.Fatalf("fileSafe(%q) = %q want %q", in, got, want)
		}
	}
}

func mustDefault(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Default()
	if err != nil {
		t.Fatalf("default dataset: %v", err)
	}
	return ds
}
