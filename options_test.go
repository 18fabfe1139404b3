package termplug

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.MinCols != 40 || opts.MaxCols != 120 {
		t.Errorf("Expected column limits 40-120, got %d-%d", opts.MinCols, opts.MaxCols)
	}
	if opts.MinRows != 10 || opts.MaxRows != 40 {
		t.Errorf("Expected row limits 10-40, got %d-%d", opts.MinRows, opts.MaxRows)
	}
	if opts.CharAspectRatio != 0.55 {
		t.Errorf("Expected aspect ratio 0.55, got %v", opts.CharAspectRatio)
	}
	if opts.TargetFPS != 30 {
		t.Errorf("Expected target FPS 30, got %d", opts.TargetFPS)
	}
	if !opts.UseDirtyTracking {
		t.Error("Expected dirty tracking on by default")
	}
	if opts.CellWidth != 8 || opts.CellHeight != 16 {
		t.Errorf("Expected 8x16 cells, got %dx%d", opts.CellWidth, opts.CellHeight)
	}
	if opts.FontFamily != "monospace" || opts.FontSize != 12 {
		t.Errorf("Expected 12pt monospace, got %dpt %s", opts.FontSize, opts.FontFamily)
	}
}

func TestApplyDefaultsFillsZeros(t *testing.T) {
	var opts Options
	opts.applyDefaults()

	d := DefaultOptions()
	if opts.MinCols != d.MinCols || opts.MaxCols != d.MaxCols {
		t.Errorf("Expected default column limits, got %d-%d", opts.MinCols, opts.MaxCols)
	}
	if opts.CellWidth != d.CellWidth || opts.CellHeight != d.CellHeight {
		t.Errorf("Expected default cell size, got %dx%d", opts.CellWidth, opts.CellHeight)
	}
	// Booleans are left alone; their documented defaults come from
	// DefaultOptions, not from zero-filling.
	if opts.UseDirtyTracking {
		t.Error("Expected applyDefaults to leave booleans untouched")
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	opts := Options{MinCols: 50, FontSize: 14}
	opts.applyDefaults()

	if opts.MinCols != 50 {
		t.Errorf("Expected explicit MinCols 50 kept, got %d", opts.MinCols)
	}
	if opts.FontSize != 14 {
		t.Errorf("Expected explicit FontSize 14 kept, got %d", opts.FontSize)
	}
	if opts.MaxCols != 120 {
		t.Errorf("Expected MaxCols defaulted to 120, got %d", opts.MaxCols)
	}
}

func TestClampLimits(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		cols, rows         int
		wantCols, wantRows int
	}{
		{0, 0, 40, 10},
		{39, 9, 40, 10},
		{40, 10, 40, 10},
		{80, 24, 80, 24},
		{120, 40, 120, 40},
		{121, 41, 120, 40},
		{1000, 1000, 120, 40},
	}

	for _, tt := range tests {
		if got := opts.clampCols(tt.cols); got != tt.wantCols {
			t.Errorf("clampCols(%d): expected %d, got %d", tt.cols, tt.wantCols, got)
		}
		if got := opts.clampRows(tt.rows); got != tt.wantRows {
			t.Errorf("clampRows(%d): expected %d, got %d", tt.rows, tt.wantRows, got)
		}
	}
}

func TestPixelCellConversion(t *testing.T) {
	opts := DefaultOptions()

	cols, rows := opts.pixelsToCells(320, 320)
	if cols != 40 || rows != 20 {
		t.Errorf("Expected 320x320 px to be 40x20 cells, got %dx%d", cols, rows)
	}

	// Conversion truncates.
	cols, rows = opts.pixelsToCells(327, 335)
	if cols != 40 || rows != 20 {
		t.Errorf("Expected truncation to 40x20 cells, got %dx%d", cols, rows)
	}

	w, h := opts.cellsToPixels(80, 24)
	if w != 640 || h != 384 {
		t.Errorf("Expected 80x24 cells to be 640x384 px, got %dx%d", w, h)
	}
}

func TestLoadOptionsFileMissing(t *testing.T) {
	opts, err := LoadOptionsFile(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Expected missing file to yield defaults, got error %v", err)
	}
	if opts != DefaultOptions() {
		t.Errorf("Expected defaults for missing file, got %+v", opts)
	}
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.toml")
	data := `
min_cols = 50
font_size = 14
target_fps = 60
use_dirty_tracking = false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptionsFile(path)
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if opts.MinCols != 50 {
		t.Errorf("Expected MinCols 50, got %d", opts.MinCols)
	}
	if opts.FontSize != 14 {
		t.Errorf("Expected FontSize 14, got %d", opts.FontSize)
	}
	if opts.TargetFPS != 60 {
		t.Errorf("Expected TargetFPS 60, got %d", opts.TargetFPS)
	}
	if opts.UseDirtyTracking {
		t.Error("Expected explicit use_dirty_tracking=false to override the default")
	}
	// Keys absent from the file keep their defaults.
	if opts.MaxCols != 120 {
		t.Errorf("Expected MaxCols defaulted to 120, got %d", opts.MaxCols)
	}
	if opts.FontFamily != "monospace" {
		t.Errorf("Expected FontFamily defaulted, got %s", opts.FontFamily)
	}
}

func TestLoadOptionsFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("{{{not toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOptionsFile(path); err == nil {
		t.Error("Expected a parse error for invalid TOML")
	}
}
