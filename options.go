package termplug

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Options configures a Bridge. Start from DefaultOptions and override
// what you need; New fills in zero numeric and string fields but leaves
// booleans as given.
type Options struct {
	// Grid size limits applied to every size negotiation.
	MinCols int `toml:"min_cols"`
	MaxCols int `toml:"max_cols"`
	MinRows int `toml:"min_rows"`
	MaxRows int `toml:"max_rows"`

	// CharAspectRatio is the assumed width/height ratio of a character
	// cell. Renderers may use it to pick fonts; the bridge itself
	// converts pixels to cells with CellWidth and CellHeight.
	CharAspectRatio float64 `toml:"char_aspect_ratio"`

	// Feature flags carried for renderers. The core render path does
	// not consult them.
	EnableMouse   bool `toml:"enable_mouse"`
	EnableColors  bool `toml:"enable_colors"`
	EnableUnicode bool `toml:"enable_unicode"`

	// TargetFPS is advisory metadata for renderers. The render loop
	// runs at its own fixed 16ms cadence and does not read this field.
	TargetFPS int `toml:"target_fps"`

	// UseDirtyTracking skips the platform redraw when an instance's
	// serialized content has not changed since the last tick.
	UseDirtyTracking bool `toml:"use_dirty_tracking"`

	// Font selection handed through to platform renderers.
	FontFamily string `toml:"font_family"`
	FontSize   int    `toml:"font_size"`

	// Pixel size of one character cell, used for every pixel/cell
	// conversion. The 8x16 defaults match the documented size
	// contracts; change both together or GetSize and SetSize will
	// disagree with the host.
	CellWidth  int `toml:"cell_width"`
	CellHeight int `toml:"cell_height"`

	// Renderer draws content into the host window. Without one,
	// SetParent fails and instances render nowhere.
	Renderer Renderer `toml:"-"`

	// Logger receives bridge diagnostics. nil is silent.
	Logger *Logger `toml:"-"`
}

// DefaultOptions returns the documented defaults: 40-120 columns, 10-40
// rows, 0.55 aspect ratio, 30 advisory FPS, dirty tracking on, 12pt
// monospace, 8x16 pixel cells.
func DefaultOptions() Options {
	return Options{
		MinCols:          40,
		MaxCols:          120,
		MinRows:          10,
		MaxRows:          40,
		CharAspectRatio:  0.55,
		TargetFPS:        30,
		UseDirtyTracking: true,
		FontFamily:       "monospace",
		FontSize:         12,
		CellWidth:        8,
		CellHeight:       16,
	}
}

// LoadOptionsFile reads options from a TOML file layered over the
// defaults. A missing file is not an error and yields the defaults, so
// callers can point at an optional config path unconditionally.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading options file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing options file %s: %w", path, err)
	}
	opts.applyDefaults()
	return opts, nil
}

// applyDefaults fills zero numeric and string fields. Booleans are left
// alone; DefaultOptions is the source of their documented defaults.
func (o *Options) applyDefaults() {
	d := DefaultOptions()
	if o.MinCols <= 0 {
		o.MinCols = d.MinCols
	}
	if o.MaxCols <= 0 {
		o.MaxCols = d.MaxCols
	}
	if o.MinRows <= 0 {
		o.MinRows = d.MinRows
	}
	if o.MaxRows <= 0 {
		o.MaxRows = d.MaxRows
	}
	if o.CharAspectRatio <= 0 {
		o.CharAspectRatio = d.CharAspectRatio
	}
	if o.TargetFPS <= 0 {
		o.TargetFPS = d.TargetFPS
	}
	if o.FontFamily == "" {
		o.FontFamily = d.FontFamily
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.CellWidth <= 0 {
		o.CellWidth = d.CellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = d.CellHeight
	}
}

// clampCols bounds a column count to [MinCols, MaxCols].
func (o *Options) clampCols(cols int) int {
	if cols < o.MinCols {
		return o.MinCols
	}
	if cols > o.MaxCols {
		return o.MaxCols
	}
	return cols
}

// clampRows bounds a row count to [MinRows, MaxRows].
func (o *Options) clampRows(rows int) int {
	if rows < o.MinRows {
		return o.MinRows
	}
	if rows > o.MaxRows {
		return o.MaxRows
	}
	return rows
}

// pixelsToCells converts a pixel size to whole cells, truncating.
func (o *Options) pixelsToCells(widthPx, heightPx int) (cols, rows int) {
	return widthPx / o.CellWidth, heightPx / o.CellHeight
}

// cellsToPixels converts a cell count to pixels.
func (o *Options) cellsToPixels(cols, rows int) (widthPx, heightPx int) {
	return cols * o.CellWidth, rows * o.CellHeight
}
