package termplug

// DefaultCols and DefaultRows are the grid dimensions an editor gets
// before any size negotiation has happened.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// Editor is implemented by plugin authors. The bridge invokes these
// callbacks on its own goroutines; none of them may call back into the
// bridge for the same instance. Embed EditorBase to get default
// implementations for everything except CreateComponent.
type Editor interface {
	// OnCreate is called once, before CreateComponent, when the host
	// opens the GUI.
	OnCreate()

	// OnDestroy is called once when the host closes the GUI.
	OnDestroy()

	// OnShow and OnHide follow the host's visibility changes.
	OnShow()
	OnHide()

	// OnSizeChanged reports the negotiated grid size after SetSize.
	OnSizeChanged(cols, rows int)

	// OnEvent offers an input event to the editor. Returning true
	// consumes it. Native input routing is not wired by this package;
	// the hook exists for hosts that deliver events themselves.
	OnEvent(ev Event) bool

	// OnParameterUpdate delivers one queued parameter change on the
	// render goroutine, in enqueue order.
	OnParameterUpdate(paramID uint32, value float64)

	// CreateComponent builds the editor's UI tree. Called exactly once
	// per instance. A nil component is allowed; the instance is then
	// never rendered.
	CreateComponent() Component

	// PreferredSize reports the grid size the editor wants when it
	// declines to adjust.
	PreferredSize() (cols, rows int)

	// AdjustSize lets the editor modify a proposed grid size. Returning
	// ok=false falls back to PreferredSize. Either way the result is
	// clamped to the configured limits.
	AdjustSize(cols, rows int) (adjCols, adjRows int, ok bool)
}

// EditorBase provides default implementations for every Editor method
// except CreateComponent. The defaults do nothing, report the default
// 80x24 size, and accept whatever size the host proposes.
type EditorBase struct{}

func (EditorBase) OnCreate()  {}
func (EditorBase) OnDestroy() {}
func (EditorBase) OnShow()    {}
func (EditorBase) OnHide()    {}

func (EditorBase) OnSizeChanged(cols, rows int) {}

func (EditorBase) OnEvent(ev Event) bool { return false }

func (EditorBase) OnParameterUpdate(paramID uint32, value float64) {}

// PreferredSize returns the default 80x24 grid.
func (EditorBase) PreferredSize() (cols, rows int) {
	return DefaultCols, DefaultRows
}

// AdjustSize accepts the proposed size as-is. The bridge has already
// clamped it, so a default editor simply tracks the host's window.
// Override and return ok=false to pin the editor to PreferredSize.
func (EditorBase) AdjustSize(cols, rows int) (int, int, bool) {
	return cols, rows, true
}

// Component is the retained UI tree handle an editor's CreateComponent
// returns. Render must produce a grid of exactly the requested size and
// must not block; it runs on the render goroutine between ticks.
type Component interface {
	Render(cols, rows int) *Grid
}

// ComponentFunc adapts a plain function to the Component interface.
type ComponentFunc func(cols, rows int) *Grid

// Render calls f.
func (f ComponentFunc) Render(cols, rows int) *Grid {
	return f(cols, rows)
}

// EventKind classifies input events offered to OnEvent.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouse
	EventFocus
)

// Event is a minimal input record for the OnEvent hook.
type Event struct {
	Kind EventKind
	Rune rune // key events
	X, Y int  // mouse events, in cells
}
