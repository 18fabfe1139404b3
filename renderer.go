package termplug

import "sync"

// Renderer is the platform seam: it owns native drawing resources and
// turns serialized grid content into pixels inside a host-owned window.
// Implementations live in the x11, win32 and cli subpackages; anything
// satisfying this interface can be handed to Options.Renderer.
//
// The target registry serializes all calls through one mutex, so
// implementations only need internal locking for resources shared with
// their own goroutines (event loops and the like). Content arrives with
// the minimal SGR attribute markers of Grid.StyledText; renderers that
// cannot draw attributes strip them with StripSGR.
type Renderer interface {
	// CreateWindow allocates a native child window of parent at the
	// given pixel geometry. The id keys every later call.
	CreateWindow(id string, parent NativeHandle, x, y, width, height int) error

	// UpdateContent replaces the window's content and redraws.
	UpdateContent(id, text string) error

	// ResizeWindow changes the window's pixel size.
	ResizeWindow(id string, width, height int) error

	// ShowWindow maps or unmaps the window.
	ShowWindow(id string, visible bool) error

	// DestroyWindow releases the window and its resources. Unknown ids
	// are a no-op.
	DestroyWindow(id string) error

	// Shutdown releases everything the renderer still holds, including
	// platform-level resources like display connections. Shutdown must
	// be idempotent.
	Shutdown() error
}

// NullRenderer implements Renderer with no platform at all. It records
// window geometry and content in memory, which makes it useful for
// headless operation and tests.
type NullRenderer struct {
	mu      sync.Mutex
	windows map[string]*nullWindow
}

type nullWindow struct {
	content string
	width   int
	height  int
	visible bool
}

// NewNullRenderer creates an empty NullRenderer.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{windows: make(map[string]*nullWindow)}
}

// CreateWindow records the window.
func (r *NullRenderer) CreateWindow(id string, parent NativeHandle, x, y, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows[id] = &nullWindow{width: width, height: height}
	return nil
}

// UpdateContent stores the content.
func (r *NullRenderer) UpdateContent(id, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.windows[id]; ok {
		w.content = text
	}
	return nil
}

// ResizeWindow stores the new size.
func (r *NullRenderer) ResizeWindow(id string, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.windows[id]; ok {
		w.width = width
		w.height = height
	}
	return nil
}

// ShowWindow stores the visibility.
func (r *NullRenderer) ShowWindow(id string, visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.windows[id]; ok {
		w.visible = visible
	}
	return nil
}

// DestroyWindow forgets the window.
func (r *NullRenderer) DestroyWindow(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, id)
	return nil
}

// Shutdown forgets all windows.
func (r *NullRenderer) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows = make(map[string]*nullWindow)
	return nil
}

// Content returns the last content stored for a window.
func (r *NullRenderer) Content(id string) (text string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, found := r.windows[id]
	if !found {
		return "", false
	}
	return w.content, true
}

// Visible returns the last visibility stored for a window.
func (r *NullRenderer) Visible(id string) (visible, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, found := r.windows[id]
	if !found {
		return false, false
	}
	return w.visible, true
}

// WindowCount reports how many windows currently exist.
func (r *NullRenderer) WindowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows)
}
