package termplug

import (
	"fmt"
	"sync"
)

// TargetRegistry maps instance IDs to platform render targets. It owns
// the last-known content, size and visibility for each target and
// forwards every mutation to the configured Renderer.
//
// One mutex serializes the whole registry, platform calls included.
// Target mutation is rare next to content updates and the reference
// behavior serialized content updates the same way, so the coarse lock
// is accepted here.
type TargetRegistry struct {
	mu       sync.Mutex
	renderer Renderer
	targets  map[string]*targetEntry
	dirty    bool // skip redraws of unchanged content
	logger   *Logger
}

// targetEntry is the bookkeeping for one render target. The platform
// handle itself lives inside the renderer.
type targetEntry struct {
	content string
	width   int
	height  int
	visible bool
}

// NewTargetRegistry creates a registry delegating to r. A nil renderer
// is allowed; CreateWindow then fails and content updates go nowhere.
func NewTargetRegistry(r Renderer, opts Options) *TargetRegistry {
	return &TargetRegistry{
		renderer: r,
		targets:  make(map[string]*targetEntry),
		dirty:    opts.UseDirtyTracking,
		logger:   opts.Logger,
	}
}

// CreateWindow allocates a platform target for id under the given
// parent. An existing target for the same id is destroyed first. On
// platform failure nothing is registered, so a target either fully
// exists or does not exist at all.
func (tr *TargetRegistry) CreateWindow(id string, parent NativeHandle, x, y, width, height int) error {
	if tr.renderer == nil {
		return ErrNoRenderer
	}
	if parent.IsZero() {
		return ErrNilParent
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, ok := tr.targets[id]; ok {
		if err := tr.renderer.DestroyWindow(id); err != nil {
			tr.logger.Warnf("destroying stale target %s: %v", id, err)
		}
		delete(tr.targets, id)
	}
	if err := tr.renderer.CreateWindow(id, parent, x, y, width, height); err != nil {
		return fmt.Errorf("creating render target %s: %w", id, err)
	}
	tr.targets[id] = &targetEntry{width: width, height: height}
	return nil
}

// UpdateContent stores new content for id and triggers a redraw. An
// unknown id is a no-op: the render loop's snapshot can race a
// concurrent destroy and that miss is expected. With dirty tracking on,
// unchanged content skips the platform call entirely.
func (tr *TargetRegistry) UpdateContent(id, text string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	entry, ok := tr.targets[id]
	if !ok {
		return
	}
	if tr.dirty && entry.content == text {
		return
	}
	entry.content = text
	if err := tr.renderer.UpdateContent(id, text); err != nil {
		tr.logger.Warnf("redrawing target %s: %v", id, err)
	}
}

// ResizeWindow updates the stored size and resizes the platform target.
// Unknown ids are ignored.
func (tr *TargetRegistry) ResizeWindow(id string, width, height int) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	entry, ok := tr.targets[id]
	if !ok {
		return nil
	}
	entry.width = width
	entry.height = height
	if err := tr.renderer.ResizeWindow(id, width, height); err != nil {
		return fmt.Errorf("resizing render target %s: %w", id, err)
	}
	return nil
}

// ShowWindow updates the stored visibility and propagates it. Unknown
// ids are ignored.
func (tr *TargetRegistry) ShowWindow(id string, visible bool) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	entry, ok := tr.targets[id]
	if !ok {
		return nil
	}
	entry.visible = visible
	if err := tr.renderer.ShowWindow(id, visible); err != nil {
		return fmt.Errorf("showing render target %s: %w", id, err)
	}
	return nil
}

// Remove destroys the platform target for id and erases the entry.
// Removing an unknown id is a no-op, so removal is idempotent.
func (tr *TargetRegistry) Remove(id string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if _, ok := tr.targets[id]; !ok {
		return
	}
	if err := tr.renderer.DestroyWindow(id); err != nil {
		tr.logger.Warnf("destroying target %s: %v", id, err)
	}
	delete(tr.targets, id)
}

// Has reports whether a target exists for id.
func (tr *TargetRegistry) Has(id string) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	_, ok := tr.targets[id]
	return ok
}

// Count reports the number of live targets.
func (tr *TargetRegistry) Count() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.targets)
}

// Shutdown destroys every remaining target and releases the renderer's
// platform resources. Errors are logged, never returned.
// Renderer.Shutdown is required to be idempotent, which makes registry
// shutdown idempotent too.
func (tr *TargetRegistry) Shutdown() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.renderer == nil {
		tr.targets = make(map[string]*targetEntry)
		return
	}
	for id := range tr.targets {
		if err := tr.renderer.DestroyWindow(id); err != nil {
			tr.logger.Warnf("destroying target %s at shutdown: %v", id, err)
		}
	}
	tr.targets = make(map[string]*targetEntry)
	if err := tr.renderer.Shutdown(); err != nil {
		tr.logger.Warnf("renderer shutdown: %v", err)
	}
}
