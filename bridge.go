package termplug

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Bridge owns everything the library keeps alive: the set of open
// editor instances, the parameter queue, the render loop and the
// render-target registry. There is no package-level state; independent
// bridges can coexist, which the tests rely on.
//
// Lifecycle methods are called by the host from its main thread and may
// run concurrently with the render loop; they take the same instance
// lock the loop snapshots under. QueueParameterUpdate may be called
// from any goroutine.
type Bridge struct {
	mu        sync.Mutex // guards instances, instance fields, loop control
	instances map[string]*Instance

	opts    Options
	queue   *paramQueue
	targets *TargetRegistry
	logger  *Logger

	state atomic.Int32 // LoopState
	stop  chan struct{}
	done  chan struct{}
}

// New creates a bridge. Zero numeric and string option fields are
// filled with defaults. The render loop is not started until the first
// CreateEditor.
func New(opts Options) *Bridge {
	opts.applyDefaults()
	return &Bridge{
		instances: make(map[string]*Instance),
		opts:      opts,
		queue:     &paramQueue{},
		targets:   NewTargetRegistry(opts.Renderer, opts),
		logger:    opts.Logger,
	}
}

// Targets exposes the render-target registry. Hosts normally never need
// it; it is the seam the render loop feeds and the tests observe.
func (b *Bridge) Targets() *TargetRegistry {
	return b.targets
}

// CreateEditor opens a GUI session for ed. It starts the render loop if
// it is not running, calls ed.OnCreate, obtains the component tree from
// ed.CreateComponent (exactly once), and registers the instance under a
// freshly generated ID. A panicking callback aborts the create and
// nothing is registered.
func (b *Bridge) CreateEditor(ed Editor) (*Instance, error) {
	if ed == nil {
		return nil, ErrNilEditor
	}

	b.mu.Lock()
	b.startLoopLocked()
	b.mu.Unlock()

	inst := &Instance{
		id:     uuid.New().String(),
		editor: ed,
		cols:   DefaultCols,
		rows:   DefaultRows,
	}

	if err := b.callEditor("OnCreate", ed.OnCreate); err != nil {
		return nil, err
	}
	var comp Component
	err := b.callEditor("CreateComponent", func() {
		comp = ed.CreateComponent()
	})
	if err != nil {
		return nil, err
	}
	inst.component = comp

	b.mu.Lock()
	b.instances[inst.id] = inst
	b.mu.Unlock()

	b.logger.Debugf("created editor instance %s", inst.id)
	return inst, nil
}

// DestroyEditor closes a GUI session: OnDestroy, then the render
// target, then the registry entry. Destroying an instance that is not
// registered (already destroyed) is a no-op.
func (b *Bridge) DestroyEditor(inst *Instance) error {
	if inst == nil {
		return ErrNilInstance
	}
	b.mu.Lock()
	_, ok := b.instances[inst.id]
	b.mu.Unlock()
	if !ok {
		return nil
	}

	b.callEditor("OnDestroy", inst.editor.OnDestroy)
	b.targets.Remove(inst.id)

	b.mu.Lock()
	delete(b.instances, inst.id)
	b.mu.Unlock()

	b.logger.Debugf("destroyed editor instance %s", inst.id)
	return nil
}

// SetParent lazily creates the instance's render target as a child of
// the host's window, sized to the current grid in pixels. On failure
// the instance keeps working without a target and the render loop
// skips it.
func (b *Bridge) SetParent(inst *Instance, parent NativeHandle) error {
	if inst == nil {
		return ErrNilInstance
	}
	b.mu.Lock()
	_, ok := b.instances[inst.id]
	cols, rows := inst.cols, inst.rows
	b.mu.Unlock()
	if !ok {
		return ErrUnknownInstance
	}

	width, height := b.opts.cellsToPixels(cols, rows)
	if err := b.targets.CreateWindow(inst.id, parent, 0, 0, width, height); err != nil {
		return err
	}

	b.mu.Lock()
	_, still := b.instances[inst.id]
	if still {
		inst.hasTarget = true
	}
	b.mu.Unlock()
	if !still {
		// Lost a race with DestroyEditor; do not leave an orphan target.
		b.targets.Remove(inst.id)
		return ErrUnknownInstance
	}
	return nil
}

// SetSize negotiates a new grid size from a pixel size. The pixels are
// converted with the configured cell size, clamped, offered to the
// editor's AdjustSize (PreferredSize when it declines), clamped again
// and stored. An attached render target is resized to match.
func (b *Bridge) SetSize(inst *Instance, widthPx, heightPx int) error {
	if inst == nil {
		return ErrNilInstance
	}
	b.mu.Lock()
	_, ok := b.instances[inst.id]
	b.mu.Unlock()
	if !ok {
		return ErrUnknownInstance
	}

	cols, rows := b.opts.pixelsToCells(widthPx, heightPx)
	cols = b.opts.clampCols(cols)
	rows = b.opts.clampRows(rows)

	adjCols, adjRows := cols, rows
	adjusted := false
	b.callEditor("AdjustSize", func() {
		adjCols, adjRows, adjusted = inst.editor.AdjustSize(cols, rows)
	})
	if !adjusted {
		adjCols, adjRows = cols, rows
		b.callEditor("PreferredSize", func() {
			adjCols, adjRows = inst.editor.PreferredSize()
		})
	}
	cols = b.opts.clampCols(adjCols)
	rows = b.opts.clampRows(adjRows)

	b.mu.Lock()
	if _, still := b.instances[inst.id]; !still {
		b.mu.Unlock()
		return ErrUnknownInstance
	}
	inst.cols, inst.rows = cols, rows
	hasTarget := inst.hasTarget
	b.mu.Unlock()

	b.callEditor("OnSizeChanged", func() {
		inst.editor.OnSizeChanged(cols, rows)
	})

	if hasTarget {
		width, height := b.opts.cellsToPixels(cols, rows)
		if err := b.targets.ResizeWindow(inst.id, width, height); err != nil {
			return err
		}
	}
	return nil
}

// Show makes the instance visible to the render loop from the next tick
// on; no redraw is forced.
func (b *Bridge) Show(inst *Instance) error {
	return b.setVisible(inst, true)
}

// Hide removes the instance from the render loop's visible set.
func (b *Bridge) Hide(inst *Instance) error {
	return b.setVisible(inst, false)
}

func (b *Bridge) setVisible(inst *Instance, visible bool) error {
	if inst == nil {
		return ErrNilInstance
	}
	b.mu.Lock()
	if _, ok := b.instances[inst.id]; !ok {
		b.mu.Unlock()
		return ErrUnknownInstance
	}
	inst.visible = visible
	hasTarget := inst.hasTarget
	b.mu.Unlock()

	if visible {
		b.callEditor("OnShow", inst.editor.OnShow)
	} else {
		b.callEditor("OnHide", inst.editor.OnHide)
	}

	if hasTarget {
		if err := b.targets.ShowWindow(inst.id, visible); err != nil {
			return err
		}
	}
	return nil
}

// GetSize reports the instance's size in pixels: cols*CellWidth by
// rows*CellHeight of the stored, clamped grid size.
func (b *Bridge) GetSize(inst *Instance) (widthPx, heightPx int, err error) {
	if inst == nil {
		return 0, 0, ErrNilInstance
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.instances[inst.id]; !ok {
		return 0, 0, ErrUnknownInstance
	}
	widthPx, heightPx = b.opts.cellsToPixels(inst.cols, inst.rows)
	return widthPx, heightPx, nil
}

// QueueParameterUpdate hands a parameter change to the render loop.
// Safe from any goroutine, never blocks beyond a short append under the
// queue mutex. Updates for an instance destroyed before the next drain
// are dropped silently; a nil instance is ignored.
func (b *Bridge) QueueParameterUpdate(paramID uint32, value float64, inst *Instance) {
	if inst == nil {
		return
	}
	b.queue.push(paramUpdate{paramID: paramID, value: value, instanceID: inst.id})
}

// Shutdown stops the render loop, waits for it to finish, clears the
// instance set and the parameter queue, and releases the target
// registry's platform resources. Safe to call more than once and safe
// to call on a bridge that never started. A later CreateEditor starts a
// fresh loop, but a renderer that released platform resources will
// refuse new targets; create a new Bridge for a new session.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	var done chan struct{}
	switch LoopState(b.state.Load()) {
	case LoopRunning:
		b.state.Store(int32(LoopStopRequested))
		close(b.stop)
		done = b.done
	case LoopStopRequested:
		done = b.done
	}
	b.mu.Unlock()

	if done != nil {
		<-done // join; bounded by one tick's worth of work
	}

	b.mu.Lock()
	b.instances = make(map[string]*Instance)
	b.mu.Unlock()
	b.queue.clear()
	b.targets.Shutdown()
	b.logger.Debugf("bridge shut down")
}

// callEditor runs a plugin callback with panic isolation so author code
// can never unwind across the host boundary. The panic is logged and
// surfaced as an error to operations that can report one.
func (b *Bridge) callEditor(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("editor callback %s panicked: %v", name, r)
			err = fmt.Errorf("termplug: editor callback %s panicked: %v", name, r)
		}
	}()
	fn()
	return nil
}
