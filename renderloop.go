package termplug

import "time"

// renderTick is the loop cadence. It is intentionally fixed: the
// TargetFPS option is advisory metadata for renderers and has never
// driven this interval.
const renderTick = 16 * time.Millisecond

// LoopState describes where the render loop is in its lifecycle.
type LoopState int32

const (
	LoopStopped LoopState = iota
	LoopRunning
	LoopStopRequested
)

// String returns the state name.
func (s LoopState) String() string {
	switch s {
	case LoopStopped:
		return "stopped"
	case LoopRunning:
		return "running"
	case LoopStopRequested:
		return "stop-requested"
	default:
		return "unknown"
	}
}

// LoopState reports the render loop's current state.
func (b *Bridge) LoopState() LoopState {
	return LoopState(b.state.Load())
}

// startLoopLocked starts the render goroutine if it is stopped. The
// caller must hold b.mu. A loop that is stopping is left alone; the
// concurrent Shutdown will clear whatever this create registers, the
// same teardown race the destroy path already tolerates.
func (b *Bridge) startLoopLocked() {
	if LoopState(b.state.Load()) != LoopStopped {
		return
	}
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	b.state.Store(int32(LoopRunning))
	go b.renderLoop(b.stop, b.done)
	b.logger.Debugf("render loop started")
}

// renderLoop runs until the stop channel closes. The channels are
// passed in rather than read from the struct so a restarted loop never
// observes a successor's channels.
func (b *Bridge) renderLoop(stop, done chan struct{}) {
	ticker := time.NewTicker(renderTick)
	defer ticker.Stop()
	defer func() {
		b.state.Store(int32(LoopStopped))
		close(done)
	}()
	for {
		select {
		case <-ticker.C:
			b.tick()
		case <-stop:
			return
		}
	}
}

// tick performs one render cycle: deliver queued parameter updates,
// snapshot the renderable instances, render each one and forward the
// serialized grid to its target.
func (b *Bridge) tick() {
	b.drainAndDispatch()
	for _, snap := range b.snapshotRenderable() {
		b.renderOne(snap)
	}
}

// drainAndDispatch empties the parameter queue and delivers each update
// to its editor, in enqueue order. Liveness is checked per record under
// the instance lock; the callback itself runs with no lock held.
// Records addressed to destroyed instances are dropped without comment.
func (b *Bridge) drainAndDispatch() {
	for _, u := range b.queue.drain() {
		b.mu.Lock()
		inst, ok := b.instances[u.instanceID]
		var ed Editor
		if ok {
			ed = inst.editor
		}
		b.mu.Unlock()
		if !ok {
			continue
		}
		b.callEditor("OnParameterUpdate", func() {
			ed.OnParameterUpdate(u.paramID, u.value)
		})
	}
}

// snapshotRenderable copies out the state of every instance the loop
// should draw this tick: visible, with a component and a render target.
// Copying under the lock keeps rendering itself lock-free.
func (b *Bridge) snapshotRenderable() []renderSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	snaps := make([]renderSnapshot, 0, len(b.instances))
	for _, inst := range b.instances {
		if inst.visible && inst.component != nil && inst.hasTarget {
			snaps = append(snaps, renderSnapshot{
				id:        inst.id,
				component: inst.component,
				cols:      inst.cols,
				rows:      inst.rows,
			})
		}
	}
	return snaps
}

// renderOne renders a single snapshot and forwards the result. A
// panicking component loses this frame, not the loop.
func (b *Bridge) renderOne(snap renderSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("component render for %s panicked: %v", snap.id, r)
		}
	}()
	grid := snap.component.Render(snap.cols, snap.rows)
	if grid == nil {
		return
	}
	b.targets.UpdateContent(snap.id, grid.StyledText())
}
