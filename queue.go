package termplug

import "sync"

// paramUpdate is one queued parameter change. The instance is referenced
// by ID, not by pointer, so a queued update never keeps a destroyed
// instance alive; liveness is re-checked at dispatch time.
type paramUpdate struct {
	paramID    uint32
	value      float64
	instanceID string
}

// paramQueue is the hand-off between producer goroutines (the audio
// thread) and the render goroutine. A single FIFO preserves enqueue
// order per instance. The mutex is held only long enough to append or
// swap the slice out, so producers never wait on dispatch work.
type paramQueue struct {
	mu      sync.Mutex
	updates []paramUpdate
}

// push appends an update to the tail.
func (q *paramQueue) push(u paramUpdate) {
	q.mu.Lock()
	q.updates = append(q.updates, u)
	q.mu.Unlock()
}

// drain takes the whole pending batch, leaving the queue empty. Updates
// pushed after the swap land in the next batch.
func (q *paramQueue) drain() []paramUpdate {
	q.mu.Lock()
	batch := q.updates
	q.updates = nil
	q.mu.Unlock()
	return batch
}

// clear discards everything pending.
func (q *paramQueue) clear() {
	q.mu.Lock()
	q.updates = nil
	q.mu.Unlock()
}

// size reports the number of pending updates.
func (q *paramQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.updates)
}
