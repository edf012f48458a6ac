package freeze

import "sync/atomic"

// commandQueue is a bounded single-producer/single-consumer ring of commands.
// The control path pushes, the audio callback pops.
type commandQueue struct {
	slots []Command
	mask  uint64
	head  atomic.Uint64
	tail  atomic.Uint64
}

func newCommandQueue(size int) *commandQueue {
	n := 1
	for n < size {
		n <<= 1
	}

	return &commandQueue{slots: make([]Command, n), mask: uint64(n - 1)}
}

func (q *commandQueue) push(cmd Command) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() == uint64(len(q.slots)) {
		return false
	}

	q.slots[tail&q.mask] = cmd
	q.tail.Store(tail + 1)

	return true
}

func (q *commandQueue) pop() (Command, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return 0, false
	}

	cmd := q.slots[head&q.mask]
	q.head.Store(head + 1)

	return cmd, true
}
