package realtime

import (
	"sync"
	"time"

	"betonit/internal/channel"
)

type outbound struct {
	frame    []byte
	callback channel.ResultCallback
}

// sendQueue serializes frames onto one writer goroutine so they leave in the order they were
// pushed. Shutdown stops new pushes and lets the writer drain what is already queued.
type sendQueue struct {
	mu     sync.RWMutex
	closed bool

	items   chan outbound
	closing chan struct{}
	drained chan struct{}
}

func newSendQueue(size int) *sendQueue {
	if size <= 0 {
		size = 64
	}
	return &sendQueue{
		items:   make(chan outbound, size),
		closing: make(chan struct{}),
		drained: make(chan struct{}),
	}
}

// push enqueues out without blocking. When the frame cannot be queued the callback is called
// with the failure status, outside the lock.
func (q *sendQueue) push(out outbound) {
	status, queued := q.enqueue(out)
	if !queued {
		out.callback(status)
	}
}

func (q *sendQueue) enqueue(out outbound) (channel.Status, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return channel.Status{Code: channel.StatusCanceled, Reason: "transport closed"}, false
	}
	select {
	case q.items <- out:
		return channel.Status{}, true
	default:
		return channel.Status{Code: channel.StatusInternalError, Reason: "send queue full"}, false
	}
}

// run writes queued frames with write until shutdown has drained the queue.
func (q *sendQueue) run(write func(frame []byte) error) {
	defer close(q.drained)
	for {
		select {
		case out := <-q.items:
			out.callback(statusFor(write(out.frame)))
		case <-q.closing:
			// Nothing is pushed once closing is closed, so the remaining queue is final.
			for {
				select {
				case out := <-q.items:
					out.callback(statusFor(write(out.frame)))
				default:
					return
				}
			}
		}
	}
}

// shutdown refuses further pushes and waits up to timeout for the writer to drain. first is false
// when the queue was already shut down; drained is false when the wait timed out.
func (q *sendQueue) shutdown(timeout time.Duration) (first, drained bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false, true
	}
	q.closed = true
	close(q.closing)
	q.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-q.drained:
		return true, true
	case <-timer.C:
		return true, false
	}
}

func (q *sendQueue) isClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
