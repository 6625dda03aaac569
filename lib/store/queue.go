package store

import (
	"sync"

	"go.uber.org/zap"
)

// writeQueue runs submitted tasks one at a time, in submission order, on a
// single goroutine. Submitting never blocks.
type writeQueue struct {
	name          string
	logger        *zap.SugaredLogger
	warnThreshold int

	mu      sync.Mutex
	pending []func()
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func newWriteQueue(name string, logger *zap.SugaredLogger, warnThreshold int) *writeQueue {
	q := &writeQueue{
		name:          name,
		logger:        logger,
		warnThreshold: warnThreshold,
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	go q.run()
	return q
}

// submit returns false once the queue has been closed.
func (q *writeQueue) submit(task func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, task)
	backlog := len(q.pending)
	q.mu.Unlock()

	if q.warnThreshold > 0 && backlog == q.warnThreshold {
		q.logger.Warnf("%s %d revisions are waiting to be written", q.name, backlog)
	}
	q.signal()
	return true
}

func (q *writeQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *writeQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 {
			if q.closed {
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		task := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.execute(task)
	}
}

func (q *writeQueue) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Errorf("%s Change serialization task panicked: %v", q.name, r)
		}
	}()
	task()
}

// close stops accepting tasks and waits until every pending task has run.
func (q *writeQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
	<-q.done
}
