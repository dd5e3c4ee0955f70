/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package queue implements MessageQueue, the thread-safe FIFO described in
// spec.md §4.4: a blocking dequeue with a bounded poll interval, byte-count
// accounting, and an advisory slow-dequeue diagnostic.
package queue

import (
	"sync"
	"time"

	libdur "github.com/flowmesh/golib/duration"
	"github.com/flowmesh/golib/netmsg/message"
)

// DefaultPollInterval bounds how long BlockingNext waits before re-checking
// for a wake-up or caller-side cancellation, even with no post/Wake.
const DefaultPollInterval = libdur.Duration(250 * time.Millisecond)

type entry struct {
	msg      *message.Message
	postedAt time.Time
}

// SlowDequeueFunc is called, advisory only, when an entry sat in the queue
// longer than the configured threshold before being dequeued.
type SlowDequeueFunc func(waited time.Duration, msg *message.Message)

// Queue is a thread-safe FIFO of *message.Message. Ordering is FIFO with
// respect to the single enqueuing mutex: concurrent Posts are serialized,
// but there is no ordering guarantee across two different Queues.
type Queue struct {
	mu   sync.Mutex
	cond *sync.Cond

	items []entry
	bytes int64

	pollInterval  time.Duration
	slowThreshold time.Duration
	onSlowDequeue SlowDequeueFunc

	wakeSeq uint64
}

// New builds an empty Queue. pollInterval bounds BlockingNext's wait; zero
// selects DefaultPollInterval.
func New(pollInterval time.Duration) *Queue {
	if pollInterval <= 0 {
		pollInterval = time.Duration(DefaultPollInterval)
	}
	q := &Queue{pollInterval: pollInterval}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// SetSlowDequeueDiagnostic configures the advisory callback invoked when a
// message waits longer than threshold between Post and dequeue.
func (q *Queue) SetSlowDequeueDiagnostic(threshold time.Duration, fn SlowDequeueFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.slowThreshold = threshold
	q.onSlowDequeue = fn
}

// Post appends msg to the tail of the queue and wakes one waiter.
func (q *Queue) Post(msg *message.Message) {
	q.mu.Lock()
	q.items = append(q.items, entry{msg: msg, postedAt: time.Now()})
	q.bytes += int64(msg.Payload.Len())
	q.wakeSeq++
	q.mu.Unlock()
	q.cond.Signal()
}

// Wake signals one waiter without posting anything, so a blocked consumer
// can observe an externally-changed "running" flag and return.
func (q *Queue) Wake() {
	q.mu.Lock()
	q.wakeSeq++
	q.mu.Unlock()
	q.cond.Signal()
}

// BlockingNext blocks until an entry is available, a Wake() occurs, or the
// poll interval elapses - whichever comes first. A spurious return of
// (nil, false) is expected and the caller is meant to re-loop, matching
// spec.md §4.4.
func (q *Queue) BlockingNext() (*message.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		done := make(chan struct{})
		timer := time.AfterFunc(q.pollInterval, func() {
			close(done)
			q.cond.Signal()
		})
		defer timer.Stop()

		woken := false
		for len(q.items) == 0 && !woken {
			select {
			case <-done:
				woken = true
			default:
			}
			if woken {
				break
			}
			q.cond.Wait()
		}
	}

	if len(q.items) == 0 {
		return nil, false
	}

	e := q.items[0]
	q.items = q.items[1:]
	q.bytes -= int64(e.msg.Payload.Len())

	waited := time.Since(e.postedAt)
	if q.slowThreshold > 0 && waited > q.slowThreshold && q.onSlowDequeue != nil {
		fn, msg := q.onSlowDequeue, e.msg
		go fn(waited, msg)
	}

	return e.msg, true
}

// NextNonBlocking returns the front of the queue without blocking.
func (q *Queue) NextNonBlocking() (*message.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	q.bytes -= int64(e.msg.Payload.Len())
	return e.msg, true
}

// Size returns the number of queued entries.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// ByteSize returns the total payload bytes of all queued entries.
func (q *Queue) ByteSize() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.bytes
}

// DrainAll removes and returns every queued message, in FIFO order.
func (q *Queue) DrainAll() []*message.Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*message.Message, 0, len(q.items))
	for _, e := range q.items {
		out = append(out, e.msg)
	}
	q.items = nil
	q.bytes = 0
	return out
}
