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

// Package sem wraps golang.org/x/sync/semaphore.Weighted with a small
// worker/main vocabulary (NewWorker/DeferWorker/WaitAll/DeferMain) used to
// bound how many goroutines a caller lets run concurrently, while still
// being able to wait for all of them to finish. A negative weight at
// construction opts out of the limiter entirely and degrades to a plain
// sync.WaitGroup, for callers that only want the WaitAll bookkeeping.
package sem

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Sem bounds concurrent workers and tracks their completion.
type Sem interface {
	// New returns an independent Sem with the same configured weight.
	New() Sem
	// Weighted returns the configured concurrency limit (as given to New).
	Weighted() int64
	// NewWorker blocks until a slot is available or the context is done.
	NewWorker() error
	// NewWorkerTry acquires a slot only if one is immediately available.
	NewWorkerTry() bool
	// DeferWorker releases a slot acquired by NewWorker/NewWorkerTry.
	DeferWorker()
	// WaitAll blocks until every outstanding worker has called DeferWorker.
	WaitAll() error
	// DeferMain marks the caller itself done; safe to call multiple times.
	DeferMain()
}

var simultaneous int64 = int64(runtime.GOMAXPROCS(0))

// MaxSimultaneous returns the default concurrency limit used when New is
// called with n <= 0: the current GOMAXPROCS value, adjustable via SetSimultaneous.
func MaxSimultaneous() int {
	return int(atomic.LoadInt64(&simultaneous))
}

// SetSimultaneous clamps n into [1, current MaxSimultaneous] and installs it
// as the new default, returning the clamped value actually applied.
func SetSimultaneous(n int64) int64 {
	cur := atomic.LoadInt64(&simultaneous)
	if n < 1 {
		return cur
	}
	if n > cur {
		return cur
	}
	atomic.StoreInt64(&simultaneous, n)
	return n
}

type sem struct {
	ctx context.Context
	n   int64 // as given to New: <0 unlimited, 0 default, >0 explicit weight

	w  *semaphore.Weighted
	wg sync.WaitGroup

	mainDone atomic.Bool
}

// New creates a Sem bound to ctx. n <= 0 uses MaxSimultaneous() as the
// weighted limit, except n < 0 also disables the limiter (unbounded,
// WaitGroup-only semantics) for callers that just want WaitAll bookkeeping.
func New(ctx context.Context, n int64) Sem {
	s := &sem{ctx: ctx, n: n}
	if n >= 0 {
		w := n
		if w == 0 {
			w = int64(MaxSimultaneous())
		}
		s.w = semaphore.NewWeighted(w)
	}
	return s
}

func (s *sem) New() Sem {
	return New(s.ctx, s.n)
}

func (s *sem) Weighted() int64 {
	if s.n == 0 {
		return int64(MaxSimultaneous())
	}
	if s.n < 0 {
		return -1
	}
	return s.n
}

func (s *sem) NewWorker() error {
	if s.w != nil {
		if err := s.w.Acquire(s.ctx, 1); err != nil {
			return err
		}
	}
	s.wg.Add(1)
	return nil
}

func (s *sem) NewWorkerTry() bool {
	if s.w != nil {
		if !s.w.TryAcquire(1) {
			return false
		}
	}
	s.wg.Add(1)
	return true
}

func (s *sem) DeferWorker() {
	if s.w != nil {
		s.w.Release(1)
	}
	s.wg.Done()
}

func (s *sem) WaitAll() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

func (s *sem) DeferMain() {
	s.mainDone.CompareAndSwap(false, true)
}
