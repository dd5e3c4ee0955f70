/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop provides a small goroutine-lifecycle wrapper: a pair of
// start/stop functions, launched and torn down through a cancelable child
// context, with uptime and last-errors tracking. It is the building block
// the listener uses for its Idle/Listening state machine.
package startStop

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Func is the signature shared by start and stop hooks.
type Func func(ctx context.Context) error

// StartStop manages one long-running goroutine driven by a start function,
// torn down by a stop function.
type StartStop interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

type runner struct {
	mu sync.Mutex

	start Func
	stop  Func

	cancel  context.CancelFunc
	done    chan struct{}
	running bool
	startAt time.Time

	errs []error
}

// New builds a StartStop around start/stop. Either may be nil: invoking a nil
// hook records an "invalid start/stop function" error instead of panicking.
func New(start, stop Func) StartStop {
	return &runner{start: start, stop: stop}
}

func (r *runner) recordErr(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

// Start launches the start function in a new goroutine under a context
// derived from ctx, stopping any previously running instance first. It
// returns as soon as the new instance is launched, not when it completes.
func (r *runner) Start(ctx context.Context) error {
	_ = r.Stop(ctx)

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.running = true
	r.startAt = time.Now()
	fn := r.start
	r.mu.Unlock()

	go func() {
		defer close(done)

		var err error
		if fn == nil {
			err = fmt.Errorf("invalid start function")
		} else {
			err = fn(cctx)
		}

		r.mu.Lock()
		r.running = false
		r.mu.Unlock()

		r.recordErr(err)
	}()

	return nil
}

// Stop cancels the running instance's context, waits for it to return, then
// invokes the stop function. Safe to call when not running, and safe to call
// more than once concurrently - only the first caller's cancellation has an
// effect, later callers simply observe the already-stopped state.
func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	stopFn := r.stop
	r.cancel = nil
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var err error
	if stopFn == nil {
		err = fmt.Errorf("invalid stop function")
	} else {
		err = stopFn(ctx)
	}
	r.recordErr(err)

	return nil
}

// Restart stops any running instance and starts a new one.
func (r *runner) Restart(ctx context.Context) error {
	if err := r.Stop(ctx); err != nil {
		return err
	}
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Uptime returns how long the current instance has been running, or zero if
// not running.
func (r *runner) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return 0
	}
	return time.Since(r.startAt)
}

// ErrorsLast returns the most recently recorded start/stop error, or nil.
func (r *runner) ErrorsLast() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

// ErrorsList returns every recorded start/stop error, oldest first.
func (r *runner) ErrorsList() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}
