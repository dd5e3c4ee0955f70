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

// Package handler implements HandlerRegistry (spec.md §4.11): a message id
// to handler-factory map. Per the Design Note in spec.md §9, registration
// happens during an explicit bootstrap phase rather than language-level
// static init, so the registry is read-only (and therefore lock-free to
// read) once the listener starts.
package handler

import (
	"context"
	"sync"
	"time"

	"github.com/flowmesh/golib/logger"
	"github.com/flowmesh/golib/netmsg/message"
)

// Handler processes one inbound message for a session.
type Handler interface {
	Process(ctx context.Context, msg *message.Message) error
}

// Session is the subset of the session type a handler factory needs, kept
// as an interface here to avoid an import cycle with netmsg/session.
type Session interface {
	Name() string
}

// Server is the subset of the server type a handler factory needs.
type Server interface {
	Log() logger.Logger
}

// Factory builds a Handler for one inbound message. worker identifies which
// input worker is invoking it, for diagnostics only.
type Factory func(srv Server, sess Session, worker string) Handler

// entry pairs a factory with an optional shared mutex every handler built
// from it must hold for the duration of Process.
type entry struct {
	factory Factory
	mu      *sync.Mutex
}

// Registry is a process-wide, bootstrap-populated map from message id to
// handler factory.
type Registry struct {
	mu       sync.RWMutex
	bySigned map[int32]entry
	sealed   bool

	mutexWaitThreshold time.Duration
	onSlowMutexWait    func(id int32, waited time.Duration)
}

// New builds an empty, unsealed Registry.
func New() *Registry {
	return &Registry{bySigned: make(map[int32]entry)}
}

// SetSlowMutexWaitDiagnostic configures the advisory callback fired when a
// handler's shared-mutex acquisition exceeds threshold.
func (r *Registry) SetSlowMutexWaitDiagnostic(threshold time.Duration, fn func(id int32, waited time.Duration)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutexWaitThreshold = threshold
	r.onSlowMutexWait = fn
}

// Register installs fct as the factory for id, with an optional shared
// mutex that every Handler built from it will hold for Process's duration.
// Register must only be called during bootstrap, before Seal.
func (r *Registry) Register(id int32, fct Factory, sharedMutex *sync.Mutex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		panic("handler: Register called after Seal")
	}
	r.bySigned[id] = entry{factory: fct, mu: sharedMutex}
}

// Seal closes bootstrap registration; subsequent reads no longer need the
// registry's own lock semantics to matter for correctness (the map is never
// written again), matching spec.md §9's "read-only after bootstrap" note.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Create returns a new Handler for msg, or (nil, false) if no factory is
// registered for its id - the NoHandler case of spec.md §7. If the factory
// declares a shared mutex, Create blocks until it is acquired and returns a
// release function the caller must invoke once Process returns.
func (r *Registry) Create(srv Server, sess Session, worker string, id int32) (h Handler, release func(), ok bool) {
	r.mu.RLock()
	e, found := r.bySigned[id]
	r.mu.RUnlock()
	if !found {
		return nil, nil, false
	}

	release = func() {}
	if e.mu != nil {
		start := time.Now()
		e.mu.Lock()
		if waited := time.Since(start); r.mutexWaitThreshold > 0 && waited > r.mutexWaitThreshold && r.onSlowMutexWait != nil {
			r.onSlowMutexWait(id, waited)
		}
		release = e.mu.Unlock
	}

	return e.factory(srv, sess, worker), release, true
}
