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

package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/flowmesh/golib/errors"
	"github.com/flowmesh/golib/logger/level"
	"github.com/flowmesh/golib/netmsg/errcode"
	"github.com/flowmesh/golib/netmsg/message"
	"github.com/flowmesh/golib/netmsg/queue"
)

// InputWorker reads frames from the session's stream and dispatches them to
// the HandlerRegistry, per spec.md §4.7.
type InputWorker struct {
	session *Session
	running atomic.Bool
}

func newInputWorker(s *Session) *InputWorker {
	return &InputWorker{session: s}
}

// Stop is the universal "unblock me now" signal: it closes the session's
// read half, which turns the worker's blocked frame read into a
// closed-indication error it treats as normal termination.
func (w *InputWorker) Stop() {
	w.running.Store(false)
	_ = w.session.stream.CloseRead()
}

// logReadFailure classifies a frame-read failure and logs it: a normal
// EndOfStream/Closed or Timeout termination only warrants a debug trace,
// per spec.md §4.7; anything else (a corrupt frame, an unexpected I/O
// error) is worth a warning.
func (w *InputWorker) logReadFailure(err error) {
	if w.session.log == nil {
		return
	}

	lvl := level.WarnLevel
	if le, ok := err.(liberr.Error); ok && (errcode.IsClosed(le) || errcode.IsTimeout(le)) {
		lvl = level.DebugLevel
	}

	w.session.log.Entry(lvl, "input worker frame read failed").
		FieldAdd("session", w.session.name).ErrorAdd(true, err).Log()
}

func (w *InputWorker) run(ctx context.Context) {
	s := w.session

	for w.running.Load() {
		id, payload, err := s.cfg.Codec.ReadFrame(s.stream)
		if err != nil {
			w.logReadFailure(err)
			break
		}

		msg := s.pool.Get()
		msg.SetID(id)
		_, _ = msg.Payload.Write(payload)

		h, release, ok := s.registry.Create(s.server, s, "input", id)
		if !ok {
			if s.noHandlerHook != nil {
				if reply := s.noHandlerHook(s.server, s, id); reply != nil {
					s.PostOutput(reply, false)
				}
			}
			s.pool.Put(msg)
			continue
		}

		func() {
			defer release()
			defer func() {
				if r := recover(); r != nil && s.log != nil {
					s.log.Entry(level.ErrorLevel, "handler panic recovered").FieldAdd("session", s.name).FieldAdd("panic", r).Log()
				}
			}()
			if perr := h.Process(ctx, msg); perr != nil && s.log != nil {
				s.log.Entry(level.WarnLevel, "handler returned error").FieldAdd("session", s.name).ErrorAdd(true, perr).Log()
			}
		}()

		s.pool.Put(msg)
	}

	s.Shutdown(w)
	w.waitForOutputWorkerGone()
}

// waitForOutputWorkerGone spin-waits until the session's output worker
// reference clears, so both goroutines exit in lockstep per the shutdown
// handshake. A periodic warning fires if the wait runs long.
func (w *InputWorker) waitForOutputWorkerGone() {
	warnAfter := w.session.cfg.OutputWorkerWaitWarn
	if warnAfter <= 0 {
		warnAfter = time.Second
	}

	start := time.Now()
	warned := false
	for w.session.hasOutputWorker() {
		time.Sleep(5 * time.Millisecond)
		if !warned && time.Since(start) > warnAfter {
			warned = true
			if w.session.log != nil {
				w.session.log.Entry(level.WarnLevel, "input worker still waiting on output worker").
					FieldAdd("session", w.session.name).
					FieldAdd("waited", time.Since(start)).Log()
			}
		}
	}
}

// OutputWorker drains the session's outbound queue onto the stream and
// enforces its size/byte/grace-period limits, per spec.md §4.8.
type OutputWorker struct {
	session *Session
	queue   *queue.Queue
	running atomic.Bool

	maxCount    int
	maxBytes    int64
	gracePeriod time.Duration
	warnEvery   time.Duration

	violMu         sync.Mutex
	firstViolation time.Time
	lastWarn       time.Time
}

func newOutputWorker(s *Session, cfg Config) *OutputWorker {
	ow := &OutputWorker{
		session:     s,
		queue:       queue.New(cfg.QueuePollInterval),
		maxCount:    cfg.QueueMaxCount,
		maxBytes:    cfg.QueueMaxBytes,
		gracePeriod: cfg.QueueGracePeriod,
		warnEvery:   cfg.WarnThrottle,
	}
	return ow
}

// post enqueues msg, enforcing the queue limits. A violation that persists
// past the grace period refuses the post, stops this worker and closes the
// socket to force session teardown - spec.md §8's backpressure invariant.
// A single post that arrives exactly at the limit is still allowed through;
// tightening this into an immediate failure would break throughput-sensitive
// callers that rely on "one over the line" succeeding (spec.md §9).
func (ow *OutputWorker) post(msg *message.Message) error {
	violating := ow.queue.Size() >= ow.maxCount && ow.maxCount > 0
	violating = violating || (ow.maxBytes > 0 && ow.queue.ByteSize() >= ow.maxBytes)

	if violating {
		ow.violMu.Lock()
		now := time.Now()
		if ow.firstViolation.IsZero() {
			ow.firstViolation = now
			ow.lastWarn = now
			ow.warn(now)
			ow.violMu.Unlock()
		} else if ow.gracePeriod > 0 && now.Sub(ow.firstViolation) > ow.gracePeriod {
			ow.violMu.Unlock()
			ow.Stop()
			_ = ow.session.stream.Close()
			return errcode.CodeBackpressure.Error(nil)
		} else {
			if now.Sub(ow.lastWarn) >= ow.warnEvery {
				ow.lastWarn = now
				ow.warn(now)
			}
			ow.violMu.Unlock()
		}
	} else {
		ow.violMu.Lock()
		ow.firstViolation = time.Time{}
		ow.violMu.Unlock()
	}

	ow.queue.Post(msg)
	return nil
}

func (ow *OutputWorker) warn(now time.Time) {
	if ow.session.log == nil {
		return
	}
	ow.session.log.Entry(level.WarnLevel, "output queue over limit").
		FieldAdd("session", ow.session.name).
		FieldAdd("size", ow.queue.Size()).
		FieldAdd("bytes", ow.queue.ByteSize()).Log()
}

// Stop sets running=false and wakes the queue so the blocked dequeue
// returns and the run loop observes the flag.
func (ow *OutputWorker) Stop() {
	ow.running.Store(false)
	ow.queue.Wake()
}

func (ow *OutputWorker) run(ctx context.Context) {
	_ = ctx
	s := ow.session

	for ow.running.Load() {
		msg, ok := ow.queue.BlockingNext()
		if !ok {
			continue
		}

		if err := s.sendToPeer(msg); err != nil {
			s.release(msg)
			ow.Stop()
			_ = s.stream.Close()
			continue
		}
		s.release(msg)
	}

	s.Shutdown(ow)
}
