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

// Package listener implements Listener (spec.md §4.6): the Idle/Listening
// accept loop built on top of runner.startStop, owning the bound socket and
// handing each accepted connection to a Session factory.
package listener

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/flowmesh/golib/logger"
	"github.com/flowmesh/golib/logger/level"
	"github.com/flowmesh/golib/runner/startStop"
)

// SessionFactory turns an accepted connection into a running session. It
// must not panic: any construction failure should be returned as an error
// so the accept loop can close the socket and continue, per spec.md §4.6.
type SessionFactory func(ctx context.Context, conn net.Conn) error

// ManagementHook is notified when the listener gives up listening after a
// bind/accept failure - the original framework's management interface,
// restored per SPEC_FULL.md §12.
type ManagementHook func(reason error)

// Config configures one Listener.
type Config struct {
	BindAddress   string // empty means all interfaces
	Port          int
	Backlog       int
	AcceptTimeout time.Duration
}

// DefaultConfig matches spec.md §6's stated defaults.
func DefaultConfig() Config {
	return Config{Backlog: 50, AcceptTimeout: 5 * time.Second}
}

// Listener owns a bound TCP socket and accept loop, state-machined through
// Idle <-> Listening by an embedded startStop.StartStop.
type Listener struct {
	cfg     Config
	factory SessionFactory
	hook    ManagementHook
	log     logger.Logger

	ln net.Listener
	sm startStop.StartStop
}

// New builds a Listener bound to cfg. It does not start listening.
func New(cfg Config, factory SessionFactory, hook ManagementHook, log logger.Logger) *Listener {
	l := &Listener{cfg: cfg, factory: factory, hook: hook, log: log}
	l.sm = startStop.New(l.acceptLoop, l.stopLoop)
	return l
}

// Start begins the accept loop in a dedicated goroutine. Returns once the
// goroutine has been launched, not once the socket is bound - bind errors
// surface through the management hook and ErrorsLast().
func (l *Listener) Start(ctx context.Context) error {
	return l.sm.Start(ctx)
}

// Stop clears "should listen", closes the socket to unblock Accept, and
// waits for the accept loop to return.
func (l *Listener) Stop(ctx context.Context) error {
	return l.sm.Stop(ctx)
}

func (l *Listener) IsRunning() bool { return l.sm.IsRunning() }

func (l *Listener) acceptLoop(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", l.cfg.BindAddress, l.cfg.Port)
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		l.notify(err)
		return err
	}
	l.ln = ln
	defer func() { _ = ln.Close() }()

	for ctx.Err() == nil {
		if tcpLn, ok := ln.(*net.TCPListener); ok {
			_ = tcpLn.SetDeadline(time.Now().Add(l.cfg.AcceptTimeout))
		}

		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			l.notify(err)
			return err
		}

		l.handle(ctx, conn)
	}
	return nil
}

// handle recovers from any session-construction failure so the accept loop
// itself never dies - spec.md §4.6's "must not crash on a session creation
// failure" requirement.
func (l *Listener) handle(ctx context.Context, conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			_ = conn.Close()
			if l.log != nil {
				l.log.Entry(level.ErrorLevel, "session factory panicked").FieldAdd("panic", r).Log()
			}
		}
	}()

	if err := l.factory(ctx, conn); err != nil {
		_ = conn.Close()
		if l.log != nil {
			l.log.Entry(level.WarnLevel, "session creation failed").ErrorAdd(true, err).Log()
		}
	}
}

func (l *Listener) notify(err error) {
	if l.log != nil {
		l.log.Entry(level.ErrorLevel, "listener giving up").ErrorAdd(true, err).Log()
	}
	if l.hook != nil {
		l.hook(err)
	}
}

func (l *Listener) stopLoop(ctx context.Context) error {
	if l.ln != nil {
		return l.ln.Close()
	}
	return nil
}
