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

// Package server implements Server (spec.md §4.10): the registry of live
// sessions, broadcast fan-out, and the session-termination GC hook.
//
// Lock ordering follows spec.md §5: the server mutex is always acquired
// before a session's own mutex, and is never held while calling back into a
// session method that could re-enter the server.
package server

import (
	"sync"

	"github.com/flowmesh/golib/logger"
	"github.com/flowmesh/golib/netmsg/message"
	"github.com/flowmesh/golib/netmsg/session"
)

// Server is the registry of live sessions for one listener.
type Server struct {
	mu       sync.RWMutex
	sessions map[*session.Session]struct{}

	pool *message.Pool
	log  logger.Logger
}

// New builds an empty Server.
func New(pool *message.Pool, log logger.Logger) *Server {
	return &Server{
		sessions: make(map[*session.Session]struct{}),
		pool:     pool,
		log:      log,
	}
}

func (srv *Server) Log() logger.Logger { return srv.log }

// AddSession registers s for broadcast and enumeration.
func (srv *Server) AddSession(s *session.Session) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.sessions[s] = struct{}{}
}

// RemoveSession unregisters s. Safe to call more than once.
func (srv *Server) RemoveSession(s *session.Session) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	delete(srv.sessions, s)
}

// Broadcast implements spec.md §4.10's broadcast algorithm: mark msg for
// fan-out, post it to every session matching clientTypeFilter other than
// omit, then release the server's own temporary hold. clientTypeFilter =
// "" matches every session.
func (srv *Server) Broadcast(clientTypeFilter string, msg *message.Message, omit *session.Session) {
	msg.MarkBroadcast(1)

	srv.mu.RLock()
	targets := make([]*session.Session, 0, len(srv.sessions))
	for s := range srv.sessions {
		if s == omit {
			continue
		}
		if clientTypeFilter != "" && s.ClientType() != clientTypeFilter {
			continue
		}
		targets = append(targets, s)
	}
	srv.mu.RUnlock()

	for _, s := range targets {
		s.PostOutput(msg, true)
	}

	if msg.Release() && srv.pool != nil {
		srv.pool.Put(msg)
	}
}

// Sessions returns a diagnostic snapshot of every registered session.
func (srv *Server) Sessions() []session.Info {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	out := make([]session.Info, 0, len(srv.sessions))
	for s := range srv.sessions {
		out = append(out, s.Info())
	}
	return out
}

// ClientSessionTerminating is the periodic GC hook: sessions that are
// shutting down with no outstanding reference tokens may be forgotten here.
// The registry itself already dropped the session in Session.Shutdown via
// RemoveSession - this hook exists for callers (e.g. a connection-count
// gauge) that want to react to the same condition without polling Sessions.
func (srv *Server) ClientSessionTerminating(s *session.Session) bool {
	return s.IsShuttingDown() && s.RefCount() == 0
}

// Count returns the number of currently registered sessions.
func (srv *Server) Count() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return len(srv.sessions)
}
