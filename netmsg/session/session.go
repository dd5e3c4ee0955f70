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

// Package session implements Session, InputWorker and OutputWorker
// (spec.md §4.7-§4.9): the per-connection coordination object, its two
// dedicated I/O goroutines, and the cross-goroutine shutdown handshake.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowmesh/golib/logger"
	"github.com/flowmesh/golib/netmsg/errcode"
	"github.com/flowmesh/golib/netmsg/handler"
	"github.com/flowmesh/golib/netmsg/message"
	"github.com/flowmesh/golib/netmsg/queue"
	"github.com/flowmesh/golib/netmsg/stream"
	"github.com/flowmesh/golib/netmsg/wire"
)

// ServerHook is the subset of Server a Session needs: removal from the
// registry at shutdown and a logger for diagnostics.
type ServerHook interface {
	handler.Server
	RemoveSession(s *Session)
}

// NoHandlerFunc builds the protocol-specific reply for an inbound message
// id with no registered handler (spec.md §4.7, §7 NoHandler). It may return
// nil to send nothing.
type NoHandlerFunc func(srv ServerHook, sess *Session, msgID int32) *message.Message

// Config bundles session-wide tunables that don't change per connection.
type Config struct {
	Codec wire.FrameCodec

	QueueMaxCount     int
	QueueMaxBytes     int64
	QueueGracePeriod  time.Duration
	QueuePollInterval time.Duration
	WarnThrottle      time.Duration

	StandbyMaxBytes  int64
	StandbyTimeLimit time.Duration

	OutputWorkerWaitWarn time.Duration
}

// DefaultConfig matches the defaults named in SPEC_FULL.md's config section.
func DefaultConfig() Config {
	return Config{
		Codec:                wire.DefaultCodec{},
		QueueMaxCount:        1000,
		QueueMaxBytes:        8 << 20,
		QueueGracePeriod:     2 * time.Second,
		QueuePollInterval:    250 * time.Millisecond,
		WarnThrottle:         time.Minute,
		StandbyTimeLimit:     30 * time.Second,
		OutputWorkerWaitWarn: time.Second,
	}
}

// Session is the per-connection coordination object: ref-counted, shared by
// its own InputWorker/OutputWorker, the server registry and any handler
// holding a reference token across its execution.
type Session struct {
	mu sync.Mutex

	name       string
	clientType string
	clientAddr string

	stream stream.ByteStream
	cfg    Config

	inputWorker  *InputWorker
	outputWorker *OutputWorker

	standbyQueue     *queue.Queue
	standbyStartTime time.Time

	shuttingDown bool
	online       bool
	goingOffline bool

	server        ServerHook
	registry      *handler.Registry
	noHandlerHook NoHandlerFunc
	pool          *message.Pool
	log           logger.Logger

	refCount atomic.Int32
}

// New builds a Session over an already-accepted stream. It does not start
// the workers; call StartWorkers once the session is registered with the server.
func New(name, clientType, clientAddr string, strm stream.ByteStream, cfg Config,
	srv ServerHook, registry *handler.Registry, noHandler NoHandlerFunc, pool *message.Pool, log logger.Logger) *Session {

	return &Session{
		name:          name,
		clientType:    clientType,
		clientAddr:    clientAddr,
		stream:        strm,
		cfg:           cfg,
		standbyQueue:  queue.New(cfg.QueuePollInterval),
		server:        srv,
		registry:      registry,
		noHandlerHook: noHandler,
		pool:          pool,
		log:           log,
	}
}

func (s *Session) Name() string       { return s.name }
func (s *Session) ClientType() string { return s.clientType }
func (s *Session) ClientAddr() string { return s.clientAddr }

// SetOnline flips the application-defined "online" predicate. Transitioning
// to online drains the standby queue into the output worker.
func (s *Session) SetOnline(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
	if online {
		s.MoveStandbyToOutput()
	}
}

func (s *Session) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *Session) SetGoingOffline(v bool) {
	s.mu.Lock()
	s.goingOffline = v
	s.mu.Unlock()
}

// StartWorkers creates the input/output workers and launches their run
// loops. Must be called once, before any PostOutput.
func (s *Session) StartWorkers(ctx context.Context) {
	ow := newOutputWorker(s, s.cfg)
	iw := newInputWorker(s)

	s.mu.Lock()
	s.inputWorker = iw
	s.outputWorker = ow
	s.mu.Unlock()

	ow.running.Store(true)
	iw.running.Store(true)

	go ow.run(ctx)
	go iw.run(ctx)
}

// release accounts for this consumer being done with msg, returning it to
// the pool once the last broadcast target (or the sole non-broadcast
// consumer) has released it.
func (s *Session) release(msg *message.Message) {
	if msg == nil {
		return
	}
	if msg.Release() && s.pool != nil {
		s.pool.Put(msg)
	}
}

// PostOutput implements spec.md §4.9's routing table.
func (s *Session) PostOutput(msg *message.Message, forBroadcast bool) {
	s.mu.Lock()

	if s.shuttingDown || s.goingOffline {
		s.mu.Unlock()
		if !forBroadcast {
			s.release(msg)
		}
		return
	}

	if forBroadcast && !s.online {
		if s.cfg.StandbyMaxBytes > 0 && s.standbyQueue.ByteSize() >= s.cfg.StandbyMaxBytes {
			strm := s.stream
			s.mu.Unlock()
			_ = strm.Close()
			return
		}
		if s.cfg.StandbyTimeLimit > 0 && !s.standbyStartTime.IsZero() &&
			time.Since(s.standbyStartTime) > s.cfg.StandbyTimeLimit {
			strm := s.stream
			s.mu.Unlock()
			_ = strm.Close()
			return
		}
		if s.standbyStartTime.IsZero() {
			s.standbyStartTime = time.Now()
		}
		s.standbyQueue.Post(msg)
		msg.AddBroadcastTarget()
		s.mu.Unlock()
		return
	}

	if forBroadcast && s.online && s.outputWorker == nil {
		strm := s.stream
		s.mu.Unlock()
		_ = strm.Close()
		return
	}

	if forBroadcast {
		ow := s.outputWorker
		s.mu.Unlock()
		if err := ow.post(msg); err == nil {
			msg.AddBroadcastTarget()
		}
		return
	}

	if s.outputWorker != nil {
		ow := s.outputWorker
		s.mu.Unlock()
		if err := ow.post(msg); err != nil {
			s.release(msg)
		}
		return
	}

	strm := s.stream
	codec := s.cfg.Codec
	s.mu.Unlock()
	_ = codec.WriteFrame(strm, msg.ID(), msg.Payload.Bytes())
	s.release(msg)
}

// MoveStandbyToOutput drains the standby queue into the output worker's
// queue, bypassing its limits since this work was already accepted.
func (s *Session) MoveStandbyToOutput() {
	s.mu.Lock()
	ow := s.outputWorker
	pending := s.standbyQueue.DrainAll()
	s.standbyStartTime = time.Time{}
	s.mu.Unlock()

	if ow == nil {
		for _, m := range pending {
			s.release(m)
		}
		return
	}
	for _, m := range pending {
		ow.queue.Post(m)
	}
}

// sendToPeer re-checks session state and writes one frame synchronously,
// called only from the output worker's run loop.
func (s *Session) sendToPeer(msg *message.Message) error {
	s.mu.Lock()
	if s.shuttingDown {
		s.mu.Unlock()
		return errcode.CodeTransportClosed.Error(nil)
	}
	strm := s.stream
	codec := s.cfg.Codec
	s.mu.Unlock()

	return codec.WriteFrame(strm, msg.ID(), msg.Payload.Bytes())
}

// Shutdown implements spec.md §4.9's teardown sequence. Idempotent: calling
// it twice (from each worker, or from the server) has the same net effect
// as calling it once.
func (s *Session) Shutdown(caller any) {
	s.mu.Lock()
	s.shuttingDown = true

	if iw, ok := caller.(*InputWorker); ok && iw == s.inputWorker {
		s.inputWorker = nil
	} else if s.inputWorker != nil {
		iw := s.inputWorker
		s.mu.Unlock()
		iw.Stop()
		s.mu.Lock()
	}

	if ow, ok := caller.(*OutputWorker); ok && ow == s.outputWorker {
		s.outputWorker = nil
	} else if s.outputWorker != nil {
		ow := s.outputWorker
		s.mu.Unlock()
		ow.Stop()
		s.mu.Lock()
	}

	srv := s.server
	s.mu.Unlock()

	if srv != nil {
		srv.RemoveSession(s)
	}
}

func (s *Session) hasOutputWorker() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputWorker != nil
}

// RefToken is a handle that keeps a Session alive across a handler's
// execution. Acquire increments the session's reference count; Release
// decrements it. The server's GC hook only deletes a session once this
// reaches zero.
type RefToken struct{ s *Session }

// Acquire returns a RefToken pinning s alive until Release is called.
func (s *Session) Acquire() *RefToken {
	s.refCount.Add(1)
	return &RefToken{s: s}
}

// Release drops the reference this token was holding. Safe to call exactly once.
func (t *RefToken) Release() {
	t.s.refCount.Add(-1)
}

// RefCount returns the current outstanding reference-token count.
func (s *Session) RefCount() int32 {
	return s.refCount.Load()
}

func (s *Session) IsShuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuttingDown
}

// Info is the structured diagnostic snapshot of spec.md §6.
type Info struct {
	Name            string
	ClientType      string
	ClientAddr      string
	ShuttingDown    bool
	StandbySize     int
	StandbyBytes    int64
	OutputQueueSize int
	HasOutputWorker bool
}

func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := Info{
		Name:         s.name,
		ClientType:   s.clientType,
		ClientAddr:   s.clientAddr,
		ShuttingDown: s.shuttingDown,
	}
	if s.standbyQueue != nil {
		info.StandbySize = s.standbyQueue.Size()
		info.StandbyBytes = s.standbyQueue.ByteSize()
	}
	if s.outputWorker != nil {
		info.HasOutputWorker = true
		info.OutputQueueSize = s.outputWorker.queue.Size()
	}
	return info
}
