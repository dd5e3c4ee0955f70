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

// Package connect implements the client-side connect strategies of
// spec.md §4.5: Single, Sequential and Parallel-racing address attempts,
// each producing a connected net.Conn wrapped as a stream.ByteStream.
package connect

import (
	"context"
	"net"
	"regexp"
	"strconv"
	"time"

	liberr "github.com/flowmesh/golib/errors"
	"github.com/flowmesh/golib/logger"
	"github.com/flowmesh/golib/netmsg/errcode"
	"github.com/flowmesh/golib/netmsg/stream"
	"github.com/flowmesh/golib/network/protocol"
	"github.com/flowmesh/golib/semaphore/sem"
)

var (
	reIPv4Literal = regexp.MustCompile(`^[0-9.]*\.[0-9.]*\.[0-9.]*\.[0-9]+$`)
	reIPv6Literal = regexp.MustCompile(`^[0-9a-fA-F:.]+$`)
)

// LooksLikeIPLiteral applies spec.md §6's client-connect literal-detection
// rule: 3 dots and only digits/dots with >=4 digits total means IPv4; at
// least 2 colons with only hex/colon/dot characters means IPv6; anything
// else is resolved as a hostname.
func LooksLikeIPLiteral(host string) (isIP bool, family protocol.NetworkProtocol) {
	digits := 0
	dots := 0
	for _, r := range host {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		}
	}
	if dots == 3 && digits >= 4 && reIPv4Literal.MatchString(host) {
		return true, protocol.NetworkTCP4
	}

	colons := 0
	for _, r := range host {
		colons += boolToInt(r == ':')
	}
	if colons >= 2 && reIPv6Literal.MatchString(host) {
		return true, protocol.NetworkTCP6
	}

	return false, protocol.NetworkTCP
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Dialer is the subset of net.Dialer used by the strategies, narrowed so
// tests can substitute a fake.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options configures timeouts and concurrency shared by every strategy.
type Options struct {
	Dialer       Dialer
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Deadline     time.Duration // overall budget for Sequential/Parallel
	Parallelism  int64         // K workers for Parallel; <=0 uses sem.MaxSimultaneous()
}

func (o Options) dialer() Dialer {
	if o.Dialer != nil {
		return o.Dialer
	}
	return &net.Dialer{}
}

// Strategy resolves hostname:port to a connected stream.ByteStream.
type Strategy interface {
	Connect(ctx context.Context, hostname string, port int) (stream.ByteStream, error)
}

func wrap(conn net.Conn, o Options) stream.ByteStream {
	return stream.New(conn, o.ReadTimeout, o.WriteTimeout)
}

func resolve(ctx context.Context, hostname string, port int) ([]net.IPAddr, string, error) {
	if isIP, fam := LooksLikeIPLiteral(hostname); isIP {
		return []net.IPAddr{{IP: net.ParseIP(hostname)}}, fam.String(), nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return nil, "", errcode.CodeTransportIO.Error(err)
	}

	out := addrs[:0]
	for _, a := range addrs {
		if a.IP.To4() != nil || a.IP.To16() != nil {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, "", errcode.CodeTransportIO.Error(nil)
	}
	return out, "tcp", nil
}

func dialOne(ctx context.Context, d Dialer, network string, addr net.IPAddr, port int) (net.Conn, error) {
	target := net.JoinHostPort(addr.IP.String(), strconv.Itoa(port))
	return d.DialContext(ctx, network, target)
}

// Single resolves DNS, picks the first usable address, and attempts exactly
// one connect.
type Single struct{ Options Options }

func (s Single) Connect(ctx context.Context, hostname string, port int) (stream.ByteStream, error) {
	addrs, network, err := resolve(ctx, hostname, port)
	if err != nil {
		return nil, err
	}
	conn, err := dialOne(ctx, s.Options.dialer(), network, addrs[0], port)
	if err != nil {
		return nil, stream.Classify(err)
	}
	return wrap(conn, s.Options), nil
}

// Sequential resolves DNS and tries each address in order, within an
// overall deadline, returning on the first success.
type Sequential struct{ Options Options }

func (s Sequential) Connect(ctx context.Context, hostname string, port int) (stream.ByteStream, error) {
	addrs, network, err := resolve(ctx, hostname, port)
	if err != nil {
		return nil, err
	}

	if s.Options.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Options.Deadline)
		defer cancel()
	}

	var lastErr error
	for _, a := range addrs {
		conn, err := dialOne(ctx, s.Options.dialer(), network, a, port)
		if err == nil {
			return wrap(conn, s.Options), nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = errcode.CodeTransportIO.Error(nil)
	}
	return nil, stream.Classify(lastErr)
}

// raceResult carries one worker's outcome back to the coordinator.
type raceResult struct {
	conn net.Conn
	err  error
}

// Parallel races up to K workers, each dialing one address, adopting the
// first success and discarding the rest. A coordinator goroutine keeps
// starting new workers as addresses remain and failures free up slots,
// until an address succeeds, addresses are exhausted, or the deadline
// passes. The coordinator self-destructs once the caller has detached and
// every worker has finished, per spec.md §4.5 and §9.
type Parallel struct {
	Options Options
	Log     logger.Logger
}

func (p Parallel) Connect(ctx context.Context, hostname string, port int) (stream.ByteStream, error) {
	addrs, network, err := resolve(ctx, hostname, port)
	if err != nil {
		return nil, err
	}

	if p.Options.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Options.Deadline)
		defer cancel()
	}

	k := p.Options.Parallelism
	if k <= 0 {
		k = int64(sem.MaxSimultaneous())
	}

	workers := sem.New(ctx, k)
	results := make(chan raceResult, len(addrs))

	coordCtx, coordCancel := context.WithCancel(ctx)
	detached := make(chan struct{})

	go func() {
		idx := 0
		for idx < len(addrs) {
			select {
			case <-coordCtx.Done():
				workers.WaitAll()
				close(detached)
				return
			default:
			}

			if err := workers.NewWorker(); err != nil {
				break
			}
			a := addrs[idx]
			idx++
			go func(addr net.IPAddr) {
				defer workers.DeferWorker()
				conn, err := dialOne(coordCtx, p.Options.dialer(), network, addr, port)
				select {
				case results <- raceResult{conn: conn, err: err}:
				case <-coordCtx.Done():
					if conn != nil {
						_ = conn.Close()
					}
				}
			}(a)
		}

		workers.WaitAll()
		close(detached)
	}()

	var winner net.Conn
	var lastErr error
	remaining := len(addrs)

loop:
	for remaining > 0 {
		select {
		case r := <-results:
			remaining--
			if r.err == nil && winner == nil {
				winner = r.conn
				coordCancel()
				break loop
			}
			if r.err != nil {
				lastErr = r.err
			}
			if r.conn != nil {
				_ = r.conn.Close()
			}
		case <-ctx.Done():
			lastErr = ctx.Err()
			break loop
		}
	}

	if winner == nil {
		coordCancel()
	}

	// Detach: the caller no longer refers to the coordinator; let it finish
	// draining in-flight dials in the background and discard their sockets.
	go func() {
		<-detached
		for {
			select {
			case r := <-results:
				if r.conn != nil {
					_ = r.conn.Close()
				}
			default:
				return
			}
		}
	}()

	if winner != nil {
		return wrap(winner, p.Options), nil
	}
	if lastErr == nil {
		lastErr = errcode.CodeTransportIO.Error(nil)
	}
	if le, ok := lastErr.(liberr.Error); ok {
		return nil, le
	}
	return nil, stream.Classify(lastErr)
}
