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

package connect_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	. "github.com/flowmesh/golib/netmsg/connect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeDialer never touches a real socket: it hands back one side of an
// in-memory net.Pipe, or fails, per a scripted sequence of outcomes.
type fakeDialer struct {
	calls   int32
	outcome func(attempt int) error
}

func (d *fakeDialer) DialContext(_ context.Context, _, _ string) (net.Conn, error) {
	attempt := int(atomic.AddInt32(&d.calls, 1))
	if d.outcome != nil {
		if err := d.outcome(attempt); err != nil {
			return nil, err
		}
	}
	client, server := net.Pipe()
	go func() { _ = server.Close() }()
	return client, nil
}

var _ = Describe("Single", func() {
	It("connects on the first and only attempt", func() {
		d := &fakeDialer{}
		strat := Single{Options: Options{Dialer: d}}

		strm, err := strat.Connect(context.Background(), "127.0.0.1", 9999)
		Expect(err).ToNot(HaveOccurred())
		Expect(strm).ToNot(BeNil())
		Expect(d.calls).To(Equal(int32(1)))
		_ = strm.Close()
	})

	It("surfaces the dial error instead of retrying", func() {
		d := &fakeDialer{outcome: func(int) error { return errors.New("refused") }}
		strat := Single{Options: Options{Dialer: d}}

		_, err := strat.Connect(context.Background(), "127.0.0.1", 9999)
		Expect(err).To(HaveOccurred())
		Expect(d.calls).To(Equal(int32(1)))
	})
})

var _ = Describe("Sequential", func() {
	It("succeeds against an IP literal target on the first attempt", func() {
		d := &fakeDialer{}
		strat := Sequential{Options: Options{Dialer: d}}

		strm, err := strat.Connect(context.Background(), "127.0.0.1", 9999)
		Expect(err).ToNot(HaveOccurred())
		Expect(strm).ToNot(BeNil())
		_ = strm.Close()
	})

	It("returns the last error once its only candidate fails", func() {
		d := &fakeDialer{outcome: func(int) error { return errors.New("down") }}
		strat := Sequential{Options: Options{Dialer: d}}

		_, err := strat.Connect(context.Background(), "127.0.0.1", 9999)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Parallel", func() {
	It("connects against an IP literal target", func() {
		d := &fakeDialer{}
		strat := Parallel{Options: Options{Dialer: d, Parallelism: 2}}

		strm, err := strat.Connect(context.Background(), "127.0.0.1", 9999)
		Expect(err).ToNot(HaveOccurred())
		Expect(strm).ToNot(BeNil())
		_ = strm.Close()
	})

	It("reports an error when its only candidate fails", func() {
		d := &fakeDialer{outcome: func(int) error { return errors.New("down") }}
		strat := Parallel{Options: Options{Dialer: d, Parallelism: 2}}

		_, err := strat.Connect(context.Background(), "127.0.0.1", 9999)
		Expect(err).To(HaveOccurred())
	})
})
