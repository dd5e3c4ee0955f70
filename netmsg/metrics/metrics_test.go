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

package metrics_test

import (
	. "github.com/flowmesh/golib/netmsg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	It("registers every collector against the given registerer", func() {
		reg := prometheus.NewRegistry()
		c, err := New(reg)
		Expect(err).ToNot(HaveOccurred())
		Expect(c).ToNot(BeNil())

		mfs, err := reg.Gather()
		Expect(err).ToNot(HaveOccurred())
		Expect(mfs).To(HaveLen(5))
	})

	It("propagates a duplicate-registration error", func() {
		reg := prometheus.NewRegistry()
		_, err := New(reg)
		Expect(err).ToNot(HaveOccurred())

		_, err = New(reg)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Collectors", func() {
	var (
		reg *prometheus.Registry
		c   *Collectors
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		var err error
		c, err = New(reg)
		Expect(err).ToNot(HaveOccurred())
	})

	It("ObserveSession adds a labeled delta", func() {
		c.ObserveSession("tcp", 3)
		c.ObserveSession("tcp", -1)
		Expect(testutil.ToFloat64(c.Sessions.WithLabelValues("tcp"))).To(Equal(2.0))
	})

	It("ObserveBroadcast increments a labeled counter", func() {
		c.ObserveBroadcast("tcp")
		c.ObserveBroadcast("tcp")
		Expect(testutil.ToFloat64(c.Broadcasts.WithLabelValues("tcp"))).To(Equal(2.0))
	})

	It("ObserveQueue sets depth and byte gauges for a session", func() {
		c.ObserveQueue("sess-1", 7, 4096)
		Expect(testutil.ToFloat64(c.QueueDepth.WithLabelValues("sess-1"))).To(Equal(7.0))
		Expect(testutil.ToFloat64(c.QueueBytes.WithLabelValues("sess-1"))).To(Equal(4096.0))
	})

	It("ObserveBackpressure increments a labeled counter", func() {
		c.ObserveBackpressure("sess-1")
		Expect(testutil.ToFloat64(c.Backpressure.WithLabelValues("sess-1"))).To(Equal(1.0))
	})
})
