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

package config_test

import (
	"time"

	. "github.com/flowmesh/golib/netmsg/config"

	"github.com/spf13/viper"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Default", func() {
	It("matches the documented defaults", func() {
		cfg := Default()
		Expect(cfg.Listener.Port).To(Equal(7000))
		Expect(cfg.Listener.Backlog).To(Equal(50))
		Expect(cfg.Queue.MaxCount).To(Equal(1000))
		Expect(cfg.Connect.Strategy).To(Equal("sequential"))
	})
})

var _ = Describe("ListenerConfig.Listener", func() {
	It("overlays non-zero fields on top of the listener package defaults", func() {
		l := ListenerConfig{BindAddress: "0.0.0.0", Port: 9000}
		out := l.Listener()

		Expect(out.BindAddress).To(Equal("0.0.0.0"))
		Expect(out.Port).To(Equal(9000))
		Expect(out.Backlog).To(Equal(50))
		Expect(out.AcceptTimeout).To(Equal(5 * time.Second))
	})

	It("keeps an explicit backlog and accept timeout", func() {
		l := ListenerConfig{Port: 1, Backlog: 10, AcceptTimeout: time.Minute}
		out := l.Listener()

		Expect(out.Backlog).To(Equal(10))
		Expect(out.AcceptTimeout).To(Equal(time.Minute))
	})
})

var _ = Describe("Config.Session", func() {
	It("overlays only the queue fields that were explicitly set", func() {
		cfg := Config{Queue: QueueConfig{MaxCount: 5, WarnThrottle: time.Second}}
		out := cfg.Session()

		Expect(out.QueueMaxCount).To(Equal(5))
		Expect(out.WarnThrottle).To(Equal(time.Second))
		// Untouched fields fall back to session.DefaultConfig's values.
		Expect(out.QueueMaxBytes).To(Equal(int64(8 << 20)))
		Expect(out.StandbyTimeLimit).To(Equal(30 * time.Second))
	})
})

var _ = Describe("Load", func() {
	It("unmarshals viper settings on top of Default and validates the result", func() {
		v := viper.New()
		v.Set("listener.port", 8080)
		v.Set("listener.bind_address", "127.0.0.1")
		v.Set("queue.max_count", 42)

		cfg, err := Load(v)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Listener.Port).To(Equal(8080))
		Expect(cfg.Listener.BindAddress).To(Equal("127.0.0.1"))
		Expect(cfg.Queue.MaxCount).To(Equal(42))
		// Fields never set by viper keep Default's values.
		Expect(cfg.Connect.Strategy).To(Equal("sequential"))
	})

	It("fails validation when the required listener port is zero", func() {
		v := viper.New()
		v.Set("listener.port", 0)

		_, err := Load(v)
		Expect(err).To(HaveOccurred())
	})

	It("fails validation on an unrecognized connect strategy", func() {
		v := viper.New()
		v.Set("listener.port", 8080)
		v.Set("connect.strategy", "not-a-real-strategy")

		_, err := Load(v)
		Expect(err).To(HaveOccurred())
	})
})
