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

// Package metrics wires netmsg's server-side counters onto
// prometheus/client_golang, mirroring the CounterVec/GaugeVec construction
// style exercised throughout this module's own prometheus test suite.
package metrics

import prmsdk "github.com/prometheus/client_golang/prometheus"

// Collectors bundles every metric a netmsg server reports, per
// SPEC_FULL.md's domain-stack section.
type Collectors struct {
	Sessions     *prmsdk.GaugeVec
	Broadcasts   *prmsdk.CounterVec
	QueueDepth   *prmsdk.GaugeVec
	QueueBytes   *prmsdk.GaugeVec
	Backpressure *prmsdk.CounterVec
}

// New builds and registers every collector against reg.
func New(reg prmsdk.Registerer) (*Collectors, error) {
	c := &Collectors{
		Sessions: prmsdk.NewGaugeVec(prmsdk.GaugeOpts{
			Name: "netmsg_sessions",
			Help: "Number of sessions currently registered with the server",
		}, []string{"client_type"}),
		Broadcasts: prmsdk.NewCounterVec(prmsdk.CounterOpts{
			Name: "netmsg_broadcasts_total",
			Help: "Number of broadcast messages fanned out",
		}, []string{"client_type"}),
		QueueDepth: prmsdk.NewGaugeVec(prmsdk.GaugeOpts{
			Name: "netmsg_output_queue_depth",
			Help: "Current depth of a session's output queue",
		}, []string{"session"}),
		QueueBytes: prmsdk.NewGaugeVec(prmsdk.GaugeOpts{
			Name: "netmsg_output_queue_bytes",
			Help: "Current byte size of a session's output queue",
		}, []string{"session"}),
		Backpressure: prmsdk.NewCounterVec(prmsdk.CounterOpts{
			Name: "netmsg_backpressure_violations_total",
			Help: "Number of times a session's output queue exceeded its limit past the grace period",
		}, []string{"session"}),
	}

	for _, col := range []prmsdk.Collector{c.Sessions, c.Broadcasts, c.QueueDepth, c.QueueBytes, c.Backpressure} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ObserveSession records a session-count change for clientType.
func (c *Collectors) ObserveSession(clientType string, delta float64) {
	c.Sessions.WithLabelValues(clientType).Add(delta)
}

// ObserveBroadcast records one broadcast fan-out for clientType.
func (c *Collectors) ObserveBroadcast(clientType string) {
	c.Broadcasts.WithLabelValues(clientType).Inc()
}

// ObserveQueue records the current depth/byte size of a session's output queue.
func (c *Collectors) ObserveQueue(session string, depth, bytes int) {
	c.QueueDepth.WithLabelValues(session).Set(float64(depth))
	c.QueueBytes.WithLabelValues(session).Set(float64(bytes))
}

// ObserveBackpressure records one backpressure violation for session.
func (c *Collectors) ObserveBackpressure(session string) {
	c.Backpressure.WithLabelValues(session).Inc()
}
