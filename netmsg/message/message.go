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

// Package message implements the protocol Message: a 32-bit id plus a
// resizable payload buffer, with the reference-counted broadcast lifecycle
// described in spec.md §3 and §4.3.
package message

import "sync/atomic"

// Message owns a protocol message id and its payload buffer. A Message
// posted for broadcast to N sessions must be released exactly N times before
// its buffer is considered free; ReleaseBroadcast is the only path a
// consumer should call once mark-for-broadcast has happened.
type Message struct {
	id      int32
	Payload *Buffer

	// broadcastTarget is the outstanding broadcast release count. Zero means
	// "not a broadcast message" - Release frees unconditionally in that case.
	broadcastTarget int32
}

// New creates an empty Message with the given id and initial payload capacity.
func New(id int32, initialCapacity int) *Message {
	return &Message{id: id, Payload: NewBuffer(initialCapacity)}
}

// ID returns the message's protocol verb.
func (m *Message) ID() int32 { return m.id }

// SetID overwrites the message id without touching the payload.
func (m *Message) SetID(id int32) { m.id = id }

// RecycleForSend resets the read cursor to 0 and installs newID, keeping the
// buffer contents intact - used when forwarding a received message back out
// under a different id. Calling it twice in a row is equivalent to calling it
// once with the second id, since it only ever touches id and cursor.
func (m *Message) RecycleForSend(newID int32) {
	m.id = newID
	m.Payload.Seek(0)
}

// RecycleForReceive clears id and logical length but keeps the underlying
// capacity, ready to be filled by the next inbound frame.
func (m *Message) RecycleForReceive() {
	m.id = 0
	m.Payload.Reset()
	m.broadcastTarget = 0
}

// CopyPayloadInto copies this message's full payload into other without
// altering this message's cursor.
func (m *Message) CopyPayloadInto(other *Message) {
	m.Payload.CopyInto(other.Payload)
}

// MarkBroadcast sets the outstanding release count for a message about to be
// posted to n sessions. Must only be called before the message is posted
// anywhere - spec.md's ConfigurationInvalid case if violated.
func (m *Message) MarkBroadcast(n int32) {
	atomic.StoreInt32(&m.broadcastTarget, n)
}

// IsBroadcast reports whether this message is under broadcast accounting.
func (m *Message) IsBroadcast() bool {
	return atomic.LoadInt32(&m.broadcastTarget) > 0
}

// AddBroadcastTarget atomically increments the outstanding release count.
// Called once per successful enqueue onto a consumer's outbound queue -
// success count, not attempt count, per spec.md §8.
func (m *Message) AddBroadcastTarget() {
	atomic.AddInt32(&m.broadcastTarget, 1)
}

// Release accounts for one consumer being done with the message. If the
// message is not under broadcast accounting it is considered free
// immediately; otherwise the buffer is free only once the outstanding count
// reaches zero. The bool return reports whether this call caused the buffer
// to become free, so callers (e.g. a Pool) know when it's safe to recycle.
func (m *Message) Release() bool {
	if atomic.LoadInt32(&m.broadcastTarget) == 0 {
		return true
	}
	return atomic.AddInt32(&m.broadcastTarget, -1) == 0
}
