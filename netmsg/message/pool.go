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

package message

import "sync"

// Pool recycles Messages via sync.Pool instead of allocating and freeing one
// per inbound/outbound frame. This restores the behavior of the original
// implementation's message pool (see SPEC_FULL.md §12): Get returns a message
// ready for RecycleForReceive-style reuse, Put returns one to the pool once
// its last consumer has released it.
type Pool struct {
	initialCapacity int
	p               sync.Pool
}

// NewPool builds a Pool that hands out Messages with the given initial payload capacity.
func NewPool(initialCapacity int) *Pool {
	pl := &Pool{initialCapacity: initialCapacity}
	pl.p.New = func() any {
		return New(0, pl.initialCapacity)
	}
	return pl
}

// Get returns a Message ready for use, either freshly allocated or recycled.
func (pl *Pool) Get() *Message {
	m := pl.p.Get().(*Message)
	m.RecycleForReceive()
	return m
}

// Put returns m to the pool once the caller is certain it is no longer
// referenced anywhere (i.e. after Message.Release returned true for the last
// outstanding consumer, or for a non-broadcast message once its single
// consumer is done).
func (pl *Pool) Put(m *Message) {
	if m == nil {
		return
	}
	pl.p.Put(m)
}
