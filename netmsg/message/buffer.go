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

import (
	"io"

	"github.com/flowmesh/golib/netmsg/wire"
)

// Buffer is a resizable byte buffer with a seek/EOF read cursor, the payload
// type described in spec.md §3 ("Message"). Writes always append at the end;
// reads advance the cursor from its current position. It is not safe for
// concurrent use - callers serialize access the same way a Session serializes
// post operations through its own mutex.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer allocates an empty Buffer with the given initial capacity.
func NewBuffer(initialCapacity int) *Buffer {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &Buffer{data: make([]byte, 0, initialCapacity)}
}

// Bytes returns the full payload currently held, regardless of cursor position.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the total number of bytes held (the logical end, not remaining-to-read).
func (b *Buffer) Len() int { return len(b.data) }

// Pos returns the current read cursor.
func (b *Buffer) Pos() int { return b.pos }

// Seek repositions the read cursor. It does not grow the buffer.
func (b *Buffer) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.data) {
		pos = len(b.data)
	}
	b.pos = pos
}

// AtEOF reports whether the cursor has reached the logical end of the buffer.
func (b *Buffer) AtEOF() bool { return b.pos >= len(b.data) }

// Reset truncates the buffer to empty and resets the cursor, keeping capacity.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.pos = 0
}

// Write appends p to the buffer. It never touches the read cursor.
func (b *Buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// Read implements io.Reader over the remaining unread portion of the buffer.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.AtEOF() {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

// CopyInto copies the full payload (not just the unread remainder) into dst,
// leaving this buffer's cursor untouched - the "copy_payload_into" operation.
func (b *Buffer) CopyInto(dst *Buffer) {
	dst.data = append(dst.data[:0], b.data...)
	dst.pos = 0
}

// Int8/Uint8 ... Float64 read/write pairs delegate to the wire package's
// big-endian primitives, operating on this buffer as an io.Reader/io.Writer.

func (b *Buffer) WriteInt8(v int8) error     { return wire.WriteInt8(b, v) }
func (b *Buffer) ReadInt8() (int8, error)    { return wire.ReadInt8(b) }
func (b *Buffer) WriteUint8(v uint8) error   { return wire.WriteUint8(b, v) }
func (b *Buffer) ReadUint8() (uint8, error)  { return wire.ReadUint8(b) }
func (b *Buffer) WriteInt16(v int16) error   { return wire.WriteInt16(b, v) }
func (b *Buffer) ReadInt16() (int16, error)  { return wire.ReadInt16(b) }
func (b *Buffer) WriteUint16(v uint16) error { return wire.WriteUint16(b, v) }
func (b *Buffer) ReadUint16() (uint16, error) { return wire.ReadUint16(b) }
func (b *Buffer) WriteInt32(v int32) error   { return wire.WriteInt32(b, v) }
func (b *Buffer) ReadInt32() (int32, error)  { return wire.ReadInt32(b) }
func (b *Buffer) WriteUint32(v uint32) error { return wire.WriteUint32(b, v) }
func (b *Buffer) ReadUint32() (uint32, error) { return wire.ReadUint32(b) }
func (b *Buffer) WriteInt64(v int64) error   { return wire.WriteInt64(b, v) }
func (b *Buffer) ReadInt64() (int64, error)  { return wire.ReadInt64(b) }
func (b *Buffer) WriteUint64(v uint64) error { return wire.WriteUint64(b, v) }
func (b *Buffer) ReadUint64() (uint64, error) { return wire.ReadUint64(b) }
func (b *Buffer) WriteBool(v bool) error     { return wire.WriteBool(b, v) }
func (b *Buffer) ReadBool() (bool, error)    { return wire.ReadBool(b) }
func (b *Buffer) WriteFloat32(v float32) error { return wire.WriteFloat32(b, v) }
func (b *Buffer) ReadFloat32() (float32, error) { return wire.ReadFloat32(b) }
func (b *Buffer) WriteFloat64(v float64) error { return wire.WriteFloat64(b, v) }
func (b *Buffer) ReadFloat64() (float64, error) { return wire.ReadFloat64(b) }
func (b *Buffer) WriteString(v string) error  { return wire.WriteString(b, v) }
func (b *Buffer) ReadString() (string, error) { return wire.ReadString(b) }
func (b *Buffer) WriteStringFixed32(v string) error  { return wire.WriteStringFixed32(b, v) }
func (b *Buffer) ReadStringFixed32() (string, error) { return wire.ReadStringFixed32(b) }
