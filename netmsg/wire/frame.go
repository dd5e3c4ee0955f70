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

package wire

import "io"

// FrameCodec reads and writes the (length, id, payload) tuple of one frame.
// The core only fixes the primitives; an application supplies the codec -
// here, the most common form named in spec.md §4.2: a dynamic count prefix
// over the payload length, a 32-bit id, then the payload bytes.
type FrameCodec interface {
	ReadFrame(r io.Reader) (id int32, payload []byte, err error)
	WriteFrame(w io.Writer, id int32, payload []byte) error
}

// DefaultCodec implements FrameCodec as: dynamic-count payload length, then
// a 4-byte id, then the payload.
type DefaultCodec struct{}

func (DefaultCodec) ReadFrame(r io.Reader) (int32, []byte, error) {
	n, err := ReadDynamicLen(r)
	if err != nil {
		return 0, nil, err
	}

	id, err := ReadInt32(r)
	if err != nil {
		return 0, nil, err
	}

	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, nil, err
		}
	}
	return id, buf, nil
}

func (DefaultCodec) WriteFrame(w io.Writer, id int32, payload []byte) error {
	if err := WriteDynamicLen(w, int64(len(payload))); err != nil {
		return err
	}
	if err := WriteInt32(w, id); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}
