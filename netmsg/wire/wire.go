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

// Package wire implements the big-endian binary primitives and the dynamic
// count-prefix string encoding shared by every frame on the wire. It knows
// nothing about message ids or frame boundaries; netmsg/message and
// netmsg/session.FramedReader/FramedWriter build on top of it.
package wire

import (
	"encoding/binary"
	"io"
	"math"
)

// Dynamic count-prefix boundaries, per the framing format.
const (
	maxSmallLen  = 127
	maxShortLen  = math.MaxInt16
	maxInt32Len  = math.MaxInt32
	prefixShort  = -1
	prefixInt32  = -2
	prefixInt64  = -3
)

// WriteDynamicLen writes n using the dynamic count-prefix encoding into w.
func WriteDynamicLen(w io.Writer, n int64) error {
	switch {
	case n >= 0 && n <= maxSmallLen:
		return writeInt8(w, int8(n))
	case n <= maxShortLen:
		if err := writeInt8(w, prefixShort); err != nil {
			return err
		}
		return writeInt16(w, int16(n))
	case n <= maxInt32Len:
		if err := writeInt8(w, prefixInt32); err != nil {
			return err
		}
		return writeInt32(w, int32(n))
	default:
		if err := writeInt8(w, prefixInt64); err != nil {
			return err
		}
		return writeInt64(w, n)
	}
}

// ReadDynamicLen decodes a dynamic count-prefix length from r.
func ReadDynamicLen(r io.Reader) (int64, error) {
	b, err := readInt8(r)
	if err != nil {
		return 0, err
	}

	switch b {
	case prefixShort:
		v, err := readInt16(r)
		return int64(v), err
	case prefixInt32:
		v, err := readInt32(r)
		return int64(v), err
	case prefixInt64:
		return readInt64(r)
	default:
		return int64(b), nil
	}
}

// WriteString writes s using the dynamic count-prefix length followed by its UTF-8 bytes.
func WriteString(w io.Writer, s string) error {
	if err := WriteDynamicLen(w, int64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadString reads a dynamic count-prefixed string from r.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadDynamicLen(r)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err = io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteStringFixed32 writes s with a compatibility 4-byte length prefix, regardless of size.
func WriteStringFixed32(w io.Writer, s string) error {
	if err := writeInt32(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadStringFixed32 reads a string encoded with the fixed 4-byte length prefix form.
func ReadStringFixed32(r io.Reader) (string, error) {
	n, err := readInt32(r)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err = io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func WriteBool(w io.Writer, v bool) error {
	var b byte
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

func WriteFloat32(w io.Writer, v float32) error {
	return writeInt32(w, int32(math.Float32bits(v)))
}

func ReadFloat32(r io.Reader) (float32, error) {
	v, err := readInt32(r)
	return math.Float32frombits(uint32(v)), err
}

func WriteFloat64(w io.Writer, v float64) error {
	return writeInt64(w, int64(math.Float64bits(v)))
}

func ReadFloat64(r io.Reader) (float64, error) {
	v, err := readInt64(r)
	return math.Float64frombits(uint64(v)), err
}

func writeInt8(w io.Writer, v int8) error {
	_, err := w.Write([]byte{byte(v)})
	return err
}

func readInt8(r io.Reader) (int8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int8(buf[0]), nil
}

func writeInt16(w io.Writer, v int16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	_, err := w.Write(buf[:])
	return err
}

func readInt16(r io.Reader) (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

func writeInt32(w io.Writer, v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func readInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func writeInt64(w io.Writer, v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

func readInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

// WriteInt8/ReadInt8 .. WriteInt64/ReadInt64 expose the signed integer primitives directly.
func WriteInt8(w io.Writer, v int8) error   { return writeInt8(w, v) }
func ReadInt8(r io.Reader) (int8, error)    { return readInt8(r) }
func WriteInt16(w io.Writer, v int16) error { return writeInt16(w, v) }
func ReadInt16(r io.Reader) (int16, error)  { return readInt16(r) }
func WriteInt32(w io.Writer, v int32) error { return writeInt32(w, v) }
func ReadInt32(r io.Reader) (int32, error)  { return readInt32(r) }
func WriteInt64(w io.Writer, v int64) error { return writeInt64(w, v) }
func ReadInt64(r io.Reader) (int64, error)  { return readInt64(r) }

func WriteUint8(w io.Writer, v uint8) error   { return writeInt8(w, int8(v)) }
func ReadUint8(r io.Reader) (uint8, error)    { v, err := readInt8(r); return uint8(v), err }
func WriteUint16(w io.Writer, v uint16) error { return writeInt16(w, int16(v)) }
func ReadUint16(r io.Reader) (uint16, error)  { v, err := readInt16(r); return uint16(v), err }
func WriteUint32(w io.Writer, v uint32) error { return writeInt32(w, int32(v)) }
func ReadUint32(r io.Reader) (uint32, error)  { v, err := readInt32(r); return uint32(v), err }
func WriteUint64(w io.Writer, v uint64) error { return writeInt64(w, int64(v)) }
func ReadUint64(r io.Reader) (uint64, error)  { v, err := readInt64(r); return uint64(v), err }
