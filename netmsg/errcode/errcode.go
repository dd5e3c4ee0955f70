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

// Package errcode declares the liberr.CodeError values used across netmsg.
//
// These ride on top of the generic errors package instead of extending it,
// the same way other parts of this module keep their own error codes local
// to their package rather than centralizing them.
package errcode

import (
	liberr "github.com/flowmesh/golib/errors"
)

const (
	// CodeTransportClosed: the peer closed the connection; normal shutdown path.
	CodeTransportClosed liberr.CodeError = iota + 4200
	// CodeTransportIO: a socket system error (bind, accept, read, write).
	CodeTransportIO
	// CodeTimeout: a per-operation deadline was exceeded.
	CodeTimeout
	// CodeCorrupt: a frame header was invalid, or EOF hit mid-frame.
	CodeCorrupt
	// CodeNoHandler: no factory registered for an inbound message id.
	CodeNoHandler
	// CodeHandlerFailed: a handler's Process returned an error.
	CodeHandlerFailed
	// CodeBackpressure: an outbound queue exceeded its limits past grace.
	CodeBackpressure
	// CodeResourceExhaustion: the OS refused to hand out a resource (goroutine, fd, memory).
	CodeResourceExhaustion
	// CodeConfigInvalid: a programmer error - illegal call sequence or bad configuration.
	CodeConfigInvalid
)

func init() {
	liberr.RegisterIdFctMessage(CodeTransportClosed, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case CodeTransportClosed:
		return "transport closed by peer"
	case CodeTransportIO:
		return "transport I/O error"
	case CodeTimeout:
		return "operation timed out"
	case CodeCorrupt:
		return "corrupt frame"
	case CodeNoHandler:
		return "no handler registered for message id"
	case CodeHandlerFailed:
		return "handler returned an error"
	case CodeBackpressure:
		return "outbound queue limits exceeded"
	case CodeResourceExhaustion:
		return "resource exhausted"
	case CodeConfigInvalid:
		return "invalid configuration or call sequence"
	default:
		return liberr.UnknownMessage
	}
}

// IsClosed reports whether err indicates a normal (non-error-worthy) transport closure.
func IsClosed(err liberr.Error) bool {
	return err != nil && err.HasCode(CodeTransportClosed)
}

// IsTimeout reports whether err indicates a deadline was exceeded.
func IsTimeout(err liberr.Error) bool {
	return err != nil && err.HasCode(CodeTimeout)
}
