/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package protocol enumerates the network dial/listen families accepted by
// net.Dial and net.Listen, with string and numeric conversions so the value
// can live in config files and flags. netmsg/connect uses it to decide, per
// configured address, which of net.Dial's "tcp"/"tcp4"/"tcp6" families to use.
package protocol

import (
	"bytes"
	"math"
	"strings"
)

// NetworkProtocol identifies a net.Dial/net.Listen network family.
type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkUnix
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
	NetworkUDP
	NetworkUDP4
	NetworkUDP6
	NetworkIP
	NetworkIP4
	NetworkIP6
	NetworkUnixGram
)

var names = map[NetworkProtocol]string{
	NetworkUnix:     "unix",
	NetworkTCP:      "tcp",
	NetworkTCP4:     "tcp4",
	NetworkTCP6:     "tcp6",
	NetworkUDP:      "udp",
	NetworkUDP4:     "udp4",
	NetworkUDP6:     "udp6",
	NetworkIP:       "ip",
	NetworkIP4:      "ip4",
	NetworkIP6:      "ip6",
	NetworkUnixGram: "unixgram",
}

var byName = func() map[string]NetworkProtocol {
	m := make(map[string]NetworkProtocol, len(names))
	for p, n := range names {
		m[n] = p
	}
	return m
}()

// Parse maps a case-insensitive protocol name to its NetworkProtocol, or
// NetworkEmpty if it is not recognized. A single layer of surrounding
// double quotes or backticks is stripped before matching, so values lifted
// verbatim out of a config file or shell quoting still resolve.
func Parse(s string) NetworkProtocol {
	s = stripOuterQuotes(strings.TrimSpace(s))
	if p, ok := byName[strings.ToLower(s)]; ok {
		return p
	}
	return NetworkEmpty
}

// ParseBytes is Parse for a byte slice, avoiding a string allocation when
// the caller already holds one.
func ParseBytes(b []byte) NetworkProtocol {
	return Parse(string(b))
}

// ParseInt64 maps the numeric constant values (1..11) back to their
// NetworkProtocol, or NetworkEmpty for 0 or any value outside the enum's
// range.
func ParseInt64(v int64) NetworkProtocol {
	if v < 0 || v > math.MaxUint8 {
		return NetworkEmpty
	}
	p := NetworkProtocol(v)
	if _, ok := names[p]; !ok {
		return NetworkEmpty
	}
	return p
}

// stripOuterQuotes removes one matching pair of leading/trailing double
// quotes or backticks. A mismatched pair (e.g. one escaped quote) is left
// untouched, so the subsequent lookup simply fails.
func stripOuterQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' && last == '"') || (first == '`' && last == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

// unquoteField strips whitespace, then a surrounding layer of single quotes
// and a surrounding layer of double quotes - in that order, each applied
// once - from a config/marshaled field value. Nested quoting (e.g. a
// double-quoted single-quoted value) is therefore only partially unwrapped
// by design, matching the pack's existing unmarshal helpers.
func unquoteField(b []byte) []byte {
	b = bytes.TrimSpace(b)
	b = bytes.Trim(b, "'")
	b = bytes.Trim(b, `"`)
	return b
}

// String returns the canonical lowercase name, or "" for an unknown value.
func (p NetworkProtocol) String() string {
	return names[p]
}

// Code is an alias of String, kept for symmetry with Parse(Code()).
func (p NetworkProtocol) Code() string {
	return p.String()
}

// Int returns the numeric value, or 0 if p is not a recognized protocol.
func (p NetworkProtocol) Int() int {
	if _, ok := names[p]; !ok {
		return 0
	}
	return int(p)
}

func (p NetworkProtocol) Int64() int64   { return int64(p.Int()) }
func (p NetworkProtocol) Uint() uint     { return uint(p.Int()) }
func (p NetworkProtocol) Uint64() uint64 { return uint64(p.Int()) }

// MarshalText implements encoding.TextMarshaler for config/JSON/YAML use.
func (p NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *NetworkProtocol) UnmarshalText(text []byte) error {
	*p = Parse(string(unquoteField(text)))
	return nil
}

// IsStream reports whether p is a connection-oriented (net.Dial "tcp"-family
// or "unix") protocol, as opposed to a datagram one.
func (p NetworkProtocol) IsStream() bool {
	switch p {
	case NetworkTCP, NetworkTCP4, NetworkTCP6, NetworkUnix:
		return true
	default:
		return false
	}
}
