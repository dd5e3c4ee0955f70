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

package protocol

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON implements json.Marshaler. An unrecognized value marshals to
// an empty string rather than failing, matching NetworkEmpty's own "".
func (p NetworkProtocol) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. It never fails: an unrecognized
// or empty value decodes to NetworkEmpty.
func (p *NetworkProtocol) UnmarshalJSON(data []byte) error {
	*p = Parse(string(unquoteField(data)))
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p NetworkProtocol) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *NetworkProtocol) UnmarshalYAML(value *yaml.Node) error {
	*p = Parse(string(unquoteField([]byte(value.Value))))
	return nil
}

// MarshalTOML implements the go-toml Marshaler interface.
func (p NetworkProtocol) MarshalTOML() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalTOML implements the go-toml Unmarshaler interface, accepting
// either the []byte or string form a TOML decoder may hand it.
func (p *NetworkProtocol) UnmarshalTOML(i interface{}) error {
	if b, ok := i.([]byte); ok {
		*p = Parse(string(unquoteField(b)))
		return nil
	}
	if s, ok := i.(string); ok {
		*p = Parse(string(unquoteField([]byte(s))))
		return nil
	}
	return fmt.Errorf("network protocol: value not in valid format")
}

// MarshalCBOR and UnmarshalCBOR deliberately do not go through
// github.com/fxamacker/cbor/v2, unlike this package's siblings (see
// certificates/tlsversion/encode.go): NetworkProtocol is exchanged over the
// wire as the bare protocol name, not as a CBOR-encoded text item, so these
// mirror MarshalText/UnmarshalText exactly.
func (p NetworkProtocol) MarshalCBOR() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *NetworkProtocol) UnmarshalCBOR(data []byte) error {
	*p = Parse(string(unquoteField(data)))
	return nil
}
