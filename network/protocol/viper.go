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
	"reflect"
)

// ViperDecoderHook returns a mapstructure-style decode hook for Viper
// configuration decoding, the same pattern used by this package's siblings
// (e.g. mail/smtp/tlsmode.ViperDecoderHook). It decodes a NetworkProtocol
// field from a string (via Parse) or from any integer/unsigned-integer kind
// (via ParseInt64), and leaves everything else - a different target type,
// an unsupported source kind, or a source kind that doesn't actually match
// the data's runtime type - untouched.
//
// A string source that doesn't name a known protocol decodes to
// NetworkEmpty with no error, the same permissive behavior as Parse. A
// numeric source that isn't one of the 11 valid protocol codes is treated
// as a configuration mistake and returns an error instead.
//
// Example usage with Viper:
//
//	v := viper.New()
//	var cfg Config
//	err := v.Unmarshal(&cfg, viper.DecodeHook(protocol.ViperDecoderHook()))
func ViperDecoderHook() func(reflect.Type, reflect.Type, interface{}) (interface{}, error) {
	target := reflect.TypeOf(NetworkEmpty)

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != target {
			return data, nil
		}

		switch from.Kind() {
		case reflect.String:
			s, ok := data.(string)
			if !ok {
				return data, nil
			}
			return Parse(s), nil

		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			v, ok := asInt64(from.Kind(), data)
			if !ok {
				return data, nil
			}
			return decodeNumeric(v)

		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			v, ok := asUint64(from.Kind(), data)
			if !ok {
				return data, nil
			}
			return decodeNumeric(int64(v))

		default:
			return data, nil
		}
	}
}

func decodeNumeric(v int64) (interface{}, error) {
	p := ParseInt64(v)
	if p == NetworkEmpty {
		return nil, fmt.Errorf("network protocol: invalid value %d", v)
	}
	return p, nil
}

func asInt64(kind reflect.Kind, data interface{}) (int64, bool) {
	switch kind {
	case reflect.Int:
		v, ok := data.(int)
		return int64(v), ok
	case reflect.Int8:
		v, ok := data.(int8)
		return int64(v), ok
	case reflect.Int16:
		v, ok := data.(int16)
		return int64(v), ok
	case reflect.Int32:
		v, ok := data.(int32)
		return int64(v), ok
	case reflect.Int64:
		v, ok := data.(int64)
		return v, ok
	default:
		return 0, false
	}
}

func asUint64(kind reflect.Kind, data interface{}) (uint64, bool) {
	switch kind {
	case reflect.Uint:
		v, ok := data.(uint)
		return uint64(v), ok
	case reflect.Uint8:
		v, ok := data.(uint8)
		return uint64(v), ok
	case reflect.Uint16:
		v, ok := data.(uint16)
		return uint64(v), ok
	case reflect.Uint32:
		v, ok := data.(uint32)
		return uint64(v), ok
	case reflect.Uint64:
		v, ok := data.(uint64)
		return v, ok
	default:
		return 0, false
	}
}
