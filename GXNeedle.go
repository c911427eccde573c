package gxserialstream

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt

import (
	"bytes"
	"fmt"
)

// Needle is the non-empty byte sequence that ends a frame.
type Needle []byte

// NewNeedle builds a needle from a string (UTF-8 encoded), a byte, an
// integer in [0, 255], an []int of byte values, a []byte or a Needle.
func NewNeedle(v any) (Needle, error) {
	p, err := toBytes(v)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty needle", ErrInvalidArgument)
	}
	return Needle(p), nil
}

// toBytes normalizes a needle or payload to a fresh byte slice.
func toBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case Needle:
		return bytes.Clone([]byte(t)), nil
	case []byte:
		return bytes.Clone(t), nil
	case string:
		return []byte(t), nil
	case byte:
		return []byte{t}, nil
	case int:
		return byteValue(int64(t))
	case int8:
		return byteValue(int64(t))
	case int16:
		return byteValue(int64(t))
	case int32:
		return byteValue(int64(t))
	case int64:
		return byteValue(t)
	case uint:
		return ubyteValue(uint64(t))
	case uint16:
		return ubyteValue(uint64(t))
	case uint32:
		return ubyteValue(uint64(t))
	case uint64:
		return ubyteValue(t)
	case []int:
		ret := make([]byte, len(t))
		for i, b := range t {
			if b < 0 || b > 0xFF {
				return nil, fmt.Errorf("%w: value %d at index %d is not a byte", ErrInvalidArgument, b, i)
			}
			ret[i] = byte(b)
		}
		return ret, nil
	case nil:
		return nil, fmt.Errorf("%w: nil value", ErrInvalidArgument)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidArgument, v)
	}
}

func byteValue(v int64) ([]byte, error) {
	if v < 0 || v > 0xFF {
		return nil, fmt.Errorf("%w: value %d is not a byte", ErrInvalidArgument, v)
	}
	return []byte{byte(v)}, nil
}

func ubyteValue(v uint64) ([]byte, error) {
	if v > 0xFF {
		return nil, fmt.Errorf("%w: value %d is not a byte", ErrInvalidArgument, v)
	}
	return []byte{byte(v)}, nil
}

// scanner finds needles in the buffered data. After a miss it remembers
// where the next search for the same needle can resume, so polling a
// growing buffer only scans the new bytes.
type scanner struct {
	needle []byte
	from   int
}

// find returns the index of the last byte of the first needle match in p,
// or -1 when p does not contain the needle.
func (s *scanner) find(p []byte, needle []byte) int {
	start := 0
	if bytes.Equal(s.needle, needle) {
		start = min(s.from, len(p))
	}
	if i := bytes.Index(p[start:], needle); i >= 0 {
		s.reset()
		return start + i + len(needle) - 1
	}
	// Keep the last len(needle)-1 bytes in the next search, they may be
	// the beginning of a match that completes with the next chunk.
	s.needle = append(s.needle[:0], needle...)
	s.from = max(len(p)-(len(needle)-1), 0)
	return -1
}

// shift moves the resume offset after n bytes were removed from the front.
func (s *scanner) shift(n int) {
	s.from = max(s.from-n, 0)
}

func (s *scanner) reset() {
	s.needle = s.needle[:0]
	s.from = 0
}
