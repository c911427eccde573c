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

import "fmt"

// DefaultBufferSize is the receive buffer capacity used when none is set.
const DefaultBufferSize = 1 << 20

// byteRing is a bounded byte store. Valid data is always left-aligned in
// data[:length]; the newest bytes are at the end.
type byteRing struct {
	data   []byte
	length int
}

func newByteRing(capacity int) *byteRing {
	return &byteRing{data: make([]byte, capacity)}
}

func (r *byteRing) capacity() int {
	return len(r.data)
}

func (r *byteRing) bytes() []byte {
	return r.data[:r.length]
}

// append stores p after the buffered data. When there is not enough room the
// oldest bytes are evicted first. The number of evicted bytes is returned.
func (r *byteRing) append(p []byte) int {
	c := len(r.data)
	if len(p) == 0 {
		return 0
	}
	if len(p) >= c {
		// Only the tail of this chunk fits.
		dropped := r.length + len(p) - c
		copy(r.data, p[len(p)-c:])
		r.length = c
		return dropped
	}
	dropped := 0
	if over := r.length + len(p) - c; over > 0 {
		copy(r.data, r.data[over:r.length])
		r.length -= over
		dropped = over
	}
	copy(r.data[r.length:], p)
	r.length += len(p)
	return dropped
}

// consumePrefix removes and returns the first n bytes.
func (r *byteRing) consumePrefix(n int) ([]byte, error) {
	if n < 0 || n > r.length {
		return nil, fmt.Errorf("%w: consume %d of %d bytes", ErrInvalidArgument, n, r.length)
	}
	ret := make([]byte, n)
	copy(ret, r.data[:n])
	copy(r.data, r.data[n:r.length])
	r.length -= n
	return ret, nil
}

// peek returns a copy of the first n bytes without removing them.
func (r *byteRing) peek(n int) ([]byte, error) {
	if n < 0 || n > r.length {
		return nil, fmt.Errorf("%w: peek %d of %d bytes", ErrInvalidArgument, n, r.length)
	}
	ret := make([]byte, n)
	copy(ret, r.data[:n])
	return ret, nil
}

func (r *byteRing) clear() {
	r.length = 0
}

// resize replaces the storage, keeping the newest min(length, capacity) bytes.
// It returns the number of bytes that did not fit.
func (r *byteRing) resize(capacity int) int {
	if capacity == len(r.data) {
		return 0
	}
	keep := min(r.length, capacity)
	data := make([]byte, capacity)
	copy(data, r.data[r.length-keep:r.length])
	dropped := r.length - keep
	r.data = data
	r.length = keep
	return dropped
}
