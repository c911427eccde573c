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
	"fmt"
	"sync"

	"code.hybscloud.com/iox"
)

// All asks a read for every available character or byte.
const All = -1

// GXStreamBuffer keeps received bytes until the application reads them.
//
// The buffer has a fixed capacity. When new data does not fit, the oldest
// unread bytes are discarded so the buffer always holds the newest data.
// Text reads never return a partial UTF-8 character. Delimited reads
// consume nothing until the whole needle has arrived.
//
// GXStreamBuffer is safe for concurrent use. No method blocks; reads
// return an empty result when there is not enough data.
type GXStreamBuffer struct {
	mu   sync.Mutex
	ring *byteRing
	scan scanner
}

// NewGXStreamBuffer returns a buffer with the given capacity in bytes.
// DefaultBufferSize is used when capacity is not positive.
func NewGXStreamBuffer(capacity int) *GXStreamBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &GXStreamBuffer{ring: newByteRing(capacity)}
}

// Append adds received bytes to the buffer and returns the number of
// unread bytes that were discarded to make room.
func (b *GXStreamBuffer) Append(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	dropped := b.ring.append(p)
	if dropped != 0 {
		b.scan.shift(dropped)
	}
	return dropped
}

// consume removes n bytes from the front. Caller must hold the lock.
func (b *GXStreamBuffer) consume(n int) []byte {
	ret, err := b.ring.consumePrefix(n)
	if err != nil {
		return nil
	}
	b.scan.shift(n)
	return ret
}

// Capacity returns the buffer capacity in bytes.
func (b *GXStreamBuffer) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.capacity()
}

// BufferSize changes the capacity. The newest bytes that fit are kept and
// the number of discarded unread bytes is returned.
func (b *GXStreamBuffer) BufferSize(capacity int) (int, error) {
	if capacity <= 0 {
		return 0, fmt.Errorf("%w: buffer size %d", ErrInvalidArgument, capacity)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	dropped := b.ring.resize(capacity)
	b.scan.reset()
	return dropped, nil
}

// Available returns the number of complete characters that can be read as text.
func (b *GXStreamBuffer) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.ring.bytes()
	start := firstBoundary(p)
	if start < 0 {
		return 0
	}
	_, count := charEnd(p[start:], All)
	return count
}

// AvailableBytes returns the number of buffered bytes.
func (b *GXStreamBuffer) AvailableBytes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.length
}

// Clear discards all buffered data.
func (b *GXStreamBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ring.clear()
	b.scan.reset()
}

// ReadText returns up to n characters, or every complete character when n is All.
// Leading bytes that can not start a character are skipped and dropped with
// the returned text. An empty string is returned when nothing can be decoded.
func (b *GXStreamBuffer) ReadText(n int) string {
	if n == 0 {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.ring.bytes()
	start := firstBoundary(p)
	if start < 0 {
		return ""
	}
	end, count := charEnd(p[start:], n)
	if count == 0 {
		return ""
	}
	frame := b.consume(start + end)
	return decodeText(frame[start:])
}

// ReadTextUntil returns the buffered text up to and including needle.
// See NewNeedle for accepted needle values. Nothing is consumed and an
// empty string is returned until the needle has been received.
func (b *GXStreamBuffer) ReadTextUntil(needle any) (string, error) {
	frame, err := b.ReadBytesUntil(needle)
	if err != nil || len(frame) == 0 {
		return "", err
	}
	start := firstLead(frame)
	if start < 0 {
		return "", nil
	}
	return decodeText(frame[start:]), nil
}

// ReadBytes returns up to n raw bytes, or all buffered bytes when n is All.
func (b *GXStreamBuffer) ReadBytes(n int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 0 || n > b.ring.length {
		n = b.ring.length
	}
	if n == 0 {
		return nil
	}
	return b.consume(n)
}

// ReadBytesUntil returns the buffered bytes up to and including needle.
// Nothing is consumed and nil is returned until the needle has been received.
func (b *GXStreamBuffer) ReadBytesUntil(needle any) ([]byte, error) {
	n, err := NewNeedle(needle)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	end := b.scan.find(b.ring.bytes(), n)
	if end < 0 {
		return nil, nil
	}
	return b.consume(end + 1), nil
}

// ReadByte returns the oldest buffered byte.
// iox.ErrWouldBlock is returned when the buffer is empty.
func (b *GXStreamBuffer) ReadByte() (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ring.length == 0 {
		return 0, iox.ErrWouldBlock
	}
	return b.consume(1)[0], nil
}

// Read implements io.Reader over the raw bytes.
// iox.ErrWouldBlock is returned when the buffer is empty.
func (b *GXStreamBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ring.length == 0 {
		return 0, iox.ErrWouldBlock
	}
	return copy(p, b.consume(min(len(p), b.ring.length))), nil
}

// Last returns the newest complete character and discards the whole buffer.
func (b *GXStreamBuffer) Last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, _ := b.ring.peek(b.ring.length)
	ret := ""
	if off, n := lastComplete(p); off >= 0 {
		ret = decodeText(p[off : off+n])
	}
	b.ring.clear()
	b.scan.reset()
	return ret
}

// LastByte returns the newest byte and discards the whole buffer.
// iox.ErrWouldBlock is returned when the buffer is empty.
func (b *GXStreamBuffer) LastByte() (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ring.length == 0 {
		return 0, iox.ErrWouldBlock
	}
	ret := b.ring.data[b.ring.length-1]
	b.ring.clear()
	b.scan.reset()
	return ret, nil
}
