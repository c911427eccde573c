package gxserialstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seq(from, to int) []byte {
	ret := make([]byte, 0, to-from+1)
	for i := from; i <= to; i++ {
		ret = append(ret, byte(i))
	}
	return ret
}

func TestByteRing_EvictionKeepsNewest(t *testing.T) {
	r := newByteRing(10)
	require.Equal(t, 0, r.append([]byte("abcdefghij")))
	require.Equal(t, 1, r.append([]byte("k")))
	require.Equal(t, "bcdefghijk", string(r.bytes()))
}

func TestByteRing_LengthNeverExceedsCapacity(t *testing.T) {
	r := newByteRing(7)
	chunks := [][]byte{
		[]byte("abc"), []byte(""), []byte("defgh"), []byte("i"),
		[]byte("jklmnopqrstu"), []byte("vw"), []byte("xyz"),
	}
	var all []byte
	for _, c := range chunks {
		r.append(c)
		all = append(all, c...)
		require.LessOrEqual(t, r.length, r.capacity())
		require.GreaterOrEqual(t, r.length, 0)
		want := all
		if len(want) > r.capacity() {
			want = want[len(want)-r.capacity():]
		}
		require.Equal(t, string(want), string(r.bytes()))
	}
}

func TestByteRing_ChunkLargerThanCapacity(t *testing.T) {
	r := newByteRing(4)
	r.append([]byte("xy"))
	dropped := r.append([]byte("0123456789"))
	require.Equal(t, 8, dropped)
	require.Equal(t, "6789", string(r.bytes()))
}

func TestByteRing_ConsumePrefix(t *testing.T) {
	r := newByteRing(8)
	r.append([]byte("hello"))
	p, err := r.consumePrefix(2)
	require.NoError(t, err)
	require.Equal(t, "he", string(p))
	require.Equal(t, "llo", string(r.bytes()))

	_, err = r.consumePrefix(4)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, "llo", string(r.bytes()))

	// The returned prefix does not alias the store.
	r.append([]byte("world"))
	require.Equal(t, "he", string(p))
}

func TestByteRing_Peek(t *testing.T) {
	r := newByteRing(8)
	r.append([]byte("abc"))
	p, err := r.peek(2)
	require.NoError(t, err)
	require.Equal(t, "ab", string(p))
	require.Equal(t, 3, r.length)
	_, err = r.peek(-1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestByteRing_ResizePreservesTail(t *testing.T) {
	r := newByteRing(20)
	r.append(seq(1, 20))
	require.Equal(t, 15, r.resize(5))
	require.Equal(t, seq(16, 20), r.bytes())
	require.Equal(t, 5, r.capacity())
}

func TestByteRing_ResizeGrowAndSame(t *testing.T) {
	r := newByteRing(4)
	r.append([]byte("abcd"))
	require.Equal(t, 0, r.resize(4))
	require.Equal(t, 0, r.resize(8))
	require.Equal(t, "abcd", string(r.bytes()))
	r.append([]byte("efgh"))
	require.Equal(t, "abcdefgh", string(r.bytes()))
}

func TestByteRing_Clear(t *testing.T) {
	r := newByteRing(4)
	r.append([]byte("abc"))
	r.clear()
	require.Equal(t, 0, r.length)
	r.append([]byte("z"))
	require.Equal(t, "z", string(r.bytes()))
}
