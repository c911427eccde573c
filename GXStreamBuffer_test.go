package gxserialstream

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"code.hybscloud.com/iox"
	"github.com/stretchr/testify/require"
)

func TestStreamBuffer_DefaultCapacity(t *testing.T) {
	b := NewGXStreamBuffer(0)
	require.Equal(t, DefaultBufferSize, b.Capacity())
	require.Equal(t, 1<<20, b.Capacity())
}

func TestStreamBuffer_SplitCharacter(t *testing.T) {
	b := NewGXStreamBuffer(16)
	e := []byte("é")

	b.Append(e[:1])
	require.Equal(t, 0, b.Available())
	require.Equal(t, 1, b.AvailableBytes())
	require.Equal(t, "", b.ReadText(1))
	require.Equal(t, 1, b.AvailableBytes())

	b.Append(e[1:])
	require.Equal(t, 1, b.Available())
	require.Equal(t, "é", b.ReadText(1))
	require.Equal(t, 0, b.AvailableBytes())
}

func TestStreamBuffer_ReadTextLimit(t *testing.T) {
	b := NewGXStreamBuffer(64)
	b.Append([]byte("aé€😀"))
	partial := []byte("€")
	b.Append(partial[:2])

	require.Equal(t, 4, b.Available())
	require.Equal(t, "aé", b.ReadText(2))
	require.Equal(t, "€😀", b.ReadText(All))
	// The partial character stays for the next chunk.
	require.Equal(t, 2, b.AvailableBytes())
	require.Equal(t, "", b.ReadText(All))
	b.Append(partial[2:])
	require.Equal(t, "€", b.ReadText(All))
	require.Equal(t, "", b.ReadText(0))
}

func TestStreamBuffer_ReadTextSkipsLeadingGarbage(t *testing.T) {
	b := NewGXStreamBuffer(16)
	b.Append([]byte{0x82, 0xAC, 'h', 'i'})
	require.Equal(t, 2, b.Available())
	require.Equal(t, "h", b.ReadText(1))
	require.Equal(t, 1, b.AvailableBytes())
	require.Equal(t, "i", b.ReadText(All))
}

func TestStreamBuffer_ReadTextBrokenLead(t *testing.T) {
	b := NewGXStreamBuffer(16)
	b.Append([]byte{0xC3, 'a', 'b'})
	require.Equal(t, 2, b.Available())
	require.Equal(t, "a", b.ReadText(1))
	require.Equal(t, 1, b.AvailableBytes())
	require.Equal(t, "b", b.ReadText(All))

	// A broken lead after good text is one replacement character.
	b.Append([]byte{'x', 0xE2, 0x82, 'y'})
	require.Equal(t, 4, b.Available())
	require.Equal(t, "x\uFFFD", b.ReadText(2))
	// The stray continuation byte now leads the buffer and is skipped.
	require.Equal(t, "y", b.ReadText(All))
	require.Equal(t, 0, b.AvailableBytes())
}

func TestStreamBuffer_ReadTextOnlyGarbage(t *testing.T) {
	b := NewGXStreamBuffer(16)
	b.Append([]byte{0x80, 0x81})
	require.Equal(t, 0, b.Available())
	require.Equal(t, "", b.ReadText(All))
	require.Equal(t, 2, b.AvailableBytes())
}

func TestStreamBuffer_ReadUntilScenario(t *testing.T) {
	b := NewGXStreamBuffer(0)
	b.Append([]byte("ab\n"))
	b.Append([]byte("cd"))

	line, err := b.ReadTextUntil("\n")
	require.NoError(t, err)
	require.Equal(t, "ab\n", line)
	require.Equal(t, 2, b.Available())
	require.Equal(t, "cd", b.ReadText(All))
}

func TestStreamBuffer_DelimiterRoundTrip(t *testing.T) {
	b := NewGXStreamBuffer(64)
	frame := []byte("temp=21.5\r\n")
	b.Append(frame[:4])
	b.Append(frame[4:10])

	got, err := b.ReadBytesUntil("\r\n")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 10, b.AvailableBytes())

	b.Append(frame[10:])
	got, err = b.ReadBytesUntil("\r\n")
	require.NoError(t, err)
	require.Equal(t, frame, got)
	require.Equal(t, 0, b.AvailableBytes())
}

func TestStreamBuffer_ReadUntilMissLeavesBuffer(t *testing.T) {
	b := NewGXStreamBuffer(64)
	b.Append([]byte("no delimiter here"))
	got, err := b.ReadBytesUntil(byte(';'))
	require.NoError(t, err)
	require.Nil(t, got)
	s, err := b.ReadTextUntil([]int{'X', 'Y'})
	require.NoError(t, err)
	require.Equal(t, "", s)
	require.Equal(t, "no delimiter here", string(b.ReadBytes(All)))
}

func TestStreamBuffer_ReadUntilInvalidNeedle(t *testing.T) {
	b := NewGXStreamBuffer(64)
	b.Append([]byte("abc\n"))
	for _, needle := range []any{300, "", []int{10, 999}, 2.5} {
		_, err := b.ReadBytesUntil(needle)
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = b.ReadTextUntil(needle)
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
	require.Equal(t, "abc\n", string(b.ReadBytes(All)))
}

func TestStreamBuffer_ReadTextUntilSkipsGarbage(t *testing.T) {
	b := NewGXStreamBuffer(64)
	b.Append([]byte{0xA9, 'o', 'k', '\n', 'n'})
	s, err := b.ReadTextUntil('\n')
	require.NoError(t, err)
	require.Equal(t, "ok\n", s)
	require.Equal(t, "n", b.ReadText(All))
}

func TestStreamBuffer_ReadUntilAfterEviction(t *testing.T) {
	b := NewGXStreamBuffer(8)
	b.Append([]byte("abcdef"))
	got, err := b.ReadBytesUntil("gh")
	require.NoError(t, err)
	require.Nil(t, got)

	require.Equal(t, 2, b.Append([]byte("gh;a")))
	got, err = b.ReadBytesUntil("gh")
	require.NoError(t, err)
	require.Equal(t, "cdefgh", string(got))
	require.Equal(t, ";a", string(b.ReadBytes(All)))
}

func TestStreamBuffer_ReadBytes(t *testing.T) {
	b := NewGXStreamBuffer(16)
	require.Nil(t, b.ReadBytes(All))
	b.Append([]byte{1, 2, 3, 4})
	require.Equal(t, []byte{1, 2}, b.ReadBytes(2))
	require.Equal(t, []byte{3, 4}, b.ReadBytes(10))
	require.Nil(t, b.ReadBytes(1))
}

func TestStreamBuffer_ReadByte(t *testing.T) {
	b := NewGXStreamBuffer(16)
	_, err := b.ReadByte()
	require.True(t, iox.IsWouldBlock(err))

	b.Append([]byte{7, 8})
	v, err := b.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(7), v)
	require.Equal(t, 1, b.AvailableBytes())
}

func TestStreamBuffer_Reader(t *testing.T) {
	b := NewGXStreamBuffer(16)
	var r io.Reader = b
	p := make([]byte, 3)
	_, err := r.Read(p)
	require.ErrorIs(t, err, iox.ErrWouldBlock)

	b.Append([]byte("hello"))
	n, err := r.Read(p)
	require.NoError(t, err)
	require.Equal(t, "hel", string(p[:n]))
	n, err = r.Read(p)
	require.NoError(t, err)
	require.Equal(t, "lo", string(p[:n]))
}

func TestStreamBuffer_LastDiscardsBuffer(t *testing.T) {
	b := NewGXStreamBuffer(16)
	require.Equal(t, "", b.Last())

	euro := []byte("€")
	b.Append([]byte("abc€"))
	b.Append(euro[:1])
	require.Equal(t, "€", b.Last())
	require.Equal(t, 0, b.AvailableBytes())
}

func TestStreamBuffer_LastByte(t *testing.T) {
	b := NewGXStreamBuffer(16)
	_, err := b.LastByte()
	require.True(t, iox.IsWouldBlock(err))

	b.Append([]byte("xyz"))
	v, err := b.LastByte()
	require.NoError(t, err)
	require.Equal(t, byte('z'), v)
	require.Equal(t, 0, b.AvailableBytes())
}

func TestStreamBuffer_BufferSize(t *testing.T) {
	b := NewGXStreamBuffer(20)
	b.Append(seq(1, 20))
	_, err := b.BufferSize(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, 20, b.AvailableBytes())

	dropped, err := b.BufferSize(5)
	require.NoError(t, err)
	require.Equal(t, 15, dropped)
	require.Equal(t, 5, b.Capacity())
	require.Equal(t, seq(16, 20), b.ReadBytes(All))

	b.Append([]byte("ab"))
	dropped, err = b.BufferSize(8)
	require.NoError(t, err)
	require.Equal(t, 0, dropped)
	require.Equal(t, "ab", string(b.ReadBytes(All)))
}

func TestStreamBuffer_Clear(t *testing.T) {
	b := NewGXStreamBuffer(16)
	b.Append([]byte("abc"))
	b.Clear()
	require.Equal(t, 0, b.AvailableBytes())
	require.Equal(t, 0, b.Available())
}

func TestStreamBuffer_ConcurrentProducer(t *testing.T) {
	const lines = 200
	b := NewGXStreamBuffer(1 << 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < lines; i++ {
			msg := fmt.Sprintf("line %d ✓\n", i)
			// Split every line so characters and needles cross chunks.
			b.Append([]byte(msg[:len(msg)-3]))
			b.Append([]byte(msg[len(msg)-3:]))
		}
	}()

	var got []string
	for len(got) < lines {
		s, err := b.ReadTextUntil("\n")
		require.NoError(t, err)
		if s != "" {
			got = append(got, s)
		}
	}
	wg.Wait()
	for i, s := range got {
		require.Equal(t, fmt.Sprintf("line %d ✓\n", i), s)
		require.True(t, strings.HasSuffix(s, "\n"))
	}
}
