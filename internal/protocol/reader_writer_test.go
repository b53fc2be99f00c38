package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	pencoding "github.com/psoserv/blockserver/internal/encoding"
)

func TestWriterReaderRoundTripScalars(t *testing.T) {
	w := NewWriter(32)
	w.Byte(0x42)
	w.Word(0x1234)
	w.DWord(0xDEADBEEF)
	w.QWord(0x0102030405060708)
	w.Float32(3.5)

	r := NewReader(w.Bytes())
	b, err := r.Byte()
	require.NoError(t, err)
	require.Equal(t, byte(0x42), b)

	word, err := r.Word()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), word)

	dword, err := r.DWord()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), dword)

	qword, err := r.QWord()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), qword)

	f, err := r.Float32()
	require.NoError(t, err)
	require.InDelta(t, 3.5, f, 0.0001)
}

func TestWriterReaderUTF16String(t *testing.T) {
	w := NewWriter(32)
	w.UTF16String("Pioneer2")
	r := NewReader(w.Bytes())
	s, err := r.UTF16String()
	require.NoError(t, err)
	require.Equal(t, "Pioneer2", s)
}

func TestWriterReaderDialectString(t *testing.T) {
	w := NewWriter(32)
	w.CDialectString("Ralts", pencoding.ISO8859)
	r := NewReader(w.Bytes())
	s, err := r.CDialectString(pencoding.ISO8859)
	require.NoError(t, err)
	require.Equal(t, "Ralts", s)
}

func TestReaderBytesOutOfRange(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, err := r.Bytes(10)
	require.Error(t, err)
}

func TestWriterPoolReset(t *testing.T) {
	w := Get()
	w.Byte(1)
	require.Equal(t, 1, w.Len())
	w.Put()

	w2 := Get()
	require.Equal(t, 0, w2.Len())
	w2.Put()
}
