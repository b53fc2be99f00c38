package protocol

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	pencoding "github.com/psoserv/blockserver/internal/encoding"
)

// Writer builds a packet body, little-endian. Obtain one from Get() in the
// hot send path to reuse buffers, or NewWriter for ad-hoc use.
type Writer struct {
	buf *bytes.Buffer
}

var writerPool = sync.Pool{
	New: func() any {
		return &Writer{buf: bytes.NewBuffer(make([]byte, 0, 512))}
	},
}

// Get returns a reset Writer from the pool.
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns w to the pool. Do not use w after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a standalone Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: bytes.NewBuffer(make([]byte, 0, capacity))}
}

func (w *Writer) Byte(b byte) { w.buf.WriteByte(b) }

func (w *Writer) Word(v uint16) {
	w.buf.WriteByte(byte(v))
	w.buf.WriteByte(byte(v >> 8))
}

func (w *Writer) DWord(v uint32) {
	w.buf.WriteByte(byte(v))
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v >> 16))
	w.buf.WriteByte(byte(v >> 24))
}

func (w *Writer) QWord(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf.Write(tmp[:])
}

func (w *Writer) Float32(v float32) {
	w.DWord(math.Float32bits(v))
}

// RawBytes appends data verbatim.
func (w *Writer) RawBytes(data []byte) {
	w.buf.Write(data)
}

// FixedDialectString writes s encoded in dialect d, NUL padded/truncated to
// exactly n bytes.
func (w *Writer) FixedDialectString(s string, n int, d pencoding.Dialect) {
	enc := pencoding.FromUTF8(s, d)
	out := make([]byte, n)
	copy(out, enc)
	w.buf.Write(out)
}

// CDialectString writes s encoded in dialect d, NUL terminated.
func (w *Writer) CDialectString(s string, d pencoding.Dialect) {
	w.buf.Write(pencoding.FromUTF8(s, d))
}

// UTF16String writes s as NUL-terminated UTF-16LE.
func (w *Writer) UTF16String(s string) {
	w.buf.Write(pencoding.UTF8ToUTF16LE(s))
}

// Bytes returns the accumulated body.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the current body length.
func (w *Writer) Len() int { return w.buf.Len() }

// Reset clears the buffer for reuse.
func (w *Writer) Reset() { w.buf.Reset() }
