// Package session implements the per-client wire codec and actor loop of
// §4.1: welcome/key exchange, the framed receive loop, and an async send
// path. It wraps a *model.Session with the mutable buffering state the data
// model itself doesn't own.
package session

import (
	"encoding/binary"
	"fmt"

	"github.com/psoserv/blockserver/internal/dialect"
)

// Header is a decoded frame header, independent of wire variant (§6).
type Header struct {
	Type   uint16
	Flags  uint32
	Length int // total record length, including the header, before padding
}

// roundUp rounds n up to the next multiple of align.
func roundUp(n, align int) int {
	if n%align == 0 {
		return n
	}
	return n + (align - n%align)
}

// decodeHeader parses hdrSize decrypted bytes per v's header shape (§6).
func decodeHeader(v dialect.Version, buf []byte) (Header, error) {
	hdrSize := v.HeaderSize()
	if len(buf) < hdrSize {
		return Header{}, fmt.Errorf("session: decodeHeader: need %d bytes, got %d", hdrSize, len(buf))
	}
	var h Header
	switch v.HeaderShapeOf() {
	case dialect.HeaderA:
		h.Type = uint16(buf[0])
		h.Flags = uint32(buf[1])
		h.Length = int(binary.LittleEndian.Uint16(buf[2:4]))
	case dialect.HeaderB:
		h.Length = int(binary.LittleEndian.Uint16(buf[0:2]))
		h.Type = uint16(buf[2])
		h.Flags = uint32(buf[3])
	case dialect.HeaderC:
		h.Length = int(binary.LittleEndian.Uint16(buf[0:2]))
		h.Type = binary.LittleEndian.Uint16(buf[2:4])
		h.Flags = binary.LittleEndian.Uint32(buf[4:8])
	default:
		return Header{}, fmt.Errorf("session: decodeHeader: unknown header variant for %s", v)
	}
	if h.Length < hdrSize {
		return Header{}, fmt.Errorf("session: decodeHeader: length %d below header size %d", h.Length, hdrSize)
	}
	return h, nil
}

// encodeHeader writes a header for v describing a record of the given total
// length (pre-rounding; the caller rounds the body before calling this).
func encodeHeader(v dialect.Version, h Header) []byte {
	hdrSize := v.HeaderSize()
	buf := make([]byte, hdrSize)
	switch v.HeaderShapeOf() {
	case dialect.HeaderA:
		buf[0] = byte(h.Type)
		buf[1] = byte(h.Flags)
		binary.LittleEndian.PutUint16(buf[2:4], uint16(h.Length))
	case dialect.HeaderB:
		binary.LittleEndian.PutUint16(buf[0:2], uint16(h.Length))
		buf[2] = byte(h.Type)
		buf[3] = byte(h.Flags)
	case dialect.HeaderC:
		binary.LittleEndian.PutUint16(buf[0:2], uint16(h.Length))
		binary.LittleEndian.PutUint16(buf[2:4], h.Type)
		binary.LittleEndian.PutUint32(buf[4:8], h.Flags)
	}
	return buf
}
