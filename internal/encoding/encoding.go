// Package encoding converts text between the four byte shapes the wire
// protocol carries — Shift-JIS, ISO-8859-1, UTF-16LE and UTF-8 — and the
// UTF-8 strings the rest of the server works with internally.
//
// Every packet constructor and parser in serverpackets/clientpackets goes
// through this package instead of rolling its own conversion (§9 design
// note: "Encoding conversion is a single module").
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Dialect identifies which 8-bit encoding a version's text fields use when
// the language marker tag selects an 8-bit source/destination.
type Dialect int

const (
	// SJIS is used by Japanese clients (language marker "\tJ").
	SJIS Dialect = iota
	// ISO8859 is used by non-Japanese DC/PC clients (language marker "\tE").
	ISO8859
)

// LangTagJapanese and LangTagNonJapanese are the two-byte markers PSO
// prefixes 8-bit text with to select the assumed source encoding.
const (
	LangTagJapanese    = "\tJ"
	LangTagNonJapanese = "\tE"
)

// ToUTF8 decodes an 8-bit byte string in the given dialect (stopping at the
// first NUL) into a UTF-8 Go string. A failed conversion falls back to a
// best-effort Latin-1 decode (session-recoverable per §7).
func ToUTF8(b []byte, d Dialect) string {
	b = cutNUL(b)
	dec := decoderFor(d)
	out, err := dec.Bytes(b)
	if err != nil {
		return latin1Fallback(b)
	}
	return string(out)
}

// FromUTF8 encodes a UTF-8 Go string into the given 8-bit dialect, NUL
// terminated. If any rune cannot be encoded in the target charset, the
// whole string is re-encoded with every non-ASCII rune (not only the
// unencodable ones) replaced by '?' (session-recoverable best-effort
// substitution per §7).
func FromUTF8(s string, d Dialect) []byte {
	enc := encoderFor(d)
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		out = []byte(strings.Map(func(r rune) rune {
			if r > 0x7F {
				return '?'
			}
			return r
		}, s))
	}
	return append(out, 0)
}

// UTF16LEToUTF8 decodes a NUL-terminated UTF-16LE byte string into UTF-8.
func UTF16LEToUTF8(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u := uint16(b[i]) | uint16(b[i+1])<<8
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

// UTF8ToUTF16LE encodes a UTF-8 Go string into NUL-terminated UTF-16LE bytes.
func UTF8ToUTF16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2+2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return append(out, 0, 0)
}

// UTF16LEToDialect re-encodes a NUL-terminated UTF-16LE byte string directly
// into an 8-bit dialect, the shape cross-dialect name/chat copies need.
func UTF16LEToDialect(b []byte, d Dialect) []byte {
	return FromUTF8(UTF16LEToUTF8(b), d)
}

// DialectToUTF16LE re-encodes an 8-bit dialect byte string into UTF-16LE.
func DialectToUTF16LE(b []byte, d Dialect) []byte {
	return UTF8ToUTF16LE(ToUTF8(b, d))
}

// DialectForLangTag picks the 8-bit dialect an incoming string's language
// tag selects: "\tJ" -> SJIS, anything else (including "\tE" or no tag) ->
// ISO8859. PSO always ensures one of the two tags is present (§4.5 chat).
func DialectForLangTag(s string) Dialect {
	if strings.HasPrefix(s, LangTagJapanese) {
		return SJIS
	}
	return ISO8859
}

func decoderFor(d Dialect) *encoding.Decoder {
	switch d {
	case SJIS:
		return japanese.ShiftJIS.NewDecoder()
	default:
		return charmap.ISO8859_1.NewDecoder()
	}
}

func encoderFor(d Dialect) *encoding.Encoder {
	switch d {
	case SJIS:
		return japanese.ShiftJIS.NewEncoder()
	default:
		return charmap.ISO8859_1.NewEncoder()
	}
}

func latin1Fallback(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func cutNUL(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}
