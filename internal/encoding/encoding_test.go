package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestASCIIRoundTripISO8859(t *testing.T) {
	s := "Hello World 123"
	b := FromUTF8(s, ISO8859)
	got := ToUTF8(b, ISO8859)
	require.Equal(t, s, got)
}

func TestUTF16LERoundTripBasicLatin(t *testing.T) {
	s := "BlockServer01"
	b := UTF8ToUTF16LE(s)
	got := UTF16LEToUTF8(b)
	require.Equal(t, s, got)
}

func TestDialectForLangTag(t *testing.T) {
	require.Equal(t, SJIS, DialectForLangTag(LangTagJapanese+"\x83\x65\x83\x58\x83\x67"))
	require.Equal(t, ISO8859, DialectForLangTag(LangTagNonJapanese+"Hello"))
	require.Equal(t, ISO8859, DialectForLangTag("Hello"))
}

func TestUTF16LEToDialectCrossConvert(t *testing.T) {
	src := UTF8ToUTF16LE("Ralts")
	out := UTF16LEToDialect(src, ISO8859)
	require.Equal(t, "Ralts", ToUTF8(out, ISO8859))
}

func TestFromUTF8NulTerminates(t *testing.T) {
	b := FromUTF8("hi", ISO8859)
	require.Equal(t, byte(0), b[len(b)-1])
}
