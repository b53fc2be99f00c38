package transcode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/dialect"
	pencoding "github.com/psoserv/blockserver/internal/encoding"
)

// TestColorChatRewrite mirrors S5: a PC client's "$C3Hello" with color-char
// '$' becomes "\tC3Hello" before being re-encoded for a DCv2 recipient.
func TestColorChatRewrite(t *testing.T) {
	out := PrepareChatMessage("$C3Hello", '$', nil, pencoding.ISO8859)
	require.Equal(t, "\tC3Hello", pencoding.ToUTF8(out, pencoding.ISO8859))
}

func TestColorCharOnlyRewritesValidPrefix(t *testing.T) {
	require.Equal(t, "$XHello", RewriteColorPrefix("$XHello", '$'))
	require.Equal(t, "\tC3Hello", RewriteColorPrefix("$C3Hello", '$'))
}

func TestEnsureLangTagAddsJapaneseTag(t *testing.T) {
	out := EnsureLangTag("hello", pencoding.SJIS)
	require.Equal(t, "\tJhello", out)
}

func TestEnsureLangTagSkipsExisting(t *testing.T) {
	out := EnsureLangTag("\tEhello", pencoding.SJIS)
	require.Equal(t, "\tEhello", out)
}

func TestCRankReshapeTruncatesAndPads(t *testing.T) {
	src := make([]byte, CRankEntrySize(dialect.DCv1))
	for i := range src {
		src[i] = byte(i)
	}
	out := ReshapeCRank(src, dialect.DCv1, dialect.GC)
	require.Len(t, out, CRankEntrySize(dialect.GC))
}

func TestGuildReplyPortAdjustment(t *testing.T) {
	require.Equal(t, 5101, GuildReplyPort(5100, dialect.PC, 9000))
	require.Equal(t, 5102, GuildReplyPort(5100, dialect.GC, 9000))
	require.Equal(t, 5103, GuildReplyPort(5100, dialect.Ep3, 9000))
	require.Equal(t, 9000, GuildReplyPort(5100, dialect.BB, 9000))
}
