package transcode

import (
	pencoding "github.com/psoserv/blockserver/internal/encoding"
)

// CensorFunc runs the single UTF-8-intermediate censor pass of §4.5 chat
// handling. Word-list format and policy are out of core scope per §1; this
// is the injectable collaborator the chat constructor calls once before
// per-recipient re-encoding.
type CensorFunc func(utf8Message string) string

// RewriteColorPrefix implements §4.5's color-chat rule: a message
// beginning with colorChar followed by 'C' and a third non-null character
// has that first byte rewritten to '\t', turning a plain "$C3Hello" into
// the in-engine color escape "\tC3Hello".
func RewriteColorPrefix(msg string, colorChar byte) string {
	b := []byte(msg)
	if len(b) >= 3 && b[0] == colorChar && b[1] == 'C' && b[2] != 0 {
		b[0] = '\t'
	}
	return string(b)
}

// EnsureLangTag prefixes msg with the language marker tag appropriate to d
// (\tJ or \tE) unless it already starts with one, or with the \tC color
// escape that RewriteColorPrefix produces (§4.5, S5).
func EnsureLangTag(msg string, d pencoding.Dialect) string {
	if len(msg) >= 2 && msg[0] == '\t' && (msg[1] == 'J' || msg[1] == 'E' || msg[1] == 'C') {
		return msg
	}
	if d == pencoding.SJIS {
		return pencoding.LangTagJapanese + msg
	}
	return pencoding.LangTagNonJapanese + msg
}

// PrepareChatMessage runs the full §4.5 chat pipeline: color-prefix
// rewrite, the one-time censor pass (on the UTF-8 intermediate form), then
// re-encoding for the recipient's dialect with the language tag ensured.
func PrepareChatMessage(raw string, colorChar byte, censor CensorFunc, recipientDialect pencoding.Dialect) []byte {
	msg := RewriteColorPrefix(raw, colorChar)
	if censor != nil {
		msg = censor(msg)
	}
	msg = EnsureLangTag(msg, recipientDialect)
	return pencoding.FromUTF8(msg, recipientDialect)
}
