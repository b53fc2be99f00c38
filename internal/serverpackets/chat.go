package serverpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	pencoding "github.com/psoserv/blockserver/internal/encoding"
	"github.com/psoserv/blockserver/internal/protocol"
	"github.com/psoserv/blockserver/internal/transcode"
)

// Chat builds a lobby chat relay: sender guildcard, sender name, and the
// message run through transcode.PrepareChatMessage for the recipient's
// dialect (§4.5, S5) — color-prefix rewrite, censor pass, language tag and
// re-encoding all happen inside this constructor.
func Chat(senderGuildcard uint32, senderName, preparedMsg string, colorChar byte, censor transcode.CensorFunc, recipientVersion dialect.Version) (uint16, []byte) {
	recipientDialect := dialectFor(recipientVersion)
	body := transcode.PrepareChatMessage(preparedMsg, colorChar, censor, recipientDialect)

	w := protocol.NewWriter(16 + len(body))
	w.DWord(senderGuildcard)
	w.FixedDialectString(senderName, 16, recipientDialect)
	w.RawBytes(body)
	return TypeChat, w.Bytes()
}

// MsgBox builds a boxed system message, used for ban notices and other
// server-originated dialogs shown as a modal (§7 "boxed multi-line
// message").
func MsgBox(message string, d pencoding.Dialect) (uint16, []byte) {
	w := protocol.NewWriter(len(message) + 1)
	w.CDialectString(message, d)
	return TypeMsgBox, w.Bytes()
}

// SimpleMail builds a guildcard-to-guildcard mail delivery (§6).
func SimpleMail(fromGuildcard uint32, fromName, message string, d pencoding.Dialect) (uint16, []byte) {
	w := protocol.NewWriter(20 + len(message))
	w.DWord(fromGuildcard)
	w.FixedDialectString(fromName, 16, d)
	w.CDialectString(message, d)
	return TypeSimpleMail, w.Bytes()
}
