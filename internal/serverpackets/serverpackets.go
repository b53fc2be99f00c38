// Package serverpackets builds the outbound wire payloads of §6. Each
// constructor returns a (type, body) pair ready for
// internal/session.Conn.EnqueuePacket; none of them know about framing or
// encryption, which session.Conn handles uniformly for every dialect.
//
// The full outbound surface is roughly eighty constructors (§6); this
// package covers the lobby/chat/quest/guild path end to end and documents
// the rest as an extension point, the same scoping already used by
// internal/subcommand's representative opcode table.
package serverpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	pencoding "github.com/psoserv/blockserver/internal/encoding"
)

// Outbound packet type constants (§6).
const (
	TypeSecurity       uint16 = 0x0E
	TypeTimestamp      uint16 = 0x01
	TypeRedirect       uint16 = 0x19
	TypeRedirectV6     uint16 = 0x6B
	TypeLobbyList      uint16 = 0x83
	TypeLobbyJoin      uint16 = 0x67
	TypeGameJoin       uint16 = 0x65
	TypeLobbyAddPlayer uint16 = 0x68
	TypeLobbyLeave     uint16 = 0x69
	TypeChat           uint16 = 0x06
	TypeGuildReply     uint16 = 0x88
	TypeGuildReplyV6   uint16 = 0xA0
	TypeMsgBox         uint16 = 0xA3
	TypeQuestList      uint16 = 0xA4
	TypeQuestInfo      uint16 = 0xA5
	TypeQuestFile      uint16 = 0xA6
	TypeQuestChunk     uint16 = 0xA7
	TypeSimpleMail     uint16 = 0x81
	TypeCRank          uint16 = 0xC5
)

// dialectFor returns the 8-bit text encoding a version's text fields use.
func dialectFor(v dialect.Version) pencoding.Dialect {
	if v.IsDC() || v == dialect.PC {
		return pencoding.ISO8859
	}
	return pencoding.SJIS
}
