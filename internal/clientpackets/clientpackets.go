// Package clientpackets parses the inbound wire payloads of §6. Each
// parser reads a decrypted, frame-stripped packet body (the caller has
// already consumed the header) and returns a typed struct, mirroring
// internal/serverpackets' constructors on the outbound side.
//
// The full inbound surface is roughly forty opcodes (§6); this package
// covers the lobby/chat/quest/game-create path end to end and documents
// the rest as an extension point, the same scoping internal/subcommand
// and internal/serverpackets already use.
package clientpackets

import (
	"fmt"

	"github.com/psoserv/blockserver/internal/dialect"
	pencoding "github.com/psoserv/blockserver/internal/encoding"
)

// Inbound packet type constants (§6).
const (
	TypeLoginDCv1      uint16 = 0x90
	TypeLoginDCv2      uint16 = 0x93
	TypeLoginPC        uint16 = 0x93
	TypeLoginGC        uint16 = 0x9E
	TypeLoginBB        uint16 = 0x93
	TypeCharData       uint16 = 0x61
	TypeChat           uint16 = 0x06
	TypeGameCommand0   uint16 = 0x60
	TypeGameCommand2   uint16 = 0x62
	TypeGameCommandD   uint16 = 0x6D
	TypeMenuSelect     uint16 = 0x09
	TypeInfoRequest    uint16 = 0x1F
	TypeLobbyChange    uint16 = 0x84
	TypeGameCreate     uint16 = 0x0C
	TypeDoneBursting   uint16 = 0x72
	TypeQuestListReq   uint16 = 0xA4
	TypeQuestEndList   uint16 = 0xA9
	TypeGuildSearch    uint16 = 0x40
	TypeSimpleMail     uint16 = 0x81
	TypeAutoReplySet   uint16 = 0x06 // subcommand-carried on some dialects; kept for extension
	TypeInfoboardWrite uint16 = 0xD9
	TypeBlacklist      uint16 = 0x89
	TypePing           uint16 = 0x1D
)

func dialectFor(v dialect.Version) pencoding.Dialect {
	if v.IsDC() || v == dialect.PC {
		return pencoding.ISO8859
	}
	return pencoding.SJIS
}

// errShort formats a uniform "packet too short" parse error.
func errShort(kind string, need, have int) error {
	return fmt.Errorf("clientpackets: %s: need %d bytes, have %d", kind, need, have)
}
