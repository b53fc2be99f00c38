package serverpackets

import (
	"net"

	"github.com/psoserv/blockserver/internal/protocol"
)

// Security error codes (§4.3, §7): the client's on-screen reason for a
// rejected lobby/game join doubles as the SECURITY packet's error field.
type SecurityCode byte

const (
	SecurityOK SecurityCode = iota
	SecurityBadPassword
	SecurityMaintenance
)

// Security builds the post-login acknowledgement: guildcard, team id, and
// an error code (0 = success).
func Security(guildcard uint32, teamID uint32, code SecurityCode) (uint16, []byte) {
	w := protocol.NewWriter(16)
	w.DWord(guildcard)
	w.DWord(teamID)
	w.Byte(byte(code))
	w.Byte(0) // reserved
	w.Word(0) // reserved
	return TypeSecurity, w.Bytes()
}

// Timestamp builds the server's wall-clock report, sent right after
// WELCOME on most dialects (§6).
func Timestamp(unixMicros uint64) (uint16, []byte) {
	w := protocol.NewWriter(8)
	w.QWord(unixMicros)
	return TypeTimestamp, w.Bytes()
}

// Redirect builds an IPv4 redirect to a different block/ship (§6): 4-byte
// address, 2-byte port, 2-byte pad.
func Redirect(addr net.IP, port uint16) (uint16, []byte) {
	w := protocol.NewWriter(8)
	w.RawBytes(addr.To4())
	w.Word(port)
	w.Word(0)
	return TypeRedirect, w.Bytes()
}

// RedirectV6 builds an IPv6 redirect (§6): 16-byte address, 2-byte port,
// 2-byte pad.
func RedirectV6(addr net.IP, port uint16) (uint16, []byte) {
	w := protocol.NewWriter(20)
	w.RawBytes(addr.To16())
	w.Word(port)
	w.Word(0)
	return TypeRedirectV6, w.Bytes()
}
