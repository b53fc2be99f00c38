package serverpackets

import (
	"net"

	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/protocol"
	"github.com/psoserv/blockserver/internal/transcode"
)

// GuildReply builds an IPv4 guild-card search result: the found player's
// guildcard, redirect address, port (already transcode.GuildReplyPort
// adjusted for the requester's dialect), and location string (§4.5 guild
// search).
func GuildReply(guildcard uint32, addr net.IP, dcBasePort int, requester dialect.Version, bbPort int, location string) (uint16, []byte) {
	port := transcode.GuildReplyPort(dcBasePort, requester, bbPort)
	w := protocol.NewWriter(64)
	w.DWord(guildcard)
	w.RawBytes(addr.To4())
	w.Word(uint16(port))
	w.Word(0)
	w.CDialectString(location, dialectFor(requester))
	return TypeGuildReply, w.Bytes()
}

// GuildReplyV6 is GuildReply's IPv6-capable counterpart, used by clients
// that understand the wider reply shape (§4.5).
func GuildReplyV6(guildcard uint32, addr net.IP, dcBasePort int, requester dialect.Version, bbPort int, location string) (uint16, []byte) {
	port := transcode.GuildReplyPort(dcBasePort, requester, bbPort)
	w := protocol.NewWriter(80)
	w.DWord(guildcard)
	w.RawBytes(addr.To16())
	w.Word(uint16(port))
	w.Word(0)
	w.CDialectString(location, dialectFor(requester))
	return TypeGuildReplyV6, w.Bytes()
}
