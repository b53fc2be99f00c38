package transcode

import "github.com/psoserv/blockserver/internal/dialect"

// GuildReplyPort adjusts a DC-numbered base port for the recipient's
// dialect (§4.5 guild-card reply): GC uses dc-port+2, Ep3 uses dc-port+3,
// PC uses dc-port+1, BB uses its own configured port.
func GuildReplyPort(dcBasePort int, v dialect.Version, bbPort int) int {
	switch v {
	case dialect.PC:
		return dcBasePort + 1
	case dialect.GC:
		return dcBasePort + 2
	case dialect.Ep3:
		return dcBasePort + 3
	case dialect.BB:
		return bbPort
	default:
		return dcBasePort
	}
}

// LocationString builds the "<lobby-name>,BLOCKnn,<ship-name>" form used in
// guild-card search replies (§4.5).
func LocationString(lobbyName string, blockIndex int, shipName string) string {
	return lobbyName + ",BLOCK" + padTwoDigits(blockIndex) + "," + shipName
}

func padTwoDigits(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 99 {
		n = 99
	}
	digits := "0123456789"
	return string([]byte{digits[n/10], digits[n%10]})
}
