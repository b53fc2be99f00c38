package session

import (
	"crypto/rand"
	"fmt"
	"net"

	pcipher "github.com/psoserv/blockserver/internal/cipher"
	"github.com/psoserv/blockserver/internal/dialect"
)

// CopyrightBanner is the fixed string every dialect's welcome payload must
// carry verbatim, expected byte-for-byte by the client (§6).
const CopyrightBanner = "Patch Server. Copyright SonicTeam, 2001"

// packetTypeWelcome is the outer envelope type for the plaintext welcome
// record (§6). internal/serverpackets has no welcome constructor; this
// package builds and emits the record itself, since the key exchange
// completes before a Conn exists.
const packetTypeWelcome = 0x17

// PerformWelcome runs the accept-time handshake of §4.1: it generates one
// seed per direction, writes the plaintext welcome record containing the
// copyright banner and both seeds, and returns the recv/send stream
// ciphers derived from them. No bytes are sent unencrypted after this call
// returns (I6).
func PerformWelcome(conn net.Conn, v dialect.Version) (recvCipher, sendCipher pcipher.StreamCipher, err error) {
	seedSize := v.SeedSize()
	serverSeed := make([]byte, seedSize)
	clientSeed := make([]byte, seedSize)
	if _, err := rand.Read(serverSeed); err != nil {
		return nil, nil, fmt.Errorf("session: PerformWelcome: %w", err)
	}
	if _, err := rand.Read(clientSeed); err != nil {
		return nil, nil, fmt.Errorf("session: PerformWelcome: %w", err)
	}

	body := make([]byte, 0, 64+2*seedSize)
	body = append(body, []byte(CopyrightBanner)...)
	body = append(body, make([]byte, 96-len(CopyrightBanner))...) // header pads the banner to a fixed 96-byte field
	body = append(body, serverSeed...)
	body = append(body, clientSeed...)

	hdrSize := v.HeaderSize()
	total := hdrSize + len(body)
	rounded := roundUp(total, hdrSize)
	frame := make([]byte, rounded)
	copy(frame[:hdrSize], encodeHeader(v, Header{Type: packetTypeWelcome, Length: total}))
	copy(frame[hdrSize:], body)

	if _, err := conn.Write(frame); err != nil {
		return nil, nil, fmt.Errorf("session: PerformWelcome: write: %w", err)
	}

	recvCipher, err = pcipher.NewStreamCipher(v, clientSeed)
	if err != nil {
		return nil, nil, fmt.Errorf("session: PerformWelcome: recv cipher: %w", err)
	}
	sendCipher, err = pcipher.NewStreamCipher(v, serverSeed)
	if err != nil {
		return nil, nil, fmt.Errorf("session: PerformWelcome: send cipher: %w", err)
	}
	return recvCipher, sendCipher, nil
}
