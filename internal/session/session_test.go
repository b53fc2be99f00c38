package session

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pcipher "github.com/psoserv/blockserver/internal/cipher"
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
)

// TestFrameRoundTrip exercises P1: a packet enqueued on one side of a piped
// connection is decoded byte-identical (modulo hdr_size padding) on the
// other.
func TestFrameRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	seed := []byte{1, 2, 3, 4}
	sendCipher := pcipher.NewRollingXORCipher(1<<24|3<<16|2<<8|1, 1024)
	recvCipher := pcipher.NewRollingXORCipher(1<<24|3<<16|2<<8|1, 1024)
	_ = seed

	sender := model.NewSession(clientConn, dialect.GC)
	sender.SendCipher = sendCipher
	receiver := model.NewSession(serverConn, dialect.GC)
	receiver.RecvCipher = recvCipher

	received := make(chan []byte, 1)
	recvConn := NewConn(receiver, func(pktType uint16, flags uint32, body []byte) error {
		out := make([]byte, len(body))
		copy(out, body)
		received <- out
		return nil
	}, 4)
	go recvConn.ReadLoop()

	sendConn := NewConn(sender, nil, 4)
	go sendConn.WritePump()

	want := []byte("hello lobby")
	require.NoError(t, sendConn.EnqueuePacket(0x05, 0, want))

	select {
	case got := <-received:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestRoundUp(t *testing.T) {
	require.Equal(t, 4, roundUp(4, 4))
	require.Equal(t, 8, roundUp(5, 4))
	require.Equal(t, 8, roundUp(8, 8))
	require.Equal(t, 16, roundUp(9, 8))
}

func TestHeaderVariantA(t *testing.T) {
	h := Header{Type: 0x42, Flags: 3, Length: 10}
	buf := encodeHeader(dialect.GC, h)
	require.Len(t, buf, 4)
	got, err := decodeHeader(dialect.GC, buf)
	require.NoError(t, err)
	require.Equal(t, uint16(0x42), got.Type)
	require.Equal(t, uint32(3), got.Flags)
	require.Equal(t, 10, got.Length)
}

func TestHeaderVariantB(t *testing.T) {
	h := Header{Type: 0x19, Flags: 1, Length: 20}
	buf := encodeHeader(dialect.PC, h)
	got, err := decodeHeader(dialect.PC, buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHeaderVariantC(t *testing.T) {
	h := Header{Type: 0x0019, Flags: 0xFF, Length: 64}
	buf := encodeHeader(dialect.BB, h)
	require.Len(t, buf, 8)
	got, err := decodeHeader(dialect.BB, buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestDecodeHeaderRejectsShortLength(t *testing.T) {
	h := Header{Type: 1, Length: 1}
	buf := encodeHeader(dialect.GC, h)
	_, err := decodeHeader(dialect.GC, buf)
	require.Error(t, err)
}
