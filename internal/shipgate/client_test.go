package shipgate

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientDeliversFramedMessages(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	c := NewClient(ln.Addr().String())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.NoError(t, c.ForwardSearch(ctx, 1, 2))

	conn := <-accepted
	defer conn.Close()

	header := make([]byte, 6)
	_, err = readFull(conn, header)
	require.NoError(t, err)

	typ := binary.LittleEndian.Uint16(header[0:2])
	size := binary.LittleEndian.Uint32(header[2:6])
	require.Equal(t, uint16(MsgForwardSearch), typ)

	payload := make([]byte, size)
	_, err = readFull(conn, payload)
	require.NoError(t, err)

	var msg forwardSearchMsg
	require.NoError(t, json.Unmarshal(payload, &msg))
	require.Equal(t, uint32(1), msg.Requester)
	require.Equal(t, uint32(2), msg.Target)

	require.Eventually(t, func() bool {
		return c.CurrentState() == StateConnected
	}, time.Second, 10*time.Millisecond)
}

func TestEnqueueRespectsContextCancellation(t *testing.T) {
	c := NewClient("127.0.0.1:1") // never run, queue fills and blocks
	for i := 0; i < cap(c.sendCh); i++ {
		require.NoError(t, c.Kick(context.Background(), uint32(i), "full"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Kick(ctx, 999, "overflow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
