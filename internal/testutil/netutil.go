package testutil

import (
	"net"
	"testing"
	"time"
)

// PipeConn returns an in-memory client/server net.Conn pair, closed on
// test cleanup.
func PipeConn(t testing.TB) (client, server net.Conn) {
	t.Helper()
	server, client = net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return client, server
}

// FakeAddr is a net.Addr literal for tests that never dial out.
type FakeAddr struct {
	NetworkName string
	AddrString  string
}

func (f FakeAddr) Network() string { return f.NetworkName }
func (f FakeAddr) String() string  { return f.AddrString }

// TCPAddr builds a FakeAddr tagged as a tcp endpoint.
func TCPAddr(addr string) FakeAddr {
	return FakeAddr{NetworkName: "tcp", AddrString: addr}
}

// ConnWithDeadline wraps a net.Conn, refreshing a read/write deadline on
// every call so a stuck test fails instead of hanging.
type ConnWithDeadline struct {
	net.Conn
	deadline time.Duration
}

func NewConnWithDeadline(conn net.Conn, deadline time.Duration) *ConnWithDeadline {
	return &ConnWithDeadline{Conn: conn, deadline: deadline}
}

func (c *ConnWithDeadline) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.deadline)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

func (c *ConnWithDeadline) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.deadline)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// ListenTCP opens a TCP listener on a random loopback port, closed on
// test cleanup, and returns it alongside its dial address.
func ListenTCP(t testing.TB) (net.Listener, string) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create TCP listener: %v", err)
	}
	t.Cleanup(func() { _ = listener.Close() })
	return listener, listener.Addr().String()
}
