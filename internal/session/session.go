package session

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/psoserv/blockserver/internal/model"
)

// DispatchFunc handles one decoded inbound record. A non-nil error is
// session-fatal (§4.1 step 3, §7): the connection is reaped.
type DispatchFunc func(pktType uint16, flags uint32, body []byte) error

const (
	recvScratchSize      = 64 * 1024
	defaultSendQueueSize = 256
	defaultWriteTimeout  = 5 * time.Second
)

// Conn is the per-direction wire codec and send actor wrapped around a
// *model.Session (§4.1, §9 option (c)): a dedicated writer goroutine drains
// sendCh so that subcommand handlers broadcasting under a lobby lock never
// need to re-enter their own session's lock to push bytes out, which is
// exactly the reentrancy the C original's recursive session mutex existed
// for. Go's net.Conn.Write already blocks until the whole slice is written
// or an error occurs, so unlike the C original's non-blocking send() there
// is no partial-write ring buffer to manage (I7): backpressure is simply
// the bounded sendCh channel, and "compact before grow" has no equivalent
// because each packet is one independently allocated []byte rather
// than a shared growing byte arena.
type Conn struct {
	sess     *model.Session
	conn     net.Conn
	dispatch DispatchFunc

	sendCh  chan []byte
	closeCh chan struct{}
	once    sync.Once

	writeTimeout time.Duration

	carry         []byte
	headerRead    bool
	pendingHeader Header
}

// NewConn wraps sess, whose Conn field supplies the socket.
func NewConn(sess *model.Session, dispatch DispatchFunc, sendQueueSize int) *Conn {
	if sendQueueSize <= 0 {
		sendQueueSize = defaultSendQueueSize
	}
	return &Conn{
		sess:         sess,
		conn:         sess.Conn,
		dispatch:     dispatch,
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: defaultWriteTimeout,
	}
}

// Session returns the wrapped session.
func (c *Conn) Session() *model.Session { return c.sess }

// Close marks the session disconnected and stops the write pump. Safe to
// call more than once or concurrently with pump exit.
func (c *Conn) Close() {
	c.sess.MarkDisconnected()
	c.once.Do(func() { close(c.closeCh) })
}

// ReadLoop blocks reading and dispatching frames until the connection fails
// or Close is called. Run it on its own goroutine per session; call
// WritePump on another.
func (c *Conn) ReadLoop() {
	buf := make([]byte, recvScratchSize)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			c.Close()
			return
		}
		c.sess.TouchRecv(time.Now())
		c.carry = append(c.carry, buf[:n]...)
		if err := c.drainFrames(); err != nil {
			slog.Warn("session: fatal frame error", "guildcard", c.sess.Guildcard, "error", err)
			c.Close()
			return
		}
	}
}

// drainFrames implements the receive loop of §4.1 step 2 against c.carry.
func (c *Conn) drainFrames() error {
	hdrSize := c.sess.HeaderSize()
	for {
		if !c.headerRead {
			if len(c.carry) < hdrSize {
				return nil
			}
			hdrCopy := make([]byte, hdrSize)
			copy(hdrCopy, c.carry[:hdrSize])
			c.sess.RecvCipher.Decrypt(hdrCopy)
			h, err := decodeHeader(c.sess.Version, hdrCopy)
			if err != nil {
				return err
			}
			copy(c.carry[:hdrSize], hdrCopy)
			c.pendingHeader = h
			c.headerRead = true
		}

		rounded := roundUp(c.pendingHeader.Length, hdrSize)
		if len(c.carry) < rounded {
			return nil // stash the tail; wait for the next read
		}

		if rounded > hdrSize {
			rest := c.carry[hdrSize:rounded]
			c.sess.RecvCipher.Decrypt(rest)
		}
		payloadEnd := c.pendingHeader.Length - hdrSize
		payload := c.carry[hdrSize : hdrSize+payloadEnd]

		if err := c.dispatch(c.pendingHeader.Type, c.pendingHeader.Flags, payload); err != nil {
			return err
		}

		remaining := len(c.carry) - rounded
		copy(c.carry, c.carry[rounded:])
		c.carry = c.carry[:remaining]
		c.headerRead = false
	}
}

// EnqueuePacket pads body up to hdr_size alignment, encrypts it in place,
// and queues it for the write pump, preserving the order enqueue_packet was
// called in (§4.1 send path, §5 ordering guarantee).
func (c *Conn) EnqueuePacket(pktType uint16, flags uint32, body []byte) error {
	hdrSize := c.sess.HeaderSize()
	total := hdrSize + len(body)
	rounded := roundUp(total, hdrSize)

	pkt := make([]byte, rounded)
	copy(pkt[:hdrSize], encodeHeader(c.sess.Version, Header{Type: pktType, Flags: flags, Length: total}))
	copy(pkt[hdrSize:], body)

	c.sess.SendCipher.Encrypt(pkt)

	select {
	case c.sendCh <- pkt:
		return nil
	case <-c.closeCh:
		return fmt.Errorf("session: EnqueuePacket: connection closed")
	}
}

// WritePump drains sendCh to the socket until Close is called or a write
// fails, grounded on the teacher's per-client write-queue goroutine.
func (c *Conn) WritePump() {
	for {
		select {
		case pkt := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				c.Close()
				return
			}
			if _, err := c.conn.Write(pkt); err != nil {
				c.Close()
				return
			}
			c.sess.TouchSend(time.Now())
		case <-c.closeCh:
			return
		}
	}
}
