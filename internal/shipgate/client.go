// Package shipgate implements the outbound link to the upstream directory
// service (§6): forward-search, kick, lobby-change notification, character
// backup, BB options save, and block-login notification, each a typed
// message on one persistent connection. MsgBanCheck is defined, but no
// Client method sends it. Grounded on the teacher's
// GSConnection (the login<->game server link), generalized from an inbound
// accepted connection to an outbound dialed one.
package shipgate

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// MessageType tags each shipgate call's wire message.
type MessageType uint16

const (
	MsgForwardSearch MessageType = iota + 1
	MsgKick
	MsgLobbyChange
	MsgBackupCharacter
	MsgSaveBBOptions
	MsgBlockLogin
	MsgBanCheck
)

// Client is a persistent, reconnecting connection to the shipgate. Every
// exported call hands its payload to a dedicated writer goroutine and
// returns as soon as the payload is queued — §6 "no call blocks the
// reactor for more than the time to hand the payload off to the shipgate
// thread".
type Client struct {
	addr string

	mu    sync.Mutex
	conn  net.Conn
	state State

	sendCh chan wireMessage
}

// State is the connection's lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnected
)

type wireMessage struct {
	typ     MessageType
	payload []byte
}

// NewClient creates a Client that dials addr lazily on first Run call.
func NewClient(addr string) *Client {
	return &Client{addr: addr, sendCh: make(chan wireMessage, 256)}
}

// Run dials addr and drains the send queue until ctx is cancelled,
// reconnecting with backoff on failure. Call it on its own goroutine.
func (c *Client) Run(ctx context.Context) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := net.DialTimeout("tcp", c.addr, 10*time.Second)
		if err != nil {
			slog.Warn("shipgate: dial failed", "addr", c.addr, "error", err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		c.mu.Lock()
		c.conn = conn
		c.state = StateConnected
		c.mu.Unlock()

		c.drain(ctx, conn)

		c.mu.Lock()
		c.state = StateDisconnected
		c.conn = nil
		c.mu.Unlock()
	}
}

// drain writes queued messages to conn until it fails or ctx ends.
func (c *Client) drain(ctx context.Context, conn net.Conn) {
	for {
		select {
		case <-ctx.Done():
			conn.Close()
			return
		case msg := <-c.sendCh:
			frame := make([]byte, 6+len(msg.payload))
			binary.LittleEndian.PutUint16(frame[0:2], uint16(msg.typ))
			binary.LittleEndian.PutUint32(frame[2:6], uint32(len(msg.payload)))
			copy(frame[6:], msg.payload)
			if _, err := conn.Write(frame); err != nil {
				slog.Warn("shipgate: write failed", "error", err)
				return
			}
		}
	}
}

func (c *Client) enqueue(ctx context.Context, typ MessageType, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("shipgate: marshal: %w", err)
	}
	select {
	case c.sendCh <- wireMessage{typ: typ, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type forwardSearchMsg struct {
	Requester uint32 `json:"requester"`
	Target    uint32 `json:"target"`
}

func (c *Client) ForwardSearch(ctx context.Context, requester, target uint32) error {
	return c.enqueue(ctx, MsgForwardSearch, forwardSearchMsg{Requester: requester, Target: target})
}

type kickMsg struct {
	Guildcard uint32 `json:"guildcard"`
	Reason    string `json:"reason"`
}

func (c *Client) Kick(ctx context.Context, guildcard uint32, reason string) error {
	return c.enqueue(ctx, MsgKick, kickMsg{Guildcard: guildcard, Reason: reason})
}

type lobbyChangeMsg struct {
	Guildcard uint32 `json:"guildcard"`
	LobbyName string `json:"lobby_name"`
}

func (c *Client) NotifyLobbyChange(ctx context.Context, guildcard uint32, lobbyName string) error {
	return c.enqueue(ctx, MsgLobbyChange, lobbyChangeMsg{Guildcard: guildcard, LobbyName: lobbyName})
}

type blobMsg struct {
	Guildcard uint32 `json:"guildcard"`
	Blob      []byte `json:"blob"`
}

func (c *Client) BackupCharacter(ctx context.Context, guildcard uint32, blob []byte) error {
	return c.enqueue(ctx, MsgBackupCharacter, blobMsg{Guildcard: guildcard, Blob: blob})
}

func (c *Client) SaveBBOptions(ctx context.Context, guildcard uint32, blob []byte) error {
	return c.enqueue(ctx, MsgSaveBBOptions, blobMsg{Guildcard: guildcard, Blob: blob})
}

type blockLoginMsg struct {
	Guildcard  uint32 `json:"guildcard"`
	BlockIndex int    `json:"block_index"`
}

func (c *Client) NotifyBlockLogin(ctx context.Context, guildcard uint32, blockIndex int) error {
	return c.enqueue(ctx, MsgBlockLogin, blockLoginMsg{Guildcard: guildcard, BlockIndex: blockIndex})
}

// CurrentState reports whether the client currently has a live connection.
func (c *Client) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
