// Package block implements the per-block reactor of §4.2: it owns one
// listener per dialect port offset, accepts connections, runs the welcome
// handshake, and drives each session's read/write pump and liveness sweep.
// Grounded on the teacher's gameserver.Server accept loop, generalized from
// one listener to the five-port-per-block layout of §6.
package block

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/lobby"
	"github.com/psoserv/blockserver/internal/model"
	"github.com/psoserv/blockserver/internal/session"
	"github.com/psoserv/blockserver/internal/subcommand"
)

// Listeners is the set of versions a block opens a port for, in the order
// of model.PortOffset (§6).
var Listeners = []dialect.Version{dialect.DCv1, dialect.PC, dialect.GC, dialect.Ep3, dialect.BB}

// Timeouts bundles the liveness/keep-alive timers of §4.2b/§5.
type Timeouts struct {
	Liveness     time.Duration
	KeepAliveIdle  time.Duration
	KeepAliveQuiet time.Duration
	PreAuth        time.Duration
}

// Reactor runs one block's listeners and session lifecycle.
type Reactor struct {
	Block    *model.Block
	Router   *subcommand.Router
	Timeouts Timeouts

	bindAddress   string
	basePort      int
	sendQueueSize int

	conns   map[*session.Conn]struct{}
	connsMu sync.Mutex
}

// NewReactor wires blk to router under the given bind address/base port.
func NewReactor(blk *model.Block, router *subcommand.Router, bindAddress string, basePort int, sendQueueSize int, timeouts Timeouts) *Reactor {
	return &Reactor{
		Block:         blk,
		Router:        router,
		Timeouts:      timeouts,
		bindAddress:   bindAddress,
		basePort:      basePort,
		sendQueueSize: sendQueueSize,
		conns:         make(map[*session.Conn]struct{}),
	}
}

// Run opens every dialect listener and blocks until ctx is cancelled.
func (r *Reactor) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(Listeners))

	for _, v := range Listeners {
		port := r.basePort + model.PortOffset(v)
		addr := fmt.Sprintf("%s:%d", r.bindAddress, port)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("block %d: listening on %s (%s): %w", r.Block.Index, addr, v, err)
		}
		r.Block.Listeners = append(r.Block.Listeners, model.Listener{Version: v, TCP: ln})

		wg.Add(1)
		go func(v dialect.Version, ln net.Listener) {
			defer wg.Done()
			if err := r.acceptLoop(ctx, v, ln); err != nil {
				errCh <- err
			}
		}(v, ln)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		r.livenessSweep(ctx)
	}()

	go func() {
		<-ctx.Done()
		for _, l := range r.Block.Listeners {
			l.TCP.Close()
		}
	}()

	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Reactor) acceptLoop(ctx context.Context, v dialect.Version, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			slog.Error("block: accept failed", "block", r.Block.Index, "version", v, "error", err)
			continue
		}
		go r.handleConnection(ctx, v, conn)
	}
}

func (r *Reactor) handleConnection(ctx context.Context, v dialect.Version, conn net.Conn) {
	defer conn.Close()

	recvCipher, sendCipher, err := session.PerformWelcome(conn, v)
	if err != nil {
		slog.Warn("block: welcome handshake failed", "block", r.Block.Index, "version", v, "error", err)
		return
	}

	sess := model.NewSession(conn, v)
	sess.RecvCipher = recvCipher
	sess.SendCipher = sendCipher
	sess.CurrentBlock = r.Block

	var c *session.Conn
	dispatch := func(pktType uint16, flags uint32, body []byte) error {
		return r.dispatch(c, sess, pktType, body)
	}
	c = session.NewConn(sess, dispatch, r.sendQueueSize)

	r.Block.AddClient(sess)
	r.track(c)
	defer r.untrack(c)
	defer r.leaveAndRemove(sess)

	go c.WritePump()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()
	defer close(done)

	c.ReadLoop()
}

func (r *Reactor) dispatch(c *session.Conn, sess *model.Session, pktType uint16, body []byte) error {
	const opSubcommand = 0x60 // in-game subcommand envelope (§4.4, §6)

	if pktType == opSubcommand {
		sess.Lock()
		l := sess.CurrentLobby
		sess.Unlock()
		if l == nil {
			return nil
		}
		return r.Router.Route(sess, l, body, connDeliverer{c: c})
	}

	if handler, ok := r.handlers()[pktType]; ok {
		return handler(c, sess, body)
	}

	slog.Debug("block: unrouted packet type, ignoring", "type", pktType, "guildcard", sess.Guildcard)
	return nil
}

// connDeliverer adapts session.Conn.EnqueuePacket to subcommand.Deliverer.
type connDeliverer struct {
	c *session.Conn
}

func (d connDeliverer) Send(sess *model.Session, op subcommand.Opcode, payload []byte) error {
	const opSubcommand = 0x60
	env := subcommand.BuildEnvelope(op, payload)
	return d.c.EnqueuePacket(opSubcommand, 0, env)
}

func (r *Reactor) leaveAndRemove(sess *model.Session) {
	sess.Lock()
	prev := sess.CurrentLobby
	sess.Unlock()
	result := lobby.Leave(sess, r.Block.RemoveGame)
	r.broadcastLeave(prev, result)
	r.Block.RemoveClient(sess)
}

func (r *Reactor) track(c *session.Conn) {
	r.connsMu.Lock()
	r.conns[c] = struct{}{}
	r.connsMu.Unlock()
}

func (r *Reactor) untrack(c *session.Conn) {
	r.connsMu.Lock()
	delete(r.conns, c)
	r.connsMu.Unlock()
}

// livenessSweep polls every tracked connection's session on a fixed cadence,
// reaping dead ones and pinging idle-but-quiet ones (§4.2b, §4.2f).
func (r *Reactor) livenessSweep(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.sweepOnce(now)
		}
	}
}

func (r *Reactor) sweepOnce(now time.Time) {
	r.connsMu.Lock()
	snapshot := make([]*session.Conn, 0, len(r.conns))
	for c := range r.conns {
		snapshot = append(snapshot, c)
	}
	r.connsMu.Unlock()

	for _, c := range snapshot {
		sess := c.Session()
		reap, ping := sess.LivenessCheck(now, r.Timeouts.Liveness, r.Timeouts.KeepAliveIdle, r.Timeouts.KeepAliveQuiet, r.Timeouts.PreAuth)
		switch {
		case reap:
			c.Close()
		case ping:
			const opPing = 0x1D // keep-alive ping (§4.2b, §6)
			_ = c.EnqueuePacket(opPing, 0, nil)
		}
	}
}
