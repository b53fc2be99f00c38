package block

import (
	"context"
	"log/slog"
	"time"

	"github.com/psoserv/blockserver/internal/clientpackets"
	"github.com/psoserv/blockserver/internal/dialect"
	pencoding "github.com/psoserv/blockserver/internal/encoding"
	"github.com/psoserv/blockserver/internal/gm"
	"github.com/psoserv/blockserver/internal/lobby"
	"github.com/psoserv/blockserver/internal/model"
	"github.com/psoserv/blockserver/internal/serverpackets"
	"github.com/psoserv/blockserver/internal/session"
)

const dispatchTimeout = 3 * time.Second

// dialectForDisp returns the 8-bit text encoding a version's text fields
// use, mirroring internal/serverpackets' own unexported dialectFor.
func dialectForDisp(v dialect.Version) pencoding.Dialect {
	if v.IsDC() || v == dialect.PC {
		return pencoding.ISO8859
	}
	return pencoding.SJIS
}

// packetHandler handles one non-subcommand inbound opcode (§4.2a-c, §4.3,
// §4.5-4.6). The subcommand envelope opcode 0x60 goes through Router.Route
// instead — see Reactor.dispatch; 0x62 and 0x6D have no entry and are
// ignored.
type packetHandler func(c *session.Conn, sess *model.Session, body []byte) error

// handlers returns the non-subcommand opcode table. This covers the
// lobby-admission and chat path end to end; extend it the same way
// internal/subcommand's opcode table is extended — add a clientpackets
// parser and a case here.
func (r *Reactor) handlers() map[uint16]packetHandler {
	return map[uint16]packetHandler{
		clientpackets.TypeLoginDCv1:    r.handleLogin,
		clientpackets.TypeLoginPC:      r.handleLogin,
		clientpackets.TypeLoginGC:      r.handleLogin,
		clientpackets.TypeChat:         r.handleChat,
		clientpackets.TypeLobbyChange:  r.handleLobbyChange,
		clientpackets.TypeGameCreate:   r.handleGameCreate,
		clientpackets.TypeDoneBursting: r.handleDoneBursting,
		clientpackets.TypeMenuSelect:   r.handleMenuSelect,
		clientpackets.TypeInfoRequest:  r.handleInfoRequest,
		clientpackets.TypePing:         r.handlePing,
	}
}

// handleLogin runs the post-accept admission of §4.2a: ban check against
// the ship's BanStore, GM privilege lookup, clearing FlagProtection, and
// joining default lobby 0.
func (r *Reactor) handleLogin(c *session.Conn, sess *model.Session, body []byte) error {
	login, err := clientpackets.ParseLogin(sess.Version, body)
	if err != nil {
		return err
	}

	ship := r.Block.Ship
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if ship.Bans != nil {
		ban, err := ship.Bans.Check(ctx, login.Guildcard)
		if err != nil {
			slog.Warn("block: ban check failed", "guildcard", login.Guildcard, "error", err)
		} else if ban != nil {
			styp, sbody := serverpackets.Security(login.Guildcard, login.TeamID, serverpackets.SecurityBadPassword)
			_ = c.EnqueuePacket(styp, 0, sbody)
			c.Close()
			return nil
		}
	}

	sess.Lock()
	sess.Guildcard = login.Guildcard
	sess.Character.Name = login.Username
	sess.Flags &^= model.FlagProtection
	if ship.GMs != nil {
		if priv, ok := ship.GMs.PrivilegeOf(login.Guildcard); ok {
			sess.Privilege = priv
		}
	}
	sess.Unlock()

	typ, sbody := serverpackets.Security(login.Guildcard, login.TeamID, serverpackets.SecurityOK)
	if err := c.EnqueuePacket(typ, 0, sbody); err != nil {
		return err
	}

	if ship.Shipgate != nil {
		if err := ship.Shipgate.NotifyBlockLogin(ctx, login.Guildcard, r.Block.Index); err != nil {
			slog.Warn("block: shipgate login notify failed", "guildcard", login.Guildcard, "error", err)
		}
	}

	return r.joinLobby(c, sess, r.Block.DefaultLobbies[0], "", false, 0, 0)
}

// joinLobby runs admission for target, enqueues the joiner's own
// LobbyJoin/GameJoin roster, and broadcasts LobbyAddPlayer to the rest of
// the lobby (§4.3 steps 1-4).
func (r *Reactor) joinLobby(c *session.Conn, sess *model.Session, target *model.Lobby, password string, override bool, minLevel, maxLevel int) error {
	result, code := lobby.Join(lobby.JoinRequest{
		Session:          sess,
		Lobby:            target,
		Password:         password,
		PasswordOverride: override,
		Level:            int(sess.Character.Level),
		MinLevel:         minLevel,
		MaxLevel:         maxLevel,
	})
	if code != lobby.ErrNone {
		typ, body := serverpackets.MsgBox("Unable to join.", dialectForDisp(sess.Version))
		return c.EnqueuePacket(typ, 0, body)
	}

	v2Allowed := target.Flags&model.FlagV2 != 0
	var typ uint16
	var body []byte
	if target.Type == model.LobbyDefault {
		typ, body = serverpackets.LobbyJoin(sess.Version, v2Allowed, result.Slot, result.Leader, result.Members)
	} else {
		typ, body = serverpackets.GameJoin(sess.Version, v2Allowed, result.Slot, result.Leader, result.Members)
	}
	if err := c.EnqueuePacket(typ, 0, body); err != nil {
		return err
	}

	for _, m := range result.Members {
		if m.Session == sess {
			continue
		}
		atyp, abody := serverpackets.LobbyAddPlayer(m.Session.Version, v2Allowed, result.Slot, sess.Guildcard, sess.Character)
		_ = r.sendTo(m.Session, atyp, abody)
	}
	return nil
}

// handleChat re-encodes and relays a lobby chat message to every other
// occupant, applying ignore/blacklist suppression (§4.5).
func (r *Reactor) handleChat(c *session.Conn, sess *model.Session, body []byte) error {
	chat, err := clientpackets.ParseChat(sess.Version, body)
	if err != nil {
		return err
	}

	sess.Lock()
	l := sess.CurrentLobby
	sess.Unlock()
	if l == nil {
		return nil
	}

	for _, m := range l.Members() {
		if m.Session == sess || m.Session.Suppresses(sess.Guildcard) {
			continue
		}
		typ, abody := serverpackets.Chat(sess.Guildcard, sess.Character.Name, chat.Message, '$', nil, m.Session.Version)
		_ = r.sendTo(m.Session, typ, abody)
	}
	return nil
}

// handleLobbyChange leaves the current lobby and joins the requested
// default lounge (§4.3).
func (r *Reactor) handleLobbyChange(c *session.Conn, sess *model.Session, body []byte) error {
	lc, err := clientpackets.ParseLobbyChange(body)
	if err != nil {
		return err
	}
	if lc.LobbyID < 0 || lc.LobbyID >= len(r.Block.DefaultLobbies) {
		return nil
	}

	sess.Lock()
	prev := sess.CurrentLobby
	sess.Unlock()
	result := lobby.Leave(sess, r.Block.RemoveGame)
	r.broadcastLeave(prev, result)

	return r.joinLobby(c, sess, r.Block.DefaultLobbies[lc.LobbyID], "", false, 0, 0)
}

// handleGameCreate builds a new game lobby, registers it with the block,
// and joins the creator (§3, §4.3).
func (r *Reactor) handleGameCreate(c *session.Conn, sess *model.Session, body []byte) error {
	req, err := clientpackets.ParseGameCreate(sess.Version, body)
	if err != nil {
		return err
	}

	sess.Lock()
	prev := sess.CurrentLobby
	sess.Unlock()
	leaveResult := lobby.Leave(sess, r.Block.RemoveGame)
	r.broadcastLeave(prev, leaveResult)

	l := model.NewLobby(int(r.Block.Uint32()&0x7FFFFFFF), model.LobbyGame, model.MaxGameSlots)
	l.Name = req.Name
	l.Password = req.Password
	l.Difficulty = req.Difficulty
	l.Event = req.Event
	l.Version = sess.Version
	l.RandomSeed = r.Block.Uint32()
	if req.Battle {
		l.Flags |= model.FlagBattle
	}
	if req.Challenge {
		l.Flags |= model.FlagChallenge
	}
	if req.SinglePlayer {
		l.Flags |= model.FlagSinglePlayer
	}
	r.Block.AddGame(l)

	return r.joinLobby(c, sess, l, req.Password, true, 0, 0)
}

// handleDoneBursting clears the BURSTING state the join protocol set,
// admitting ordinary subcommand traffic again (§4.3 step 6, §4.4).
func (r *Reactor) handleDoneBursting(c *session.Conn, sess *model.Session, body []byte) error {
	sess.Lock()
	l := sess.CurrentLobby
	sess.Unlock()
	if l != nil {
		l.SetState(model.StateNormal)
	}
	return nil
}

// handleMenuSelect resolves a GM menu pick against the ship's declarative
// table and privilege bitset (§4.5). No action is carried out here: a
// permitted kick pick is only logged, and ban/reload-quests are declared in
// gm.DefaultTable but routed through the ship's own admin surface.
func (r *Reactor) handleMenuSelect(c *session.Conn, sess *model.Session, body []byte) error {
	ms, err := clientpackets.ParseMenuSelect(body)
	if err != nil {
		return err
	}
	if ms.MenuID != 0x01 {
		return nil
	}

	sess.Lock()
	priv := sess.Privilege
	l := sess.CurrentLobby
	sess.Unlock()
	if l == nil {
		return nil
	}

	visible := gm.Visible(gm.DefaultTable, priv, l.Type)
	for _, entry := range visible {
		if entry.ItemID != ms.ItemID {
			continue
		}
		if entry.ItemID == 1 {
			// Kick: the menu target is carried out of band by the client
			// UI (a prior target-select step §4.5 assumes but doesn't
			// itself wire here); this reactor only validates the pick is
			// permitted.
			slog.Info("block: GM kick permitted", "by", sess.Guildcard)
		}
	}
	return nil
}

// handleInfoRequest resends the requesting session's own info-board text,
// the minimal self-echo case of §4.5; cross-session info lookups go
// through the subcommand router's info-board opcodes instead.
func (r *Reactor) handleInfoRequest(c *session.Conn, sess *model.Session, body []byte) error {
	if _, err := clientpackets.ParseInfoRequest(body); err != nil {
		return err
	}
	typ, abody := serverpackets.MsgBox(sess.InfoBoard, dialectForDisp(sess.Version))
	return c.EnqueuePacket(typ, 0, abody)
}

// handlePing acknowledges a client keep-alive; TouchRecv already ran in
// Conn.ReadLoop before dispatch, so there is nothing left to do (§4.2b).
func (r *Reactor) handlePing(c *session.Conn, sess *model.Session, body []byte) error {
	return nil
}

// broadcastLeave notifies a vacated lobby's remaining members (§4.3 leave
// steps); LobbyDestroyed lobbies have no members left to notify.
func (r *Reactor) broadcastLeave(l *model.Lobby, result lobby.LeaveResult) {
	if l == nil || result.LobbyDestroyed || result.VacatedSlot < 0 {
		return
	}
	typ, body := serverpackets.LobbyLeave(result.VacatedSlot, result.NewLeaderSlot)
	for _, m := range l.Members() {
		_ = r.sendTo(m.Session, typ, body)
	}
}

// sendTo resolves target's own Conn from the reactor's tracked set and
// enqueues (typ, body) on it. O(n) in live connections; acceptable at the
// broadcast rates this path runs at (§5 concurrency note).
func (r *Reactor) sendTo(target *model.Session, typ uint16, body []byte) error {
	r.connsMu.Lock()
	defer r.connsMu.Unlock()
	for c := range r.conns {
		if c.Session() == target {
			return c.EnqueuePacket(typ, 0, body)
		}
	}
	return nil
}
