// Package model holds the core entities of §3: Session, Lobby, Block, Ship,
// and the quest catalog map, plus their low-level slot/membership mechanics.
// Higher-level orchestration (admission protocol, subcommand routing,
// transcoding) lives in sibling packages and operates on these types.
package model

import (
	"net"
	"sync"
	"time"

	"github.com/psoserv/blockserver/internal/cipher"
	"github.com/psoserv/blockserver/internal/dialect"
)

// Role distinguishes a ship-level (pre-block, listening/redirect only)
// session from a block-level (lobby-joined) session.
type Role int

const (
	RoleShip Role = iota
	RoleBlock
)

const (
	// MaxInventoryItems bounds a session's inventory mirror (§3).
	MaxInventoryItems = 30
	// MaxBlacklist bounds a session's persistent blacklist (§3).
	MaxBlacklist = 30
	// MaxIgnoreList bounds a session's transient ignore list (§3).
	MaxIgnoreList = 10
)

// Flag is a bit in a Session's flags bitset.
type Flag uint32

const (
	FlagProtection Flag = 1 << iota // unauthenticated; subject to the pre-auth timeout
	FlagDisconnected
	FlagLegitChecked
)

// InventoryItem is one slot of a session's inventory mirror, kept by the
// subcommand router in step with DROP/DESTROY/USE/EQUIP side effects (§4.4a).
type InventoryItem struct {
	ItemID uint32
	Data   [12]byte
	Flags  uint32
}

// Session owns one socket, one pair of per-direction stream ciphers, and the
// mutable client-visible state a lobby roster/broadcast needs (§3). All
// mutation happens under mu; Go's garbage collector retires the need for the
// C original's arena+index scheme for session<->lobby<->block back-references
// (§9) — plain pointers guarded by the lock hierarchy in §5 are sufficient
// and significantly more idiomatic here.
type Session struct {
	mu sync.Mutex

	Conn    net.Conn
	Version dialect.Version
	Role    Role
	// IsDCNTE marks the Dreamcast Network Trial Edition sub-client, which
	// uses a distinct subcommand opcode numbering for a handful of
	// messages (§4.4); it shares DCv1's header shape and cipher family.
	IsDCNTE bool

	RecvCipher cipher.StreamCipher
	SendCipher cipher.StreamCipher

	Guildcard    uint32
	Privilege    uint32
	Language     byte
	QuestLang    byte
	Flags        Flag
	ClientID     int

	CurrentLobby *Lobby
	PendingLobby *Lobby
	CurrentBlock *Block

	Character   DispData
	Inventory   []InventoryItem
	Blacklist   []uint32
	IgnoreList  []uint32
	AutoReply   string
	InfoBoard   string
	CRank       []byte
	ArrowColor  uint32

	// CurrentArea, Position and LastHitMonster are cached copies of state
	// the subcommand router updates on SET_AREA/SET_POS/MOVE/HIT_MONSTER
	// before broadcasting (§4.4a).
	CurrentArea    byte
	PositionX      float32
	PositionY      float32
	PositionZ      float32
	LastHitMonster uint16

	LastPacketAt time.Time
	LastSendAt   time.Time
	LoginAt      time.Time
}

// NewSession creates an accepted, not-yet-welcomed session for conn tagged
// with the dialect its listening port implies.
func NewSession(conn net.Conn, v dialect.Version) *Session {
	now := time.Now()
	return &Session{
		Conn:         conn,
		Version:      v,
		Role:         RoleBlock,
		Flags:        FlagProtection,
		ClientID:     -1,
		Inventory:    make([]InventoryItem, 0, MaxInventoryItems),
		Blacklist:    make([]uint32, 0, MaxBlacklist),
		IgnoreList:   make([]uint32, 0, MaxIgnoreList),
		LastPacketAt: now,
		LastSendAt:   now,
		LoginAt:      now,
	}
}

// HeaderSize returns the frame header size for this session's dialect.
func (s *Session) HeaderSize() int { return s.Version.HeaderSize() }

// Lock acquires the session's mutex. Go has no built-in recursive mutex;
// §9 calls out three equivalent designs for the C original's recursive
// session/lobby locks (recursive mutex, async outbox, actor-per-session).
// This server takes option (c): each session runs its own goroutine with a
// buffered send channel (internal/session), so handlers never need to
// re-enter their own session's lock to enqueue an outbound packet — Lock is
// only ever held non-reentrantly to protect the fields above.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// IsIgnoring reports whether s's transient ignore list contains guildcard.
func (s *Session) IsIgnoring(guildcard uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, gc := range s.IgnoreList {
		if gc == guildcard {
			return true
		}
	}
	return false
}

// IsBlocking reports whether s's persistent blacklist contains guildcard.
func (s *Session) IsBlocking(guildcard uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, gc := range s.Blacklist {
		if gc == guildcard {
			return true
		}
	}
	return false
}

// Suppresses reports whether a broadcast from sender should be suppressed
// for recipient s, per P6: sender is on s's ignore list or blacklist.
func (s *Session) Suppresses(senderGuildcard uint32) bool {
	return s.IsIgnoring(senderGuildcard) || s.IsBlocking(senderGuildcard)
}

// TouchRecv records inbound activity for the liveness/keep-alive checks in
// §4.2b by setting LastPacketAt; it does not change Flags.
func (s *Session) TouchRecv(now time.Time) {
	s.mu.Lock()
	s.LastPacketAt = now
	s.mu.Unlock()
}

// TouchSend records outbound activity.
func (s *Session) TouchSend(now time.Time) {
	s.mu.Lock()
	s.LastSendAt = now
	s.mu.Unlock()
}

// Disconnected reports whether the disconnected flag has been raised.
func (s *Session) Disconnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Flags&FlagDisconnected != 0
}

// MarkDisconnected raises the disconnected flag; the reactor reaps the
// session on its next pass (§4.2f).
func (s *Session) MarkDisconnected() {
	s.mu.Lock()
	s.Flags |= FlagDisconnected
	s.mu.Unlock()
}

// LivenessCheck evaluates the three timers in §4.2b/§5 against now, returning
// whether the session should be reaped and whether a keep-alive ping should
// be sent.
func (s *Session) LivenessCheck(now time.Time, livenessTimeout, keepAliveIdle, keepAliveQuiet, preAuthTimeout time.Duration) (reap, ping bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sinceRecv := now.Sub(s.LastPacketAt)
	sinceSend := now.Sub(s.LastSendAt)

	if sinceRecv >= livenessTimeout {
		return true, false
	}
	if s.Flags&FlagProtection != 0 && now.Sub(s.LoginAt) >= preAuthTimeout {
		return true, false
	}
	if sinceRecv >= keepAliveIdle && sinceSend >= keepAliveQuiet {
		return false, true
	}
	return false, false
}
