package model

import (
	"sync"

	"github.com/psoserv/blockserver/internal/dialect"
)

// LobbyType distinguishes a persistent default lounge from an on-demand
// game room (§3).
type LobbyType int

const (
	LobbyDefault LobbyType = iota
	LobbyGame
	LobbyEp3Game
)

// LobbyState is one of the four states in §4.3.
type LobbyState int

const (
	StateNormal LobbyState = iota
	StateBursting
	StateQuestSel
	StateQuesting
)

// LobbyFlag is a bit in a Lobby's mode/restriction flags bitset (§3).
type LobbyFlag uint32

const (
	FlagV1Only LobbyFlag = 1 << iota
	FlagPCOnly
	FlagDCOnly
	FlagGCAllowed
	FlagSinglePlayer
	FlagBattle
	FlagChallenge
	FlagV2
)

const (
	// MaxDefaultLobbySlots is N for a default lounge (§3).
	MaxDefaultLobbySlots = 12
	// MaxGameSlots is N for an ordinary game room (§3).
	MaxGameSlots = 4
)

// itemIDSlotShift and itemIDBase implement I4's id formula:
// 0x00010000 | (slot_id << 21) | (highest_item[slot_id] + k).
const (
	itemIDBase      = 0x00010000
	itemIDSlotShift = 21
)

// Lobby is a container of up to MaxClients sessions in one of the four
// states in §4.3 (default lounges always sit in StateNormal). All mutation
// takes mu, a plain non-reentrant sync.Mutex that must not be re-acquired
// by its holder — see the note on Session.Lock about why this server
// resolves the C original's recursive-lobby-mutex need with an
// actor-per-session send path instead of an actual recursive Mutex type.
type Lobby struct {
	mu sync.Mutex

	ID         int
	Type       LobbyType
	MaxClients int
	slots      []*Session
	leaderSlot int // -1 when empty

	Name     string
	Password string
	Event    byte
	Version  dialect.Version
	Episode  byte
	Difficulty byte
	Flags    LobbyFlag
	State    LobbyState

	AreaMap    [0x20]byte
	RandomSeed uint32
	QuestID    uint32
	QuestLang  byte

	itemHighWater []uint32
}

// NewLobby creates an empty lobby of the given type and capacity.
func NewLobby(id int, typ LobbyType, maxClients int) *Lobby {
	return &Lobby{
		ID:            id,
		Type:          typ,
		MaxClients:    maxClients,
		slots:         make([]*Session, maxClients),
		leaderSlot:    -1,
		itemHighWater: make([]uint32, maxClients),
	}
}

// Population returns the number of filled slots (I3).
func (l *Lobby) Population() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.population()
}

func (l *Lobby) population() int {
	n := 0
	for _, s := range l.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// IsFull reports whether every slot is filled.
func (l *Lobby) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.population() >= l.MaxClients
}

// IsEmpty reports whether no slot is filled.
func (l *Lobby) IsEmpty() bool {
	return l.Population() == 0
}

// LowestFreeSlot returns the lowest-numbered empty slot, or -1 if full.
func (l *Lobby) LowestFreeSlot() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lowestFreeSlot()
}

func (l *Lobby) lowestFreeSlot() int {
	for i, s := range l.slots {
		if s == nil {
			return i
		}
	}
	return -1
}

// LeaderSlot returns the current leader's slot id, or -1 if the lobby is
// empty.
func (l *Lobby) LeaderSlot() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.leaderSlot
}

// Leader returns the current leader session, or nil if the lobby is empty.
func (l *Lobby) Leader() *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.leaderSlot < 0 {
		return nil
	}
	return l.slots[l.leaderSlot]
}

// Slot returns the session at slot i, or nil.
func (l *Lobby) Slot(i int) *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.slots) {
		return nil
	}
	return l.slots[i]
}

// Members returns a snapshot of (slot, session) pairs for every filled slot,
// in slot order.
func (l *Lobby) Members() []SlotMember {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SlotMember, 0, l.population())
	for i, s := range l.slots {
		if s != nil {
			out = append(out, SlotMember{Slot: i, Session: s})
		}
	}
	return out
}

// SlotMember pairs a filled slot index with its occupant.
type SlotMember struct {
	Slot    int
	Session *Session
}

// AddMember installs sess into slot, seeds its item-id high-water mark, and
// re-elects the leader (§4.3 join step 2, I2). Returns the slot occupied.
// Callers (internal/lobby) are responsible for running the admission checks
// of §4.3 step 1 before calling this.
func (l *Lobby) AddMember(sess *Session) (slot int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot = l.lowestFreeSlot()
	if slot < 0 {
		return -1, false
	}
	l.slots[slot] = sess
	l.itemHighWater[slot] = 0
	l.electLeader()
	return slot, true
}

// RemoveMember clears occupant's slot, decrements counters, and re-elects
// the leader (§4.3 leave step 1/3, I2, P4). Returns the vacated slot and the
// new leader slot (-1 if the lobby is now empty).
func (l *Lobby) RemoveMember(sess *Session) (vacatedSlot, newLeaderSlot int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	vacatedSlot = -1
	for i, s := range l.slots {
		if s == sess {
			vacatedSlot = i
			break
		}
	}
	if vacatedSlot < 0 {
		return -1, l.leaderSlot
	}
	l.slots[vacatedSlot] = nil
	l.electLeader()
	return vacatedSlot, l.leaderSlot
}

// electLeader sets leaderSlot to the lowest filled slot, or -1 if the lobby
// is empty. Must be called with mu held. (I2, P4)
func (l *Lobby) electLeader() {
	for i, s := range l.slots {
		if s != nil {
			l.leaderSlot = i
			return
		}
	}
	l.leaderSlot = -1
}

// NextItemID issues the next unique item id for slot per I4's formula and
// advances the counter past it.
func (l *Lobby) NextItemID(slot int) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := itemIDBase | (uint32(slot) << itemIDSlotShift) | l.itemHighWater[slot]
	l.itemHighWater[slot]++
	return id
}

// SetState transitions the lobby's state machine (§4.3).
func (l *Lobby) SetState(s LobbyState) {
	l.mu.Lock()
	l.State = s
	l.mu.Unlock()
}

// GetState returns the current state.
func (l *Lobby) GetState() LobbyState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.State
}

// IsBursting reports whether the lobby currently blocks third-party
// admission (I5).
func (l *Lobby) IsBursting() bool {
	return l.GetState() == StateBursting
}
