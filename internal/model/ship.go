package model

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/psoserv/blockserver/internal/config"
)

// BanEntry describes an active ban (§7: "boxed multi-line message with ban
// length and reason").
type BanEntry struct {
	Guildcard uint32
	Until     time.Time
	Reason    string
}

// BanStore is the ship's ban list collaborator. Format and storage are out
// of core scope per spec §1 ("assume provided"); the core only consumes
// this interface. internal/store provides a Postgres-backed implementation.
type BanStore interface {
	Check(ctx context.Context, guildcard uint32) (*BanEntry, error)
}

// GMEntry is one roster row: a guildcard and its privilege bitset.
type GMEntry struct {
	Guildcard uint32
	Privilege uint32
}

// GMRoster is the ship's GM/privilege roster collaborator (§1, §4.5 GM menu
// gating).
type GMRoster interface {
	PrivilegeOf(guildcard uint32) (uint32, bool)
}

// LimitsTable is the ship's tunable-limits collaborator (level bands, slot
// counts, etc.) — format is external per §1.
type LimitsTable interface {
	Int(key string, fallback int) int
}

// QuestCatalog is the ship's qid -> per-version-per-language descriptor
// table, refreshed under a write lock held for the whole swap (§4.6).
type QuestCatalog struct {
	mu      sync.RWMutex
	entries map[uint32]*QuestMapEntry
}

// NewQuestCatalog creates an empty catalog.
func NewQuestCatalog() *QuestCatalog {
	return &QuestCatalog{entries: make(map[uint32]*QuestMapEntry)}
}

// Swap atomically replaces the whole catalog (§4.6 "updated under a
// write-lock held for the whole swap").
func (c *QuestCatalog) Swap(entries map[uint32]*QuestMapEntry) {
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
}

// Get returns qid's entry, or nil.
func (c *QuestCatalog) Get(qid uint32) *QuestMapEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[qid]
}

// All returns a snapshot slice of every catalog entry, for listing.
func (c *QuestCatalog) All() []*QuestMapEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*QuestMapEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

// ShipgateLink is the core's outbound surface to the upstream shipgate
// collaborator (§6): forward-search, kick, lobby-change notification,
// character backup, BB options save, block-login notification. It has no
// ban-check call. internal/shipgate provides the concrete client.
type ShipgateLink interface {
	ForwardSearch(ctx context.Context, requester, target uint32) error
	Kick(ctx context.Context, guildcard uint32, reason string) error
	NotifyLobbyChange(ctx context.Context, guildcard uint32, lobbyName string) error
	BackupCharacter(ctx context.Context, guildcard uint32, blob []byte) error
	SaveBBOptions(ctx context.Context, guildcard uint32, blob []byte) error
	NotifyBlockLogin(ctx context.Context, guildcard uint32, blockIndex int) error
}

// PeerShip is one entry in the ship's directory of sibling ships (mini-ship
// list) for cross-ship guild-card search forwarding (§1 item 7, §4.5 guild
// reply).
type PeerShip struct {
	Name string
	Host string
	Port int
}

// Ship is the process-wide singleton aggregating every block plus the
// ship-scoped collaborators in §3.
type Ship struct {
	Config config.ShipConfig

	Blocks []*Block

	Quests   *QuestCatalog
	GMs      GMRoster
	Bans     BanStore
	Limits   LimitsTable
	Shipgate ShipgateLink

	peersMu sync.RWMutex
	Peers   []PeerShip

	MenuCodes []string

	rngMu sync.Mutex
	rng   *rand.Rand

	ShutdownAt time.Time
}

// NewShip constructs a Ship with its own process-wide PRNG seeded
// independently of any block's PRNG (§5).
func NewShip(cfg config.ShipConfig, seed int64) *Ship {
	return &Ship{
		Config: cfg,
		Quests: NewQuestCatalog(),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// PeerShips returns a snapshot of the peer-ship directory.
func (sh *Ship) PeerShips() []PeerShip {
	sh.peersMu.RLock()
	defer sh.peersMu.RUnlock()
	out := make([]PeerShip, len(sh.Peers))
	copy(out, sh.Peers)
	return out
}

// SetPeerShips replaces the peer-ship directory wholesale.
func (sh *Ship) SetPeerShips(peers []PeerShip) {
	sh.peersMu.Lock()
	sh.Peers = peers
	sh.peersMu.Unlock()
}

// Uint32 returns a pseudo-random uint32 from the ship-global PRNG.
func (sh *Ship) Uint32() uint32 {
	sh.rngMu.Lock()
	defer sh.rngMu.Unlock()
	return sh.rng.Uint32()
}

// BlockByIndex returns the block with the given index, or nil.
func (sh *Ship) BlockByIndex(index int) *Block {
	for _, b := range sh.Blocks {
		if b.Index == index {
			return b
		}
	}
	return nil
}
