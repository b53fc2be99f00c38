package model

import (
	"math/rand"
	"net"
	"sync"

	"github.com/psoserv/blockserver/internal/dialect"
)

// portOffsets maps each of the five dialects to its offset from a block's
// base port, in listen order (§6): DCv1/DCv2 share base, PC is base+1,
// GC is base+2, Ep3 is base+3, BB is base+4.
var portOffsets = map[dialect.Version]int{
	dialect.DCv1: 0,
	dialect.DCv2: 0,
	dialect.PC:   1,
	dialect.GC:   2,
	dialect.Ep3:  3,
	dialect.BB:   4,
}

// PortOffset returns v's offset from a block's base port.
func PortOffset(v dialect.Version) int { return portOffsets[v] }

// Listener pairs a listening socket with the dialect tagged to its port.
type Listener struct {
	Version  dialect.Version
	TCP      net.Listener
	TCP6     net.Listener // IPv6 listener slot; the reactor never opens one, so it stays nil
}

// Block is a reactor owning one set of listening sockets and its member
// sessions (§3). One block per logical block number; the ship holds an
// array of blocks.
type Block struct {
	Index int
	Ship  *Ship

	Listeners []Listener

	clientsMu sync.RWMutex
	clients   map[*Session]struct{}

	DefaultLobbies []*Lobby

	gamesMu sync.RWMutex
	games   []*Lobby

	rngMu sync.Mutex
	rng   *rand.Rand

	Run bool
}

// NewBlock creates a block with MaxDefaultLobbySlots-sized default lounges
// pre-created per §3 ("Default lobbies are pre-created at block startup").
// seed should differ between sibling blocks (§5: wall time XOR listen port).
func NewBlock(index int, ship *Ship, numDefaultLobbies int, seed int64) *Block {
	b := &Block{
		Index:   index,
		Ship:    ship,
		clients: make(map[*Session]struct{}),
		rng:     rand.New(rand.NewSource(seed)),
		Run:     true,
	}
	b.DefaultLobbies = make([]*Lobby, numDefaultLobbies)
	for i := range b.DefaultLobbies {
		b.DefaultLobbies[i] = NewLobby(i, LobbyDefault, MaxDefaultLobbySlots)
	}
	return b
}

// AddClient registers sess as belonging to this block's memory-lifetime
// (ownership note in §3: the block owns sessions for memory-lifetime
// purposes, lobbies only borrow them).
func (b *Block) AddClient(sess *Session) {
	b.clientsMu.Lock()
	b.clients[sess] = struct{}{}
	b.clientsMu.Unlock()
}

// RemoveClient drops sess from the block's client table. Callers must have
// already removed sess from any lobby (§3 ownership note, §4.2f).
func (b *Block) RemoveClient(sess *Session) {
	b.clientsMu.Lock()
	delete(b.clients, sess)
	b.clientsMu.Unlock()
}

// ClientCount returns the number of sessions reachable via the client table
// (I3).
func (b *Block) ClientCount() int {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()
	return len(b.clients)
}

// Clients returns a snapshot of every session owned by this block.
func (b *Block) Clients() []*Session {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()
	out := make([]*Session, 0, len(b.clients))
	for s := range b.clients {
		out = append(out, s)
	}
	return out
}

// AddGame registers a newly-created game lobby in the block's game list.
func (b *Block) AddGame(l *Lobby) {
	b.gamesMu.Lock()
	b.games = append(b.games, l)
	b.gamesMu.Unlock()
}

// RemoveGame removes an emptied game lobby (§4.3 leave step 2: "destroy it
// ... and only then").
func (b *Block) RemoveGame(l *Lobby) {
	b.gamesMu.Lock()
	defer b.gamesMu.Unlock()
	for i, g := range b.games {
		if g == l {
			b.games = append(b.games[:i], b.games[i+1:]...)
			return
		}
	}
}

// Games returns a snapshot of the block's current game lobbies.
func (b *Block) Games() []*Lobby {
	b.gamesMu.RLock()
	defer b.gamesMu.RUnlock()
	out := make([]*Lobby, len(b.games))
	copy(out, b.games)
	return out
}

// GameCount returns the number of live game lobbies (I3).
func (b *Block) GameCount() int {
	b.gamesMu.RLock()
	defer b.gamesMu.RUnlock()
	return len(b.games)
}

// Intn returns a pseudo-random, non-negative int < n from the block's own
// PRNG (§5: "The PRNG is per-block ... Neither is shared without its
// mutex").
func (b *Block) Intn(n int) int {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return b.rng.Intn(n)
}

// Uint32 returns a pseudo-random uint32 from the block's own PRNG, used to
// seed new game lobbies' RandomSeed.
func (b *Block) Uint32() uint32 {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return b.rng.Uint32()
}
