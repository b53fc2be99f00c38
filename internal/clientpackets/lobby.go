package clientpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/protocol"
)

// LobbyChange is a request to move into a different default lounge (§4.3).
type LobbyChange struct {
	LobbyID int
}

// ParseLobbyChange reads a LOBBY_CHANGE body: the target lobby id.
func ParseLobbyChange(body []byte) (*LobbyChange, error) {
	r := protocol.NewReader(body)
	id, err := r.Byte()
	if err != nil {
		return nil, err
	}
	return &LobbyChange{LobbyID: int(id)}, nil
}

// DoneBursting signals the end of a game-join burst sequence (§4.3 step 6,
// §4.4 burst whitelist); it carries no payload.
type DoneBursting struct{}

// ParseDoneBursting returns a DoneBursting; the body is empty on the wire.
func ParseDoneBursting(body []byte) (*DoneBursting, error) {
	return &DoneBursting{}, nil
}

// GameCreate is a request to create a new game lobby (§3, §4.3 Non-goals
// carve-out: room for per-version field differences the same way
// serverpackets.LobbyJoin's recipient remap differs per dialect).
type GameCreate struct {
	Name       string
	Password   string
	Difficulty byte
	Event      byte
	Battle     bool
	Challenge  bool
	SinglePlayer bool
}

// ParseGameCreate reads a GAME_CREATE body: 16-byte name, 16-byte password,
// difficulty, event, and a flags byte (bit0 battle, bit1 challenge, bit2
// single-player) — the common subset every dialect's room-creation screen
// submits (§3 Lobby.Flags).
func ParseGameCreate(v dialect.Version, body []byte) (*GameCreate, error) {
	r := protocol.NewReader(body)
	d := dialectFor(v)

	name, err := r.FixedDialectString(16, d)
	if err != nil {
		return nil, err
	}
	pass, err := r.FixedDialectString(16, d)
	if err != nil {
		return nil, err
	}
	difficulty, err := r.Byte()
	if err != nil {
		return nil, err
	}
	event, err := r.Byte()
	if err != nil {
		return nil, err
	}
	flags, err := r.Byte()
	if err != nil {
		return nil, err
	}

	return &GameCreate{
		Name:         name,
		Password:     pass,
		Difficulty:   difficulty,
		Event:        event,
		Battle:       flags&0x01 != 0,
		Challenge:    flags&0x02 != 0,
		SinglePlayer: flags&0x04 != 0,
	}, nil
}

// GuildSearch is a guildcard-search request targeting one online player
// (§4.5 guild search).
type GuildSearch struct {
	TargetGuildcard uint32
}

// ParseGuildSearch reads a GUILD_SEARCH body.
func ParseGuildSearch(body []byte) (*GuildSearch, error) {
	r := protocol.NewReader(body)
	gc, err := r.DWord()
	if err != nil {
		return nil, err
	}
	return &GuildSearch{TargetGuildcard: gc}, nil
}

// Blacklist replaces a session's persistent ignore-forever list in one
// shot (§3 Session.Blacklist, MaxBlacklist).
type Blacklist struct {
	Guildcards []uint32
}

// ParseBlacklist reads a BLACKLIST body: a count-prefixed guildcard array,
// capped at model.MaxBlacklist entries by the caller.
func ParseBlacklist(body []byte) (*Blacklist, error) {
	r := protocol.NewReader(body)
	count, err := r.DWord()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		gc, err := r.DWord()
		if err != nil {
			return nil, err
		}
		out = append(out, gc)
	}
	return &Blacklist{Guildcards: out}, nil
}
