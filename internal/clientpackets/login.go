package clientpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/protocol"
)

// Login carries the fields common to every dialect's login/redirect-follow
// packet (§4.2a welcome/login handshake, step "client sends LOGIN").
// Dialect-specific trailing fields (HW info, BB's account/team bytes) are
// not read by ParseLogin and are not surfaced here.
type Login struct {
	Guildcard uint32
	TeamID    uint32
	Username  string
	Password  string
}

// ParseLogin reads the version-appropriate LOGIN body. DCv1/DCv2/PC/GC
// share a common prefix (guildcard, team id, 16-byte username, 16-byte
// password); BB's body additionally carries a security-token blob which
// the caller resolves against its own session store, out of this parser's
// scope (§1 "account/session validation happens upstream").
func ParseLogin(v dialect.Version, body []byte) (*Login, error) {
	r := protocol.NewReader(body)

	gc, err := r.DWord()
	if err != nil {
		return nil, err
	}
	team, err := r.DWord()
	if err != nil {
		return nil, err
	}
	d := dialectFor(v)
	user, err := r.FixedDialectString(16, d)
	if err != nil {
		return nil, err
	}
	pass, err := r.FixedDialectString(16, d)
	if err != nil {
		return nil, err
	}

	return &Login{Guildcard: gc, TeamID: team, Username: user, Password: pass}, nil
}

// Ping is the client's keep-alive echo; it carries no payload (§4.2b).
type Ping struct{}

// ParsePing returns a Ping; the body is not inspected.
func ParsePing(body []byte) (*Ping, error) {
	return &Ping{}, nil
}
