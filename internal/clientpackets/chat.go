package clientpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	pencoding "github.com/psoserv/blockserver/internal/encoding"
	"github.com/psoserv/blockserver/internal/protocol"
)

// Chat is a lobby chat send, decoded from the sender's dialect into UTF-8
// with the dialect it arrived in recorded for EnsureLangTag's idempotency
// check downstream (§4.5).
type Chat struct {
	Message    string
	SenderDial pencoding.Dialect
}

// ParseChat reads a CHAT body: 4 reserved bytes, then a NUL-terminated
// dialect-encoded message (§6).
func ParseChat(v dialect.Version, body []byte) (*Chat, error) {
	r := protocol.NewReader(body)
	if _, err := r.DWord(); err != nil {
		return nil, err
	}
	d := dialectFor(v)
	msg, err := r.CDialectString(d)
	if err != nil {
		return nil, err
	}
	return &Chat{Message: msg, SenderDial: d}, nil
}

// SimpleMail is a guildcard-addressed mail send (§6).
type SimpleMail struct {
	ToGuildcard uint32
	Message     string
}

// ParseSimpleMail reads a SIMPLE_MAIL body: target guildcard, 16-byte
// display name (ignored, the block resolves the live name), then message.
func ParseSimpleMail(v dialect.Version, body []byte) (*SimpleMail, error) {
	r := protocol.NewReader(body)
	to, err := r.DWord()
	if err != nil {
		return nil, err
	}
	d := dialectFor(v)
	if _, err := r.FixedDialectString(16, d); err != nil {
		return nil, err
	}
	msg, err := r.CDialectString(d)
	if err != nil {
		return nil, err
	}
	return &SimpleMail{ToGuildcard: to, Message: msg}, nil
}

// AutoReplySet/AutoReplyClear carry the away-message text a session sets
// for itself (§3 Session.AutoReply).
type AutoReplySet struct {
	Message string
}

// ParseAutoReplySet reads an AUTOREPLY_SET body: a dialect-encoded,
// NUL-terminated message.
func ParseAutoReplySet(v dialect.Version, body []byte) (*AutoReplySet, error) {
	r := protocol.NewReader(body)
	msg, err := r.CDialectString(dialectFor(v))
	if err != nil {
		return nil, err
	}
	return &AutoReplySet{Message: msg}, nil
}

// InfoboardWrite carries a new info-board text body (§3 Session.InfoBoard).
type InfoboardWrite struct {
	Message string
}

// ParseInfoboardWrite reads an INFOBOARD_WRITE body.
func ParseInfoboardWrite(v dialect.Version, body []byte) (*InfoboardWrite, error) {
	r := protocol.NewReader(body)
	msg, err := r.CDialectString(dialectFor(v))
	if err != nil {
		return nil, err
	}
	return &InfoboardWrite{Message: msg}, nil
}
