package subcommand

import (
	"log/slog"

	"github.com/psoserv/blockserver/internal/model"
)

// Kind classifies how the router handles one opcode (§4.4).
type Kind int

const (
	// KindSideEffectBroadcast updates sender-held state, then broadcasts
	// transcoded copies to the rest of the lobby.
	KindSideEffectBroadcast Kind = iota
	// KindServerReply computes an answer and emits targeted replies
	// instead of broadcasting the request.
	KindServerReply
	// KindPureBroadcast relays the payload with no side effect.
	KindPureBroadcast
)

// SideEffectFunc mutates sender-held state for a SideEffectBroadcast entry.
type SideEffectFunc func(sender *model.Session, payload []byte) error

// TargetedReply is one server-synthesized reply for a ServerReply entry.
type TargetedReply struct {
	Slot    int
	Op      Opcode
	Payload []byte
}

// ReplyFunc computes the targeted replies for a ServerReply entry.
type ReplyFunc func(sender *model.Session, lobby *model.Lobby, payload []byte) ([]TargetedReply, error)

// Entry is one opcode's routing rule.
type Entry struct {
	Kind       Kind
	SideEffect SideEffectFunc
	Reply      ReplyFunc
}

// Deliverer sends a routed or replied packet to one recipient session. The
// concrete implementation (internal/session.Conn.EnqueuePacket, wrapped to
// also run the outbound per-version packet transcoder) lives above this
// package so subcommand stays ignorant of the wire format.
type Deliverer interface {
	Send(sess *model.Session, op Opcode, payload []byte) error
}

// burstWhitelist is the set of opcodes admitted while a lobby is BURSTING
// (§4.3 step 6, §4.4): the burst sequence itself, opcodes 0x6B-0x71.
var burstWhitelist = map[Opcode]bool{
	0x6B: true, 0x6C: true, 0x6D: true, 0x6E: true, 0x6F: true, 0x70: true, 0x71: true,
}

// Router demultiplexes subcommand opcodes per §4.4.
type Router struct {
	entries map[Opcode]Entry
}

// NewRouter creates an empty router; register opcodes with Register.
func NewRouter() *Router {
	return &Router{entries: make(map[Opcode]Entry)}
}

// Register installs e as op's routing rule.
func (r *Router) Register(op Opcode, e Entry) {
	r.entries[op] = e
}

// Route parses raw as a subcommand envelope and dispatches it per §4.4,
// delivering any broadcast or reply through deliver.
func (r *Router) Route(sender *model.Session, lobby *model.Lobby, raw []byte, deliver Deliverer) error {
	op, payload, err := ParseEnvelope(raw)
	if err != nil {
		return err
	}

	if lobby.IsBursting() && !burstWhitelist[op] {
		return nil // dropped to the floor, not reflected (§4.4 admission during bursting)
	}

	entry, ok := r.entries[op]
	if !ok {
		slog.Debug("subcommand: unknown opcode, ignoring", "op", op, "guildcard", sender.Guildcard)
		return nil // session-recoverable per §7
	}

	switch entry.Kind {
	case KindServerReply:
		if entry.Reply == nil {
			return nil
		}
		replies, err := entry.Reply(sender, lobby, payload)
		if err != nil {
			return err
		}
		for _, tr := range replies {
			target := lobby.Slot(tr.Slot)
			if target == nil {
				continue
			}
			if err := deliver.Send(target, tr.Op, tr.Payload); err != nil {
				slog.Warn("subcommand: reply delivery failed", "slot", tr.Slot, "error", err)
			}
		}
	default:
		if entry.Kind == KindSideEffectBroadcast && entry.SideEffect != nil {
			if err := entry.SideEffect(sender, payload); err != nil {
				return err
			}
		}
		r.broadcast(sender, lobby, op, payload, deliver)
	}
	return nil
}

// broadcast delivers (op, payload) to every other lobby member, applying
// ignore/blacklist suppression (P6) and the DCNTE opcode remap (§4.4
// "target remapping"), dropping the copy for a recipient the opcode can't
// be translated for.
func (r *Router) broadcast(sender *model.Session, lobby *model.Lobby, op Opcode, payload []byte, deliver Deliverer) {
	for _, m := range lobby.Members() {
		if m.Session == sender {
			continue
		}
		if m.Session.Suppresses(sender.Guildcard) {
			continue
		}
		outOp := op
		if sender.IsDCNTE != m.Session.IsDCNTE {
			remapped, ok := RemapForDCNTE(op)
			if !ok {
				continue // untranslatable for this recipient's dialect boundary
			}
			outOp = remapped
		}
		if err := deliver.Send(m.Session, outOp, payload); err != nil {
			slog.Warn("subcommand: broadcast delivery failed", "to", m.Session.Guildcard, "error", err)
		}
	}
}
