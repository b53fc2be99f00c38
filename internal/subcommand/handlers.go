package subcommand

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/psoserv/blockserver/internal/model"
)

// Well-known subcommand opcodes referenced by the handlers below. This is
// far from the full ~0x70-entry table; it covers one representative
// opcode per routing Kind in §4.4, registered via RegisterDefaults. A real
// deployment extends the table the same way: Register a new Entry keyed on
// its opcode.
const (
	OpSetArea     Opcode = 0x21
	OpSetPos      Opcode = 0x3F
	OpItemRequest Opcode = 0x3C
	OpWordSelect  Opcode = 0x4D
)

// RegisterDefaults installs the representative opcode set below on r.
func RegisterDefaults(r *Router, roll ItemRoller) {
	r.Register(OpSetArea, Entry{Kind: KindSideEffectBroadcast, SideEffect: handleSetArea})
	r.Register(OpSetPos, Entry{Kind: KindSideEffectBroadcast, SideEffect: handleSetPos})
	r.Register(OpWordSelect, Entry{Kind: KindPureBroadcast})
	r.Register(OpItemRequest, Entry{Kind: KindServerReply, Reply: replyItemRequest(roll)})
}

// handleSetArea updates the sender's cached area before the router
// broadcasts the (unmodified) payload to the rest of the lobby.
func handleSetArea(sender *model.Session, payload []byte) error {
	if len(payload) < 3 {
		return fmt.Errorf("subcommand: SET_AREA payload too short")
	}
	sender.Lock()
	sender.CurrentArea = payload[2]
	sender.Unlock()
	return nil
}

// handleSetPos updates the sender's cached position (three little-endian
// float32s following the 2-byte envelope header).
func handleSetPos(sender *model.Session, payload []byte) error {
	if len(payload) < 14 {
		return fmt.Errorf("subcommand: SET_POS payload too short")
	}
	x := math.Float32frombits(binary.LittleEndian.Uint32(payload[2:6]))
	y := math.Float32frombits(binary.LittleEndian.Uint32(payload[6:10]))
	z := math.Float32frombits(binary.LittleEndian.Uint32(payload[10:14]))
	sender.Lock()
	sender.PositionX, sender.PositionY, sender.PositionZ = x, y, z
	sender.Unlock()
	return nil
}

// ItemRoller computes a dropped item's id and template for a server-reply
// opcode (§4.4b); the drop-table policy itself is out of core scope per §1,
// so this is a small injectable collaborator rather than a concrete table.
type ItemRoller interface {
	RollItem(lobby *model.Lobby, slot int) (itemID uint32, template [12]byte)
}

// replyItemRequest implements the ITEMREQ case of §4.4b and S6: the request
// is never forwarded to other slots; instead the server computes the
// rolled item and targets the reply at the requesting slot only.
func replyItemRequest(roll ItemRoller) ReplyFunc {
	return func(sender *model.Session, lobby *model.Lobby, payload []byte) ([]TargetedReply, error) {
		if roll == nil {
			return nil, nil
		}
		sender.Lock()
		slot := sender.ClientID
		sender.Unlock()
		if slot < 0 {
			return nil, nil
		}
		itemID := lobby.NextItemID(slot)
		_, template := roll.RollItem(lobby, slot)

		// 20-byte envelope: 2-byte header, 2-byte pad, 4-byte item id,
		// 8-byte template, 4-byte pad; 20/4 = 5 matches the word-count field.
		const opItemGen = 0x5D
		env := make([]byte, 20)
		binary.LittleEndian.PutUint32(env[4:8], itemID)
		copy(env[8:16], template[:8])
		env = BuildEnvelope(opItemGen, env)
		return []TargetedReply{{Slot: slot, Op: opItemGen, Payload: env}}, nil
	}
}
