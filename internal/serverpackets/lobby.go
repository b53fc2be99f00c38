package serverpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
	"github.com/psoserv/blockserver/internal/protocol"
)

// recipientDispData remaps and re-encodes a member's DispData for the
// recipient's dialect (§4.5): DCNTE/DC/PC get the v2-class remap and the
// costume/hair normalization; all recipients get the member's name
// re-encoded into the recipient's own 8-bit dialect where applicable.
func recipientDispData(w *protocol.Writer, disp model.DispData, recipientVersion dialect.Version, v2Allowed bool) {
	isDCOrPC := recipientVersion.IsDC() || recipientVersion == dialect.PC
	out := disp.ForRecipient(isDCOrPC, v2Allowed)

	w.Byte(out.SectionID)
	w.Byte(byte(out.Class))
	w.Word(out.Costume)
	w.Word(out.Skin)
	w.Word(out.Face)
	w.Word(out.Head)
	w.Word(out.Hair)
	w.Byte(out.HairR)
	w.Byte(out.HairG)
	w.Byte(out.HairB)
	w.DWord(out.Level)
	w.DWord(out.Experience)
	w.DWord(out.Meseta)
	w.Word(out.BaseATP)
	w.Word(out.BaseMST)
	w.Word(out.BaseEVP)
	w.Word(out.BaseHP)
	w.Word(out.BaseDFP)
	w.Word(out.BaseATA)
	w.Word(out.BaseLCK)
	w.FixedDialectString(out.Name, 16, dialectFor(recipientVersion))
}

// LobbyList builds the default-lobby roster the client shows on its lobby
// select screen: lobby count followed by one (index, flags) pair per
// default lounge (§6).
func LobbyList(lobbies []*model.Lobby) (uint16, []byte) {
	w := protocol.NewWriter(4 + 4*len(lobbies))
	w.DWord(uint32(len(lobbies)))
	for _, l := range lobbies {
		w.Byte(byte(l.ID))
		w.Byte(0)
		w.Word(0)
	}
	return TypeLobbyList, w.Bytes()
}

// LobbyJoin builds the roster the client receives on entering a default
// lobby or game: the joiner's own slot/client id, the lobby's leader slot,
// and one recipientDispData-shaped entry per occupied slot (§4.3 step 3).
func LobbyJoin(recipientVersion dialect.Version, v2Allowed bool, clientID, leaderSlot int, members []model.SlotMember) (uint16, []byte) {
	w := protocol.NewWriter(8 + 64*len(members))
	w.Byte(byte(clientID))
	w.Byte(byte(leaderSlot))
	w.Byte(byte(len(members)))
	w.Byte(0)
	for _, m := range members {
		w.Byte(byte(m.Slot))
		w.Byte(0)
		w.Word(0)
		w.DWord(m.Session.Guildcard)
		recipientDispData(w, m.Session.Character, recipientVersion, v2Allowed)
	}
	return TypeLobbyJoin, w.Bytes()
}

// GameJoin is LobbyJoin's game-lobby counterpart: identical member roster
// shape, distinct packet type because the client's game screen parses a
// different header (§6 "GAME_JOIN (per-version)").
func GameJoin(recipientVersion dialect.Version, v2Allowed bool, clientID, leaderSlot int, members []model.SlotMember) (uint16, []byte) {
	_, body := LobbyJoin(recipientVersion, v2Allowed, clientID, leaderSlot, members)
	return TypeGameJoin, body
}

// LobbyAddPlayer builds the incremental roster update sent to existing
// members when one player joins (§4.3 step 4): one recipientDispData entry
// for the new slot.
func LobbyAddPlayer(recipientVersion dialect.Version, v2Allowed bool, slot int, guildcard uint32, disp model.DispData) (uint16, []byte) {
	w := protocol.NewWriter(64)
	w.Byte(byte(slot))
	w.Byte(0)
	w.Word(0)
	w.DWord(guildcard)
	recipientDispData(w, disp, recipientVersion, v2Allowed)
	return TypeLobbyAddPlayer, w.Bytes()
}

// LobbyLeave builds the departure notice sent to remaining members: the
// vacated slot and the newly-elected leader slot, or -1 if the lobby
// emptied and there is none (§4.3 leave steps, I2/P4).
func LobbyLeave(vacatedSlot, newLeaderSlot int) (uint16, []byte) {
	w := protocol.NewWriter(4)
	w.Byte(byte(vacatedSlot))
	w.Byte(byte(newLeaderSlot))
	w.Word(0)
	return TypeLobbyLeave, w.Bytes()
}
