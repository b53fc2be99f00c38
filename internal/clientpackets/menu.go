package clientpackets

import "github.com/psoserv/blockserver/internal/protocol"

// MenuSelect is a client's pick from a server-built menu — the lobby/game
// list, the quest category/list, or the GM menu (§4.5, §4.6). MenuID
// disambiguates which menu the caller is resolving ItemID against.
type MenuSelect struct {
	MenuID uint32
	ItemID uint32
}

// ParseMenuSelect reads a MENU_SELECT body.
func ParseMenuSelect(body []byte) (*MenuSelect, error) {
	r := protocol.NewReader(body)
	menuID, err := r.DWord()
	if err != nil {
		return nil, err
	}
	itemID, err := r.DWord()
	if err != nil {
		return nil, err
	}
	return &MenuSelect{MenuID: menuID, ItemID: itemID}, nil
}

// InfoRequest asks the server to resend the info-board/C-rank text for a
// given slot (§4.5).
type InfoRequest struct {
	Slot int
}

// ParseInfoRequest reads an INFO_REQUEST body.
func ParseInfoRequest(body []byte) (*InfoRequest, error) {
	r := protocol.NewReader(body)
	slot, err := r.Byte()
	if err != nil {
		return nil, err
	}
	return &InfoRequest{Slot: int(slot)}, nil
}
