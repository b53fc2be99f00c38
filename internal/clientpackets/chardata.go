package clientpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
	"github.com/psoserv/blockserver/internal/protocol"
)

// CharData is the character summary the client uploads right after
// logging in, mirroring internal/model.DispData's field layout (§3, §4.2a
// "client uploads its character sheet").
type CharData struct {
	Disp      model.DispData
	Inventory []model.InventoryItem
}

// ParseCharData reads a CHAR_DATA body: the DispData fields in the same
// order internal/serverpackets.recipientDispData writes them, followed by
// an inventory-count-prefixed item array.
func ParseCharData(v dialect.Version, body []byte) (*CharData, error) {
	r := protocol.NewReader(body)
	d := dialectFor(v)

	var disp model.DispData
	var err error
	if disp.SectionID, err = r.Byte(); err != nil {
		return nil, err
	}
	class, err := r.Byte()
	if err != nil {
		return nil, err
	}
	disp.Class = model.Class(class)
	if disp.Costume, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.Skin, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.Face, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.Head, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.Hair, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.HairR, err = r.Byte(); err != nil {
		return nil, err
	}
	if disp.HairG, err = r.Byte(); err != nil {
		return nil, err
	}
	if disp.HairB, err = r.Byte(); err != nil {
		return nil, err
	}
	if disp.Level, err = r.DWord(); err != nil {
		return nil, err
	}
	if disp.Experience, err = r.DWord(); err != nil {
		return nil, err
	}
	if disp.Meseta, err = r.DWord(); err != nil {
		return nil, err
	}
	if disp.BaseATP, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.BaseMST, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.BaseEVP, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.BaseHP, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.BaseDFP, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.BaseATA, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.BaseLCK, err = r.Word(); err != nil {
		return nil, err
	}
	if disp.Name, err = r.FixedDialectString(16, d); err != nil {
		return nil, err
	}

	count, err := r.DWord()
	if err != nil {
		return nil, err
	}
	if int(count) > model.MaxInventoryItems {
		count = model.MaxInventoryItems
	}
	items := make([]model.InventoryItem, 0, count)
	for i := uint32(0); i < count; i++ {
		itemID, err := r.DWord()
		if err != nil {
			return nil, err
		}
		data, err := r.Bytes(12)
		if err != nil {
			return nil, err
		}
		flags, err := r.DWord()
		if err != nil {
			return nil, err
		}
		var it model.InventoryItem
		it.ItemID = itemID
		copy(it.Data[:], data)
		it.Flags = flags
		items = append(items, it)
	}

	return &CharData{Disp: disp, Inventory: items}, nil
}
