package serverpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	pencoding "github.com/psoserv/blockserver/internal/encoding"
	"github.com/psoserv/blockserver/internal/model"
	"github.com/psoserv/blockserver/internal/protocol"
	"github.com/psoserv/blockserver/internal/quest"
)

// QuestList builds the category-filtered quest menu (§4.6 listing): one
// (qid, name, short_desc) row per eligible quest, encoded for the
// requester's dialect.
func QuestList(listing map[uint32]*model.QuestDescriptor, requester dialect.Version) (uint16, []byte) {
	d := dialectFor(requester)
	w := protocol.NewWriter(32 * len(listing))
	w.DWord(uint32(len(listing)))
	for qid, desc := range listing {
		w.DWord(qid)
		w.FixedDialectString(desc.Name, 32, d)
		w.FixedDialectString(desc.ShortDesc, 112, d)
	}
	return TypeQuestList, w.Bytes()
}

// QuestInfo builds the detail panel shown before download starts: long
// description text (§4.6).
func QuestInfo(desc *model.QuestDescriptor, requester dialect.Version) (uint16, []byte) {
	w := protocol.NewWriter(len(desc.LongDesc) + 1)
	w.CDialectString(desc.LongDesc, dialectFor(requester))
	return TypeQuestInfo, w.Bytes()
}

// PacketSink adapts a per-session packet emitter to quest.Sink, turning
// each FileInfo/Chunk callback from quest.DeliverBinDat / quest.DeliverQST
// into a QUEST_FILE or QUEST_CHUNK outbound packet (§4.6 steps 2-3).
type PacketSink struct {
	// Emit is called once per outbound packet, in delivery order. Typically
	// this is session.Conn.EnqueuePacket.
	Emit func(pktType uint16, body []byte)
	d    pencoding.Dialect
}

// NewPacketSink builds a PacketSink whose text fields are encoded for the
// requesting client's dialect.
func NewPacketSink(emit func(pktType uint16, body []byte), requester dialect.Version) *PacketSink {
	return &PacketSink{Emit: emit, d: dialectFor(requester)}
}

func (s *PacketSink) FileInfo(fi quest.FileInfo) error {
	w := protocol.NewWriter(64)
	w.FixedDialectString(fi.Filename, 16, s.d)
	w.FixedDialectString(fi.Title, 32, s.d)
	w.DWord(uint32(fi.Length))
	s.Emit(TypeQuestFile, w.Bytes())
	return nil
}

func (s *PacketSink) Chunk(c quest.Chunk) error {
	w := protocol.NewWriter(len(c.Data) + 20)
	w.FixedDialectString(c.Filename, 16, s.d)
	w.DWord(uint32(c.Index))
	w.RawBytes(c.Data)
	s.Emit(TypeQuestChunk, w.Bytes())
	return nil
}
