package serverpackets

import (
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/protocol"
	"github.com/psoserv/blockserver/internal/transcode"
)

// CRank builds the challenge-mode C-rank board: one reshaped entry per
// source record, each resized to the requester's dialect layout via
// transcode.ReshapeCRank (§4.5).
func CRank(entries [][]byte, srcVersion, requester dialect.Version) (uint16, []byte) {
	entrySize := transcode.CRankEntrySize(requester)
	w := protocol.NewWriter(4 + entrySize*len(entries))
	w.DWord(uint32(len(entries)))
	for _, e := range entries {
		w.RawBytes(transcode.ReshapeCRank(e, srcVersion, requester))
	}
	return TypeCRank, w.Bytes()
}
