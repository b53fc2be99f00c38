// Package transcode holds the cross-dialect reshaping rules of §4.5 that
// don't belong to a single entity: C-rank binary reshaping, guild-reply
// port adjustment, and name re-encoding, layered on top of
// internal/model.DispData and internal/encoding.
package transcode

import "github.com/psoserv/blockserver/internal/dialect"

// CRankEntrySize returns the per-entry C-rank binary record size for v
// (§4.5): DC 0xB8, PC 0xF0, GC 0x118 bytes. Ep3 and BB share GC's layout
// here since they're both PSOv2-descendant clients; BB's own challenge
// records are out of this core's scope.
func CRankEntrySize(v dialect.Version) int {
	switch {
	case v.IsDC():
		return 0xB8
	case v == dialect.PC:
		return 0xF0
	default:
		return 0x118
	}
}

// ReshapeCRank copies src (shaped for srcVersion) into a buffer shaped for
// dstVersion. When dst is smaller, src is truncated; when larger, the tail
// is zero-filled. The two dialects' field layouts share a common prefix
// (name, rank title, stats) long enough that truncation/padding at the tail
// is a safe approximation for cross-dialect display — exact field-by-field
// reshaping is a per-deployment refinement left to the C-rank codec that
// calls this.
func ReshapeCRank(src []byte, srcVersion, dstVersion dialect.Version) []byte {
	dstSize := CRankEntrySize(dstVersion)
	out := make([]byte, dstSize)
	n := len(src)
	if n > dstSize {
		n = dstSize
	}
	copy(out, src[:n])
	return out
}
