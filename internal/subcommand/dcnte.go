package subcommand

// dcnteRemap is the bidirectional Dreamcast Network Trial Edition opcode
// table (§4.4), confirmed against the original implementation's
// subcmd-dcnte translation table: DCNTE uses a distinct numbering for a
// subset of messages that the router must translate in both directions
// when the sender and a recipient straddle the DCNTE/standard boundary.
var dcnteRemap = map[Opcode]Opcode{
	0x21: 0x1D, // SET_AREA
	0x1D: 0x21,
	0x23: 0x1F, // FINISH_LOAD
	0x1F: 0x23,
	0x3F: 0x36, // SET_POS
	0x36: 0x3F,
	0x40: 0x37, // MOVE_SLOW
	0x37: 0x40,
	0x42: 0x39, // MOVE_FAST
	0x39: 0x42,
	0x52: 0x46, // TALK_SHOP
	0x46: 0x52,
}

// RemapForDCNTE translates op for a DCNTE recipient (or from one), per the
// table above. ok is false when op has no DCNTE counterpart, meaning the
// router must drop the copy for that recipient rather than deliver a
// meaningless opcode (§4.4 "untranslatable subcommands are dropped").
func RemapForDCNTE(op Opcode) (Opcode, bool) {
	r, ok := dcnteRemap[op]
	return r, ok
}
