package model

// Class is a PSO character class. Values follow the DC/PC/GC ordering; BB
// adds none new. HUcaseal, FOmar, RAmarl exist only from PSOv2 onward and
// must be remapped for DC/PC recipients (§4.5, P8).
type Class byte

const (
	ClassHUmar Class = iota
	ClassHUnewearl
	ClassHUcast
	ClassRAmar
	ClassRAcast
	ClassRAcaseal
	ClassFOmarl
	ClassFOnewm
	ClassFOnewearl
	ClassHUcaseal
	ClassFOmar
	ClassRAmarl
)

// v2OnlyRemap maps a v2-only class to its nearest v1-compatible equivalent,
// used when the recipient session is DC/PC and the lobby is not a v2 game
// (§4.5): HUcaseal -> HUcast, FOmar -> FOmarl, RAmarl -> RAmar.
var v2OnlyRemap = map[Class]Class{
	ClassHUcaseal: ClassHUcast,
	ClassFOmar:    ClassFOmarl,
	ClassRAmarl:   ClassRAmar,
}

// RemapForV1 returns the class a DC/PC recipient should see for c, per the
// v2-only remap table, and whether a remap applied.
func RemapForV1(c Class) (Class, bool) {
	r, ok := v2OnlyRemap[c]
	if !ok {
		return c, false
	}
	return r, true
}

// IsV2Only reports whether c only exists from PSOv2 onward.
func (c Class) IsV2Only() bool {
	_, ok := v2OnlyRemap[c]
	return ok
}

// hairClampClasses clamp their hair index above 6 to 0 for DC/PC recipients
// (§4.5): HUmar, RAmar, FOnewm.
var hairClampClasses = map[Class]bool{
	ClassHUmar:  true,
	ClassRAmar:  true,
	ClassFOnewm: true,
}

// DispData is the dialect-shaped character summary record carried in roster
// packets: join/add-player/leave payloads and C-rank/info-board rosters
// embed one of these per member (§3, §4.5).
type DispData struct {
	Name         string
	SectionID    byte
	Class        Class
	Costume      uint16
	Skin         uint16
	Face         uint16
	Head         uint16
	Hair         uint16
	HairR        byte
	HairG        byte
	HairB        byte
	Level        uint32
	Experience   uint32
	Meseta       uint32
	BaseATP      uint16
	BaseMST      uint16
	BaseEVP      uint16
	BaseHP       uint16
	BaseDFP      uint16
	BaseATA      uint16
	BaseLCK      uint16
}

// ForRecipient returns a copy of d rewritten for a recipient of class
// remapping and costume/hair normalization rules, per §4.5. Only DC/PC
// recipients (recipientIsDCOrPC) are affected; for them:
//   - when v2Allowed is false (default lobby or v1 game), a v2-only class
//     is remapped to its v1-compatible equivalent;
//   - costume/skin/hair are taken modulo 9, and HUmar/RAmar/FOnewm hair
//     indices above 6 are clamped to 0.
func (d DispData) ForRecipient(recipientIsDCOrPC bool, v2Allowed bool) DispData {
	out := d
	if recipientIsDCOrPC {
		if !v2Allowed {
			if r, ok := RemapForV1(out.Class); ok {
				out.Class = r
			}
		}
		out.Costume %= 9
		out.Skin %= 9
		out.Hair %= 9
		if hairClampClasses[out.Class] && out.Hair > 6 {
			out.Hair = 0
		}
	}
	return out
}
