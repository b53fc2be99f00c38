package quest

import (
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
)

// CategoryEntry is one category listing row, already transcoded to the
// recipient's encoding by the caller's packet constructor.
type CategoryEntry struct {
	Category model.QuestCategory
	Name     string
	ShortDesc string
}

// Categories returns the categories present in catalog whose type matches
// lobbyMode (§4.6 category listing).
func Categories(catalog *model.QuestCatalog, lobbyMode model.QuestCategory) []model.QuestCategory {
	seen := make(map[model.QuestCategory]bool)
	for _, entry := range catalog.All() {
		for _, byLang := range entry.Descriptors {
			for _, d := range byLang {
				if d.Category == lobbyMode {
					seen[d.Category] = true
				}
			}
		}
	}
	out := make([]model.QuestCategory, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	return out
}

// LobbyContext carries the fields §4.6 quest listing checks against.
type LobbyContext struct {
	Version    dialect.Version
	IsV2       bool
	Event      uint32
	Population int
	Episode    byte
	Members    []MemberLanguage
}

// MemberLanguage is one present lobby member's language-resolution inputs
// (§4.6 listing rule "every present lobby member can be served...").
type MemberLanguage struct {
	QuestLang  byte
	CharLang   byte
	LeaderLang byte
}

// Eligible reports whether d may be listed for lctx, applying the
// per-descriptor checks of §4.6 quest-listing-within-a-category: version
// mask (with v1-compat fallback), event mask, player-count band, and (for
// GC recipients) episode match. Per-member language coverage is not checked
// here; Listing checks it separately via allMembersCovered.
func Eligible(d *model.QuestDescriptor, lctx LobbyContext) bool {
	if !d.SupportsVersion(lctx.Version, lctx.IsV2) {
		return false
	}
	if d.EventMask&(1<<lctx.Event) == 0 {
		return false
	}
	if lctx.Population < d.MinPlayers || lctx.Population > d.MaxPlayers {
		return false
	}
	if lctx.Version == dialect.GC && d.Episode != lctx.Episode {
		return false
	}
	return true
}

// Listing returns every qid eligible for lctx within category, alongside
// each quest's descriptor resolved for the requesting session's own
// (version, language) — used to label the listing row (§4.6, S4).
func Listing(catalog *model.QuestCatalog, category model.QuestCategory, lctx LobbyContext, requestLang byte) map[uint32]*model.QuestDescriptor {
	out := make(map[uint32]*model.QuestDescriptor)
	for _, entry := range catalog.All() {
		d := entry.Get(lctx.Version, requestLang)
		if d == nil || d.Category != category {
			continue
		}
		if !Eligible(d, lctx) {
			continue
		}
		if !allMembersCovered(entry, lctx) {
			continue
		}
		out[entry.QID] = d
	}
	return out
}

// allMembersCovered implements the per-member fallback-coverage check of
// §4.6 / P7: every present lobby member must resolve a descriptor via
// their own fallback chain.
func allMembersCovered(entry *model.QuestMapEntry, lctx LobbyContext) bool {
	for _, m := range lctx.Members {
		if _, ok := entry.Resolve(lctx.Version, m.QuestLang, m.CharLang, m.LeaderLang); !ok {
			return false
		}
	}
	return true
}
