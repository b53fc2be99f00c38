package quest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
)

func TestEligibleRequiresVersionEventAndPopulation(t *testing.T) {
	d := &model.QuestDescriptor{
		VersionMask: model.VersionBit(dialect.PC),
		EventMask:   1 << 2,
		MinPlayers:  1,
		MaxPlayers:  4,
	}
	lctx := LobbyContext{Version: dialect.PC, IsV2: true, Event: 2, Population: 2}
	require.True(t, Eligible(d, lctx))

	lctx.Event = 3
	require.False(t, Eligible(d, lctx), "event mask bit not set")

	lctx.Event = 2
	lctx.Population = 5
	require.False(t, Eligible(d, lctx), "population above max")
}

func TestEligibleGCRequiresEpisodeMatch(t *testing.T) {
	d := &model.QuestDescriptor{
		VersionMask: model.VersionBit(dialect.GC),
		EventMask:   1,
		MinPlayers:  1,
		MaxPlayers:  4,
		Episode:     2,
	}
	lctx := LobbyContext{Version: dialect.GC, Event: 0, Population: 1, Episode: 1}
	require.False(t, Eligible(d, lctx))
	lctx.Episode = 2
	require.True(t, Eligible(d, lctx))
}

// TestListingHonorsFallbackCoverage mirrors P7/S4: a quest is only listed
// when every present member resolves a descriptor via their fallback chain.
func TestListingHonorsFallbackCoverage(t *testing.T) {
	catalog := model.NewQuestCatalog()
	entry := model.NewQuestMapEntry(1)
	d := &model.QuestDescriptor{
		VersionMask: model.VersionBit(dialect.PC),
		EventMask:   1,
		MinPlayers:  1,
		MaxPlayers:  4,
		Category:    model.CategoryNormal,
	}
	entry.Put(dialect.PC, 1, d) // only English (1) rendering exists
	catalog.Swap(map[uint32]*model.QuestMapEntry{1: entry})

	lctx := LobbyContext{
		Version: dialect.PC, IsV2: true, Event: 0, Population: 2,
		Members: []MemberLanguage{
			{QuestLang: 9, CharLang: 9, LeaderLang: 9}, // only resolves via English fallback
		},
	}
	listing := Listing(catalog, model.CategoryNormal, lctx, 1)
	require.Contains(t, listing, uint32(1))

	lctx.Members = append(lctx.Members, MemberLanguage{QuestLang: 9, CharLang: 9, LeaderLang: 9})
	listing = Listing(catalog, model.CategoryNormal, lctx, 1)
	require.Contains(t, listing, uint32(1), "second member also falls back to English")

	// A quest with no descriptor for the requester's version (PC) is not listed.
	entry2 := model.NewQuestMapEntry(2)
	entry2.Put(dialect.GC, 1, d)
	catalog.Swap(map[uint32]*model.QuestMapEntry{1: entry, 2: entry2})
	listing = Listing(catalog, model.CategoryNormal, lctx, 1)
	require.NotContains(t, listing, uint32(2), "no PC descriptor exists for quest 2")
}
