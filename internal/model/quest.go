package model

import "github.com/psoserv/blockserver/internal/dialect"

// QuestFormat is the on-disk shape of a quest's asset pair (§4.6).
type QuestFormat int

const (
	FormatBinDat QuestFormat = iota
	FormatQST
)

// QuestCategory groups quests by gameplay mode; category listing only
// emits categories matching the lobby's current mode (§4.6).
type QuestCategory int

const (
	CategoryNormal QuestCategory = iota
	CategoryBattle
	CategoryChallenge
)

// QuestDescriptor is one (version, language) rendering of a quest (§3).
type QuestDescriptor struct {
	Prefix      string // file stem: <prefix>.bin / <prefix>.dat, or <prefix>.qst
	Name        string
	ShortDesc   string
	LongDesc    string
	Format      QuestFormat
	VersionMask uint32
	LanguageMask uint32
	EventMask   uint32
	MinPlayers  int
	MaxPlayers  int
	Episode     byte
	Category    QuestCategory
}

// VersionBit returns the bit QuestDescriptor.VersionMask uses for v.
func VersionBit(v dialect.Version) uint32 {
	return 1 << uint32(v)
}

// LanguageBit returns the bit a language code contributes to a LanguageMask.
func LanguageBit(lang byte) uint32 {
	return 1 << uint32(lang)
}

// SupportsVersion reports whether d's version mask admits v, applying the
// v1-compat fallback: a v1-only lobby (not FlagV2) also accepts a descriptor
// whose mask only contains DCv1 when the joining version shares the DC
// family (§4.6 listing rule 1).
func (d QuestDescriptor) SupportsVersion(v dialect.Version, lobbyIsV2 bool) bool {
	if d.VersionMask&VersionBit(v) != 0 {
		return true
	}
	if !lobbyIsV2 && v.IsDC() && d.VersionMask&VersionBit(dialect.DCv1) != 0 {
		return true
	}
	return false
}

// QuestMapEntry is qid's per-(version, language) descriptor table (§3). A
// nil entry at [v][lang] means that rendering doesn't exist for this quest.
type QuestMapEntry struct {
	QID         uint32
	Descriptors map[dialect.Version]map[byte]*QuestDescriptor
}

// NewQuestMapEntry creates an empty entry for qid.
func NewQuestMapEntry(qid uint32) *QuestMapEntry {
	return &QuestMapEntry{QID: qid, Descriptors: make(map[dialect.Version]map[byte]*QuestDescriptor)}
}

// Put installs d as qid's descriptor for (v, lang).
func (q *QuestMapEntry) Put(v dialect.Version, lang byte, d *QuestDescriptor) {
	m, ok := q.Descriptors[v]
	if !ok {
		m = make(map[byte]*QuestDescriptor)
		q.Descriptors[v] = m
	}
	m[lang] = d
}

// Get returns qid's descriptor for (v, lang), or nil.
func (q *QuestMapEntry) Get(v dialect.Version, lang byte) *QuestDescriptor {
	m, ok := q.Descriptors[v]
	if !ok {
		return nil
	}
	return m[lang]
}

// Resolve implements the language fallback chain of §4.6 quest delivery
// step 1: questLang, then charLang, then English (1), then leaderLang.
func (q *QuestMapEntry) Resolve(v dialect.Version, questLang, charLang, leaderLang byte) (*QuestDescriptor, bool) {
	const english = 1
	for _, lang := range []byte{questLang, charLang, english, leaderLang} {
		if d := q.Get(v, lang); d != nil {
			return d, true
		}
	}
	return nil, false
}
