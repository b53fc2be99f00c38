// Package gm implements the declarative GM menu table of §4.5: a static
// list of entries gated by privilege and lobby-type bitmasks, grounded on
// the teacher's access-level-gated admin command table.
package gm

import "github.com/psoserv/blockserver/internal/model"

// Entry is one declarative GM menu row (§4.5).
type Entry struct {
	MenuID            uint32
	ItemID            uint32
	RequiredPrivilege uint32
	RequiredLobbyType model.LobbyType
	AnyLobbyType      bool
	Text              string
}

// Table is the full declarative menu; a deployment appends to DefaultTable
// or builds its own.
type Table []Entry

// DefaultTable is a minimal, representative GM menu: kick, ban, and catalog
// reload. A real deployment extends this the same way any declarative
// table in this codebase is extended — append an Entry.
var DefaultTable = Table{
	{MenuID: 0x01, ItemID: 1, RequiredPrivilege: PrivilegeKick, AnyLobbyType: true, Text: "Kick player"},
	{MenuID: 0x01, ItemID: 2, RequiredPrivilege: PrivilegeBan, AnyLobbyType: true, Text: "Ban player"},
	{MenuID: 0x01, ItemID: 3, RequiredPrivilege: PrivilegeAdmin, AnyLobbyType: true, Text: "Reload quests"},
}

// Privilege bits, lowest-to-highest.
const (
	PrivilegeKick uint32 = 1 << iota
	PrivilegeBan
	PrivilegeSilence
	PrivilegeAdmin
)

// Visible returns the subset of t whose privilege requirement is a subset
// of privileges and whose lobby-type requirement matches lobbyType (§4.5:
// "Entries whose privilege requirement is not a subset of the session's
// privileges are omitted").
func Visible(t Table, privileges uint32, lobbyType model.LobbyType) []Entry {
	out := make([]Entry, 0, len(t))
	for _, e := range t {
		if e.RequiredPrivilege&^privileges != 0 {
			continue
		}
		if !e.AnyLobbyType && e.RequiredLobbyType != lobbyType {
			continue
		}
		out = append(out, e)
	}
	return out
}
