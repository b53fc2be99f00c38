package gm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/model"
)

func TestVisibleOmitsEntriesAbovePrivilege(t *testing.T) {
	visible := Visible(DefaultTable, PrivilegeKick, model.LobbyDefault)
	require.Len(t, visible, 1)
	require.Equal(t, uint32(1), visible[0].ItemID)
}

func TestVisibleIncludesAllForAdmin(t *testing.T) {
	visible := Visible(DefaultTable, PrivilegeKick|PrivilegeBan|PrivilegeAdmin, model.LobbyDefault)
	require.Len(t, visible, 3)
}

func TestVisibleNoPrivileges(t *testing.T) {
	visible := Visible(DefaultTable, 0, model.LobbyDefault)
	require.Empty(t, visible)
}
