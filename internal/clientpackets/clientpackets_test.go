package clientpackets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/protocol"
)

func buildLoginBody(guildcard, team uint32, user, pass string) []byte {
	w := protocol.NewWriter(40)
	w.DWord(guildcard)
	w.DWord(team)
	w.FixedDialectString(user, 16, dialectFor(dialect.PC))
	w.FixedDialectString(pass, 16, dialectFor(dialect.PC))
	return w.Bytes()
}

func TestParseLogin(t *testing.T) {
	body := buildLoginBody(42, 1, "alice", "hunter2")
	login, err := ParseLogin(dialect.PC, body)
	require.NoError(t, err)
	require.Equal(t, uint32(42), login.Guildcard)
	require.Equal(t, "alice", login.Username)
	require.Equal(t, "hunter2", login.Password)
}

func TestParseChat(t *testing.T) {
	w := protocol.NewWriter(32)
	w.DWord(0)
	w.CDialectString("hello there", dialectFor(dialect.PC))

	c, err := ParseChat(dialect.PC, w.Bytes())
	require.NoError(t, err)
	require.Equal(t, "hello there", c.Message)
}

func TestParseLobbyChange(t *testing.T) {
	w := protocol.NewWriter(1)
	w.Byte(3)
	lc, err := ParseLobbyChange(w.Bytes())
	require.NoError(t, err)
	require.Equal(t, 3, lc.LobbyID)
}

func TestParseGameCreate(t *testing.T) {
	w := protocol.NewWriter(40)
	w.FixedDialectString("My Room", 16, dialectFor(dialect.PC))
	w.FixedDialectString("secret", 16, dialectFor(dialect.PC))
	w.Byte(2)
	w.Byte(0)
	w.Byte(0x05) // battle + single-player

	gc, err := ParseGameCreate(dialect.PC, w.Bytes())
	require.NoError(t, err)
	require.Equal(t, "My Room", gc.Name)
	require.Equal(t, "secret", gc.Password)
	require.Equal(t, byte(2), gc.Difficulty)
	require.True(t, gc.Battle)
	require.False(t, gc.Challenge)
	require.True(t, gc.SinglePlayer)
}

func TestParseMenuSelect(t *testing.T) {
	w := protocol.NewWriter(8)
	w.DWord(1)
	w.DWord(3)
	ms, err := ParseMenuSelect(w.Bytes())
	require.NoError(t, err)
	require.Equal(t, uint32(1), ms.MenuID)
	require.Equal(t, uint32(3), ms.ItemID)
}

func TestParseBlacklistReadsCountedEntries(t *testing.T) {
	w := protocol.NewWriter(12)
	w.DWord(2)
	w.DWord(100)
	w.DWord(200)
	bl, err := ParseBlacklist(w.Bytes())
	require.NoError(t, err)
	require.Equal(t, []uint32{100, 200}, bl.Guildcards)
}

func TestParseQuestListRequestShortBodyErrors(t *testing.T) {
	_, err := ParseQuestListRequest(nil)
	require.Error(t, err)
}

func TestParseDoneBursting(t *testing.T) {
	db, err := ParseDoneBursting(nil)
	require.NoError(t, err)
	require.NotNil(t, db)
}
