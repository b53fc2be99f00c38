package serverpackets

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
	"github.com/psoserv/blockserver/internal/protocol"
	"github.com/psoserv/blockserver/internal/quest"
)

func TestSecurity(t *testing.T) {
	typ, body := Security(12345, 7, SecurityBadPassword)
	require.Equal(t, TypeSecurity, typ)

	r := protocol.NewReader(body)
	gc, err := r.DWord()
	require.NoError(t, err)
	require.Equal(t, uint32(12345), gc)
	team, err := r.DWord()
	require.NoError(t, err)
	require.Equal(t, uint32(7), team)
	code, err := r.Byte()
	require.NoError(t, err)
	require.Equal(t, byte(SecurityBadPassword), code)
}

func TestRedirectV4AndV6(t *testing.T) {
	typ, body := Redirect(net.IPv4(127, 0, 0, 1), 5100)
	require.Equal(t, TypeRedirect, typ)
	require.Len(t, body, 8)

	typ6, body6 := RedirectV6(net.ParseIP("::1"), 5100)
	require.Equal(t, TypeRedirectV6, typ6)
	require.Len(t, body6, 20)
}

func TestLobbyList(t *testing.T) {
	lobbies := []*model.Lobby{
		{ID: 0, Type: model.LobbyDefault},
		{ID: 1, Type: model.LobbyDefault},
		{ID: 2, Type: model.LobbyDefault},
	}
	typ, body := LobbyList(lobbies)
	require.Equal(t, TypeLobbyList, typ)

	r := protocol.NewReader(body)
	count, err := r.DWord()
	require.NoError(t, err)
	require.Equal(t, uint32(3), count)
}

func TestLobbyAddPlayerRoundTrip(t *testing.T) {
	disp := model.DispData{Name: "Alice", Class: model.ClassHUmar, Level: 10}
	typ, body := LobbyAddPlayer(dialect.PC, false, 2, 999, disp)
	require.Equal(t, TypeLobbyAddPlayer, typ)

	r := protocol.NewReader(body)
	slot, err := r.Byte()
	require.NoError(t, err)
	require.Equal(t, byte(2), slot)
	_, err = r.Byte()
	require.NoError(t, err)
	_, err = r.Word()
	require.NoError(t, err)
	gc, err := r.DWord()
	require.NoError(t, err)
	require.Equal(t, uint32(999), gc)
}

func TestQuestList(t *testing.T) {
	listing := map[uint32]*model.QuestDescriptor{
		1: {Name: "Forest Quest", ShortDesc: "go fight"},
	}
	typ, body := QuestList(listing, dialect.PC)
	require.Equal(t, TypeQuestList, typ)
	require.NotEmpty(t, body)
}

func TestPacketSinkEmitsFileInfoThenChunks(t *testing.T) {
	var got []uint16
	sink := NewPacketSink(func(pktType uint16, body []byte) {
		got = append(got, pktType)
	}, dialect.GC)

	require.NoError(t, sink.FileInfo(quest.FileInfo{Filename: "q001.bin", Length: 100, Title: "PSO/Quest"}))
	require.NoError(t, sink.Chunk(quest.Chunk{Filename: "q001.bin", Index: 0, Data: []byte{1, 2, 3}}))

	require.Equal(t, []uint16{TypeQuestFile, TypeQuestChunk}, got)
}

func TestChatEncodesForRecipientDialect(t *testing.T) {
	typ, body := Chat(555, "Bob", "hello", '$', nil, dialect.PC)
	require.Equal(t, TypeChat, typ)

	r := protocol.NewReader(body)
	gc, err := r.DWord()
	require.NoError(t, err)
	require.Equal(t, uint32(555), gc)
}
