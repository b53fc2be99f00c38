package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeaderElectionLowestSlot(t *testing.T) {
	l := NewLobby(0, LobbyGame, MaxGameSlots)
	a, b, c := &Session{}, &Session{}, &Session{}

	slotA, ok := l.AddMember(a)
	require.True(t, ok)
	require.Equal(t, 0, slotA)
	require.Equal(t, 0, l.LeaderSlot())

	slotB, ok := l.AddMember(b)
	require.True(t, ok)
	require.Equal(t, 1, slotB)
	require.Equal(t, 0, l.LeaderSlot(), "leader stays the lowest filled slot")

	slotC, ok := l.AddMember(c)
	require.True(t, ok)
	require.Equal(t, 2, slotC)

	vacated, newLeader := l.RemoveMember(a)
	require.Equal(t, 0, vacated)
	require.Equal(t, 1, newLeader, "leader re-elected to lowest remaining filled slot")
}

func TestLobbyFullRejectsJoin(t *testing.T) {
	l := NewLobby(0, LobbyGame, MaxGameSlots)
	for i := 0; i < MaxGameSlots; i++ {
		_, ok := l.AddMember(&Session{})
		require.True(t, ok)
	}
	_, ok := l.AddMember(&Session{})
	require.False(t, ok)
}

func TestItemIDUniquenessAcrossSlots(t *testing.T) {
	l := NewLobby(0, LobbyGame, MaxGameSlots)
	seen := make(map[uint32]bool)
	for slot := 0; slot < MaxGameSlots; slot++ {
		for k := 0; k < 5; k++ {
			id := l.NextItemID(slot)
			require.False(t, seen[id], "item id %#x reused", id)
			seen[id] = true
		}
	}
}

func TestEmptyLobbyHasNoLeader(t *testing.T) {
	l := NewLobby(0, LobbyGame, MaxGameSlots)
	require.Equal(t, -1, l.LeaderSlot())
	require.Nil(t, l.Leader())
}

func TestRemoveLastMemberClearsLeader(t *testing.T) {
	l := NewLobby(0, LobbyGame, MaxGameSlots)
	a := &Session{}
	l.AddMember(a)
	_, newLeader := l.RemoveMember(a)
	require.Equal(t, -1, newLeader)
	require.True(t, l.IsEmpty())
}
