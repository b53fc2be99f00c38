package lobby

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
)

func newGCGame() *model.Lobby {
	l := model.NewLobby(1, model.LobbyGame, model.MaxGameSlots)
	l.Password = "secret"
	l.Difficulty = 0
	return l
}

// TestWrongPasswordRejectsJoin mirrors S2: a level-1 RAcast attempts to join
// with the wrong password and is refused without altering slot state.
func TestWrongPasswordRejectsJoin(t *testing.T) {
	l := newGCGame()
	leader := model.NewSession(nil, dialect.GC)
	l.AddMember(leader)

	joiner := model.NewSession(nil, dialect.GC)
	joiner.Flags &^= model.FlagProtection
	joiner.Character.Class = model.ClassRAcast
	res, code := Join(JoinRequest{
		Session:  joiner,
		Lobby:    l,
		Password: "xyz",
		Level:    1,
		MinLevel: 1,
	})

	require.Equal(t, ErrWrongPassword, code)
	require.Equal(t, JoinResult{}, res)
	require.Equal(t, 1, l.Population(), "slot state unchanged")
}

func TestCorrectPasswordAdmits(t *testing.T) {
	l := newGCGame()
	joiner := model.NewSession(nil, dialect.GC)
	joiner.Flags &^= model.FlagProtection
	res, code := Join(JoinRequest{Session: joiner, Lobby: l, Password: "secret"})
	require.Equal(t, ErrNone, code)
	require.Equal(t, 0, res.Slot)
	require.Equal(t, model.StateBursting, l.GetState())
}

func TestPasswordOverrideSkipsCheck(t *testing.T) {
	l := newGCGame()
	joiner := model.NewSession(nil, dialect.GC)
	joiner.Flags &^= model.FlagProtection
	_, code := Join(JoinRequest{Session: joiner, Lobby: l, Password: "wrong", PasswordOverride: true})
	require.Equal(t, ErrNone, code)
}

func TestBurstingBlocksThirdParty(t *testing.T) {
	l := newGCGame()
	first := model.NewSession(nil, dialect.GC)
	first.Flags &^= model.FlagProtection
	_, code := Join(JoinRequest{Session: first, Lobby: l, Password: "secret"})
	require.Equal(t, ErrNone, code)
	require.True(t, l.IsBursting())

	second := model.NewSession(nil, dialect.GC)
	second.Flags &^= model.FlagProtection
	_, code = Join(JoinRequest{Session: second, Lobby: l, Password: "secret"})
	require.Equal(t, ErrBursting, code)
}

func TestLevelBandRejection(t *testing.T) {
	l := newGCGame()
	joiner := model.NewSession(nil, dialect.GC)
	joiner.Flags &^= model.FlagProtection
	_, code := Join(JoinRequest{Session: joiner, Lobby: l, Password: "secret", Level: 5, MinLevel: 10})
	require.Equal(t, ErrLevelLow, code)

	_, code = Join(JoinRequest{Session: joiner, Lobby: l, Password: "secret", Level: 99, MaxLevel: 50})
	require.Equal(t, ErrLevelHigh, code)
}

// TestLeaveReElectsLeader mirrors S3: leader (slot 0) of a 3-member lobby
// leaves; slot 0 goes nil and slot 1 becomes leader.
func TestLeaveReElectsLeader(t *testing.T) {
	l := model.NewLobby(2, model.LobbyGame, model.MaxGameSlots)
	a := model.NewSession(nil, dialect.GC)
	b := model.NewSession(nil, dialect.GC)
	c := model.NewSession(nil, dialect.GC)
	l.AddMember(a)
	l.AddMember(b)
	l.AddMember(c)
	a.CurrentLobby = l

	res := Leave(a, nil)
	require.Equal(t, 0, res.VacatedSlot)
	require.Equal(t, 1, res.NewLeaderSlot)
	require.False(t, res.LobbyDestroyed)
}

func TestLeaveDestroysEmptiedGame(t *testing.T) {
	l := model.NewLobby(3, model.LobbyGame, model.MaxGameSlots)
	a := model.NewSession(nil, dialect.GC)
	l.AddMember(a)
	a.CurrentLobby = l

	var removed *model.Lobby
	res := Leave(a, func(lb *model.Lobby) { removed = lb })
	require.True(t, res.LobbyDestroyed)
	require.Equal(t, l, removed)
}

func TestLeaveNeverDestroysDefaultLobby(t *testing.T) {
	l := model.NewLobby(0, model.LobbyDefault, model.MaxDefaultLobbySlots)
	a := model.NewSession(nil, dialect.GC)
	l.AddMember(a)
	a.CurrentLobby = l

	called := false
	res := Leave(a, func(*model.Lobby) { called = true })
	require.False(t, called)
	require.False(t, res.LobbyDestroyed)
}
