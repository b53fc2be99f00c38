package subcommand

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
)

type recordingDeliverer struct {
	sent []sentPacket
}

type sentPacket struct {
	to *model.Session
	op Opcode
}

func (d *recordingDeliverer) Send(sess *model.Session, op Opcode, payload []byte) error {
	d.sent = append(d.sent, sentPacket{to: sess, op: op})
	return nil
}

func newLobbyWithMembers(n int) (*model.Lobby, []*model.Session) {
	l := model.NewLobby(0, model.LobbyGame, model.MaxGameSlots)
	sessions := make([]*model.Session, n)
	for i := 0; i < n; i++ {
		sessions[i] = model.NewSession(nil, dialect.GC)
		l.AddMember(sessions[i])
		sessions[i].ClientID = i
	}
	return l, sessions
}

func TestPureBroadcastReachesOthersNotSender(t *testing.T) {
	r := NewRouter()
	r.Register(OpWordSelect, Entry{Kind: KindPureBroadcast})
	l, sessions := newLobbyWithMembers(3)
	d := &recordingDeliverer{}

	env := BuildEnvelope(OpWordSelect, make([]byte, 8))
	require.NoError(t, r.Route(sessions[0], l, env, d))

	require.Len(t, d.sent, 2)
	for _, p := range d.sent {
		require.NotEqual(t, sessions[0], p.to)
	}
}

// TestIgnoreSuppressesBroadcast mirrors P6.
func TestIgnoreSuppressesBroadcast(t *testing.T) {
	r := NewRouter()
	r.Register(OpWordSelect, Entry{Kind: KindPureBroadcast})
	l, sessions := newLobbyWithMembers(2)
	sessions[0].Guildcard = 100
	sessions[1].IgnoreList = append(sessions[1].IgnoreList, 100)
	d := &recordingDeliverer{}

	env := BuildEnvelope(OpWordSelect, make([]byte, 8))
	require.NoError(t, r.Route(sessions[0], l, env, d))

	require.Empty(t, d.sent)
}

// TestBurstWhitelistDropsOtherOpcodes mirrors P5.
func TestBurstWhitelistDropsOtherOpcodes(t *testing.T) {
	r := NewRouter()
	r.Register(OpWordSelect, Entry{Kind: KindPureBroadcast})
	l, sessions := newLobbyWithMembers(2)
	l.SetState(model.StateBursting)
	d := &recordingDeliverer{}

	env := BuildEnvelope(OpWordSelect, make([]byte, 8))
	require.NoError(t, r.Route(sessions[0], l, env, d))
	require.Empty(t, d.sent, "non-whitelisted opcode must be dropped while bursting")
}

func TestBurstWhitelistAdmitsBurstSequence(t *testing.T) {
	r := NewRouter()
	r.Register(0x6C, Entry{Kind: KindPureBroadcast})
	l, sessions := newLobbyWithMembers(2)
	l.SetState(model.StateBursting)
	d := &recordingDeliverer{}

	env := BuildEnvelope(0x6C, make([]byte, 8))
	require.NoError(t, r.Route(sessions[0], l, env, d))
	require.Len(t, d.sent, 1)
}

func TestSideEffectBroadcastUpdatesArea(t *testing.T) {
	r := NewRouter()
	RegisterDefaults(r, nil)
	l, sessions := newLobbyWithMembers(2)
	d := &recordingDeliverer{}

	payload := make([]byte, 4)
	payload[2] = 7
	env := BuildEnvelope(OpSetArea, payload)
	require.NoError(t, r.Route(sessions[0], l, env, d))

	require.Equal(t, byte(7), sessions[0].CurrentArea)
	require.Len(t, d.sent, 1)
}

type fakeRoller struct{}

func (fakeRoller) RollItem(lobby *model.Lobby, slot int) (uint32, [12]byte) {
	return 0, [12]byte{1, 2, 3}
}

// TestItemRequestRepliesOnlyToRequester mirrors S6.
func TestItemRequestRepliesOnlyToRequester(t *testing.T) {
	r := NewRouter()
	RegisterDefaults(r, fakeRoller{})
	l, sessions := newLobbyWithMembers(3)
	d := &recordingDeliverer{}

	env := BuildEnvelope(OpItemRequest, make([]byte, 8))
	require.NoError(t, r.Route(sessions[2], l, env, d))

	require.Len(t, d.sent, 1)
	require.Equal(t, sessions[2], d.sent[0].to)
}

func TestParseEnvelopeRejectsBadSize(t *testing.T) {
	_, _, err := ParseEnvelope([]byte{0x01, 0xFF})
	require.Error(t, err)
}

func TestDCNTERemapAppliedAcrossBoundary(t *testing.T) {
	r := NewRouter()
	r.Register(OpSetArea, Entry{Kind: KindSideEffectBroadcast, SideEffect: handleSetArea})
	l, sessions := newLobbyWithMembers(2)
	sessions[1].IsDCNTE = true
	d := &recordingDeliverer{}

	payload := make([]byte, 4)
	env := BuildEnvelope(OpSetArea, payload)
	require.NoError(t, r.Route(sessions[0], l, env, d))

	require.Len(t, d.sent, 1)
	require.Equal(t, Opcode(0x1D), d.sent[0].op)
}
