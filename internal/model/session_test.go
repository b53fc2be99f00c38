package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/dialect"
)

func TestSessionIgnoreSuppression(t *testing.T) {
	s := NewSession(nil, dialect.GC)
	s.IgnoreList = append(s.IgnoreList, 42)
	s.Blacklist = append(s.Blacklist, 7)

	require.True(t, s.Suppresses(42))
	require.True(t, s.Suppresses(7))
	require.False(t, s.Suppresses(99))
}

func TestLivenessCheckReapsOnIdleRecv(t *testing.T) {
	s := NewSession(nil, dialect.PC)
	s.Flags &^= FlagProtection
	base := time.Now()
	s.LastPacketAt = base
	s.LastSendAt = base

	reap, ping := s.LivenessCheck(base.Add(91*time.Second), 90*time.Second, 30*time.Second, 10*time.Second, 60*time.Second)
	require.True(t, reap)
	require.False(t, ping)
}

func TestLivenessCheckKeepAlive(t *testing.T) {
	s := NewSession(nil, dialect.PC)
	s.Flags &^= FlagProtection
	base := time.Now()
	s.LastPacketAt = base
	s.LastSendAt = base

	reap, ping := s.LivenessCheck(base.Add(35*time.Second), 90*time.Second, 30*time.Second, 10*time.Second, 60*time.Second)
	require.False(t, reap)
	require.True(t, ping)
}

func TestLivenessCheckPreAuthTimeout(t *testing.T) {
	s := NewSession(nil, dialect.PC)
	base := time.Now()
	s.LastPacketAt = base
	s.LastSendAt = base
	s.LoginAt = base

	reap, _ := s.LivenessCheck(base.Add(61*time.Second), 90*time.Second, 30*time.Second, 10*time.Second, 60*time.Second)
	require.True(t, reap, "FlagProtection set and pre-auth timeout elapsed")
}

func TestDisconnectFlag(t *testing.T) {
	s := NewSession(nil, dialect.BB)
	require.False(t, s.Disconnected())
	s.MarkDisconnected()
	require.True(t, s.Disconnected())
}
