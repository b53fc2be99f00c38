package lobby

import (
	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
)

// LegitChecker is an optional, injectable collaborator consulted during
// admission when legit-mode is enforced (§4.3 step 1, §C.4 of the design
// note: kept as an interface since the legitimacy-check policy itself is
// out of core scope per §1).
type LegitChecker interface {
	IsLegit(sess *model.Session) bool
}

// JoinRequest carries the fields an admission check needs from the joining
// session and the caller's chosen lobby.
type JoinRequest struct {
	Session      *model.Session
	Lobby        *model.Lobby
	Password     string
	PasswordOverride bool
	Level        int
	MinLevel     int
	MaxLevel     int
	LegitMode    bool
	Legit        LegitChecker
}

// CheckAdmission runs the validation chain of §4.3 step 1 and I5, returning
// the first failing code, or ErrNone if the join may proceed.
func CheckAdmission(req JoinRequest) ErrorCode {
	l, s := req.Lobby, req.Session

	if l == nil {
		return ErrNonexistent
	}
	if s.Flags&model.FlagProtection != 0 {
		return ErrProtection
	}
	if l.Type != model.LobbyDefault {
		if l.IsBursting() {
			return ErrBursting
		}
		state := l.GetState()
		if state == model.StateQuesting {
			return ErrQuesting
		}
		if state == model.StateQuestSel {
			return ErrQuestSel
		}

		flags := l.Flags
		v := s.Version
		switch {
		case flags&model.FlagV1Only != 0 && !v.IsV1Compatible():
			return ErrV1Only
		case flags&model.FlagV2 != 0 && v.IsV1Compatible():
			return ErrV2Only
		case flags&model.FlagDCOnly != 0 && !v.IsDC():
			return ErrDCOnly
		case flags&model.FlagPCOnly != 0 && v != dialect.PC:
			return ErrPCOnly
		}
		if flags&model.FlagSinglePlayer != 0 && l.Population() > 0 {
			return ErrSinglePlayer
		}

		if c, v2ok := model.RemapForV1(s.Character.Class); v2ok {
			_ = c
			if (flags&model.FlagV2 == 0) && forbidsV2OnlyClass(flags) {
				return ErrClassForbidden
			}
		}

		if req.MinLevel > 0 && req.Level < req.MinLevel {
			return ErrLevelLow
		}
		if req.MaxLevel > 0 && req.Level > req.MaxLevel {
			return ErrLevelHigh
		}

		if !req.PasswordOverride && l.Password != "" && l.Password != req.Password {
			return ErrWrongPassword
		}

		if req.LegitMode && req.Legit != nil && !req.Legit.IsLegit(s) {
			return ErrLegitFail
		}
	}

	if l.LowestFreeSlot() < 0 {
		return ErrFull
	}
	return ErrNone
}

// forbidsV2OnlyClass reports whether flags disallow a v2-only class
// (creator class gating, separate from the recipient-side cosmetic remap
// in internal/model.DispData.ForRecipient).
func forbidsV2OnlyClass(flags model.LobbyFlag) bool {
	return flags&model.FlagV1Only != 0
}

// JoinResult is returned by Join on success: the slot assigned and the
// lobby's current member snapshot (for the caller to build the game-join
// and add-player packets, §4.3 steps 3-4).
type JoinResult struct {
	Slot    int
	Members []model.SlotMember
	Leader  int
}

// Join runs admission, installs the session on success, and sets BURSTING
// for a game lobby per §4.3 step 6 (the caller arranges for DONE_BURSTING
// to clear it — see internal/subcommand's burst whitelist). Default
// lobbies skip BURSTING and the gating checks entirely (§4.3 "Default
// lobbies differ only in...").
func Join(req JoinRequest) (JoinResult, ErrorCode) {
	if code := CheckAdmission(req); code != ErrNone {
		return JoinResult{}, code
	}

	slot, ok := req.Lobby.AddMember(req.Session)
	if !ok {
		return JoinResult{}, ErrFull
	}

	req.Session.Lock()
	req.Session.CurrentLobby = req.Lobby
	req.Session.ClientID = slot
	req.Session.Unlock()

	if req.Lobby.Type != model.LobbyDefault {
		req.Lobby.SetState(model.StateBursting)
	}

	return JoinResult{
		Slot:    slot,
		Members: req.Lobby.Members(),
		Leader:  req.Lobby.LeaderSlot(),
	}, ErrNone
}

// LeaveResult reports what happened to the lobby after a departure (§4.3
// leave steps), for the caller to decide which broadcast to send.
type LeaveResult struct {
	VacatedSlot   int
	NewLeaderSlot int
	LobbyDestroyed bool
}

// Leave removes sess from its current lobby, re-electing the leader or
// destroying an emptied game lobby, per §4.3 leave protocol and I2/P4.
// blockGameRemover is called only when the lobby is a game that just
// emptied (the block's game-list removal must happen under its own lock,
// outside model.Lobby — see internal/block).
func Leave(sess *model.Session, blockGameRemover func(*model.Lobby)) LeaveResult {
	sess.Lock()
	l := sess.CurrentLobby
	sess.CurrentLobby = nil
	sess.ClientID = -1
	sess.Unlock()

	if l == nil {
		return LeaveResult{VacatedSlot: -1, NewLeaderSlot: -1}
	}

	vacated, newLeader := l.RemoveMember(sess)

	if l.Type != model.LobbyDefault && l.IsEmpty() {
		if blockGameRemover != nil {
			blockGameRemover(l)
		}
		return LeaveResult{VacatedSlot: vacated, NewLeaderSlot: newLeader, LobbyDestroyed: true}
	}

	return LeaveResult{VacatedSlot: vacated, NewLeaderSlot: newLeader}
}
