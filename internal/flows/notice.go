package flows

import (
	"errors"

	"github.com/mcoot/freestreet/internal/model"
)

const (
	noticeNotLoggedIn = "You are not logged in."
	noticeGeneric     = "Something went wrong. Please retry or contact an operator."
)

var notices = []struct {
	err  error
	text string
}{
	{model.ErrNotAuthenticated, noticeNotLoggedIn},
	{model.ErrAlreadyAuthenticated, "You are already logged in."},
	{model.ErrProfileOnline, "That account is already playing on another connection."},
	{model.ErrParticipantNotFound, "Player not found."},
	{model.ErrProfileNotFound, "Player not found."},
	{model.ErrAlreadyRegistered, "That name is already registered."},
	{model.ErrLogNameTaken, "That login name is already taken."},
	{model.ErrPasswordTooShort, "The password needs at least 6 characters."},
	{model.ErrEmptyName, "The name must not be empty."},
	{model.ErrInvalidCredentials, "Wrong password."},
	{model.ErrCrewNotFound, "Crew not found."},
	{model.ErrCrewNameTaken, "That crew name is already taken."},
	{model.ErrCrewHasLeader, "That crew already exists."},
	{model.ErrAlreadyInCrew, "You already belong to a crew."},
	{model.ErrNotInCrew, "That player is not in the crew."},
	{model.ErrNotLeader, "You are not the crew leader."},
	{model.ErrNotPending, "That player is not waiting for approval."},
	{model.ErrCannotRemoveLeader, "The crew leader cannot be removed."},
	{model.ErrInsufficientRank, "Your police rank is too low."},
	{model.ErrInsufficientAdminLevel, "Your admin level is too low."},
	{model.ErrWantedLevelOutOfRange, "You may not set that wanted level."},
	{model.ErrAboveAuthority, "You may not lower their wanted level."},
	{model.ErrTargetJailed, "That player is in jail."},
	{model.ErrNotWanted, "That player is no longer wanted."},
	{model.ErrNotJailed, "That player is not in jail."},
	{model.ErrInvalidAdminLevel, "Invalid admin level."},
	{model.ErrInvalidPoliceRank, "Invalid police rank."},
}

// notice returns the text shown to a participant for an error
func notice(err error) string {
	for _, n := range notices {
		if errors.Is(err, n.err) {
			return n.text
		}
	}
	return noticeGeneric
}
