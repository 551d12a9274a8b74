package model

import "errors"

// Common errors used across the application
var (
	ErrInvalidID = errors.New("invalid id")

	// Session errors
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrAlreadyConnected     = errors.New("participant already connected")
	ErrServerFull           = errors.New("no free participant slot")
	ErrNotAuthenticated     = errors.New("participant is not logged in")
	ErrAlreadyAuthenticated = errors.New("participant is already logged in")
	ErrProfileOnline        = errors.New("profile is logged in on another connection")
	ErrNoActiveDialog       = errors.New("participant has no open dialog")

	// Profile errors
	ErrProfileNotFound    = errors.New("profile not found")
	ErrAlreadyRegistered  = errors.New("profile already registered")
	ErrLogNameTaken       = errors.New("login name already taken")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrEmptyName          = errors.New("name must not be empty")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Crew errors
	ErrCrewNotFound       = errors.New("crew not found")
	ErrCrewNameTaken      = errors.New("crew name already taken")
	ErrCrewHasLeader      = errors.New("crew already has a leader")
	ErrAlreadyInCrew      = errors.New("profile already belongs to a crew")
	ErrNotInCrew          = errors.New("profile is not in this crew")
	ErrNotLeader          = errors.New("profile is not the crew leader")
	ErrNotPending         = errors.New("profile is not a pending applicant")
	ErrCannotRemoveLeader = errors.New("crew leader cannot be removed")

	// Authority errors
	ErrInsufficientRank       = errors.New("police rank too low")
	ErrInsufficientAdminLevel = errors.New("admin level too low")
	ErrWantedLevelOutOfRange  = errors.New("wanted level outside authorized range")
	ErrAboveAuthority         = errors.New("wanted level exceeds actor authority")
	ErrTargetJailed           = errors.New("target is jailed")
	ErrNotWanted              = errors.New("target is not wanted")
	ErrNotJailed              = errors.New("target is not jailed")
	ErrInvalidAdminLevel      = errors.New("invalid admin level")
	ErrInvalidPoliceRank      = errors.New("invalid police rank")
)
