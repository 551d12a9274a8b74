package session

import (
	"time"

	"github.com/mcoot/freestreet/internal/model"
)

// AuthState is where a participant stands in the account state machine
type AuthState int

const (
	StateAnon AuthState = iota
	StateAwaitRegister
	StateAwaitLogin
	StateAuthenticated
)

var authStateNames = [...]string{
	StateAnon:          "anon",
	StateAwaitRegister: "await_register",
	StateAwaitLogin:    "await_login",
	StateAuthenticated: "authenticated",
}

func (s AuthState) String() string {
	if s < StateAnon || s > StateAuthenticated {
		return "unknown"
	}
	return authStateNames[s]
}

// Info is a snapshot of a connected participant
type Info struct {
	ID              model.ParticipantID
	Name            string
	State           AuthState
	Profile         model.ID // NilID until authenticated
	ConnectedAt     time.Time
	AuthenticatedAt time.Time
}

// Authenticated reports whether the participant is logged in
func (i Info) Authenticated() bool {
	return i.State == StateAuthenticated
}
