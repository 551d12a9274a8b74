// Package world models the spatial and liveness state the engine queries and
// the side effects admin actions have on it.
package world

import (
	"math"

	"github.com/mcoot/freestreet/internal/model"
)

// Position is a point in world space
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the straight-line distance between two positions
func (p Position) DistanceTo(o Position) float64 {
	dx, dy, dz := p.X-o.X, p.Y-o.Y, p.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// EventKind names a side effect forwarded to clients
type EventKind string

const (
	EventTeleport     EventKind = "teleport"
	EventEject        EventKind = "eject"
	EventControllable EventKind = "controllable"
	EventHealth       EventKind = "health"
	EventRespawn      EventKind = "respawn"
	EventExplosion    EventKind = "explosion"
	EventKick         EventKind = "kick"
)

// Event is a world side effect aimed at one participant
type Event struct {
	Kind         EventKind           `json:"event"`
	Participant  model.ParticipantID `json:"participant"`
	Position     *Position           `json:"position,omitempty"`
	Health       *float64            `json:"health,omitempty"`
	Controllable *bool               `json:"controllable,omitempty"`
	Radius       float64             `json:"radius,omitempty"`
}

// Sink receives world events, typically to forward them to clients
type Sink interface {
	Emit(ev Event)
}

// World is the spatial and liveness collaborator
type World interface {
	// Distance returns the distance between two participants, false when either is unknown
	Distance(a, b model.ParticipantID) (float64, bool)
	InVehicle(id model.ParticipantID) bool
	Update(id model.ParticipantID, pos Position, inVehicle bool)
	Forget(id model.ParticipantID)

	Teleport(id, to model.ParticipantID) error
	Eject(id model.ParticipantID) error
	SetControllable(id model.ParticipantID, controllable bool) error
	Kill(id model.ParticipantID) error
	Respawn(id model.ParticipantID) error
	Explode(id model.ParticipantID) error
	Kick(id model.ParticipantID) error
}
