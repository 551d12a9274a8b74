package world

import (
	"sync"

	"github.com/mcoot/freestreet/internal/dependencies/random"
	"github.com/mcoot/freestreet/internal/model"
)

const (
	// FullHealth is the health a participant respawns with
	FullHealth = 100.0
	// ExplosionRadius is the radius of an admin explosion
	ExplosionRadius = 5.0
)

// DefaultSpawnPoints are used when no spawn points are configured
var DefaultSpawnPoints = []Position{
	{X: 1958.33, Y: 1343.12, Z: 15.36},
	{X: 2199.76, Y: 1393.32, Z: 10.82},
	{X: -1968.95, Y: 293.92, Z: 35.17},
}

type actor struct {
	pos          Position
	inVehicle    bool
	health       float64
	controllable bool
}

// Memory is an in-process World. Side effects update local state and are
// forwarded to the sink.
type Memory struct {
	mu     sync.RWMutex
	actors map[model.ParticipantID]*actor

	sink   Sink
	random random.Random
	spawns []Position
}

// NewMemory creates a Memory world. sink may be nil.
func NewMemory(sink Sink, random random.Random, spawns []Position) *Memory {
	if len(spawns) == 0 {
		spawns = DefaultSpawnPoints
	}
	return &Memory{
		actors: make(map[model.ParticipantID]*actor),
		sink:   sink,
		random: random,
		spawns: spawns,
	}
}

// Ensure Memory implements World
var _ World = (*Memory)(nil)

func (m *Memory) Distance(a, b model.ParticipantID) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pa, ok := m.actors[a]
	if !ok {
		return 0, false
	}
	pb, ok := m.actors[b]
	if !ok {
		return 0, false
	}
	return pa.pos.DistanceTo(pb.pos), true
}

func (m *Memory) InVehicle(id model.ParticipantID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.actors[id]
	return ok && a.inVehicle
}

// Position returns the last known position of a participant
func (m *Memory) Position(id model.ParticipantID) (Position, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.actors[id]
	if !ok {
		return Position{}, false
	}
	return a.pos, true
}

// Health returns the health of a participant
func (m *Memory) Health(id model.ParticipantID) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.actors[id]
	if !ok {
		return 0, false
	}
	return a.health, true
}

// Controllable reports whether a participant can move
func (m *Memory) Controllable(id model.ParticipantID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.actors[id]
	return ok && a.controllable
}

func (m *Memory) Update(id model.ParticipantID, pos Position, inVehicle bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.actor(id)
	a.pos = pos
	a.inVehicle = inVehicle
}

func (m *Memory) Forget(id model.ParticipantID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actors, id)
}

func (m *Memory) Teleport(id, to model.ParticipantID) error {
	m.mu.Lock()
	dest, ok := m.actors[to]
	if !ok {
		m.mu.Unlock()
		return model.ErrParticipantNotFound
	}
	a := m.actor(id)
	a.pos = dest.pos
	a.inVehicle = false
	pos := a.pos
	m.mu.Unlock()

	m.emit(Event{Kind: EventTeleport, Participant: id, Position: &pos})
	return nil
}

func (m *Memory) Eject(id model.ParticipantID) error {
	m.mu.Lock()
	a, ok := m.actors[id]
	if !ok || !a.inVehicle {
		m.mu.Unlock()
		return nil
	}
	a.inVehicle = false
	m.mu.Unlock()

	m.emit(Event{Kind: EventEject, Participant: id})
	return nil
}

func (m *Memory) SetControllable(id model.ParticipantID, controllable bool) error {
	m.mu.Lock()
	m.actor(id).controllable = controllable
	m.mu.Unlock()

	m.emit(Event{Kind: EventControllable, Participant: id, Controllable: &controllable})
	return nil
}

func (m *Memory) Kill(id model.ParticipantID) error {
	m.setHealth(id, 0)
	return nil
}

func (m *Memory) Respawn(id model.ParticipantID) error {
	spawn := random.Pick(m.random, m.spawns)

	m.mu.Lock()
	a := m.actor(id)
	a.pos = spawn
	a.inVehicle = false
	a.health = FullHealth
	m.mu.Unlock()

	m.emit(Event{Kind: EventRespawn, Participant: id, Position: &spawn})
	return nil
}

func (m *Memory) Explode(id model.ParticipantID) error {
	m.mu.RLock()
	a, ok := m.actors[id]
	var pos Position
	if ok {
		pos = a.pos
	}
	m.mu.RUnlock()
	if !ok {
		return model.ErrParticipantNotFound
	}

	m.emit(Event{Kind: EventExplosion, Participant: id, Position: &pos, Radius: ExplosionRadius})
	return nil
}

func (m *Memory) Kick(id model.ParticipantID) error {
	m.emit(Event{Kind: EventKick, Participant: id})
	return nil
}

func (m *Memory) setHealth(id model.ParticipantID, health float64) {
	m.mu.Lock()
	m.actor(id).health = health
	m.mu.Unlock()

	m.emit(Event{Kind: EventHealth, Participant: id, Health: &health})
}

// actor returns the record for id, creating it. Caller holds mu.
func (m *Memory) actor(id model.ParticipantID) *actor {
	a, ok := m.actors[id]
	if !ok {
		a = &actor{health: FullHealth, controllable: true}
		m.actors[id] = a
	}
	return a
}

func (m *Memory) emit(ev Event) {
	m.mu.RLock()
	sink := m.sink
	m.mu.RUnlock()
	if sink != nil {
		sink.Emit(ev)
	}
}
