// Package policy holds the authorization rules shared by dialog builders and the
// services that re-validate each mutation. Every function is pure.
package policy

import "github.com/mcoot/freestreet/internal/model"

// ArrestDistance is the exclusive upper bound on actor-to-target distance for an arrest
const ArrestDistance = 10.0

// Range is a closed interval of wanted levels
type Range struct {
	Min int
	Max int
}

// Contains reports whether level lies within the range
func (r Range) Contains(level int) bool {
	return level >= r.Min && level <= r.Max
}

// Levels lists every level in the range in ascending order
func (r Range) Levels() []int {
	levels := make([]int, 0, r.Max-r.Min+1)
	for l := r.Min; l <= r.Max; l++ {
		levels = append(levels, l)
	}
	return levels
}

// WantedRange returns the wanted levels a rank may set. Civilians get none.
func WantedRange(rank model.PoliceRank) (Range, bool) {
	switch {
	case rank >= model.ChiefOfPolice:
		return Range{Min: 0, Max: 6}, true
	case rank >= model.PoliceDeputyChief:
		return Range{Min: 0, Max: 4}, true
	case rank >= model.PoliceOfficer:
		return Range{Min: 1, Max: 2}, true
	default:
		return Range{}, false
	}
}

// CanArrest reports whether the arrest action is offered against target
func CanArrest(actor, target *model.Profile, distance float64) bool {
	return actor.PoliceRank > model.Civilian &&
		target.WantedLevel > 0 &&
		distance < ArrestDistance
}

// CanOfferWanted reports whether the set-wanted action is offered against target
func CanOfferWanted(actor, target *model.Profile) bool {
	_, ok := WantedRange(actor.PoliceRank)
	return ok && !target.Flags.Jailed
}

// MayLowerWanted applies the de-escalation guard: an actor may not lower a level
// that is already above their own ceiling.
func MayLowerWanted(current, requested, ceiling int) bool {
	return !(current > requested && current > ceiling)
}

// CheckWantedLevel validates a wanted level change by an actor of the given rank
func CheckWantedLevel(rank model.PoliceRank, current, requested int) error {
	r, ok := WantedRange(rank)
	if !ok {
		return model.ErrInsufficientRank
	}
	if !r.Contains(requested) {
		return model.ErrWantedLevelOutOfRange
	}
	if !MayLowerWanted(current, requested, r.Max) {
		return model.ErrAboveAuthority
	}
	return nil
}

// CanRelease reports whether the release action is offered against target
func CanRelease(actor, target *model.Profile) bool {
	return actor.PoliceRank >= model.PoliceDeputyChief && target.Flags.Jailed
}
