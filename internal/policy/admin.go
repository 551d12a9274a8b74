package policy

import "github.com/mcoot/freestreet/internal/model"

// AdminAction is one of the admin-gated player control actions
type AdminAction int

const (
	ActionGoTo AdminAction = iota
	ActionBringHere
	ActionToggleMute
	ActionEject
	ActionToggleFreeze
	ActionKill
	ActionRespawn
	ActionKick
	ActionExplode
	ActionBan
	ActionSetAdminLevel
	ActionSetPoliceRank
)

var adminActionLevels = map[AdminAction]int{
	ActionGoTo:          1,
	ActionBringHere:     1,
	ActionToggleMute:    1,
	ActionEject:         1,
	ActionToggleFreeze:  2,
	ActionKill:          2,
	ActionRespawn:       2,
	ActionKick:          2,
	ActionExplode:       3,
	ActionBan:           3,
	ActionSetAdminLevel: 3,
	ActionSetPoliceRank: 3,
}

// tiers in the order their actions are appended to the player control menu
var adminTiers = [][]AdminAction{
	{ActionGoTo, ActionBringHere, ActionToggleMute, ActionEject},
	{ActionToggleFreeze, ActionKill, ActionRespawn, ActionKick},
	{ActionExplode, ActionBan, ActionSetAdminLevel, ActionSetPoliceRank},
}

// actions that change the target's stored profile
var profileActions = map[AdminAction]bool{
	ActionToggleMute:    true,
	ActionToggleFreeze:  true,
	ActionBan:           true,
	ActionSetAdminLevel: true,
	ActionSetPoliceRank: true,
}

// NeedsProfile reports whether action can only be taken against a logged in
// target. The rest act on the world and also apply to anonymous connections.
func NeedsProfile(action AdminAction) bool {
	return profileActions[action]
}

// RequiredAdminLevel returns the minimum admin level for an action
func RequiredAdminLevel(action AdminAction) int {
	level, ok := adminActionLevels[action]
	if !ok {
		return model.MaxAdminLevel + 1
	}
	return level
}

// Permits reports whether an actor with adminLevel may perform action
func Permits(adminLevel int, action AdminAction) bool {
	return adminLevel >= RequiredAdminLevel(action)
}

// AdminActions returns the actions offered to an actor, lowest tier first.
// Eject is only offered while the target sits in a vehicle.
func AdminActions(adminLevel int, targetInVehicle bool) []AdminAction {
	var actions []AdminAction
	for i, tier := range adminTiers {
		if adminLevel < i+1 {
			break
		}
		for _, a := range tier {
			if a == ActionEject && !targetInVehicle {
				continue
			}
			actions = append(actions, a)
		}
	}
	return actions
}

// CheckAdminLevel validates an admin level assignment by an actor
func CheckAdminLevel(actorLevel, requested int) error {
	if !Permits(actorLevel, ActionSetAdminLevel) {
		return model.ErrInsufficientAdminLevel
	}
	if requested < model.MinAdminLevel || requested > model.MaxAdminLevel {
		return model.ErrInvalidAdminLevel
	}
	return nil
}

// CheckPoliceRank validates a police rank assignment by an actor
func CheckPoliceRank(actorLevel int, requested model.PoliceRank) error {
	if !Permits(actorLevel, ActionSetPoliceRank) {
		return model.ErrInsufficientAdminLevel
	}
	if !requested.IsValid() {
		return model.ErrInvalidPoliceRank
	}
	return nil
}
