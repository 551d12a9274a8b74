package policy

import "github.com/mcoot/freestreet/internal/model"

// CanApplyToJoin reports whether a profile may apply to a crew
func CanApplyToJoin(profile *model.Profile) bool {
	return !profile.InCrew()
}

// CanRenameCrew reports whether actor may rename the crew
func CanRenameCrew(crew *model.Crew, actor model.ID) bool {
	return crew.HasLeader() && crew.Leader == actor
}

// CanEditMember reports whether the member-edit dialog offers anything.
// Editing the leader renders nothing actionable.
func CanEditMember(crew *model.Crew, actor, member model.ID) bool {
	return CanRenameCrew(crew, actor) && member != crew.Leader
}

// CanApprove reports whether actor may promote member from pending
func CanApprove(crew *model.Crew, actor, member model.ID) bool {
	return CanEditMember(crew, actor, member) && crew.TierOf(member) == model.TierPending
}

// CanRemoveMember reports whether actor may drop member from the roster:
// a member may leave, and the leader may expel anyone but themself.
func CanRemoveMember(crew *model.Crew, actor, member model.ID) bool {
	switch crew.TierOf(member) {
	case model.TierPending, model.TierMember:
	default:
		return false
	}
	return actor == member || CanRenameCrew(crew, actor)
}
