package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/freestreet/internal/model"
)

func TestAdminActionsByLevel(t *testing.T) {
	assert.Empty(t, AdminActions(0, true))

	assert.Equal(t,
		[]AdminAction{ActionGoTo, ActionBringHere, ActionToggleMute, ActionEject},
		AdminActions(1, true))

	level2 := AdminActions(2, false)
	assert.Equal(t,
		[]AdminAction{ActionGoTo, ActionBringHere, ActionToggleMute,
			ActionToggleFreeze, ActionKill, ActionRespawn, ActionKick},
		level2)

	level3 := AdminActions(3, true)
	assert.Len(t, level3, 12)
	assert.Equal(t, ActionSetPoliceRank, level3[len(level3)-1])
}

func TestAdminActionsAreCumulative(t *testing.T) {
	for level := 1; level <= model.MaxAdminLevel; level++ {
		lower := AdminActions(level-1, true)
		higher := AdminActions(level, true)
		assert.Subset(t, higher, lower, "level %d drops a lower tier action", level)
	}
}

func TestNeedsProfile(t *testing.T) {
	var world []AdminAction
	for _, a := range AdminActions(model.MaxAdminLevel, true) {
		if !NeedsProfile(a) {
			world = append(world, a)
		}
	}
	assert.Equal(t,
		[]AdminAction{ActionGoTo, ActionBringHere, ActionEject,
			ActionKill, ActionRespawn, ActionKick, ActionExplode},
		world)
}

func TestPermits(t *testing.T) {
	assert.True(t, Permits(1, ActionToggleMute))
	assert.False(t, Permits(1, ActionKick))
	assert.True(t, Permits(3, ActionKick))
	assert.False(t, Permits(2, ActionBan))
	assert.False(t, Permits(3, AdminAction(99)))
}

func TestCheckAdminLevel(t *testing.T) {
	assert.NoError(t, CheckAdminLevel(3, 2))
	assert.ErrorIs(t, CheckAdminLevel(2, 1), model.ErrInsufficientAdminLevel)
	assert.ErrorIs(t, CheckAdminLevel(3, 4), model.ErrInvalidAdminLevel)
	assert.ErrorIs(t, CheckAdminLevel(3, -1), model.ErrInvalidAdminLevel)
}

func TestCheckPoliceRank(t *testing.T) {
	assert.NoError(t, CheckPoliceRank(3, model.ChiefOfPolice))
	assert.ErrorIs(t, CheckPoliceRank(1, model.PoliceOfficer), model.ErrInsufficientAdminLevel)
	assert.ErrorIs(t, CheckPoliceRank(3, model.PoliceRank(9)), model.ErrInvalidPoliceRank)
}
