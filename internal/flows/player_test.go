package flows

import (
	"time"

	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/world"
)

// place puts two participants the given distance apart
func (s *FlowSuite) place(a, b model.ParticipantID, distance float64) {
	s.world.Update(a, world.Position{}, false)
	s.world.Update(b, world.Position{X: distance}, false)
}

func (s *FlowSuite) TestCivilianSeesBasicActions() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(bob, func(p *model.Profile) { p.WantedLevel = 3 })
	s.place(alice, bob, 1)

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))

	s.Equal([]string{"Send message", "View profile"}, s.items(alice))
	s.Equal("bob", s.notifier.last(alice).Title)
}

func (s *FlowSuite) TestArrestOfferedOnlyWithinReach() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.PoliceRank = model.PoliceOfficer })
	s.mutate(bob, func(p *model.Profile) { p.WantedLevel = 2 })

	s.place(alice, bob, 5)
	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.Contains(s.items(alice), "Arrest")

	s.place(alice, bob, 15)
	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.NotContains(s.items(alice), "Arrest")
}

func (s *FlowSuite) TestArrestJailsSuspect() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.PoliceRank = model.PoliceOfficer })
	s.mutate(bob, func(p *model.Profile) { p.WantedLevel = 2 })
	s.place(alice, bob, 5)
	now := s.clock.Now()

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Arrest")
	s.Equal([]string{"Jail for 5 minutes", "Jail for 10 minutes", "Jail for 15 minutes"}, s.items(alice))
	s.choose(alice, "Jail for 10 minutes")

	profile := s.profile(bob)
	s.True(profile.Flags.Jailed)
	s.Equal(0, profile.WantedLevel)
	s.Equal(now.Add(10*time.Minute), profile.JailedUntil)
	s.Contains(s.notifier.noticesFor(bob), "You have been jailed for 10 minutes.")
}

func (s *FlowSuite) TestArrestRechecksDistance() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.PoliceRank = model.PoliceOfficer })
	s.mutate(bob, func(p *model.Profile) { p.WantedLevel = 2 })
	s.place(alice, bob, 5)

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Arrest")
	s.place(alice, bob, 50)
	s.choose(alice, "Jail for 5 minutes")

	s.False(s.profile(bob).Flags.Jailed)
	s.Contains(s.notifier.noticesFor(alice), "The suspect is out of reach.")
}

func (s *FlowSuite) TestSettingWantedLevelOffersSurrender() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.PoliceRank = model.ChiefOfPolice })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Set wanted level")
	s.Equal(wantedLabels[:], s.items(alice))
	s.True(s.notifier.last(alice).Items[0].Selected)

	s.choose(alice, "3 stars")

	s.Equal(3, s.profile(bob).WantedLevel)
	s.Equal(1, s.registry.Depth(bob))
	s.Equal("Wanted", s.notifier.last(bob).Title)

	s.submit(bob, "")
	profile := s.profile(bob)
	s.True(profile.Flags.Jailed)
	s.Equal(s.clock.Now().Add(2*time.Minute), profile.JailedUntil)
}

func (s *FlowSuite) TestOfficerCannotLowerHighWantedLevel() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.PoliceRank = model.PoliceOfficer })
	s.mutate(bob, func(p *model.Profile) { p.WantedLevel = 5 })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Set wanted level")
	s.Equal([]string{"1 star", "2 stars"}, s.items(alice))
	depth := s.registry.Depth(alice)

	s.choose(alice, "1 star")

	s.Equal(depth, s.registry.Depth(alice))
	s.Equal(5, s.profile(bob).WantedLevel)
	s.Contains(s.notifier.noticesFor(alice), "You may not lower their wanted level.")
}

func (s *FlowSuite) TestWantedLevelNotOfferedForJailedTarget() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.PoliceRank = model.ChiefOfPolice })
	s.mutate(bob, func(p *model.Profile) { p.Flags.Jailed = true })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))

	s.NotContains(s.items(alice), "Set wanted level")
	s.Contains(s.items(alice), "Release")

	s.choose(alice, "Release")
	s.False(s.profile(bob).Flags.Jailed)
	s.Contains(s.notifier.noticesFor(bob), "You have been released from jail.")
}

func (s *FlowSuite) TestAdminLevelRadioShowsCurrentLevel() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 3 })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Change admin level")
	s.Equal(adminLevelLabels[:], s.items(alice))
	s.choose(alice, "Level 2 administrator")

	s.Equal(2, s.profile(bob).AdminLevel)

	s.choose(alice, "Change admin level")
	items := s.notifier.last(alice).Items
	s.Require().Len(items, len(adminLevelLabels))
	for level, item := range items {
		s.Equal(level == 2, item.Selected, "level %d", level)
	}
}

func (s *FlowSuite) TestPoliceRankRadio() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 3 })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Change police rank")
	s.choose(alice, model.PoliceDeputyChief.String())

	s.Equal(model.PoliceDeputyChief, s.profile(bob).PoliceRank)
}

func (s *FlowSuite) TestAdminTiersAreCumulative() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.world.Update(bob, world.Position{}, true)

	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 1 })
	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.Equal([]string{
		"Send message", "View profile",
		"Teleport to player", "Bring player here", "Mute", "Eject from vehicle",
	}, s.items(alice))

	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 2 })
	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.Equal([]string{
		"Send message", "View profile",
		"Teleport to player", "Bring player here", "Mute", "Eject from vehicle",
		"Freeze", "Reset health", "Force respawn", "Kick",
	}, s.items(alice))
}

func (s *FlowSuite) TestFreezeLocksControls() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 2 })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Freeze")

	s.Equal(0, s.registry.Depth(alice))
	s.True(s.profile(bob).Flags.Frozen)
	s.False(s.world.Controllable(bob))

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Unfreeze")
	s.True(s.world.Controllable(bob))
}

func (s *FlowSuite) TestMuteNotifiesTarget() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 1 })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Mute")

	s.True(s.profile(bob).Flags.Muted)
	s.Contains(s.notifier.noticesFor(bob), "You have been muted.")
}

func (s *FlowSuite) TestBanKicksTarget() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 3 })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Ban")

	s.True(s.profile(bob).Flags.Banned)
	s.True(s.sink.has(world.EventKick, bob))
}

func (s *FlowSuite) TestBringHereTeleportsTarget() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 1 })
	s.world.Update(alice, world.Position{X: 10, Y: 20}, false)
	s.world.Update(bob, world.Position{}, false)

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Bring player here")

	pos, ok := s.world.Position(bob)
	s.Require().True(ok)
	s.Equal(world.Position{X: 10, Y: 20}, pos)
	s.True(s.sink.has(world.EventTeleport, bob))
}

func (s *FlowSuite) TestAdminWorldActionsOnAnonymousTarget() {
	alice := s.join("alice")
	bob, err := s.registry.Connect(s.ctx, "bob")
	s.Require().NoError(err)
	s.mutate(alice, func(p *model.Profile) { p.AdminLevel = 3 })

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))

	s.Equal("bob", s.notifier.last(alice).Title)
	s.Equal([]string{
		"Send message", "View profile",
		"Teleport to player", "Bring player here",
		"Reset health", "Force respawn", "Kick",
		"Explode",
	}, s.items(alice))

	s.choose(alice, "Kick")
	s.True(s.sink.has(world.EventKick, bob))
}

func (s *FlowSuite) TestPlayerControlForMissingTarget() {
	alice := s.join("alice")

	err := s.engine.OpenPlayerControl(s.ctx, alice, 42)

	s.ErrorIs(err, model.ErrParticipantNotFound)
	s.Equal(0, s.registry.Depth(alice))
	s.Contains(s.notifier.noticesFor(alice), "Player not found.")
}
