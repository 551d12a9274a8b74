package flows

import (
	"github.com/mcoot/freestreet/internal/model"
)

func (s *FlowSuite) TestControlPanelOffersSurrenderWhenWanted() {
	id := s.join("alice")

	s.Require().NoError(s.engine.OpenControlPanel(s.ctx, id))
	s.Equal([]string{"My profile", "Crew"}, s.items(id))

	s.mutate(id, func(p *model.Profile) { p.WantedLevel = 2 })
	s.Require().NoError(s.engine.OpenControlPanel(s.ctx, id))
	s.Equal([]string{"My profile", "Crew", "Surrender"}, s.items(id))
}

func (s *FlowSuite) TestSurrenderFromControlPanel() {
	id := s.join("alice")
	s.mutate(id, func(p *model.Profile) { p.WantedLevel = 2 })
	s.Require().NoError(s.engine.OpenControlPanel(s.ctx, id))

	s.choose(id, "Surrender")
	s.Equal(2, s.registry.Depth(id))
	s.submit(id, "")

	profile := s.profile(id)
	s.True(profile.Flags.Jailed)
	s.Equal(0, profile.WantedLevel)
	// The panel beneath is shown again without the surrender item
	s.Equal(1, s.registry.Depth(id))
	s.Equal([]string{"My profile", "Crew"}, s.items(id))
}

func (s *FlowSuite) TestEditProfileIsRebuiltAfterChange() {
	id := s.join("alice")
	s.Require().NoError(s.engine.OpenProfile(s.ctx, id))
	s.Contains(s.items(id), "Nickname: alice")

	s.choose(id, "Nickname: alice")
	s.Equal(2, s.registry.Depth(id))
	s.submit(id, "Ace")

	s.Equal(1, s.registry.Depth(id))
	s.Contains(s.items(id), "Nickname: Ace")
	s.Equal("Ace", s.profile(id).Nickname)
}

func (s *FlowSuite) TestChangeLogNameRejectsTakenName() {
	s.join("bob")
	id := s.join("alice")

	s.Require().NoError(s.engine.OpenProfile(s.ctx, id))
	s.choose(id, "Login name: alice")
	s.submit(id, "bob")

	s.Equal(2, s.registry.Depth(id))
	s.Equal("alice", s.profile(id).LogName)
	s.Contains(s.notifier.noticesFor(id), "That login name is already taken.")
}

func (s *FlowSuite) TestChangePassword() {
	id := s.join("alice")
	s.Require().NoError(s.engine.OpenProfile(s.ctx, id))

	s.choose(id, "Change password")
	s.submit(id, "hunter22")

	_, err := s.accounts.VerifyPassword(s.ctx, "alice", "hunter22")
	s.NoError(err)
}

func (s *FlowSuite) TestViewProfileOfAnonymousParticipant() {
	id := s.join("alice")
	anon, _ := s.registry.Connect(s.ctx, "bob")

	s.Require().NoError(s.registry.Open(s.ctx, id, s.engine.viewProfileDialog(anon)))

	s.Equal("bob is not logged in.", s.notifier.last(id).Body)
}

func (s *FlowSuite) TestSendMessageStaysOpen() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))

	s.choose(alice, "Send message")
	s.submit(alice, "hi")
	s.submit(alice, "again")

	s.Equal(2, s.registry.Depth(alice))
	s.Contains(s.notifier.noticesFor(bob), "PM from alice(0): hi")
	s.Contains(s.notifier.noticesFor(bob), "PM from alice(0): again")
}

func (s *FlowSuite) TestSendMessageToDepartedPlayer() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Send message")

	s.Require().NoError(s.registry.Disconnect(s.ctx, bob))
	s.submit(alice, "hello?")

	s.Equal(1, s.registry.Depth(alice))
	s.Contains(s.notifier.noticesFor(alice), "That player is offline.")
}
