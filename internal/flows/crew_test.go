package flows

import (
	"github.com/mcoot/freestreet/internal/model"
)

// createCrew has participant id found a crew through the crew panel
func (s *FlowSuite) createCrew(id model.ParticipantID, name string) {
	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, id))
	s.choose(id, "Create crew")
	s.submit(id, name)
	s.Require().True(s.profile(id).InCrew())
}

// applyTo has participant id apply to the crew matching keyword
func (s *FlowSuite) applyTo(id model.ParticipantID, keyword, name string) {
	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, id))
	s.choose(id, "Join crew")
	s.submit(id, keyword)
	s.choose(id, name)
}

func (s *FlowSuite) TestCrewPanelWithoutCrew() {
	id := s.join("alice")

	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, id))

	s.Equal([]string{"Create crew", "Join crew"}, s.items(id))
}

func (s *FlowSuite) TestCreateCrewRebuildsPanel() {
	id := s.join("alice")

	s.createCrew(id, "Vagos")

	s.Equal(1, s.registry.Depth(id))
	s.Equal([]string{"My crew: Vagos", "Change crew name", "View members"}, s.items(id))
}

func (s *FlowSuite) TestCreateCrewWithTakenName() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.createCrew(alice, "Vagos")

	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, bob))
	s.choose(bob, "Create crew")
	s.submit(bob, "Vagos")

	s.Equal(2, s.registry.Depth(bob))
	s.False(s.profile(bob).InCrew())
	s.Contains(s.notifier.noticesFor(bob), "That crew already exists.")
}

func (s *FlowSuite) TestJoinCrewThroughSearch() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.createCrew(alice, "Vagos")

	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, bob))
	s.choose(bob, "Join crew")
	s.submit(bob, "vag")
	s.Equal(3, s.registry.Depth(bob))
	s.Equal([]string{"Vagos"}, s.items(bob))

	s.choose(bob, "Vagos")

	// The search input is shown again beneath the consumed results
	s.Equal(2, s.registry.Depth(bob))
	crew, err := s.crews.FindByName(s.ctx, "Vagos")
	s.Require().NoError(err)
	s.Require().Len(crew, 1)
	s.Equal(model.TierPending, crew[0].TierOf(s.info(bob).Profile))
	s.Equal(crew[0].ID, s.profile(bob).Crew)
	s.Contains(s.notifier.noticesFor(alice), "A new player applied to join your crew.")
}

func (s *FlowSuite) TestSearchWithoutResults() {
	id := s.join("alice")
	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, id))
	s.choose(id, "Join crew")

	s.submit(id, "ballas")

	s.Empty(s.items(id))
	s.Equal("No crew found.", s.notifier.last(id).Body)
}

func (s *FlowSuite) TestLeaderApprovesApplicant() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.createCrew(alice, "Vagos")
	s.applyTo(bob, "Vagos", "Vagos")

	s.choose(alice, "View members")
	s.Equal([]string{"Leader\talice", "Pending\tbob"}, s.items(alice))

	s.choose(alice, "Pending\tbob")
	s.Equal([]string{"Login name: bob", "Approve"}, s.items(alice))
	s.choose(alice, "Approve")

	s.Equal([]string{"Leader\talice", "Member\tbob"}, s.items(alice))
	s.Contains(s.notifier.noticesFor(bob), "Your crew application was approved.")

	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, bob))
	s.Equal([]string{"My crew: Vagos", "Leave crew"}, s.items(bob))
}

func (s *FlowSuite) TestPendingApplicantSeesPendingPanel() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.createCrew(alice, "Vagos")
	s.applyTo(bob, "Vagos", "Vagos")

	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, bob))

	s.Equal([]string{"My crew: Vagos (pending)", "Leave crew"}, s.items(bob))
}

func (s *FlowSuite) TestLeaderExpelsMember() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.createCrew(alice, "Vagos")
	s.applyTo(bob, "Vagos", "Vagos")
	s.choose(alice, "View members")
	s.choose(alice, "Pending\tbob")
	s.choose(alice, "Approve")

	s.choose(alice, "Member\tbob")
	s.Equal([]string{"Login name: bob", "Tier: Member", "Expel"}, s.items(alice))
	s.choose(alice, "Expel")

	s.Equal([]string{"Leader\talice"}, s.items(alice))
	s.False(s.profile(bob).InCrew())
}

func (s *FlowSuite) TestLeaderHasNothingToEditOnSelf() {
	alice := s.join("alice")
	s.createCrew(alice, "Vagos")

	s.choose(alice, "View members")
	s.choose(alice, "Leader\talice")

	s.Empty(s.items(alice))
}

func (s *FlowSuite) TestMemberLeavesCrew() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.createCrew(alice, "Vagos")
	s.applyTo(bob, "Vagos", "Vagos")

	s.Require().NoError(s.engine.OpenCrewPanel(s.ctx, bob))
	s.choose(bob, "Leave crew")

	s.False(s.profile(bob).InCrew())
	s.Contains(s.notifier.noticesFor(bob), "You left the crew.")
}

func (s *FlowSuite) TestLeaderRenamesCrew() {
	alice := s.join("alice")
	s.createCrew(alice, "Vagos")

	s.choose(alice, "Change crew name")
	s.submit(alice, "Los Vagos")

	s.Equal([]string{"My crew: Los Vagos", "Change crew name", "View members"}, s.items(alice))
}

func (s *FlowSuite) TestRenameByMemberIsRefused() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.createCrew(alice, "Vagos")
	s.applyTo(bob, "Vagos", "Vagos")
	crewID := s.profile(alice).Crew

	s.Require().NoError(s.registry.Open(s.ctx, bob, s.engine.renameCrewDialog(crewID)))
	depth := s.registry.Depth(bob)
	s.submit(bob, "Bobs")

	s.Equal(depth-1, s.registry.Depth(bob))
	crew, err := s.crews.GetCrew(s.ctx, crewID)
	s.Require().NoError(err)
	s.Equal("Vagos", crew.Name)
	s.Contains(s.notifier.noticesFor(bob), "You are not the crew leader.")
}
