package flows

import (
	"errors"
	"log/slog"

	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/world"
)

// kickFails is a world whose transport refuses to drop connections
type kickFails struct {
	*world.Memory
}

func (kickFails) Kick(model.ParticipantID) error {
	return errors.New("connection already closed")
}

func (s *FlowSuite) TestVanishedTargetIsLoggedAtWarn() {
	alice := s.join("alice")
	bob := s.join("bob")
	s.mutate(alice, func(p *model.Profile) { p.PoliceRank = model.PoliceOfficer })
	s.mutate(bob, func(p *model.Profile) { p.WantedLevel = 2 })
	s.place(alice, bob, 5)

	s.Require().NoError(s.engine.OpenPlayerControl(s.ctx, alice, bob))
	s.choose(alice, "Arrest")
	s.Require().NoError(s.registry.Disconnect(s.ctx, bob))
	s.choose(alice, "Jail for 5 minutes")

	s.Contains(s.notifier.noticesFor(alice), "Player not found.")
	warnings := s.logs.Entries(slog.LevelWarn)
	s.Require().Len(warnings, 1)
	s.Equal("dialog target vanished", warnings[0].Message)
	s.Equal(int64(alice), warnings[0].Attrs["participant_id"])
	s.Equal("flows", warnings[0].Attrs["component"])
}

func (s *FlowSuite) TestGuardRejectionIsNotLogged() {
	alice := s.join("alice")

	s.Require().NoError(s.registry.Open(s.ctx, alice, s.engine.registerDialog()))
	s.submit(alice, "another-password")

	s.Contains(s.notifier.noticesFor(alice), "You are already logged in.")
	s.Equal(0, s.registry.Depth(alice))
	s.Empty(s.logs.Entries(slog.LevelWarn))
}

func (s *FlowSuite) TestValidationFailureIsNotLogged() {
	id, err := s.registry.Connect(s.ctx, "alice")
	s.Require().NoError(err)

	s.submit(id, "abc")

	s.Contains(s.notifier.noticesFor(id), "The password needs at least 6 characters.")
	s.Empty(s.logs.Entries(slog.LevelWarn))
}

func (s *FlowSuite) TestFailedKickOnBannedLoginIsLogged() {
	first := s.join("alice")
	s.mutate(first, func(p *model.Profile) { p.Flags.Banned = true })
	s.Require().NoError(s.registry.Disconnect(s.ctx, first))
	s.engine = New(s.registry, s.accounts, s.crews, s.police, kickFails{s.world}, s.logs.Logger())

	id, err := s.registry.Connect(s.ctx, "alice")
	s.Require().NoError(err)
	s.submit(id, testPassword)

	errs := s.logs.Entries(slog.LevelError)
	s.Require().Len(errs, 1)
	s.Equal("world action failed", errs[0].Message)
	s.Equal("kick", errs[0].Attrs["action"])
	s.Equal(int64(id), errs[0].Attrs["participant_id"])
	s.Equal("connection already closed", errs[0].Attrs["error"])
}
