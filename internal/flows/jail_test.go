package flows

import (
	"context"
	"time"

	"github.com/mcoot/freestreet/internal/model"
)

func (s *FlowSuite) TestSweepReleasesExpiredTerms() {
	bob := s.join("bob")
	s.mutate(bob, func(p *model.Profile) { p.WantedLevel = 1 })
	s.Require().NoError(s.police.Surrender(s.ctx, s.info(bob).Profile))

	s.Require().NoError(s.engine.SweepJail(s.ctx))
	s.True(s.profile(bob).Flags.Jailed)

	s.clock.Advance(2*time.Minute + time.Second)
	s.Require().NoError(s.engine.SweepJail(s.ctx))

	s.False(s.profile(bob).Flags.Jailed)
	s.Contains(s.notifier.noticesFor(bob), "Your jail term is over. You are free to go.")
}

func (s *FlowSuite) TestSweepIgnoresAnonymousParticipants() {
	_, err := s.registry.Connect(s.ctx, "alice")
	s.Require().NoError(err)

	s.NoError(s.engine.SweepJail(s.ctx))
}

func (s *FlowSuite) TestSweeperReleasesOnTick() {
	bob := s.join("bob")
	s.mutate(bob, func(p *model.Profile) { p.WantedLevel = 1 })
	profileID := s.info(bob).Profile
	s.Require().NoError(s.police.Surrender(s.ctx, profileID))

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.engine.RunJailSweeper(ctx, s.clock, time.Second)
		close(done)
	}()
	s.Require().Eventually(func() bool { return s.clock.Tickers() == 1 }, time.Second, 5*time.Millisecond)

	s.clock.Advance(2*time.Minute + time.Second)
	s.Eventually(func() bool {
		p, err := s.storage.GetProfile(s.ctx, profileID)
		return err == nil && !p.Flags.Jailed
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	s.Equal(0, s.clock.Tickers())
}
