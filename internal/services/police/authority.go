package police

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/freestreet/internal/dependencies/clock"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/policy"
	"github.com/mcoot/freestreet/internal/storage"
)

// SurrenderTerm is the detention applied when a wanted player gives themself up
const SurrenderTerm = 2 * time.Minute

// ArrestTerms are the detention presets offered by the arrest menu
var ArrestTerms = []time.Duration{5 * time.Minute, 10 * time.Minute, 15 * time.Minute}

// Authority applies wanted level, detention, rank and admin-flag mutations.
// Every mutation re-validates the actor against the policy rules, so a stale
// menu item fails here even though it was offered.
type Authority struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewAuthority creates a new Authority
func NewAuthority(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Authority {
	return &Authority{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "police")),
	}
}

// SetWantedLevel changes a target's wanted level within the actor's range
func (a *Authority) SetWantedLevel(ctx context.Context, actorID, targetID model.ID, level int) error {
	actor, target, err := a.load(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if target.Flags.Jailed {
		return model.ErrTargetJailed
	}
	if err := policy.CheckWantedLevel(actor.PoliceRank, target.WantedLevel, level); err != nil {
		return err
	}

	target.WantedLevel = model.ClampWantedLevel(level)
	if err := a.save(ctx, target); err != nil {
		return err
	}

	a.logger.Info("wanted level set",
		slog.String("actor_id", actorID.Hex()),
		slog.String("target_id", targetID.Hex()),
		slog.Int("level", target.WantedLevel),
	)
	return nil
}

// Arrest detains a wanted target for the given term
func (a *Authority) Arrest(ctx context.Context, actorID, targetID model.ID, term time.Duration) error {
	actor, err := a.storage.GetProfile(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.PoliceRank <= model.Civilian {
		return model.ErrInsufficientRank
	}
	return a.Jail(ctx, targetID, term)
}

// Jail detains a target that is still wanted. The wanted level is cleared.
func (a *Authority) Jail(ctx context.Context, targetID model.ID, term time.Duration) error {
	target, err := a.storage.GetProfile(ctx, targetID)
	if err != nil {
		return err
	}
	if target.WantedLevel <= 0 {
		return model.ErrNotWanted
	}

	target.Flags.Jailed = true
	target.WantedLevel = 0
	target.JailedUntil = a.clock.Now().Add(term)
	if err := a.save(ctx, target); err != nil {
		return err
	}

	a.logger.Info("profile jailed",
		slog.String("target_id", targetID.Hex()),
		slog.Duration("term", term),
	)
	return nil
}

// Surrender applies the fixed surrender term if the profile is still wanted
func (a *Authority) Surrender(ctx context.Context, profileID model.ID) error {
	return a.Jail(ctx, profileID, SurrenderTerm)
}

// Release frees a jailed target immediately
func (a *Authority) Release(ctx context.Context, actorID, targetID model.ID) error {
	actor, target, err := a.load(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !target.Flags.Jailed {
		return model.ErrNotJailed
	}
	if !policy.CanRelease(actor, target) {
		return model.ErrInsufficientRank
	}
	return a.release(ctx, target)
}

// ReleaseDue frees every given profile whose detention has run out
func (a *Authority) ReleaseDue(ctx context.Context, ids []model.ID) ([]model.ID, error) {
	now := a.clock.Now()
	var released []model.ID
	for _, id := range ids {
		profile, err := a.storage.GetProfile(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrProfileNotFound) {
				continue
			}
			return released, err
		}
		if !profile.Flags.Jailed || now.Before(profile.JailedUntil) {
			continue
		}
		if err := a.release(ctx, profile); err != nil {
			return released, err
		}
		released = append(released, id)
	}
	return released, nil
}

// SetAdminLevel changes a target's admin level
func (a *Authority) SetAdminLevel(ctx context.Context, actorID, targetID model.ID, level int) error {
	actor, target, err := a.load(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if err := policy.CheckAdminLevel(actor.AdminLevel, level); err != nil {
		return err
	}
	target.AdminLevel = level
	return a.save(ctx, target)
}

// SetPoliceRank changes a target's police rank
func (a *Authority) SetPoliceRank(ctx context.Context, actorID, targetID model.ID, rank model.PoliceRank) error {
	actor, target, err := a.load(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if err := policy.CheckPoliceRank(actor.AdminLevel, rank); err != nil {
		return err
	}
	target.PoliceRank = rank
	return a.save(ctx, target)
}

// ToggleMute flips the muted flag and returns the new value
func (a *Authority) ToggleMute(ctx context.Context, actorID, targetID model.ID) (bool, error) {
	return a.toggle(ctx, actorID, targetID, policy.ActionToggleMute, func(f *model.StatusFlags) *bool {
		return &f.Muted
	})
}

// ToggleFreeze flips the frozen flag and returns the new value
func (a *Authority) ToggleFreeze(ctx context.Context, actorID, targetID model.ID) (bool, error) {
	return a.toggle(ctx, actorID, targetID, policy.ActionToggleFreeze, func(f *model.StatusFlags) *bool {
		return &f.Frozen
	})
}

// Ban sets the banned flag. The caller kicks the participant.
func (a *Authority) Ban(ctx context.Context, actorID, targetID model.ID) error {
	actor, target, err := a.load(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !policy.Permits(actor.AdminLevel, policy.ActionBan) {
		return model.ErrInsufficientAdminLevel
	}
	target.Flags.Banned = true
	if err := a.save(ctx, target); err != nil {
		return err
	}
	a.logger.Info("profile banned",
		slog.String("actor_id", actorID.Hex()),
		slog.String("target_id", targetID.Hex()),
	)
	return nil
}

func (a *Authority) toggle(
	ctx context.Context,
	actorID, targetID model.ID,
	action policy.AdminAction,
	flag func(*model.StatusFlags) *bool,
) (bool, error) {
	actor, target, err := a.load(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if !policy.Permits(actor.AdminLevel, action) {
		return false, model.ErrInsufficientAdminLevel
	}
	f := flag(&target.Flags)
	*f = !*f
	if err := a.save(ctx, target); err != nil {
		return false, err
	}
	return *f, nil
}

func (a *Authority) release(ctx context.Context, target *model.Profile) error {
	target.Flags.Jailed = false
	target.JailedUntil = time.Time{}
	if err := a.save(ctx, target); err != nil {
		return err
	}
	a.logger.Info("profile released", slog.String("target_id", target.ID.Hex()))
	return nil
}

func (a *Authority) load(ctx context.Context, actorID, targetID model.ID) (*model.Profile, *model.Profile, error) {
	actor, err := a.storage.GetProfile(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	target, err := a.storage.GetProfile(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}

func (a *Authority) save(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = a.clock.Now()
	if err := a.storage.SaveProfile(ctx, profile); err != nil {
		a.logger.Error("failed to save profile",
			slog.String("profile_id", profile.ID.Hex()),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
