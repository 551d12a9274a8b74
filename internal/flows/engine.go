// Package flows builds the concrete dialogs participants interact with and
// connects them to the account, crew and police services.
package flows

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/services/account"
	"github.com/mcoot/freestreet/internal/services/crew"
	"github.com/mcoot/freestreet/internal/services/police"
	"github.com/mcoot/freestreet/internal/session"
	"github.com/mcoot/freestreet/internal/world"
)

// Engine owns the dialog flows. Entry points are safe to call from any
// goroutine; dialog handlers run under the registry's driver lock.
type Engine struct {
	registry *session.Registry
	accounts *account.Service
	crews    *crew.Controller
	police   *police.Authority
	world    world.World
	logger   *slog.Logger
}

// New creates an Engine and attaches its connect and disconnect hooks to the registry
func New(
	registry *session.Registry,
	accounts *account.Service,
	crews *crew.Controller,
	police *police.Authority,
	world world.World,
	logger *slog.Logger,
) *Engine {
	e := &Engine{
		registry: registry,
		accounts: accounts,
		crews:    crews,
		police:   police,
		world:    world,
		logger:   logger.With(slog.String("component", "flows")),
	}
	registry.OnConnect(e.onConnect)
	registry.OnDisconnect(e.onDisconnect)
	return e
}

// OpenControlPanel opens the personal control panel
func (e *Engine) OpenControlPanel(ctx context.Context, id model.ParticipantID) error {
	return e.openAuthenticated(ctx, id, e.controlPanel())
}

// OpenCrewPanel opens the crew panel
func (e *Engine) OpenCrewPanel(ctx context.Context, id model.ParticipantID) error {
	return e.openAuthenticated(ctx, id, e.crewPanel())
}

// OpenProfile opens the profile editor
func (e *Engine) OpenProfile(ctx context.Context, id model.ParticipantID) error {
	return e.openAuthenticated(ctx, id, e.editProfile())
}

// OpenPlayerControl opens the actions available against another participant
func (e *Engine) OpenPlayerControl(ctx context.Context, id, target model.ParticipantID) error {
	if _, err := e.registry.Participant(target); err != nil {
		e.registry.Notify(id, "Player not found.")
		return err
	}
	return e.openAuthenticated(ctx, id, e.playerControl(target))
}

func (e *Engine) openAuthenticated(ctx context.Context, id model.ParticipantID, d dialog.Dialog) error {
	info, err := e.registry.Participant(id)
	if err != nil {
		return err
	}
	if !info.Authenticated() {
		e.registry.Notify(id, noticeNotLoggedIn)
		return model.ErrNotAuthenticated
	}
	return e.registry.Open(ctx, id, d)
}

// self loads the calling participant and its profile, telling the
// participant when it is not logged in
func (e *Engine) self(c *dialog.Context) (session.Info, *model.Profile, bool) {
	info, err := e.registry.Participant(c.Participant)
	if err != nil {
		e.logNotFound(c.Participant, err)
		return info, nil, false
	}
	if !info.Authenticated() {
		e.registry.Notify(c.Participant, noticeNotLoggedIn)
		return info, nil, false
	}
	profile, err := e.accounts.GetProfile(c, info.Profile)
	if err != nil {
		e.fail(c.Participant, err)
		return info, nil, false
	}
	return info, profile, true
}

// target loads another participant and, if logged in, its profile
func (e *Engine) target(ctx context.Context, id model.ParticipantID) (session.Info, *model.Profile, error) {
	info, err := e.registry.Participant(id)
	if err != nil {
		return info, nil, err
	}
	if !info.Authenticated() {
		return info, nil, model.ErrNotAuthenticated
	}
	profile, err := e.accounts.GetProfile(ctx, info.Profile)
	if err != nil {
		return info, nil, err
	}
	return info, profile, nil
}

// notifyProfile sends a notice to whoever is logged in as profile
func (e *Engine) notifyProfile(profile model.ID, text string) {
	if info, ok := e.registry.FindByProfile(profile); ok {
		e.registry.Notify(info.ID, text)
	}
}

// fail tells the participant why an action did not happen
func (e *Engine) fail(id model.ParticipantID, err error) {
	if errors.Is(err, model.ErrParticipantNotFound) || errors.Is(err, model.ErrProfileNotFound) {
		e.logNotFound(id, err)
	}
	e.registry.Notify(id, notice(err))
}

// push opens d on another participant's stack from inside a handler
func (e *Engine) push(ctx context.Context, id model.ParticipantID, d dialog.Dialog) {
	if err := e.registry.Push(ctx, id, d); err != nil {
		e.logNotFound(id, err)
	}
}

// worldFailed logs a world side effect that did not happen
func (e *Engine) worldFailed(id model.ParticipantID, action string, err error) {
	if err == nil {
		return
	}
	e.logger.Error("world action failed",
		slog.Int("participant_id", int(id)),
		slog.String("action", action),
		slog.String("error", err.Error()),
	)
}

func (e *Engine) logNotFound(id model.ParticipantID, err error) {
	e.logger.Warn("dialog target vanished",
		slog.Int("participant_id", int(id)),
		slog.String("error", err.Error()),
	)
}
