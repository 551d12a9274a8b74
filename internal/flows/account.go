package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/session"
)

// onConnect asks a new participant to log in or register under its connection name
func (e *Engine) onConnect(ctx context.Context, p session.Info) {
	_, err := e.accounts.FindByLogName(ctx, p.Name)
	switch {
	case err == nil:
		e.await(ctx, p.ID, session.StateAwaitLogin, e.loginDialog())
	case errors.Is(err, model.ErrProfileNotFound):
		e.await(ctx, p.ID, session.StateAwaitRegister, e.registerDialog())
	default:
		e.logger.Error("failed to look up profile on connect",
			slog.Int("participant_id", int(p.ID)),
			slog.String("error", err.Error()),
		)
		e.registry.Notify(p.ID, noticeGeneric)
	}
}

// await moves a fresh participant into a waiting state and opens its dialog
func (e *Engine) await(ctx context.Context, id model.ParticipantID, state session.AuthState, d dialog.Dialog) {
	if err := e.registry.SetState(id, state); err != nil {
		e.logger.Warn("connect state not applied",
			slog.Int("participant_id", int(id)),
			slog.String("state", state.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	e.push(ctx, id, d)
}

// onDisconnect adds the finished session to the profile's play time
func (e *Engine) onDisconnect(ctx context.Context, p session.Info) {
	e.world.Forget(p.ID)
	if !p.Authenticated() {
		return
	}
	if err := e.accounts.AddPlayTime(ctx, p.Profile, e.registry.SessionLength(p)); err != nil {
		e.logger.Error("failed to record play time",
			slog.String("profile_id", p.Profile.Hex()),
			slog.String("error", err.Error()),
		)
	}
}

func (e *Engine) registerDialog() *dialog.Input {
	return &dialog.Input{
		Title:    "Register",
		Password: true,
		Prompt: func(c *dialog.Context, state dialog.PromptState) string {
			info, _ := e.registry.Participant(c.Participant)
			switch state {
			case dialog.PromptRequired:
				return fmt.Sprintf("%s, you must register before you can play. Choose a password:", info.Name)
			case dialog.PromptError:
				return "Registration failed. Choose a password of at least 6 characters:"
			default:
				return fmt.Sprintf("Welcome %s! Choose a password to register:", info.Name)
			}
		},
		Submit: func(c *dialog.Context, password string) dialog.InputResult {
			info, err := e.registry.Participant(c.Participant)
			if err != nil {
				e.logNotFound(c.Participant, err)
				return dialog.InputDone
			}
			if info.Authenticated() {
				e.registry.Notify(c.Participant, notice(model.ErrAlreadyAuthenticated))
				return dialog.InputDone
			}

			profile, err := e.accounts.CreateProfile(c, info.Name, info.Name, password)
			if errors.Is(err, model.ErrAlreadyRegistered) {
				e.registry.Notify(c.Participant, notice(err))
				return dialog.InputDone
			}
			if err != nil {
				e.fail(c.Participant, err)
				return dialog.InputInvalid
			}
			if err := e.registry.Authenticate(c.Participant, profile.ID); err != nil {
				e.fail(c.Participant, err)
				return dialog.InputDone
			}
			e.registry.Notify(c.Participant, "Registered and logged in.")
			return dialog.InputDone
		},
		Cancel: func(c *dialog.Context) dialog.InputResult {
			return dialog.InputRequired
		},
	}
}

func (e *Engine) loginDialog() *dialog.Input {
	return &dialog.Input{
		Title:    "Login",
		Password: true,
		Prompt: func(c *dialog.Context, state dialog.PromptState) string {
			info, _ := e.registry.Participant(c.Participant)
			switch state {
			case dialog.PromptRequired:
				return fmt.Sprintf("%s, you must log in before you can play. Enter your password:", info.Name)
			case dialog.PromptError:
				return "Wrong password. Enter your password:"
			default:
				return fmt.Sprintf("Welcome back %s! Enter your password:", info.Name)
			}
		},
		Submit: func(c *dialog.Context, password string) dialog.InputResult {
			info, err := e.registry.Participant(c.Participant)
			if err != nil {
				e.logNotFound(c.Participant, err)
				return dialog.InputDone
			}
			if info.Authenticated() {
				e.registry.Notify(c.Participant, notice(model.ErrAlreadyAuthenticated))
				return dialog.InputDone
			}

			profile, err := e.accounts.VerifyPassword(c, info.Name, password)
			if err != nil {
				if !errors.Is(err, model.ErrInvalidCredentials) {
					e.fail(c.Participant, err)
				}
				return dialog.InputInvalid
			}
			if err := e.registry.Authenticate(c.Participant, profile.ID); err != nil {
				e.fail(c.Participant, err)
				return dialog.InputDone
			}
			e.registry.Notify(c.Participant, "Logged in.")
			e.applyStatus(c.Participant, profile)
			return dialog.InputDone
		},
		Cancel: func(c *dialog.Context) dialog.InputResult {
			return dialog.InputRequired
		},
	}
}

// applyStatus enforces the persisted status flags on a fresh login
func (e *Engine) applyStatus(id model.ParticipantID, profile *model.Profile) {
	if profile.Flags.Banned {
		e.registry.Notify(id, "You are banned from this server.")
		e.worldFailed(id, "kick", e.world.Kick(id))
		return
	}
	if profile.Flags.Frozen {
		e.worldFailed(id, "freeze", e.world.SetControllable(id, false))
	}
	if profile.Flags.Jailed {
		e.registry.Notify(id, "You are still serving your jail term.")
	}
}
