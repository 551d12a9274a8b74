package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
)

func (e *Engine) controlPanel() *dialog.Menu {
	return &dialog.Menu{
		Title: "Control panel",
		Build: func(c *dialog.Context, b *dialog.MenuBuilder) {
			_, profile, ok := e.self(c)
			if !ok {
				return
			}
			b.Add("My profile", func(c *dialog.Context) {
				c.Push(e.editProfile())
			})
			b.Add("Crew", func(c *dialog.Context) {
				c.Push(e.crewPanel())
			})
			if profile.WantedLevel > 0 {
				b.Add("Surrender", func(c *dialog.Context) {
					c.Push(e.surrenderDialog())
				})
			}
		},
	}
}

func (e *Engine) editProfile() *dialog.Menu {
	return &dialog.Menu{
		Title: "My profile",
		Build: func(c *dialog.Context, b *dialog.MenuBuilder) {
			_, profile, ok := e.self(c)
			if !ok {
				return
			}
			b.Add("Login name: "+profile.LogName, func(c *dialog.Context) {
				c.Push(e.changeLogNameDialog())
			})
			b.Add("Change password", func(c *dialog.Context) {
				c.Push(e.changePasswordDialog())
			})
			b.Add("Nickname: "+profile.Nickname, func(c *dialog.Context) {
				c.Push(e.changeNicknameDialog())
			})
			b.Add(fmt.Sprintf("Admin level: %d", profile.AdminLevel), nil)
			b.Add("Police rank: "+profile.PoliceRank.String(), nil)
			b.Add("View profile", func(c *dialog.Context) {
				c.Push(e.viewProfileDialog(c.Participant))
			})
		},
	}
}

// profileInput builds the shared shape of the self-service edit dialogs
func (e *Engine) profileInput(
	title, prompt, failed string,
	password bool,
	apply func(ctx context.Context, profile model.ID, text string) error,
	success string,
) *dialog.Input {
	return &dialog.Input{
		Title:    title,
		Password: password,
		Prompt: func(c *dialog.Context, state dialog.PromptState) string {
			if state == dialog.PromptError {
				return failed
			}
			return prompt
		},
		Submit: func(c *dialog.Context, text string) dialog.InputResult {
			info, err := e.registry.Participant(c.Participant)
			if err != nil {
				e.logNotFound(c.Participant, err)
				return dialog.InputDone
			}
			if !info.Authenticated() {
				e.registry.Notify(c.Participant, noticeNotLoggedIn)
				return dialog.InputDone
			}
			if err := apply(c, info.Profile, text); err != nil {
				e.fail(c.Participant, err)
				return dialog.InputInvalid
			}
			e.registry.Notify(c.Participant, success)
			return dialog.InputDone
		},
	}
}

func (e *Engine) changePasswordDialog() *dialog.Input {
	return e.profileInput(
		"Change password",
		"Enter your new password:",
		"Could not change the password. Use at least 6 characters:",
		true,
		e.accounts.ChangePassword,
		"Password changed.",
	)
}

func (e *Engine) changeLogNameDialog() *dialog.Input {
	return e.profileInput(
		"Change login name",
		"Enter your new login name:",
		"Could not change the login name. Try another one:",
		false,
		e.accounts.ChangeLogName,
		"Login name changed.",
	)
}

func (e *Engine) changeNicknameDialog() *dialog.Input {
	return e.profileInput(
		"Change nickname",
		"Enter your new nickname:",
		"Could not change the nickname. Try another one:",
		false,
		e.accounts.ChangeNickname,
		"Nickname changed.",
	)
}

func (e *Engine) viewProfileDialog(target model.ParticipantID) *dialog.Message {
	return &dialog.Message{
		Title: "Profile",
		Text: func(c *dialog.Context) string {
			info, profile, err := e.target(c, target)
			if err != nil {
				if errors.Is(err, model.ErrNotAuthenticated) {
					return info.Name + " is not logged in."
				}
				return notice(err)
			}
			var sb strings.Builder
			fmt.Fprintf(&sb, "ID: %s\n", profile.ID.Hex())
			fmt.Fprintf(&sb, "Login name: %s\n", profile.LogName)
			fmt.Fprintf(&sb, "Nickname: %s\n", profile.Nickname)
			fmt.Fprintf(&sb, "Joined: %s\n", profile.JoinedAt.Format(time.DateTime))
			fmt.Fprintf(&sb, "Play time: %s\n", profile.PlayTime.Round(time.Minute))
			fmt.Fprintf(&sb, "Admin level: %d\n", profile.AdminLevel)
			fmt.Fprintf(&sb, "Police rank: %s", profile.PoliceRank)
			return sb.String()
		},
	}
}

func (e *Engine) sendMessageDialog(target model.ParticipantID) *dialog.Input {
	return &dialog.Input{
		Title: "Private message",
		Prompt: func(c *dialog.Context, state dialog.PromptState) string {
			return "Enter your message:"
		},
		Submit: func(c *dialog.Context, text string) dialog.InputResult {
			from, err := e.registry.Participant(c.Participant)
			if err != nil {
				e.logNotFound(c.Participant, err)
				return dialog.InputDone
			}
			to, err := e.registry.Participant(target)
			if err != nil {
				e.registry.Notify(c.Participant, "That player is offline.")
				return dialog.InputDone
			}
			if text == "" {
				return dialog.InputAgain
			}

			e.registry.Notify(target, fmt.Sprintf("PM from %s(%d): %s", from.Name, from.ID, text))
			e.registry.Notify(c.Participant, fmt.Sprintf("PM to %s(%d): %s", to.Name, to.ID, text))
			e.logger.Info("private message",
				slog.Int("from", int(from.ID)),
				slog.Int("to", int(to.ID)),
				slog.String("text", text),
			)
			return dialog.InputAgain
		},
	}
}
