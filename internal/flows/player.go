package flows

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/policy"
	"github.com/mcoot/freestreet/internal/services/police"
)

var wantedLabels = [...]string{
	"Not wanted",
	"1 star",
	"2 stars",
	"3 stars",
	"4 stars",
	"5 stars",
	"6 stars",
}

var adminLevelLabels = [...]string{
	"No admin rights",
	"Level 1 moderator",
	"Level 2 administrator",
	"Level 3 leader",
}

// playerControl lists what the caller may do to target. Items the caller is
// not authorized for are left out, and every action re-checks on use.
func (e *Engine) playerControl(target model.ParticipantID) *dialog.Menu {
	return &dialog.Menu{
		Title: "Player",
		Build: func(c *dialog.Context, b *dialog.MenuBuilder) {
			_, actor, ok := e.self(c)
			if !ok {
				return
			}
			info, subject, err := e.target(c, target)
			if info.Name != "" {
				b.SetTitle(info.Name)
			}

			b.Add("Send message", func(c *dialog.Context) {
				c.Push(e.sendMessageDialog(target))
			})
			b.Add("View profile", func(c *dialog.Context) {
				c.Push(e.viewProfileDialog(target))
			})
			if errors.Is(err, model.ErrNotAuthenticated) {
				for _, action := range policy.AdminActions(actor.AdminLevel, e.world.InVehicle(target)) {
					if !policy.NeedsProfile(action) {
						b.Add(adminLabel(action, nil), e.adminAction(action, target))
					}
				}
				return
			}
			if err != nil {
				return
			}
			b.SetTitle(subject.LogName)

			if d, ok := e.world.Distance(c.Participant, target); ok && policy.CanArrest(actor, subject, d) {
				b.Add("Arrest", func(c *dialog.Context) {
					c.Push(e.arrestDialog(target))
				})
			}
			if policy.CanOfferWanted(actor, subject) {
				b.Add("Set wanted level", func(c *dialog.Context) {
					c.Push(e.wantedLevelDialog(target))
				})
			}
			if policy.CanRelease(actor, subject) {
				subjectID := subject.ID
				b.Add("Release", func(c *dialog.Context) {
					e.release(c, subjectID)
				})
			}

			for _, action := range policy.AdminActions(actor.AdminLevel, e.world.InVehicle(target)) {
				b.Add(adminLabel(action, subject), e.adminAction(action, target))
			}
		},
	}
}

func adminLabel(action policy.AdminAction, target *model.Profile) string {
	switch action {
	case policy.ActionGoTo:
		return "Teleport to player"
	case policy.ActionBringHere:
		return "Bring player here"
	case policy.ActionToggleMute:
		if target.Flags.Muted {
			return "Unmute"
		}
		return "Mute"
	case policy.ActionEject:
		return "Eject from vehicle"
	case policy.ActionToggleFreeze:
		if target.Flags.Frozen {
			return "Unfreeze"
		}
		return "Freeze"
	case policy.ActionKill:
		return "Reset health"
	case policy.ActionRespawn:
		return "Force respawn"
	case policy.ActionKick:
		return "Kick"
	case policy.ActionExplode:
		return "Explode"
	case policy.ActionBan:
		return "Ban"
	case policy.ActionSetAdminLevel:
		return "Change admin level"
	case policy.ActionSetPoliceRank:
		return "Change police rank"
	default:
		return "Unknown action"
	}
}

// adminAction returns the menu action for an admin tier item
func (e *Engine) adminAction(action policy.AdminAction, target model.ParticipantID) func(c *dialog.Context) {
	return func(c *dialog.Context) {
		_, actor, ok := e.self(c)
		if !ok {
			return
		}
		if !policy.Permits(actor.AdminLevel, action) {
			e.fail(c.Participant, model.ErrInsufficientAdminLevel)
			return
		}
		_, subject, err := e.target(c, target)
		if errors.Is(err, model.ErrNotAuthenticated) && !policy.NeedsProfile(action) {
			err = nil
		}
		if err != nil {
			e.fail(c.Participant, err)
			return
		}

		switch action {
		case policy.ActionGoTo:
			err = e.world.Teleport(c.Participant, target)
		case policy.ActionBringHere:
			err = e.world.Teleport(target, c.Participant)
		case policy.ActionToggleMute:
			var muted bool
			if muted, err = e.police.ToggleMute(c, actor.ID, subject.ID); err == nil && muted {
				e.registry.Notify(target, "You have been muted.")
			}
		case policy.ActionEject:
			err = e.world.Eject(target)
		case policy.ActionToggleFreeze:
			var frozen bool
			if frozen, err = e.police.ToggleFreeze(c, actor.ID, subject.ID); err == nil {
				err = e.world.SetControllable(target, !frozen)
			}
		case policy.ActionKill:
			err = e.world.Kill(target)
		case policy.ActionRespawn:
			err = e.world.Respawn(target)
		case policy.ActionKick:
			err = e.world.Kick(target)
		case policy.ActionExplode:
			err = e.world.Explode(target)
		case policy.ActionBan:
			if err = e.police.Ban(c, actor.ID, subject.ID); err == nil {
				err = e.world.Kick(target)
			}
		case policy.ActionSetAdminLevel:
			c.Push(e.adminLevelDialog(target))
		case policy.ActionSetPoliceRank:
			c.Push(e.policeRankDialog(target))
		}
		if err != nil {
			e.fail(c.Participant, err)
			return
		}

		e.logger.Info("admin action",
			slog.Int("actor", int(c.Participant)),
			slog.Int("target", int(target)),
			slog.String("action", adminLabel(action, subject)),
		)
	}
}

func (e *Engine) arrestDialog(target model.ParticipantID) *dialog.Menu {
	return &dialog.Menu{
		Title: "Arrest",
		Build: func(c *dialog.Context, b *dialog.MenuBuilder) {
			for _, term := range police.ArrestTerms {
				b.Add(fmt.Sprintf("Jail for %d minutes", int(term/time.Minute)), func(c *dialog.Context) {
					e.arrest(c, target, term)
				})
			}
		},
	}
}

func (e *Engine) arrest(c *dialog.Context, target model.ParticipantID, term time.Duration) {
	_, actor, ok := e.self(c)
	if !ok {
		return
	}
	_, subject, err := e.target(c, target)
	if err != nil {
		e.fail(c.Participant, err)
		return
	}
	// The suspect may have been released or walked away since the menu was built
	if d, ok := e.world.Distance(c.Participant, target); !ok || !policy.CanArrest(actor, subject, d) {
		if subject.WantedLevel > 0 {
			e.registry.Notify(c.Participant, "The suspect is out of reach.")
		}
		return
	}
	if err := e.police.Arrest(c, actor.ID, subject.ID, term); err != nil {
		if !errors.Is(err, model.ErrNotWanted) {
			e.fail(c.Participant, err)
		}
		return
	}
	e.registry.Notify(c.Participant, fmt.Sprintf("%s has been jailed.", subject.LogName))
	e.registry.Notify(target, fmt.Sprintf("You have been jailed for %d minutes.", int(term/time.Minute)))
}

func (e *Engine) release(c *dialog.Context, subject model.ID) {
	_, actor, ok := e.self(c)
	if !ok {
		return
	}
	if err := e.police.Release(c, actor.ID, subject); err != nil {
		e.fail(c.Participant, err)
		return
	}
	e.registry.Notify(c.Participant, "Player released.")
	e.notifyProfile(subject, "You have been released from jail.")
}

func (e *Engine) wantedLevelDialog(target model.ParticipantID) *dialog.RadioList[int] {
	return dialog.NewRadioList[int]("Set wanted level",
		func(c *dialog.Context, b *dialog.ListBuilder[int]) {
			_, actor, ok := e.self(c)
			if !ok {
				return
			}
			_, subject, err := e.target(c, target)
			if err != nil {
				e.fail(c.Participant, err)
				return
			}
			r, ok := policy.WantedRange(actor.PoliceRank)
			if !ok {
				return
			}
			for _, level := range r.Levels() {
				b.AddSelected(level, wantedLabels[level], level == subject.WantedLevel)
			}
		},
		func(c *dialog.Context, level int) bool {
			_, actor, ok := e.self(c)
			if !ok {
				return true
			}
			_, subject, err := e.target(c, target)
			if err != nil {
				e.fail(c.Participant, err)
				return true
			}
			if err := e.police.SetWantedLevel(c, actor.ID, subject.ID, level); err != nil {
				e.fail(c.Participant, err)
				return false
			}
			e.registry.Notify(c.Participant, fmt.Sprintf("%s: %s.", subject.LogName, wantedLabels[level]))
			if level > 0 {
				e.registry.Notify(target, fmt.Sprintf("You are wanted: %s.", wantedLabels[level]))
				e.push(c, target, e.surrenderDialog())
			}
			return true
		},
	)
}

// surrenderDialog offers a wanted participant the short surrender term
func (e *Engine) surrenderDialog() *dialog.Confirm {
	return &dialog.Confirm{
		Title: "Wanted",
		Text: fmt.Sprintf("You are wanted. You can surrender (only %d minutes in jail) or run. Surrender?",
			int(police.SurrenderTerm/time.Minute)),
		OnAccept: func(c *dialog.Context) {
			info, err := e.registry.Participant(c.Participant)
			if err != nil || !info.Authenticated() {
				return
			}
			if err := e.police.Surrender(c, info.Profile); err != nil {
				if !errors.Is(err, model.ErrNotWanted) {
					e.fail(c.Participant, err)
				}
				return
			}
			e.registry.Notify(c.Participant, "You surrendered to the police.")
		},
	}
}

func (e *Engine) adminLevelDialog(target model.ParticipantID) *dialog.RadioList[int] {
	return dialog.NewRadioList[int]("Set admin level",
		func(c *dialog.Context, b *dialog.ListBuilder[int]) {
			_, subject, err := e.target(c, target)
			if err != nil {
				e.fail(c.Participant, err)
				return
			}
			for level := model.MinAdminLevel; level <= model.MaxAdminLevel; level++ {
				b.AddSelected(level, adminLevelLabels[level], level == subject.AdminLevel)
			}
		},
		func(c *dialog.Context, level int) bool {
			_, actor, ok := e.self(c)
			if !ok {
				return true
			}
			_, subject, err := e.target(c, target)
			if err != nil {
				e.fail(c.Participant, err)
				return true
			}
			if err := e.police.SetAdminLevel(c, actor.ID, subject.ID, level); err != nil {
				e.fail(c.Participant, err)
				return false
			}
			e.registry.Notify(target, "Your admin level is now "+adminLevelLabels[level]+".")
			return true
		},
	)
}

func (e *Engine) policeRankDialog(target model.ParticipantID) *dialog.RadioList[model.PoliceRank] {
	return dialog.NewRadioList[model.PoliceRank]("Set police rank",
		func(c *dialog.Context, b *dialog.ListBuilder[model.PoliceRank]) {
			_, subject, err := e.target(c, target)
			if err != nil {
				e.fail(c.Participant, err)
				return
			}
			for _, rank := range model.AllPoliceRanks() {
				b.AddSelected(rank, rank.String(), rank == subject.PoliceRank)
			}
		},
		func(c *dialog.Context, rank model.PoliceRank) bool {
			_, actor, ok := e.self(c)
			if !ok {
				return true
			}
			_, subject, err := e.target(c, target)
			if err != nil {
				e.fail(c.Participant, err)
				return true
			}
			if err := e.police.SetPoliceRank(c, actor.ID, subject.ID, rank); err != nil {
				e.fail(c.Participant, err)
				return false
			}
			e.registry.Notify(target, "Your police rank is now "+rank.String()+".")
			return true
		},
	)
}
