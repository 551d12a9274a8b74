package flows

import (
	"errors"
	"log/slog"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/policy"
)

// CrewPick is the continuation run when a crew is chosen from search results.
// It reports whether the choice was accepted.
type CrewPick func(c *dialog.Context, crewID model.ID) bool

func (e *Engine) crewPanel() *dialog.Menu {
	return &dialog.Menu{
		Title: "Crew",
		Build: func(c *dialog.Context, b *dialog.MenuBuilder) {
			_, profile, ok := e.self(c)
			if !ok {
				return
			}

			if profile.InCrew() {
				crew, err := e.crews.GetCrew(c, profile.Crew)
				if err == nil {
					e.buildMemberPanel(b, profile, crew)
					return
				}
				if !errors.Is(err, model.ErrCrewNotFound) {
					e.fail(c.Participant, err)
					return
				}
				e.logger.Warn("profile references missing crew",
					slog.String("profile_id", profile.ID.Hex()),
					slog.String("crew_id", profile.Crew.Hex()),
				)
			}

			b.Add("Create crew", func(c *dialog.Context) {
				c.Push(e.createCrewDialog())
			})
			b.Add("Join crew", func(c *dialog.Context) {
				c.Push(e.findCrewDialog(e.applyToJoin(profile.ID)))
			})
		},
	}
}

func (e *Engine) buildMemberPanel(b *dialog.MenuBuilder, profile *model.Profile, crew *model.Crew) {
	tier := crew.TierOf(profile.ID)
	label := "My crew: " + crew.Name
	if tier == model.TierPending {
		label += " (pending)"
	}
	b.Add(label, nil)

	crewID, me := crew.ID, profile.ID
	if tier != model.TierLeader {
		b.Add("Leave crew", func(c *dialog.Context) {
			if err := e.crews.RemoveMember(c, crewID, me, me); err != nil {
				e.fail(c.Participant, err)
				return
			}
			e.registry.Notify(c.Participant, "You left the crew.")
		})
		return
	}
	b.Add("Change crew name", func(c *dialog.Context) {
		c.Push(e.renameCrewDialog(crewID))
	})
	b.Add("View members", func(c *dialog.Context) {
		c.Push(e.crewMembersDialog(crewID))
	})
}

func (e *Engine) createCrewDialog() *dialog.Input {
	return &dialog.Input{
		Title: "Create crew",
		Prompt: func(c *dialog.Context, state dialog.PromptState) string {
			if state == dialog.PromptError {
				return "Crew creation failed. Choose another name:"
			}
			return "Name your crew:"
		},
		Submit: func(c *dialog.Context, name string) dialog.InputResult {
			_, profile, ok := e.self(c)
			if !ok {
				return dialog.InputDone
			}
			if _, err := e.crews.CreateCrew(c, profile.ID, name); err != nil {
				e.fail(c.Participant, err)
				if errors.Is(err, model.ErrAlreadyInCrew) {
					return dialog.InputDone
				}
				return dialog.InputInvalid
			}
			e.registry.Notify(c.Participant, "Crew created.")
			return dialog.InputDone
		},
	}
}

func (e *Engine) findCrewDialog(pick CrewPick) *dialog.Input {
	return &dialog.Input{
		Title: "Find crew",
		Prompt: func(c *dialog.Context, state dialog.PromptState) string {
			return "Enter the name of the crew:"
		},
		Submit: func(c *dialog.Context, keyword string) dialog.InputResult {
			c.Push(e.crewResultsDialog(keyword, pick))
			return dialog.InputDone
		},
	}
}

func (e *Engine) crewResultsDialog(keyword string, pick CrewPick) *dialog.ItemList[model.ID] {
	return dialog.NewItemList[model.ID]("Find crew",
		func(c *dialog.Context, b *dialog.ListBuilder[model.ID]) {
			crews, err := e.crews.FindByName(c, keyword)
			if err != nil {
				e.fail(c.Participant, err)
				return
			}
			if len(crews) == 0 {
				b.SetBody("No crew found.")
			}
			for _, crew := range crews {
				b.Add(crew.ID, crew.Name)
			}
		},
		pick,
	)
}

// applyToJoin is the continuation of the join flow
func (e *Engine) applyToJoin(applicant model.ID) CrewPick {
	return func(c *dialog.Context, crewID model.ID) bool {
		if err := e.crews.ApplyToJoin(c, crewID, applicant); err != nil {
			e.fail(c.Participant, err)
			return false
		}
		e.registry.Notify(c.Participant, "Application sent.")
		if crew, err := e.crews.GetCrew(c, crewID); err == nil {
			e.notifyProfile(crew.Leader, "A new player applied to join your crew.")
		}
		return true
	}
}

func (e *Engine) renameCrewDialog(crewID model.ID) *dialog.Input {
	return &dialog.Input{
		Title: "Change crew name",
		Prompt: func(c *dialog.Context, state dialog.PromptState) string {
			if state == dialog.PromptError {
				return "Renaming failed. Enter another name:"
			}
			return "Enter the new name:"
		},
		Submit: func(c *dialog.Context, name string) dialog.InputResult {
			_, profile, ok := e.self(c)
			if !ok {
				return dialog.InputDone
			}
			err := e.crews.Rename(c, crewID, profile.ID, name)
			switch {
			case err == nil:
				e.registry.Notify(c.Participant, "Crew renamed.")
				return dialog.InputDone
			case errors.Is(err, model.ErrNotLeader), errors.Is(err, model.ErrCrewNotFound):
				e.fail(c.Participant, err)
				return dialog.InputDone
			default:
				e.fail(c.Participant, err)
				return dialog.InputInvalid
			}
		},
	}
}

func (e *Engine) crewMembersDialog(crewID model.ID) *dialog.ItemList[model.ID] {
	return dialog.NewItemList[model.ID]("Crew members",
		func(c *dialog.Context, b *dialog.ListBuilder[model.ID]) {
			members, err := e.crews.Members(c, crewID)
			if err != nil {
				e.fail(c.Participant, err)
				return
			}
			for _, m := range members {
				b.Add(m.Profile, m.Tier.String()+"\t"+m.LogName)
			}
		},
		func(c *dialog.Context, member model.ID) bool {
			c.Push(e.editMemberDialog(crewID, member))
			return true
		},
	)
}

func (e *Engine) editMemberDialog(crewID, member model.ID) *dialog.Menu {
	return &dialog.Menu{
		Title: "Edit member",
		Build: func(c *dialog.Context, b *dialog.MenuBuilder) {
			_, profile, ok := e.self(c)
			if !ok {
				return
			}
			crew, err := e.crews.GetCrew(c, crewID)
			if err != nil {
				e.fail(c.Participant, err)
				return
			}
			if !policy.CanEditMember(crew, profile.ID, member) {
				return
			}

			if target, err := e.accounts.GetProfile(c, member); err == nil {
				b.Add("Login name: "+target.LogName, nil)
			}

			actor := profile.ID
			switch crew.TierOf(member) {
			case model.TierPending:
				b.Add("Approve", func(c *dialog.Context) {
					if err := e.crews.ApproveToJoin(c, crewID, actor, member); err != nil {
						e.fail(c.Participant, err)
						return
					}
					e.registry.Notify(c.Participant, "Member approved.")
					e.notifyProfile(member, "Your crew application was approved.")
				})
			case model.TierMember:
				b.Add("Tier: "+model.TierMember.String(), nil)
				b.Add("Expel", func(c *dialog.Context) {
					if err := e.crews.RemoveMember(c, crewID, actor, member); err != nil {
						e.fail(c.Participant, err)
						return
					}
					e.registry.Notify(c.Participant, "Member expelled.")
					e.notifyProfile(member, "You were expelled from your crew.")
				})
			}
		},
	}
}
