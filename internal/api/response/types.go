package response

import (
	"time"

	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/services/crew"
	"github.com/mcoot/freestreet/internal/session"
)

// Health is the response of the health check
type Health struct {
	Status       string `json:"status"`
	Participants int    `json:"participants"`
}

// Participant represents a connected participant
type Participant struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	State       string    `json:"state"`
	ProfileID   string    `json:"profile_id,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

// ParticipantFromInfo converts a session.Info
func ParticipantFromInfo(p session.Info) Participant {
	resp := Participant{
		ID:          int(p.ID),
		Name:        p.Name,
		State:       p.State.String(),
		ConnectedAt: p.ConnectedAt,
	}
	if p.Authenticated() {
		resp.ProfileID = p.Profile.Hex()
	}
	return resp
}

// Profile represents a persisted player profile. The password digest is never exposed.
type Profile struct {
	ID          string    `json:"id"`
	LogName     string    `json:"log_name"`
	Nickname    string    `json:"nickname"`
	JoinedAt    time.Time `json:"joined_at"`
	PlayTime    int64     `json:"play_time_seconds"`
	AdminLevel  int       `json:"admin_level"`
	PoliceRank  string    `json:"police_rank"`
	WantedLevel int       `json:"wanted_level"`
	Jailed      bool      `json:"jailed"`
	Muted       bool      `json:"muted"`
	Frozen      bool      `json:"frozen"`
	Banned      bool      `json:"banned"`
	CrewID      string    `json:"crew_id,omitempty"`
}

// ProfileFromModel converts a model.Profile
func ProfileFromModel(p *model.Profile) Profile {
	resp := Profile{
		ID:          p.ID.Hex(),
		LogName:     p.LogName,
		Nickname:    p.Nickname,
		JoinedAt:    p.JoinedAt,
		PlayTime:    int64(p.PlayTime / time.Second),
		AdminLevel:  p.AdminLevel,
		PoliceRank:  p.PoliceRank.String(),
		WantedLevel: p.WantedLevel,
		Jailed:      p.Flags.Jailed,
		Muted:       p.Flags.Muted,
		Frozen:      p.Flags.Frozen,
		Banned:      p.Flags.Banned,
	}
	if p.InCrew() {
		resp.CrewID = p.Crew.Hex()
	}
	return resp
}

// CrewMember represents one crew roster entry
type CrewMember struct {
	ProfileID string `json:"profile_id"`
	LogName   string `json:"log_name"`
	Tier      string `json:"tier"`
}

// Crew represents a crew with its resolved roster, leader first
type Crew struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Members []CrewMember `json:"members"`
}

// CrewFromModel converts a model.Crew and its resolved members
func CrewFromModel(c *model.Crew, members []crew.Member) Crew {
	resp := Crew{
		ID:      c.ID.Hex(),
		Name:    c.Name,
		Members: make([]CrewMember, len(members)),
	}
	for i, m := range members {
		resp.Members[i] = CrewMember{
			ProfileID: m.Profile.Hex(),
			LogName:   m.LogName,
			Tier:      string(m.Tier),
		}
	}
	return resp
}
