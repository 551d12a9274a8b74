package model

import "time"

// PoliceRank is the ordered police hierarchy. Comparisons rely on the declaration order.
type PoliceRank int

const (
	Civilian PoliceRank = iota
	PoliceOfficer
	PoliceDeputyChief
	ChiefOfPolice
)

var policeRankNames = [...]string{
	Civilian:          "Civilian",
	PoliceOfficer:     "Police Officer",
	PoliceDeputyChief: "Deputy Chief of Police",
	ChiefOfPolice:     "Chief of Police",
}

// AllPoliceRanks lists ranks from lowest to highest
func AllPoliceRanks() []PoliceRank {
	return []PoliceRank{Civilian, PoliceOfficer, PoliceDeputyChief, ChiefOfPolice}
}

// IsValid reports whether the rank is one of the declared ranks
func (r PoliceRank) IsValid() bool {
	return r >= Civilian && r <= ChiefOfPolice
}

func (r PoliceRank) String() string {
	if !r.IsValid() {
		return "Unknown"
	}
	return policeRankNames[r]
}

// Admin and wanted level bounds
const (
	MinAdminLevel  = 0
	MaxAdminLevel  = 3
	MinWantedLevel = 0
	MaxWantedLevel = 6
)

// StatusFlags holds the independent status capabilities of a profile
type StatusFlags struct {
	Jailed bool `json:"jailed"`
	Muted  bool `json:"muted"`
	Frozen bool `json:"frozen"`
	Banned bool `json:"banned"`
}

// Profile is the persisted record of a registered player. Profiles are never deleted.
type Profile struct {
	ID           ID            `json:"id"`
	LogName      string        `json:"logname"`
	Nickname     string        `json:"nickname"`
	PasswordHash string        `json:"password_hash"` // bcrypt
	AdminLevel   int           `json:"admin_level"`
	PoliceRank   PoliceRank    `json:"police_rank"`
	WantedLevel  int           `json:"wanted_level"`
	Flags        StatusFlags   `json:"flags"`
	Crew         ID            `json:"crew"` // NilID when not in a crew
	JailedUntil  time.Time     `json:"jailed_until"`
	JoinedAt     time.Time     `json:"joined_at"`
	PlayTime     time.Duration `json:"play_time"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// InCrew reports whether the profile references a crew
func (p *Profile) InCrew() bool {
	return !p.Crew.IsZero()
}

// ClampWantedLevel bounds a wanted level to [MinWantedLevel, MaxWantedLevel]
func ClampWantedLevel(level int) int {
	return clamp(level, MinWantedLevel, MaxWantedLevel)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
