package model

import "time"

// CrewTier is a member's standing within a crew. The leader is tracked on the crew itself.
type CrewTier string

const (
	TierNone    CrewTier = ""
	TierPending CrewTier = "pending"
	TierMember  CrewTier = "member"
	TierLeader  CrewTier = "leader"
)

// String returns the label shown in member lists
func (t CrewTier) String() string {
	switch t {
	case TierPending:
		return "Pending"
	case TierMember:
		return "Member"
	case TierLeader:
		return "Leader"
	default:
		return "None"
	}
}

// CrewMember is one roster entry. The leader never appears in the roster.
type CrewMember struct {
	Profile ID       `json:"profile"`
	Tier    CrewTier `json:"tier"`
}

// Crew is a named group with exactly one leader once created
type Crew struct {
	ID        ID           `json:"id"`
	Name      string       `json:"name"`
	Leader    ID           `json:"leader"`
	Members   []CrewMember `json:"members"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// HasLeader reports whether a leader has been set
func (c *Crew) HasLeader() bool {
	return !c.Leader.IsZero()
}

// GetMember returns the roster entry for a profile, or nil if not found
func (c *Crew) GetMember(profile ID) *CrewMember {
	for i := range c.Members {
		if c.Members[i].Profile == profile {
			return &c.Members[i]
		}
	}
	return nil
}

// TierOf returns the tier of a profile, including TierLeader for the leader
func (c *Crew) TierOf(profile ID) CrewTier {
	if c.HasLeader() && c.Leader == profile {
		return TierLeader
	}
	if m := c.GetMember(profile); m != nil {
		return m.Tier
	}
	return TierNone
}

// RemoveMember drops a roster entry, reporting whether one was removed
func (c *Crew) RemoveMember(profile ID) bool {
	for i, m := range c.Members {
		if m.Profile == profile {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return true
		}
	}
	return false
}
