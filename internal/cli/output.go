package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case []Participant:
		o.printParticipants(v)
	case Profile:
		o.printProfile(v)
	case []Crew:
		o.printCrews(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type (matches API)
type HealthResult struct {
	Status       string `json:"status"`
	Participants int    `json:"participants"`
}

// Participant response type
type Participant struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	State       string    `json:"state"`
	ProfileID   string    `json:"profile_id,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Profile response type
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

// CrewMember response type
type CrewMember struct {
	ProfileID string `json:"profile_id"`
	LogName   string `json:"log_name"`
	Tier      string `json:"tier"`
}

// Crew response type
type Crew struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Members []CrewMember `json:"members"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Participants: %d\n", h.Participants)
}

func (o *Output) printParticipants(ps []Participant) {
	if len(ps) == 0 {
		fmt.Fprintln(o.w, "No participants connected")
		return
	}
	for _, p := range ps {
		fmt.Fprintf(o.w, "%3d  %-24s %s\n", p.ID, p.Name, p.State)
	}
}

func (o *Output) printProfile(p Profile) {
	fmt.Fprintf(o.w, "Login name: %s\n", p.LogName)
	fmt.Fprintf(o.w, "Nickname: %s\n", p.Nickname)
	fmt.Fprintf(o.w, "Joined: %s\n", p.JoinedAt.Format(time.DateOnly))
	fmt.Fprintf(o.w, "Play time: %s\n", time.Duration(p.PlayTime)*time.Second)
	fmt.Fprintf(o.w, "Admin level: %d\n", p.AdminLevel)
	fmt.Fprintf(o.w, "Police rank: %s\n", p.PoliceRank)
	fmt.Fprintf(o.w, "Wanted level: %d\n", p.WantedLevel)

	var flags []string
	for _, f := range []struct {
		name string
		set  bool
	}{{"jailed", p.Jailed}, {"muted", p.Muted}, {"frozen", p.Frozen}, {"banned", p.Banned}} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	if len(flags) > 0 {
		fmt.Fprintf(o.w, "Status: %s\n", strings.Join(flags, ", "))
	}
}

func (o *Output) printCrews(crews []Crew) {
	if len(crews) == 0 {
		fmt.Fprintln(o.w, "No crews found")
		return
	}
	for i, c := range crews {
		if i > 0 {
			fmt.Fprintln(o.w)
		}
		fmt.Fprintf(o.w, "%s (%d members)\n", c.Name, len(c.Members))
		for _, m := range c.Members {
			fmt.Fprintf(o.w, "  %-8s %s\n", m.Tier, m.LogName)
		}
	}
}
