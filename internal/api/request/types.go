package request

import (
	"errors"
	"net/http"
	"strings"
)

// CrewSearch is the query of GET /api/v1/crews
type CrewSearch struct {
	Name string
}

// ParseCrewSearch reads the crew search query from r
func ParseCrewSearch(r *http.Request) (CrewSearch, error) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		return CrewSearch{}, errors.New("name is required")
	}
	return CrewSearch{Name: name}, nil
}
