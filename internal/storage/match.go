package storage

import (
	"sort"
	"strings"

	"github.com/mcoot/freestreet/internal/model"
)

// NameMatches reports whether a crew name matches a search keyword
func NameMatches(name, keyword string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(keyword))
}

// SortCrewsByName orders search results so listings are stable
func SortCrewsByName(crews []*model.Crew) {
	sort.Slice(crews, func(i, j int) bool {
		return crews[i].Name < crews[j].Name
	})
}
