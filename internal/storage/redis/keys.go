package redis

import (
	"fmt"

	"github.com/mcoot/freestreet/internal/model"
)

// Key prefix for all server data
const keyPrefix = "freestreet"

// profileKey returns the Redis key for a Profile document
func profileKey(id model.ID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id.Hex())
}

// logNameIndexKey returns the Redis key for the login name -> profile id index
func logNameIndexKey(logName string) string {
	return fmt.Sprintf("%s:idx:logname:%s", keyPrefix, logName)
}

// crewKey returns the Redis key for a Crew document
func crewKey(id model.ID) string {
	return fmt.Sprintf("%s:crew:%s", keyPrefix, id.Hex())
}

// crewNameIndexKey returns the Redis key for the HASH of crew name -> crew id.
// The hash doubles as the search space for name lookups.
func crewNameIndexKey() string {
	return fmt.Sprintf("%s:idx:crewname", keyPrefix)
}
