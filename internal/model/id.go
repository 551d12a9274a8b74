package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// ID is the 12-byte opaque identifier used for every persisted entity
type ID = primitive.ObjectID

// NilID is the zero ID, used for "no reference"
var NilID ID

// NewID generates a fresh entity ID
func NewID() ID {
	return primitive.NewObjectID()
}

// ParseID decodes a 24-character hex ID
func ParseID(s string) (ID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return NilID, ErrInvalidID
	}
	return id, nil
}

// ParticipantID identifies a connected client slot. Slots are reused after disconnect.
type ParticipantID int
