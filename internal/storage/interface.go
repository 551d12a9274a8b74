package storage

import (
	"context"

	"github.com/mcoot/freestreet/internal/model"
)

// Storage defines the interface for data persistence.
// Save operations are upserts; implementations keep the unique name indexes in step
// and reject a save that would claim a name held by another record.
type Storage interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, id model.ID) (*model.Profile, error)
	GetProfileByLogName(ctx context.Context, logName string) (*model.Profile, error)

	// Crew operations
	SaveCrew(ctx context.Context, crew *model.Crew) error
	GetCrew(ctx context.Context, id model.ID) (*model.Crew, error)
	GetCrewByName(ctx context.Context, name string) (*model.Crew, error)
	// FindCrewsByName returns crews whose name contains keyword, case-insensitively
	FindCrewsByName(ctx context.Context, keyword string) ([]*model.Crew, error)
}
