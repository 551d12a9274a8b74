package memory

import (
	"context"
	"sync"

	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	profiles      map[model.ID]model.Profile
	logNameIndex  map[string]model.ID
	crews         map[model.ID]model.Crew
	crewNameIndex map[string]model.ID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles:      make(map[model.ID]model.Profile),
		logNameIndex:  make(map[string]model.ID),
		crews:         make(map[model.ID]model.Crew),
		crewNameIndex: make(map[string]model.ID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.logNameIndex[profile.LogName]; ok && owner != profile.ID {
		return model.ErrLogNameTaken
	}
	if old, ok := s.profiles[profile.ID]; ok && old.LogName != profile.LogName {
		delete(s.logNameIndex, old.LogName)
	}
	s.profiles[profile.ID] = *profile
	s.logNameIndex[profile.LogName] = profile.ID
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id model.ID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return &profile, nil
}

func (s *Storage) GetProfileByLogName(ctx context.Context, logName string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.logNameIndex[logName]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return &profile, nil
}

// Crew operations

func (s *Storage) SaveCrew(ctx context.Context, crew *model.Crew) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.crewNameIndex[crew.Name]; ok && owner != crew.ID {
		return model.ErrCrewNameTaken
	}
	if old, ok := s.crews[crew.ID]; ok && old.Name != crew.Name {
		delete(s.crewNameIndex, old.Name)
	}
	s.crews[crew.ID] = copyCrew(crew)
	s.crewNameIndex[crew.Name] = crew.ID
	return nil
}

func (s *Storage) GetCrew(ctx context.Context, id model.ID) (*model.Crew, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	crew, ok := s.crews[id]
	if !ok {
		return nil, model.ErrCrewNotFound
	}
	c := copyCrew(&crew)
	return &c, nil
}

func (s *Storage) GetCrewByName(ctx context.Context, name string) (*model.Crew, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.crewNameIndex[name]
	if !ok {
		return nil, model.ErrCrewNotFound
	}
	crew, ok := s.crews[id]
	if !ok {
		return nil, model.ErrCrewNotFound
	}
	c := copyCrew(&crew)
	return &c, nil
}

func (s *Storage) FindCrewsByName(ctx context.Context, keyword string) ([]*model.Crew, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var crews []*model.Crew
	for _, crew := range s.crews {
		if storage.NameMatches(crew.Name, keyword) {
			c := copyCrew(&crew)
			crews = append(crews, &c)
		}
	}
	storage.SortCrewsByName(crews)
	return crews, nil
}

func copyCrew(crew *model.Crew) model.Crew {
	c := *crew
	c.Members = make([]model.CrewMember, len(crew.Members))
	copy(c.Members, crew.Members)
	return c
}
