package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/freestreet/internal/dependencies/clock"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/policy"
	"github.com/mcoot/freestreet/internal/storage"
)

// MinPasswordLength is the shortest password accepted at registration or change
const MinPasswordLength = 6

// Service owns profile credentials and the self-service profile edits
type Service struct {
	storage      storage.Storage
	clock        clock.Clock
	logger       *slog.Logger
	passwordCost int
}

// Config holds configuration for the account service
type Config struct {
	PasswordCost int
}

// DefaultConfig returns default account configuration
func DefaultConfig() Config {
	return Config{
		PasswordCost: bcrypt.DefaultCost,
	}
}

// New creates a new account Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = DefaultConfig().PasswordCost
	}
	return &Service{
		storage:      storage,
		clock:        clock,
		logger:       logger.With(slog.String("component", "account")),
		passwordCost: cfg.PasswordCost,
	}
}

// CreateProfile registers a new profile with a hashed password
func (s *Service) CreateProfile(ctx context.Context, logName, nickname, password string) (*model.Profile, error) {
	logName = strings.TrimSpace(logName)
	if logName == "" {
		return nil, model.ErrEmptyName
	}
	if len(password) < MinPasswordLength {
		return nil, model.ErrPasswordTooShort
	}
	if strings.TrimSpace(nickname) == "" {
		nickname = logName
	}

	_, err := s.storage.GetProfileByLogName(ctx, logName)
	if err == nil {
		return nil, model.ErrAlreadyRegistered
	}
	if !errors.Is(err, model.ErrProfileNotFound) {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	profile := &model.Profile{
		ID:           model.NewID(),
		LogName:      logName,
		Nickname:     nickname,
		PasswordHash: hash,
		JoinedAt:     now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		s.logSaveFailure(profile.ID, err)
		return nil, err
	}

	s.logger.Info("profile registered",
		slog.String("profile_id", profile.ID.Hex()),
		slog.String("logname", logName),
	)
	return profile, nil
}

// VerifyPassword checks a login attempt and returns the matching profile
func (s *Service) VerifyPassword(ctx context.Context, logName, password string) (*model.Profile, error) {
	profile, err := s.storage.GetProfileByLogName(ctx, logName)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return profile, nil
}

// ChangePassword replaces the credential digest of a profile
func (s *Service) ChangePassword(ctx context.Context, id model.ID, password string) error {
	if len(password) < MinPasswordLength {
		return model.ErrPasswordTooShort
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.update(ctx, id, func(p *model.Profile) error {
		p.PasswordHash = hash
		return nil
	})
}

// ChangeLogName renames the login of a profile. Names stay unique.
func (s *Service) ChangeLogName(ctx context.Context, id model.ID, logName string) error {
	logName = strings.TrimSpace(logName)
	if logName == "" {
		return model.ErrEmptyName
	}
	return s.update(ctx, id, func(p *model.Profile) error {
		p.LogName = logName
		return nil
	})
}

// ChangeNickname sets the display name of a profile
func (s *Service) ChangeNickname(ctx context.Context, id model.ID, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return model.ErrEmptyName
	}
	return s.update(ctx, id, func(p *model.Profile) error {
		p.Nickname = nickname
		return nil
	})
}

// AddPlayTime accumulates a finished session into the profile's play time
func (s *Service) AddPlayTime(ctx context.Context, id model.ID, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return s.update(ctx, id, func(p *model.Profile) error {
		p.PlayTime += d
		return nil
	})
}

// GrantAdminLevel sets an admin level without an acting operator. Used to bootstrap operators.
func (s *Service) GrantAdminLevel(ctx context.Context, logName string, level int) error {
	if err := policy.CheckAdminLevel(model.MaxAdminLevel, level); err != nil {
		return err
	}
	profile, err := s.storage.GetProfileByLogName(ctx, logName)
	if err != nil {
		return err
	}
	return s.update(ctx, profile.ID, func(p *model.Profile) error {
		p.AdminLevel = level
		return nil
	})
}

// GrantPoliceRank sets a police rank without an acting operator
func (s *Service) GrantPoliceRank(ctx context.Context, logName string, rank model.PoliceRank) error {
	if err := policy.CheckPoliceRank(model.MaxAdminLevel, rank); err != nil {
		return err
	}
	profile, err := s.storage.GetProfileByLogName(ctx, logName)
	if err != nil {
		return err
	}
	return s.update(ctx, profile.ID, func(p *model.Profile) error {
		p.PoliceRank = rank
		return nil
	})
}

// GetProfile retrieves a profile by ID
func (s *Service) GetProfile(ctx context.Context, id model.ID) (*model.Profile, error) {
	return s.storage.GetProfile(ctx, id)
}

// FindByLogName retrieves a profile by login name
func (s *Service) FindByLogName(ctx context.Context, logName string) (*model.Profile, error) {
	return s.storage.GetProfileByLogName(ctx, logName)
}

// update loads a profile fresh, applies fn and saves the result
func (s *Service) update(ctx context.Context, id model.ID, fn func(p *model.Profile) error) error {
	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(profile); err != nil {
		return err
	}
	profile.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		s.logSaveFailure(id, err)
		return err
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) logSaveFailure(id model.ID, err error) {
	if errors.Is(err, model.ErrLogNameTaken) {
		return
	}
	s.logger.Error("failed to save profile",
		slog.String("profile_id", id.Hex()),
		slog.String("error", err.Error()),
	)
}
