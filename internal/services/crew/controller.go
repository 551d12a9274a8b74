package crew

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/freestreet/internal/dependencies/clock"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/policy"
	"github.com/mcoot/freestreet/internal/storage"
)

// Member is a roster line resolved for display
type Member struct {
	Profile model.ID
	LogName string
	Tier    model.CrewTier
}

// Controller manages the crew hierarchy state machine
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new crew Controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "crew")),
	}
}

// CreateCrew founds a new crew led by the given profile
func (c *Controller) CreateCrew(ctx context.Context, leaderID model.ID, name string) (*model.Crew, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}

	leader, err := c.storage.GetProfile(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	if leader.InCrew() {
		return nil, model.ErrAlreadyInCrew
	}

	crew, err := c.storage.GetCrewByName(ctx, name)
	switch {
	case err == nil:
		// A crew of that name already exists; only a leaderless record may be claimed
		if crew.HasLeader() {
			return nil, model.ErrCrewHasLeader
		}
	case errors.Is(err, model.ErrCrewNotFound):
		crew = &model.Crew{
			ID:        model.NewID(),
			Name:      name,
			Members:   []model.CrewMember{},
			CreatedAt: c.clock.Now(),
		}
	default:
		return nil, err
	}

	crew.Leader = leaderID
	crew.UpdatedAt = c.clock.Now()
	if err := c.saveCrew(ctx, crew); err != nil {
		return nil, err
	}

	leader.Crew = crew.ID
	leader.UpdatedAt = c.clock.Now()
	if err := c.saveProfile(ctx, leader); err != nil {
		return nil, err
	}

	c.logger.Info("crew created",
		slog.String("crew_id", crew.ID.Hex()),
		slog.String("name", crew.Name),
		slog.String("leader_id", leaderID.Hex()),
	)
	return crew, nil
}

// GetCrew retrieves a crew by ID
func (c *Controller) GetCrew(ctx context.Context, crewID model.ID) (*model.Crew, error) {
	return c.storage.GetCrew(ctx, crewID)
}

// FindByName returns crews whose name contains keyword
func (c *Controller) FindByName(ctx context.Context, keyword string) ([]*model.Crew, error) {
	return c.storage.FindCrewsByName(ctx, keyword)
}

// ApplyToJoin adds a profile that belongs to no crew as a pending applicant
func (c *Controller) ApplyToJoin(ctx context.Context, crewID, applicantID model.ID) error {
	applicant, err := c.storage.GetProfile(ctx, applicantID)
	if err != nil {
		return err
	}
	if !policy.CanApplyToJoin(applicant) {
		return model.ErrAlreadyInCrew
	}

	crew, err := c.storage.GetCrew(ctx, crewID)
	if err != nil {
		return err
	}
	if crew.TierOf(applicantID) != model.TierNone {
		return model.ErrAlreadyInCrew
	}

	crew.Members = append(crew.Members, model.CrewMember{
		Profile: applicantID,
		Tier:    model.TierPending,
	})
	crew.UpdatedAt = c.clock.Now()
	if err := c.saveCrew(ctx, crew); err != nil {
		return err
	}

	applicant.Crew = crewID
	applicant.UpdatedAt = c.clock.Now()
	return c.saveProfile(ctx, applicant)
}

// ApproveToJoin promotes a pending applicant to member. Leader only.
func (c *Controller) ApproveToJoin(ctx context.Context, crewID, actorID, memberID model.ID) error {
	crew, err := c.storage.GetCrew(ctx, crewID)
	if err != nil {
		return err
	}
	if !policy.CanRenameCrew(crew, actorID) {
		return model.ErrNotLeader
	}
	if !policy.CanApprove(crew, actorID, memberID) {
		return model.ErrNotPending
	}

	crew.GetMember(memberID).Tier = model.TierMember
	crew.UpdatedAt = c.clock.Now()
	return c.saveCrew(ctx, crew)
}

// RemoveMember drops a pending applicant or member. Members may remove themselves;
// the leader may remove anyone else. The leader is never removed.
func (c *Controller) RemoveMember(ctx context.Context, crewID, actorID, memberID model.ID) error {
	crew, err := c.storage.GetCrew(ctx, crewID)
	if err != nil {
		return err
	}
	if crew.Leader == memberID {
		return model.ErrCannotRemoveLeader
	}
	if crew.TierOf(memberID) == model.TierNone {
		return model.ErrNotInCrew
	}
	if !policy.CanRemoveMember(crew, actorID, memberID) {
		return model.ErrNotLeader
	}

	crew.RemoveMember(memberID)
	crew.UpdatedAt = c.clock.Now()
	if err := c.saveCrew(ctx, crew); err != nil {
		return err
	}

	member, err := c.storage.GetProfile(ctx, memberID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			c.logger.Warn("removed member has no profile",
				slog.String("crew_id", crewID.Hex()),
				slog.String("profile_id", memberID.Hex()),
			)
			return nil
		}
		return err
	}
	if member.Crew == crewID {
		member.Crew = model.NilID
		member.UpdatedAt = c.clock.Now()
		return c.saveProfile(ctx, member)
	}
	return nil
}

// Rename changes the crew name. Leader only.
func (c *Controller) Rename(ctx context.Context, crewID, actorID model.ID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ErrEmptyName
	}

	crew, err := c.storage.GetCrew(ctx, crewID)
	if err != nil {
		return err
	}
	if !policy.CanRenameCrew(crew, actorID) {
		return model.ErrNotLeader
	}

	crew.Name = name
	crew.UpdatedAt = c.clock.Now()
	return c.saveCrew(ctx, crew)
}

// Members resolves the roster with login names, leader first
func (c *Controller) Members(ctx context.Context, crewID model.ID) ([]Member, error) {
	crew, err := c.storage.GetCrew(ctx, crewID)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(crew.Members)+1)
	if crew.HasLeader() {
		members = append(members, c.resolve(ctx, crew.Leader, model.TierLeader))
	}
	for _, m := range crew.Members {
		members = append(members, c.resolve(ctx, m.Profile, m.Tier))
	}
	return members, nil
}

func (c *Controller) resolve(ctx context.Context, id model.ID, tier model.CrewTier) Member {
	member := Member{Profile: id, Tier: tier}
	if profile, err := c.storage.GetProfile(ctx, id); err == nil {
		member.LogName = profile.LogName
	}
	return member
}

func (c *Controller) saveCrew(ctx context.Context, crew *model.Crew) error {
	if err := c.storage.SaveCrew(ctx, crew); err != nil {
		if !errors.Is(err, model.ErrCrewNameTaken) {
			c.logger.Error("failed to save crew",
				slog.String("crew_id", crew.ID.Hex()),
				slog.String("error", err.Error()),
			)
		}
		return err
	}
	return nil
}

func (c *Controller) saveProfile(ctx context.Context, profile *model.Profile) error {
	if err := c.storage.SaveProfile(ctx, profile); err != nil {
		c.logger.Error("failed to save profile",
			slog.String("profile_id", profile.ID.Hex()),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
