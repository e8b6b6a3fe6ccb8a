package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/jmylchreest/yasem/internal/config"
	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/models"
	"github.com/jmylchreest/yasem/internal/repository"
)

// ProfileService resolves stored profiles into emulated devices.
type ProfileService struct {
	repo   repository.ProfileRepository
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *ProfileService) WithLogger(logger *slog.Logger) *ProfileService {
	s.logger = logger
	return s
}

// GetByID retrieves a profile by ID.
func (s *ProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.ErrProfileNotFound
	}
	return profile, nil
}

// GetAll retrieves all profiles.
func (s *ProfileService) GetAll(ctx context.Context) ([]*models.Profile, error) {
	return s.repo.GetAll(ctx)
}

// DeviceProfile returns the emulation view of a stored profile.
func (s *ProfileService) DeviceProfile(ctx context.Context, id string) (*emulation.DeviceProfile, error) {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dp := ToDeviceProfile(profile)
	return &dp, nil
}

// Script renders the emulation script delivered to a portal page.
func (s *ProfileService) Script(ctx context.Context, id string) (string, error) {
	dp, err := s.DeviceProfile(ctx, id)
	if err != nil {
		return "", err
	}
	family, err := emulation.FamilyFor(dp.ClassID)
	if err != nil {
		return "", err
	}
	cfg := dp.EffectiveConfig()
	script, err := family.BuildScript(family.DefaultState(cfg), cfg)
	if err != nil {
		return "", fmt.Errorf("building %s script for profile %s: %w", dp.ClassID, id, err)
	}
	return script, nil
}

// Create stores a new profile after checking its family exists.
func (s *ProfileService) Create(ctx context.Context, profile *models.Profile) error {
	if err := checkFamily(profile); err != nil {
		return err
	}
	if profile.Name == "" {
		profile.Name = profile.ClassID
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return fmt.Errorf("creating profile: %w", err)
	}
	s.logger.InfoContext(ctx, "created profile",
		slog.String("profile_id", profile.ID),
		slog.String("class_id", profile.ClassID),
	)
	return nil
}

// Update overwrites a stored profile.
func (s *ProfileService) Update(ctx context.Context, profile *models.Profile) error {
	if err := checkFamily(profile); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, profile); err != nil {
		return fmt.Errorf("updating profile %s: %w", profile.ID, err)
	}
	return nil
}

// Delete removes a stored profile.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting profile %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "deleted profile", slog.String("profile_id", id))
	return nil
}

// Import adds profiles that do not exist yet. Entries missing an id, name
// or family, naming an unknown family, or colliding with a stored id are
// skipped.
func (s *ProfileService) Import(ctx context.Context, profiles []*models.Profile) (added, skipped int, err error) {
	for _, p := range profiles {
		if p == nil || p.ID == "" || p.Name == "" || p.ClassID == "" || checkFamily(p) != nil {
			skipped++
			continue
		}
		existing, err := s.repo.GetByID(ctx, p.ID)
		if err != nil {
			return added, skipped, fmt.Errorf("importing profile %s: %w", p.ID, err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if err := s.repo.Create(ctx, p); err != nil {
			var verr models.ErrValidation
			if errors.As(err, &verr) {
				skipped++
				continue
			}
			return added, skipped, fmt.Errorf("importing profile %s: %w", p.ID, err)
		}
		added++
	}
	s.logger.InfoContext(ctx, "imported profiles",
		slog.Int("added", added),
		slog.Int("skipped", skipped),
	)
	return added, skipped, nil
}

func checkFamily(profile *models.Profile) error {
	if _, err := emulation.FamilyFor(profile.ClassID); err != nil {
		return models.ErrValidation{Field: "class_id", Message: err.Error()}
	}
	return nil
}

// Seed upserts the configured profiles. Profiles naming an unknown family
// are rejected before anything is written.
func (s *ProfileService) Seed(ctx context.Context, seeds []config.ProfileConfig) (int, error) {
	for _, p := range seeds {
		if _, err := emulation.FamilyFor(p.ClassID); err != nil {
			return 0, fmt.Errorf("seeding profile %s: %w", p.ID, err)
		}
	}

	for i, p := range seeds {
		profile := &models.Profile{
			ID:       p.ID,
			Name:     p.Name,
			ClassID:  p.ClassID,
			Submodel: p.Submodel,
			Portal:   p.Portal,
			Config:   maps.Clone(p.Config),
		}
		if profile.Name == "" {
			profile.Name = p.ID
		}
		if err := s.repo.Upsert(ctx, profile); err != nil {
			return i, fmt.Errorf("seeding profile %s: %w", p.ID, err)
		}
		s.logger.DebugContext(ctx, "seeded profile",
			slog.String("profile_id", p.ID),
			slog.String("class_id", p.ClassID),
		)
	}
	return len(seeds), nil
}

// ToDeviceProfile converts a stored profile into the emulation view.
func ToDeviceProfile(p *models.Profile) emulation.DeviceProfile {
	return emulation.DeviceProfile{
		ID:        p.ID,
		ClassID:   p.ClassID,
		Submodel:  p.SubmodelName(),
		PortalURL: p.PortalURL(),
		Config:    maps.Clone(p.Config),
	}
}
