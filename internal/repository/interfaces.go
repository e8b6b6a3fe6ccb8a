// Package repository defines data access interfaces for yasem entities.
package repository

import (
	"context"

	"github.com/jmylchreest/yasem/internal/models"
)

// ProfileRepository defines operations for device profile persistence.
// Lookups of missing profiles return (nil, nil).
type ProfileRepository interface {
	// Create creates a new profile, generating an ID when none is set.
	Create(ctx context.Context, profile *models.Profile) error
	// GetByID retrieves a profile by ID.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// GetAll retrieves all profiles ordered by name.
	GetAll(ctx context.Context) ([]*models.Profile, error)
	// Update updates an existing profile.
	Update(ctx context.Context, profile *models.Profile) error
	// Upsert creates the profile or replaces the stored one with the same ID.
	Upsert(ctx context.Context, profile *models.Profile) error
	// Delete deletes a profile by ID.
	Delete(ctx context.Context, id string) error
	// Count returns the number of stored profiles.
	Count(ctx context.Context) (int64, error)
}
