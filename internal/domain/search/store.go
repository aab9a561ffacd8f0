// internal/domain/search/store.go

package search

import (
	"context"

	"github.com/google/uuid"

	"marketplace/internal/domain/listing"
)

// ManpowerStore is the record store for manpower profiles
type ManpowerStore interface {
	// FindManpower returns profiles matching the filter, most recent first
	FindManpower(ctx context.Context, filter Filter) ([]listing.Manpower, error)

	// GetManpower returns a single profile or ErrNotFound
	GetManpower(ctx context.Context, id uuid.UUID) (*listing.Manpower, error)

	// TopJobTitles returns the most common trimmed job titles with counts
	TopJobTitles(ctx context.Context, limit int) ([]listing.TitleCount, error)
}

// JobStore is the record store for job listings
type JobStore interface {
	// FindJobs returns jobs matching the filter, most recently posted first
	FindJobs(ctx context.Context, filter Filter) ([]listing.Job, error)

	// GetJob returns a single job or ErrNotFound
	GetJob(ctx context.Context, id uuid.UUID) (*listing.Job, error)

	// IncrementJobViews bumps the view counter of a job
	IncrementJobViews(ctx context.Context, id uuid.UUID) error
}

// EquipmentStore is the record store for equipment listings
type EquipmentStore interface {
	// FindEquipment returns equipment matching the filter, most recent first
	FindEquipment(ctx context.Context, filter Filter) ([]listing.Equipment, error)

	// EquipmentLocations returns the distinct locations of active equipment
	EquipmentLocations(ctx context.Context) ([]string, error)
}
