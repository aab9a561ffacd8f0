// internal/adapter/storage/job_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"marketplace/internal/domain/listing"
	"marketplace/internal/domain/search"
)

// jobColumns maps filter columns onto the job query
var jobColumns = map[string]string{
	"job_title":        text("j.job_title"),
	"company_name":     text("j.company_name"),
	"location":         text("j.location"),
	"job_type":         text("j.job_type"),
	"experience_level": text("j.experience_level"),
	"salary_range":     text("j.salary_range"),
	"description":      text("j.description"),
	"requirements":     text("j.requirements"),
	"industry":         text("j.industry"),
	"status":           text("j.status"),
	"expiry_date":      "j.expiry_date",
	"company_email":    text("jpp.email"),
	"company_mobile":   text("jpp.mobile_number"),
}

const jobSelect = `
	SELECT
		j.id, j.user_id, COALESCE(j.job_title, ''), COALESCE(j.company_name, ''),
		COALESCE(j.location, ''), COALESCE(j.job_type, ''), COALESCE(j.experience_level, ''),
		COALESCE(j.salary_range, ''), COALESCE(j.description, ''), COALESCE(j.requirements, ''),
		COALESCE(j.industry, ''), COALESCE(j.status, ''), j.posted_date, j.expiry_date,
		COALESCE(j.views_count, 0),
		COALESCE(jpp.company_logo, ''), COALESCE(jpp.company_size, ''),
		COALESCE(jpp.email, ''), COALESCE(jpp.mobile_number, '')
	FROM jobs j
	LEFT JOIN job_poster_profiles jpp ON j.user_id = jpp.user_id
`

// JobStore implements search.JobStore on Postgres
type JobStore struct {
	db *pgxpool.Pool
}

// NewJobStore creates a new job store
func NewJobStore(db *pgxpool.Pool) *JobStore {
	return &JobStore{
		db: db,
	}
}

// FindJobs returns jobs matching the filter, most recently posted first
func (s *JobStore) FindJobs(ctx context.Context, filter search.Filter) ([]listing.Job, error) {
	clause, args := whereClause(filter, jobColumns, "j.posted_date DESC, j.id")

	// Execute query
	rows, err := s.db.Query(ctx, jobSelect+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	// Parse results
	var jobs []listing.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

// GetJob retrieves a job by ID
func (s *JobStore) GetJob(ctx context.Context, id uuid.UUID) (*listing.Job, error) {
	j, err := scanJob(s.db.QueryRow(ctx, jobSelect+" WHERE j.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, search.ErrNotFound
		}
		return nil, err
	}

	return &j, nil
}

// IncrementJobViews bumps the view counter of a job
func (s *JobStore) IncrementJobViews(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `UPDATE jobs SET views_count = COALESCE(views_count, 0) + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return search.ErrNotFound
	}

	return nil
}

func scanJob(row pgx.Row) (listing.Job, error) {
	var j listing.Job

	err := row.Scan(
		&j.ID,
		&j.UserID,
		&j.JobTitle,
		&j.CompanyName,
		&j.Location,
		&j.JobType,
		&j.ExperienceLevel,
		&j.SalaryRange,
		&j.Description,
		&j.Requirements,
		&j.Industry,
		&j.Status,
		&j.PostedDate,
		&j.ExpiryDate,
		&j.ViewsCount,
		&j.CompanyLogo,
		&j.CompanySize,
		&j.CompanyEmail,
		&j.CompanyMobile,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return j, err
		}
		return j, fmt.Errorf("error scanning job: %w", err)
	}

	return j, nil
}
