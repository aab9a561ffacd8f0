// internal/adapter/storage/manpower_store.go

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

// manpowerColumns maps filter columns onto the manpower query
var manpowerColumns = map[string]string{
	"first_name":          text("mp.first_name"),
	"last_name":           text("mp.last_name"),
	"full_name":           "CONCAT_WS(' ', mp.first_name, mp.last_name)",
	"email":               text("mp.email"),
	"mobile_number":       text("mp.mobile_number"),
	"whatsapp_number":     text("mp.whatsapp_number"),
	"national_id":         text("mp.national_id"),
	"location":            text("mp.location"),
	"job_title":           text("mp.job_title"),
	"availability_status": text("mp.availability_status"),
	"rate":                text("mp.rate"),
	"profile_description": text("mp.profile_description"),
	"profile_type":        text("mp.profile_type"),
	"is_active":           "COALESCE(u.is_active, TRUE)",
}

const manpowerSelect = `
	SELECT
		mp.id, mp.user_id, COALESCE(mp.profile_type, ''),
		COALESCE(mp.first_name, ''), COALESCE(mp.last_name, ''),
		COALESCE(mp.email, ''), COALESCE(mp.mobile_number, ''), COALESCE(mp.whatsapp_number, ''),
		COALESCE(mp.national_id, ''), COALESCE(mp.location, ''), COALESCE(mp.job_title, ''),
		COALESCE(mp.availability_status, ''), mp.available_from, COALESCE(mp.rate, ''),
		COALESCE(mp.profile_description, ''), COALESCE(mp.profile_photo, ''), COALESCE(mp.cv_path, ''),
		mp.certificates, COALESCE(u.user_type, ''), COALESCE(u.is_active, TRUE),
		COALESCE(cp.name, ''), COALESCE(cp.company_name, ''),
		mp.created_at, mp.last_modified
	FROM manpower_profiles mp
	LEFT JOIN users u ON mp.user_id = u.id
	LEFT JOIN consultant_profiles cp ON mp.user_id = cp.user_id
`

// ManpowerStore implements search.ManpowerStore on Postgres
type ManpowerStore struct {
	db *pgxpool.Pool
}

// NewManpowerStore creates a new manpower store
func NewManpowerStore(db *pgxpool.Pool) *ManpowerStore {
	return &ManpowerStore{
		db: db,
	}
}

// FindManpower returns profiles matching the filter, most recent first
func (s *ManpowerStore) FindManpower(ctx context.Context, filter search.Filter) ([]listing.Manpower, error) {
	clause, args := whereClause(filter, manpowerColumns, "mp.created_at DESC, mp.id")

	// Execute query
	rows, err := s.db.Query(ctx, manpowerSelect+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	// Parse results
	var profiles []listing.Manpower
	for rows.Next() {
		m, err := scanManpower(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating manpower: %w", err)
	}

	return profiles, nil
}

// GetManpower retrieves a profile by ID
func (s *ManpowerStore) GetManpower(ctx context.Context, id uuid.UUID) (*listing.Manpower, error) {
	m, err := scanManpower(s.db.QueryRow(ctx, manpowerSelect+" WHERE mp.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, search.ErrNotFound
		}
		return nil, err
	}

	return &m, nil
}

// TopJobTitles returns the most common trimmed job titles
func (s *ManpowerStore) TopJobTitles(ctx context.Context, limit int) ([]listing.TitleCount, error) {
	query := `
		SELECT TRIM(job_title) AS title, COUNT(*) AS count
		FROM manpower_profiles
		WHERE job_title IS NOT NULL AND TRIM(job_title) != ''
		GROUP BY TRIM(job_title)
		ORDER BY count DESC, title
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var titles []listing.TitleCount
	for rows.Next() {
		var t listing.TitleCount
		if err := rows.Scan(&t.Name, &t.Count); err != nil {
			return nil, fmt.Errorf("error scanning job title: %w", err)
		}
		titles = append(titles, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job titles: %w", err)
	}

	return titles, nil
}

func scanManpower(row pgx.Row) (listing.Manpower, error) {
	var m listing.Manpower
	var certificates []byte
	var active bool

	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.ProfileType,
		&m.FirstName,
		&m.LastName,
		&m.Email,
		&m.MobileNumber,
		&m.WhatsappNumber,
		&m.NationalID,
		&m.Location,
		&m.JobTitle,
		&m.AvailabilityStatus,
		&m.AvailableFrom,
		&m.Rate,
		&m.Description,
		&m.ProfilePhoto,
		&m.CVPath,
		&certificates,
		&m.UserType,
		&active,
		&m.ConsultantName,
		&m.ConsultantCompany,
		&m.CreatedAt,
		&m.LastModified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m, err
		}
		return m, fmt.Errorf("error scanning manpower: %w", err)
	}

	// Side data is decoded by the search service
	m.Certificates = certificates
	m.AccountActive = &active

	return m, nil
}
