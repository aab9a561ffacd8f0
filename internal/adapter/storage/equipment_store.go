// internal/adapter/storage/equipment_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"marketplace/internal/domain/listing"
	"marketplace/internal/domain/search"
)

// equipmentColumns maps filter columns onto the equipment query
var equipmentColumns = map[string]string{
	"equipment_name": text("e.equipment_name"),
	"equipment_type": text("e.equipment_type"),
	"availability":   text("e.availability"),
	"location":       text("e.location"),
	"contact_person": text("e.contact_person"),
	"contact_number": text("e.contact_number"),
	"contact_email":  text("e.contact_email"),
	"description":    text("e.description"),
	"is_active":      "e.is_active",
	"owner_name":     text("eop.name"),
	"owner_email":    text("eop.email"),
	"owner_mobile":   text("eop.mobile_number"),
	"owner_company":  text("eop.company_name"),
}

const equipmentSelect = `
	SELECT
		e.id, e.user_id, COALESCE(e.equipment_name, ''), COALESCE(e.equipment_type, ''),
		COALESCE(e.availability, ''), COALESCE(e.location, ''),
		COALESCE(e.contact_person, ''), COALESCE(e.contact_number, ''), COALESCE(e.contact_email, ''),
		COALESCE(e.description, ''), e.equipment_images, e.equipment_documents,
		COALESCE(e.is_active, FALSE),
		COALESCE(eop.name, ''), COALESCE(eop.email, ''), COALESCE(eop.mobile_number, ''),
		COALESCE(eop.whatsapp_number, ''), COALESCE(eop.company_name, ''),
		e.created_at
	FROM equipment e
	LEFT JOIN equipment_owner_profiles eop ON e.user_id = eop.user_id
`

// EquipmentStore implements search.EquipmentStore on Postgres
type EquipmentStore struct {
	db *pgxpool.Pool
}

// NewEquipmentStore creates a new equipment store
func NewEquipmentStore(db *pgxpool.Pool) *EquipmentStore {
	return &EquipmentStore{
		db: db,
	}
}

// FindEquipment returns equipment matching the filter, most recent first
func (s *EquipmentStore) FindEquipment(ctx context.Context, filter search.Filter) ([]listing.Equipment, error) {
	clause, args := whereClause(filter, equipmentColumns, "e.created_at DESC, e.id")

	// Execute query
	rows, err := s.db.Query(ctx, equipmentSelect+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	// Parse results
	var items []listing.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equipment: %w", err)
	}

	return items, nil
}

// EquipmentLocations returns the distinct locations of active equipment
func (s *EquipmentStore) EquipmentLocations(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT TRIM(location) AS location
		FROM equipment
		WHERE is_active = TRUE AND location IS NOT NULL AND TRIM(location) != ''
		ORDER BY location ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("error scanning location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

func scanEquipment(row pgx.Row) (listing.Equipment, error) {
	var e listing.Equipment
	var images, documents []byte

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&e.Type,
		&e.Availability,
		&e.Location,
		&e.ContactPerson,
		&e.ContactNumber,
		&e.ContactEmail,
		&e.Description,
		&images,
		&documents,
		&e.IsActive,
		&e.OwnerName,
		&e.OwnerEmail,
		&e.OwnerMobile,
		&e.OwnerWhatsapp,
		&e.OwnerCompany,
		&e.CreatedAt,
	)
	if err != nil {
		return e, fmt.Errorf("error scanning equipment: %w", err)
	}

	e.Images = images
	e.Documents = documents

	return e, nil
}
