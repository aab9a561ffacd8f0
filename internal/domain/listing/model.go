package listing

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies a searchable listing type
type Kind string

const (
	KindManpower  Kind = "manpower"
	KindJob       Kind = "job"
	KindEquipment Kind = "equipment"
)

// Availability values stored for manpower profiles and equipment
const (
	StatusAvailable = "available"
	StatusBusy      = "busy"
	StatusOnHire    = "on-hire"
	StatusOpen      = "open"
	StatusClosed    = "closed"

	ProfileConsultantManaged = "consultant_managed"
)

// Manpower is a worker profile, either self-managed or managed by a consultant
type Manpower struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	ProfileType        string          `json:"profile_type"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	Email              string          `json:"email"`
	MobileNumber       string          `json:"mobile_number"`
	WhatsappNumber     string          `json:"whatsapp_number"`
	NationalID         string          `json:"national_id,omitempty"`
	Location           string          `json:"location"`
	JobTitle           string          `json:"job_title"`
	AvailabilityStatus string          `json:"availability_status"`
	AvailableFrom      *time.Time      `json:"available_from,omitempty"`
	Rate               string          `json:"rate"`
	Description        string          `json:"profile_description"`
	ProfilePhoto       string          `json:"profile_photo"`
	CVPath             string          `json:"cv_path"`
	Certificates       json.RawMessage `json:"certificates,omitempty"`
	UserType           string          `json:"user_type"`
	AccountActive      *bool           `json:"account_active,omitempty"`
	ConsultantName     string          `json:"consultant_name,omitempty"`
	ConsultantCompany  string          `json:"consultant_company,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	LastModified       time.Time       `json:"last_modified"`
}

// FullName joins first and last name
func (m Manpower) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// IsAccountActive reports whether the owning account is active. Profiles
// without a known account state count as active.
func (m Manpower) IsAccountActive() bool {
	return m.AccountActive == nil || *m.AccountActive
}

// IsConsultantManaged reports whether a consultant maintains this profile
func (m Manpower) IsConsultantManaged() bool {
	return m.ProfileType == ProfileConsultantManaged
}

// Value implements search.Row
func (m Manpower) Value(column string) any {
	switch column {
	case "first_name":
		return m.FirstName
	case "last_name":
		return m.LastName
	case "full_name":
		return m.FullName()
	case "email":
		return m.Email
	case "mobile_number":
		return m.MobileNumber
	case "whatsapp_number":
		return m.WhatsappNumber
	case "national_id":
		return m.NationalID
	case "location":
		return m.Location
	case "job_title":
		return m.JobTitle
	case "availability_status":
		return m.AvailabilityStatus
	case "rate":
		return m.Rate
	case "profile_description":
		return m.Description
	case "profile_type":
		return m.ProfileType
	case "is_active":
		return m.IsAccountActive()
	}
	return nil
}

// Job is an open position posted by a job poster
type Job struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	JobTitle        string     `json:"job_title"`
	CompanyName     string     `json:"company_name"`
	Location        string     `json:"location"`
	JobType         string     `json:"job_type"`
	ExperienceLevel string     `json:"experience_level"`
	SalaryRange     string     `json:"salary_range"`
	Description     string     `json:"description"`
	Requirements    string     `json:"requirements"`
	Industry        string     `json:"industry"`
	Status          string     `json:"status"`
	PostedDate      time.Time  `json:"posted_date"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	ViewsCount      int        `json:"views_count"`
	CompanyLogo     string     `json:"company_logo,omitempty"`
	CompanySize     string     `json:"company_size,omitempty"`
	CompanyEmail    string     `json:"company_email,omitempty"`
	CompanyMobile   string     `json:"company_mobile,omitempty"`
}

// Value implements search.Row
func (j Job) Value(column string) any {
	switch column {
	case "job_title":
		return j.JobTitle
	case "company_name":
		return j.CompanyName
	case "location":
		return j.Location
	case "job_type":
		return j.JobType
	case "experience_level":
		return j.ExperienceLevel
	case "salary_range":
		return j.SalaryRange
	case "description":
		return j.Description
	case "requirements":
		return j.Requirements
	case "industry":
		return j.Industry
	case "status":
		return j.Status
	case "expiry_date":
		return j.ExpiryDate
	case "company_email":
		return j.CompanyEmail
	case "company_mobile":
		return j.CompanyMobile
	}
	return nil
}

// Equipment is a piece of machinery offered for hire
type Equipment struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Name          string          `json:"equipment_name"`
	Type          string          `json:"equipment_type"`
	Availability  string          `json:"availability"`
	Location      string          `json:"location"`
	ContactPerson string          `json:"contact_person"`
	ContactNumber string          `json:"contact_number"`
	ContactEmail  string          `json:"contact_email"`
	Description   string          `json:"description"`
	Images        json.RawMessage `json:"equipment_images,omitempty"`
	Documents     json.RawMessage `json:"equipment_documents,omitempty"`
	IsActive      bool            `json:"is_active"`
	OwnerName     string          `json:"owner_name,omitempty"`
	OwnerEmail    string          `json:"owner_email,omitempty"`
	OwnerMobile   string          `json:"owner_mobile,omitempty"`
	OwnerWhatsapp string          `json:"owner_whatsapp,omitempty"`
	OwnerCompany  string          `json:"owner_company,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Value implements search.Row
func (e Equipment) Value(column string) any {
	switch column {
	case "equipment_name":
		return e.Name
	case "equipment_type":
		return e.Type
	case "availability":
		return e.Availability
	case "location":
		return e.Location
	case "contact_person":
		return e.ContactPerson
	case "contact_number":
		return e.ContactNumber
	case "contact_email":
		return e.ContactEmail
	case "description":
		return e.Description
	case "is_active":
		return e.IsActive
	case "owner_name":
		return e.OwnerName
	case "owner_email":
		return e.OwnerEmail
	case "owner_mobile":
		return e.OwnerMobile
	case "owner_company":
		return e.OwnerCompany
	}
	return nil
}

// TitleCount is one row of the job title rollup
type TitleCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
