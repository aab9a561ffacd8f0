// internal/service/search/results.go

package search

import (
	"encoding/json"

	"go.uber.org/zap"

	"marketplace/internal/domain/listing"
	"marketplace/internal/service/relevance"
)

// ManpowerResult is a ranked manpower profile with decoded certificates
type ManpowerResult struct {
	listing.Manpower
	FullName            string               `json:"full_name"`
	Certificates        []listing.Attachment `json:"certificates"`
	IsConsultantManaged bool                 `json:"is_consultant_managed"`
	ManagedBy           *ManagedBy           `json:"managed_by,omitempty"`
	RelevanceScore      int                  `json:"relevance_score"`
}

// ManagedBy names the consultant maintaining a profile
type ManagedBy struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

// JobResult is a ranked job listing
type JobResult struct {
	listing.Job
	RelevanceScore int `json:"relevance_score"`
}

// EquipmentResult is a ranked equipment listing with decoded attachments
type EquipmentResult struct {
	listing.Equipment
	Images         []listing.Attachment `json:"equipment_images"`
	Documents      []listing.Attachment `json:"equipment_documents"`
	RelevanceScore int                  `json:"relevance_score"`
}

// decodeSide decodes a stored attachment list. Malformed data yields an empty
// list and a warning; the record itself is kept.
func (s *Service) decodeSide(kind listing.Kind, id string, field string, raw json.RawMessage) []listing.Attachment {
	attachments, err := listing.DecodeAttachments(raw)
	if err != nil {
		s.logger.Warn("malformed side data, using empty list",
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.String("field", field),
			zap.Error(err),
		)
	}
	return attachments
}

type manpowerView struct {
	record       listing.Manpower
	certificates []listing.Attachment
}

func (s *Service) manpowerViews(records []listing.Manpower) []manpowerView {
	views := make([]manpowerView, len(records))
	for i, m := range records {
		views[i] = manpowerView{
			record:       m,
			certificates: s.decodeSide(listing.KindManpower, m.ID.String(), "certificates", m.Certificates),
		}
	}
	return views
}

func manpowerFields(v manpowerView) relevance.Fields {
	documents := 0
	if v.record.CVPath != "" {
		documents = 1
	}
	return relevance.Fields{
		ID:          v.record.ID.String(),
		Title:       v.record.JobTitle,
		Description: v.record.Description,
		Location:    v.record.Location,
		Status:      v.record.AvailabilityStatus,
		Documents:   documents,
		Credentials: len(v.certificates),
		CreatedAt:   v.record.CreatedAt,
	}
}

func manpowerResults(scored []relevance.Scored[manpowerView]) []ManpowerResult {
	out := make([]ManpowerResult, len(scored))
	for i, sc := range scored {
		m := sc.Record.record
		out[i] = ManpowerResult{
			Manpower:            m,
			FullName:            m.FullName(),
			Certificates:        sc.Record.certificates,
			IsConsultantManaged: m.IsConsultantManaged(),
			RelevanceScore:      sc.Score,
		}
		if m.IsConsultantManaged() {
			out[i].ManagedBy = &ManagedBy{Name: m.ConsultantName, Company: m.ConsultantCompany}
		}
	}
	return out
}

func jobFields(j listing.Job) relevance.Fields {
	return relevance.Fields{
		ID:          j.ID.String(),
		Title:       j.JobTitle,
		Description: j.Description,
		Location:    j.Location,
		Status:      j.Status,
		CreatedAt:   j.PostedDate,
	}
}

func jobResults(scored []relevance.Scored[listing.Job]) []JobResult {
	out := make([]JobResult, len(scored))
	for i, sc := range scored {
		out[i] = JobResult{Job: sc.Record, RelevanceScore: sc.Score}
	}
	return out
}

type equipmentView struct {
	record    listing.Equipment
	images    []listing.Attachment
	documents []listing.Attachment
}

func (s *Service) equipmentViews(records []listing.Equipment) []equipmentView {
	views := make([]equipmentView, len(records))
	for i, e := range records {
		id := e.ID.String()
		views[i] = equipmentView{
			record:    e,
			images:    s.decodeSide(listing.KindEquipment, id, "equipment_images", e.Images),
			documents: s.decodeSide(listing.KindEquipment, id, "equipment_documents", e.Documents),
		}
	}
	return views
}

func equipmentFields(v equipmentView) relevance.Fields {
	return relevance.Fields{
		ID:          v.record.ID.String(),
		Title:       v.record.Name,
		Description: v.record.Description,
		Location:    v.record.Location,
		Status:      v.record.Availability,
		Documents:   len(v.documents),
		Credentials: len(v.images),
		CreatedAt:   v.record.CreatedAt,
	}
}

func equipmentResults(scored []relevance.Scored[equipmentView]) []EquipmentResult {
	out := make([]EquipmentResult, len(scored))
	for i, sc := range scored {
		out[i] = EquipmentResult{
			Equipment:      sc.Record.record,
			Images:         sc.Record.images,
			Documents:      sc.Record.documents,
			RelevanceScore: sc.Score,
		}
	}
	return out
}
