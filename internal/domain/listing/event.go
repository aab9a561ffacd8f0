// internal/domain/listing/event.go

package listing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Change actions carried by listing events
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent announces that a listing was written by the account side
type ChangeEvent struct {
	Kind   Kind      `json:"kind"`
	ID     uuid.UUID `json:"id"`
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
}

// Subject returns the event subject under topic, e.g. listing.manpower.updated
func (e ChangeEvent) Subject(topic string) string {
	return fmt.Sprintf("%s.%s.%s", topic, e.Kind, e.Action)
}
