package models

import (
	"github.com/google/uuid"
)

// Mediable attaches one media row to one arbitrary owner entity under
// a named group ("avatar", "document_front", ...). The owner side is
// polymorphic: MediableType names the owning entity's kind and
// MediableID its identifier; no foreign key points at the owner table.
type Mediable struct {
	MediaID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"media_id"`
	MediableID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"mediable_id"`
	MediableType string    `gorm:"size:255;primaryKey" json:"mediable_type"`
	Group        string    `gorm:"column:group;size:255;primaryKey" json:"group"`

	Media *Media `gorm:"foreignKey:MediaID" json:"media,omitempty"`
}

func (Mediable) TableName() string {
	return "mediables"
}

// Well-known owner types. Callers may use any string; these are the
// ones this API attaches to itself.
const (
	MediableTypeUser             = "user"
	MediableTypePerson           = "person"
	MediableTypeIdentityDocument = "identity_document"
)
