package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is an append-only record of mutating API actions.
type AuditLog struct {
	Base
	UserID       *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action       string         `gorm:"size:100;not null" json:"action"`
	ResourceType string         `gorm:"size:100" json:"resource_type,omitempty"`
	ResourceID   *uuid.UUID     `gorm:"type:uuid" json:"resource_id,omitempty"`
	Details      datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress    string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent    string         `gorm:"type:text" json:"user_agent,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
