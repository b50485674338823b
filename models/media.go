package models

import (
	"github.com/google/uuid"
)

// Storage backends a media row can live on.
const (
	DiskS3    = "s3"
	DiskLocal = "local"
)

// Media is a stored file plus its position in the media tree.
//
// The tree is encoded as a nested set: every node carries a
// [record_left, record_right] range; descendants sit strictly inside
// their ancestor's range and record_dept counts ancestors. The
// repository owns all four record_* columns; nothing else writes them.
type Media struct {
	Base
	Name            string     `gorm:"size:255;not null" json:"name"`
	Hash            string     `gorm:"size:255;index" json:"hash"`
	FileName        string     `gorm:"size:255;not null" json:"file_name"`
	Disk            string     `gorm:"size:255;not null;default:'s3'" json:"disk"`
	MimeType        string     `gorm:"size:255;not null" json:"mime_type"`
	Size            int64      `gorm:"not null" json:"size"`
	RecordLeft      int64      `gorm:"column:record_left;index" json:"record_left"`
	RecordRight     int64      `gorm:"column:record_right;index" json:"record_right"`
	RecordDept      int64      `gorm:"column:record_dept" json:"record_dept"`
	RecordOrdering  int64      `gorm:"column:record_ordering" json:"record_ordering"`
	ParentID        *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	CustomAttribute string     `gorm:"size:255" json:"custom_attribute,omitempty"`
	Audit
}

func (Media) TableName() string {
	return "media"
}

// SubtreeSize is the number of nodes in this node's subtree, itself
// included. Follows from the nested-set encoding.
func (m *Media) SubtreeSize() int64 {
	return (m.RecordRight - m.RecordLeft + 1) / 2
}

// Contains reports whether other sits inside m's subtree.
func (m *Media) Contains(other *Media) bool {
	return other.RecordLeft > m.RecordLeft && other.RecordRight < m.RecordRight
}
