package media

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusOnHold      = "on_hold"
	StatusInProgress  = "in_progress"
	StatusNeedsReview = "needs_review"
	StatusRejected    = "rejected"
	StatusApproved    = "approved"
)

// Asset is one stored media file. Assets form version groups: the member
// with ParentID == nil is the group root and the group's addressable
// identity; all other members point at the root. Exactly one member of a
// group carries IsCurrent.
type Asset struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;not null;index" json:"project_id"`

	FileName     string `gorm:"not null" json:"file_name"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `gorm:"not null;default:0" json:"size_bytes"`
	StorageURL   string `gorm:"not null" json:"storage_url"`

	Status string `gorm:"type:varchar(20);not null;default:'in_progress'" json:"status"`

	ParentID      *string `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	VersionNumber int     `gorm:"not null;default:1" json:"version_number"`
	IsCurrent     bool    `gorm:"not null;default:true" json:"is_current"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func ValidStatus(s string) bool {
	switch s {
	case StatusOnHold, StatusInProgress, StatusNeedsReview, StatusRejected, StatusApproved:
		return true
	}
	return false
}
