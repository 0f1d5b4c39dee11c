package links

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewLink points at a media version group by its root asset id, never at
// a specific version: resolving always yields whatever member is current at
// access time.
type ReviewLink struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	Token  string `gorm:"not null;uniqueIndex:idx_review_links_token" json:"-"`
	UserID uint   `gorm:"not null;index" json:"-"`

	AssetID   string `gorm:"type:uuid;not null;index" json:"asset_id"`
	ProjectID string `gorm:"type:uuid;not null;index" json:"project_id"`

	Title         string     `json:"title,omitempty"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	PasswordHash  *string    `json:"-"`
	AllowDownload bool       `gorm:"not null;default:false" json:"allow_download"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *ReviewLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
