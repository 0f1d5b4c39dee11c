package comments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Comment is one piece of review feedback attached to a workflow round.
// Authorship is either an authenticated user id or an anonymous display
// name plus a client-persisted key; the anonymous key is advisory only,
// not a security boundary.
type Comment struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	TrackID   string `gorm:"type:uuid;not null;index" json:"track_id"`
	ProjectID string `gorm:"type:uuid;not null;index" json:"project_id"`

	AuthorUserID *uint  `gorm:"index" json:"author_user_id,omitempty"`
	AnonName     string `json:"anon_name,omitempty"`
	AnonKey      string `gorm:"index" json:"-"`

	Body           string   `json:"body"`
	MediaTimestamp *float64 `json:"media_timestamp,omitempty"`

	Attachments datatypes.JSONSlice[Attachment] `json:"attachments,omitempty"`
	Links       datatypes.JSONSlice[string]     `json:"links,omitempty"`

	Resolved bool `gorm:"not null;default:false" json:"resolved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Attachment struct {
	URL       string `json:"url"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsAuthor is the edit/delete gate: exact match for authenticated authors,
// best-effort anon-key match for anonymous ones.
func (c *Comment) IsAuthor(userID uint, anonKey string) bool {
	if c.AuthorUserID != nil {
		return userID != 0 && *c.AuthorUserID == userID
	}
	return c.AnonKey != "" && c.AnonKey == anonKey
}
