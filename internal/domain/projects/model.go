package projects

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrQuotaExceeded = errors.New("storage quota exceeded")

// QuotaError carries the numbers behind a quota rejection so the message
// can name the shortfall instead of a bare "quota exceeded".
type QuotaError struct {
	RequestedBytes int64
	RemainingBytes int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("storage quota exceeded: requested %d bytes but only %d bytes remain", e.RequestedBytes, e.RemainingBytes)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

type Project struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"-"`

	Name string `gorm:"not null" json:"name"`

	StorageQuotaBytes int64 `gorm:"not null;default:0" json:"storage_quota_bytes"`
	StorageUsedBytes  int64 `gorm:"not null;default:0" json:"storage_used_bytes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
