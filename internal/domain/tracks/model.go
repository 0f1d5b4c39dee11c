package tracks

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DecisionPending            = "pending"
	DecisionApproved           = "approved"
	DecisionRevisionsRequested = "revisions_requested"
)

// Track is one round of a project's step-based workflow, bounded by a
// client decision. Rounds are append-only history: they are never deleted
// except together with their project.
type Track struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;not null;uniqueIndex:idx_tracks_project_round,priority:1" json:"project_id"`

	RoundNumber int `gorm:"not null;uniqueIndex:idx_tracks_project_round,priority:2" json:"round_number"`

	Steps datatypes.JSONSlice[Step] `json:"steps"`

	ClientDecision string `gorm:"type:varchar(30);not null;default:'pending'" json:"client_decision"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Track) Open() bool {
	return t.ClientDecision == DecisionPending
}
