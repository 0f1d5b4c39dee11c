package links

import (
	"cutroom/database"
	"cutroom/internal/domain/tracks"
)

// trackSummary is the slice of the open round a reviewer needs: enough to
// leave comments against it and see where the work stands.
type trackSummary struct {
	ID          string        `json:"id,omitempty"`
	RoundNumber int           `json:"round_number,omitempty"`
	Steps       []tracks.Step `json:"steps,omitempty"`
}

func loadOpenRound(projectID string, out *trackSummary) {
	var t tracks.Track
	err := database.DB.
		Where("project_id = ? AND client_decision = ?", projectID, tracks.DecisionPending).
		Order("round_number DESC").
		First(&t).Error
	if err != nil {
		return
	}
	out.ID = t.ID
	out.RoundNumber = t.RoundNumber
	out.Steps = t.Steps
}
