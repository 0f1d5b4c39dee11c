package tracks

import (
	"errors"

	"cutroom/internal/domain/comments"
	"cutroom/internal/domain/projects"
	"cutroom/internal/domain/tracks"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockTrack loads a round with its row locked, scoped through the owning
// project so users cannot touch rounds of projects they do not own.
func lockTrack(tx *gorm.DB, userID uint, trackID string) (*tracks.Track, error) {
	var t tracks.Track
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, "id = ?", trackID).Error
	if err != nil {
		return nil, err
	}
	var p projects.Project
	if err := tx.First(&p, "id = ? AND user_id = ?", t.ProjectID, userID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func saveSteps(tx *gorm.DB, t *tracks.Track) error {
	return tx.Model(&tracks.Track{}).Where("id = ?", t.ID).
		Update("steps", t.Steps).Error
}

func completeStep(db *gorm.DB, userID uint, trackID string, idx int, deliverableLink string) (*tracks.Track, error) {
	var out *tracks.Track
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := lockTrack(tx, userID, trackID)
		if err != nil {
			return err
		}
		if !t.Open() {
			return tracks.ErrRoundClosed
		}
		steps := []tracks.Step(t.Steps)
		if err := tracks.CanComplete(steps, idx, deliverableLink); err != nil {
			return err
		}
		steps[idx].Status = tracks.StepCompleted
		if steps[idx].Kind == tracks.KindFinish {
			steps[idx].DeliverableLink = deliverableLink
		}
		t.Steps = steps
		out = t
		return saveSteps(tx, t)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func revertStep(db *gorm.DB, userID uint, trackID string, idx int) (*tracks.Track, error) {
	var out *tracks.Track
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := lockTrack(tx, userID, trackID)
		if err != nil {
			return err
		}
		if !t.Open() {
			return tracks.ErrRoundClosed
		}
		steps := []tracks.Step(t.Steps)
		if err := tracks.CanRevert(steps, idx); err != nil {
			return err
		}
		// reverting an already-pending step is a no-op
		steps[idx].Status = tracks.StepPending
		if steps[idx].Kind == tracks.KindFinish {
			steps[idx].DeliverableLink = ""
		}
		t.Steps = steps
		out = t
		return saveSteps(tx, t)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decide closes a round. Approval is terminal. Requesting revisions is one
// transaction: mark the decision, read the round's unresolved comments in
// seed order, insert round N+1 built from them, and mark those comments
// resolved. No intermediate state is ever observable.
func decide(db *gorm.DB, userID uint, trackID, decision string) (*tracks.Track, error) {
	var next *tracks.Track
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := lockTrack(tx, userID, trackID)
		if err != nil {
			return err
		}
		if !t.Open() {
			return tracks.ErrAlreadyDecided
		}
		if !tracks.Finished(t.Steps) {
			return tracks.ErrFinishIncomplete
		}

		if err := tx.Model(&tracks.Track{}).Where("id = ?", t.ID).
			Update("client_decision", decision).Error; err != nil {
			return err
		}
		if decision == tracks.DecisionApproved {
			next = t
			next.ClientDecision = decision
			return nil
		}

		var unresolved []comments.Comment
		if err := tx.
			Where("track_id = ? AND resolved = ?", t.ID, false).
			Order("media_timestamp ASC NULLS LAST, created_at ASC").
			Find(&unresolved).Error; err != nil {
			return err
		}

		round := tracks.Track{
			ProjectID:   t.ProjectID,
			RoundNumber: t.RoundNumber + 1,
			Steps:       tracks.SeedFromComments(unresolved),
		}
		if err := tx.Create(&round).Error; err != nil {
			return err
		}

		if len(unresolved) > 0 {
			ids := make([]string, 0, len(unresolved))
			for _, cm := range unresolved {
				ids = append(ids, cm.ID)
			}
			if err := tx.Model(&comments.Comment{}).Where("id IN ?", ids).
				Update("resolved", true).Error; err != nil {
				return err
			}
		}

		next = &round
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

func isConflict(err error) bool {
	return errors.Is(err, tracks.ErrOutOfOrder) ||
		errors.Is(err, tracks.ErrLaterStepsIncomplete) ||
		errors.Is(err, tracks.ErrRoundClosed) ||
		errors.Is(err, tracks.ErrAlreadyDecided) ||
		errors.Is(err, tracks.ErrFinishIncomplete)
}
