package comments

import (
	"errors"

	"cutroom/internal/domain/comments"
	"cutroom/internal/domain/links"
	"cutroom/internal/domain/projects"
	"cutroom/internal/domain/tracks"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errNotAuthor = errors.New("only the author can modify this comment")

// lockOpenRound takes the same row lock a decision takes, so comment writes
// serialize against a concurrent decide instead of racing past the Open check.
func lockOpenRound(tx *gorm.DB, trackID string) (*tracks.Track, error) {
	var t tracks.Track
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, "id = ?", trackID).Error
	if err != nil {
		return nil, err
	}
	if !t.Open() {
		return nil, tracks.ErrRoundClosed
	}
	return &t, nil
}

func buildComment(round *tracks.Track, req AddCommentRequest) comments.Comment {
	return comments.Comment{
		TrackID:        round.ID,
		ProjectID:      round.ProjectID,
		Body:           req.Body,
		MediaTimestamp: req.MediaTimestamp,
		Attachments:    datatypes.JSONSlice[comments.Attachment](req.Attachments),
		Links:          datatypes.JSONSlice[string](comments.ExtractLinks(req.Body)),
	}
}

// addComment writes an editor comment into an open round the user owns.
func addComment(db *gorm.DB, userID uint, req AddCommentRequest) (*comments.Comment, error) {
	var cm comments.Comment
	err := db.Transaction(func(tx *gorm.DB) error {
		round, err := lockOpenRound(tx, req.TrackID)
		if err != nil {
			return err
		}
		var p projects.Project
		if err := tx.First(&p, "id = ? AND user_id = ?", round.ProjectID, userID).Error; err != nil {
			return err
		}
		cm = buildComment(round, req)
		cm.AuthorUserID = &userID
		return tx.Create(&cm).Error
	})
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// addReviewComment writes an anonymous comment through a review link. The
// returned key is what lets the client edit or delete the comment later.
func addReviewComment(db *gorm.DB, link *links.ReviewLink, req AddCommentRequest) (*comments.Comment, string, error) {
	anonName := req.AnonName
	if anonName == "" {
		anonName = "Reviewer"
	}
	anonKey := req.AnonKey
	if anonKey == "" {
		anonKey = uuid.NewString()
	}

	var cm comments.Comment
	err := db.Transaction(func(tx *gorm.DB) error {
		round, err := lockOpenRound(tx, req.TrackID)
		if err != nil {
			return err
		}
		if round.ProjectID != link.ProjectID {
			return gorm.ErrRecordNotFound
		}
		cm = buildComment(round, req)
		cm.AnonName = anonName
		cm.AnonKey = anonKey
		return tx.Create(&cm).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &cm, anonKey, nil
}

// mutateComment runs fn against an author-owned comment with its round row
// locked and still open, all in one transaction.
func mutateComment(db *gorm.DB, commentID string, userID uint, anonKey string, fn func(tx *gorm.DB, cm *comments.Comment) error) (*comments.Comment, error) {
	var cm comments.Comment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cm, "id = ?", commentID).Error; err != nil {
			return err
		}
		if !cm.IsAuthor(userID, anonKey) {
			return errNotAuthor
		}
		if _, err := lockOpenRound(tx, cm.TrackID); err != nil {
			return err
		}
		return fn(tx, &cm)
	})
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func editComment(db *gorm.DB, commentID string, userID uint, req EditCommentRequest) (*comments.Comment, error) {
	return mutateComment(db, commentID, userID, req.AnonKey, func(tx *gorm.DB, cm *comments.Comment) error {
		return tx.Model(cm).Updates(map[string]interface{}{
			"body":            req.Body,
			"media_timestamp": req.MediaTimestamp,
			"attachments":     datatypes.JSONSlice[comments.Attachment](req.Attachments),
			"links":           datatypes.JSONSlice[string](comments.ExtractLinks(req.Body)),
		}).Error
	})
}

func deleteComment(db *gorm.DB, commentID string, userID uint, anonKey string) error {
	_, err := mutateComment(db, commentID, userID, anonKey, func(tx *gorm.DB, cm *comments.Comment) error {
		return tx.Delete(cm).Error
	})
	return err
}
