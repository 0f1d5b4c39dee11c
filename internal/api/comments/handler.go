package comments

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cutroom/database"
	"cutroom/internal/domain/comments"
	"cutroom/internal/domain/links"
	"cutroom/internal/domain/tracks"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddCommentRequest struct {
	TrackID        string                `json:"track_id" binding:"required"`
	Body           string                `json:"body"`
	MediaTimestamp *float64              `json:"media_timestamp"`
	Attachments    []comments.Attachment `json:"attachments"`
	AnonName       string                `json:"anon_name"`
	AnonKey        string                `json:"anon_key"`
}

type EditCommentRequest struct {
	Body           string                `json:"body"`
	MediaTimestamp *float64              `json:"media_timestamp"`
	Attachments    []comments.Attachment `json:"attachments"`
	AnonKey        string                `json:"anon_key"`
}

func respondValidation(c *gin.Context, bad []*comments.AttachmentError, err error) bool {
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return true
	}
	if len(bad) > 0 {
		rejected := make([]gin.H, 0, len(bad))
		for _, b := range bad {
			rejected = append(rejected, gin.H{"url": b.URL, "reason": b.Reason})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    fmt.Sprintf("%d attachment(s) rejected", len(bad)),
			"rejected": rejected,
		})
		return true
	}
	return false
}

func respondCommentError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case errors.Is(err, tracks.ErrRoundClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Client has already decided this round"})
	case errors.Is(err, errNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can modify this comment"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
	}
}

// POST /comments (authenticated editors)
func AddComment(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	bad, verr := comments.Validate(req.Body, req.Attachments)
	if respondValidation(c, bad, verr) {
		return
	}

	cm, err := addComment(database.DB, userID, req)
	if err != nil {
		respondCommentError(c, err, "Round not found")
		return
	}
	c.JSON(http.StatusCreated, cm)
}

// POST /review/:token/comments (reviewers, via the link token)
func AddReviewComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	var link links.ReviewLink
	if err := database.DB.First(&link, "token = ?", c.Param("token")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review link not found"})
		return
	}
	if !link.IsActive || (link.ExpiresAt != nil && link.ExpiresAt.Before(time.Now())) {
		c.JSON(http.StatusGone, gin.H{"error": "This review link is no longer available"})
		return
	}

	bad, verr := comments.Validate(req.Body, req.Attachments)
	if respondValidation(c, bad, verr) {
		return
	}

	cm, anonKey, err := addReviewComment(database.DB, &link, req)
	if err != nil {
		respondCommentError(c, err, "Round not found")
		return
	}
	// the client persists anon_key to edit or delete this comment later
	c.JSON(http.StatusCreated, gin.H{"comment": cm, "anon_key": anonKey})
}

// GET /tracks/:id/comments
func ListComments(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var list []comments.Comment
	err := database.DB.
		Joins("JOIN projects ON projects.id = comments.project_id").
		Where("comments.track_id = ? AND projects.user_id = ?", c.Param("id"), userID).
		Order("comments.created_at ASC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// PATCH /comments/:id
func EditComment(c *gin.Context) {
	var req EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	bad, verr := comments.Validate(req.Body, req.Attachments)
	if respondValidation(c, bad, verr) {
		return
	}

	cm, err := editComment(database.DB, c.Param("id"), c.GetUint("user_id"), req)
	if err != nil {
		respondCommentError(c, err, "Comment not found")
		return
	}
	c.JSON(http.StatusOK, cm)
}

// DELETE /comments/:id
func DeleteComment(c *gin.Context) {
	err := deleteComment(database.DB, c.Param("id"), c.GetUint("user_id"), c.Query("anon_key"))
	if err != nil {
		respondCommentError(c, err, "Comment not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
