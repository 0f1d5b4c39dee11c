package tracks

import (
	"errors"
	"net/http"

	"cutroom/database"
	"cutroom/internal/domain/tracks"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func respondRoundError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
	case errors.Is(err, tracks.ErrStepNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Step does not exist"})
	case errors.Is(err, tracks.ErrMissingDeliverable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case isConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

type CompleteStepRequest struct {
	StepIndex       *int   `json:"step_index" binding:"required"`
	DeliverableLink string `json:"deliverable_link"`
}

type RevertStepRequest struct {
	StepIndex *int `json:"step_index" binding:"required"`
}

type DecideRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// POST /tracks/:id/steps/complete
func CompleteStep(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CompleteStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	t, err := completeStep(database.DB, userID, c.Param("id"), *req.StepIndex, req.DeliverableLink)
	if err != nil {
		respondRoundError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// POST /tracks/:id/steps/revert
func RevertStep(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req RevertStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	t, err := revertStep(database.DB, userID, c.Param("id"), *req.StepIndex)
	if err != nil {
		respondRoundError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// POST /tracks/:id/decide
func Decide(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if req.Decision != tracks.DecisionApproved && req.Decision != tracks.DecisionRevisionsRequested {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "decision must be approved or revisions_requested"})
		return
	}
	t, err := decide(database.DB, userID, c.Param("id"), req.Decision)
	if err != nil {
		respondRoundError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// GET /projects/:id/tracks
func ListRounds(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var list []tracks.Track
	err := database.DB.
		Joins("JOIN projects ON projects.id = tracks.project_id").
		Where("tracks.project_id = ? AND projects.user_id = ?", c.Param("id"), userID).
		Order("tracks.round_number ASC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rounds"})
		return
	}
	c.JSON(http.StatusOK, list)
}
