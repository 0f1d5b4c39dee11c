package projects

import (
	"errors"
	"net/http"

	"cutroom/config"
	"cutroom/database"
	"cutroom/internal/domain/comments"
	"cutroom/internal/domain/links"
	"cutroom/internal/domain/media"
	"cutroom/internal/domain/plans"
	"cutroom/internal/domain/projects"
	"cutroom/internal/domain/tracks"
	"cutroom/internal/domain/users"

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

type CreateProjectRequest struct {
	Name      string   `json:"name" binding:"required"`
	StepNames []string `json:"step_names"`
}

// POST /projects
// Creating a project also provisions round 1, so a project always has an
// open round from the moment it exists.
func CreateProject(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	var u users.User
	if err := database.DB.Preload("Plan").First(&u, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	steps := tracks.DefaultSteps()
	if len(req.StepNames) > 0 {
		steps = tracks.NewSteps(req.StepNames)
	}

	project := projects.Project{
		UserID:            userID,
		Name:              req.Name,
		StorageQuotaBytes: plans.StorageQuotaBytes(u.Plan, config.DEFAULT_STORAGE_QUOTA_MB),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		round := tracks.Track{
			ProjectID:   project.ID,
			RoundNumber: 1,
			Steps:       steps,
		}
		return tx.Create(&round).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GET /projects
func ListProjects(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var list []projects.Project
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /projects/:id
func GetProject(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var p projects.Project
	err := database.DB.First(&p, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}

	var rounds []tracks.Track
	if err := database.DB.
		Where("project_id = ?", p.ID).
		Order("round_number ASC").
		Find(&rounds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rounds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": p,
		"rounds":  rounds,
	})
}

// DELETE /projects/:id
// The only path that deletes rounds: everything under the project goes with
// it (media, rounds, comments, review links).
func DeleteProject(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("id")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", projectID, userID).Delete(&projects.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&media.Asset{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&tracks.Track{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&comments.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("project_id = ?", projectID).Delete(&links.ReviewLink{}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
