package links

import (
	"errors"
	"net/http"
	"time"

	"cutroom/database"
	"cutroom/internal/domain/links"
	"cutroom/internal/domain/media"
	"cutroom/internal/domain/projects"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
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

type CreateLinkRequest struct {
	AssetID       string     `json:"asset_id" binding:"required"`
	Title         string     `json:"title"`
	ExpiresAt     *time.Time `json:"expires_at"`
	Password      string     `json:"password"`
	AllowDownload bool       `json:"allow_download"`
}

type UpdateLinkRequest struct {
	Title         *string    `json:"title"`
	ExpiresAt     *time.Time `json:"expires_at"`
	Password      *string    `json:"password"`
	AllowDownload *bool      `json:"allow_download"`
}

// POST /links
func CreateLink(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "expires_at must be in the future"})
		return
	}

	// the link addresses the group, so resolve whatever id was sent to its root
	var anchor media.Asset
	if err := database.DB.First(&anchor, "id = ?", req.AssetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}
	rootID := anchor.ID
	if anchor.ParentID != nil {
		rootID = *anchor.ParentID
	}
	var p projects.Project
	if err := database.DB.First(&p, "id = ? AND user_id = ?", anchor.ProjectID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	token, err := links.NewToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate link token"})
		return
	}

	link := links.ReviewLink{
		Token:         token,
		UserID:        userID,
		AssetID:       rootID,
		ProjectID:     anchor.ProjectID,
		Title:         req.Title,
		IsActive:      true,
		ExpiresAt:     req.ExpiresAt,
		AllowDownload: req.AllowDownload,
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		h := string(hash)
		link.PasswordHash = &h
	}

	if err := database.DB.Create(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"link": link, "token": token})
}

// GET /links
func ListLinks(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var list []links.ReviewLink
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load links"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// PATCH /links/:id
func UpdateLink(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "expires_at must be in the future"})
		return
	}

	var link links.ReviewLink
	err := database.DB.First(&link, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load link"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}
	if req.AllowDownload != nil {
		updates["allow_download"] = *req.AllowDownload
	}
	if req.Password != nil {
		if *req.Password == "" {
			updates["password_hash"] = nil
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			updates["password_hash"] = string(hash)
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, link)
		return
	}
	if err := database.DB.Model(&link).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
		return
	}
	c.JSON(http.StatusOK, link)
}

// POST /links/:id/toggle
func ToggleLink(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	res := database.DB.Model(&links.ReviewLink{}).
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Update("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle link"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"toggled": true})
}

// DELETE /links/:id
func DeleteLink(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	res := database.DB.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Delete(&links.ReviewLink{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete link"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
