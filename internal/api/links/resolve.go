package links

import (
	"net/http"
	"time"

	"cutroom/database"
	"cutroom/internal/domain/links"
	"cutroom/internal/domain/media"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt hash of an unknowable value: unknown tokens and wrong passwords
// both pay for one compare, so the two failures are not
// timing-distinguishable.
const decoyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type ResolveRequest struct {
	Password string `json:"password"`
}

// POST /review/:token
// The only unauthenticated read path. Resolution always lands on the
// group's current version at access time, not the version the link was
// created against.
func ResolveLink(c *gin.Context) {
	var req ResolveRequest
	_ = c.ShouldBindJSON(&req)

	var link links.ReviewLink
	err := database.DB.First(&link, "token = ?", c.Param("token")).Error
	if err != nil {
		_ = bcrypt.CompareHashAndPassword([]byte(decoyHash), []byte(req.Password))
		c.JSON(http.StatusNotFound, gin.H{"error": "Review link not found"})
		return
	}

	if !link.IsActive {
		c.JSON(http.StatusGone, gin.H{"error": "This review link has been deactivated"})
		return
	}
	if link.ExpiresAt != nil && link.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusGone, gin.H{"error": "This review link has expired"})
		return
	}

	if link.PasswordHash != nil {
		if req.Password == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Password required"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(*link.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Wrong password"})
			return
		}
	} else {
		_ = bcrypt.CompareHashAndPassword([]byte(decoyHash), []byte(req.Password))
	}

	var members []media.Asset
	if err := database.DB.
		Where("id = ? OR parent_id = ?", link.AssetID, link.AssetID).
		Find(&members).Error; err != nil || len(members) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review link not found"})
		return
	}
	current, ok := media.CurrentOf(members)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review link not found"})
		return
	}

	var round trackSummary
	loadOpenRound(link.ProjectID, &round)

	c.JSON(http.StatusOK, gin.H{
		"title":          link.Title,
		"allow_download": link.AllowDownload,
		"asset": gin.H{
			"id":             current.ID,
			"file_name":      current.FileName,
			"mime_type":      current.MimeType,
			"size_bytes":     current.SizeBytes,
			"storage_url":    current.StorageURL,
			"status":         current.Status,
			"version_number": current.VersionNumber,
		},
		"round": round,
	})
}
