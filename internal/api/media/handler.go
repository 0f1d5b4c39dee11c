package media

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"cutroom/database"
	"cutroom/internal/domain/media"
	"cutroom/internal/domain/projects"

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

func quotaMessage(err error) string {
	var qe *projects.QuotaError
	if errors.As(err, &qe) {
		return fmt.Sprintf("Storage quota exceeded: the file needs %d bytes but only %d bytes remain", qe.RequestedBytes, qe.RemainingBytes)
	}
	return "Storage quota exceeded"
}

func respondGraphError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
	case errors.Is(err, projects.ErrQuotaExceeded):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": quotaMessage(err)})
	case errors.Is(err, media.ErrBadOrder):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Order must list every version of the group exactly once"})
	case errors.Is(err, media.ErrNotInGroup):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Asset is not a member of this group"})
	case errors.Is(err, media.ErrInvalidMerge):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot merge a group with itself"})
	case errors.Is(err, errCrossProject):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Both groups must belong to the same project"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// POST /projects/:id/media
func UploadAsset(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UploadAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if req.SizeBytes <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "size_bytes must be positive"})
		return
	}
	created, err := createRoot(database.DB, userID, c.Param("id"), req)
	if err != nil {
		respondGraphError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAssetDTO(*created))
}

// POST /media/:id/versions
func AttachVersion(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UploadAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if req.SizeBytes <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "size_bytes must be positive"})
		return
	}
	created, err := attachVersion(database.DB, userID, c.Param("id"), req)
	if err != nil {
		respondGraphError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAssetDTO(*created))
}

// PUT /media/:id/order
func ReorderVersions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ReorderVersionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	members, err := promoteOrder(database.DB, userID, c.Param("id"), req.AssetIDs)
	if err != nil {
		respondGraphError(c, err)
		return
	}
	root, _ := media.RootOf(members)
	c.JSON(http.StatusOK, toGroupDTO(root.ID, members))
}

// DELETE /media/:id
func DeleteVersion(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	remaining, err := deleteVersion(database.DB, userID, c.Param("id"))
	if err != nil {
		respondGraphError(c, err)
		return
	}
	if len(remaining) == 0 {
		c.JSON(http.StatusOK, gin.H{"group": nil})
		return
	}
	root, _ := media.RootOf(remaining)
	c.JSON(http.StatusOK, gin.H{"group": toGroupDTO(root.ID, remaining)})
}

// DELETE /media/:id/group
func DeleteGroup(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := deleteGroup(database.DB, userID, c.Param("id")); err != nil {
		respondGraphError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// POST /media/:id/merge
func MergeGroups(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req MergeGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	members, err := mergeGroups(database.DB, userID, c.Param("id"), req.SourceID)
	if err != nil {
		respondGraphError(c, err)
		return
	}
	root, _ := media.RootOf(members)
	c.JSON(http.StatusOK, toGroupDTO(root.ID, members))
}

// GET /projects/:id/media
func ListProjectMedia(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("id")

	var p projects.Project
	if err := database.DB.First(&p, "id = ? AND user_id = ?", projectID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var assets []media.Asset
	if err := database.DB.
		Where("project_id = ?", projectID).
		Order("created_at ASC, version_number ASC").
		Find(&assets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load media"})
		return
	}

	byRoot := make(map[string][]media.Asset)
	order := make([]string, 0)
	for _, a := range assets {
		rootID := a.ID
		if a.ParentID != nil {
			rootID = *a.ParentID
		}
		if _, seen := byRoot[rootID]; !seen {
			order = append(order, rootID)
		}
		byRoot[rootID] = append(byRoot[rootID], a)
	}

	groups := make([]GroupDTO, 0, len(order))
	for _, rootID := range order {
		members := byRoot[rootID]
		sort.Slice(members, func(i, j int) bool {
			return members[i].VersionNumber < members[j].VersionNumber
		})
		groups = append(groups, toGroupDTO(rootID, members))
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// PATCH /media/:id/status
func UpdateStatus(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if !media.ValidStatus(req.Status) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown status"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		a, _, err := findAsset(tx, userID, c.Param("id"))
		if err != nil {
			return err
		}
		return tx.Model(&media.Asset{}).Where("id = ?", a.ID).
			Update("status", req.Status).Error
	})
	if err != nil {
		respondGraphError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
