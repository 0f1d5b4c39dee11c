package stripewebhooks

import (
	"cutroom/config"
	"cutroom/database"
	"cutroom/internal/domain/plans"
	"cutroom/internal/domain/projects"
)

// applyPlanQuota moves the user's projects onto the new plan's storage
// quota. Existing usage above the new quota is not reclaimed; it only
// blocks further uploads.
func applyPlanQuota(userID uint, plan *plans.Plan) error {
	quota := plans.StorageQuotaBytes(plan, config.DEFAULT_STORAGE_QUOTA_MB)
	return database.DB.Model(&projects.Project{}).
		Where("user_id = ?", userID).
		Update("storage_quota_bytes", quota).Error
}
