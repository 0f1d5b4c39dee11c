package middleware

import (
	"net/http"
	"time"

	"cutroom/database"
	"cutroom/internal/domain/access"
	"cutroom/internal/domain/projects"
	"cutroom/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// RequireProjectCapacity gates project creation on the caller's access
// policy: locked accounts cannot create projects at all, and only the
// multi_project capability allows a second one.
func RequireProjectCapacity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var user users.User
		if err := database.DB.Preload("Plan").First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}

		policy := access.ComputePolicy(time.Now(), user)
		if policy.State == access.AccessLocked {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "Your trial has ended. Subscribe to keep working.",
			})
			return
		}

		if policy.Can("multi_project") {
			c.Next()
			return
		}

		var count int64
		if err := database.DB.Model(&projects.Project{}).
			Where("user_id = ?", userID).
			Count(&count).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check project capacity",
			})
			return
		}
		if count >= 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Your plan allows a single project. Upgrade for more.",
			})
			return
		}

		c.Next()
	}
}
