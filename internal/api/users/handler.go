package users

import (
	"net/http"
	"time"

	"cutroom/config"
	"cutroom/database"
	"cutroom/internal/domain/access"
	"cutroom/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.
		Preload("Plan").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	policy := access.ComputePolicy(now, user)

	resp := MeResponse{
		User: UserDTO{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Lastname:   user.Lastname,
			Role:       user.Role,
			IsVerified: user.IsVerified,
		},
		Billing: BillingDTO{
			Plan:         BuildPlanDTO(user.Plan),
			Subscription: BuildSubscriptionDTO(user),
			Trial:        BuildTrialDTO(now, user.TrialStartAt, user.TrialEndAt),
		},
		Access: AccessDTO{
			State:        string(policy.State),
			Capabilities: policy.Capabilities,
		},
		Storage: BuildStorageDTO(user.ID),
	}

	c.JSON(http.StatusOK, resp)
}

func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	type Token struct {
		UserID int
	}
	var t Token
	if err := database.DB.Table("verification_tokens").Where("token = ?", token).First(&t).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := database.DB.Model(&users.User{}).Where("id = ?", t.UserID).Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	_ = database.DB.Exec("DELETE FROM verification_tokens WHERE token = ?", token)

	c.Redirect(http.StatusTemporaryRedirect, config.APP_URL+"/signin")
}
