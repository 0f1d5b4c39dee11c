package routes

import (
	adminapi "cutroom/internal/api/admin"
	authapi "cutroom/internal/api/auth"
	"cutroom/internal/api/billing"
	commentsapi "cutroom/internal/api/comments"
	linksapi "cutroom/internal/api/links"
	mediaapi "cutroom/internal/api/media"
	"cutroom/internal/api/plans"
	projectsapi "cutroom/internal/api/projects"
	stripewebhooks "cutroom/internal/api/stripewebhook"
	tracksapi "cutroom/internal/api/tracks"
	"cutroom/internal/api/users"
	"cutroom/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/plans", plans.ListPlans)
	public.GET("/verify", users.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Review links: the only unauthenticated surface into project content
	public.POST("/review/:token", linksapi.ResolveLink)
	public.POST("/review/:token/comments", commentsapi.AddReviewComment)
	public.PATCH("/review/comments/:id", commentsapi.EditComment)
	public.DELETE("/review/comments/:id", commentsapi.DeleteComment)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)
	auth.POST("/billing-portal", billing.CreateBillingPortal)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.GET("/projects", projectsapi.ListProjects)
	auth.GET("/projects/:id", projectsapi.GetProject)
	auth.DELETE("/projects/:id", projectsapi.DeleteProject)

	auth.GET("/projects/:id/media", mediaapi.ListProjectMedia)
	auth.POST("/projects/:id/media", mediaapi.UploadAsset)
	auth.POST("/media/:id/versions", mediaapi.AttachVersion)
	auth.PUT("/media/:id/order", mediaapi.ReorderVersions)
	auth.PATCH("/media/:id/status", mediaapi.UpdateStatus)
	auth.POST("/media/:id/merge", mediaapi.MergeGroups)
	auth.DELETE("/media/:id", mediaapi.DeleteVersion)
	auth.DELETE("/media/:id/group", mediaapi.DeleteGroup)

	auth.GET("/links", linksapi.ListLinks)
	auth.POST("/links", linksapi.CreateLink)
	auth.PATCH("/links/:id", linksapi.UpdateLink)
	auth.POST("/links/:id/toggle", linksapi.ToggleLink)
	auth.DELETE("/links/:id", linksapi.DeleteLink)

	auth.GET("/projects/:id/tracks", tracksapi.ListRounds)
	auth.POST("/tracks/:id/steps/complete", tracksapi.CompleteStep)
	auth.POST("/tracks/:id/steps/revert", tracksapi.RevertStep)
	auth.POST("/tracks/:id/decide", tracksapi.Decide)

	auth.GET("/tracks/:id/comments", commentsapi.ListComments)
	auth.POST("/comments", commentsapi.AddComment)
	auth.PATCH("/comments/:id", commentsapi.EditComment)
	auth.DELETE("/comments/:id", commentsapi.DeleteComment)

	// Project creation is gated: trial users get one project, paid tiers more
	gated := auth.Group("/")
	gated.Use(middleware.RequireProjectCapacity())
	gated.POST("/projects", projectsapi.CreateProject)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.POST("/sync-plans", plans.SyncPlansFromStripe)
}
