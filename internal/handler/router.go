package handler

import (
	"time"

	"github.com/aurora-society/aurora-backend/internal/config"
	"github.com/aurora-society/aurora-backend/internal/middleware"
	"github.com/aurora-society/aurora-backend/pkg/jwt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	Auth         *AuthHandler
	Registration *RegistrationHandler
	Referral     *ReferralHandler
	Member       *MemberHandler
	Connection   *ConnectionHandler
	Message      *MessageHandler
	Admin        *AdminHandler
	Contact      *ContactHandler
	Verification *VerificationHandler
}

// SetupRouter builds the gin engine with middleware and all routes mounted
func SetupRouter(cfg *config.Config, jwtManager *jwt.Manager, h *Handlers) *gin.Engine {
	if cfg.Server.Env != "local" && cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// Public surface: registration funnel, login, provider callback
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/2fa/verify", h.Auth.VerifyTwoFactor)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/referral/validate-code", h.Registration.ValidateCode)
	api.POST("/referral/validate-link", h.Registration.ValidateLink)
	api.POST("/register", h.Registration.Register)
	api.POST("/register/draft", h.Registration.SaveDraft)
	api.POST("/register/draft/:token/complete", h.Registration.CompleteDraft)
	api.GET("/verification/callback", h.Verification.Callback)

	// Contact form: anonymous allowed, tighter budget than members
	contactLimiter := middleware.NewSlidingWindow(time.Hour)
	api.POST("/contact",
		middleware.OptionalAuth(jwtManager),
		middleware.ContactRateLimit(contactLimiter, middleware.DefaultContactLimits()),
		h.Contact.Submit,
	)

	// Authenticated surface
	auth := api.Group("")
	auth.Use(middleware.JWTAuth(jwtManager))
	{
		auth.GET("/auth/me", h.Auth.Me)
		auth.GET("/auth/approval-status", h.Auth.ApprovalStatus)
		auth.GET("/verification/status", h.Verification.Status)

		auth.GET("/members", h.Member.Directory)
		auth.GET("/members/me", h.Member.GetMyProfile)
		auth.PUT("/members/me", h.Member.UpdateProfile)
		auth.POST("/members/me/avatar", h.Member.UploadAvatar)
		auth.GET("/members/:id", h.Member.GetProfile)
		auth.GET("/members/:id/sections/:section", h.Member.CheckSection)

		auth.POST("/referral/links", h.Referral.CreateLink)
		auth.GET("/referral/links", h.Referral.ListLinks)
		auth.DELETE("/referral/links/:id", h.Referral.DeactivateLink)
		auth.GET("/referral/sponsored", h.Referral.ListSponsored)
		auth.POST("/referral/family-invite", h.Referral.SendFamilyInvite)
		auth.POST("/referral/:id/approve", h.Referral.Approve)
		auth.POST("/referral/:id/reject", h.Referral.Reject)

		auth.POST("/connections/requests", h.Connection.SendRequest)
		auth.GET("/connections/requests/incoming", h.Connection.ListIncoming)
		auth.GET("/connections/requests/sent", h.Connection.ListSent)
		auth.POST("/connections/requests/:id/accept", h.Connection.AcceptRequest)
		auth.POST("/connections/requests/:id/reject", h.Connection.RejectRequest)
		auth.GET("/connections", h.Connection.ListConnections)
		auth.PUT("/connections/:friendId/grants", h.Connection.UpdateGrants)
		auth.DELETE("/connections/:friendId", h.Connection.RemoveConnection)

		auth.POST("/conversations", h.Message.StartConversation)
		auth.GET("/conversations", h.Message.ListConversations)
		auth.GET("/conversations/:id/messages", h.Message.ListMessages)
		auth.POST("/conversations/:id/messages", h.Message.SendMessage)
		auth.POST("/conversations/:id/read", h.Message.MarkRead)
		auth.DELETE("/conversations/:id", h.Message.DeleteConversation)
		auth.GET("/conversations/:id/ws", h.Message.Subscribe)
		auth.DELETE("/messages/:id", h.Message.DeleteMessage)
	}

	// Back-office
	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtManager), middleware.RequireAdmin())
	{
		admin.GET("/members", h.Admin.ListMembers)
		admin.PUT("/members/:id/level", h.Admin.SetLevel)
		admin.PUT("/members/:id/active", h.Admin.SetActive)
		admin.POST("/members/:id/reset-verification", h.Admin.ResetVerification)
		admin.DELETE("/members/:id", h.Admin.DeleteAccount)
		admin.GET("/referrals", h.Admin.ListReferrals)
		admin.POST("/referrals/:id/reset", h.Admin.ResetApproval)
		admin.GET("/contact-messages", h.Admin.ListContactMessages)
	}

	return r
}
