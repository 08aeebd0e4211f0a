package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every /api route. requireAuth guards session-only routes and
// requireAdmin guards the bot administration routes.
func (h *Handlers) RegisterRoutes(r gin.IRouter, requireAuth, requireAdmin gin.HandlerFunc) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/user", h.CurrentUser)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
		authGroup.GET("/validate-reset-token/:token", h.ValidateResetToken)
		authGroup.GET("/google", h.GoogleLogin)
		authGroup.GET("/google/callback", h.GoogleCallback)
	}

	api.GET("/users/:userId", h.GetUser)

	posts := api.Group("/posts")
	{
		posts.GET("", h.GetPosts)
		posts.POST("", requireAuth, h.CreatePost)
		posts.POST("/:id/like", h.LikePost)
		posts.POST("/:id/reactions", requireAuth, h.AddPostReaction)
		posts.DELETE("/:id/reactions", requireAuth, h.RemovePostReaction)
		posts.DELETE("/:id", requireAuth, h.DeletePost)
		posts.GET("/:id/comments", h.GetComments)
	}

	comments := api.Group("/comments")
	{
		comments.POST("", requireAuth, h.CreateComment)
		comments.POST("/:id/like", h.LikeComment)
		comments.POST("/:id/reactions", requireAuth, h.AddCommentReaction)
		comments.DELETE("/:id/reactions", requireAuth, h.RemoveCommentReaction)
	}

	api.POST("/conversations", requireAuth, h.CreateConversation)
	api.GET("/conversations", requireAuth, h.GetConversations)
	api.GET("/conversations/:id/messages", requireAuth, h.GetMessages)
	api.POST("/messages", requireAuth, h.SendMessage)

	api.POST("/feedback", h.SubmitFeedback)

	api.POST("/daily-question/responses", requireAuth, h.CreateDailyResponse)
	api.GET("/daily-question/responses", h.GetDailyResponses)

	api.GET("/profile/image/:imageId", h.ServeProfileImage)
	api.GET("/profile/:userId", h.GetProfile)
	api.POST("/profile", requireAuth, h.CreateProfile)
	api.PUT("/profile/:userId", requireAuth, h.UpdateProfile)
	api.POST("/upload/profile-image", requireAuth, h.UploadProfileImage)

	blog := api.Group("/blog/posts")
	{
		blog.GET("", h.GetBlogPosts)
		blog.GET("/featured", h.GetFeaturedBlogPosts)
		blog.GET("/:slug", h.GetBlogPost)
		blog.POST("", h.CreateBlogPost)
	}

	admin := api.Group("/admin", requireAdmin)
	{
		admin.POST("/seed-activity", h.SeedActivity)
		admin.POST("/bot-post", h.CreateBotPost)
		admin.POST("/create-bots", h.CreateBots)
		admin.GET("/bot-status", h.BotStatus)
	}
}
