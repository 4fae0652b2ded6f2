package routes

import (
	"time"

	"serene/cache"
	"serene/config"
	"serene/handlers"
	"serene/mailer"
	"serene/middleware"
	"serene/models"
	"serene/websocket"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries everything the handlers need injected.
type Deps struct {
	Hub        *websocket.Hub
	Mailer     *mailer.Mailer
	UserCache  *cache.Users
	Cloudinary *cloudinary.Cloudinary
}

func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.App.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(deps.Mailer)
	googleHandler := handlers.NewGoogleAuthHandler(config.App)
	userHandler := handlers.NewUserHandler(deps.UserCache, deps.Cloudinary)
	communityHandler := handlers.NewCommunityHandler(deps.Hub)
	commentHandler := handlers.NewCommentHandler(deps.Hub)
	reportHandler := handlers.NewReportHandler(deps.Mailer)

	authLimiter := middleware.NewIPRateLimiter(10, time.Minute)

	v1 := router.Group("/v1.0")

	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(authLimiter))
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-code", authHandler.ResendCode)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/google/auth-url", googleHandler.GoogleAuthURL)
		auth.GET("/google/callback", googleHandler.GoogleCallback)
	}

	user := v1.Group("/user")
	user.Use(middleware.JWTAuthMiddleware())
	{
		user.GET("", userHandler.GetProfile)
		user.POST("/onboarding", userHandler.Onboarding)
		user.PATCH("/update-profile", userHandler.UpdateProfile)
		user.POST("/change-password", userHandler.ChangePassword)
		user.POST("/upload-photo", userHandler.UploadPhoto)
		user.DELETE("/delete-photo", userHandler.DeletePhoto)

		user.GET("/vapid-public-key", handlers.GetVapidPublicKey)
		user.POST("/subscribe", handlers.SubscribePush)

		user.POST("/rate-app", handlers.RateApp)
		user.POST("/request-feature", handlers.RequestFeature)
		user.POST("/report-bug", handlers.ReportBug)
	}

	community := v1.Group("/community")
	community.Use(middleware.JWTAuthMiddleware())
	{
		community.POST("/onboarding", communityHandler.Onboarding)
		community.POST("/create-post", communityHandler.CreatePost)
		community.GET("/get-all-posts", communityHandler.GetAllPosts)
		community.GET("/trending-posts", communityHandler.GetTrendingPosts)
		community.GET("/search", communityHandler.SearchPosts)
		community.GET("/:postId", communityHandler.GetPost)
		community.PUT("/edit-post/:postId", communityHandler.EditPost)
		community.DELETE("/delete-post/:postId", communityHandler.DeletePost)

		community.POST("/:postId/like", communityHandler.ToggleLike)
		community.POST("/:postId/bookmark", communityHandler.ToggleBookmark)
		community.POST("/:postId/view", communityHandler.AddView)

		community.POST("/:postId/comment", commentHandler.CreateComment)
		community.DELETE("/:commentId/comment", commentHandler.DeleteComment)
		community.POST("/comments/:commentId/replies", commentHandler.CreateReply)
		community.GET("/comments/:commentId/replies", commentHandler.GetRepliesForComment)
		community.DELETE("/replies/:replyId", commentHandler.DeleteReply)

		community.POST("/:postId/report", reportHandler.ReportPost)
		community.GET("/:postId/reports",
			middleware.RequireRole(models.RoleModerator, models.RoleAdmin),
			reportHandler.GetReportsForPost)

		community.POST("/user/posts", communityHandler.GetUserPosts)
		community.POST("/user/commented", commentHandler.GetUserComments)
		community.POST("/user/liked", communityHandler.GetUserLikedPosts)
		community.POST("/user/bookmarked", communityHandler.GetUserBookmarkedPosts)
	}

	mood := v1.Group("/mood")
	mood.Use(middleware.JWTAuthMiddleware())
	{
		mood.POST("/create-mood", handlers.CreateMood)
		mood.PATCH("/update-mood/:moodId", handlers.UpdateMood)
		mood.GET("/get-all-mood", handlers.GetAllMoods)
	}

	activity := v1.Group("/activity")
	activity.Use(middleware.JWTAuthMiddleware())
	{
		activity.POST("", handlers.SaveActivity)
		activity.GET("", handlers.GetUserActivities)
		activity.GET("/quote/today", handlers.GetTodayAffirmation)
		activity.POST("/quote/save/:quoteId", handlers.SaveAffirmation)
		activity.DELETE("/quote/:quoteId", handlers.DeleteSavedAffirmation)
	}

	event := v1.Group("/event")
	event.Use(middleware.JWTAuthMiddleware())
	{
		event.GET("/get-all-events", handlers.GetAllEvents)

		manage := event.Group("")
		manage.Use(middleware.RequireRole(models.RoleModerator, models.RoleAdmin))
		{
			manage.POST("/create-event", handlers.CreateEvent)
			manage.PUT("/edit-event/:eventId", handlers.UpdateEvent)
			manage.DELETE("/delete-event/:eventId", handlers.DeleteEvent)
		}
	}

	router.GET("/ws", gin.WrapF(websocket.ServeWS(deps.Hub)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Route not found"})
	})

	return router
}
