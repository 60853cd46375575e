package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chronocapsule/chrono-capsule/config"
	"github.com/chronocapsule/chrono-capsule/controllers"
	"github.com/chronocapsule/chrono-capsule/middlewares"
	"github.com/chronocapsule/chrono-capsule/services"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// Middleware global dipasang sebelum registrasi route; gin
	// menangkap handler chain saat registrasi
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// File lampiran kapsul disajikan statis
	r.Static("/uploads", cfg.UploadDir)

	// Inisialisasi service & controller
	badgeService := services.NewBadgeService(db)

	userCtrl := controllers.NewUserController(db)
	capsuleCtrl := controllers.NewCapsuleController(db, badgeService, cfg.UploadDir)
	notificationCtrl := controllers.NewNotificationController(db)
	badgeCtrl := controllers.NewBadgeController(db, badgeService)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)

	// CAPSULES
	auth.POST("/capsules", capsuleCtrl.CreateCapsule)
	auth.GET("/capsules", capsuleCtrl.GetAllCapsules)
	auth.GET("/capsules/:capsule_id", capsuleCtrl.GetCapsuleByID)
	auth.PATCH("/capsules/:capsule_id", capsuleCtrl.UpdateCapsule)
	auth.DELETE("/capsules/:capsule_id", capsuleCtrl.DeleteCapsule)
	auth.POST("/capsules/:capsule_id/files", capsuleCtrl.UploadFiles)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetNotifications)
	auth.GET("/notifications/unread-count", notificationCtrl.GetUnreadCount)
	auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkAsRead)
	auth.PATCH("/notifications/read-all", notificationCtrl.MarkAllAsRead)
	auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	// BADGES
	auth.GET("/badges/my-badges", badgeCtrl.GetMyBadges)
	auth.POST("/badges/check", badgeCtrl.CheckBadges)
	auth.GET("/badges/all", badgeCtrl.GetAllBadges)
	auth.GET("/badges/stats", badgeCtrl.GetStats)

	// WebSocket stream
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/stream", controllers.StreamHandler)
	}

	return r
}
