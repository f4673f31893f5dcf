package app

import (
	"family_habit_backend/docs"
	"family_habit_backend/internal/config"
	"family_habit_backend/internal/middleware"
	"family_habit_backend/internal/model"

	"family_habit_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		auth := public.Group("/auth")
		{
			auth.POST("/send-code", c.auth.SendCode)
			auth.POST("/verify-login", c.auth.VerifyLogin)
		}
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.user.Profile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar", c.user.UploadAvatar)
		authGroup.GET("/user/children", middleware.RoleMiddleware(model.Parent), c.user.Children)

		habits := authGroup.Group("/habits")
		{
			habits.GET("", c.habit.List)
			habits.POST("", c.habit.Create)
			habits.GET("/:id", c.habit.Get)
			habits.PUT("/:id", c.habit.Update)
			habits.PATCH("/:id/toggle", c.habit.Toggle)
			habits.DELETE("/:id", c.habit.Delete)
		}

		tasks := authGroup.Group("/tasks")
		{
			tasks.GET("/today", c.task.Today)
			tasks.POST("/complete", c.task.Complete)
			tasks.POST("/uncomplete", c.task.Uncomplete)
		}

		authGroup.GET("/points", c.points.Summary)

		rewards := authGroup.Group("/rewards")
		{
			rewards.GET("", c.reward.List)
			rewards.POST("", c.reward.Create)
			rewards.GET("/earned", c.reward.Earned)
			rewards.POST("/:id/redeem", c.reward.Redeem)
		}

		authGroup.GET("/stats/overview", c.stats.Overview)
		authGroup.GET("/report/daily", c.report.Daily)
	}
}
