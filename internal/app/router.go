package app

import (
	"worksheet_arc_backend/docs"
	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/middleware"
	"worksheet_arc_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 仅登录用户
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/me", c.auth.Me)
	}

	// 3. 材料流水线：登录用户与游客（X-Device-ID）共用，
	// 所有状态按 userKey 隔离
	keyed := router.Group("/api")
	keyed.Use(middleware.TryAuthMiddleware(cfg), middleware.UserKeyMiddleware())
	{
		worksheets := keyed.Group("/worksheets")
		{
			worksheets.POST("/generate", c.worksheet.Generate)
			worksheets.GET("/current", c.worksheet.Current)
			worksheets.PUT("/current/field", c.worksheet.SetField)
			worksheets.PUT("/current/questions", c.worksheet.EditQuestion)
			worksheets.POST("/current/questions/reorder", c.worksheet.Reorder)
			worksheets.DELETE("/current/questions/:index", c.worksheet.DeleteQuestion)
			worksheets.POST("/current/save", c.worksheet.Save)
		}

		history := keyed.Group("/history")
		{
			history.GET("", c.history.List)
			history.DELETE("", c.history.Clear)
			history.POST("/:id/load", c.history.Load)
			history.DELETE("/:id", c.history.Delete)
			history.POST("/:id/move", c.history.Move)
		}

		export := keyed.Group("/export")
		{
			export.GET("/pdf", c.export.Download)
			export.GET("/records", c.export.Records)
		}
	}
}
