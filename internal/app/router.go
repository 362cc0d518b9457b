package app

import (
	"smart_exam_backend/docs"
	"smart_exam_backend/internal/config"
	"smart_exam_backend/internal/middleware"
	"smart_exam_backend/internal/model"
	"smart_exam_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes (no login required).
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Authenticated routes.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// Readable by every role; results are publication-gated per
		// caller inside the service.
		authGroup.GET("/exams", c.exam.ListExams)
		authGroup.GET("/exams/:id", c.exam.GetExam)
		authGroup.GET("/exams/:id/results", c.result.ResultsForExam)
		authGroup.GET("/results/me", c.result.MyResults)

		// Exam definition and evaluation management.
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/exams", c.exam.CreateExam)
			teacher.PUT("/exams/:id", c.exam.UpdateExam)
			teacher.DELETE("/exams/:id", c.exam.DeleteExam)
			teacher.POST("/exams/:id/cancel", c.exam.CancelExam)
			teacher.POST("/exams/bulk", c.exam.BulkAction)

			teacher.POST("/exams/:id/results", c.result.Evaluate)
			teacher.POST("/exams/:id/results/publish", c.result.Publish)
			teacher.GET("/exams/:id/results/export", c.exam.ExportResults)

			teacher.GET("/stats", c.exam.Stats)
		}
	}
}
