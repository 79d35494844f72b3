package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/scholaris/resultportal/internal/app/controllers"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth     *controllers.AuthController
	Students *controllers.StudentController
	Results  *controllers.ResultController
	Settings *controllers.SettingsController
	Activity *controllers.ActivityController
	Portal   *controllers.PortalController
	Health   *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", c.Health.Health)
	v1.GET("/settings/public", c.Settings.GetPublicSettings)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/admin/login", c.Auth.AdminLogin)
		auth.POST("/student/login", c.Auth.StudentLogin)
		auth.POST("/student/reset-pin", c.Auth.ResetPIN)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)
		authenticated.GET("/auth/me", c.Auth.Me)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.ActorAdmin))
	{
		admin.GET("/overview", c.Activity.Overview)
		admin.GET("/activity-logs", c.Activity.ListLogs)

		students := admin.Group("/students")
		{
			students.GET("", c.Students.ListStudents)
			students.POST("", c.Students.CreateStudent)
			students.GET("/:id", c.Students.GetStudent)
			students.PUT("/:id", c.Students.UpdateStudent)
			students.DELETE("/:id", c.Students.DeleteStudent)
			students.POST("/:id/reset-pin", c.Students.RegeneratePIN)
		}

		results := admin.Group("/results")
		{
			results.GET("", c.Results.ListResults)
			results.POST("", c.Results.CreateResult)
			results.POST("/preview", c.Results.PreviewResult)
			results.GET("/:id", c.Results.GetResult)
			results.PUT("/:id", c.Results.UpdateResult)
			results.DELETE("/:id", c.Results.DeleteResult)
		}

		settings := admin.Group("/settings")
		{
			settings.GET("", c.Settings.GetSettings)
			settings.PUT("", c.Settings.UpdateSettings)
			settings.POST("/assets/:kind", c.Settings.UploadAsset)
		}
	}

	portal := authenticated.Group("/portal")
	portal.Use(authMiddleware.RoleRequired(models.ActorStudent))
	{
		portal.GET("/results", c.Portal.MyResults)
		portal.GET("/results/:id/card", c.Portal.ResultCard)
	}
}
