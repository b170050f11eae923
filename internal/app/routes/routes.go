package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/silani/discipline/internal/app/controllers"
	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Student     *controllers.StudentController
	Class       *controllers.ClassController
	Rule        *controllers.RuleController
	Violation   *controllers.ViolationController
	ActivityLog *controllers.ActivityLogController
	Device      *controllers.DeviceController
	Health      *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", c.Health.Health)

	v1 := router.Group("/api/v1")

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	students := authenticated.Group("/students")
	{
		students.GET("", c.Student.ListStudents)
		students.POST("", c.Student.CreateStudent)
		students.GET("/:id", c.Student.GetStudent)
		students.PUT("/:id", c.Student.UpdateStudent)
		students.DELETE("/:id", c.Student.DeleteStudent)
	}

	rules := authenticated.Group("/rules")
	{
		rules.GET("", c.Rule.ListRules)
		rules.POST("", c.Rule.CreateRule)
		rules.GET("/:id", c.Rule.GetRule)
		rules.PUT("/:id", c.Rule.UpdateRule)
		rules.DELETE("/:id", c.Rule.DeleteRule)
	}

	violations := authenticated.Group("/violations")
	{
		violations.GET("", c.Violation.ListViolations)
		violations.POST("", c.Violation.CreateViolation)
		violations.GET("/search", c.Violation.SearchViolations)
		violations.GET("/:id", c.Violation.GetViolation)
		violations.PUT("/:id", c.Violation.UpdateViolation)
		violations.DELETE("/:id", c.Violation.DeleteViolation)
	}

	// --- Admin-only routes ---
	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))

	reports := admin.Group("/violations")
	{
		reports.GET("/report", c.Violation.ViolationReport)
		reports.GET("/report/export", c.Violation.ExportViolationReport)
		reports.GET("/summary", c.Violation.ViolationSummary)
	}

	classes := admin.Group("/classes")
	{
		classes.GET("", c.Class.ListClasses)
		classes.POST("", c.Class.CreateClass)
		classes.GET("/:id", c.Class.GetClass)
		classes.PUT("/:id", c.Class.UpdateClass)
		classes.DELETE("/:id", c.Class.DeleteClass)
	}

	admin.GET("/activity-logs", c.ActivityLog.ListActivityLogs)

	devices := admin.Group("/devices")
	{
		devices.GET("", c.Device.ListDevices)
		devices.GET("/overview", c.Device.DeviceOverview)
		devices.GET("/account", c.Device.AccountInfo)
		devices.POST("/activate", c.Device.ActivateDevice)
		devices.POST("/disconnect", c.Device.DisconnectDevice)
		devices.POST("/status", c.Device.DeviceStatus)
		devices.GET("/:token", c.Device.DeviceProfile)
		devices.DELETE("/:token", c.Device.DeleteDevice)
	}
}
