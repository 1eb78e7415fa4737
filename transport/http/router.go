package http

import (
	"github.com/gin-gonic/gin"

	"github.com/campuskit/registrar/core"
	"github.com/campuskit/registrar/service"
)

// SetupRouter sets up the Gin router.
func SetupRouter(authService *service.AuthService, recordsService *service.RecordsService) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(authService, recordsService)

	api := router.Group("/api")
	{
		api.GET("/ping", handlers.Ping)
		api.GET("/captcha", handlers.Captcha)
		api.POST("/auth/login", handlers.Login)

		// Any authenticated identity can read its own profile.
		api.GET("/me", RequireRoles(authService), handlers.Me)
	}

	admin := api.Group("/admin")
	admin.Use(RequireRoles(authService, core.RoleAdmin))
	{
		admin.POST("/add-student", handlers.AddStudent)
		admin.POST("/add-staff", handlers.AddStaff)
		admin.POST("/assign-staff", handlers.AssignStaff)
		admin.GET("/staff-list", handlers.StaffList)
		admin.GET("/users", handlers.Users)
	}

	staff := api.Group("/staff")
	staff.Use(RequireRoles(authService, core.RoleAdmin, core.RoleStaff))
	{
		staff.POST("/marks", handlers.RecordMarks)
		staff.GET("/marks/:studentReg", handlers.StudentMarks)
		staff.POST("/attendance/mark", handlers.MarkAttendance)
		staff.GET("/attendance/list", handlers.AttendanceList)
	}

	return router
}
