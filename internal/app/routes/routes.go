package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/dojo/internal/app/controllers"
	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Graduation *controllers.GraduationController
	Student    *controllers.StudentController
	Plan       *controllers.PlanController
	Fee        *controllers.FeeController
	Instructor *controllers.InstructorController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/student/login", c.Auth.StudentLogin)
		auth.POST("/instructor/login", c.Auth.InstructorLogin)
		auth.POST("/forgot-password", c.Auth.ForgotPassword)
		auth.POST("/reset-password", c.Auth.ResetPassword)
	}
	v1.GET("/plans", c.Plan.ListPlans)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin), authMiddleware.ActiveInstructor())

	student := authenticated.Group("")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))

	graduations := authenticated.Group("/graduation")
	{
		graduations.GET("", c.Graduation.ListGraduations)
		graduations.GET("/:id", c.Graduation.GetGraduation)
		graduations.GET("/user/:userId", c.Graduation.ListStudentGraduations)
	}

	adminGraduations := admin.Group("/graduation")
	{
		adminGraduations.POST("/create", c.Graduation.CreateGraduation)
		adminGraduations.PATCH("/evaluate/:id", c.Graduation.EvaluateStudent)
		adminGraduations.PUT("/update/:id", c.Graduation.UpdateGraduation)
		adminGraduations.DELETE("/delete/:id", c.Graduation.DeleteGraduation)
		adminGraduations.GET("/:id/export", c.Graduation.ExportRoster)
	}

	studentGraduations := student.Group("/graduation")
	{
		studentGraduations.POST("/enroll", c.Graduation.Enroll)
		studentGraduations.POST("/unenroll", c.Graduation.Unenroll)
	}

	admin.POST("/students", c.Student.RegisterStudent)
	student.GET("/students/me", c.Student.GetMyProfile)

	plans := student.Group("/plans")
	{
		// A student who owes a late fee cannot take a new plan
		plans.POST("/choose", authMiddleware.NotSuspended(), c.Plan.ChoosePlan)
		plans.POST("/cancel", c.Plan.CancelPlan)
	}

	instructors := admin.Group("/instructors")
	{
		instructors.GET("", c.Instructor.ListInstructors)
		instructors.GET("/:id/students", c.Instructor.ListStudents)
		instructors.POST("/:id/students", c.Instructor.AssignStudent)
		instructors.DELETE("/:id/students/:studentId", c.Instructor.RemoveStudent)
	}

	admin.GET("/fees", c.Fee.ListFees)
	admin.PATCH("/fees/:id/pay", c.Fee.PayFee)
	student.GET("/fees/me", c.Fee.ListMyFees)

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
