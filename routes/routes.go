package routes

import (
	"gesschool_go/controllers"
	"gesschool_go/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	calendarController := controllers.NewCalendarController()
	gradingConfigController := controllers.NewGradingConfigController()
	gradeController := controllers.NewGradeController()
	attendanceController := controllers.NewAttendanceController()
	promotionController := controllers.NewPromotionController()
	rankingController := controllers.NewRankingController()
	reportController := controllers.NewReportController()
	rosterController := controllers.NewRosterController()

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// User management
	users := protected.Group("/users")
	users.Post("/", middleware.RequireOwnerOrAdmin(), authController.Register)

	// Academic calendar
	years := protected.Group("/academic-years")
	years.Get("/", middleware.RequireTeacherOrAbove(), calendarController.GetYears)
	years.Get("/current", middleware.RequireTeacherOrAbove(), calendarController.GetCurrentYear)
	years.Get("/:id", middleware.RequireTeacherOrAbove(), calendarController.GetYear)
	years.Post("/", middleware.RequireOwnerOrAdmin(), calendarController.CreateYear)
	years.Put("/:id", middleware.RequireOwnerOrAdmin(), calendarController.UpdateYear)
	years.Post("/:id/activate", middleware.RequireOwnerOrAdmin(), calendarController.ActivateYear)
	years.Get("/:id/periods", middleware.RequireTeacherOrAbove(), calendarController.GetPeriods)

	periods := protected.Group("/periods")
	periods.Get("/current", middleware.RequireTeacherOrAbove(), calendarController.GetCurrentPeriod)
	periods.Get("/:id", middleware.RequireTeacherOrAbove(), calendarController.GetPeriod)
	periods.Post("/", middleware.RequireOwnerOrAdmin(), calendarController.CreatePeriod)
	periods.Put("/:id", middleware.RequireOwnerOrAdmin(), calendarController.UpdatePeriod)
	periods.Delete("/:id", middleware.RequireOwnerOrAdmin(), calendarController.DeletePeriod)
	periods.Post("/:id/activate", middleware.RequireOwnerOrAdmin(), calendarController.ActivatePeriod)
	periods.Post("/:id/lock", middleware.RequireOwnerOrAdmin(), calendarController.LockPeriod)
	periods.Post("/:id/unlock", middleware.RequireOwnerOrAdmin(), calendarController.UnlockPeriod)
	periods.Post("/:id/archive", middleware.RequireOwnerOrAdmin(), calendarController.ArchivePeriod)
	periods.Get("/:id/next", middleware.RequireTeacherOrAbove(), calendarController.GetNextPeriod)
	periods.Get("/:id/previous", middleware.RequireTeacherOrAbove(), calendarController.GetPreviousPeriod)
	periods.Get("/:id/grades", middleware.RequireTeacherOrAbove(), gradeController.GetPeriodGrades)

	// Grading configuration
	gradingConfig := protected.Group("/grading-config")
	gradingConfig.Get("/", middleware.RequireTeacherOrAbove(), gradingConfigController.GetConfig)
	gradingConfig.Put("/", middleware.RequireOwnerOrAdmin(), gradingConfigController.UpdateConfig)

	// Grades
	grades := protected.Group("/grades")
	grades.Post("/", middleware.RequireTeacherOrAbove(), gradeController.SaveGrade)
	grades.Get("/:id", middleware.RequireTeacherOrAbove(), gradeController.GetGrade)
	grades.Delete("/:id", middleware.RequireTeacherOrAbove(), gradeController.DeleteGrade)
	grades.Post("/:id/lock", middleware.RequireOwnerOrAdmin(), gradeController.LockGrade)
	grades.Post("/:id/unlock", middleware.RequireOwnerOrAdmin(), gradeController.UnlockGrade)

	// Roster
	students := protected.Group("/students")
	students.Get("/", middleware.RequireTeacherOrAbove(), rosterController.GetStudents)
	students.Post("/", middleware.RequireOwnerOrAdmin(), rosterController.CreateStudent)
	students.Put("/:id", middleware.RequireOwnerOrAdmin(), rosterController.UpdateStudent)
	students.Delete("/:id", middleware.RequireOwnerOrAdmin(), rosterController.DeactivateStudent)
	students.Get("/:id/periods/:period_id/grades", middleware.RequireTeacherOrAbove(), gradeController.GetStudentGrades)
	students.Get("/:id/periods/:period_id/attendance", middleware.RequireTeacherOrAbove(), attendanceController.GetStudentAttendance)
	students.Get("/:id/periods/:period_id/position", middleware.RequireTeacherOrAbove(), rankingController.GetStudentPosition)
	students.Get("/:id/periods/:period_id/promotion", middleware.RequireTeacherOrAbove(), promotionController.EvaluateStudent)
	students.Get("/:id/periods/:period_id/report-card", middleware.RequireTeacherOrAbove(), reportController.GetReportCard)

	subjects := protected.Group("/subjects")
	subjects.Get("/", middleware.RequireTeacherOrAbove(), rosterController.GetSubjects)
	subjects.Post("/", middleware.RequireOwnerOrAdmin(), rosterController.CreateSubject)
	subjects.Put("/:id", middleware.RequireOwnerOrAdmin(), rosterController.UpdateSubject)

	// Attendance
	attendance := protected.Group("/attendance")
	attendance.Post("/", middleware.RequireTeacherOrAbove(), attendanceController.RecordAttendance)

	// Promotion policy and evaluation
	promotion := protected.Group("/promotion")
	promotion.Get("/policy", middleware.RequireTeacherOrAbove(), promotionController.GetPolicy)
	promotion.Put("/policy", middleware.RequireOwnerOrAdmin(), promotionController.UpdatePolicy)
	promotion.Get("/classes/:class_level/periods/:period_id", middleware.RequireTeacherOrAbove(), promotionController.EvaluateClass)
	promotion.Post("/classes/:class_level/periods/:period_id/apply", middleware.RequireOwnerOrAdmin(), promotionController.ApplyPromotions)

	// Rankings
	rankings := protected.Group("/rankings")
	rankings.Get("/classes/:class_level/periods/:period_id", middleware.RequireTeacherOrAbove(), rankingController.GetClassRankings)

	// Report cards and exports
	reports := protected.Group("/reports")
	reports.Post("/classes/:class_level/periods/:period_id/generate", middleware.RequireTeacherOrAbove(), reportController.GenerateReportCards)
	reports.Post("/classes/:class_level/periods/:period_id/publish", middleware.RequireOwnerOrAdmin(), reportController.PublishReportCards)
	reports.Post("/classes/:class_level/periods/:period_id/export", middleware.RequireTeacherOrAbove(), reportController.ExportResults)
	reports.Put("/cards/:id/remarks", middleware.RequireTeacherOrAbove(), reportController.UpdateRemarks)

	// Log archives (admin only)
	logs := protected.Group("/logs", middleware.RequireOwnerOrAdmin())
	logs.Get("/archives", reportController.GetLogArchives)
	logs.Get("/archives/:id/download", reportController.DownloadLogArchive)
}
