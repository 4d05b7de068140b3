package controllers

import (
	"gesschool_go/database"
	"gesschool_go/middleware"
	"gesschool_go/models"
	"gesschool_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AttendanceController records daily attendance and reports summaries.
type AttendanceController struct{}

func NewAttendanceController() *AttendanceController {
	return &AttendanceController{}
}

// AttendanceRequest is the write payload for one day's record.
type AttendanceRequest struct {
	StudentID uint            `json:"student_id" validate:"required"`
	PeriodID  uint            `json:"period_id" validate:"required"`
	Date      models.DateOnly `json:"date"`
	Status    string          `json:"status" validate:"required,oneof=present absent late"`
}

// RecordAttendance upserts the record for (student, period, date).
// Locked periods reject the write.
func (ac *AttendanceController) RecordAttendance(c *fiber.Ctx) error {
	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateStruct(c, req); err != nil {
		return err
	}
	if req.Date.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date is required", "field": "date"})
	}

	var record models.StudentAttendance
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var period models.AcademicPeriod
		if err := tx.First(&period, req.PeriodID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NewValidationError("period_id", "period not found")
			}
			return err
		}
		if period.Locked {
			return utils.NewLockedPeriodError(period.ID, "attendance")
		}
		if !period.ContainsDate(req.Date.Time) {
			return utils.NewValidationError("date", "date falls outside the period")
		}

		err := tx.Where("student_id = ? AND period_id = ? AND date = ?",
			req.StudentID, req.PeriodID, req.Date.Time).First(&record).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		record.StudentID = req.StudentID
		record.PeriodID = req.PeriodID
		record.Date = req.Date
		record.Status = req.Status
		return tx.Save(&record).Error
	})
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "attendance", record.ID, fiber.Map{
		"student_id": record.StudentID,
		"date":       record.Date,
		"status":     record.Status,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Attendance recorded successfully",
		"attendance": record,
	})
}

// GetStudentAttendance returns the daily records and summary for one
// student in a period.
func (ac *AttendanceController) GetStudentAttendance(c *fiber.Ctx) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	var records []models.StudentAttendance
	if err := database.DB.Where("student_id = ? AND period_id = ?", studentID, periodID).
		Order("date ASC").Find(&records).Error; err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"attendance": records,
		"summary":    models.SummarizeAttendance(records),
	})
}
