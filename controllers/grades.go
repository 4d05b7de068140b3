package controllers

import (
	"strconv"

	"gesschool_go/dto"
	"gesschool_go/middleware"
	"gesschool_go/services"

	"github.com/gofiber/fiber/v2"
)

// GradeController exposes grade entry and retrieval.
type GradeController struct {
	grading *services.GradingService
}

func NewGradeController() *GradeController {
	return &GradeController{grading: services.NewGradingService()}
}

// SaveGrade records or updates the grade for (student, subject, period)
func (gc *GradeController) SaveGrade(c *fiber.Ctx) error {
	var req services.GradeInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateStruct(c, req); err != nil {
		return err
	}

	if user, err := middleware.GetCurrentUser(c); err == nil {
		req.RecordedByID = user.ID
	}

	grade, err := gc.grading.SaveGrade(req)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "grades", grade.ID, fiber.Map{
		"student_id": grade.StudentID,
		"subject_id": grade.SubjectID,
		"period_id":  grade.PeriodID,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Grade saved successfully",
		"grade":   dto.ToGradeDTO(*grade),
	})
}

// GetGrade returns one grade
func (gc *GradeController) GetGrade(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	grade, err := gc.grading.GetGrade(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"grade": dto.ToGradeDTO(*grade)})
}

// DeleteGrade removes an unlocked grade
func (gc *GradeController) DeleteGrade(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := gc.grading.DeleteGrade(id); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "grades", id, nil)
	return c.JSON(fiber.Map{"message": "Grade deleted successfully"})
}

// LockGrade freezes one grade row against further writes
func (gc *GradeController) LockGrade(c *fiber.Ctx) error {
	return gc.setLocked(c, true)
}

// UnlockGrade reopens one grade row
func (gc *GradeController) UnlockGrade(c *fiber.Ctx) error {
	return gc.setLocked(c, false)
}

func (gc *GradeController) setLocked(c *fiber.Ctx, locked bool) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	grade, err := gc.grading.SetGradeLocked(id, locked)
	if err != nil {
		return serviceError(c, err)
	}

	action := "LOCK"
	if !locked {
		action = "UNLOCK"
	}
	middleware.LogActivity(c, action, "grades", grade.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Grade updated successfully",
		"grade":   dto.ToGradeDTO(*grade),
	})
}

// GetStudentGrades lists a student's grades for one period
func (gc *GradeController) GetStudentGrades(c *fiber.Ctx) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	grades, err := gc.grading.GetStudentGrades(studentID, periodID)
	if err != nil {
		return serviceError(c, err)
	}

	dtos := make([]dto.GradeDTO, 0, len(grades))
	for i := range grades {
		dtos = append(dtos, dto.ToGradeDTO(grades[i]))
	}
	return c.JSON(fiber.Map{"grades": dtos})
}

// GetPeriodGrades lists every grade of a period, filterable by subject
// via ?subject_id=
func (gc *GradeController) GetPeriodGrades(c *fiber.Ctx) error {
	periodID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var subjectID uint
	if raw := c.Query("subject_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid subject_id"})
		}
		subjectID = uint(parsed)
	}

	grades, err := gc.grading.GetPeriodGrades(periodID, subjectID)
	if err != nil {
		return serviceError(c, err)
	}

	dtos := make([]dto.GradeDTO, 0, len(grades))
	for i := range grades {
		dtos = append(dtos, dto.ToGradeDTO(grades[i]))
	}
	return c.JSON(fiber.Map{"grades": dtos})
}
