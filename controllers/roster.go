package controllers

import (
	"gesschool_go/database"
	"gesschool_go/middleware"
	"gesschool_go/models"

	"github.com/gofiber/fiber/v2"
)

// RosterController manages the student and subject slices of the roster
// that grading needs. Full admissions live in a separate system.
type RosterController struct{}

func NewRosterController() *RosterController {
	return &RosterController{}
}

// StudentRequest is the create/update payload for a student.
type StudentRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	AdmissionNo string `json:"admission_no" validate:"required"`
	ClassLevel  string `json:"class_level" validate:"required"`
}

// SubjectRequest is the create/update payload for a subject.
type SubjectRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code"`
	MustPass bool   `json:"must_pass"`
}

// GetStudents lists students, filterable by ?class_level=
func (rc *RosterController) GetStudents(c *fiber.Ctx) error {
	query := database.DB.Where("active = ?", true)
	if level := c.Query("class_level"); level != "" {
		if !models.IsValidClassLevel(level) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown class level", "field": "class_level"})
		}
		query = query.Where("class_level = ?", level)
	}

	var students []models.Student
	if err := query.Order("class_level ASC, last_name ASC").Find(&students).Error; err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"students": students})
}

// CreateStudent adds a student to the roster
func (rc *RosterController) CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateStruct(c, req); err != nil {
		return err
	}
	if !models.IsValidClassLevel(req.ClassLevel) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown class level", "field": "class_level"})
	}

	var existing models.Student
	if err := database.DB.Where("admission_no = ?", req.AdmissionNo).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Admission number already exists"})
	}

	student := models.Student{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		AdmissionNo: req.AdmissionNo,
		ClassLevel:  req.ClassLevel,
		Active:      true,
	}
	if err := database.DB.Create(&student).Error; err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "students", student.ID, fiber.Map{"admission_no": student.AdmissionNo})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent edits a student's names and class level
func (rc *RosterController) UpdateStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return serviceError(c, err)
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ClassLevel != "" && !models.IsValidClassLevel(req.ClassLevel) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown class level", "field": "class_level"})
	}

	if req.FirstName != "" {
		student.FirstName = req.FirstName
	}
	if req.LastName != "" {
		student.LastName = req.LastName
	}
	if req.ClassLevel != "" {
		student.ClassLevel = req.ClassLevel
	}
	if err := database.DB.Save(&student).Error; err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeactivateStudent removes a student from the active roster
func (rc *RosterController) DeactivateStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := database.DB.Model(&models.Student{}).Where("id = ?", id).Update("active", false).Error; err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "students", id, fiber.Map{"action": "deactivate"})
	return c.JSON(fiber.Map{"message": "Student deactivated"})
}

// GetSubjects lists active subjects
func (rc *RosterController) GetSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&subjects).Error; err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"subjects": subjects})
}

// CreateSubject adds a subject
func (rc *RosterController) CreateSubject(c *fiber.Ctx) error {
	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateStruct(c, req); err != nil {
		return err
	}

	var existing models.Subject
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Subject already exists"})
	}

	subject := models.Subject{
		Name:     req.Name,
		Code:     req.Code,
		MustPass: req.MustPass,
		Active:   true,
	}
	if err := database.DB.Create(&subject).Error; err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "subjects", subject.ID, fiber.Map{"name": subject.Name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Subject created successfully",
		"subject": subject,
	})
}

// UpdateSubject edits a subject
func (rc *RosterController) UpdateSubject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var subject models.Subject
	if err := database.DB.First(&subject, id).Error; err != nil {
		return serviceError(c, err)
	}

	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != "" {
		subject.Name = req.Name
	}
	if req.Code != "" {
		subject.Code = req.Code
	}
	subject.MustPass = req.MustPass
	if err := database.DB.Save(&subject).Error; err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "subjects", subject.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Subject updated successfully",
		"subject": subject,
	})
}
