package controllers

import (
	"gesschool_go/dto"
	"gesschool_go/middleware"
	"gesschool_go/models"
	"gesschool_go/services"

	"github.com/gofiber/fiber/v2"
)

// CalendarController exposes academic years and periods.
type CalendarController struct {
	calendar *services.CalendarService
}

func NewCalendarController() *CalendarController {
	return &CalendarController{calendar: services.NewCalendarService()}
}

// YearRequest is the create/update payload for an academic year.
type YearRequest struct {
	Name        string          `json:"name" validate:"required"`
	StartDate   models.DateOnly `json:"start_date"`
	EndDate     models.DateOnly `json:"end_date"`
	Description string          `json:"description"`
}

// PeriodRequest is the create payload for an academic period.
type PeriodRequest struct {
	AcademicYearID uint            `json:"academic_year_id" validate:"required"`
	PeriodSystem   string          `json:"period_system" validate:"required"`
	PeriodNumber   int             `json:"period_number" validate:"required,min=1"`
	Name           string          `json:"name"`
	StartDate      models.DateOnly `json:"start_date"`
	EndDate        models.DateOnly `json:"end_date"`
	Description    string          `json:"description"`
}

// GetYears lists all academic years
func (cc *CalendarController) GetYears(c *fiber.Ctx) error {
	years, err := cc.calendar.GetYears()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"academic_years": years})
}

// GetYear returns one academic year with its periods
func (cc *CalendarController) GetYear(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	year, err := cc.calendar.GetYear(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"academic_year": year})
}

// CreateYear creates an academic year
func (cc *CalendarController) CreateYear(c *fiber.Ctx) error {
	var req YearRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateStruct(c, req); err != nil {
		return err
	}

	year := models.AcademicYear{
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	}
	if err := cc.calendar.CreateYear(&year); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "academic_years", year.ID, fiber.Map{"name": year.Name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Academic year created successfully",
		"academic_year": year,
	})
}

// UpdateYear updates an academic year's name, dates and description
func (cc *CalendarController) UpdateYear(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req YearRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	year, err := cc.calendar.UpdateYear(id, &models.AcademicYear{
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	})
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "academic_years", year.ID, fiber.Map{"name": year.Name})
	return c.JSON(fiber.Map{
		"message":       "Academic year updated successfully",
		"academic_year": year,
	})
}

// ActivateYear marks one year active
func (cc *CalendarController) ActivateYear(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	year, err := cc.calendar.SetActiveYear(id)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "academic_years", year.ID, fiber.Map{"action": "activate"})
	return c.JSON(fiber.Map{
		"message":       "Academic year activated",
		"academic_year": year,
	})
}

// GetCurrentYear returns the year in effect now
func (cc *CalendarController) GetCurrentYear(c *fiber.Ctx) error {
	year, err := cc.calendar.CurrentYear()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"academic_year": year})
}

// GetPeriods lists the periods of one year
func (cc *CalendarController) GetPeriods(c *fiber.Ctx) error {
	yearID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	periods, err := cc.calendar.GetPeriods(yearID)
	if err != nil {
		return serviceError(c, err)
	}
	dtos := make([]dto.PeriodDTO, 0, len(periods))
	for i := range periods {
		dtos = append(dtos, dto.ToPeriodDTO(periods[i]))
	}
	return c.JSON(fiber.Map{"periods": dtos})
}

// GetPeriod returns one period
func (cc *CalendarController) GetPeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	period, err := cc.calendar.GetPeriod(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"period": dto.ToPeriodDTO(*period)})
}

// CreatePeriod creates a period inside a year
func (cc *CalendarController) CreatePeriod(c *fiber.Ctx) error {
	var req PeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateStruct(c, req); err != nil {
		return err
	}

	period := models.AcademicPeriod{
		AcademicYearID: req.AcademicYearID,
		PeriodSystem:   req.PeriodSystem,
		PeriodNumber:   req.PeriodNumber,
		Name:           req.Name,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Description:    req.Description,
	}
	if err := cc.calendar.CreatePeriod(&period); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "periods", period.ID, fiber.Map{"name": period.Name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Period created successfully",
		"period":  dto.ToPeriodDTO(period),
	})
}

// UpdatePeriod moves a period's dates
func (cc *CalendarController) UpdatePeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		StartDate   models.DateOnly `json:"start_date"`
		EndDate     models.DateOnly `json:"end_date"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	period, err := cc.calendar.UpdatePeriodDates(id, req.StartDate, req.EndDate, req.Description)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "periods", period.ID, fiber.Map{"name": period.Name})
	return c.JSON(fiber.Map{
		"message": "Period updated successfully",
		"period":  dto.ToPeriodDTO(*period),
	})
}

// DeletePeriod removes an unlocked, gradeless period
func (cc *CalendarController) DeletePeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := cc.calendar.DeletePeriod(id); err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "periods", id, nil)
	return c.JSON(fiber.Map{"message": "Period deleted successfully"})
}

// ActivatePeriod flags one period active
func (cc *CalendarController) ActivatePeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	period, err := cc.calendar.SetActivePeriod(id)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "periods", period.ID, fiber.Map{"action": "activate"})
	return c.JSON(fiber.Map{
		"message": "Period activated",
		"period":  dto.ToPeriodDTO(*period),
	})
}

// LockPeriod freezes grade entry for a period
func (cc *CalendarController) LockPeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	period, err := cc.calendar.LockPeriod(id)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "periods", period.ID, fiber.Map{"action": "lock"})
	return c.JSON(fiber.Map{
		"message": "Period locked",
		"period":  dto.ToPeriodDTO(*period),
	})
}

// UnlockPeriod reopens grade entry for a period
func (cc *CalendarController) UnlockPeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	period, err := cc.calendar.UnlockPeriod(id)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "periods", period.ID, fiber.Map{"action": "unlock"})
	return c.JSON(fiber.Map{
		"message": "Period unlocked",
		"period":  dto.ToPeriodDTO(*period),
	})
}

// ArchivePeriod permanently closes a period
func (cc *CalendarController) ArchivePeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	period, err := cc.calendar.ArchivePeriod(id)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "periods", period.ID, fiber.Map{"action": "archive"})
	return c.JSON(fiber.Map{
		"message": "Period archived",
		"period":  dto.ToPeriodDTO(*period),
	})
}

// GetCurrentPeriod returns the period in effect now
func (cc *CalendarController) GetCurrentPeriod(c *fiber.Ctx) error {
	period, err := cc.calendar.CurrentPeriod()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"period": dto.ToPeriodDTO(*period)})
}

// GetNextPeriod returns the sibling after a period
func (cc *CalendarController) GetNextPeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	period, err := cc.calendar.NextPeriod(id)
	if err != nil {
		return serviceError(c, err)
	}
	if period == nil {
		return c.JSON(fiber.Map{"period": nil})
	}
	return c.JSON(fiber.Map{"period": dto.ToPeriodDTO(*period)})
}

// GetPreviousPeriod returns the sibling before a period
func (cc *CalendarController) GetPreviousPeriod(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	period, err := cc.calendar.PreviousPeriod(id)
	if err != nil {
		return serviceError(c, err)
	}
	if period == nil {
		return c.JSON(fiber.Map{"period": nil})
	}
	return c.JSON(fiber.Map{"period": dto.ToPeriodDTO(*period)})
}
