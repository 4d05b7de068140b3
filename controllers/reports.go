package controllers

import (
	"gesschool_go/dto"
	"gesschool_go/middleware"
	"gesschool_go/services"

	"github.com/gofiber/fiber/v2"
)

// ReportController exposes report card generation, publication and the
// Excel export.
type ReportController struct {
	reports *services.ReportService
	archive *services.LogArchiveService
}

func NewReportController() *ReportController {
	return &ReportController{
		reports: services.NewReportService(),
		archive: services.NewLogArchiveService(),
	}
}

// GenerateReportCards builds the cards for a class and period
func (rc *ReportController) GenerateReportCards(c *fiber.Ctx) error {
	classLevel := c.Params("class_level")
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	generated, err := rc.reports.GenerateReportCards(classLevel, periodID)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "report_cards", periodID, fiber.Map{
		"class_level": classLevel,
		"generated":   generated,
	})
	return c.JSON(fiber.Map{
		"message":   "Report cards generated",
		"generated": generated,
	})
}

// PublishReportCards publishes every card of a class and period
func (rc *ReportController) PublishReportCards(c *fiber.Ctx) error {
	classLevel := c.Params("class_level")
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	published, err := rc.reports.PublishReportCards(classLevel, periodID)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "report_cards", periodID, fiber.Map{
		"class_level": classLevel,
		"published":   published,
	})
	return c.JSON(fiber.Map{
		"message":   "Report cards published",
		"published": published,
	})
}

// GetReportCard returns one student's card for a period
func (rc *ReportController) GetReportCard(c *fiber.Ctx) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	card, err := rc.reports.GetReportCard(studentID, periodID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"report_card": dto.ToReportCardDTO(*card)})
}

// UpdateRemarks sets the remarks on an unpublished card
func (rc *ReportController) UpdateRemarks(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		TeacherRemarks   string `json:"teacher_remarks"`
		PrincipalRemarks string `json:"principal_remarks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	card, err := rc.reports.UpdateRemarks(cardID, req.TeacherRemarks, req.PrincipalRemarks)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "report_cards", card.ID, nil)
	return c.JSON(fiber.Map{
		"message":     "Remarks updated",
		"report_card": dto.ToReportCardDTO(*card),
	})
}

// ExportResults builds the Excel grade sheet for a class/period and
// returns the S3 URL
func (rc *ReportController) ExportResults(c *fiber.Ctx) error {
	classLevel := c.Params("class_level")
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	url, err := rc.reports.ExportPeriodResults(classLevel, periodID)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "report_exports", periodID, fiber.Map{
		"class_level": classLevel,
		"url":         url,
	})
	return c.JSON(fiber.Map{
		"message": "Export complete",
		"url":     url,
	})
}

// GetLogArchives lists archived activity-log files
func (rc *ReportController) GetLogArchives(c *fiber.Ctx) error {
	archives, err := rc.archive.GetArchivedLogs()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"archives": archives})
}

// DownloadLogArchive streams one archive ZIP from S3
func (rc *ReportController) DownloadLogArchive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	reader, filename, err := rc.archive.DownloadArchivedLogs(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	defer reader.Close()

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.SendStream(reader)
}
