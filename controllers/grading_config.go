package controllers

import (
	"gesschool_go/middleware"
	"gesschool_go/models"
	"gesschool_go/services"

	"github.com/gofiber/fiber/v2"
)

// GradingConfigController exposes the boundary/weight configuration.
type GradingConfigController struct {
	grading *services.GradingService
}

func NewGradingConfigController() *GradingConfigController {
	return &GradingConfigController{grading: services.NewGradingService()}
}

// GetConfig returns the current grading configuration with its derived
// band tables.
func (gcc *GradingConfigController) GetConfig(c *fiber.Ctx) error {
	cfg, err := gcc.grading.BoundaryConfig()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"config":        cfg,
		"numeric_bands": cfg.NumericBands(),
		"letter_bands":  cfg.LetterBands(),
	})
}

// UpdateConfig replaces the grading configuration. The change is
// all-or-nothing: if any boundary, weight or passing-mark rule fails,
// nothing is stored. On success every grade in an unlocked period is
// reclassified.
func (gcc *GradingConfigController) UpdateConfig(c *fiber.Ctx) error {
	var req models.GradeBoundaryConfig
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	cfg, err := gcc.grading.UpdateBoundaryConfig(&req)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "grading_config", cfg.ID, fiber.Map{
		"grading_system": cfg.GradingSystem,
		"passing_mark":   cfg.PassingMark,
	})
	return c.JSON(fiber.Map{
		"message": "Grading configuration updated successfully",
		"config":  cfg,
	})
}
