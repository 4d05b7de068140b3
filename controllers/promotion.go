package controllers

import (
	"gesschool_go/middleware"
	"gesschool_go/models"
	"gesschool_go/services"

	"github.com/gofiber/fiber/v2"
)

// PromotionController exposes the promotion policy and evaluations.
type PromotionController struct {
	promotion *services.PromotionService
}

func NewPromotionController() *PromotionController {
	return &PromotionController{promotion: services.NewPromotionService()}
}

// GetPolicy returns the promotion policy
func (pc *PromotionController) GetPolicy(c *fiber.Ctx) error {
	policy, err := pc.promotion.Policy()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"policy": policy})
}

// UpdatePolicy replaces the promotion policy
func (pc *PromotionController) UpdatePolicy(c *fiber.Ctx) error {
	var req models.PromotionPolicy
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	policy, err := pc.promotion.UpdatePolicy(&req)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "promotion_policy", policy.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Promotion policy updated successfully",
		"policy":  policy,
	})
}

// EvaluateStudent runs the promotion rules for one student
func (pc *PromotionController) EvaluateStudent(c *fiber.Ctx) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	decision, err := pc.promotion.EvaluateStudent(studentID, periodID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"decision": decision})
}

// EvaluateClass runs the promotion rules for a whole class level
func (pc *PromotionController) EvaluateClass(c *fiber.Ctx) error {
	classLevel := c.Params("class_level")
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	decisions, err := pc.promotion.EvaluateClass(classLevel, periodID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"decisions": decisions})
}

// ApplyPromotions moves the eligible students of a class to their next
// level
func (pc *PromotionController) ApplyPromotions(c *fiber.Ctx) error {
	classLevel := c.Params("class_level")
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	decisions, err := pc.promotion.EvaluateClass(classLevel, periodID)
	if err != nil {
		return serviceError(c, err)
	}

	applied, err := pc.promotion.ApplyPromotions(decisions)
	if err != nil {
		return serviceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "promotions", periodID, fiber.Map{
		"class_level": classLevel,
		"applied":     applied,
	})
	return c.JSON(fiber.Map{
		"message":   "Promotions applied",
		"applied":   applied,
		"decisions": decisions,
	})
}
