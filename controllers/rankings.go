package controllers

import (
	"gesschool_go/services"

	"github.com/gofiber/fiber/v2"
)

// RankingController exposes class rankings and per-student positions.
type RankingController struct {
	ranking *services.RankingService
}

func NewRankingController() *RankingController {
	return &RankingController{ranking: services.NewRankingService()}
}

// GetClassRankings returns the ordered cohort for one class and period
func (rc *RankingController) GetClassRankings(c *fiber.Ctx) error {
	classLevel := c.Params("class_level")
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	ranked, err := rc.ranking.RankClass(classLevel, periodID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"class_level": classLevel,
		"period_id":   periodID,
		"cohort_size": len(ranked),
		"rankings":    ranked,
	})
}

// GetStudentPosition returns one student's rank in their class cohort
func (rc *RankingController) GetStudentPosition(c *fiber.Ctx) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	periodID, err := paramID(c, "period_id")
	if err != nil {
		return err
	}

	position, err := rc.ranking.StudentPosition(studentID, periodID)
	if err != nil {
		return serviceError(c, err)
	}
	if position == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student has no grades in this period",
		})
	}
	return c.JSON(fiber.Map{"position": position})
}
