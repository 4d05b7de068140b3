package controllers

import (
	"strconv"

	"gesschool_go/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

// serviceError maps a service-layer error onto the right HTTP status and
// payload. Typed client errors carry their field attribution; everything
// else is a 500 with a generic message.
func serviceError(c *fiber.Ctx, err error) error {
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Record not found",
		})
	}
	if utils.IsClientError(err) {
		status := fiber.StatusBadRequest
		if _, ok := err.(*utils.LockedPeriodError); ok {
			status = fiber.StatusConflict
		}
		payload := fiber.Map{"error": err.Error()}
		if field := utils.ErrorField(err); field != "" {
			payload["field"] = field
		}
		return c.Status(status).JSON(payload)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// paramID parses the :id (or named) route parameter as uint.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// validateStruct runs validator tags and renders the first failure.
func validateStruct(c *fiber.Ctx, v interface{}) error {
	if err := validate.Struct(v); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Validation failed",
				"field": errs[0].Field(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Validation failed",
		})
	}
	return nil
}
