package handlers

import (
	"errors"

	"cardiorisk/internal/utils"
	"cardiorisk/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// fieldErrors reports err as a 422 when it carries per-field validation
// errors. handled is false for any other error.
func fieldErrors(c *fiber.Ctx, err error) (handled bool, resp error) {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return false, nil
	}
	return true, utils.ValidationFailed(c, fields)
}
