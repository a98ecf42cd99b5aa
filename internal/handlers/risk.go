package handlers

import (
	"errors"
	"log/slog"

	"cardiorisk/internal/services/prediction"
	"cardiorisk/internal/services/risk"
	"cardiorisk/internal/utils"
	"cardiorisk/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RiskHandler serves the public, stateless assessment endpoints.
type RiskHandler struct {
	predictions prediction.Service
}

func NewRiskHandler(predictions prediction.Service) *RiskHandler {
	return &RiskHandler{predictions: predictions}
}

// Score validates and scores an assessment without storing it
func (h *RiskHandler) Score(c *fiber.Ctx) error {
	var input risk.Assessment
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.predictions.Evaluate(c.UserContext(), input)
	if err != nil {
		if handled, resp := fieldErrors(c, err); handled {
			return resp
		}
		slog.ErrorContext(c.UserContext(), "scoring failed", "error", err)
		return utils.InternalError(c, "Failed to score assessment")
	}

	return utils.Success(c, result)
}

// BMI derives body mass index from height in cm and weight in kg
func (h *RiskHandler) BMI(c *fiber.Ctx) error {
	var input struct {
		Height float64 `json:"height"`
		Weight float64 `json:"weight"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	risk.ValidateBody(v, input.Height, input.Weight)
	if handled, resp := fieldErrors(c, v.Err()); handled {
		return resp
	}

	bmi, err := risk.ComputeBMI(input.Height, input.Weight)
	if err != nil {
		if errors.Is(err, risk.ErrInvalidBMIInput) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to compute BMI")
	}

	return utils.Success(c, fiber.Map{"bmi": bmi})
}

// ChestPainTypes lists the accepted chest pain types
func (h *RiskHandler) ChestPainTypes(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"types": risk.ChestPainReference()})
}
