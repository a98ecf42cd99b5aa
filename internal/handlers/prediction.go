package handlers

import (
	"errors"
	"log/slog"

	"cardiorisk/internal/services/prediction"
	"cardiorisk/internal/services/risk"
	"cardiorisk/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PredictionHandler struct {
	service prediction.Service
	limits  prediction.Config
}

// NewPredictionHandler takes the same Config the service was built with so
// an absent limit resolves to the configured page size.
func NewPredictionHandler(service prediction.Service, limits prediction.Config) *PredictionHandler {
	return &PredictionHandler{service: service, limits: limits.WithDefaults()}
}

// Create scores an assessment and stores it in the caller's history
func (h *PredictionHandler) Create(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input risk.Assessment
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	p, result, err := h.service.Create(c.UserContext(), claims.UserID, input)
	if err != nil {
		if handled, resp := fieldErrors(c, err); handled {
			return resp
		}
		slog.ErrorContext(c.UserContext(), "failed to store prediction", "user_id", claims.UserID, "error", err)
		return utils.InternalError(c, "Failed to store prediction")
	}

	return utils.Created(c, fiber.Map{
		"prediction": p,
		"result":     result,
	})
}

// List returns the caller's predictions, newest first
func (h *PredictionHandler) List(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	pagination := utils.GetPagination(c, h.limits.DefaultLimit, h.limits.MaxLimit)
	page, err := h.service.History(c.UserContext(), claims.UserID, pagination.Limit, pagination.Offset)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "failed to list predictions", "user_id", claims.UserID, "error", err)
		return utils.InternalError(c, "Failed to list predictions")
	}

	pagination.SetTotal(page.Total)
	return utils.Success(c, utils.NewPaginatedResponse(page.Items, pagination))
}

// Get returns one of the caller's predictions
func (h *PredictionHandler) Get(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, prediction.ErrInvalidID.Error())
	}

	p, err := h.service.Get(c.UserContext(), claims.UserID, id)
	if err != nil {
		return predictionError(c, err)
	}
	return utils.Success(c, p)
}

// Delete removes one of the caller's predictions
func (h *PredictionHandler) Delete(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, prediction.ErrInvalidID.Error())
	}

	if err := h.service.Delete(c.UserContext(), claims.UserID, id); err != nil {
		return predictionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAll returns every user's predictions for administrators
func (h *PredictionHandler) ListAll(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, h.limits.DefaultLimit, h.limits.MaxLimit)
	page, err := h.service.ListAll(c.UserContext(), pagination.Limit, pagination.Offset)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "failed to list all predictions", "error", err)
		return utils.InternalError(c, "Failed to list predictions")
	}

	pagination.SetTotal(page.Total)
	return utils.Success(c, utils.NewPaginatedResponse(page.Items, pagination))
}

func predictionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, prediction.ErrPredictionNotFound) {
		return utils.NotFound(c, "Prediction not found")
	}
	slog.ErrorContext(c.UserContext(), "prediction lookup failed", "error", err)
	return utils.InternalError(c, "Failed to load prediction")
}
