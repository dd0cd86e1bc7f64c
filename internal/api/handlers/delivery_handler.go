package handlers

import (
	"foodify/domain"
	"foodify/internal/api/presenters"
	"foodify/pkg/delivery"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DeliveryHandler interface {
		RegisterAgent(c *fiber.Ctx) error
		GetProfile(c *fiber.Ctx) error
		ToggleAvailability(c *fiber.Ctx) error
		Dashboard(c *fiber.Ctx) error
		AcceptOrder(c *fiber.Ctx) error
		RejectOrder(c *fiber.Ctx) error
		MarkPicked(c *fiber.Ctx) error
		MarkDelivered(c *fiber.Ctx) error
		UpdateLocation(c *fiber.Ctx) error
	}

	deliveryHandler struct {
		deliveryService delivery.DeliveryService
		validator       *validator.Validate
	}
)

func NewDeliveryHandler(deliveryService delivery.DeliveryService, validator *validator.Validate) DeliveryHandler {
	return &deliveryHandler{
		deliveryService: deliveryService,
		validator:       validator,
	}
}

func (h *deliveryHandler) RegisterAgent(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.RegisterAgentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	profile, err := h.deliveryService.RegisterAgent(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, profile, fiber.StatusCreated, domain.MessageSuccessGetDashboard)
}

func (h *deliveryHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	profile, err := h.deliveryService.GetProfile(c.Context(), userID)
	if err != nil {
		if err == domain.ErrAgentNotFound {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedProcessRequest, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, profile, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *deliveryHandler) ToggleAvailability(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	available, err := h.deliveryService.ToggleAvailability(c.Context(), userID)
	if err != nil {
		if err == domain.ErrAgentNotFound {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedProcessRequest, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"availability_status": available,
	}, fiber.StatusOK, domain.MessageSuccessToggleAvailability)
}

func (h *deliveryHandler) Dashboard(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	dashboard, err := h.deliveryService.Dashboard(c.Context(), userID)
	if err != nil {
		if err == domain.ErrAgentNotFound {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedProcessRequest, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, dashboard, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *deliveryHandler) AcceptOrder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	orderID := c.Params("id")

	if err := h.deliveryService.AcceptOrder(c.Context(), orderID, userID); err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedAcceptOrder, err)
		case domain.ErrAlreadyAssigned, domain.ErrInvalidTransition:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedAcceptOrder, err)
		case domain.ErrAgentNotFound:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedAcceptOrder, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAcceptOrder, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessAcceptOrder)
}

func (h *deliveryHandler) RejectOrder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	orderID := c.Params("id")

	if err := h.deliveryService.RejectOrder(c.Context(), orderID, userID); err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRejectOrder, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedRejectOrder, err)
		case domain.ErrInvalidTransition:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedRejectOrder, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRejectOrder, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRejectOrder)
}

func (h *deliveryHandler) MarkPicked(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	orderID := c.Params("id")

	picked, err := h.deliveryService.MarkPicked(c.Context(), orderID, userID)
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedMarkPicked, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedMarkPicked, err)
		case domain.ErrInvalidTransition:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedMarkPicked, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkPicked, err)
	}

	return presenters.SuccessResponse(c, picked, fiber.StatusOK, domain.MessageSuccessMarkPicked)
}

func (h *deliveryHandler) MarkDelivered(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	orderID := c.Params("id")

	delivered, err := h.deliveryService.MarkDelivered(c.Context(), orderID, userID)
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedMarkDelivered, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedMarkDelivered, err)
		case domain.ErrInvalidTransition:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedMarkDelivered, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkDelivered, err)
	}

	return presenters.SuccessResponse(c, delivered, fiber.StatusOK, domain.MessageSuccessMarkDelivered)
}

func (h *deliveryHandler) UpdateLocation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.UpdateLocationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLocation, err)
	}

	if err := h.deliveryService.UpdateLocation(c.Context(), *req, userID); err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateLocation, err)
		case domain.ErrNotInTransit:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedUpdateLocation, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateLocation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateLocation)
}
