package handlers

import (
	"foodify/domain"
	"foodify/internal/api/presenters"
	"foodify/pkg/order"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	OrderHandler interface {
		GetMyOrders(c *fiber.Ctx) error
		GetOrderByID(c *fiber.Ctx) error
		GetRestaurantOrders(c *fiber.Ctx) error
		TrackOrder(c *fiber.Ctx) error
		UpdateOrderStatus(c *fiber.Ctx) error
		CancelOrder(c *fiber.Ctx) error
	}

	orderHandler struct {
		orderService order.OrderService
		validator    *validator.Validate
	}
)

func NewOrderHandler(orderService order.OrderService, validator *validator.Validate) OrderHandler {
	return &orderHandler{
		orderService: orderService,
		validator:    validator,
	}
}

func (h *orderHandler) GetMyOrders(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page := parsePositiveInt(c.Query("page", "1"), 1)
	limit := parsePositiveInt(c.Query("limit", "20"), 20)

	orders, count, err := h.orderService.GetMyOrders(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetOrders, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"orders": orders,
		"total":  count,
	}, fiber.StatusOK, domain.MessageSuccessGetOrders)
}

func (h *orderHandler) GetOrderByID(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	orderID := c.Params("id")

	found, err := h.orderService.GetOrderByID(c.Context(), orderID, userID)
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetOrders, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedGetOrders, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetOrders, err)
	}

	return presenters.SuccessResponse(c, found, fiber.StatusOK, domain.MessageSuccessGetOrder)
}

func (h *orderHandler) GetRestaurantOrders(c *fiber.Ctx) error {
	ownerID := c.Locals("user_id").(string)
	page := parsePositiveInt(c.Query("page", "1"), 1)
	limit := parsePositiveInt(c.Query("limit", "20"), 20)

	orders, count, err := h.orderService.GetRestaurantOrders(c.Context(), ownerID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetOrders, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"orders": orders,
		"total":  count,
	}, fiber.StatusOK, domain.MessageSuccessGetOrders)
}

func (h *orderHandler) TrackOrder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	orderID := c.Params("id")

	tracking, err := h.orderService.TrackOrder(c.Context(), orderID, userID)
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetOrders, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedGetOrders, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetOrders, err)
	}

	return presenters.SuccessResponse(c, tracking, fiber.StatusOK, domain.MessageSuccessTrackOrder)
}

func (h *orderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	ownerID := c.Locals("user_id").(string)

	req := new(domain.UpdateOrderStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.OrderID = c.Params("id")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateOrder, err)
	}

	if err := h.orderService.AdvanceToPreparing(c.Context(), *req, ownerID); err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateOrder, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedUpdateOrder, err)
		case domain.ErrInvalidTransition:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedUpdateOrder, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateOrder, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateOrder)
}

func (h *orderHandler) CancelOrder(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(string)
	orderID := c.Params("id")

	if err := h.orderService.CancelOrder(c.Context(), orderID, actorID); err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCancelOrder, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedCancelOrder, err)
		case domain.ErrInvalidTransition:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCancelOrder, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCancelOrder, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelOrder)
}
