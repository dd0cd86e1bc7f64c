package handlers

import (
	"foodify/domain"
	"foodify/internal/api/presenters"
	"foodify/pkg/checkout"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CheckoutHandler interface {
		GetCart(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		UpdateCart(c *fiber.Ctx) error
		RemoveCartItem(c *fiber.Ctx) error
		CreateIntent(c *fiber.Ctx) error
		Reconcile(c *fiber.Ctx) error
	}

	checkoutHandler struct {
		checkoutService checkout.CheckoutService
		validator       *validator.Validate
	}
)

func NewCheckoutHandler(checkoutService checkout.CheckoutService, validator *validator.Validate) CheckoutHandler {
	return &checkoutHandler{
		checkoutService: checkoutService,
		validator:       validator,
	}
}

func (h *checkoutHandler) GetCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	summary, err := h.checkoutService.GetCart(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCart, err)
	}

	return presenters.SuccessResponse(c, summary, fiber.StatusOK, domain.MessageSuccessGetCart)
}

func (h *checkoutHandler) AddToCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.AddToCartRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCart, err)
	}

	if err := h.checkoutService.AddToCart(c.Context(), *req, userID); err != nil {
		if err == domain.ErrMenuItemNotFound {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateCart, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessUpdateCart)
}

func (h *checkoutHandler) UpdateCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.UpdateCartRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCart, err)
	}

	if err := h.checkoutService.UpdateCart(c.Context(), *req, userID); err != nil {
		if err == domain.ErrCartItemNotFound {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateCart, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateCart)
}

func (h *checkoutHandler) RemoveCartItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	cartItemID := c.Params("id")

	if err := h.checkoutService.RemoveCartItem(c.Context(), cartItemID, userID); err != nil {
		if err == domain.ErrCartItemNotFound {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateCart, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateCart)
}

func (h *checkoutHandler) CreateIntent(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateIntentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateIntent, err)
	}

	intent, err := h.checkoutService.CreateIntent(c.Context(), *req, userID)
	if err != nil {
		switch err {
		case domain.ErrEmptyCart:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCreateIntent, err)
		case domain.ErrPaymentFailed:
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedCreateIntent, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateIntent, err)
	}

	return presenters.SuccessResponse(c, intent, fiber.StatusCreated, domain.MessageSuccessCreateIntent)
}

func (h *checkoutHandler) Reconcile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.ReconcileRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReconcile, err)
	}

	placed, err := h.checkoutService.Reconcile(c.Context(), *req, userID)
	if err != nil {
		switch err {
		case domain.ErrPaymentNotSucceeded:
			return presenters.ErrorResponse(c, fiber.StatusPaymentRequired, domain.MessageFailedReconcile, err)
		case domain.ErrEmptyCart:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedReconcile, err)
		case domain.ErrPaymentFailed:
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedReconcile, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReconcile, err)
	}

	return presenters.SuccessResponse(c, placed, fiber.StatusCreated, domain.MessageSuccessReconcile)
}
