package handlers

import (
	"foodify/domain"
	"foodify/internal/api/presenters"
	"foodify/pkg/notification"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	NotificationHandler interface {
		GetMyNotifications(c *fiber.Ctx) error
		MarkRead(c *fiber.Ctx) error
		MarkAllRead(c *fiber.Ctx) error
	}

	notificationHandler struct {
		notificationService notification.NotificationService
		validator           *validator.Validate
	}
)

func NewNotificationHandler(notificationService notification.NotificationService, validator *validator.Validate) NotificationHandler {
	return &notificationHandler{
		notificationService: notificationService,
		validator:           validator,
	}
}

func (h *notificationHandler) GetMyNotifications(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page := parsePositiveInt(c.Query("page", "1"), 1)
	limit := parsePositiveInt(c.Query("limit", "20"), 20)

	notifications, count, err := h.notificationService.GetUserNotifications(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetNotifications, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"notifications": notifications,
		"total":         count,
	}, fiber.StatusOK, domain.MessageSuccessGetNotifications)
}

func (h *notificationHandler) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	notificationID := c.Params("id")

	if err := h.notificationService.MarkRead(c.Context(), notificationID, userID); err != nil {
		switch err {
		case domain.ErrNotificationNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetNotifications, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedGetNotifications, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetNotifications, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkRead)
}

func (h *notificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.notificationService.MarkAllRead(c.Context(), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetNotifications, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkRead)
}
