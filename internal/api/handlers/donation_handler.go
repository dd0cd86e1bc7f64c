package handlers

import (
	"strconv"

	"foodify/domain"
	"foodify/internal/api/presenters"
	"foodify/pkg/donation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		CreateDonation(c *fiber.Ctx) error
		ListDonations(c *fiber.Ctx) error
		GetDonationByID(c *fiber.Ctx) error
		GetMyDonations(c *fiber.Ctx) error
		GetMyBookings(c *fiber.Ctx) error
		BookDonation(c *fiber.Ctx) error
		CancelBooking(c *fiber.Ctx) error
		MarkCollected(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		validator:       validator,
	}
}

func (h *donationHandler) CreateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	created, err := h.donationService.CreateDonation(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, created, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

func (h *donationHandler) ListDonations(c *fiber.Ctx) error {
	req := domain.ListDonationsRequest{
		Search:   c.Query("search"),
		FoodType: c.Query("food_type"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     parsePositiveInt(c.Query("page", "1"), 1),
		Limit:    parsePositiveInt(c.Query("limit", "20"), 20),
	}

	donations, count, err := h.donationService.ListDonations(c.Context(), req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": donations,
		"pagination": fiber.Map{
			"page":        req.Page,
			"limit":       req.Limit,
			"total":       count,
			"total_pages": (count + int64(req.Limit) - 1) / int64(req.Limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetDonationByID(c *fiber.Ctx) error {
	donationID := c.Params("id")
	if donationID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, domain.ErrDonationNotFound)
	}

	found, err := h.donationService.GetDonationByID(c.Context(), donationID)
	if err != nil {
		if err == domain.ErrDonationNotFound {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetDonations, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, found, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetMyDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page := parsePositiveInt(c.Query("page", "1"), 1)
	limit := parsePositiveInt(c.Query("limit", "20"), 20)

	donations, count, err := h.donationService.GetMyDonations(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": donations,
		"total":     count,
	}, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetMyBookings(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page := parsePositiveInt(c.Query("page", "1"), 1)
	limit := parsePositiveInt(c.Query("limit", "20"), 20)

	bookings, count, err := h.donationService.GetMyBookings(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"bookings": bookings,
		"total":    count,
	}, fiber.StatusOK, domain.MessageSuccessGetBookings)
}

func (h *donationHandler) BookDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.BookDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBookDonation, err)
	}

	booking, err := h.donationService.Book(c.Context(), *req, userID)
	if err != nil {
		switch err {
		case domain.ErrDonationNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedBookDonation, err)
		case domain.ErrOutOfStock, domain.ErrNotBookable, domain.ErrInvalidQuantity, domain.ErrSelfBookingDenied:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedBookDonation, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBookDonation, err)
	}

	return presenters.SuccessResponse(c, booking, fiber.StatusCreated, domain.MessageSuccessBookDonation)
}

func (h *donationHandler) CancelBooking(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	bookingID := c.Params("id")

	if err := h.donationService.CancelBooking(c.Context(), bookingID, userID); err != nil {
		switch err {
		case domain.ErrBookingNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCancelBooking, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedCancelBooking, err)
		case domain.ErrNotCancellable:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCancelBooking, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCancelBooking, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelBooking)
}

func (h *donationHandler) MarkCollected(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	bookingID := c.Params("id")

	if err := h.donationService.MarkCollected(c.Context(), bookingID, userID); err != nil {
		switch err {
		case domain.ErrBookingNotFound:
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedMarkCollected, err)
		case domain.ErrForbidden:
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedMarkCollected, err)
		case domain.ErrInvalidTransition:
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedMarkCollected, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkCollected, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkCollected)
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
