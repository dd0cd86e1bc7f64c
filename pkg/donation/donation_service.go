package donation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodify/domain"
	"foodify/entities"
	"foodify/pkg/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DonationService interface {
		CreateDonation(ctx context.Context, req domain.CreateDonationRequest, userID string) (*domain.Donation, error)
		ListDonations(ctx context.Context, req domain.ListDonationsRequest) ([]*domain.Donation, int64, error)
		GetDonationByID(ctx context.Context, id string) (*domain.Donation, error)
		GetMyDonations(ctx context.Context, userID string, page, limit int) ([]*domain.Donation, int64, error)
		GetMyBookings(ctx context.Context, userID string, page, limit int) ([]*domain.DonationBooking, int64, error)

		Book(ctx context.Context, req domain.BookDonationRequest, userID string) (*domain.DonationBooking, error)
		CancelBooking(ctx context.Context, bookingID string, userID string) error
		MarkCollected(ctx context.Context, bookingID string, userID string) error
	}

	donationService struct {
		donationRepository  DonationRepository
		notificationService notification.NotificationService
	}
)

func NewDonationService(donationRepository DonationRepository, notificationService notification.NotificationService) DonationService {
	return &donationService{
		donationRepository:  donationRepository,
		notificationService: notificationService,
	}
}

func (s *donationService) CreateDonation(ctx context.Context, req domain.CreateDonationRequest, userID string) (*domain.Donation, error) {
	donorUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	expiryTime, err := time.Parse(time.RFC3339, req.ExpiryTime)
	if err != nil {
		return nil, err
	}

	donation := &entities.Donation{
		ID:                 uuid.New(),
		DonorID:            donorUUID,
		FoodName:           req.FoodName,
		FoodType:           req.FoodType,
		Category:           req.Category,
		Description:        req.Description,
		OriginalQuantity:   req.Quantity,
		AvailableQuantity:  req.Quantity,
		QuantityUnit:       req.QuantityUnit,
		Address:            req.Address,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		ContactPhone:       req.ContactPhone,
		PickupInstructions: req.PickupInstructions,
		ExpiryTime:         expiryTime,
		Status:             domain.DonationStatusAvailable,
	}

	if err := s.donationRepository.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	return toDomainDonation(donation, time.Now()), nil
}

func (s *donationService) ListDonations(ctx context.Context, req domain.ListDonationsRequest) ([]*domain.Donation, int64, error) {
	donations, count, err := s.donationRepository.ListDonations(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	result := make([]*domain.Donation, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDomainDonation(d, now))
	}
	return result, count, nil
}

func (s *donationService) GetDonationByID(ctx context.Context, id string) (*domain.Donation, error) {
	donation, err := s.donationRepository.GetDonationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}
	return toDomainDonation(donation, time.Now()), nil
}

func (s *donationService) GetMyDonations(ctx context.Context, userID string, page, limit int) ([]*domain.Donation, int64, error) {
	donations, count, err := s.donationRepository.GetDonorDonations(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	result := make([]*domain.Donation, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDomainDonation(d, now))
	}
	return result, count, nil
}

func (s *donationService) GetMyBookings(ctx context.Context, userID string, page, limit int) ([]*domain.DonationBooking, int64, error) {
	bookings, count, err := s.donationRepository.GetUserBookings(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	result := make([]*domain.DonationBooking, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, toDomainBooking(b, now))
	}
	return result, count, nil
}

func (s *donationService) Book(ctx context.Context, req domain.BookDonationRequest, userID string) (*domain.DonationBooking, error) {
	bookerUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if req.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, req.DonationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	now := time.Now()
	if donation.DonorID == bookerUUID {
		return nil, domain.ErrSelfBookingDenied
	}
	if !Bookable(donation, now) {
		return nil, domain.ErrNotBookable
	}
	if req.Quantity > donation.AvailableQuantity {
		return nil, domain.ErrOutOfStock
	}

	booking := &entities.DonationBooking{
		ID:             uuid.New(),
		DonationID:     donation.ID,
		BookerID:       bookerUUID,
		QuantityBooked: req.Quantity,
		Status:         domain.BookingStatusConfirmed,
	}

	// The free-donation path produces a zero-amount order so both paths
	// converge on the same confirmed initial state.
	lat, lng := donation.Latitude, donation.Longitude
	order := &entities.Order{
		ID:                uuid.New(),
		UserID:            bookerUUID,
		RestaurantID:      donation.RestaurantID,
		Status:            domain.OrderStatusConfirmed,
		TotalAmount:       0,
		DeliveryFee:       0,
		TaxAmount:         0,
		DeliveryAddress:   donation.Address,
		DeliveryLatitude:  &lat,
		DeliveryLongitude: &lng,
		ConfirmedAt:       &now,
		PaymentStatus:     domain.PaymentStatusCompleted,
		IsPaid:            true,
	}
	item := &entities.OrderItem{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("Donation: %s", donation.FoodName),
		Price:    0,
		Quantity: req.Quantity,
	}

	if err := s.donationRepository.BookDonation(ctx, req.DonationID, now, booking, order, item); err != nil {
		return nil, err
	}

	s.notificationService.Notify(ctx, domain.Event{
		Type:       domain.EventBookingCreated,
		UserID:     donation.DonorID,
		Message:    fmt.Sprintf("%d %s of your donation %q has been booked", req.Quantity, donation.QuantityUnit, donation.FoodName),
		DonationID: &donation.ID,
		OrderID:    &order.ID,
	})

	booking.Donation = donation
	return toDomainBooking(booking, now), nil
}

func (s *donationService) CancelBooking(ctx context.Context, bookingID string, userID string) error {
	actorUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	booking, err := s.donationRepository.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookingNotFound
		}
		return err
	}

	if booking.BookerID != actorUUID {
		return domain.ErrForbidden
	}
	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return domain.ErrNotCancellable
	}

	if err := s.donationRepository.CancelBooking(ctx, bookingID); err != nil {
		return err
	}

	if booking.Donation != nil {
		s.notificationService.Notify(ctx, domain.Event{
			Type:       domain.EventBookingCancelled,
			UserID:     booking.Donation.DonorID,
			Message:    fmt.Sprintf("a booking for your donation %q was cancelled, %d %s returned", booking.Donation.FoodName, booking.QuantityBooked, booking.Donation.QuantityUnit),
			DonationID: &booking.DonationID,
		})
	}
	return nil
}

func (s *donationService) MarkCollected(ctx context.Context, bookingID string, userID string) error {
	actorUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	booking, err := s.donationRepository.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookingNotFound
		}
		return err
	}

	if booking.Donation == nil || booking.Donation.DonorID != actorUUID {
		return domain.ErrForbidden
	}
	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return domain.ErrInvalidTransition
	}

	if err := s.donationRepository.CollectBooking(ctx, bookingID, time.Now()); err != nil {
		return err
	}

	s.notificationService.Notify(ctx, domain.Event{
		Type:       domain.EventDonationCollected,
		UserID:     booking.BookerID,
		Message:    fmt.Sprintf("your booking for %q has been marked as collected", booking.Donation.FoodName),
		DonationID: &booking.DonationID,
	})
	return nil
}

func toDomainDonation(d *entities.Donation, now time.Time) *domain.Donation {
	result := &domain.Donation{
		ID:                 d.ID.String(),
		DonorID:            d.DonorID.String(),
		FoodName:           d.FoodName,
		FoodType:           d.FoodType,
		Category:           d.Category,
		Description:        d.Description,
		OriginalQuantity:   d.OriginalQuantity,
		AvailableQuantity:  d.AvailableQuantity,
		QuantityUnit:       d.QuantityUnit,
		Address:            d.Address,
		Latitude:           d.Latitude,
		Longitude:          d.Longitude,
		ContactPhone:       d.ContactPhone,
		PickupInstructions: d.PickupInstructions,
		ExpiryTime:         d.ExpiryTime,
		Status:             EffectiveStatus(d, now),
		CreatedAt:          d.CreatedAt,
	}
	if d.Donor != nil {
		result.DonorName = d.Donor.Name
	}
	return result
}

func toDomainBooking(b *entities.DonationBooking, now time.Time) *domain.DonationBooking {
	result := &domain.DonationBooking{
		ID:             b.ID.String(),
		DonationID:     b.DonationID.String(),
		BookerID:       b.BookerID.String(),
		QuantityBooked: b.QuantityBooked,
		Status:         b.Status,
		CollectedAt:    b.CollectedAt,
		CreatedAt:      b.CreatedAt,
	}
	if b.OrderID != nil {
		result.OrderID = b.OrderID.String()
	}
	if b.Donation != nil {
		result.Donation = toDomainDonation(b.Donation, now)
	}
	return result
}
