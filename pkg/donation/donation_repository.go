package donation

import (
	"context"
	"time"

	"foodify/domain"
	"foodify/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	DonationRepository interface {
		CreateDonation(ctx context.Context, donation *entities.Donation) error
		GetDonationByID(ctx context.Context, id string) (*entities.Donation, error)
		ListDonations(ctx context.Context, req domain.ListDonationsRequest) ([]*entities.Donation, int64, error)
		GetDonorDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.Donation, int64, error)

		GetBookingByID(ctx context.Context, id string) (*entities.DonationBooking, error)
		GetUserBookings(ctx context.Context, bookerID string, page, limit int) ([]*entities.DonationBooking, int64, error)

		// BookDonation runs the check-then-decrement sequence as one atomic
		// unit: the donation row is locked, availability is re-checked under
		// the lock, and the booking plus its zero-amount tracking order are
		// created in the same transaction. Concurrent bookers of the same
		// donation serialize here; the loser gets ErrOutOfStock.
		BookDonation(ctx context.Context, donationID string, now time.Time, booking *entities.DonationBooking, order *entities.Order, item *entities.OrderItem) error

		// CancelBooking restores the booked quantity to the donation and marks
		// the booking cancelled, atomically.
		CancelBooking(ctx context.Context, bookingID string) error

		// CollectBooking marks the booking collected and, when the donation is
		// fully drained with no active bookings left, marks the donation
		// collected as well.
		CollectBooking(ctx context.Context, bookingID string, now time.Time) error
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Bookings").
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) ListDonations(ctx context.Context, req domain.ListDonationsRequest) ([]*entities.Donation, int64, error) {
	var donations []*entities.Donation
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Donation{})

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("food_name ILIKE ? OR description ILIKE ? OR address ILIKE ?", like, like, like)
	}
	if req.FoodType != "" {
		query = query.Where("food_type = ?", req.FoodType)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	} else {
		query = query.Where("status IN ?", []string{
			domain.DonationStatusAvailable,
			domain.DonationStatusPartiallyBooked,
		})
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.
		Preload("Donor").
		Order("created_at DESC").
		Offset(offset).
		Limit(req.Limit).
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, count, nil
}

func (r *donationRepository) GetDonorDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.Donation, int64, error) {
	var donations []*entities.Donation
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("donor_id = ?", donorID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Bookings").
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, count, nil
}

func (r *donationRepository) GetBookingByID(ctx context.Context, id string) (*entities.DonationBooking, error) {
	var booking entities.DonationBooking
	if err := r.db.WithContext(ctx).
		Preload("Donation").
		Preload("Donation.Donor").
		Where("id = ?", id).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *donationRepository) GetUserBookings(ctx context.Context, bookerID string, page, limit int) ([]*entities.DonationBooking, int64, error) {
	var bookings []*entities.DonationBooking
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.DonationBooking{}).
		Where("booker_id = ?", bookerID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Donation").
		Where("booker_id = ?", bookerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, count, nil
}

func (r *donationRepository) BookDonation(ctx context.Context, donationID string, now time.Time, booking *entities.DonationBooking, order *entities.Order, item *entities.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d entities.Donation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", donationID).
			First(&d).Error; err != nil {
			return err
		}

		if !Bookable(&d, now) {
			return domain.ErrNotBookable
		}
		if d.AvailableQuantity < booking.QuantityBooked {
			return domain.ErrOutOfStock
		}

		d.AvailableQuantity -= booking.QuantityBooked
		d.Status = DeriveStatus(d.AvailableQuantity, d.OriginalQuantity)
		if err := tx.Save(&d).Error; err != nil {
			return err
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		item.OrderID = order.ID
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		booking.OrderID = &order.ID
		return tx.Create(booking).Error
	})
}

func (r *donationRepository) CancelBooking(ctx context.Context, bookingID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking entities.DonationBooking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bookingID).
			First(&booking).Error; err != nil {
			return err
		}

		if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
			return domain.ErrNotCancellable
		}

		var d entities.Donation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", booking.DonationID).
			First(&d).Error; err != nil {
			return err
		}

		booking.Status = domain.BookingStatusCancelled
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		d.AvailableQuantity += booking.QuantityBooked
		d.Status = DeriveStatus(d.AvailableQuantity, d.OriginalQuantity)
		return tx.Save(&d).Error
	})
}

func (r *donationRepository) CollectBooking(ctx context.Context, bookingID string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking entities.DonationBooking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bookingID).
			First(&booking).Error; err != nil {
			return err
		}

		booking.Status = domain.BookingStatusCollected
		booking.CollectedAt = &now
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		var d entities.Donation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", booking.DonationID).
			First(&d).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.
			Model(&entities.DonationBooking{}).
			Where("donation_id = ? AND status IN ?", d.ID, []string{
				domain.BookingStatusPending,
				domain.BookingStatusConfirmed,
			}).
			Count(&active).Error; err != nil {
			return err
		}

		if active == 0 && d.AvailableQuantity == 0 {
			d.Status = domain.DonationStatusCollected
			return tx.Save(&d).Error
		}
		return nil
	})
}
