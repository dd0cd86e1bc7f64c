package donation

import (
	"time"

	"foodify/domain"
	"foodify/entities"
)

// DeriveStatus computes the quantity-driven donation status. Collected and
// cancelled are terminal and never recomputed; expiry is layered on top at
// read time, see EffectiveStatus.
func DeriveStatus(available, original int) string {
	switch {
	case available <= 0:
		return domain.DonationStatusFullyBooked
	case available < original:
		return domain.DonationStatusPartiallyBooked
	default:
		return domain.DonationStatusAvailable
	}
}

// IsExpired is a pure comparison against the expiry time. There is no
// background sweep: an expired donation with active bookings stays
// collectible.
func IsExpired(d *entities.Donation, now time.Time) bool {
	return !d.ExpiryTime.IsZero() && now.After(d.ExpiryTime)
}

// EffectiveStatus is the status presented to callers: the stored status,
// overridden by expired when the expiry time has passed and the donation is
// still open for booking.
func EffectiveStatus(d *entities.Donation, now time.Time) string {
	switch d.Status {
	case domain.DonationStatusCollected, domain.DonationStatusCancelled:
		return d.Status
	}
	if IsExpired(d, now) {
		return domain.DonationStatusExpired
	}
	return d.Status
}

// Bookable reports whether a donation can still accept bookings.
func Bookable(d *entities.Donation, now time.Time) bool {
	if IsExpired(d, now) {
		return false
	}
	return d.Status == domain.DonationStatusAvailable || d.Status == domain.DonationStatusPartiallyBooked
}
