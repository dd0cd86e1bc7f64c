package donation_test

import (
	"testing"
	"time"

	"foodify/domain"
	"foodify/entities"
	"foodify/pkg/donation"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		available int
		original  int
		want      string
	}{
		{"untouched", 10, 10, domain.DonationStatusAvailable},
		{"partially booked", 6, 10, domain.DonationStatusPartiallyBooked},
		{"one left", 1, 10, domain.DonationStatusPartiallyBooked},
		{"drained", 0, 10, domain.DonationStatusFullyBooked},
		{"negative clamps to fully booked", -1, 10, domain.DonationStatusFullyBooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, donation.DeriveStatus(tt.available, tt.original))
		})
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now()

	t.Run("expired overrides open statuses", func(t *testing.T) {
		d := &entities.Donation{
			Status:     domain.DonationStatusPartiallyBooked,
			ExpiryTime: now.Add(-time.Hour),
		}
		assert.Equal(t, domain.DonationStatusExpired, donation.EffectiveStatus(d, now))
	})

	t.Run("terminal statuses survive expiry", func(t *testing.T) {
		d := &entities.Donation{
			Status:     domain.DonationStatusCollected,
			ExpiryTime: now.Add(-time.Hour),
		}
		assert.Equal(t, domain.DonationStatusCollected, donation.EffectiveStatus(d, now))

		d.Status = domain.DonationStatusCancelled
		assert.Equal(t, domain.DonationStatusCancelled, donation.EffectiveStatus(d, now))
	})

	t.Run("unexpired keeps stored status", func(t *testing.T) {
		d := &entities.Donation{
			Status:     domain.DonationStatusAvailable,
			ExpiryTime: now.Add(time.Hour),
		}
		assert.Equal(t, domain.DonationStatusAvailable, donation.EffectiveStatus(d, now))
	})
}

func TestBookable(t *testing.T) {
	now := time.Now()

	d := &entities.Donation{
		Status:     domain.DonationStatusAvailable,
		ExpiryTime: now.Add(time.Hour),
	}
	assert.True(t, donation.Bookable(d, now))

	d.Status = domain.DonationStatusPartiallyBooked
	assert.True(t, donation.Bookable(d, now))

	d.Status = domain.DonationStatusFullyBooked
	assert.False(t, donation.Bookable(d, now))

	d.Status = domain.DonationStatusAvailable
	d.ExpiryTime = now.Add(-time.Minute)
	assert.False(t, donation.Bookable(d, now))
}
