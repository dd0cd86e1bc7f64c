package donation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"foodify/domain"
	"foodify/entities"
	"foodify/pkg/donation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---- in-memory repository ----

// fakeDonationRepo mirrors the row-lock semantics of the real repository: the
// mutating operations serialize on a mutex and re-check their guards inside
// the critical section.
type fakeDonationRepo struct {
	mu        sync.Mutex
	donations map[uuid.UUID]*entities.Donation
	bookings  map[uuid.UUID]*entities.DonationBooking
	orders    []*entities.Order
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{
		donations: make(map[uuid.UUID]*entities.Donation),
		bookings:  make(map[uuid.UUID]*entities.DonationBooking),
	}
}

func (f *fakeDonationRepo) CreateDonation(_ context.Context, d *entities.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.donations[d.ID] = d
	return nil
}

func (f *fakeDonationRepo) GetDonationByID(_ context.Context, id string) (*entities.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	d, ok := f.donations[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *d
	return &snapshot, nil
}

func (f *fakeDonationRepo) ListDonations(_ context.Context, _ domain.ListDonationsRequest) ([]*entities.Donation, int64, error) {
	return nil, 0, nil
}

func (f *fakeDonationRepo) GetDonorDonations(_ context.Context, _ string, _, _ int) ([]*entities.Donation, int64, error) {
	return nil, 0, nil
}

func (f *fakeDonationRepo) GetBookingByID(_ context.Context, id string) (*entities.DonationBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	b, ok := f.bookings[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *b
	if d, ok := f.donations[b.DonationID]; ok {
		donationCopy := *d
		snapshot.Donation = &donationCopy
	}
	return &snapshot, nil
}

func (f *fakeDonationRepo) GetUserBookings(_ context.Context, _ string, _, _ int) ([]*entities.DonationBooking, int64, error) {
	return nil, 0, nil
}

func (f *fakeDonationRepo) BookDonation(_ context.Context, donationID string, now time.Time, booking *entities.DonationBooking, order *entities.Order, item *entities.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	parsed, err := uuid.Parse(donationID)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	d, ok := f.donations[parsed]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	if !donation.Bookable(d, now) {
		return domain.ErrNotBookable
	}
	if d.AvailableQuantity < booking.QuantityBooked {
		return domain.ErrOutOfStock
	}

	d.AvailableQuantity -= booking.QuantityBooked
	d.Status = donation.DeriveStatus(d.AvailableQuantity, d.OriginalQuantity)

	item.OrderID = order.ID
	booking.OrderID = &order.ID
	f.orders = append(f.orders, order)
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeDonationRepo) CancelBooking(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	parsed, err := uuid.Parse(bookingID)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	b, ok := f.bookings[parsed]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if b.Status != domain.BookingStatusPending && b.Status != domain.BookingStatusConfirmed {
		return domain.ErrNotCancellable
	}

	b.Status = domain.BookingStatusCancelled
	d := f.donations[b.DonationID]
	d.AvailableQuantity += b.QuantityBooked
	d.Status = donation.DeriveStatus(d.AvailableQuantity, d.OriginalQuantity)
	return nil
}

func (f *fakeDonationRepo) CollectBooking(_ context.Context, bookingID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	parsed, err := uuid.Parse(bookingID)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	b, ok := f.bookings[parsed]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	b.Status = domain.BookingStatusCollected
	b.CollectedAt = &now

	active := 0
	for _, other := range f.bookings {
		if other.DonationID == b.DonationID &&
			(other.Status == domain.BookingStatusPending || other.Status == domain.BookingStatusConfirmed) {
			active++
		}
	}
	d := f.donations[b.DonationID]
	if active == 0 && d.AvailableQuantity == 0 {
		d.Status = domain.DonationStatusCollected
	}
	return nil
}

// ---- recording notification service ----

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingNotifier) Notify(_ context.Context, event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) GetUserNotifications(_ context.Context, _ string, _, _ int) ([]*domain.Notification, int64, error) {
	return nil, 0, nil
}

func (r *recordingNotifier) MarkRead(_ context.Context, _ string, _ string) error { return nil }

func (r *recordingNotifier) MarkAllRead(_ context.Context, _ string) error { return nil }

func (r *recordingNotifier) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

// ---- helpers ----

func seedDonation(repo *fakeDonationRepo, donorID uuid.UUID, quantity int) *entities.Donation {
	d := &entities.Donation{
		ID:                uuid.New(),
		DonorID:           donorID,
		FoodName:          "Veg Biryani",
		FoodType:          "veg",
		Category:          "cooked",
		OriginalQuantity:  quantity,
		AvailableQuantity: quantity,
		QuantityUnit:      "plates",
		Address:           "12 MG Road",
		ExpiryTime:        time.Now().Add(6 * time.Hour),
		Status:            domain.DonationStatusAvailable,
	}
	repo.donations[d.ID] = d
	return d
}

func newService(repo *fakeDonationRepo) (donation.DonationService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return donation.NewDonationService(repo, notifier), notifier
}

// ---- tests ----

func TestBookPartialQuantity(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, notifier := newService(repo)

	donor := uuid.New()
	booker := uuid.New()
	d := seedDonation(repo, donor, 10)

	booking, err := svc.Book(context.Background(), domain.BookDonationRequest{
		DonationID: d.ID.String(),
		Quantity:   4,
	}, booker.String())
	require.NoError(t, err)

	assert.Equal(t, 4, booking.QuantityBooked)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.NotEmpty(t, booking.OrderID)

	assert.Equal(t, 6, repo.donations[d.ID].AvailableQuantity)
	assert.Equal(t, domain.DonationStatusPartiallyBooked, repo.donations[d.ID].Status)

	require.Len(t, repo.orders, 1)
	placed := repo.orders[0]
	assert.Zero(t, placed.TotalAmount)
	assert.True(t, placed.IsPaid)
	assert.Equal(t, domain.PaymentStatusCompleted, placed.PaymentStatus)
	assert.Equal(t, domain.OrderStatusConfirmed, placed.Status)
	assert.NotNil(t, placed.ConfirmedAt)
	assert.Equal(t, d.Address, placed.DeliveryAddress)

	assert.Contains(t, notifier.eventTypes(), domain.EventBookingCreated)
}

func TestBookDrainsToFullyBooked(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, _ := newService(repo)

	d := seedDonation(repo, uuid.New(), 10)
	ctx := context.Background()

	_, err := svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 4}, uuid.New().String())
	require.NoError(t, err)

	_, err = svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 6}, uuid.New().String())
	require.NoError(t, err)

	assert.Equal(t, 0, repo.donations[d.ID].AvailableQuantity)
	assert.Equal(t, domain.DonationStatusFullyBooked, repo.donations[d.ID].Status)

	// No quantity left, further bookings are rejected.
	_, err = svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 1}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotBookable)
}

func TestBookConservesQuantity(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, _ := newService(repo)

	d := seedDonation(repo, uuid.New(), 10)
	ctx := context.Background()

	booking, err := svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 3}, uuid.New().String())
	require.NoError(t, err)
	_, err = svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 5}, uuid.New().String())
	require.NoError(t, err)

	booked := 0
	for _, b := range repo.bookings {
		if b.Status == domain.BookingStatusConfirmed {
			booked += b.QuantityBooked
		}
	}
	assert.Equal(t, d.OriginalQuantity, repo.donations[d.ID].AvailableQuantity+booked)

	// Cancellation restores the booked amount into the same identity.
	require.NoError(t, svc.CancelBooking(ctx, booking.ID, booking.BookerID))
	booked = 0
	for _, b := range repo.bookings {
		if b.Status == domain.BookingStatusConfirmed {
			booked += b.QuantityBooked
		}
	}
	assert.Equal(t, d.OriginalQuantity, repo.donations[d.ID].AvailableQuantity+booked)
	assert.Equal(t, 7, repo.donations[d.ID].AvailableQuantity)
	assert.Equal(t, domain.DonationStatusPartiallyBooked, repo.donations[d.ID].Status)
}

func TestBookRejectsOverAvailable(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, _ := newService(repo)

	d := seedDonation(repo, uuid.New(), 5)

	_, err := svc.Book(context.Background(), domain.BookDonationRequest{
		DonationID: d.ID.String(),
		Quantity:   6,
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	// Exact-quantity booking is the boundary case and must pass.
	booking, err := svc.Book(context.Background(), domain.BookDonationRequest{
		DonationID: d.ID.String(),
		Quantity:   5,
	}, uuid.New().String())
	require.NoError(t, err)
	assert.Equal(t, 5, booking.QuantityBooked)
	assert.Equal(t, 0, repo.donations[d.ID].AvailableQuantity)
}

func TestBookValidation(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, _ := newService(repo)

	donor := uuid.New()
	d := seedDonation(repo, donor, 5)
	ctx := context.Background()

	_, err := svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 0}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 2}, donor.String())
	assert.ErrorIs(t, err, domain.ErrSelfBookingDenied)

	_, err = svc.Book(ctx, domain.BookDonationRequest{DonationID: uuid.New().String(), Quantity: 2}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestBookExpiredDonation(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, _ := newService(repo)

	d := seedDonation(repo, uuid.New(), 5)
	d.ExpiryTime = time.Now().Add(-time.Minute)

	_, err := svc.Book(context.Background(), domain.BookDonationRequest{
		DonationID: d.ID.String(),
		Quantity:   1,
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotBookable)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, _ := newService(repo)

	d := seedDonation(repo, uuid.New(), 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), domain.BookDonationRequest{
				DonationID: d.ID.String(),
				Quantity:   3,
			}, uuid.New().String())
		}(i)
	}
	wg.Wait()

	succeeded, outOfStock := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case err == domain.ErrOutOfStock:
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, outOfStock)
	assert.Equal(t, 2, repo.donations[d.ID].AvailableQuantity)
}

func TestCancelBookingGuards(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, _ := newService(repo)

	d := seedDonation(repo, uuid.New(), 5)
	ctx := context.Background()

	booker := uuid.New()
	booking, err := svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 2}, booker.String())
	require.NoError(t, err)

	// Only the booker may cancel.
	err = svc.CancelBooking(ctx, booking.ID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.CancelBooking(ctx, booking.ID, booker.String()))

	// A cancelled booking cannot be cancelled again.
	err = svc.CancelBooking(ctx, booking.ID, booker.String())
	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}

func TestMarkCollected(t *testing.T) {
	repo := newFakeDonationRepo()
	svc, notifier := newService(repo)

	donor := uuid.New()
	d := seedDonation(repo, donor, 5)
	ctx := context.Background()

	booker := uuid.New()
	booking, err := svc.Book(ctx, domain.BookDonationRequest{DonationID: d.ID.String(), Quantity: 5}, booker.String())
	require.NoError(t, err)

	// Only the donor may mark a booking collected.
	err = svc.MarkCollected(ctx, booking.ID, booker.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.MarkCollected(ctx, booking.ID, donor.String()))

	stored := repo.bookings[uuid.MustParse(booking.ID)]
	assert.Equal(t, domain.BookingStatusCollected, stored.Status)
	assert.NotNil(t, stored.CollectedAt)

	// Last active booking on a drained donation closes the donation too.
	assert.Equal(t, domain.DonationStatusCollected, repo.donations[d.ID].Status)
	assert.Contains(t, notifier.eventTypes(), domain.EventDonationCollected)

	err = svc.MarkCollected(ctx, booking.ID, donor.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
