package delivery_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"foodify/domain"
	"foodify/entities"
	"foodify/pkg/delivery"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---- in-memory repository ----

type fakeDeliveryRepo struct {
	mu     sync.Mutex
	agents map[uuid.UUID]*entities.DeliveryAgent
	orders map[uuid.UUID]*entities.Order
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{
		agents: make(map[uuid.UUID]*entities.DeliveryAgent),
		orders: make(map[uuid.UUID]*entities.Order),
	}
}

func (f *fakeDeliveryRepo) CreateAgent(_ context.Context, agent *entities.DeliveryAgent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agents[agent.UserID] = agent
	return nil
}

func (f *fakeDeliveryRepo) GetAgentByUserID(_ context.Context, userID string) (*entities.DeliveryAgent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	agent, ok := f.agents[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *agent
	return &snapshot, nil
}

func (f *fakeDeliveryRepo) ToggleAvailability(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agent, ok := f.agents[uuid.MustParse(userID)]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	agent.AvailabilityStatus = !agent.AvailabilityStatus
	return agent.AvailabilityStatus, nil
}

func (f *fakeDeliveryRepo) GetAvailableOrders(_ context.Context, _ int) ([]*entities.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Order
	for _, o := range f.orders {
		if o.Status == domain.OrderStatusConfirmed && o.DeliveryAgentID == nil {
			snapshot := *o
			out = append(out, &snapshot)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) GetAgentOrders(_ context.Context, agentID string, statuses []string, _ int) ([]*entities.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Order
	for _, o := range f.orders {
		if o.DeliveryAgentID == nil || o.DeliveryAgentID.String() != agentID {
			continue
		}
		if len(statuses) > 0 {
			matched := false
			for _, s := range statuses {
				if o.Status == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		snapshot := *o
		out = append(out, &snapshot)
	}
	return out, nil
}

func (f *fakeDeliveryRepo) AssignAgent(_ context.Context, orderID string, agentID string) (*entities.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[uuid.MustParse(orderID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if order.DeliveryAgentID != nil {
		return nil, domain.ErrAlreadyAssigned
	}
	if order.Status != domain.OrderStatusConfirmed && order.Status != domain.OrderStatusPreparing {
		return nil, domain.ErrInvalidTransition
	}

	agentUUID := uuid.MustParse(agentID)
	order.DeliveryAgentID = &agentUUID
	snapshot := *order
	return &snapshot, nil
}

func (f *fakeDeliveryRepo) UnassignAgent(_ context.Context, orderID string, agentID string) (*entities.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[uuid.MustParse(orderID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if order.DeliveryAgentID == nil || order.DeliveryAgentID.String() != agentID {
		return nil, domain.ErrForbidden
	}
	if order.PickedAt != nil {
		return nil, domain.ErrInvalidTransition
	}
	if order.Status != domain.OrderStatusConfirmed && order.Status != domain.OrderStatusPreparing {
		return nil, domain.ErrInvalidTransition
	}

	order.DeliveryAgentID = nil
	snapshot := *order
	return &snapshot, nil
}

func (f *fakeDeliveryRepo) MarkPicked(_ context.Context, orderID string, agentID string, now time.Time) (*entities.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[uuid.MustParse(orderID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if order.DeliveryAgentID == nil || order.DeliveryAgentID.String() != agentID {
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.OrderStatusConfirmed && order.Status != domain.OrderStatusPreparing {
		return nil, domain.ErrInvalidTransition
	}

	order.Status = domain.OrderStatusOutForDelivery
	order.PickedAt = &now
	if order.Restaurant != nil {
		lat, lng := order.Restaurant.Latitude, order.Restaurant.Longitude
		order.RestaurantLatitude = &lat
		order.RestaurantLongitude = &lng
	}
	snapshot := *order
	return &snapshot, nil
}

func (f *fakeDeliveryRepo) CompleteDelivery(_ context.Context, orderID string, agentID string, now time.Time) (*entities.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[uuid.MustParse(orderID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if order.DeliveryAgentID == nil || order.DeliveryAgentID.String() != agentID {
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.OrderStatusOutForDelivery {
		return nil, domain.ErrInvalidTransition
	}

	order.Status = domain.OrderStatusDelivered
	order.DeliveredAt = &now

	agent := f.agents[uuid.MustParse(agentID)]
	agent.TotalDeliveries++
	agent.TotalEarnings += order.DeliveryFee

	snapshot := *order
	return &snapshot, nil
}

func (f *fakeDeliveryRepo) UpdateAgentLocation(_ context.Context, orderID string, agentID string, lat, lng float64, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[uuid.MustParse(orderID)]
	if !ok {
		return domain.ErrNotInTransit
	}
	if order.DeliveryAgentID == nil || order.DeliveryAgentID.String() != agentID ||
		order.Status != domain.OrderStatusOutForDelivery {
		return domain.ErrNotInTransit
	}

	order.AgentCurrentLatitude = &lat
	order.AgentCurrentLongitude = &lng
	order.AgentLocationUpdatedAt = &now
	return nil
}

// ---- fake location cache ----

type fakeLocationCache struct {
	mu        sync.Mutex
	locations map[string]domain.AgentLocation
}

func newFakeLocationCache() *fakeLocationCache {
	return &fakeLocationCache{locations: make(map[string]domain.AgentLocation)}
}

func (f *fakeLocationCache) SetAgentLocation(_ context.Context, orderID, _ string, location domain.AgentLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations[orderID] = location
	return nil
}

func (f *fakeLocationCache) GetAgentLocation(_ context.Context, orderID string) (*domain.AgentLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	location, ok := f.locations[orderID]
	if !ok {
		return nil, nil
	}
	return &location, nil
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

// ---- helpers ----

func seedAgent(repo *fakeDeliveryRepo) uuid.UUID {
	userID := uuid.New()
	repo.agents[userID] = &entities.DeliveryAgent{
		ID:                 uuid.New(),
		UserID:             userID,
		FullName:           "Ravi Kumar",
		VehicleType:        "bike",
		AvailabilityStatus: true,
	}
	return userID
}

func seedConfirmedOrder(repo *fakeDeliveryRepo) *entities.Order {
	order := &entities.Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Status:      domain.OrderStatusConfirmed,
		TotalAmount: 300,
		DeliveryFee: 40,
		TaxAmount:   15,
		Restaurant: &entities.Restaurant{
			ID:        uuid.New(),
			Latitude:  12.9716,
			Longitude: 77.5946,
		},
	}
	repo.orders[order.ID] = order
	return order
}

// ---- tests ----

func TestAcceptOrderExclusive(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := delivery.NewDeliveryService(repo, newFakeLocationCache(), &recordingNotifier{})

	agentA := seedAgent(repo)
	agentB := seedAgent(repo)
	order := seedConfirmedOrder(repo)

	ctx := context.Background()
	require.NoError(t, svc.AcceptOrder(ctx, order.ID.String(), agentA.String()))

	err := svc.AcceptOrder(ctx, order.ID.String(), agentB.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyAssigned)

	assert.Equal(t, agentA.String(), repo.orders[order.ID].DeliveryAgentID.String())
}

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := delivery.NewDeliveryService(repo, newFakeLocationCache(), &recordingNotifier{})

	order := seedConfirmedOrder(repo)
	agents := []uuid.UUID{seedAgent(repo), seedAgent(repo)}

	var wg sync.WaitGroup
	errs := make([]error, len(agents))
	for i, agent := range agents {
		wg.Add(1)
		go func(i int, agent uuid.UUID) {
			defer wg.Done()
			errs[i] = svc.AcceptOrder(context.Background(), order.ID.String(), agent.String())
		}(i, agent)
	}
	wg.Wait()

	succeeded, lost := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case err == domain.ErrAlreadyAssigned:
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, lost)
}

func TestRejectOrderBeforePickup(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := delivery.NewDeliveryService(repo, newFakeLocationCache(), &recordingNotifier{})

	agentA := seedAgent(repo)
	agentB := seedAgent(repo)
	order := seedConfirmedOrder(repo)
	ctx := context.Background()

	require.NoError(t, svc.AcceptOrder(ctx, order.ID.String(), agentA.String()))
	require.NoError(t, svc.RejectOrder(ctx, order.ID.String(), agentA.String()))

	// Released order can be claimed by another agent.
	require.NoError(t, svc.AcceptOrder(ctx, order.ID.String(), agentB.String()))
	assert.Equal(t, agentB.String(), repo.orders[order.ID].DeliveryAgentID.String())
}

func TestRejectOrderAfterPickupDenied(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := delivery.NewDeliveryService(repo, newFakeLocationCache(), &recordingNotifier{})

	agent := seedAgent(repo)
	order := seedConfirmedOrder(repo)
	ctx := context.Background()

	require.NoError(t, svc.AcceptOrder(ctx, order.ID.String(), agent.String()))
	_, err := svc.MarkPicked(ctx, order.ID.String(), agent.String())
	require.NoError(t, err)

	err = svc.RejectOrder(ctx, order.ID.String(), agent.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMarkPickedSnapshotsRestaurantCoords(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := delivery.NewDeliveryService(repo, newFakeLocationCache(), &recordingNotifier{})

	agent := seedAgent(repo)
	order := seedConfirmedOrder(repo)
	ctx := context.Background()

	require.NoError(t, svc.AcceptOrder(ctx, order.ID.String(), agent.String()))

	picked, err := svc.MarkPicked(ctx, order.ID.String(), agent.String())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusOutForDelivery, picked.Status)
	assert.NotNil(t, picked.PickedAt)

	stored := repo.orders[order.ID]
	require.NotNil(t, stored.RestaurantLatitude)
	require.NotNil(t, stored.RestaurantLongitude)
	assert.Equal(t, order.Restaurant.Latitude, *stored.RestaurantLatitude)
	assert.Equal(t, order.Restaurant.Longitude, *stored.RestaurantLongitude)
}

func TestMarkDeliveredUpdatesAgentStats(t *testing.T) {
	repo := newFakeDeliveryRepo()
	notifier := &recordingNotifier{}
	svc := delivery.NewDeliveryService(repo, newFakeLocationCache(), notifier)

	agent := seedAgent(repo)
	order := seedConfirmedOrder(repo)
	ctx := context.Background()

	require.NoError(t, svc.AcceptOrder(ctx, order.ID.String(), agent.String()))
	_, err := svc.MarkPicked(ctx, order.ID.String(), agent.String())
	require.NoError(t, err)

	delivered, err := svc.MarkDelivered(ctx, order.ID.String(), agent.String())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	stored := repo.agents[agent]
	assert.Equal(t, 1, stored.TotalDeliveries)
	assert.Equal(t, order.DeliveryFee, stored.TotalEarnings)

	// Delivering twice must not double the statistics.
	_, err = svc.MarkDelivered(ctx, order.ID.String(), agent.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 1, stored.TotalDeliveries)
	assert.Equal(t, order.DeliveryFee, stored.TotalEarnings)
}

func TestUpdateLocationOnlyInTransit(t *testing.T) {
	repo := newFakeDeliveryRepo()
	cache := newFakeLocationCache()
	svc := delivery.NewDeliveryService(repo, cache, &recordingNotifier{})

	agent := seedAgent(repo)
	order := seedConfirmedOrder(repo)
	ctx := context.Background()

	require.NoError(t, svc.AcceptOrder(ctx, order.ID.String(), agent.String()))

	req := domain.UpdateLocationRequest{
		OrderID:   order.ID.String(),
		Latitude:  12.9352,
		Longitude: 77.6245,
	}

	// Accepted but not picked up yet.
	err := svc.UpdateLocation(ctx, req, agent.String())
	assert.ErrorIs(t, err, domain.ErrNotInTransit)

	_, err = svc.MarkPicked(ctx, order.ID.String(), agent.String())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateLocation(ctx, req, agent.String()))

	stored := repo.orders[order.ID]
	require.NotNil(t, stored.AgentCurrentLatitude)
	assert.Equal(t, req.Latitude, *stored.AgentCurrentLatitude)
	assert.NotNil(t, stored.AgentLocationUpdatedAt)

	cached, err := cache.GetAgentLocation(ctx, order.ID.String())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, req.Latitude, cached.Latitude)

	// Delivered orders stop accepting pings.
	_, err = svc.MarkDelivered(ctx, order.ID.String(), agent.String())
	require.NoError(t, err)
	err = svc.UpdateLocation(ctx, req, agent.String())
	assert.ErrorIs(t, err, domain.ErrNotInTransit)
}

func TestToggleAvailability(t *testing.T) {
	repo := newFakeDeliveryRepo()
	svc := delivery.NewDeliveryService(repo, newFakeLocationCache(), &recordingNotifier{})

	agent := seedAgent(repo)
	ctx := context.Background()

	available, err := svc.ToggleAvailability(ctx, agent.String())
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.ToggleAvailability(ctx, agent.String())
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.ToggleAvailability(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)
}
