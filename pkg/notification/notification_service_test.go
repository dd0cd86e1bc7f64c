package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"foodify/domain"
	"foodify/entities"
	"foodify/pkg/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*entities.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]*entities.Notification)}
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *entities.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) GetUserNotifications(_ context.Context, userID string, _, _ int) ([]*entities.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Notification
	for _, n := range f.notifications {
		if n.UserID.String() == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) GetNotificationByID(_ context.Context, id string) (*entities.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	n, ok := f.notifications[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.notifications[uuid.MustParse(id)]; ok {
		n.IsRead = true
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.UserID.String() == userID {
			n.IsRead = true
		}
	}
	return nil
}

type capturingPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{messages: make(map[string][][]byte)}
}

func (p *capturingPublisher) Publish(topic string, message []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[topic] = append(p.messages[topic], message)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func TestNotifyPersistsAndPublishes(t *testing.T) {
	repo := newFakeNotificationRepo()
	publisher := newCapturingPublisher()
	svc := notification.NewNotificationService(repo, publisher)

	userID := uuid.New()
	orderID := uuid.New()
	svc.Notify(context.Background(), domain.Event{
		Type:    domain.EventOrderConfirmed,
		UserID:  userID,
		Message: "Your order has been confirmed.",
		OrderID: &orderID,
	})

	stored, count, err := svc.GetUserNotifications(context.Background(), userID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, domain.EventOrderConfirmed, stored[0].Type)
	assert.Equal(t, orderID.String(), stored[0].OrderID)
	assert.False(t, stored[0].IsRead)

	require.Len(t, publisher.messages["foodify.lifecycle-events"], 1)
	var published domain.Event
	require.NoError(t, json.Unmarshal(publisher.messages["foodify.lifecycle-events"][0], &published))
	assert.Equal(t, domain.EventOrderConfirmed, published.Type)
	assert.Equal(t, userID, published.UserID)
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, []byte) error { return errors.New("broker unreachable") }
func (failingPublisher) Close() error                 { return nil }

func TestNotifySurvivesPublishFailure(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := notification.NewNotificationService(repo, failingPublisher{})

	userID := uuid.New()
	svc.Notify(context.Background(), domain.Event{
		Type:    domain.EventOrderDelivered,
		UserID:  userID,
		Message: "Your order was delivered.",
	})

	// The row is still persisted when the broker is down.
	stored, count, err := svc.GetUserNotifications(context.Background(), userID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, domain.EventOrderDelivered, stored[0].Type)
}

func TestMarkReadOwnership(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := notification.NewNotificationService(repo, nil)
	ctx := context.Background()

	userID := uuid.New()
	svc.Notify(ctx, domain.Event{
		Type:    domain.EventBookingCreated,
		UserID:  userID,
		Message: "A booking was made.",
	})

	stored, _, err := svc.GetUserNotifications(ctx, userID.String(), 1, 20)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// Another user cannot mark it read.
	err = svc.MarkRead(ctx, stored[0].ID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.MarkRead(ctx, stored[0].ID, userID.String()))

	stored, _, err = svc.GetUserNotifications(ctx, userID.String(), 1, 20)
	require.NoError(t, err)
	assert.True(t, stored[0].IsRead)

	err = svc.MarkRead(ctx, uuid.New().String(), userID.String())
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
}
