package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"foodify/domain"
	"foodify/entities"
	"foodify/internal/utils/mailing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const eventTopic = "foodify.lifecycle-events"

type (
	NotificationService interface {
		// Notify records a lifecycle event for the target user. It is called
		// by services after their transaction commits; delivery failures are
		// logged and never propagated back into the calling operation.
		Notify(ctx context.Context, event domain.Event)

		GetUserNotifications(ctx context.Context, userID string, page, limit int) ([]*domain.Notification, int64, error)
		MarkRead(ctx context.Context, id string, userID string) error
		MarkAllRead(ctx context.Context, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
		publisher              EventPublisher
	}
)

func NewNotificationService(notificationRepository NotificationRepository, publisher EventPublisher) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		publisher:              publisher,
	}
}

func (s *notificationService) Notify(ctx context.Context, event domain.Event) {
	notification := &entities.Notification{
		ID:         uuid.New(),
		UserID:     event.UserID,
		Type:       event.Type,
		Message:    event.Message,
		DonationID: event.DonationID,
		OrderID:    event.OrderID,
	}

	if err := s.notificationRepository.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to store %s notification: %v", event.Type, err)
	}

	if s.publisher != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("failed to encode %s event: %v", event.Type, err)
		} else if err := s.publisher.Publish(eventTopic, payload); err != nil {
			log.Printf("failed to publish %s event: %v", event.Type, err)
		}
	}

	if event.Email != "" {
		subject := fmt.Sprintf("Foodify: %s", event.Type)
		body := fmt.Sprintf("<p>%s</p>", event.Message)
		if err := mailing.SendMail(event.Email, subject, body); err != nil {
			log.Printf("failed to send %s mail: %v", event.Type, err)
		}
	}
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, page, limit int) ([]*domain.Notification, int64, error) {
	notifications, count, err := s.notificationRepository.GetUserNotifications(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		item := &domain.Notification{
			ID:        n.ID.String(),
			Type:      n.Type,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if n.DonationID != nil {
			item.DonationID = n.DonationID.String()
		}
		if n.OrderID != nil {
			item.OrderID = n.OrderID.String()
		}
		result = append(result, item)
	}
	return result, count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string, userID string) error {
	notification, err := s.notificationRepository.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID.String() != userID {
		return domain.ErrForbidden
	}
	return s.notificationRepository.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepository.MarkAllRead(ctx, userID)
}
