// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"pet_care_notifier/internal/domain/account"
	"pet_care_notifier/internal/domain/notification"
	domainTelegram "pet_care_notifier/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationService is the sink reminders are emitted into. It owns the
// per-owner notification list and the optional push delivery channel.
type NotificationService interface {
	// Emit persists a notification for the owner and pushes it over the
	// delivery channel when one is configured. Push failure is logged and
	// swallowed; only persistence failure is returned.
	Emit(ctx context.Context, ownerID, title, message string, severity notification.Severity) (*notification.Notification, error)
	ListRecent(ctx context.Context, ownerID string) ([]*notification.Notification, error)
	UnreadCount(ctx context.Context, ownerID string) (int, error)
	MarkRead(ctx context.Context, ownerID, id string) error
	ClearAll(ctx context.Context, ownerID string) error
}

var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	notifRepo      notification.Repository
	accountRepo    account.Repository
	telegramClient domainTelegram.Client // nil when push delivery is not configured
	log            *logrus.Entry
	now            func() time.Time
}

func NewNotificationService(
	nr notification.Repository,
	ar account.Repository,
	tc domainTelegram.Client,
	log *logrus.Entry,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notifRepo:      nr,
		accountRepo:    ar,
		telegramClient: tc,
		log:            log,
		now:            time.Now,
	}
}

func (s *NotificationServiceImpl) Emit(ctx context.Context, ownerID, title, message string, severity notification.Severity) (*notification.Notification, error) {
	n := &notification.Notification{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Message:   message,
		Severity:  severity,
		Read:      false,
		CreatedAt: s.now(),
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to persist notification for owner %s: %w", ownerID, err)
	}
	s.pushBestEffort(ctx, ownerID, title, message)
	return n, nil
}

// pushBestEffort mirrors the degraded path of platform notifications: a missing
// channel, an unknown chat or a send failure leaves the in-app entry intact.
func (s *NotificationServiceImpl) pushBestEffort(ctx context.Context, ownerID, title, message string) {
	if s.telegramClient == nil {
		return
	}
	acct, err := s.accountRepo.GetByID(ctx, ownerID)
	if err != nil {
		s.log.WithError(err).WithField("owner_id", ownerID).Warn("push skipped: could not load account")
		return
	}
	if !acct.TelegramChatID.Valid {
		return
	}
	text := fmt.Sprintf("%s\n%s", title, message)
	if err := s.telegramClient.SendMessage(acct.TelegramChatID.Int64, text, nil); err != nil {
		s.log.WithError(err).WithField("owner_id", ownerID).Warn("push delivery failed")
	}
}

func (s *NotificationServiceImpl) ListRecent(ctx context.Context, ownerID string) ([]*notification.Notification, error) {
	return s.notifRepo.ListRecent(ctx, ownerID, notification.RecentLimit)
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, ownerID string) (int, error) {
	return s.notifRepo.UnreadCount(ctx, ownerID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, ownerID, id string) error {
	return s.notifRepo.MarkRead(ctx, ownerID, id)
}

func (s *NotificationServiceImpl) ClearAll(ctx context.Context, ownerID string) error {
	return s.notifRepo.ClearAll(ctx, ownerID)
}
