package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

// NotificationSink receives every stored notification, e.g. webhooks or the event log.
type NotificationSink interface {
	Deliver(ctx context.Context, n *model.Notification)
}

type notificationStyle struct {
	icon  model.NotificationIcon
	color string
}

var notificationStyles = map[model.NotificationType]notificationStyle{
	model.NotificationGeofenceEnter: {model.IconMapPin, "text-green-500"},
	model.NotificationGeofenceExit:  {model.IconMapPin, "text-yellow-500"},
	model.NotificationOnline:        {model.IconTruck, "text-green-500"},
	model.NotificationOffline:       {model.IconWifiOff, "text-red-500"},
	model.NotificationSOS:           {model.IconBell, "text-red-600"},
}

// NotificationService records notifications and fans them out to the bus and sinks.
type NotificationService struct {
	repo   repository.NotificationRepository
	users  repository.UserRepository
	i18n   *I18nService
	bus    Publisher
	sinks  []NotificationSink
	logger *zap.Logger
	now    func() time.Time
}

// NewNotificationService creates a notification service
func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, i18n *I18nService, bus Publisher, logger *zap.Logger, sinks ...NotificationSink) *NotificationService {
	if bus == nil {
		bus = NopPublisher{}
	}
	return &NotificationService{
		repo:   repo,
		users:  users,
		i18n:   i18n,
		bus:    bus,
		sinks:  sinks,
		logger: logger,
		now:    time.Now,
	}
}

// AddSink registers an extra sink. Not safe to call once notifications are flowing.
func (s *NotificationService) AddSink(sink NotificationSink) {
	s.sinks = append(s.sinks, sink)
}

// Emit stores a notification whose title and description come from the message
// catalog entry key, translated to the owner's locale.
func (s *NotificationService) Emit(ctx context.Context, userID uint, deviceID string, t model.NotificationType, key string, args ...interface{}) (*model.Notification, error) {
	lang := DefaultLang
	if user, err := s.users.GetByID(ctx, userID); err == nil && user.Locale != "" {
		lang = user.Locale
	}

	style := notificationStyles[t]
	n := &model.Notification{
		UserID:      userID,
		DeviceID:    deviceID,
		Type:        t,
		Title:       s.i18n.T(lang, key+".title"),
		Description: s.i18n.Tf(lang, key+".desc", args...),
		Icon:        style.icon,
		IconColor:   style.color,
		Timestamp:   s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.publish(ctx, n)
	return n, nil
}

// List returns the user's newest notifications.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]model.Notification, error) {
	return s.repo.ListRecent(ctx, userID, model.NotificationListLimit)
}

// CountSince counts the user's notifications of the given types newer than since.
func (s *NotificationService) CountSince(ctx context.Context, userID uint, types []model.NotificationType, since time.Time) (int64, error) {
	return s.repo.CountSince(ctx, userID, types, since)
}

func (s *NotificationService) publish(ctx context.Context, n *model.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("marshal notification", zap.Error(err))
		return
	}
	if err := s.bus.Publish(NotificationSubject(n.UserID, n.Type), data); err != nil {
		s.logger.Warn("publish notification",
			zap.Uint("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err))
	}
	for _, sink := range s.sinks {
		sink.Deliver(ctx, n)
	}
}
