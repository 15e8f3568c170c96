package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

const (
	// WebhookSignatureHeader carries hex(HMAC-SHA256(secret, timestamp + "." + body)).
	WebhookSignatureHeader = "X-Webhook-Signature"
	WebhookTimestampHeader = "X-Webhook-Timestamp"
	WebhookEventHeader     = "X-Webhook-Event"
	WebhookIDHeader        = "X-Webhook-ID"

	defaultWebhookRetries = 3
	defaultWebhookTimeout = 10 // seconds
)

// WebhookService manages webhooks and delivers notifications to them.
type WebhookService struct {
	repo      repository.WebhookRepository
	client    *resty.Client
	logger    *zap.Logger
	retryWait time.Duration
	now       func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewWebhookService creates a webhook service
func NewWebhookService(repo repository.WebhookRepository, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		repo: repo,
		client: resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", "VigiTrack-Webhook/1.0"),
		logger:    logger,
		retryWait: 2 * time.Second,
		now:       time.Now,
	}
}

// Create registers a webhook for the user.
func (s *WebhookService) Create(ctx context.Context, userID uint, req *model.CreateWebhookRequest) (*model.Webhook, error) {
	for _, e := range req.Events {
		if !validWebhookEvent(e) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEvent, e)
		}
	}

	webhook := &model.Webhook{
		UserID:     userID,
		Name:       req.Name,
		URL:        req.URL,
		Secret:     req.Secret,
		Events:     req.Events,
		Status:     model.WebhookStatusActive,
		RetryCount: req.RetryCount,
		Timeout:    req.Timeout,
	}
	if webhook.RetryCount == 0 {
		webhook.RetryCount = defaultWebhookRetries
	}
	if webhook.Timeout == 0 {
		webhook.Timeout = defaultWebhookTimeout
	}

	if err := s.repo.Create(ctx, webhook); err != nil {
		return nil, fmt.Errorf("create webhook: %w", err)
	}
	return webhook, nil
}

// List returns the user's webhooks.
func (s *WebhookService) List(ctx context.Context, userID uint) ([]model.Webhook, error) {
	return s.repo.List(ctx, userID)
}

// Delete removes one of the user's webhooks.
func (s *WebhookService) Delete(ctx context.Context, userID, id uint) error {
	return s.repo.Delete(ctx, userID, id)
}

// Deliver sends n to every active webhook of its owner that subscribes to its type.
// Deliveries run in the background; Wait blocks until they finish. After Close
// notifications are dropped.
func (s *WebhookService) Deliver(ctx context.Context, n *model.Notification) {
	webhooks, err := s.repo.ListActive(ctx, n.UserID)
	if err != nil {
		s.logger.Warn("list webhooks", zap.Uint("user_id", n.UserID), zap.Error(err))
		return
	}

	payload := model.WebhookPayload{
		EventID:   uuid.NewString(),
		EventType: string(n.Type),
		Timestamp: n.Timestamp.UnixMilli(),
		Data:      n,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal webhook payload", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Debug("webhook service closed, dropping notification", zap.Uint("user_id", n.UserID), zap.String("type", string(n.Type)))
		return
	}

	bg := context.WithoutCancel(ctx)
	for i := range webhooks {
		w := webhooks[i]
		if !w.Subscribed(n.Type) {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.sendWithRetry(bg, &w, payload.EventID, payload.EventType, body)
		}()
	}
}

// Wait blocks until in-flight deliveries complete.
func (s *WebhookService) Wait() {
	s.wg.Wait()
}

// Close stops accepting deliveries and waits for in-flight ones.
func (s *WebhookService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *WebhookService) sendWithRetry(ctx context.Context, w *model.Webhook, eventID, eventType string, body []byte) {
	var lastErr error
	for attempt := 1; attempt <= w.RetryCount+1; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.retryWait):
			}
		}

		lastErr = s.send(ctx, w, eventID, eventType, body)
		if lastErr == nil {
			break
		}
	}

	if lastErr != nil {
		s.logger.Warn("webhook delivery failed",
			zap.Uint("webhook_id", w.ID),
			zap.Int("attempts", w.RetryCount+1),
			zap.Error(lastErr))
	}
	if err := s.repo.RecordDelivery(ctx, w.ID, lastErr, s.now()); err != nil {
		s.logger.Warn("record webhook delivery", zap.Uint("webhook_id", w.ID), zap.Error(err))
	}
}

func (s *WebhookService) send(ctx context.Context, w *model.Webhook, eventID, eventType string, body []byte) error {
	timeout := time.Duration(w.Timeout) * time.Second
	if timeout <= 0 {
		timeout = defaultWebhookTimeout * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	req := s.client.R().
		SetContext(ctx).
		SetHeader(WebhookEventHeader, eventType).
		SetHeader(WebhookIDHeader, eventID).
		SetHeader(WebhookTimestampHeader, timestamp).
		SetBody(body)
	if w.Secret != "" {
		req.SetHeader(WebhookSignatureHeader, GenerateSignature(body, timestamp, w.Secret))
	}

	resp, err := req.Post(w.URL)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return nil
}

// GenerateSignature signs timestamp + "." + payload with HMAC-SHA256.
func GenerateSignature(payload []byte, timestamp, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(timestamp + "." + string(payload)))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a signature produced by GenerateSignature.
func VerifySignature(payload []byte, timestamp, signature, secret string) bool {
	expected := GenerateSignature(payload, timestamp, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// WebhookEvents lists the event names a webhook may subscribe to.
func WebhookEvents() []string {
	events := []string{model.WebhookEventAll}
	for t := range notificationStyles {
		events = append(events, string(t))
	}
	sort.Strings(events[1:])
	return events
}

func validWebhookEvent(e string) bool {
	if e == model.WebhookEventAll {
		return true
	}
	_, ok := notificationStyles[model.NotificationType(e)]
	return ok
}
