package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

// PresenceChecker periodically marks devices that stopped reporting as Offline.
type PresenceChecker struct {
	devices       repository.DeviceRepository
	notifications *NotificationService
	after         time.Duration
	schedule      string
	cron          *cron.Cron
	logger        *zap.Logger
	now           func() time.Time
}

// NewPresenceChecker creates a checker that runs on schedule (cron spec or "@every 1m")
// and treats devices silent for longer than after as offline.
func NewPresenceChecker(devices repository.DeviceRepository, notifications *NotificationService, after time.Duration, schedule string, logger *zap.Logger) *PresenceChecker {
	return &PresenceChecker{
		devices:       devices,
		notifications: notifications,
		after:         after,
		schedule:      schedule,
		logger:        logger,
		now:           time.Now,
	}
}

// Start schedules the sweep.
func (p *PresenceChecker) Start() error {
	p.cron = cron.New()
	if _, err := p.cron.AddFunc(p.schedule, func() {
		if _, err := p.Sweep(context.Background()); err != nil {
			p.logger.Error("presence sweep", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid presence schedule %q: %w", p.schedule, err)
	}
	p.cron.Start()
	p.logger.Info("presence checker started", zap.String("schedule", p.schedule), zap.Duration("offline_after", p.after))
	return nil
}

// Stop waits for a running sweep to finish.
func (p *PresenceChecker) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
}

// Sweep marks stale devices Offline and records one offline notification per device.
func (p *PresenceChecker) Sweep(ctx context.Context) ([]model.Device, error) {
	stale, err := p.devices.MarkStaleOffline(ctx, p.now().Add(-p.after))
	if err != nil {
		return nil, fmt.Errorf("mark stale devices: %w", err)
	}

	for _, d := range stale {
		since := "unknown"
		if d.LastSeen != nil {
			since = d.LastSeen.UTC().Format(time.RFC3339)
		}
		if _, err := p.notifications.Emit(ctx, d.UserID, d.ID, model.NotificationOffline, msgDeviceOffline, d.Name, since); err != nil {
			p.logger.Warn("record offline notification", zap.String("device_id", d.ID), zap.Error(err))
		}
	}
	if len(stale) > 0 {
		p.logger.Info("devices marked offline", zap.Int("count", len(stale)))
	}
	return stale, nil
}
