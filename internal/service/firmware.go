package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

// ErrFirmwareExists is returned when a version is registered twice.
var ErrFirmwareExists = errors.New("firmware version already registered")

// FirmwareService manages OTA firmware releases
type FirmwareService struct {
	repo   repository.FirmwareRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewFirmwareService creates a firmware service
func NewFirmwareService(repo repository.FirmwareRepository, logger *zap.Logger) *FirmwareService {
	return &FirmwareService{repo: repo, logger: logger, now: time.Now}
}

// List returns all releases, newest first.
func (s *FirmwareService) List(ctx context.Context) ([]model.Firmware, error) {
	return s.repo.List(ctx)
}

// Create registers a release. The download URL defaults to /firmware/v<version>.bin.
func (s *FirmwareService) Create(ctx context.Context, req *model.CreateFirmwareRequest) (*model.Firmware, error) {
	version := strings.TrimPrefix(strings.TrimSpace(req.Version), "v")
	fw := &model.Firmware{
		ID:          uuid.NewString(),
		Version:     version,
		ReleaseDate: s.now(),
		Description: req.Description,
		URL:         req.URL,
	}
	if req.ReleaseDate != nil {
		fw.ReleaseDate = *req.ReleaseDate
	}
	if fw.URL == "" {
		fw.URL = fmt.Sprintf("/firmware/v%s.bin", version)
	}

	if err := s.repo.Create(ctx, fw); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrFirmwareExists
		}
		return nil, fmt.Errorf("create firmware: %w", err)
	}
	s.logger.Info("firmware registered", zap.String("version", fw.Version))
	return fw, nil
}
