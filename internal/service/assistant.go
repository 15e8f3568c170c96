package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/flow"
	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/notify"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

// SOSResult is the SOS flow output with the channels the model notified.
type SOSResult struct {
	ConfirmationMessage string           `json:"confirmation_message"`
	NotifiedChannels    []notify.Channel `json:"notified_channels"`
	Fallback            bool             `json:"fallback"`
}

// AssistantService runs the AI flows on behalf of a signed-in user.
type AssistantService struct {
	flows         *flow.Set
	notifications *NotificationService
	devices       repository.DeviceRepository
	trips         *TripService
	logger        *zap.Logger
}

// NewAssistantService creates the assistant service
func NewAssistantService(flows *flow.Set, notifications *NotificationService, devices repository.DeviceRepository, trips *TripService, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		flows:         flows,
		notifications: notifications,
		devices:       devices,
		trips:         trips,
		logger:        logger,
	}
}

// SOS records an sos notification and asks the model to alert the emergency
// contacts. The notification is recorded before the model is called so the
// alert is kept even when generation fails.
func (s *AssistantService) SOS(ctx context.Context, userID uint, in flow.SOSInput) (*SOSResult, error) {
	if _, err := s.flows.SOS.Render(in); err != nil {
		return nil, err
	}

	key, args := msgSOSNoMessage, []interface{}{*in.Latitude, *in.Longitude}
	if msg := strings.TrimSpace(in.Message); msg != "" {
		key, args = msgSOS, append(args, msg)
	}
	if _, err := s.notifications.Emit(ctx, userID, "", model.NotificationSOS, key, args...); err != nil {
		s.logger.Error("record sos notification", zap.Uint("user_id", userID), zap.Error(err))
	}

	res, err := s.flows.SOS.Run(ctx, in)
	if err != nil {
		return nil, err
	}

	out := &SOSResult{
		ConfirmationMessage: res.Output.ConfirmationMessage,
		NotifiedChannels:    []notify.Channel{},
		Fallback:            res.Fallback,
	}
	seen := make(map[notify.Channel]bool)
	for _, call := range res.ToolCalls {
		ch, ok := notify.ChannelOf(call.Name)
		if !ok || call.Error != "" || seen[ch] {
			continue
		}
		seen[ch] = true
		out.NotifiedChannels = append(out.NotifiedChannels, ch)
	}

	s.logger.Info("sos handled",
		zap.Uint("user_id", userID),
		zap.Int("channels", len(out.NotifiedChannels)),
		zap.Bool("fallback", res.Fallback))
	return out, nil
}

// Report generates a device report. The device must belong to the user.
func (s *AssistantService) Report(ctx context.Context, userID uint, in flow.ReportInput) (*flow.ReportOutput, error) {
	if in.DeviceID != "" {
		if _, err := s.devices.Get(ctx, userID, in.DeviceID); err != nil {
			return nil, err
		}
	}
	in.UserID = strconv.FormatUint(uint64(userID), 10)

	res, err := s.flows.Report.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	return &res.Output, nil
}

// SuggestGeofences proposes geofences from a supplied GPS history.
func (s *AssistantService) SuggestGeofences(ctx context.Context, in flow.GeofenceSuggestionInput) (*flow.GeofenceSuggestionOutput, error) {
	res, err := s.flows.SuggestGeofences.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	return &res.Output, nil
}

// SuggestForDevice proposes geofences from the stored trips of a device.
func (s *AssistantService) SuggestForDevice(ctx context.Context, userID uint, deviceID string) (*flow.GeofenceSuggestionOutput, error) {
	history, err := s.trips.GPSHistory(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}
	return s.SuggestGeofences(ctx, flow.GeofenceSuggestionInput{DeviceID: deviceID, GPSHistory: history})
}

// SummarizeTrip summarizes supplied trip samples.
func (s *AssistantService) SummarizeTrip(ctx context.Context, in flow.TripSummaryInput) (*flow.TripSummaryOutput, error) {
	res, err := s.flows.SummarizeTrip.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	return &res.Output, nil
}

// SummarizeStoredTrip summarizes one of the user's stored trips.
func (s *AssistantService) SummarizeStoredTrip(ctx context.Context, userID uint, tripID string) (*flow.TripSummaryOutput, error) {
	trip, err := s.trips.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	data := s.trips.GPSData(trip)
	if len(data) == 0 {
		return nil, ErrNotEnoughData
	}
	return s.SummarizeTrip(ctx, flow.TripSummaryInput{DeviceID: trip.DeviceID, GPSData: data})
}
