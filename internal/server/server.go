package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/config"
	"github.com/abhishekpnaik05/vigitrack/internal/flow"
	"github.com/abhishekpnaik05/vigitrack/internal/genai"
	"github.com/abhishekpnaik05/vigitrack/internal/handler"
	"github.com/abhishekpnaik05/vigitrack/internal/middleware"
	"github.com/abhishekpnaik05/vigitrack/internal/notify"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

// Deps are the connections the server is built on. NATS is optional: without
// it, fan-out messages go straight to the WebSocket hub.
type Deps struct {
	Store     *repository.Store
	Redis     *redis.Client
	NATS      *nats.Conn
	Generator genai.Generator
}

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	deps       Deps
	logger     *zap.Logger

	events    *service.EventLog
	wsHub     *handler.WSHub
	devices   *service.DeviceService
	webhooks  *service.WebhookService
	presence  *service.PresenceChecker
	uplinkSub *nats.Subscription
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, deps Deps, logger *zap.Logger) *Server {
	if deps.Generator == nil {
		deps.Generator = genai.Disabled{}
	}
	return &Server{config: cfg, deps: deps, logger: logger}
}

// Setup wires services and routes
func (s *Server) Setup() {
	store := s.deps.Store
	logger := s.logger

	s.wsHub = handler.NewWSHub(s.deps.NATS, logger.Named("ws"))
	var bus service.Publisher = s.wsHub
	if s.deps.NATS != nil {
		bus = s.deps.NATS
	}

	if s.config.JetStream && s.deps.NATS != nil {
		events, err := service.NewEventLog(s.deps.NATS, logger)
		if err != nil {
			logger.Warn("jetstream event log disabled", zap.Error(err))
		} else {
			s.events = events
		}
	}

	// Services
	notifications := service.NewNotificationService(store.Notifications, store.Users, service.NewI18nService(), bus, logger)
	s.webhooks = service.NewWebhookService(store.Webhooks, logger.Named("webhook"))
	notifications.AddSink(s.webhooks)
	if s.events != nil {
		notifications.AddSink(s.events)
	}

	authService := service.NewAuthService(store.Users, s.config.JWTSecret, s.config.JWTTTL, logger)
	monitor := service.NewGeofenceMonitor(store.Geofences, s.deps.Redis, notifications, logger)
	s.devices = service.NewDeviceService(store.Devices, s.deps.Redis, bus, notifications, monitor, logger)
	geofences := service.NewGeofenceService(store.Geofences, store.Devices, monitor, logger)
	trips := service.NewTripService(store.Trips, store.Devices)
	sheets := service.NewDeviceSheetService(s.devices, store.Trips, logger)
	dashboard := service.NewDashboardService(store.Devices, store.Notifications)
	firmware := service.NewFirmwareService(store.Firmware, logger)

	flows := flow.NewSet(s.deps.Generator, notify.NewDispatcher(logger.Named("notify")).Tools(), s.config.SOSContacts, logger.Named("flow"))
	assistant := service.NewAssistantService(flows, notifications, store.Devices, trips, logger)

	s.presence = service.NewPresenceChecker(store.Devices, notifications, s.config.OfflineAfter, s.config.PresenceSchedule, logger.Named("presence"))

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	deviceHandler := handler.NewDeviceHandler(s.devices, sheets)
	geofenceHandler := handler.NewGeofenceHandler(geofences)
	tripHandler := handler.NewTripHandler(trips)
	notificationHandler := handler.NewNotificationHandler(notifications)
	dashboardHandler := handler.NewDashboardHandler(dashboard)
	firmwareHandler := handler.NewFirmwareHandler(firmware)
	assistantHandler := handler.NewAssistantHandler(assistant)
	webhookHandler := handler.NewWebhookHandler(s.webhooks)
	wsHandler := handler.NewWSHandler(s.wsHub)

	s.router = gin.New()
	s.router.Use(gin.Recovery(), middleware.RequestLogger(logger.Named("http")), middleware.CORS())

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/health", s.health)

	rateLimit := s.rateLimitMiddleware()

	api := s.router.Group("/api/v1")
	api.POST("/auth/register", rateLimit, authHandler.Register)
	api.POST("/auth/login", rateLimit, authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(authService), rateLimit)
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.PUT("/auth/me", authHandler.UpdateProfile)

		// Devices
		protected.GET("/devices", deviceHandler.List)
		protected.POST("/devices", deviceHandler.Create)
		protected.GET("/devices/import-template", deviceHandler.ImportTemplate)
		protected.POST("/devices/import", deviceHandler.Import)
		protected.GET("/devices/:id", deviceHandler.Get)
		protected.DELETE("/devices/:id", deviceHandler.Delete)
		protected.PUT("/devices/:id/location", deviceHandler.UpdateLocation)
		protected.GET("/devices/:id/shadow", deviceHandler.GetShadow)
		protected.GET("/devices/:id/trips", tripHandler.ListByDevice)
		protected.POST("/devices/:id/geofence-suggestions", assistantHandler.SuggestForDevice)
		protected.GET("/reports/export", deviceHandler.ExportFleet)

		// Geofences
		protected.GET("/geofences", geofenceHandler.List)
		protected.POST("/geofences", geofenceHandler.Create)
		protected.GET("/geofences/:id", geofenceHandler.Get)
		protected.DELETE("/geofences/:id", geofenceHandler.Delete)

		// Trips
		protected.GET("/trips/:id", tripHandler.Get)
		protected.GET("/trips/:id/track", tripHandler.Track)
		protected.POST("/trips/:id/summary", assistantHandler.SummarizeStoredTrip)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/dashboard", dashboardHandler.Get)
		protected.GET("/map", dashboardHandler.Map)

		protected.GET("/firmware", firmwareHandler.List)
		protected.POST("/firmware", firmwareHandler.Create)

		// Assistant
		protected.POST("/assistant/sos", assistantHandler.SOS)
		protected.POST("/assistant/report", assistantHandler.Report)
		protected.POST("/assistant/geofence-suggestions", assistantHandler.SuggestGeofences)
		protected.POST("/assistant/trip-summary", assistantHandler.SummarizeTrip)

		webhookHandler.RegisterRoutes(protected)

		protected.GET("/ws", wsHandler.Stream)
		protected.GET("/ws/stats", wsHandler.Stats)
	}
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	if !s.config.RateLimit.Enabled || s.deps.Redis == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := middleware.NewRedisRateLimiter(s.deps.Redis)
	group := middleware.NewRateLimitGroup(limiter, func(path string) *middleware.RateLimitConfig {
		rule := s.config.GetRateLimitRuleForPath(path)
		mc := rule.ToMiddlewareConfig()
		mc.Scope = rule.Path
		return mc
	}, s.logger.Named("ratelimit"))
	return group.Middleware()
}

func (s *Server) health(c *gin.Context) {
	health := gin.H{
		"status":  "ok",
		"storage": s.config.StorageDriver,
		"genai":   s.config.GenAI.Enabled(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.deps.Redis.Ping(ctx).Err(); err != nil {
		health["status"] = "degraded"
		health["redis"] = err.Error()
	} else {
		health["redis"] = "ok"
	}

	if s.deps.NATS != nil {
		health["nats"] = s.deps.NATS.Status().String()
	} else {
		health["nats"] = "disabled"
	}

	if s.events != nil {
		health["jetstream"] = "enabled"
		if info, err := s.events.StreamInfo(); err == nil {
			health["jetstream_events"] = gin.H{
				"messages": info.State.Msgs,
				"bytes":    info.State.Bytes,
			}
		}
	} else {
		health["jetstream"] = "disabled"
	}

	c.JSON(http.StatusOK, health)
}

// Start launches the background workers: the WebSocket hub, the uplink
// subscription and the presence checker.
func (s *Server) Start() error {
	go s.wsHub.Run()
	if err := s.wsHub.Subscribe(); err != nil {
		return err
	}

	if s.deps.NATS != nil {
		sub, err := s.deps.NATS.Subscribe(service.SubjectUplinkLocation, s.handleUplink)
		if err != nil {
			return err
		}
		s.uplinkSub = sub
		s.logger.Info("subscribed to uplink locations", zap.String("subject", service.SubjectUplinkLocation))
	}

	return s.presence.Start()
}

func (s *Server) handleUplink(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.devices.HandleUplink(ctx, msg.Data); err != nil {
		s.logger.Warn("uplink rejected", zap.Error(err))
		return
	}
	if s.events != nil {
		if err := s.events.PublishEvent("uplink.location", json.RawMessage(msg.Data)); err != nil {
			s.logger.Warn("record uplink event", zap.Error(err))
		}
	}
}

// Run serves HTTP on addr until Shutdown.
func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.uplinkSub != nil {
		_ = s.uplinkSub.Unsubscribe()
	}
	s.presence.Stop()
	s.wsHub.Stop()
	s.webhooks.Close()
	s.logger.Info("server stopped")
	return err
}
