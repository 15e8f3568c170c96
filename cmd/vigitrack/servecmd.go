package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/genai"
	"github.com/abhishekpnaik05/vigitrack/internal/server"
)

var serveAddr string

var servecmd = &cobra.Command{
	Use:   "serve",
	Short: "starts the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var _ = func() (ret bool) {
	servecmd.Flags().StringVar(&serveAddr, "addr", "", `host:port to bind the api server to. defaults to :$API_PORT`)
	return
}()

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap("vigitrack-api")
	if err != nil {
		return err
	}
	defer log.Sync()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	log.Info("connected to redis", zap.String("addr", cfg.RedisURL))

	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL, nats.Name("vigitrack-api"), nats.MaxReconnects(-1))
		if err != nil {
			log.Warn("nats unavailable, fan-out stays in process", zap.Error(err))
			nc = nil
		} else {
			defer nc.Close()
			log.Info("connected to nats", zap.String("url", cfg.NATSURL))
		}
	}

	var gen genai.Generator = genai.Disabled{}
	if cfg.GenAI.Enabled() {
		gen = genai.NewGeminiClient(cfg.GenAI, log.Named("genai"))
	} else {
		log.Warn("GENAI_API_KEY not set, assistant flows will return 503")
	}

	srv := server.NewServer(cfg, server.Deps{Store: store, Redis: rdb, NATS: nc, Generator: gen}, log)
	srv.Setup()
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.APIPort)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(addr) }()

	select {
	case err = <-errCh:
		if err != nil {
			log.Error("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	return err
}
