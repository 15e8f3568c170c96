package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

var (
	seedEmail    string
	seedPassword string
)

var seedcmd = &cobra.Command{
	Use:   "seed",
	Short: "loads the demo account and sample fleet",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap("vigitrack-seed")
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		store, closeStore, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()

		auth := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.JWTTTL, log)
		user, err := service.NewSeeder(store, auth, log).Seed(ctx, seedEmail, seedPassword)
		if err != nil {
			return err
		}
		log.Info("demo data ready", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
		return nil
	},
}

var _ = func() (ret bool) {
	seedcmd.Flags().StringVar(&seedEmail, "email", "demo@vigitrack.local", `email of the demo account`)
	seedcmd.Flags().StringVar(&seedPassword, "password", "vigitrack-demo", `password of the demo account`)
	return
}()
