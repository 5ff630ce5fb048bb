package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeffreyotan/fsdfinal/internal/app"
	"github.com/jeffreyotan/fsdfinal/internal/config"
	"github.com/jeffreyotan/fsdfinal/internal/db"
	"github.com/jeffreyotan/fsdfinal/internal/logger"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error("command failed", map[string]any{
			"error": err.Error(),
		})
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:          "fsdfinal",
		Short:        "Quick Journal API and chat server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded
			logger.Init(cfg.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), cfg)
		},
	})

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("fsdfinal started", map[string]any{
			"port": cfg.AppPort,
		})
		return application.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return application.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("fsdfinal stopped cleanly", nil)
	return nil
}

func migrate(ctx context.Context, cfg config.Config) error {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(ctx, database.DB); err != nil {
		return err
	}

	logger.Info("schema applied", nil)
	return nil
}
