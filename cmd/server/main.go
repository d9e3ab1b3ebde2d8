package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hacknight/server/internal/api"
	"github.com/hacknight/server/internal/config"
	"github.com/hacknight/server/internal/domain/identity"
	"github.com/hacknight/server/internal/events"
	"github.com/hacknight/server/internal/jobs"
	"github.com/hacknight/server/internal/slack"
	"github.com/hacknight/server/internal/storage/postgres"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	root := &cobra.Command{
		Use:           "hacknight-server",
		Short:         "Hackathon backend: identity, teams, hacks, challenges, events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCommand(), migrateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the event delivery worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := config.NewLogger(cfg.Logging)
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}

	workers, err := jobs.NewWorkers(cfg.Pusher.WebhookURL, logger)
	if err != nil {
		return fmt.Errorf("register workers: %w", err)
	}
	riverClient, err := jobs.NewClient(pool, workers, slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}

	emitter := events.NewRiverEmitter(riverClient, cfg.Pusher.Channel, logger)

	directory := slack.NewClient(cfg.Slack.BaseURL, cfg.Slack.BotToken,
		slack.WithRateLimit(cfg.Slack.RateLimit),
		slack.WithHTTPClient(&http.Client{Timeout: cfg.Slack.Timeout}),
	)
	resolver := identity.NewService(repo.Identity(), directory, cfg.Auth.AttendeeSecret, logger)

	router := api.NewRouter(api.Dependencies{
		Config:   cfg,
		Logger:   logger,
		DB:       pool,
		Repo:     repo,
		Emitter:  emitter,
		Resolver: resolver,
	})

	server := &http.Server{
		Addr:              cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		if err := riverClient.Start(ctx); err != nil {
			return fmt.Errorf("job client: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("http shutdown error")
		}
		if err := riverClient.Stop(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("job client shutdown error")
		}
		return nil
	})

	return group.Wait()
}

func migrateCommand() *cobra.Command {
	var migrationsPath string

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema",
	}
	migrate.PersistentFlags().StringVar(&migrationsPath, "path", postgres.DefaultMigrationsPath, "migrations directory")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations, including the job queue's",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := postgres.MigrateUp(cfg.Database.URL, migrationsPath); err != nil {
				return err
			}

			pool, err := postgres.NewPool(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer pool.Close()
			return jobs.Migrate(cmd.Context(), pool)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return postgres.MigrateDown(cfg.Database.URL, migrationsPath, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	migrate.AddCommand(up, down)
	return migrate
}
