package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	database "eventhub_backend/internals/databases"
	paymentService "eventhub_backend/internals/features/payments/payment/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	helperOSS "eventhub_backend/internals/helpers/oss"
	middlewares "eventhub_backend/internals/middlewares"
	"eventhub_backend/internals/middlewares/logger"
	routes "eventhub_backend/internals/route"
	"eventhub_backend/internals/seeds"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "eventhub",
		Short: "Event hosting & booking backend",
		// no subcommand → serve
		RunE: func(cmd *cobra.Command, args []string) error { return runServe() },
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("✅ migration done")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-super-admin",
		Short: "Create the SUPER_ADMIN account from SUPER_ADMIN_* variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return seeds.RunAllSeeds(ctx, db, cfg, log)
		},
	}
}

// bootstrap loads config, builds the logger and opens the DB pool.
func bootstrap() (*configs.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := configs.Load(envFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config: %w", err)
	}
	log := configs.NewLogger(cfg, os.Stdout)
	slog.SetDefault(log)

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database: %w", err)
	}
	return cfg, log, db, nil
}

func runServe() error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	database.WarmUp(db, log)

	blob, err := helperOSS.NewBlobService(cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	tokens := helpersAuth.NewTokenService(cfg.JWT)

	// ✅ MIDTRANS
	gateway := paymentService.NewMidtransGateway(cfg.Payment, cfg.BackendURL)

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             10 * 1024 * 1024,
		ErrorHandler:          middlewares.NewErrorHandler(cfg, blob, log),
	})

	// ⚙️ middleware dasar + performa
	app.Use(middlewares.RecoveryMiddleware(cfg.IsDevelopment()))
	app.Use(middlewares.RequestContext(cfg.RequestTimeout, log))
	app.Use(logger.LoggerMiddleware(os.Stdout))
	app.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	app.Use(middlewares.GlobalRateLimiter())

	if _, ok := blob.(*helperOSS.LocalBlobService); ok {
		app.Static(cfg.Storage.UploadPublicBase, cfg.Storage.UploadDir)
	}

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:      db,
		Config:  cfg,
		Tokens:  tokens,
		Blob:    blob,
		Gateway: gateway,
		Log:     log,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	errCh := make(chan error, 1)
	go func() {
		log.Info("✅ Listening", "port", cfg.Port, "env", cfg.Env)
		errCh <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		_ = database.Close(db)
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("shutdown", "err", err)
	}
	return database.Close(db)
}
