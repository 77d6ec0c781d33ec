package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"barcodegen/internal/config"
	"barcodegen/internal/domain"
	"barcodegen/internal/http/handlers"
	"barcodegen/internal/http/server"
	"barcodegen/internal/infra/cache"
	"barcodegen/internal/infra/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "barcodegen",
		Short:         "HTTP service that renders barcodes as PNG images",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(loadConfig(configPath))
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (defaults to $CONFIG_PATH or config.yaml)")
	root.AddCommand(newRenderCmd(&configPath))
	return root
}

func newRenderCmd(configPath *string) *cobra.Command {
	var (
		data      string
		symbology string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a single barcode to a file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				return fmt.Errorf("--data is required")
			}
			svc := handlers.NewBarcodeService(loadConfig(*configPath), nil)
			img, err := svc.Render(cmd.Context(), domain.BarcodeRequest{Data: data, Symbology: symbology})
			if err != nil {
				return err
			}

			if out != "" && out != "-" {
				return os.WriteFile(out, img.Data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(img.Data)
			return err
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "text to encode")
	cmd.Flags().StringVar(&symbology, "type", domain.DefaultSymbology, "barcode type")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty or -)")
	return cmd
}

func loadConfig(path string) config.Config {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// serve runs the HTTP server until SIGINT/SIGTERM or a listen failure.
func serve(cfg config.Config) error {
	logging.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)

	store := newCacheStore(cfg.Cache)
	if store != nil {
		defer store.Close()
	}

	app := server.New(server.Deps{Config: cfg, Cache: store})

	idleConnsClosed := make(chan struct{})
	err := startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
	return err
}

// newCacheStore returns nil when caching is disabled.
func newCacheStore(cfg config.CacheConfig) cache.Store {
	switch cfg.Backend {
	case cache.BackendRedis:
		logging.Info("Using Redis render cache", "addr", cfg.RedisHost, "db", cfg.RedisDB)
		return cache.NewRedisStore(redis.NewClient(&redis.Options{
			Addr: cfg.RedisHost,
			DB:   cfg.RedisDB,
		}))
	case cache.BackendMemory:
		logging.Info("Using in-memory render cache")
		return cache.NewMemoryStore()
	default:
		return nil
	}
}

// startServer starts the Fiber app and listens for shutdown signals.
// It returns the listen error if the server could not be started.
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) error {
	listenErr := make(chan error, 1)
	go func() {
		logging.Info("Server listening", "addr", cfg.Addr())
		listenErr <- app.Listen(cfg.Addr())
	}()

	// Listen for OS termination signals
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		close(idleConnsClosed)
		if err != nil {
			logging.Error("Server error", "error", err)
			return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
		}
		return nil
	case <-sigint:
	}

	logging.Warn("Shutdown signal received, closing server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	logging.Info("Server stopped cleanly")
	return nil
}
