package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/global-weather-forecast/internal/api/http"
	"github.com/i474232898/global-weather-forecast/internal/artifact"
	"github.com/i474232898/global-weather-forecast/internal/config"
	"github.com/i474232898/global-weather-forecast/internal/forecast"
	"github.com/i474232898/global-weather-forecast/internal/metrics"
	"github.com/i474232898/global-weather-forecast/internal/scheduler"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "global-weather-forecast",
		Short:         "Global mean temperature forecast API",
		Long:          "Serves next-day global mean temperature predictions from a frozen stacking ensemble (XGBoost + RidgeCV).",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Load and validate the model artifacts, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}

	rootCmd.AddCommand(serveCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadService reads config, loads all artifacts, and assembles the prediction
// service. Any failure here means the deployment is broken and the process
// must not serve traffic.
func loadService() (*config.AppConfig, *forecast.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	fetcher := artifact.NewFetcher(httpClient, artifact.BackoffConfig{
		MaxRetries:      cfg.FetchMaxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bundle, err := artifact.Load(ctx, artifact.Paths{
		Model:      cfg.ModelPath,
		Metadata:   cfg.MetadataPath,
		Historical: cfg.HistoricalPath,
	}, fetcher)
	if err != nil {
		return nil, nil, err
	}

	base := make([]forecast.Regressor, len(bundle.Base))
	for i, m := range bundle.Base {
		base[i] = m
	}
	ensemble, err := forecast.NewEnsemble(bundle.Scaler, base, bundle.Meta)
	if err != nil {
		return nil, nil, err
	}

	service, err := forecast.NewService(ensemble, bundle.History, bundle.Metadata)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("INFO: artifacts loaded: model=%s version=%s features=%d history=%d",
		bundle.Metadata.ModelName, bundle.Metadata.ModelVersion,
		len(bundle.Metadata.FeatureColumns), bundle.History.Len())

	return cfg, service, nil
}

func runServe() error {
	cfg, service, err := loadService()
	if err != nil {
		// Fail fast: refuse to accept requests with partial state.
		log.Fatalf("failed to initialize service: %v", err)
	}

	counters := metrics.New()

	sched := scheduler.New(cfg.StatsInterval, counters)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start stats scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "global-weather-forecast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Serve the browser frontend when it is deployed alongside the API.
	indexPath := filepath.Join(cfg.StaticDir, "index.html")
	if stat, err := os.Stat(cfg.StaticDir); err == nil && stat.IsDir() {
		app.Static("/static", cfg.StaticDir)
	}
	app.Get("/", func(c *fiber.Ctx) error {
		if _, err := os.Stat(indexPath); err == nil {
			return c.SendFile(indexPath)
		}
		return c.JSON(fiber.Map{
			"status":       "online",
			"message":      "Global Weather Forecast API is running",
			"model_loaded": true,
			"endpoints": fiber.Map{
				"predict":    "/predict_temperature/",
				"health":     "/health",
				"model_info": "/model_info",
			},
		})
	})

	httpapi.RegisterRoutes(app, service, counters, cfg.RequestTimeout)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: serving on port %s", cfg.Port)

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}

// runCheck is a deploy-time preflight: it performs the same artifact loading
// and cross-validation serve does, then reports and exits.
func runCheck() error {
	_, service, err := loadService()
	if err != nil {
		return fmt.Errorf("artifact check failed: %w", err)
	}

	info := service.ModelInfo()
	fmt.Printf("model:           %s\n", service.Metadata().ModelName)
	fmt.Printf("version:         %s\n", info.ModelVersion)
	fmt.Printf("trained:         %s\n", info.TrainingDate)
	fmt.Printf("base models:     %s\n", strings.Join(info.BaseModels, ", "))
	fmt.Printf("final estimator: %s\n", info.FinalEstimator)
	fmt.Printf("features (%d):   %s\n", info.FeatureCount, strings.Join(info.Features, ", "))
	fmt.Println("artifact check passed")
	return nil
}
