// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/clinic-booking/booking"
	"github.com/ariebrainware/clinic-booking/config"
	"github.com/ariebrainware/clinic-booking/docs"
	"github.com/ariebrainware/clinic-booking/endpoint"
	"github.com/ariebrainware/clinic-booking/middleware"
	"github.com/ariebrainware/clinic-booking/model"
	"github.com/ariebrainware/clinic-booking/store"
	"github.com/ariebrainware/clinic-booking/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title        Clinic Booking API
// @version      1.0
// @description  Patient registry and appointment booking with a daily capacity.
// @BasePath     /
func main() {
	// Load the configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := util.NewLogger(util.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	if err := config.Migrate(db, model.Models()...); err != nil {
		return err
	}

	util.SetAuditLogger(logger)
	util.SetAuditLoggerDB(db)

	geo, err := util.OpenGeoLocator(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("geoip database unavailable", zap.String("path", cfg.GeoIPDBPath), zap.Error(err))
	}
	defer func() { _ = geo.Close() }()
	util.SetAuditGeoLocator(geo)

	if _, err := config.ConnectRedis(cfg); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
	}

	tp, err := util.InitTracer(ctx, util.TracerConfig{
		Enabled:     cfg.TracingEnabled,
		ServiceName: cfg.AppName,
		Endpoint:    cfg.TracingEndpoint,
		SampleRate:  cfg.TracingSampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := util.NewMetrics(registry)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	svc := booking.NewService(store.NewGormStore(db), booking.Options{
		Scheduler: booking.SchedulerConfig{
			Capacity:     cfg.BookingCapacity,
			MaxRetries:   cfg.BookingMaxRetries,
			RetryBackoff: cfg.BookingRetryBackoff,
			Location:     loc,
		},
		Recorder: metrics,
		Logger:   logger,
	})

	// Counters are derived data; realign them with the patient rows before
	// accepting traffic.
	if err := svc.RebuildSlotCounters(ctx); err != nil {
		return fmt.Errorf("rebuilding slot counters: %w", err)
	}

	router := setupRouter(cfg, db, svc, metrics, registry)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.Int("booking_capacity", cfg.BookingCapacity),
			zap.String("clinic_timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func setupRouter(cfg *config.Config, db *gorm.DB, svc *booking.Service, metrics *util.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORSMiddleware(),
		middleware.Metrics(metrics),
		middleware.EndpointCallLogger(),
		middleware.DatabaseMiddleware(db),
		middleware.ServiceMiddleware(svc),
	)

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})
	router.GET("/health", endpoint.HealthCheck)
	router.GET("/metrics", gin.WrapH(util.MetricsHandler(gatherer)))

	docs.SwaggerInfo.Title = fmt.Sprintf("%s API", cfg.AppName)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limited := middleware.RateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.RateLimit,
		Window: cfg.RateWindow,
	})

	router.GET("/patient", endpoint.ListPatients)
	router.GET("/patient/lookup", endpoint.FindPatient)
	router.POST("/patient", limited, endpoint.CreatePatient)
	router.POST("/appointment", limited, endpoint.BookAppointment)
	router.GET("/appointment/:date", endpoint.GetAvailability)

	return router
}
