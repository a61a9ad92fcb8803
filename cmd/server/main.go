package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"fairworkly/internal/audit"
	"fairworkly/internal/awards"
	"fairworkly/internal/employees"
	"fairworkly/internal/filestore"
	"fairworkly/internal/parser"
	"fairworkly/internal/platform/config"
	"fairworkly/internal/platform/httpserver"
	"fairworkly/internal/platform/kafka"
	"fairworkly/internal/platform/logger"
	"fairworkly/internal/platform/middleware"
	"fairworkly/internal/platform/postgres"
	platformredis "fairworkly/internal/platform/redis"
	"fairworkly/internal/ratelimit"
	"fairworkly/internal/validation"
	validationhandler "fairworkly/internal/validation/handler"
	validationmetrics "fairworkly/internal/validation/metrics"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages. Every external system is
// optional: without a database the stores fall back to memory, without Redis
// the cache is a pass-through, without Kafka the audit sink is dropped.
func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		validationStore validation.Store = validation.NewMemoryStore()
		employeeStore   employees.Store  = employees.NewMemoryStore()
		auditStore      audit.Store      = audit.NewMemoryStore()
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db, log); err != nil {
			log.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		validationStore = validation.NewPostgresStore(db)
		employeeStore = employees.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := kafka.New(cfg.Kafka)
	if err != nil {
		log.Error("kafka connection failed", "error", err)
		os.Exit(1)
	}
	if producer != nil {
		defer producer.Close()
	}

	var sinks []audit.Sink
	if sink := audit.NewKafkaSink(producer); sink != nil {
		sinks = append(sinks, sink)
	}
	auditPublisher := audit.NewPublisher(auditStore, sinks...)
	inbox := make(chan audit.Event, 256)
	worker := audit.NewWorker(auditPublisher, inbox, audit.WithWorkerLogger(log))

	files, err := filestore.NewLocal(cfg.FileStorageRoot)
	if err != nil {
		log.Error("file storage init failed", "error", err)
		os.Exit(1)
	}

	service := validation.New(
		validationStore,
		parser.NewCSVParser(),
		employees.NewDirectory(employeeStore, employees.WithLogger(log)),
		files,
		awards.DefaultProvider(),
		validation.WithLogger(log),
		validation.WithAuditPublisher(audit.NewChannelPublisher(inbox)),
		validation.WithMetrics(validationmetrics.New()),
		validation.WithResultCache(validation.NewResultCache(redisClient, cfg.Redis.ResultTTL)),
	)

	var bucketStore ratelimit.BucketStore = ratelimit.NewMemoryStore()
	if store := ratelimit.NewRedisStore(redisClient); store != nil {
		bucketStore = store
	}
	limiter := ratelimit.NewLimiter(bucketStore,
		cfg.RateLimit.UploadLimit, cfg.RateLimit.UploadWindow,
		ratelimit.WithLogger(log),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(ratelimit.Middleware(limiter))
		validationhandler.New(service, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting fairworkly", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
