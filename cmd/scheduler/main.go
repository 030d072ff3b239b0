package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agentdesk/agent-scheduler/internal/archive"
	"github.com/agentdesk/agent-scheduler/internal/config"
	"github.com/agentdesk/agent-scheduler/internal/cron"
	"github.com/agentdesk/agent-scheduler/internal/executor"
	"github.com/agentdesk/agent-scheduler/internal/handlers"
	"github.com/agentdesk/agent-scheduler/internal/logger"
	"github.com/agentdesk/agent-scheduler/internal/metrics"
	"github.com/agentdesk/agent-scheduler/internal/middleware"
	"github.com/agentdesk/agent-scheduler/internal/scheduler"
)

func main() {
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log := logger.Build(cfg.Logger)
	defer log.Sync()

	log.Info("Starting agent scheduler",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Int("workers", len(cfg.Workers)))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedMetrics := metrics.New(registry)

	execRegistry := executor.NewRegistry()
	executor.RegisterSimulatedAgents(execRegistry)

	opts := []scheduler.Option{
		scheduler.WithLogger(log.Named("scheduler")),
		scheduler.WithMetrics(schedMetrics),
	}

	var arch *archive.Archive
	if cfg.Redis.Addr != "" {
		arch, err = archive.New(cfg.Redis, log.Named("archive"))
		if err != nil {
			log.Error("Failed to connect to Redis archive", zap.Error(err))
			os.Exit(1)
		}
		defer arch.Close()

		opts = append(opts, scheduler.WithTerminalHook(arch.Record))
		log.Info("Task archive enabled", zap.String("addr", cfg.Redis.Addr))
	}

	sched := scheduler.New(cfg.Workers, execRegistry, scheduler.Options{
		MaxGlobalConcurrency:       cfg.Scheduler.MaxGlobalConcurrency,
		EnableLoadBalancing:        cfg.Scheduler.EnableLoadBalancing,
		EnableTaskPrioritization:   cfg.Scheduler.EnableTaskPrioritization,
		EnableDependencyResolution: cfg.Scheduler.EnableDependencyResolution,
	}, opts...)
	defer sched.Close()

	jobs, err := cron.New(sched, arch, cfg.Cron, log.Named("cron"))
	if err != nil {
		log.Error("Failed to build cron scheduler", zap.Error(err))
		os.Exit(1)
	}
	jobs.RegisterJobs()
	defer jobs.Stop()

	router := mux.NewRouter()
	router.Use(middleware.Logging(log.Named("http")))
	router.Use(middleware.RateLimit(cfg.Server.RequestsPerSecond, cfg.Server.Burst, log.Named("http")))

	handlers.NewTaskHandler(sched, log.Named("handlers")).Register(router)

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", zap.Error(err))
			rootCancel()
		}
	}()

	<-rootCtx.Done()
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shut down", zap.Error(err))
	}

	log.Info("Server exited")
}
