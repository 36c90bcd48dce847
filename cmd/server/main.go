package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gitlab.com/fcv-2025.net/fileget/internal/adapter/localfs"
	"gitlab.com/fcv-2025.net/fileget/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/fileget/internal/adapter/memory/transferlog"
	memworkerport "gitlab.com/fcv-2025.net/fileget/internal/adapter/memory/workerport"
	"gitlab.com/fcv-2025.net/fileget/internal/adapter/postgres/transferrepository"
	"gitlab.com/fcv-2025.net/fileget/internal/adapter/redis/workerport"
	"gitlab.com/fcv-2025.net/fileget/internal/config"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/transfer"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/worker"
	http2 "gitlab.com/fcv-2025.net/fileget/internal/http"
	"gitlab.com/fcv-2025.net/fileget/internal/schedulerengine"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

const connectTimeout = 5 * time.Second

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <port>\n", os.Args[0])
		os.Exit(1)
	}
	port, err := strconv.Atoi(os.Args[1])
	if err != nil || port < 0 || port > 65535 {
		fmt.Fprintf(os.Stderr, "invalid port %q\n", os.Args[1])
		os.Exit(1)
	}

	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	sysCfg := config.NewSystemConfig()

	logger := logging.NewZapLoggerWithLevel(sysCfg.LogLevel)
	defer logger.Sync()

	if err := run(sysCfg, port, logger); err != nil {
		logger.Error("Server failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(sysCfg *config.AppConfig, port int, logger primary.Logger) error {
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ctxBg := context.Background()
	ctx, cancel := context.WithCancel(ctxBg)
	defer cancel()

	// SECONDARY PORTS
	workerPort, closeRegistry, err := setupRegistry(ctx, sysCfg.RedisConfig, logger)
	if err != nil {
		return err
	}
	defer closeRegistry()

	transferPort, closeLog, err := setupTransferLog(ctx, sysCfg.PostgresConfig, logger)
	if err != nil {
		return err
	}
	defer closeLog()

	files := localfs.NewStore(sysCfg.ServerConfig.Root)

	// services
	workerService := worker.NewWorkerRegistryService(workerPort, logger)
	transferService := transfer.NewTransferLogService(transferPort, logger)

	// server
	pool := tcp.NewPool(workerService, transferService, files, logger,
		tcp.WithAddress(net.JoinHostPort("", strconv.Itoa(port))),
		tcp.WithServerConfig(sysCfg.ServerConfig),
		tcp.WithName(filepath.Base(os.Args[0])),
	)
	if err := pool.Start(ctx); err != nil {
		return err
	}
	logger.Info("Serving files", "root", files.Root(), "pid", os.Getpid())

	heartbeat := schedulerengine.NewHeartbeatEngine(workerService, logger, defs.HeartbeatInterval)
	heartbeat.Start(ctx)

	var httpServer *http2.Server
	if sysCfg.HTTPConfig.Addr != "" {
		serviceProvider := http2.NewServiceProvider(workerService, transferService, pool)
		httpServer = http2.NewServer(sysCfg.HTTPConfig.Addr, "fileget-admin", *serviceProvider, logger)
		if err := httpServer.Init(); err != nil {
			return err
		}
		if err := httpServer.Start(ctx); err != nil {
			return err
		}
	}

	<-quit
	logger.Info("Shutting down server...", "mode", sysCfg.ServerConfig.ShutdownMode)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctxBg, sysCfg.ServerConfig.DrainTimeout)
	defer shutdownCancel()

	if httpServer != nil {
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Warn("Admin server shutdown failed", "error", err)
		}
	}
	if err := pool.Shutdown(shutdownCtx, sysCfg.ServerConfig.ShutdownMode); err != nil {
		logger.Warn("Worker pool shutdown incomplete", "error", err)
	}
	cancel()
	heartbeat.Wait()

	logger.Info("successfully shutdown server")
	return nil
}

// setupRegistry returns the Redis worker registry when REDIS_ADDR is set and
// the in-memory one otherwise.
func setupRegistry(ctx context.Context, cfg *config.RedisConfig, logger primary.Logger) (secondary.WorkerRepository, func(), error) {
	if cfg.Url == "" {
		logger.Info("Using in-memory worker registry")
		return memworkerport.NewWorkerRepository(), func() {}, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Url, err)
	}

	logger.Info("Using redis worker registry", "addr", cfg.Url)
	return workerport.NewWorkerRepository(redisClient, logger), func() { redisClient.Close() }, nil
}

// setupTransferLog returns the PostgreSQL transfer log when DATABASE_URL is
// set and the in-memory ring otherwise.
func setupTransferLog(ctx context.Context, cfg *config.PostgresConfig, logger primary.Logger) (secondary.TransferRepository, func(), error) {
	if cfg.Url == "" {
		logger.Info("Using in-memory transfer log")
		return transferlog.NewTransferRepository(transferlog.DefaultCapacity), func() {}, nil
	}

	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(connCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := transferrepository.NewTransferRepository(db, logger, cfg.Schema)
	if err := repo.EnsureSchema(connCtx); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("Using postgres transfer log", "schema", cfg.Schema)
	return repo, func() { db.Close() }, nil
}
