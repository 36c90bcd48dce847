package config

import (
	"os"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

type ShutdownMode string

const (
	ShutdownHard  ShutdownMode = "hard"
	ShutdownDrain ShutdownMode = "drain"
)

type ServerConfig struct {
	Workers      int
	Backlog      int
	IdleTimeout  time.Duration
	BufferSize   int
	// Root is the directory requested names are resolved against. Names that
	// would resolve outside it are never served.
	Root         string
	Respawn      bool
	ShutdownMode ShutdownMode
	// DrainTimeout bounds a drain shutdown before remaining connections are dropped.
	DrainTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	cfg := &ServerConfig{
		Workers:      getIntEnv("FILEGET_WORKERS", defs.DefaultWorkers),
		Backlog:      getIntEnv("FILEGET_BACKLOG", defs.DefaultBacklog),
		IdleTimeout:  getSecondsEnv("FILEGET_IDLE_TIMEOUT_SEC", defs.DefaultIdleTimeout),
		BufferSize:   getIntEnv("FILEGET_BUFFER_SIZE", defs.DefaultBufferSize),
		Root:         getEnv("FILEGET_ROOT", "."),
		Respawn:      os.Getenv("FILEGET_RESPAWN") == "true",
		ShutdownMode: ShutdownMode(getEnv("FILEGET_SHUTDOWN_MODE", string(ShutdownHard))),
		DrainTimeout: getSecondsEnv("FILEGET_DRAIN_TIMEOUT_SEC", 30*time.Second),
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defs.DefaultWorkers
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = defs.DefaultBacklog
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defs.DefaultBufferSize
	}
	if cfg.ShutdownMode != ShutdownDrain {
		cfg.ShutdownMode = ShutdownHard
	}
	return cfg
}
